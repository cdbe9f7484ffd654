package pageobject

import (
	"context"
	"testing"

	"page_objects/domain/entities"
	"page_objects/domain/interfaces/mocks"
	"page_objects/domain/locators"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogHTML = `<!DOCTYPE html>
<html><body>
<ul id="catalog">
  <li class="product"><span class="title">Teapot</span> <em>new</em></li>
  <li class="product"><span class="title">Tea cup</span></li>
  <li class="product">Kettle</li>
  <li class="product" style="display: none"><span class="title">Saucer</span></li>
</ul>
<li class="product">Outside</li>
</body></html>`

type product struct {
	*Component
}

func (*product) BuildItem(ctx context.Context, page *Page, base locators.XPath) (*product, error) {
	c, err := NewComponent(ctx, page, base, WithComponentName("Product"), WithReadiness(ReadyImmediately))
	if err != nil {
		return nil, err
	}
	return &product{Component: c}, nil
}

func (p *product) Title(ctx context.Context) (string, error) {
	return p.Body.Text(ctx, IncludeHidden())
}

var catalogDefinition = ListDefinition{
	Name:                "Catalog",
	Base:                locators.ID("catalog"),
	RelativeItemLocator: locators.Class("product", locators.Container("li")),
}

// titleFactory - builds items as their rendered text
func titleFactory(ctx context.Context, page *Page, base locators.XPath) (string, error) {
	return page.InitElement(base).Text(ctx, IncludeHidden())
}

func TestListItemTypeResolution(t *testing.T) {
	ctx := context.Background()
	_, page := newStaticPage(t, catalogHTML)

	t.Run("item builder", func(t *testing.T) {
		list, err := DefineList[*product](catalogDefinition).New(ctx, page)
		require.NoError(t, err)
		require.True(t, list.HasItemType())

		first, err := list.ItemAt(ctx, 0)
		require.NoError(t, err)
		title, err := first.Title(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Teapot new", title)
	})

	t.Run("plain component", func(t *testing.T) {
		list, err := DefineList[*Component](catalogDefinition).New(ctx, page)
		require.NoError(t, err)

		last, err := list.ItemAt(ctx, -1)
		require.NoError(t, err)
		assert.Equal(t, `(//*[@id="catalog"]//li[contains(@class, "product")])[last()]`, last.BaseLocator().Query())
	})

	t.Run("declared factory", func(t *testing.T) {
		spec := DefineList[string](catalogDefinition).WithItems(titleFactory)
		list, err := spec.New(ctx, page)
		require.NoError(t, err)

		titles, err := list.All(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Teapot new", "Tea cup", "Kettle", "Saucer"}, titles)
	})

	t.Run("unresolved", func(t *testing.T) {
		spec := DefineList[string](catalogDefinition)
		assert.False(t, spec.HasItemType())

		list, err := spec.New(ctx, page)
		require.NoError(t, err)
		assert.False(t, list.HasItemType())

		_, err = list.All(ctx)
		require.ErrorIs(t, err, ErrUnresolvedItemType)
		_, err = list.ItemAt(ctx, 0)
		require.ErrorIs(t, err, ErrUnresolvedItemType)
		_, err = list.GetItemByText(ctx, "Kettle", true)
		require.ErrorIs(t, err, ErrUnresolvedItemType)

		count, err := list.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})
}

func TestListSpecDerivation(t *testing.T) {
	ctx := context.Background()
	_, page := newStaticPage(t, catalogHTML)

	upper := func(ctx context.Context, page *Page, base locators.XPath) (string, error) {
		return "ignored", nil
	}

	base := DefineList[string](catalogDefinition).WithItems(titleFactory)
	derived := base.WithItems(upper).Extend(func(def *ListDefinition) {
		def.Name = "Titles"
		def.RelativeItemLocator = locators.Class("title", locators.Container("span"))
	})

	require.True(t, derived.HasItemType())
	assert.Equal(t, "Titles", derived.Definition().Name)
	assert.Equal(t, "Catalog", base.Definition().Name, "base spec is untouched")

	list, err := derived.New(ctx, page)
	require.NoError(t, err)
	titles, err := list.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Teapot", "Tea cup", "Saucer"}, titles)
}

func TestListItemLocators(t *testing.T) {
	ctx := context.Background()
	_, page := newStaticPage(t, catalogHTML)

	tests := []struct {
		name    string
		adjust  func(def *ListDefinition)
		want    string
		wantErr error
	}{
		{
			name: "relative",
			want: `//*[@id="catalog"]//li[contains(@class, "product")]`,
		},
		{
			name: "absolute",
			adjust: func(def *ListDefinition) {
				def.RelativeItemLocator = locators.XPath{}
				def.ItemLocator = locators.Class("product")
			},
			want: `//*[contains(@class, "product")]`,
		},
		{
			name: "computed from base",
			adjust: func(def *ListDefinition) {
				def.RelativeItemLocator = locators.XPath{}
				def.BaseItemLocator = func(base locators.XPath) (locators.XPath, error) {
					return base.ChildQuery("li")
				}
			},
			want: `//*[@id="catalog"]/li`,
		},
		{
			name: "relative and absolute",
			adjust: func(def *ListDefinition) {
				def.ItemLocator = locators.Class("product")
			},
			wantErr: ErrAmbiguousItemLocator,
		},
		{
			name: "computed and relative",
			adjust: func(def *ListDefinition) {
				def.BaseItemLocator = func(base locators.XPath) (locators.XPath, error) { return base, nil }
			},
			wantErr: ErrAmbiguousItemLocator,
		},
		{
			name: "nothing",
			adjust: func(def *ListDefinition) {
				def.RelativeItemLocator = locators.XPath{}
			},
			wantErr: ErrMissingItemLocator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := DefineList[*Component](catalogDefinition)
			if tt.adjust != nil {
				spec = spec.Extend(tt.adjust)
			}
			list, err := spec.New(ctx, page)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			loc, err := list.BaseItemLocator()
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc.Query())
		})
	}
}

func TestListContent(t *testing.T) {
	ctx := context.Background()
	_, page := newStaticPage(t, catalogHTML)
	list, err := DefineList[*product](catalogDefinition).New(ctx, page)
	require.NoError(t, err)

	count, err := list.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count, "hidden items are counted")

	items, err := list.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)
	for i, item := range items {
		assert.Equal(t, catalogItem(t, list, i), item.BaseLocator().Query())
	}

	displayed, err := items[3].Body.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.False(t, displayed)
}

func catalogItem(t *testing.T, list *ListComponent[*product], i int) string {
	t.Helper()
	loc, err := list.BaseItemLocator()
	require.NoError(t, err)
	return loc.At(i).Query()
}

func TestEmptyListAll(t *testing.T) {
	ctx := context.Background()
	_, page := newStaticPage(t, `<html><body><ul id="catalog"></ul></body></html>`)
	list, err := DefineList[*product](catalogDefinition).New(ctx, page, WithReadiness(ReadyImmediately))
	require.NoError(t, err)

	items, err := list.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetItemByText(t *testing.T) {
	ctx := context.Background()
	_, page := newStaticPage(t, catalogHTML)
	list, err := DefineList[*product](catalogDefinition).New(ctx, page)
	require.NoError(t, err)

	kettle, err := list.GetItemByText(ctx, "Kettle", true)
	require.NoError(t, err)
	title, err := kettle.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kettle", title)

	teapot, err := list.GetItemByText(ctx, "pot", false)
	require.NoError(t, err)
	title, err = teapot.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Teapot new", title)

	// Text is wrapped into span, so item itself has no such own text
	missing, err := list.GetItemByText(ctx, "Tea cup", true)
	require.NoError(t, err)
	_, err = missing.Body.Text(ctx)
	require.ErrorIs(t, err, ErrNotVisible)

	titled, err := DefineList[*product](catalogDefinition).Extend(func(def *ListDefinition) {
		def.ItemText = locators.Class("title")
	}).New(ctx, page)
	require.NoError(t, err)
	cup, err := titled.GetItemByText(ctx, "Tea cup", true)
	require.NoError(t, err)
	title, err = cup.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Tea cup", title)
}

func TestItemByTextLocator(t *testing.T) {
	relative := `//*[@id="catalog"]//li[contains(@class, "product")]`

	tests := []struct {
		name     string
		platform entities.Platform
		itemText locators.XPath
		text     string
		exact    bool
		want     string
	}{
		{
			name:     "web exact",
			platform: entities.PlatformWeb,
			text:     "Tea cup",
			exact:    true,
			want:     relative + `[./text()="Tea cup"]`,
		},
		{
			name:     "web partial with quotes",
			platform: entities.PlatformWeb,
			text:     `6" pot`,
			want:     relative + `[contains(., concat("6", '"', " pot"))]`,
		},
		{
			name:     "web exact in nested node",
			platform: entities.PlatformWeb,
			itemText: locators.Class("title"),
			text:     "Tea cup",
			exact:    true,
			want:     relative + `[.//*[contains(@class, "title")][./text()="Tea cup"]]`,
		},
		{
			name:     "android exact",
			platform: entities.PlatformAndroid,
			text:     "Tea cup",
			exact:    true,
			want:     `(` + relative + `)[self::node()[@text="Tea cup"] | .//*[@text="Tea cup"]]`,
		},
		{
			name:     "android partial",
			platform: entities.PlatformAndroid,
			text:     "Tea",
			want:     `(` + relative + `)[self::node()[contains(@text, "Tea")] | .//*[contains(@text, "Tea")]]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig()
			config.Platform = tt.platform
			page, err := NewPage(context.Background(), &mocks.MockSession{}, config)
			require.NoError(t, err)

			def := catalogDefinition
			def.ItemText = tt.itemText
			list, err := DefineList[*Component](def).New(context.Background(), page, WithReadiness(ReadyImmediately))
			require.NoError(t, err)

			loc, err := list.ItemByTextLocator(tt.text, tt.exact)
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc.Query())
		})
	}
}

func TestItemTypeAcrossDerivationChain(t *testing.T) {
	ctx := context.Background()
	_, page := newStaticPage(t, catalogHTML)
	rename := func(name string) func(def *ListDefinition) {
		return func(def *ListDefinition) { def.Name = name }
	}

	top := DefineList[string](catalogDefinition).WithItems(titleFactory)
	leaf := top.Extend(rename("Middle")).Extend(rename("Leaf"))
	require.True(t, leaf.HasItemType())
	list, err := leaf.New(ctx, page)
	require.NoError(t, err)
	titles, err := list.All(ctx)
	require.NoError(t, err)
	assert.Len(t, titles, 4)

	open := DefineList[string](catalogDefinition)
	openMiddle := open.Extend(rename("OpenMiddle"))
	closed := openMiddle.Extend(rename("Closed")).WithItems(titleFactory)
	assert.False(t, open.HasItemType())
	assert.False(t, openMiddle.HasItemType())
	assert.True(t, closed.HasItemType())

	middleList, err := openMiddle.New(ctx, page)
	require.NoError(t, err)
	_, err = middleList.All(ctx)
	require.ErrorIs(t, err, ErrUnresolvedItemType)

	closedList, err := closed.New(ctx, page)
	require.NoError(t, err)
	titles, err = closedList.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Kettle", titles[2])
}

const nestedListHTML = `<!DOCTYPE html>
<html><body>
<div id="board">
  <header><li class="item">first</li></header>
  <li class="item">second</li>
  <section><div><li class="item">third</li></div></section>
</div>
</body></html>`

func TestListFollowsDocumentOrder(t *testing.T) {
	ctx := context.Background()
	_, page := newStaticPage(t, nestedListHTML)

	list, err := DefineList[string](ListDefinition{
		Name:                "Board",
		Base:                locators.ID("board"),
		RelativeItemLocator: locators.Class("item", locators.Container("li")),
	}).WithItems(titleFactory).New(ctx, page)
	require.NoError(t, err)

	all, err := list.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, all)

	first, err := list.ItemAt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "first", first)

	last, err := list.ItemAt(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, "third", last)

	middle, err := list.ItemAt(ctx, -2)
	require.NoError(t, err)
	assert.Equal(t, "second", middle)
}
