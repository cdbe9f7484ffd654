package pageobject

import (
	"context"
	"fmt"

	"page_objects/domain/locators"
)

// ItemFactory builds list item anchored at base locator
type ItemFactory[T any] func(ctx context.Context, page *Page, base locators.XPath) (T, error)

// ItemBuilder is implemented by item types that know how to build themselves.
// The method is called on zero value of T, so pointer types must not
// dereference the receiver.
type ItemBuilder[T any] interface {
	BuildItem(ctx context.Context, page *Page, base locators.XPath) (T, error)
}

// ListDefinition describes list-like component. Exactly one of ItemLocator,
// RelativeItemLocator and BaseItemLocator must be set.
type ListDefinition struct {
	Name string
	Base locators.XPath

	// ItemLocator matches items anywhere in document
	ItemLocator locators.XPath

	// RelativeItemLocator matches items nested into Base
	RelativeItemLocator locators.XPath

	// BaseItemLocator computes item locator from effective base locator
	BaseItemLocator func(base locators.XPath) (locators.XPath, error)

	// ItemText optionally points to the node inside item holding its text
	ItemText locators.XPath

	// Readiness replaces default visibility wait when set
	Readiness Readiness
}

// ListSpec is a list definition which item type may still be unknown.
// Once declared, item type is kept by every spec derived with Extend.
type ListSpec[T any] struct {
	def   ListDefinition
	items ItemFactory[T]
}

// DefineList - starts list spec without declared item type
func DefineList[T any](def ListDefinition) ListSpec[T] {
	return ListSpec[T]{def: def}
}

// WithItems - declares how items are built, earlier declaration wins
func (s ListSpec[T]) WithItems(factory ItemFactory[T]) ListSpec[T] {
	if s.items == nil {
		s.items = factory
	}
	return s
}

// Extend - derives spec with adjusted definition, declared item type is kept
func (s ListSpec[T]) Extend(adjust func(def *ListDefinition)) ListSpec[T] {
	def := s.def
	adjust(&def)
	s.def = def
	return s
}

func (s ListSpec[T]) Definition() ListDefinition { return s.def }

// HasItemType - reports whether item type is declared
func (s ListSpec[T]) HasItemType() bool { return s.items != nil }

// New - initializes list component on page. Undeclared item type is resolved
// from T itself: *Component or type implementing ItemBuilder.
func (s ListSpec[T]) New(ctx context.Context, page *Page, opts ...ComponentOption) (*ListComponent[T], error) {
	settings := componentSettings{name: s.def.Name, base: s.def.Base, ready: s.def.Readiness}
	if settings.name == "" {
		settings.name = "ListComponent"
	}
	if settings.ready == nil {
		settings.ready = ReadyWhenVisible
	}
	for _, opt := range opts {
		opt(&settings)
	}

	c, err := newComponent(page, settings)
	if err != nil {
		return nil, err
	}

	items := s.items
	if items == nil {
		items = resolveItemFactory[T]()
	}
	list := &ListComponent[T]{Component: c, def: s.def, items: items}
	if _, err := list.BaseItemLocator(); err != nil {
		return nil, fmt.Errorf("list `%s`: %w", settings.name, err)
	}

	if err := settings.ready(ctx, c); err != nil {
		return nil, fmt.Errorf("list `%s` is not ready: %w", settings.name, err)
	}
	return list, nil
}

func resolveItemFactory[T any]() ItemFactory[T] {
	var zero T
	if builder, ok := any(zero).(ItemBuilder[T]); ok {
		return builder.BuildItem
	}
	if _, ok := any(zero).(*Component); ok {
		return func(ctx context.Context, page *Page, base locators.XPath) (T, error) {
			var item T
			c, err := NewComponent(ctx, page, base, WithComponentName("Item"), WithReadiness(ReadyImmediately))
			if err != nil {
				return item, err
			}
			return any(c).(T), nil
		}
	}
	return nil
}

// ListComponent is a component holding repeated items of type T.
type ListComponent[T any] struct {
	*Component
	def   ListDefinition
	items ItemFactory[T]
}

// HasItemType - reports whether items can be built
func (l *ListComponent[T]) HasItemType() bool { return l.items != nil }

// BaseItemLocator - locator matching every item of list
func (l *ListComponent[T]) BaseItemLocator() (locators.XPath, error) {
	d := l.def
	relative, absolute := !d.RelativeItemLocator.IsEmpty(), !d.ItemLocator.IsEmpty()

	if d.BaseItemLocator != nil {
		if relative || absolute {
			return locators.XPath{}, ErrAmbiguousItemLocator
		}
		return d.BaseItemLocator(l.BaseLocator())
	}
	switch {
	case relative && absolute:
		return locators.XPath{}, ErrAmbiguousItemLocator
	case absolute:
		return d.ItemLocator, nil
	case !relative:
		return locators.XPath{}, ErrMissingItemLocator
	}
	return l.BaseLocator().Descendant(d.RelativeItemLocator)
}

// Count - number of items in document, hidden ones included
func (l *ListComponent[T]) Count(ctx context.Context) (int, error) {
	loc, err := l.BaseItemLocator()
	if err != nil {
		return 0, err
	}
	found, err := l.FindAll(ctx, loc, false)
	if err != nil {
		return 0, err
	}
	return len(found), nil
}

// All - builds item per element currently matching item locator
func (l *ListComponent[T]) All(ctx context.Context) ([]T, error) {
	if l.items == nil {
		return nil, ErrUnresolvedItemType
	}
	loc, err := l.BaseItemLocator()
	if err != nil {
		return nil, err
	}

	// Items may be in DOM but not rendered yet
	exists, err := l.View.InitElement(loc).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		if err := l.WaitUntilLocatorVisible(ctx, loc); err != nil {
			return nil, err
		}
	}

	indexed, err := l.IterLocators(ctx, loc, false)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, len(indexed))
	for _, itemLoc := range indexed {
		item, err := l.items(ctx, l.Page(), itemLoc)
		if err != nil {
			return nil, fmt.Errorf("failed to build item %s: %w", itemLoc.Query(), err)
		}
		items = append(items, item)
	}
	return items, nil
}

// ItemAt - item by zero-based position, negative index counts from the end
func (l *ListComponent[T]) ItemAt(ctx context.Context, index int) (T, error) {
	var item T
	if l.items == nil {
		return item, ErrUnresolvedItemType
	}
	loc, err := l.BaseItemLocator()
	if err != nil {
		return item, err
	}
	return l.items(ctx, l.Page(), loc.At(index))
}

// GetItemByText - item containing text, or having exactly this own text.
// Presence is not checked, missing item fails on first interaction.
func (l *ListComponent[T]) GetItemByText(ctx context.Context, text string, exact bool) (T, error) {
	var item T
	if l.items == nil {
		return item, ErrUnresolvedItemType
	}
	loc, err := l.ItemByTextLocator(text, exact)
	if err != nil {
		return item, err
	}
	return l.items(ctx, l.Page(), loc)
}

// ItemByTextLocator - locator used by GetItemByText
func (l *ListComponent[T]) ItemByTextLocator(text string, exact bool) (locators.XPath, error) {
	base, err := l.BaseItemLocator()
	if err != nil {
		return locators.XPath{}, err
	}
	platform := l.Config().Platform
	if l.def.ItemText.IsEmpty() {
		return base.MatchingText(platform, text, exact), nil
	}
	inner := locators.NewXPath(".//" + l.def.ItemText.RelatedQuery()).MatchingText(platform, text, exact)
	return base.Extend("[" + inner.Query() + "]"), nil
}
