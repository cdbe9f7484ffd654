package pypi

import (
	"context"

	"page_objects/application/pageobject"
	"page_objects/domain/interfaces"
	"page_objects/domain/locators"
)

// PackageList is the list of search results
type PackageList = pageobject.ListComponent[*Package]

var packageListSpec = pageobject.DefineList[*Package](pageobject.ListDefinition{
	Name:                "PackageList",
	Base:                locators.Property("aria-label", "Search results"),
	RelativeItemLocator: locators.Class("package-snippet", locators.Container("a")),
	ItemText:            packageName,
})

// SearchPage shows packages found by query
type SearchPage struct {
	*Page
}

func NewSearchPage(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig) (*SearchPage, error) {
	p, err := newPage(ctx, session, config, "SearchPage", nil)
	if err != nil {
		return nil, err
	}
	return &SearchPage{Page: p}, nil
}

// OpenSearchPage - searches for empty query on index page
func OpenSearchPage(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig) (*SearchPage, error) {
	index, err := OpenIndexPage(ctx, session, config)
	if err != nil {
		return nil, err
	}
	search, err := index.Search(ctx)
	if err != nil {
		return nil, err
	}
	return search.Find(ctx, "")
}

// Results - list of found packages
func (p *SearchPage) Results(ctx context.Context) (*PackageList, error) {
	return packageListSpec.New(ctx, p.Page.Page)
}
