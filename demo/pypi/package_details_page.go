package pypi

import (
	"context"
	"fmt"

	"page_objects/application/pageobject"
	"page_objects/domain/interfaces"
	"page_objects/domain/locators"
)

// PackageDetailsPage shows description and releases of a package
type PackageDetailsPage struct {
	*Page
}

func NewPackageDetailsPage(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig) (*PackageDetailsPage, error) {
	p, err := newPage(ctx, session, config, "PackageDetailsPage", nil)
	if err != nil {
		return nil, err
	}
	return &PackageDetailsPage{Page: p}, nil
}

// OpenPackageDetailsPage - searches package by name and opens it from results
func OpenPackageDetailsPage(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig, name string) (*PackageDetailsPage, error) {
	index, err := OpenIndexPage(ctx, session, config)
	if err != nil {
		return nil, err
	}
	search, err := index.Search(ctx)
	if err != nil {
		return nil, err
	}
	results, err := search.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	list, err := results.Results(ctx)
	if err != nil {
		return nil, err
	}
	pkg, err := list.GetItemByText(ctx, name, true)
	if err != nil {
		return nil, fmt.Errorf("package `%s`: %w", name, err)
	}
	return pkg.Open(ctx)
}

// Header - package name with version
func (p *PackageDetailsPage) Header(ctx context.Context) (string, error) {
	return p.InitElement(locators.Class("package-header__name")).Text(ctx)
}
