package pypi

import (
	"context"

	"page_objects/application/pageobject"
	"page_objects/domain/locators"
)

var packageName = locators.Class("package-snippet__name")

// Package is a single search result
type Package struct {
	*pageobject.Component
}

// BuildItem - builds package anchored at item locator of PackageList
func (*Package) BuildItem(ctx context.Context, page *pageobject.Page, base locators.XPath) (*Package, error) {
	c, err := pageobject.NewComponent(ctx, page, base,
		pageobject.WithComponentName("Package"),
		pageobject.WithReadiness(pageobject.ReadyImmediately),
	)
	if err != nil {
		return nil, err
	}
	return &Package{Component: c}, nil
}

// Name - package name shown in result
func (p *Package) Name(ctx context.Context, opts ...pageobject.InteractOption) (string, error) {
	name, err := p.InitElement(pageobject.Relative(packageName))
	if err != nil {
		return "", err
	}
	return name.Text(ctx, opts...)
}

// Open - clicks package and opens its details page
func (p *Package) Open(ctx context.Context) (*PackageDetailsPage, error) {
	if err := p.Body.Click(ctx); err != nil {
		return nil, err
	}
	return NewPackageDetailsPage(ctx, p.Session(), p.Config())
}
