// Package pypi describes pages of the Python Package Index with page
// objects. It is both a usage example and the target of end-to-end tests.
package pypi

import (
	"context"

	"page_objects/application/pageobject"
	"page_objects/domain/interfaces"
	"page_objects/domain/locators"
)

// AppRoot is used when configuration doesn't set application root
const AppRoot = "https://pypi.org/"

// Page is the base of every PyPI page: logo and navigation bar are common
// to all of them.
type Page struct {
	*pageobject.Page
	Logo *pageobject.Element
}

// mainDisplayed - PyPI pages are loaded once `main` is shown
func mainDisplayed(ctx context.Context, p *pageobject.Page) (bool, error) {
	return p.InitElement(locators.Tag("main")).IsDisplayed(ctx)
}

func pageOptions(name string, loaded pageobject.LoadedCheck) []pageobject.PageOption {
	if loaded == nil {
		loaded = mainDisplayed
	}
	return []pageobject.PageOption{
		pageobject.WithName(name),
		pageobject.WithDefaultAppRoot(AppRoot),
		pageobject.WithLoadedCheck(loaded),
	}
}

func wrapPage(p *pageobject.Page) (*Page, error) {
	logo, err := p.Element("logo", pageobject.Absolute(locators.Class("site-header__logo")))
	if err != nil {
		return nil, err
	}
	return &Page{Page: p, Logo: logo}, nil
}

// newPage - page object over currently opened document
func newPage(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig, name string, loaded pageobject.LoadedCheck) (*Page, error) {
	p, err := pageobject.NewPage(ctx, session, config, pageOptions(name, loaded)...)
	if err != nil {
		return nil, err
	}
	return wrapPage(p)
}

// openPage - navigates to path under application root
func openPage(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig, path, name string, loaded pageobject.LoadedCheck) (*Page, error) {
	p, err := pageobject.OpenFromPath(ctx, session, config, path, pageOptions(name, loaded)...)
	if err != nil {
		return nil, err
	}
	return wrapPage(p)
}

// Navbar - navigation bar in the top of the page
func (p *Page) Navbar(ctx context.Context) (*Navbar, error) {
	return NewNavbar(ctx, p)
}

// ClickOnLogo - clicks logo which leads to index page
func (p *Page) ClickOnLogo(ctx context.Context) (*IndexPage, error) {
	if err := p.Logo.Click(ctx); err != nil {
		return nil, err
	}
	return NewIndexPage(ctx, p.Session(), p.Config())
}
