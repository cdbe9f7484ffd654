package pypi

import (
	"context"

	"page_objects/application/pageobject"
	"page_objects/domain/locators"
)

// Navbar is the navigation bar in the top of every page. PyPI has several
// navs with similar class, so container is pinned to `nav`.
type Navbar struct {
	*pageobject.Component
	HelpButton *pageobject.Element
}

func NewNavbar(ctx context.Context, page *Page) (*Navbar, error) {
	base := locators.Class("horizontal-menu", locators.Container("nav"))
	c, err := pageobject.NewComponent(ctx, page.Page, base, pageobject.WithComponentName("Navbar"))
	if err != nil {
		return nil, err
	}
	help, err := c.Element("help", pageobject.Relative(locators.WithText("Help", locators.Container("a"))))
	if err != nil {
		return nil, err
	}
	return &Navbar{Component: c, HelpButton: help}, nil
}

// OpenHelp - clicks Help link
func (n *Navbar) OpenHelp(ctx context.Context) (*HelpPage, error) {
	if err := n.HelpButton.Click(ctx); err != nil {
		return nil, err
	}
	return NewHelpPage(ctx, n.Session(), n.Config())
}
