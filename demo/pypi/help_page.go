package pypi

import (
	"context"

	"page_objects/application/pageobject"
	"page_objects/domain/interfaces"
	"page_objects/domain/locators"
)

var helpTitle = locators.Class("page-title")

// HelpPage lists frequently asked questions
type HelpPage struct {
	*Page
	Title *pageobject.Element
}

func helpTitleDisplayed(ctx context.Context, p *pageobject.Page) (bool, error) {
	return p.InitElement(helpTitle).IsDisplayed(ctx)
}

func NewHelpPage(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig) (*HelpPage, error) {
	p, err := newPage(ctx, session, config, "HelpPage", helpTitleDisplayed)
	if err != nil {
		return nil, err
	}
	title, err := p.Element("title", pageobject.Absolute(helpTitle))
	if err != nil {
		return nil, err
	}
	return &HelpPage{Page: p, Title: title}, nil
}

// OpenHelpPage - reaches help page the way user does, through index page navbar
func OpenHelpPage(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig) (*HelpPage, error) {
	index, err := OpenIndexPage(ctx, session, config)
	if err != nil {
		return nil, err
	}
	navbar, err := index.Navbar(ctx)
	if err != nil {
		return nil, err
	}
	return navbar.OpenHelp(ctx)
}
