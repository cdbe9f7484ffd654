package pypi

import (
	"context"
	"fmt"

	"page_objects/application/pageobject"
	"page_objects/domain/interfaces"
	"page_objects/domain/locators"
)

// Search is the search input field
type Search struct {
	*pageobject.Component
}

func NewSearch(ctx context.Context, page *Page) (*Search, error) {
	c, err := pageobject.NewComponent(ctx, page.Page, locators.ID("search"), pageobject.WithComponentName("Search"))
	if err != nil {
		return nil, err
	}
	return &Search{Component: c}, nil
}

// Find - types text into search field and submits it with Enter
func (s *Search) Find(ctx context.Context, text string) (*SearchPage, error) {
	if err := s.Body.Fill(ctx, text); err != nil {
		return nil, fmt.Errorf("failed to fill search: %w", err)
	}
	if err := s.Body.SendKeys(ctx, interfaces.KeyEnter); err != nil {
		return nil, fmt.Errorf("failed to submit search: %w", err)
	}
	return NewSearchPage(ctx, s.Session(), s.Config())
}
