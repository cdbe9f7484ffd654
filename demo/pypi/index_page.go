package pypi

import (
	"context"

	"page_objects/application/pageobject"
	"page_objects/domain/interfaces"
)

// IndexPage is the landing page with search field in the center
type IndexPage struct {
	*Page
}

func NewIndexPage(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig) (*IndexPage, error) {
	p, err := newPage(ctx, session, config, "IndexPage", nil)
	if err != nil {
		return nil, err
	}
	return &IndexPage{Page: p}, nil
}

// OpenIndexPage - navigates to application root
func OpenIndexPage(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig) (*IndexPage, error) {
	p, err := openPage(ctx, session, config, "", "IndexPage", nil)
	if err != nil {
		return nil, err
	}
	return &IndexPage{Page: p}, nil
}

// Search - search field component
func (p *IndexPage) Search(ctx context.Context) (*Search, error) {
	return NewSearch(ctx, p.Page)
}
