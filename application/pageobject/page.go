package pageobject

import (
	"context"
	"fmt"
	"strings"

	"page_objects/domain/interfaces"
)

// LoadedCheck reports whether page finished loading
type LoadedCheck func(ctx context.Context, page *Page) (bool, error)

type pageSettings struct {
	name           string
	appRoot        string
	defaultAppRoot string
	loaded         LoadedCheck
}

// PageOption configures page construction
type PageOption func(*pageSettings)

// WithName - name of page used in logs and errors
func WithName(name string) PageOption {
	return func(s *pageSettings) { s.name = name }
}

// WithAppRoot - overrides application root for this page
func WithAppRoot(root string) PageOption {
	return func(s *pageSettings) { s.appRoot = root }
}

// WithDefaultAppRoot - application root used when neither WithAppRoot nor
// config provide one
func WithDefaultAppRoot(root string) PageOption {
	return func(s *pageSettings) { s.defaultAppRoot = root }
}

// WithLoadedCheck - predicate polled until page is loaded
func WithLoadedCheck(check LoadedCheck) PageOption {
	return func(s *pageSettings) { s.loaded = check }
}

func buildPageSettings(config ViewConfig, opts []PageOption) (pageSettings, ViewConfig) {
	s := pageSettings{name: "Page"}
	for _, opt := range opts {
		opt(&s)
	}
	switch {
	case s.appRoot != "":
		config.AppRoot = s.appRoot
	case config.AppRoot == "":
		config.AppRoot = s.defaultAppRoot
	}
	return s, config
}

// Page represents a web page: its elements, components and navigation.
type Page struct {
	*View
	name   string
	loaded LoadedCheck
}

// NewPage - initializes page object over already opened document and waits
// until it is loaded
func NewPage(ctx context.Context, session interfaces.Session, config ViewConfig, opts ...PageOption) (*Page, error) {
	s, config := buildPageSettings(config, opts)
	config = config.withDefaults()
	config.Logger = config.Logger.WithField("page", s.name)

	page := &Page{
		View:   NewView(session, config),
		name:   s.name,
		loaded: s.loaded,
	}
	if err := page.WaitUntilLoaded(ctx); err != nil {
		return nil, err
	}
	return page, nil
}

// Open - navigates to application root and initializes page object
func Open(ctx context.Context, session interfaces.Session, config ViewConfig, opts ...PageOption) (*Page, error) {
	_, resolved := buildPageSettings(config, opts)
	if err := session.Navigate(ctx, resolved.AppRoot); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", resolved.AppRoot, err)
	}
	return NewPage(ctx, session, config, opts...)
}

// OpenFromPath - navigates to path relative to application root and
// initializes page object
func OpenFromPath(ctx context.Context, session interfaces.Session, config ViewConfig, path string, opts ...PageOption) (*Page, error) {
	_, resolved := buildPageSettings(config, opts)
	url := JoinURL(resolved.AppRoot, path)
	if err := session.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", url, err)
	}
	return NewPage(ctx, session, config, opts...)
}

// JoinURL - joins root and relative url with exactly one slash
func JoinURL(root, relative string) string {
	return strings.TrimSuffix(root, "/") + "/" + strings.TrimPrefix(relative, "/")
}

func (p *Page) Name() string { return p.name }

// CheckLoaded - evaluates loaded predicate once, page without predicate is
// always loaded
func (p *Page) CheckLoaded(ctx context.Context) (bool, error) {
	if p.loaded == nil {
		return true, nil
	}
	return p.loaded(ctx, p)
}

// WaitUntilLoaded - waits until loaded predicate holds
func (p *Page) WaitUntilLoaded(ctx context.Context) error {
	return p.WaitUntil(ctx, WaitPageLoaded, "`"+p.name+"`", p.CheckLoaded)
}

// Refresh - reloads page and waits until it is loaded
func (p *Page) Refresh(ctx context.Context) error {
	if err := p.session.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh page: %w", err)
	}
	return p.WaitUntilLoaded(ctx)
}

// Navigate - opens absolute url
func (p *Page) Navigate(ctx context.Context, url string) error {
	p.log.Debugf("Navigating to: %s", url)
	return p.session.Navigate(ctx, url)
}

// NavigateRelative - opens url relative to application root
func (p *Page) NavigateRelative(ctx context.Context, relative string) error {
	return p.Navigate(ctx, JoinURL(p.AppRoot(), relative))
}

// ClickOnPage - clicks left upper corner of page, e.g. to close popups
func (p *Page) ClickOnPage(ctx context.Context) error {
	return p.session.ClickAt(ctx, 1, 1)
}

// Element - memoised element of page, only absolute locators are allowed
func (p *Page) Element(name string, ref Ref) (*Element, error) {
	if !ref.Relative.IsEmpty() {
		return nil, fmt.Errorf("%w: `%s`", ErrRelativeLocatorOnPage, name)
	}
	if ref.Absolute.IsEmpty() {
		return nil, fmt.Errorf("%w: `%s`", ErrMissingLocator, name)
	}
	return p.element(name, ref.Absolute)
}
