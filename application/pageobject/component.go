package pageobject

import (
	"context"
	"fmt"

	"page_objects/domain/locators"
)

// Ref points to element either relative to component base or absolutely.
// Exactly one of the fields must be set.
type Ref struct {
	Relative locators.XPath
	Absolute locators.XPath
}

// Relative - ref nested into component base locator
func Relative(loc locators.XPath) Ref { return Ref{Relative: loc} }

// Absolute - ref looked up from document root
func Absolute(loc locators.XPath) Ref { return Ref{Absolute: loc} }

// Readiness is run at the end of component construction
type Readiness func(ctx context.Context, c *Component) error

// ReadyWhenVisible - waits until component body is visible
func ReadyWhenVisible(ctx context.Context, c *Component) error {
	return c.Body.WaitUntilVisible(ctx)
}

// ReadyWhenInvisible - waits until component body is hidden
func ReadyWhenInvisible(ctx context.Context, c *Component) error {
	return c.Body.WaitUntilInvisible(ctx)
}

// ReadyImmediately - doesn't wait at all
func ReadyImmediately(context.Context, *Component) error {
	return nil
}

type componentSettings struct {
	name  string
	base  locators.XPath
	ready Readiness
}

// ComponentOption configures component construction
type ComponentOption func(*componentSettings)

// WithBaseLocator - overrides default base locator of component
func WithBaseLocator(loc locators.XPath) ComponentOption {
	return func(s *componentSettings) { s.base = loc }
}

// WithReadiness - replaces default visibility wait
func WithReadiness(ready Readiness) ComponentOption {
	return func(s *componentSettings) { s.ready = ready }
}

// WithComponentName - name of component used in logs
func WithComponentName(name string) ComponentOption {
	return func(s *componentSettings) { s.name = name }
}

// Component is a reusable fragment of page located by base locator.
type Component struct {
	*View
	Body *Element

	page *Page
	base locators.XPath
}

// NewComponent - initializes component of page and waits until it is ready,
// by default until its body is visible
func NewComponent(ctx context.Context, page *Page, base locators.XPath, opts ...ComponentOption) (*Component, error) {
	s := componentSettings{name: "Component", base: base, ready: ReadyWhenVisible}
	for _, opt := range opts {
		opt(&s)
	}
	c, err := newComponent(page, s)
	if err != nil {
		return nil, err
	}
	if err := s.ready(ctx, c); err != nil {
		return nil, fmt.Errorf("component `%s` is not ready: %w", s.name, err)
	}
	return c, nil
}

func newComponent(page *Page, s componentSettings) (*Component, error) {
	if s.base.IsEmpty() {
		return nil, fmt.Errorf("%w: component `%s`", ErrMissingBaseLocator, s.name)
	}
	config := page.Config()
	config.Logger = config.Logger.WithField("component", s.name)

	c := &Component{
		View: NewView(page.Session(), config),
		page: page,
		base: s.base,
	}
	c.Body = c.View.InitElement(s.base)
	return c, nil
}

func (c *Component) Page() *Page                 { return c.page }
func (c *Component) BaseLocator() locators.XPath { return c.base }

// ResolveLocator - joins relative ref with base locator, absolute ref is
// returned as is
func (c *Component) ResolveLocator(ref Ref) (locators.XPath, error) {
	relative, absolute := !ref.Relative.IsEmpty(), !ref.Absolute.IsEmpty()
	switch {
	case relative && absolute:
		return locators.XPath{}, ErrAmbiguousLocator
	case absolute:
		return ref.Absolute, nil
	case !relative:
		return locators.XPath{}, ErrMissingLocator
	}
	return c.base.Descendant(ref.Relative)
}

// InitElement - creates handle for ref
func (c *Component) InitElement(ref Ref) (*Element, error) {
	loc, err := c.ResolveLocator(ref)
	if err != nil {
		return nil, err
	}
	return c.View.InitElement(loc), nil
}

// InitElements - creates handle per element currently matching ref
func (c *Component) InitElements(ctx context.Context, ref Ref) ([]*Element, error) {
	loc, err := c.ResolveLocator(ref)
	if err != nil {
		return nil, err
	}
	return c.View.InitElements(ctx, loc)
}

// Element - memoised handle for ref, resolved once per component instance
func (c *Component) Element(name string, ref Ref) (*Element, error) {
	loc, err := c.ResolveLocator(ref)
	if err != nil {
		return nil, fmt.Errorf("element `%s`: %w", name, err)
	}
	return c.element(name, loc)
}

// WaitUntilVisible - waits until component body is visible
func (c *Component) WaitUntilVisible(ctx context.Context) error {
	return c.Body.WaitUntilVisible(ctx)
}

// WaitUntilInvisible - waits until component body is hidden
func (c *Component) WaitUntilInvisible(ctx context.Context) error {
	return c.Body.WaitUntilInvisible(ctx)
}
