package pageobject

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"page_objects/domain/interfaces"
	"page_objects/domain/locators"

	"github.com/sirupsen/logrus"
)

// View stores shortcuts for interacting with the browser, pages and
// components embed it.
type View struct {
	session  interfaces.Session
	config   ViewConfig
	waiter   Waiter
	log      *logrus.Entry
	elements map[string]*Element
}

// NewView - creates view over session, zero config fields get defaults
func NewView(session interfaces.Session, config ViewConfig) *View {
	config = config.withDefaults()
	return &View{
		session:  session,
		config:   config,
		waiter:   Waiter{Timeout: config.WaitTimeout, Interval: config.PollInterval},
		log:      config.Logger,
		elements: make(map[string]*Element),
	}
}

func (v *View) Session() interfaces.Session { return v.session }
func (v *View) Config() ViewConfig          { return v.config }
func (v *View) AppRoot() string             { return v.config.AppRoot }
func (v *View) Logger() *logrus.Entry       { return v.log }

// InitElement - creates element handle, nothing is looked up yet
func (v *View) InitElement(loc locators.Locator) *Element {
	return &Element{view: v, locator: loc}
}

// InitElements - creates handle per element currently matching locator
func (v *View) InitElements(ctx context.Context, loc locators.XPath) ([]*Element, error) {
	indexed, err := v.IterLocators(ctx, loc, false)
	if err != nil {
		return nil, err
	}
	elements := make([]*Element, 0, len(indexed))
	for _, l := range indexed {
		elements = append(elements, v.InitElement(l))
	}
	return elements, nil
}

// IterLocators - returns `(query)[1]` .. `(query)[N]` for N current matches
func (v *View) IterLocators(ctx context.Context, loc locators.XPath, onlyVisible bool) ([]locators.XPath, error) {
	found, err := v.FindAll(ctx, loc, onlyVisible)
	if err != nil {
		return nil, err
	}
	result := make([]locators.XPath, 0, len(found))
	for i := range found {
		result = append(result, loc.At(i))
	}
	return result, nil
}

// element - memoised handle, the first declaration of name wins
func (v *View) element(name string, loc locators.Locator) (*Element, error) {
	if el, ok := v.elements[name]; ok {
		if el.locator.Strategy() != loc.Strategy() || el.locator.Query() != loc.Query() {
			return nil, fmt.Errorf("%w: `%s`", ErrElementRedeclared, name)
		}
		return el, nil
	}
	el := v.InitElement(loc)
	v.elements[name] = el
	return el, nil
}

// CurrentURL - url of current document
func (v *View) CurrentURL(ctx context.Context) (string, error) {
	return v.session.CurrentURL(ctx)
}

// FindOne - resolves first element matching locator, waiting until it is
// visible when onlyVisible is set
func (v *View) FindOne(ctx context.Context, loc locators.Locator, onlyVisible bool) (interfaces.NativeElement, error) {
	if onlyVisible {
		if err := v.WaitUntilLocatorVisible(ctx, loc); err != nil {
			return nil, err
		}
	}
	el, err := firstMatch(ctx, v.session, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", locators.Describe(loc), err)
	}
	return el, nil
}

// FindAll - resolves all elements matching locator, waiting until the first
// one is visible when onlyVisible is set
func (v *View) FindAll(ctx context.Context, loc locators.Locator, onlyVisible bool) ([]interfaces.NativeElement, error) {
	if onlyVisible {
		if err := v.WaitUntilLocatorVisible(ctx, loc); err != nil {
			return nil, err
		}
	}
	found, err := v.session.FindElements(ctx, loc.Strategy(), loc.Query())
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", locators.Describe(loc), err)
	}
	return found, nil
}

// WaitUntil - polls cond, expired wait becomes TimeoutError of given kind
func (v *View) WaitUntil(ctx context.Context, kind WaitKind, target string, cond Condition) error {
	v.log.WithField("wait", kind).Debugf("Waiting for %s", target)

	err := v.waiter.Until(ctx, cond)
	if !errors.Is(err, errWaitExpired) {
		return err
	}

	timeoutErr := &TimeoutError{Kind: kind, Target: target, Timeout: v.config.WaitTimeout}
	if kind == WaitURLContains || kind == WaitURLNotContains || kind == WaitURLChanged {
		if current, urlErr := v.session.CurrentURL(ctx); urlErr == nil {
			timeoutErr.Detail = fmt.Sprintf("current url is `%s`", current)
		}
	}
	v.log.WithField("wait", kind).Warn(timeoutErr.Error())
	return timeoutErr
}

// WaitUntilLocatorVisible - waits until element matching locator is displayed
func (v *View) WaitUntilLocatorVisible(ctx context.Context, loc locators.Locator) error {
	return v.WaitUntil(ctx, WaitVisible, locators.Describe(loc), LocatorVisible(v.session, loc))
}

// WaitUntilLocatorInvisible - waits until element matching locator is hidden or gone
func (v *View) WaitUntilLocatorInvisible(ctx context.Context, loc locators.Locator) error {
	return v.WaitUntil(ctx, WaitInvisible, locators.Describe(loc), LocatorInvisible(v.session, loc))
}

// WaitUntilClickable - waits until element matching locator is displayed and enabled
func (v *View) WaitUntilClickable(ctx context.Context, loc locators.Locator) error {
	return v.WaitUntil(ctx, WaitClickable, locators.Describe(loc), LocatorClickable(v.session, loc))
}

// WaitUntilTextInElement - waits until element matching locator contains text
func (v *View) WaitUntilTextInElement(ctx context.Context, loc locators.Locator, text string) error {
	target := fmt.Sprintf("`%s` in %s", text, locators.Describe(loc))
	return v.WaitUntil(ctx, WaitTextPresent, target, TextInElement(v.session, loc, text))
}

// WaitUntilTextChanges - waits until text of element matching locator is not old anymore
func (v *View) WaitUntilTextChanges(ctx context.Context, loc locators.Locator, old string) error {
	target := fmt.Sprintf("`%s` in %s", old, locators.Describe(loc))
	return v.WaitUntil(ctx, WaitTextChanged, target, TextChanged(v.session, loc, old))
}

// WaitUntilAttributeLacks - waits until attribute of element doesn't contain text
func (v *View) WaitUntilAttributeLacks(ctx context.Context, loc locators.Locator, attribute, text string) error {
	target := fmt.Sprintf("`%s` in `%s` of %s", text, attribute, locators.Describe(loc))
	return v.WaitUntil(ctx, WaitAttributeLacks, target, AttributeLacksText(v.session, loc, attribute, text))
}

// WaitUntilNotInDOM - waits until nothing matches locator
func (v *View) WaitUntilNotInDOM(ctx context.Context, loc locators.Locator) error {
	return v.WaitUntil(ctx, WaitNotInDOM, locators.Describe(loc), NotInDOM(v.session, loc))
}

// WaitUntilURLContains - waits until current url contains text
func (v *View) WaitUntilURLContains(ctx context.Context, text string) error {
	return v.WaitUntil(ctx, WaitURLContains, "`"+text+"`", URLContains(v.session, text))
}

// WaitUntilURLNotContains - waits until current url doesn't match pattern
func (v *View) WaitUntilURLNotContains(ctx context.Context, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid url pattern: %w", err)
	}
	return v.WaitUntil(ctx, WaitURLNotContains, "`"+pattern+"`", URLNotMatches(v.session, re))
}

// WaitUntilURLChanges - waits until url differs from given one, current url
// is used when from is empty
func (v *View) WaitUntilURLChanges(ctx context.Context, from string) error {
	if from == "" {
		current, err := v.session.CurrentURL(ctx)
		if err != nil {
			return err
		}
		from = current
	}
	return v.WaitUntil(ctx, WaitURLChanged, "`"+from+"`", URLChanged(v.session, from))
}

// DragAndDrop - drags source element onto target element
func (v *View) DragAndDrop(ctx context.Context, source, target interfaces.NativeElement) error {
	return v.session.DragAndDrop(ctx, source, target)
}

// ScrollTo - scrolls page so that target is in the center
func (v *View) ScrollTo(ctx context.Context, target interfaces.NativeElement) error {
	_, err := v.session.ExecuteScript(ctx, interfaces.ScriptScrollIntoView, target)
	return err
}

// ScrollToTop - scrolls page to top
func (v *View) ScrollToTop(ctx context.Context) error {
	_, err := v.session.ExecuteScript(ctx, interfaces.ScriptScrollToTop)
	return err
}

// ScrollToBottom - scrolls page to bottom
func (v *View) ScrollToBottom(ctx context.Context) error {
	_, err := v.session.ExecuteScript(ctx, interfaces.ScriptScrollToBottom)
	return err
}

// ExecuteScript - runs script, elements are available as arguments[i]
func (v *View) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	return v.session.ExecuteScript(ctx, script, args...)
}

// InputValue - value of input placed next to label
func (v *View) InputValue(ctx context.Context, label string) (string, error) {
	return v.InitElement(locators.InputByLabel(label)).Value(ctx)
}

// InFrame - runs fn with frame document as lookup scope, then switches back
func (v *View) InFrame(ctx context.Context, frame *Element, fn func(ctx context.Context) error) (err error) {
	native, err := frame.Native(ctx)
	if err != nil {
		return err
	}
	if err := v.session.SwitchToFrame(ctx, native); err != nil {
		return fmt.Errorf("failed to switch to frame: %w", err)
	}
	defer func() {
		if switchErr := v.session.SwitchToDefault(ctx); switchErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to switch to default content: %w", switchErr))
		}
	}()
	return fn(ctx)
}
