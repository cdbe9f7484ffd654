package pageobject

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"page_objects/domain/interfaces"
	"page_objects/domain/locators"
)

const debugMarkStyle = "background: red;"

// Element is a handle to element on the page. It keeps only the locator, so
// every interaction looks the element up again.
type Element struct {
	view    *View
	locator locators.Locator
}

type interactOptions struct {
	onlyVisible   bool
	keepText      bool
	skipClickable bool
}

// InteractOption adjusts a single interaction with element
type InteractOption func(*interactOptions)

// IncludeHidden - don't wait until element is visible before interaction
func IncludeHidden() InteractOption {
	return func(o *interactOptions) { o.onlyVisible = false }
}

// KeepText - don't clear input before filling it
func KeepText() InteractOption {
	return func(o *interactOptions) { o.keepText = true }
}

// SkipClickableWait - click without waiting until element is clickable
func SkipClickableWait() InteractOption {
	return func(o *interactOptions) { o.skipClickable = true }
}

func buildInteractOptions(opts []InteractOption) interactOptions {
	o := interactOptions{onlyVisible: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (e *Element) Locator() locators.Locator { return e.locator }

func (e *Element) String() string {
	return "Element<" + locators.Describe(e.locator) + ">"
}

// WaitUntilVisible - waits until element is displayed
func (e *Element) WaitUntilVisible(ctx context.Context) error {
	return e.view.WaitUntilLocatorVisible(ctx, e.locator)
}

// WaitUntilInvisible - waits until element is hidden or removed
func (e *Element) WaitUntilInvisible(ctx context.Context) error {
	return e.view.WaitUntilLocatorInvisible(ctx, e.locator)
}

// WaitUntilClickable - waits until element is displayed and enabled
func (e *Element) WaitUntilClickable(ctx context.Context) error {
	return e.view.WaitUntilClickable(ctx, e.locator)
}

// WaitUntilTextPresent - waits until element text contains text
func (e *Element) WaitUntilTextPresent(ctx context.Context, text string) error {
	return e.view.WaitUntilTextInElement(ctx, e.locator, text)
}

// WaitUntilTextChanges - waits until element text differs from old
func (e *Element) WaitUntilTextChanges(ctx context.Context, old string) error {
	return e.view.WaitUntilTextChanges(ctx, e.locator, old)
}

// WaitUntilNotInDOM - waits until element is removed from document
func (e *Element) WaitUntilNotInDOM(ctx context.Context) error {
	return e.view.WaitUntilNotInDOM(ctx, e.locator)
}

// Native - resolves session element, waits for visibility unless IncludeHidden
func (e *Element) Native(ctx context.Context, opts ...InteractOption) (interfaces.NativeElement, error) {
	o := buildInteractOptions(opts)
	return e.view.FindOne(ctx, e.locator, o.onlyVisible)
}

// NativeAll - resolves all session elements matching locator
func (e *Element) NativeAll(ctx context.Context) ([]interfaces.NativeElement, error) {
	return e.view.FindAll(ctx, e.locator, false)
}

// Exists - reports whether element is in document, visible or not
func (e *Element) Exists(ctx context.Context) (bool, error) {
	found, err := e.NativeAll(ctx)
	if err != nil {
		return false, err
	}
	return len(found) != 0, nil
}

// IsDisplayed - reports whether element is visible, absent or stale element
// is not displayed
func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	found, err := e.NativeAll(ctx)
	if err != nil || len(found) == 0 {
		return false, err
	}
	displayed, err := found[0].IsDisplayed(ctx)
	if errors.Is(err, interfaces.ErrStaleElement) {
		return false, nil
	}
	return displayed, err
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	native, err := e.Native(ctx)
	if err != nil {
		return false, err
	}
	return native.IsEnabled(ctx)
}

func (e *Element) IsSelected(ctx context.Context) (bool, error) {
	native, err := e.Native(ctx)
	if err != nil {
		return false, err
	}
	return native.IsSelected(ctx)
}

// Fill - clears element and types text one character at a time, KeepText
// keeps current value
func (e *Element) Fill(ctx context.Context, text string, opts ...InteractOption) error {
	o := buildInteractOptions(opts)
	if !o.keepText {
		if err := e.Clear(ctx, opts...); err != nil {
			return err
		}
	}
	native, err := e.Native(ctx, opts...)
	if err != nil {
		return err
	}
	for _, r := range text {
		if err := native.SendKeys(ctx, string(r)); err != nil {
			return err
		}
	}
	return nil
}

// Clear - selects whole value and erases it with Backspace
func (e *Element) Clear(ctx context.Context, opts ...InteractOption) error {
	if err := e.SendKeys(ctx, e.view.config.SelectAllModifier+"a", opts...); err != nil {
		return fmt.Errorf("failed to select text: %w", err)
	}
	return e.SendKeys(ctx, interfaces.KeyBackspace, opts...)
}

// SendKeys - types keys into element
func (e *Element) SendKeys(ctx context.Context, keys string, opts ...InteractOption) error {
	native, err := e.Native(ctx, opts...)
	if err != nil {
		return err
	}
	return native.SendKeys(ctx, keys)
}

// Text - rendered text of element
func (e *Element) Text(ctx context.Context, opts ...InteractOption) (string, error) {
	native, err := e.Native(ctx, opts...)
	if err != nil {
		return "", err
	}
	return native.Text(ctx)
}

// Attribute - attribute value, empty string when unset
func (e *Element) Attribute(ctx context.Context, name string, opts ...InteractOption) (string, error) {
	native, err := e.Native(ctx, opts...)
	if err != nil {
		return "", err
	}
	return native.Attribute(ctx, name)
}

// SetAttribute - sets attribute through script
func (e *Element) SetAttribute(ctx context.Context, name, value string, opts ...InteractOption) error {
	native, err := e.Native(ctx, opts...)
	if err != nil {
		return err
	}
	_, err = e.view.ExecuteScript(ctx, interfaces.ScriptSetAttribute, native, name, value)
	return err
}

// Value - value attribute of element
func (e *Element) Value(ctx context.Context, opts ...InteractOption) (string, error) {
	return e.Attribute(ctx, "value", opts...)
}

// Select - picks option of select element by its visible text
func (e *Element) Select(ctx context.Context, text string, opts ...InteractOption) error {
	native, err := e.Native(ctx, opts...)
	if err != nil {
		return err
	}
	return native.SelectByVisibleText(ctx, text)
}

// Click - waits until element is clickable and clicks it
func (e *Element) Click(ctx context.Context, opts ...InteractOption) error {
	o := buildInteractOptions(opts)
	if !o.skipClickable {
		if err := e.WaitUntilClickable(ctx); err != nil {
			return err
		}
	}
	native, err := e.Native(ctx, opts...)
	if err != nil {
		return err
	}
	e.view.log.Debugf("Clicking on %s", locators.Describe(e.locator))
	return native.Click(ctx)
}

// DragTo - drags element onto target
func (e *Element) DragTo(ctx context.Context, target *Element, opts ...InteractOption) error {
	source, err := e.Native(ctx, opts...)
	if err != nil {
		return err
	}
	dest, err := target.Native(ctx, opts...)
	if err != nil {
		return err
	}
	return e.view.DragAndDrop(ctx, source, dest)
}

// ScrollIntoView - scrolls page to element
func (e *Element) ScrollIntoView(ctx context.Context, opts ...InteractOption) error {
	native, err := e.Native(ctx, opts...)
	if err != nil {
		return err
	}
	return e.view.ScrollTo(ctx, native)
}

// Hover - moves pointer over element
func (e *Element) Hover(ctx context.Context, opts ...InteractOption) error {
	native, err := e.Native(ctx, opts...)
	if err != nil {
		return err
	}
	return e.view.session.Hover(ctx, native)
}

// CSSProperty - computed value of css property
func (e *Element) CSSProperty(ctx context.Context, name string, opts ...InteractOption) (string, error) {
	native, err := e.Native(ctx, opts...)
	if err != nil {
		return "", err
	}
	return native.CSSProperty(ctx, name)
}

// AddDebugMark - paints element background red
func (e *Element) AddDebugMark(ctx context.Context) error {
	style, err := e.Attribute(ctx, "style")
	if err != nil {
		return err
	}
	style = strings.TrimSpace(style)
	if style != "" && !strings.HasSuffix(style, ";") {
		style += ";"
	}
	return e.SetAttribute(ctx, "style", strings.TrimSpace(style+" "+debugMarkStyle))
}

// RemoveDebugMark - removes background added by AddDebugMark
func (e *Element) RemoveDebugMark(ctx context.Context) error {
	style, err := e.Attribute(ctx, "style")
	if err != nil {
		return err
	}
	return e.SetAttribute(ctx, "style", strings.TrimSpace(strings.ReplaceAll(style, debugMarkStyle, "")))
}
