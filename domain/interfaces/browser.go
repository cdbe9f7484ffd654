package interfaces

import (
	"context"
	"errors"

	"page_objects/domain/locators"
)

var (
	// ErrStaleElement means element reference no longer points into the document
	ErrStaleElement = errors.New("stale element reference")
	// ErrNoSuchElement means nothing matches the locator
	ErrNoSuchElement = errors.New("no such element")
	// ErrUnsupported means session backend can't perform the operation
	ErrUnsupported = errors.New("operation is not supported by session")
	// ErrNoDocument means nothing was loaded into the session yet
	ErrNoDocument = errors.New("no document loaded")
)

// Session defines the browser transport the page objects drive.
// A session is used by one caller at a time.
type Session interface {
	// Navigate opens url in current window
	Navigate(ctx context.Context, url string) error

	// CurrentURL returns url of current document
	CurrentURL(ctx context.Context) (string, error)

	// Refresh reloads current document
	Refresh(ctx context.Context) error

	// FindElements returns all elements matching query, empty slice when none
	FindElements(ctx context.Context, strategy locators.Strategy, query string) ([]NativeElement, error)

	// ExecuteScript runs script body, elements are available as arguments[i]
	ExecuteScript(ctx context.Context, script string, args ...any) (any, error)

	// Hover moves pointer over element
	Hover(ctx context.Context, element NativeElement) error

	// DragAndDrop drags source element onto target element
	DragAndDrop(ctx context.Context, source, target NativeElement) error

	// ClickAt clicks at viewport coordinates
	ClickAt(ctx context.Context, x, y int) error

	// SwitchToFrame makes frame document the lookup scope
	SwitchToFrame(ctx context.Context, frame NativeElement) error

	// SwitchToDefault returns lookup scope to top level document
	SwitchToDefault(ctx context.Context) error

	// Close releases browser resources
	Close() error
}

// NativeElement defines element reference returned by session.
// Any method may fail with ErrStaleElement once the node left the document.
type NativeElement interface {
	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsSelected(ctx context.Context) (bool, error)

	// Text returns rendered text of element
	Text(ctx context.Context) (string, error)

	// Attribute returns attribute or property value, empty string when unset
	Attribute(ctx context.Context, name string) (string, error)

	// CSSProperty returns computed style value
	CSSProperty(ctx context.Context, name string) (string, error)

	Click(ctx context.Context) error

	// SendKeys types keys, special keys use WebDriver code points
	SendKeys(ctx context.Context, keys string) error

	Clear(ctx context.Context) error

	// SelectByVisibleText picks option of select element by its text
	SelectByVisibleText(ctx context.Context, text string) error
}
