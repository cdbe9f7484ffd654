package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"page_objects/domain/interfaces"
	"page_objects/domain/locators"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

// PlaywrightSession drives Chromium through playwright
type PlaywrightSession struct {
	pw        *playwright.Playwright
	browser   playwright.Browser
	context   playwright.BrowserContext
	page      playwright.Page
	logger    *logrus.Logger
	statePath string

	frameMutex sync.Mutex
	frame      playwright.Frame
}

// NewPlaywrightSession - starts playwright and opens a page in new context
func NewPlaywrightSession(opts Options, logger *logrus.Logger) (*PlaywrightSession, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	width, height := opts.viewport()
	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  width,
			Height: height,
		},
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
	}

	if opts.StatePath != "" {
		if data, err := os.ReadFile(opts.StatePath); err == nil {
			var storageState playwright.StorageState
			if err := json.Unmarshal(data, &storageState); err == nil {
				contextOptions.StorageState = storageState.ToOptionalStorageState()
			}
		}
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserContext, err := browser.NewContext(contextOptions)
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserContext.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &PlaywrightSession{
		pw:        pw,
		browser:   browser,
		context:   browserContext,
		page:      page,
		logger:    logger,
		statePath: opts.StatePath,
	}, nil
}

func (p *PlaywrightSession) scope() playwright.Frame {
	p.frameMutex.Lock()
	defer p.frameMutex.Unlock()
	if p.frame != nil {
		return p.frame
	}
	return p.page.MainFrame()
}

// Navigate - navigates page to specified URL
func (p *PlaywrightSession) Navigate(ctx context.Context, url string) error {
	p.logger.Infof("Navigating to: %s", url)
	p.resetFrame()
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (p *PlaywrightSession) CurrentURL(ctx context.Context) (string, error) {
	return p.page.URL(), nil
}

func (p *PlaywrightSession) Refresh(ctx context.Context) error {
	p.resetFrame()
	_, err := p.page.Reload()
	return err
}

func (p *PlaywrightSession) FindElements(ctx context.Context, strategy locators.Strategy, query string) ([]interfaces.NativeElement, error) {
	selector, err := playwrightSelector(strategy, query)
	if err != nil {
		return nil, err
	}
	handles, err := p.scope().Locator(selector).ElementHandles()
	if err != nil {
		return nil, playwrightError(err)
	}
	found := make([]interfaces.NativeElement, 0, len(handles))
	for _, h := range handles {
		found = append(found, &playwrightElement{session: p, handle: h})
	}
	return found, nil
}

func (p *PlaywrightSession) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	jsArgs := make([]any, 0, len(args))
	for _, arg := range args {
		if el, ok := arg.(*playwrightElement); ok {
			jsArgs = append(jsArgs, el.handle)
			continue
		}
		jsArgs = append(jsArgs, arg)
	}
	result, err := p.scope().Evaluate(wrapScript(script), jsArgs)
	if err != nil {
		return nil, playwrightError(err)
	}
	return result, nil
}

func (p *PlaywrightSession) Hover(ctx context.Context, element interfaces.NativeElement) error {
	el, err := p.own(element)
	if err != nil {
		return err
	}
	return playwrightError(el.handle.Hover())
}

func (p *PlaywrightSession) DragAndDrop(ctx context.Context, source, target interfaces.NativeElement) error {
	from, err := p.own(source)
	if err != nil {
		return err
	}
	to, err := p.own(target)
	if err != nil {
		return err
	}
	fromX, fromY, err := from.center()
	if err != nil {
		return err
	}
	toX, toY, err := to.center()
	if err != nil {
		return err
	}

	mouse := p.page.Mouse()
	if err := mouse.Move(fromX, fromY); err != nil {
		return err
	}
	if err := mouse.Down(); err != nil {
		return err
	}
	if err := mouse.Move(toX, toY, playwright.MouseMoveOptions{Steps: playwright.Int(5)}); err != nil {
		return err
	}
	return mouse.Up()
}

func (p *PlaywrightSession) ClickAt(ctx context.Context, x, y int) error {
	return p.page.Mouse().Click(float64(x), float64(y))
}

func (p *PlaywrightSession) SwitchToFrame(ctx context.Context, frame interfaces.NativeElement) error {
	el, err := p.own(frame)
	if err != nil {
		return err
	}
	content, err := el.handle.ContentFrame()
	if err != nil {
		return playwrightError(err)
	}
	p.frameMutex.Lock()
	p.frame = content
	p.frameMutex.Unlock()
	return nil
}

func (p *PlaywrightSession) SwitchToDefault(ctx context.Context) error {
	p.resetFrame()
	return nil
}

func (p *PlaywrightSession) resetFrame() {
	p.frameMutex.Lock()
	p.frame = nil
	p.frameMutex.Unlock()
}

// SaveState - saves cookies and storage to state file
func (p *PlaywrightSession) SaveState() error {
	if p.statePath == "" || p.context == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p.statePath), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	_, err := p.context.StorageState(p.statePath)
	return err
}

// Close - saves state and closes context, browser and playwright
func (p *PlaywrightSession) Close() error {
	var closeErr error
	if err := p.SaveState(); err != nil && !isClosedError(err) {
		closeErr = err
	}
	if p.context != nil {
		if err := p.context.Close(); err != nil && !isClosedError(err) {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to close context: %w", err))
		}
		p.context = nil
	}
	if p.browser != nil {
		if err := p.browser.Close(); err != nil && !isClosedError(err) {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		p.browser = nil
	}
	if err := p.pw.Stop(); err != nil {
		closeErr = errors.Join(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return closeErr
}

func (p *PlaywrightSession) own(element interfaces.NativeElement) (*playwrightElement, error) {
	el, ok := element.(*playwrightElement)
	if !ok || el.session != p {
		return nil, fmt.Errorf("element %T doesn't belong to playwright session", element)
	}
	return el, nil
}

func isClosedError(err error) bool {
	return strings.Contains(err.Error(), "closed")
}

// playwrightError - maps detached element errors to stale element
func playwrightError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "not attached") || strings.Contains(msg, "detached") {
		return fmt.Errorf("%w: %v", interfaces.ErrStaleElement, err)
	}
	return err
}

type playwrightElement struct {
	session *PlaywrightSession
	handle  playwright.ElementHandle
}

func (e *playwrightElement) IsDisplayed(ctx context.Context) (bool, error) {
	visible, err := e.handle.IsVisible()
	return visible, playwrightError(err)
}

func (e *playwrightElement) IsEnabled(ctx context.Context) (bool, error) {
	enabled, err := e.handle.IsEnabled()
	return enabled, playwrightError(err)
}

func (e *playwrightElement) IsSelected(ctx context.Context) (bool, error) {
	result, err := e.handle.Evaluate("el => !!(el.checked || el.selected)")
	if err != nil {
		return false, playwrightError(err)
	}
	selected, _ := result.(bool)
	return selected, nil
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	text, err := e.handle.InnerText()
	return strings.TrimSpace(text), playwrightError(err)
}

func (e *playwrightElement) Attribute(ctx context.Context, name string) (string, error) {
	if name == "value" {
		result, err := e.handle.Evaluate("el => el.value === undefined ? el.getAttribute('value') : el.value")
		if err != nil {
			return "", playwrightError(err)
		}
		value, _ := result.(string)
		return value, nil
	}
	value, err := e.handle.GetAttribute(name)
	return value, playwrightError(err)
}

func (e *playwrightElement) CSSProperty(ctx context.Context, name string) (string, error) {
	result, err := e.handle.Evaluate("(el, name) => getComputedStyle(el).getPropertyValue(name)", name)
	if err != nil {
		return "", playwrightError(err)
	}
	value, _ := result.(string)
	return value, nil
}

func (e *playwrightElement) Click(ctx context.Context) error {
	return playwrightError(e.handle.Click())
}

func (e *playwrightElement) SendKeys(ctx context.Context, keys string) error {
	for _, stroke := range splitKeys(keys) {
		var err error
		if stroke.text != "" {
			err = e.handle.Type(stroke.text)
		} else {
			err = e.handle.Press(stroke.chord())
		}
		if err != nil {
			return playwrightError(err)
		}
	}
	return nil
}

func (e *playwrightElement) Clear(ctx context.Context) error {
	return playwrightError(e.handle.Fill(""))
}

func (e *playwrightElement) SelectByVisibleText(ctx context.Context, text string) error {
	_, err := e.handle.SelectOption(playwright.SelectOptionValues{Labels: &[]string{text}})
	return playwrightError(err)
}

func (e *playwrightElement) center() (float64, float64, error) {
	box, err := e.handle.BoundingBox()
	if err != nil {
		return 0, 0, playwrightError(err)
	}
	if box == nil {
		return 0, 0, fmt.Errorf("element has no bounding box")
	}
	return box.X + box.Width/2, box.Y + box.Height/2, nil
}
