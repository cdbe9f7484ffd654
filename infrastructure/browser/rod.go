package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"page_objects/domain/interfaces"
	"page_objects/domain/locators"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/sirupsen/logrus"
)

// RodSession drives Chrome over DevTools protocol with rod
type RodSession struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
	logger  *logrus.Logger

	frameMutex sync.Mutex
	frame      *rod.Page
}

// NewRodSession - launches local Chrome (or connects to ControlURL) and opens a tab
func NewRodSession(opts Options, logger *logrus.Logger) (*RodSession, error) {
	session := &RodSession{logger: logger}

	wsURL := opts.ControlURL
	if wsURL == "" {
		width, height := opts.viewport()
		l := launcher.New().
			Headless(opts.Headless).
			Set("window-size", fmt.Sprintf("%d,%d", width, height)).
			Set("disable-dev-shm-usage")
		if chromeBinary := findChromeBinary(opts.ChromePath); chromeBinary != "" {
			l = l.Bin(chromeBinary)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch chrome: %w", err)
		}
		wsURL = u
		session.lnch = l
		logger.Infof("Launched local chrome at: %s", wsURL)
	}

	b := rod.New().ControlURL(wsURL)
	if err := b.Connect(); err != nil {
		session.cleanupLauncher()
		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}
	session.browser = b

	if err := b.IgnoreCertErrors(true); err != nil {
		logger.Warnf("Failed to ignore cert errors: %v", err)
	}

	var page *rod.Page
	var err error
	if opts.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	session.page = page
	return session, nil
}

func (s *RodSession) scope(ctx context.Context) *rod.Page {
	s.frameMutex.Lock()
	defer s.frameMutex.Unlock()
	if s.frame != nil {
		return s.frame.Context(ctx)
	}
	return s.page.Context(ctx)
}

// Navigate - navigates page to url and waits for load event
func (s *RodSession) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	s.resetFrame()
	page := s.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return page.WaitLoad()
}

func (s *RodSession) CurrentURL(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (s *RodSession) Refresh(ctx context.Context) error {
	s.resetFrame()
	page := s.page.Context(ctx)
	if err := page.Reload(); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (s *RodSession) FindElements(ctx context.Context, strategy locators.Strategy, query string) ([]interfaces.NativeElement, error) {
	page := s.scope(ctx)

	var elements rod.Elements
	var err error
	switch strategy {
	case locators.ByCSSSelector, locators.ByTagName:
		elements, err = page.Elements(query)
	default:
		expr, xerr := toXPath(strategy, query)
		if xerr != nil {
			return nil, xerr
		}
		elements, err = page.ElementsX(expr)
	}
	if err != nil {
		return nil, rodError(err)
	}

	found := make([]interfaces.NativeElement, 0, len(elements))
	for _, el := range elements {
		found = append(found, &rodElement{session: s, el: el})
	}
	return found, nil
}

// ExecuteScript - element arguments are passed as remote object references
func (s *RodSession) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	params := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if el, ok := arg.(*rodElement); ok {
			params = append(params, el.el.Object)
			continue
		}
		params = append(params, arg)
	}
	res, err := s.scope(ctx).Eval(spreadScript(script), params...)
	if err != nil {
		return nil, rodError(err)
	}
	return res.Value.Val(), nil
}

func (s *RodSession) Hover(ctx context.Context, element interfaces.NativeElement) error {
	el, err := s.own(element)
	if err != nil {
		return err
	}
	return rodError(el.el.Context(ctx).Hover())
}

func (s *RodSession) DragAndDrop(ctx context.Context, source, target interfaces.NativeElement) error {
	from, err := s.own(source)
	if err != nil {
		return err
	}
	to, err := s.own(target)
	if err != nil {
		return err
	}
	start, err := from.center(ctx)
	if err != nil {
		return err
	}
	end, err := to.center(ctx)
	if err != nil {
		return err
	}

	mouse := s.page.Context(ctx).Mouse
	if err := mouse.MoveTo(start); err != nil {
		return err
	}
	if err := mouse.Down(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	if err := mouse.MoveLinear(end, 5); err != nil {
		return err
	}
	return mouse.Up(proto.InputMouseButtonLeft, 1)
}

func (s *RodSession) ClickAt(ctx context.Context, x, y int) error {
	mouse := s.page.Context(ctx).Mouse
	if err := mouse.MoveTo(proto.Point{X: float64(x), Y: float64(y)}); err != nil {
		return err
	}
	return mouse.Click(proto.InputMouseButtonLeft, 1)
}

func (s *RodSession) SwitchToFrame(ctx context.Context, frame interfaces.NativeElement) error {
	el, err := s.own(frame)
	if err != nil {
		return err
	}
	framePage, err := el.el.Context(ctx).Frame()
	if err != nil {
		return rodError(err)
	}
	s.frameMutex.Lock()
	s.frame = framePage
	s.frameMutex.Unlock()
	return nil
}

func (s *RodSession) SwitchToDefault(ctx context.Context) error {
	s.resetFrame()
	return nil
}

func (s *RodSession) resetFrame() {
	s.frameMutex.Lock()
	s.frame = nil
	s.frameMutex.Unlock()
}

// Close - closes browser and cleans launcher profile
func (s *RodSession) Close() error {
	var closeErr error
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close browser: %w", err)
		}
	}
	s.cleanupLauncher()
	return closeErr
}

func (s *RodSession) cleanupLauncher() {
	if s.lnch != nil {
		s.lnch.Kill()
		s.lnch.Cleanup()
		s.lnch = nil
	}
}

func (s *RodSession) own(element interfaces.NativeElement) (*rodElement, error) {
	el, ok := element.(*rodElement)
	if !ok || el.session != s {
		return nil, fmt.Errorf("element %T doesn't belong to rod session", element)
	}
	return el, nil
}

// spreadScript - rod passes arguments one by one, not as array
func spreadScript(script string) string {
	return "(...args) => (function() {\n" + script + "\n}).apply(null, args)"
}

// rodError - maps lost remote objects to stale element error
func rodError(err error) error {
	if err == nil {
		return nil
	}
	var notFound *rod.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %v", interfaces.ErrStaleElement, err)
	}
	msg := err.Error()
	if strings.Contains(msg, "Could not find node") || strings.Contains(msg, "Node is detached") {
		return fmt.Errorf("%w: %v", interfaces.ErrStaleElement, err)
	}
	return err
}

var rodKeys = map[string]input.Key{
	"Backspace": input.Backspace,
	"Tab":       input.Tab,
	"Enter":     input.Enter,
	"Escape":    input.Escape,
	"Shift":     input.ShiftLeft,
	"Control":   input.ControlLeft,
	"Meta":      input.MetaLeft,
}

func rodKey(name string) input.Key {
	if key, ok := rodKeys[name]; ok {
		return key
	}
	return input.Key([]rune(name)[0])
}

type rodElement struct {
	session *RodSession
	el      *rod.Element
}

func (e *rodElement) IsDisplayed(ctx context.Context) (bool, error) {
	visible, err := e.el.Context(ctx).Visible()
	return visible, rodError(err)
}

func (e *rodElement) IsEnabled(ctx context.Context) (bool, error) {
	disabled, err := e.el.Context(ctx).Disabled()
	return !disabled, rodError(err)
}

func (e *rodElement) IsSelected(ctx context.Context) (bool, error) {
	res, err := e.el.Context(ctx).Eval(`() => !!(this.checked || this.selected)`)
	if err != nil {
		return false, rodError(err)
	}
	return res.Value.Bool(), nil
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Context(ctx).Text()
	return text, rodError(err)
}

// Attribute - value is read as property to see what user typed
func (e *rodElement) Attribute(ctx context.Context, name string) (string, error) {
	el := e.el.Context(ctx)
	if name == "value" {
		value, err := el.Property("value")
		if err != nil {
			return "", rodError(err)
		}
		if value.Nil() {
			return "", nil
		}
		return value.Str(), nil
	}
	value, err := el.Attribute(name)
	if err != nil || value == nil {
		return "", rodError(err)
	}
	return *value, nil
}

func (e *rodElement) CSSProperty(ctx context.Context, name string) (string, error) {
	res, err := e.el.Context(ctx).Eval(`(name) => getComputedStyle(this).getPropertyValue(name)`, name)
	if err != nil {
		return "", rodError(err)
	}
	return res.Value.Str(), nil
}

func (e *rodElement) Click(ctx context.Context) error {
	return rodError(e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1))
}

func (e *rodElement) SendKeys(ctx context.Context, keys string) error {
	el := e.el.Context(ctx)
	if err := el.Focus(); err != nil {
		return rodError(err)
	}
	page := e.session.page.Context(ctx)
	for _, stroke := range splitKeys(keys) {
		if stroke.text != "" {
			if err := page.InsertText(stroke.text); err != nil {
				return rodError(err)
			}
			continue
		}
		actions := page.KeyActions()
		for _, mod := range stroke.modifiers {
			actions = actions.Press(rodKey(mod))
		}
		actions = actions.Type(rodKey(stroke.key))
		for _, mod := range stroke.modifiers {
			actions = actions.Release(rodKey(mod))
		}
		if err := actions.Do(); err != nil {
			return rodError(err)
		}
	}
	return nil
}

func (e *rodElement) Clear(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return rodError(err)
	}
	return rodError(el.Input(""))
}

func (e *rodElement) SelectByVisibleText(ctx context.Context, text string) error {
	return rodError(e.el.Context(ctx).Select([]string{text}, true, rod.SelectorTypeText))
}

func (e *rodElement) center(ctx context.Context) (proto.Point, error) {
	shape, err := e.el.Context(ctx).Shape()
	if err != nil {
		return proto.Point{}, rodError(err)
	}
	point := shape.OnePointInside()
	if point == nil {
		return proto.Point{}, fmt.Errorf("element has no visible shape")
	}
	return *point, nil
}
