package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"page_objects/domain/interfaces"
	"page_objects/domain/locators"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const defaultDriverPort = 9515

// SeleniumSession drives browser through WebDriver protocol
type SeleniumSession struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set POM_SELENIUM_DRIVER_PATH")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// NewSeleniumSession - connects to WebDriver server, starting local
// chromedriver when no server url is configured
func NewSeleniumSession(opts Options, logger *logrus.Logger) (*SeleniumSession, error) {
	caps := selenium.Capabilities{
		"browserName": "chrome",
	}

	width, height := opts.viewport()
	chromeCaps := chrome.Capabilities{
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
			fmt.Sprintf("--window-size=%d,%d", width, height),
		},
	}
	if opts.Headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless=new")
	}
	if chromeBinary := findChromeBinary(opts.ChromePath); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}
	caps.AddChrome(chromeCaps)

	session := &SeleniumSession{logger: logger}
	hubURL := opts.SeleniumURL
	if hubURL == "" {
		driverPath, err := findChromeDriver(opts.DriverPath)
		if err != nil {
			return nil, fmt.Errorf("failed to find chromedriver: %w", err)
		}
		logger.Infof("Using ChromeDriver at: %s", driverPath)

		port := opts.DriverPort
		if port == 0 {
			port = defaultDriverPort
		}
		service, err := selenium.NewChromeDriverService(driverPath, port)
		if err != nil {
			return nil, fmt.Errorf("failed to start chromedriver: %w", err)
		}
		session.service = service
		hubURL = fmt.Sprintf("http://localhost:%d/wd/hub", port)
	}

	wd, err := selenium.NewRemote(caps, hubURL)
	if err != nil {
		if session.service != nil {
			_ = session.service.Stop()
		}
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found, set POM_SELENIUM_CHROME_PATH: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}
	session.wd = wd
	return session, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumSession) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	return s.wd.Get(url)
}

func (s *SeleniumSession) CurrentURL(ctx context.Context) (string, error) {
	return s.wd.CurrentURL()
}

func (s *SeleniumSession) Refresh(ctx context.Context) error {
	return s.wd.Refresh()
}

func (s *SeleniumSession) FindElements(ctx context.Context, strategy locators.Strategy, query string) ([]interfaces.NativeElement, error) {
	if err := locators.ValidateStrategy(strategy); err != nil {
		return nil, err
	}
	// WebDriver strategy names match ours
	elements, err := s.wd.FindElements(string(strategy), query)
	if err != nil {
		return nil, seleniumError(err)
	}
	found := make([]interfaces.NativeElement, 0, len(elements))
	for _, el := range elements {
		found = append(found, &seleniumElement{session: s, we: el})
	}
	return found, nil
}

func (s *SeleniumSession) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	wdArgs := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if el, ok := arg.(*seleniumElement); ok {
			wdArgs = append(wdArgs, el.we)
			continue
		}
		wdArgs = append(wdArgs, arg)
	}
	result, err := s.wd.ExecuteScript(script, wdArgs)
	return result, seleniumError(err)
}

func (s *SeleniumSession) Hover(ctx context.Context, element interfaces.NativeElement) error {
	el, err := s.own(element)
	if err != nil {
		return err
	}
	return seleniumError(el.we.MoveTo(0, 0))
}

func (s *SeleniumSession) DragAndDrop(ctx context.Context, source, target interfaces.NativeElement) error {
	from, err := s.own(source)
	if err != nil {
		return err
	}
	to, err := s.own(target)
	if err != nil {
		return err
	}
	if err := from.we.MoveTo(0, 0); err != nil {
		return seleniumError(err)
	}
	if err := s.wd.ButtonDown(); err != nil {
		return err
	}
	if err := to.we.MoveTo(0, 0); err != nil {
		return seleniumError(err)
	}
	return s.wd.ButtonUp()
}

func (s *SeleniumSession) ClickAt(ctx context.Context, x, y int) error {
	script := `var el = document.elementFromPoint(arguments[0], arguments[1]); if (el) { el.click(); }`
	_, err := s.wd.ExecuteScript(script, []interface{}{x, y})
	return err
}

func (s *SeleniumSession) SwitchToFrame(ctx context.Context, frame interfaces.NativeElement) error {
	el, err := s.own(frame)
	if err != nil {
		return err
	}
	return seleniumError(s.wd.SwitchFrame(el.we))
}

func (s *SeleniumSession) SwitchToDefault(ctx context.Context) error {
	return s.wd.SwitchFrame(nil)
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumSession) Close() error {
	var closeErr error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			closeErr = fmt.Errorf("failed to quit webdriver: %w", err)
		}
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to stop chromedriver: %w", err))
		}
	}
	return closeErr
}

func (s *SeleniumSession) own(element interfaces.NativeElement) (*seleniumElement, error) {
	el, ok := element.(*seleniumElement)
	if !ok || el.session != s {
		return nil, fmt.Errorf("element %T doesn't belong to selenium session", element)
	}
	return el, nil
}

// seleniumError - maps WebDriver error codes to session errors
func seleniumError(err error) error {
	if err == nil {
		return nil
	}
	var wdErr *selenium.Error
	if errors.As(err, &wdErr) {
		switch wdErr.Err {
		case "stale element reference":
			return fmt.Errorf("%w: %v", interfaces.ErrStaleElement, err)
		case "no such element":
			return fmt.Errorf("%w: %v", interfaces.ErrNoSuchElement, err)
		}
	}
	return err
}

type seleniumElement struct {
	session *SeleniumSession
	we      selenium.WebElement
}

func (e *seleniumElement) IsDisplayed(ctx context.Context) (bool, error) {
	displayed, err := e.we.IsDisplayed()
	return displayed, seleniumError(err)
}

func (e *seleniumElement) IsEnabled(ctx context.Context) (bool, error) {
	enabled, err := e.we.IsEnabled()
	return enabled, seleniumError(err)
}

func (e *seleniumElement) IsSelected(ctx context.Context) (bool, error) {
	selected, err := e.we.IsSelected()
	return selected, seleniumError(err)
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	text, err := e.we.Text()
	return text, seleniumError(err)
}

// Attribute - WebDriver replies null for unset attributes, that is empty value
func (e *seleniumElement) Attribute(ctx context.Context, name string) (string, error) {
	value, err := e.we.GetAttribute(name)
	if err != nil && strings.Contains(err.Error(), "nil return value") {
		return "", nil
	}
	return value, seleniumError(err)
}

func (e *seleniumElement) CSSProperty(ctx context.Context, name string) (string, error) {
	value, err := e.we.CSSProperty(name)
	return value, seleniumError(err)
}

func (e *seleniumElement) Click(ctx context.Context) error {
	return seleniumError(e.we.Click())
}

func (e *seleniumElement) SendKeys(ctx context.Context, keys string) error {
	return seleniumError(e.we.SendKeys(keys))
}

func (e *seleniumElement) Clear(ctx context.Context) error {
	return seleniumError(e.we.Clear())
}

func (e *seleniumElement) SelectByVisibleText(ctx context.Context, text string) error {
	options, err := e.we.FindElements(selenium.ByXPATH, fmt.Sprintf(".//option[normalize-space(.)=%s]", locators.Escape(text)))
	if err != nil {
		return seleniumError(err)
	}
	if len(options) == 0 {
		return fmt.Errorf("%w: option `%s`", interfaces.ErrNoSuchElement, text)
	}
	return seleniumError(options[0].Click())
}
