package browser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"page_objects/domain/interfaces"
	"page_objects/domain/locators"

	"github.com/antchfx/htmlquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

const blankURL = "about:blank"

// document is one parsed html page, navigation always creates a new one so
// elements of previous page become stale
type document struct {
	url    *url.URL
	root   *html.Node
	source []byte
}

// StaticSession drives plain html over http without a real browser. It
// evaluates XPath with htmlquery in document order, submits forms, follows
// links and runs small scripts in goja. Styles from stylesheets and page
// javascript are not evaluated.
type StaticSession struct {
	client *http.Client
	logger *logrus.Logger

	mu       sync.Mutex
	top      *document
	frame    *document
	selected map[*html.Node]bool
	scrollY  int
	hovered  *html.Node
}

// StaticOption configures static session
type StaticOption func(*StaticSession)

// WithHTTPClient - uses given client instead of default one with cookie jar
func WithHTTPClient(client *http.Client) StaticOption {
	return func(s *StaticSession) { s.client = client }
}

// NewStaticSession - creates new static html session
func NewStaticSession(logger *logrus.Logger, opts ...StaticOption) (*StaticSession, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	s := &StaticSession{
		client:   &http.Client{Jar: jar},
		logger:   logger,
		selected: make(map[*html.Node]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Navigate - loads page by GET request
func (s *StaticSession) Navigate(ctx context.Context, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.navigateLocked(ctx, target)
}

func (s *StaticSession) navigateLocked(ctx context.Context, target string) error {
	resolved, err := s.resolveURL(target)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return s.loadLocked(req)
}

func (s *StaticSession) loadLocked(req *http.Request) error {
	s.logger.Infof("Navigating to: %s", req.URL)
	if s.top != nil {
		req.Header.Set("Referer", s.top.url.String())
	}

	doc, err := s.fetch(req)
	if err != nil {
		return err
	}
	s.top, s.frame = doc, nil
	s.scrollY, s.hovered = 0, nil
	return nil
}

func (s *StaticSession) fetch(req *http.Request) (*document, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.Warnf("Page %s responded with status %d", req.URL, resp.StatusCode)
	}

	source, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", req.URL, err)
	}
	// Redirects are followed by client, final url is on response request
	return parseDocument(resp.Request.URL, source)
}

func parseDocument(u *url.URL, source []byte) (*document, error) {
	root, err := htmlquery.Parse(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", u, err)
	}
	return &document{url: u, root: root, source: source}, nil
}

// LoadHTML - replaces current document with given markup served from rawURL
func (s *StaticSession) LoadHTML(rawURL, markup string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	doc, err := parseDocument(u, []byte(markup))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.top, s.frame = doc, nil
	return nil
}

// CurrentURL - url of top level document
func (s *StaticSession) CurrentURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.top == nil {
		return blankURL, nil
	}
	return s.top.url.String(), nil
}

// Refresh - loads top level document again
func (s *StaticSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.top == nil {
		return interfaces.ErrNoDocument
	}
	if s.top.url.Scheme != "http" && s.top.url.Scheme != "https" {
		doc, err := parseDocument(s.top.url, s.top.source)
		if err != nil {
			return err
		}
		s.top, s.frame = doc, nil
		return nil
	}
	return s.navigateLocked(ctx, s.top.url.String())
}

// FindElements - evaluates locator against current document or frame
func (s *StaticSession) FindElements(ctx context.Context, strategy locators.Strategy, query string) ([]interfaces.NativeElement, error) {
	expr, err := toXPath(strategy, query)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.scope()
	if doc == nil {
		return []interfaces.NativeElement{}, nil
	}

	nodes, err := queryAll(doc.root, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	found := make([]interfaces.NativeElement, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			found = append(found, &staticElement{session: s, doc: doc, node: n})
		}
	}
	return found, nil
}

func (s *StaticSession) scope() *document {
	if s.frame != nil {
		return s.frame
	}
	return s.top
}

// Hover - remembers element under pointer
func (s *StaticSession) Hover(ctx context.Context, element interfaces.NativeElement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, err := s.own(element)
	if err != nil {
		return err
	}
	s.hovered = el.node
	return nil
}

// DragAndDrop - not available without layout engine
func (s *StaticSession) DragAndDrop(ctx context.Context, source, target interfaces.NativeElement) error {
	return fmt.Errorf("%w: drag and drop in static session", interfaces.ErrUnsupported)
}

// ClickAt - there is no layout, so clicking by coordinates hits the page itself
func (s *StaticSession) ClickAt(ctx context.Context, x, y int) error {
	s.logger.Debugf("Clicking on page at (%d, %d)", x, y)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hovered = nil
	return nil
}

// SwitchToFrame - makes iframe document the lookup scope
func (s *StaticSession) SwitchToFrame(ctx context.Context, frame interfaces.NativeElement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.own(frame)
	if err != nil {
		return err
	}
	if tag := el.node.Data; tag != "iframe" && tag != "frame" {
		return fmt.Errorf("element <%s> is not a frame", tag)
	}

	if srcdoc, ok := attr(el.node, "srcdoc"); ok {
		doc, err := parseDocument(el.doc.url, []byte(srcdoc))
		if err != nil {
			return err
		}
		s.frame = doc
		return nil
	}

	src, _ := attr(el.node, "src")
	target, err := resolveAgainst(el.doc.url, src)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	doc, err := s.fetch(req)
	if err != nil {
		return err
	}
	s.frame = doc
	return nil
}

// SwitchToDefault - returns lookup scope to top level document
func (s *StaticSession) SwitchToDefault(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = nil
	return nil
}

// Close - releases idle connections
func (s *StaticSession) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// ScrollY - vertical scroll offset changed by scripts
func (s *StaticSession) ScrollY() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollY
}

func (s *StaticSession) own(element interfaces.NativeElement) (*staticElement, error) {
	el, ok := element.(*staticElement)
	if !ok || el.session != s {
		return nil, fmt.Errorf("element %T doesn't belong to static session", element)
	}
	if !el.live() {
		return nil, interfaces.ErrStaleElement
	}
	return el, nil
}

func (s *StaticSession) resolveURL(target string) (*url.URL, error) {
	var base *url.URL
	if s.top != nil {
		base = s.top.url
	}
	return resolveAgainst(base, target)
}

func resolveAgainst(base *url.URL, target string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", target, err)
	}
	if base == nil {
		if !parsed.IsAbs() {
			return nil, fmt.Errorf("relative url %q without loaded document", target)
		}
		return parsed, nil
	}
	return base.ResolveReference(parsed), nil
}
