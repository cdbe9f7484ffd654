package browser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"page_objects/domain/interfaces"
	"page_objects/domain/locators"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexHTML = `<html><head><title>Index</title></head><body>
<header><a id="logo" href="/">Logo</a></header>
<main>
  <p id="greeting">  Hello <b>world</b> <span hidden>secret</span></p>
  <div style="display: none"><span id="hidden">invisible</span></div>
  <form action="/search" method="get">
    <input id="q" name="q" value="">
    <input id="exact" type="checkbox" name="exact" value="yes">
    <select id="sort" name="sort"><option value="rel">Relevance</option><option value="new">Newest</option></select>
    <button id="go" type="submit">Go</button>
  </form>
  <a id="next" href="/next">Next</a>
  <button id="off" disabled>Off</button>
  <iframe id="frame" srcdoc="<p id='inner'>in frame</p>"></iframe>
</main>
</body></html>`

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexHTML)
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		fmt.Fprintf(w, `<html><body><h1 id="result">%s|%s|%s</h1></body></html>`, q.Get("q"), q.Get("exact"), q.Get("sort"))
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><h1 id="result">next from %s</h1></body></html>`, r.Referer())
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newLoadedSession(t *testing.T) (*StaticSession, *httptest.Server) {
	t.Helper()
	server := newTestServer(t)
	session, err := NewStaticSession(newTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	require.NoError(t, session.Navigate(context.Background(), server.URL+"/"))
	return session, server
}

func findOne(t *testing.T, s *StaticSession, strategy locators.Strategy, query string) interfaces.NativeElement {
	t.Helper()
	found, err := s.FindElements(context.Background(), strategy, query)
	require.NoError(t, err)
	require.Len(t, found, 1, "query %s", query)
	return found[0]
}

func TestStaticSessionBlankBeforeNavigation(t *testing.T) {
	session, err := NewStaticSession(newTestLogger())
	require.NoError(t, err)

	current, err := session.CurrentURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "about:blank", current)

	found, err := session.FindElements(context.Background(), locators.ByTagName, "body")
	require.NoError(t, err)
	assert.Empty(t, found)

	assert.ErrorIs(t, session.Refresh(context.Background()), interfaces.ErrNoDocument)
}

func TestStaticSessionFindAndRead(t *testing.T) {
	ctx := context.Background()
	session, _ := newLoadedSession(t)

	greeting := findOne(t, session, locators.ByID, "greeting")
	text, err := greeting.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)

	visible, err := greeting.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	hidden := findOne(t, session, locators.ByXPath, "//span[@id='hidden']")
	visible, err = hidden.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	off := findOne(t, session, locators.ByID, "off")
	enabled, err := off.IsEnabled(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	next := findOne(t, session, locators.ByLinkText, "Next")
	href, err := next.Attribute(ctx, "href")
	require.NoError(t, err)
	assert.Contains(t, href, "/next")
	assert.Regexp(t, `^http://`, href)

	missing, err := session.FindElements(ctx, locators.ByID, "nope")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

const nestedListHTML = `<html><body><div id="l">
  <header><li class="item">first</li></header>
  <li class="item">second</li>
  <section><div><li class="item">third <b>bold</b></li></div></section>
  <li class="item">fourth</li>
</div></body></html>`

func TestStaticSessionDocumentOrder(t *testing.T) {
	ctx := context.Background()
	session, err := NewStaticSession(newTestLogger())
	require.NoError(t, err)
	require.NoError(t, session.LoadHTML("file:///nested.html", nestedListHTML))

	items := locators.Class("item")
	bold, err := items.At(2).DescendantQuery("//b")
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"matches at different depths", items.Query(), []string{"first", "second", "third bold", "fourth"}},
		{"first", items.At(0).Query(), []string{"first"}},
		{"last", items.At(-1).Query(), []string{"fourth"}},
		{"before last", items.At(-2).Query(), []string{"third bold"}},
		{"out of range", items.At(4).Query(), []string{}},
		{"descendant of indexed", bold.Query(), []string{"bold"}},
		{"union", locators.Tag("b").Or(locators.NewXPath("//header/li")).Query(), []string{"first", "bold"}},
		{"filtered then indexed", items.Where("not(ancestor::header)").At(0).Query(), []string{"second"}},
		{"filtered by predicate", items.Where("not(ancestor::header)").Query(), []string{"second", "third bold", "fourth"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := session.FindElements(ctx, locators.ByXPath, tt.query)
			require.NoError(t, err)

			texts := make([]string, 0, len(found))
			for _, el := range found {
				text, err := el.Text(ctx)
				require.NoError(t, err)
				texts = append(texts, text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestStaticSessionInvalidGroup(t *testing.T) {
	session, err := NewStaticSession(newTestLogger())
	require.NoError(t, err)
	require.NoError(t, session.LoadHTML("file:///nested.html", nestedListHTML))

	_, err = session.FindElements(context.Background(), locators.ByXPath, "(//li[1]")
	assert.Error(t, err)
}

func TestStaticSessionFormSubmitOnEnter(t *testing.T) {
	ctx := context.Background()
	session, server := newLoadedSession(t)

	require.NoError(t, findOne(t, session, locators.ByID, "exact").Click(ctx))
	require.NoError(t, findOne(t, session, locators.ByID, "sort").SelectByVisibleText(ctx, "Newest"))

	q := findOne(t, session, locators.ByID, "q")
	require.NoError(t, q.SendKeys(ctx, "requests"+interfaces.KeyEnter))

	current, err := session.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/search?exact=yes&q=requests&sort=new", current)

	result, err := findOne(t, session, locators.ByID, "result").Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "requests|yes|new", result)
}

func TestStaticSessionSubmitButtonClick(t *testing.T) {
	ctx := context.Background()
	session, _ := newLoadedSession(t)

	q := findOne(t, session, locators.ByID, "q")
	require.NoError(t, q.SendKeys(ctx, "flask"))
	require.NoError(t, findOne(t, session, locators.ByID, "go").Click(ctx))

	result, err := findOne(t, session, locators.ByID, "result").Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "flask||rel", result)
}

func TestStaticSessionSelectAllAndErase(t *testing.T) {
	ctx := context.Background()
	session, _ := newLoadedSession(t)

	q := findOne(t, session, locators.ByID, "q")
	require.NoError(t, q.SendKeys(ctx, "abc"))
	require.NoError(t, q.SendKeys(ctx, interfaces.KeyControl+"a"))
	require.NoError(t, q.SendKeys(ctx, interfaces.KeyBackspace))
	value, err := q.Attribute(ctx, "value")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, q.SendKeys(ctx, "xyz"+interfaces.KeyBackspace))
	value, err = q.Attribute(ctx, "value")
	require.NoError(t, err)
	assert.Equal(t, "xy", value)
}

func TestStaticSessionLinkNavigationMakesElementsStale(t *testing.T) {
	ctx := context.Background()
	session, server := newLoadedSession(t)

	greeting := findOne(t, session, locators.ByID, "greeting")
	require.NoError(t, findOne(t, session, locators.ByID, "next").Click(ctx))

	result, err := findOne(t, session, locators.ByID, "result").Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "next from "+server.URL+"/", result)

	_, err = greeting.Text(ctx)
	assert.ErrorIs(t, err, interfaces.ErrStaleElement)
	assert.ErrorIs(t, session.Hover(ctx, greeting), interfaces.ErrStaleElement)
}

func TestStaticSessionFrames(t *testing.T) {
	ctx := context.Background()
	session, _ := newLoadedSession(t)

	inner, err := session.FindElements(ctx, locators.ByID, "inner")
	require.NoError(t, err)
	assert.Empty(t, inner)

	require.NoError(t, session.SwitchToFrame(ctx, findOne(t, session, locators.ByID, "frame")))
	text, err := findOne(t, session, locators.ByID, "inner").Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "in frame", text)

	require.NoError(t, session.SwitchToDefault(ctx))
	inner, err = session.FindElements(ctx, locators.ByID, "inner")
	require.NoError(t, err)
	assert.Empty(t, inner)

	err = session.SwitchToFrame(ctx, findOne(t, session, locators.ByID, "greeting"))
	assert.Error(t, err)
}

func TestStaticSessionScripts(t *testing.T) {
	ctx := context.Background()
	session, _ := newLoadedSession(t)

	logo := findOne(t, session, locators.ByID, "logo")
	_, err := session.ExecuteScript(ctx, interfaces.ScriptSetAttribute, logo, "style", "background: red;")
	require.NoError(t, err)
	style, err := logo.Attribute(ctx, "style")
	require.NoError(t, err)
	assert.Equal(t, "background: red;", style)

	title, err := session.ExecuteScript(ctx, "return document.title;")
	require.NoError(t, err)
	assert.Equal(t, "Index", title)

	same, err := session.ExecuteScript(ctx, "return document.getElementById(arguments[0]);", "logo")
	require.NoError(t, err)
	require.IsType(t, &staticElement{}, same)
	text, err := same.(interfaces.NativeElement).Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Logo", text)

	_, err = session.ExecuteScript(ctx, interfaces.ScriptScrollIntoView, findOne(t, session, locators.ByID, "next"))
	require.NoError(t, err)
	assert.Positive(t, session.ScrollY())

	_, err = session.ExecuteScript(ctx, interfaces.ScriptScrollToTop)
	require.NoError(t, err)
	assert.Zero(t, session.ScrollY())

	_, err = session.ExecuteScript(ctx, interfaces.ScriptScrollToBottom)
	require.NoError(t, err)
	assert.Positive(t, session.ScrollY())
}

func TestStaticSessionScriptStopsOnContextCancel(t *testing.T) {
	session, _ := newLoadedSession(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := session.ExecuteScript(ctx, "while (true) {}")
	assert.Error(t, err)
}

func TestStaticSessionLoadHTMLAndRefresh(t *testing.T) {
	ctx := context.Background()
	session, err := NewStaticSession(newTestLogger())
	require.NoError(t, err)

	require.NoError(t, session.LoadHTML("file:///fixture.html", `<html><body><p id="p" class="a">text</p></body></html>`))
	p := findOne(t, session, locators.ByClassName, "a")
	_, err = session.ExecuteScript(ctx, interfaces.ScriptSetAttribute, p, "class", "b")
	require.NoError(t, err)

	require.NoError(t, session.Refresh(ctx))
	_, err = p.Text(ctx)
	assert.ErrorIs(t, err, interfaces.ErrStaleElement)

	fresh := findOne(t, session, locators.ByID, "p")
	class, err := fresh.Attribute(ctx, "class")
	require.NoError(t, err)
	assert.Equal(t, "a", class)
}

func TestStaticSessionUnsupportedOperations(t *testing.T) {
	ctx := context.Background()
	session, _ := newLoadedSession(t)

	a := findOne(t, session, locators.ByID, "logo")
	b := findOne(t, session, locators.ByID, "next")
	assert.ErrorIs(t, session.DragAndDrop(ctx, a, b), interfaces.ErrUnsupported)
	assert.ErrorIs(t, a.SendKeys(ctx, "x"), interfaces.ErrUnsupported)

	_, err := session.FindElements(ctx, locators.ByCSSSelector, "main a")
	assert.ErrorIs(t, err, interfaces.ErrUnsupported)

	assert.NoError(t, session.ClickAt(ctx, 1, 1))
}
