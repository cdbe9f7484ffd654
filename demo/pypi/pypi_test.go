package pypi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"page_objects/application/pageobject"
	"page_objects/application/scenarios"
	"page_objects/domain/entities"
	"page_objects/infrastructure/browser"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newFakePyPI - serves testdata fixtures under PyPI paths
func newFakePyPI(t *testing.T) *httptest.Server {
	t.Helper()
	routes := map[string]string{
		"/":                 "index.html",
		"/search/":          "search.html",
		"/help/":            "help.html",
		"/project/pomcorn/": "project.html",
	}
	mux := http.NewServeMux()
	for path, fixture := range routes {
		content, err := os.ReadFile(filepath.Join("testdata", fixture))
		require.NoError(t, err)
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(content)
		})
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newOfflineSession(t *testing.T) (*browser.StaticSession, pageobject.ViewConfig) {
	t.Helper()
	server := newFakePyPI(t)
	session, err := browser.NewStaticSession(quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	config := pageobject.ViewConfig{
		AppRoot:     server.URL,
		WaitTimeout: time.Second,
		Logger:      logrus.NewEntry(quietLogger()),
	}
	return session, config
}

func TestSearchResults(t *testing.T) {
	ctx := context.Background()
	session, config := newOfflineSession(t)

	index, err := OpenIndexPage(ctx, session, config)
	require.NoError(t, err)
	search, err := index.Search(ctx)
	require.NoError(t, err)

	searchPage, err := search.Find(ctx, "saritasa")
	require.NoError(t, err)
	current, err := searchPage.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.AppRoot+"/search/?q=saritasa", current)

	results, err := searchPage.Results(ctx)
	require.NoError(t, err)
	assert.True(t, results.HasItemType())

	count, err := results.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	packages, err := results.All(ctx)
	require.NoError(t, err)
	require.Len(t, packages, 5)
	names := make([]string, 0, len(packages))
	for _, pkg := range packages {
		name, err := pkg.Name(ctx, pageobject.IncludeHidden())
		require.NoError(t, err)
		names = append(names, name)
	}
	assert.Equal(t, []string{
		"saritasa-invocations",
		"saritasa-s3-tools",
		"pomcorn",
		"django-import-export-extensions",
		"saritasa-sqlalchemy-tools",
	}, names)

	last, err := results.ItemAt(ctx, -1)
	require.NoError(t, err)
	visible, err := last.Body.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestGetPackageByExactName(t *testing.T) {
	ctx := context.Background()
	session, config := newOfflineSession(t)

	searchPage, err := OpenSearchPage(ctx, session, config)
	require.NoError(t, err)
	results, err := searchPage.Results(ctx)
	require.NoError(t, err)

	pkg, err := results.GetItemByText(ctx, "pomcorn", true)
	require.NoError(t, err)
	name, err := pkg.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pomcorn", name)

	details, err := pkg.Open(ctx)
	require.NoError(t, err)
	header, err := details.Header(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pomcorn 0.8.6", header)
}

func TestMissingPackageFailsOnInteraction(t *testing.T) {
	ctx := context.Background()
	session, config := newOfflineSession(t)
	config.WaitTimeout = 50 * time.Millisecond

	searchPage, err := OpenSearchPage(ctx, session, config)
	require.NoError(t, err)
	results, err := searchPage.Results(ctx)
	require.NoError(t, err)

	pkg, err := results.GetItemByText(ctx, "left-pad", true)
	require.NoError(t, err)

	_, err = pkg.Name(ctx)
	assert.ErrorIs(t, err, pageobject.ErrNotVisible)
}

func TestOpenPackageDetailsPage(t *testing.T) {
	ctx := context.Background()
	session, config := newOfflineSession(t)

	details, err := OpenPackageDetailsPage(ctx, session, config, "pomcorn")
	require.NoError(t, err)
	assert.Equal(t, "PackageDetailsPage", details.Name())

	current, err := details.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.AppRoot+"/project/pomcorn/", current)
}

func TestHelpPageThroughNavbar(t *testing.T) {
	ctx := context.Background()
	session, config := newOfflineSession(t)

	help, err := OpenHelpPage(ctx, session, config)
	require.NoError(t, err)
	title, err := help.Title.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Common questions", title)

	index, err := help.ClickOnLogo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "IndexPage", index.Name())
}

func TestDefaultAppRoot(t *testing.T) {
	session, err := browser.NewStaticSession(quietLogger())
	require.NoError(t, err)
	require.NoError(t, session.LoadHTML("https://pypi.org/", "<html><body><main>ok</main></body></html>"))

	index, err := NewIndexPage(context.Background(), session, pageobject.ViewConfig{Logger: logrus.NewEntry(quietLogger())})
	require.NoError(t, err)
	assert.Equal(t, AppRoot, index.AppRoot())
}

func TestDemoScenarios(t *testing.T) {
	session, config := newOfflineSession(t)

	runner := scenarios.NewRunner(session, config, nil, quietLogger())
	results, err := runner.Run(context.Background(), Scenarios())
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, entities.ScenarioStatusPassed, result.Status, "%s: %s", result.Name, result.Error)
	}
}

func TestSearchScenarioFailsOnTooFewResults(t *testing.T) {
	session, config := newOfflineSession(t)

	runner := scenarios.NewRunner(session, config, nil, quietLogger())
	results, err := runner.Run(context.Background(), []scenarios.Scenario{SearchScenario("saritasa", "pomcorn", 10)})
	assert.ErrorIs(t, err, scenarios.ErrScenarioFailed)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Error, "at least 10 packages")
}
