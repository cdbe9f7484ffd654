package pageobject

import (
	"context"
	"io"
	"testing"
	"time"

	"page_objects/infrastructure/browser"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testRoot = "https://shop.test/"

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() ViewConfig {
	return ViewConfig{
		AppRoot:      testRoot,
		WaitTimeout:  100 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		Logger:       logrus.NewEntry(quietLogger()),
	}
}

// newStaticPage - loads markup into offline session and wraps it into page
func newStaticPage(t *testing.T, markup string, opts ...PageOption) (*browser.StaticSession, *Page) {
	t.Helper()
	session, err := browser.NewStaticSession(quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	require.NoError(t, session.LoadHTML(testRoot, markup))

	page, err := NewPage(context.Background(), session, testConfig(), opts...)
	require.NoError(t, err)
	return session, page
}
