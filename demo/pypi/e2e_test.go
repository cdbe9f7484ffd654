//go:build e2e

package pypi

import (
	"context"
	"testing"
	"time"

	"page_objects/application/scenarios"
	"page_objects/domain/entities"
	"page_objects/infrastructure/browser"
	"page_objects/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLivePyPI runs demo scenarios against real PyPI with backend taken
// from POM_* environment, e.g. POM_BACKEND=playwright go test -tags e2e ./demo/...
func TestLivePyPI(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(cfg.Level())

	session, err := browser.Open(cfg.BrowserBackend(), cfg.BrowserOptions(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	results, err := scenarios.NewRunner(session, cfg.ViewConfig(logger), nil, logger).Run(ctx, Scenarios())
	for _, result := range results {
		assert.Equal(t, entities.ScenarioStatusPassed, result.Status, "%s: %s", result.Name, result.Error)
	}
	require.NoError(t, err)
}
