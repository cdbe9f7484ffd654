package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"page_objects/domain/entities"
	"page_objects/infrastructure/browser"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := FromViper(NewViper())
	require.NoError(t, err)

	assert.Equal(t, browser.BackendStatic, cfg.BrowserBackend())
	assert.Equal(t, entities.PlatformWeb, cfg.Platform())
	assert.Equal(t, 5*time.Second, cfg.WaitTimeout)
	assert.Equal(t, 10*time.Millisecond, cfg.PollInterval)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 9515, cfg.Selenium.Port)
	assert.Equal(t, ".pom/report.json", cfg.ReportPath)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("POM_BACKEND", "rod")
	t.Setenv("POM_APP_ROOT", "https://pypi.org")
	t.Setenv("POM_WAIT_TIMEOUT", "2s")
	t.Setenv("POM_AUTOMATION_PLATFORM", "android")
	t.Setenv("POM_SELENIUM_PORT", "4444")
	t.Setenv("POM_ROD_STEALTH", "true")

	cfg, err := FromViper(NewViper())
	require.NoError(t, err)

	assert.Equal(t, browser.BackendRod, cfg.BrowserBackend())
	assert.Equal(t, "https://pypi.org", cfg.AppRoot)
	assert.Equal(t, 2*time.Second, cfg.WaitTimeout)
	assert.Equal(t, entities.PlatformAndroid, cfg.Platform())

	opts := cfg.BrowserOptions()
	assert.Equal(t, 4444, opts.DriverPort)
	assert.True(t, opts.Stealth)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pom.yaml")
	content := `backend: selenium
app_root: http://localhost:8000
poll_interval: 50ms
selenium:
  url: http://localhost:4444/wd/hub
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("POM_APP_ROOT", "http://override:9000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, browser.BackendSelenium, cfg.BrowserBackend())
	assert.Equal(t, "http://override:9000", cfg.AppRoot)
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "http://localhost:4444/wd/hub", cfg.BrowserOptions().SeleniumURL)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown platform", map[string]string{"POM_AUTOMATION_PLATFORM": "ios"}},
		{"unknown backend", map[string]string{"POM_BACKEND": "lynx"}},
		{"zero timeout", map[string]string{"POM_WAIT_TIMEOUT": "0s"}},
		{"bad log level", map[string]string{"POM_LOG_LEVEL": "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := FromViper(NewViper())
			assert.Error(t, err)
		})
	}
}

func TestViewConfig(t *testing.T) {
	t.Setenv("POM_APP_ROOT", "https://pypi.org")
	cfg, err := FromViper(NewViper())
	require.NoError(t, err)

	logger := logrus.New()
	view := cfg.ViewConfig(logger)
	assert.Equal(t, "https://pypi.org", view.AppRoot)
	assert.Equal(t, cfg.WaitTimeout, view.WaitTimeout)
	assert.Equal(t, entities.PlatformWeb, view.Platform)
	require.NotNil(t, view.Logger)
	assert.Same(t, logger, view.Logger.Logger)
}

func TestValidateExpandsHomeDir(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)
	t.Setenv("POM_REPORT_PATH", "~/pom/report.db")
	t.Setenv("POM_LOG_FILE", "~/pom/run.log")

	cfg, err := FromViper(NewViper())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "pom", "report.db"), cfg.ReportPath)
	assert.Equal(t, filepath.Join(home, "pom", "run.log"), cfg.LogFile)
	assert.Empty(t, cfg.Selenium.DriverPath)
}
