// Package config loads run settings from .env, environment and optional
// YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"page_objects/application/pageobject"
	"page_objects/domain/entities"
	"page_objects/infrastructure/browser"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	EnvPrefix         = "POM"
	DefaultConfigFile = "pom.yaml"
)

type SeleniumConfig struct {
	URL        string `mapstructure:"url"`
	DriverPath string `mapstructure:"driver_path"`
	ChromePath string `mapstructure:"chrome_path"`
	Port       int    `mapstructure:"port"`
}

type PlaywrightConfig struct {
	StatePath string `mapstructure:"state_path"`
}

type RodConfig struct {
	ControlURL string `mapstructure:"control_url"`
	Stealth    bool   `mapstructure:"stealth"`
}

// Config is the whole run configuration
type Config struct {
	Backend            string        `mapstructure:"backend"`
	AppRoot            string        `mapstructure:"app_root"`
	WaitTimeout        time.Duration `mapstructure:"wait_timeout"`
	PollInterval       time.Duration `mapstructure:"poll_interval"`
	AutomationPlatform string        `mapstructure:"automation_platform"`
	Headless           bool          `mapstructure:"headless"`
	ReportPath         string        `mapstructure:"report_path"`
	LogLevel           string        `mapstructure:"log_level"`
	LogFile            string        `mapstructure:"log_file"`

	Selenium   SeleniumConfig   `mapstructure:"selenium"`
	Playwright PlaywrightConfig `mapstructure:"playwright"`
	Rod        RodConfig        `mapstructure:"rod"`

	platform entities.Platform
	backend  browser.Backend
}

// SetDefaults - registers every key, so environment overrides reach Unmarshal
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", string(browser.BackendStatic))
	v.SetDefault("app_root", "")
	v.SetDefault("wait_timeout", pageobject.DefaultWaitTimeout)
	v.SetDefault("poll_interval", pageobject.DefaultPollInterval)
	v.SetDefault("automation_platform", string(entities.PlatformWeb))
	v.SetDefault("headless", true)
	v.SetDefault("report_path", ".pom/report.json")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	v.SetDefault("selenium.url", "")
	v.SetDefault("selenium.driver_path", "")
	v.SetDefault("selenium.chrome_path", "")
	v.SetDefault("selenium.port", 9515)

	v.SetDefault("playwright.state_path", "")

	v.SetDefault("rod.control_url", "")
	v.SetDefault("rod.stealth", false)
}

// NewViper - viper instance with defaults and POM_ environment binding
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load - reads .env (when present), then config file at path or ./pom.yaml
// (when present), with POM_* environment variables on top
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, ".yaml"))
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}
	return FromViper(v)
}

// FromViper - unmarshals and validates configuration
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate - checks enumerations and durations, expands `~` in paths,
// caches parsed values
func (c *Config) Validate() error {
	platform, err := entities.ParsePlatform(c.AutomationPlatform)
	if err != nil {
		return err
	}
	backend, err := browser.ParseBackend(c.Backend)
	if err != nil {
		return err
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait_timeout must be positive, got %s", c.WaitTimeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	for _, path := range []*string{
		&c.ReportPath, &c.LogFile, &c.Playwright.StatePath,
		&c.Selenium.DriverPath, &c.Selenium.ChromePath,
	} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", *path, err)
		}
		*path = expanded
	}
	c.platform, c.backend = platform, backend
	return nil
}

func (c *Config) Platform() entities.Platform {
	if c.platform == "" {
		return entities.PlatformWeb
	}
	return c.platform
}

func (c *Config) BrowserBackend() browser.Backend {
	if c.backend == "" {
		return browser.BackendStatic
	}
	return c.backend
}

// Level - logrus level, info when unparsable
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// BrowserOptions - options for real browser backends
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Headless:    c.Headless,
		StatePath:   c.Playwright.StatePath,
		SeleniumURL: c.Selenium.URL,
		DriverPath:  c.Selenium.DriverPath,
		ChromePath:  c.Selenium.ChromePath,
		DriverPort:  c.Selenium.Port,
		ControlURL:  c.Rod.ControlURL,
		Stealth:     c.Rod.Stealth,
	}
}

// ViewConfig - page object settings derived from this configuration
func (c *Config) ViewConfig(logger *logrus.Logger) pageobject.ViewConfig {
	cfg := pageobject.ViewConfig{
		AppRoot:      c.AppRoot,
		WaitTimeout:  c.WaitTimeout,
		PollInterval: c.PollInterval,
		Platform:     c.Platform(),
	}
	if logger != nil {
		cfg.Logger = logrus.NewEntry(logger)
	}
	return cfg
}
