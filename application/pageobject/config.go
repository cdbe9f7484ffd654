// Package pageobject implements page objects on top of a browser session.
//
// A Page wraps the whole document and waits until it is loaded on
// construction. Components wrap a fragment of the page located by a base
// locator, and ListComponent describes repeated fragments whose item type is
// resolved once per instance. Every interaction goes through Element handles
// that re-resolve their locator on each call and synchronise with the browser
// by polling waits.
package pageobject

import (
	"runtime"
	"time"

	"page_objects/domain/entities"
	"page_objects/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	DefaultWaitTimeout  = 5 * time.Second
	DefaultPollInterval = 10 * time.Millisecond
)

// ViewConfig holds settings shared by a page and all its components
type ViewConfig struct {
	// AppRoot is base url of application under test
	AppRoot string

	// WaitTimeout bounds every wait
	WaitTimeout time.Duration

	// PollInterval is time between two checks of wait condition
	PollInterval time.Duration

	// Platform switches text lookups between web and android
	Platform entities.Platform

	// SelectAllModifier is pressed together with `a` to clear inputs
	SelectAllModifier string

	Logger *logrus.Entry
}

// DefaultSelectAllModifier - Command on macOS, Control elsewhere
func DefaultSelectAllModifier() string {
	if runtime.GOOS == "darwin" {
		return interfaces.KeyCommand
	}
	return interfaces.KeyControl
}

func (c ViewConfig) withDefaults() ViewConfig {
	if c.WaitTimeout <= 0 {
		c.WaitTimeout = DefaultWaitTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Platform == "" {
		c.Platform = entities.PlatformWeb
	}
	if c.SelectAllModifier == "" {
		c.SelectAllModifier = DefaultSelectAllModifier()
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return c
}
