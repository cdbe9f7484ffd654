package entities

import (
	"fmt"
	"strings"
)

// Platform represents the automation target the page objects run against
type Platform string

const (
	PlatformWeb     Platform = "web"
	PlatformAndroid Platform = "android"
)

// ParsePlatform - converts configuration value to platform, empty value means web
func ParsePlatform(value string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(value))) {
	case "", PlatformWeb:
		return PlatformWeb, nil
	case PlatformAndroid:
		return PlatformAndroid, nil
	}
	return "", fmt.Errorf("unknown automation platform %q", value)
}

// IsAndroid - reports whether text lookups must use the @text attribute
func (p Platform) IsAndroid() bool {
	return p == PlatformAndroid
}
