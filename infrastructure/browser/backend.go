package browser

import (
	"fmt"
	"strings"

	"page_objects/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Backend names browser session implementation
type Backend string

const (
	BackendStatic     Backend = "static"
	BackendPlaywright Backend = "playwright"
	BackendSelenium   Backend = "selenium"
	BackendRod        Backend = "rod"
)

// Backends lists supported backend names
func Backends() []Backend {
	return []Backend{BackendStatic, BackendPlaywright, BackendSelenium, BackendRod}
}

// ParseBackend - accepts backend name in any case, empty name selects static
func ParseBackend(name string) (Backend, error) {
	if name == "" {
		return BackendStatic, nil
	}
	backend := Backend(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Backends() {
		if backend == known {
			return backend, nil
		}
	}
	return "", fmt.Errorf("unknown browser backend `%s`", name)
}

// Open - starts session of given backend
func Open(backend Backend, opts Options, logger *logrus.Logger) (interfaces.Session, error) {
	logger.Infof("Starting %s browser session", backend)
	switch backend {
	case BackendStatic:
		return NewStaticSession(logger)
	case BackendPlaywright:
		return NewPlaywrightSession(opts, logger)
	case BackendSelenium:
		return NewSeleniumSession(opts, logger)
	case BackendRod:
		return NewRodSession(opts, logger)
	}
	return nil, fmt.Errorf("unknown browser backend `%s`", backend)
}
