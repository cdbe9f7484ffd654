// Package locators describes how elements are looked up on a page.
//
// Every locator is a (strategy, query) pair. XPath locators additionally form
// a small algebra: they can be composed as child or descendant paths, joined
// as alternatives, indexed, and narrowed by text.
package locators

import (
	"errors"
	"fmt"
)

// Strategy is a lookup strategy understood by the browser session
type Strategy string

const (
	ByID              Strategy = "id"
	ByXPath           Strategy = "xpath"
	ByLinkText        Strategy = "link text"
	ByPartialLinkText Strategy = "partial link text"
	ByName            Strategy = "name"
	ByTagName         Strategy = "tag name"
	ByClassName       Strategy = "class name"
	ByCSSSelector     Strategy = "css selector"
)

var allowedStrategies = map[Strategy]struct{}{
	ByID:              {},
	ByXPath:           {},
	ByLinkText:        {},
	ByPartialLinkText: {},
	ByName:            {},
	ByTagName:         {},
	ByClassName:       {},
	ByCSSSelector:     {},
}

var (
	// ErrInvalidStrategy is returned when a locator uses an unknown strategy
	ErrInvalidStrategy = errors.New("invalid locator strategy")
	// ErrEmptyLocatorComposition is returned when both composed locators are empty
	ErrEmptyLocatorComposition = errors.New("both of locators have empty query")
)

// Locator is anything that can find elements through a session
type Locator interface {
	Strategy() Strategy
	Query() string
}

// Basic is a locator with an arbitrary allowed strategy
type Basic struct {
	strategy Strategy
	query    string
}

// New - creates locator, strategy must be one of the supported ones
func New(strategy Strategy, query string) (Basic, error) {
	if err := ValidateStrategy(strategy); err != nil {
		return Basic{}, err
	}
	return Basic{strategy: strategy, query: query}, nil
}

// ValidateStrategy - checks that session can understand given strategy
func ValidateStrategy(strategy Strategy) error {
	if _, ok := allowedStrategies[strategy]; !ok {
		return fmt.Errorf("%w: `%s`", ErrInvalidStrategy, strategy)
	}
	return nil
}

func (b Basic) Strategy() Strategy { return b.strategy }
func (b Basic) Query() string      { return b.query }

func (b Basic) String() string {
	return fmt.Sprintf("Locator<By `%s`: Query `%s`>", b.strategy, b.query)
}

// Describe - formats any locator for logs and error messages
func Describe(l Locator) string {
	if l == nil {
		return "<nil locator>"
	}
	return fmt.Sprintf("Locator<By `%s`: Query `%s`>", l.Strategy(), l.Query())
}
