package locators

import (
	"fmt"
	"strings"

	"page_objects/domain/entities"
)

const divider = "//"

// XPath is a locator looking for elements by XPath query.
//
// Custom XPath locators are expected to be independent, meaning their query
// starts with `//`, so they can be composed with each other.
type XPath struct {
	query   string
	related string
}

// NewXPath - creates XPath locator from raw query
func NewXPath(query string) XPath {
	return XPath{query: query, related: strings.TrimLeft(query, "/")}
}

func (x XPath) Strategy() Strategy { return ByXPath }
func (x XPath) Query() string      { return x.query }

// RelatedQuery - query without leading slashes, used for composition
func (x XPath) RelatedQuery() string { return x.related }

// IsEmpty - reports whether locator has nothing to look for
func (x XPath) IsEmpty() bool { return x.related == "" }

func (x XPath) String() string {
	return fmt.Sprintf("Locator<By `%s`: Query `%s`>", ByXPath, x.query)
}

// Child - selects nearest children of current node matching other
func (x XPath) Child(other XPath) (XPath, error) {
	return x.compose(other, "/")
}

// Descendant - selects all descendants of current node matching other
func (x XPath) Descendant(other XPath) (XPath, error) {
	return x.compose(other, divider)
}

// ChildQuery - same as Child for raw query string
func (x XPath) ChildQuery(query string) (XPath, error) {
	return x.compose(NewXPath(query), "/")
}

// DescendantQuery - same as Descendant for raw query string
func (x XPath) DescendantQuery(query string) (XPath, error) {
	return x.compose(NewXPath(query), divider)
}

func (x XPath) compose(other XPath, separator string) (XPath, error) {
	parent := x.related
	// Bracketed parent like `(//li)[3]` must not be prefixed
	if !strings.HasPrefix(parent, "(") {
		parent = divider + parent
	}
	composed := NewXPath(parent + separator + other.related)

	switch {
	case !x.IsEmpty() && !other.IsEmpty():
		return composed, nil
	case x.IsEmpty() && other.IsEmpty():
		return XPath{}, fmt.Errorf("%w: `%s` is not a valid locator", ErrEmptyLocatorComposition, composed.query)
	case x.IsEmpty():
		return other, nil
	default:
		return x, nil
	}
}

// Or - matches elements of either locator
func (x XPath) Or(other XPath) XPath {
	return NewXPath(fmt.Sprintf("(%s | %s)", x.query, other.query))
}

// At - selects match by zero-based index, negative index counts from the end
func (x XPath) At(index int) XPath {
	query := "(" + x.query + ")"
	switch {
	case index >= 0:
		query += fmt.Sprintf("[%d]", index+1)
	case index == -1:
		query += "[last()]"
	default:
		query += fmt.Sprintf("[last() - %d]", -(index + 1))
	}
	return NewXPath(query)
}

// Where - filters matches by arbitrary XPath expression
func (x XPath) Where(expr string) XPath {
	return NewXPath(fmt.Sprintf("(%s)[%s]", x.query, expr))
}

// Has - filters matches by presence of nodes matching other
func (x XPath) Has(other XPath) XPath {
	return x.Where(other.query)
}

// Extend - appends raw suffix to query
func (x XPath) Extend(suffix string) XPath {
	return NewXPath(x.query + suffix)
}

// Contains - filters matches by contained text, or by own text when exact
func (x XPath) Contains(text string, exact bool) XPath {
	return x.Extend(TextPredicate(text, exact))
}

// TextPredicate - predicate matching web element text
func TextPredicate(text string, exact bool) string {
	if exact {
		return fmt.Sprintf("[./text()=%s]", Escape(text))
	}
	return fmt.Sprintf("[contains(., %s)]", Escape(text))
}

// MatchingText - filters matches by text the way given platform exposes it.
// Android elements keep text in the @text attribute of the node itself or of
// one of its descendants.
func (x XPath) MatchingText(platform entities.Platform, text string, exact bool) XPath {
	if !platform.IsAndroid() {
		return x.Contains(text, exact)
	}
	escaped := Escape(text)
	cond := fmt.Sprintf("contains(@text, %s)", escaped)
	if exact {
		cond = "@text=" + escaped
	}
	return x.Where(fmt.Sprintf("self::node()[%s] | .//*[%s]", cond, cond))
}
