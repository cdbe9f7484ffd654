package locators

import "fmt"

type options struct {
	container string
	exact     *bool
}

// Option adjusts specialised locator constructors
type Option func(*options)

// Container - restricts lookup to given tag, any tag by default
func Container(tag string) Option {
	return func(o *options) { o.container = tag }
}

// Exact - requires full match of value or text
func Exact() Option {
	return func(o *options) { o.exact = boolPtr(true) }
}

// Partial - allows value or text to be only a part
func Partial() Option {
	return func(o *options) { o.exact = boolPtr(false) }
}

func boolPtr(b bool) *bool { return &b }

func buildOptions(exactByDefault bool, opts []Option) (string, bool) {
	o := options{container: "*", exact: boolPtr(exactByDefault)}
	for _, opt := range opts {
		opt(&o)
	}
	return o.container, *o.exact
}

// Tag - looks for elements by html tag
func Tag(tag string) XPath {
	return NewXPath("//" + tag)
}

// Property - looks for elements by property value, partial match by default
func Property(prop, value string, opts ...Option) XPath {
	container, exact := buildOptions(false, opts)
	if exact {
		return NewXPath(fmt.Sprintf("//%s[@%s=%s]", container, prop, Escape(value)))
	}
	return NewXPath(fmt.Sprintf("//%s[contains(@%s, %s)]", container, prop, Escape(value)))
}

// TestID - looks for elements by exact `data-testid` property
func TestID(value string, opts ...Option) XPath {
	return Property("data-testid", value, withExact(opts)...)
}

// ID - looks for elements by exact id
func ID(value string, opts ...Option) XPath {
	return Property("id", value, withExact(opts)...)
}

// Name - looks for elements by exact name
func Name(value string, opts ...Option) XPath {
	return Property("name", value, withExact(opts)...)
}

// Class - looks for elements by class, partial match by default
func Class(className string, opts ...Option) XPath {
	return Property("class", className, opts...)
}

func withExact(opts []Option) []Option {
	return append([]Option{Exact()}, opts...)
}

// WithText - looks for elements containing text, partial match by default.
// Container option sets the element tag.
func WithText(text string, opts ...Option) XPath {
	element, exact := buildOptions(false, opts)
	if exact {
		return NewXPath(fmt.Sprintf("//%s[./text()=%s]", element, Escape(text)))
	}
	return NewXPath(fmt.Sprintf("//%s[contains(.,%s)]", element, Escape(text)))
}

// ButtonWithText - looks for button containing text
func ButtonWithText(text string, opts ...Option) XPath {
	return WithText(text, append(opts, Container("button"))...)
}

// InputInLabel - looks for input nested into label
//
//	<label>Title
//	    <input value="Value">
//	</label>
func InputInLabel(label string) XPath {
	return NewXPath(fmt.Sprintf("//label[contains(., %s)]//input", Escape(label)))
}

// InputByLabel - looks for input placed next to label
//
//	<div>
//	    <label for="InputWithLabel">Title</label>
//	    <input id="InputWithLabel" value="Value">
//	</div>
func InputByLabel(label string) XPath {
	return NewXPath(fmt.Sprintf("//label[contains(., %s)]/following-sibling::input", Escape(label)))
}

// TextAreaByLabel - looks for textarea sharing parent with label
func TextAreaByLabel(label string) XPath {
	return NewXPath(fmt.Sprintf("//*[label[contains(text(), %s)]]/textarea", Escape(label)))
}
