package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"page_objects/domain/interfaces"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

var invisibleTags = map[string]bool{
	"head": true, "script": true, "style": true, "title": true, "meta": true,
	"link": true, "template": true, "noscript": true,
}

// staticElement is a node of static session document
type staticElement struct {
	session *StaticSession
	doc     *document
	node    *html.Node
}

func (e *staticElement) live() bool {
	s := e.session
	if e.doc != s.top && e.doc != s.frame {
		return false
	}
	for n := e.node; n != nil; n = n.Parent {
		if n == e.doc.root {
			return true
		}
	}
	return false
}

// locked - runs fn under session lock once element is known to be attached
func (e *staticElement) locked(fn func() error) error {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()
	if !e.live() {
		return interfaces.ErrStaleElement
	}
	return fn()
}

func (e *staticElement) IsDisplayed(ctx context.Context) (visible bool, err error) {
	err = e.locked(func() error {
		visible = isVisible(e.node)
		return nil
	})
	return visible, err
}

func (e *staticElement) IsEnabled(ctx context.Context) (enabled bool, err error) {
	err = e.locked(func() error {
		_, disabled := attr(e.node, "disabled")
		enabled = !disabled
		return nil
	})
	return enabled, err
}

func (e *staticElement) IsSelected(ctx context.Context) (selected bool, err error) {
	err = e.locked(func() error {
		_, checked := attr(e.node, "checked")
		_, chosen := attr(e.node, "selected")
		selected = checked || chosen
		return nil
	})
	return selected, err
}

func (e *staticElement) Text(ctx context.Context) (text string, err error) {
	err = e.locked(func() error {
		text = renderedText(e.node)
		return nil
	})
	return text, err
}

func (e *staticElement) Attribute(ctx context.Context, name string) (value string, err error) {
	err = e.locked(func() error {
		value = e.attribute(name)
		return nil
	})
	return value, err
}

func (e *staticElement) attribute(name string) string {
	switch {
	case name == "value" && e.node.Data == "textarea":
		return htmlquery.InnerText(e.node)
	case name == "href" || name == "src":
		raw, ok := attr(e.node, name)
		if !ok {
			return ""
		}
		if resolved, err := resolveAgainst(e.doc.url, raw); err == nil {
			return resolved.String()
		}
		return raw
	}
	value, _ := attr(e.node, name)
	return value
}

// CSSProperty - value from inline style, stylesheets are not evaluated
func (e *staticElement) CSSProperty(ctx context.Context, name string) (value string, err error) {
	err = e.locked(func() error {
		value = inlineStyle(e.node)[strings.ToLower(name)]
		return nil
	})
	return value, err
}

func (e *staticElement) Click(ctx context.Context) error {
	return e.locked(func() error {
		return e.clickLocked(ctx)
	})
}

func (e *staticElement) clickLocked(ctx context.Context) error {
	n := e.node
	switch {
	case n.Data == "input" && inputType(n) == "checkbox":
		toggleAttr(n, "checked")
		return nil
	case n.Data == "input" && inputType(n) == "radio":
		e.checkRadio()
		return nil
	case n.Data == "option":
		return e.selectOption(n)
	case isSubmitter(n):
		if form := findParentForm(n); form != nil {
			return e.session.submitFormLocked(ctx, e.doc, form, n)
		}
		return nil
	}

	if link := closest(n, "a"); link != nil {
		href, ok := attr(link, "href")
		if !ok || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
			return nil
		}
		target, err := resolveAgainst(e.doc.url, href)
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		return e.session.loadLocked(req)
	}
	return nil
}

func (e *staticElement) checkRadio() {
	name, _ := attr(e.node, "name")
	scope := findParentForm(e.node)
	if scope == nil {
		scope = e.doc.root
	}
	if name != "" {
		radios, _ := queryAll(scope, ".//input[@type='radio']")
		for _, r := range radios {
			if other, _ := attr(r, "name"); other == name {
				removeAttr(r, "checked")
			}
		}
	}
	setAttr(e.node, "checked", "checked")
}

func (e *staticElement) selectOption(option *html.Node) error {
	sel := closest(option, "select")
	if sel == nil {
		return fmt.Errorf("option is outside of select")
	}
	if _, multiple := attr(sel, "multiple"); multiple {
		toggleAttr(option, "selected")
		return nil
	}
	options, _ := queryAll(sel, ".//option")
	for _, o := range options {
		removeAttr(o, "selected")
	}
	setAttr(option, "selected", "selected")
	return nil
}

// SendKeys - types into input or textarea. Modifier+a selects the whole
// value, Backspace erases selection or last char, Enter submits the form.
func (e *staticElement) SendKeys(ctx context.Context, keys string) error {
	return e.locked(func() error {
		return e.sendKeysLocked(ctx, keys)
	})
}

func (e *staticElement) sendKeysLocked(ctx context.Context, keys string) error {
	n := e.node
	if n.Data != "input" && n.Data != "textarea" {
		return fmt.Errorf("%w: typing into <%s>", interfaces.ErrUnsupported, n.Data)
	}

	value := []rune(e.attribute("value"))
	modifier := false
	for _, r := range keys {
		key := string(r)
		switch {
		case key == interfaces.KeyControl || key == interfaces.KeyCommand:
			modifier = true
			continue
		case modifier && !interfaces.IsSpecialKey(r):
			// Chords don't type, only select-all has effect
			if r == 'a' || r == 'A' {
				e.session.selected[n] = true
			}
			continue
		case key == interfaces.KeyBackspace:
			if e.session.selected[n] {
				value = value[:0]
			} else if len(value) > 0 {
				value = value[:len(value)-1]
			}
		case key == interfaces.KeyEnter:
			if n.Data == "textarea" {
				value = append(value, '\n')
				break
			}
			e.setValue(string(value))
			delete(e.session.selected, n)
			if form := findParentForm(n); form != nil {
				return e.session.submitFormLocked(ctx, e.doc, form, nil)
			}
			continue
		case interfaces.IsSpecialKey(r):
			continue
		default:
			if e.session.selected[n] {
				value = value[:0]
			}
			value = append(value, r)
		}
		delete(e.session.selected, n)
	}
	e.setValue(string(value))
	return nil
}

func (e *staticElement) setValue(value string) {
	if e.node.Data != "textarea" {
		setAttr(e.node, "value", value)
		return
	}
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: value})
}

func (e *staticElement) Clear(ctx context.Context) error {
	return e.locked(func() error {
		e.setValue("")
		return nil
	})
}

func (e *staticElement) SelectByVisibleText(ctx context.Context, text string) error {
	return e.locked(func() error {
		if e.node.Data != "select" {
			return fmt.Errorf("element <%s> is not a select", e.node.Data)
		}
		options, _ := queryAll(e.node, ".//option")
		for _, o := range options {
			if renderedText(o) == strings.Join(strings.Fields(text), " ") {
				return e.selectOption(o)
			}
		}
		return fmt.Errorf("%w: option `%s`", interfaces.ErrNoSuchElement, text)
	})
}

// isVisible - element is displayed unless it or one of its ancestors is
// hidden by attribute, inline style, or non-rendered tag
func isVisible(n *html.Node) bool {
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if hiddenItself(cur) {
			return false
		}
	}
	return true
}

func hiddenItself(n *html.Node) bool {
	if invisibleTags[n.Data] {
		return true
	}
	if _, hidden := attr(n, "hidden"); hidden {
		return true
	}
	if n.Data == "input" && inputType(n) == "hidden" {
		return true
	}
	style := inlineStyle(n)
	return style["display"] == "none" || style["visibility"] == "hidden"
}

// renderedText - text with collapsed whitespace, descendants hidden inside
// n are skipped
func renderedText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		switch cur.Type {
		case html.TextNode:
			b.WriteString(cur.Data)
			b.WriteByte(' ')
			return
		case html.ElementNode:
			if cur != n && hiddenItself(cur) {
				return
			}
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func inlineStyle(n *html.Node) map[string]string {
	style := make(map[string]string)
	raw, _ := attr(n, "style")
	for _, decl := range strings.Split(raw, ";") {
		key, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		style[strings.ToLower(strings.TrimSpace(key))] = strings.ToLower(strings.TrimSpace(value))
	}
	return style
}

func inputType(n *html.Node) string {
	t, _ := attr(n, "type")
	if t == "" {
		return "text"
	}
	return strings.ToLower(t)
}

func isSubmitter(n *html.Node) bool {
	switch n.Data {
	case "button":
		t, _ := attr(n, "type")
		return t == "" || strings.EqualFold(t, "submit")
	case "input":
		t := inputType(n)
		return t == "submit" || t == "image"
	}
	return false
}

func closest(n *html.Node, tag string) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && cur.Data == tag {
			return cur
		}
	}
	return nil
}

func findParentForm(n *html.Node) *html.Node {
	return closest(n, "form")
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func toggleAttr(n *html.Node, key string) {
	if _, ok := attr(n, key); ok {
		removeAttr(n, key)
		return
	}
	setAttr(n, key, key)
}

// formValues - serializes form the way browser does on submit
func formValues(form, submitter *html.Node) url.Values {
	values := url.Values{}
	fields, _ := queryAll(form, ".//input | .//textarea | .//select | .//button")
	for _, field := range fields {
		name, _ := attr(field, "name")
		if name == "" {
			continue
		}
		if _, disabled := attr(field, "disabled"); disabled {
			continue
		}

		switch field.Data {
		case "input":
			switch inputType(field) {
			case "checkbox", "radio":
				if _, checked := attr(field, "checked"); checked {
					value, ok := attr(field, "value")
					if !ok {
						value = "on"
					}
					values.Add(name, value)
				}
			case "submit", "image":
				if field == submitter {
					value, _ := attr(field, "value")
					values.Add(name, value)
				}
			case "button", "reset", "file":
			default:
				value, _ := attr(field, "value")
				values.Add(name, value)
			}
		case "button":
			if field == submitter {
				value, _ := attr(field, "value")
				values.Add(name, value)
			}
		case "textarea":
			values.Add(name, htmlquery.InnerText(field))
		case "select":
			selected, _ := queryAll(field, ".//option[@selected]")
			if len(selected) == 0 {
				selected, _ = queryAll(field, "(.//option)[1]")
			}
			for _, opt := range selected {
				value, ok := attr(opt, "value")
				if !ok {
					value = renderedText(opt)
				}
				values.Add(name, value)
			}
		}
	}
	return values
}

func (s *StaticSession) submitFormLocked(ctx context.Context, doc *document, form, submitter *html.Node) error {
	action, _ := attr(form, "action")
	method, _ := attr(form, "method")

	target, err := resolveAgainst(doc.url, action)
	if err != nil {
		return err
	}
	values := formValues(form, submitter)

	var req *http.Request
	if strings.EqualFold(method, http.MethodPost) {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, target.String(), strings.NewReader(values.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		get := *target
		get.RawQuery = values.Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, get.String(), nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create form request: %w", err)
	}
	return s.loadLocked(req)
}
