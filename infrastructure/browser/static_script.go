package browser

import (
	"context"
	"fmt"
	"strings"

	"page_objects/domain/interfaces"

	"github.com/antchfx/htmlquery"
	"github.com/dop251/goja"
	"golang.org/x/net/html"
)

// lineHeight approximates layout, every element takes one line
const lineHeight = 20

// scriptBridge exposes minimal window, document and element bindings to goja
type scriptBridge struct {
	ctx     context.Context
	session *StaticSession
	doc     *document
	vm      *goja.Runtime
	wrapped map[*goja.Object]*staticElement
}

// ExecuteScript - runs script body in goja, elements are available as
// arguments[i] and support setAttribute, getAttribute, removeAttribute,
// scrollIntoView and click
func (s *StaticSession) ExecuteScript(ctx context.Context, script string, args ...any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.scope()
	if doc == nil {
		return nil, interfaces.ErrNoDocument
	}

	vm := goja.New()
	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	b := &scriptBridge{ctx: ctx, session: s, doc: doc, vm: vm, wrapped: make(map[*goja.Object]*staticElement)}

	jsArgs := make([]goja.Value, 0, len(args))
	for _, arg := range args {
		value, err := b.toJS(arg)
		if err != nil {
			return nil, err
		}
		jsArgs = append(jsArgs, value)
	}
	if err := vm.Set("window", b.window()); err != nil {
		return nil, err
	}
	if err := vm.Set("document", b.document()); err != nil {
		return nil, err
	}

	fn, err := vm.RunString("(function() {\n" + script + "\n})")
	if err != nil {
		return nil, fmt.Errorf("failed to compile script: %w", err)
	}
	call, ok := goja.AssertFunction(fn)
	if !ok {
		return nil, fmt.Errorf("script is not a function body")
	}
	result, err := call(goja.Undefined(), jsArgs...)
	if err != nil {
		return nil, fmt.Errorf("script failed: %w", err)
	}
	return b.fromJS(result), nil
}

func (b *scriptBridge) toJS(arg any) (goja.Value, error) {
	switch v := arg.(type) {
	case *staticElement:
		el, err := b.session.own(v)
		if err != nil {
			return nil, err
		}
		return b.wrap(el), nil
	case interfaces.NativeElement:
		return nil, fmt.Errorf("element %T doesn't belong to static session", v)
	}
	return b.vm.ToValue(arg), nil
}

func (b *scriptBridge) fromJS(value goja.Value) any {
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil
	}
	if obj, ok := value.(*goja.Object); ok {
		if el, ok := b.wrapped[obj]; ok {
			return el
		}
	}
	return value.Export()
}

func (b *scriptBridge) wrap(el *staticElement) *goja.Object {
	vm := b.vm
	obj := vm.NewObject()
	_ = obj.Set("tagName", strings.ToUpper(el.node.Data))
	_ = obj.Set("textContent", htmlquery.InnerText(el.node))
	_ = obj.Set("value", el.attribute("value"))

	_ = obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		value, ok := attr(el.node, call.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return vm.ToValue(value)
	})
	_ = obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		setAttr(el.node, call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	_ = obj.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		removeAttr(el.node, call.Argument(0).String())
		return goja.Undefined()
	})
	_ = obj.Set("scrollIntoView", func(goja.FunctionCall) goja.Value {
		b.session.scrollY = lineOf(el.doc.root, el.node) * lineHeight
		return goja.Undefined()
	})
	_ = obj.Set("click", func(goja.FunctionCall) goja.Value {
		if err := el.clickLocked(b.ctx); err != nil {
			panic(vm.NewGoError(err))
		}
		return goja.Undefined()
	})

	b.wrapped[obj] = el
	return obj
}

func (b *scriptBridge) window() *goja.Object {
	window := b.vm.NewObject()
	_ = window.Set("scrollY", b.session.scrollY)
	_ = window.Set("scrollBy", func(call goja.FunctionCall) goja.Value {
		y := b.session.scrollY + int(call.Argument(1).ToInteger())
		b.session.scrollY = max(0, min(y, b.scrollHeight()))
		return goja.Undefined()
	})
	return window
}

func (b *scriptBridge) document() *goja.Object {
	document := b.vm.NewObject()
	body := b.vm.NewObject()
	_ = body.Set("scrollHeight", b.scrollHeight())
	_ = document.Set("body", body)

	title := ""
	if node := htmlquery.FindOne(b.doc.root, "//title"); node != nil {
		title = strings.TrimSpace(htmlquery.InnerText(node))
	}
	_ = document.Set("title", title)

	_ = document.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).String()
		nodes, _ := queryAll(b.doc.root, "//*[@id]")
		for _, n := range nodes {
			if value, _ := attr(n, "id"); value == id {
				return b.wrap(&staticElement{session: b.session, doc: b.doc, node: n})
			}
		}
		return goja.Null()
	})
	return document
}

func (b *scriptBridge) scrollHeight() int {
	return lineOf(b.doc.root, nil) * lineHeight
}

// lineOf - count of elements preceding target in document order, or all
// elements when target is nil
func lineOf(root, target *html.Node) int {
	line := 0
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n == target {
			return true
		}
		if n.Type == html.ElementNode {
			line++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return line
}
