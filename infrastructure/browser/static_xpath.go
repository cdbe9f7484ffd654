package browser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

var lastOffset = regexp.MustCompile(`^last\(\)\s*-\s*(\d+)$`)

// xpathEvaluator runs queries through antchfx/xpath and returns matches in
// document order, the way browsers do. Bracketed groups with a trailing
// predicate like `(Q)[2]` or `(Q)[last() - 1]` are resolved here on the
// ordered set, the engine only evaluates the plain steps. Absolute paths
// always start from the document, whatever the context node is.
type xpathEvaluator struct {
	top      *html.Node
	order    map[*html.Node]int
	compiled map[string]*xpath.Expr
}

// queryAll - evaluates expr from context node, matches come in document order
func queryAll(context *html.Node, expr string) ([]*html.Node, error) {
	return newXPathEvaluator(context).eval(context, strings.TrimSpace(expr))
}

func newXPathEvaluator(context *html.Node) *xpathEvaluator {
	top := context
	for top.Parent != nil {
		top = top.Parent
	}
	order := make(map[*html.Node]int)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		order[n] = len(order)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(top)
	return &xpathEvaluator{top: top, order: order, compiled: make(map[string]*xpath.Expr)}
}

// selectFrom - evaluates plain expression with context node n
func (x *xpathEvaluator) selectFrom(n *html.Node, expr string) ([]*html.Node, error) {
	compiled, ok := x.compiled[expr]
	if !ok {
		var err error
		if compiled, err = xpath.Compile(expr); err != nil {
			return nil, err
		}
		x.compiled[expr] = compiled
	}
	var nodes []*html.Node
	iter := compiled.Select(x.navigatorAt(n))
	for iter.MoveNext() {
		current := iter.Current()
		if current.NodeType() == xpath.AttributeNode {
			continue
		}
		nodes = append(nodes, current.(*htmlquery.NodeNavigator).Current())
	}
	return nodes, nil
}

// navigatorAt - navigator rooted at document top and positioned on n
func (x *xpathEvaluator) navigatorAt(n *html.Node) *htmlquery.NodeNavigator {
	var path []*html.Node
	for cur := n; cur != nil && cur != x.top; cur = cur.Parent {
		path = append(path, cur)
	}
	nav := htmlquery.CreateXPathNavigator(x.top)
	for i := len(path) - 1; i >= 0; i-- {
		if !nav.MoveToChild() {
			break
		}
		for nav.Current() != path[i] && nav.MoveToNext() {
		}
	}
	return nav
}

func (x *xpathEvaluator) eval(context *html.Node, expr string) ([]*html.Node, error) {
	if parts := splitTopLevel(expr, '|'); len(parts) > 1 {
		var all []*html.Node
		for _, part := range parts {
			found, err := x.eval(context, strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			all = append(all, found...)
		}
		return x.sorted(all), nil
	}

	if !strings.HasPrefix(expr, "(") {
		nodes, err := x.selectFrom(context, expr)
		if err != nil {
			return nil, err
		}
		return x.sorted(nodes), nil
	}

	end := closing(expr, 0)
	if end < 0 {
		return nil, fmt.Errorf("unbalanced brackets in `%s`", expr)
	}
	nodes, err := x.eval(context, strings.TrimSpace(expr[1:end]))
	if err != nil {
		return nil, err
	}

	rest := strings.TrimSpace(expr[end+1:])
	for strings.HasPrefix(rest, "[") {
		end := closing(rest, 0)
		if end < 0 {
			return nil, fmt.Errorf("unbalanced brackets in `%s`", expr)
		}
		if nodes, err = x.filter(nodes, strings.TrimSpace(rest[1:end])); err != nil {
			return nil, err
		}
		rest = strings.TrimSpace(rest[end+1:])
	}
	if rest == "" {
		return nodes, nil
	}
	if !strings.HasPrefix(rest, "/") {
		return nil, fmt.Errorf("unexpected `%s` after group in `%s`", rest, expr)
	}

	var all []*html.Node
	for _, n := range nodes {
		found, err := x.eval(n, "."+rest)
		if err != nil {
			return nil, err
		}
		all = append(all, found...)
	}
	return x.sorted(all), nil
}

// filter - applies one predicate to ordered group, positional predicates
// pick by index, others keep nodes the predicate holds for
func (x *xpathEvaluator) filter(nodes []*html.Node, predicate string) ([]*html.Node, error) {
	if index, ok := position(predicate, len(nodes)); ok {
		if index < 0 || index >= len(nodes) {
			return nil, nil
		}
		return nodes[index : index+1], nil
	}

	kept := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		self, err := x.selectFrom(n, "self::node()["+predicate+"]")
		if err != nil {
			return nil, err
		}
		if len(self) != 0 {
			kept = append(kept, n)
		}
	}
	return kept, nil
}

// position - zero-based index addressed by positional predicate
func position(predicate string, size int) (int, bool) {
	if n, err := strconv.Atoi(predicate); err == nil {
		return n - 1, true
	}
	if strings.ReplaceAll(predicate, " ", "") == "last()" {
		return size - 1, true
	}
	if m := lastOffset.FindStringSubmatch(predicate); m != nil {
		offset, _ := strconv.Atoi(m[1])
		return size - 1 - offset, true
	}
	return 0, false
}

func (x *xpathEvaluator) sorted(nodes []*html.Node) []*html.Node {
	seen := make(map[*html.Node]bool, len(nodes))
	unique := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return x.rank(unique[i]) < x.rank(unique[j])
	})
	return unique
}

func (x *xpathEvaluator) rank(n *html.Node) int {
	if pos, ok := x.order[n]; ok {
		return pos
	}
	return len(x.order)
}

// closing - index of bracket closing the one at start, quoted text skipped
func closing(s string, start int) int {
	depth := 0
	var quote byte
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevel - splits s by sep outside of brackets and quoted text
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, from := 0, 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[from:i])
			from = i + 1
		}
	}
	return append(parts, s[from:])
}
