package browser

import (
	"fmt"
	"strings"

	"page_objects/domain/interfaces"
	"page_objects/domain/locators"
)

// toXPath - translates lookup strategy into XPath, css selectors have no
// XPath equivalent
func toXPath(strategy locators.Strategy, query string) (string, error) {
	switch strategy {
	case locators.ByXPath:
		return query, nil
	case locators.ByID:
		return fmt.Sprintf("//*[@id=%s]", locators.Escape(query)), nil
	case locators.ByName:
		return fmt.Sprintf("//*[@name=%s]", locators.Escape(query)), nil
	case locators.ByTagName:
		return "//" + query, nil
	case locators.ByClassName:
		return fmt.Sprintf(`//*[contains(concat(" ", normalize-space(@class), " "), %s)]`, locators.Escape(" "+query+" ")), nil
	case locators.ByLinkText:
		return fmt.Sprintf("//a[normalize-space(.)=%s]", locators.Escape(query)), nil
	case locators.ByPartialLinkText:
		return fmt.Sprintf("//a[contains(., %s)]", locators.Escape(query)), nil
	case locators.ByCSSSelector:
		return "", fmt.Errorf("%w: css selector `%s` as xpath", interfaces.ErrUnsupported, query)
	}
	return "", locators.ValidateStrategy(strategy)
}

// playwrightSelector - translates lookup strategy into playwright selector engine syntax
func playwrightSelector(strategy locators.Strategy, query string) (string, error) {
	switch strategy {
	case locators.ByCSSSelector, locators.ByTagName:
		return "css=" + query, nil
	case locators.ByID:
		return "id=" + query, nil
	case locators.ByClassName:
		return "css=." + strings.TrimPrefix(query, "."), nil
	}
	expr, err := toXPath(strategy, query)
	if err != nil {
		return "", err
	}
	return "xpath=" + expr, nil
}

// wrapScript - turns Selenium style body reading arguments[i] into function
// taking arguments as a single array
func wrapScript(script string) string {
	return "(args) => (function() {\n" + script + "\n}).apply(null, args)"
}

// keyStroke is either plain text or a named key pressed with modifiers
type keyStroke struct {
	text      string
	key       string
	modifiers []string
}

var namedKeys = map[rune]string{
	[]rune(interfaces.KeyBackspace)[0]: "Backspace",
	[]rune(interfaces.KeyTab)[0]:       "Tab",
	[]rune(interfaces.KeyEnter)[0]:     "Enter",
	[]rune(interfaces.KeyEscape)[0]:    "Escape",
}

var modifierKeys = map[rune]string{
	[]rune(interfaces.KeyShift)[0]:   "Shift",
	[]rune(interfaces.KeyControl)[0]: "Control",
	[]rune(interfaces.KeyCommand)[0]: "Meta",
}

// splitKeys - splits WebDriver key sequence into strokes. Modifiers stay
// pressed until the end of sequence, so chars typed after one form chords.
func splitKeys(keys string) []keyStroke {
	var strokes []keyStroke
	var text strings.Builder
	var held []string

	flush := func() {
		if text.Len() > 0 {
			strokes = append(strokes, keyStroke{text: text.String()})
			text.Reset()
		}
	}

	for _, r := range keys {
		if mod, ok := modifierKeys[r]; ok {
			flush()
			held = append(held, mod)
			continue
		}
		name, named := namedKeys[r]
		switch {
		case named:
			flush()
			strokes = append(strokes, keyStroke{key: name, modifiers: held})
		case interfaces.IsSpecialKey(r):
			// keys without mapping are dropped
		case len(held) > 0:
			strokes = append(strokes, keyStroke{key: string(r), modifiers: held})
		default:
			text.WriteRune(r)
		}
	}
	flush()
	return strokes
}

// chord - playwright notation of stroke, e.g. Control+a
func (k keyStroke) chord() string {
	return strings.Join(append(append([]string{}, k.modifiers...), k.key), "+")
}
