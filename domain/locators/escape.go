package locators

import "strings"

// Escape - quotes text for XPath string comparison.
//
// XPath 1.0 has no escape sequences, so text holding both kinds of quotes is
// split into parts and glued back with concat(), e.g. `He's 6'2"` becomes
// concat("He", "'", "s 6", "'", "2", '"').
func Escape(text string) string {
	if !strings.ContainsAny(text, `"'`) {
		return `"` + text + `"`
	}

	var parts []string
	var buffer strings.Builder
	flush := func() {
		if buffer.Len() > 0 {
			parts = append(parts, `"`+buffer.String()+`"`)
			buffer.Reset()
		}
	}

	for _, char := range text {
		switch char {
		case '"':
			flush()
			parts = append(parts, `'"'`)
		case '\'':
			flush()
			parts = append(parts, `"'"`)
		default:
			buffer.WriteRune(char)
		}
	}
	flush()

	return "concat(" + strings.Join(parts, ", ") + ")"
}
