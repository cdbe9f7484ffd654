package interfaces

// Special keys use WebDriver code points, sessions translate them when needed
const (
	KeyBackspace = "\ue003"
	KeyTab       = "\ue004"
	KeyEnter     = "\ue007"
	KeyShift     = "\ue008"
	KeyControl   = "\ue009"
	KeyEscape    = "\ue00c"
	KeyCommand   = "\ue03d"
)

// IsSpecialKey - reports whether rune is one of WebDriver special keys
func IsSpecialKey(r rune) bool {
	return r >= '\ue000' && r <= '\ue05d'
}
