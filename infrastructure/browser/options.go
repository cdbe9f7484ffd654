package browser

// Options configure real browser backends
type Options struct {
	Headless bool

	// StatePath keeps cookies and local storage between playwright runs
	StatePath string

	// SeleniumURL points to running WebDriver server, local chromedriver
	// is started when empty
	SeleniumURL string
	DriverPath  string
	ChromePath  string
	DriverPort  int

	// ControlURL is DevTools websocket of running Chrome for rod, a local
	// browser is launched when empty
	ControlURL string
	// Stealth applies anti detection patches to rod pages
	Stealth bool

	ViewportWidth  int
	ViewportHeight int
}

func (o Options) viewport() (int, int) {
	width, height := o.ViewportWidth, o.ViewportHeight
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	return width, height
}
