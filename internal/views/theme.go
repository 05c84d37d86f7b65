package views

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
)

// Theme is the persisted colour preference
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme validates a theme name. Empty selects system.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	case ThemeSystem, "":
		return ThemeSystem, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
}

// Resolve maps system onto light or dark using a COLORFGBG value
// ("fg;bg"). Backgrounds 7 and 15 are light; anything else is dark.
func (t Theme) Resolve(colorfgbg string) Theme {
	if t != ThemeSystem {
		return t
	}
	parts := strings.Split(colorfgbg, ";")
	switch strings.TrimSpace(parts[len(parts)-1]) {
	case "7", "15":
		return ThemeLight
	}
	return ThemeDark
}

// Styler colours table headers. A disabled styler returns text unchanged.
type Styler struct {
	enabled bool
	header  func(string) string
	accent  func(string) string
}

var palettes = map[Theme][2]string{
	ThemeDark:  {"cyan+b", "yellow+b"},
	ThemeLight: {"blue+b", "magenta+b"},
}

// NewStyler returns a styler for theme. Colour is used only when out is
// a terminal.
func NewStyler(theme Theme, out io.Writer) Styler {
	if !isTerminal(out) {
		return Plain()
	}
	return newStyler(theme.Resolve(os.Getenv("COLORFGBG")))
}

func newStyler(theme Theme) Styler {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[ThemeDark]
	}
	return Styler{
		enabled: true,
		header:  ansi.ColorFunc(p[0]),
		accent:  ansi.ColorFunc(p[1]),
	}
}

// Plain returns a styler that never colours
func Plain() Styler {
	return Styler{}
}

// Enabled reports whether escape codes are emitted
func (s Styler) Enabled() bool {
	return s.enabled
}

// Header styles a table header line
func (s Styler) Header(text string) string {
	if !s.enabled {
		return text
	}
	return s.header(text)
}

// Accent styles status lines such as upload summaries
func (s Styler) Accent(text string) string {
	if !s.enabled {
		return text
	}
	return s.accent(text)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
