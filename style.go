package katex

// Style is one of the eight TeX math styles: display, text, script and
// scriptscript, each in a normal and a cramped variant.
type Style int

const (
	StyleDisplay Style = iota
	StyleDisplayCramped
	StyleText
	StyleTextCramped
	StyleScript
	StyleScriptCramped
	StyleScriptScript
	StyleScriptScriptCramped
)

var (
	supStyles     = [...]Style{StyleScript, StyleScriptCramped, StyleScript, StyleScriptCramped, StyleScriptScript, StyleScriptScriptCramped, StyleScriptScript, StyleScriptScriptCramped}
	subStyles     = [...]Style{StyleScriptCramped, StyleScriptCramped, StyleScriptCramped, StyleScriptCramped, StyleScriptScriptCramped, StyleScriptScriptCramped, StyleScriptScriptCramped, StyleScriptScriptCramped}
	fracNumStyles = [...]Style{StyleText, StyleTextCramped, StyleScript, StyleScriptCramped, StyleScriptScript, StyleScriptScriptCramped, StyleScriptScript, StyleScriptScriptCramped}
	fracDenStyles = [...]Style{StyleTextCramped, StyleTextCramped, StyleScriptCramped, StyleScriptCramped, StyleScriptScriptCramped, StyleScriptScriptCramped, StyleScriptScriptCramped, StyleScriptScriptCramped}
	crampStyles   = [...]Style{StyleDisplayCramped, StyleDisplayCramped, StyleTextCramped, StyleTextCramped, StyleScriptCramped, StyleScriptCramped, StyleScriptScriptCramped, StyleScriptScriptCramped}
	textStyles    = [...]Style{StyleDisplay, StyleDisplayCramped, StyleText, StyleTextCramped, StyleText, StyleTextCramped, StyleText, StyleTextCramped}
)

var styleNames = map[string]Style{
	"display":      StyleDisplay,
	"text":         StyleText,
	"script":       StyleScript,
	"scriptscript": StyleScriptScript,
}

// Size is 0 for display, 1 for text, 2 for script and 3 for scriptscript.
func (s Style) Size() int {
	return int(s) / 2
}

func (s Style) Cramped() bool {
	return s%2 == 1
}

func (s Style) Sup() Style     { return supStyles[s] }
func (s Style) Sub() Style     { return subStyles[s] }
func (s Style) FracNum() Style { return fracNumStyles[s] }
func (s Style) FracDen() Style { return fracDenStyles[s] }
func (s Style) Cramp() Style   { return crampStyles[s] }

// Text is the style with script levels dropped, display stays display.
func (s Style) Text() Style { return textStyles[s] }

// IsTight reports whether this is a script or scriptscript style, these get
// less spacing between atoms.
func (s Style) IsTight() bool {
	return s.Size() >= 2
}

func (s Style) String() string {
	names := [...]string{"display", "text", "script", "scriptscript"}
	if s.Cramped() {
		return names[s.Size()] + "'"
	}

	return names[s.Size()]
}
