package katex

import "strings"

// fontMap gives the metrics font of every math font command.
var fontMap = map[string]string{
	"mathbf":     "Main-Bold",
	"mathrm":     "Main-Regular",
	"textit":     "Main-Italic",
	"mathit":     "Main-Italic",
	"mathnormal": "Math-Italic",
	"mathsfit":   "SansSerif-Italic",
	"mathbb":     "AMS-Regular",
	"mathcal":    "Caligraphic-Regular",
	"mathfrak":   "Fraktur-Regular",
	"mathscr":    "Script-Regular",
	"mathsf":     "SansSerif-Regular",
	"mathtt":     "Typewriter-Regular",
}

// textFontName combines a text family with weight and shape, e.g. textsf +
// textbf gives SansSerif-Bold.
func textFontName(family, weight, shape string) string {
	base := family
	switch family {
	case "amsrm":
		base = "AMS"
	case "textrm":
		base = "Main"
	case "textsf":
		base = "SansSerif"
	case "texttt":
		base = "Typewriter"
	}

	switch {
	case weight == "textbf" && shape == "textit":
		return base + "-BoldItalic"
	case weight == "textbf":
		return base + "-Bold"
	case shape == "textit":
		return base + "-Italic"
	default:
		return base + "-Regular"
	}
}

// htmlBuilder turns syntax nodes into the layout tree. The first missing
// glyph is kept in err when the settings ask to throw on errors.
type htmlBuilder struct {
	ctx      *Context
	settings *Settings
	err      error
	middles  map[HTMLNode]middleDelim
}

// lookupSymbol applies the replacement of the symbol table and finds the metrics.
func (b *htmlBuilder) lookupSymbol(value, font string, mode Mode) (string, CharacterMetrics, bool) {
	if sym, ok := b.ctx.symbols.Get(mode, value); ok && sym.Replace != "" {
		value = sym.Replace
	}

	m, ok := b.ctx.metrics.Character(value, font, mode)
	return value, m, ok
}

func (b *htmlBuilder) hasMetrics(value, font string, mode Mode) bool {
	_, _, ok := b.lookupSymbol(value, font, mode)
	return ok
}

// makeSymbol makes a glyph of value in the given font. Glyphs without
// metrics become empty boxes, or fail the build when errors are thrown.
func (b *htmlBuilder) makeSymbol(value, font string, mode Mode, options *Options, classes ...string) *Glyph {
	text, m, ok := b.lookupSymbol(value, font, mode)

	g := &Glyph{Text: text, Box: Box{Classes: classes}}
	if ok {
		g.Height = m.Height
		g.Depth = m.Depth
		g.Width = m.Width
		g.Skew = m.Skew
		g.Italic = m.Italic
		if mode == ModeText || options != nil && options.Font == "mathit" {
			g.Italic = 0
		}
	} else {
		if b.settings.ThrowOnError {
			if b.err == nil {
				b.err = &BuildError{Char: text, Font: font, Mode: mode}
			}
		} else {
			buildTracer().Errorf("No character metrics for '%s' in style '%s' and mode '%s'", text, font, mode)
		}
	}

	if r := []rune(text); len(r) > 0 {
		if script := scriptOf(r[0]); script != "" {
			g.AddClass(script + "_fallback")
		}
	}

	if options != nil {
		g.MaxFontSize = options.SizeMultiplier()
		if options.Style.IsTight() {
			g.AddClass("mtight")
		}

		if color := options.GetColor(); color != "" {
			g.Style.Set("color", color)
		}
	}

	return g
}

// mathsym makes a symbol of a bin, rel, open, close, punct or inner atom.
func (b *htmlBuilder) mathsym(value string, mode Mode, options *Options, classes ...string) *Glyph {
	if options.Font == "boldsymbol" && b.hasMetrics(value, "Main-Bold", mode) {
		return b.makeSymbol(value, "Main-Bold", mode, options, append(classes, "mathbf")...)
	}

	if sym, ok := b.ctx.symbols.Get(mode, value); value == "\\" || ok && sym.Font == "main" {
		return b.makeSymbol(value, "Main-Regular", mode, options, classes...)
	}

	return b.makeSymbol(value, "AMS-Regular", mode, options, append(classes, "amsrm")...)
}

// boldsymbol picks the font for \boldsymbol, bold italic where the glyph exists.
func (b *htmlBuilder) boldsymbol(value string, mode Mode, textord bool) (string, string) {
	if !textord && b.hasMetrics(value, "Math-BoldItalic", mode) {
		return "Math-BoldItalic", "boldsymbol"
	}

	return "Main-Bold", "mathbf"
}

// makeOrd makes an ordinary symbol, honoring the active font.
func (b *htmlBuilder) makeOrd(text string, mode Mode, options *Options, textord bool) HTMLNode {
	classes := []string{"mord"}

	isFont := mode == ModeMath || options.Font != ""
	family := options.FontFamily
	if isFont {
		family = options.Font
	}

	if family != "" {
		var font string
		var fontClasses []string

		switch {
		case family == "boldsymbol":
			var class string
			font, class = b.boldsymbol(text, mode, textord)
			fontClasses = []string{class}
		case isFont:
			font = fontMap[family]
			fontClasses = []string{family}
		default:
			font = textFontName(family, options.FontWeight, options.FontShape)
			fontClasses = []string{family, options.FontWeight, options.FontShape}
		}

		if b.hasMetrics(text, font, mode) {
			return b.makeSymbol(text, font, mode, options, append(classes, fontClasses...)...)
		}

		if ligatures[text] && strings.HasPrefix(font, "Typewriter") {
			// monospace fonts have no ligatures, draw the characters one by one
			var parts []HTMLNode
			for _, r := range text {
				parts = append(parts, b.makeSymbol(string(r), font, mode, options, append(classes, fontClasses...)...))
			}

			return makeFragment(parts...)
		}
	}

	if !textord {
		return b.makeSymbol(text, "Math-Italic", mode, options, append(classes, "mathnormal")...)
	}

	if sym, ok := b.ctx.symbols.Get(mode, text); ok && sym.Font == "ams" {
		font := textFontName("amsrm", options.FontWeight, options.FontShape)
		return b.makeSymbol(text, font, mode, options, append(classes, "amsrm", options.FontWeight, options.FontShape)...)
	}

	font := textFontName("textrm", options.FontWeight, options.FontShape)
	return b.makeSymbol(text, font, mode, options, append(classes, options.FontWeight, options.FontShape)...)
}

// makeSpan makes a span sized to fit its children. Options add the color
// and the mtight class of script styles.
func makeSpan(classes []string, children []HTMLNode, options *Options) *Span {
	s := &Span{Box: Box{Classes: classes}, Children: children}
	if options != nil {
		if options.Style.IsTight() {
			s.AddClass("mtight")
		}

		if color := options.GetColor(); color != "" {
			s.Style.Set("color", color)
		}
	}

	sizeFromChildren(&s.Box, children)
	return s
}

func sizeFromChildren(b *Box, children []HTMLNode) {
	for _, child := range children {
		c := child.box()
		b.Height = max(b.Height, c.Height)
		b.Depth = max(b.Depth, c.Depth)
		b.MaxFontSize = max(b.MaxFontSize, c.MaxFontSize)
	}
}

// makeSvgSpan wraps an svg with an explicit extent.
func makeSvgSpan(classes []string, children []HTMLNode, height, depth float64) *Span {
	s := &Span{Box: Box{Classes: classes, Height: height, Depth: depth}, Children: children}
	return s
}

// makeLineSpan makes a horizontal rule, used by fractions, overlines and underlines.
func makeLineSpan(class string, options *Options, thickness float64) *Span {
	line := makeSpan([]string{class}, nil, options)
	if thickness == 0 {
		thickness = options.FontMetrics().DefaultRuleThickness
	}

	line.Height = max(thickness, options.MinRuleThickness)
	line.Style.Set("borderBottomWidth", MakeEm(line.Height))
	line.MaxFontSize = 1.0
	return line
}

func makeAnchor(href string, classes []string, children []HTMLNode, options *Options) *Anchor {
	a := &Anchor{Box: Box{Classes: classes}, Href: href, Children: children}
	if options != nil {
		if options.Style.IsTight() {
			a.AddClass("mtight")
		}

		if color := options.GetColor(); color != "" {
			a.Style.Set("color", color)
		}
	}

	sizeFromChildren(&a.Box, children)
	return a
}

func makeFragment(children ...HTMLNode) *Fragment {
	f := &Fragment{Children: children}
	sizeFromChildren(&f.Box, children)
	return f
}

// wrapFragment puts a fragment into a span so it can carry classes.
func wrapFragment(n HTMLNode, options *Options) HTMLNode {
	if f, ok := n.(*Fragment); ok {
		return makeSpan(nil, []HTMLNode{f}, options)
	}

	return n
}

// makeGlue is horizontal space of the given size.
func makeGlue(m Measurement, options *Options) (*Span, error) {
	rule := makeSpan([]string{"mspace"}, nil, options)
	size, err := CalculateSize(m, options)
	if err != nil {
		return nil, err
	}

	rule.Style.Set("marginRight", MakeEm(size))
	return rule, nil
}

// vlistShift tells makeVList where the list sits relative to the baseline.
type vlistShift int

const (
	// vlistIndividual places every element at its own shift from the baseline.
	vlistIndividual vlistShift = iota
	// vlistTop puts the top of the list at the position.
	vlistTop
	// vlistBottom puts the bottom of the list at the position.
	vlistBottom
	// vlistShifted moves the first element's baseline by the position.
	vlistShifted
	// vlistFirstBaseline puts the first element on the baseline.
	vlistFirstBaseline
)

// vlistChild is an element or a kern of a vertical list. Elements are
// listed bottom to top.
type vlistChild struct {
	Elem  HTMLNode
	Kern  float64
	Shift float64

	WrapperClasses []string
	WrapperStyle   CSS
	MarginLeft     string
	MarginRight    string
}

func vlistElem(elem HTMLNode) vlistChild { return vlistChild{Elem: elem} }
func vlistKern(size float64) vlistChild  { return vlistChild{Kern: size} }

func (c vlistChild) size() float64 {
	if c.Elem == nil {
		return c.Kern
	}

	b := c.Elem.box()
	return b.Height + b.Depth
}

func vlistChildren(kind vlistShift, position float64, children []vlistChild) ([]vlistChild, float64) {
	switch kind {
	case vlistIndividual:
		first := children[0].Elem.box()
		out := []vlistChild{children[0]}
		depth := -children[0].Shift - first.Depth
		pos := depth

		for i := 1; i < len(children); i++ {
			diff := -children[i].Shift - pos - children[i].Elem.box().Depth
			out = append(out, vlistKern(diff-children[i-1].size()), children[i])
			pos += diff
		}

		return out, depth
	case vlistTop:
		bottom := position
		for _, c := range children {
			bottom -= c.size()
		}

		return children, bottom
	case vlistBottom:
		return children, -position
	case vlistShifted:
		return children, -children[0].Elem.box().Depth - position
	default:
		return children, -children[0].Elem.box().Depth
	}
}

// makeVList stacks its children vertically. Every element is put into a
// row with a strut tall enough for the tallest element, then moved into
// place with top offsets.
func makeVList(kind vlistShift, position float64, list []vlistChild) *Span {
	children, depth := vlistChildren(kind, position, list)

	pstrutSize := 0.0
	for _, c := range children {
		if c.Elem != nil {
			b := c.Elem.box()
			pstrutSize = max(pstrutSize, b.MaxFontSize, b.Height)
		}
	}

	pstrutSize += 2
	pstrut := makeSpan([]string{"pstrut"}, nil, nil)
	pstrut.Style.Set("height", MakeEm(pstrutSize))

	var rows []HTMLNode
	minPos, maxPos, pos := depth, depth, depth
	for _, c := range children {
		if c.Elem == nil {
			pos += c.Kern
		} else {
			elem := c.Elem.box()
			wrap := makeSpan(c.WrapperClasses, []HTMLNode{pstrut, c.Elem}, nil)
			wrap.Style = append(CSS(nil), c.WrapperStyle...)
			wrap.Style.Set("top", MakeEm(-pstrutSize-pos-elem.Depth))
			if c.MarginLeft != "" {
				wrap.Style.Set("marginLeft", c.MarginLeft)
			}

			if c.MarginRight != "" {
				wrap.Style.Set("marginRight", c.MarginRight)
			}

			rows = append(rows, wrap)
			pos += elem.Height + elem.Depth
		}

		minPos = min(minPos, pos)
		maxPos = max(maxPos, pos)
	}

	vlist := makeSpan([]string{"vlist"}, rows, nil)
	vlist.Style.Set("height", MakeEm(maxPos))

	var table []HTMLNode
	if minPos < 0 {
		// a second row reaches below the baseline, the zero width space
		// gives Safari something to align the first row on
		depthStrut := makeSpan([]string{"vlist"}, []HTMLNode{makeSpan(nil, nil, nil)}, nil)
		depthStrut.Style.Set("height", MakeEm(-minPos))

		topStrut := makeSpan([]string{"vlist-s"}, []HTMLNode{&Glyph{Text: "\u200b"}}, nil)
		table = []HTMLNode{
			makeSpan([]string{"vlist-r"}, []HTMLNode{vlist, topStrut}, nil),
			makeSpan([]string{"vlist-r"}, []HTMLNode{depthStrut}, nil),
		}
	} else {
		table = []HTMLNode{makeSpan([]string{"vlist-r"}, []HTMLNode{vlist}, nil)}
	}

	vtable := makeSpan([]string{"vlist-t"}, table, nil)
	if len(table) == 2 {
		vtable.AddClass("vlist-t2")
	}

	vtable.Height = maxPos
	vtable.Depth = -minPos
	return vtable
}
