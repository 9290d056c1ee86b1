package katex

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// mathmlBuilder turns syntax nodes into the MathML tree which screen
// readers and copy and paste work on.
type mathmlBuilder struct {
	ctx      *Context
	settings *Settings
	err      error
}

func newMathMLBuilder(ctx *Context, settings *Settings) *mathmlBuilder {
	return &mathmlBuilder{ctx: ctx, settings: settings}
}

func (b *mathmlBuilder) size(m Measurement, options *Options) float64 {
	size, err := CalculateSize(m, options)
	if err != nil {
		if b.err == nil {
			b.err = &ParseError{Kind: ErrInvalidArgument, Msg: err.Error()}
		}

		return 0
	}

	return size
}

// mathElement embeds the MathML tree into the HTML output.
type mathElement struct {
	Box
	Math MathMLNode
}

func (m *mathElement) Render(w io.Writer) error {
	return m.Math.Render(w)
}

// defaultVariants is the mathvariant an element has without the attribute.
var defaultVariants = map[string]string{"mi": "italic", "mn": "normal", "mtext": "normal"}

// mathVariants map math fonts onto mathvariant values.
var mathVariants = map[string]string{
	"mathit":   "italic",
	"mathbf":   "bold",
	"mathbb":   "double-struck",
	"mathsfit": "sans-serif-italic",
	"mathfrak": "fraktur",
	"mathscr":  "script",
	"mathcal":  "script",
	"mathsf":   "sans-serif",
	"mathtt":   "monospace",
}

// fallbackVariants apply to the fonts above when the glyph exists in them.
var fallbackVariants = map[string]string{"mathrm": "normal", "textit": "italic"}

// makeText applies the symbol table replacement, except to ligatures in
// monospace fonts.
func (b *mathmlBuilder) makeText(text string, mode Mode, options *Options) *TextNode {
	sym, ok := b.ctx.symbols.Get(mode, text)
	if !ok || sym.Replace == "" {
		return newTextNode(text)
	}

	if ligatures[text] && options != nil && (strings.HasPrefix(options.FontFamily, "textt") || strings.HasPrefix(options.Font, "matht")) {
		return newTextNode(text)
	}

	return newTextNode(sym.Replace)
}

// variant picks the mathvariant of a character. It returns "" when the
// element keeps its default.
func (b *mathmlBuilder) variant(text string, mode Mode, textord bool, options *Options) string {
	switch options.FontFamily {
	case "texttt":
		return "monospace"
	case "textsf":
		switch {
		case options.FontShape == "textit" && options.FontWeight == "textbf":
			return "sans-serif-bold-italic"
		case options.FontShape == "textit":
			return "sans-serif-italic"
		case options.FontWeight == "textbf":
			return "bold-sans-serif"
		}

		return "sans-serif"
	}

	switch {
	case options.FontShape == "textit" && options.FontWeight == "textbf":
		return "bold-italic"
	case options.FontShape == "textit":
		return "italic"
	case options.FontWeight == "textbf":
		return "bold"
	}

	font := options.Font
	switch font {
	case "", "mathnormal":
		return ""
	case "boldsymbol":
		if textord {
			return "bold"
		}

		return "bold-italic"
	}

	if v, ok := mathVariants[font]; ok {
		return v
	}

	if text == "\\imath" || text == "\\jmath" {
		return ""
	}

	if sym, ok := b.ctx.symbols.Get(mode, text); ok && sym.Replace != "" {
		text = sym.Replace
	}

	if _, ok := b.ctx.metrics.Character(text, fontMap[font], mode); ok {
		return fallbackVariants[font]
	}

	return ""
}

func setVariant(node *MathNode, variant string) {
	if variant != defaultVariants[node.Type] {
		node.Attributes.Set("mathvariant", variant)
	}
}

// makeRow wraps several nodes into an <mrow>.
func makeRow(body []MathMLNode) MathMLNode {
	if len(body) == 1 {
		return body[0]
	}

	return newMathNode("mrow", body...)
}

func singleText(n *MathNode) (*TextNode, bool) {
	if len(n.Children) != 1 {
		return nil, false
	}

	t, ok := n.Children[0].(*TextNode)
	return t, ok
}

// isNumberPunctuation reports whether the node continues a number: a
// decimal point or a thousands separator.
func isNumberPunctuation(n *MathNode) bool {
	if n == nil {
		return false
	}

	t, ok := singleText(n)
	if !ok {
		return false
	}

	switch n.Type {
	case "mi":
		return t.Value == "."
	case "mo":
		return t.Value == "," && n.Attributes.Get("separator") == "true" &&
			n.Attributes.Get("lspace") == "0em" && n.Attributes.Get("rspace") == "0em"
	}

	return false
}

// buildExpression builds a list of nodes. Digits of one number are merged
// into a single <mn>, adjacent texts in the same variant into one <mtext>.
func (b *mathmlBuilder) buildExpression(expression []Node, options *Options, ordGroup bool) []MathMLNode {
	if len(expression) == 1 {
		group := b.buildGroup(expression[0], options)
		if mo, ok := group.(*MathNode); ok && ordGroup && mo.Type == "mo" {
			mo.Attributes.Set("lspace", "0em")
			mo.Attributes.Set("rspace", "0em")
		}

		return []MathMLNode{group}
	}

	var groups []MathMLNode
	var last *MathNode
	for _, n := range expression {
		out := b.buildGroup(n, options)
		group, ok := out.(*MathNode)
		if ok && last != nil {
			switch {
			case group.Type == "mtext" && last.Type == "mtext" && group.Attributes.Get("mathvariant") == last.Attributes.Get("mathvariant"):
				last.Children = append(last.Children, group.Children...)
				continue
			case group.Type == "mn" && last.Type == "mn":
				last.Children = append(last.Children, group.Children...)
				continue
			case isNumberPunctuation(group) && last.Type == "mn":
				last.Children = append(last.Children, group.Children...)
				continue
			case group.Type == "mn" && isNumberPunctuation(last):
				group.Children = append(last.Children, group.Children...)
				groups = groups[:len(groups)-1]
			case (group.Type == "msup" || group.Type == "msub") && len(group.Children) > 0 && (last.Type == "mn" || isNumberPunctuation(last)):
				if base, ok := group.Children[0].(*MathNode); ok && base.Type == "mn" {
					base.Children = append(last.Children, base.Children...)
					groups = groups[:len(groups)-1]
				}
			case last.Type == "mi" || last.Type == "mo":
				// a \not slash combines with the following character
				if slash, ok := singleText(last); ok && slash.Value == "\u0338" && (group.Type == "mo" || group.Type == "mi" || group.Type == "mn") {
					if t, ok := group.Children[0].(*TextNode); ok && t.Value != "" {
						size := firstRuneLen(t.Value)
						t.Value = t.Value[:size] + "\u0338" + t.Value[size:]
						groups = groups[:len(groups)-1]
					}
				}
			}
		}

		groups = append(groups, out)
		last = group
		if !ok {
			last = nil
		}
	}

	return groups
}

func firstRuneLen(s string) int {
	_, size := utf8.DecodeRuneInString(s)
	return size
}

func (b *mathmlBuilder) buildRow(expression []Node, options *Options, ordGroup bool) MathMLNode {
	return makeRow(b.buildExpression(expression, options, ordGroup))
}

func (b *mathmlBuilder) buildGroup(n Node, options *Options) MathMLNode {
	if n == nil {
		return newMathNode("mrow")
	}

	switch n := n.(type) {
	case *OrdGroup:
		return b.buildRow(n.Body, options, n.Semisimple)
	case *MathOrd:
		node := newMathNode("mi", b.makeText(n.Text, n.Mode, options))
		variant := b.variant(n.Text, n.Mode, false, options)
		if variant == "" {
			variant = "italic"
		}

		setVariant(node, variant)
		return node
	case *TextOrd:
		return b.buildTextOrd(n.Text, n.Mode, options)
	case *AccentToken:
		return b.buildTextOrd(n.Text, n.Mode, options)
	case *OpToken:
		return newMathNode("mo", b.makeText(n.Text, n.Mode, options))
	case *Atom:
		node := newMathNode("mo", b.makeText(n.Text, n.Mode, nil))
		switch n.Family {
		case AtomBin:
			if b.variant(n.Text, n.Mode, false, options) == "bold-italic" {
				node.Attributes.Set("mathvariant", "bold-italic")
			}
		case AtomPunct:
			node.Attributes.Set("separator", "true")
		case AtomOpen, AtomClose:
			node.Attributes.Set("stretchy", "false")
		}

		return node
	case *Spacing:
		if _, ok := breakSpaces[n.Text]; ok {
			return newMathNode("mspace")
		}

		return newMathNode("mtext", newTextNode("\u00a0"))
	case *SupSub:
		return b.buildSupSub(n, options)
	case *GenFrac:
		return b.buildGenFrac(n, options)
	case *Sqrt:
		if n.Index != nil {
			return newMathNode("mroot", b.buildGroup(n.Body, options), b.buildGroup(n.Index, options))
		}

		return newMathNode("msqrt", b.buildGroup(n.Body, options))
	case *Accent:
		var accent *MathNode
		if n.IsStretchy {
			accent = stretchyMathML(n.Label)
		} else {
			accent = newMathNode("mo", b.makeText(n.Label, n.Mode, nil))
		}

		node := newMathNode("mover", b.buildGroup(n.Base, options), accent)
		node.Attributes.Set("accent", "true")
		return node
	case *AccentUnder:
		node := newMathNode("munder", b.buildGroup(n.Base, options), stretchyMathML(n.Label))
		node.Attributes.Set("accentunder", "true")
		return node
	case *Overline:
		line := newMathNode("mo", newTextNode("\u203e"))
		line.Attributes.Set("stretchy", "true")
		node := newMathNode("mover", b.buildGroup(n.Body, options), line)
		node.Attributes.Set("accent", "true")
		return node
	case *Underline:
		line := newMathNode("mo", newTextNode("\u203e"))
		line.Attributes.Set("stretchy", "true")
		node := newMathNode("munder", b.buildGroup(n.Body, options), line)
		node.Attributes.Set("accentunder", "true")
		return node
	case *Sizing:
		newOptions := options.HavingSize(n.Size)
		node := newMathNode("mstyle", b.buildExpression(n.Body, newOptions, false)...)
		node.Attributes.Set("mathsize", MakeEm(newOptions.SizeMultiplier()))
		return node
	case *Styling:
		return b.buildStyling(n, options)
	case *Color:
		node := newMathNode("mstyle", b.buildExpression(n.Body, options.WithColor(n.Color), false)...)
		node.Attributes.Set("mathcolor", n.Color)
		return node
	case *Font:
		return b.buildGroup(n.Body, options.WithFont(n.Font))
	case *Text:
		return b.buildRow(n.Body, textOptions(n.Font, options), false)
	case *Kern:
		return newSpaceNode(b.size(n.Dimension, options))
	case *LeftRight:
		return b.buildLeftRight(n, options)
	case *Middle:
		node := newMathNode("mo", b.makeText(n.Delim, n.Mode, nil))
		node.Attributes.Set("fence", "true")
		node.Attributes.Set("lspace", "0.05em")
		node.Attributes.Set("rspace", "0.05em")
		return node
	case *DelimSizing:
		node := newMathNode("mo")
		if n.Delim != "." {
			node.Children = append(node.Children, b.makeText(n.Delim, n.Mode, nil))
		}

		fence := "false"
		if n.Class == AtomOpen || n.Class == AtomClose {
			fence = "true"
		}

		size := MakeEm(sizeToMaxHeight[n.Size])
		node.Attributes.Set("fence", fence)
		node.Attributes.Set("stretchy", "true")
		node.Attributes.Set("minsize", size)
		node.Attributes.Set("maxsize", size)
		return node
	case *Op:
		return b.buildOp(n, false, options)
	case *OperatorName:
		return b.buildOperatorName(n, false, options)
	case *Array:
		return b.buildArray(n, options)
	case *Rule:
		return b.buildRule(n, options)
	case *Raisebox:
		node := newMathNode("mpadded", b.buildGroup(n.Body, options))
		node.Attributes.Set("voffset", n.Dy.String())
		return node
	case *Phantom:
		return newMathNode("mphantom", b.buildExpression(n.Body, options, false)...)
	case *HPhantom:
		node := newMathNode("mpadded", newMathNode("mphantom", b.buildExpression(ordArgument(n.Body), options, false)...))
		node.Attributes.Set("height", "0px")
		node.Attributes.Set("depth", "0px")
		return node
	case *VPhantom:
		node := newMathNode("mpadded", newMathNode("mphantom", b.buildExpression(ordArgument(n.Body), options, false)...))
		node.Attributes.Set("width", "0px")
		return node
	case *Lap:
		node := newMathNode("mpadded", b.buildGroup(n.Body, options))
		switch n.Alignment {
		case "llap":
			node.Attributes.Set("lspace", "-1width")
		case "clap":
			node.Attributes.Set("lspace", "-0.5width")
		}

		node.Attributes.Set("width", "0px")
		return node
	case *Enclose:
		return b.buildEnclose(n, options)
	case *Href:
		row := b.buildRow(n.Body, options, false)
		node, ok := row.(*MathNode)
		if !ok {
			node = newMathNode("mrow", row)
		}

		node.Attributes.Set("href", n.Href)
		return node
	case *Includegraphics:
		return b.buildIncludegraphics(n, options)
	case *Verb:
		node := newMathNode("mtext", newTextNode(verbText(n)))
		node.Attributes.Set("mathvariant", "monospace")
		return node
	case *MClass:
		return b.buildMClass(n, options)
	case *XArrow:
		return b.buildXArrow(n, options)
	case *HorizBrace:
		typ := "munder"
		if n.IsOver {
			typ = "mover"
		}

		return newMathNode(typ, b.buildGroup(n.Base, options), stretchyMathML(n.Label))
	case *Tag:
		pad := func() *MathNode {
			td := newMathNode("mtd")
			td.Attributes.Set("width", "50%")
			return td
		}

		row := newMathNode("mtr",
			pad(), newMathNode("mtd", b.buildRow(n.Body, options, false)),
			pad(), newMathNode("mtd", b.buildRow(n.Tag, options, false)),
		)

		table := newMathNode("mtable", row)
		table.Attributes.Set("width", "100%")
		return table
	case *Cr:
		node := newMathNode("mspace")
		if n.NewLine {
			node.Attributes.Set("linebreak", "newline")
			if n.Size != nil {
				node.Attributes.Set("height", MakeEm(b.size(*n.Size, options)))
			}
		}

		return node
	case *Unsupported:
		return b.buildGroup(unsupportedPlaceholder(n, b.settings.ErrorColor), options)
	default:
		buildTracer().Errorf("no mathml for %s node", n.Type())
		return newMathNode("mrow")
	}
}

func (b *mathmlBuilder) buildTextOrd(text string, mode Mode, options *Options) *MathNode {
	t := b.makeText(text, mode, options)
	variant := b.variant(text, mode, true, options)
	if variant == "" {
		variant = "normal"
	}

	var node *MathNode
	switch {
	case mode == ModeText:
		node = newMathNode("mtext", t)
	case strings.ContainsAny(text, "0123456789"):
		node = newMathNode("mn", t)
	case text == "\\prime":
		node = newMathNode("mo", t)
	default:
		node = newMathNode("mi", t)
	}

	setVariant(node, variant)
	return node
}

// scriptKind is the element used for a base with scripts: limits go above
// and below, everything else to the side.
func scriptKind(n *SupSub, options *Options) string {
	display := options.Style == StyleDisplay

	if brace, ok := n.Base.(*HorizBrace); ok && (n.Sup != nil) == brace.IsOver {
		if brace.IsOver {
			return "mover"
		}

		return "munder"
	}

	limits, both := false, false
	switch base := n.Base.(type) {
	case *Op:
		limits = base.Limits && (display || base.AlwaysHandleSupSub)
		both = base.Limits && display
	case *OperatorName:
		limits = base.AlwaysHandleSupSub && (base.Limits || display)
		both = limits
	}

	switch {
	case n.Sub == nil && limits:
		return "mover"
	case n.Sub == nil:
		return "msup"
	case n.Sup == nil && limits:
		return "munder"
	case n.Sup == nil:
		return "msub"
	case both:
		return "munderover"
	}

	return "msubsup"
}

func (b *mathmlBuilder) buildSupSub(n *SupSub, options *Options) MathMLNode {
	var base MathMLNode
	switch op := n.Base.(type) {
	case *Op:
		base = b.buildOp(op, true, options)
	case *OperatorName:
		base = b.buildOperatorName(op, true, options)
	default:
		base = b.buildGroup(n.Base, options)
	}

	children := []MathMLNode{base}
	if n.Sub != nil {
		children = append(children, b.buildGroup(n.Sub, options))
	}

	if n.Sup != nil {
		children = append(children, b.buildGroup(n.Sup, options))
	}

	return newMathNode(scriptKind(n, options), children...)
}

// functionApplication follows a function name, U+2061.
func (b *mathmlBuilder) functionApplication() *MathNode {
	return newMathNode("mo", b.makeText("\u2061", ModeText, nil))
}

// buildOp builds an operator. Named functions are an identifier followed by
// a function application, kept together in an <mrow> under scripts.
func (b *mathmlBuilder) buildOp(n *Op, scripted bool, options *Options) MathMLNode {
	switch {
	case n.Symbol:
		node := newMathNode("mo", b.makeText(n.Name, n.Mode, nil))
		if n.Name == "\\smallint" {
			node.Attributes.Set("largeop", "false")
		}

		return node
	case n.Body != nil:
		return newMathNode("mo", b.buildExpression(n.Body, options, false)...)
	}

	name := newMathNode("mi", newTextNode(strings.TrimPrefix(n.Name, "\\")))
	if scripted || n.ParentIsSupSub {
		return newMathNode("mrow", name, b.functionApplication())
	}

	return &MathFragment{Children: []MathMLNode{name, b.functionApplication()}}
}

func (b *mathmlBuilder) buildOperatorName(n *OperatorName, scripted bool, options *Options) MathMLNode {
	expression := b.buildExpression(n.Body, options.WithFont("mathrm"), false)

	allText := true
	for _, child := range expression {
		switch child := child.(type) {
		case *SpaceNode:
		case *MathNode:
			switch child.Type {
			case "mi", "mn", "mspace", "mtext":
			case "mo":
				if t, ok := singleText(child); ok {
					t.Value = operatorNameChars.Replace(t.Value)
				} else {
					allText = false
				}
			default:
				allText = false
			}
		default:
			allText = false
		}
	}

	if allText {
		var word strings.Builder
		for _, child := range expression {
			word.WriteString(child.Text())
		}

		expression = []MathMLNode{newTextNode(word.String())}
	}

	identifier := newMathNode("mi", expression...)
	identifier.Attributes.Set("mathvariant", "normal")

	if scripted || n.ParentIsSupSub {
		return newMathNode("mrow", identifier, b.functionApplication())
	}

	return &MathFragment{Children: []MathMLNode{identifier, b.functionApplication()}}
}

func (b *mathmlBuilder) buildGenFrac(n *GenFrac, options *Options) MathMLNode {
	node := newMathNode("mfrac", b.buildGroup(n.Numer, options), b.buildGroup(n.Denom, options))
	switch {
	case !n.HasBarLine:
		node.Attributes.Set("linethickness", "0px")
	case n.BarSize != nil:
		node.Attributes.Set("linethickness", MakeEm(b.size(*n.BarSize, options)))
	}

	if style := fracStyle(n.Size, options.Style); style.Size() != options.Style.Size() {
		display := "false"
		if style.Size() == StyleDisplay.Size() {
			display = "true"
		}

		node = newMathNode("mstyle", node)
		node.Attributes.Set("displaystyle", display)
		node.Attributes.Set("scriptlevel", "0")
	}

	if n.LeftDelim == "" && n.RightDelim == "" {
		return node
	}

	fence := func(delim string) *MathNode {
		mo := newMathNode("mo", newTextNode(strings.Replace(delim, "\\", "", 1)))
		mo.Attributes.Set("fence", "true")
		return mo
	}

	var row []MathMLNode
	if n.LeftDelim != "" {
		row = append(row, fence(n.LeftDelim))
	}

	row = append(row, node)
	if n.RightDelim != "" {
		row = append(row, fence(n.RightDelim))
	}

	return makeRow(row)
}

// styleAttributes are the scriptlevel and displaystyle of each style.
var styleAttributes = map[string][2]string{
	"display":      {"0", "true"},
	"text":         {"0", "false"},
	"script":       {"1", "false"},
	"scriptscript": {"2", "false"},
}

func (b *mathmlBuilder) buildStyling(n *Styling, options *Options) MathMLNode {
	newOptions := options.HavingStyle(styleNames[n.Style])
	node := newMathNode("mstyle", b.buildExpression(n.Body, newOptions, false)...)

	attr := styleAttributes[n.Style]
	node.Attributes.Set("scriptlevel", attr[0])
	node.Attributes.Set("displaystyle", attr[1])
	return node
}

func (b *mathmlBuilder) buildLeftRight(n *LeftRight, options *Options) MathMLNode {
	inner := b.buildExpression(n.Body, options, false)

	if n.Left != "." {
		left := newMathNode("mo", b.makeText(n.Left, n.Mode, nil))
		left.Attributes.Set("fence", "true")
		inner = append([]MathMLNode{left}, inner...)
	}

	if n.Right != "." {
		right := newMathNode("mo", b.makeText(n.Right, n.Mode, nil))
		right.Attributes.Set("fence", "true")
		if n.RightColor != "" {
			right.Attributes.Set("mathcolor", n.RightColor)
		}

		inner = append(inner, right)
	}

	return makeRow(inner)
}

var columnAligns = map[string]string{"c": "center", "l": "left", "r": "right"}

func (b *mathmlBuilder) buildArray(n *Array, options *Options) MathMLNode {
	var rows []MathMLNode
	for _, r := range n.Body {
		var cells []MathMLNode
		for _, cell := range r {
			cells = append(cells, newMathNode("mtd", b.buildGroup(cell, options)))
		}

		rows = append(rows, newMathNode("mtr", cells...))
	}

	table := newMathNode("mtable", rows...)

	gap := 0.1
	if n.ArrayStretch != 0.5 {
		gap = 0.16 + n.ArrayStretch - 1
		if n.AddJot {
			gap += 0.09
		}
	}

	table.Attributes.Set("rowspacing", MakeEm(gap))

	var frame []string
	if cols := n.Cols; len(cols) > 0 {
		start, end := 0, len(cols)
		if cols[0].Separator != "" {
			frame = append(frame, "left")
			start = 1
		}

		if end > start && cols[end-1].Separator != "" {
			frame = append(frame, "right")
			end--
		}

		var aligns, lines []string
		prevWasAlign, drawn := false, false
		for _, col := range cols[start:end] {
			if col.Separator == "" {
				aligns = append(aligns, columnAligns[col.Align])
				if prevWasAlign {
					lines = append(lines, "none")
				}

				prevWasAlign = true
				continue
			}

			if prevWasAlign {
				line := "solid"
				if col.Separator == ":" {
					line = "dashed"
				}

				lines = append(lines, line)
				drawn = true
				prevWasAlign = false
			}
		}

		table.Attributes.Set("columnalign", strings.Join(aligns, " "))
		if drawn {
			table.Attributes.Set("columnlines", strings.Join(lines, " "))
		}
	}

	switch n.ColSeparation {
	case "align":
		var spacing []string
		for i := 1; i < len(n.Cols); i++ {
			if i%2 == 1 {
				spacing = append(spacing, "0em")
			} else {
				spacing = append(spacing, "1em")
			}
		}

		table.Attributes.Set("columnspacing", strings.Join(spacing, " "))
	case "alignat", "gather":
		table.Attributes.Set("columnspacing", "0em")
	case "small":
		table.Attributes.Set("columnspacing", "0.2778em")
	default:
		table.Attributes.Set("columnspacing", "1em")
	}

	if hlines := n.HLinesBeforeRow; len(hlines) > 0 {
		if len(hlines[0]) > 0 {
			frame = append(frame, "top")
		}

		if len(hlines) > 1 && len(hlines[len(hlines)-1]) > 0 {
			frame = append(frame, "bottom")
		}

		var lines []string
		drawn := false
		for i := 1; i < len(hlines)-1; i++ {
			switch {
			case len(hlines[i]) == 0:
				lines = append(lines, "none")
			case hlines[i][0]:
				lines = append(lines, "dashed")
				drawn = true
			default:
				lines = append(lines, "solid")
				drawn = true
			}
		}

		if drawn {
			table.Attributes.Set("rowlines", strings.Join(lines, " "))
		}
	}

	var node MathMLNode = table
	if len(frame) > 0 {
		enclose := newMathNode("menclose", table)
		enclose.Attributes.Set("notation", strings.Join(frame, " "))
		node = enclose
	}

	if n.ArrayStretch > 0 && n.ArrayStretch < 1 {
		style := newMathNode("mstyle", node)
		style.Attributes.Set("scriptlevel", "1")
		node = style
	}

	return node
}

func (b *mathmlBuilder) buildRule(n *Rule, options *Options) MathMLNode {
	width := b.size(n.Width, options)
	height := b.size(n.Height, options)

	shift := 0.0
	if n.Shift != nil {
		shift = b.size(*n.Shift, options)
	}

	color := options.GetColor()
	if color == "" {
		color = "black"
	}

	rule := newMathNode("mspace")
	rule.Attributes.Set("mathbackground", color)
	rule.Attributes.Set("width", MakeEm(width))
	rule.Attributes.Set("height", MakeEm(height))

	wrapper := newMathNode("mpadded", rule)
	wrapper.Attributes.Set("height", MakeEm(shift))
	if shift < 0 {
		wrapper.Attributes.Set("depth", MakeEm(-shift))
	}

	wrapper.Attributes.Set("voffset", MakeEm(shift))
	return wrapper
}

var encloseNotations = map[string]string{
	"\\cancel":  "updiagonalstrike",
	"\\bcancel": "downdiagonalstrike",
	"\\xcancel": "updiagonalstrike downdiagonalstrike",
	"\\sout":    "horizontalstrike",
	"\\fbox":    "box",
}

func formatPt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "pt"
}

func (b *mathmlBuilder) buildEnclose(n *Enclose, options *Options) MathMLNode {
	typ := "menclose"
	if strings.Contains(n.Label, "colorbox") {
		typ = "mpadded"
	}

	node := newMathNode(typ, b.buildGroup(n.Body, options))
	if notation, ok := encloseNotations[n.Label]; ok {
		node.Attributes.Set("notation", notation)
	}

	if typ == "mpadded" {
		metrics := options.FontMetrics()
		fboxsep := metrics.FboxSep * metrics.PtPerEm
		node.Attributes.Set("width", "+"+formatPt(2*fboxsep))
		node.Attributes.Set("height", "+"+formatPt(2*fboxsep))
		node.Attributes.Set("lspace", formatPt(fboxsep))
		node.Attributes.Set("voffset", formatPt(fboxsep))

		if n.Label == "\\fcolorbox" {
			thickness := max(metrics.FboxRule, options.MinRuleThickness)
			node.Attributes.Set("style", "border: "+MakeEm(thickness)+" solid "+n.BorderColor)
		}
	}

	if n.BackgroundColor != "" {
		node.Attributes.Set("mathbackground", n.BackgroundColor)
	}

	return node
}

func (b *mathmlBuilder) buildIncludegraphics(n *Includegraphics, options *Options) MathMLNode {
	node := newMathNode("mglyph")
	node.Attributes.Set("alt", n.Alt)

	height := b.size(n.Height, options)
	depth := 0.0
	if n.TotalHeight.Number > 0 {
		depth = b.size(n.TotalHeight, options) - height
		node.Attributes.Set("valign", MakeEm(-depth))
	}

	node.Attributes.Set("height", MakeEm(height+depth))
	if n.Width.Number > 0 {
		node.Attributes.Set("width", MakeEm(b.size(n.Width, options)))
	}

	node.Attributes.Set("src", n.Src)
	return node
}

func (b *mathmlBuilder) buildMClass(n *MClass, options *Options) MathMLNode {
	inner := b.buildExpression(n.Body, options, false)

	if n.Class == AtomInner {
		node := newMathNode("mpadded", inner...)
		node.Attributes.Set("lspace", "0.0556em")
		node.Attributes.Set("width", "+0.1111em")
		return node
	}

	typ := "mo"
	if n.Class == AtomOrd {
		typ = "mi"
	}

	var node *MathNode
	if n.IsCharacterBox && len(inner) == 1 {
		if single, ok := inner[0].(*MathNode); ok {
			node = single
			node.Type = typ
		}
	}

	if node == nil {
		node = newMathNode(typ, inner...)
	}

	switch n.Class {
	case AtomBin:
		node.Attributes.Set("lspace", "0.22em")
		node.Attributes.Set("rspace", "0.22em")
	case AtomPunct:
		node.Attributes.Set("lspace", "0em")
		node.Attributes.Set("rspace", "0.17em")
	case AtomOpen, AtomClose:
		node.Attributes.Set("lspace", "0em")
		node.Attributes.Set("rspace", "0em")
	}

	return node
}

// paddedLabel leaves room on both sides of an arrow label.
func paddedLabel(children ...MathMLNode) *MathNode {
	node := newMathNode("mpadded", children...)
	node.Attributes.Set("width", "+0.6em")
	node.Attributes.Set("lspace", "0.3em")
	return node
}

func (b *mathmlBuilder) buildXArrow(n *XArrow, options *Options) MathMLNode {
	arrow := stretchyMathML(n.Label)
	arrow.Attributes.Set("minsize", "3.0em")

	upper := paddedLabel()
	if n.Body != nil {
		upper = paddedLabel(b.buildGroup(n.Body, options))
	}

	if n.Below != nil {
		lower := paddedLabel(b.buildGroup(n.Below, options))
		return newMathNode("munderover", arrow, lower, upper)
	}

	return newMathNode("mover", arrow, upper)
}

// buildMathML builds the MathML half of the output: the formula with its
// source attached as an annotation.
func (b *mathmlBuilder) buildMathML(tree []Node, source string, options *Options, mathmlOnly bool) (*Span, error) {
	expression := b.buildExpression(tree, options, false)

	var wrapper MathMLNode
	if len(expression) == 1 {
		if node, ok := expression[0].(*MathNode); ok && (node.Type == "mrow" || node.Type == "mtable") {
			wrapper = node
		}
	}

	if wrapper == nil {
		wrapper = newMathNode("mrow", expression...)
	}

	annotation := newMathNode("annotation", newTextNode(source))
	annotation.Attributes.Set("encoding", "application/x-tex")

	math := newMathNode("math", newMathNode("semantics", wrapper, annotation))
	math.Attributes.Set("xmlns", "http://www.w3.org/1998/Math/MathML")
	if b.settings.DisplayMode {
		math.Attributes.Set("display", "block")
	}

	class := "katex-mathml"
	if mathmlOnly {
		class = "katex"
	}

	if b.err != nil {
		return nil, b.err
	}

	return makeSpan([]string{class}, []HTMLNode{&mathElement{Math: math}}, nil), nil
}
