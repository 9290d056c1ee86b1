package katex

import (
	"math"
	"strconv"
)

// Delimiters come in the small sizes of the main font, four large sizes of
// the Size fonts and a stacked construction of arbitrary height. Which of
// them a delimiter can use is fixed by these lists.
var (
	stackLargeDelimiters = map[string]bool{
		"(": true, "\\lparen": true, ")": true, "\\rparen": true,
		"[": true, "\\lbrack": true, "]": true, "\\rbrack": true,
		"\\{": true, "\\lbrace": true, "\\}": true, "\\rbrace": true,
		"\\lfloor": true, "\\rfloor": true, "⌊": true, "⌋": true,
		"\\lceil": true, "\\rceil": true, "⌈": true, "⌉": true,
		"\\surd": true,
	}

	stackAlwaysDelimiters = map[string]bool{
		"\\uparrow": true, "\\downarrow": true, "\\updownarrow": true,
		"\\Uparrow": true, "\\Downarrow": true, "\\Updownarrow": true,
		"|": true, "\\|": true, "\\vert": true, "\\Vert": true,
		"\\lvert": true, "\\rvert": true, "\\lVert": true, "\\rVert": true,
		"\\lgroup": true, "\\rgroup": true, "⟮": true, "⟯": true,
		"\\lmoustache": true, "\\rmoustache": true, "⎰": true, "⎱": true,
	}

	stackNeverDelimiters = map[string]bool{
		"<": true, ">": true, "\\langle": true, "\\rangle": true,
		"/": true, "\\backslash": true, "\\lt": true, "\\gt": true,
	}
)

// sizeToMaxHeight is the total height of the four large sizes in ems.
var sizeToMaxHeight = [...]float64{0, 1.2, 1.8, 2.4, 3.0}

type delimKind int

const (
	delimSmall delimKind = iota
	delimLarge
	delimStack
)

type delimType struct {
	kind  delimKind
	style Style
	size  int
}

func (d delimType) font() string {
	switch d.kind {
	case delimSmall:
		return "Main-Regular"
	case delimLarge:
		return "Size" + string(rune('0'+d.size)) + "-Regular"
	default:
		return "Size4-Regular"
	}
}

// The sequences are tried in order, the first delimiter tall enough wins.
var (
	stackNeverSequence = []delimType{
		{kind: delimSmall, style: StyleScriptScript},
		{kind: delimSmall, style: StyleScript},
		{kind: delimSmall, style: StyleText},
		{kind: delimLarge, size: 1},
		{kind: delimLarge, size: 2},
		{kind: delimLarge, size: 3},
		{kind: delimLarge, size: 4},
	}
	stackAlwaysSequence = []delimType{
		{kind: delimSmall, style: StyleScriptScript},
		{kind: delimSmall, style: StyleScript},
		{kind: delimSmall, style: StyleText},
		{kind: delimStack},
	}
	stackLargeSequence = []delimType{
		{kind: delimSmall, style: StyleScriptScript},
		{kind: delimSmall, style: StyleScript},
		{kind: delimSmall, style: StyleText},
		{kind: delimLarge, size: 1},
		{kind: delimLarge, size: 2},
		{kind: delimLarge, size: 3},
		{kind: delimLarge, size: 4},
		{kind: delimStack},
	}
)

// normalizeDelim maps the angle bracket aliases onto \langle and \rangle.
func normalizeDelim(delim string) string {
	switch delim {
	case "<", "\\lt", "⟨":
		return "\\langle"
	case ">", "\\gt", "⟩":
		return "\\rangle"
	}

	return delim
}

// delimMetrics measures a delimiter glyph in font, through the symbol table replacement.
func (b *htmlBuilder) delimMetrics(delim, font string) (CharacterMetrics, bool) {
	if sym, ok := b.ctx.symbols.Get(ModeMath, delim); ok && sym.Replace != "" {
		delim = sym.Replace
	}

	return b.ctx.metrics.Character(delim, font, ModeMath)
}

// traverseSequence finds the first delimiter in sequence taller than height.
// Script styles skip the smallest variants.
func (b *htmlBuilder) traverseSequence(delim string, height float64, sequence []delimType, options *Options) delimType {
	start := min(2, 3-options.Style.Size())
	for _, d := range sequence[start:] {
		if d.kind == delimStack {
			break
		}

		m, ok := b.delimMetrics(delim, d.font())
		if !ok {
			continue
		}

		total := m.Height + m.Depth
		if d.kind == delimSmall {
			total *= options.HavingBaseStyle(d.style).SizeMultiplier()
		}

		if total > height {
			return d
		}
	}

	return sequence[len(sequence)-1]
}

// styleWrap puts a delimiter into a span switching to the given style.
func styleWrap(delim HTMLNode, to Style, options *Options, classes []string) *Span {
	newOptions := options.HavingBaseStyle(to)
	span := makeSpan(append(classes, newOptions.SizingClasses(options)...), []HTMLNode{delim}, options)

	multiplier := newOptions.SizeMultiplier() / options.SizeMultiplier()
	span.Height *= multiplier
	span.Depth *= multiplier
	span.MaxFontSize = newOptions.SizeMultiplier()
	return span
}

// centerSpan moves a delimiter onto the math axis.
func centerSpan(span *Span, options *Options, style Style) {
	newOptions := options.HavingBaseStyle(style)
	shift := (1 - options.SizeMultiplier()/newOptions.SizeMultiplier()) * options.FontMetrics().AxisHeight

	span.AddClass("delimcenter")
	span.Style.Set("top", MakeEm(shift))
	span.Height -= shift
	span.Depth += shift
}

func (b *htmlBuilder) makeSmallDelim(delim string, style Style, center bool, options *Options, mode Mode, classes []string) *Span {
	text := b.makeSymbol(delim, "Main-Regular", mode, options)
	span := styleWrap(text, style, options, classes)
	if center {
		centerSpan(span, options, style)
	}

	return span
}

func (b *htmlBuilder) makeLargeDelim(delim string, size int, center bool, options *Options, mode Mode, classes []string) *Span {
	inner := b.makeSymbol(delim, delimType{kind: delimLarge, size: size}.font(), mode, options)
	span := styleWrap(makeSpan([]string{"delimsizing", "size" + string(rune('0'+size))}, []HTMLNode{inner}, options), StyleText, options, classes)
	if center {
		centerSpan(span, options, StyleText)
	}

	return span
}

// stackParts are the glyphs of a stacked delimiter: top, optional middle,
// the repeated piece and bottom.
type stackParts struct {
	top, middle, repeat, bottom string
	font                        string
}

func stackedParts(delim string) stackParts {
	const size1, size4 = "Size1-Regular", "Size4-Regular"

	switch delim {
	case "\\uparrow":
		return stackParts{top: "\\uparrow", repeat: "⏐", bottom: "⏐", font: size1}
	case "\\Uparrow":
		return stackParts{top: "\\Uparrow", repeat: "‖", bottom: "‖", font: size1}
	case "\\downarrow":
		return stackParts{top: "⏐", repeat: "⏐", bottom: "\\downarrow", font: size1}
	case "\\Downarrow":
		return stackParts{top: "‖", repeat: "‖", bottom: "\\Downarrow", font: size1}
	case "\\updownarrow":
		return stackParts{top: "\\uparrow", repeat: "⏐", bottom: "\\downarrow", font: size1}
	case "\\Updownarrow":
		return stackParts{top: "\\Uparrow", repeat: "‖", bottom: "\\Downarrow", font: size1}
	case "|", "\\vert", "\\lvert", "\\rvert", "∣":
		return stackParts{top: "∣", repeat: "∣", bottom: "∣", font: size1}
	case "\\|", "\\Vert", "\\lVert", "\\rVert", "∥":
		return stackParts{top: "∥", repeat: "∥", bottom: "∥", font: size1}
	case "[", "\\lbrack":
		return stackParts{top: "⎡", repeat: "⎢", bottom: "⎣", font: size4}
	case "]", "\\rbrack":
		return stackParts{top: "⎤", repeat: "⎥", bottom: "⎦", font: size4}
	case "\\lfloor", "⌊":
		return stackParts{top: "⎢", repeat: "⎢", bottom: "⎣", font: size4}
	case "\\lceil", "⌈":
		return stackParts{top: "⎡", repeat: "⎢", bottom: "⎢", font: size4}
	case "\\rfloor", "⌋":
		return stackParts{top: "⎥", repeat: "⎥", bottom: "⎦", font: size4}
	case "\\rceil", "⌉":
		return stackParts{top: "⎤", repeat: "⎥", bottom: "⎥", font: size4}
	case "(", "\\lparen":
		return stackParts{top: "⎛", repeat: "⎜", bottom: "⎝", font: size4}
	case ")", "\\rparen":
		return stackParts{top: "⎞", repeat: "⎟", bottom: "⎠", font: size4}
	case "\\{", "\\lbrace":
		return stackParts{top: "⎧", middle: "⎨", repeat: "⎪", bottom: "⎩", font: size4}
	case "\\}", "\\rbrace":
		return stackParts{top: "⎫", middle: "⎬", repeat: "⎪", bottom: "⎭", font: size4}
	case "\\lgroup", "⟮":
		return stackParts{top: "⎧", repeat: "⎪", bottom: "⎩", font: size4}
	case "\\rgroup", "⟯":
		return stackParts{top: "⎫", repeat: "⎪", bottom: "⎭", font: size4}
	case "\\lmoustache", "⎰":
		return stackParts{top: "⎧", repeat: "⎪", bottom: "⎭", font: size4}
	case "\\rmoustache", "⎱":
		return stackParts{top: "⎫", repeat: "⎪", bottom: "⎩", font: size4}
	case "\\surd":
		return stackParts{top: "", repeat: "⎜", bottom: "⎷", font: size4}
	}

	return stackParts{top: delim, repeat: delim, bottom: delim, font: size1}
}

// makeStackedDelim builds a delimiter of any height from a top, a bottom
// and as many repeated pieces in between as needed.
func (b *htmlBuilder) makeStackedDelim(delim string, height float64, center bool, options *Options, mode Mode, classes []string) *Span {
	parts := stackedParts(delim)

	total := func(glyph string) float64 {
		if glyph == "" {
			return 0
		}

		m, _ := b.delimMetrics(glyph, parts.font)
		return m.Height + m.Depth
	}

	repeatTotal := total(parts.repeat)
	minHeight := total(parts.top) + total(parts.bottom) + total(parts.middle)

	factor := 1.0
	if parts.middle != "" {
		factor = 2
	}

	repeatCount := 0
	if repeatTotal > 0 {
		repeatCount = int(math.Max(0, math.Ceil((height-minHeight)/(factor*repeatTotal))))
	}

	realHeight := minHeight + float64(repeatCount)*factor*repeatTotal

	axisHeight := options.FontMetrics().AxisHeight
	if center {
		axisHeight *= options.SizeMultiplier()
	}

	depth := realHeight/2 - axisHeight

	sizeClass := "delim-size4"
	if parts.font == "Size1-Regular" {
		sizeClass = "delim-size1"
	}

	inner := func(glyph string) vlistChild {
		sym := b.makeSymbol(glyph, parts.font, mode, nil)
		return vlistElem(makeSpan([]string{"delimsizinginner", sizeClass}, []HTMLNode{makeSpan(nil, []HTMLNode{sym}, nil)}, nil))
	}

	var list []vlistChild
	list = append(list, inner(parts.bottom))
	if parts.middle == "" {
		for range repeatCount {
			list = append(list, inner(parts.repeat))
		}
	} else {
		for range repeatCount {
			list = append(list, inner(parts.repeat))
		}

		list = append(list, inner(parts.middle))
		for range repeatCount {
			list = append(list, inner(parts.repeat))
		}
	}

	if parts.top != "" {
		list = append(list, inner(parts.top))
	}

	buildTracer().Debugf("stacked %s with %d repeats for height %.3f", delim, repeatCount, height)

	newOptions := options.HavingBaseStyle(StyleText)
	vlist := makeVList(vlistBottom, depth, list)
	return styleWrap(makeSpan([]string{"delimsizing", "mult"}, []HTMLNode{vlist}, newOptions), StyleText, options, classes)
}

// makeSizedDelim makes a delimiter of one of the four \big sizes.
func (b *htmlBuilder) makeSizedDelim(delim string, size int, options *Options, mode Mode, classes []string) (*Span, error) {
	delim = normalizeDelim(delim)

	switch {
	case stackLargeDelimiters[delim] || stackNeverDelimiters[delim]:
		return b.makeLargeDelim(delim, size, false, options, mode, classes), nil
	case stackAlwaysDelimiters[delim]:
		return b.makeStackedDelim(delim, sizeToMaxHeight[size], false, options, mode, classes), nil
	}

	return nil, &ParseError{Kind: ErrInvalidArgument, Msg: "Illegal delimiter: '" + delim + "'"}
}

// makeCustomSizedDelim makes a delimiter at least height tall.
func (b *htmlBuilder) makeCustomSizedDelim(delim string, height float64, center bool, options *Options, mode Mode, classes []string) *Span {
	delim = normalizeDelim(delim)

	sequence := stackAlwaysSequence
	switch {
	case stackNeverDelimiters[delim]:
		sequence = stackNeverSequence
	case stackLargeDelimiters[delim]:
		sequence = stackLargeSequence
	}

	d := b.traverseSequence(delim, height, sequence, options)
	switch d.kind {
	case delimSmall:
		return b.makeSmallDelim(delim, d.style, center, options, mode, classes)
	case delimLarge:
		return b.makeLargeDelim(delim, d.size, center, options, mode, classes)
	default:
		return b.makeStackedDelim(delim, height, center, options, mode, classes)
	}
}

// makeLeftRightDelim sizes a \left or \right delimiter to cover height
// above and depth below the axis, the way TeX does with \delimiterfactor
// and \delimitershortfall.
func (b *htmlBuilder) makeLeftRightDelim(delim string, height, depth float64, options *Options, mode Mode, classes []string) *Span {
	metrics := options.FontMetrics()
	axisHeight := metrics.AxisHeight * options.SizeMultiplier()

	const delimiterFactor = 901
	delimiterExtend := 5.0 / metrics.PtPerEm

	maxDist := math.Max(height-axisHeight, depth+axisHeight)
	total := math.Max(maxDist/500*delimiterFactor, 2*maxDist-delimiterExtend)
	return b.makeCustomSizedDelim(delim, total, true, options, mode, classes)
}

// sqrtImage is the radical sign for a body of the given height.
func (b *htmlBuilder) sqrtImage(height float64, options *Options) (span *Span, advanceWidth, ruleWidth float64) {
	const vbPad, emPad = 80, 0.08

	newOptions := options.HavingBaseSizing()
	d := b.traverseSequence("\\surd", height*newOptions.SizeMultiplier(), stackLargeSequence, newOptions)

	multiplier := newOptions.SizeMultiplier()
	extra := math.Max(0, options.MinRuleThickness-options.FontMetrics().SqrtRuleThickness)

	var spanHeight, texHeight, viewBoxHeight float64
	var minWidth, pathName string
	switch d.kind {
	case delimSmall:
		pathName = "sqrtMain"
		viewBoxHeight = 1000 + 1000*extra + vbPad
		switch {
		case height < 1.0:
			multiplier = 1.0
		case height < 1.4:
			multiplier = 0.7
		}

		spanHeight = (1.0 + extra + emPad) / multiplier
		texHeight = (1.0 + extra) / multiplier
		advanceWidth = 0.833 / multiplier
		minWidth = "0.853em"
	case delimLarge:
		pathName = "sqrtSize" + strconv.Itoa(d.size)
		viewBoxHeight = (1000 + vbPad) * sizeToMaxHeight[d.size]
		texHeight = (sizeToMaxHeight[d.size] + extra) / multiplier
		spanHeight = (sizeToMaxHeight[d.size] + extra + emPad) / multiplier
		advanceWidth = 1.0 / multiplier
		minWidth = "1.02em"
	default:
		pathName = "sqrtTall"
		spanHeight = height + extra + emPad
		texHeight = height + extra
		viewBoxHeight = math.Floor(1000*height+extra) + vbPad
		advanceWidth = 1.056
		minWidth = "0.742em"
	}

	svg := &SVG{
		Attributes: Attributes{
			{Name: "width", Value: "400em"},
			{Name: "height", Value: MakeEm(spanHeight)},
			{Name: "viewBox", Value: viewBox(svgWidth, viewBoxHeight)},
			{Name: "preserveAspectRatio", Value: "xMinYMin slice"},
		},
		Children: []SVGNode{&PathNode{Name: pathName, Data: sqrtPath(pathName, extra, viewBoxHeight)}},
	}

	span = makeSvgSpan([]string{"hide-tail"}, []HTMLNode{svg}, texHeight, 0)
	span.Style.Set("minWidth", minWidth)
	span.Style.Set("height", MakeEm(spanHeight))

	ruleWidth = (options.FontMetrics().SqrtRuleThickness + extra) * multiplier
	return span, advanceWidth, ruleWidth
}
