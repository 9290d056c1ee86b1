package katex

import (
	"math"
	"strings"
)

// delegatesSupSub tells whether the base lays out its own scripts, as limits
// above and below or hooked onto a brace or accent.
func delegatesSupSub(n *SupSub, options *Options) bool {
	display := options.Style.Size() == StyleDisplay.Size()

	switch base := n.Base.(type) {
	case *Op:
		return base.Limits && (display || base.AlwaysHandleSupSub)
	case *OperatorName:
		return base.AlwaysHandleSupSub && (display || base.Limits)
	case *Accent:
		return isCharacterBox(base.Base)
	case *HorizBrace:
		return (n.Sub == nil) == base.IsOver
	}

	return false
}

func (b *htmlBuilder) buildSupSub(n *SupSub, options *Options) HTMLNode {
	if delegatesSupSub(n, options) {
		switch base := n.Base.(type) {
		case *Op:
			return b.buildOp(base, n, options)
		case *OperatorName:
			return b.buildOperatorName(base, n, options)
		case *Accent:
			return b.buildAccent(base, n, options)
		case *HorizBrace:
			return b.buildHorizBrace(base, n, options)
		}
	}

	base := b.buildGroup(n.Base, options, nil)
	metrics := options.FontMetrics()
	characterBox := n.Base != nil && isCharacterBox(n.Base)

	var supm, subm HTMLNode
	var supShift, subShift float64

	if n.Sup != nil {
		newOptions := options.HavingStyle(options.Style.Sup())
		supm = b.buildGroup(n.Sup, newOptions, options)
		if !characterBox {
			supShift = base.box().Height - newOptions.FontMetrics().SupDrop*newOptions.SizeMultiplier()/options.SizeMultiplier()
		}
	}

	if n.Sub != nil {
		newOptions := options.HavingStyle(options.Style.Sub())
		subm = b.buildGroup(n.Sub, newOptions, options)
		if !characterBox {
			subShift = base.box().Depth + newOptions.FontMetrics().SubDrop*newOptions.SizeMultiplier()/options.SizeMultiplier()
		}
	}

	minSupShift := metrics.Sup2
	switch {
	case options.Style == StyleDisplay:
		minSupShift = metrics.Sup1
	case options.Style.Cramped():
		minSupShift = metrics.Sup3
	}

	marginRight := MakeEm(0.5 / metrics.PtPerEm / options.SizeMultiplier())
	marginLeft := ""
	if glyph, ok := base.(*Glyph); ok && subm != nil {
		// subscripts tuck under the italic correction
		marginLeft = MakeEm(-glyph.Italic)
	}

	var supsub *Span
	switch {
	case supm != nil && subm != nil:
		sup, sub := supm.box(), subm.box()
		supShift = max(supShift, minSupShift, sup.Depth+0.25*metrics.XHeight)
		subShift = max(subShift, metrics.Sub2)

		maxWidth := 4 * metrics.DefaultRuleThickness
		if (supShift-sup.Depth)-(sub.Height-subShift) < maxWidth {
			subShift = maxWidth - (supShift - sup.Depth) + sub.Height
			if psi := 0.8*metrics.XHeight - (supShift - sup.Depth); psi > 0 {
				supShift += psi
				subShift -= psi
			}
		}

		supsub = makeVList(vlistIndividual, 0, []vlistChild{
			{Elem: subm, Shift: subShift, MarginRight: marginRight, MarginLeft: marginLeft},
			{Elem: supm, Shift: -supShift, MarginRight: marginRight},
		})
	case subm != nil:
		subShift = max(subShift, metrics.Sub1, subm.box().Height-0.8*metrics.XHeight)
		supsub = makeVList(vlistShifted, subShift, []vlistChild{
			{Elem: subm, MarginLeft: marginLeft, MarginRight: marginRight},
		})
	case supm != nil:
		supShift = max(supShift, minSupShift, supm.box().Depth+0.25*metrics.XHeight)
		supsub = makeVList(vlistShifted, -supShift, []vlistChild{
			{Elem: supm, MarginRight: marginRight},
		})
	default:
		return base
	}

	class := AtomOrd.Class()
	if t := atomOf(outermost(base, true)); t != AtomNone {
		class = t.Class()
	}

	return makeSpan([]string{class}, []HTMLNode{base, makeSpan([]string{"msupsub"}, []HTMLNode{supsub}, nil)}, options)
}

// fracStyle is the style a fraction is set in, \dfrac and friends force one.
func fracStyle(size string, style Style) Style {
	switch size {
	case "display":
		if style >= StyleScript {
			return style.Text()
		}

		return StyleDisplay
	case "text":
		if style.Size() == StyleDisplay.Size() {
			return StyleText
		}
	case "script":
		return StyleScript
	case "scriptscript":
		return StyleScriptScript
	}

	return style
}

func makeNullDelimiter(options *Options, classes ...string) *Span {
	return makeSpan(append(append(classes, "nulldelimiter"), options.BaseSizingClasses()...), nil, nil)
}

func (b *htmlBuilder) buildGenFrac(n *GenFrac, options *Options) HTMLNode {
	style := fracStyle(n.Size, options.Style)
	metrics := options.FontMetrics()

	numerm := b.buildGroup(n.Numer, options.HavingStyle(style.FracNum()), options)
	if n.Continued {
		// \cfrac numerators get a strut
		numer := numerm.box()
		numer.Height = max(numer.Height, 8.5/metrics.PtPerEm)
		numer.Depth = max(numer.Depth, 3.5/metrics.PtPerEm)
	}

	denomm := b.buildGroup(n.Denom, options.HavingStyle(style.FracDen()), options)
	numer, denom := numerm.box(), denomm.box()

	var rule *Span
	var ruleWidth, ruleSpacing float64
	if n.HasBarLine {
		thickness := 0.0
		if n.BarSize != nil {
			thickness = b.size(*n.BarSize, options)
		}

		rule = makeLineSpan("frac-line", options, thickness)
		ruleWidth, ruleSpacing = rule.Height, rule.Height
	} else {
		ruleSpacing = metrics.DefaultRuleThickness
	}

	var numShift, clearance, denomShift float64
	if style.Size() == StyleDisplay.Size() || n.Size == "display" {
		numShift, denomShift = metrics.Num1, metrics.Denom1
		clearance = 7 * ruleSpacing
		if ruleWidth > 0 {
			clearance = 3 * ruleSpacing
		}
	} else {
		denomShift = metrics.Denom2
		if ruleWidth > 0 {
			numShift, clearance = metrics.Num2, ruleSpacing
		} else {
			numShift, clearance = metrics.Num3, 3*ruleSpacing
		}
	}

	var frac *Span
	if rule == nil {
		candidate := (numShift - numer.Depth) - (denom.Height - denomShift)
		if candidate < clearance {
			numShift += 0.5 * (clearance - candidate)
			denomShift += 0.5 * (clearance - candidate)
		}

		frac = makeVList(vlistIndividual, 0, []vlistChild{
			{Elem: denomm, Shift: denomShift},
			{Elem: numerm, Shift: -numShift},
		})
	} else {
		axis := metrics.AxisHeight
		if gap := (numShift - numer.Depth) - (axis + 0.5*ruleWidth); gap < clearance {
			numShift += clearance - gap
		}

		if gap := (axis - 0.5*ruleWidth) - (denom.Height - denomShift); gap < clearance {
			denomShift += clearance - gap
		}

		frac = makeVList(vlistIndividual, 0, []vlistChild{
			{Elem: denomm, Shift: denomShift},
			{Elem: rule, Shift: -(axis - 0.5*ruleWidth)},
			{Elem: numerm, Shift: -numShift},
		})
	}

	newOptions := options.HavingStyle(style)
	frac.Height *= newOptions.SizeMultiplier() / options.SizeMultiplier()
	frac.Depth *= newOptions.SizeMultiplier() / options.SizeMultiplier()

	delimSize := metrics.Delim2
	if style.Size() == StyleDisplay.Size() {
		delimSize = metrics.Delim1
	} else if style.Size() == StyleScriptScript.Size() {
		delimSize = options.HavingStyle(StyleScript).FontMetrics().Delim2
	}

	var left, right HTMLNode
	if n.LeftDelim == "" {
		left = makeNullDelimiter(options, "mopen")
	} else {
		left = b.makeCustomSizedDelim(n.LeftDelim, delimSize, true, newOptions, n.Mode, []string{"mopen"})
	}

	switch {
	case n.Continued:
		right = makeSpan(nil, nil, nil)
	case n.RightDelim == "":
		right = makeNullDelimiter(options, "mclose")
	default:
		right = b.makeCustomSizedDelim(n.RightDelim, delimSize, true, newOptions, n.Mode, []string{"mclose"})
	}

	classes := append([]string{"mord"}, newOptions.SizingClasses(options)...)
	return makeSpan(classes, []HTMLNode{left, makeSpan([]string{"mfrac"}, []HTMLNode{frac}, nil), right}, options)
}

func (b *htmlBuilder) buildSqrt(n *Sqrt, options *Options) HTMLNode {
	inner := b.buildGroup(n.Body, options.HavingCrampedStyle(), nil)
	if inner.box().Height == 0 {
		// empty radicands still get a sign of x-height
		inner.box().Height = options.FontMetrics().XHeight
	}

	inner = wrapFragment(inner, options)
	body := inner.box()

	metrics := options.FontMetrics()
	theta := metrics.DefaultRuleThickness
	phi := theta
	if options.Style < StyleText {
		phi = metrics.XHeight
	}

	lineClearance := theta + phi/4
	img, advanceWidth, ruleWidth := b.sqrtImage(body.Height+body.Depth+lineClearance+theta, options)

	if delimDepth := img.Height - ruleWidth; delimDepth > body.Height+body.Depth+lineClearance {
		lineClearance = (lineClearance + delimDepth - body.Height - body.Depth) / 2
	}

	imgShift := img.Height - body.Height - lineClearance - ruleWidth
	body.Style.Set("paddingLeft", MakeEm(advanceWidth))

	vlist := makeVList(vlistFirstBaseline, 0, []vlistChild{
		{Elem: inner, WrapperClasses: []string{"svg-align"}},
		vlistKern(-(body.Height + imgShift)),
		vlistElem(img),
		vlistKern(ruleWidth),
	})

	if n.Index == nil {
		return makeSpan([]string{"mord", "sqrt"}, []HTMLNode{vlist}, options)
	}

	rootm := b.buildGroup(n.Index, options.HavingStyle(StyleScriptScript), options)
	toShift := 0.6 * (vlist.Height - vlist.Depth)
	root := makeVList(vlistShifted, -toShift, []vlistChild{vlistElem(rootm)})

	return makeSpan([]string{"mord", "sqrt"}, []HTMLNode{makeSpan([]string{"root"}, []HTMLNode{root}, nil), vlist}, options)
}

// buildAccent puts an accent over its base. With supsub set the scripts
// attach to the accented base.
func (b *htmlBuilder) buildAccent(n *Accent, supsub *SupSub, options *Options) HTMLNode {
	var scripts *Span
	if supsub != nil {
		inner := *supsub
		inner.Base = n.Base
		if s, ok := b.buildSupSub(&inner, options).(*Span); ok {
			scripts = s
		}
	}

	body := b.buildGroup(n.Base, options.HavingCrampedStyle(), nil)

	skew := 0.0
	if n.IsShifty && isCharacterBox(n.Base) {
		if glyph, ok := b.buildGroup(baseElem(n.Base), options.HavingCrampedStyle(), nil).(*Glyph); ok {
			skew = glyph.Skew
		}
	}

	clearance := math.Min(body.box().Height, options.FontMetrics().XHeight)

	var accentBody *Span
	if !n.IsStretchy {
		var accent HTMLNode
		var width float64
		if n.Label == "\\vec" {
			accent, width = vecSpan(), 0.471
		} else {
			accent = b.makeOrd(n.Label, n.Mode, options, true)
			if glyph, ok := accent.(*Glyph); ok {
				glyph.Italic = 0
				width = glyph.Width
			}
		}

		wrap := makeSpan([]string{"accent-body"}, []HTMLNode{accent}, nil)
		full := n.Label == "\\textcircled"
		left := skew
		if full {
			wrap.AddClass("accent-full")
			clearance = body.box().Height
			wrap.Style.Set("top", ".2em")
		} else {
			left -= width / 2
		}

		wrap.Style.Set("left", MakeEm(left))
		accentBody = makeVList(vlistFirstBaseline, 0, []vlistChild{vlistElem(body), vlistKern(-clearance), vlistElem(wrap)})
	} else {
		img := vlistChild{Elem: stretchySpan(n.Label, n.Base, options), WrapperClasses: []string{"svg-align"}}
		if skew > 0 {
			img.WrapperStyle.Set("width", "calc(100% - "+MakeEm(2*skew)+")")
			img.WrapperStyle.Set("marginLeft", MakeEm(2*skew))
		}

		accentBody = makeVList(vlistFirstBaseline, 0, []vlistChild{vlistElem(body), img})
	}

	accentWrap := makeSpan([]string{"mord", "accent"}, []HTMLNode{accentBody}, options)
	if scripts == nil {
		return accentWrap
	}

	scripts.Children[0] = accentWrap
	scripts.Height = max(accentWrap.Height, scripts.Height)
	setFirstClass(scripts, "mord")
	return scripts
}

func (b *htmlBuilder) buildAccentUnder(n *AccentUnder, options *Options) HTMLNode {
	inner := b.buildGroup(n.Base, options, nil)

	kern := 0.0
	if n.Label == "\\utilde" {
		kern = 0.12
	}

	vlist := makeVList(vlistTop, inner.box().Height, []vlistChild{
		{Elem: stretchySpan(n.Label, n.Base, options), WrapperClasses: []string{"svg-align"}},
		vlistKern(kern),
		vlistElem(inner),
	})

	return makeSpan([]string{"mord", "accentunder"}, []HTMLNode{vlist}, options)
}

func (b *htmlBuilder) buildOverline(n *Overline, options *Options) HTMLNode {
	inner := b.buildGroup(n.Body, options.HavingCrampedStyle(), nil)
	line := makeLineSpan("overline-line", options, 0)
	theta := options.FontMetrics().DefaultRuleThickness

	vlist := makeVList(vlistFirstBaseline, 0, []vlistChild{
		vlistElem(inner), vlistKern(3 * theta), vlistElem(line), vlistKern(theta),
	})

	return makeSpan([]string{"mord", "overline"}, []HTMLNode{vlist}, options)
}

func (b *htmlBuilder) buildUnderline(n *Underline, options *Options) HTMLNode {
	inner := b.buildGroup(n.Body, options, nil)
	line := makeLineSpan("underline-line", options, 0)
	theta := options.FontMetrics().DefaultRuleThickness

	vlist := makeVList(vlistTop, inner.box().Height, []vlistChild{
		vlistKern(theta), vlistElem(line), vlistKern(3 * theta), vlistElem(inner),
	})

	return makeSpan([]string{"mord", "underline"}, []HTMLNode{vlist}, options)
}

func (b *htmlBuilder) buildLeftRight(n *LeftRight, options *Options) HTMLNode {
	inner := b.buildExpression(n.Body, options, groupReal, "mopen", "mclose")

	var height, depth float64
	hadMiddle := false
	for _, child := range inner {
		if _, ok := b.middles[child]; ok {
			hadMiddle = true
			continue
		}

		height = max(height, child.box().Height)
		depth = max(depth, child.box().Depth)
	}

	height *= options.SizeMultiplier()
	depth *= options.SizeMultiplier()

	var left HTMLNode
	if n.Left == "." {
		left = makeNullDelimiter(options, "mopen")
	} else {
		left = b.makeLeftRightDelim(n.Left, height, depth, options, n.Mode, []string{"mopen"})
	}

	if hadMiddle {
		for i, child := range inner {
			if m, ok := b.middles[child]; ok {
				inner[i] = b.makeLeftRightDelim(m.delim, height, depth, m.options, n.Mode, nil)
			}
		}
	}

	var right HTMLNode
	if n.Right == "." {
		right = makeNullDelimiter(options, "mclose")
	} else {
		colorOptions := options
		if n.RightColor != "" {
			colorOptions = options.WithColor(n.RightColor)
		}

		right = b.makeLeftRightDelim(n.Right, height, depth, colorOptions, n.Mode, []string{"mclose"})
	}

	children := append(append([]HTMLNode{left}, inner...), right)
	return makeSpan([]string{"minner"}, children, options)
}

// buildMiddle makes a placeholder of the smallest \big size, the enclosing
// \left...\right resizes it once the height of its content is known.
func (b *htmlBuilder) buildMiddle(n *Middle, options *Options) HTMLNode {
	if n.Delim == "." {
		return makeNullDelimiter(options)
	}

	span, err := b.makeSizedDelim(n.Delim, 1, options, n.Mode, nil)
	if err != nil {
		b.fail(err)
		return makeNullDelimiter(options)
	}

	b.middles[span] = middleDelim{delim: n.Delim, options: options}
	return span
}

func (b *htmlBuilder) buildDelimSizing(n *DelimSizing, options *Options) HTMLNode {
	if n.Delim == "." {
		return makeSpan([]string{n.Class.Class()}, nil, nil)
	}

	span, err := b.makeSizedDelim(n.Delim, n.Size, options, n.Mode, []string{n.Class.Class()})
	if err != nil {
		b.fail(err)
		return makeSpan([]string{n.Class.Class()}, nil, nil)
	}

	return span
}

// buildOp builds a large operator or a named function like \sin. With supsub
// set the scripts become limits.
func (b *htmlBuilder) buildOp(n *Op, supsub *SupSub, options *Options) HTMLNode {
	style := options.Style
	large := style.Size() == StyleDisplay.Size() && n.Symbol && n.Name != "\\smallint"

	var base HTMLNode
	switch {
	case n.Symbol:
		font, size := "Size1-Regular", "small-op"
		if large {
			font, size = "Size2-Regular", "large-op"
		}

		base = b.makeSymbol(n.Name, font, ModeMath, options, "mop", "op-symbol", size)
	case n.Body != nil:
		inner := b.buildExpression(n.Body, options, groupReal)
		base = makeSpan([]string{"mop"}, inner, options)
		if len(inner) == 1 {
			if glyph, ok := inner[0].(*Glyph); ok {
				setFirstClass(glyph, "mop")
				base = glyph
			}
		}
	default:
		var chars []HTMLNode
		for _, r := range strings.TrimPrefix(n.Name, "\\") {
			chars = append(chars, b.mathsym(string(r), n.Mode, options))
		}

		base = makeSpan([]string{"mop"}, chars, options)
	}

	var baseShift, slant float64
	if glyph, ok := base.(*Glyph); ok && !n.SuppressBaseShift {
		// center on the axis
		baseShift = (glyph.Height-glyph.Depth)/2 - options.FontMetrics().AxisHeight
		slant = glyph.Italic
	}

	if supsub != nil {
		return b.assembleSupSub(base, supsub.Sup, supsub.Sub, options, style, slant, baseShift)
	}

	if baseShift != 0 {
		base.box().Style.Set("position", "relative")
		base.box().Style.Set("top", MakeEm(baseShift))
	}

	return base
}

// assembleSupSub stacks limits above and below an operator. slant shifts
// them apart for slanted integrals.
func (b *htmlBuilder) assembleSupSub(base HTMLNode, supGroup, subGroup Node, options *Options, style Style, slant, baseShift float64) HTMLNode {
	wrapped := makeSpan(nil, []HTMLNode{base}, nil)
	metrics := options.FontMetrics()

	var sup, sub HTMLNode
	var supKern, subKern float64
	if supGroup != nil {
		sup = b.buildGroup(supGroup, options.HavingStyle(style.Sup()), options)
		supKern = max(metrics.BigOpSpacing1, metrics.BigOpSpacing3-sup.box().Depth)
	}

	if subGroup != nil {
		sub = b.buildGroup(subGroup, options.HavingStyle(style.Sub()), options)
		subKern = max(metrics.BigOpSpacing2, metrics.BigOpSpacing4-sub.box().Height)
	}

	var final *Span
	switch {
	case sup != nil && sub != nil:
		bottom := metrics.BigOpSpacing5 + sub.box().Height + sub.box().Depth + subKern + wrapped.Depth + baseShift
		final = makeVList(vlistBottom, bottom, []vlistChild{
			vlistKern(metrics.BigOpSpacing5),
			{Elem: sub, MarginLeft: MakeEm(-slant)},
			vlistKern(subKern),
			vlistElem(wrapped),
			vlistKern(supKern),
			{Elem: sup, MarginLeft: MakeEm(slant)},
			vlistKern(metrics.BigOpSpacing5),
		})
	case sub != nil:
		final = makeVList(vlistTop, wrapped.Height-baseShift, []vlistChild{
			vlistKern(metrics.BigOpSpacing5),
			{Elem: sub, MarginLeft: MakeEm(-slant)},
			vlistKern(subKern),
			vlistElem(wrapped),
		})
	case sup != nil:
		final = makeVList(vlistBottom, wrapped.Depth+baseShift, []vlistChild{
			vlistElem(wrapped),
			vlistKern(supKern),
			{Elem: sup, MarginLeft: MakeEm(slant)},
			vlistKern(metrics.BigOpSpacing5),
		})
	default:
		return wrapped
	}

	parts := []HTMLNode{final}
	if sub != nil && slant != 0 && !isCharacterBox(subGroup) {
		spacer := makeSpan([]string{"mspace"}, nil, options)
		spacer.Style.Set("marginRight", MakeEm(slant))
		parts = append([]HTMLNode{spacer}, parts...)
	}

	return makeSpan([]string{"mop", "op-limits"}, parts, options)
}

// operatorNameChars are set upright, with text forms of the math minus and asterisk.
var operatorNameChars = strings.NewReplacer("\u2212", "-", "\u2217", "*")

func (b *htmlBuilder) buildOperatorName(n *OperatorName, supsub *SupSub, options *Options) HTMLNode {
	var children []HTMLNode
	if len(n.Body) > 0 {
		body := make([]Node, len(n.Body))
		for i, child := range n.Body {
			body[i] = child
			if text, ok := symbolText(child); ok {
				body[i] = &TextOrd{Meta: Meta{Mode: child.Info().Mode, Loc: child.Info().Loc}, Text: text}
			}
		}

		children = b.buildExpression(body, options.WithFont("mathrm"), groupReal)
		for _, child := range children {
			if glyph, ok := child.(*Glyph); ok {
				glyph.Text = operatorNameChars.Replace(glyph.Text)
			}
		}
	}

	base := makeSpan([]string{"mop"}, children, options)
	if supsub != nil {
		return b.assembleSupSub(base, supsub.Sup, supsub.Sub, options, options.Style, 0, 0)
	}

	return base
}

// arrayRow is a built row with its extent and the position of its baseline.
type arrayRow struct {
	cells         []HTMLNode
	height, depth float64
	pos           float64
}

type arrayHLine struct {
	pos    float64
	dashed bool
}

func (b *htmlBuilder) buildArray(n *Array, options *Options) HTMLNode {
	metrics := options.FontMetrics()
	ruleThickness := max(metrics.ArrayRuleWidth, options.MinRuleThickness)
	pt := 1 / metrics.PtPerEm

	arraycolsep := 5 * pt
	if n.ColSeparation == "small" {
		arraycolsep = 0.2778 * options.HavingStyle(StyleScript).SizeMultiplier() / options.SizeMultiplier()
	}

	baselineskip := 12 * pt
	jot := 3 * pt
	arrayskip := n.ArrayStretch * baselineskip
	arstrutHeight, arstrutDepth := 0.7*arrayskip, 0.3*arrayskip

	var totalHeight float64
	var hlines []arrayHLine
	setHLinePos := func(gap []bool) {
		for i, dashed := range gap {
			if i > 0 {
				totalHeight += 0.25
			}

			hlines = append(hlines, arrayHLine{pos: totalHeight, dashed: dashed})
		}
	}

	hlinesBefore := func(r int) []bool {
		if r < len(n.HLinesBeforeRow) {
			return n.HLinesBeforeRow[r]
		}

		return nil
	}

	setHLinePos(hlinesBefore(0))

	nc := 0
	rows := make([]arrayRow, len(n.Body))
	for r, inrow := range n.Body {
		row := arrayRow{height: arstrutHeight, depth: arstrutDepth}
		nc = max(nc, len(inrow))

		for _, cell := range inrow {
			elt := b.buildGroup(cell, options, nil)
			row.height = max(row.height, elt.box().Height)
			row.depth = max(row.depth, elt.box().Depth)
			row.cells = append(row.cells, elt)
		}

		gap := 0.0
		if r < len(n.RowGaps) && n.RowGaps[r] != nil {
			gap = b.size(*n.RowGaps[r], options)
			if gap > 0 {
				gap += arstrutDepth
				row.depth = max(row.depth, gap)
				gap = 0
			}
		}

		if n.AddJot {
			row.depth += jot
		}

		totalHeight += row.height
		row.pos = totalHeight
		totalHeight += row.depth + gap
		rows[r] = row

		setHLinePos(hlinesBefore(r + 1))
	}

	offset := totalHeight/2 + metrics.AxisHeight
	colSep := func(width float64) *Span {
		s := makeSpan([]string{"arraycolsep"}, nil, nil)
		s.Style.Set("width", MakeEm(width))
		return s
	}

	var cols []HTMLNode
	descr := func(i int) AlignSpec {
		if i < len(n.Cols) {
			return n.Cols[i]
		}

		return AlignSpec{}
	}

	for c, d := 0, 0; c < nc || d < len(n.Cols); c, d = c+1, d+1 {
		col := descr(d)
		first := true
		for col.Separator != "" {
			if !first {
				cols = append(cols, colSep(metrics.DoubleRuleSep))
			}

			lineType := "solid"
			if col.Separator == ":" {
				lineType = "dashed"
			}

			separator := makeSpan([]string{"vertical-separator"}, nil, options)
			separator.Style.Set("height", MakeEm(totalHeight))
			separator.Style.Set("borderRightWidth", MakeEm(ruleThickness))
			separator.Style.Set("borderRightStyle", lineType)
			separator.Style.Set("margin", "0 "+MakeEm(-ruleThickness/2))
			if shift := totalHeight - offset; shift != 0 {
				separator.Style.Set("verticalAlign", MakeEm(-shift))
			}

			cols = append(cols, separator)

			d++
			col = descr(d)
			first = false
		}

		if c >= nc {
			continue
		}

		if c > 0 || n.HSkipBeforeAndAfter {
			width := arraycolsep
			if col.PreGap != nil {
				width = *col.PreGap
			}

			if width != 0 {
				cols = append(cols, colSep(width))
			}
		}

		var list []vlistChild
		for _, row := range rows {
			if c >= len(row.cells) {
				continue
			}

			elem := row.cells[c]
			elem.box().Height = row.height
			elem.box().Depth = row.depth
			list = append(list, vlistChild{Elem: elem, Shift: row.pos - offset})
		}

		align := col.Align
		if align == "" {
			align = "c"
		}

		if len(list) > 0 {
			cols = append(cols, makeSpan([]string{"col-align-" + align}, []HTMLNode{makeVList(vlistIndividual, 0, list)}, nil))
		}

		if c < nc-1 || n.HSkipBeforeAndAfter {
			width := arraycolsep
			if col.PostGap != nil {
				width = *col.PostGap
			}

			if width != 0 {
				cols = append(cols, colSep(width))
			}
		}
	}

	var body HTMLNode = makeSpan([]string{"mtable"}, cols, nil)
	if len(hlines) > 0 {
		line := makeLineSpan("hline", options, ruleThickness)
		dashes := makeLineSpan("hdashline", options, ruleThickness)

		list := []vlistChild{{Elem: body}}
		for i := len(hlines) - 1; i >= 0; i-- {
			elem := line
			if hlines[i].dashed {
				elem = dashes
			}

			list = append(list, vlistChild{Elem: elem, Shift: hlines[i].pos - offset})
		}

		body = makeVList(vlistIndividual, 0, list)
	}

	return makeSpan([]string{"mord"}, []HTMLNode{body}, options)
}

func (b *htmlBuilder) buildRule(n *Rule, options *Options) HTMLNode {
	rule := makeSpan([]string{"mord", "rule"}, nil, options)
	width := b.size(n.Width, options)
	height := b.size(n.Height, options)

	shift := 0.0
	if n.Shift != nil {
		shift = b.size(*n.Shift, options)
	}

	rule.Style.Set("borderRightWidth", MakeEm(width))
	rule.Style.Set("borderTopWidth", MakeEm(height))
	rule.Style.Set("bottom", MakeEm(shift))

	rule.Width = width
	rule.Height = height + shift
	rule.Depth = -shift
	rule.MaxFontSize = height * 1.125 * options.SizeMultiplier()
	return rule
}

func (b *htmlBuilder) buildHPhantom(n *HPhantom, options *Options) HTMLNode {
	node := makeSpan(nil, []HTMLNode{b.buildGroup(n.Body, options.WithPhantom(), nil)}, nil)
	node.Height, node.Depth = 0, 0
	for _, child := range node.Children {
		child.box().Height = 0
		child.box().Depth = 0
	}

	vlist := makeVList(vlistFirstBaseline, 0, []vlistChild{vlistElem(node)})
	return makeSpan([]string{"mord"}, []HTMLNode{vlist}, options)
}

func (b *htmlBuilder) buildLap(n *Lap, options *Options) HTMLNode {
	var inner *Span
	if n.Alignment == "clap" {
		inner = makeSpan([]string{"inner"}, []HTMLNode{makeSpan(nil, []HTMLNode{b.buildGroup(n.Body, options, nil)}, nil)}, options)
	} else {
		inner = makeSpan([]string{"inner"}, []HTMLNode{b.buildGroup(n.Body, options, nil)}, nil)
	}

	node := makeSpan([]string{n.Alignment}, []HTMLNode{inner, makeSpan([]string{"fix"}, nil, nil)}, options)

	strut := makeSpan([]string{"strut"}, nil, nil)
	strut.Style.Set("height", MakeEm(node.Height+node.Depth))
	if node.Depth != 0 {
		strut.Style.Set("verticalAlign", MakeEm(-node.Depth))
	}

	node.Children = append([]HTMLNode{strut}, node.Children...)

	thinbox := makeSpan([]string{"thinbox"}, []HTMLNode{node}, options)
	return makeSpan([]string{"mord", "vbox"}, []HTMLNode{thinbox}, options)
}

func (b *htmlBuilder) buildEnclose(n *Enclose, options *Options) HTMLNode {
	inner := wrapFragment(b.buildGroup(n.Body, options, nil), options)
	label := strings.TrimPrefix(n.Label, "\\")
	metrics := options.FontMetrics()
	singleChar := isCharacterBox(n.Body)
	cancel := strings.Contains(label, "cancel")

	var img *Span
	var imgShift float64

	if label == "sout" {
		img = makeSpan([]string{"stretchy", "sout"}, nil, nil)
		img.Height = metrics.DefaultRuleThickness / options.SizeMultiplier()
		imgShift = -0.5 * metrics.XHeight
	} else {
		switch {
		case cancel:
			if !singleChar {
				inner.box().AddClass("cancel-pad")
			}
		default:
			inner.box().AddClass("boxpad")
		}

		var topPad, ruleThickness float64
		if strings.Contains(label, "box") {
			ruleThickness = max(metrics.FboxRule, options.MinRuleThickness)
			topPad = metrics.FboxSep
			if label != "colorbox" {
				topPad += ruleThickness
			}
		} else if singleChar {
			topPad = 0.2
		}

		bottomPad := topPad
		img = encloseSpan(inner, label, topPad, bottomPad, options)
		if label == "fbox" || label == "fcolorbox" {
			img.Style.Set("borderStyle", "solid")
			img.Style.Set("borderWidth", MakeEm(ruleThickness))
		}

		imgShift = inner.box().Depth + bottomPad

		if n.BackgroundColor != "" {
			img.Style.Set("backgroundColor", n.BackgroundColor)
			if n.BorderColor != "" {
				img.Style.Set("borderColor", n.BorderColor)
			}
		}
	}

	var vlist *Span
	if n.BackgroundColor != "" {
		vlist = makeVList(vlistIndividual, 0, []vlistChild{
			{Elem: img, Shift: imgShift},
			{Elem: inner},
		})
	} else {
		var classes []string
		if cancel {
			classes = []string{"svg-align"}
		}

		vlist = makeVList(vlistIndividual, 0, []vlistChild{
			{Elem: inner},
			{Elem: img, Shift: imgShift, WrapperClasses: classes},
		})
	}

	if cancel {
		vlist.Height = inner.box().Height
		vlist.Depth = inner.box().Depth
		if !singleChar {
			return makeSpan([]string{"mord", "cancel-lap"}, []HTMLNode{vlist}, options)
		}
	}

	return makeSpan([]string{"mord"}, []HTMLNode{vlist}, options)
}

func (b *htmlBuilder) buildXArrow(n *XArrow, options *Options) HTMLNode {
	style := options.Style
	axis := options.FontMetrics().AxisHeight

	upper := wrapFragment(b.buildGroup(n.Body, options.HavingStyle(style.Sup()), options), options)
	upper.box().AddClass("x-arrow-pad")

	var lower HTMLNode
	if n.Below != nil {
		lower = wrapFragment(b.buildGroup(n.Below, options.HavingStyle(style.Sub()), options), options)
		lower.box().AddClass("x-arrow-pad")
	}

	arrow := stretchySpan(n.Label, n.Body, options)
	arrowShift := -axis + 0.5*arrow.Height
	upperShift := -axis - 0.5*arrow.Height - 0.111
	if upper.box().Depth > 0.25 {
		upperShift -= upper.box().Depth
	}

	list := []vlistChild{
		{Elem: upper, Shift: upperShift},
		{Elem: arrow, Shift: arrowShift, WrapperClasses: []string{"svg-align"}},
	}

	if lower != nil {
		lowerShift := -axis + lower.box().Height + 0.5*arrow.Height + 0.111
		list = append(list, vlistChild{Elem: lower, Shift: lowerShift})
	}

	return makeSpan([]string{"mrel", "x-arrow"}, []HTMLNode{makeVList(vlistIndividual, 0, list)}, options)
}

// buildHorizBrace draws a brace over or under its base. With supsub set
// the script goes on the far side of the brace.
func (b *htmlBuilder) buildHorizBrace(n *HorizBrace, supsub *SupSub, options *Options) HTMLNode {
	style := options.Style

	var script HTMLNode
	if supsub != nil {
		if supsub.Sup != nil {
			script = b.buildGroup(supsub.Sup, options.HavingStyle(style.Sup()), options)
		} else {
			script = b.buildGroup(supsub.Sub, options.HavingStyle(style.Sub()), options)
		}
	}

	body := b.buildGroup(n.Base, options.HavingBaseStyle(StyleDisplay), nil)
	brace := vlistChild{Elem: stretchySpan(n.Label, n.Base, options), WrapperClasses: []string{"svg-align"}}
	class := "munder"
	if n.IsOver {
		class = "mover"
	}

	var vlist *Span
	if n.IsOver {
		vlist = makeVList(vlistFirstBaseline, 0, []vlistChild{vlistElem(body), vlistKern(0.1), brace})
	} else {
		bottom := body.box().Depth + 0.1 + brace.Elem.box().Height
		vlist = makeVList(vlistBottom, bottom, []vlistChild{brace, vlistKern(0.1), vlistElem(body)})
	}

	if script != nil {
		inner := makeSpan([]string{"mord", class}, []HTMLNode{vlist}, options)
		if n.IsOver {
			vlist = makeVList(vlistFirstBaseline, 0, []vlistChild{vlistElem(inner), vlistKern(0.2), vlistElem(script)})
		} else {
			bottom := inner.Depth + 0.2 + script.box().Height + script.box().Depth
			vlist = makeVList(vlistBottom, bottom, []vlistChild{vlistElem(script), vlistKern(0.2), vlistElem(inner)})
		}
	}

	return makeSpan([]string{"mord", class}, []HTMLNode{vlist}, options)
}

func (b *htmlBuilder) buildIncludegraphics(n *Includegraphics, options *Options) HTMLNode {
	height := b.size(n.Height, options)

	depth := 0.0
	if n.TotalHeight.Number > 0 {
		depth = b.size(n.TotalHeight, options) - height
	}

	width := 0.0
	if n.Width.Number > 0 {
		width = b.size(n.Width, options)
	}

	img := &Img{Src: n.Src, Alt: n.Alt}
	img.Style.Set("height", MakeEm(height+depth))
	if width > 0 {
		img.Style.Set("width", MakeEm(width))
	}

	if depth > 0 {
		img.Style.Set("verticalAlign", MakeEm(-depth))
	}

	img.Height, img.Depth = height, depth
	return img
}

// verbText shows spaces as open boxes for \verb*.
func verbText(n *Verb) string {
	if n.Star {
		return strings.ReplaceAll(n.Body, " ", "\u2423")
	}

	return strings.ReplaceAll(n.Body, " ", "\u00a0")
}

func (b *htmlBuilder) buildVerb(n *Verb, options *Options) HTMLNode {
	newOptions := options.HavingStyle(options.Style.Text())

	var body []HTMLNode
	for _, r := range verbText(n) {
		c := string(r)
		if c == "~" {
			c = "\\textasciitilde"
		}

		body = append(body, b.makeSymbol(c, "Typewriter-Regular", n.Mode, newOptions, "mord", "texttt"))
	}

	classes := append([]string{"mord", "text"}, newOptions.SizingClasses(options)...)
	return makeSpan(classes, tryCombineChars(body), newOptions)
}
