package katex

import "strconv"

// groupKind tells buildExpression whether the list is a group of its own,
// only real groups get inter-atom spacing.
type groupKind int

const (
	groupPartial groupKind = iota
	groupReal
	groupRoot
)

// binLeftCancellers turn a following bin into an ord, so do binRightCancellers for a preceding one.
var (
	binLeftCancellers  = map[string]bool{"leftmost": true, "mbin": true, "mopen": true, "mrel": true, "mop": true, "mpunct": true}
	binRightCancellers = map[string]bool{"rightmost": true, "mrel": true, "mclose": true, "mpunct": true}
)

// middleDelim remembers a \middle so that \left...\right can size it.
type middleDelim struct {
	delim   string
	options *Options
}

func newHTMLBuilder(ctx *Context, settings *Settings) *htmlBuilder {
	return &htmlBuilder{ctx: ctx, settings: settings, middles: map[HTMLNode]middleDelim{}}
}

// fail keeps the first error of the build.
func (b *htmlBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// size converts a measurement to ems, a bad unit fails the build.
func (b *htmlBuilder) size(m Measurement, options *Options) float64 {
	size, err := CalculateSize(m, options)
	if err != nil {
		b.fail(&ParseError{Kind: ErrInvalidArgument, Msg: err.Error()})
		return 0
	}

	return size
}

func firstClass(n HTMLNode) string {
	if classes := n.box().Classes; len(classes) > 0 {
		return classes[0]
	}

	return ""
}

func setFirstClass(n HTMLNode, class string) {
	b := n.box()
	if len(b.Classes) == 0 {
		b.Classes = []string{class}
		return
	}

	b.Classes[0] = class
}

// atomOf is the atom type of a layout node by its first class.
func atomOf(n HTMLNode) AtomType {
	if n == nil {
		return AtomNone
	}

	return atomFromClass(firstClass(n))
}

// partialChildren returns the children of nodes which don't form a group of
// their own: spacing looks through them.
func partialChildren(n HTMLNode) *[]HTMLNode {
	switch n := n.(type) {
	case *Fragment:
		return &n.Children
	case *Anchor:
		return &n.Children
	case *Span:
		if n.HasClass("enclosing") {
			return &n.Children
		}
	}

	return nil
}

// outermost finds the node at the given side, looking into partial groups.
func outermost(n HTMLNode, right bool) HTMLNode {
	children := partialChildren(n)
	if children == nil || len(*children) == 0 {
		return n
	}

	if right {
		return outermost((*children)[len(*children)-1], true)
	}

	return outermost((*children)[0], false)
}

// traversal is the state of traverseNonSpaceNodes: the last non-space node
// and how to insert something right after it.
type traversal struct {
	prev   HTMLNode
	insert func(HTMLNode)
}

// traverseNonSpaceNodes calls visit for each pair of adjacent non-space
// nodes, descending into partial groups. A node returned by visit is
// inserted between the two.
func traverseNonSpaceNodes(nodes *[]HTMLNode, visit func(node, prev HTMLNode) HTMLNode, t *traversal, next HTMLNode, root bool) {
	if next != nil {
		*nodes = append(*nodes, next)
	}

	i := 0
	for ; i < len(*nodes); i++ {
		node := (*nodes)[i]
		if children := partialChildren(node); children != nil {
			traverseNonSpaceNodes(children, visit, t, nil, root)
			continue
		}

		nonspace := !node.box().HasClass("mspace")
		if nonspace {
			if result := visit(node, t.prev); result != nil {
				if t.insert != nil {
					t.insert(result)
				} else {
					*nodes = append([]HTMLNode{result}, *nodes...)
					i++
				}
			}

			t.prev = node
		} else if root && node.box().HasClass("newline") {
			t.prev = makeSpan([]string{"leftmost"}, nil, nil)
		}

		index := i
		t.insert = func(n HTMLNode) {
			list := append((*nodes)[:index+1:index+1], n)
			*nodes = append(list, (*nodes)[index+1:]...)
			i++
		}
	}

	if next != nil {
		*nodes = (*nodes)[:len(*nodes)-1]
	}
}

func cssEqual(a, b CSS) bool {
	if len(a) != len(b) {
		return false
	}

	for _, p := range a {
		if b.Get(p.Name) != p.Value {
			return false
		}
	}

	return true
}

func canCombine(prev, next *Glyph) bool {
	if prev.className() != next.className() || prev.Skew != next.Skew || prev.MaxFontSize != next.MaxFontSize {
		return false
	}

	// single ords and bins stay separate
	if len(prev.Classes) == 1 && (prev.Classes[0] == "mbin" || prev.Classes[0] == "mord") {
		return false
	}

	return cssEqual(prev.Style, next.Style)
}

// tryCombineChars merges adjacent glyphs with the same look into one.
func tryCombineChars(chars []HTMLNode) []HTMLNode {
	for i := 0; i < len(chars)-1; i++ {
		prev, ok1 := chars[i].(*Glyph)
		next, ok2 := chars[i+1].(*Glyph)
		if !ok1 || !ok2 || !canCombine(prev, next) {
			continue
		}

		prev.Text += next.Text
		prev.Height = max(prev.Height, next.Height)
		prev.Depth = max(prev.Depth, next.Depth)
		prev.Italic = next.Italic
		chars = append(chars[:i+1], chars[i+2:]...)
		i--
	}

	return chars
}

// buildExpression builds a list of nodes. In real groups binary operators
// without operands become ords and spacing is put between atoms.
// surrounding names the atoms assumed on both sides of the list.
func (b *htmlBuilder) buildExpression(expression []Node, options *Options, kind groupKind, surrounding ...string) []HTMLNode {
	var groups []HTMLNode
	for _, n := range expression {
		out := b.buildGroup(n, options, nil)
		if f, ok := out.(*Fragment); ok {
			groups = append(groups, f.Children...)
		} else {
			groups = append(groups, out)
		}
	}

	groups = tryCombineChars(groups)
	if kind == groupPartial {
		return groups
	}

	glueOptions := options
	if len(expression) == 1 {
		switch n := expression[0].(type) {
		case *Sizing:
			glueOptions = options.HavingSize(n.Size)
		case *Styling:
			glueOptions = options.HavingStyle(styleNames[n.Style])
		}
	}

	left, right := "leftmost", "rightmost"
	if len(surrounding) == 2 {
		left, right = surrounding[0], surrounding[1]
	}

	dummyPrev := makeSpan([]string{left}, nil, options)
	dummyNext := makeSpan([]string{right}, nil, options)
	root := kind == groupRoot

	traverseNonSpaceNodes(&groups, func(node, prev HTMLNode) HTMLNode {
		prevType, typ := firstClass(prev), firstClass(node)
		if prevType == "mbin" && binRightCancellers[typ] {
			setFirstClass(prev, "mord")
		} else if typ == "mbin" && binLeftCancellers[prevType] {
			setFirstClass(node, "mord")
		}

		return nil
	}, &traversal{prev: dummyPrev}, dummyNext, root)

	traverseNonSpaceNodes(&groups, func(node, prev HTMLNode) HTMLNode {
		prevType, typ := atomOf(prev), atomOf(node)
		if prevType == AtomNone || typ == AtomNone {
			return nil
		}

		space := AtomSpacing(prevType, typ, node.box().HasClass("mtight"))
		if space == 0 {
			return nil
		}

		glue, err := makeGlue(Measurement{Number: float64(space), Unit: "mu"}, glueOptions)
		if err != nil {
			b.fail(err)
			return nil
		}

		return glue
	}, &traversal{prev: dummyPrev}, dummyNext, root)

	return groups
}

// buildGroup builds a single node. When the options changed size relative
// to base, the result is wrapped into a span switching the font size.
func (b *htmlBuilder) buildGroup(n Node, options, base *Options) HTMLNode {
	if n == nil {
		return makeSpan(nil, nil, nil)
	}

	out := b.build(n, options)
	if base != nil && options.Size != base.Size {
		span := makeSpan(options.SizingClasses(base), []HTMLNode{out}, options)
		multiplier := options.SizeMultiplier() / base.SizeMultiplier()
		span.Height *= multiplier
		span.Depth *= multiplier
		return span
	}

	return out
}

// buildUnbreakable puts nodes into a base span with a strut, the unit in
// which a formula may wrap.
func buildUnbreakable(children []HTMLNode, options *Options) *Span {
	body := makeSpan([]string{"base"}, children, options)

	strut := makeSpan([]string{"strut"}, nil, nil)
	strut.Style.Set("height", MakeEm(body.Height+body.Depth))
	if body.Depth != 0 {
		strut.Style.Set("verticalAlign", MakeEm(-body.Depth))
	}

	body.Children = append([]HTMLNode{strut}, body.Children...)
	return body
}

// buildHTML builds the katex-html span. The formula is split after
// relations and binary operators so browsers can break lines there.
func (b *htmlBuilder) buildHTML(tree []Node, options *Options) (*Span, error) {
	var tag []Node
	if len(tree) == 1 {
		if t, ok := tree[0].(*Tag); ok {
			tree, tag = t.Body, t.Tag
		}
	}

	expression := b.buildExpression(tree, options, groupRoot)

	var children, parts []HTMLNode
	for i := 0; i < len(expression); i++ {
		parts = append(parts, expression[i])

		node := expression[i].box()
		switch {
		case node.HasClass("mbin") || node.HasClass("mrel") || node.HasClass("allowbreak"):
			nobreak := false
			for i < len(expression)-1 && expression[i+1].box().HasClass("mspace") && !expression[i+1].box().HasClass("newline") {
				i++
				parts = append(parts, expression[i])
				if expression[i].box().HasClass("nobreak") {
					nobreak = true
				}
			}

			if !nobreak {
				children = append(children, buildUnbreakable(parts, options))
				parts = nil
			}
		case node.HasClass("newline"):
			parts = parts[:len(parts)-1]
			if len(parts) > 0 {
				children = append(children, buildUnbreakable(parts, options))
				parts = nil
			}

			children = append(children, expression[i])
		}
	}

	if len(parts) > 0 {
		children = append(children, buildUnbreakable(parts, options))
	}

	var tagChild *Span
	if tag != nil {
		tagChild = buildUnbreakable(b.buildExpression(tag, options, groupReal), options)
		tagChild.Classes = []string{"tag"}
		children = append(children, tagChild)
	}

	html := makeSpan([]string{"katex-html"}, children, nil)
	html.Attributes.Set("aria-hidden", "true")

	if tagChild != nil {
		strut := tagChild.Children[0].box()
		strut.Style.Set("height", MakeEm(html.Height+html.Depth))
		if html.Depth != 0 {
			strut.Style.Set("verticalAlign", MakeEm(-html.Depth))
		}
	}

	if b.err != nil {
		return nil, b.err
	}

	return html, nil
}

// build dispatches on the node type.
func (b *htmlBuilder) build(n Node, options *Options) HTMLNode {
	switch n := n.(type) {
	case *OrdGroup:
		if n.Semisimple {
			return makeFragment(b.buildExpression(n.Body, options, groupPartial)...)
		}

		return makeSpan([]string{"mord"}, b.buildExpression(n.Body, options, groupReal), options)
	case *MathOrd:
		return b.makeOrd(n.Text, n.Mode, options, false)
	case *TextOrd:
		return b.makeOrd(n.Text, n.Mode, options, true)
	case *AccentToken:
		return b.makeOrd(n.Text, n.Mode, options, true)
	case *OpToken:
		return b.mathsym(n.Text, n.Mode, options, "mop")
	case *Atom:
		return b.mathsym(n.Text, n.Mode, options, n.Family.Class())
	case *Spacing:
		return b.buildSpacing(n, options)
	case *SupSub:
		return b.buildSupSub(n, options)
	case *GenFrac:
		return b.buildGenFrac(n, options)
	case *Sqrt:
		return b.buildSqrt(n, options)
	case *Accent:
		return b.buildAccent(n, nil, options)
	case *AccentUnder:
		return b.buildAccentUnder(n, options)
	case *Overline:
		return b.buildOverline(n, options)
	case *Underline:
		return b.buildUnderline(n, options)
	case *Sizing:
		return b.sizingGroup(n.Body, options.HavingSize(n.Size), options)
	case *Styling:
		return b.sizingGroup(n.Body, options.HavingStyle(styleNames[n.Style]).WithFont(""), options)
	case *Color:
		return makeFragment(b.buildExpression(n.Body, options.WithColor(n.Color), groupPartial)...)
	case *Font:
		return b.buildGroup(n.Body, options.WithFont(n.Font), nil)
	case *Text:
		newOptions := textOptions(n.Font, options)
		return makeSpan([]string{"mord", "text"}, b.buildExpression(n.Body, newOptions, groupReal), newOptions)
	case *Kern:
		glue, err := makeGlue(n.Dimension, options)
		if err != nil {
			b.fail(&ParseError{Kind: ErrInvalidArgument, Msg: err.Error()})
			return makeSpan([]string{"mspace"}, nil, options)
		}

		return glue
	case *LeftRight:
		return b.buildLeftRight(n, options)
	case *Middle:
		return b.buildMiddle(n, options)
	case *DelimSizing:
		return b.buildDelimSizing(n, options)
	case *Op:
		return b.buildOp(n, nil, options)
	case *OperatorName:
		return b.buildOperatorName(n, nil, options)
	case *Array:
		return b.buildArray(n, options)
	case *Rule:
		return b.buildRule(n, options)
	case *Raisebox:
		body := b.buildGroup(n.Body, options, nil)
		return makeVList(vlistShifted, -b.size(n.Dy, options), []vlistChild{vlistElem(body)})
	case *Phantom:
		return makeFragment(b.buildExpression(n.Body, options.WithPhantom(), groupPartial)...)
	case *HPhantom:
		return b.buildHPhantom(n, options)
	case *VPhantom:
		inner := makeSpan([]string{"inner"}, []HTMLNode{b.buildGroup(n.Body, options.WithPhantom(), nil)}, nil)
		fix := makeSpan([]string{"fix"}, nil, nil)
		return makeSpan([]string{"mord", "rlap"}, []HTMLNode{inner, fix}, options)
	case *Lap:
		return b.buildLap(n, options)
	case *Enclose:
		return b.buildEnclose(n, options)
	case *Href:
		return makeAnchor(n.Href, nil, b.buildExpression(n.Body, options, groupPartial), options)
	case *Includegraphics:
		return b.buildIncludegraphics(n, options)
	case *Verb:
		return b.buildVerb(n, options)
	case *MClass:
		return makeSpan([]string{n.Class.Class()}, b.buildExpression(n.Body, options, groupReal), options)
	case *XArrow:
		return b.buildXArrow(n, options)
	case *HorizBrace:
		return b.buildHorizBrace(n, nil, options)
	case *Tag:
		return makeFragment(b.buildExpression(n.Body, options, groupPartial)...)
	case *Cr:
		span := makeSpan([]string{"mspace"}, nil, options)
		if n.NewLine {
			span.AddClass("newline")
			if n.Size != nil {
				span.Style.Set("marginTop", MakeEm(b.size(*n.Size, options)))
			}
		}

		return span
	case *Unsupported:
		return b.build(unsupportedPlaceholder(n, b.settings.ErrorColor), options)
	default:
		buildTracer().Errorf("no layout for %s node", n.Type())
		return makeSpan(nil, nil, nil)
	}
}

// unsupportedPlaceholder shows the name of a command which can't be
// rendered in the error color.
func unsupportedPlaceholder(n *Unsupported, color string) Node {
	var chars []Node
	for _, r := range n.Command {
		chars = append(chars, finish(&TextOrd{Meta: Meta{Mode: ModeText, Loc: n.Loc}, Text: string(r)}))
	}

	text := finish(&Text{Meta: n.Meta, Body: chars})
	return finish(&Color{Meta: n.Meta, Color: color, Body: []Node{text}})
}

// sizingGroup builds nodes at a new size, each node switches size on its own.
func (b *htmlBuilder) sizingGroup(body []Node, options, base *Options) HTMLNode {
	inner := b.buildExpression(body, options, groupPartial)
	multiplier := options.SizeMultiplier() / base.SizeMultiplier()

	for _, n := range inner {
		box := n.box()
		pos := -1
		for i, c := range box.Classes {
			if c == "sizing" {
				pos = i
				break
			}
		}

		if pos < 0 {
			box.AddClass(options.SizingClasses(base)...)
		} else if pos+1 < len(box.Classes) && box.Classes[pos+1] == "reset-size"+strconv.Itoa(options.Size) {
			box.Classes[pos+1] = "reset-size" + strconv.Itoa(base.Size)
		}

		box.Height *= multiplier
		box.Depth *= multiplier
	}

	return makeFragment(inner...)
}

var (
	textFontFamilies = map[string]string{"\\textrm": "textrm", "\\textsf": "textsf", "\\texttt": "texttt", "\\textnormal": "textrm"}
	textFontWeights  = map[string]string{"\\textbf": "textbf", "\\textmd": "textmd"}
	textFontShapes   = map[string]string{"\\textit": "textit", "\\textup": "textup"}
)

// textOptions applies the font of a \text command.
func textOptions(font string, options *Options) *Options {
	if family, ok := textFontFamilies[font]; ok {
		return options.WithTextFontFamily(family)
	}

	if weight, ok := textFontWeights[font]; ok {
		return options.WithTextFontWeight(weight)
	}

	switch font {
	case "":
		return options
	case "\\emph":
		if options.FontShape == "textit" {
			return options.WithTextFontShape("textup")
		}

		return options.WithTextFontShape("textit")
	}

	return options.WithTextFontShape(textFontShapes[font])
}

// regularSpaces render as a space character, nobreak ones may not wrap.
var regularSpaces = map[string]string{
	" ":              "",
	"\\ ":            "",
	"~":              "nobreak",
	"\\space":        "",
	"\\nobreakspace": "nobreak",
}

// breakSpaces have no width, only a line breaking hint.
var breakSpaces = map[string]string{"\\nobreak": "nobreak", "\\allowbreak": "allowbreak"}

func (b *htmlBuilder) buildSpacing(n *Spacing, options *Options) HTMLNode {
	if class, ok := breakSpaces[n.Text]; ok {
		return makeSpan([]string{"mspace", class}, nil, options)
	}

	class, ok := regularSpaces[n.Text]
	if !ok {
		b.fail(&ParseError{Kind: ErrUnknownSymbol, Msg: "Unknown type of space \"" + n.Text + "\""})
		return makeSpan([]string{"mspace"}, nil, options)
	}

	if n.Mode == ModeText {
		ord := b.makeOrd(n.Text, n.Mode, options, true)
		ord.box().AddClass(class)
		return ord
	}

	return makeSpan([]string{"mspace", class}, []HTMLNode{b.mathsym(n.Text, n.Mode, options)}, options)
}
