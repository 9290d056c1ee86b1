package katex

import (
	"strconv"
	"strings"
)

// stretchyCodePoints are the characters of stretchy elements in MathML.
var stretchyCodePoints = map[string]string{
	"widehat":             "^",
	"widecheck":           "ˇ",
	"widetilde":           "~",
	"utilde":              "~",
	"overleftarrow":       "←",
	"underleftarrow":      "←",
	"xleftarrow":          "←",
	"overrightarrow":      "→",
	"underrightarrow":     "→",
	"xrightarrow":         "→",
	"underbrace":          "⏟",
	"overbrace":           "⏞",
	"overleftrightarrow":  "↔",
	"underleftrightarrow": "↔",
	"xleftrightarrow":     "↔",
	"Overrightarrow":      "⇒",
	"xRightarrow":         "⇒",
	"overleftharpoon":     "↼",
	"overrightharpoon":    "⇀",
	"xLeftarrow":          "⇐",
	"xLeftrightarrow":     "⇔",
	"xhookleftarrow":      "↩",
	"xhookrightarrow":     "↪",
	"xmapsto":             "↦",
	"overlinesegment":     "⎯",
	"underlinesegment":    "⎯",
	"xlongequal":          "=",
}

// stretchyMathML is the <mo> of a stretchy label.
func stretchyMathML(label string) *MathNode {
	text := stretchyCodePoints[strings.TrimPrefix(label, "\\")]
	node := newMathNode("mo", newTextNode(text))
	node.Attributes.Set("stretchy", "true")
	return node
}

// stretchyImage describes a horizontally stretchy image made of one to
// three pieces.
type stretchyImage struct {
	paths         []string
	minWidth      float64
	viewBoxHeight float64
	align         string
}

var stretchyImages = map[string]stretchyImage{
	"overrightarrow":      {[]string{"rightarrow"}, 0.888, 522, "xMaxYMin"},
	"overleftarrow":       {[]string{"leftarrow"}, 0.888, 522, "xMinYMin"},
	"underrightarrow":     {[]string{"rightarrow"}, 0.888, 522, "xMaxYMin"},
	"underleftarrow":      {[]string{"leftarrow"}, 0.888, 522, "xMinYMin"},
	"xrightarrow":         {[]string{"rightarrow"}, 1.469, 522, "xMaxYMin"},
	"xleftarrow":          {[]string{"leftarrow"}, 1.469, 522, "xMinYMin"},
	"Overrightarrow":      {[]string{"doublerightarrow"}, 0.888, 560, "xMaxYMin"},
	"xRightarrow":         {[]string{"doublerightarrow"}, 1.526, 560, "xMaxYMin"},
	"xLeftarrow":          {[]string{"doubleleftarrow"}, 1.526, 560, "xMinYMin"},
	"overleftharpoon":     {[]string{"leftharpoon"}, 0.888, 522, "xMinYMin"},
	"overrightharpoon":    {[]string{"rightharpoon"}, 0.888, 522, "xMaxYMin"},
	"xlongequal":          {[]string{"longequal"}, 0.888, 334, "xMinYMin"},
	"xhookleftarrow":      {[]string{"leftarrow", "righthook"}, 1.08, 522, ""},
	"xhookrightarrow":     {[]string{"lefthook", "rightarrow"}, 1.08, 522, ""},
	"overlinesegment":     {[]string{"leftlinesegment", "rightlinesegment"}, 0.888, 522, ""},
	"underlinesegment":    {[]string{"leftlinesegment", "rightlinesegment"}, 0.888, 522, ""},
	"xmapsto":             {[]string{"leftmapsto", "rightarrow"}, 1.5, 522, ""},
	"overleftrightarrow":  {[]string{"leftarrow", "rightarrow"}, 0.888, 522, ""},
	"underleftrightarrow": {[]string{"leftarrow", "rightarrow"}, 0.888, 522, ""},
	"xleftrightarrow":     {[]string{"leftarrow", "rightarrow"}, 1.75, 522, ""},
	"xLeftrightarrow":     {[]string{"doubleleftarrow", "doublerightarrow"}, 1.75, 560, ""},
	"overbrace":           {[]string{"leftbrace", "midbrace", "rightbrace"}, 1.6, 548, ""},
	"underbrace":          {[]string{"leftbraceunder", "midbraceunder", "rightbraceunder"}, 1.6, 548, ""},
}

// accentVariant is one of the pre-drawn sizes of a wide accent.
type accentVariant struct {
	maxChars      int
	index         int
	viewBoxWidth  float64
	viewBoxHeight float64
	height        float64
}

// Wide accents come in four sizes, the first one which covers the number of
// characters under it wins. Longer bases stretch the largest one.
var (
	hatVariants = []accentVariant{
		{1, 1, 1062, 239, 0.24},
		{3, 2, 2364, 300, 0.3},
		{5, 3, 2364, 360, 0.3},
		{-1, 4, 2364, 420, 0.42},
	}
	tildeVariants = []accentVariant{
		{1, 1, 600, 260, 0.26},
		{3, 2, 1033, 286, 0.286},
		{5, 3, 2339, 306, 0.3},
		{-1, 4, 2340, 312, 0.34},
	}
)

func pickVariant(variants []accentVariant, chars int) accentVariant {
	for _, v := range variants {
		if v.maxChars >= chars {
			return v
		}
	}

	last := variants[len(variants)-1]
	buildTracer().Debugf("wide accent over %d characters stretches the largest variant", chars)
	return last
}

// groupLength counts the characters a wide accent has to cover.
func groupLength(n Node) int {
	if g, ok := n.(*OrdGroup); ok {
		return len(g.Body)
	}

	return 1
}

// stretchySpan builds the image of a stretchy accent, arrow or brace to be
// sized by CSS to the width of the content.
func stretchySpan(label string, base Node, options *Options) *Span {
	name := strings.TrimPrefix(label, "\\")

	var span *Span
	var minWidth, height float64

	switch name {
	case "widehat", "widecheck", "widetilde", "utilde":
		variants := tildeVariants
		if name == "widehat" || name == "widecheck" {
			variants = hatVariants
		}

		v := pickVariant(variants, groupLength(base))

		pathName := "tilde"
		if name == "widehat" || name == "widecheck" {
			pathName = name
		}

		path := svgPath(pathName + strconv.Itoa(v.index))

		svg := &SVG{
			Attributes: Attributes{
				{Name: "width", Value: "100%"},
				{Name: "height", Value: MakeEm(v.height)},
				{Name: "viewBox", Value: viewBox(v.viewBoxWidth, v.viewBoxHeight)},
				{Name: "preserveAspectRatio", Value: "none"},
			},
			Children: []SVGNode{path},
		}

		span = makeSvgSpan(nil, []HTMLNode{svg}, 0, 0)
		height = v.height
	default:
		img, ok := stretchyImages[name]
		if !ok {
			buildTracer().Errorf("no stretchy image for %s", label)
			img = stretchyImages["overrightarrow"]
		}

		height = img.viewBoxHeight / 1000
		minWidth = img.minWidth

		var classes, aligns []string
		switch len(img.paths) {
		case 1:
			classes, aligns = []string{"hide-tail"}, []string{img.align}
		case 2:
			classes, aligns = []string{"halfarrow-left", "halfarrow-right"}, []string{"xMinYMin", "xMaxYMin"}
		default:
			classes, aligns = []string{"brace-left", "brace-center", "brace-right"}, []string{"xMinYMin", "xMidYMin", "xMaxYMin"}
		}

		var pieces []HTMLNode
		for i, path := range img.paths {
			svg := &SVG{
				Attributes: Attributes{
					{Name: "width", Value: "400em"},
					{Name: "height", Value: MakeEm(height)},
					{Name: "viewBox", Value: viewBox(svgWidth, img.viewBoxHeight)},
					{Name: "preserveAspectRatio", Value: aligns[i] + " slice"},
				},
				Children: []SVGNode{svgPath(path)},
			}

			piece := makeSvgSpan([]string{classes[i]}, []HTMLNode{svg}, 0, 0)
			if len(img.paths) == 1 {
				span = piece
				break
			}

			piece.Style.Set("height", MakeEm(height))
			pieces = append(pieces, piece)
		}

		if span == nil {
			span = makeSpan([]string{"stretchy"}, pieces, options)
		}
	}

	span.Height = height
	span.Style.Set("height", MakeEm(height))
	if minWidth > 0 {
		span.Style.Set("minWidth", MakeEm(minWidth))
	}

	return span
}

// encloseSpan builds the frame or strike lines drawn over inner by \fbox,
// \colorbox and the \cancel family.
func encloseSpan(inner HTMLNode, label string, topPad, bottomPad float64, options *Options) *Span {
	b := inner.box()
	total := b.Height + b.Depth + topPad + bottomPad

	var img *Span
	if strings.Contains(label, "fbox") || strings.Contains(label, "color") {
		img = makeSpan([]string{"stretchy", label}, nil, options)
		if label == "fbox" && options.Color != "" {
			img.Style.Set("borderColor", options.GetColor())
		}
	} else {
		var lines []SVGNode
		if label == "bcancel" || label == "xcancel" {
			lines = append(lines, &LineNode{Attributes: Attributes{
				{Name: "x1", Value: "0"}, {Name: "y1", Value: "0"},
				{Name: "x2", Value: "100%"}, {Name: "y2", Value: "100%"},
				{Name: "stroke-width", Value: "0.046em"},
			}})
		}

		if label == "cancel" || label == "xcancel" {
			lines = append(lines, &LineNode{Attributes: Attributes{
				{Name: "x1", Value: "0"}, {Name: "y1", Value: "100%"},
				{Name: "x2", Value: "100%"}, {Name: "y2", Value: "0"},
				{Name: "stroke-width", Value: "0.046em"},
			}})
		}

		svg := &SVG{
			Attributes: Attributes{{Name: "width", Value: "100%"}, {Name: "height", Value: MakeEm(total)}},
			Children:   lines,
		}

		img = makeSvgSpan(nil, []HTMLNode{svg}, 0, 0)
	}

	img.Height = total
	img.Style.Set("height", MakeEm(total))
	return img
}

// vecSpan is the fixed size arrow of \vec.
func vecSpan() *Span {
	const width, height = 0.471, 0.714

	svg := &SVG{
		Attributes: Attributes{
			{Name: "width", Value: MakeEm(width)},
			{Name: "height", Value: MakeEm(height)},
			{Name: "style", Value: "width:" + MakeEm(width)},
			{Name: "viewBox", Value: viewBox(471, 714)},
			{Name: "preserveAspectRatio", Value: "xMinYMin"},
		},
		Children: []SVGNode{svgPath("vec")},
	}

	span := makeSvgSpan([]string{"overlay"}, []HTMLNode{svg}, height, 0)
	span.Style.Set("height", MakeEm(height))
	span.Style.Set("width", MakeEm(width))
	return span
}
