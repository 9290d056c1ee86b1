package katex_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/eolymp/go-katex"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

func render(t *testing.T, expr string, settings katex.Settings) *html.Node {
	t.Helper()

	out, err := newContext(t).RenderToString(expr, settings)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := htmlquery.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}

	return doc
}

func texts(nodes []*html.Node) (out []string) {
	for _, n := range nodes {
		out = append(out, htmlquery.InnerText(n))
	}

	return
}

// hasClass builds an xpath predicate matching one class of a class list.
func hasClass(class string) string {
	return "contains(concat(' ',@class,' '),' " + class + " ')"
}

func TestRender_Superscript(t *testing.T) {
	doc := render(t, "x^2", katex.DefaultSettings())

	base := htmlquery.FindOne(doc, "//span[@class='mord'][span[@class='msupsub']]/span[@class='mord mathnormal']")
	if base == nil {
		t.Fatal("Superscript base is missing")
	}

	if got := htmlquery.InnerText(base); got != "x" {
		t.Errorf("Base does not match: want %q, got %q", "x", got)
	}

	msup := htmlquery.Find(doc, "//*[local-name()='msup']/*")
	if got, want := texts(msup), []string{"x", "2"}; !cmp.Equal(want, got) {
		t.Errorf("MathML superscript does not match:\n%s\n", cmp.Diff(want, got))
	}

	if n := htmlquery.FindOne(doc, "//*[local-name()='msup']/*[local-name()='mn']"); n == nil {
		t.Error("Exponent must be a number")
	}

	hidden := htmlquery.FindOne(doc, "//span[@class='katex-html']")
	if hidden == nil || htmlquery.SelectAttr(hidden, "aria-hidden") != "true" {
		t.Error("HTML tree must be hidden from assistive technology")
	}

	annotation := htmlquery.FindOne(doc, "//*[local-name()='annotation']")
	if annotation == nil || htmlquery.InnerText(annotation) != "x^2" {
		t.Error("Source annotation is missing")
	}
}

func TestRender_DisplayFraction(t *testing.T) {
	settings := katex.DefaultSettings()
	settings.DisplayMode = true

	doc := render(t, "\\frac{1}{2}", settings)

	if htmlquery.FindOne(doc, "//span[@class='katex-display']/span[@class='katex']") == nil {
		t.Error("Display math must be wrapped in katex-display")
	}

	line := htmlquery.FindOne(doc, "//span["+hasClass("frac-line")+"]")
	if line == nil {
		t.Fatal("Fraction line is missing")
	}

	if style := htmlquery.SelectAttr(line, "style"); !strings.Contains(style, "border-bottom-width:0.04em") {
		t.Errorf("Fraction line has unexpected style %q", style)
	}

	mfrac := htmlquery.Find(doc, "//*[local-name()='mfrac']/*[local-name()='mn']")
	if got, want := texts(mfrac), []string{"1", "2"}; !cmp.Equal(want, got) {
		t.Errorf("MathML fraction does not match:\n%s\n", cmp.Diff(want, got))
	}

	math := htmlquery.FindOne(doc, "//*[local-name()='math']")
	if math == nil || htmlquery.SelectAttr(math, "display") != "block" {
		t.Error("MathML root must be in block display")
	}
}

func TestRender_DisplayClasses(t *testing.T) {
	tt := []struct {
		name  string
		leqno bool
		fleqn bool
		class string
	}{
		{name: "plain", class: "katex-display"},
		{name: "leqno", leqno: true, class: "katex-display leqno"},
		{name: "fleqn", fleqn: true, class: "katex-display fleqn"},
		{name: "both", leqno: true, fleqn: true, class: "katex-display leqno fleqn"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			settings := katex.DefaultSettings()
			settings.DisplayMode = true
			settings.Leqno = tc.leqno
			settings.Fleqn = tc.fleqn

			node, err := newContext(t).RenderToDOM("x", settings)
			if err != nil {
				t.Fatal(err)
			}

			if got := strings.Join(node.Classes, " "); got != tc.class {
				t.Errorf("Classes do not match: want %q, got %q", tc.class, got)
			}
		})
	}
}

func TestRender_Output(t *testing.T) {
	tt := []struct {
		name   string
		output katex.OutputKind
		html   bool
		mathml bool
	}{
		{name: "html and mathml", output: katex.OutputHTMLAndMathML, html: true, mathml: true},
		{name: "html", output: katex.OutputHTML, html: true},
		{name: "mathml", output: katex.OutputMathML, mathml: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			settings := katex.DefaultSettings()
			settings.Output = tc.output

			doc := render(t, "a+b", settings)

			if got := htmlquery.FindOne(doc, "//span[@class='katex-html']") != nil; got != tc.html {
				t.Errorf("HTML tree presence: want %v, got %v", tc.html, got)
			}

			if got := htmlquery.FindOne(doc, "//*[local-name()='math']") != nil; got != tc.mathml {
				t.Errorf("MathML tree presence: want %v, got %v", tc.mathml, got)
			}

			if htmlquery.FindOne(doc, "//span[@class='katex']") == nil {
				t.Error("Root span is missing")
			}
		})
	}
}

func TestRender_UnknownCommand(t *testing.T) {
	ctx := newContext(t)

	settings := katex.DefaultSettings()
	settings.Strict = katex.StrictError

	if _, err := ctx.RenderToString("\\unknowncommand", settings); !errors.Is(err, katex.ErrUnknownSymbol) {
		t.Errorf("Expected unknown symbol error, got %v", err)
	}

	settings.Strict = katex.StrictWarn
	settings.ThrowOnError = false

	doc := render(t, "\\unknowncommand", settings)

	text := htmlquery.FindOne(doc, "//span["+hasClass("text")+"]")
	if text == nil {
		t.Fatal("Placeholder text is missing")
	}

	if got := htmlquery.InnerText(text); got != "\\unknowncommand" {
		t.Errorf("Placeholder does not match: want %q, got %q", "\\unknowncommand", got)
	}

	if htmlquery.FindOne(doc, "//span[contains(@style,'color:#cc0000')]") == nil {
		t.Error("Placeholder must be shown in the error color")
	}

	if htmlquery.FindOne(doc, "//*[local-name()='mstyle'][@mathcolor='#cc0000']") == nil {
		t.Error("MathML placeholder must be shown in the error color")
	}
}

func TestRender_AdjacentGroups(t *testing.T) {
	doc := render(t, "{a}{b}", katex.DefaultSettings())

	groups := htmlquery.Find(doc, "//span[@class='base']/span[@class='mord']")
	if got, want := texts(groups), []string{"a", "b"}; !cmp.Equal(want, got) {
		t.Errorf("Groups do not match:\n%s\n", cmp.Diff(want, got))
	}

	if n := htmlquery.FindOne(doc, "//span["+hasClass("mspace")+"]"); n != nil {
		t.Error("No space is expected between two ordinary groups")
	}
}

func TestRender_MacroExpansionLimit(t *testing.T) {
	tt := []struct {
		name      string
		input     string
		macros    map[string]string
		maxExpand int
	}{
		{name: "recursive macro", input: "\\foo", macros: map[string]string{"\\foo": "\\foo\\foo"}, maxExpand: 1000},
		{name: "argument doubling", input: "\\def\\a#1{\\a{#1#1}}\\a x", maxExpand: 1000},
		{name: "argument doubling with low limit", input: "\\def\\a#1{\\a{#1#1}}\\a x", maxExpand: 40},
		{name: "argument doubling from settings", input: "\\dup{xy}", macros: map[string]string{"\\dup": "\\dup{#1#1}"}, maxExpand: 1000},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			settings := katex.DefaultSettings()
			settings.Macros = tc.macros
			settings.MaxExpand = tc.maxExpand

			_, err := newContext(t).RenderToString(tc.input, settings)
			if !errors.Is(err, katex.ErrExpansionLimit) {
				t.Fatalf("Expected expansion limit error, got %v", err)
			}

			var macroErr *katex.MacroError
			if !errors.As(err, &macroErr) {
				t.Errorf("Expected *MacroError, got %T", err)
			}
		})
	}
}

func TestRender_ErrorFallback(t *testing.T) {
	tt := []struct {
		name  string
		input string
		title string
	}{
		{
			name:  "parse error",
			input: "x^1^2",
			title: "ParseError: KaTeX parse error: Double superscript at position 4: x^1^\u03322",
		},
		{
			name:  "lex error",
			input: "a\\",
			title: "ParseError: KaTeX parse error: Unexpected character: '\\' at position 2: a\\\u0332",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			settings := katex.DefaultSettings()
			settings.ThrowOnError = false

			doc := render(t, tc.input, settings)

			node := htmlquery.FindOne(doc, "//span[@class='katex-error']")
			if node == nil {
				t.Fatal("Error span is missing")
			}

			if got := htmlquery.InnerText(node); got != tc.input {
				t.Errorf("Source does not match: want %q, got %q", tc.input, got)
			}

			if got := htmlquery.SelectAttr(node, "title"); got != tc.title {
				t.Errorf("Title does not match:\n%s\n", cmp.Diff(tc.title, got))
			}

			if got := htmlquery.SelectAttr(node, "style"); got != "color:#cc0000" {
				t.Errorf("Style does not match: want %q, got %q", "color:#cc0000", got)
			}
		})
	}
}

func TestRender_ErrorFallbackMacro(t *testing.T) {
	settings := katex.DefaultSettings()
	settings.ThrowOnError = false
	settings.ErrorColor = "#00ff00"
	settings.Macros = map[string]string{"\\foo": "\\foo"}

	doc := render(t, "\\foo", settings)

	node := htmlquery.FindOne(doc, "//span[@class='katex-error']")
	if node == nil {
		t.Fatal("Error span is missing")
	}

	if got := htmlquery.SelectAttr(node, "style"); got != "color:#00ff00" {
		t.Errorf("Style does not match: want %q, got %q", "color:#00ff00", got)
	}

	if got := htmlquery.SelectAttr(node, "title"); !strings.HasPrefix(got, "ParseError: KaTeX parse error: ") {
		t.Errorf("Unexpected title %q", got)
	}
}

func TestRender_InvalidSettings(t *testing.T) {
	settings := katex.DefaultSettings()
	settings.ThrowOnError = false
	settings.ErrorColor = "not a color"

	if _, err := newContext(t).RenderToString("x", settings); err == nil {
		t.Error("Expected settings to be rejected")
	}
}

func TestRender_Idempotent(t *testing.T) {
	ctx := newContext(t)
	settings := katex.DefaultSettings()

	first, err := ctx.RenderToString("\\sqrt{x^2+y^2}", settings)
	if err != nil {
		t.Fatal(err)
	}

	second, err := ctx.RenderToString("\\sqrt{x^2+y^2}", settings)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Errorf("Output differs between renders:\n%s\n", cmp.Diff(first, second))
	}
}

func TestRender_GlobalMacrosAreLocalToRender(t *testing.T) {
	ctx := newContext(t)
	settings := katex.DefaultSettings()
	settings.Strict = katex.StrictIgnore

	if _, err := ctx.RenderToString("\\gdef\\leak{x}", settings); err != nil {
		t.Fatal(err)
	}

	if _, err := ctx.RenderToString("\\leak", settings); !errors.Is(err, katex.ErrUnknownSymbol) {
		t.Errorf("Expected macro to be forgotten, got %v", err)
	}
}

func TestRender_Concurrent(t *testing.T) {
	ctx := newContext(t)
	settings := katex.DefaultSettings()

	inputs := []string{
		"x^2",
		"\\frac{a}{b}",
		"\\sum_{i=1}^n i",
		"\\left(\\begin{matrix}1&0\\\\0&1\\end{matrix}\\right)",
		"\\text{if } x \\ge 0",
	}

	want := make([]string, len(inputs))
	for i, in := range inputs {
		out, err := ctx.RenderToString(in, settings)
		if err != nil {
			t.Fatal(err)
		}

		want[i] = out
	}

	got := make([][]string, 8)

	var wg sync.WaitGroup
	for g := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()

			got[g] = make([]string, len(inputs))
			for i, in := range inputs {
				got[g][i], _ = ctx.RenderToString(in, settings)
			}
		}()
	}

	wg.Wait()

	for g := range got {
		if !cmp.Equal(want, got[g]) {
			t.Errorf("Concurrent render %d differs:\n%s\n", g, cmp.Diff(want, got[g]))
		}
	}
}

func TestRender_SvgOutlines(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		path   string
		prefix string
	}{
		{name: "square root", input: "\\sqrt{x}", path: "//span[" + hasClass("hide-tail") + "]//*[local-name()='path']", prefix: "M95,702\n"},
		{name: "arrow", input: "\\xrightarrow{abc}", path: "//*[local-name()='path']", prefix: "M0 241v40h399891c-47.3"},
		{name: "wide hat", input: "\\widehat{AB}", path: "//*[local-name()='path']", prefix: "M1181 0h2l1171 176"},
		{name: "wide check", input: "\\widecheck{x}", path: "//*[local-name()='path']", prefix: "M529,159h5"},
		{name: "wide tilde", input: "\\widetilde{abcdef}", path: "//*[local-name()='path']", prefix: "M786 58C457"},
		{name: "brace", input: "\\overbrace{x+y}", path: "(//*[local-name()='path'])[1]", prefix: "M6 548l-6-6"},
		{name: "vector", input: "\\vec{x}", path: "//*[local-name()='path']", prefix: "M377 20c0-5.333"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			doc := render(t, tc.input, katex.DefaultSettings())

			path := htmlquery.FindOne(doc, tc.path)
			if path == nil {
				t.Fatal("Outline is missing")
			}

			if d := htmlquery.SelectAttr(path, "d"); !strings.HasPrefix(d, tc.prefix) {
				t.Errorf("Outline must start with %q, got %q", tc.prefix, d)
			}
		})
	}
}

func TestRender_AtomSpacing(t *testing.T) {
	tt := []struct {
		name    string
		input   string
		classes []string
		margins []string
	}{
		{
			name:    "binary operator",
			input:   "a+b",
			classes: []string{"strut", "mord mathnormal", "mspace", "mbin", "mspace", "strut", "mord mathnormal"},
			margins: []string{"margin-right:0.2222em;", "margin-right:0.2222em;"},
		},
		{
			name:    "relation",
			input:   "a=b",
			classes: []string{"strut", "mord mathnormal", "mspace", "mrel", "mspace", "strut", "mord mathnormal"},
			margins: []string{"margin-right:0.2778em;", "margin-right:0.2778em;"},
		},
		{
			name:    "punctuation",
			input:   "a,b",
			classes: []string{"strut", "mord mathnormal", "mpunct", "mspace", "mord mathnormal"},
			margins: []string{"margin-right:0.1667em;"},
		},
		{
			name:    "leading binary operator becomes ordinary",
			input:   "-a",
			classes: []string{"strut", "mord", "mord mathnormal"},
		},
		{
			name:    "trailing binary operator becomes ordinary",
			input:   "a+",
			classes: []string{"strut", "mord mathnormal", "mord"},
		},
		{
			name:    "no binary spacing in scripts",
			input:   "x^{a+b}",
			classes: []string{"strut", "mord"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			doc := render(t, tc.input, katex.DefaultSettings())

			var classes []string
			for _, n := range htmlquery.Find(doc, "//span[@class='base']/span") {
				classes = append(classes, htmlquery.SelectAttr(n, "class"))
			}

			if !cmp.Equal(tc.classes, classes) {
				t.Errorf("Atoms do not match:\n%s\n", cmp.Diff(tc.classes, classes))
			}

			var margins []string
			for _, n := range htmlquery.Find(doc, "//span["+hasClass("mspace")+"]") {
				margins = append(margins, htmlquery.SelectAttr(n, "style"))
			}

			if !cmp.Equal(tc.margins, margins) {
				t.Errorf("Spaces do not match:\n%s\n", cmp.Diff(tc.margins, margins))
			}
		})
	}
}

func TestRender_LeftRightSizing(t *testing.T) {
	tt := []struct {
		name  string
		input string
		class string
		inner string
	}{
		{name: "small", input: "\\left( x \\right)"},
		{name: "large", input: "\\left(\\frac{1}{2}\\right)", class: "delimsizing size1"},
		{name: "stacked", input: "\\left(\\begin{matrix}a\\\\b\\\\c\\\\d\\\\e\\\\f\\end{matrix}\\right)", class: "delimsizing mult", inner: "delimsizinginner delim-size4"},
		{name: "stacked arrow", input: "\\left\\uparrow\\begin{matrix}a\\\\b\\\\c\\end{matrix}\\right.", class: "delimsizing mult", inner: "delimsizinginner delim-size1"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			doc := render(t, tc.input, katex.DefaultSettings())

			sized := htmlquery.FindOne(doc, "//span["+hasClass("delimsizing")+"]")
			if tc.class == "" {
				if sized != nil {
					t.Errorf("Expected a delimiter of the main font, got %q", htmlquery.SelectAttr(sized, "class"))
				}

				if htmlquery.FindOne(doc, "//span["+hasClass("mopen")+"]["+hasClass("delimcenter")+"]") == nil {
					t.Error("Small delimiter must be centered on the axis")
				}

				return
			}

			if sized == nil {
				t.Fatal("Sized delimiter is missing")
			}

			if got := htmlquery.SelectAttr(sized, "class"); got != tc.class {
				t.Errorf("Delimiter does not match: want %q, got %q", tc.class, got)
			}

			if tc.inner != "" && htmlquery.FindOne(sized, ".//span[@class='"+tc.inner+"']") == nil {
				t.Errorf("Expected stacked pieces %q", tc.inner)
			}
		})
	}
}

func TestRender_Trust(t *testing.T) {
	httpsOnly := func(c katex.TrustContext) bool { return c.Protocol == "https" || c.Protocol == "_relative" }
	urlOnly := func(c katex.TrustContext) bool { return c.Command == "\\url" }

	tt := []struct {
		name    string
		input   string
		trust   bool
		fn      func(katex.TrustContext) bool
		element string
		denied  string
	}{
		{name: "href untrusted", input: "\\href{https://katex.org}{x}", denied: "\\href"},
		{name: "href trusted", input: "\\href{https://katex.org}{x}", trust: true, element: "//a[@href='https://katex.org']"},
		{name: "url trusted", input: "\\url{https://katex.org/a}", trust: true, element: "//a[@href='https://katex.org/a']"},
		{name: "url by command", input: "\\url{https://katex.org/a}", fn: urlOnly, element: "//a[@href='https://katex.org/a']"},
		{name: "href by command", input: "\\href{https://katex.org}{x}", fn: urlOnly, denied: "\\href"},
		{name: "https allowed", input: "\\href{https://katex.org}{x}", fn: httpsOnly, element: "//a[@href='https://katex.org']"},
		{name: "relative allowed", input: "\\href{/docs}{x}", fn: httpsOnly, element: "//a[@href='/docs']"},
		{name: "javascript denied", input: "\\href{javascript:alert(1)}{x}", fn: httpsOnly, denied: "\\href"},
		{name: "garbage protocol", input: "\\href{1http:katex.org}{x}", trust: true, denied: "\\href"},
		{name: "image untrusted", input: "\\includegraphics{https://katex.org/logo.png}", denied: "\\includegraphics"},
		{name: "image trusted", input: "\\includegraphics[height=1em]{https://katex.org/logo.png}", trust: true, element: "//img[@src='https://katex.org/logo.png'][@alt='logo']"},
		{name: "image alt", input: "\\includegraphics[alt=picture]{/logo.png}", trust: true, element: "//img[@src='/logo.png'][@alt='picture']"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			settings := katex.DefaultSettings()
			settings.Trust = tc.trust
			settings.TrustFunc = tc.fn

			doc := render(t, tc.input, settings)
			tree := htmlquery.FindOne(doc, "//span[@class='katex-html']")
			if tree == nil {
				t.Fatal("HTML tree is missing")
			}

			if tc.element != "" {
				if htmlquery.FindOne(tree, "."+tc.element) == nil {
					t.Errorf("Expected %s", tc.element)
				}

				return
			}

			if htmlquery.FindOne(tree, ".//a|.//img") != nil {
				t.Error("Untrusted command must not embed anything")
			}

			if htmlquery.FindOne(tree, ".//span[contains(@style,'color:#cc0000')]") == nil {
				t.Error("Placeholder must be shown in the error color")
			}

			placeholder := htmlquery.FindOne(tree, ".//span["+hasClass("text")+"]")
			if placeholder == nil {
				t.Fatal("Placeholder is missing")
			}

			if got := htmlquery.InnerText(placeholder); got != tc.denied {
				t.Errorf("Placeholder does not match: want %q, got %q", tc.denied, got)
			}
		})
	}
}

func TestRender_MinRuleThickness(t *testing.T) {
	settings := katex.DefaultSettings()
	settings.MinRuleThickness = 0.1

	doc := render(t, "\\frac{1}{2}", settings)

	line := htmlquery.FindOne(doc, "//span["+hasClass("frac-line")+"]")
	if line == nil {
		t.Fatal("Fraction line is missing")
	}

	if style := htmlquery.SelectAttr(line, "style"); !strings.Contains(style, "border-bottom-width:0.1em") {
		t.Errorf("Fraction line must be thickened, got %q", style)
	}

	doc = render(t, "\\sqrt{x}", settings)

	path := htmlquery.FindOne(doc, "//*[local-name()='path']")
	if path == nil {
		t.Fatal("Radical is missing")
	}

	// 60 units of extra vinculum on top of the 622 of the glyph and 80 of padding
	if d := htmlquery.SelectAttr(path, "d"); !strings.HasPrefix(d, "M95,762") {
		t.Errorf("Vinculum must be thickened, got %q", d)
	}
}

func TestRender_ColorIsTextColor(t *testing.T) {
	tt := []struct {
		name      string
		textColor bool
		colored   string
	}{
		{name: "switch", colored: "xy"},
		{name: "text color", textColor: true, colored: "x"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			settings := katex.DefaultSettings()
			settings.ColorIsTextColor = tc.textColor

			doc := render(t, "\\color{red}{x}y", settings)

			colored := htmlquery.Find(doc, "//*[local-name()='mstyle'][@mathcolor='red']")
			if got := strings.Join(texts(colored), ""); got != tc.colored {
				t.Errorf("Colored text does not match: want %q, got %q", tc.colored, got)
			}
		})
	}
}

// skeleton prints the element tree with classes and without text or styles.
func skeleton(n *html.Node) string {
	name := n.Data
	if class := htmlquery.SelectAttr(n, "class"); class != "" {
		name += "." + strings.ReplaceAll(class, " ", ".")
	}

	var children []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, skeleton(c))
		}
	}

	if len(children) == 0 {
		return name
	}

	return name + "(" + strings.Join(children, " ") + ")"
}

func TestRender_Structure(t *testing.T) {
	tt := []struct {
		input  string
		html   string
		mathml string
	}{
		{
			input:  "x^2",
			html:   "span.katex-html(span.base(span.strut span.mord(span.mord.mathnormal span.msupsub(span.vlist-t(span.vlist-r(span.vlist(span(span.pstrut span.sizing.reset-size6.size3.mtight(span.mord.mtight)))))))))",
			mathml: "semantics(mrow(msup(mi mn)) annotation)",
		},
		{
			input:  "a+b",
			html:   "span.katex-html(span.base(span.strut span.mord.mathnormal span.mspace span.mbin span.mspace) span.base(span.strut span.mord.mathnormal))",
			mathml: "semantics(mrow(mi mo mi) annotation)",
		},
	}

	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			doc := render(t, tc.input, katex.DefaultSettings())

			if got := skeleton(htmlquery.FindOne(doc, "//span[@class='katex-html']")); got != tc.html {
				t.Errorf("HTML tree does not match:\n%s\n", cmp.Diff(tc.html, got))
			}

			if got := skeleton(htmlquery.FindOne(doc, "//*[local-name()='semantics']")); got != tc.mathml {
				t.Errorf("MathML tree does not match:\n%s\n", cmp.Diff(tc.mathml, got))
			}
		})
	}
}

func TestRender_TeXLogo(t *testing.T) {
	doc := render(t, "\\TeX", katex.DefaultSettings())

	tree := htmlquery.FindOne(doc, "//span[@class='katex-html']")
	if tree == nil {
		t.Fatal("HTML tree is missing")
	}

	if got := strings.ReplaceAll(htmlquery.InnerText(tree), "\u200b", ""); got != "TEX" {
		t.Errorf("Logo does not match: want %q, got %q", "TEX", got)
	}
}
