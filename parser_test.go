package katex_test

import (
	"errors"
	"testing"

	"github.com/eolymp/go-katex"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParser(t *testing.T) {
	ctx := newContext(t)

	mathord := func(t string) *katex.MathOrd { return &katex.MathOrd{Text: t} }
	textord := func(t string) *katex.TextOrd { return &katex.TextOrd{Text: t} }
	group := func(body ...katex.Node) *katex.OrdGroup { return &katex.OrdGroup{Body: body} }

	tt := []struct {
		name   string
		input  string
		output []katex.Node
	}{
		{
			name:   "empty",
			input:  "",
			output: nil,
		},
		{
			name:   "letters and digits",
			input:  "x2",
			output: []katex.Node{mathord("x"), textord("2")},
		},
		{
			name:  "binary operator",
			input: "a + b",
			output: []katex.Node{
				mathord("a"),
				&katex.Atom{Family: katex.AtomBin, Text: "+"},
				mathord("b"),
			},
		},
		{
			name:   "superscript",
			input:  "x^2",
			output: []katex.Node{&katex.SupSub{Base: mathord("x"), Sup: textord("2")}},
		},
		{
			name:   "subscript and superscript in any order",
			input:  "x^{2}_i",
			output: []katex.Node{&katex.SupSub{Base: mathord("x"), Sup: group(textord("2")), Sub: mathord("i")}},
		},
		{
			name:   "primes",
			input:  "f''",
			output: []katex.Node{&katex.SupSub{Base: mathord("f"), Sup: group(textord("\\prime"), textord("\\prime"))}},
		},
		{
			name:   "prime followed by superscript",
			input:  "f'^2",
			output: []katex.Node{&katex.SupSub{Base: mathord("f"), Sup: group(textord("\\prime"), textord("2"))}},
		},
		{
			name:   "script without base",
			input:  "^2",
			output: []katex.Node{&katex.SupSub{Sup: textord("2")}},
		},
		{
			name:   "braced group",
			input:  "{x}",
			output: []katex.Node{group(mathord("x"))},
		},
		{
			name:   "semisimple group",
			input:  "\\begingroup x\\endgroup",
			output: []katex.Node{&katex.OrdGroup{Body: []katex.Node{mathord("x")}, Semisimple: true}},
		},
		{
			name:  "fraction",
			input: "\\frac{a}{b}",
			output: []katex.Node{&katex.GenFrac{
				Numer:      group(mathord("a")),
				Denom:      group(mathord("b")),
				HasBarLine: true,
				Size:       "auto",
			}},
		},
		{
			name:  "fraction with unbraced arguments",
			input: "\\frac12",
			output: []katex.Node{&katex.GenFrac{
				Numer:      group(textord("1")),
				Denom:      group(textord("2")),
				HasBarLine: true,
				Size:       "auto",
			}},
		},
		{
			name:  "infix fraction",
			input: "a \\over b",
			output: []katex.Node{&katex.GenFrac{
				Numer:      group(mathord("a")),
				Denom:      group(mathord("b")),
				HasBarLine: true,
				Size:       "auto",
			}},
		},
		{
			name:  "binomial",
			input: "\\dbinom{n}{k}",
			output: []katex.Node{&katex.GenFrac{
				Numer:      group(mathord("n")),
				Denom:      group(mathord("k")),
				LeftDelim:  "(",
				RightDelim: ")",
				Size:       "display",
			}},
		},
		{
			name:   "square root",
			input:  "\\sqrt{x}",
			output: []katex.Node{&katex.Sqrt{Body: group(mathord("x"))}},
		},
		{
			name:   "root with index",
			input:  "\\sqrt[3]{x}",
			output: []katex.Node{&katex.Sqrt{Body: group(mathord("x")), Index: group(textord("3"))}},
		},
		{
			name:  "text",
			input: "\\text{a b}",
			output: []katex.Node{&katex.Text{
				Font: "\\text",
				Body: []katex.Node{textord("a"), &katex.Spacing{Text: " "}, textord("b")},
			}},
		},
		{
			name:  "text ligatures",
			input: "\\text{a--b}",
			output: []katex.Node{&katex.Text{
				Font: "\\text",
				Body: []katex.Node{textord("a"), textord("--"), textord("b")},
			}},
		},
		{
			name:   "color",
			input:  "\\color{red}x",
			output: []katex.Node{&katex.Color{Color: "red", Body: []katex.Node{mathord("x")}}},
		},
		{
			name:   "text color with hex",
			input:  "\\textcolor{#ff0000}{x}",
			output: []katex.Node{&katex.Color{Color: "#ff0000", Body: []katex.Node{mathord("x")}}},
		},
		{
			name:   "left and right",
			input:  "\\left(x\\right)",
			output: []katex.Node{&katex.LeftRight{Left: "(", Right: ")", Body: []katex.Node{mathord("x")}}},
		},
		{
			name:  "big operator with limits",
			input: "\\sum_i",
			output: []katex.Node{&katex.SupSub{
				Base: &katex.Op{Name: "\\sum", Symbol: true, Limits: true},
				Sub:  mathord("i"),
			}},
		},
		{
			name:  "nolimits",
			input: "\\sum\\nolimits_i",
			output: []katex.Node{&katex.SupSub{
				Base: &katex.Op{Name: "\\sum", Symbol: true, AlwaysHandleSupSub: true},
				Sub:  mathord("i"),
			}},
		},
		{
			name:   "macro from definition",
			input:  "\\def\\x{y}\\x",
			output: []katex.Node{mathord("y")},
		},
		{
			name:   "global definition outlives its group",
			input:  "{\\gdef\\x{y}}\\x",
			output: []katex.Node{group(), mathord("y")},
		},
		{
			name:   "verb",
			input:  "\\verb|\\x|",
			output: []katex.Node{&katex.Verb{Body: "\\x"}},
		},
		{
			name:  "combining accent",
			input: "e\u0301",
			output: []katex.Node{&katex.Accent{
				Label:    "\\acute",
				IsShifty: true,
				Base:     mathord("e"),
			}},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ctx.Parse(tc.input, katex.DefaultSettings())
			if err != nil {
				t.Fatal(err)
			}

			if !cmp.Equal(tc.output, got, cmpopts.IgnoreTypes(katex.Meta{}), cmpopts.EquateEmpty()) {
				t.Errorf("Tree does not match:\n%s\n", cmp.Diff(tc.output, got, cmpopts.IgnoreTypes(katex.Meta{}), cmpopts.EquateEmpty()))
			}
		})
	}
}

func TestParser_Atoms(t *testing.T) {
	ctx := newContext(t)

	tt := []struct {
		name  string
		input string
		atoms []katex.AtomType
	}{
		{name: "ord bin ord", input: "a+b", atoms: []katex.AtomType{katex.AtomOrd, katex.AtomBin, katex.AtomOrd}},
		{name: "relation", input: "a=b", atoms: []katex.AtomType{katex.AtomOrd, katex.AtomRel, katex.AtomOrd}},
		{name: "delimiters", input: "(x,y)", atoms: []katex.AtomType{katex.AtomOpen, katex.AtomOrd, katex.AtomPunct, katex.AtomOrd, katex.AtomClose}},
		{name: "operator", input: "\\sin x", atoms: []katex.AtomType{katex.AtomOp, katex.AtomOrd}},
		{name: "scripted operator", input: "\\sum_i x", atoms: []katex.AtomType{katex.AtomOp, katex.AtomOrd}},
		{name: "inner", input: "\\left(x\\right)", atoms: []katex.AtomType{katex.AtomInner}},
		{name: "class override", input: "\\mathrel{x}", atoms: []katex.AtomType{katex.AtomRel}},
		{name: "kern", input: "\\kern1em", atoms: []katex.AtomType{katex.AtomNone}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			nodes, err := ctx.Parse(tc.input, katex.DefaultSettings())
			if err != nil {
				t.Fatal(err)
			}

			var got []katex.AtomType
			for _, n := range nodes {
				got = append(got, n.Info().Atom)
			}

			if !cmp.Equal(tc.atoms, got) {
				t.Errorf("Atoms do not match:\n%s\n", cmp.Diff(tc.atoms, got))
			}
		})
	}
}

func TestParser_Location(t *testing.T) {
	ctx := newContext(t)

	nodes, err := ctx.Parse("a+\\frac{b}{c}", katex.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}

	want := []katex.SourceLocation{{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 7}}
	for i, n := range nodes {
		if loc := n.Info().Loc; loc != want[i] {
			t.Errorf("Location of %v does not match: want %v, got %v", n.Type(), want[i], loc)
		}
	}
}

func TestParser_Environments(t *testing.T) {
	ctx := newContext(t)

	tt := []struct {
		name  string
		input string
		rows  int
		cols  int
	}{
		{name: "matrix", input: "\\begin{matrix}a&b\\\\c&d\\end{matrix}", rows: 2, cols: 2},
		{name: "array", input: "\\begin{array}{c|c|c}1&2&3\\end{array}", rows: 1, cols: 3},
		{name: "trailing row separator", input: "\\begin{matrix}a\\\\b\\\\\\end{matrix}", rows: 2, cols: 1},
		{name: "cases", input: "\\begin{cases}a&b\\end{cases}", rows: 1, cols: 2},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			nodes, err := ctx.Parse(tc.input, katex.DefaultSettings())
			if err != nil {
				t.Fatal(err)
			}

			var array *katex.Array
			for len(nodes) == 1 && array == nil {
				switch n := nodes[0].(type) {
				case *katex.Array:
					array = n
				case *katex.LeftRight:
					nodes = n.Body
				case *katex.Styling:
					nodes = n.Body
				default:
					t.Fatalf("Unexpected node %v", n.Type())
				}
			}

			if array == nil {
				t.Fatalf("Expected an array, got %d nodes", len(nodes))
			}

			if len(array.Body) != tc.rows {
				t.Errorf("Row count does not match: want %d, got %d", tc.rows, len(array.Body))
			}

			if len(array.Body) > 0 && len(array.Body[0]) != tc.cols {
				t.Errorf("Column count does not match: want %d, got %d", tc.cols, len(array.Body[0]))
			}
		})
	}
}

func TestParser_Errors(t *testing.T) {
	ctx := newContext(t)

	tt := []struct {
		name     string
		input    string
		kind     error
		position int
	}{
		{name: "double superscript", input: "x^1^2", kind: katex.ErrDoubleSuperscript, position: 4},
		{name: "double subscript", input: "x_1_2", kind: katex.ErrDoubleSuperscript, position: 4},
		{name: "unclosed group", input: "{x", kind: katex.ErrUnbalancedGroup, position: 3},
		{name: "extra closing brace", input: "x}", kind: katex.ErrUnbalancedGroup, position: 2},
		{name: "missing argument", input: "\\frac{1}", kind: katex.ErrExpectedArgument, position: 9},
		{name: "missing script", input: "x^", kind: katex.ErrExpectedArgument, position: 2},
		{name: "undefined command", input: "a\\foo", kind: katex.ErrUnknownSymbol, position: 2},
		{name: "unknown environment", input: "\\begin{foo}x\\end{foo}", kind: katex.ErrInvalidEnvironment},
		{name: "mismatched environment", input: "\\begin{matrix}x\\end{pmatrix}", kind: katex.ErrInvalidEnvironment},
		{name: "tag outside display", input: "x\\tag{1}", kind: katex.ErrInvalidMode},
		{name: "middle without left", input: "\\middle|", kind: katex.ErrUnbalancedGroup},
		{name: "limits without operator", input: "x\\limits", kind: katex.ErrInvalidArgument},
		{name: "invalid color", input: "\\color{#12}x", kind: katex.ErrInvalidArgument},
		{name: "invalid unit", input: "\\kern1zz", kind: katex.ErrInvalidArgument},
		{name: "unknown column alignment", input: "\\begin{array}{x}1\\end{array}", kind: katex.ErrInvalidArgument},
		{name: "expansion limit", input: "\\def\\a{\\a}\\a", kind: katex.ErrExpansionLimit},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ctx.Parse(tc.input, katex.DefaultSettings())
			if !errors.Is(err, tc.kind) {
				t.Fatalf("Expected %v, got %v", tc.kind, err)
			}

			if tc.position == 0 {
				return
			}

			var parseErr *katex.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Expected *ParseError, got %T", err)
			}

			if parseErr.Position() != tc.position {
				t.Errorf("Position does not match: want %d, got %d (%v)", tc.position, parseErr.Position(), err)
			}
		})
	}
}

func TestParser_MaxDepth(t *testing.T) {
	ctx := newContext(t)

	settings := katex.DefaultSettings()
	settings.MaxDepth = 5

	if _, err := ctx.Parse("{{{x}}}", settings); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := ctx.Parse("{{{{{{{{x}}}}}}}}", settings)
	if !errors.Is(err, katex.ErrRecursionLimit) {
		t.Fatalf("Expected recursion limit error, got %v", err)
	}
}

func TestParser_UnsupportedCommand(t *testing.T) {
	ctx := newContext(t)

	settings := katex.DefaultSettings()
	settings.ThrowOnError = false
	settings.Strict = katex.StrictIgnore

	nodes, err := ctx.Parse("a\\foo", settings)
	if err != nil {
		t.Fatal(err)
	}

	want := []katex.Node{&katex.MathOrd{Text: "a"}, &katex.Unsupported{Command: "\\foo"}}
	if !cmp.Equal(want, nodes, cmpopts.IgnoreTypes(katex.Meta{})) {
		t.Errorf("Tree does not match:\n%s\n", cmp.Diff(want, nodes, cmpopts.IgnoreTypes(katex.Meta{})))
	}
}

func TestParser_Strict(t *testing.T) {
	ctx := newContext(t)

	settings := katex.DefaultSettings()
	settings.Strict = katex.StrictError

	_, err := ctx.Parse("\\text{\u00e9}", settings)
	if err != nil {
		t.Fatalf("Accented text in text mode is fine, got %v", err)
	}

	_, err = ctx.Parse("\u00e9", settings)
	if !errors.Is(err, katex.ErrStrict) {
		t.Fatalf("Expected strict mode error, got %v", err)
	}

	var code string
	settings.StrictFunc = func(c, _ string, _ *katex.SourceLocation) katex.StrictMode {
		code = c
		return katex.StrictIgnore
	}

	if _, err = ctx.Parse("\u00e9", settings); err != nil {
		t.Fatal(err)
	}

	if code != "unicodeTextInMathMode" {
		t.Errorf("Expected unicodeTextInMathMode, got %q", code)
	}
}

func TestParser_BalancedGroups(t *testing.T) {
	ctx := newContext(t)

	inputs := []string{
		"{a{b{c}}}",
		"\\left(\\frac{a}{b}\\right)",
		"\\begin{matrix}a&b\\\\c&d\\end{matrix}",
		"{\\begin{array}{c}{x}\\end{array}}",
		"\\begin{cases}a&b\\\\c&d\\end{cases}",
		"\\sqrt[3]{\\left[x\\middle|y\\right]}",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if _, err := ctx.Parse(input, katex.DefaultSettings()); err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}
