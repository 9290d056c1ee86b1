package katex_test

import (
	"errors"
	"testing"

	"github.com/eolymp/go-katex"
	"github.com/google/go-cmp/cmp"
)

func newContext(t *testing.T) *katex.Context {
	t.Helper()

	ctx, err := katex.NewContext()
	if err != nil {
		t.Fatal(err)
	}

	return ctx
}

func TestMacroExpander(t *testing.T) {
	ctx := newContext(t)

	tt := []struct {
		name   string
		input  string
		macros map[string]string
		output []string
	}{
		{
			name:   "builtin macro",
			input:  "\\R",
			output: []string{"\\mathbb", "{", "R", "}"},
		},
		{
			name:   "macro from settings",
			input:  "\\RR+1",
			macros: map[string]string{"\\RR": "\\mathbb{R}"},
			output: []string{"\\mathbb", "{", "R", "}", "+", "1"},
		},
		{
			name:   "macro with arguments from settings",
			input:  "\\pair{a}b",
			macros: map[string]string{"\\pair": "(#1,#2)"},
			output: []string{"(", "a", ",", "b", ")"},
		},
		{
			name:   "def",
			input:  "\\def\\foo#1{#1+#1}\\foo x",
			output: []string{"x", "+", "x"},
		},
		{
			name:   "def with delimited parameter",
			input:  "\\def\\foo#1.{[#1]}\\foo ab.c",
			output: []string{"[", "a", "b", "]", "c"},
		},
		{
			name:   "newcommand with argument count",
			input:  "\\newcommand{\\sq}[1]{#1^2}\\sq{y}",
			output: []string{"y", "^", "2"},
		},
		{
			name:   "nested macros",
			input:  "\\def\\a{\\b}\\def\\b{c}\\a",
			output: []string{"c"},
		},
		{
			name:   "let copies current meaning",
			input:  "\\def\\a{1}\\let\\b\\a\\def\\a{2}\\b\\a",
			output: []string{"1", "2"},
		},
		{
			name:   "functions are not expanded",
			input:  "\\frac12",
			output: []string{"\\frac", "1", "2"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			settings := katex.DefaultSettings()
			settings.Macros = tc.macros

			e := katex.NewMacroExpander(ctx, tc.input, &settings, katex.ModeMath)

			var got []string
			for {
				tok, err := e.ExpandNextToken()
				if err != nil {
					t.Fatal(err)
				}

				if tok.IsEOF() {
					break
				}

				got = append(got, tok.Text)
			}

			if !cmp.Equal(tc.output, got) {
				t.Errorf("Expansion does not match:\n%s\n", cmp.Diff(tc.output, got))
			}
		})
	}
}

func TestMacroExpander_Errors(t *testing.T) {
	ctx := newContext(t)

	tt := []struct {
		name  string
		input string
		kind  error
	}{
		{name: "infinite recursion", input: "\\def\\a{\\a}\\a", kind: katex.ErrExpansionLimit},
		{name: "growing recursion", input: "\\def\\a{\\a\\a}\\a", kind: katex.ErrExpansionLimit},
		{name: "redefine with newcommand", input: "\\newcommand{\\frac}{x}", kind: katex.ErrMacroDefinition},
		{name: "renewcommand of undefined", input: "\\renewcommand{\\undefinedthing}{x}", kind: katex.ErrMacroDefinition},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			settings := katex.DefaultSettings()
			e := katex.NewMacroExpander(ctx, tc.input, &settings, katex.ModeMath)

			var err error
			for {
				var tok katex.Token
				if tok, err = e.ExpandNextToken(); err != nil || tok.IsEOF() {
					break
				}
			}

			if !errors.Is(err, tc.kind) {
				t.Fatalf("Expected %v, got %v", tc.kind, err)
			}

			var macroErr *katex.MacroError
			if !errors.As(err, &macroErr) {
				t.Errorf("Expected *MacroError, got %T", err)
			}
		})
	}
}

func TestMacroExpander_ExpansionCount(t *testing.T) {
	ctx := newContext(t)

	settings := katex.DefaultSettings()
	settings.MaxExpand = 3

	e := katex.NewMacroExpander(ctx, "\\def\\a{x}\\a\\a", &settings, katex.ModeMath)
	for {
		tok, err := e.ExpandNextToken()
		if err != nil {
			t.Fatal(err)
		}

		if tok.IsEOF() {
			break
		}
	}

	// \def itself is an expansion
	if e.Expansions() != 3 {
		t.Errorf("Expected 3 expansions, got %d", e.Expansions())
	}
}
