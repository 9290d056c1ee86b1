package goldmarkmath_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/eolymp/go-katex"
	"github.com/eolymp/go-katex/goldmarkmath"
	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
)

func convert(t *testing.T, src string, opts ...goldmarkmath.Option) string {
	t.Helper()

	ctx, err := katex.NewContext()
	if err != nil {
		t.Fatal(err)
	}

	md := goldmark.New(goldmark.WithExtensions(goldmarkmath.New(ctx, opts...)))

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		t.Fatal(err)
	}

	return buf.String()
}

func TestExtension(t *testing.T) {
	tt := []struct {
		name    string
		input   string
		inline  []string
		display []string
	}{
		{
			name:   "dollar",
			input:  `Euler: $e^{i\pi}+1=0$ holds.`,
			inline: []string{`e^{i\pi}+1=0`},
		},
		{
			name:   "parenthesis",
			input:  `Let \(x_1\) and \(x_2\) be roots.`,
			inline: []string{"x_1", "x_2"},
		},
		{
			name:    "display block",
			input:   "Sum:\n\n$$\n\\sum_{i=1}^n i\n$$\n\ndone",
			display: []string{"\\sum_{i=1}^n i\n"},
		},
		{
			name:    "one line display block",
			input:   "$$\\frac12$$\n",
			display: []string{"\\frac12"},
		},
		{
			name:  "money",
			input: "It costs $5 and $10.",
		},
		{
			name:  "escaped dollar",
			input: `\$x$`,
		},
		{
			name:  "code span",
			input: "Write `$x$` for math.",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := htmlquery.Parse(strings.NewReader(convert(t, tc.input)))
			if err != nil {
				t.Fatal(err)
			}

			var inline, display []string
			for _, n := range htmlquery.Find(doc, "//span[@class='katex']") {
				annotation := htmlquery.FindOne(n, ".//*[local-name()='annotation']")
				if annotation == nil {
					t.Fatal("Formula has no source annotation")
				}

				if n.Parent != nil && htmlquery.SelectAttr(n.Parent, "class") == "katex-display" {
					display = append(display, htmlquery.InnerText(annotation))
				} else {
					inline = append(inline, htmlquery.InnerText(annotation))
				}
			}

			if !cmp.Equal(tc.inline, inline) {
				t.Errorf("Inline formulas do not match:\n%s\n", cmp.Diff(tc.inline, inline))
			}

			if !cmp.Equal(tc.display, display) {
				t.Errorf("Display formulas do not match:\n%s\n", cmp.Diff(tc.display, display))
			}
		})
	}
}

func TestExtension_Error(t *testing.T) {
	doc, err := htmlquery.Parse(strings.NewReader(convert(t, "Broken $x^1^2$ formula")))
	if err != nil {
		t.Fatal(err)
	}

	node := htmlquery.FindOne(doc, "//p/span[@class='katex-error']")
	if node == nil {
		t.Fatal("Expected formula to be rendered as an error")
	}

	if got := htmlquery.InnerText(node); got != "x^1^2" {
		t.Errorf("Error source does not match: want %q, got %q", "x^1^2", got)
	}
}

func TestExtension_Memo(t *testing.T) {
	memo := goldmarkmath.NewMemo(0)

	out := convert(t, "$x$, $x$ and $y$\n\n$$x$$\n", goldmarkmath.WithMemo(memo))

	if memo.Len() != 3 {
		t.Errorf("Expected 3 memoized formulas, got %d", memo.Len())
	}

	if n := strings.Count(out, `class="katex"`); n != 4 {
		t.Errorf("Expected 4 formulas, got %d", n)
	}
}

func TestMemo_Limit(t *testing.T) {
	memo := goldmarkmath.NewMemo(2)
	memo.Put(false, "a", "1")
	memo.Put(false, "b", "2")
	memo.Put(true, "a", "3")

	if memo.Len() != 1 {
		t.Errorf("Expected memo to start over, got %d entries", memo.Len())
	}

	if got, ok := memo.Get(true, "a"); !ok || got != "3" {
		t.Errorf("Expected display formula to be kept, got %q", got)
	}

	if _, ok := memo.Get(false, "a"); ok {
		t.Error("Inline and display formulas must not share entries")
	}
}
