package katex_test

import (
	"errors"
	"testing"

	"github.com/eolymp/go-katex"
	"github.com/google/go-cmp/cmp"
)

func tokenize(t *testing.T, input string) []string {
	t.Helper()

	settings := katex.DefaultSettings()
	settings.Strict = katex.StrictIgnore

	lexer := katex.NewTokenizer(input, &settings)

	var texts []string
	for {
		tok, err := lexer.Token()
		if err != nil {
			t.Fatal(err)
		}

		if tok.IsEOF() {
			return texts
		}

		texts = append(texts, tok.Text)
	}
}

func TestTokenizer(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output []string
	}{
		{
			name:   "characters",
			input:  "x^2",
			output: []string{"x", "^", "2"},
		},
		{
			name:   "command with arguments",
			input:  "\\frac{a}{b}",
			output: []string{"\\frac", "{", "a", "}", "{", "b", "}"},
		},
		{
			name:   "spaces collapse",
			input:  "a  \n b",
			output: []string{"a", " ", "b"},
		},
		{
			name:   "spaces after named command are dropped",
			input:  "\\alpha   x",
			output: []string{"\\alpha", "x"},
		},
		{
			name:   "spaces after symbol command are kept",
			input:  "\\, x",
			output: []string{"\\,", " ", "x"},
		},
		{
			name:   "control space",
			input:  "a\\ \n  b",
			output: []string{"a", "\\ ", "b"},
		},
		{
			name:   "comment",
			input:  "a%comment\nb",
			output: []string{"a", "b"},
		},
		{
			name:   "comment at end",
			input:  "a%comment",
			output: []string{"a"},
		},
		{
			name:   "verb",
			input:  "\\verb|x y|z",
			output: []string{"\\verb|x y|", "z"},
		},
		{
			name:   "starred verb",
			input:  "\\verb*!a b!",
			output: []string{"\\verb*!a b!"},
		},
		{
			name:   "combining marks stay with their letter",
			input:  "e\u0301x",
			output: []string{"e\u0301", "x"},
		},
		{
			name:   "unicode",
			input:  "α+β",
			output: []string{"α", "+", "β"},
		},
		{
			name:   "at sign in command names",
			input:  "\\df@tag",
			output: []string{"\\df@tag"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got := tokenize(t, tc.input)
			if !cmp.Equal(tc.output, got) {
				t.Errorf("Tokens do not match:\n%s\n", cmp.Diff(tc.output, got))
			}
		})
	}
}

func TestTokenizer_Location(t *testing.T) {
	settings := katex.DefaultSettings()
	lexer := katex.NewTokenizer("\\alpha x", &settings)

	want := []katex.SourceLocation{{Start: 0, End: 7}, {Start: 7, End: 8}, {Start: 8, End: 8}}
	for _, loc := range want {
		tok, err := lexer.Token()
		if err != nil {
			t.Fatal(err)
		}

		if tok.Loc != loc {
			t.Errorf("Location of %q does not match: want %v, got %v", tok.Text, loc, tok.Loc)
		}
	}

	// the end of input is sticky
	tok, err := lexer.Token()
	if err != nil {
		t.Fatal(err)
	}

	if !tok.IsEOF() {
		t.Errorf("Expected EOF, got %q", tok.Text)
	}
}

func TestTokenizer_Errors(t *testing.T) {
	tt := []struct {
		name  string
		input string
		msg   string
	}{
		{name: "trailing backslash", input: "a\\", msg: "KaTeX parse error: Unexpected character: '\\' at position 2: a\\\u0332"},
		{name: "control character", input: "\x01", msg: "KaTeX parse error: Unexpected character: '\x01' at position 1: \x01\u0332"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			settings := katex.DefaultSettings()
			lexer := katex.NewTokenizer(tc.input, &settings)

			var err error
			for range len(tc.input) + 1 {
				var tok katex.Token
				if tok, err = lexer.Token(); err != nil || tok.IsEOF() {
					break
				}
			}

			if !errors.Is(err, katex.ErrUnexpectedCharacter) {
				t.Fatalf("Expected unexpected character error, got %v", err)
			}

			var lexErr *katex.LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("Expected *LexError, got %T", err)
			}

			if err.Error() != tc.msg {
				t.Errorf("Message does not match:\n%s\n", cmp.Diff(tc.msg, err.Error()))
			}
		})
	}
}

func TestToken_Category(t *testing.T) {
	tt := []struct {
		text     string
		category katex.Category
	}{
		{text: "EOF", category: katex.CategoryEOF},
		{text: "\\frac", category: katex.CategoryControlSequence},
		{text: "x", category: katex.CategoryLetter},
		{text: "1", category: katex.CategoryOther},
		{text: "{", category: katex.CategoryBeginGroup},
		{text: "}", category: katex.CategoryEndGroup},
		{text: "^", category: katex.CategorySuperscript},
		{text: "_", category: katex.CategorySubscript},
		{text: "&", category: katex.CategoryAlignment},
		{text: "\\\\", category: katex.CategoryEndOfLine},
		{text: " ", category: katex.CategorySpace},
		{text: "~", category: katex.CategoryActive},
		{text: "#", category: katex.CategoryParameter},
	}

	for _, tc := range tt {
		t.Run(tc.text, func(t *testing.T) {
			if got := (katex.Token{Text: tc.text}).Category(); got != tc.category {
				t.Errorf("Category does not match: want %v, got %v", tc.category, got)
			}
		})
	}
}
