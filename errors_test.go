package katex

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPositionSuffix(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		loc    *SourceLocation
		output string
	}{
		{
			name:   "no location",
			input:  "x",
			output: "",
		},
		{
			name:   "middle",
			input:  "x^1^2",
			loc:    &SourceLocation{Start: 3, End: 4},
			output: " at position 4: x^1^\u03322",
		},
		{
			name:   "end of input",
			input:  "abc",
			loc:    &SourceLocation{Start: 3, End: 3},
			output: " at end of input: abc",
		},
		{
			name:   "long context is truncated",
			input:  "abcdefghijklmnopqrstuvwxyz0123456789ABC",
			loc:    &SourceLocation{Start: 20, End: 21},
			output: " at position 21: …fghijklmnopqrst" + "u\u0332" + "vwxyz0123456789…",
		},
		{
			name:   "position counts characters",
			input:  "αβx",
			loc:    &SourceLocation{Start: 4, End: 5},
			output: " at position 3: αβx\u0332",
		},
		{
			name:   "out of range",
			input:  "ab",
			loc:    &SourceLocation{Start: 1, End: 7},
			output: "",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := positionSuffix(tc.input, tc.loc); got != tc.output {
				t.Errorf("Suffix does not match:\n%s\n", cmp.Diff(tc.output, got))
			}
		})
	}
}

func TestParseError(t *testing.T) {
	err := error(&ParseError{
		Kind:  ErrDoubleSuperscript,
		Msg:   "Double superscript",
		Input: "a\nx^1^2",
		Loc:   &SourceLocation{Start: 5, End: 6},
	})

	if !errors.Is(err, ErrDoubleSuperscript) {
		t.Errorf("Expected error to match its kind")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected *ParseError, got %T", err)
	}

	if parseErr.Position() != 6 {
		t.Errorf("Position does not match: want 6, got %d", parseErr.Position())
	}

	want := "PARSE ERROR at 2:4: Double superscript\n\n" +
		"     2 | x^1^2\n" +
		"       |    ^\n"

	if got := parseErr.Snippet(); got != want {
		t.Errorf("Snippet does not match:\n%s\n", cmp.Diff(want, got))
	}
}

func TestParseError_NoLocation(t *testing.T) {
	err := &ParseError{Kind: ErrInvalidArgument, Msg: "Invalid size"}

	if err.Error() != "KaTeX parse error: Invalid size" {
		t.Errorf("Unexpected message %q", err.Error())
	}

	if err.Position() != 0 {
		t.Errorf("Expected unknown position, got %d", err.Position())
	}

	if got := err.Snippet(); got != "PARSE ERROR: Invalid size" {
		t.Errorf("Unexpected snippet %q", got)
	}
}

func TestBuildError(t *testing.T) {
	err := error(&BuildError{Char: "☃", Font: "Main-Regular", Mode: ModeMath})

	if !errors.Is(err, ErrMissingMetrics) {
		t.Errorf("Expected missing metrics error, got %v", err)
	}
}
