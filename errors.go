package katex

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error classes. Every error returned by the package matches one of them with errors.Is.
var (
	ErrUnbalancedGroup     = errors.New("unbalanced group")
	ErrUnknownSymbol       = errors.New("unknown symbol")
	ErrExpectedArgument    = errors.New("expected argument")
	ErrInvalidEnvironment  = errors.New("invalid environment")
	ErrDoubleSuperscript   = errors.New("double superscript")
	ErrRecursionLimit      = errors.New("recursion limit exceeded")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidMode         = errors.New("invalid mode")
	ErrStrict              = errors.New("strict mode violation")
	ErrExpansionLimit      = errors.New("expansion limit exceeded")
	ErrMacroDefinition     = errors.New("malformed macro definition")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrMissingMetrics      = errors.New("missing font metrics")
)

// ParseError is returned when the expression can't be turned into a syntax tree.
type ParseError struct {
	Kind  error
	Msg   string
	Input string
	Loc   *SourceLocation
}

func (e *ParseError) Error() string {
	return "KaTeX parse error: " + e.Msg + positionSuffix(e.Input, e.Loc)
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// Position is the 1-based character position of the error, 0 when unknown.
func (e *ParseError) Position() int {
	if e.Loc == nil {
		return 0
	}

	return utf8.RuneCountInString(e.Input[:min(e.Loc.Start, len(e.Input))]) + 1
}

// Snippet returns the message followed by the offending line and a caret under the error.
func (e *ParseError) Snippet() string {
	return snippet("PARSE ERROR", e.Msg, e.Input, e.Loc)
}

// LexError reports a character the lexer has no token for.
type LexError struct {
	Msg   string
	Input string
	Loc   SourceLocation
}

func (e *LexError) Error() string {
	return "KaTeX parse error: " + e.Msg + positionSuffix(e.Input, &e.Loc)
}

func (e *LexError) Unwrap() error {
	return ErrUnexpectedCharacter
}

func (e *LexError) Snippet() string {
	return snippet("LEXICAL ERROR", e.Msg, e.Input, &e.Loc)
}

// MacroError reports runaway expansion or a macro definition which can't be used.
type MacroError struct {
	Kind  error
	Msg   string
	Name  string
	Input string
	Loc   *SourceLocation
}

func (e *MacroError) Error() string {
	return "KaTeX parse error: " + e.Msg + positionSuffix(e.Input, e.Loc)
}

func (e *MacroError) Unwrap() error {
	return e.Kind
}

func (e *MacroError) Snippet() string {
	return snippet("MACRO ERROR", e.Msg, e.Input, e.Loc)
}

// BuildError reports a glyph without metrics in the requested font.
type BuildError struct {
	Char string
	Font string
	Mode Mode
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("KaTeX build error: no character metrics for %q in style %q and mode %q", e.Char, e.Font, e.Mode)
}

func (e *BuildError) Unwrap() error {
	return ErrMissingMetrics
}

// positionSuffix renders " at position N: con̲text" the way KaTeX does.
func positionSuffix(input string, loc *SourceLocation) string {
	if loc == nil || loc.Start > len(input) || loc.End > len(input) || loc.Start > loc.End {
		return ""
	}

	var b strings.Builder
	if loc.Start == len(input) {
		b.WriteString(" at end of input: ")
	} else {
		fmt.Fprintf(&b, " at position %d: ", utf8.RuneCountInString(input[:loc.Start])+1)
	}

	before := input[:loc.Start]
	if utf8.RuneCountInString(before) > 15 {
		r := []rune(before)
		before = "…" + string(r[len(r)-15:])
	}

	b.WriteString(before)
	for _, r := range input[loc.Start:loc.End] {
		b.WriteRune(r)
		b.WriteRune('̲')
	}

	after := input[loc.End:]
	if utf8.RuneCountInString(after) > 15 {
		after = string([]rune(after)[:15]) + "…"
	}

	b.WriteString(after)
	return b.String()
}

// snippet prints the line containing the error with a caret under its column.
func snippet(header, msg, input string, loc *SourceLocation) string {
	if loc == nil {
		return fmt.Sprintf("%s: %s", header, msg)
	}

	start := min(max(loc.Start, 0), len(input))
	lineStart := strings.LastIndexByte(input[:start], '\n') + 1
	lineEnd := strings.IndexByte(input[start:], '\n')
	if lineEnd < 0 {
		lineEnd = len(input)
	} else {
		lineEnd += start
	}

	line := strings.Count(input[:start], "\n") + 1
	col := utf8.RuneCountInString(input[lineStart:start]) + 1

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	fmt.Fprintf(&b, "  %4d | %s\n", line, input[lineStart:lineEnd])
	fmt.Fprintf(&b, "       | %s^\n", strings.Repeat(" ", col-1))
	return b.String()
}

func newParseError(kind error, loc *SourceLocation, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Msg: fmt.Sprintf(format, args...), Loc: loc}
}

// tokenLoc is a helper to take address of token location for error reporting.
func tokenLoc(t Token) *SourceLocation {
	loc := t.Loc
	return &loc
}
