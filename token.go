package katex

// SourceLocation is a byte range of the input the token or node was read from.
type SourceLocation struct {
	Start int
	End   int
}

// Span returns location covering both l and other.
func (l SourceLocation) Span(other SourceLocation) SourceLocation {
	return SourceLocation{Start: min(l.Start, other.Start), End: max(l.End, other.End)}
}

type Category int

const (
	CategoryEOF Category = iota
	CategoryControlSequence
	CategoryLetter
	CategoryOther
	CategoryBeginGroup
	CategoryEndGroup
	CategorySuperscript
	CategorySubscript
	CategoryAlignment
	CategoryEndOfLine
	CategorySpace
	CategoryActive
	CategoryParameter
)

// Token is a single lexical unit. Control sequences keep their backslash,
// characters are stored as they appear in the input.
type Token struct {
	Text string
	Loc  SourceLocation

	// Noexpand marks a token which must not be expanded once (\noexpand).
	Noexpand bool
	// TreatAsRelax marks a token which acts as \relax (\noexpand on a non-expandable).
	TreatAsRelax bool
}

func (t Token) IsEOF() bool {
	return t.Text == "EOF"
}

// Category classifies token the way TeX category codes do.
func (t Token) Category() Category {
	switch t.Text {
	case "EOF":
		return CategoryEOF
	case "{":
		return CategoryBeginGroup
	case "}":
		return CategoryEndGroup
	case "^":
		return CategorySuperscript
	case "_":
		return CategorySubscript
	case "&":
		return CategoryAlignment
	case "\\\\", "\\cr", "\\newline":
		return CategoryEndOfLine
	case " ":
		return CategorySpace
	case "~":
		return CategoryActive
	case "#":
		return CategoryParameter
	}

	if isControlSequence(t.Text) {
		return CategoryControlSequence
	}

	if r := []rune(t.Text); len(r) > 0 && isLetter(r[0]) {
		return CategoryLetter
	}

	return CategoryOther
}

// WithText returns a copy of the token with other text at the same location.
func (t Token) WithText(text string) Token {
	return Token{Text: text, Loc: t.Loc}
}

func isControlSequence(text string) bool {
	return len(text) > 1 && text[0] == '\\'
}
