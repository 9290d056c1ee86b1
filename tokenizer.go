package katex

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	catcodeOther   = 12
	catcodeActive  = 13
	catcodeComment = 14
)

// Tokenizer splits TeX input into tokens. It knows nothing about macros, see MacroExpander.
type Tokenizer struct {
	input    string
	pos      int
	catcodes map[string]int
	settings *Settings
}

func NewTokenizer(input string, settings *Settings) *Tokenizer {
	return &Tokenizer{
		input:    input,
		catcodes: map[string]int{"%": catcodeComment, "~": catcodeActive},
		settings: settings,
	}
}

func (l *Tokenizer) SetCatcode(char string, code int) {
	l.catcodes[char] = code
}

// Token reads next token, at the end of input it keeps returning EOF tokens.
func (l *Tokenizer) Token() (Token, error) {
	for {
		if l.pos >= len(l.input) {
			return Token{Text: "EOF", Loc: SourceLocation{Start: len(l.input), End: len(l.input)}}, nil
		}

		start := l.pos
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])

		switch {
		case isWhitespace(r):
			l.whitespaces()
			return l.token(" ", start), nil
		case r == '\\':
			return l.readBackslash(start)
		case r < 0x21, r == 0x2028, r == 0x2029, r == utf8.RuneError && size <= 1:
			return Token{}, l.unexpected(start, size)
		}

		l.pos += size
		l.combiningMarks()

		text := l.input[start:l.pos]
		if l.catcodes[text] == catcodeComment {
			if err := l.readLineComment(); err != nil {
				return Token{}, err
			}

			continue
		}

		return l.token(text, start), nil
	}
}

func (l *Tokenizer) token(text string, start int) Token {
	return Token{Text: text, Loc: SourceLocation{Start: start, End: l.pos}}
}

func (l *Tokenizer) unexpected(pos, size int) error {
	char := l.input[pos:min(pos+max(size, 1), len(l.input))]
	return &LexError{
		Msg:   fmt.Sprintf("Unexpected character: '%s'", char),
		Input: l.input,
		Loc:   SourceLocation{Start: pos, End: pos + len(char)},
	}
}

// readLineComment skips everything up to and including the next newline
func (l *Tokenizer) readLineComment() error {
	nl := strings.IndexByte(l.input[l.pos:], '\n')
	if nl >= 0 {
		l.pos += nl + 1
		return nil
	}

	l.pos = len(l.input)
	if l.settings == nil {
		return nil
	}

	return l.settings.reportNonstrict("commentAtEnd",
		"% comment has no terminating newline; LaTeX would fail because of commenting the end of math mode (e.g. $)", nil)
}

func (l *Tokenizer) readBackslash(start int) (Token, error) {
	l.pos++ // backslash
	if l.pos >= len(l.input) {
		return Token{}, l.unexpected(start, 1)
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if r == utf8.RuneError && size <= 1 {
		return Token{}, l.unexpected(l.pos, size)
	}

	// control space, a backslash followed by whitespace
	if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
		if r == '\n' {
			l.pos++
		} else {
			for l.pos < len(l.input) && strings.IndexByte(" \r\t", l.input[l.pos]) >= 0 {
				l.pos++
			}

			if l.pos < len(l.input) && l.input[l.pos] == '\n' {
				l.pos++
			}
		}

		for l.pos < len(l.input) && strings.IndexByte(" \r\t", l.input[l.pos]) >= 0 {
			l.pos++
		}

		return l.token("\\ ", start), nil
	}

	if strings.HasPrefix(l.input[l.pos:], "verb") {
		if tok, ok := l.readVerb(start); ok {
			return tok, nil
		}
	}

	// a letter means it's a named command \xyz
	if isLetter(r) || r == '@' {
		for l.pos < len(l.input) && (isLetter(rune(l.input[l.pos])) || l.input[l.pos] == '@') {
			l.pos++
		}

		text := l.input[start:l.pos]
		l.whitespaces()
		return Token{Text: text, Loc: SourceLocation{Start: start, End: l.pos}}, nil
	}

	// one symbol command
	l.pos += size
	return l.token(l.input[start:l.pos], start), nil
}

// readVerb reads \verb|...| or \verb*|...| as a single token, the delimiter must be closed on the same line.
func (l *Tokenizer) readVerb(start int) (Token, bool) {
	pos := l.pos + len("verb")
	if pos >= len(l.input) {
		return Token{}, false
	}

	if l.input[pos] == '*' {
		pos++
	} else if isLetter(rune(l.input[pos])) {
		return Token{}, false
	}

	if pos >= len(l.input) {
		return Token{}, false
	}

	delim, size := utf8.DecodeRuneInString(l.input[pos:])
	body := pos + size
	for i, r := range l.input[body:] {
		if r == '\n' {
			return Token{}, false
		}

		if r == delim {
			l.pos = body + i + size
			return l.token(l.input[start:l.pos], start), true
		}
	}

	return Token{}, false
}

func (l *Tokenizer) whitespaces() {
	for l.pos < len(l.input) && isWhitespace(rune(l.input[l.pos])) {
		l.pos++
	}
}

func (l *Tokenizer) combiningMarks() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isCombiningMark(r) {
			return
		}

		l.pos += size
	}
}
