package katex

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type colorLiteral struct {
	Hex  string `parser:"  @Hex"`
	Word string `parser:"| @Word"`
}

var (
	colorLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Hex", Pattern: `#[0-9a-zA-Z]*`},
		{Name: "Word", Pattern: `[0-9a-zA-Z]+`},
	})

	colorParser = participle.MustBuild[colorLiteral](participle.Lexer(colorLexer))
)

var errInvalidColor = errors.New("invalid color")

// ParseColor validates a color literal: #rgb, #rgba, #rrggbb, #rrggbbaa, a bare rrggbb
// or a color name. Bare six digit hex values get the # prefix.
func ParseColor(raw string) (string, error) {
	lit, err := colorParser.ParseString("", raw)
	if err != nil {
		return "", fmt.Errorf("%w: '%s'", errInvalidColor, raw)
	}

	if lit.Hex != "" {
		digits := lit.Hex[1:]
		if !isHex(digits) {
			return "", fmt.Errorf("%w: '%s'", errInvalidColor, raw)
		}

		switch len(digits) {
		case 3, 4, 6, 8:
			return lit.Hex, nil
		}

		return "", fmt.Errorf("%w: '%s'", errInvalidColor, raw)
	}

	if len(lit.Word) == 6 && isHex(lit.Word) {
		return "#" + lit.Word, nil
	}

	for _, r := range lit.Word {
		if !isLetter(r) {
			return "", fmt.Errorf("%w: '%s'", errInvalidColor, raw)
		}
	}

	return lit.Word, nil
}

func isHex(s string) bool {
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F') {
			return false
		}
	}

	return true
}
