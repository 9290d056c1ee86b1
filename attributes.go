package katex

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type keyValueList struct {
	Pairs []*keyValuePair `parser:"(@@ (',' @@)*)?"`
}

type keyValuePair struct {
	Key   string   `parser:"Whitespace? @Ident Whitespace?"`
	Value []string `parser:"('=' @(Ident | Value | Whitespace)*)?"`
}

var (
	keyValueLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_-]*`},
		{Name: "Punct", Pattern: `[=,]`},
		{Name: "Value", Pattern: `[^,=\s]+`},
	})

	keyValueParser = participle.MustBuild[keyValueList](participle.Lexer(keyValueLexer))
)

// KeyValue parses key-value parameters in this format: key=value, key=value, for example as used in \includegraphics option parameter.
// Keys are lower case, a key without a value maps to an empty string.
func KeyValue(raw string) (map[string]string, error) {
	list, err := keyValueParser.ParseString("", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid key-value list '%s': %w", raw, err)
	}

	kv := map[string]string{}
	for _, pair := range list.Pairs {
		kv[strings.ToLower(pair.Key)] = strings.TrimSpace(strings.Join(pair.Value, ""))
	}

	return kv, nil
}
