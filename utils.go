package katex

import "strings"

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isCombiningMark(r rune) bool {
	return r >= 0x0300 && r <= 0x036f
}

// escapeHTML escapes text for both element content and attribute values.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	">", "&gt;",
	"<", "&lt;",
	"\"", "&quot;",
	"'", "&#x27;",
)

func escapeHTML(s string) string {
	return escaper.Replace(s)
}

// hyphenate turns a camel case CSS property into its dashed form.
func hyphenate(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}

		b.WriteRune(r)
	}

	return b.String()
}
