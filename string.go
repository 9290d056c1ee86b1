package katex

import "strings"

// String returns the text of symbol nodes, nested groups are flattened.
// Nodes without text (fractions, kerns and such) contribute nothing.
func String(nodes ...Node) string {
	var b strings.Builder
	for _, node := range nodes {
		writeString(&b, node)
	}

	return b.String()
}

func writeString(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case *MathOrd:
		b.WriteString(n.Text)
	case *TextOrd:
		b.WriteString(n.Text)
	case *Atom:
		b.WriteString(n.Text)
	case *Spacing:
		b.WriteString(n.Text)
	case *OrdGroup:
		for _, child := range n.Body {
			writeString(b, child)
		}
	case *Text:
		for _, child := range n.Body {
			writeString(b, child)
		}
	case *Font:
		writeString(b, n.Body)
	case *Raw:
		b.WriteString(n.String)
	}
}
