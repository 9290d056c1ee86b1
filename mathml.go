package katex

import (
	"fmt"
	"io"
	"strings"
)

// MathMLNode is a node of the semantic tree.
type MathMLNode interface {
	Render(w io.Writer) error
	// Text is the plain text content, used to fold operator names into one identifier.
	Text() string
}

// MathNode is a MathML element such as <mi>, <mfrac> or <mtable>.
type MathNode struct {
	Type       string
	Attributes Attributes
	Children   []MathMLNode
	Classes    []string
}

func newMathNode(typ string, children ...MathMLNode) *MathNode {
	return &MathNode{Type: typ, Children: children}
}

func (n *MathNode) Render(w io.Writer) error {
	if _, err := fmt.Fprint(w, "<", n.Type); err != nil {
		return err
	}

	for _, a := range n.Attributes {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeHTML(a.Value)); err != nil {
			return err
		}
	}

	if len(n.Classes) > 0 {
		if _, err := fmt.Fprintf(w, ` class="%s"`, escapeHTML(strings.Join(n.Classes, " "))); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprint(w, ">"); err != nil {
		return err
	}

	for _, child := range n.Children {
		if err := child.Render(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "</", n.Type, ">")
	return err
}

func (n *MathNode) Text() string {
	var b strings.Builder
	for _, child := range n.Children {
		b.WriteString(child.Text())
	}

	return b.String()
}

// TextNode is character data inside a MathML element.
type TextNode struct {
	Value string
}

func newTextNode(text string) *TextNode {
	return &TextNode{Value: text}
}

func (t *TextNode) Render(w io.Writer) error {
	_, err := fmt.Fprint(w, escapeHTML(t.Value))
	return err
}

func (t *TextNode) Text() string {
	return t.Value
}

// SpaceNode is horizontal space. Widths which match a unicode space
// character render as that character in an <mtext>.
type SpaceNode struct {
	Width     float64
	Character string
}

// spaceCharacters map space widths in em onto unicode spaces, negative ones
// are followed by an invisible separator.
var spaceCharacters = []struct {
	min, max float64
	char     string
}{
	{0.05555, 0.05556, "\u200a"},
	{0.1666, 0.1667, "\u2009"},
	{0.2222, 0.2223, "\u2005"},
	{0.2777, 0.2778, "\u2005\u200a"},
	{-0.05556, -0.05555, "\u200a\u2063"},
	{-0.1667, -0.1666, "\u2009\u2063"},
	{-0.2223, -0.2222, "\u205f\u2063"},
	{-0.2778, -0.2777, "\u2005\u2063"},
}

func newSpaceNode(width float64) *SpaceNode {
	s := &SpaceNode{Width: width}
	for _, c := range spaceCharacters {
		if width >= c.min && width <= c.max {
			s.Character = c.char
			break
		}
	}

	return s
}

func (s *SpaceNode) Render(w io.Writer) error {
	if s.Character != "" {
		_, err := fmt.Fprintf(w, "<mtext>%s</mtext>", s.Character)
		return err
	}

	_, err := fmt.Fprintf(w, `<mspace width="%s"/>`, MakeEm(s.Width))
	return err
}

func (s *SpaceNode) Text() string {
	if s.Character != "" {
		return s.Character
	}

	return " "
}

// MathFragment is a list of siblings without an element around them.
type MathFragment struct {
	Children []MathMLNode
}

func (f *MathFragment) Render(w io.Writer) error {
	for _, child := range f.Children {
		if err := child.Render(w); err != nil {
			return err
		}
	}

	return nil
}

func (f *MathFragment) Text() string {
	var b strings.Builder
	for _, child := range f.Children {
		b.WriteString(child.Text())
	}

	return b.String()
}
