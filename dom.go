package katex

import (
	"fmt"
	"io"
	"strings"
)

type property struct {
	Name  string
	Value string
}

// CSS is an inline style. Properties keep the order they were first set in,
// names are camel case and get dashed on output.
type CSS []property

func (c *CSS) Set(name, value string) {
	for i, p := range *c {
		if p.Name == name {
			(*c)[i].Value = value
			return
		}
	}

	*c = append(*c, property{Name: name, Value: value})
}

func (c CSS) Get(name string) string {
	for _, p := range c {
		if p.Name == name {
			return p.Value
		}
	}

	return ""
}

func (c CSS) String() string {
	var b strings.Builder
	for _, p := range c {
		b.WriteString(hyphenate(p.Name))
		b.WriteByte(':')
		b.WriteString(p.Value)
		b.WriteByte(';')
	}

	return b.String()
}

// Attributes are element attributes in insertion order.
type Attributes []property

func (a *Attributes) Set(name, value string) {
	for i, p := range *a {
		if p.Name == name {
			(*a)[i].Value = value
			return
		}
	}

	*a = append(*a, property{Name: name, Value: value})
}

func (a Attributes) Get(name string) string {
	for _, p := range a {
		if p.Name == name {
			return p.Value
		}
	}

	return ""
}

// Box holds what every node of the layout tree has: classes, inline style
// and its vertical extent in ems.
type Box struct {
	Classes     []string
	Height      float64
	Depth       float64
	Width       float64
	MaxFontSize float64
	Style       CSS
}

func (b *Box) box() *Box { return b }

func (b *Box) HasClass(class string) bool {
	for _, c := range b.Classes {
		if c == class {
			return true
		}
	}

	return false
}

func (b *Box) AddClass(classes ...string) {
	b.Classes = append(b.Classes, classes...)
}

func (b *Box) className() string {
	parts := make([]string, 0, len(b.Classes))
	for _, c := range b.Classes {
		if c != "" {
			parts = append(parts, c)
		}
	}

	return strings.Join(parts, " ")
}

// HTMLNode is a node of the layout tree.
type HTMLNode interface {
	box() *Box
	Render(w io.Writer) error
}

// Span is a <span>, the building block of the layout.
type Span struct {
	Box
	Attributes Attributes
	Children   []HTMLNode
}

func (s *Span) Render(w io.Writer) error {
	return renderElement(w, "span", &s.Box, s.Attributes, s.Children)
}

// Anchor is a link around its children.
type Anchor struct {
	Box
	Href       string
	Attributes Attributes
	Children   []HTMLNode
}

func (a *Anchor) Render(w io.Writer) error {
	attrs := append(Attributes{{Name: "href", Value: a.Href}}, a.Attributes...)
	return renderElement(w, "a", &a.Box, attrs, a.Children)
}

// Img is an external image from \includegraphics.
type Img struct {
	Box
	Src string
	Alt string
}

func (i *Img) Render(w io.Writer) error {
	if _, err := fmt.Fprintf(w, `<img src="%s" alt="%s"`, escapeHTML(i.Src), escapeHTML(i.Alt)); err != nil {
		return err
	}

	if len(i.Style) > 0 {
		if _, err := fmt.Fprintf(w, ` style="%s"`, escapeHTML(i.Style.String())); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "/>")
	return err
}

// Fragment groups nodes without adding an element around them.
type Fragment struct {
	Box
	Children []HTMLNode
}

func (f *Fragment) Render(w io.Writer) error {
	return renderChildren(w, f.Children)
}

// Glyph is a single symbol with its metrics. It renders as bare text unless
// it needs classes or style.
type Glyph struct {
	Box
	Text   string
	Italic float64
	Skew   float64
}

func (s *Glyph) Render(w io.Writer) error {
	styles := ""
	if s.Italic > 0 {
		styles = "margin-right:" + MakeEm(s.Italic) + ";"
	}

	styles += s.Style.String()

	class := s.className()
	if class == "" && styles == "" {
		_, err := fmt.Fprint(w, escapeHTML(s.Text))
		return err
	}

	if _, err := fmt.Fprint(w, "<span"); err != nil {
		return err
	}

	if class != "" {
		if _, err := fmt.Fprintf(w, ` class="%s"`, escapeHTML(class)); err != nil {
			return err
		}
	}

	if styles != "" {
		if _, err := fmt.Fprintf(w, ` style="%s"`, escapeHTML(styles)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, ">%s</span>", escapeHTML(s.Text))
	return err
}

// SVGNode is an element inside an <svg>: a path or a line.
type SVGNode interface {
	Render(w io.Writer) error
}

// SVG is an inline vector image for radicals, stretchy arrows and braces.
type SVG struct {
	Box
	Attributes Attributes
	Children   []SVGNode
}

func (s *SVG) Render(w io.Writer) error {
	if _, err := fmt.Fprint(w, `<svg xmlns="http://www.w3.org/2000/svg"`); err != nil {
		return err
	}

	for _, a := range s.Attributes {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeHTML(a.Value)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprint(w, ">"); err != nil {
		return err
	}

	for _, child := range s.Children {
		if err := child.Render(w); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "</svg>")
	return err
}

// PathNode is a <path> with its outline data.
type PathNode struct {
	Name string
	Data string
}

func (p *PathNode) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, `<path d="%s"/>`, escapeHTML(p.Data))
	return err
}

// LineNode is a <line>, used for the slanted strokes of \cancel.
type LineNode struct {
	Attributes Attributes
}

func (l *LineNode) Render(w io.Writer) error {
	if _, err := fmt.Fprint(w, "<line"); err != nil {
		return err
	}

	for _, a := range l.Attributes {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeHTML(a.Value)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprint(w, "/>")
	return err
}

func renderElement(w io.Writer, tag string, b *Box, attrs Attributes, children []HTMLNode) error {
	if _, err := fmt.Fprint(w, "<", tag); err != nil {
		return err
	}

	if class := b.className(); class != "" {
		if _, err := fmt.Fprintf(w, ` class="%s"`, escapeHTML(class)); err != nil {
			return err
		}
	}

	if len(b.Style) > 0 {
		if _, err := fmt.Fprintf(w, ` style="%s"`, escapeHTML(b.Style.String())); err != nil {
			return err
		}
	}

	for _, a := range attrs {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeHTML(a.Value)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprint(w, ">"); err != nil {
		return err
	}

	if err := renderChildren(w, children); err != nil {
		return err
	}

	_, err := fmt.Fprint(w, "</", tag, ">")
	return err
}

func renderChildren(w io.Writer, children []HTMLNode) error {
	for _, child := range children {
		if err := child.Render(w); err != nil {
			return err
		}
	}

	return nil
}
