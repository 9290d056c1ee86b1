package katex

import (
	"bytes"
	"errors"
	"io"
)

// Parse returns the syntax tree of expr.
func (ctx *Context) Parse(expr string, s Settings) ([]Node, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return NewParser(ctx, expr, &s).Parse()
}

// BuildHTML lays out a parsed tree as the katex-html span.
func (ctx *Context) BuildHTML(tree []Node, s Settings) (*Span, error) {
	return newHTMLBuilder(ctx, &s).buildHTML(tree, newOptions(&s))
}

// BuildMathML builds the katex-mathml span, expr is kept as the annotation.
func (ctx *Context) BuildMathML(tree []Node, expr string, s Settings) (*Span, error) {
	return newMathMLBuilder(ctx, &s).buildMathML(tree, expr, newOptions(&s), false)
}

// build produces the complete katex span for the requested outputs.
func (ctx *Context) build(tree []Node, expr string, s Settings) (*Span, error) {
	options := newOptions(&s)

	var children []HTMLNode
	switch s.Output {
	case OutputMathML:
		return newMathMLBuilder(ctx, &s).buildMathML(tree, expr, options, true)
	case OutputHTMLAndMathML:
		mathml, err := newMathMLBuilder(ctx, &s).buildMathML(tree, expr, options, false)
		if err != nil {
			return nil, err
		}

		children = append(children, mathml)
	}

	html, err := newHTMLBuilder(ctx, &s).buildHTML(tree, options)
	if err != nil {
		return nil, err
	}

	node := makeSpan([]string{"katex"}, append(children, html), nil)
	if !s.DisplayMode {
		return node, nil
	}

	classes := []string{"katex-display"}
	if s.Leqno {
		classes = append(classes, "leqno")
	}

	if s.Fleqn {
		classes = append(classes, "fleqn")
	}

	return makeSpan(classes, []HTMLNode{node}, nil), nil
}

// isSourceError reports whether err comes from reading the input, such
// errors can be shown in place of the formula.
func isSourceError(err error) bool {
	var parseErr *ParseError
	var lexErr *LexError
	var macroErr *MacroError
	return errors.As(err, &parseErr) || errors.As(err, &lexErr) || errors.As(err, &macroErr)
}

// renderError shows the source in the error color with the message as its title.
func renderError(err error, expr string, s Settings) *Span {
	node := makeSpan([]string{"katex-error"}, []HTMLNode{&Glyph{Text: expr}}, nil)
	node.Attributes.Set("title", "ParseError: "+err.Error())
	node.Attributes.Set("style", "color:"+s.ErrorColor)
	return node
}

// RenderToDOM compiles expr into the layout tree. Unless ThrowOnError is
// set, errors in the source produce an error span instead.
func (ctx *Context) RenderToDOM(expr string, s Settings) (*Span, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	tree, err := NewParser(ctx, expr, &s).Parse()
	if err == nil {
		var node *Span
		if node, err = ctx.build(tree, expr, s); err == nil {
			return node, nil
		}
	}

	if s.ThrowOnError || !isSourceError(err) {
		return nil, err
	}

	buildTracer().Debugf("rendering error in place: %v", err)
	return renderError(err, expr, s), nil
}

// Render writes the markup of expr to w.
func (ctx *Context) Render(w io.Writer, expr string, s Settings) error {
	node, err := ctx.RenderToDOM(expr, s)
	if err != nil {
		return err
	}

	return node.Render(w)
}

// RenderToString compiles expr into HTML markup.
func (ctx *Context) RenderToString(expr string, s Settings) (string, error) {
	var buf bytes.Buffer
	if err := ctx.Render(&buf, expr, s); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RenderToString is a shortcut for ctx.RenderToString.
func RenderToString(ctx *Context, expr string, s Settings) (string, error) {
	return ctx.RenderToString(expr, s)
}
