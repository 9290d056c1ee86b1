// Package goldmarkmath renders TeX formulas in markdown documents with KaTeX.
//
// Inline formulas are written as $...$ or \(...\), displayed formulas are
// put between $$ lines:
//
//	md := goldmark.New(goldmark.WithExtensions(goldmarkmath.New(ctx)))
package goldmarkmath

import (
	"github.com/eolymp/go-katex"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Extension adds math parsers and renderer to goldmark.
type Extension struct {
	ctx      *katex.Context
	settings katex.Settings
	memo     *Memo
}

type Option func(e *Extension)

// WithSettings sets render settings. ThrowOnError and DisplayMode are
// controlled by the extension.
func WithSettings(s katex.Settings) Option {
	return func(e *Extension) {
		e.settings = s
	}
}

// WithMemo reuses markup of formulas seen before.
func WithMemo(m *Memo) Option {
	return func(e *Extension) {
		e.memo = m
	}
}

func New(ctx *katex.Context, opts ...Option) *Extension {
	e := &Extension{ctx: ctx, settings: katex.DefaultSettings()}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(NewBlockParser(), 701),
		),
		parser.WithInlineParsers(
			util.Prioritized(NewInlineParser(), 501),
		),
	)

	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewRenderer(e.ctx, e.settings, e.memo), 501),
		),
	)
}
