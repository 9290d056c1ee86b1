package goldmarkmath

import (
	"github.com/eolymp/go-katex"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Renderer writes math nodes as KaTeX markup.
type Renderer struct {
	ctx      *katex.Context
	settings katex.Settings
	memo     *Memo
}

// NewRenderer returns a renderer for math nodes. Formulas are never fatal:
// errors in them are rendered in place.
func NewRenderer(ctx *katex.Context, settings katex.Settings, memo *Memo) *Renderer {
	settings.ThrowOnError = false
	return &Renderer{ctx: ctx, settings: settings, memo: memo}
}

func (r *Renderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindInline, r.renderInline)
	reg.Register(KindBlock, r.renderBlock)
}

func (r *Renderer) renderInline(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.write(w, n.(*Inline).TeX, false)
	}

	return ast.WalkSkipChildren, nil
}

func (r *Renderer) renderBlock(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.write(w, n.(*Block).TeX(source), true)
		_ = w.WriteByte('\n')
	}

	return ast.WalkSkipChildren, nil
}

func (r *Renderer) write(w util.BufWriter, tex string, display bool) {
	_, _ = w.WriteString(r.Render(tex, display))
}

// Render returns the markup of a formula, taking it from the memo when possible.
func (r *Renderer) Render(tex string, display bool) string {
	if r.memo != nil {
		if html, ok := r.memo.Get(display, tex); ok {
			return html
		}
	}

	settings := r.settings
	settings.DisplayMode = display

	html, err := r.ctx.RenderToString(tex, settings)
	if err != nil {
		// not a source error, settings or metrics are broken
		return `<span class="katex-error">` + string(util.EscapeHTML([]byte(tex))) + `</span>`
	}

	if r.memo != nil {
		r.memo.Put(display, tex, html)
	}

	return html
}
