/*
Package katex compiles TeX math into HTML and MathML markup compatible with
the KaTeX JavaScript library: same class names, same spacing and sizes.

A Context holds the function registry, the symbol table and the font metrics.
It is built once and can be shared between goroutines:

	ctx, err := katex.NewContext()
	...
	html, err := ctx.RenderToString(`x^2 + \frac{1}{2}`, katex.DefaultSettings())

Diagnostics (strict mode warnings, expansion statistics, glyph fallbacks) are
traced to the keys "katex.parse", "katex.macros" and "katex.build".
*/
package katex

import "github.com/npillmayer/schuko/tracing"

func parseTracer() tracing.Trace {
	return tracing.Select("katex.parse")
}

func macroTracer() tracing.Trace {
	return tracing.Select("katex.macros")
}

func buildTracer() tracing.Trace {
	return tracing.Select("katex.build")
}
