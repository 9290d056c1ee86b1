package katex

import (
	"strconv"
	"strings"
)

// normalizeArgument unwraps a group holding exactly one node.
func normalizeArgument(n Node) Node {
	if g, ok := n.(*OrdGroup); ok && len(g.Body) == 1 {
		return g.Body[0]
	}

	return n
}

// symbolText returns the text of a symbol node.
func symbolText(n Node) (string, bool) {
	switch n := n.(type) {
	case *MathOrd:
		return n.Text, true
	case *TextOrd:
		return n.Text, true
	case *Atom:
		return n.Text, true
	case *Spacing:
		return n.Text, true
	case *AccentToken:
		return n.Text, true
	case *OpToken:
		return n.Text, true
	}

	return "", false
}

// baseElem finds the innermost node of single element wrappers.
func baseElem(n Node) Node {
	switch g := n.(type) {
	case *OrdGroup:
		if len(g.Body) == 1 {
			return baseElem(g.Body[0])
		}
	case *Color:
		if len(g.Body) == 1 {
			return baseElem(g.Body[0])
		}
	case *Font:
		return baseElem(g.Body)
	}

	return n
}

// isCharacterBox reports whether the node renders as a single character.
func isCharacterBox(n Node) bool {
	_, ok := symbolText(baseElem(n))
	return ok
}

// binrelClass is the class \mathbin-like wrappers inherit from their content.
func binrelClass(arg Node) AtomType {
	atom := arg
	if g, ok := arg.(*OrdGroup); ok && len(g.Body) > 0 {
		atom = g.Body[0]
	}

	if a, ok := atom.(*Atom); ok && (a.Family == AtomBin || a.Family == AtomRel) {
		return a.Family
	}

	return AtomOrd
}

func defineSymbolFunctions(ctx *Context) {
	ctx.defineFunction([]string{"\\mathord", "\\mathbin", "\\mathrel", "\\mathopen", "\\mathclose", "\\mathpunct", "\\mathinner"}, FunctionSpec{
		NumArgs:   1,
		Primitive: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &MClass{
				Meta:           fc.meta(),
				Class:          atomFromClass("m" + fc.Name[5:]),
				Body:           ordArgument(args[0]),
				IsCharacterBox: isCharacterBox(args[0]),
			}, nil
		},
	})

	ctx.defineFunction([]string{"\\stackrel", "\\overset", "\\underset"}, FunctionSpec{
		NumArgs: 2,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			base, shifted := args[1], args[0]

			class := AtomRel
			if fc.Name != "\\stackrel" {
				class = binrelClass(base)
			}

			op := finish(&Op{
				Meta:               Meta{Mode: base.Info().Mode},
				Limits:             true,
				AlwaysHandleSupSub: true,
				SuppressBaseShift:  fc.Name != "\\stackrel",
				Body:               ordArgument(base),
			})

			supsub := &SupSub{Meta: Meta{Mode: shifted.Info().Mode}, Base: op, Sup: shifted}
			if fc.Name == "\\underset" {
				supsub.Sup, supsub.Sub = nil, shifted
			}

			finish(supsub)
			return &MClass{Meta: fc.meta(), Class: class, Body: []Node{supsub}, IsCharacterBox: isCharacterBox(supsub)}, nil
		},
	})
}

var styleNamesByIndex = [...]string{"display", "text", "script", "scriptscript"}

func defineFracFunctions(ctx *Context) {
	ctx.defineFunction([]string{"\\dfrac", "\\frac", "\\tfrac", "\\dbinom", "\\binom", "\\tbinom", "\\\\atopfrac", "\\\\bracefrac", "\\\\brackfrac"}, FunctionSpec{
		NumArgs:           2,
		AllowedInArgument: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			frac := &GenFrac{Meta: fc.meta(), Numer: args[0], Denom: args[1], Size: "auto"}

			switch fc.Name {
			case "\\dfrac", "\\frac", "\\tfrac":
				frac.HasBarLine = true
			case "\\dbinom", "\\binom", "\\tbinom":
				frac.LeftDelim, frac.RightDelim = "(", ")"
			case "\\\\bracefrac":
				frac.LeftDelim, frac.RightDelim = "\\{", "\\}"
			case "\\\\brackfrac":
				frac.LeftDelim, frac.RightDelim = "[", "]"
			}

			switch fc.Name {
			case "\\dfrac", "\\dbinom":
				frac.Size = "display"
			case "\\tfrac", "\\tbinom":
				frac.Size = "text"
			}

			return frac, nil
		},
	})

	ctx.defineFunction([]string{"\\cfrac"}, FunctionSpec{
		NumArgs: 2,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &GenFrac{Meta: fc.meta(), Numer: args[0], Denom: args[1], HasBarLine: true, Continued: true, Size: "display"}, nil
		},
	})

	infix := map[string]string{
		"\\over":   "\\frac",
		"\\choose": "\\binom",
		"\\atop":   "\\\\atopfrac",
		"\\brace":  "\\\\bracefrac",
		"\\brack":  "\\\\brackfrac",
	}

	ctx.defineFunction([]string{"\\over", "\\choose", "\\atop", "\\brace", "\\brack"}, FunctionSpec{
		Infix: true,
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			return &Infix{Meta: fc.meta(), ReplaceWith: infix[fc.Name], Token: fc.Token}, nil
		},
	})

	ctx.defineFunction([]string{"\\genfrac"}, FunctionSpec{
		NumArgs:           6,
		AllowedInArgument: true,
		ArgTypes:          []ArgType{ArgMath, ArgMath, ArgSize, ArgText, ArgMath, ArgMath},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			frac := &GenFrac{Meta: fc.meta(), Numer: args[4], Denom: args[5], Size: "auto"}

			if a, ok := normalizeArgument(args[0]).(*Atom); ok && a.Family == AtomOpen {
				frac.LeftDelim = delimFromValue(a.Text)
			}

			if a, ok := normalizeArgument(args[1]).(*Atom); ok && a.Family == AtomClose {
				frac.RightDelim = delimFromValue(a.Text)
			}

			bar := args[2].(*Size)
			if bar.IsBlank {
				frac.HasBarLine = true
			} else {
				size := bar.Value
				frac.BarSize = &size
				frac.HasBarLine = size.Number > 0
			}

			style := args[3]
			if g, ok := style.(*OrdGroup); ok {
				style = nil
				if len(g.Body) > 0 {
					style = g.Body[0]
				}
			}

			if style != nil {
				t, ok := style.(*TextOrd)
				if !ok {
					return nil, fc.errorf(ErrInvalidArgument, "Expected a style number in \\genfrac")
				}

				n, err := strconv.Atoi(t.Text)
				if err != nil || n < 0 || n > 3 {
					return nil, fc.errorf(ErrInvalidArgument, "Invalid style '%s' in \\genfrac", t.Text)
				}

				frac.Size = styleNamesByIndex[n]
			}

			return frac, nil
		},
	})

	ctx.defineFunction([]string{"\\above"}, FunctionSpec{
		NumArgs:  1,
		ArgTypes: []ArgType{ArgSize},
		Infix:    true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			size := args[0].(*Size).Value
			return &Infix{Meta: fc.meta(), ReplaceWith: "\\\\abovefrac", Size: &size, Token: fc.Token}, nil
		},
	})

	ctx.defineFunction([]string{"\\\\abovefrac"}, FunctionSpec{
		NumArgs:  3,
		ArgTypes: []ArgType{ArgMath, ArgSize, ArgMath},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			infix, ok := args[1].(*Infix)
			if !ok || infix.Size == nil {
				return nil, fc.errorf(ErrInvalidArgument, "Expected a bar size in \\above")
			}

			return &GenFrac{
				Meta:       fc.meta(),
				Numer:      args[0],
				Denom:      args[2],
				HasBarLine: infix.Size.Number > 0,
				BarSize:    infix.Size,
				Size:       "auto",
			}, nil
		},
	})
}

func delimFromValue(delim string) string {
	if delim == "." {
		return ""
	}

	return delim
}

func defineSqrtFunctions(ctx *Context) {
	ctx.defineFunction([]string{"\\sqrt"}, FunctionSpec{
		NumArgs:         1,
		NumOptionalArgs: 1,
		Handler: func(fc FunctionContext, args, optArgs []Node) (Node, error) {
			return &Sqrt{Meta: fc.meta(), Body: args[0], Index: optArgs[0]}, nil
		},
	})
}

// nonStretchyAccents keep the width of their glyph.
var nonStretchyAccents = map[string]bool{
	"\\acute": true, "\\grave": true, "\\ddot": true, "\\tilde": true, "\\bar": true, "\\breve": true,
	"\\check": true, "\\hat": true, "\\vec": true, "\\dot": true, "\\mathring": true,
}

func defineAccentFunctions(ctx *Context) {
	ctx.defineFunction([]string{
		"\\acute", "\\grave", "\\ddot", "\\tilde", "\\bar", "\\breve", "\\check", "\\hat", "\\vec", "\\dot", "\\mathring",
		"\\widecheck", "\\widehat", "\\widetilde", "\\overrightarrow", "\\overleftarrow", "\\Overrightarrow",
		"\\overleftrightarrow", "\\overlinesegment", "\\overleftharpoon", "\\overrightharpoon",
	}, FunctionSpec{
		NumArgs: 1,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			stretchy := !nonStretchyAccents[fc.Name]
			shifty := !stretchy || fc.Name == "\\widehat" || fc.Name == "\\widetilde" || fc.Name == "\\widecheck"

			return &Accent{
				Meta:       fc.meta(),
				Label:      fc.Name,
				IsStretchy: stretchy,
				IsShifty:   shifty,
				Base:       normalizeArgument(args[0]),
			}, nil
		},
	})

	ctx.defineFunction([]string{"\\'", "\\`", "\\^", "\\~", "\\=", "\\u", "\\.", "\\\"", "\\r", "\\H", "\\v"}, FunctionSpec{
		NumArgs:       1,
		ArgTypes:      []ArgType{ArgPrimitive},
		AllowedInText: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			meta := fc.meta()
			if meta.Mode == ModeMath {
				msg := "LaTeX's accent " + fc.Name + " works only in text mode"
				if err := fc.Parser.settings.reportNonstrict("mathVsTextAccents", msg, tokenLoc(fc.Token)); err != nil {
					return nil, err
				}

				meta.Mode = ModeText
			}

			return &Accent{Meta: meta, Label: fc.Name, IsShifty: true, Base: args[0]}, nil
		},
	})

	ctx.defineFunction([]string{"\\underleftarrow", "\\underrightarrow", "\\underleftrightarrow", "\\underlinesegment", "\\utilde"}, FunctionSpec{
		NumArgs: 1,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &AccentUnder{Meta: fc.meta(), Label: fc.Name, IsStretchy: true, Base: args[0]}, nil
		},
	})
}

func defineLineFunctions(ctx *Context) {
	ctx.defineFunction([]string{"\\overline"}, FunctionSpec{
		NumArgs: 1,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Overline{Meta: fc.meta(), Body: args[0]}, nil
		},
	})

	ctx.defineFunction([]string{"\\underline"}, FunctionSpec{
		NumArgs:       1,
		AllowedInText: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Underline{Meta: fc.meta(), Body: args[0]}, nil
		},
	})
}

var sizeFuncs = []string{
	"\\tiny", "\\sixptsize", "\\scriptsize", "\\footnotesize", "\\small",
	"\\normalsize", "\\large", "\\Large", "\\LARGE", "\\huge", "\\Huge",
}

func defineStyleFunctions(ctx *Context) {
	ctx.defineFunction(sizeFuncs, FunctionSpec{
		AllowedInText: true,
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			body, err := fc.Parser.parseExpression(false, fc.BreakOnTokenText)
			if err != nil {
				return nil, err
			}

			size := 0
			for i, name := range sizeFuncs {
				if name == fc.Name {
					size = i + 1
				}
			}

			return &Sizing{Meta: fc.meta(), Size: size, Body: body}, nil
		},
	})

	ctx.defineFunction([]string{"\\displaystyle", "\\textstyle", "\\scriptstyle", "\\scriptscriptstyle"}, FunctionSpec{
		AllowedInText: true,
		Primitive:     true,
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			body, err := fc.Parser.parseExpression(true, fc.BreakOnTokenText)
			if err != nil {
				return nil, err
			}

			return &Styling{Meta: fc.meta(), Style: strings.TrimSuffix(fc.Name[1:], "style"), Body: body}, nil
		},
	})
}

var fontAliases = map[string]string{
	"\\Bbb":  "\\mathbb",
	"\\bold": "\\mathbf",
	"\\frak": "\\mathfrak",
	"\\bm":   "\\boldsymbol",
}

func defineFontFunctions(ctx *Context) {
	ctx.defineFunction([]string{
		"\\mathrm", "\\mathit", "\\mathbf", "\\mathnormal", "\\mathsfit",
		"\\mathbb", "\\mathcal", "\\mathfrak", "\\mathscr", "\\mathsf", "\\mathtt",
		"\\Bbb", "\\bold", "\\frak",
	}, FunctionSpec{
		NumArgs:           1,
		AllowedInArgument: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			name := fc.Name
			if alias, ok := fontAliases[name]; ok {
				name = alias
			}

			return &Font{Meta: fc.meta(), Font: name[1:], Body: normalizeArgument(args[0])}, nil
		},
	})

	ctx.defineFunction([]string{"\\boldsymbol", "\\bm"}, FunctionSpec{
		NumArgs: 1,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			font := finish(&Font{Meta: fc.meta(), Font: "boldsymbol", Body: args[0]})
			return &MClass{
				Meta:           fc.meta(),
				Class:          binrelClass(args[0]),
				Body:           []Node{font},
				IsCharacterBox: isCharacterBox(args[0]),
			}, nil
		},
	})

	// old style switches apply to the rest of the group
	ctx.defineFunction([]string{"\\rm", "\\sf", "\\tt", "\\bf", "\\it", "\\cal"}, FunctionSpec{
		AllowedInText: true,
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			body, err := fc.Parser.parseExpression(true, fc.BreakOnTokenText)
			if err != nil {
				return nil, err
			}

			group := finish(&OrdGroup{Meta: fc.meta(), Body: body})
			return &Font{Meta: fc.meta(), Font: "math" + fc.Name[1:], Body: group}, nil
		},
	})
}

func defineTextFunctions(ctx *Context) {
	ctx.defineFunction([]string{
		"\\text", "\\textrm", "\\textsf", "\\texttt", "\\textnormal",
		"\\textbf", "\\textmd", "\\textit", "\\textup", "\\emph",
	}, FunctionSpec{
		NumArgs:           1,
		ArgTypes:          []ArgType{ArgText},
		AllowedInArgument: true,
		AllowedInText:     true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Text{Meta: fc.meta(), Font: fc.Name, Body: ordArgument(args[0])}, nil
		},
	})

	ctx.defineFunction([]string{"\\(", "$"}, FunctionSpec{
		AllowedInText: true,
		TextOnly:      true,
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			p := fc.Parser
			outer := p.mode
			closing := "$"
			if fc.Name == "\\(" {
				closing = "\\)"
			}

			p.switchMode(ModeMath)
			body, err := p.parseExpression(false, closing)
			if err != nil {
				return nil, err
			}

			if err := p.expect(closing, true); err != nil {
				return nil, err
			}

			p.switchMode(outer)
			return &Styling{Meta: Meta{Mode: outer, Loc: fc.Token.Loc}, Style: "text", Body: body}, nil
		},
	})

	ctx.defineFunction([]string{"\\)", "\\]"}, FunctionSpec{
		AllowedInText: true,
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			return nil, fc.errorf(ErrUnbalancedGroup, "Mismatched %s", fc.Name)
		},
	})
}

func defineSpacingFunctions(ctx *Context) {
	ctx.defineFunction([]string{"\\kern", "\\mkern", "\\hskip", "\\mskip"}, FunctionSpec{
		NumArgs:       1,
		ArgTypes:      []ArgType{ArgSize},
		AllowedInText: true,
		Primitive:     true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			size := args[0].(*Size).Value
			settings := fc.Parser.settings
			loc := tokenLoc(fc.Token)

			mathFunction := fc.Name[1] == 'm'
			mu := size.Unit == "mu"

			var msgs []string
			switch {
			case mathFunction && !mu:
				msgs = append(msgs, "LaTeX's "+fc.Name+" supports only mu units, not "+size.Unit+" units")
			case !mathFunction && mu:
				msgs = append(msgs, "LaTeX's "+fc.Name+" doesn't support mu units")
			}

			if mathFunction && fc.Parser.mode != ModeMath {
				msgs = append(msgs, "LaTeX's "+fc.Name+" works only in math mode")
			}

			for _, msg := range msgs {
				if err := settings.reportNonstrict("mathVsTextUnits", msg, loc); err != nil {
					return nil, err
				}
			}

			return &Kern{Meta: fc.meta(), Dimension: size}, nil
		},
	})
}
