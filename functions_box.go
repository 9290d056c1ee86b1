package katex

import (
	"regexp"
	"strconv"
	"strings"
)

func defineColorFunctions(ctx *Context) {
	ctx.defineFunction([]string{"\\textcolor"}, FunctionSpec{
		NumArgs:       2,
		AllowedInText: true,
		ArgTypes:      []ArgType{ArgColor, ArgOriginal},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Color{Meta: fc.meta(), Color: args[0].(*ColorToken).Color, Body: ordArgument(args[1])}, nil
		},
	})

	// \color applies to the rest of the group, \right picks the color up from \current@color
	ctx.defineFunction([]string{"\\color"}, FunctionSpec{
		NumArgs:       1,
		AllowedInText: true,
		ArgTypes:      []ArgType{ArgColor},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			color := args[0].(*ColorToken).Color
			fc.Parser.gullet.Macros.Set("\\current@color", TextMacro(color), false)

			body, err := fc.Parser.parseExpression(true, fc.BreakOnTokenText)
			if err != nil {
				return nil, err
			}

			return &Color{Meta: fc.meta(), Color: color, Body: body}, nil
		},
	})

	ctx.defineFunction([]string{"\\colorbox"}, FunctionSpec{
		NumArgs:       2,
		AllowedInText: true,
		ArgTypes:      []ArgType{ArgColor, ArgText},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Enclose{Meta: fc.meta(), Label: fc.Name, BackgroundColor: args[0].(*ColorToken).Color, Body: args[1]}, nil
		},
	})

	ctx.defineFunction([]string{"\\fcolorbox"}, FunctionSpec{
		NumArgs:       3,
		AllowedInText: true,
		ArgTypes:      []ArgType{ArgColor, ArgColor, ArgText},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Enclose{
				Meta:            fc.meta(),
				Label:           fc.Name,
				BorderColor:     args[0].(*ColorToken).Color,
				BackgroundColor: args[1].(*ColorToken).Color,
				Body:            args[2],
			}, nil
		},
	})

	ctx.defineFunction([]string{"\\fbox"}, FunctionSpec{
		NumArgs:       1,
		AllowedInText: true,
		ArgTypes:      []ArgType{ArgHBox},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Enclose{Meta: fc.meta(), Label: fc.Name, Body: args[0]}, nil
		},
	})

	ctx.defineFunction([]string{"\\cancel", "\\bcancel", "\\xcancel", "\\sout"}, FunctionSpec{
		NumArgs: 1,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Enclose{Meta: fc.meta(), Label: fc.Name, Body: args[0]}, nil
		},
	})
}

func defineBoxFunctions(ctx *Context) {
	ctx.defineFunction([]string{"\\rule"}, FunctionSpec{
		NumArgs:         2,
		NumOptionalArgs: 1,
		AllowedInText:   true,
		ArgTypes:        []ArgType{ArgSize, ArgSize, ArgSize},
		Handler: func(fc FunctionContext, args, optArgs []Node) (Node, error) {
			rule := &Rule{Meta: fc.meta(), Width: args[0].(*Size).Value, Height: args[1].(*Size).Value}
			if shift, ok := optArgs[0].(*Size); ok {
				rule.Shift = &shift.Value
			}

			return rule, nil
		},
	})

	ctx.defineFunction([]string{"\\raisebox"}, FunctionSpec{
		NumArgs:       2,
		AllowedInText: true,
		ArgTypes:      []ArgType{ArgSize, ArgHBox},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Raisebox{Meta: fc.meta(), Dy: args[0].(*Size).Value, Body: args[1]}, nil
		},
	})

	ctx.defineFunction([]string{"\\phantom"}, FunctionSpec{
		NumArgs:       1,
		AllowedInText: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Phantom{Meta: fc.meta(), Body: ordArgument(args[0])}, nil
		},
	})

	ctx.defineFunction([]string{"\\hphantom"}, FunctionSpec{
		NumArgs:       1,
		AllowedInText: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &HPhantom{Meta: fc.meta(), Body: args[0]}, nil
		},
	})

	ctx.defineFunction([]string{"\\vphantom"}, FunctionSpec{
		NumArgs:       1,
		AllowedInText: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &VPhantom{Meta: fc.meta(), Body: args[0]}, nil
		},
	})

	ctx.defineFunction([]string{"\\mathllap", "\\mathrlap", "\\mathclap"}, FunctionSpec{
		NumArgs:       1,
		AllowedInText: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &Lap{Meta: fc.meta(), Alignment: fc.Name[5:], Body: args[0]}, nil
		},
	})
}

func defineArrowFunctions(ctx *Context) {
	ctx.defineFunction([]string{
		"\\xleftarrow", "\\xrightarrow", "\\xLeftarrow", "\\xRightarrow", "\\xleftrightarrow",
		"\\xLeftrightarrow", "\\xhookleftarrow", "\\xhookrightarrow", "\\xmapsto", "\\xlongequal",
	}, FunctionSpec{
		NumArgs:         1,
		NumOptionalArgs: 1,
		Handler: func(fc FunctionContext, args, optArgs []Node) (Node, error) {
			return &XArrow{Meta: fc.meta(), Label: fc.Name, Body: args[0], Below: optArgs[0]}, nil
		},
	})

	ctx.defineFunction([]string{"\\overbrace", "\\underbrace"}, FunctionSpec{
		NumArgs: 1,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			return &HorizBrace{Meta: fc.meta(), Label: fc.Name, IsOver: strings.HasPrefix(fc.Name, "\\over"), Base: args[0]}, nil
		},
	})
}

func defineLinkFunctions(ctx *Context) {
	ctx.defineFunction([]string{"\\href"}, FunctionSpec{
		NumArgs:       2,
		AllowedInText: true,
		ArgTypes:      []ArgType{ArgURL, ArgOriginal},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			href := args[0].(*URL).URL
			if !fc.Parser.settings.isTrusted(TrustContext{Command: fc.Name, URL: href}) {
				return fc.Parser.unsupported(fc.Name, fc.Token.Loc), nil
			}

			return &Href{Meta: fc.meta(), Href: href, Body: ordArgument(args[1])}, nil
		},
	})

	ctx.defineFunction([]string{"\\url"}, FunctionSpec{
		NumArgs:       1,
		AllowedInText: true,
		ArgTypes:      []ArgType{ArgURL},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			href := args[0].(*URL).URL
			if !fc.Parser.settings.isTrusted(TrustContext{Command: fc.Name, URL: href}) {
				return fc.Parser.unsupported(fc.Name, fc.Token.Loc), nil
			}

			var chars []Node
			for _, r := range href {
				c := string(r)
				if c == "~" {
					c = "\\textasciitilde"
				}

				chars = append(chars, finish(&TextOrd{Meta: Meta{Mode: ModeText, Loc: fc.Token.Loc}, Text: c}))
			}

			body := finish(&Text{Meta: fc.meta(), Font: "\\texttt", Body: chars})
			return &Href{Meta: fc.meta(), Href: href, Body: []Node{body}}, nil
		},
	})

	ctx.defineFunction([]string{"\\includegraphics"}, FunctionSpec{
		NumArgs:         1,
		NumOptionalArgs: 1,
		ArgTypes:        []ArgType{ArgRaw, ArgURL},
		Handler:         includegraphics,
	})
}

var (
	bareNumber     = regexp.MustCompile(`^[-+]? *(\d+(\.\d*)?|\.\d+)$`)
	fileNamePrefix = regexp.MustCompile(`^.*[\\/]`)
)

// graphicsSize reads a dimension of \includegraphics, a bare number is in bp.
func graphicsSize(fc FunctionContext, raw string) (Measurement, error) {
	if bareNumber.MatchString(raw) {
		n, err := strconv.ParseFloat(strings.ReplaceAll(raw, " ", ""), 64)
		if err == nil {
			return Measurement{Number: n, Unit: "bp"}, nil
		}
	}

	m, err := Measure(raw)
	if err != nil {
		return Measurement{}, fc.errorf(ErrInvalidArgument, "Invalid size: '%s' in \\includegraphics", raw)
	}

	return m, nil
}

func includegraphics(fc FunctionContext, args, optArgs []Node) (Node, error) {
	node := &Includegraphics{
		Meta:        fc.meta(),
		Width:       Measurement{Number: 0, Unit: "em"},
		Height:      Measurement{Number: 0.9, Unit: "em"},
		TotalHeight: Measurement{Number: 0, Unit: "em"},
	}

	if raw, ok := optArgs[0].(*Raw); ok {
		attrs, err := KeyValue(raw.String)
		if err != nil {
			return nil, fc.errorf(ErrInvalidArgument, "Invalid options '%s' in \\includegraphics", raw.String)
		}

		for key, value := range attrs {
			var err error
			switch key {
			case "alt":
				node.Alt = value
			case "width":
				node.Width, err = graphicsSize(fc, value)
			case "height":
				node.Height, err = graphicsSize(fc, value)
			case "totalheight":
				node.TotalHeight, err = graphicsSize(fc, value)
			default:
				err = fc.errorf(ErrInvalidArgument, "Invalid key: '%s' in \\includegraphics.", key)
			}

			if err != nil {
				return nil, err
			}
		}
	}

	node.Src = args[0].(*URL).URL
	if node.Alt == "" {
		alt := fileNamePrefix.ReplaceAllString(node.Src, "")
		if dot := strings.LastIndexByte(alt, '.'); dot >= 0 {
			alt = alt[:dot]
		}

		node.Alt = alt
	}

	if !fc.Parser.settings.isTrusted(TrustContext{Command: fc.Name, URL: node.Src}) {
		return fc.Parser.unsupported(fc.Name, fc.Token.Loc), nil
	}

	return node, nil
}

func defineMiscFunctions(ctx *Context) {
	ctx.defineFunction([]string{"\\relax"}, FunctionSpec{
		AllowedInText:     true,
		AllowedInArgument: true,
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			return &Internal{Meta: fc.meta()}, nil
		},
	})

	ctx.defineFunction([]string{"\\verb"}, FunctionSpec{
		AllowedInText: true,
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			return nil, fc.errorf(ErrInvalidArgument, "\\verb ended by end of line instead of matching delimiter")
		},
	})

	ctx.defineFunction([]string{"\\hline", "\\hdashline"}, FunctionSpec{
		AllowedInText: true,
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			return nil, fc.errorf(ErrInvalidEnvironment, "%s valid only within array environment", fc.Name)
		},
	})

	ctx.defineFunction([]string{"\\\\"}, FunctionSpec{
		AllowedInText: true,
		Handler: func(fc FunctionContext, _, _ []Node) (Node, error) {
			p := fc.Parser
			cr := &Cr{Meta: fc.meta()}

			next, err := p.gullet.Future()
			if err != nil {
				return nil, err
			}

			if next.Text == "[" {
				size, err := p.parseSizeGroup(true)
				if err != nil {
					return nil, err
				}

				if s, ok := size.(*Size); ok {
					cr.Size = &s.Value
				}
			}

			cr.NewLine = !p.settings.DisplayMode ||
				!p.settings.useStrictBehavior("newLineInDisplayMode", "In LaTeX, \\\\ or \\newline does nothing in display mode", tokenLoc(fc.Token))
			return cr, nil
		},
	})

	ctx.defineFunction([]string{"\\begin", "\\end"}, FunctionSpec{
		NumArgs:  1,
		ArgTypes: []ArgType{ArgText},
		Handler:  beginEnd,
	})
}

func beginEnd(fc FunctionContext, args, _ []Node) (Node, error) {
	group, ok := args[0].(*OrdGroup)
	if !ok {
		return nil, fc.errorf(ErrInvalidEnvironment, "Invalid environment name")
	}

	var name strings.Builder
	for _, n := range group.Body {
		t, ok := n.(*TextOrd)
		if !ok {
			return nil, fc.errorf(ErrInvalidEnvironment, "Invalid environment name")
		}

		name.WriteString(t.Text)
	}

	envName := name.String()
	if fc.Name == "\\end" {
		return &Environment{Meta: fc.meta(), Name: envName}, nil
	}

	p := fc.Parser
	env, ok := p.ctx.environments[envName]
	if !ok {
		return nil, fc.errorf(ErrInvalidEnvironment, "No such environment: %s", envName)
	}

	if p.mode == ModeText && !env.AllowedInText {
		return nil, fc.errorf(ErrInvalidMode, "Can't use environment '%s' in text mode", envName)
	}

	envArgs, envOptArgs, err := p.parseArguments("\\begin{"+envName+"}", env.NumArgs, env.NumOptionalArgs, env.ArgTypes, false)
	if err != nil {
		return nil, err
	}

	result, err := env.Handler(EnvContext{Name: envName, Mode: p.mode, Parser: p, Token: fc.Token}, envArgs, envOptArgs)
	if err != nil {
		return nil, err
	}

	if err := p.expect("\\end", false); err != nil {
		return nil, err
	}

	endTok, err := p.fetch()
	if err != nil {
		return nil, err
	}

	node, err := p.parseFunction("", "")
	if err != nil {
		return nil, err
	}

	end, ok := node.(*Environment)
	if !ok || end.Name != envName {
		endName := ""
		if ok {
			endName = end.Name
		}

		return nil, newParseError(ErrInvalidEnvironment, tokenLoc(endTok), "Mismatch: \\begin{%s} matched by \\end{%s}", envName, endName)
	}

	return result, nil
}
