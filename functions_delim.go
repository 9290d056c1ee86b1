package katex

type delimiterSize struct {
	class AtomType
	size  int
}

var delimiterSizes = map[string]delimiterSize{
	"\\bigl":  {AtomOpen, 1},
	"\\Bigl":  {AtomOpen, 2},
	"\\biggl": {AtomOpen, 3},
	"\\Biggl": {AtomOpen, 4},
	"\\bigr":  {AtomClose, 1},
	"\\Bigr":  {AtomClose, 2},
	"\\biggr": {AtomClose, 3},
	"\\Biggr": {AtomClose, 4},
	"\\bigm":  {AtomRel, 1},
	"\\Bigm":  {AtomRel, 2},
	"\\biggm": {AtomRel, 3},
	"\\Biggm": {AtomRel, 4},
	"\\big":   {AtomOrd, 1},
	"\\Big":   {AtomOrd, 2},
	"\\bigg":  {AtomOrd, 3},
	"\\Bigg":  {AtomOrd, 4},
}

// delimiters which may follow \left, \right, \middle and \big.
var delimiters = map[string]bool{
	"(": true, "\\lparen": true, ")": true, "\\rparen": true,
	"[": true, "\\lbrack": true, "]": true, "\\rbrack": true,
	"\\{": true, "\\lbrace": true, "\\}": true, "\\rbrace": true,
	"\\lfloor": true, "\\rfloor": true, "⌊": true, "⌋": true,
	"\\lceil": true, "\\rceil": true, "⌈": true, "⌉": true,
	"<": true, ">": true, "\\langle": true, "⟨": true, "\\rangle": true, "⟩": true,
	"\\lt": true, "\\gt": true,
	"\\lvert": true, "\\rvert": true, "\\lVert": true, "\\rVert": true,
	"\\lgroup": true, "\\rgroup": true, "⟮": true, "⟯": true,
	"\\lmoustache": true, "\\rmoustache": true, "⎰": true, "⎱": true,
	"/": true, "\\backslash": true,
	"|": true, "\\vert": true, "\\|": true, "\\Vert": true,
	"\\uparrow": true, "\\Uparrow": true, "\\downarrow": true, "\\Downarrow": true,
	"\\updownarrow": true, "\\Updownarrow": true,
	".": true,
}

func checkDelimiter(delim Node, fc FunctionContext) (string, error) {
	text, ok := symbolText(delim)
	if !ok {
		return "", newParseError(ErrInvalidArgument, tokenLoc(fc.Token), "Invalid delimiter type '%s'", delim.Type())
	}

	if !delimiters[text] {
		loc := delim.Info().Loc
		return "", newParseError(ErrInvalidArgument, &loc, "Invalid delimiter '%s' after '%s'", text, fc.Name)
	}

	return text, nil
}

func defineDelimiterFunctions(ctx *Context) {
	names := make([]string, 0, len(delimiterSizes))
	for name := range delimiterSizes {
		names = append(names, name)
	}

	ctx.defineFunction(names, FunctionSpec{
		NumArgs:  1,
		ArgTypes: []ArgType{ArgPrimitive},
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			delim, err := checkDelimiter(args[0], fc)
			if err != nil {
				return nil, err
			}

			size := delimiterSizes[fc.Name]
			return &DelimSizing{Meta: fc.meta(), Size: size.size, Class: size.class, Delim: delim}, nil
		},
	})

	ctx.defineFunction([]string{"\\right"}, FunctionSpec{
		NumArgs:   1,
		Primitive: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			delim, err := checkDelimiter(args[0], fc)
			if err != nil {
				return nil, err
			}

			var color string
			if m, ok := fc.Parser.gullet.Macros.Get("\\current@color").(TextMacro); ok {
				color = string(m)
			}

			return &LeftRightRight{Meta: fc.meta(), Delim: delim, Color: color}, nil
		},
	})

	ctx.defineFunction([]string{"\\left"}, FunctionSpec{
		NumArgs:   1,
		Primitive: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			delim, err := checkDelimiter(args[0], fc)
			if err != nil {
				return nil, err
			}

			p := fc.Parser
			p.leftrightDepth++
			body, err := p.parseExpression(false, "")
			if err != nil {
				return nil, err
			}

			p.leftrightDepth--

			if err := p.expect("\\right", false); err != nil {
				return nil, err
			}

			node, err := p.parseFunction("", "")
			if err != nil {
				return nil, err
			}

			right, ok := node.(*LeftRightRight)
			if !ok {
				return nil, fc.errorf(ErrUnbalancedGroup, "Expected \\right after \\left")
			}

			return &LeftRight{
				Meta:       Meta{Mode: p.mode, Loc: fc.Token.Loc.Span(right.Loc)},
				Left:       delim,
				Right:      right.Delim,
				RightColor: right.Color,
				Body:       body,
			}, nil
		},
	})

	ctx.defineFunction([]string{"\\middle"}, FunctionSpec{
		NumArgs:   1,
		Primitive: true,
		Handler: func(fc FunctionContext, args, _ []Node) (Node, error) {
			delim, err := checkDelimiter(args[0], fc)
			if err != nil {
				return nil, err
			}

			if fc.Parser.leftrightDepth == 0 {
				return nil, fc.errorf(ErrUnbalancedGroup, "\\middle without preceding \\left")
			}

			return &Middle{Meta: fc.meta(), Delim: delim}, nil
		},
	})
}
