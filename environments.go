package katex

import (
	"strconv"
	"strings"
)

// arrayOptions configures parseArray for the different environments.
type arrayOptions struct {
	cols                []AlignSpec
	hskipBeforeAndAfter bool
	addJot              bool
	arrayStretch        float64
	colSeparation       string
	singleRow           bool
	emptySingleRow      bool
	maxNumCols          int
}

// hlines reads \hline and \hdashline commands at the start of a row.
func (p *Parser) hlines() ([]bool, error) {
	var lines []bool

	next := func() (string, error) {
		if err := p.consumeSpaces(); err != nil {
			return "", err
		}

		tok, err := p.fetch()
		return tok.Text, err
	}

	text, err := next()
	if err != nil {
		return nil, err
	}

	if text == "\\relax" {
		p.consume()
		if text, err = next(); err != nil {
			return nil, err
		}
	}

	for text == "\\hline" || text == "\\hdashline" {
		p.consume()
		lines = append(lines, text == "\\hdashline")

		if text, err = next(); err != nil {
			return nil, err
		}
	}

	return lines, nil
}

// parseArray parses the body of an environment into rows of cells. Every
// cell is its own group, style wraps cells in a styling node.
func (p *Parser) parseArray(opts arrayOptions, style string) (*Array, error) {
	p.gullet.BeginGroup()
	if !opts.singleRow {
		p.gullet.Macros.Set("\\cr", TextMacro("\\\\\\relax"), false)
	}

	stretch := opts.arrayStretch
	if stretch == 0 {
		text, ok, err := p.gullet.ExpandMacroAsText("\\arraystretch")
		if err != nil {
			return nil, err
		}

		stretch = 1
		if ok {
			v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
			if err != nil || v <= 0 {
				return nil, newParseError(ErrInvalidArgument, nil, "Invalid \\arraystretch: %s", text)
			}

			stretch = v
		}
	}

	p.gullet.BeginGroup()

	row := []Node{}
	body := [][]Node{}
	var rowGaps []*Measurement

	lines, err := p.hlines()
	if err != nil {
		return nil, err
	}

	hlines := [][]bool{lines}

	breakOn := "\\\\"
	if opts.singleRow {
		breakOn = "\\end"
	}

	for {
		cellBody, err := p.parseExpression(false, breakOn)
		if err != nil {
			return nil, err
		}

		if err := p.gullet.EndGroup(); err != nil {
			return nil, err
		}

		p.gullet.BeginGroup()

		var cell Node = finish(&OrdGroup{Meta: p.meta(), Body: cellBody})
		if style != "" {
			cell = finish(&Styling{Meta: p.meta(), Style: style, Body: []Node{cell}})
		}

		row = append(row, cell)

		next, err := p.fetch()
		if err != nil {
			return nil, err
		}

		switch next.Text {
		case "&":
			if opts.maxNumCols > 0 && len(row) == opts.maxNumCols {
				if opts.singleRow || opts.colSeparation != "" {
					return nil, newParseError(ErrInvalidEnvironment, tokenLoc(next), "Too many tab characters: &")
				}

				if err := p.settings.reportNonstrict("textEnv", "Too few columns specified in the {array} column argument.", tokenLoc(next)); err != nil {
					return nil, err
				}
			}

			p.consume()
			continue
		case "\\end":
			body = append(body, row)

			// a trailing \\ leaves an empty row behind
			if len(row) == 1 && len(cellBody) == 0 && (len(body) > 1 || !opts.emptySingleRow) {
				body = body[:len(body)-1]
			}

			if len(hlines) < len(body)+1 {
				hlines = append(hlines, nil)
			}
		case "\\\\":
			p.consume()

			future, err := p.gullet.Future()
			if err != nil {
				return nil, err
			}

			var gap *Measurement
			if future.Text != " " {
				size, err := p.parseSizeGroup(true)
				if err != nil {
					return nil, err
				}

				if s, ok := size.(*Size); ok {
					gap = &s.Value
				}
			}

			rowGaps = append(rowGaps, gap)
			body = append(body, row)

			lines, err := p.hlines()
			if err != nil {
				return nil, err
			}

			hlines = append(hlines, lines)
			row = []Node{}
			continue
		default:
			return nil, newParseError(ErrInvalidEnvironment, tokenLoc(next), "Expected & or \\\\ or \\cr or \\end")
		}

		break
	}

	if err := p.gullet.EndGroup(); err != nil {
		return nil, err
	}

	if err := p.gullet.EndGroup(); err != nil {
		return nil, err
	}

	return &Array{
		Meta:                p.meta(),
		Cols:                opts.cols,
		ArrayStretch:        stretch,
		AddJot:              opts.addJot,
		RowGaps:             rowGaps,
		HLinesBeforeRow:     hlines,
		Body:                body,
		ColSeparation:       opts.colSeparation,
		HSkipBeforeAndAfter: opts.hskipBeforeAndAfter,
	}, nil
}

// cellStyle is display for the d-prefixed environments (dcases, darray).
func cellStyle(env string) string {
	if strings.HasPrefix(env, "d") {
		return "display"
	}

	return "text"
}

var matrixDelimiters = map[string][2]string{
	"pmatrix": {"(", ")"},
	"bmatrix": {"[", "]"},
	"Bmatrix": {"\\{", "\\}"},
	"vmatrix": {"|", "|"},
	"Vmatrix": {"\\Vert", "\\Vert"},
}

func defineEnvironments(ctx *Context) {
	ctx.defineEnvironment([]string{"array", "darray"}, EnvSpec{
		NumArgs: 1,
		Handler: func(ec EnvContext, args, _ []Node) (Node, error) {
			cols, err := ColumnSpecs(String(args[0]))
			if err != nil {
				return nil, err
			}

			return ec.Parser.parseArray(arrayOptions{
				cols:                cols,
				hskipBeforeAndAfter: true,
				maxNumCols:          columnCount(cols),
			}, cellStyle(ec.Name))
		},
	})

	ctx.defineEnvironment([]string{"matrix", "pmatrix", "bmatrix", "Bmatrix", "vmatrix", "Vmatrix"}, EnvSpec{
		Handler: func(ec EnvContext, _, _ []Node) (Node, error) {
			array, err := ec.Parser.parseArray(arrayOptions{}, cellStyle(ec.Name))
			if err != nil {
				return nil, err
			}

			delims, ok := matrixDelimiters[ec.Name]
			if !ok {
				return finish(array), nil
			}

			return &LeftRight{
				Meta:  Meta{Mode: ec.Mode, Loc: ec.Token.Loc},
				Left:  delims[0],
				Right: delims[1],
				Body:  []Node{finish(array)},
			}, nil
		},
	})

	ctx.defineEnvironment([]string{"smallmatrix"}, EnvSpec{
		Handler: func(ec EnvContext, _, _ []Node) (Node, error) {
			array, err := ec.Parser.parseArray(arrayOptions{arrayStretch: 0.5, colSeparation: "small"}, "script")
			if err != nil {
				return nil, err
			}

			return array, nil
		},
	})

	ctx.defineEnvironment([]string{"cases", "dcases", "rcases", "drcases"}, EnvSpec{
		Handler: func(ec EnvContext, _, _ []Node) (Node, error) {
			one, zero := 1.0, 0.0
			array, err := ec.Parser.parseArray(arrayOptions{
				arrayStretch: 1.2,
				cols: []AlignSpec{
					{Align: "l", PreGap: &zero, PostGap: &one},
					{Align: "l", PreGap: &zero, PostGap: &zero},
				},
			}, cellStyle(ec.Name))
			if err != nil {
				return nil, err
			}

			left, right := "\\{", "."
			if strings.Contains(ec.Name, "r") {
				left, right = ".", "\\}"
			}

			return &LeftRight{
				Meta:  Meta{Mode: ec.Mode, Loc: ec.Token.Loc},
				Left:  left,
				Right: right,
				Body:  []Node{finish(array)},
			}, nil
		},
	})

	ctx.defineEnvironment([]string{"aligned"}, EnvSpec{Handler: aligned})
	ctx.defineEnvironment([]string{"alignedat"}, EnvSpec{NumArgs: 1, Handler: aligned})

	ctx.defineEnvironment([]string{"gathered"}, EnvSpec{
		Handler: func(ec EnvContext, _, _ []Node) (Node, error) {
			return ec.Parser.parseArray(arrayOptions{
				cols:           []AlignSpec{{Align: "c"}},
				addJot:         true,
				colSeparation:  "gather",
				emptySingleRow: true,
			}, "display")
		},
	})
}

// aligned handles aligned and alignedat: columns alternate right and left
// alignment, every left column starts with an empty group so that relations
// get their spacing.
func aligned(ec EnvContext, args, _ []Node) (Node, error) {
	separation := "align"
	if strings.Contains(ec.Name, "at") {
		separation = "alignat"
	}

	array, err := ec.Parser.parseArray(arrayOptions{
		addJot:         true,
		emptySingleRow: true,
		colSeparation:  separation,
	}, "display")
	if err != nil {
		return nil, err
	}

	numMaths, numCols := 0, 0
	if len(args) > 0 {
		n, err := strconv.Atoi(String(args[0]))
		if err != nil {
			return nil, newParseError(ErrInvalidArgument, tokenLoc(ec.Token), "Invalid number of columns in {%s}", ec.Name)
		}

		numMaths, numCols = n, 2*n
	}

	isAligned := numCols == 0
	for _, row := range array.Body {
		for i := 1; i < len(row); i += 2 {
			styling := row[i].(*Styling)
			group := styling.Body[0].(*OrdGroup)
			group.Body = append([]Node{finish(&OrdGroup{Meta: group.Info()})}, group.Body...)
		}

		if !isAligned {
			if cur := len(row) / 2; numMaths < cur {
				return nil, newParseError(ErrInvalidEnvironment, tokenLoc(ec.Token), "Too many math in a row: expected %d, but got %d", numMaths, cur)
			}
		} else if numCols < len(row) {
			numCols = len(row)
		}
	}

	for i := range numCols {
		align, pregap, postgap := "r", 0.0, 0.0
		if i%2 == 1 {
			align = "l"
		} else if i > 0 && isAligned {
			pregap = 1
		}

		array.Cols = append(array.Cols, AlignSpec{Align: align, PreGap: &pregap, PostGap: &postgap})
	}

	array.ColSeparation = "alignat"
	if isAligned {
		array.ColSeparation = "align"
	}

	return array, nil
}
