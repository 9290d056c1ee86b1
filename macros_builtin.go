package katex

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// builtinMacros returns the macros every render starts with.
func builtinMacros() map[string]Macro {
	m := map[string]Macro{
		"\\noexpand":       MacroFunc(noexpandMacro),
		"\\expandafter":    MacroFunc(expandafterMacro),
		"\\TextOrMath":     MacroFunc(textOrMathMacro),
		"\\def":            defMacro(false, false),
		"\\gdef":           defMacro(true, false),
		"\\edef":           defMacro(false, true),
		"\\xdef":           defMacro(true, true),
		"\\let":            letMacro(false),
		"\\global":         MacroFunc(globalMacro),
		"\\long":           MacroFunc(longMacro),
		"\\newcommand":     newcommandMacro(false, true, false),
		"\\renewcommand":   newcommandMacro(true, false, false),
		"\\providecommand": newcommandMacro(true, true, true),
		"\\operatorname":   MacroFunc(operatornameMacro),
		"\\@ifstar":        MacroFunc(ifstarMacro),
	}

	for name, body := range textMacros {
		m[name] = TextMacro(body)
	}

	return m
}

var textMacros = map[string]string{
	"\\@firstoftwo":  "#1",
	"\\@secondoftwo": "#2",
	"\\lq":           "`",
	"\\rq":           "'",
	"\\lbrack":       "[",
	"\\rbrack":       "]",
	"\\aa":           "\\r a",
	"\\AA":           "\\r A",

	"\\iff":       "\\;\\Longleftrightarrow\\;",
	"\\implies":   "\\;\\Longrightarrow\\;",
	"\\impliedby": "\\;\\Longleftarrow\\;",

	"\\bmod": "\\mkern4mu\\mathbin{\\mathrm{mod}}\\mkern4mu",
	"\\pmod": "\\mkern8mu(\\mathrm{mod}\\mkern6mu#1)",
	"\\pod":  "\\mkern8mu(#1)",
	"\\mod":  "\\mkern12mu\\mathrm{mod}\\,\\,#1",

	"\\colon": "\\mathpunct{:}",
	"\\dots":  "\\ldots",
	"\\dotsc": "\\ldots",
	"\\dotso": "\\ldots",
	"\\dotsb": "\\cdots",
	"\\dotsm": "\\cdots",
	"\\dotsi": "\\!\\cdots",

	"\\TeX": "\\textrm{T\\kern-.1667em\\raisebox{-.5ex}{E}\\kern-.125emX}",

	"\\mathstrut": "\\vphantom{(}",
	"\\underbar":  "\\underline{\\text{#1}}",
	"\\boxed":     "\\fbox{$\\displaystyle{#1}$}",

	"\\bm":    "\\boldsymbol{#1}",
	"\\Bbb":   "\\mathbb",
	"\\bold":  "\\mathbf",
	"\\frak":  "\\mathfrak",
	"\\land":  "\\wedge",
	"\\lor":   "\\vee",
	"\\lnot":  "\\neg",
	"\\gets":  "\\leftarrow",
	"\\infin": "\\infty",

	"\\R":     "\\mathbb{R}",
	"\\Reals": "\\mathbb{R}",
	"\\N":     "\\mathbb{N}",
	"\\Z":     "\\mathbb{Z}",
	"\\Q":     "\\mathbb{Q}",
	"\\C":     "\\mathbb{C}",

	"\\argmin": "\\operatorname*{arg\\,min}",
	"\\argmax": "\\operatorname*{arg\\,max}",

	"\\,":            "\\TextOrMath{\\kern{.1667em}}{\\mskip{3mu}}",
	"\\thinspace":    "\\,",
	"\\:":            "\\TextOrMath{\\kern{.2222em}}{\\mskip{4mu}}",
	"\\>":            "\\:",
	"\\medspace":     "\\:",
	"\\;":            "\\TextOrMath{\\kern{.2777em}}{\\mskip{5mu}}",
	"\\thickspace":   "\\;",
	"\\!":            "\\TextOrMath{\\kern{-.1667em}}{\\mskip{-3mu}}",
	"\\negthinspace": "\\!",
	"\\enspace":      "\\kern.5em ",
	"\\quad":         "\\hskip1em\\relax",
	"\\qquad":        "\\hskip2em\\relax",
	"\\hspace":       "\\@ifstar\\@hspacer\\@hspace",
	"\\@hspace":      "\\hskip #1\\relax",
	"\\@hspacer":     "\\rule{0pt}{0pt}\\hskip #1\\relax",
	"\\llap":         "\\mathllap{\\textrm{#1}}",
	"\\rlap":         "\\mathrlap{\\textrm{#1}}",
	"\\clap":         "\\mathclap{\\textrm{#1}}",

	"\\newline":     "\\\\\\relax",
	"\\tag":         "\\@ifstar\\tag@literal\\tag@paren",
	"\\tag@paren":   "\\tag@literal{({#1})}",
	"\\tag@literal": "\\gdef\\df@tag{\\text{#1}}",
}

// operatornameMacro picks the limits variant for \operatorname*.
func operatornameMacro(e *MacroExpander) (*MacroDefinition, error) {
	next, err := e.Future()
	if err != nil {
		return nil, err
	}

	if next.Text == "*" {
		if _, err := e.PopToken(); err != nil {
			return nil, err
		}

		return &MacroDefinition{Tokens: []Token{{Text: "\\operatornamewithlimits"}}}, nil
	}

	return &MacroDefinition{Tokens: []Token{{Text: "\\operatorname@"}}}, nil
}

func noexpandMacro(e *MacroExpander) (*MacroDefinition, error) {
	tok, err := e.PopToken()
	if err != nil {
		return nil, err
	}

	if e.IsExpandable(tok.Text) {
		tok.Noexpand = true
		tok.TreatAsRelax = true
	}

	return &MacroDefinition{Tokens: []Token{tok}}, nil
}

func expandafterMacro(e *MacroExpander) (*MacroDefinition, error) {
	tok, err := e.PopToken()
	if err != nil {
		return nil, err
	}

	if _, err := e.expandOnce(true); err != nil {
		return nil, err
	}

	return &MacroDefinition{Tokens: []Token{tok}}, nil
}

func textOrMathMacro(e *MacroExpander) (*MacroDefinition, error) {
	args, err := e.ConsumeArgs(2)
	if err != nil {
		return nil, err
	}

	if e.Mode == ModeText {
		return &MacroDefinition{Tokens: args[0]}, nil
	}

	return &MacroDefinition{Tokens: args[1]}, nil
}

func definitionError(tok Token, format string, args ...any) error {
	return &MacroError{Kind: ErrMacroDefinition, Msg: fmt.Sprintf(format, args...), Name: tok.Text, Loc: tokenLoc(tok)}
}

// macroName reads the control sequence being defined.
func macroName(e *MacroExpander) (Token, error) {
	tok, err := e.PopToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Text {
	case "\\", "{", "}", "$", "&", "#", "^", "_", "EOF":
		return Token{}, definitionError(tok, "Expected a control sequence")
	}

	return tok, nil
}

// defMacro implements \def and friends: a parameter text with #1..#9 and
// optional delimiters, then a braced replacement text.
func defMacro(global, expand bool) MacroFunc {
	return func(e *MacroExpander) (*MacroDefinition, error) {
		name, err := macroName(e)
		if err != nil {
			return nil, err
		}

		numArgs := 0
		delimiters := [][]string{{}}
		var insert *Token

	params:
		for {
			next, err := e.Future()
			if err != nil {
				return nil, err
			}

			if next.Text == "{" {
				break
			}

			tok, _ := e.PopToken()
			switch {
			case tok.Text == "#":
				// #{ behaves as if { ended both the parameter and the replacement text
				if next, _ := e.Future(); next.Text == "{" {
					insert = &next
					delimiters[numArgs] = append(delimiters[numArgs], "{")
					break params
				}

				tok, err = e.PopToken()
				if err != nil {
					return nil, err
				}

				n, convErr := strconv.Atoi(tok.Text)
				if convErr != nil || n < 1 || n > 9 {
					return nil, definitionError(tok, "Invalid argument number \"%s\"", tok.Text)
				}

				if n != numArgs+1 {
					return nil, definitionError(tok, "Argument number \"%s\" out of order", tok.Text)
				}

				numArgs++
				delimiters = append(delimiters, []string{})
			case tok.IsEOF():
				return nil, definitionError(tok, "Expected a macro definition")
			default:
				delimiters[numArgs] = append(delimiters[numArgs], tok.Text)
			}
		}

		tokens, _, _, err := e.consumeArg(nil)
		if err != nil {
			return nil, err
		}

		if insert != nil {
			tokens = append([]Token{*insert}, tokens...)
		}

		if expand {
			if tokens, err = e.ExpandTokens(tokens); err != nil {
				return nil, err
			}

			slices.Reverse(tokens)
		}

		def := &MacroDefinition{Tokens: tokens, NumArgs: numArgs}
		if hasDelimiters(delimiters) {
			def.Delimiters = delimiters
		}

		e.Macros.Set(name.Text, def, global)
		macroTracer().Debugf("define %s with %d arguments", name.Text, numArgs)
		return &MacroDefinition{}, nil
	}
}

func hasDelimiters(delimiters [][]string) bool {
	for _, d := range delimiters {
		if len(d) > 0 {
			return true
		}
	}

	return false
}

// letMacro implements \let\name=token, the new name gets the current meaning of the token.
func letMacro(global bool) MacroFunc {
	return func(e *MacroExpander) (*MacroDefinition, error) {
		name, err := macroName(e)
		if err != nil {
			return nil, err
		}

		if err := e.ConsumeSpaces(); err != nil {
			return nil, err
		}

		tok, err := e.PopToken()
		if err != nil {
			return nil, err
		}

		if tok.Text == "=" {
			if tok, err = e.PopToken(); err != nil {
				return nil, err
			}

			if tok.Text == " " {
				if tok, err = e.PopToken(); err != nil {
					return nil, err
				}
			}
		}

		m := e.Macros.Get(tok.Text)
		if m == nil {
			tok.Noexpand = true
			m = &MacroDefinition{Tokens: []Token{tok}, Unexpandable: !e.IsExpandable(tok.Text)}
		}

		e.Macros.Set(name.Text, m, global)
		return &MacroDefinition{}, nil
	}
}

// globalMacro makes the following definition global.
func globalMacro(e *MacroExpander) (*MacroDefinition, error) {
	if err := e.ConsumeSpaces(); err != nil {
		return nil, err
	}

	tok, err := e.PopToken()
	if err != nil {
		return nil, err
	}

	switch tok.Text {
	case "\\def", "\\gdef":
		return defMacro(true, false)(e)
	case "\\edef", "\\xdef":
		return defMacro(true, true)(e)
	case "\\let":
		return letMacro(true)(e)
	case "\\global", "\\long":
		return globalMacro(e)
	default:
		return nil, definitionError(tok, "Invalid token after macro prefix")
	}
}

// longMacro is accepted and ignored, every macro here may take paragraphs.
func longMacro(e *MacroExpander) (*MacroDefinition, error) {
	return &MacroDefinition{}, nil
}

// newcommandMacro implements \newcommand{\name}[n]{body} and its variants.
func newcommandMacro(existsOK, nonexistsOK, skipIfExists bool) MacroFunc {
	return func(e *MacroExpander) (*MacroDefinition, error) {
		arg, start, _, err := e.consumeArg(nil)
		if err != nil {
			return nil, err
		}

		if len(arg) != 1 {
			return nil, definitionError(start, "\\newcommand's first argument must be a macro name")
		}

		name := arg[0].Text
		exists := e.IsDefined(name)
		if exists && !existsOK {
			return nil, definitionError(arg[0], "\\newcommand{%s} attempting to redefine %s; use \\renewcommand", name, name)
		}

		if !exists && !nonexistsOK {
			return nil, definitionError(arg[0], "\\renewcommand{%s} when command %s does not yet exist; use \\newcommand", name, name)
		}

		numArgs := 0
		if arg, _, _, err = e.consumeArg(nil); err != nil {
			return nil, err
		}

		if len(arg) == 1 && arg[0].Text == "[" {
			var text strings.Builder
			for {
				tok, err := e.ExpandNextToken()
				if err != nil {
					return nil, err
				}

				if tok.Text == "]" || tok.IsEOF() {
					break
				}

				text.WriteString(tok.Text)
			}

			n, convErr := strconv.Atoi(strings.TrimSpace(text.String()))
			if convErr != nil {
				return nil, definitionError(arg[0], "Invalid number of arguments: %s", text.String())
			}

			numArgs = n
			if arg, _, _, err = e.consumeArg(nil); err != nil {
				return nil, err
			}
		}

		if !(exists && skipIfExists) {
			e.Macros.Set(name, &MacroDefinition{Tokens: arg, NumArgs: numArgs}, false)
		}

		return &MacroDefinition{}, nil
	}
}

// ifstarMacro expands to its first argument when a star follows, the star is dropped.
func ifstarMacro(e *MacroExpander) (*MacroDefinition, error) {
	args, err := e.ConsumeArgs(2)
	if err != nil {
		return nil, err
	}

	next, err := e.Future()
	if err != nil {
		return nil, err
	}

	if next.Text != "*" {
		return &MacroDefinition{Tokens: args[1]}, nil
	}

	if _, err := e.PopToken(); err != nil {
		return nil, err
	}

	return &MacroDefinition{Tokens: args[0]}, nil
}
