package katex

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Macro is anything the expander can replace a control sequence with.
type Macro interface {
	expansion(e *MacroExpander) (*MacroDefinition, error)
}

// MacroDefinition is an expansion ready to be pushed back onto the token stack.
type MacroDefinition struct {
	// Tokens are stored in reverse order, the way they are pushed on the stack.
	Tokens  []Token
	NumArgs int
	// Delimiters[0] must follow the macro name, Delimiters[i] ends argument i.
	Delimiters [][]string
	// Unexpandable macros act like primitives (\relax-like definitions made by \let).
	Unexpandable bool
}

func (d *MacroDefinition) expansion(*MacroExpander) (*MacroDefinition, error) {
	return d, nil
}

// TextMacro is replacement text with #1..#9 placeholders.
type TextMacro string

func (t TextMacro) expansion(e *MacroExpander) (*MacroDefinition, error) {
	return e.lexDefinition(string(t))
}

// MacroFunc computes its expansion, it may consume tokens from the expander.
type MacroFunc func(e *MacroExpander) (*MacroDefinition, error)

func (f MacroFunc) expansion(e *MacroExpander) (*MacroDefinition, error) {
	return f(e)
}

// MacroExpander sits between the tokenizer and the parser and expands macros.
// Tokens pushed back are kept on a stack, the top of the stack is the end of the slice.
type MacroExpander struct {
	ctx      *Context
	settings *Settings
	input    string
	lexer    *Tokenizer
	stack    []Token
	Macros   *Namespace
	Mode     Mode

	expansions int
}

func NewMacroExpander(ctx *Context, input string, settings *Settings, mode Mode) *MacroExpander {
	globals := make(map[string]Macro, len(settings.Macros))
	for name, body := range settings.Macros {
		globals[name] = TextMacro(body)
	}

	return &MacroExpander{
		ctx:      ctx,
		settings: settings,
		input:    input,
		lexer:    NewTokenizer(input, settings),
		Macros:   NewNamespace(ctx.macros, globals),
		Mode:     mode,
	}
}

// Feed replaces the input, stack and macros stay.
func (e *MacroExpander) Feed(input string) {
	e.input = input
	e.lexer = NewTokenizer(input, e.settings)
}

func (e *MacroExpander) SwitchMode(mode Mode) {
	e.Mode = mode
}

func (e *MacroExpander) BeginGroup() {
	e.Macros.BeginGroup()
}

func (e *MacroExpander) EndGroup() error {
	return e.Macros.EndGroup()
}

func (e *MacroExpander) EndGroups() {
	e.Macros.EndGroups()
}

// Future returns the next unexpanded token without consuming it.
func (e *MacroExpander) Future() (Token, error) {
	if len(e.stack) == 0 {
		tok, err := e.lexer.Token()
		if err != nil {
			return Token{}, err
		}

		e.stack = append(e.stack, tok)
	}

	return e.stack[len(e.stack)-1], nil
}

// PopToken removes and returns the next unexpanded token.
func (e *MacroExpander) PopToken() (Token, error) {
	tok, err := e.Future()
	if err != nil {
		return Token{}, err
	}

	e.stack = e.stack[:len(e.stack)-1]
	return tok, nil
}

func (e *MacroExpander) PushToken(tok Token) {
	e.stack = append(e.stack, tok)
}

// PushTokens pushes tokens given in stack order.
func (e *MacroExpander) PushTokens(tokens []Token) {
	e.stack = append(e.stack, tokens...)
}

func (e *MacroExpander) ConsumeSpaces() error {
	for {
		tok, err := e.Future()
		if err != nil {
			return err
		}

		if tok.Text != " " {
			return nil
		}

		e.stack = e.stack[:len(e.stack)-1]
	}
}

// ScanArgument reads an argument and makes it the next thing the parser sees,
// followed by an EOF token. It returns the token spanning the whole argument,
// or ok=false when an optional argument is absent.
func (e *MacroExpander) ScanArgument(optional bool) (Token, bool, error) {
	var (
		start, end Token
		tokens     []Token
		err        error
	)

	if optional {
		if err := e.ConsumeSpaces(); err != nil {
			return Token{}, false, err
		}

		next, err := e.Future()
		if err != nil {
			return Token{}, false, err
		}

		if next.Text != "[" {
			return Token{}, false, nil
		}

		if start, err = e.PopToken(); err != nil {
			return Token{}, false, err
		}

		if tokens, _, end, err = e.consumeArg([]string{"]"}); err != nil {
			return Token{}, false, err
		}
	} else {
		if tokens, start, end, err = e.consumeArg(nil); err != nil {
			return Token{}, false, err
		}
	}

	e.PushToken(Token{Text: "EOF", Loc: end.Loc})
	e.PushTokens(tokens)

	return Token{Loc: start.Loc.Span(end.Loc)}, true, nil
}

// consumeArg reads one argument: a balanced group with braces stripped, a single
// token, or everything up to the delimiters. Tokens come back in stack order.
func (e *MacroExpander) consumeArg(delims []string) (tokens []Token, start, end Token, err error) {
	delimited := len(delims) > 0
	if !delimited {
		if err := e.ConsumeSpaces(); err != nil {
			return nil, Token{}, Token{}, err
		}
	}

	if start, err = e.Future(); err != nil {
		return nil, Token{}, Token{}, err
	}

	depth, match := 0, 0
	var tok Token

	for {
		if tok, err = e.PopToken(); err != nil {
			return nil, Token{}, Token{}, err
		}

		tokens = append(tokens, tok)

		switch tok.Text {
		case "{":
			depth++
		case "}":
			depth--
			if depth == -1 {
				return nil, Token{}, Token{}, &ParseError{Kind: ErrUnbalancedGroup, Msg: "Extra }", Loc: tokenLoc(tok)}
			}
		case "EOF":
			expected := "}"
			if delimited {
				expected = delims[match]
			}

			return nil, Token{}, Token{}, &ParseError{
				Kind: ErrUnbalancedGroup,
				Msg:  fmt.Sprintf("Unexpected end of input in a macro argument, expected '%s'", expected),
				Loc:  tokenLoc(tok),
			}
		}

		if delimited {
			if (depth == 0 || depth == 1 && delims[match] == "{") && tok.Text == delims[match] {
				match++
				if match == len(delims) {
					tokens = tokens[:len(tokens)-match]
					break
				}
			} else {
				match = 0
			}
		} else if depth == 0 {
			break
		}
	}

	// a group argument loses its braces
	if start.Text == "{" && len(tokens) > 1 && tokens[len(tokens)-1].Text == "}" {
		tokens = tokens[1 : len(tokens)-1]
	}

	slices.Reverse(tokens)
	return tokens, start, tok, nil
}

func (e *MacroExpander) consumeArgs(numArgs int, delimiters [][]string) ([][]Token, error) {
	if len(delimiters) > 0 {
		if len(delimiters) != numArgs+1 {
			return nil, &MacroError{Kind: ErrMacroDefinition, Msg: "The length of delimiters doesn't match the number of args!"}
		}

		for _, delim := range delimiters[0] {
			tok, err := e.PopToken()
			if err != nil {
				return nil, err
			}

			if tok.Text != delim {
				return nil, &MacroError{Kind: ErrMacroDefinition, Msg: "Use of the macro doesn't match its definition", Loc: tokenLoc(tok)}
			}
		}
	}

	args := make([][]Token, numArgs)
	for i := range args {
		var delims []string
		if len(delimiters) > 0 {
			delims = delimiters[i+1]
		}

		tokens, _, _, err := e.consumeArg(delims)
		if err != nil {
			return nil, err
		}

		args[i] = tokens
	}

	return args, nil
}

// ConsumeArgs reads numArgs undelimited arguments, each in stack order.
func (e *MacroExpander) ConsumeArgs(numArgs int) ([][]Token, error) {
	return e.consumeArgs(numArgs, nil)
}

func (e *MacroExpander) countExpansion(amount int, at Token) error {
	e.expansions += amount
	if e.expansions > e.settings.MaxExpand {
		return &MacroError{
			Kind: ErrExpansionLimit,
			Msg:  "Too many expansions: infinite loop or need to increase maxExpand setting",
			Name: at.Text,
			Loc:  tokenLoc(at),
		}
	}

	return nil
}

// stackTokens is how many tokens the stack may hold per allowed expansion.
const stackTokens = 64

// checkStack fails once pushing n more tokens would outgrow the stack bound,
// so macros which multiply their arguments stop before memory runs out.
func (e *MacroExpander) checkStack(n int, at Token) error {
	limit := math.MaxInt
	if e.settings.MaxExpand < math.MaxInt/stackTokens {
		limit = max(e.settings.MaxExpand, 1) * stackTokens
	}

	if len(e.stack)+n > limit {
		return &MacroError{
			Kind: ErrExpansionLimit,
			Msg:  fmt.Sprintf("Too many tokens in expansion (%d): infinite loop or need to increase maxExpand setting", len(e.stack)+n),
			Name: at.Text,
			Loc:  tokenLoc(at),
		}
	}

	return nil
}

// Expansions is the number of macro expansions performed so far.
func (e *MacroExpander) Expansions() int {
	return e.expansions
}

// expandOnce expands the top token if it is a macro and reports whether it did.
// With expandableOnly set, unexpandable macros and primitives are left alone
// and undefined control sequences are an error.
func (e *MacroExpander) expandOnce(expandableOnly bool) (bool, error) {
	top, err := e.PopToken()
	if err != nil {
		return false, err
	}

	var expansion *MacroDefinition
	if !top.Noexpand {
		if expansion, err = e.getExpansion(top.Text); err != nil {
			return false, e.located(err, top)
		}
	}

	if expansion == nil || expandableOnly && expansion.Unexpandable {
		if expandableOnly && expansion == nil && isControlSequence(top.Text) && !e.IsDefined(top.Text) {
			return false, &ParseError{Kind: ErrUnknownSymbol, Msg: "Undefined control sequence: " + top.Text, Loc: tokenLoc(top)}
		}

		e.PushToken(top)
		return false, nil
	}

	if err := e.countExpansion(1, top); err != nil {
		return false, err
	}

	args, err := e.consumeArgs(expansion.NumArgs, expansion.Delimiters)
	if err != nil {
		return false, err
	}

	tokens := make([]Token, 0, len(expansion.Tokens))
	for _, tok := range expansion.Tokens {
		if tok.Loc == (SourceLocation{}) {
			tok.Loc = top.Loc
		}

		tokens = append(tokens, tok)
	}

	if expansion.NumArgs > 0 {
		if tokens, err = substituteArgs(tokens, args); err != nil {
			return false, err
		}
	}

	if err := e.checkStack(len(tokens), top); err != nil {
		return false, err
	}

	macroTracer().Debugf("expand %s into %d tokens", top.Text, len(tokens))
	e.PushTokens(tokens)
	return true, nil
}

// substituteArgs replaces #n placeholders of a reversed body with arguments, ## becomes #.
func substituteArgs(tokens []Token, args [][]Token) ([]Token, error) {
	out := make([]Token, 0, len(tokens))
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		if tok.Text != "#" {
			out = append(out, tok)
			continue
		}

		if i == 0 {
			return nil, &MacroError{Kind: ErrMacroDefinition, Msg: "Incomplete placeholder at end of macro body", Loc: tokenLoc(tok)}
		}

		i--
		next := tokens[i]
		switch {
		case next.Text == "#":
			out = append(out, next)
		case len(next.Text) == 1 && next.Text[0] >= '1' && next.Text[0] <= '9':
			n := int(next.Text[0] - '0')
			if n > len(args) {
				return nil, &MacroError{Kind: ErrMacroDefinition, Msg: "Not a valid argument number", Loc: tokenLoc(next)}
			}

			// arguments are in stack order as well
			for j := len(args[n-1]) - 1; j >= 0; j-- {
				out = append(out, args[n-1][j])
			}
		default:
			return nil, &MacroError{Kind: ErrMacroDefinition, Msg: "Not a valid argument number", Loc: tokenLoc(next)}
		}
	}

	slices.Reverse(out)
	return out, nil
}

// ExpandAfterFuture expands the next token once and returns the new next token.
func (e *MacroExpander) ExpandAfterFuture() (Token, error) {
	if _, err := e.expandOnce(false); err != nil {
		return Token{}, err
	}

	return e.Future()
}

// ExpandNextToken expands until the top of the stack is not a macro and pops it.
func (e *MacroExpander) ExpandNextToken() (Token, error) {
	for {
		expanded, err := e.expandOnce(false)
		if err != nil {
			return Token{}, err
		}

		if expanded {
			continue
		}

		tok, err := e.PopToken()
		if err != nil {
			return Token{}, err
		}

		if tok.TreatAsRelax {
			tok.Text = "\\relax"
		}

		return tok, nil
	}
}

// ExpandTokens fully expands tokens given in stack order, leaving primitives alone.
func (e *MacroExpander) ExpandTokens(tokens []Token) ([]Token, error) {
	var output []Token
	base := len(e.stack)
	e.PushTokens(tokens)

	for len(e.stack) > base {
		expanded, err := e.expandOnce(true)
		if err != nil {
			return nil, err
		}

		if !expanded {
			tok := e.stack[len(e.stack)-1]
			e.stack = e.stack[:len(e.stack)-1]
			if tok.TreatAsRelax {
				tok.Noexpand = false
				tok.TreatAsRelax = false
			}

			output = append(output, tok)
		}
	}

	if len(output) > 0 {
		if err := e.countExpansion(len(output), output[0]); err != nil {
			return nil, err
		}
	}

	return output, nil
}

// ExpandMacroAsText returns full expansion of the macro as text, ok is false if it is not defined.
func (e *MacroExpander) ExpandMacroAsText(name string) (string, bool, error) {
	if !e.Macros.Has(name) {
		return "", false, nil
	}

	tokens, err := e.ExpandTokens([]Token{{Text: name}})
	if err != nil {
		return "", false, err
	}

	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}

	return b.String(), true, nil
}

func (e *MacroExpander) getExpansion(name string) (*MacroDefinition, error) {
	m := e.Macros.Get(name)
	if m == nil {
		return nil, nil
	}

	// single characters are macros only while they are active
	if len([]rune(name)) == 1 {
		if code, ok := e.lexer.catcodes[name]; ok && code != catcodeActive {
			return nil, nil
		}
	}

	return m.expansion(e)
}

// lexDefinition turns replacement text into a definition, the argument count is the highest #n used.
func (e *MacroExpander) lexDefinition(body string) (*MacroDefinition, error) {
	numArgs := 0
	if strings.Contains(body, "#") {
		stripped := strings.ReplaceAll(body, "##", "")
		for strings.Contains(stripped, "#"+strconv.Itoa(numArgs+1)) {
			numArgs++
		}
	}

	lexer := NewTokenizer(body, e.settings)
	var tokens []Token
	for {
		tok, err := lexer.Token()
		if err != nil {
			return nil, err
		}

		if tok.IsEOF() {
			break
		}

		// locations point into the body, not into the input
		tok.Loc = SourceLocation{}
		tokens = append(tokens, tok)
	}

	slices.Reverse(tokens)
	return &MacroDefinition{Tokens: tokens, NumArgs: numArgs}, nil
}

// IsDefined reports whether name is a macro, a function or a symbol.
func (e *MacroExpander) IsDefined(name string) bool {
	if e.Macros.Has(name) {
		return true
	}

	if _, ok := e.ctx.functions[name]; ok {
		return true
	}

	return e.ctx.symbols.Has(ModeMath, name) || e.ctx.symbols.Has(ModeText, name) || implicitCommands[name]
}

// IsExpandable reports whether \noexpand would have an effect on name.
func (e *MacroExpander) IsExpandable(name string) bool {
	if m := e.Macros.Get(name); m != nil {
		if d, ok := m.(*MacroDefinition); ok {
			return !d.Unexpandable
		}

		return true
	}

	f, ok := e.ctx.functions[name]
	return ok && !f.Primitive
}

func (e *MacroExpander) located(err error, tok Token) error {
	switch err := err.(type) {
	case *ParseError:
		if err.Loc == nil {
			err.Loc = tokenLoc(tok)
		}
	case *MacroError:
		if err.Loc == nil {
			err.Loc = tokenLoc(tok)
		}

		if err.Name == "" {
			err.Name = tok.Text
		}
	}

	return err
}

// implicitCommands are handled by the parser directly.
var implicitCommands = map[string]bool{
	"^":          true,
	"_":          true,
	"\\limits":   true,
	"\\nolimits": true,
}
