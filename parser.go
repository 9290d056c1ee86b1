package katex

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// endOfExpression are the tokens which end any expression.
var endOfExpression = map[string]bool{
	"}":          true,
	"\\endgroup": true,
	"\\end":      true,
	"\\right":    true,
	"&":          true,
	"EOF":        true,
}

var sizeGroupPattern = regexp.MustCompile(`^[-+]? *(?:$|\d+|\d+\.\d*|\.\d*) *[a-z]{0,2} *$`)

// unicodeAccents maps combining marks onto the accent commands of text and math mode.
var unicodeAccents = map[rune][2]string{
	'́': {"\\'", "\\acute"},
	'̀': {"\\`", "\\grave"},
	'̈': {"\\\"", "\\ddot"},
	'̃': {"\\~", "\\tilde"},
	'̄': {"\\=", "\\bar"},
	'̆': {"\\u", "\\breve"},
	'̌': {"\\v", "\\check"},
	'̂': {"\\^", "\\hat"},
	'̇': {"\\.", "\\dot"},
	'̊': {"\\r", "\\mathring"},
	'̋': {"\\H", ""},
}

// Parser turns the expanded token stream into a syntax tree. It's a
// recursive descent parser, control sequences are dispatched through the
// function registry of the context.
type Parser struct {
	ctx      *Context
	settings *Settings
	input    string
	mode     Mode
	gullet   *MacroExpander
	next     *Token

	leftrightDepth int
	depth          int
}

func NewParser(ctx *Context, input string, settings *Settings) *Parser {
	return &Parser{
		ctx:      ctx,
		settings: settings,
		input:    input,
		mode:     ModeMath,
		gullet:   NewMacroExpander(ctx, input, settings, ModeMath),
	}
}

// Parse parses the whole input.
func (p *Parser) Parse() ([]Node, error) {
	nodes, err := p.parse()
	p.gullet.EndGroups()

	if err != nil {
		return nil, withInput(err, p.input)
	}

	parseTracer().Debugf("parsed %d nodes with %d expansions", len(nodes), p.gullet.Expansions())
	return nodes, nil
}

func (p *Parser) parse() ([]Node, error) {
	if err := p.runDefinitions(); err != nil {
		return nil, err
	}

	if !p.settings.GlobalGroup {
		p.gullet.BeginGroup()
	}

	if p.settings.ColorIsTextColor {
		p.gullet.Macros.Set("\\color", TextMacro("\\textcolor"), false)
	}

	nodes, err := p.parseExpression(false, "")
	if err != nil {
		return nil, err
	}

	if err := p.expect("EOF", true); err != nil {
		return nil, err
	}

	if !p.settings.GlobalGroup {
		if err := p.gullet.EndGroup(); err != nil {
			return nil, err
		}
	}

	// \tag stores its label with \gdef, so it outlives every group
	if p.gullet.Macros.Get("\\df@tag") == nil {
		return nodes, nil
	}

	if !p.settings.DisplayMode {
		return nil, newParseError(ErrInvalidMode, nil, "\\tag works only in display equations")
	}

	tag, err := p.subparse([]Token{{Text: "\\df@tag"}})
	if err != nil {
		return nil, err
	}

	return []Node{finish(&Tag{Meta: Meta{Mode: ModeText}, Body: nodes, Tag: tag})}, nil
}

// subparse parses the tokens as a separate expression, closing brace included.
func (p *Parser) subparse(tokens []Token) ([]Node, error) {
	old := p.next
	p.next = nil

	p.gullet.PushToken(Token{Text: "}"})
	p.gullet.PushTokens(tokens)

	nodes, err := p.parseExpression(false, "")
	if err != nil {
		return nil, err
	}

	if err := p.expect("}", true); err != nil {
		return nil, err
	}

	p.next = old
	return nodes, nil
}

// runDefinitions executes the definitions from settings, whatever they
// define is visible in the expression.
func (p *Parser) runDefinitions() error {
	for _, def := range p.settings.Definitions {
		p.gullet.Feed(def)
		for {
			tok, err := p.gullet.ExpandNextToken()
			if err != nil {
				return withInput(err, def)
			}

			if tok.IsEOF() {
				break
			}

			if tok.Text != " " && tok.Text != "\\relax" {
				return withInput(&MacroError{Kind: ErrMacroDefinition, Msg: "Definitions may only define macros", Name: tok.Text, Loc: tokenLoc(tok)}, def)
			}
		}
	}

	if len(p.settings.Definitions) > 0 {
		p.gullet.Feed(p.input)
	}

	return nil
}

// withInput attaches the source text to an error for position reporting.
func withInput(err error, input string) error {
	var parseErr *ParseError
	if errors.As(err, &parseErr) && parseErr.Input == "" {
		parseErr.Input = input
	}

	var macroErr *MacroError
	if errors.As(err, &macroErr) && macroErr.Input == "" {
		macroErr.Input = input
	}

	return err
}

// fetch returns the current lookahead token, expanding macros if necessary.
func (p *Parser) fetch() (Token, error) {
	if p.next == nil {
		tok, err := p.gullet.ExpandNextToken()
		if err != nil {
			return Token{}, err
		}

		p.next = &tok
	}

	return *p.next, nil
}

// consume discards the current lookahead token.
func (p *Parser) consume() {
	p.next = nil
}

func (p *Parser) expect(text string, consume bool) error {
	tok, err := p.fetch()
	if err != nil {
		return err
	}

	if tok.Text != text {
		kind := ErrUnbalancedGroup
		if text == "\\end" || tok.Text == "\\end" {
			kind = ErrInvalidEnvironment
		}

		return newParseError(kind, tokenLoc(tok), "Expected '%s', got '%s'", text, tok.Text)
	}

	if consume {
		p.consume()
	}

	return nil
}

func (p *Parser) consumeSpaces() error {
	for {
		tok, err := p.fetch()
		if err != nil {
			return err
		}

		if tok.Text != " " {
			return nil
		}

		p.consume()
	}
}

func (p *Parser) switchMode(mode Mode) {
	p.mode = mode
	p.gullet.SwitchMode(mode)
}

func (p *Parser) meta() Meta {
	return Meta{Mode: p.mode}
}

// parseExpression parses a list of atoms until the end of the group, the
// breakOnTokenText token or, when breakOnInfix is set, an infix function.
func (p *Parser) parseExpression(breakOnInfix bool, breakOnTokenText string) ([]Node, error) {
	p.depth++
	defer func() { p.depth-- }()

	if p.settings.MaxDepth > 0 && p.depth > p.settings.MaxDepth {
		tok, _ := p.fetch()
		return nil, newParseError(ErrRecursionLimit, tokenLoc(tok), "Too deeply nested: more than %d levels of groups", p.settings.MaxDepth)
	}

	var body []Node
	for {
		if p.mode == ModeMath {
			if err := p.consumeSpaces(); err != nil {
				return nil, err
			}
		}

		tok, err := p.fetch()
		if err != nil {
			return nil, err
		}

		if endOfExpression[tok.Text] {
			break
		}

		if breakOnTokenText != "" && tok.Text == breakOnTokenText {
			break
		}

		if breakOnInfix {
			if f, ok := p.ctx.functions[tok.Text]; ok && f.Infix {
				break
			}
		}

		atom, err := p.parseAtom(breakOnTokenText)
		if err != nil {
			return nil, err
		}

		if atom == nil {
			break
		}

		if atom.Type() == TypeInternal {
			continue
		}

		body = append(body, atom)
	}

	if p.mode == ModeText {
		body = formLigatures(body)
	}

	return p.handleInfixNodes(body)
}

// handleInfixNodes rewrites a group containing \over and friends into a call
// of the function the infix operator stands for.
func (p *Parser) handleInfixNodes(body []Node) ([]Node, error) {
	overIndex := -1
	var infix *Infix

	for i, node := range body {
		n, ok := node.(*Infix)
		if !ok {
			continue
		}

		if overIndex != -1 {
			return nil, newParseError(ErrInvalidArgument, tokenLoc(n.Token), "only one infix operator per group")
		}

		overIndex = i
		infix = n
	}

	if infix == nil {
		return body, nil
	}

	group := func(nodes []Node) Node {
		if len(nodes) == 1 {
			if g, ok := nodes[0].(*OrdGroup); ok {
				return g
			}
		}

		return finish(&OrdGroup{Meta: p.meta(), Body: nodes})
	}

	numer := group(body[:overIndex])
	denom := group(body[overIndex+1:])

	args := []Node{numer, denom}
	if infix.ReplaceWith == "\\\\abovefrac" {
		args = []Node{numer, infix, denom}
	}

	node, err := p.callFunction(infix.ReplaceWith, args, nil, infix.Token, "")
	if err != nil {
		return nil, err
	}

	return []Node{node}, nil
}

// formLigatures joins -- --- `` and '' in text mode.
func formLigatures(body []Node) []Node {
	text := func(i int) string {
		if i >= len(body) {
			return ""
		}

		if t, ok := body[i].(*TextOrd); ok {
			return t.Text
		}

		return ""
	}

	out := body[:0]
	for i := 0; i < len(body); i++ {
		v := text(i)
		n := 1

		switch {
		case v == "-" && text(i+1) == "-" && text(i+2) == "-":
			n = 3
		case v == "-" && text(i+1) == "-":
			n = 2
		case (v == "'" || v == "`") && text(i+1) == v:
			n = 2
		}

		if n == 1 || !ligatures[strings.Repeat(v, n)] {
			out = append(out, body[i])
			continue
		}

		first, last := body[i].Info(), body[i+n-1].Info()
		out = append(out, finish(&TextOrd{
			Meta: Meta{Mode: ModeText, Loc: first.Loc.Span(last.Loc)},
			Text: strings.Repeat(v, n),
		}))

		i += n - 1
	}

	return out
}

// parseAtom parses a group with optional super- and subscripts.
func (p *Parser) parseAtom(breakOnTokenText string) (Node, error) {
	base, err := p.parseGroup("atom", breakOnTokenText)
	if err != nil {
		return nil, err
	}

	if base != nil && base.Type() == TypeInternal {
		return base, nil
	}

	if p.mode == ModeText {
		return base, nil
	}

	var sup, sub Node
	for {
		if err := p.consumeSpaces(); err != nil {
			return nil, err
		}

		tok, err := p.fetch()
		if err != nil {
			return nil, err
		}

		switch tok.Text {
		case "\\limits", "\\nolimits":
			limits := tok.Text == "\\limits"
			switch b := base.(type) {
			case *Op:
				b.Limits = limits
				b.AlwaysHandleSupSub = true
			case *OperatorName:
				if b.AlwaysHandleSupSub {
					b.Limits = limits
				}
			default:
				return nil, newParseError(ErrInvalidArgument, tokenLoc(tok), "Limit controls must follow a math operator")
			}

			p.consume()
		case "^":
			if sup != nil {
				return nil, newParseError(ErrDoubleSuperscript, tokenLoc(tok), "Double superscript")
			}

			if sup, err = p.handleSupSubscript("superscript"); err != nil {
				return nil, err
			}
		case "_":
			if sub != nil {
				return nil, newParseError(ErrDoubleSuperscript, tokenLoc(tok), "Double subscript")
			}

			if sub, err = p.handleSupSubscript("subscript"); err != nil {
				return nil, err
			}
		case "'":
			if sup != nil {
				return nil, newParseError(ErrDoubleSuperscript, tokenLoc(tok), "Double superscript")
			}

			var primes []Node
			for tok.Text == "'" {
				primes = append(primes, finish(&TextOrd{Meta: Meta{Mode: p.mode, Loc: tok.Loc}, Text: "\\prime"}))
				p.consume()

				if tok, err = p.fetch(); err != nil {
					return nil, err
				}
			}

			if tok.Text == "^" {
				script, err := p.handleSupSubscript("superscript")
				if err != nil {
					return nil, err
				}

				primes = append(primes, script)
			}

			sup = finish(&OrdGroup{Meta: p.meta(), Body: primes})
		default:
			if sup == nil && sub == nil {
				return base, nil
			}

			meta := p.meta()
			if base != nil {
				meta.Loc = base.Info().Loc
			}

			return finish(&SupSub{Meta: meta, Base: base, Sup: sup, Sub: sub}), nil
		}
	}
}

func (p *Parser) handleSupSubscript(name string) (Node, error) {
	symbol, err := p.fetch()
	if err != nil {
		return nil, err
	}

	p.consume()
	if err := p.consumeSpaces(); err != nil {
		return nil, err
	}

	for {
		group, err := p.parseGroup(name, "")
		if err != nil {
			return nil, err
		}

		if group == nil {
			return nil, newParseError(ErrExpectedArgument, tokenLoc(symbol), "Expected group after '%s'", symbol.Text)
		}

		if group.Type() != TypeInternal {
			return group, nil
		}
	}
}

// parseGroup parses a braced group, a function call or a single symbol.
// It returns nil when there is nothing to parse.
func (p *Parser) parseGroup(name, breakOnTokenText string) (Node, error) {
	first, err := p.fetch()
	if err != nil {
		return nil, err
	}

	if first.Text == "{" || first.Text == "\\begingroup" {
		p.consume()

		groupEnd := "}"
		if first.Text == "\\begingroup" {
			groupEnd = "\\endgroup"
		}

		p.gullet.BeginGroup()
		body, err := p.parseExpression(false, groupEnd)
		if err != nil {
			return nil, err
		}

		last, err := p.fetch()
		if err != nil {
			return nil, err
		}

		if err := p.expect(groupEnd, true); err != nil {
			return nil, err
		}

		if err := p.gullet.EndGroup(); err != nil {
			return nil, err
		}

		return finish(&OrdGroup{
			Meta:       Meta{Mode: p.mode, Loc: first.Loc.Span(last.Loc)},
			Body:       body,
			Semisimple: first.Text == "\\begingroup",
		}), nil
	}

	result, err := p.parseFunction(breakOnTokenText, name)
	if err != nil || result != nil {
		return result, err
	}

	if result, err = p.parseSymbol(); err != nil || result != nil {
		return result, err
	}

	if isControlSequence(first.Text) && !implicitCommands[first.Text] {
		return p.undefinedControlSequence(first)
	}

	return nil, nil
}

// undefinedControlSequence fails, or with errors not thrown, leaves a
// placeholder the way the strict setting asks for.
func (p *Parser) undefinedControlSequence(tok Token) (Node, error) {
	msg := "Undefined control sequence: " + tok.Text
	if p.settings.ThrowOnError {
		return nil, newParseError(ErrUnknownSymbol, tokenLoc(tok), "%s", msg)
	}

	switch p.settings.strictBehavior("unknownSymbol", msg, tokenLoc(tok)) {
	case StrictError:
		return nil, newParseError(ErrUnknownSymbol, tokenLoc(tok), "%s", msg)
	case StrictWarn:
		parseTracer().Errorf("%s, rendering a placeholder", msg)
	}

	p.consume()
	return p.unsupported(tok.Text, tok.Loc), nil
}

func (p *Parser) unsupported(command string, loc SourceLocation) Node {
	return finish(&Unsupported{Meta: Meta{Mode: p.mode, Loc: loc}, Command: command})
}

// parseFunction parses a control sequence from the function registry with
// its arguments. It returns nil when the next token is not a function.
func (p *Parser) parseFunction(breakOnTokenText, name string) (Node, error) {
	tok, err := p.fetch()
	if err != nil {
		return nil, err
	}

	spec, ok := p.ctx.functions[tok.Text]
	if !ok {
		return nil, nil
	}

	p.consume()

	switch {
	case name != "" && name != "atom" && !spec.AllowedInArgument:
		return nil, newParseError(ErrExpectedArgument, tokenLoc(tok), "Got function '%s' with no arguments as %s", tok.Text, name)
	case p.mode == ModeText && !spec.AllowedInText:
		return nil, newParseError(ErrInvalidMode, tokenLoc(tok), "Can't use function '%s' in text mode", tok.Text)
	case p.mode == ModeMath && spec.TextOnly:
		return nil, newParseError(ErrInvalidMode, tokenLoc(tok), "Can't use function '%s' in math mode", tok.Text)
	}

	args, optArgs, err := p.parseArguments(tok.Text, spec.NumArgs, spec.NumOptionalArgs, spec.ArgTypes, spec.Primitive)
	if err != nil {
		return nil, err
	}

	return p.callFunction(tok.Text, args, optArgs, tok, breakOnTokenText)
}

func (p *Parser) callFunction(name string, args, optArgs []Node, tok Token, breakOnTokenText string) (Node, error) {
	spec, ok := p.ctx.functions[name]
	if !ok || spec.Handler == nil {
		return nil, newParseError(ErrUnknownSymbol, tokenLoc(tok), "No function handler for %s", name)
	}

	node, err := spec.Handler(FunctionContext{Name: name, Parser: p, Token: tok, BreakOnTokenText: breakOnTokenText}, args, optArgs)
	if err != nil {
		return nil, err
	}

	m := node.meta()
	if m.Loc == (SourceLocation{}) {
		m.Loc = tok.Loc
	}

	m.Atom = classify(node)
	return node, nil
}

// parseArguments reads the arguments of a function or an environment.
// Absent optional arguments are nil entries of optArgs.
func (p *Parser) parseArguments(name string, numArgs, numOptional int, types []ArgType, primitive bool) (args, optArgs []Node, err error) {
	for i := range numArgs + numOptional {
		argType := ArgOriginal
		explicit := false
		if i < len(types) {
			argType, explicit = types[i], true
		}

		optional := i < numOptional
		if primitive && !explicit {
			argType = ArgPrimitive
		}

		if !optional {
			if err := p.checkArgumentPresent(name); err != nil {
				return nil, nil, err
			}
		}

		arg, err := p.parseGroupOfType("argument to '"+name+"'", argType, optional)
		if err != nil {
			return nil, nil, err
		}

		if optional {
			optArgs = append(optArgs, arg)
			continue
		}

		if arg == nil {
			tok, _ := p.fetch()
			return nil, nil, newParseError(ErrExpectedArgument, tokenLoc(tok), "Expected group as argument to '%s'", name)
		}

		args = append(args, arg)
	}

	return args, optArgs, nil
}

// argumentStoppers can't start an argument, a function followed by one of
// them is missing its argument.
var argumentStoppers = map[string]bool{
	"EOF":        true,
	"}":          true,
	"&":          true,
	"\\\\":       true,
	"\\cr":       true,
	"\\end":      true,
	"\\right":    true,
	"\\endgroup": true,
}

func (p *Parser) checkArgumentPresent(name string) error {
	if p.next != nil {
		return nil
	}

	if err := p.gullet.ConsumeSpaces(); err != nil {
		return err
	}

	tok, err := p.gullet.Future()
	if err != nil {
		return err
	}

	stop := argumentStoppers[tok.Text]
	if f, ok := p.ctx.functions[tok.Text]; ok && f.Infix {
		stop = true
	}

	if stop {
		return newParseError(ErrExpectedArgument, tokenLoc(tok), "Expected group as argument to '%s'", name)
	}

	return nil
}

func (p *Parser) parseGroupOfType(name string, argType ArgType, optional bool) (Node, error) {
	switch argType {
	case ArgColor:
		return p.parseColorGroup(optional)
	case ArgSize:
		return p.parseSizeGroup(optional)
	case ArgURL:
		return p.parseURLGroup(optional)
	case ArgMath:
		return p.parseArgumentGroup(optional, ModeMath, true)
	case ArgText:
		return p.parseArgumentGroup(optional, ModeText, true)
	case ArgHBox:
		group, err := p.parseArgumentGroup(optional, ModeText, true)
		if err != nil || group == nil {
			return nil, err
		}

		return finish(&Styling{Meta: Meta{Mode: group.Info().Mode, Loc: group.Info().Loc}, Style: "text", Body: []Node{group}}), nil
	case ArgRaw:
		tok, ok, err := p.parseStringGroup(optional)
		if err != nil || !ok {
			return nil, err
		}

		return finish(&Raw{Meta: Meta{Mode: ModeText, Loc: tok.Loc}, String: tok.Text}), nil
	case ArgPrimitive:
		if optional {
			return nil, newParseError(ErrInvalidArgument, nil, "A primitive argument cannot be optional")
		}

		group, err := p.parseGroup(name, "")
		if err != nil {
			return nil, err
		}

		if group == nil {
			tok, _ := p.fetch()
			return nil, newParseError(ErrExpectedArgument, tokenLoc(tok), "Expected group as %s", name)
		}

		return group, nil
	default:
		return p.parseArgumentGroup(optional, p.mode, false)
	}
}

// parseArgumentGroup parses an argument in its own scope, switching mode if asked to.
func (p *Parser) parseArgumentGroup(optional bool, mode Mode, switchMode bool) (Node, error) {
	argTok, ok, err := p.gullet.ScanArgument(optional)
	if err != nil || !ok {
		return nil, err
	}

	outer := p.mode
	if switchMode {
		p.switchMode(mode)
	}

	p.gullet.BeginGroup()
	body, err := p.parseExpression(false, "EOF")
	if err != nil {
		return nil, err
	}

	if err := p.expect("EOF", true); err != nil {
		return nil, err
	}

	if err := p.gullet.EndGroup(); err != nil {
		return nil, err
	}

	group := finish(&OrdGroup{Meta: Meta{Mode: p.mode, Loc: argTok.Loc}, Body: body})
	if switchMode {
		p.switchMode(outer)
	}

	return group, nil
}

// parseStringGroup reads an argument as a plain string of token texts.
func (p *Parser) parseStringGroup(optional bool) (Token, bool, error) {
	argTok, ok, err := p.gullet.ScanArgument(optional)
	if err != nil || !ok {
		return Token{}, false, err
	}

	var b strings.Builder
	for {
		tok, err := p.fetch()
		if err != nil {
			return Token{}, false, err
		}

		if tok.IsEOF() {
			break
		}

		b.WriteString(tok.Text)
		p.consume()
	}

	p.consume()
	argTok.Text = b.String()
	return argTok, true, nil
}

// parseRegexGroup reads tokens as long as their text matches the pattern.
func (p *Parser) parseRegexGroup(pattern *regexp.Regexp, what string) (Token, error) {
	first, err := p.fetch()
	if err != nil {
		return Token{}, err
	}

	last := first
	var text string
	for {
		tok, err := p.fetch()
		if err != nil {
			return Token{}, err
		}

		if tok.IsEOF() || !pattern.MatchString(text+tok.Text) {
			break
		}

		last = tok
		text += tok.Text
		p.consume()
	}

	if text == "" {
		return Token{}, newParseError(ErrInvalidArgument, tokenLoc(first), "Invalid %s: '%s'", what, first.Text)
	}

	return Token{Text: text, Loc: first.Loc.Span(last.Loc)}, nil
}

func (p *Parser) parseColorGroup(optional bool) (Node, error) {
	tok, ok, err := p.parseStringGroup(optional)
	if err != nil || !ok {
		return nil, err
	}

	color, err := ParseColor(tok.Text)
	if err != nil {
		return nil, newParseError(ErrInvalidArgument, tokenLoc(tok), "Invalid color: '%s'", tok.Text)
	}

	return finish(&ColorToken{Meta: Meta{Mode: p.mode, Loc: tok.Loc}, Color: color}), nil
}

func (p *Parser) parseSizeGroup(optional bool) (Node, error) {
	if err := p.gullet.ConsumeSpaces(); err != nil {
		return nil, err
	}

	var (
		tok Token
		ok  = true
	)

	next, err := p.gullet.Future()
	if err != nil {
		return nil, err
	}

	if !optional && next.Text != "{" {
		tok, err = p.parseRegexGroup(sizeGroupPattern, "size")
	} else {
		tok, ok, err = p.parseStringGroup(optional)
	}

	if err != nil || !ok {
		return nil, err
	}

	blank := false
	if !optional && strings.TrimSpace(tok.Text) == "" {
		tok.Text = "0pt"
		blank = true
	}

	m, err := Measure(tok.Text)
	if err != nil {
		if errors.Is(err, errInvalidUnit) {
			return nil, newParseError(ErrInvalidArgument, tokenLoc(tok), "Invalid unit: '%s'", unitOf(tok.Text))
		}

		return nil, newParseError(ErrInvalidArgument, tokenLoc(tok), "Invalid size: '%s'", tok.Text)
	}

	return finish(&Size{Meta: Meta{Mode: p.mode, Loc: tok.Loc}, Value: m, IsBlank: blank}), nil
}

func unitOf(size string) string {
	return strings.TrimLeft(size, "+-0123456789. ")
}

// parseURLGroup reads an argument with % and ~ taken literally.
func (p *Parser) parseURLGroup(optional bool) (Node, error) {
	p.gullet.lexer.SetCatcode("%", catcodeActive)
	p.gullet.lexer.SetCatcode("~", catcodeOther)
	tok, ok, err := p.parseStringGroup(optional)
	p.gullet.lexer.SetCatcode("%", catcodeComment)
	p.gullet.lexer.SetCatcode("~", catcodeActive)

	if err != nil || !ok {
		return nil, err
	}

	return finish(&URL{Meta: Meta{Mode: p.mode, Loc: tok.Loc}, URL: unescapeURL(tok.Text)}), nil
}

// unescapeURL drops the backslash before the characters TeX makes special.
func unescapeURL(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte("#$%&~_^{}", s[i+1]) >= 0 {
			i++
		}

		b.WriteByte(s[i])
	}

	return b.String()
}

// parseSymbol parses a single character or a symbol command. It returns nil
// if the next token is not a symbol.
func (p *Parser) parseSymbol() (Node, error) {
	nucleus, err := p.fetch()
	if err != nil {
		return nil, err
	}

	text := nucleus.Text
	loc := nucleus.Loc

	if strings.HasPrefix(text, "\\verb") && len(text) > len("\\verb") && !isLetter(rune(text[len("\\verb")])) {
		p.consume()
		return p.verb(nucleus)
	}

	if text == "EOF" {
		return nil, nil
	}

	// precomposed letters (é) become a letter and a combining mark
	if first, size := utf8.DecodeRuneInString(text); first >= 0x80 && !p.ctx.symbols.Has(p.mode, string(first)) {
		if decomposed := norm.NFD.String(text[:size]); decomposed != text[:size] {
			if p.mode == ModeMath {
				msg := "Accented Unicode text character \"" + text[:size] + "\" used in math mode"
				if err := p.settings.reportNonstrict("unicodeTextInMathMode", msg, tokenLoc(nucleus)); err != nil {
					return nil, err
				}
			}

			text = decomposed + text[size:]
		}
	}

	// strip combining marks, they turn into accents below
	marks := ""
	if i := strings.IndexFunc(text, isCombiningMark); i > 0 {
		text, marks = text[:i], text[i:]
		switch text {
		case "i":
			text = "ı"
		case "j":
			text = "ȷ"
		}
	}

	var symbol Node
	if s, ok := p.ctx.symbols.Get(p.mode, text); ok {
		meta := Meta{Mode: p.mode, Loc: loc}
		switch family := atomFromGroup(s.Group); {
		case s.Group == "bin" || s.Group == "rel" || s.Group == "open" || s.Group == "close" || s.Group == "punct" || s.Group == "inner":
			symbol = finish(&Atom{Meta: meta, Family: family, Text: text})
		case s.Group == "mathord":
			symbol = finish(&MathOrd{Meta: meta, Text: text})
		case s.Group == "spacing":
			symbol = finish(&Spacing{Meta: meta, Text: text})
		case s.Group == "accent-token":
			symbol = finish(&AccentToken{Meta: meta, Text: text})
		case s.Group == "op-token":
			symbol = finish(&OpToken{Meta: meta, Text: text})
		default:
			symbol = finish(&TextOrd{Meta: meta, Text: text})
		}
	} else if r, _ := utf8.DecodeRuneInString(text); r >= 0x80 {
		if !supportedCodepoint(r) {
			msg := "Unrecognized Unicode character \"" + string(r) + "\""
			if err := p.settings.reportNonstrict("unknownSymbol", msg, tokenLoc(nucleus)); err != nil {
				return nil, err
			}
		} else if p.mode == ModeMath {
			msg := "Unicode text character \"" + string(r) + "\" used in math mode"
			if err := p.settings.reportNonstrict("unicodeTextInMathMode", msg, tokenLoc(nucleus)); err != nil {
				return nil, err
			}
		}

		symbol = finish(&TextOrd{Meta: Meta{Mode: ModeText, Loc: loc}, Text: text})
	} else {
		return nil, nil
	}

	p.consume()

	for _, mark := range marks {
		accent, ok := unicodeAccents[mark]
		if !ok {
			return nil, newParseError(ErrUnknownSymbol, tokenLoc(nucleus), "Unknown accent ' %c'", mark)
		}

		command := accent[0]
		if p.mode == ModeMath {
			command = accent[1]
		}

		if command == "" {
			return nil, newParseError(ErrInvalidMode, tokenLoc(nucleus), "Accent %c unsupported in %s mode", mark, p.mode)
		}

		symbol = finish(&Accent{Meta: Meta{Mode: p.mode, Loc: loc}, Label: command, IsShifty: true, Base: symbol})
	}

	return symbol, nil
}

// verb unpacks a \verb|...| token.
func (p *Parser) verb(tok Token) (Node, error) {
	arg := tok.Text[len("\\verb"):]
	star := strings.HasPrefix(arg, "*")
	if star {
		arg = arg[1:]
	}

	delim, size := utf8.DecodeRuneInString(arg)
	if len(arg) < 2*size || !strings.HasSuffix(arg, string(delim)) {
		return nil, newParseError(ErrInvalidArgument, tokenLoc(tok), "\\verb assertion failed")
	}

	return finish(&Verb{Meta: Meta{Mode: ModeText, Loc: tok.Loc}, Body: arg[size : len(arg)-size], Star: star}), nil
}
