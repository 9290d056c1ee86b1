package katex

import "fmt"

// ArgType tells the parser how to read a function argument.
type ArgType int

const (
	// ArgOriginal is parsed in the mode the function was called in.
	ArgOriginal ArgType = iota
	ArgMath
	ArgText
	// ArgHBox is text wrapped in \textstyle.
	ArgHBox
	ArgRaw
	ArgSize
	ArgColor
	ArgURL
	// ArgPrimitive is a single group or token, like TeX primitives take it.
	ArgPrimitive
)

// FunctionContext is what a function handler gets besides its arguments.
type FunctionContext struct {
	Name             string
	Parser           *Parser
	Token            Token
	BreakOnTokenText string
}

type FunctionHandler func(fc FunctionContext, args []Node, optArgs []Node) (Node, error)

// FunctionSpec describes a control sequence: its arguments, where it may
// appear and the handler producing its syntax node.
type FunctionSpec struct {
	NumArgs         int
	NumOptionalArgs int
	// ArgTypes lists optional arguments first, missing entries are ArgOriginal.
	ArgTypes []ArgType
	// AllowedInArgument lets the function be used without braces as an
	// argument, for example x^\frac12 is fine but x^\left( is not.
	AllowedInArgument bool
	AllowedInText     bool
	// TextOnly functions switch into math mode themselves ($, \().
	TextOnly bool
	// Infix functions (\over, \choose) take the whole group around them.
	Infix bool
	// Primitive functions aren't expandable, \noexpand leaves them alone.
	Primitive bool
	Handler   FunctionHandler
}

func (f *FunctionSpec) argType(i int) (ArgType, bool) {
	if i < len(f.ArgTypes) {
		return f.ArgTypes[i], true
	}

	return ArgOriginal, false
}

type EnvContext struct {
	Name   string
	Mode   Mode
	Parser *Parser
	Token  Token
}

type EnvHandler func(ec EnvContext, args []Node, optArgs []Node) (Node, error)

type EnvSpec struct {
	NumArgs         int
	NumOptionalArgs int
	ArgTypes        []ArgType
	AllowedInText   bool
	Handler         EnvHandler
}

// Context is the shared read-only part of the compiler: function and
// environment registries, the symbol table, font metrics and built-in
// macros. Create it once with NewContext, it is safe for concurrent use.
type Context struct {
	functions    map[string]*FunctionSpec
	environments map[string]*EnvSpec
	symbols      *SymbolTable
	metrics      metricTable
	macros       map[string]Macro
}

func NewContext() (*Context, error) {
	symbols, err := loadSymbols(symbolsData)
	if err != nil {
		return nil, fmt.Errorf("unable to load symbol table: %w", err)
	}

	metrics, err := loadMetrics(fontMetricsData)
	if err != nil {
		return nil, fmt.Errorf("unable to load font metrics: %w", err)
	}

	ctx := &Context{
		functions:    map[string]*FunctionSpec{},
		environments: map[string]*EnvSpec{},
		symbols:      symbols,
		metrics:      metrics,
		macros:       builtinMacros(),
	}

	for _, define := range []func(*Context){
		defineSymbolFunctions,
		defineFracFunctions,
		defineSqrtFunctions,
		defineAccentFunctions,
		defineLineFunctions,
		defineStyleFunctions,
		defineFontFunctions,
		defineTextFunctions,
		defineSpacingFunctions,
		defineDelimiterFunctions,
		defineOpFunctions,
		defineColorFunctions,
		defineBoxFunctions,
		defineArrowFunctions,
		defineLinkFunctions,
		defineMiscFunctions,
		defineEnvironments,
	} {
		define(ctx)
	}

	return ctx, nil
}

func (ctx *Context) defineFunction(names []string, spec FunctionSpec) {
	for _, name := range names {
		s := spec
		ctx.functions[name] = &s
	}
}

func (ctx *Context) defineEnvironment(names []string, spec EnvSpec) {
	for _, name := range names {
		s := spec
		ctx.environments[name] = &s
	}
}

// Function returns the descriptor of a control sequence.
func (ctx *Context) Function(name string) (*FunctionSpec, bool) {
	f, ok := ctx.functions[name]
	return f, ok
}

// Environment returns the descriptor of a \begin{name} environment.
func (ctx *Context) Environment(name string) (*EnvSpec, bool) {
	e, ok := ctx.environments[name]
	return e, ok
}

// Symbol looks up the symbol table.
func (ctx *Context) Symbol(mode Mode, name string) (Symbol, bool) {
	return ctx.symbols.Get(mode, name)
}

// meta is the common node attributes for a node produced by the handler.
func (fc FunctionContext) meta() Meta {
	return Meta{Mode: fc.Parser.mode, Loc: fc.Token.Loc}
}

func (fc FunctionContext) errorf(kind error, format string, args ...any) error {
	return newParseError(kind, tokenLoc(fc.Token), format, args...)
}
