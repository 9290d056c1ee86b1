package katex

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// OutputKind selects which trees are serialized.
type OutputKind int

const (
	OutputHTMLAndMathML OutputKind = iota
	OutputHTML
	OutputMathML
)

func (o OutputKind) String() string {
	switch o {
	case OutputHTML:
		return "html"
	case OutputMathML:
		return "mathml"
	default:
		return "htmlAndMathml"
	}
}

// ParseOutputKind accepts the option names used by the JavaScript library.
func ParseOutputKind(s string) (OutputKind, error) {
	switch s {
	case "html":
		return OutputHTML, nil
	case "mathml":
		return OutputMathML, nil
	case "htmlAndMathml", "both", "":
		return OutputHTMLAndMathML, nil
	default:
		return 0, fmt.Errorf("unknown output kind %q", s)
	}
}

// StrictMode tells what to do with input which is valid KaTeX but not valid LaTeX.
type StrictMode int

const (
	StrictWarn StrictMode = iota
	StrictIgnore
	StrictError
)

func (m StrictMode) String() string {
	switch m {
	case StrictIgnore:
		return "ignore"
	case StrictError:
		return "error"
	default:
		return "warn"
	}
}

func ParseStrictMode(s string) (StrictMode, error) {
	switch s {
	case "warn", "":
		return StrictWarn, nil
	case "ignore", "false", "off":
		return StrictIgnore, nil
	case "error", "true":
		return StrictError, nil
	default:
		return 0, fmt.Errorf("unknown strict mode %q", s)
	}
}

// TrustContext describes a command which wants to embed something external.
type TrustContext struct {
	Command  string
	URL      string
	Protocol string
}

// Settings is a per-render configuration. Zero values are not defaults, start from DefaultSettings.
type Settings struct {
	DisplayMode      bool
	Output           OutputKind
	Leqno            bool
	Fleqn            bool
	ThrowOnError     bool
	ErrorColor       string
	MinRuleThickness float64
	ColorIsTextColor bool
	MaxSize          float64
	MaxExpand        int
	MaxDepth         int
	GlobalGroup      bool

	// Macros maps a control sequence to its replacement text, arguments are referenced as #1..#9.
	Macros map[string]string
	// Definitions are \def, \gdef or \newcommand statements run before the expression.
	Definitions []string

	Strict     StrictMode
	StrictFunc func(code, msg string, loc *SourceLocation) StrictMode

	Trust     bool
	TrustFunc func(ctx TrustContext) bool
}

func DefaultSettings() Settings {
	return Settings{
		Output:       OutputHTMLAndMathML,
		ThrowOnError: true,
		ErrorColor:   "#cc0000",
		MaxSize:      math.Inf(1),
		MaxExpand:    1000,
		MaxDepth:     300,
		Strict:       StrictWarn,
	}
}

// Validate checks literal options.
func (s Settings) Validate() error {
	if s.ErrorColor != "" {
		if _, err := ParseColor(s.ErrorColor); err != nil {
			return fmt.Errorf("error color: %w", err)
		}
	}

	if s.MaxExpand < 0 {
		return fmt.Errorf("max expand must not be negative, got %d", s.MaxExpand)
	}

	if s.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", s.MaxDepth)
	}

	if s.MinRuleThickness < 0 || s.MaxSize < 0 {
		return fmt.Errorf("sizes must not be negative")
	}

	return nil
}

func (s *Settings) strictBehavior(code, msg string, loc *SourceLocation) StrictMode {
	if s.StrictFunc != nil {
		return s.StrictFunc(code, msg, loc)
	}

	return s.Strict
}

// reportNonstrict fails in error mode and logs in warn mode.
func (s *Settings) reportNonstrict(code, msg string, loc *SourceLocation) error {
	switch s.strictBehavior(code, msg, loc) {
	case StrictIgnore:
		return nil
	case StrictError:
		return &ParseError{
			Kind: ErrStrict,
			Msg:  fmt.Sprintf("LaTeX-incompatible input and strict mode is set to 'error': %s [%s]", msg, code),
			Loc:  loc,
		}
	default:
		parseTracer().Errorf("LaTeX-incompatible input and strict mode is set to 'warn': %s [%s]", msg, code)
		return nil
	}
}

// useStrictBehavior reports whether LaTeX behavior should be used over the lenient one.
func (s *Settings) useStrictBehavior(code, msg string, loc *SourceLocation) bool {
	switch s.strictBehavior(code, msg, loc) {
	case StrictError:
		return true
	case StrictIgnore:
		return false
	default:
		parseTracer().Errorf("LaTeX-incompatible input and strict mode is set to 'warn': %s [%s]", msg, code)
		return false
	}
}

var protocolPattern = regexp.MustCompile(`(?i)^[\x00-\x20]*([^\\/#?]*?)(:|&#0*58|&#x0*3a|&colon)`)
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+\-.]*$`)

// protocolFromURL returns lower case scheme, "_relative" for relative links and "" for garbage.
func protocolFromURL(url string) string {
	m := protocolPattern.FindStringSubmatch(url)
	if m == nil {
		return "_relative"
	}

	if m[2] != ":" || !schemePattern.MatchString(m[1]) {
		return ""
	}

	return strings.ToLower(m[1])
}

func (s *Settings) isTrusted(ctx TrustContext) bool {
	if ctx.URL != "" && ctx.Protocol == "" {
		ctx.Protocol = protocolFromURL(ctx.URL)
		if ctx.Protocol == "" {
			return false
		}
	}

	if s.TrustFunc != nil {
		return s.TrustFunc(ctx)
	}

	return s.Trust
}
