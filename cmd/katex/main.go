// Command katex renders TeX math to KaTeX markup.
//
//	katex [flags] [expr]
//
// The expression is read from the arguments, or from stdin when there are
// none. With -repl expressions are read one per line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/eolymp/go-katex"
	"github.com/peterh/liner"
)

const (
	historyFile = ".katex_history"
	prompt      = "tex> "
)

const replHelp = `REPL commands:
  :display      Toggle display mode
  :def <macro>  Run a \def, \gdef or \newcommand before every expression
  :quit         Exit the REPL
`

// macroFlag collects -macro name=value pairs.
type macroFlag map[string]string

func (m macroFlag) String() string {
	var pairs []string
	for k, v := range m {
		pairs = append(pairs, k+"="+v)
	}

	return strings.Join(pairs, ",")
}

func (m macroFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || !strings.HasPrefix(name, "\\") {
		return fmt.Errorf("macro must look like \\name=replacement, got %q", s)
	}

	m[name] = value
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	settings := katex.DefaultSettings()
	macros := macroFlag{}

	fs := flag.NewFlagSet("katex", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&settings.DisplayMode, "display", false, "render in display mode")
	fs.BoolVar(&settings.Leqno, "leqno", false, "put equation tags on the left")
	fs.BoolVar(&settings.Fleqn, "fleqn", false, "align display math to the left")
	fs.BoolVar(&settings.ThrowOnError, "throw", true, "fail on errors instead of rendering them in place")
	fs.BoolVar(&settings.Trust, "trust", false, "allow \\href, \\url and \\includegraphics")
	fs.StringVar(&settings.ErrorColor, "error-color", settings.ErrorColor, "color of errors rendered in place")
	fs.IntVar(&settings.MaxExpand, "max-expand", settings.MaxExpand, "limit of macro expansions")
	fs.Var(macros, "macro", "define a macro as \\name=replacement, repeatable")
	output := fs.String("output", "htmlAndMathml", "output kind: html, mathml or htmlAndMathml")
	strict := fs.String("strict", "warn", "strict mode: ignore, warn or error")
	repl := fs.Bool("repl", false, "start an interactive session")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	var err error
	if settings.Output, err = katex.ParseOutputKind(*output); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if settings.Strict, err = katex.ParseStrictMode(*strict); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	settings.Macros = macros

	ctx, err := katex.NewContext()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *repl {
		return runREPL(ctx, settings, stdout, stderr)
	}

	expr := strings.Join(fs.Args(), " ")
	if fs.NArg() == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}

		expr = string(data)
	}

	if err := ctx.Render(stdout, expr, settings); err != nil {
		printError(stderr, err)
		return 1
	}

	fmt.Fprintln(stdout)
	return 0
}

// printError prints the source line with a caret for errors in the
// expression, other errors as they are.
func printError(w io.Writer, err error) {
	var s interface{ Snippet() string }
	if errors.As(err, &s) {
		fmt.Fprint(w, s.Snippet())
		return
	}

	fmt.Fprintln(w, err)
}

func runREPL(ctx *katex.Context, settings katex.Settings, stdout, stderr io.Writer) int {
	home, _ := os.UserHomeDir()
	historyPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(historyPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	fmt.Fprint(stdout, replHelp)

	session := &replSession{ctx: ctx, settings: settings, stdout: stdout, stderr: stderr}
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(stdout)
			return 0
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}

		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		ln.AppendHistory(line)
		if session.eval(line) {
			return 0
		}
	}
}

// replSession evaluates REPL lines, definitions persist between lines.
type replSession struct {
	ctx      *katex.Context
	settings katex.Settings
	stdout   io.Writer
	stderr   io.Writer
}

// eval handles one line and reports whether the session is over.
func (s *replSession) eval(line string) bool {
	line = strings.TrimSpace(line)

	switch {
	case line == ":quit":
		return true
	case line == ":display":
		s.settings.DisplayMode = !s.settings.DisplayMode
		fmt.Fprintf(s.stdout, "display mode: %v\n", s.settings.DisplayMode)
	case strings.HasPrefix(line, ":def "):
		settings := s.settings
		settings.Definitions = append(append([]string(nil), s.settings.Definitions...), strings.TrimPrefix(line, ":def "))

		// definitions are checked once, before they are kept
		if _, err := s.ctx.Parse("", settings); err != nil {
			printError(s.stderr, err)
			return false
		}

		s.settings = settings
	case strings.HasPrefix(line, ":"):
		fmt.Fprint(s.stderr, replHelp)
	default:
		out, err := s.ctx.RenderToString(line, s.settings)
		if err != nil {
			printError(s.stderr, err)
			return false
		}

		fmt.Fprintln(s.stdout, out)
	}

	return false
}
