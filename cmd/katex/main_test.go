package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/eolymp/go-katex"
)

func TestRun(t *testing.T) {
	tt := []struct {
		name  string
		args  []string
		stdin string
		code  int
		xpath string
	}{
		{name: "argument", args: []string{"x^2"}, xpath: "//span[@class='katex']"},
		{name: "stdin", stdin: `\frac12`, xpath: "//*[local-name()='mfrac']"},
		{name: "display", args: []string{"-display", "x"}, xpath: "//span[@class='katex-display']"},
		{name: "html only", args: []string{"-output", "html", "x"}, xpath: "//span[@class='katex']/span[@class='katex-html']"},
		{name: "macro", args: []string{"-macro", `\RR=\mathbb{R}`, `\RR`}, xpath: "//span[@class='mord mathbb']"},
		{name: "error in place", args: []string{"-throw=false", "x^1^2"}, xpath: "//span[@class='katex-error']"},
		{name: "parse error", args: []string{"x^1^2"}, code: 1},
		{name: "bad flag", args: []string{"-output", "pdf", "x"}, code: 2},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tc.args, strings.NewReader(tc.stdin), &stdout, &stderr); code != tc.code {
				t.Fatalf("Exit code does not match: want %d, got %d (%s)", tc.code, code, stderr.String())
			}

			if tc.xpath == "" {
				return
			}

			doc, err := htmlquery.Parse(&stdout)
			if err != nil {
				t.Fatal(err)
			}

			if htmlquery.FindOne(doc, tc.xpath) == nil {
				t.Errorf("Output has no %s", tc.xpath)
			}
		})
	}
}

func TestRun_ErrorSnippet(t *testing.T) {
	var stdout, stderr bytes.Buffer
	run([]string{"x^1^2"}, strings.NewReader(""), &stdout, &stderr)

	want := "PARSE ERROR at 1:4: Double superscript\n\n" +
		"     1 | x^1^2\n" +
		"       |    ^\n"

	if got := stderr.String(); got != want {
		t.Errorf("Snippet does not match:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestREPLSession(t *testing.T) {
	ctx, err := katex.NewContext()
	if err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	s := &replSession{ctx: ctx, settings: katex.DefaultSettings(), stdout: &stdout, stderr: &stderr}

	s.eval(`:def \def\half{\frac12}`)
	if stderr.Len() > 0 {
		t.Fatalf("Definition failed: %s", stderr.String())
	}

	s.eval(":display")
	if !s.settings.DisplayMode {
		t.Error("Expected display mode to be toggled")
	}

	stdout.Reset()
	s.eval(`\half`)
	if stderr.Len() > 0 {
		t.Fatalf("Render failed: %s", stderr.String())
	}

	if !strings.Contains(stdout.String(), "katex-display") || !strings.Contains(stdout.String(), "<mfrac>") {
		t.Errorf("Unexpected output %s", stdout.String())
	}

	s.eval(`:def \frac`)
	if stderr.Len() == 0 {
		t.Error("Expected definition error")
	}

	if len(s.settings.Definitions) != 1 {
		t.Errorf("Rejected definition must not be kept, got %v", s.settings.Definitions)
	}

	if !s.eval(":quit") {
		t.Error("Expected :quit to end the session")
	}
}
