package katex

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestMeasure(t *testing.T) {
	tt := []struct {
		name  string
		input string
		value float64
		unit  string
	}{
		{name: "em", input: "1.5em", value: 1.5, unit: "em"},
		{name: "leading dot", input: ".025em", value: .025, unit: "em"},
		{name: "negative float", input: "-.5ex", value: -.5, unit: "ex"},
		{name: "negative int", input: "-25mu", value: -25, unit: "mu"},
		{name: "explicit plus", input: "+3pt", value: 3, unit: "pt"},
		{name: "spaces", input: " 2 cm ", value: 2, unit: "cm"},
		{name: "trailing dot", input: "4.in", value: 4, unit: "in"},
		{name: "px", input: "131px", value: 131, unit: "px"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Measure(tc.input)
			if err != nil {
				t.Fatal(err)
			}

			if m.Number != tc.value {
				t.Errorf("Value does not match: want %v, got %v", tc.value, m.Number)
			}

			if m.Unit != tc.unit {
				t.Errorf("Unit does not match: want %v, got %v", tc.unit, m.Unit)
			}
		})
	}
}

func TestMeasure_Invalid(t *testing.T) {
	tt := []struct {
		name  string
		input string
		err   error
	}{
		{name: "no unit", input: "3", err: errInvalidSize},
		{name: "no number", input: "em", err: errInvalidSize},
		{name: "long unit", input: "3cmx", err: errInvalidSize},
		{name: "unknown unit", input: "3zz", err: errInvalidUnit},
		{name: "textwidth", input: "0.25\\textwidth", err: errInvalidSize},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Measure(tc.input); !errors.Is(err, tc.err) {
				t.Errorf("Expected %v, got %v", tc.err, err)
			}
		})
	}
}

func TestCalculateSize(t *testing.T) {
	settings := DefaultSettings()
	text := newOptions(&settings)
	script := text.HavingStyle(StyleScript)

	tt := []struct {
		name    string
		input   string
		options *Options
		output  float64
	}{
		{name: "em", input: "2em", options: text, output: 2},
		{name: "ex", input: "1ex", options: text, output: 0.431},
		{name: "mu", input: "18mu", options: text, output: 1},
		{name: "pt", input: "10pt", options: text, output: 1},
		{name: "in", input: "1in", options: text, output: 7.227},
		{name: "em in script", input: "1em", options: script, output: 1 / 0.7},
		{name: "pt in script", input: "10pt", options: script, output: 1 / 0.7},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculateSize(MustMeasure(tc.input), tc.options)
			if err != nil {
				t.Fatal(err)
			}

			if !cmp.Equal(tc.output, got, cmpopts.EquateApprox(0, 1e-9)) {
				t.Errorf("Size does not match: want %v, got %v", tc.output, got)
			}
		})
	}
}

func TestCalculateSize_MaxSize(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxSize = 5

	got, err := CalculateSize(MustMeasure("100em"), newOptions(&settings))
	if err != nil {
		t.Fatal(err)
	}

	if got != 5 {
		t.Errorf("Expected size to be capped at 5, got %v", got)
	}
}

func TestMakeEm(t *testing.T) {
	tt := []struct {
		input  float64
		output string
	}{
		{input: 0, output: "0em"},
		{input: 1, output: "1em"},
		{input: 0.16666666, output: "0.1667em"},
		{input: -0.5, output: "-0.5em"},
		{input: 0.00001, output: "0em"},
	}

	for _, tc := range tt {
		t.Run(tc.output, func(t *testing.T) {
			if got := MakeEm(tc.input); got != tc.output {
				t.Errorf("Want %q, got %q", tc.output, got)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tt := []struct {
		input  string
		output string
		err    bool
	}{
		{input: "red", output: "red"},
		{input: "#f00", output: "#f00"},
		{input: "#f00a", output: "#f00a"},
		{input: "#ff0000", output: "#ff0000"},
		{input: "#ff000080", output: "#ff000080"},
		{input: "ff0000", output: "#ff0000"},
		{input: "#ff00", output: "#ff00"},
		{input: "#ff0", output: "#ff0"},
		{input: "#12", err: true},
		{input: "#ggg", err: true},
		{input: "red2", err: true},
		{input: "", err: true},
	}

	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseColor(tc.input)
			if tc.err {
				if !errors.Is(err, errInvalidColor) {
					t.Errorf("Expected invalid color error, got %q, %v", got, err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if got != tc.output {
				t.Errorf("Want %q, got %q", tc.output, got)
			}
		})
	}
}

func TestKeyValue(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output map[string]string
	}{
		{
			name:   "empty",
			input:  "",
			output: map[string]string{},
		},
		{
			name:   "one arg",
			input:  "key=value",
			output: map[string]string{"key": "value"},
		},
		{
			name:   "few arg",
			input:  "width=1.2cm, height=45pt",
			output: map[string]string{"width": "1.2cm", "height": "45pt"},
		},
		{
			name:   "lower case",
			input:  "WIDTH=1.2cm, height=45pt",
			output: map[string]string{"width": "1.2cm", "height": "45pt"},
		},
		{
			name:   "with spaces",
			input:  "width=1.2cm, height=    45pt",
			output: map[string]string{"width": "1.2cm", "height": "45pt"},
		},
		{
			name:   "values surrounded by spaces",
			input:  "a = 1 , b = 3",
			output: map[string]string{"a": "1", "b": "3"},
		},
		{
			name:   "value with inner spaces",
			input:  "alt=a small picture",
			output: map[string]string{"alt": "a small picture"},
		},
		{
			name:   "key without value",
			input:  "draft, totalheight=1in",
			output: map[string]string{"draft": "", "totalheight": "1in"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			v, err := KeyValue(tc.input)
			if err != nil {
				t.Fatal(err)
			}

			if !cmp.Equal(v, tc.output) {
				t.Errorf("Value does not match:\n%s\n", cmp.Diff(tc.output, v))
			}
		})
	}
}

func TestColumnSpecs(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output []AlignSpec
	}{
		{
			name:  "columns",
			input: "lcr",
			output: []AlignSpec{
				{Align: "l"},
				{Align: "c"},
				{Align: "r"},
			},
		},
		{
			name:  "separators and spaces",
			input: "|c : c|",
			output: []AlignSpec{
				{Separator: "|"},
				{Align: "c"},
				{Separator: ":"},
				{Align: "c"},
				{Separator: "|"},
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ColumnSpecs(tc.input)
			if err != nil {
				t.Fatal(err)
			}

			if !cmp.Equal(tc.output, got) {
				t.Errorf("Spec does not match:\n%s\n", cmp.Diff(tc.output, got))
			}

			if n := columnCount(got); n != len(tc.input)-countSeparators(tc.input) {
				t.Errorf("Unexpected column count %d", n)
			}
		})
	}

	if _, err := ColumnSpecs("cx"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Expected invalid argument error, got %v", err)
	}
}

func countSeparators(s string) (n int) {
	for _, r := range s {
		if r == '|' || r == ':' || r == ' ' {
			n++
		}
	}

	return
}
