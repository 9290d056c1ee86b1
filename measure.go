package katex

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Measurement is a TeX dimension, for example: 5.1cm, 6em, -2mu
type Measurement struct {
	Number float64
	Unit   string
}

func (m Measurement) String() string {
	return strconv.FormatFloat(m.Number, 'f', -1, 64) + m.Unit
}

// ptPerUnit holds the size of one absolute unit in TeX points.
var ptPerUnit = map[string]float64{
	"pt": 1,
	"mm": 7227.0 / 2540,
	"cm": 7227.0 / 254,
	"in": 72.27,
	"bp": 803.0 / 800,
	"pc": 12,
	"dd": 1238.0 / 1157,
	"cc": 14856.0 / 1157,
	"nd": 685.0 / 642,
	"nc": 1370.0 / 107,
	"sp": 1.0 / 65536,
	"px": 803.0 / 800,
}

var relativeUnits = map[string]bool{"ex": true, "em": true, "mu": true}

// ValidUnit reports whether unit can be used in a measurement.
func ValidUnit(unit string) bool {
	_, ok := ptPerUnit[unit]
	return ok || relativeUnits[unit]
}

type sizeLiteral struct {
	Sign   string `parser:"@Sign?"`
	Number string `parser:"@Number"`
	Unit   string `parser:"@Unit"`
}

var (
	sizeLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Number", Pattern: `\d+(?:\.\d*)?|\.\d+`},
		{Name: "Sign", Pattern: `[-+]`},
		{Name: "Unit", Pattern: `[a-zA-Z]+`},
	})

	sizeParser = participle.MustBuild[sizeLiteral](
		participle.Lexer(sizeLexer),
		participle.Elide("Whitespace"),
	)
)

var (
	errInvalidSize = errors.New("invalid size")
	errInvalidUnit = errors.New("invalid unit")
)

// Measure parses measurement value, a signed number followed by a two letter unit.
func Measure(raw string) (Measurement, error) {
	lit, err := sizeParser.ParseString("", raw)
	if err != nil || len(lit.Unit) != 2 {
		return Measurement{}, fmt.Errorf("%w: '%s'", errInvalidSize, raw)
	}

	number, err := strconv.ParseFloat(lit.Number, 64)
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: '%s'", errInvalidSize, raw)
	}

	if lit.Sign == "-" {
		number = -number
	}

	if !ValidUnit(lit.Unit) {
		return Measurement{}, fmt.Errorf("%w: '%s'", errInvalidUnit, lit.Unit)
	}

	return Measurement{Number: number, Unit: lit.Unit}, nil
}

// MustMeasure is like Measure but panics, it's meant for literals in tables.
func MustMeasure(raw string) Measurement {
	m, err := Measure(raw)
	if err != nil {
		panic(err)
	}

	return m
}

// CalculateSize converts measurement into CSS em relative to the options font size.
func CalculateSize(m Measurement, options *Options) (float64, error) {
	var scale float64
	if pt, ok := ptPerUnit[m.Unit]; ok {
		scale = pt / options.FontMetrics().PtPerEm / options.SizeMultiplier()
	} else if m.Unit == "mu" {
		scale = options.FontMetrics().CSSEmPerMu
	} else {
		// ex and em are measured in the text style, even in a script
		unitOptions := options
		if options.Style.IsTight() {
			unitOptions = options.HavingStyle(options.Style.Text())
		}

		switch m.Unit {
		case "ex":
			scale = unitOptions.FontMetrics().XHeight
		case "em":
			scale = unitOptions.FontMetrics().Quad
		default:
			return 0, fmt.Errorf("%w: '%s'", errInvalidUnit, m.Unit)
		}

		if unitOptions != options {
			scale *= unitOptions.SizeMultiplier() / options.SizeMultiplier()
		}
	}

	return math.Min(m.Number*scale, options.MaxSize), nil
}

// MakeEm formats a length in em rounded to four decimals.
func MakeEm(n float64) string {
	n = math.Round(n*1e4) / 1e4
	if n == 0 {
		return "0em"
	}

	return strconv.FormatFloat(n, 'f', -1, 64) + "em"
}
