package katex

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"
)

//go:embed data/fontmetrics.json
var fontMetricsData []byte

// FontMetrics are the font-wide parameters of TeX's math fonts (the sigma
// and xi tables), in ems of the current size.
type FontMetrics struct {
	Slant                float64
	Space                float64
	Stretch              float64
	Shrink               float64
	XHeight              float64
	Quad                 float64
	ExtraSpace           float64
	Num1                 float64
	Num2                 float64
	Num3                 float64
	Denom1               float64
	Denom2               float64
	Sup1                 float64
	Sup2                 float64
	Sup3                 float64
	Sub1                 float64
	Sub2                 float64
	SupDrop              float64
	SubDrop              float64
	Delim1               float64
	Delim2               float64
	AxisHeight           float64
	DefaultRuleThickness float64
	BigOpSpacing1        float64
	BigOpSpacing2        float64
	BigOpSpacing3        float64
	BigOpSpacing4        float64
	BigOpSpacing5        float64
	SqrtRuleThickness    float64
	PtPerEm              float64
	DoubleRuleSep        float64
	ArrayRuleWidth       float64
	FboxSep              float64
	FboxRule             float64
	CSSEmPerMu           float64
}

// font parameters for text, script and scriptscript sizes
var fontMetricsBySize = func() [3]FontMetrics {
	col := func(text, script, scriptscript float64) [3]float64 {
		return [3]float64{text, script, scriptscript}
	}

	var (
		slant         = col(0.25, 0.25, 0.25)
		xHeight       = col(0.431, 0.431, 0.431)
		quad          = col(1.0, 1.171, 1.472)
		extraSpace    = col(0, 0, 0)
		num1          = col(0.677, 0.732, 0.925)
		num2          = col(0.394, 0.384, 0.387)
		num3          = col(0.444, 0.471, 0.504)
		denom1        = col(0.686, 0.752, 1.025)
		denom2        = col(0.345, 0.344, 0.532)
		sup1          = col(0.413, 0.503, 0.504)
		sup2          = col(0.363, 0.431, 0.404)
		sup3          = col(0.289, 0.286, 0.294)
		sub1          = col(0.150, 0.143, 0.200)
		sub2          = col(0.247, 0.286, 0.400)
		supDrop       = col(0.386, 0.353, 0.494)
		subDrop       = col(0.050, 0.071, 0.100)
		delim1        = col(2.390, 1.700, 1.980)
		delim2        = col(1.010, 1.157, 1.420)
		axisHeight    = col(0.250, 0.250, 0.250)
		ruleThickness = col(0.04, 0.049, 0.049)
		bigOpSpacing4 = col(0.6, 0.611, 0.611)
		bigOpSpacing5 = col(0.1, 0.143, 0.143)
	)

	var out [3]FontMetrics
	for i := range out {
		out[i] = FontMetrics{
			Slant:                slant[i],
			XHeight:              xHeight[i],
			Quad:                 quad[i],
			ExtraSpace:           extraSpace[i],
			Num1:                 num1[i],
			Num2:                 num2[i],
			Num3:                 num3[i],
			Denom1:               denom1[i],
			Denom2:               denom2[i],
			Sup1:                 sup1[i],
			Sup2:                 sup2[i],
			Sup3:                 sup3[i],
			Sub1:                 sub1[i],
			Sub2:                 sub2[i],
			SupDrop:              supDrop[i],
			SubDrop:              subDrop[i],
			Delim1:               delim1[i],
			Delim2:               delim2[i],
			AxisHeight:           axisHeight[i],
			DefaultRuleThickness: ruleThickness[i],
			BigOpSpacing1:        0.111,
			BigOpSpacing2:        0.166,
			BigOpSpacing3:        0.2,
			BigOpSpacing4:        bigOpSpacing4[i],
			BigOpSpacing5:        bigOpSpacing5[i],
			SqrtRuleThickness:    0.04,
			PtPerEm:              10.0,
			DoubleRuleSep:        0.2,
			ArrayRuleWidth:       0.04,
			FboxSep:              0.3,
			FboxRule:             0.04,
			CSSEmPerMu:           quad[i] / 18,
		}
	}

	return out
}()

// fontMetricsForSize picks the parameter column for one of the eleven sizes.
func fontMetricsForSize(size int) *FontMetrics {
	switch {
	case size >= 5:
		return &fontMetricsBySize[0]
	case size >= 3:
		return &fontMetricsBySize[1]
	default:
		return &fontMetricsBySize[2]
	}
}

// CharacterMetrics are glyph dimensions in ems.
type CharacterMetrics struct {
	Depth  float64
	Height float64
	Italic float64
	Skew   float64
	Width  float64
}

type metricTable map[string]map[rune]CharacterMetrics

func loadMetrics(data []byte) (metricTable, error) {
	var raw map[string]map[string][5]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("font metrics: %w", err)
	}

	table := make(metricTable, len(raw))
	for font, chars := range raw {
		glyphs := make(map[rune]CharacterMetrics, len(chars))
		for code, m := range chars {
			cp, err := strconv.Atoi(code)
			if err != nil {
				return nil, fmt.Errorf("font metrics %s: bad character code %q: %w", font, code, err)
			}

			glyphs[rune(cp)] = CharacterMetrics{Depth: m[0], Height: m[1], Italic: m[2], Skew: m[3], Width: m[4]}
		}

		table[font] = glyphs
	}

	return table, nil
}

// Character looks up the metrics of the first code point of ch. In text
// mode, scripts the fonts don't cover (accented Latin, Cyrillic, CJK...)
// get the metrics of 'M' so that the browser fallback font has room.
func (t metricTable) Character(ch, font string, mode Mode) (CharacterMetrics, bool) {
	r, _ := utf8.DecodeRuneInString(ch)
	glyphs, ok := t[font]
	if !ok {
		return CharacterMetrics{}, false
	}

	if m, ok := glyphs[r]; ok {
		return m, true
	}

	if mode == ModeText && scriptOf(r) != "" {
		m, ok := glyphs['M']
		return m, ok
	}

	return CharacterMetrics{}, false
}

var supportedScripts = [...]struct {
	name   string
	lo, hi rune
}{
	{"latin", 0x0080, 0x024f},
	{"cyrillic", 0x0400, 0x04ff},
	{"armenian", 0x0530, 0x058f},
	{"brahmic", 0x0900, 0x109f},
	{"georgian", 0x10a0, 0x10ff},
	{"cjk", 0x3000, 0x30ff},
	{"cjk", 0x4e00, 0x9faf},
	{"hangul", 0xac00, 0xd7af},
	{"cjk", 0xff00, 0xff60},
}

// scriptOf names the writing system of r, empty for the ones the fonts cover.
func scriptOf(r rune) string {
	for _, s := range supportedScripts {
		if r >= s.lo && r <= s.hi {
			return s.name
		}
	}

	return ""
}

func supportedCodepoint(r rune) bool {
	return scriptOf(r) != ""
}
