package katex

import "strconv"

// baseSize is the index of \normalsize in sizeMultipliers, counting from one.
const baseSize = 6

var sizeMultipliers = [...]float64{0.5, 0.6, 0.7, 0.8, 0.9, 1.0, 1.2, 1.44, 1.728, 2.074, 2.488}

// sizeStyleMap gives the size used in text, script and scriptscript styles
// for each of the eleven text sizes.
var sizeStyleMap = [...][3]int{
	{1, 1, 1}, {2, 1, 1}, {3, 1, 1}, {4, 2, 1}, {5, 2, 1}, {6, 3, 1},
	{7, 4, 2}, {8, 6, 3}, {9, 7, 6}, {10, 8, 7}, {11, 10, 9},
}

func sizeAtStyle(size int, style Style) int {
	if style.Size() < 2 {
		return size
	}

	return sizeStyleMap[size-1][style.Size()-1]
}

// Options is the layout state threaded through the HTML builder. It is never
// modified in place, every Having/With method returns a copy, or the same
// pointer when nothing changes.
type Options struct {
	Style    Style
	Color    string
	Size     int
	TextSize int
	Phantom  bool
	// Font is set by math font commands (\mathbf), the text font by the rest.
	Font       string
	FontFamily string
	FontWeight string
	FontShape  string

	MaxSize          float64
	MinRuleThickness float64
}

func newOptions(settings *Settings) *Options {
	style := StyleText
	if settings.DisplayMode {
		style = StyleDisplay
	}

	return &Options{
		Style:            style,
		Size:             baseSize,
		TextSize:         baseSize,
		MaxSize:          settings.MaxSize,
		MinRuleThickness: settings.MinRuleThickness,
	}
}

func (o *Options) extend() *Options {
	c := *o
	return &c
}

func (o *Options) SizeMultiplier() float64 {
	return sizeMultipliers[o.Size-1]
}

func (o *Options) FontMetrics() *FontMetrics {
	return fontMetricsForSize(o.Size)
}

// HavingStyle switches the style, the size follows the style.
func (o *Options) HavingStyle(style Style) *Options {
	if o.Style == style {
		return o
	}

	c := o.extend()
	c.Style = style
	c.Size = sizeAtStyle(o.TextSize, style)
	return c
}

func (o *Options) HavingCrampedStyle() *Options {
	return o.HavingStyle(o.Style.Cramp())
}

// HavingSize switches the text size (\large and friends), the style goes back to text.
func (o *Options) HavingSize(size int) *Options {
	if o.Size == size && o.TextSize == size {
		return o
	}

	c := o.extend()
	c.Style = o.Style.Text()
	c.Size = size
	c.TextSize = size
	return c
}

// HavingBaseStyle is like HavingStyle but measures from \normalsize, it is
// used for things that don't scale with sizing commands (delimiters).
func (o *Options) HavingBaseStyle(style Style) *Options {
	want := sizeAtStyle(baseSize, style)
	if o.Size == want && o.TextSize == baseSize && o.Style == style {
		return o
	}

	c := o.extend()
	c.Style = style
	c.Size = want
	return c
}

// HavingBaseSizing removes the effect of sizing commands while keeping the style.
func (o *Options) HavingBaseSizing() *Options {
	size := baseSize
	switch o.Style.Size() {
	case 2:
		size = 3
	case 3:
		size = 1
	}

	c := o.extend()
	c.Style = o.Style.Text()
	c.Size = size
	return c
}

func (o *Options) WithColor(color string) *Options {
	c := o.extend()
	c.Color = color
	return c
}

func (o *Options) WithPhantom() *Options {
	c := o.extend()
	c.Phantom = true
	return c
}

func (o *Options) WithFont(font string) *Options {
	c := o.extend()
	c.Font = font
	return c
}

func (o *Options) WithTextFontFamily(family string) *Options {
	c := o.extend()
	c.FontFamily = family
	c.Font = ""
	return c
}

func (o *Options) WithTextFontWeight(weight string) *Options {
	c := o.extend()
	c.FontWeight = weight
	c.Font = ""
	return c
}

func (o *Options) WithTextFontShape(shape string) *Options {
	c := o.extend()
	c.FontShape = shape
	c.Font = ""
	return c
}

// SizingClasses are the classes that switch font size from old to o.
func (o *Options) SizingClasses(old *Options) []string {
	if old.Size == o.Size {
		return nil
	}

	return []string{"sizing", "reset-size" + strconv.Itoa(old.Size), "size" + strconv.Itoa(o.Size)}
}

// BaseSizingClasses switch from the current size back to \normalsize.
func (o *Options) BaseSizingClasses() []string {
	if o.Size == baseSize {
		return nil
	}

	return []string{"sizing", "reset-size" + strconv.Itoa(o.Size), "size" + strconv.Itoa(baseSize)}
}

// GetColor is the color to paint with, phantoms are transparent.
func (o *Options) GetColor() string {
	if o.Phantom {
		return "transparent"
	}

	return o.Color
}
