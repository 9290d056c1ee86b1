package katex

// Mode is the parsing mode of a node.
type Mode int

const (
	ModeMath Mode = iota
	ModeText
)

func (m Mode) String() string {
	if m == ModeText {
		return "text"
	}

	return "math"
}

// AtomType is the TeX atom class of a node, it drives inter-atom spacing.
// AtomNone is used by nodes which don't take part in spacing themselves
// (kerns, color and sizing wrappers whose children are spaced instead).
type AtomType int

const (
	AtomNone AtomType = iota
	AtomOrd
	AtomOp
	AtomBin
	AtomRel
	AtomOpen
	AtomClose
	AtomPunct
	AtomInner
)

var atomClasses = [...]string{"", "mord", "mop", "mbin", "mrel", "mopen", "mclose", "mpunct", "minner"}

// Class is the CSS class used for the atom type, for example "mbin".
func (a AtomType) Class() string {
	return atomClasses[a]
}

func (a AtomType) String() string {
	if a == AtomNone {
		return "none"
	}

	return atomClasses[a]
}

func atomFromClass(class string) AtomType {
	for i, c := range atomClasses {
		if i > 0 && c == class {
			return AtomType(i)
		}
	}

	return AtomNone
}

// atomFromGroup maps symbol table groups onto atom types.
func atomFromGroup(group string) AtomType {
	switch group {
	case "bin":
		return AtomBin
	case "rel":
		return AtomRel
	case "open":
		return AtomOpen
	case "close":
		return AtomClose
	case "punct":
		return AtomPunct
	case "inner":
		return AtomInner
	case "op-token":
		return AtomOp
	default:
		return AtomOrd
	}
}

type NodeType int

const (
	TypeOrdGroup NodeType = iota
	TypeMathOrd
	TypeTextOrd
	TypeSpacing
	TypeAtom
	TypeAccentToken
	TypeOpToken
	TypeSupSub
	TypeGenFrac
	TypeSqrt
	TypeAccent
	TypeAccentUnder
	TypeOverline
	TypeUnderline
	TypeSizing
	TypeColor
	TypeStyling
	TypeFont
	TypeText
	TypeKern
	TypeLeftRight
	TypeMiddle
	TypeDelimSizing
	TypeOp
	TypeOperatorName
	TypeArray
	TypeRule
	TypeRaisebox
	TypePhantom
	TypeHPhantom
	TypeVPhantom
	TypeLap
	TypeEnclose
	TypeHref
	TypeIncludegraphics
	TypeVerb
	TypeMClass
	TypeXArrow
	TypeHorizBrace
	TypeTag
	TypeUnsupported
	TypeInfix
	TypeCr
	TypeInternal
	TypeLeftRightRight
	TypeRaw
	TypeColorToken
	TypeSize
	TypeURL
	TypeEnvironment
)

var nodeTypeNames = [...]string{
	"ordgroup", "mathord", "textord", "spacing", "atom", "accent-token", "op-token", "supsub",
	"genfrac", "sqrt", "accent", "accentUnder", "overline", "underline", "sizing", "color",
	"styling", "font", "text", "kern", "leftright", "middle", "delimsizing", "op",
	"operatorname", "array", "rule", "raisebox", "phantom", "hphantom", "vphantom", "lap",
	"enclose", "href", "includegraphics", "verb", "mclass", "xArrow", "horizBrace", "tag",
	"unsupported", "infix", "cr", "internal", "leftright-right", "raw", "color-token", "size", "url", "environment",
}

func (t NodeType) String() string {
	return nodeTypeNames[t]
}

// Meta is carried by every syntax node.
type Meta struct {
	Mode Mode
	Loc  SourceLocation
	// Atom is assigned by the parser once the node is complete.
	Atom AtomType
}

func (m *Meta) meta() *Meta {
	return m
}

// Info returns a copy of the common node attributes.
func (m *Meta) Info() Meta {
	return *m
}

// Node is a syntax tree node. The set of node types is closed.
type Node interface {
	Type() NodeType
	Info() Meta
	meta() *Meta
}

type OrdGroup struct {
	Meta
	Body []Node
	// Semisimple groups (\begingroup...\endgroup) don't create an atom.
	Semisimple bool
}

type MathOrd struct {
	Meta
	Text string
}

type TextOrd struct {
	Meta
	Text string
}

type Spacing struct {
	Meta
	Text string
}

type Atom struct {
	Meta
	Family AtomType
	Text   string
}

type AccentToken struct {
	Meta
	Text string
}

type OpToken struct {
	Meta
	Text string
}

type SupSub struct {
	Meta
	Base Node
	Sup  Node
	Sub  Node
}

type GenFrac struct {
	Meta
	Numer      Node
	Denom      Node
	HasBarLine bool
	BarSize    *Measurement
	LeftDelim  string
	RightDelim string
	Continued  bool
	// Size is "auto", "display", "text", "script" or "scriptscript".
	Size string
}

type Sqrt struct {
	Meta
	Body  Node
	Index Node
}

type Accent struct {
	Meta
	Label      string
	IsStretchy bool
	IsShifty   bool
	Base       Node
}

type AccentUnder struct {
	Meta
	Label      string
	IsStretchy bool
	Base       Node
}

type Overline struct {
	Meta
	Body Node
}

type Underline struct {
	Meta
	Body Node
}

type Sizing struct {
	Meta
	Size int
	Body []Node
}

type Color struct {
	Meta
	Color string
	Body  []Node
}

type Styling struct {
	Meta
	Style string
	Body  []Node
}

type Font struct {
	Meta
	Font string
	Body Node
}

type Text struct {
	Meta
	Font string
	Body []Node
}

type Kern struct {
	Meta
	Dimension Measurement
}

type LeftRight struct {
	Meta
	Left       string
	Right      string
	RightColor string
	Body       []Node
}

type Middle struct {
	Meta
	Delim string
}

type DelimSizing struct {
	Meta
	Size  int
	Class AtomType
	Delim string
}

type Op struct {
	Meta
	Name               string
	Symbol             bool
	Limits             bool
	AlwaysHandleSupSub bool
	SuppressBaseShift  bool
	ParentIsSupSub     bool
	Body               []Node
}

type OperatorName struct {
	Meta
	Body               []Node
	Limits             bool
	AlwaysHandleSupSub bool
	ParentIsSupSub     bool
}

// AlignSpec is either a column ("l", "c", "r") or a separator ("|", ":").
type AlignSpec struct {
	Align     string
	Separator string
	PreGap    *float64
	PostGap   *float64
}

type Array struct {
	Meta
	Cols            []AlignSpec
	ArrayStretch    float64
	AddJot          bool
	RowGaps         []*Measurement
	HLinesBeforeRow [][]bool
	Body            [][]Node
	// ColSeparation is "", "align", "alignat", "gather" or "small".
	ColSeparation       string
	HSkipBeforeAndAfter bool
}

type Rule struct {
	Meta
	Shift  *Measurement
	Width  Measurement
	Height Measurement
}

type Raisebox struct {
	Meta
	Dy   Measurement
	Body Node
}

type Phantom struct {
	Meta
	Body []Node
}

type HPhantom struct {
	Meta
	Body Node
}

type VPhantom struct {
	Meta
	Body Node
}

type Lap struct {
	Meta
	Alignment string
	Body      Node
}

type Enclose struct {
	Meta
	Label           string
	BackgroundColor string
	BorderColor     string
	Body            Node
}

type Href struct {
	Meta
	Href string
	Body []Node
}

type Includegraphics struct {
	Meta
	Alt         string
	Src         string
	Width       Measurement
	Height      Measurement
	TotalHeight Measurement
}

type Verb struct {
	Meta
	Body string
	Star bool
}

type MClass struct {
	Meta
	Class          AtomType
	Body           []Node
	IsCharacterBox bool
}

type XArrow struct {
	Meta
	Label string
	Body  Node
	Below Node
}

type HorizBrace struct {
	Meta
	Label  string
	IsOver bool
	Base   Node
}

type Tag struct {
	Meta
	Body []Node
	Tag  []Node
}

// Unsupported stands in for an undefined control sequence when errors aren't thrown.
type Unsupported struct {
	Meta
	Command string
}

type Infix struct {
	Meta
	ReplaceWith string
	Size        *Measurement
	Token       Token
}

type Cr struct {
	Meta
	NewLine bool
	Size    *Measurement
}

type Internal struct {
	Meta
}

type LeftRightRight struct {
	Meta
	Delim string
	Color string
}

type Raw struct {
	Meta
	String string
}

type ColorToken struct {
	Meta
	Color string
}

type Size struct {
	Meta
	Value   Measurement
	IsBlank bool
}

type URL struct {
	Meta
	URL string
}

// Environment is what \end leaves behind for the matching \begin to check.
type Environment struct {
	Meta
	Name string
}

func (*OrdGroup) Type() NodeType        { return TypeOrdGroup }
func (*MathOrd) Type() NodeType         { return TypeMathOrd }
func (*TextOrd) Type() NodeType         { return TypeTextOrd }
func (*Spacing) Type() NodeType         { return TypeSpacing }
func (*Atom) Type() NodeType            { return TypeAtom }
func (*AccentToken) Type() NodeType     { return TypeAccentToken }
func (*OpToken) Type() NodeType         { return TypeOpToken }
func (*SupSub) Type() NodeType          { return TypeSupSub }
func (*GenFrac) Type() NodeType         { return TypeGenFrac }
func (*Sqrt) Type() NodeType            { return TypeSqrt }
func (*Accent) Type() NodeType          { return TypeAccent }
func (*AccentUnder) Type() NodeType     { return TypeAccentUnder }
func (*Overline) Type() NodeType        { return TypeOverline }
func (*Underline) Type() NodeType       { return TypeUnderline }
func (*Sizing) Type() NodeType          { return TypeSizing }
func (*Color) Type() NodeType           { return TypeColor }
func (*Styling) Type() NodeType         { return TypeStyling }
func (*Font) Type() NodeType            { return TypeFont }
func (*Text) Type() NodeType            { return TypeText }
func (*Kern) Type() NodeType            { return TypeKern }
func (*LeftRight) Type() NodeType       { return TypeLeftRight }
func (*Middle) Type() NodeType          { return TypeMiddle }
func (*DelimSizing) Type() NodeType     { return TypeDelimSizing }
func (*Op) Type() NodeType              { return TypeOp }
func (*OperatorName) Type() NodeType    { return TypeOperatorName }
func (*Array) Type() NodeType           { return TypeArray }
func (*Rule) Type() NodeType            { return TypeRule }
func (*Raisebox) Type() NodeType        { return TypeRaisebox }
func (*Phantom) Type() NodeType         { return TypePhantom }
func (*HPhantom) Type() NodeType        { return TypeHPhantom }
func (*VPhantom) Type() NodeType        { return TypeVPhantom }
func (*Lap) Type() NodeType             { return TypeLap }
func (*Enclose) Type() NodeType         { return TypeEnclose }
func (*Href) Type() NodeType            { return TypeHref }
func (*Includegraphics) Type() NodeType { return TypeIncludegraphics }
func (*Verb) Type() NodeType            { return TypeVerb }
func (*MClass) Type() NodeType          { return TypeMClass }
func (*XArrow) Type() NodeType          { return TypeXArrow }
func (*HorizBrace) Type() NodeType      { return TypeHorizBrace }
func (*Tag) Type() NodeType             { return TypeTag }
func (*Unsupported) Type() NodeType     { return TypeUnsupported }
func (*Infix) Type() NodeType           { return TypeInfix }
func (*Cr) Type() NodeType              { return TypeCr }
func (*Internal) Type() NodeType        { return TypeInternal }
func (*LeftRightRight) Type() NodeType  { return TypeLeftRightRight }
func (*Raw) Type() NodeType             { return TypeRaw }
func (*ColorToken) Type() NodeType      { return TypeColorToken }
func (*Size) Type() NodeType            { return TypeSize }
func (*URL) Type() NodeType             { return TypeURL }
func (*Environment) Type() NodeType     { return TypeEnvironment }

// classify returns the atom type the node will have in the layout.
func classify(n Node) AtomType {
	switch n := n.(type) {
	case *Atom:
		return n.Family
	case *OpToken, *Op, *OperatorName:
		return AtomOp
	case *SupSub:
		if n.Base == nil {
			return AtomOrd
		}

		if a := n.Base.Info().Atom; a != AtomNone {
			return a
		}

		return AtomOrd
	case *OrdGroup:
		if n.Semisimple {
			return AtomNone
		}

		return AtomOrd
	case *Font:
		return n.Body.Info().Atom
	case *Spacing:
		if n.Mode == ModeText {
			return AtomOrd
		}

		return AtomNone
	case *LeftRight:
		return AtomInner
	case *Middle:
		return AtomNone
	case *DelimSizing:
		return n.Class
	case *MClass:
		return n.Class
	case *XArrow:
		return AtomRel
	case *Sizing, *Styling, *Color, *Kern, *Phantom, *Href, *Cr, *Internal, *Infix, *Tag,
		*LeftRightRight, *Raw, *ColorToken, *Size, *URL, *Environment:
		return AtomNone
	default:
		return AtomOrd
	}
}

// finish assigns the atom type of a freshly built node.
func finish[T Node](n T) T {
	n.meta().Atom = classify(n)
	return n
}

// ordArgument unwraps a group into its body, anything else becomes a one element list.
func ordArgument(n Node) []Node {
	if g, ok := n.(*OrdGroup); ok {
		return g.Body
	}

	if n == nil {
		return nil
	}

	return []Node{n}
}
