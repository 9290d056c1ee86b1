package goldmarkmath

import (
	"github.com/yuin/goldmark/ast"
)

var (
	KindInline = ast.NewNodeKind("MathInline")
	KindBlock  = ast.NewNodeKind("MathBlock")
)

// Inline is a formula inside a paragraph, written as $...$ or \(...\).
type Inline struct {
	ast.BaseInline
	TeX string
}

func (n *Inline) Kind() ast.NodeKind {
	return KindInline
}

func (n *Inline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"TeX": n.TeX}, nil)
}

// Block is a displayed formula between $$ lines. The formula source is kept
// in the node lines.
type Block struct {
	ast.BaseBlock

	// closed is set when the formula ends on its opening line
	closed bool
}

func (n *Block) Kind() ast.NodeKind {
	return KindBlock
}

func (n *Block) IsRaw() bool {
	return true
}

func (n *Block) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// TeX returns the formula source.
func (n *Block) TeX(source []byte) string {
	var tex []byte
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		tex = append(tex, line.Value(source)...)
	}

	return string(tex)
}
