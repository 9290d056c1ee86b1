package goldmarkmath

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var (
	dollar       = []byte("$")
	doubleDollar = []byte("$$")
	parenOpen    = []byte(`\(`)
	parenClose   = []byte(`\)`)
)

type inlineParser struct{}

// NewInlineParser returns a parser for $...$ and \(...\) formulas.
func NewInlineParser() parser.InlineParser {
	return &inlineParser{}
}

func (p *inlineParser) Trigger() []byte {
	return []byte{'$', '\\'}
}

func (p *inlineParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()

	var opening, closing []byte
	switch {
	case bytes.HasPrefix(line, doubleDollar):
		return nil
	case bytes.HasPrefix(line, dollar):
		opening, closing = dollar, dollar
	case bytes.HasPrefix(line, parenOpen):
		opening, closing = parenOpen, parenClose
	default:
		return nil
	}

	stop := closingDelimiter(line, len(opening), closing)
	if stop < 0 {
		return nil
	}

	tex := line[len(opening):stop]
	if len(bytes.TrimSpace(tex)) == 0 {
		return nil
	}

	// "$5 and $10" is money, not math
	if opening[0] == '$' && (util.IsSpace(tex[0]) || util.IsSpace(tex[len(tex)-1])) {
		return nil
	}

	block.Advance(stop + len(closing))
	return &Inline{TeX: string(tex)}
}

// closingDelimiter returns the offset of delim in line, starting at from and
// skipping escaped characters, or -1.
func closingDelimiter(line []byte, from int, delim []byte) int {
	for i := from; i < len(line); i++ {
		switch {
		case bytes.HasPrefix(line[i:], delim):
			return i
		case line[i] == '\\':
			i++
		case line[i] == '\n':
			return -1
		}
	}

	return -1
}

type blockParser struct{}

// NewBlockParser returns a parser for formulas between $$ lines.
func NewBlockParser() parser.BlockParser {
	return &blockParser{}
}

func (p *blockParser) Trigger() []byte {
	return []byte{'$'}
}

func (p *blockParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], doubleDollar) {
		return nil, parser.NoChildren
	}

	start := pos + len(doubleDollar)
	rest := line[start:]
	node := &Block{}

	if stop := bytes.Index(rest, doubleDollar); stop >= 0 {
		if !util.IsBlank(rest[stop+len(doubleDollar):]) {
			return nil, parser.NoChildren
		}

		node.Lines().Append(text.NewSegment(segment.Start+start, segment.Start+start+stop))
		node.closed = true
		return node, parser.NoChildren
	}

	if !util.IsBlank(rest) {
		node.Lines().Append(text.NewSegment(segment.Start+start, segment.Stop))
	}

	return node, parser.NoChildren
}

func (p *blockParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	if node.(*Block).closed {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if stop := bytes.Index(line, doubleDollar); stop >= 0 {
		if stop > 0 {
			node.Lines().Append(text.NewSegment(segment.Start, segment.Start+stop))
		}

		newline := 1
		if line[len(line)-1] != '\n' {
			newline = 0
		}

		reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
		return parser.Close
	}

	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *blockParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *blockParser) CanInterruptParagraph() bool {
	return true
}

func (p *blockParser) CanAcceptIndentedLine() bool {
	return false
}
