package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Math is an inline $...$ or display $$...$$ span. The segment covers the
// whole construct including the delimiters, so diagnostics on substituted
// output can resolve to the construct's source location.
type Math struct {
	ast.BaseInline
	Segment text.Segment
	Display bool
}

// KindMath is the node kind of Math nodes.
var KindMath = ast.NewNodeKind("Math")

// Kind implements ast.Node.
func (n *Math) Kind() ast.NodeKind {
	return KindMath
}

// Dump implements ast.Node.
func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type mathParser struct{}

func (p *mathParser) Trigger() []byte {
	return []byte{'$'}
}

// Parse recognizes $...$ and $$...$$ closed on the same line. Content may
// not start or end with a space, which keeps "$5 and $10" plain text.
func (p *mathParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, seg := block.PeekLine()

	opener := 1
	if len(line) > 1 && line[1] == '$' {
		opener = 2
	}
	delim := line[:opener]

	closer := bytes.Index(line[opener:], delim)
	if closer <= 0 {
		return nil
	}
	content := line[opener : opener+closer]
	if content[0] == ' ' || content[len(content)-1] == ' ' {
		return nil
	}

	total := opener + closer + opener
	node := &Math{
		Segment: text.NewSegment(seg.Start, seg.Start+total),
		Display: opener == 2,
	}
	block.Advance(total)
	return node
}

type mathExtension struct{}

// MathExtension enables $...$ parsing on a goldmark.Markdown.
var MathExtension goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&mathParser{}, 150),
	))
}
