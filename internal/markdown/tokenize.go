package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// kindUnset marks a blockNode the classifier has not relabeled.
const kindUnset = Kind(-1)

// blockNode is the tree-shaped intermediate form between the grammar parse
// and flattening. The classifier may relabel a node and attach normalized
// content (canonical table form, diagram source) before the flattener runs.
type blockNode struct {
	node ast.Node
	src  []byte

	kind     Kind   // classifier override, kindUnset otherwise
	content  string // normalized content when kind is overridden
	language string
}

// newGrammar builds the goldmark instance used for whole-buffer re-parses.
// GFM gives us tables and strikethrough, which the token model needs.
func newGrammar() goldmark.Markdown {
	return goldmark.New(goldmark.WithExtensions(extension.GFM))
}

// tokenizeBuffer re-parses the entire buffer and returns its top-level
// blocks. Re-parsing in full on every chunk is deliberate: streamed Markdown
// constructs can retroactively change meaning as more text arrives (a lone
// "-" becomes a list item only once content follows), so no incremental
// state survives between calls.
func tokenizeBuffer(md goldmark.Markdown, buffer string) []*blockNode {
	src := []byte(buffer)
	doc := md.Parser().Parse(text.NewReader(src))

	var nodes []*blockNode
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		nodes = append(nodes, &blockNode{node: c, src: src, kind: kindUnset})
	}
	return nodes
}

// nodeText collects the plain text of a node and its descendants, with all
// delimiter syntax already stripped by the grammar.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	collectText(n, src, &b)
	return b.String()
}

func collectText(n ast.Node, src []byte, b *strings.Builder) {
	switch t := n.(type) {
	case *ast.Text:
		b.Write(t.Segment.Value(src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			b.WriteByte('\n')
		}
		return
	case *ast.String:
		b.Write(t.Value)
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		collectText(c, src, b)
	}
}

// rawOf returns the original source slice covering a node, expanded to line
// boundaries. Best effort: goldmark tracks line segments for leaf blocks
// only, so container raw text is reassembled from descendant segments.
func rawOf(n ast.Node, src []byte) string {
	start, stop := rawExtent(n)
	if start < 0 {
		return ""
	}
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	for stop < len(src) && src[stop] != '\n' {
		stop++
	}
	return string(src[start:stop])
}

func rawExtent(n ast.Node) (int, int) {
	start, stop := -1, -1
	grow := func(s, e int) {
		if start < 0 || s < start {
			start = s
		}
		if e > stop {
			stop = e
		}
	}
	var visit func(ast.Node)
	visit = func(m ast.Node) {
		// Lines is only defined for block nodes; inline nodes panic.
		if m.Type() == ast.TypeBlock {
			if lines := m.Lines(); lines != nil && lines.Len() > 0 {
				first := lines.At(0)
				last := lines.At(lines.Len() - 1)
				grow(first.Start, last.Stop)
			}
		}
		if t, ok := m.(*ast.Text); ok {
			grow(t.Segment.Start, t.Segment.Stop)
		}
		for c := m.FirstChild(); c != nil; c = c.NextSibling() {
			visit(c)
		}
	}
	visit(n)
	return start, stop
}

// fencedRaw returns the source slice of a fenced code block including its
// fence lines, located by scanning the lines around the content segment.
func fencedRaw(fcb *ast.FencedCodeBlock, src []byte) string {
	start, stop := rawExtent(fcb)
	if start < 0 {
		// Fence with no content lines yet ("```go\n"): locate via the info
		// segment when present.
		if fcb.Info != nil {
			start = fcb.Info.Segment.Start
			stop = fcb.Info.Segment.Stop
		} else {
			return ""
		}
	}
	// Opening fence is the line before the first content line.
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	if start > 0 {
		prevEnd := start - 1
		prevStart := prevEnd
		for prevStart > 0 && src[prevStart-1] != '\n' {
			prevStart--
		}
		if isFenceLine(string(src[prevStart:prevEnd])) {
			start = prevStart
		}
	}
	// Closing fence, if it has arrived, is the line after the last content line.
	for stop < len(src) && src[stop] != '\n' {
		stop++
	}
	if stop < len(src) {
		nextStart := stop + 1
		nextEnd := nextStart
		for nextEnd < len(src) && src[nextEnd] != '\n' {
			nextEnd++
		}
		if isFenceLine(string(src[nextStart:nextEnd])) {
			stop = nextEnd
		}
	}
	return string(src[start:stop])
}

func isFenceLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// codeLanguage returns a fenced block's declared language tag, defaulting
// to "text" when the tag is absent.
func codeLanguage(fcb *ast.FencedCodeBlock, src []byte) string {
	if lang := fcb.Language(src); len(lang) > 0 {
		return string(lang)
	}
	return "text"
}

// codeContent concatenates a code block's content lines.
func codeContent(n ast.Node, src []byte) string {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}
