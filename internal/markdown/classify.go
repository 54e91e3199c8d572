package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// diagramLanguages are fence language tags rendered as diagrams.
var diagramLanguages = map[string]bool{
	"mermaid":  true,
	"dot":      true,
	"graphviz": true,
	"plantuml": true,
}

// diagramKeywords trigger auto-detection on untagged fences. Streamed
// sources frequently omit the language tag, so the first non-blank content
// line is checked against known diagram-grammar openers.
var diagramKeywords = []string{
	"graph",
	"flowchart",
	"sequencediagram",
	"classdiagram",
	"statediagram",
	"journey",
	"gantt",
	"pie",
	"gitgraph",
}

// classify is a pure relabeling pass over the tokenizer output. Fenced code
// whose language or content identifies a diagram grammar becomes a diagram
// node; tables are reduced to the canonical pipe-delimited form; paragraphs
// wholly wrapped in $$ become math blocks.
func classify(nodes []*blockNode) []*blockNode {
	for _, bn := range nodes {
		switch n := bn.node.(type) {
		case *ast.FencedCodeBlock:
			classifyFence(bn, n)
		case *east.Table:
			classifyTable(bn, n)
		case *ast.Paragraph:
			classifyMathBlock(bn, n)
		}
	}
	return nodes
}

func classifyFence(bn *blockNode, fcb *ast.FencedCodeBlock) {
	lang := ""
	if l := fcb.Language(bn.src); len(l) > 0 {
		lang = string(l)
	}
	content := codeContent(fcb, bn.src)

	switch {
	case diagramLanguages[strings.ToLower(lang)]:
	case lang == "" && isDiagramContent(content):
	default:
		return
	}
	bn.kind = KindDiagram
	bn.content = content
	if lang == "" {
		lang = "diagram"
	}
	bn.language = lang
}

// isDiagramContent reports whether the first non-blank line opens with a
// recognized diagram keyword, case-insensitively.
func isDiagramContent(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, kw := range diagramKeywords {
			if strings.HasPrefix(lower, kw) {
				return true
			}
		}
		return false
	}
	return false
}

// classifyTable reduces a table node to headers, rows, and alignment and
// re-serializes it into canonical pipe-delimited Markdown. Downstream
// rendering always sees this one textual form regardless of whether the
// table arrived structured or as raw text.
func classifyTable(bn *blockNode, tbl *east.Table) {
	headers, rows := tableCells(tbl, bn.src)
	if len(headers) == 0 {
		// Structured cells missing (can happen with partially streamed
		// tables); fall back to splitting the raw source.
		headers, rows = parsePipeTable(rawOf(tbl, bn.src))
	}
	if len(headers) == 0 {
		return
	}
	bn.kind = KindTable
	bn.content = canonicalTable(headers, rows, tableAlignments(tbl, len(headers)))
}

func tableCells(tbl *east.Table, src []byte) (headers []string, rows [][]string) {
	for c := tbl.FirstChild(); c != nil; c = c.NextSibling() {
		switch row := c.(type) {
		case *east.TableHeader:
			headers = cellTexts(row, src)
		case *east.TableRow:
			rows = append(rows, cellTexts(row, src))
		}
	}
	rows = reconcileRows(headers, rows)
	return headers, rows
}

func cellTexts(row ast.Node, src []byte) []string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cells = append(cells, strings.TrimSpace(nodeText(c, src)))
	}
	return cells
}

// parsePipeTable splits raw pipe-delimited text into headers and data rows,
// skipping the separator line.
func parsePipeTable(raw string) (headers []string, rows [][]string) {
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !strings.Contains(trimmed, "|") {
			continue
		}
		cells := splitPipeRow(trimmed)
		if len(cells) == 0 {
			continue
		}
		if headers == nil {
			headers = cells
			continue
		}
		if isSeparatorRow(cells) {
			continue
		}
		rows = append(rows, cells)
	}
	return headers, reconcileRows(headers, rows)
}

func splitPipeRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, 0, len(parts))
	for _, p := range parts {
		cells = append(cells, strings.TrimSpace(p))
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, c := range cells {
		if c == "" {
			return false
		}
		if strings.Trim(c, ":-") != "" {
			return false
		}
	}
	return true
}

// reconcileRows pads rows short of the header width and silently drops rows
// that overflow it. Streamed tables are transiently malformed; dropping is
// the documented tolerance rather than an error.
func reconcileRows(headers []string, rows [][]string) [][]string {
	if len(headers) == 0 {
		return nil
	}
	kept := rows[:0]
	for _, row := range rows {
		if len(row) > len(headers) {
			continue
		}
		for len(row) < len(headers) {
			row = append(row, "")
		}
		kept = append(kept, row)
	}
	return kept
}

func tableAlignments(tbl *east.Table, cols int) []east.Alignment {
	aligns := make([]east.Alignment, cols)
	for i := 0; i < cols && i < len(tbl.Alignments); i++ {
		aligns[i] = tbl.Alignments[i]
	}
	return aligns
}

// canonicalTable serializes headers/rows/alignment back into standard
// Markdown table syntax, the single source of truth for table content.
func canonicalTable(headers []string, rows [][]string, aligns []east.Alignment) string {
	var b strings.Builder
	writePipeRow(&b, headers)
	b.WriteByte('\n')
	seps := make([]string, len(headers))
	for i := range seps {
		var a east.Alignment
		if i < len(aligns) {
			a = aligns[i]
		}
		switch a {
		case east.AlignLeft:
			seps[i] = ":---"
		case east.AlignCenter:
			seps[i] = ":---:"
		case east.AlignRight:
			seps[i] = "---:"
		default:
			seps[i] = "---"
		}
	}
	writePipeRow(&b, seps)
	for _, row := range rows {
		b.WriteByte('\n')
		writePipeRow(&b, row)
	}
	return b.String()
}

func writePipeRow(b *strings.Builder, cells []string) {
	b.WriteByte('|')
	for _, c := range cells {
		b.WriteByte(' ')
		b.WriteString(c)
		b.WriteString(" |")
	}
}

// classifyMathBlock relabels a paragraph whose entire text is a $$ display
// math span.
func classifyMathBlock(bn *blockNode, p *ast.Paragraph) {
	txt := strings.TrimSpace(nodeText(p, bn.src))
	if len(txt) < 5 || !strings.HasPrefix(txt, "$$") || !strings.HasSuffix(txt, "$$") {
		return
	}
	inner := strings.TrimSpace(txt[2 : len(txt)-2])
	if inner == "" || strings.Contains(inner, "$$") {
		return
	}
	bn.kind = KindMathBlock
	bn.content = inner
}
