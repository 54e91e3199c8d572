package markdown

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// flattenBlocks turns classified block nodes into the flat token sequence.
// openFence reports whether the buffer currently ends inside an unclosed
// fence; the trailing code/diagram token is then flagged provisional at
// tokenization time, since tail-scanning cannot see fence state.
func flattenBlocks(nodes []*blockNode, openFence bool) []Token {
	var tokens []Token
	for i, bn := range nodes {
		last := i == len(nodes)-1
		tokens = append(tokens, flattenBlock(bn, last && openFence)...)
	}
	return tokens
}

func flattenBlock(bn *blockNode, openFence bool) []Token {
	if bn.kind != kindUnset {
		tok := Token{
			Kind:     bn.kind,
			Content:  bn.content,
			Raw:      rawOf(bn.node, bn.src),
			Language: bn.language,
		}
		if fcb, ok := bn.node.(*ast.FencedCodeBlock); ok {
			tok.Raw = fencedRaw(fcb, bn.src)
			tok.Provisional = openFence
		}
		return []Token{tok}
	}

	switch n := bn.node.(type) {
	case *ast.Heading:
		return []Token{{
			Kind:    KindHeading,
			Content: nodeText(n, bn.src),
			Raw:     rawOf(n, bn.src),
			Depth:   n.Level,
		}}
	case *ast.Paragraph:
		return flattenParagraph(n, bn.src)
	case *ast.TextBlock:
		return flattenParagraph(n, bn.src)
	case *ast.FencedCodeBlock:
		return []Token{{
			Kind:        KindCodeBlock,
			Content:     codeContent(n, bn.src),
			Raw:         fencedRaw(n, bn.src),
			Language:    codeLanguage(n, bn.src),
			Provisional: openFence,
		}}
	case *ast.CodeBlock:
		return []Token{{
			Kind:     KindCodeBlock,
			Content:  codeContent(n, bn.src),
			Raw:      rawOf(n, bn.src),
			Language: "text",
		}}
	case *ast.Blockquote:
		return flattenBlockquote(n, bn.src, 1)
	case *ast.List:
		return flattenList(n, bn.src, 0)
	case *ast.ThematicBreak:
		return []Token{{Kind: KindHorizontalRule, Content: "", Raw: rawOf(n, bn.src)}}
	default:
		raw := rawOf(bn.node, bn.src)
		txt := nodeText(bn.node, bn.src)
		if txt == "" {
			txt = raw
		}
		if txt == "" {
			return nil
		}
		return []Token{{Kind: KindText, Content: txt, Raw: raw}}
	}
}

// flattenParagraph flattens a paragraph's inline tree into ordered leaf
// tokens. A paragraph that is one plain text run collapses to a single
// paragraph token; any inline markup yields the flat run sequence instead,
// because the renderer lays runs out left-to-right and has no use for
// nesting.
func flattenParagraph(n ast.Node, src []byte) []Token {
	tokens := flattenInlines(n, src)
	if len(tokens) == 0 {
		// No structured children; re-derive from raw text.
		if raw := rawOf(n, src); raw != "" {
			return ScanInline(raw)
		}
		return nil
	}
	if len(tokens) == 1 && tokens[0].Kind == KindText {
		tokens[0].Kind = KindParagraph
		tokens[0].Raw = rawOf(n, src)
	}
	return tokens
}

func flattenBlockquote(n *ast.Blockquote, src []byte, depth int) []Token {
	var tokens []Token
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch child := c.(type) {
		case *ast.Blockquote:
			tokens = append(tokens, flattenBlockquote(child, src, depth+1)...)
		default:
			tokens = append(tokens, Token{
				Kind:    KindBlockquote,
				Content: nodeText(child, src),
				Raw:     rawOf(child, src),
				Depth:   depth,
			})
		}
	}
	return tokens
}

// flattenList emits one list-item token per item, depth tracking nesting.
// An item's own text comes first, then any nested list's items follow in
// document order.
func flattenList(list *ast.List, src []byte, depth int) []Token {
	var tokens []Token
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var text strings.Builder
		var nested []Token
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, flattenList(sub, src, depth+1)...)
				continue
			}
			if text.Len() > 0 {
				text.WriteByte('\n')
			}
			text.WriteString(nodeText(c, src))
		}
		tokens = append(tokens, Token{
			Kind:    KindListItem,
			Content: text.String(),
			Raw:     rawOf(item, src),
			Depth:   depth,
			Ordered: list.IsOrdered(),
		})
		tokens = append(tokens, nested...)
	}
	return tokens
}

var mathInlineRe = regexp.MustCompile(`^\$[^$\n]+\$$`)

// flattenInlines walks an inline tree in document order and emits leaf
// tokens, discarding intermediate nesting. Adjacent plain text is merged
// into a single run.
func flattenInlines(n ast.Node, src []byte) []Token {
	var tokens []Token
	var run strings.Builder

	flush := func() {
		if run.Len() == 0 {
			return
		}
		txt := run.String()
		run.Reset()
		if mathInlineRe.MatchString(strings.TrimSpace(txt)) {
			trimmed := strings.TrimSpace(txt)
			tokens = append(tokens, Token{
				Kind:    KindMathInline,
				Content: trimmed[1 : len(trimmed)-1],
				Raw:     txt,
			})
			return
		}
		tokens = append(tokens, Token{Kind: KindText, Content: txt, Raw: txt})
	}

	var walk func(ast.Node)
	walk = func(m ast.Node) {
		for c := m.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				run.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					run.WriteByte('\n')
				}
			case *ast.String:
				run.Write(node.Value)
			case *ast.Emphasis:
				flush()
				kind := KindEmphasis
				if node.Level >= 2 {
					kind = KindStrong
				}
				tokens = append(tokens, Token{
					Kind:    kind,
					Content: nodeText(node, src),
					Raw:     rawOf(node, src),
				})
			case *ast.CodeSpan:
				flush()
				tokens = append(tokens, Token{
					Kind:    KindInlineCode,
					Content: nodeText(node, src),
					Raw:     rawOf(node, src),
				})
			case *east.Strikethrough:
				flush()
				tokens = append(tokens, Token{
					Kind:    KindStrikethrough,
					Content: nodeText(node, src),
					Raw:     rawOf(node, src),
				})
			case *ast.Link:
				flush()
				tokens = append(tokens, Token{
					Kind:        KindLink,
					Content:     nodeText(node, src),
					Raw:         rawOf(node, src),
					Destination: string(node.Destination),
				})
			case *ast.AutoLink:
				flush()
				url := string(node.URL(src))
				tokens = append(tokens, Token{
					Kind:        KindLink,
					Content:     string(node.Label(src)),
					Raw:         url,
					Destination: url,
				})
			case *ast.Image:
				flush()
				tokens = append(tokens, Token{
					Kind:        KindLink,
					Content:     nodeText(node, src),
					Raw:         rawOf(node, src),
					Destination: string(node.Destination),
				})
			case *ast.RawHTML:
				run.WriteString(rawOf(node, src))
			default:
				walk(c)
			}
		}
	}
	walk(n)
	flush()
	return tokens
}

// Fallback inline patterns, in priority order. Matches from every pattern
// are collected and merged leftmost-first; adjacent delimiters can produce
// overlapping candidates, which the cursor skip below tolerates.
var inlinePatterns = []struct {
	kind Kind
	re   *regexp.Regexp
}{
	{KindStrong, regexp.MustCompile(`\*\*([^*\n]+)\*\*`)},
	{KindStrong, regexp.MustCompile(`__([^_\n]+)__`)},
	{KindEmphasis, regexp.MustCompile(`\*([^*\n]+)\*`)},
	{KindEmphasis, regexp.MustCompile(`_([^_\n]+)_`)},
	{KindInlineCode, regexp.MustCompile("`([^`\n]+)`")},
	{KindLink, regexp.MustCompile(`\[([^\]\n]*)\]\(([^)\n]*)\)`)},
	{KindStrikethrough, regexp.MustCompile(`~~([^~\n]+)~~`)},
}

type inlineMatch struct {
	start, end int
	priority   int
	kind       Kind
	content    string
	dest       string
}

// ScanInline derives inline tokens directly from raw text with independent
// regex scans. This is the best-effort path for content that never passed
// through the grammar (fallback-parsed lines, structure-less paragraphs).
func ScanInline(raw string) []Token {
	var matches []inlineMatch
	for prio, p := range inlinePatterns {
		for _, idx := range p.re.FindAllStringSubmatchIndex(raw, -1) {
			m := inlineMatch{
				start:    idx[0],
				end:      idx[1],
				priority: prio,
				kind:     p.kind,
				content:  raw[idx[2]:idx[3]],
			}
			if p.kind == KindLink && len(idx) >= 6 {
				m.dest = raw[idx[4]:idx[5]]
			}
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].start != matches[j].start {
			return matches[i].start < matches[j].start
		}
		return matches[i].priority < matches[j].priority
	})

	var tokens []Token
	cursor := 0
	for _, m := range matches {
		if m.start < cursor {
			continue
		}
		if m.start > cursor {
			txt := raw[cursor:m.start]
			tokens = append(tokens, Token{Kind: KindText, Content: txt, Raw: txt})
		}
		tokens = append(tokens, Token{
			Kind:        m.kind,
			Content:     m.content,
			Raw:         raw[m.start:m.end],
			Destination: m.dest,
		})
		cursor = m.end
	}
	if cursor < len(raw) {
		txt := raw[cursor:]
		tokens = append(tokens, Token{Kind: KindText, Content: txt, Raw: txt})
	}
	return tokens
}
