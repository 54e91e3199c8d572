// Package markdown implements an incremental Markdown-to-token pipeline for
// streaming sources. A Session accumulates raw chunks (as they arrive from an
// LLM or any other token stream), re-parses the whole buffer on every chunk,
// and emits a flat, ordered token list suitable for terminal rendering.
// Constructs whose closing delimiter has not arrived yet are flagged
// provisional so the renderer can redraw them cheaply when they complete.
package markdown

// Kind identifies the type of a parsed token. The set is closed: the
// rendering layer switches exhaustively over it.
type Kind int

const (
	KindText Kind = iota
	KindHeading
	KindParagraph
	KindStrong
	KindEmphasis
	KindInlineCode
	KindCodeBlock
	KindBlockquote
	KindListItem
	KindLink
	KindStrikethrough
	KindHorizontalRule
	KindTable
	KindDiagram
	KindMathInline
	KindMathBlock
)

// String returns the kind name used in diagnostics and theme files.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindStrong:
		return "strong"
	case KindEmphasis:
		return "emphasis"
	case KindInlineCode:
		return "inline-code"
	case KindCodeBlock:
		return "code-block"
	case KindBlockquote:
		return "blockquote"
	case KindListItem:
		return "list-item"
	case KindLink:
		return "link"
	case KindStrikethrough:
		return "strikethrough"
	case KindHorizontalRule:
		return "horizontal-rule"
	case KindTable:
		return "table"
	case KindDiagram:
		return "diagram"
	case KindMathInline:
		return "math-inline"
	case KindMathBlock:
		return "math-block"
	default:
		return "unknown"
	}
}

// Inline reports whether tokens of this kind lay out left-to-right within a
// line rather than as their own block.
func (k Kind) Inline() bool {
	switch k {
	case KindText, KindStrong, KindEmphasis, KindInlineCode, KindLink,
		KindStrikethrough, KindMathInline:
		return true
	}
	return false
}

// Token is the unit of parser output.
type Token struct {
	Kind    Kind
	Content string // semantic text, delimiter syntax stripped
	Raw     string // original source slice, for fallback rendering

	Depth       int    // heading level (1-6) or quote/list nesting
	Ordered     bool   // list items only
	Language    string // code blocks only, "text" when untagged
	Destination string // links only

	// Provisional marks a token whose closing delimiter has not been seen;
	// its content may still grow and the token will be replaced wholesale on
	// the next AddChunk.
	Provisional bool
}
