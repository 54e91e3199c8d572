// Package ui turns parsed token streams into styled terminal output. It is
// the rendering boundary: everything here degrades gracefully and never
// panics the streaming loop.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"github.com/streamdown/streamdown/internal/markdown"
	"github.com/streamdown/streamdown/internal/transforms"
)

// Renderer renders token lists produced by a parsing session.
type Renderer struct {
	width   int
	theme   *Theme
	hl      *Highlighter
	color   bool
	ordinal int // running counter for ordered list items
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the wrap width. 0 disables wrapping.
func WithWidth(width int) Option {
	return func(r *Renderer) { r.width = width }
}

// WithTheme overrides the default palette.
func WithTheme(theme *Theme) Option {
	return func(r *Renderer) { r.theme = theme }
}

// WithChromaStyle selects the syntax highlighting style for code blocks.
func WithChromaStyle(name string) Option {
	return func(r *Renderer) { r.hl = NewHighlighter(name) }
}

// WithColor forces color output on or off, overriding terminal detection.
func WithColor(enabled bool) Option {
	return func(r *Renderer) { r.color = enabled }
}

// NewRenderer creates a renderer. Color defaults to the terminal's
// detected profile.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		width: 80,
		theme: DefaultTheme(),
		hl:    NewHighlighter("monokai"),
		color: termenv.ColorProfile() != termenv.Ascii,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the styled text for a full token list. Consecutive
// inline tokens flow together into wrapped paragraphs; block tokens
// separate with blank lines.
func (r *Renderer) Render(tokens []markdown.Token) string {
	var blocks []string
	var inline strings.Builder
	r.ordinal = 0

	flushInline := func() {
		if inline.Len() == 0 {
			return
		}
		blocks = append(blocks, r.wrap(inline.String()))
		inline.Reset()
	}

	for _, tok := range tokens {
		if tok.Kind.Inline() {
			inline.WriteString(r.renderInline(tok))
			continue
		}
		flushInline()
		if tok.Kind != markdown.KindListItem {
			r.ordinal = 0
		}
		blocks = append(blocks, r.renderBlock(tok))
	}
	flushInline()

	return strings.Join(blocks, "\n\n")
}

// RenderToken renders a single token in isolation.
func (r *Renderer) RenderToken(tok markdown.Token) string {
	if tok.Kind.Inline() {
		return r.renderInline(tok)
	}
	return r.renderBlock(tok)
}

func (r *Renderer) renderInline(tok markdown.Token) string {
	out := tok.Content
	switch tok.Kind {
	case markdown.KindStrong:
		out = r.styled(lipgloss.NewStyle().Bold(true).Foreground(r.theme.Strong), out)
	case markdown.KindEmphasis:
		out = r.styled(lipgloss.NewStyle().Italic(true).Foreground(r.theme.Emphasis), out)
	case markdown.KindInlineCode:
		out = r.styled(lipgloss.NewStyle().Foreground(r.theme.InlineCode), out)
	case markdown.KindLink:
		text := r.styled(lipgloss.NewStyle().Foreground(r.theme.Link).Underline(true), tok.Content)
		if tok.Destination != "" && tok.Destination != tok.Content {
			url := r.styled(lipgloss.NewStyle().Foreground(r.theme.LinkURL), "("+tok.Destination+")")
			out = text + " " + url
		} else {
			out = text
		}
	case markdown.KindStrikethrough:
		out = r.styled(lipgloss.NewStyle().Strikethrough(true).Foreground(r.theme.Muted), out)
	case markdown.KindMathInline:
		out = transforms.Math(tok.Content)
	}
	if tok.Provisional {
		out = r.dim(out)
	}
	return out
}

func (r *Renderer) renderBlock(tok markdown.Token) string {
	var out string
	switch tok.Kind {
	case markdown.KindHeading:
		marker := strings.Repeat("#", tok.Depth) + " "
		out = r.styled(lipgloss.NewStyle().Bold(true).Foreground(r.theme.Heading), marker+tok.Content)

	case markdown.KindParagraph:
		out = r.wrap(tok.Content)

	case markdown.KindCodeBlock:
		out = r.renderCode(tok)

	case markdown.KindBlockquote:
		bar := strings.Repeat(r.styled(lipgloss.NewStyle().Foreground(r.theme.QuoteBar), "│ "), max(tok.Depth, 1))
		body := r.styled(lipgloss.NewStyle().Foreground(r.theme.Quote), tok.Content)
		out = bar + body

	case markdown.KindListItem:
		out = r.renderListItem(tok)

	case markdown.KindHorizontalRule:
		width := r.width
		if width <= 0 {
			width = 40
		}
		out = r.styled(lipgloss.NewStyle().Foreground(r.theme.Rule), strings.Repeat("─", width))

	case markdown.KindTable:
		rendered, err := transforms.Table(tok.Content, r.width)
		if err != nil {
			out = "[table render error]"
		} else {
			out = rendered
		}

	case markdown.KindDiagram:
		out = transforms.Diagram(tok.Content, tok.Language, r.width)

	case markdown.KindMathBlock:
		out = "  " + transforms.Math(tok.Content)

	default:
		out = r.wrap(tok.Content)
	}

	if tok.Provisional {
		out = r.dim(out) + r.dim("…")
	}
	return out
}

func (r *Renderer) renderCode(tok markdown.Token) string {
	code := strings.TrimRight(tok.Content, "\n")
	if r.color {
		code = r.hl.Highlight(code, tok.Language)
	}
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderListItem(tok markdown.Token) string {
	indent := strings.Repeat("  ", tok.Depth)
	var marker string
	if tok.Ordered {
		r.ordinal++
		marker = fmt.Sprintf("%d. ", r.ordinal)
	} else {
		marker = "• "
	}
	styledMarker := r.styled(lipgloss.NewStyle().Foreground(r.theme.ListMarker), marker)
	return indent + styledMarker + tok.Content
}

func (r *Renderer) wrap(s string) string {
	if r.width <= 0 {
		return s
	}
	return wordwrap.String(s, r.width)
}

func (r *Renderer) dim(s string) string {
	return r.styled(lipgloss.NewStyle().Faint(true).Foreground(r.theme.Muted), s)
}

// styled renders text through a style, or verbatim when the terminal has
// no color support.
func (r *Renderer) styled(style lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return style.Render(text)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
