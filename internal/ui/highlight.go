package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter applies syntax highlighting to code block content.
type Highlighter struct {
	style *chroma.Style
}

// NewHighlighter creates a highlighter using the given chroma style name.
// Unknown names fall back to monokai.
func NewHighlighter(styleName string) *Highlighter {
	style := styles.Get(styleName)
	if style == nil || style == styles.Fallback {
		style = styles.Get("monokai")
	}
	if style == nil {
		style = styles.Fallback
	}
	return &Highlighter{style: style}
}

// Highlight colors code for the named language. Unrecognized languages and
// tokenizer failures return the code unchanged.
func (h *Highlighter) Highlight(code, language string) string {
	if h == nil || language == "" || language == "text" {
		return code
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatNoBg(&buf, h.style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// formatNoBg writes foreground-only ANSI coloring, leaving the terminal
// background alone so code blocks blend with the surrounding output.
func formatNoBg(w io.Writer, style *chroma.Style, iterator chroma.Iterator) error {
	for token := iterator(); token != chroma.EOF; token = iterator() {
		if token.Value == "" {
			continue
		}

		entry := style.Get(token.Type)

		var codes []string
		if entry.Colour.IsSet() {
			codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d",
				entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue()))
		}
		if entry.Bold == chroma.Yes {
			codes = append(codes, "1")
		}
		if entry.Italic == chroma.Yes {
			codes = append(codes, "3")
		}
		if entry.Underline == chroma.Yes {
			codes = append(codes, "4")
		}

		if len(codes) > 0 {
			fmt.Fprintf(w, "\x1b[%sm%s\x1b[0m", strings.Join(codes, ";"), token.Value)
		} else {
			fmt.Fprint(w, token.Value)
		}
	}
	return nil
}
