package markdown

import (
	"regexp"
	"strings"
)

var (
	fallbackHeadingRe = regexp.MustCompile(`^(#{1,6})[ \t]+(.*)$`)
	fallbackFenceRe   = regexp.MustCompile("^(```+|~~~+)[ \t]*(\\S*)")
	orderedMarkerRe   = regexp.MustCompile(`^(\d{1,9})[.)][ \t]+(.*)$`)
	bulletMarkerRe    = regexp.MustCompile(`^[-*+][ \t]+(.*)$`)
)

// parsePartial is the degraded path used when the grammar parse fails on a
// malformed intermediate buffer. Each line is classified independently by
// prefix; structural accuracy (nesting, tables) is sacrificed for the
// guarantee that this path cannot fail.
func parsePartial(buffer string) []Token {
	var tokens []Token
	for _, line := range strings.Split(buffer, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		tokens = append(tokens, classifyLine(line, trimmed))
	}
	// Line classification can flag several lines as unterminated; only the
	// buffer tail can truly be mid-construct, so earlier flags are cleared.
	for i := range tokens {
		if i < len(tokens)-1 {
			tokens[i].Provisional = false
		}
	}
	return tokens
}

func classifyLine(raw, trimmed string) Token {
	if m := fallbackHeadingRe.FindStringSubmatch(trimmed); m != nil {
		return Token{
			Kind:    KindHeading,
			Content: strings.TrimSpace(m[2]),
			Raw:     raw,
			Depth:   len(m[1]),
		}
	}
	if m := fallbackFenceRe.FindStringSubmatch(trimmed); m != nil {
		lang := m[2]
		if lang == "" {
			lang = "text"
		}
		return Token{
			Kind:        KindCodeBlock,
			Content:     "",
			Raw:         raw,
			Language:    lang,
			Provisional: true,
		}
	}
	if strings.HasPrefix(trimmed, ">") {
		depth, rest := quotePrefix(trimmed)
		return Token{
			Kind:    KindBlockquote,
			Content: rest,
			Raw:     raw,
			Depth:   depth,
		}
	}
	if m := orderedMarkerRe.FindStringSubmatch(trimmed); m != nil {
		return Token{
			Kind:    KindListItem,
			Content: m[2],
			Raw:     raw,
			Ordered: true,
		}
	}
	if m := bulletMarkerRe.FindStringSubmatch(trimmed); m != nil {
		return Token{
			Kind:    KindListItem,
			Content: m[1],
			Raw:     raw,
		}
	}
	open := scanInlineBalance(trimmed)
	return Token{
		Kind:        KindText,
		Content:     trimmed,
		Raw:         raw,
		Provisional: open.code || open.strong || open.emphasis || open.strike || open.bracket,
	}
}

func quotePrefix(line string) (int, string) {
	depth := 0
	rest := line
	for {
		rest = strings.TrimLeft(rest, " \t")
		if !strings.HasPrefix(rest, ">") {
			break
		}
		depth++
		rest = rest[1:]
	}
	return depth, strings.TrimSpace(rest)
}
