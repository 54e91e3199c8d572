package markdown

import (
	"regexp"
	"strings"
)

// maxTailScan bounds how much of the buffer the signature scan inspects.
// Signatures only ever live in the trailing in-flight block, so a bounded
// window keeps the scan cheap no matter how large the buffer grows.
const maxTailScan = 4096

// markIncomplete flags the trailing token provisional when the buffer tail
// carries the signature of a still-open construct. At most one token per
// call is provisional, always the last: the buffer can only be mid-construct
// in one place, its end.
//
// This is a heuristic over the tail, not a full-grammar guarantee; open
// fences are handled separately at tokenization time because no tail window
// can prove a fence unclosed.
func markIncomplete(tokens []Token, buffer string, enabled bool) []Token {
	if !enabled || len(tokens) == 0 {
		return tokens
	}
	// Uphold the invariant even if an upstream pass misbehaved.
	for i := range tokens[:len(tokens)-1] {
		tokens[i].Provisional = false
	}
	last := len(tokens) - 1
	if tokens[last].Provisional {
		return tokens
	}
	if tailOpen(buffer) {
		tokens[last].Provisional = true
	}
	return tokens
}

var openHeadingRe = regexp.MustCompile(`^ {0,3}#{1,6}([ \t].*)?$`)

// tailOpen reports whether the buffer ends inside an unterminated inline
// construct or an unfinished heading line.
func tailOpen(buffer string) bool {
	if buffer == "" {
		return false
	}
	tail := buffer
	if len(tail) > maxTailScan {
		tail = tail[len(tail)-maxTailScan:]
	}
	// Only the current block matters; everything before the last blank line
	// is settled.
	if i := strings.LastIndex(tail, "\n\n"); i >= 0 {
		tail = tail[i+2:]
	}

	// A heading line the newline hasn't arrived for yet.
	lastLine := tail
	if i := strings.LastIndexByte(tail, '\n'); i >= 0 {
		lastLine = tail[i+1:]
	}
	if lastLine != "" && openHeadingRe.MatchString(lastLine) {
		return true
	}

	open := scanInlineBalance(tail)
	return open.code || open.strong || open.emphasis || open.strike || open.bracket
}

type openState struct {
	code     bool
	strong   bool
	emphasis bool
	strike   bool
	bracket  bool
}

// scanInlineBalance tracks paired inline delimiters across the tail and
// returns which ones are still open at the end. Code spans are handled
// first since backticks escape every other marker. List-marker stars at
// line starts and intra-word underscores are not delimiters.
func scanInlineBalance(text string) openState {
	var st openState
	lineStart := true
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '\\' && i+1 < len(text) {
			i += 2
			lineStart = false
			continue
		}
		if c == '\n' {
			lineStart = true
			i++
			continue
		}

		if c == '`' {
			runLen := 0
			for i+runLen < len(text) && text[i+runLen] == '`' {
				runLen++
			}
			closing := strings.Repeat("`", runLen)
			rest := text[i+runLen:]
			idx := strings.Index(rest, closing)
			if idx == -1 {
				st.code = true
				return st // everything after an open span is literal
			}
			i += runLen + idx + runLen
			lineStart = false
			continue
		}

		switch {
		case c == '*' && i+1 < len(text) && text[i+1] == '*':
			st.strong = !st.strong
			i += 2
		case c == '_' && i+1 < len(text) && text[i+1] == '_':
			st.strong = !st.strong
			i += 2
		case c == '*':
			// "* item" at a line start is a list marker, not emphasis.
			if lineStart && i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				i++
				break
			}
			st.emphasis = !st.emphasis
			i++
		case c == '_':
			if intraWord(text, i) {
				i++
				break
			}
			st.emphasis = !st.emphasis
			i++
		case c == '~' && i+1 < len(text) && text[i+1] == '~':
			st.strike = !st.strike
			i += 2
		case c == '[':
			if strings.IndexByte(text[i+1:], ']') == -1 {
				st.bracket = true
				return st
			}
			i++
		default:
			i++
		}
		if c != ' ' && c != '\t' {
			lineStart = false
		}
	}
	return st
}

// intraWord reports whether the delimiter at i sits between two word
// characters, where it reads as literal text (snake_case, 1_000).
func intraWord(text string, i int) bool {
	if i == 0 || i+1 >= len(text) {
		return false
	}
	return isWordByte(text[i-1]) && isWordByte(text[i+1])
}

func isWordByte(c byte) bool {
	return c == '.' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

// countFenceLines counts lines opening with a code fence, the same parity
// heuristic the boundary detector uses: an odd count means the buffer
// currently ends inside an open fence.
func countFenceLines(buffer string) int {
	count := 0
	for _, line := range strings.Split(buffer, "\n") {
		if isFenceLine(line) {
			count++
		}
	}
	return count
}
