package ui

import "strings"

// maxPendingEscape bounds the partial escape buffered across chunks. A
// sequence that has not terminated within this many bytes is garbage and
// gets dropped.
const maxPendingEscape = 256

// Sanitizer filters ANSI escape sequences from a chunked stream before it
// reaches the parser buffer. SGR color sequences (CSI ... m) pass through;
// cursor movement, screen clearing, OSC titles and other control sequences
// are dropped so streamed model output cannot scribble over the terminal.
// An escape sequence split across a chunk boundary is buffered until its
// continuation arrives, so reads never leak the continuation as text.
type Sanitizer struct {
	pending string
}

// Sanitize cleans one chunk, joining it with any partial escape left over
// from the previous chunk.
func (s *Sanitizer) Sanitize(chunk string) string {
	if s.pending == "" && !strings.ContainsRune(chunk, '\x1b') {
		return chunk
	}
	clean, rest := sanitize(s.pending + chunk)
	if len(rest) > maxPendingEscape {
		rest = ""
	}
	s.pending = rest
	return clean
}

// Sanitize is the single-shot form for complete input: a trailing partial
// escape is dropped rather than buffered.
func Sanitize(chunk string) string {
	clean, _ := sanitize(chunk)
	return clean
}

// sanitize splits a chunk into cleaned output and the unterminated escape
// sequence at its end, if any.
func sanitize(chunk string) (clean, rest string) {
	if !strings.ContainsRune(chunk, '\x1b') {
		return chunk, ""
	}

	var b strings.Builder
	b.Grow(len(chunk))
	for i := 0; i < len(chunk); {
		if chunk[i] != '\x1b' {
			b.WriteByte(chunk[i])
			i++
			continue
		}

		if i+1 >= len(chunk) {
			return b.String(), chunk[i:]
		}

		switch chunk[i+1] {
		case '[':
			seq, n := scanCSI(chunk[i:])
			if n == 0 {
				return b.String(), chunk[i:]
			}
			if strings.HasSuffix(seq, "m") {
				b.WriteString(seq)
			}
			i += n
		case ']':
			n := scanOSC(chunk[i:])
			if n == 0 {
				return b.String(), chunk[i:]
			}
			i += n
		default:
			// Two-byte escape (ESC c, ESC 7, ...), dropped.
			i += 2
		}
	}
	return b.String(), ""
}

// scanCSI returns the full CSI sequence at the start of s and its length,
// or ("", 0) when the sequence is truncated.
func scanCSI(s string) (string, int) {
	for i := 2; i < len(s); i++ {
		c := s[i]
		if c >= 0x40 && c <= 0x7e {
			return s[:i+1], i + 1
		}
		// Parameter and intermediate bytes only; anything else aborts.
		if !(c >= 0x20 && c <= 0x3f) {
			return s[:i], i
		}
	}
	return "", 0
}

// scanOSC returns the length of the OSC sequence at the start of s,
// terminated by BEL or ESC \ (ST), or 0 when the terminator has not
// arrived yet.
func scanOSC(s string) int {
	for i := 2; i < len(s); i++ {
		if s[i] == '\a' {
			return i + 1
		}
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '\\' {
			return i + 2
		}
	}
	return 0
}
