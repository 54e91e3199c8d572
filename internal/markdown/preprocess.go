package markdown

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// namedEntities is the fixed set of named references the preprocessor
// decodes. Anything else passes through verbatim.
var namedEntities = map[string]rune{
	"amp":  '&',
	"lt":   '<',
	"gt":   '>',
	"quot": '"',
	"nbsp": '\u00A0',
}

var italicTag = strings.NewReplacer("{italic}", "_", "{/italic}", "_")

// Preprocess normalizes a raw chunk before it is appended to the session
// buffer. It decodes a small set of HTML entities (named plus numeric and
// hex character references) and rewrites the private {italic}...{/italic}
// pseudo-tag to underscore emphasis. ANSI escape sequences are meaningful
// payload for downstream coloring and pass through untouched.
//
// Preprocess is total: malformed references are left as-is.
func Preprocess(raw string) string {
	raw = italicTag.Replace(raw)
	if !strings.ContainsRune(raw, '&') {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		c := raw[i]
		if c != '&' {
			b.WriteByte(c)
			i++
			continue
		}
		r, n := decodeEntity(raw[i:])
		if n == 0 {
			b.WriteByte(c)
			i++
			continue
		}
		b.WriteRune(r)
		i += n
	}
	return b.String()
}

// decodeEntity decodes a single entity at the start of s. It returns the
// decoded rune and the number of bytes consumed, or (0, 0) when s does not
// begin with a decodable reference.
func decodeEntity(s string) (rune, int) {
	if len(s) < 3 || s[0] != '&' {
		return 0, 0
	}
	end := strings.IndexByte(s, ';')
	if end < 0 || end > maxEntityLen {
		return 0, 0
	}
	body := s[1:end]
	if body == "" {
		return 0, 0
	}

	if body[0] == '#' {
		num := body[1:]
		base := 10
		if len(num) > 0 && (num[0] == 'x' || num[0] == 'X') {
			base = 16
			num = num[1:]
		}
		if num == "" {
			return 0, 0
		}
		val, err := strconv.ParseInt(num, base, 32)
		if err != nil || val <= 0 || val > utf8.MaxRune {
			return 0, 0
		}
		// Surrogate halves are not valid text; leave the reference alone.
		if val >= 0xD800 && val <= 0xDFFF {
			return 0, 0
		}
		return rune(val), end + 1
	}

	if r, ok := namedEntities[strings.ToLower(body)]; ok {
		return r, end + 1
	}
	return 0, 0
}

const maxEntityLen = 32
