package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
)

// Session owns the accumulated buffer for one streamed document and the
// most recently emitted token list. The buffer grows by append only; Clear
// is the only reset. A Session is single-caller: AddChunk is synchronous
// and the type performs no internal locking.
type Session struct {
	md     goldmark.Markdown
	buf    strings.Builder
	tokens []Token

	trackIncomplete bool
}

// Option configures a Session at construction time. The configuration is
// immutable afterwards; changing it means constructing a new session.
type Option func(*Session)

// WithIncompleteTracking toggles provisional-token detection. Disabled,
// tokens are only re-emitted once their construct fully parses.
func WithIncompleteTracking(enabled bool) Option {
	return func(s *Session) { s.trackIncomplete = enabled }
}

// NewSession creates a parser session. Incomplete tracking defaults to on.
func NewSession(opts ...Option) *Session {
	s := &Session{
		md:              newGrammar(),
		trackIncomplete: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddChunk appends a raw chunk to the buffer, re-parses the whole buffer,
// and returns the full new token sequence. The re-parse is an intentional
// O(buffer) cost per chunk: streamed constructs change meaning
// retroactively, and the provisional-token semantics depend on seeing the
// entire buffer on every call.
//
// AddChunk never panics: a grammar failure on a malformed intermediate
// buffer degrades to the line-oriented fallback parse.
func (s *Session) AddChunk(raw string) []Token {
	s.buf.WriteString(Preprocess(raw))
	s.tokens = s.parse(s.buf.String())
	return s.tokens
}

func (s *Session) parse(buffer string) (tokens []Token) {
	defer func() {
		if r := recover(); r != nil {
			tokens = markIncomplete(s.gate(parsePartial(buffer)), buffer, s.trackIncomplete)
		}
	}()
	nodes := classify(tokenizeBuffer(s.md, buffer))
	openFence := s.trackIncomplete && countFenceLines(buffer)%2 == 1
	tokens = flattenBlocks(nodes, openFence)
	return markIncomplete(tokens, buffer, s.trackIncomplete)
}

// gate strips provisional flags that upstream passes set unconditionally
// when the session has incomplete tracking disabled.
func (s *Session) gate(tokens []Token) []Token {
	if s.trackIncomplete {
		return tokens
	}
	for i := range tokens {
		tokens[i].Provisional = false
	}
	return tokens
}

// Tokens returns the token list from the most recent AddChunk.
func (s *Session) Tokens() []Token {
	return s.tokens
}

// Buffer exposes the accumulated preprocessed text, for diagnostics and
// export. Not used in the render path.
func (s *Session) Buffer() string {
	return s.buf.String()
}

// Clear resets the session to empty, discarding buffer and tokens.
func (s *Session) Clear() {
	s.buf.Reset()
	s.tokens = nil
}
