package markdown

import (
	"math/rand"
	"strings"
	"testing"
)

// feedChunks runs input through a fresh session split at the given chunk
// boundaries and returns the final token list.
func feedChunks(t *testing.T, chunks []string) []Token {
	t.Helper()
	s := NewSession()
	var tokens []Token
	for _, c := range chunks {
		tokens = s.AddChunk(c)
	}
	return tokens
}

// contents concatenates token contents, ignoring provisional flags.
func contents(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Content)
	}
	return b.String()
}

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestAddChunkHeadingScenario(t *testing.T) {
	s := NewSession()

	tokens := s.AddChunk("# Hel")
	if len(tokens) != 1 {
		t.Fatalf("after chunk 1: got %d tokens, want 1: %+v", len(tokens), tokens)
	}
	if tokens[0].Kind != KindHeading || tokens[0].Content != "Hel" {
		t.Fatalf("after chunk 1: got %v %q", tokens[0].Kind, tokens[0].Content)
	}
	if !tokens[0].Provisional {
		t.Error("open heading should be provisional")
	}

	tokens = s.AddChunk("lo\n\nThis is **bo")
	if len(tokens) != 2 {
		t.Fatalf("after chunk 2: got %d tokens: %+v", len(tokens), tokens)
	}
	if tokens[0].Kind != KindHeading || tokens[0].Content != "Hello" || tokens[0].Provisional {
		t.Errorf("heading should be settled: %+v", tokens[0])
	}
	if !tokens[1].Provisional {
		t.Errorf("trailing fragment should be provisional: %+v", tokens[1])
	}

	tokens = s.AddChunk("ld** text.")
	want := []Kind{KindHeading, KindText, KindStrong, KindText}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("after chunk 3: kinds %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after chunk 3: kinds %v, want %v", got, want)
		}
	}
	if tokens[2].Content != "bold" {
		t.Errorf("strong content = %q, want %q", tokens[2].Content, "bold")
	}
	for _, tok := range tokens {
		if tok.Provisional {
			t.Errorf("no token should remain provisional: %+v", tok)
		}
	}
}

func TestStreamingConvergesToBatch(t *testing.T) {
	input := "# Title\n\n" +
		"A paragraph with **bold**, _italic_, `code`, [a link](https://example.com) and ~~gone~~.\n\n" +
		"- one\n- two\n  - nested\n\n" +
		"> quoted wisdom\n\n" +
		"```go\nfmt.Println(\"hi\")\n```\n\n" +
		"| a | b |\n|---|---|\n| 1 | 2 |\n"

	batch := NewSession().AddChunk(input)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		s := NewSession()
		var streamed []Token
		pos := 0
		for pos < len(input) {
			n := rng.Intn(7) + 1
			if pos+n > len(input) {
				n = len(input) - pos
			}
			streamed = s.AddChunk(input[pos : pos+n])
			pos += n
		}
		for _, tok := range streamed {
			if tok.Provisional {
				t.Fatalf("trial %d: provisional token after full input: %+v", trial, tok)
			}
		}
		if contents(streamed) != contents(batch) {
			t.Fatalf("trial %d: streamed content diverged\nstreamed: %q\nbatch:    %q",
				trial, contents(streamed), contents(batch))
		}
		if len(streamed) != len(batch) {
			t.Fatalf("trial %d: %d tokens streamed vs %d batch", trial, len(streamed), len(batch))
		}
	}
}

func TestAtMostOneProvisionalAndLast(t *testing.T) {
	input := "# One\n\npara **open\n\n## Two\n\nmore `code\n\n### Thr"
	s := NewSession()
	for i := 0; i < len(input); i += 3 {
		end := i + 3
		if end > len(input) {
			end = len(input)
		}
		tokens := s.AddChunk(input[i:end])
		count := 0
		for j, tok := range tokens {
			if tok.Provisional {
				count++
				if j != len(tokens)-1 {
					t.Fatalf("provisional token at %d of %d, must be last", j, len(tokens))
				}
			}
		}
		if count > 1 {
			t.Fatalf("%d provisional tokens after chunk %d", count, i)
		}
	}
}

func TestProvisionalResolvesOnClose(t *testing.T) {
	s := NewSession()
	tokens := s.AddChunk("start **bo")
	if len(tokens) == 0 || !tokens[len(tokens)-1].Provisional {
		t.Fatalf("expected provisional tail: %+v", tokens)
	}
	tokens = s.AddChunk("ld** done")
	for _, tok := range tokens {
		if tok.Provisional {
			t.Errorf("token still provisional after delimiter closed: %+v", tok)
		}
	}
	var found bool
	for _, tok := range tokens {
		if tok.Kind == KindStrong && tok.Content == "bold" {
			found = true
		}
	}
	if !found {
		t.Errorf("strong token missing: %+v", tokens)
	}
}

func TestAddChunkNeverPanics(t *testing.T) {
	nasty := []string{
		"**unterminated bold with [broken link(",
		"``````",
		strings.Repeat("> ", 200) + "deep",
		strings.Repeat("[", 500),
		strings.Repeat("*", 500),
		"| a |\n|---|---|---|\n| 1 | 2 | 3 | 4 |",
		"\x1b[31mcolored\x1b[0m **and open",
		"&#xZZ; &#; &notarealentity;",
		strings.Repeat("- item\n  ", 300),
	}
	for _, input := range nasty {
		s := NewSession()
		var tokens []Token
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("AddChunk panicked on %q: %v", input, r)
				}
			}()
			tokens = s.AddChunk(input)
		}()
		if tokens == nil {
			t.Errorf("AddChunk(%q) returned no tokens", input)
		}
	}
}

func TestMalformedSingleChunkYieldsProvisionalOrText(t *testing.T) {
	tokens := NewSession().AddChunk("**unterminated bold with [broken link(")
	if len(tokens) == 0 {
		t.Fatal("no tokens")
	}
	last := tokens[len(tokens)-1]
	if !last.Provisional && !strings.Contains(contents(tokens), "unterminated bold") {
		t.Errorf("want provisional tail or degraded text, got %+v", tokens)
	}
}

func TestSingleChunkInlineMarkup(t *testing.T) {
	tokens := NewSession().AddChunk("plain **strong** text")
	want := []Kind{KindText, KindStrong, KindText}
	got := kinds(tokens)
	if len(got) != len(want) {
		t.Fatalf("kinds %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds %v, want %v", got, want)
		}
	}
	if tokens[1].Content != "strong" {
		t.Errorf("strong content = %q", tokens[1].Content)
	}
}

func TestCodeBlockContentJoinsLines(t *testing.T) {
	tokens := NewSession().AddChunk("```go\na := 1\nb := 2\n```\n")
	if len(tokens) != 1 || tokens[0].Kind != KindCodeBlock {
		t.Fatalf("got %+v", tokens)
	}
	if tokens[0].Content != "a := 1\nb := 2\n" {
		t.Errorf("content = %q", tokens[0].Content)
	}
	if tokens[0].Language != "go" {
		t.Errorf("language = %q", tokens[0].Language)
	}
	if tokens[0].Provisional {
		t.Error("closed fence flagged provisional")
	}
}

func TestIncompleteTrackingDisabled(t *testing.T) {
	s := NewSession(WithIncompleteTracking(false))
	tokens := s.AddChunk("# Hel")
	if len(tokens) != 1 {
		t.Fatalf("got %d tokens", len(tokens))
	}
	if tokens[0].Provisional {
		t.Error("provisional flag set with tracking disabled")
	}
}

func TestIncompleteTrackingDisabledOpenFence(t *testing.T) {
	s := NewSession(WithIncompleteTracking(false))
	tokens := s.AddChunk("```go\nfmt.Println(")
	if len(tokens) == 0 {
		t.Fatal("no tokens")
	}
	for _, tok := range tokens {
		if tok.Provisional {
			t.Errorf("open fence flagged provisional with tracking disabled: %+v", tok)
		}
	}
}

func TestIncompleteTrackingDisabledFallbackPath(t *testing.T) {
	inputs := []string{
		"```\n",
		"text with **open",
		strings.Repeat("[", 500),
	}
	for _, input := range inputs {
		tokens := NewSession(WithIncompleteTracking(false)).AddChunk(input)
		for _, tok := range tokens {
			if tok.Provisional {
				t.Errorf("AddChunk(%q): provisional flag with tracking disabled: %+v", input, tok)
			}
		}
	}
}

func TestClearResetsSession(t *testing.T) {
	s := NewSession()
	s.AddChunk("# Heading\n\nbody")
	s.Clear()
	if s.Buffer() != "" {
		t.Errorf("buffer not empty after Clear: %q", s.Buffer())
	}
	if s.Tokens() != nil {
		t.Errorf("tokens not cleared: %+v", s.Tokens())
	}
	tokens := s.AddChunk("fresh")
	if len(tokens) != 1 || tokens[0].Content != "fresh" {
		t.Errorf("session unusable after Clear: %+v", tokens)
	}
}

func TestBufferIsPreprocessedConcatenation(t *testing.T) {
	s := NewSession()
	s.AddChunk("a &amp; b")
	s.AddChunk(" {italic}c{/italic}")
	if got, want := s.Buffer(), "a & b _c_"; got != want {
		t.Errorf("Buffer() = %q, want %q", got, want)
	}
}
