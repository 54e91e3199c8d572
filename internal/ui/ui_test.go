package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/streamdown/streamdown/internal/markdown"
)

func TestSanitizeKeepsSGR(t *testing.T) {
	in := "\x1b[31mred\x1b[0m plain"
	if got := Sanitize(in); got != in {
		t.Errorf("SGR altered: %q", got)
	}
}

func TestSanitizeDropsControlSequences(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"a\x1b[2Jb", "ab"},               // clear screen
		{"a\x1b[10;10Hb", "ab"},           // cursor position
		{"a\x1b[3Ab", "ab"},               // cursor up
		{"a\x1b]0;title\ab", "ab"},        // OSC title, BEL terminated
		{"a\x1b]8;;http://x\x1b\\b", "ab"}, // OSC, ST terminated
		{"a\x1bcb", "ab"},                 // full reset
		{"a\x1b[31mred\x1b[2Jb", "a\x1b[31mredb"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizerCarriesSplitSGR(t *testing.T) {
	var s Sanitizer
	got := s.Sanitize("red: \x1b") + s.Sanitize("[31mtext\x1b[0m")
	if got != "red: \x1b[31mtext\x1b[0m" {
		t.Errorf("split SGR mangled: %q", got)
	}
}

func TestSanitizerDropsSplitControlSequence(t *testing.T) {
	cases := [][]string{
		{"a\x1b", "[2Jb"},
		{"a\x1b[2", "Jb"},
		{"a\x1b]0;tit", "le\ab"},
		{"a\x1b]8;;x", "\x1b\\b"},
	}
	for _, chunks := range cases {
		var s Sanitizer
		var got string
		for _, c := range chunks {
			got += s.Sanitize(c)
		}
		if got != "ab" {
			t.Errorf("Sanitizer on %q = %q, want %q", chunks, got, "ab")
		}
	}
}

func TestSanitizerUnboundedEscapeDropped(t *testing.T) {
	var s Sanitizer
	got := s.Sanitize("a\x1b]0;" + strings.Repeat("x", 1000))
	got += s.Sanitize("b")
	// The runaway sequence is discarded once it exceeds the buffer bound;
	// later text must come through.
	if !strings.Contains(got, "b") {
		t.Errorf("text after runaway escape lost: %q", got)
	}
	if strings.Contains(got, "\x1b") {
		t.Errorf("escape leaked: %q", got)
	}
}

func TestSanitizeTruncatedEscape(t *testing.T) {
	if got := Sanitize("text\x1b"); got != "text" {
		t.Errorf("got %q", got)
	}
	if got := Sanitize("text\x1b[31"); got != "text" {
		t.Errorf("got %q", got)
	}
}

func plainRenderer(width int) *Renderer {
	return NewRenderer(WithWidth(width), WithColor(false))
}

func TestRenderHeading(t *testing.T) {
	r := plainRenderer(80)
	out := r.RenderToken(markdown.Token{Kind: markdown.KindHeading, Content: "Title", Depth: 2})
	if out != "## Title" {
		t.Errorf("got %q", out)
	}
}

func TestRenderInlineFlow(t *testing.T) {
	r := plainRenderer(80)
	tokens := markdown.NewSession().AddChunk("before **bold** after")
	out := r.Render(tokens)
	if out != "before bold after" {
		t.Errorf("got %q", out)
	}
}

func TestRenderProvisionalEllipsis(t *testing.T) {
	r := plainRenderer(80)
	out := r.RenderToken(markdown.Token{
		Kind: markdown.KindHeading, Content: "Hel", Depth: 1, Provisional: true,
	})
	if !strings.HasSuffix(out, "…") {
		t.Errorf("no ellipsis marker: %q", out)
	}
}

func TestRenderListOrdinals(t *testing.T) {
	r := plainRenderer(80)
	tokens := []markdown.Token{
		{Kind: markdown.KindListItem, Content: "first", Ordered: true},
		{Kind: markdown.KindListItem, Content: "second", Ordered: true},
	}
	out := r.Render(tokens)
	if !strings.Contains(out, "1. first") || !strings.Contains(out, "2. second") {
		t.Errorf("ordinals wrong:\n%s", out)
	}
}

func TestRenderCodeBlockIndented(t *testing.T) {
	r := plainRenderer(80)
	out := r.RenderToken(markdown.Token{
		Kind: markdown.KindCodeBlock, Content: "x := 1\ny := 2\n", Language: "go",
	})
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("code line not indented: %q", line)
		}
	}
}

func TestRenderTableErrorPlaceholder(t *testing.T) {
	r := plainRenderer(80)
	out := r.RenderToken(markdown.Token{Kind: markdown.KindTable, Content: "garbage"})
	if out != "[table render error]" {
		t.Errorf("got %q", out)
	}
}

func TestRenderBlockquoteBar(t *testing.T) {
	r := plainRenderer(80)
	out := r.RenderToken(markdown.Token{
		Kind: markdown.KindBlockquote, Content: "wisdom", Depth: 2,
	})
	if out != "│ │ wisdom" {
		t.Errorf("got %q", out)
	}
}

func TestRenderWraps(t *testing.T) {
	r := plainRenderer(20)
	out := r.RenderToken(markdown.Token{
		Kind:    markdown.KindParagraph,
		Content: "a long line of words that certainly exceeds twenty columns",
	})
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 20 {
			t.Errorf("line exceeds width: %q", line)
		}
	}
}

func TestLineRewriterTailCycle(t *testing.T) {
	var buf bytes.Buffer
	lr := NewLineRewriter(&buf, 80)

	if err := lr.WriteTail("partial line"); err != nil {
		t.Fatal(err)
	}
	first := buf.String()
	if !strings.Contains(first, "partial line") {
		t.Fatalf("tail not written: %q", first)
	}
	if strings.Contains(first, "\x1b[") {
		t.Fatalf("first tail should not need erasing: %q", first)
	}

	buf.Reset()
	if err := lr.WriteTail("longer partial line"); err != nil {
		t.Fatal(err)
	}
	second := buf.String()
	if !strings.Contains(second, "\x1b[A") {
		t.Errorf("no cursor-up before rewrite: %q", second)
	}
	if !strings.Contains(second, "longer partial line") {
		t.Errorf("new tail missing: %q", second)
	}
}

func TestLineRewriterSettledClearsTail(t *testing.T) {
	var buf bytes.Buffer
	lr := NewLineRewriter(&buf, 80)

	if err := lr.WriteTail("tail\n"); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := lr.WriteSettled("done\n"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[A") {
		t.Errorf("settled write did not erase tail: %q", out)
	}

	// Tail is gone; the next settled write must not erase anything.
	buf.Reset()
	if err := lr.WriteSettled("more\n"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "\x1b[A") {
		t.Errorf("stale erase after settled write: %q", buf.String())
	}
}

func TestLineRewriterCountsWrappedLines(t *testing.T) {
	var buf bytes.Buffer
	lr := NewLineRewriter(&buf, 10)
	if err := lr.WriteTail(strings.Repeat("x", 25) + "\n"); err != nil {
		t.Fatal(err)
	}
	if lr.tailLines != 3 {
		t.Errorf("tailLines = %d, want 3", lr.tailLines)
	}
}
