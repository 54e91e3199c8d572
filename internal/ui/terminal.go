package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// LineRewriter erases and re-renders the tail of the stream in place. The
// provisional portion of the output is rewritten on every chunk; settled
// output above it is never touched.
type LineRewriter struct {
	output    io.Writer
	width     int
	tailLines int // terminal lines occupied by the last tail render
}

// NewLineRewriter creates a rewriter for the given terminal width. Width 0
// disables wrap-aware line counting and assumes one terminal line per
// logical line.
func NewLineRewriter(output io.Writer, width int) *LineRewriter {
	return &LineRewriter{output: output, width: width}
}

// WriteSettled emits text that will never be rewritten. Any pending tail
// is erased first.
func (lr *LineRewriter) WriteSettled(rendered string) error {
	if err := lr.clearTail(); err != nil {
		return err
	}
	_, err := io.WriteString(lr.output, rendered)
	return err
}

// WriteTail erases the previous tail and renders a new one in its place.
// A trailing newline is added when missing so the cursor always rests on
// the line below the tail, which keeps the erase arithmetic exact.
func (lr *LineRewriter) WriteTail(rendered string) error {
	if err := lr.clearTail(); err != nil {
		return err
	}
	if rendered == "" {
		return nil
	}
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}
	if _, err := io.WriteString(lr.output, rendered); err != nil {
		return err
	}
	lr.tailLines = lr.countLines(rendered)
	return nil
}

// clearTail moves the cursor up over the previous tail render and erases
// from there to the end of the screen.
func (lr *LineRewriter) clearTail() error {
	n := lr.tailLines
	lr.tailLines = 0
	if n <= 0 {
		return nil
	}

	seq := ansi.CursorUp(n)
	seq += ansi.CursorHorizontalAbsolute(1)
	seq += ansi.EraseDisplay(0)

	_, err := io.WriteString(lr.output, seq)
	return err
}

// countLines calculates how many terminal lines the rendered string
// occupies, accounting for wrapping and escape sequences.
func (lr *LineRewriter) countLines(rendered string) int {
	if rendered == "" {
		return 0
	}

	// The cursor sits on the last line when the render has no trailing
	// newline, so that line still needs clearing.
	if !strings.HasSuffix(rendered, "\n") {
		rendered += "\n"
	}

	lines := strings.Split(rendered, "\n")
	total := 0
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			continue
		}
		lineWidth := ansi.StringWidth(line)
		switch {
		case lineWidth == 0:
			total++
		case lr.width > 0:
			wrapped := (lineWidth + lr.width - 1) / lr.width
			if wrapped == 0 {
				wrapped = 1
			}
			total += wrapped
		default:
			total++
		}
	}
	return total
}
