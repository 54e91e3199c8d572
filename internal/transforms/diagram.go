package transforms

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Diagram boxes diagram source for display. Terminals cannot execute
// mermaid or graphviz, so the source is shown verbatim inside a labeled
// frame. Lines wider than width are truncated with an ellipsis; width 0
// leaves lines untouched.
func Diagram(source, language string, width int) string {
	label := language
	if label == "" {
		label = "diagram"
	}

	lines := strings.Split(strings.TrimRight(source, "\n"), "\n")
	inner := width - 4
	if width > 0 && inner > 0 {
		for i, line := range lines {
			if runewidth.StringWidth(line) > inner {
				lines[i] = runewidth.Truncate(line, inner, "…")
			}
		}
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#928374")).
		Padding(0, 1)

	body := strings.Join(lines, "\n")
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#928374")).
		Italic(true)

	return labelStyle.Render(label) + "\n" + frame.Render(body)
}
