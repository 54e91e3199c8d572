// Package transforms holds pure render-time transforms that turn token
// content into terminal-ready text. Nothing here touches the terminal or
// mutates tokens; callers decide what to do with the output.
package transforms

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

var errNotATable = errors.New("transforms: not a pipe table")

// Table renders a canonical pipe table as a bordered terminal table. The
// input is the normalized form produced by the parsing pipeline: header
// row, separator row, then zero or more data rows, all cell counts equal.
// width caps the total table width; 0 means unconstrained.
func Table(canonical string, width int) (string, error) {
	headers, aligns, rows, err := splitCanonical(canonical)
	if err != nil {
		return "", err
	}

	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#83a598"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				s = s.Bold(true)
			}
			if col >= 0 && col < len(aligns) {
				switch aligns[col] {
				case AlignCenter:
					s = s.Align(lipgloss.Center)
				case AlignRight:
					s = s.Align(lipgloss.Right)
				}
			}
			return s
		})
	if width > 0 {
		t = t.Width(min(width, tableNaturalWidth(headers, rows)))
	}

	return t.String(), nil
}

// ColumnAlign is the horizontal alignment of one table column.
type ColumnAlign int

const (
	AlignDefault ColumnAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// splitCanonical breaks a canonical pipe table into its parts. It only
// understands the normalized form; arbitrary Markdown tables are the
// parser's job.
func splitCanonical(canonical string) (headers []string, aligns []ColumnAlign, rows [][]string, err error) {
	lines := strings.Split(strings.TrimRight(canonical, "\n"), "\n")
	if len(lines) < 2 {
		return nil, nil, nil, errNotATable
	}

	headers = splitRow(lines[0])
	if len(headers) == 0 {
		return nil, nil, nil, errNotATable
	}

	aligns = make([]ColumnAlign, len(headers))
	for i, cell := range splitRow(lines[1]) {
		if i >= len(aligns) {
			break
		}
		aligns[i] = parseAlign(cell)
	}

	for _, line := range lines[2:] {
		row := splitRow(line)
		for len(row) < len(headers) {
			row = append(row, "")
		}
		rows = append(rows, row[:len(headers)])
	}
	return headers, aligns, rows, nil
}

func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func parseAlign(sep string) ColumnAlign {
	left := strings.HasPrefix(sep, ":")
	right := strings.HasSuffix(sep, ":")
	switch {
	case left && right:
		return AlignCenter
	case right:
		return AlignRight
	case left:
		return AlignLeft
	default:
		return AlignDefault
	}
}

// tableNaturalWidth sums the widest cell per column, used to avoid
// stretching small tables across the whole terminal.
func tableNaturalWidth(headers []string, rows [][]string) int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if w := runewidth.StringWidth(cell); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	return total
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
