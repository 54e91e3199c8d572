package transforms

import (
	"strings"
	"testing"
)

func TestTableRendersAllCells(t *testing.T) {
	canonical := "| name | count |\n| --- | ---: |\n| alpha | 1 |\n| beta | 22 |"
	out, err := Table(canonical, 80)
	if err != nil {
		t.Fatal(err)
	}
	for _, cell := range []string{"name", "count", "alpha", "beta", "1", "22"} {
		if !strings.Contains(out, cell) {
			t.Errorf("output missing %q:\n%s", cell, out)
		}
	}
	if !strings.Contains(out, "│") {
		t.Errorf("no border drawn:\n%s", out)
	}
}

func TestTableRejectsGarbage(t *testing.T) {
	if _, err := Table("not a table", 80); err == nil {
		t.Error("expected error for single line input")
	}
	if _, err := Table("", 80); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestSplitCanonicalAlignments(t *testing.T) {
	_, aligns, _, err := splitCanonical("| l | c | r | d |\n| :--- | :---: | ---: | --- |")
	if err != nil {
		t.Fatal(err)
	}
	want := []ColumnAlign{AlignLeft, AlignCenter, AlignRight, AlignDefault}
	for i, a := range want {
		if aligns[i] != a {
			t.Errorf("column %d align = %v, want %v", i, aligns[i], a)
		}
	}
}

func TestSplitCanonicalPadsShortRows(t *testing.T) {
	_, _, rows, err := splitCanonical("| a | b |\n| --- | --- |\n| 1 |")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || len(rows[0]) != 2 || rows[0][1] != "" {
		t.Errorf("rows = %v", rows)
	}
}

func TestDiagramFramesSource(t *testing.T) {
	out := Diagram("graph TD\nA-->B", "mermaid", 40)
	if !strings.Contains(out, "mermaid") {
		t.Errorf("label missing:\n%s", out)
	}
	for _, line := range []string{"graph TD", "A-->B"} {
		if !strings.Contains(out, line) {
			t.Errorf("source line %q missing:\n%s", line, out)
		}
	}
}

func TestDiagramDefaultLabel(t *testing.T) {
	out := Diagram("pie\n\"a\": 1", "", 0)
	if !strings.Contains(out, "diagram") {
		t.Errorf("default label missing:\n%s", out)
	}
}

func TestDiagramTruncatesWideLines(t *testing.T) {
	long := strings.Repeat("x", 200)
	out := Diagram(long, "dot", 20)
	for _, line := range strings.Split(out, "\n") {
		// Border glyphs and padding stay within the requested width.
		if n := len([]rune(line)); n > 24 {
			t.Errorf("line %d runes wide: %q", n, line)
		}
	}
}

func TestMathSymbols(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`\pi r^2`, "π r²"},
		{`\alpha + \beta \leq \gamma`, "α + β ≤ γ"},
		{`x \to \infty`, "x → ∞"},
		{`a \neq b`, "a ≠ b"},
		{`\sum_{i} x_i`, "Σᵢ xᵢ"},
		{`e^{i\pi} + 1 = 0`, "e^{iπ} + 1 = 0"}, // 'π' has no superscript form
		{`x^{12}`, "x¹²"},
		{`plain text`, "plain text"},
		{`\unknowncmd stays`, `\unknowncmd stays`},
	}
	for _, tc := range cases {
		if got := Math(tc.in); got != tc.want {
			t.Errorf("Math(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMathIntPrefixSafety(t *testing.T) {
	// \in must not fire inside \int or \infty.
	if got := Math(`\int f`); got != "∫ f" {
		t.Errorf("got %q", got)
	}
	if got := Math(`\infty`); got != "∞" {
		t.Errorf("got %q", got)
	}
	if got := Math(`x \in S`); got != "x ∈ S" {
		t.Errorf("got %q", got)
	}
}
