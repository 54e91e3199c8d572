package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for rendered tokens.
type Theme struct {
	Heading     lipgloss.Color // heading text
	Strong      lipgloss.Color // bold runs
	Emphasis    lipgloss.Color // italic runs
	InlineCode  lipgloss.Color // `code` runs
	Link        lipgloss.Color // link text
	LinkURL     lipgloss.Color // link destination
	Quote       lipgloss.Color // blockquote text
	QuoteBar    lipgloss.Color // blockquote gutter bar
	Rule        lipgloss.Color // horizontal rules
	ListMarker  lipgloss.Color // bullet and number markers
	Muted       lipgloss.Color // provisional/dimmed text
	Text        lipgloss.Color // default text
	CodeBg      lipgloss.Color // code block background
}

// DefaultTheme returns the default palette (gruvbox).
func DefaultTheme() *Theme {
	return &Theme{
		Heading:    lipgloss.Color("#b8bb26"), // gruvbox green
		Strong:     lipgloss.Color("#ebdbb2"), // gruvbox foreground
		Emphasis:   lipgloss.Color("#ebdbb2"),
		InlineCode: lipgloss.Color("#fabd2f"), // gruvbox yellow
		Link:       lipgloss.Color("#83a598"), // gruvbox aqua
		LinkURL:    lipgloss.Color("#928374"), // gruvbox gray
		Quote:      lipgloss.Color("#d3869b"), // gruvbox purple
		QuoteBar:   lipgloss.Color("#665c54"),
		Rule:       lipgloss.Color("#665c54"),
		ListMarker: lipgloss.Color("#83a598"),
		Muted:      lipgloss.Color("#928374"),
		Text:       lipgloss.Color("#ebdbb2"),
		CodeBg:     lipgloss.Color("#3c3836"),
	}
}

// ThemeOverrides carries optional color overrides from configuration.
// Empty fields keep the default.
type ThemeOverrides struct {
	Heading    string
	Strong     string
	Emphasis   string
	InlineCode string
	Link       string
	Quote      string
	Muted      string
	Text       string
}

// ThemeFromOverrides builds a theme with config overrides applied.
func ThemeFromOverrides(o ThemeOverrides) *Theme {
	theme := DefaultTheme()
	if o.Heading != "" {
		theme.Heading = lipgloss.Color(o.Heading)
	}
	if o.Strong != "" {
		theme.Strong = lipgloss.Color(o.Strong)
	}
	if o.Emphasis != "" {
		theme.Emphasis = lipgloss.Color(o.Emphasis)
	}
	if o.InlineCode != "" {
		theme.InlineCode = lipgloss.Color(o.InlineCode)
	}
	if o.Link != "" {
		theme.Link = lipgloss.Color(o.Link)
	}
	if o.Quote != "" {
		theme.Quote = lipgloss.Color(o.Quote)
	}
	if o.Muted != "" {
		theme.Muted = lipgloss.Color(o.Muted)
	}
	if o.Text != "" {
		theme.Text = lipgloss.Color(o.Text)
	}
	return theme
}
