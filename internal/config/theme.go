package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// themeFile is the on-disk shape of a named theme under
// <config dir>/themes/<name>.yaml.
type themeFile struct {
	Heading    string `yaml:"heading"`
	Strong     string `yaml:"strong"`
	Emphasis   string `yaml:"emphasis"`
	InlineCode string `yaml:"inline_code"`
	Link       string `yaml:"link"`
	Quote      string `yaml:"quote"`
	Muted      string `yaml:"muted"`
	Text       string `yaml:"text"`
}

// LoadTheme reads a named theme file from the themes directory.
func LoadTheme(configDir, name string) (*ThemeConfig, error) {
	path := filepath.Join(configDir, "themes", name+".yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tf themeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &ThemeConfig{
		Name:       name,
		Heading:    tf.Heading,
		Strong:     tf.Strong,
		Emphasis:   tf.Emphasis,
		InlineCode: tf.InlineCode,
		Link:       tf.Link,
		Quote:      tf.Quote,
		Muted:      tf.Muted,
		Text:       tf.Text,
	}, nil
}

// mergeTheme fills empty fields of dst from the loaded theme. Explicit
// colors in the main config win over the theme file.
func mergeTheme(dst *ThemeConfig, theme *ThemeConfig) {
	if dst.Heading == "" {
		dst.Heading = theme.Heading
	}
	if dst.Strong == "" {
		dst.Strong = theme.Strong
	}
	if dst.Emphasis == "" {
		dst.Emphasis = theme.Emphasis
	}
	if dst.InlineCode == "" {
		dst.InlineCode = theme.InlineCode
	}
	if dst.Link == "" {
		dst.Link = theme.Link
	}
	if dst.Quote == "" {
		dst.Quote = theme.Quote
	}
	if dst.Muted == "" {
		dst.Muted = theme.Muted
	}
	if dst.Text == "" {
		dst.Text = theme.Text
	}
}
