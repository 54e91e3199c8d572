package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Render RenderConfig `mapstructure:"render"`
	Theme  ThemeConfig  `mapstructure:"theme"`
}

// RenderConfig controls the streaming renderer.
type RenderConfig struct {
	Width                    int    `mapstructure:"width"`                      // 0 = detect from terminal
	HandleIncompleteMarkdown bool   `mapstructure:"handle_incomplete_markdown"` // provisional tail tracking
	ChromaStyle              string `mapstructure:"chroma_style"`               // syntax highlighting style
	GlamourStyle             string `mapstructure:"glamour_style"`              // style for --glamour final pass
	DebounceMillis           int    `mapstructure:"debounce_millis"`            // min delay between tail re-renders
}

// ThemeConfig allows customization of token colors.
// Colors can be ANSI color numbers (0-255) or hex codes (#RRGGBB).
type ThemeConfig struct {
	Name       string `mapstructure:"name"`        // named theme file under themes/
	Heading    string `mapstructure:"heading"`     // heading text
	Strong     string `mapstructure:"strong"`      // bold runs
	Emphasis   string `mapstructure:"emphasis"`    // italic runs
	InlineCode string `mapstructure:"inline_code"` // `code` runs
	Link       string `mapstructure:"link"`        // link text
	Quote      string `mapstructure:"quote"`       // blockquote text
	Muted      string `mapstructure:"muted"`       // dimmed/provisional text
	Text       string `mapstructure:"text"`        // primary text
}

func Load() (*Config, error) {
	configPath, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath(".")

	viper.SetDefault("render.width", 0)
	viper.SetDefault("render.handle_incomplete_markdown", true)
	viper.SetDefault("render.chroma_style", "monokai")
	viper.SetDefault("render.glamour_style", "auto")
	viper.SetDefault("render.debounce_millis", 50)

	viper.SetEnvPrefix("streamdown")
	viper.AutomaticEnv()

	// Config file is optional.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// A named theme file provides the base palette; explicit color fields
	// in the main config override it.
	if cfg.Theme.Name != "" {
		themed, err := LoadTheme(configPath, cfg.Theme.Name)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", cfg.Theme.Name, err)
		}
		mergeTheme(&cfg.Theme, themed)
	}

	return &cfg, nil
}

// ApplyOverrides applies command-line overrides to the config. Zero values
// leave the config untouched.
func (c *Config) ApplyOverrides(width int, chromaStyle string) {
	if width > 0 {
		c.Render.Width = width
	}
	if chromaStyle != "" {
		c.Render.ChromaStyle = chromaStyle
	}
}

// GetConfigDir returns the XDG config directory for streamdown.
// Uses $XDG_CONFIG_HOME if set, otherwise ~/.config
func GetConfigDir() (string, error) {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, "streamdown"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "streamdown"), nil
}

// GetConfigPath returns the path where the config file should be located
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// Exists returns true if a config file exists
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
