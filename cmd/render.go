package cmd

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/streamdown/streamdown/internal/config"
	"github.com/streamdown/streamdown/internal/markdown"
	"github.com/streamdown/streamdown/internal/ui"
)

var (
	flagWidth       int
	flagChromaStyle string
	flagNoColor     bool
	flagNoPartial   bool
	flagGlamour     bool
)

func init() {
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "Wrap width (0 = detect terminal)")
	rootCmd.PersistentFlags().StringVar(&flagChromaStyle, "chroma-style", "", "Syntax highlighting style for code blocks")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoPartial, "no-partial", false, "Disable provisional tail tracking")
	rootCmd.PersistentFlags().BoolVar(&flagGlamour, "glamour", false, "Read all input, then render once with glamour")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Stream Markdown from stdin to styled terminal output",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg.ApplyOverrides(flagWidth, flagChromaStyle)
		if flagNoPartial {
			cfg.Render.HandleIncompleteMarkdown = false
		}

		if flagGlamour {
			return renderGlamour(cmd.OutOrStdout(), cmd.InOrStdin(), cfg)
		}
		return renderStream(cmd.OutOrStdout(), cmd.InOrStdin(), cfg)
	},
}

// renderStream is the incremental path: chunks from stdin flow through a
// parsing session; settled tokens are written once, the volatile tail is
// rewritten in place.
func renderStream(out io.Writer, in io.Reader, cfg *config.Config) error {
	width := resolveWidth(cfg.Render.Width)

	opts := []ui.Option{ui.WithWidth(width)}
	if cfg.Render.ChromaStyle != "" {
		opts = append(opts, ui.WithChromaStyle(cfg.Render.ChromaStyle))
	}
	if themed := themeFromConfig(cfg.Theme); themed != nil {
		opts = append(opts, ui.WithTheme(themed))
	}
	if flagNoColor {
		opts = append(opts, ui.WithColor(false))
	}
	renderer := ui.NewRenderer(opts...)

	session := markdown.NewSession(
		markdown.WithIncompleteTracking(cfg.Render.HandleIncompleteMarkdown),
	)
	rewriter := ui.NewLineRewriter(out, width)
	debounce := time.Duration(cfg.Render.DebounceMillis) * time.Millisecond

	var (
		settledLen int // bytes of rendered settled output already written
		lastTail   time.Time
		tokens     []markdown.Token
		sanitizer  ui.Sanitizer
	)

	reader := bufio.NewReader(in)
	buf := make([]byte, 4096)
	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			chunk := sanitizer.Sanitize(string(buf[:n]))
			tokens = session.AddChunk(chunk)

			full, settled := splitRendered(renderer, tokens)
			if settled > settledLen {
				if err := rewriter.WriteSettled(full[settledLen:settled]); err != nil {
					return err
				}
				settledLen = settled
			}
			if time.Since(lastTail) >= debounce {
				if err := rewriter.WriteTail(full[settled:]); err != nil {
					return err
				}
				lastTail = time.Now()
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return readErr
		}
	}

	// Final flush: everything is settled once the stream closes.
	full := renderer.Render(tokens)
	if err := rewriter.WriteSettled(full[settledLen:]); err != nil {
		return err
	}
	_, err := io.WriteString(out, "\n")
	return err
}

// splitRendered renders the full token list and returns it together with
// the byte length of its settled prefix. The tail starts at the trailing
// inline run, or at the last token when that run is empty; the last token
// is always volatile because the next chunk may extend it.
func splitRendered(renderer *ui.Renderer, tokens []markdown.Token) (full string, settled int) {
	full = renderer.Render(tokens)
	if len(tokens) == 0 {
		return full, 0
	}

	tailStart := len(tokens) - 1
	for tailStart > 0 && tokens[tailStart-1].Kind.Inline() {
		tailStart--
	}
	if tailStart == 0 {
		return full, 0
	}
	return full, len(renderer.Render(tokens[:tailStart]))
}

// renderGlamour reads the whole input, then renders it once with glamour.
// This trades streaming for glamour's full document styling.
func renderGlamour(out io.Writer, in io.Reader, cfg *config.Config) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	width := resolveWidth(cfg.Render.Width)
	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
	}
	if cfg.Render.GlamourStyle == "" || cfg.Render.GlamourStyle == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(cfg.Render.GlamourStyle))
	}

	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return err
	}

	rendered, err := tr.Render(markdown.Preprocess(string(data)))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, strings.TrimRight(rendered, "\n")+"\n")
	return err
}

func themeFromConfig(tc config.ThemeConfig) *ui.Theme {
	o := ui.ThemeOverrides{
		Heading:    tc.Heading,
		Strong:     tc.Strong,
		Emphasis:   tc.Emphasis,
		InlineCode: tc.InlineCode,
		Link:       tc.Link,
		Quote:      tc.Quote,
		Muted:      tc.Muted,
		Text:       tc.Text,
	}
	if o == (ui.ThemeOverrides{}) {
		return nil
	}
	return ui.ThemeFromOverrides(o)
}

// resolveWidth picks the wrap width: explicit config/flag first, then the
// terminal, then 80.
func resolveWidth(configured int) int {
	if configured > 0 {
		return configured
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
