package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "streamdown",
	Short: "Render streamed Markdown in the terminal",
	Long: `streamdown renders Markdown arriving in arbitrary chunks, the way LLMs
emit it. Completed constructs are styled and settled immediately; the
unfinished tail is shown dimmed and rewritten in place as more input
arrives.

Examples:
  llm "explain monads" | streamdown
  streamdown render --width 100 < notes.md
  cat response.md | streamdown render --glamour`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation behaves like `streamdown render`.
		return renderCmd.RunE(cmd, args)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
