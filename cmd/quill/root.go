package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/export"
)

var version = "0.1.0"

type options struct {
	statePath string
	skipCheck bool
	verbose   bool

	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	clipboard export.ClipboardWriter
	logger    *slog.Logger
}

func newOptions() *options {
	return &options{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		clipboard: export.SystemClipboard{},
	}
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "quill",
		Short: "Build story-generation prompts from a state file",
		Long: `Quill turns a prompt state file (YAML or JSON) into the JSON document
sent to a story-generation API.

The state file describes:
  - the main task and ordered rules
  - the story genre, plot, and specifics
  - moderation flags (vulgar language, cussing)
  - limits (word range, chapters, uniqueness)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(opts.stderr, &slog.HandlerOptions{Level: level}))
		},
	}

	root.SetIn(opts.stdin)
	root.SetOut(opts.stdout)
	root.SetErr(opts.stderr)

	root.PersistentFlags().StringVarP(
		&opts.statePath, "state", "s", "quill.yaml", `prompt state file, YAML or JSON ("-" reads stdin)`,
	)
	root.PersistentFlags().BoolVar(
		&opts.skipCheck, "skip-validation", false, "export the state without validating it",
	)
	root.PersistentFlags().BoolVarP(
		&opts.verbose, "verbose", "v", false, "enable debug logging",
	)

	root.AddCommand(
		newBuildCmd(opts),
		newValidateCmd(opts),
		newCurlCmd(opts),
		newDownloadCmd(opts),
		newCopyCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
	)

	return root
}

// output loads the state, validates it unless --skip-validation is set,
// and projects it into the exported document.
func (o *options) output() (prompts.Output, error) {
	s, err := readState(o.statePath, o.stdin)
	if err != nil {
		return prompts.Output{}, err
	}
	if !o.skipCheck {
		if err := prompts.Validate(s); err != nil {
			return prompts.Output{}, err
		}
	}
	return prompts.Build(s), nil
}
