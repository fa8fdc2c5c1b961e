package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/quill/pkg/export"
)

var errCopyFailed = errors.New("copy to clipboard failed")

func newBuildCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Print the prompt JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := opts.output()
			if err != nil {
				return err
			}
			data, err := export.MarshalIndent(out)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the state file without exporting it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			check := *opts
			check.skipCheck = false
			if _, err := check.output(); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "state is valid")
			return err
		},
	}
}

func newCurlCmd(opts *options) *cobra.Command {
	var (
		endpoint string
		shell    bool
	)

	cmd := &cobra.Command{
		Use:   "curl",
		Short: "Print a cURL command that posts the prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := opts.output()
			if err != nil {
				return err
			}
			if err := export.ValidateEndpoint(endpoint); err != nil {
				return err
			}
			render := export.Curl
			if shell {
				render = export.CurlShell
			}
			curl, err := render(out, endpoint)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), curl)
			return err
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", export.DefaultEndpoint, "generation endpoint URL")
	cmd.Flags().BoolVar(&shell, "shell", false, "escape single quotes in the body for POSIX shells")
	return cmd
}

func newDownloadCmd(opts *options) *cobra.Command {
	var dir, filename string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Write the prompt JSON to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := opts.output()
			if err != nil {
				return err
			}

			saver := export.NewDirSaver(dir)
			n, err := export.Download(cmd.Context(), saver, out, filename)
			if err != nil {
				return err
			}

			path := saver.Path(filename)
			opts.logger.Info("prompt saved", "path", path, "bytes", n)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	cmd.Flags().StringVarP(&filename, "filename", "f", export.DefaultFilename, "output filename")
	return cmd
}

func newCopyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "copy",
		Short: "Copy the prompt JSON to the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := opts.output()
			if err != nil {
				return err
			}
			data, err := export.MarshalIndent(out)
			if err != nil {
				return err
			}

			if !export.CopyToClipboard(opts.clipboard, string(data), opts.logger) {
				return errCopyFailed
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "copied to clipboard")
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quill %s\n", version)
		},
	}
}
