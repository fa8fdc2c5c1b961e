package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/quill/pkg/export"
)

const watchDebounce = 200 * time.Millisecond

func newWatchCmd(opts *options) *cobra.Command {
	var dir, filename string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rewrite the prompt file whenever the state file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.statePath == "-" {
				return fmt.Errorf("watch requires a state file, not stdin")
			}

			w := &stateWatcher{
				opts:     opts,
				saver:    export.NewDirSaver(dir),
				filename: filename,
				debounce: watchDebounce,
				logger:   opts.logger.With("system", "watch"),
			}
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "output directory")
	cmd.Flags().StringVarP(&filename, "filename", "f", export.DefaultFilename, "output filename")
	return cmd
}

// stateWatcher rebuilds the exported prompt when the state file changes.
// The parent directory is watched rather than the file so editors that
// save by rename are still observed.
type stateWatcher struct {
	opts     *options
	saver    *export.DirSaver
	filename string
	debounce time.Duration
	logger   *slog.Logger

	// rebuilt is signalled after every rebuild attempt; tests use it.
	rebuilt chan error
}

func (w *stateWatcher) Run(ctx context.Context) error {
	target, err := filepath.Abs(w.opts.statePath)
	if err != nil {
		return fmt.Errorf("resolve state path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	w.logger.Info("watching state file", "path", target, "output", w.saver.Path(w.filename))
	w.rebuild(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, target) {
				continue
			}
			w.logger.Debug("state file event", "op", event.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-timer.C:
			w.rebuild(ctx)
		}
	}
}

func (w *stateWatcher) rebuild(ctx context.Context) {
	err := w.write(ctx)
	if err != nil {
		w.logger.Warn("rebuild skipped", "error", err)
	}
	if w.rebuilt != nil {
		select {
		case w.rebuilt <- err:
		default:
		}
	}
}

func (w *stateWatcher) write(ctx context.Context) error {
	out, err := w.opts.output()
	if err != nil {
		return err
	}

	n, err := export.Download(ctx, w.saver, out, w.filename)
	if err != nil {
		return err
	}

	w.logger.Info("prompt rebuilt", "path", w.saver.Path(w.filename), "bytes", n)
	return nil
}

func relevant(event fsnotify.Event, target string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == target
}
