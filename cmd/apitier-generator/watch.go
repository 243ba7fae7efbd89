package main

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"apitier-generator/internal/registry"
	"apitier-generator/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the headers whenever the registry changes",
		Long: `Runs gen, then watches the registry manifest and the annotated headers
and runs gen again after every change. Generation errors are logged and the
watch continues. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := a.runGen(cmd); err != nil {
				a.logger.Error("generation failed", zap.Error(err))
			}

			paths, err := a.watchPaths()
			if err != nil {
				return err
			}

			w, err := watcher.New(watcher.Config{
				Paths:    paths,
				Debounce: a.cfg.Watch.Debounce,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			defer func() { _ = w.Stop() }()

			changes := w.Start(ctx)
			a.logger.Info("watching for changes", zap.Strings("paths", paths))

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-changes:
					if err := a.runGen(cmd); err != nil {
						a.logger.Error("generation failed", zap.Error(err))
					}
				}
			}
		},
	}

	cmd.Flags().Duration("debounce", 0, "quiet period before regenerating")
	a.bindFlag(cmd.Flags(), "watch.debounce", "debounce")

	return cmd
}

// watchPaths lists the registry manifest plus every header input. Header
// directories, and the directories below them that hold headers, are watched
// as directories so that new headers are noticed.
func (a *app) watchPaths() ([]string, error) {
	var paths []string

	if a.cfg.Registry != "" {
		paths = append(paths, a.cfg.Registry)
	}

	for _, pattern := range a.cfg.Headers {
		files, err := registry.ExpandHeaderPaths([]string{pattern})
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(pattern)
		if err != nil || !info.IsDir() {
			paths = append(paths, files...)
			continue
		}

		paths = append(paths, filepath.Clean(pattern))
		for _, f := range files {
			paths = append(paths, filepath.Dir(f))
		}
	}

	slices.Sort(paths)

	return slices.Compact(paths), nil
}
