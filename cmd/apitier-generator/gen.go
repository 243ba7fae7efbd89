package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"apitier-generator/internal/gen"
)

func newGenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gen",
		Short: "Generate the tier headers",
		Long: `Loads the registry, computes the redirects of every configured tier and
writes one header per tier to the output directory. Headers whose content did
not change are left untouched. Nothing is written when any error is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGen(cmd)
		},
	}
}

func (a *app) runGen(cmd *cobra.Command) error {
	files, err := a.generate(cmd.Context())
	if err != nil {
		return err
	}

	written, err := gen.WriteFiles(files, a.cfg.OutputDir)
	if err != nil {
		return err
	}

	for _, name := range written {
		path := filepath.Join(a.cfg.OutputDir, name)
		a.logger.Info("wrote header", zap.String("path", path))
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}

	if len(written) == 0 {
		a.logger.Info("headers up to date", zap.String("dir", a.cfg.OutputDir))
	}

	return nil
}
