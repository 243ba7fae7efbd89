package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"apitier-generator/internal/gen"
)

var errDrift = errors.New("generated headers are out of date; run gen")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the headers on disk match the registry",
		Long: `Generates the headers in memory and compares them with the output
directory. Prints a diff for every stale header and exits non-zero when any
header is missing or stale. Never writes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, err := a.generate(cmd.Context())
			if err != nil {
				return err
			}

			drifts, err := gen.Check(files, a.cfg.OutputDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range drifts {
				path := filepath.Join(a.cfg.OutputDir, d.Filename)
				if d.Missing {
					fmt.Fprintf(out, "missing: %s\n", path)
					continue
				}

				fmt.Fprintf(out, "stale: %s\n%s", path, d.Diff)
			}

			if len(drifts) > 0 {
				return errDrift
			}

			return nil
		},
	}
}
