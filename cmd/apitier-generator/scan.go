package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"apitier-generator/internal/registry"
)

func newScanCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "scan [header|dir|glob]...",
		Short: "Build a registry manifest from header annotations",
		Long: `Scans C headers for @draft, @stable, @internal, @deprecated and
@obsolete doc-comment tags and prints the resulting registry manifest.
Without arguments the configured headers are scanned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args
			if len(patterns) == 0 {
				patterns = a.cfg.Headers
			}

			if len(patterns) == 0 {
				return errNoInput
			}

			paths, err := registry.ExpandHeaderPaths(patterns)
			if err != nil {
				return err
			}

			decls, diags, err := registry.ScanHeaders(cmd.Context(), paths, registry.ScanOptions{
				Workers: a.cfg.Scan.Workers,
				Logger:  a.logger,
			})
			if err != nil {
				return err
			}

			_, buildDiags := registry.Build(decls)
			diags.Merge(buildDiags)
			a.report(diags)

			if err := diags.Err(); err != nil {
				return err
			}

			m := registry.ManifestFromDeclarations(decls)
			a.logger.Debug("scanned headers", zap.Int("files", len(paths)), zap.Int("symbols", len(m.Symbols)))

			if out != "" {
				return registry.WriteManifest(m, out)
			}

			data, err := registry.MarshalManifest(m)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write the manifest to this file instead of stdout")

	return cmd
}
