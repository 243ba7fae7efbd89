package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"apitier-generator/internal/registry"
)

func newListCmd(a *app) *cobra.Command {
	var tiers []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var filter []registry.Tier

			for _, name := range tiers {
				t, err := registry.ParseTier(name)
				if err != nil {
					return err
				}

				filter = append(filter, t)
			}

			reg, err := a.loadRegistry(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTIER\tINTRODUCED\tSOURCE")

			for _, rec := range reg.Sorted() {
				if len(filter) > 0 && !slices.Contains(filter, rec.Tier) {
					continue
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Name, rec.Tier, rec.IntroducedVersion, rec.Source)
			}

			return w.Flush()
		},
	}

	cmd.Flags().StringSliceVar(&tiers, "tier", nil, "only list symbols of these tiers")

	return cmd
}
