package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"apitier-generator/internal/plan"
	"apitier-generator/internal/registry"
)

func newExplainCmd(a *app) *cobra.Command {
	var (
		hide            []string
		disableRenaming bool
	)

	cmd := &cobra.Command{
		Use:   "explain [symbol]...",
		Short: "Show the redirects active for one build configuration",
		Long: `Prints the #define lines a preprocessor would see for the given
configuration: which hide macros are defined (--hide, default: every
configured tier; pass --hide= for none) and the value of DISABLE_RENAMING.
With symbol arguments only their redirects are shown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.resolve(cmd.Context())
			if err != nil {
				return err
			}

			flags := plan.Flags{DisableRenaming: disableRenaming}

			if cmd.Flags().Changed("hide") {
				for _, name := range hide {
					t, err := registry.ParseTier(name)
					if err != nil {
						return err
					}

					flags.Hidden = append(flags.Hidden, t)
				}
			} else {
				for _, b := range p.Blocks {
					flags.Hidden = append(flags.Hidden, b.Tier)
				}
			}

			out := cmd.OutOrStdout()
			for _, rule := range p.Active(flags) {
				if len(args) > 0 && !slices.Contains(args, rule.Symbol) {
					continue
				}

				fmt.Fprintf(out, "#define %s %s\n", rule.From, rule.To)
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&hide, "hide", nil, "tiers whose hide macro is defined")
	cmd.Flags().BoolVar(&disableRenaming, "disable-renaming", false, "evaluate with DISABLE_RENAMING true")

	return cmd
}
