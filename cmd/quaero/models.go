package main

import (
	"fmt"
	"io"

	"quaero/internal/api"
	"quaero/internal/catalog"

	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	var (
		asJSON bool
		local  bool
	)
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models the backend offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := headlessApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			cat, err := a.Models(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				text, err := highlighter().Value(cat)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			writeCatalog(cmd.OutOrStdout(), cat, catalog.Default(local))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw catalog as JSON")
	cmd.Flags().BoolVarP(&local, "local", "l", false, "show the current model as if local generation were on")
	return cmd
}

func writeCatalog(out io.Writer, cat *api.ModelCatalog, sel catalog.Selection) {
	fmt.Fprintf(out, "Current: %s\n", catalog.CurrentModelLabel(sel, cat))

	var current api.Provider
	for _, c := range catalog.Choices(cat, sel) {
		if c.Provider != current {
			current = c.Provider
			fmt.Fprintf(out, "\n%s:\n", c.Provider)
		}
		marker := "  "
		if c.Selected {
			marker = "* "
		}
		line := marker + c.Model
		if c.Default {
			line += " (default)"
		}
		fmt.Fprintln(out, line)
	}
	for _, p := range []api.Provider{api.ProviderRemote, api.ProviderLocal} {
		if status := catalog.ProviderStatus(cat, p); status != "" {
			fmt.Fprintf(out, "\n%s: %s\n", p, status)
		}
	}
}
