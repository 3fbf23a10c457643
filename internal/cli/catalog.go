package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/fta/internal/wire"
)

// CatalogCmd returns the catalog command
func CatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the accident classification catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List classification references and codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			wire.CatalogAdapter().List()
			return nil
		},
	})
	return cmd
}
