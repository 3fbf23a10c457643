package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fta/internal/wire"
)

// CheckCmd returns the check command
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [investigation-id]",
		Short: "Verify the structural integrity of cause trees",
		Long: `Check that an investigation's nodes form a single rooted tree: one root,
no orphans, no cycles. A failing investigation is placed on integrity hold
and refuses edits until 'fta investigation release'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			switch {
			case all && len(args) == 1:
				return fmt.Errorf("pass an investigation ID or --all, not both")
			case all:
				return wire.InvestigationAdapter().CheckAll(commandContext(cmd))
			case len(args) == 1:
				return wire.InvestigationAdapter().Check(commandContext(cmd), args[0])
			}
			return fmt.Errorf("investigation ID required (or --all)")
		},
	}
	cmd.Flags().Bool("all", false, "Check every investigation")
	return cmd
}
