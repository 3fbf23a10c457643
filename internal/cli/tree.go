package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/fta/internal/wire"
)

// TreeCmd returns the tree command
func TreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [investigation-id]",
		Short: "Show the numbered cause tree",
		Long: `Build the cause tree of an investigation and print it with display codes
(CB basic cause, CC contributing cause, H hypothesis). --json prints the
output contract consumed by renderers and report generators.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return wire.FaultTreeAdapter(noColor(cmd)).Tree(commandContext(cmd), args[0], asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "Print the tree as JSON")
	return cmd
}

// noColor reports whether coloured output was turned off for this command.
func noColor(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool(flagNoColor)
	return v
}
