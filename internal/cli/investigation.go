package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fta/internal/wire"
)

var investigationCmd = &cobra.Command{
	Use:     "investigation",
	Aliases: []string{"inv"},
	Short:   "Manage investigations (one fault tree each)",
	Long:    "Create, list, inspect and delete accident investigations and their integrity holds",
}

var investigationCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a new investigation with its root event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _ := cmd.Flags().GetString("root")
		description, _ := cmd.Flags().GetString("description")
		if root == "" {
			return fmt.Errorf("--root is required: describe the accident event at the top of the tree")
		}
		return wire.InvestigationAdapter().Create(commandContext(cmd), args[0], description, root)
	},
}

var investigationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List investigations",
	RunE: func(cmd *cobra.Command, args []string) error {
		onHold, _ := cmd.Flags().GetBool("on-hold")
		limit, _ := cmd.Flags().GetInt("limit")
		return wire.InvestigationAdapter().List(commandContext(cmd), onHold, limit)
	},
}

var investigationShowCmd = &cobra.Command{
	Use:   "show [investigation-id]",
	Short: "Show investigation details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.InvestigationAdapter().Show(commandContext(cmd), args[0])
		return err
	},
}

var investigationDeleteCmd = &cobra.Command{
	Use:   "delete [investigation-id]",
	Short: "Delete an investigation and its whole cause tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("refusing to delete %s without --force", args[0])
		}
		return wire.InvestigationAdapter().Delete(commandContext(cmd), args[0])
	},
}

var investigationReleaseCmd = &cobra.Command{
	Use:   "release [investigation-id]",
	Short: "Lift an integrity hold once the tree passes the check",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.InvestigationAdapter().Release(commandContext(cmd), args[0])
	},
}

var investigationLogCmd = &cobra.Command{
	Use:   "log [investigation-id]",
	Short: "Show the audit log of an investigation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return wire.InvestigationAdapter().AuditLog(commandContext(cmd), args[0], limit)
	},
}

func init() {
	// investigation create flags
	investigationCreateCmd.Flags().StringP("root", "r", "", "Root event label (required)")
	investigationCreateCmd.Flags().StringP("description", "d", "", "Investigation description")

	// investigation list flags
	investigationListCmd.Flags().Bool("on-hold", false, "Only investigations on integrity hold")
	investigationListCmd.Flags().IntP("limit", "n", 0, "Maximum number of investigations")

	// investigation delete flags
	investigationDeleteCmd.Flags().BoolP("force", "f", false, "Confirm deletion")

	// investigation log flags
	investigationLogCmd.Flags().IntP("limit", "n", 20, "Number of entries")

	// Register subcommands
	investigationCmd.AddCommand(investigationCreateCmd)
	investigationCmd.AddCommand(investigationListCmd)
	investigationCmd.AddCommand(investigationShowCmd)
	investigationCmd.AddCommand(investigationDeleteCmd)
	investigationCmd.AddCommand(investigationReleaseCmd)
	investigationCmd.AddCommand(investigationLogCmd)
}

// InvestigationCmd returns the investigation command
func InvestigationCmd() *cobra.Command {
	return investigationCmd
}
