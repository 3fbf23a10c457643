package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/fta/internal/wire"
)

var causeCmd = &cobra.Command{
	Use:     "cause",
	Aliases: []string{"node"},
	Short:   "Edit causes in a fault tree",
	Long:    "Add, validate, discard, classify, reorder and delete cause nodes",
}

var causeAddCmd = &cobra.Command{
	Use:   "add [investigation-id] [label]",
	Short: "Attach a hypothesis or fact under a parent cause",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, _ := cmd.Flags().GetString("parent")
		kind, _ := cmd.Flags().GetString("kind")
		return wire.FaultTreeAdapter(noColor(cmd)).Add(commandContext(cmd), args[0], parent, kind, args[1])
	},
}

var causeDeleteCmd = &cobra.Command{
	Use:   "delete [node-id]",
	Short: "Delete a cause and everything below it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.FaultTreeAdapter(noColor(cmd)).Delete(commandContext(cmd), args[0])
	},
}

var causeStatusCmd = &cobra.Command{
	Use:   "status [node-id] [pending|validated|discarded]",
	Short: "Change the validation status of a cause",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransition(cmd, args[0], args[1])
	},
}

// statusShortcut builds validate/discard/reopen, which are status with a
// fixed target.
func statusShortcut(use, short, status string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [node-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, args[0], status)
		},
	}
	addJustificationFlags(cmd)
	return cmd
}

func addJustificationFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("justification", "j", "", "Why the cause was validated or discarded")
	cmd.Flags().String("image", "", "Evidence image reference")
}

func runTransition(cmd *cobra.Command, nodeID, status string) error {
	justification, _ := cmd.Flags().GetString("justification")
	image, _ := cmd.Flags().GetString("image")
	return wire.FaultTreeAdapter(noColor(cmd)).Transition(commandContext(cmd), nodeID, status, justification, image)
}

var causeClassifyCmd = &cobra.Command{
	Use:   "classify [node-id] [classification-ref]",
	Short: "Link a validated cause to a classification code",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		clearRef, _ := cmd.Flags().GetBool("clear")
		ref := ""
		switch {
		case clearRef && len(args) == 2:
			return fmt.Errorf("pass either a reference or --clear, not both")
		case !clearRef && len(args) == 1:
			return fmt.Errorf("classification reference required (see 'fta catalog list'), or --clear")
		case len(args) == 2:
			ref = args[1]
		}
		return wire.FaultTreeAdapter(noColor(cmd)).Classify(commandContext(cmd), args[0], ref)
	},
}

var causeRoleCmd = &cobra.Command{
	Use:       "role [node-id] [basic|contributing|none]",
	Short:     "Mark a validated cause as basic, contributing or neither",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"basic", "contributing", "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.FaultTreeAdapter(noColor(cmd)).Role(commandContext(cmd), args[0], args[1])
	},
}

var causeRecommendCmd = &cobra.Command{
	Use:   "recommend [node-id] [text]",
	Short: "Set the recommendation for a cause (empty text clears it)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.FaultTreeAdapter(noColor(cmd)).Recommend(commandContext(cmd), args[0], args[1])
	},
}

var causeLabelCmd = &cobra.Command{
	Use:   "label [node-id] [text]",
	Short: "Edit the text of a cause",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.FaultTreeAdapter(noColor(cmd)).Label(commandContext(cmd), args[0], args[1])
	},
}

var causeMoveCmd = &cobra.Command{
	Use:       "move [node-id] [up|down]",
	Short:     "Swap a cause with its previous or next sibling",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.FaultTreeAdapter(noColor(cmd)).Move(commandContext(cmd), args[0], args[1])
	},
}

func init() {
	// cause add flags
	causeAddCmd.Flags().StringP("parent", "p", "", "Parent node ID (omit only with --kind root)")
	causeAddCmd.Flags().StringP("kind", "k", "hypothesis", "Node kind: hypothesis, fact, or root")

	// cause status flags
	addJustificationFlags(causeStatusCmd)

	// cause classify flags
	causeClassifyCmd.Flags().Bool("clear", false, "Remove the classification link")

	// Register subcommands
	causeCmd.AddCommand(causeAddCmd)
	causeCmd.AddCommand(causeDeleteCmd)
	causeCmd.AddCommand(causeStatusCmd)
	causeCmd.AddCommand(statusShortcut("validate", "Validate a cause (justification required)", "validated"))
	causeCmd.AddCommand(statusShortcut("discard", "Discard a cause (justification required)", "discarded"))
	causeCmd.AddCommand(statusShortcut("reopen", "Return a cause to pending", "pending"))
	causeCmd.AddCommand(causeClassifyCmd)
	causeCmd.AddCommand(causeRoleCmd)
	causeCmd.AddCommand(causeRecommendCmd)
	causeCmd.AddCommand(causeLabelCmd)
	causeCmd.AddCommand(causeMoveCmd)
}

// CauseCmd returns the cause command
func CauseCmd() *cobra.Command {
	return causeCmd
}
