package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/fta/internal/cli"
	"github.com/example/fta/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "fta",
		Short:   "FTA - fault tree causal analysis for accident investigations",
		Version: version.String(),
		Long: `fta builds and maintains the cause tree of an accident investigation:
hypotheses and facts under a root event, validated or discarded with
justification, classified against a standard catalog, and numbered for
reports.`,
		SilenceUsage:      true,
		PersistentPreRunE: cli.LoadConfig,
		PersistentPostRun: cli.Shutdown,
	}
	cli.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.InvestigationCmd())
	rootCmd.AddCommand(cli.CauseCmd())
	rootCmd.AddCommand(cli.TreeCmd())
	rootCmd.AddCommand(cli.CatalogCmd())
	rootCmd.AddCommand(cli.CheckCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
