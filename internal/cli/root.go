package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/fta/internal/config"
	"github.com/example/fta/internal/ctxutil"
	"github.com/example/fta/internal/wire"
)

// Global flags shared by every command.
const (
	flagDB      = "db"
	flagCatalog = "catalog"
	flagLogMode = "log-mode"
	flagActor   = "actor"
	flagNoColor = "no-color"
)

// AddGlobalFlags registers the persistent flags that override config values.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().String(flagDB, "", "Database path (overrides config and "+config.EnvDBPath+")")
	root.PersistentFlags().String(flagCatalog, "", "Classification catalog YAML (overrides config and "+config.EnvCatalog+")")
	root.PersistentFlags().String(flagLogMode, "", "Log mode: quiet, dev or prod")
	root.PersistentFlags().String(flagActor, "", "Actor recorded in the audit log")
	root.PersistentFlags().Bool(flagNoColor, false, "Disable coloured output")
}

// LoadConfig resolves configuration for the working directory and hands it
// to the wiring layer. It is the root command's PersistentPreRunE.
func LoadConfig(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := resolveConfig(dir, cmd)
	if err != nil {
		return err
	}
	wire.Configure(cfg)
	return nil
}

// resolveConfig layers flags over the config file and environment.
func resolveConfig(dir string, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Resolve(dir)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if v, _ := flags.GetString(flagDB); v != "" {
		cfg.DBPath = v
	}
	if v, _ := flags.GetString(flagCatalog); v != "" {
		cfg.CatalogPath = v
	}
	if v, _ := flags.GetString(flagLogMode); v != "" {
		cfg.LogMode = v
	}
	if v, _ := flags.GetString(flagActor); v != "" {
		cfg.Actor = v
	}
	return cfg, nil
}

// Shutdown is the root command's PersistentPostRun.
func Shutdown(cmd *cobra.Command, args []string) {
	wire.Shutdown()
}

// commandContext returns the command context carrying the configured actor.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxutil.WithActorID(ctx, wire.Config().ActorID())
}
