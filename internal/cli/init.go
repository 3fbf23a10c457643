package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/fta/internal/config"
	"github.com/example/fta/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize fta in the current directory",
		Long: `Write a default .fta/config.json in the current directory and create the
database with the required schema.`,
		// init reads the config itself; a malformed file must not block --force.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			return runInit(cmd, dir, force)
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing config")
	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.LoadConfig(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) && !force {
		return fmt.Errorf("%w (use --force to overwrite)", err)
	}
	if err == nil && !force {
		fmt.Fprintf(out, "Config already present at %s\n", filepath.Join(dir, ".fta", "config.json"))
	} else {
		cfg = config.Default()
		if v, _ := cmd.Flags().GetString(flagDB); v != "" {
			cfg.DBPath = v
		}
		if v, _ := cmd.Flags().GetString(flagCatalog); v != "" {
			cfg.CatalogPath = v
		}
		if err := config.SaveConfig(dir, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Config written to %s\n", filepath.Join(dir, ".fta", "config.json"))
	}

	dbPath := cfg.DBPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(dir, dbPath)
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	fmt.Fprintf(out, "✓ Database initialized at %s\n", dbPath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, `  fta investigation create "Scaffold fall" --root "Worker fell from scaffold"`)
	fmt.Fprintln(out, "  fta tree INV-001")
	return nil
}
