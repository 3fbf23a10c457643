package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order. Fresh installs get
// SchemaSQL and are stamped with every version listed here.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_investigations_and_cause_nodes",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_integrity_hold_to_investigations",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_audit_log",
		Up:      migrationV3,
	},
}

// LatestVersion returns the schema version a fully migrated database has.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// CurrentVersion returns the highest applied migration version.
func CurrentVersion(database *sql.DB) (int, error) {
	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return currentVersion, nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	currentVersion, err := CurrentVersion(database)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the original two tables, before integrity holds.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS investigations (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS cause_nodes (
			id TEXT PRIMARY KEY,
			investigation_id TEXT NOT NULL,
			parent_id TEXT,
			label TEXT NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('root', 'hypothesis', 'fact')),
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'validated', 'discarded')),
			display_order INTEGER NOT NULL,
			cause_role TEXT NOT NULL DEFAULT 'none' CHECK (cause_role IN ('none', 'basic', 'contributing')),
			justification TEXT,
			justification_image_ref TEXT,
			classification_ref TEXT,
			recommendation TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY (investigation_id) REFERENCES investigations(id) ON DELETE CASCADE,
			UNIQUE (parent_id, display_order)
		);

		CREATE INDEX IF NOT EXISTS idx_cause_nodes_investigation ON cause_nodes(investigation_id);
		CREATE INDEX IF NOT EXISTS idx_cause_nodes_parent ON cause_nodes(parent_id);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_cause_nodes_one_root ON cause_nodes(investigation_id) WHERE parent_id IS NULL;
	`)
	return err
}

// migrationV2 adds the integrity hold column.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec("ALTER TABLE investigations ADD COLUMN integrity_hold TEXT")
	return err
}

// migrationV3 adds the audit log.
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			investigation_id TEXT NOT NULL,
			node_id TEXT,
			actor TEXT,
			action TEXT NOT NULL CHECK (action IN ('create', 'update', 'delete')),
			field TEXT,
			old_value TEXT,
			new_value TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_audit_log_investigation ON audit_log(investigation_id, id);
	`)
	return err
}
