package db

import "database/sql"

// SchemaSQL is the complete schema for fresh fta installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests use it
// via GetSchemaSQL() and never declare their own tables, so a repository
// referencing a column that does not exist here fails with "no such column"
// at test time.
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Bump the version recorded for fresh installs (latestVersion)
const SchemaSQL = `
-- Investigations (one fault tree each)
CREATE TABLE IF NOT EXISTS investigations (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	integrity_hold TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Cause nodes: flat, self-referencing rows. parent_id is NULL only for the
-- root. It is deliberately not a foreign key so that rows written by other
-- tools can still be loaded and reported by the integrity check.
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

-- Audit log (append-only)
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

CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// InitSchema brings database up to date. A fresh database gets SchemaSQL
// directly and is marked as fully migrated; an existing one runs pending
// migrations.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		if _, err := database.Exec(SchemaSQL); err != nil {
			return err
		}
		for _, m := range migrations {
			if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	return RunMigrations(database)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
