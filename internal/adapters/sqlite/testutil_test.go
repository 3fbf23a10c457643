// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/fta/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// The pool is pinned to one connection: every new connection to ":memory:"
// would otherwise open a separate, empty database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedInvestigation inserts a bare investigation row (no root node).
func seedInvestigation(t *testing.T, db *sql.DB, id, title string) string {
	t.Helper()
	if id == "" {
		id = "INV-001"
	}
	if title == "" {
		title = "Test Investigation"
	}
	_, err := db.Exec("INSERT INTO investigations (id, title) VALUES (?, ?)", id, title)
	if err != nil {
		t.Fatalf("failed to seed investigation: %v", err)
	}
	return id
}

// seedNode inserts a cause node row directly, bypassing order allocation.
// An empty parentID makes a root.
func seedNode(t *testing.T, db *sql.DB, id, investigationID, parentID, kind string, order int) string {
	t.Helper()
	var parent any
	if parentID != "" {
		parent = parentID
	}
	stamp := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC).Format(time.RFC3339Nano)
	_, err := db.Exec(
		`INSERT INTO cause_nodes (id, investigation_id, parent_id, label, kind, status, display_order, cause_role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 'pending', ?, 'none', ?, ?)`,
		id, investigationID, parent, "label "+id, kind, order, stamp, stamp,
	)
	if err != nil {
		t.Fatalf("failed to seed node %s: %v", id, err)
	}
	return id
}
