package storage

import (
	"database/sql"
	"sort"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expectedTables is the sorted list of tables after all migrations.
var expectedTables = []string{
	"fired_alarm",
	"kv",
	"schema_version",
}

// TestMigrateDB_Fresh verifies all migrations apply cleanly to an empty database.
func TestMigrateDB_Fresh(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db); err != nil {
		t.Fatalf("MigrateDB failed on fresh db: %v", err)
	}

	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}

	names := getTableNames(t, db)
	if len(names) != len(expectedTables) {
		t.Fatalf("tables = %v, want %v", names, expectedTables)
	}
	for i, want := range expectedTables {
		if names[i] != want {
			t.Errorf("table[%d] = %q, want %q", i, names[i], want)
		}
	}
}

// TestMigrateDB_Idempotent verifies that running MigrateDB twice produces no
// errors and no schema changes.
func TestMigrateDB_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db); err != nil {
		t.Fatalf("first MigrateDB failed: %v", err)
	}
	if err := MigrateDB(db); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}

	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}
}

// TestSchemaVersion_EmptyDB verifies an unmigrated database reports version 0.
func TestSchemaVersion_EmptyDB(t *testing.T) {
	db := openTestDB(t)

	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("version = %d, want 0", version)
	}
}
