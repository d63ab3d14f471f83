package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadMigrationsSortsByVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "010_analytics.sql", "CREATE TABLE analytics (id UUID);")
	writeFile(t, dir, "001_core.sql", "CREATE TABLE users (id UUID);")
	writeFile(t, dir, "002_consultations.sql", "CREATE TABLE consultations (id UUID);")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}

	if len(migrations) != 3 {
		t.Fatalf("got %d migrations, want 3", len(migrations))
	}
	wantVersions := []int{1, 2, 10}
	for i, want := range wantVersions {
		if migrations[i].Version != want {
			t.Errorf("migrations[%d].Version = %d, want %d", i, migrations[i].Version, want)
		}
	}
	if migrations[0].Name != "001_core.sql" {
		t.Errorf("migrations[0].Name = %q", migrations[0].Name)
	}
	if migrations[0].SQL == "" {
		t.Error("migration SQL should be loaded")
	}
}

func TestLoadMigrationsSkipsNonNumeric(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "001_core.sql", "SELECT 1;")
	writeFile(t, dir, "README.md", "not a migration")
	writeFile(t, dir, "notes_draft.sql", "SELECT 2;")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 1 {
		t.Fatalf("got %d migrations, want 1", len(migrations))
	}
}

func TestLoadMigrationsMissingDir(t *testing.T) {
	m := NewMigrator(nil, filepath.Join(t.TempDir(), "nope"))
	if _, err := m.LoadMigrations(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
