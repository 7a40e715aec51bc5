package migrate_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	if err := migrate.ValidateFS(migrate.Embedded()); err != nil {
		t.Fatalf("validate embedded: %v", err)
	}
	embedded, err := fs.Glob(migrate.Embedded(), "*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob disk: %v", err)
	}
	if len(embedded) != len(onDisk) || len(embedded) == 0 {
		t.Fatalf("embedded %d migrations, disk has %d", len(embedded), len(onDisk))
	}
}

func TestValidateFSRejectsBadFiles(t *testing.T) {
	cases := map[string]fstest.MapFS{
		"bad name":     {"create_rooms.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")}},
		"missing down": {"20250101000000_rooms.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")}},
		"down first":   {"20250101000000_rooms.sql": {Data: []byte("-- +goose Down\n-- +goose Up\n")}},
		"duplicate": {
			"20250101000000_rooms.sql":   {Data: []byte("-- +goose Up\n-- +goose Down\n")},
			"20250101000000_banners.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		},
	}
	for name, fsys := range cases {
		if err := migrate.ValidateFS(fsys); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestMigrationConstraints(t *testing.T) {
	tests := map[string][]string{
		"create_accounts": {
			"CREATE TABLE IF NOT EXISTS accounts",
			"CONSTRAINT accounts_email_key UNIQUE (email)",
			"DROP TABLE IF EXISTS accounts",
		},
		"create_profiles": {
			"CREATE TABLE IF NOT EXISTS wishlist_entries",
			"CONSTRAINT wishlist_entries_uid_item_key UNIQUE (uid, item_id)",
			"FOREIGN KEY (uid) REFERENCES profiles(uid) ON DELETE CASCADE",
			"DROP TABLE IF EXISTS profiles",
		},
		"create_item_discounts": {
			"CREATE TABLE IF NOT EXISTS item_discounts",
			"discount = 0 AND discounted_price IS NULL",
			"DROP TABLE IF EXISTS item_discounts",
		},
	}

	for suffix, checks := range tests {
		content := readMigration(t, suffix)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", suffix, sub)
			}
		}
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC)
	path, err := migrate.CreateSQLMigration(dir, "Add Room Banners!", at)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20250701093000_add_room_banners.sql" {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("validate created migration: %v", err)
	}
	if _, err := migrate.CreateSQLMigration(dir, "add room banners", at); err == nil {
		t.Fatalf("expected duplicate migration to fail")
	}
	if _, err := migrate.CreateSQLMigration(dir, "!!!", at); err == nil {
		t.Fatalf("expected empty slug to fail")
	}
}
