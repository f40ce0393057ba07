package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCreateSQLMigrationBumpsPastNewestVersion(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "20300101000000_future.sql")
	if err := os.WriteFile(existing, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	path, err := createSQLMigration(dir, "add index", now)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if got := filepath.Base(path); got != "20300101000001_add_index.sql" {
		t.Fatalf("unexpected file %s", got)
	}
}

func TestCreateSQLMigrationUsesClockWhenLater(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 1, 12, 30, 5, 0, time.UTC)
	path, err := createSQLMigration(dir, "orders notes", now)
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "20250301123005_") {
		t.Fatalf("unexpected file %s", path)
	}
}

func TestValidateBody(t *testing.T) {
	cases := map[string]struct {
		body    string
		wantErr bool
	}{
		"valid":        {body: "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose StatementEnd\n-- +goose Down\n", wantErr: false},
		"down first":   {body: "-- +goose Down\n-- +goose Up\n", wantErr: true},
		"missing down": {body: "-- +goose Up\n", wantErr: true},
		"unterminated": {body: "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n", wantErr: true},
		"stray end":    {body: "-- +goose Up\n-- +goose StatementEnd\n-- +goose Down\n", wantErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := validateBody(tc.body)
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
