package persistence

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestMigrationNamesAreOrdered(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("expected embedded migrations")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("migrations out of order: %s before %s", names[i-1], names[i])
		}
	}
}

func TestMigrationsDeclareUniqueIndexes(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var all strings.Builder
	for _, name := range names {
		content, err := fs.ReadFile(migrationFiles, migrationsDir+"/"+name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		all.Write(content)
	}

	for _, index := range []string{
		"ON users (email)",
		"ON parcels (tracking_id)",
		"ON parcel_ratings (user_email, tracking_id)",
	} {
		if !strings.Contains(all.String(), index) {
			t.Errorf("missing unique index %q", index)
		}
	}
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	if err := RunMigrations(context.Background(), nil, zap.NewNop()); err != nil {
		t.Fatalf("expected nil error without pool, got %v", err)
	}
}
