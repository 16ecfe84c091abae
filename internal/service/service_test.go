package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/rapamazonia/assetregistry/internal/models"
	"github.com/rapamazonia/assetregistry/internal/storage/sqlite"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func ensureCommittee(t *testing.T, store *sqlite.SQLiteStore, name string) int64 {
	t.Helper()
	ctx := context.Background()
	if err := store.EnsureCommittee(ctx, name); err != nil {
		t.Fatalf("EnsureCommittee(%q) failed: %v", name, err)
	}
	committees, err := store.ListCommittees(ctx)
	if err != nil {
		t.Fatalf("ListCommittees failed: %v", err)
	}
	for _, c := range committees {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("committee %q not found after ensure", name)
	return 0
}

func adminCaller(id int64) *models.User {
	return &models.User{ID: id, Role: models.RoleAdmin, Active: true}
}

func operatorCaller(id, committeeID int64, committeeName string) *models.User {
	return &models.User{
		ID:            id,
		Role:          models.RoleOperator,
		CommitteeID:   &committeeID,
		CommitteeName: committeeName,
		Active:        true,
	}
}
