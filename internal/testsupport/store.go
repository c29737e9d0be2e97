package testsupport

import (
	"context"
	"testing"
	"time"

	"lightbox/internal/config"
	"lightbox/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// InsertPhoto inserts a record for tests using the provided store.
func InsertPhoto(t testing.TB, store *library.Store, record library.PhotoRecord) *library.PhotoRecord {
	t.Helper()

	if record.CapturedAt.IsZero() {
		record.CapturedAt = time.Now().UTC()
	}
	inserted, err := store.Insert(context.Background(), record)
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return inserted
}
