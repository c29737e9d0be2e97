package library_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"lightbox/internal/library"
	"lightbox/internal/testsupport"
)

func mustInsert(t *testing.T, store *library.Store, name string, captured time.Time, hasMotion bool) *library.PhotoRecord {
	t.Helper()
	record := library.PhotoRecord{
		Filename:   name,
		FilePath:   filepath.Join("/library/2024/06", name),
		CapturedAt: captured,
		HasMotion:  hasMotion,
	}
	if hasMotion {
		record.VideoFilename = name[:len(name)-len(filepath.Ext(name))] + ".MOV"
	}
	return testsupport.InsertPhoto(t, store, record)
}

func TestInsertAssignsIDAndRoundTrips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	captured := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	inserted := mustInsert(t, store, "IMG_0001.HEIC", captured, true)
	if inserted.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := store.GetByID(ctx, inserted.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("record not found")
	}
	if got.Filename != "IMG_0001.HEIC" || !got.HasMotion || got.VideoFilename != "IMG_0001.MOV" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.CapturedAt.Equal(captured) {
		t.Errorf("captured = %v, want %v", got.CapturedAt, captured)
	}
	if got.Duration != 0 {
		t.Errorf("fresh record duration = %v, want 0", got.Duration)
	}
}

func TestInsertRejectsVideoWithoutMotionFlag(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.Insert(context.Background(), library.PhotoRecord{
		Filename:      "IMG_0002.HEIC",
		FilePath:      "/library/2024/06/IMG_0002.HEIC",
		CapturedAt:    time.Now().UTC(),
		HasMotion:     false,
		VideoFilename: "IMG_0002.MOV",
	})
	if err == nil {
		t.Fatal("expected invariant violation error")
	}
}

func TestInsertRejectsMotionWithoutVideoFilename(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	_, err := store.Insert(context.Background(), library.PhotoRecord{
		Filename:   "IMG_0003.HEIC",
		FilePath:   "/library/2024/06/IMG_0003.HEIC",
		CapturedAt: time.Now().UTC(),
		HasMotion:  true,
	})
	if err == nil {
		t.Fatal("expected invariant violation error")
	}
}

func TestGetByIDMissingIsNilNotError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	got, err := store.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing id, got %+v", got)
	}
}

func TestListOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		mustInsert(t, store, fmt.Sprintf("IMG_%04d.HEIC", i), base.AddDate(0, i, 0), false)
	}

	newest, err := store.List(ctx, library.OrderNewestFirst)
	if err != nil {
		t.Fatalf("List desc: %v", err)
	}
	if len(newest) != 3 {
		t.Fatalf("records = %d, want 3", len(newest))
	}
	if !newest[0].CapturedAt.After(newest[2].CapturedAt) {
		t.Errorf("descending order violated: %v then %v", newest[0].CapturedAt, newest[2].CapturedAt)
	}

	oldest, err := store.List(ctx, library.OrderOldestFirst)
	if err != nil {
		t.Fatalf("List asc: %v", err)
	}
	if !oldest[0].CapturedAt.Before(oldest[2].CapturedAt) {
		t.Errorf("ascending order violated")
	}
}

func TestSearchEmptyQueryMatchesListAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		mustInsert(t, store, fmt.Sprintf("IMG_%04d.HEIC", i), base.AddDate(0, 0, i), i%2 == 0)
	}

	all, err := store.List(ctx, library.OrderNewestFirst)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found, err := store.Search(ctx, library.SearchQuery{Text: "   "})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != len(all) {
		t.Fatalf("search(blank) = %d records, list = %d", len(found), len(all))
	}
	for i := range all {
		if all[i].ID != found[i].ID {
			t.Errorf("record %d differs: %d vs %d", i, all[i].ID, found[i].ID)
		}
	}
}

func TestSearchFilenameSubstringCaseInsensitive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	now := time.Now().UTC()
	mustInsert(t, store, "Beach_Sunset.HEIC", now, false)
	mustInsert(t, store, "IMG_0001.HEIC", now.Add(time.Minute), false)

	found, err := store.Search(ctx, library.SearchQuery{Text: "beach"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].Filename != "Beach_Sunset.HEIC" {
		t.Fatalf("search(beach) = %+v", found)
	}

	found, err = store.Search(ctx, library.SearchQuery{Text: "SUNSET"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("uppercase query found %d records, want 1", len(found))
	}
}

func TestSearchTimestampBoundsInclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mustInsert(t, store, "A.HEIC", t1, false)
	mustInsert(t, store, "B.HEIC", t2, false)
	mustInsert(t, store, "C.HEIC", t3, false)

	found, err := store.Search(ctx, library.SearchQuery{From: &t1, To: &t2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("bounded search = %d records, want 2 (inclusive bounds)", len(found))
	}

	found, err = store.Search(ctx, library.SearchQuery{Text: "a.heic", From: &t1, To: &t3})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(found) != 1 || found[0].Filename != "A.HEIC" {
		t.Fatalf("combined filters = %+v", found)
	}
}

func TestRemoveDropsFromSubsequentQueries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	record := mustInsert(t, store, "IMG_0042.HEIC", time.Now().UTC(), false)

	removed, err := store.Remove(ctx, record.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Fatal("expected removal")
	}

	if got, _ := store.GetByID(ctx, record.ID); got != nil {
		t.Error("record still resolvable after removal")
	}
	all, err := store.List(ctx, library.OrderNewestFirst)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("list after remove = %d records", len(all))
	}

	removed, err = store.Remove(ctx, record.ID)
	if err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if removed {
		t.Error("second removal reported true")
	}
}

func TestUpdateDuration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	record := mustInsert(t, store, "IMG_0050.HEIC", time.Now().UTC(), true)
	if err := store.UpdateDuration(ctx, record.ID, 2.87); err != nil {
		t.Fatalf("UpdateDuration: %v", err)
	}

	got, err := store.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Duration != 2.87 {
		t.Errorf("duration = %v, want 2.87", got.Duration)
	}
}

func TestSchemaIdempotentReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mustInsert(t, store, "IMG_0001.HEIC", time.Now().UTC(), false)
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	all, err := reopened.List(context.Background(), library.OrderNewestFirst)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("records after reopen = %d, want 1", len(all))
	}
}
