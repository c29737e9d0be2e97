package trash

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRemoveToTrash(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "IMG_0001.HEIC")
	if err := os.WriteFile(victim, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewRemover(ModeAuto, filepath.Join(dir, "Trash"))
	trashed, err := r.Remove(victim)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !trashed {
		t.Fatal("expected file to be trashed")
	}
	if _, err := os.Stat(victim); !os.IsNotExist(err) {
		t.Error("victim still exists")
	}
	if _, err := os.Stat(filepath.Join(dir, "Trash", "files", "IMG_0001.HEIC")); err != nil {
		t.Errorf("trashed file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Trash", "info", "IMG_0001.HEIC.trashinfo")); err != nil {
		t.Errorf("trashinfo missing: %v", err)
	}
}

func TestRemoveCollidingTrashNames(t *testing.T) {
	dir := t.TempDir()
	r := NewRemover(ModeAuto, filepath.Join(dir, "Trash"))

	for i := 0; i < 2; i++ {
		victim := filepath.Join(dir, "same.mov")
		if err := os.WriteFile(victim, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := r.Remove(victim); err != nil {
			t.Fatalf("Remove #%d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, "Trash", "files"))
	if err != nil {
		t.Fatalf("read trash: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("trash holds %d files, want 2", len(entries))
	}
}

func TestRemoveNeverModePermanent(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "gone.heic")
	if err := os.WriteFile(victim, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewRemover(ModeNever, filepath.Join(dir, "Trash"))
	trashed, err := r.Remove(victim)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if trashed {
		t.Error("never mode should not trash")
	}
	if _, err := os.Stat(filepath.Join(dir, "Trash")); !os.IsNotExist(err) {
		t.Error("trash dir should not have been created")
	}
}

func TestRemoveWithoutTrashDirFallsBack(t *testing.T) {
	dir := t.TempDir()
	victim := filepath.Join(dir, "gone.heic")
	if err := os.WriteFile(victim, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Auto mode without a trash root removes permanently.
	r := NewRemover(ModeAuto, "")
	trashed, err := r.Remove(victim)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if trashed {
		t.Error("no trash root, yet reported as trashed")
	}
	if _, err := os.Stat(victim); !os.IsNotExist(err) {
		t.Error("victim still exists")
	}

	// Always mode without a trash root refuses.
	if err := os.WriteFile(victim, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r = NewRemover(ModeAlways, "")
	if _, err := r.Remove(victim); err == nil {
		t.Error("always mode without a trash root should fail")
	}
	if _, err := os.Stat(victim); err != nil {
		t.Error("always mode must not fall back to permanent removal")
	}
}

func TestRemoveMissingFileNoOp(t *testing.T) {
	r := NewRemover(ModeAuto, "")
	trashed, err := r.Remove(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if trashed {
		t.Error("missing file reported as trashed")
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("never") != ModeNever || ParseMode("always") != ModeAlways {
		t.Error("explicit modes not parsed")
	}
	if ParseMode("") != ModeAuto || ParseMode("bogus") != ModeAuto {
		t.Error("default mode should be auto")
	}
}
