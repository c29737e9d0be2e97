// Package trash moves files to a freedesktop-layout recoverable trash,
// falling back to permanent removal when no usable trash directory was
// supplied. The trash root is resolved by the configuration layer and
// passed in; this package never consults the environment.
package trash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Mode controls the fallback behavior when the trash is unusable.
type Mode string

const (
	// ModeAuto tries the trash and falls back to permanent removal.
	ModeAuto Mode = "auto"
	// ModeAlways fails when the trash is unusable.
	ModeAlways Mode = "always"
	// ModeNever removes permanently without touching the trash.
	ModeNever Mode = "never"
)

// ParseMode maps a config string to a Mode, defaulting to auto.
func ParseMode(value string) Mode {
	switch Mode(value) {
	case ModeAlways, ModeNever:
		return Mode(value)
	default:
		return ModeAuto
	}
}

// Remover discards files according to its mode.
type Remover struct {
	mode Mode
	// trashDir is the resolved trash root. Empty means no trash facility
	// is available.
	trashDir string
}

// NewRemover builds a Remover for the given mode and trash root.
func NewRemover(mode Mode, trashDir string) *Remover {
	return &Remover{mode: mode, trashDir: trashDir}
}

// Remove discards the file at path. A missing file is a no-op. The returned
// bool reports whether the file went to the trash (false means it was
// removed permanently or did not exist).
func (r *Remover) Remove(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	if r.mode == ModeNever {
		return false, os.Remove(path)
	}

	if err := r.trash(path); err != nil {
		if r.mode == ModeAlways {
			return false, fmt.Errorf("trash %s: %w", path, err)
		}
		return false, os.Remove(path)
	}
	return true, nil
}

// trash implements the freedesktop trash layout: the file moves into
// files/ and an info/<name>.trashinfo records the origin.
func (r *Remover) trash(path string) error {
	if r.trashDir == "" {
		return errors.New("no trash directory available")
	}
	filesDir := filepath.Join(r.trashDir, "files")
	infoDir := filepath.Join(r.trashDir, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	absolute, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	target := filepath.Join(filesDir, name)
	for i := 1; ; i++ {
		if _, err := os.Lstat(target); errors.Is(err, os.ErrNotExist) {
			break
		}
		target = filepath.Join(filesDir, name+"."+strconv.Itoa(i))
	}

	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		absolute, time.Now().Format("2006-01-02T15:04:05"))
	infoPath := filepath.Join(infoDir, filepath.Base(target)+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return err
	}

	if err := os.Rename(path, target); err != nil {
		_ = os.Remove(infoPath)
		return err
	}
	return nil
}
