// Package preflight runs environment checks before imports and for the
// doctor command: directory access, free disk space, external binaries, and
// index health.
package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/dustin/go-humanize"

	"lightbox/internal/config"
	"lightbox/internal/deps"
	"lightbox/internal/library"
)

// minFreeBytes is the floor below which imports are unsafe.
const minFreeBytes = 256 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config. A nil store
// skips the index check.
func RunAll(ctx context.Context, cfg *config.Config, store *library.Store) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir),
		CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir),
		CheckFreeSpace("Library free space", cfg.Paths.LibraryDir),
	}
	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		}
		results = append(results, result)
	}
	if store != nil {
		results = append(results, CheckIndex(ctx, store))
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has headroom for an
// import.
func CheckFreeSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := uint64(stat.Bavail) * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s available", humanize.IBytes(free))
	if free < minFreeBytes {
		return Result{Name: name, Detail: detail + " (below minimum)"}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckIndex verifies the photo index answers a trivial query.
func CheckIndex(ctx context.Context, store *library.Store) Result {
	const name = "Photo index"
	total, _, err := store.Counts(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("error: %v", err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d photos indexed", total)}
}
