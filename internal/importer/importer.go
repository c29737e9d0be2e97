package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"lightbox/internal/classify"
	"lightbox/internal/codec"
	"lightbox/internal/config"
	"lightbox/internal/fileutil"
	"lightbox/internal/library"
	"lightbox/internal/logging"
	"lightbox/internal/services"
)

// lockFilename guards the library tree and index against concurrent imports.
const lockFilename = ".import.lock"

// Progress is invoked after each candidate is handled, successful or not.
// completed never decreases across a run and ends equal to total.
type Progress func(completed, total int)

// Collision records a candidate whose incoming name was already taken in its
// destination month and was deterministically renamed.
type Collision struct {
	BaseName     string
	OriginalName string
	FinalName    string
}

// Failure records a candidate that could not be imported. The rest of the
// run is unaffected.
type Failure struct {
	BaseName string
	Err      error
}

// Result summarizes one import run.
type Result struct {
	Total      int
	Imported   int
	Collisions []Collision
	Failures   []Failure
}

// Scanner yields import candidates from a source tree.
type Scanner interface {
	Scan(ctx context.Context, root string) ([]classify.Candidate, error)
}

// Importer places candidates into the year/month library tree and inserts
// their index records.
type Importer struct {
	cfg       *config.Config
	store     *library.Store
	scanner   Scanner
	extractor codec.MotionExtractor
	logger    *slog.Logger
}

// New builds an Importer. The extractor is consulted for single-container
// candidates only.
func New(cfg *config.Config, store *library.Store, scanner Scanner, extractor codec.MotionExtractor, logger *slog.Logger) *Importer {
	return &Importer{
		cfg:       cfg,
		store:     store,
		scanner:   scanner,
		extractor: extractor,
		logger:    logging.NewComponentLogger(logger, "importer"),
	}
}

// Import scans sourceDir and imports every candidate found. It fails fast
// when another import already holds the library lock.
func (i *Importer) Import(ctx context.Context, sourceDir string, progress Progress) (Result, error) {
	candidates, err := i.scanner.Scan(ctx, sourceDir)
	if err != nil {
		return Result{}, err
	}
	return i.ImportCandidates(ctx, candidates, progress)
}

// ImportCandidates imports an already classified batch. Candidate failures
// are collected in the result; only lock acquisition and an unusable library
// directory are fatal.
func (i *Importer) ImportCandidates(ctx context.Context, candidates []classify.Candidate, progress Progress) (Result, error) {
	if err := os.MkdirAll(i.cfg.Paths.LibraryDir, 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrUnavailable, "importer", "import", "create library directory", err)
	}

	lock := flock.New(filepath.Join(i.cfg.Paths.LibraryDir, lockFilename))
	locked, err := lock.TryLock()
	if err != nil {
		return Result{}, services.Wrap(services.ErrUnavailable, "importer", "import", "acquire library lock", err)
	}
	if !locked {
		return Result{}, services.Wrap(services.ErrValidation, "importer", "import", "another import is already running", nil)
	}
	defer lock.Unlock()

	runID := uuid.New().String()
	logger := i.logger.With(logging.String(logging.FieldRunID, runID))
	result := Result{Total: len(candidates)}
	logger.Info("import started", logging.Int("candidates", result.Total))

	for index, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return result, services.Wrap(services.ErrTransient, "importer", "import", "import interrupted", err)
		}

		collision, err := i.importOne(ctx, logger, candidate)
		if err != nil {
			logger.Warn("candidate failed",
				logging.String("base_name", candidate.BaseName),
				logging.Error(err))
			result.Failures = append(result.Failures, Failure{BaseName: candidate.BaseName, Err: err})
		} else {
			result.Imported++
			if collision != nil {
				result.Collisions = append(result.Collisions, *collision)
			}
		}
		if progress != nil {
			progress(index+1, result.Total)
		}
	}

	logger.Info("import finished",
		logging.Int("imported", result.Imported),
		logging.Int("collisions", len(result.Collisions)),
		logging.Int("failures", len(result.Failures)))
	return result, nil
}

// importOne copies one candidate into its month directory and inserts its
// record. Copied files are removed again when a later step fails so a failed
// candidate leaves no trace in the tree or the index.
func (i *Importer) importOne(ctx context.Context, logger *slog.Logger, candidate classify.Candidate) (*Collision, error) {
	destDir := filepath.Join(i.cfg.Paths.LibraryDir,
		fmt.Sprintf("%04d", candidate.Timestamp.Year()),
		fmt.Sprintf("%02d", int(candidate.Timestamp.Month())))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "importer", "import", "create month directory", err)
	}

	stillExt := filepath.Ext(candidate.StillPath)
	videoExt := filepath.Ext(candidate.VideoPath)
	finalBase, renamed := resolveCollision(destDir, candidate.BaseName, stillExt, videoExt)

	stillName := finalBase + stillExt
	stillDest := filepath.Join(destDir, stillName)
	if err := fileutil.CopyFileVerified(candidate.StillPath, stillDest); err != nil {
		return nil, services.Wrap(services.ErrTransient, "importer", "import", "copy still", err)
	}

	videoName := ""
	switch candidate.Kind {
	case classify.KindPair:
		videoName = finalBase + videoExt
		if err := fileutil.CopyFilePreserving(candidate.VideoPath, filepath.Join(destDir, videoName)); err != nil {
			os.Remove(stillDest)
			return nil, services.Wrap(services.ErrTransient, "importer", "import", "copy video", err)
		}
	case classify.KindSingle:
		extracted, err := i.extractor.ExtractMotion(ctx, stillDest, destDir)
		if err != nil {
			// Extraction is best effort; the photo is kept as a plain still.
			logger.Warn("motion extraction failed",
				logging.String("base_name", candidate.BaseName),
				logging.Error(err))
		} else if extracted != "" {
			videoName = filepath.Base(extracted)
		}
	}

	record := library.PhotoRecord{
		Filename:      stillName,
		FilePath:      stillDest,
		CapturedAt:    candidate.Timestamp,
		HasMotion:     videoName != "",
		VideoFilename: videoName,
	}
	inserted, err := i.store.Insert(ctx, record)
	if err != nil {
		os.Remove(stillDest)
		if videoName != "" {
			os.Remove(filepath.Join(destDir, videoName))
		}
		return nil, err
	}

	logger.Info("imported",
		logging.Int64("photo_id", inserted.ID),
		logging.String("filename", inserted.Filename),
		logging.Bool("has_motion", inserted.HasMotion))

	if !renamed {
		return nil, nil
	}
	return &Collision{
		BaseName:     candidate.BaseName,
		OriginalName: candidate.BaseName + stillExt,
		FinalName:    stillName,
	}, nil
}

// resolveCollision picks a base name that is free for both the still and,
// when present, its video sibling. Taken names get a numeric suffix, first
// free suffix wins, so reimporting the same source yields the same names.
func resolveCollision(destDir, base, stillExt, videoExt string) (string, bool) {
	if baseFree(destDir, base, stillExt, videoExt) {
		return base, false
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if baseFree(destDir, candidate, stillExt, videoExt) {
			return candidate, true
		}
	}
}

func baseFree(destDir, base, stillExt, videoExt string) bool {
	if pathExists(filepath.Join(destDir, base+stillExt)) {
		return false
	}
	if videoExt != "" && pathExists(filepath.Join(destDir, base+videoExt)) {
		return false
	}
	// An extracted track lands as base.MOV regardless of the source name.
	if !strings.EqualFold(videoExt, ".mov") && pathExists(filepath.Join(destDir, base+".MOV")) {
		return false
	}
	return true
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
