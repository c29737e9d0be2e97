package library

import (
	"context"
	"log/slog"
	"math"

	"lightbox/internal/config"
	"lightbox/internal/fileutil"
	"lightbox/internal/logging"
	"lightbox/internal/trash"
)

const bytesPerGiB = 1 << 30

// Library wraps the index store with the maintenance operations that touch
// both the index and the library filesystem tree.
type Library struct {
	store   *Store
	remover *trash.Remover
	logger  *slog.Logger
}

// New builds a Library facade over an open store.
func New(store *Store, cfg *config.Config, logger *slog.Logger) *Library {
	mode := trash.ModeAuto
	trashDir := ""
	if cfg != nil {
		mode = trash.ParseMode(cfg.Library.TrashMode)
		trashDir = cfg.Library.TrashDir
	}
	return &Library{
		store:   store,
		remover: trash.NewRemover(mode, trashDir),
		logger:  logging.NewComponentLogger(logger, "library"),
	}
}

// Store exposes the underlying index store.
func (l *Library) Store() *Store {
	return l.store
}

// Delete removes a photo: backing files first (to the recoverable trash when
// available), then the index row. An unknown id reports false with no side
// effects.
func (l *Library) Delete(ctx context.Context, id int64) (bool, error) {
	record, err := l.store.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, nil
	}

	trashed, err := l.remover.Remove(record.FilePath)
	if err != nil {
		return false, err
	}
	if videoPath := record.VideoPath(); videoPath != "" {
		if _, err := l.remover.Remove(videoPath); err != nil {
			return false, err
		}
	}

	removed, err := l.store.Remove(ctx, id)
	if err != nil {
		return false, err
	}
	l.logger.Info("deleted photo",
		logging.Int64("id", id),
		logging.String("filename", record.Filename),
		logging.Bool("trashed", trashed),
	)
	return removed, nil
}

// Stats aggregates record counts and the on-disk size of every resolvable
// still and paired video file. Missing files contribute zero.
func (l *Library) Stats(ctx context.Context) (Stats, error) {
	total, motion, err := l.store.Counts(ctx)
	if err != nil {
		return Stats{}, err
	}

	records, err := l.store.List(ctx, OrderNewestFirst)
	if err != nil {
		return Stats{}, err
	}

	var bytes int64
	for _, record := range records {
		bytes += fileutil.FileSize(record.FilePath)
		if videoPath := record.VideoPath(); videoPath != "" {
			bytes += fileutil.FileSize(videoPath)
		}
	}

	return Stats{
		TotalPhotos:    total,
		LivePhotos:     motion,
		TotalSizeBytes: bytes,
		TotalSizeGB:    math.Round(float64(bytes)/bytesPerGiB*100) / 100,
	}, nil
}
