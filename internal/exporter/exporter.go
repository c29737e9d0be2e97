// Package exporter copies selected Live Photos out of the library into a
// flat export directory, preserving their library filenames.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lightbox/internal/config"
	"lightbox/internal/fileutil"
	"lightbox/internal/library"
	"lightbox/internal/logging"
	"lightbox/internal/services"
)

// ItemStatus is the per-photo outcome of an export run.
type ItemStatus string

const (
	StatusExported ItemStatus = "exported"
	// StatusSkipped covers unknown ids and records whose backing files are
	// gone. Skips never abort the rest of the run.
	StatusSkipped ItemStatus = "skipped"
	StatusFailed  ItemStatus = "failed"
)

// Item reports the outcome for one requested photo id.
type Item struct {
	ID       int64
	Filename string
	Status   ItemStatus
	Reason   string
}

// Report summarizes an export run item by item.
type Report struct {
	Items    []Item
	Exported int
	Skipped  int
	Failed   int
}

// OK reports whether every requested photo was exported.
func (r Report) OK() bool {
	return r.Failed == 0 && r.Skipped == 0
}

// Exporter copies photos from the library into the export directory.
type Exporter struct {
	cfg    *config.Config
	store  *library.Store
	logger *slog.Logger
}

// New builds an Exporter over the given store.
func New(cfg *config.Config, store *library.Store, logger *slog.Logger) *Exporter {
	return &Exporter{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "exporter"),
	}
}

// Export copies each requested photo, still plus paired video, into the
// export directory. The directory is created on first use. Every id gets an
// entry in the report; a bad id or a missing source file marks that entry
// and the run continues.
func (e *Exporter) Export(ctx context.Context, ids []int64) (Report, error) {
	if err := os.MkdirAll(e.cfg.Paths.ExportDir, 0o755); err != nil {
		return Report{}, services.Wrap(services.ErrUnavailable, "exporter", "export", "create export directory", err)
	}

	var report Report
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, services.Wrap(services.ErrTransient, "exporter", "export", "export interrupted", err)
		}
		item := e.exportOne(ctx, id)
		report.Items = append(report.Items, item)
		switch item.Status {
		case StatusExported:
			report.Exported++
		case StatusSkipped:
			report.Skipped++
		case StatusFailed:
			report.Failed++
		}
	}

	e.logger.Info("export finished",
		logging.Int("requested", len(ids)),
		logging.Int("exported", report.Exported),
		logging.Int("skipped", report.Skipped),
		logging.Int("failed", report.Failed))
	return report, nil
}

func (e *Exporter) exportOne(ctx context.Context, id int64) Item {
	record, err := e.store.GetByID(ctx, id)
	if err != nil {
		return Item{ID: id, Status: StatusFailed, Reason: err.Error()}
	}
	if record == nil {
		return Item{ID: id, Status: StatusSkipped, Reason: "no such photo"}
	}

	item := Item{ID: id, Filename: record.Filename}
	if _, err := os.Stat(record.FilePath); err != nil {
		item.Status = StatusSkipped
		item.Reason = fmt.Sprintf("still missing: %s", record.FilePath)
		return item
	}

	stillDest := filepath.Join(e.cfg.Paths.ExportDir, record.Filename)
	if err := fileutil.CopyFilePreserving(record.FilePath, stillDest); err != nil {
		item.Status = StatusFailed
		item.Reason = err.Error()
		return item
	}

	if videoPath := record.VideoPath(); videoPath != "" {
		if _, err := os.Stat(videoPath); err != nil {
			// The still is already out; report the missing half instead of
			// undoing it.
			item.Status = StatusSkipped
			item.Reason = fmt.Sprintf("video missing: %s", videoPath)
			return item
		}
		videoDest := filepath.Join(e.cfg.Paths.ExportDir, record.VideoFilename)
		if err := fileutil.CopyFilePreserving(videoPath, videoDest); err != nil {
			item.Status = StatusFailed
			item.Reason = err.Error()
			return item
		}
	}

	e.logger.Debug("exported photo",
		logging.Int64("photo_id", id),
		logging.String("filename", record.Filename))
	item.Status = StatusExported
	return item
}

// Clear empties the export directory without touching the library. A
// missing export directory is already clear.
func (e *Exporter) Clear(ctx context.Context) error {
	if err := fileutil.ClearDir(e.cfg.Paths.ExportDir); err != nil {
		return services.Wrap(services.ErrUnavailable, "exporter", "clear", e.cfg.Paths.ExportDir, err)
	}
	e.logger.Info("export directory cleared", logging.String("dir", e.cfg.Paths.ExportDir))
	return nil
}
