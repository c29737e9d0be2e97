package library

import (
	"path/filepath"
	"time"
)

// PhotoRecord is one imported Live Photo as the index sees it.
//
// Invariant: HasMotion is true exactly when VideoFilename is set. When
// HasMotion is true the video is expected as a sibling of the still; its
// absence at read time is a recoverable runtime condition, not corruption.
type PhotoRecord struct {
	ID            int64
	Filename      string
	FilePath      string
	CapturedAt    time.Time
	HasMotion     bool
	VideoFilename string
	// Duration is the motion clip length in seconds. Zero until the first
	// successful decode reports it.
	Duration  float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VideoPath resolves the paired video file path, or "" when the record has
// no motion.
func (r *PhotoRecord) VideoPath() string {
	if r == nil || !r.HasMotion || r.VideoFilename == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(r.FilePath), r.VideoFilename)
}

// Order selects list ordering by capture timestamp.
type Order string

const (
	// OrderNewestFirst is the default presentation order.
	OrderNewestFirst Order = "desc"
	OrderOldestFirst Order = "asc"
)

// SearchQuery filters records. Every filter is optional; absent filters are
// skipped, and all present filters are ANDed. A blank Text means "no
// filename filter", never "match nothing".
type SearchQuery struct {
	// Text matches as a case-insensitive substring of the still filename.
	Text string
	// From and To bound the capture timestamp inclusively.
	From *time.Time
	To   *time.Time
}

// Stats aggregates index counts and on-disk usage. Missing backing files
// contribute zero bytes.
type Stats struct {
	TotalPhotos    int
	LivePhotos     int
	TotalSizeBytes int64
	TotalSizeGB    float64
}
