package classify

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"lightbox/internal/codec"
	"lightbox/internal/logging"
	"lightbox/internal/services"
)

// Kind distinguishes the two Live Photo representations.
type Kind string

const (
	// KindPair is a still plus a sibling video file sharing the base name.
	KindPair Kind = "pair"
	// KindSingle is a lone still container with an embedded motion track.
	KindSingle Kind = "single"
)

// Candidate is one Live Photo unit discovered in a source tree. Candidates
// are transient: the importer consumes them and they are never persisted.
type Candidate struct {
	BaseName  string
	Kind      Kind
	StillPath string
	// VideoPath is set for KindPair; KindSingle leaves it empty until the
	// importer attempts extraction.
	VideoPath string
	Timestamp time.Time
}

// Classifier scans source directories for Live Photo candidates.
type Classifier struct {
	prober codec.MotionProber
	logger *slog.Logger
}

// New builds a Classifier around the given motion prober.
func New(prober codec.MotionProber, logger *slog.Logger) *Classifier {
	return &Classifier{
		prober: prober,
		logger: logging.NewComponentLogger(logger, "classify"),
	}
}

// Scan recursively enumerates root and groups recognized still and video
// files into candidates by base name. A lone still is probed for an embedded
// motion track and excluded when it has none; a lone video is never
// actionable. An unreadable root is fatal; any per-file failure inside the
// tree is skipped and the scan completes.
func (c *Classifier) Scan(ctx context.Context, root string) ([]Candidate, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, services.Wrap(services.ErrValidation, "classify", "scan", "empty source directory", nil)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "classify", "scan", root, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "classify", "scan", root+" is not a directory", nil)
	}

	groups := map[string]*fileGroup{}
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			c.logger.Debug("skipping unreadable entry", logging.String("path", path), logging.Error(err))
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			return nil
		}
		stillRank := extensionRank(stillExtensions, name)
		videoRank := extensionRank(videoExtensions, name)
		if stillRank < 0 && videoRank < 0 {
			return nil
		}

		key := baseName(name)
		group := groups[key]
		if group == nil {
			group = &fileGroup{stillRank: len(stillExtensions), videoRank: len(videoExtensions)}
			groups[key] = group
		}
		// Rank, not first-seen order, picks between duplicate variants.
		if stillRank >= 0 && stillRank < group.stillRank {
			group.still = path
			group.stillRank = stillRank
		}
		if videoRank >= 0 && videoRank < group.videoRank {
			group.video = path
			group.videoRank = videoRank
		}
		return nil
	})
	if walkErr != nil {
		return nil, services.Wrap(services.ErrValidation, "classify", "scan", root, walkErr)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var candidates []Candidate
	for _, key := range keys {
		group := groups[key]
		candidate, ok := c.classifyGroup(ctx, key, group)
		if ok {
			candidates = append(candidates, candidate)
		}
	}
	return candidates, nil
}

type fileGroup struct {
	still     string
	stillRank int
	video     string
	videoRank int
}

func (c *Classifier) classifyGroup(ctx context.Context, key string, group *fileGroup) (Candidate, bool) {
	if group.still == "" {
		// Orphan video, not actionable.
		return Candidate{}, false
	}

	info, err := os.Stat(group.still)
	if err != nil {
		c.logger.Debug("skipping unstatable still", logging.String("path", group.still), logging.Error(err))
		return Candidate{}, false
	}
	timestamp := captureTimestamp(group.still, info)

	if group.video != "" {
		return Candidate{
			BaseName:  key,
			Kind:      KindPair,
			StillPath: group.still,
			VideoPath: group.video,
			Timestamp: timestamp,
		}, true
	}

	hasMotion, err := c.prober.HasMotionTrack(ctx, group.still)
	if err != nil {
		// A probe failure never aborts the scan; the file is treated as a
		// plain still and excluded.
		c.logger.Debug("motion probe failed", logging.String("path", group.still), logging.Error(err))
		return Candidate{}, false
	}
	if !hasMotion {
		return Candidate{}, false
	}
	return Candidate{
		BaseName:  key,
		Kind:      KindSingle,
		StillPath: group.still,
		Timestamp: timestamp,
	}, true
}
