package classify

import (
	"path/filepath"
	"strings"
)

// Extension matching is case-insensitive. Priority order breaks ties when a
// base name carries more than one still or video variant, so classification
// never depends on filesystem enumeration order.
var stillExtensions = []string{".heic", ".heif", ".jpg", ".jpeg", ".png", ".webp"}

var videoExtensions = []string{".mov", ".mp4"}

// IsStill reports whether path has a recognized still-image extension.
func IsStill(path string) bool {
	return extensionRank(stillExtensions, path) >= 0
}

// IsVideo reports whether path has a recognized video extension.
func IsVideo(path string) bool {
	return extensionRank(videoExtensions, path) >= 0
}

func extensionRank(ranked []string, path string) int {
	ext := strings.ToLower(filepath.Ext(path))
	for i, candidate := range ranked {
		if ext == candidate {
			return i
		}
	}
	return -1
}

// baseName returns the grouping key: the file name with its extension
// stripped.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
