// Package deps reports the availability of the external binaries Lightbox
// shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"lightbox/internal/config"
)

// Requirement defines an external dependency Lightbox relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries the configured tool paths resolve to.
func Requirements(cfg *config.Config) []Requirement {
	ffmpeg := "ffmpeg"
	ffprobe := "ffprobe"
	if cfg != nil {
		if cfg.Tools.FFmpegBinary != "" {
			ffmpeg = cfg.Tools.FFmpegBinary
		}
		if cfg.Tools.FFprobeBinary != "" {
			ffprobe = cfg.Tools.FFprobeBinary
		}
	}
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Required for motion extraction and frame decoding",
		},
		{
			Name:        "FFprobe",
			Command:     ffprobe,
			Description: "Required for motion track inspection",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
