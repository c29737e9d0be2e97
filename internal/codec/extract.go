package codec

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExtractMotion copies the embedded motion track of a still container into
// destDir as a sibling .MOV, preserving the base name. It returns "" with a
// nil error when the container has no timed video stream to extract.
func (s *Service) ExtractMotion(ctx context.Context, stillPath, destDir string) (string, error) {
	result, err := s.Inspect(ctx, stillPath)
	if err != nil {
		return "", err
	}
	streamIndex := result.timedVideoStreamIndex()
	if streamIndex < 0 {
		return "", nil
	}

	base := strings.TrimSuffix(filepath.Base(stillPath), filepath.Ext(stillPath))
	destPath := filepath.Join(destDir, base+".MOV")

	binary := strings.TrimSpace(s.ffmpeg)
	if binary == "" {
		binary = "ffmpeg"
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error", "-hide_banner", "-y",
		"-i", stillPath,
		"-map", fmt.Sprintf("0:%d", streamIndex),
		"-c", "copy",
		destPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(destPath)
		return "", fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return destPath, nil
}
