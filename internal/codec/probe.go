package codec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ProbeResult represents the parsed output from an ffprobe inspection.
type ProbeResult struct {
	Streams []ProbeStream `json:"streams"`
	Format  ProbeFormat   `json:"format"`
}

// ProbeStream describes a single stream in the media container.
type ProbeStream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// ProbeFormat captures container-level metadata extracted by ffprobe.
type ProbeFormat struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// response.
func (s *Service) Inspect(ctx context.Context, path string) (ProbeResult, error) {
	binary := strings.TrimSpace(s.ffprobe)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return ProbeResult{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return ProbeResult{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// HasMotionTrack reports whether the still container at path carries an
// auxiliary motion track. A plain still shows up as a single image stream
// without a duration; an embedded Live Photo track is a video stream with a
// positive duration.
func (s *Service) HasMotionTrack(ctx context.Context, path string) (bool, error) {
	result, err := s.Inspect(ctx, path)
	if err != nil {
		return false, err
	}
	return result.hasTimedVideoStream(), nil
}

// MotionDuration returns the duration in seconds of the longest video stream
// in the container, or zero when none reports one.
func (s *Service) MotionDuration(ctx context.Context, path string) (float64, error) {
	result, err := s.Inspect(ctx, path)
	if err != nil {
		return 0, err
	}
	longest := 0.0
	for _, stream := range result.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		if d := parseSeconds(stream.Duration); d > longest {
			longest = d
		}
	}
	if longest == 0 {
		longest = parseSeconds(result.Format.Duration)
	}
	return longest, nil
}

func (r ProbeResult) hasTimedVideoStream() bool {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") && parseSeconds(stream.Duration) > 0 {
			return true
		}
	}
	return false
}

// timedVideoStreamIndex returns the container index of the first video
// stream carrying a duration, or -1.
func (r ProbeResult) timedVideoStreamIndex() int {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") && parseSeconds(stream.Duration) > 0 {
			return stream.Index
		}
	}
	return -1
}

func parseSeconds(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}
