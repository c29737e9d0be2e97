package codec

import (
	"context"
	"image"

	"lightbox/internal/config"
)

// MotionProber answers whether a still container carries an embedded
// auxiliary motion track.
type MotionProber interface {
	HasMotionTrack(ctx context.Context, path string) (bool, error)
}

// MotionExtractor pulls an embedded motion track out of a still container
// into destDir. It returns the extracted file path, or "" when the container
// holds no extractable track. Extraction is best effort; "" with a nil error
// is a legitimate outcome.
type MotionExtractor interface {
	ExtractMotion(ctx context.Context, stillPath, destDir string) (string, error)
}

// FrameDecoder decodes a video stream one frame at a time. Next returns
// io.EOF when the stream is exhausted; Reset seeks back to the first frame.
// Close releases the underlying decoder resource and is idempotent.
type FrameDecoder interface {
	Next() (image.Image, error)
	Reset() error
	Close() error
}

// DecoderOpener opens a FrameDecoder for a video file.
type DecoderOpener func(path string) (FrameDecoder, error)

// Service implements the codec boundary on top of the ffmpeg and ffprobe
// binaries.
type Service struct {
	ffmpeg  string
	ffprobe string
}

// NewService builds a Service from configured binary names.
func NewService(cfg *config.Config) *Service {
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
	return &Service{ffmpeg: ffmpeg, ffprobe: ffprobe}
}
