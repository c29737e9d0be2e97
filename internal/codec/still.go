package codec

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/webp"
)

// DecodeStill decodes the still image at path to raw pixels. Formats the Go
// decoders understand are read in-process; anything else (HEIC in
// particular) falls back to a one-frame ffmpeg decode.
func (s *Service) DecodeStill(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	img, _, decodeErr := image.Decode(file)
	_ = file.Close()
	if decodeErr == nil {
		return img, nil
	}

	stream, err := s.OpenStream(path)
	if err != nil {
		return nil, fmt.Errorf("decode still %s: %w", path, decodeErr)
	}
	defer stream.Close()
	frame, err := stream.Next()
	if err != nil {
		return nil, fmt.Errorf("decode still %s: %w", path, decodeErr)
	}
	return frame, nil
}
