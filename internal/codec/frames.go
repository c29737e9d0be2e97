package codec

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// OpenStream starts a sequential frame decoder for the video at path. The
// decoder owns one ffmpeg process at a time; Reset restarts it from the
// first frame and Close tears it down.
func (s *Service) OpenStream(path string) (FrameDecoder, error) {
	stream := &ffmpegStream{binary: s.ffmpeg, path: path}
	if err := stream.start(); err != nil {
		return nil, err
	}
	return stream, nil
}

// ffmpegStream decodes frames from an ffmpeg image2pipe of MJPEG frames.
type ffmpegStream struct {
	binary string
	path   string

	mu     sync.Mutex
	cmd    *exec.Cmd
	reader *bufio.Reader
	stdout io.ReadCloser
	closed bool
}

func (f *ffmpegStream) start() error {
	binary := strings.TrimSpace(f.binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.Command(binary,
		"-v", "error", "-hide_banner",
		"-i", f.path,
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "4",
		"-",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}
	f.cmd = cmd
	f.stdout = stdout
	f.reader = bufio.NewReaderSize(stdout, 1<<20)
	return nil
}

// Next decodes the next frame. It returns io.EOF once the stream ends.
func (f *ffmpegStream) Next() (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.reader == nil {
		return nil, io.EOF
	}
	frame, err := jpeg.Decode(f.reader)
	if err != nil {
		if err == io.EOF || strings.Contains(err.Error(), "EOF") {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return frame, nil
}

// Reset seeks back to the first frame by restarting the decode process.
func (f *ffmpegStream) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return fmt.Errorf("stream closed")
	}
	f.stopLocked()
	return f.start()
}

// Close releases the decoder process. Safe to call more than once.
func (f *ffmpegStream) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	f.stopLocked()
	return nil
}

func (f *ffmpegStream) stopLocked() {
	if f.stdout != nil {
		_ = f.stdout.Close()
		f.stdout = nil
	}
	if f.cmd != nil && f.cmd.Process != nil {
		_ = f.cmd.Process.Kill()
		_ = f.cmd.Wait()
	}
	f.cmd = nil
	f.reader = nil
}
