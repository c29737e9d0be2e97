package playback

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"
	"time"

	"lightbox/internal/codec"
	"lightbox/internal/config"
	"lightbox/internal/logging"
)

// State identifies where a session sits in the hover machine.
type State int

const (
	// StateIdle shows the still frame and holds no decoder.
	StateIdle State = iota
	// StateArmed is hovering, waiting out the dwell timer.
	StateArmed
	// StatePlaying is emitting motion frames on the tick cadence.
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// FrameSink receives rendered frames. Calls arrive from session-internal
// goroutines; implementations must not call back into the session.
type FrameSink interface {
	ShowStill(frame image.Image)
	ShowFrame(frame image.Image)
}

// Options tunes the session timings. Zero values fall back to the
// configured playback defaults.
type Options struct {
	// Dwell is how long the pointer must rest before playback starts.
	Dwell time.Duration
	// FrameInterval is the tick cadence during playback.
	FrameInterval time.Duration
	// TickBudget caps the number of frames emitted per playback burst.
	TickBudget int
	// CanvasSize is the square letterbox edge in pixels.
	CanvasSize int
	// OnMotionReady is invoked once, on its own goroutine, after the first
	// successful decoder open. Callers use it to lazily probe and persist
	// the clip duration.
	OnMotionReady func(videoPath string)
}

// OptionsFromConfig maps the configured playback settings onto session
// options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		Dwell:      time.Duration(cfg.Playback.DwellMillis) * time.Millisecond,
		TickBudget: cfg.Playback.TickBudget,
		CanvasSize: cfg.Playback.CanvasSize,
	}
	if cfg.Playback.FrameRate > 0 {
		opts.FrameInterval = time.Second / time.Duration(cfg.Playback.FrameRate)
	}
	return opts
}

func (o Options) withDefaults() Options {
	fallback := config.Default()
	defaults := OptionsFromConfig(&fallback)
	if o.Dwell <= 0 {
		o.Dwell = defaults.Dwell
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = defaults.FrameInterval
	}
	if o.TickBudget <= 0 {
		o.TickBudget = defaults.TickBudget
	}
	if o.CanvasSize <= 0 {
		o.CanvasSize = defaults.CanvasSize
	}
	return o
}

// Session is the per-photo hover state machine. All methods are safe for
// concurrent use and idempotent where the state already matches.
type Session struct {
	mu     sync.Mutex
	opts   Options
	opener codec.DecoderOpener
	sink   FrameSink
	logger *slog.Logger

	videoPath string
	still     *image.NRGBA

	state    State
	decoder  codec.FrameDecoder
	timer    *time.Timer
	ticks    int
	epoch    uint64
	fallback bool
	released bool

	motionOnce sync.Once
}

// NewSession builds a session around a decoded still and its paired video
// path. An empty videoPath yields a still-only session that never plays.
// The still is letterboxed once up front and shown immediately.
func NewSession(still image.Image, videoPath string, opener codec.DecoderOpener, sink FrameSink, opts Options, logger *slog.Logger) *Session {
	s := &Session{
		opts:      opts.withDefaults(),
		opener:    opener,
		sink:      sink,
		logger:    logging.NewComponentLogger(logger, "playback"),
		videoPath: videoPath,
		fallback:  videoPath == "" || opener == nil,
	}
	s.still = codec.Letterbox(still, s.opts.CanvasSize)
	sink.ShowStill(s.still)
	return s
}

// State reports the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Arm starts the dwell timer. It is a no-op unless the session is idle with
// playback still available.
func (s *Session) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || s.fallback || s.state != StateIdle {
		return
	}
	s.state = StateArmed
	epoch := s.epoch
	s.timer = time.AfterFunc(s.opts.Dwell, func() {
		s.dwellElapsed(epoch)
	})
}

// Disarm handles the pointer leaving: a pending dwell is cancelled, active
// playback stops, and the still frame is restored.
func (s *Session) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toIdleLocked()
}

// Stop forces the session back to idle. When it returns the decoder has
// been released and the still frame shown. Stopping an idle session is a
// no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toIdleLocked()
}

// Release permanently retires the session. Any playback stops, the decoder
// is released, and every later call becomes a no-op.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.toIdleLocked()
	s.released = true
}

// dwellElapsed fires on the timer goroutine when the dwell completes.
func (s *Session) dwellElapsed(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released || s.epoch != epoch || s.state != StateArmed {
		return
	}

	decoder, err := s.opener(s.videoPath)
	if err != nil {
		s.logger.Warn("decoder open failed, falling back to still",
			logging.String("video", s.videoPath),
			logging.Error(err))
		s.fallback = true
		s.toIdleLocked()
		return
	}

	s.motionOnce.Do(func() {
		if s.opts.OnMotionReady != nil {
			go s.opts.OnMotionReady(s.videoPath)
		}
	})

	s.decoder = decoder
	s.state = StatePlaying
	s.ticks = 0
	go s.playLoop(s.epoch)
}

// playLoop drives one playback burst. It exits when the epoch moves on,
// the budget runs out, or decoding fails.
func (s *Session) playLoop(epoch uint64) {
	ticker := time.NewTicker(s.opts.FrameInterval)
	defer ticker.Stop()
	for range ticker.C {
		if !s.tick(epoch) {
			return
		}
	}
}

func (s *Session) tick(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || s.state != StatePlaying {
		return false
	}
	if s.ticks >= s.opts.TickBudget {
		s.toIdleLocked()
		return false
	}

	frame, err := s.decoder.Next()
	if errors.Is(err, io.EOF) {
		// Loop the clip within the budget.
		if resetErr := s.decoder.Reset(); resetErr != nil {
			err = resetErr
		} else {
			frame, err = s.decoder.Next()
		}
	}
	if err != nil {
		s.logger.Warn("frame decode failed, falling back to still",
			logging.String("video", s.videoPath),
			logging.Error(err))
		s.fallback = true
		s.toIdleLocked()
		return false
	}

	s.ticks++
	s.sink.ShowFrame(codec.Letterbox(frame, s.opts.CanvasSize))
	return true
}

// toIdleLocked is the single path back to idle: it invalidates timers and
// the play loop, closes the decoder exactly once, and restores the still.
func (s *Session) toIdleLocked() {
	s.epoch++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.decoder != nil {
		if err := s.decoder.Close(); err != nil {
			s.logger.Debug("decoder close failed", logging.Error(err))
		}
		s.decoder = nil
	}
	wasIdle := s.state == StateIdle
	s.state = StateIdle
	s.ticks = 0
	if !wasIdle {
		s.sink.ShowStill(s.still)
	}
}
