package playback

import (
	"context"
	"image"
	"log/slog"
	"sync"
	"time"

	"lightbox/internal/codec"
	"lightbox/internal/config"
	"lightbox/internal/library"
	"lightbox/internal/logging"
	"lightbox/internal/services"
)

// durationProbeTimeout bounds the lazy ffprobe run so a wedged process
// cannot pin its goroutine for the program lifetime.
const durationProbeTimeout = 15 * time.Second

// noopSink drops frames. It stands in when the caller has no view yet.
type noopSink struct{}

func (noopSink) ShowStill(image.Image) {}
func (noopSink) ShowFrame(image.Image) {}

// Engine builds playback sessions for library records, one session per
// record id. Sessions are independent: hundreds can be live at once, each
// armed and stopped on its own. Opening an id that already has a session
// replaces only that session.
type Engine struct {
	mu       sync.Mutex
	cfg      *config.Config
	store    *library.Store
	codec    *codec.Service
	logger   *slog.Logger
	sessions map[int64]*Session
}

// NewEngine wires sessions to the codec service and the index.
func NewEngine(cfg *config.Config, store *library.Store, svc *codec.Service, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		store:    store,
		codec:    svc,
		logger:   logging.NewComponentLogger(logger, "playback"),
		sessions: make(map[int64]*Session),
	}
}

// Open decodes the record's still and returns a ready session rendering
// into sink. A nil sink drops frames. A record without motion yields a
// still-only session. A session already open for the same record id is
// released and replaced; sessions for other ids are untouched.
func (e *Engine) Open(ctx context.Context, record *library.PhotoRecord, sink FrameSink) (*Session, error) {
	if record == nil {
		return nil, services.Wrap(services.ErrValidation, "playback", "open", "nil photo record", nil)
	}
	still, err := e.codec.DecodeStill(record.FilePath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "playback", "open", record.FilePath, err)
	}
	if sink == nil {
		sink = noopSink{}
	}

	opts := OptionsFromConfig(e.cfg)
	videoPath := record.VideoPath()
	if videoPath != "" && record.Duration == 0 {
		id := record.ID
		opts.OnMotionReady = func(path string) {
			e.persistDuration(id, path)
		}
	}

	session := NewSession(still, videoPath, e.codec.OpenStream, sink, opts, e.logger)
	e.mu.Lock()
	previous := e.sessions[record.ID]
	e.sessions[record.ID] = session
	e.mu.Unlock()
	if previous != nil {
		previous.Release()
	}
	return session, nil
}

// Session returns the live session for a record id, or nil.
func (e *Engine) Session(id int64) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[id]
}

// Release retires the session for one record id. Unknown ids are a no-op.
func (e *Engine) Release(id int64) {
	e.mu.Lock()
	session := e.sessions[id]
	delete(e.sessions, id)
	e.mu.Unlock()
	if session != nil {
		session.Release()
	}
}

// Active reports how many sessions are currently tracked.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// Close releases every tracked session.
func (e *Engine) Close() {
	e.mu.Lock()
	sessions := e.sessions
	e.sessions = make(map[int64]*Session)
	e.mu.Unlock()
	for _, session := range sessions {
		session.Release()
	}
}

// persistDuration runs off the playback path: the first successful decoder
// open triggers a one-time probe whose result backfills the record.
func (e *Engine) persistDuration(id int64, videoPath string) {
	ctx, cancel := context.WithTimeout(context.Background(), durationProbeTimeout)
	defer cancel()
	seconds, err := e.codec.MotionDuration(ctx, videoPath)
	if err != nil || seconds <= 0 {
		e.logger.Debug("duration probe failed",
			logging.Int64("photo_id", id),
			logging.Error(err))
		return
	}
	if err := e.store.UpdateDuration(ctx, id, seconds); err != nil {
		e.logger.Warn("duration update failed",
			logging.Int64("photo_id", id),
			logging.Error(err))
		return
	}
	e.logger.Debug("duration recorded",
		logging.Int64("photo_id", id),
		logging.Float64("seconds", seconds))
}
