package playback_test

import (
	"errors"
	"image"
	"io"
	"sync"
	"testing"
	"time"

	"lightbox/internal/codec"
	"lightbox/internal/logging"
	"lightbox/internal/playback"
)

type fakeDecoder struct {
	mu        sync.Mutex
	frames    int
	failAfter int
	pos       int
	reads     int
	resets    int
	closes    int
}

func (d *fakeDecoder) Next() (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failAfter > 0 && d.reads >= d.failAfter {
		return nil, errors.New("decode error")
	}
	if d.pos >= d.frames {
		return nil, io.EOF
	}
	d.pos++
	d.reads++
	return image.NewNRGBA(image.Rect(0, 0, 4, 3)), nil
}

func (d *fakeDecoder) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resets++
	d.pos = 0
	return nil
}

func (d *fakeDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closes++
	return nil
}

func (d *fakeDecoder) closeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

type fakeOpener struct {
	mu        sync.Mutex
	fail      bool
	frames    int
	failAfter int
	decoders  []*fakeDecoder
}

func (o *fakeOpener) open(path string) (codec.FrameDecoder, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail {
		return nil, errors.New("open error")
	}
	decoder := &fakeDecoder{frames: o.frames, failAfter: o.failAfter}
	o.decoders = append(o.decoders, decoder)
	return decoder, nil
}

func (o *fakeOpener) opens() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.decoders)
}

func (o *fakeOpener) closes() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	total := 0
	for _, decoder := range o.decoders {
		total += decoder.closeCount()
	}
	return total
}

type recordSink struct {
	mu        sync.Mutex
	stills    int
	frames    int
	lastStill image.Image
}

func (s *recordSink) ShowStill(frame image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stills++
	s.lastStill = frame
}

func (s *recordSink) ShowFrame(frame image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
}

func (s *recordSink) counts() (stills, frames int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stills, s.frames
}

func testOptions() playback.Options {
	return playback.Options{
		Dwell:         time.Millisecond,
		FrameInterval: time.Millisecond,
		TickBudget:    3,
		CanvasSize:    32,
	}
}

func sourceStill() image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 40, 30))
}

func waitFor(t *testing.T, what string, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestShortHoverNeverStartsPlayback(t *testing.T) {
	opener := &fakeOpener{frames: 10}
	sink := &recordSink{}
	opts := testOptions()
	opts.Dwell = 100 * time.Millisecond

	session := playback.NewSession(sourceStill(), "clip.mov", opener.open, sink, opts, logging.NewNop())
	session.Arm()
	session.Disarm()

	time.Sleep(250 * time.Millisecond)
	if got := session.State(); got != playback.StateIdle {
		t.Fatalf("state = %v, want idle", got)
	}
	if opener.opens() != 0 {
		t.Fatalf("opener called %d times, want 0", opener.opens())
	}
	if _, frames := sink.counts(); frames != 0 {
		t.Fatalf("emitted %d frames, want 0", frames)
	}
}

func TestDwellElapsedPlaysUntilBudget(t *testing.T) {
	opener := &fakeOpener{frames: 100}
	sink := &recordSink{}

	session := playback.NewSession(sourceStill(), "clip.mov", opener.open, sink, testOptions(), logging.NewNop())
	session.Arm()

	waitFor(t, "playback to finish its budget", func() bool {
		_, frames := sink.counts()
		return frames >= 3 && session.State() == playback.StateIdle
	})

	if opener.opens() != 1 || opener.closes() != 1 {
		t.Fatalf("opens=%d closes=%d, want exactly one of each", opener.opens(), opener.closes())
	}
	if _, frames := sink.counts(); frames != 3 {
		t.Fatalf("emitted %d frames, want the budget of 3", frames)
	}
	stills, _ := sink.counts()
	if stills < 2 {
		t.Fatalf("still shown %d times, want initial plus return to idle", stills)
	}
}

func TestRepeatedCyclesCloseDecoderExactlyOncePerBurst(t *testing.T) {
	opener := &fakeOpener{frames: 100}
	sink := &recordSink{}

	session := playback.NewSession(sourceStill(), "clip.mov", opener.open, sink, testOptions(), logging.NewNop())
	const cycles = 5
	for cycle := 1; cycle <= cycles; cycle++ {
		session.Arm()
		want := cycle
		waitFor(t, "burst to complete", func() bool {
			return opener.closes() == want && session.State() == playback.StateIdle
		})
		if opener.opens() != cycle {
			t.Fatalf("cycle %d: opens = %d", cycle, opener.opens())
		}
	}
	if opener.closes() != cycles {
		t.Fatalf("closes = %d, want %d", opener.closes(), cycles)
	}
}

func TestClipLoopsWithinBudget(t *testing.T) {
	opener := &fakeOpener{frames: 2}
	sink := &recordSink{}

	session := playback.NewSession(sourceStill(), "clip.mov", opener.open, sink, testOptions(), logging.NewNop())
	session.Arm()
	waitFor(t, "looped playback to finish", func() bool {
		_, frames := sink.counts()
		return frames == 3 && session.State() == playback.StateIdle
	})

	opener.mu.Lock()
	resets := opener.decoders[0].resets
	opener.mu.Unlock()
	if resets == 0 {
		t.Fatalf("decoder never reset; a 2-frame clip cannot fill a 3-tick budget without looping")
	}
}

func TestStopIsIdempotentAndSynchronous(t *testing.T) {
	opener := &fakeOpener{frames: 100}
	sink := &recordSink{}
	opts := testOptions()
	opts.TickBudget = 1000

	session := playback.NewSession(sourceStill(), "clip.mov", opener.open, sink, opts, logging.NewNop())
	session.Arm()
	waitFor(t, "playback to start", func() bool {
		return session.State() == playback.StatePlaying
	})

	session.Stop()
	if got := session.State(); got != playback.StateIdle {
		t.Fatalf("state after Stop = %v, want idle", got)
	}
	if opener.closes() != 1 {
		t.Fatalf("closes = %d immediately after Stop, want 1", opener.closes())
	}
	session.Stop()
	session.Disarm()
	if opener.closes() != 1 {
		t.Fatalf("closes = %d after repeated stops, want still 1", opener.closes())
	}
}

func TestOpenFailureFallsBackToStillPermanently(t *testing.T) {
	opener := &fakeOpener{fail: true}
	sink := &recordSink{}

	session := playback.NewSession(sourceStill(), "clip.mov", opener.open, sink, testOptions(), logging.NewNop())
	session.Arm()
	waitFor(t, "fallback to idle", func() bool {
		return session.State() == playback.StateIdle
	})

	// Arming again must not retry the broken decoder.
	session.Arm()
	time.Sleep(50 * time.Millisecond)
	if got := session.State(); got != playback.StateIdle {
		t.Fatalf("state = %v, want idle after fallback", got)
	}
	if _, frames := sink.counts(); frames != 0 {
		t.Fatalf("emitted %d frames, want 0", frames)
	}
}

func TestDecodeErrorFallsBackAndReleasesDecoder(t *testing.T) {
	opener := &fakeOpener{frames: 100, failAfter: 1}
	sink := &recordSink{}

	session := playback.NewSession(sourceStill(), "clip.mov", opener.open, sink, testOptions(), logging.NewNop())
	session.Arm()
	waitFor(t, "decode failure to settle", func() bool {
		return opener.closes() == 1 && session.State() == playback.StateIdle
	})

	session.Arm()
	time.Sleep(50 * time.Millisecond)
	if opener.opens() != 1 {
		t.Fatalf("opens = %d, want no retry after decode failure", opener.opens())
	}
}

func TestStillOnlySessionNeverArms(t *testing.T) {
	opener := &fakeOpener{frames: 100}
	sink := &recordSink{}

	session := playback.NewSession(sourceStill(), "", opener.open, sink, testOptions(), logging.NewNop())
	session.Arm()
	time.Sleep(50 * time.Millisecond)

	if got := session.State(); got != playback.StateIdle {
		t.Fatalf("state = %v, want idle", got)
	}
	if opener.opens() != 0 {
		t.Fatalf("opener called %d times for a still-only session", opener.opens())
	}

	sink.mu.Lock()
	still := sink.lastStill
	sink.mu.Unlock()
	if still == nil {
		t.Fatalf("initial still never shown")
	}
	bounds := still.Bounds()
	if bounds.Dx() != 32 || bounds.Dy() != 32 {
		t.Fatalf("still canvas = %dx%d, want 32x32", bounds.Dx(), bounds.Dy())
	}
}

func TestReleaseRetiresSession(t *testing.T) {
	opener := &fakeOpener{frames: 100}
	sink := &recordSink{}
	opts := testOptions()
	opts.TickBudget = 1000

	session := playback.NewSession(sourceStill(), "clip.mov", opener.open, sink, opts, logging.NewNop())
	session.Arm()
	waitFor(t, "playback to start", func() bool {
		return session.State() == playback.StatePlaying
	})

	session.Release()
	session.Release()
	if opener.closes() != 1 {
		t.Fatalf("closes = %d after Release, want 1", opener.closes())
	}

	session.Arm()
	time.Sleep(50 * time.Millisecond)
	if opener.opens() != 1 {
		t.Fatalf("released session armed again: opens = %d", opener.opens())
	}
}

func TestOnMotionReadyFiresOncePerSession(t *testing.T) {
	opener := &fakeOpener{frames: 100}
	sink := &recordSink{}
	opts := testOptions()

	var mu sync.Mutex
	calls := 0
	opts.OnMotionReady = func(path string) {
		mu.Lock()
		calls++
		mu.Unlock()
	}

	session := playback.NewSession(sourceStill(), "clip.mov", opener.open, sink, opts, logging.NewNop())
	for cycle := 1; cycle <= 3; cycle++ {
		session.Arm()
		want := cycle
		waitFor(t, "burst to complete", func() bool {
			return opener.closes() == want && session.State() == playback.StateIdle
		})
	}

	waitFor(t, "motion-ready callback", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	})
}
