package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource replays one scripted step per loop iteration, then reports a redraw,
// the way the window delivers events before asking for the next frame.
type fakeSource struct {
	width, height int

	onRedraw func()
	onResize func(width, height int)
	onClose  func()

	script   []func(s *fakeSource)
	running  bool
	maxIter  int
	closes   int
	requests int
	log      *[]string
}

func newFakeSource(width, height int, log *[]string, script ...func(s *fakeSource)) *fakeSource {
	return &fakeSource{width: width, height: height, script: script, maxIter: 100, log: log}
}

func (s *fakeSource) SetRedrawCallback(cb func()) { s.onRedraw = cb }
func (s *fakeSource) SetResizeCallback(cb func(width, height int)) { s.onResize = cb }
func (s *fakeSource) SetCloseCallback(cb func()) { s.onClose = cb }
func (s *fakeSource) Width() int { return s.width }
func (s *fakeSource) Height() int { return s.height }

func (s *fakeSource) ProcessMessages() {
	s.running = true
	for i := 0; s.running && i < s.maxIter; i++ {
		if i < len(s.script) {
			s.script[i](s)
			if !s.running {
				break
			}
		}
		if s.onRedraw != nil {
			s.onRedraw()
		}
	}
}

func (s *fakeSource) RequestClose() {
	s.requests++
	s.running = false
}

func (s *fakeSource) Close() error {
	s.closes++
	*s.log = append(*s.log, "window")
	return nil
}

func resize(width, height int) func(s *fakeSource) {
	return func(s *fakeSource) {
		s.width, s.height = width, height
		s.onResize(width, height)
	}
}

func closeRequest(s *fakeSource) { s.onClose() }

func noop(*fakeSource) {}

type frameRecord struct {
	width, height int
}

func TestRunRendersWithCachedSize(t *testing.T) {
	var events []string
	src := newFakeSource(800, 600, &events, noop, resize(1600, 600), noop, closeRequest)

	var frames []frameRecord
	e := NewEngine(WithEventSource(src), WithFrameFunc(func(width, height int) error {
		frames = append(frames, frameRecord{width, height})
		return nil
	}))

	require.NoError(t, e.Run())

	assert.Equal(t, []frameRecord{{800, 600}, {1600, 600}, {1600, 600}}, frames)
	assert.Equal(t, StateClosing, e.State())
	w, h := e.Size()
	assert.Equal(t, 1600, w)
	assert.Equal(t, 600, h)
}

func TestCloseRequestStopsFramesAndTearsDownInOrder(t *testing.T) {
	var events []string
	src := newFakeSource(800, 600, &events, noop, closeRequest, closeRequest)

	frames := 0
	e := NewEngine(
		WithEventSource(src),
		WithFrameFunc(func(int, int) error { frames++; return nil }),
		WithReleaser("pipeline", func() error { events = append(events, "pipeline"); return nil }),
	)
	e.AddReleaser("buffers", func() error { events = append(events, "buffers"); return nil })
	e.AddReleaser("audio", func() error { events = append(events, "audio"); return errors.New("already closed") })

	require.NoError(t, e.Run())

	assert.Equal(t, 1, frames)
	assert.Equal(t, []string{"audio", "buffers", "pipeline", "window"}, events)
	assert.Equal(t, 1, src.requests)
	assert.Equal(t, 1, src.closes)
}

func TestQuitIsIdempotent(t *testing.T) {
	var events []string
	src := newFakeSource(800, 600, &events, closeRequest)
	released := 0
	e := NewEngine(WithEventSource(src), WithReleaser("device", func() error { released++; return nil }))

	require.NoError(t, e.Run())
	assert.NotPanics(t, func() {
		e.Quit()
		e.Quit()
		src.onClose()
	})
	assert.Equal(t, 1, released)
	assert.Equal(t, 1, src.requests)
	assert.Equal(t, 1, src.closes)
}

func TestFrameErrorEndsLoop(t *testing.T) {
	var events []string
	src := newFakeSource(800, 600, &events)
	boom := errors.New("surface lost")

	calls := 0
	e := NewEngine(WithEventSource(src), WithFrameFunc(func(int, int) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	}))

	err := e.Run()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
	assert.Equal(t, StateClosing, e.State())
	assert.Equal(t, []string{"window"}, events)
}

func TestSourceStoppingOnItsOwnStillTearsDown(t *testing.T) {
	var events []string
	src := newFakeSource(800, 600, &events)
	src.maxIter = 2
	e := NewEngine(WithEventSource(src), WithReleaser("renderer", func() error {
		events = append(events, "renderer")
		return nil
	}))

	require.NoError(t, e.Run())
	assert.Equal(t, StateClosing, e.State())
	assert.Equal(t, []string{"renderer", "window"}, events)
}

func TestRedrawBeforeRunIsIgnored(t *testing.T) {
	var events []string
	src := newFakeSource(800, 600, &events)
	frames := 0
	e := NewEngine(WithEventSource(src), WithFrameFunc(func(int, int) error { frames++; return nil }))

	src.onRedraw()
	assert.Equal(t, 0, frames)
	assert.Equal(t, StateIdle, e.State())
}

func TestRunPreconditions(t *testing.T) {
	assert.ErrorIs(t, NewEngine().Run(), ErrNoEventSource)

	var events []string
	e := NewEngine(WithEventSource(newFakeSource(1, 1, &events, closeRequest)))
	require.NoError(t, e.Run())
	assert.ErrorIs(t, e.Run(), ErrAlreadyRun)
}

func TestFrameDuration(t *testing.T) {
	assert.Zero(t, frameDuration(0))
	assert.Zero(t, frameDuration(-5))
	assert.InDelta(t, 16_666_666, int64(frameDuration(60)), 1)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "State(7)", State(7).String())
}
