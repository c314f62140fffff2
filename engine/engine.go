package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/spinner/engine/profiler"
	"github.com/rs/zerolog/log"
)

// ErrNoEventSource is returned by Run when the engine was built without a window.
var ErrNoEventSource = errors.New("engine has no event source")

// ErrAlreadyRun is returned by Run on an engine that has already started.
var ErrAlreadyRun = errors.New("engine already run")

// State is the lifecycle phase of the render loop.
type State int32

const (
	// StateIdle is the phase before Run.
	StateIdle State = iota

	// StateRunning renders a frame every time the event source reports a redraw is due.
	StateRunning

	// StateClosing is entered on the first close request and is terminal.
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// EventSource is the window contract the loop is driven by.
// All callbacks are invoked on the goroutine that called ProcessMessages.
type EventSource interface {
	SetRedrawCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	SetCloseCallback(callback func())

	// ProcessMessages blocks, dispatching events, until RequestClose.
	ProcessMessages()

	// RequestClose makes ProcessMessages return after the current iteration.
	RequestClose()

	// Close destroys the underlying window.
	Close() error

	Width() int
	Height() int
}

// FrameFunc renders one frame onto a framebuffer of the given pixel size.
// A returned error ends the loop.
type FrameFunc func(width, height int) error

type releaser struct {
	name    string
	release func() error
}

// engine implements the Engine interface.
// The loop is single threaded: every callback runs on the thread that called Run.
type engine struct {
	source EventSource
	frame  FrameFunc

	state atomic.Int32

	width  int
	height int

	quitOnce    sync.Once
	releaseOnce sync.Once
	releasers   []releaser

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	frameErr error
}

// Engine drives the render loop: it owns the window's event loop, renders a frame whenever one
// is due, tracks the framebuffer size and tears down registered resources on exit.
type Engine interface {
	// Run enters the event loop on the calling goroutine and blocks until the loop ends.
	// After the loop exits, registered releasers run in reverse registration order and the
	// event source is closed.
	//
	// Returns:
	//   - error: the frame error that ended the loop, ErrNoEventSource, ErrAlreadyRun, or nil
	Run() error

	// Quit requests the loop to stop. Safe to call multiple times and from any callback;
	// subsequent calls are no-ops.
	Quit()

	// State returns the current lifecycle phase.
	//
	// Returns:
	//   - State: idle, running or closing
	State() State

	// Size returns the cached framebuffer size, updated by resize events.
	//
	// Returns:
	//   - width, height: framebuffer size in pixels
	Size() (width, height int)

	// SetFrameFunc registers the function called each time a frame is due.
	//
	// Parameters:
	//   - frame: the per-frame render function
	SetFrameFunc(frame FrameFunc)

	// AddReleaser registers a teardown step. Steps run once, after the loop exits, last-added first.
	//
	// Parameters:
	//   - name: label used when logging a failed release
	//   - release: the teardown function
	AddReleaser(name string, release func() error)

	// EnableProfiler enables per-second frame statistics in the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)
}

var _ Engine = &engine{}

// NewEngine creates a new Engine in StateIdle. When an event source is supplied its redraw, resize
// and close callbacks are bound to the engine and the initial framebuffer size is read from it.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler: profiler.NewProfiler(time.Second),
	}
	e.state.Store(int32(StateIdle))

	for _, opt := range options {
		opt(e)
	}

	if e.source != nil {
		e.width, e.height = e.source.Width(), e.source.Height()
		e.source.SetRedrawCallback(e.handleRedraw)
		e.source.SetResizeCallback(e.handleResize)
		e.source.SetCloseCallback(e.Quit)
	}

	return e
}

func (e *engine) Run() error {
	if e.source == nil {
		return ErrNoEventSource
	}
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyRun
	}
	log.Info().Int("width", e.width).Int("height", e.height).Msg("render loop started")

	e.source.ProcessMessages()

	// The loop may also end because the source stopped on its own.
	e.state.Store(int32(StateClosing))
	e.teardown()

	log.Info().Msg("render loop stopped")
	return e.frameErr
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.state.Store(int32(StateClosing))
		if e.source != nil {
			e.source.RequestClose()
		}
	})
}

func (e *engine) State() State {
	return State(e.state.Load())
}

func (e *engine) Size() (width, height int) {
	return e.width, e.height
}

func (e *engine) SetFrameFunc(frame FrameFunc) {
	e.frame = frame
}

func (e *engine) AddReleaser(name string, release func() error) {
	e.releasers = append(e.releasers, releaser{name: name, release: release})
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

// handleRedraw renders one frame if the loop is running.
// A frame error is logged and ends the loop.
func (e *engine) handleRedraw() {
	if e.State() != StateRunning || e.frame == nil {
		return
	}

	start := time.Now()
	if err := e.frame(e.width, e.height); err != nil {
		log.Error().Err(err).Int("width", e.width).Int("height", e.height).Msg("frame failed")
		if e.frameErr == nil {
			e.frameErr = err
		}
		e.Quit()
		return
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// handleResize caches the new framebuffer size; the next frame picks it up.
func (e *engine) handleResize(width, height int) {
	e.width = width
	e.height = height
}

// teardown runs the releasers in reverse order, then closes the event source. Runs at most once.
func (e *engine) teardown() {
	e.releaseOnce.Do(func() {
		for i := len(e.releasers) - 1; i >= 0; i-- {
			r := e.releasers[i]
			if err := r.release(); err != nil {
				log.Warn().Err(err).Str("resource", r.name).Msg("release failed")
			}
		}
		e.releasers = nil

		if err := e.source.Close(); err != nil {
			log.Warn().Err(err).Msg("window close failed")
		}
	})
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
