package emit

import (
	"context"
	"errors"
	"sync"

	"github.com/willbeason/mandelscan/pkg/decimal"
	"github.com/willbeason/mandelscan/pkg/mandel"
	"github.com/willbeason/mandelscan/pkg/scan"
)

// ErrSessionClosed is returned when a closed Session is asked to rescan.
var ErrSessionClosed = errors.New("session closed")

// run is one scan generation within a Session. report and err are written
// before done is closed.
type run struct {
	id     uint64
	window mandel.Window
	cancel context.CancelFunc
	done   chan struct{}
	report mandel.Report
	err    error
}

// Session runs one scan at a time for an interactive viewer. Moving the
// window cancels the scan in progress and waits for it before the next one
// begins, so a renderer never sees batches of two scans interleaved.
type Session struct {
	emitter *Emitter
	parent  context.Context
	grid    mandel.Grid
	cfg     mandel.Config

	mu      sync.Mutex
	current *run
	closed  bool
}

// Start begins a Session with a scan of w. The Session ends when ctx is
// done or Close is called.
func (e *Emitter) Start(ctx context.Context, w mandel.Window, g mandel.Grid, cfg mandel.Config) (*Session, error) {
	s := &Session{
		emitter: e,
		parent:  ctx,
		grid:    g,
		cfg:     cfg,
	}
	if err := s.Rewindow(w); err != nil {
		return nil, err
	}
	return s, nil
}

// Rewindow stops the running scan and starts scanning w under a new
// generation. An invalid window leaves the running scan untouched.
func (s *Session) Rewindow(w mandel.Window) error {
	p, err := scan.NewPlan(w, s.grid, s.cfg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.stopLocked()

	ctx, cancel := context.WithCancel(s.parent)
	r := &run{
		id:     s.emitter.scans.Add(1),
		window: w,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.current = r

	go func() {
		defer close(r.done)
		defer cancel()
		r.report, r.err = s.emitter.run(ctx, p, r.id)
	}()
	return nil
}

// Zoom rescans the current window scaled by factor about its center.
// Factors below one zoom in.
func (s *Session) Zoom(factor decimal.Decimal) error {
	w, err := s.Window().Zoom(s.cfg.Context(), factor)
	if err != nil {
		return err
	}
	return s.Rewindow(w)
}

// Recenter rescans a window of the current size centered on c.
func (s *Session) Recenter(c decimal.Complex) error {
	w, err := s.Window().Recenter(s.cfg.Context(), c)
	if err != nil {
		return err
	}
	return s.Rewindow(w)
}

// stopLocked cancels the current scan and waits for it. s.mu must be held.
func (s *Session) stopLocked() {
	if s.current == nil {
		return
	}
	s.current.cancel()
	<-s.current.done
}

// Window returns the window of the current scan.
func (s *Session) Window() mandel.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return mandel.Window{}
	}
	return s.current.window
}

// Generation returns the scan generation of the current scan.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	return s.current.id
}

// Wait blocks until the current scan finishes and returns its report. A
// scan replaced by Rewindow reports context.Canceled.
func (s *Session) Wait() (mandel.Report, error) {
	s.mu.Lock()
	r := s.current
	s.mu.Unlock()

	if r == nil {
		return mandel.Report{}, nil
	}
	<-r.done
	return r.report, r.err
}

// Close cancels the current scan and waits for it to stop.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopLocked()
}
