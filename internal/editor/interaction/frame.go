package interaction

import (
	"log/slog"
	"sync"
	"time"

	"focuspoint-editor/internal/editor/models"
)

// DefaultSettleDelay gives the canvas time to lay out before its size is read.
const DefaultSettleDelay = 300 * time.Millisecond

// ============================================================
// Canvas frame
// ============================================================

// FrameTracker holds the live canvas frame. Observed sizes are applied after a
// settle delay; a newer observation replaces a pending one.
type FrameTracker struct {
	mu        sync.Mutex
	logger    *slog.Logger
	delay     time.Duration
	current   models.Frame
	timer     *time.Timer
	gen       uint64
	stopped   bool
	listeners []func(models.Frame)
}

func NewFrameTracker(delay time.Duration, logger *slog.Logger) *FrameTracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if delay < 0 {
		delay = 0
	}
	return &FrameTracker{logger: logger, delay: delay}
}

// Observe schedules f to become the current frame.
func (t *FrameTracker) Observe(f models.Frame) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.gen++
	gen := t.gen
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.delay == 0 {
		t.mu.Unlock()
		t.apply(gen, f)
		return
	}
	t.timer = time.AfterFunc(t.delay, func() { t.apply(gen, f) })
	t.mu.Unlock()
}

// Current returns the applied frame; the zero frame until the first one settles.
func (t *FrameTracker) Current() models.Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// OnChange registers a listener for applied frame changes.
func (t *FrameTracker) OnChange(fn func(models.Frame)) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// Stop cancels a pending observation. Later observations are ignored.
func (t *FrameTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *FrameTracker) apply(gen uint64, f models.Frame) {
	t.mu.Lock()
	if gen != t.gen || t.stopped || f == t.current {
		t.mu.Unlock()
		return
	}
	t.current = f
	t.timer = nil
	ls := append([]func(models.Frame){}, t.listeners...)
	t.mu.Unlock()

	t.logger.Debug("canvas frame applied", "width", f.Width, "height", f.Height)
	for _, fn := range ls {
		fn(f)
	}
}
