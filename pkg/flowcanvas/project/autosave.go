package project

import (
	"sync"
	"time"
)

// DefaultAutosaveDelay is the trailing debounce window for persistence
// writes.
const DefaultAutosaveDelay = 500 * time.Millisecond

// Autosaver coalesces persistence writes behind a trailing debounce
// window so the store isn't hammered while the user drags or types.
// The in-memory graph is always updated synchronously; only the side
// channel to durable storage is deferred.
//
// Each MarkDirty cancels and reschedules the pending flush. Close
// flushes once more if dirty, so shutdown loses nothing.
type Autosaver struct {
	mu     sync.Mutex
	flush  func() error
	delay  time.Duration
	timer  *time.Timer
	dirty  bool
	closed bool
}

// NewAutosaver creates an autosaver that invokes flush after the
// debounce delay. A non-positive delay falls back to the default.
func NewAutosaver(flush func() error, delay time.Duration) *Autosaver {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosaver{flush: flush, delay: delay}
}

// MarkDirty notes a mutation and (re)schedules the flush.
func (a *Autosaver) MarkDirty() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.dirty = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	if a.closed || !a.dirty {
		a.mu.Unlock()
		return
	}
	a.dirty = false
	a.mu.Unlock()

	// Flush outside the lock; MarkDirty during a flush re-marks and
	// reschedules rather than blocking.
	_ = a.flush()
}

// Flush forces an immediate write if anything is dirty.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	if a.closed || !a.dirty {
		a.mu.Unlock()
		return nil
	}
	a.dirty = false
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	return a.flush()
}

// Close stops the timer and performs a final flush if dirty.
func (a *Autosaver) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	wasDirty := a.dirty
	a.closed = true
	a.dirty = false
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if wasDirty {
		return a.flush()
	}
	return nil
}
