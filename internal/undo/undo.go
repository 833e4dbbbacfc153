// Package undo tracks the short grace period after logging an event during
// which the user may take it back.
package undo

import "time"

// DefaultWindow is the grace period used when none is configured.
const DefaultWindow = 10 * time.Second

// Window holds at most one pending event id. It only keeps state; deleting
// the event is up to the caller. The zero value is unusable, use New.
type Window struct {
	length   time.Duration
	id       int64
	deadline time.Time
	armed    bool
}

// New returns a Window with the given grace period. Non-positive lengths
// fall back to DefaultWindow.
func New(length time.Duration) *Window {
	if length <= 0 {
		length = DefaultWindow
	}
	return &Window{length: length}
}

// Length returns the configured grace period.
func (w *Window) Length() time.Duration {
	return w.length
}

// Arm makes id the pending event, replacing any earlier one.
func (w *Window) Arm(id int64, now time.Time) {
	w.id = id
	w.deadline = now.Add(w.length)
	w.armed = true
}

// Pending returns the pending id if the window is still open at now.
func (w *Window) Pending(now time.Time) (int64, bool) {
	if !w.armed {
		return 0, false
	}
	if !now.Before(w.deadline) {
		w.Clear()
		return 0, false
	}
	return w.id, true
}

// Remaining is the time left before the pending id expires, or zero.
func (w *Window) Remaining(now time.Time) time.Duration {
	if _, ok := w.Pending(now); !ok {
		return 0
	}
	return w.deadline.Sub(now)
}

// RemainingSeconds rounds Remaining up to whole seconds for display.
func (w *Window) RemainingSeconds(now time.Time) int {
	r := w.Remaining(now)
	return int((r + time.Second - 1) / time.Second)
}

// Take returns the pending id and closes the window. An id can be taken
// at most once.
func (w *Window) Take(now time.Time) (int64, bool) {
	id, ok := w.Pending(now)
	if ok {
		w.Clear()
	}
	return id, ok
}

// Clear discards the pending id.
func (w *Window) Clear() {
	w.id = 0
	w.deadline = time.Time{}
	w.armed = false
}
