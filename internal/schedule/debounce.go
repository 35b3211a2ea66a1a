// Package schedule coalesces bursts of buffer-change notifications into at
// most one re-scan per buffer per debounce window.
package schedule

import (
	"sync"
	"time"
)

// TimerService abstracts the host timer so the debounce policy is testable
// without real timers.
type TimerService interface {
	// AfterFunc arranges for fn to run once after the delay elapses.
	AfterFunc(d time.Duration, fn func())
}

// systemTimers schedules through the runtime timer facility.
type systemTimers struct{}

func (systemTimers) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// SystemTimers returns a TimerService backed by time.AfterFunc.
func SystemTimers() TimerService {
	return systemTimers{}
}

// Debouncer tracks one pending-scan flag per buffer. While a scan is
// pending, further requests for that buffer ride the same pending scan:
// the timer is not reset and no queue forms.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  TimerService
	run     func(id string)
	pending map[string]bool
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithTimers substitutes the timer service, typically with a fake in tests.
func WithTimers(ts TimerService) Option {
	return func(d *Debouncer) {
		d.timers = ts
	}
}

// NewDebouncer creates a debouncer that invokes run for each buffer due
// for a scan. A zero or negative delay makes Request run synchronously.
func NewDebouncer(delay time.Duration, run func(id string), opts ...Option) *Debouncer {
	d := &Debouncer{
		delay:   delay,
		timers:  SystemTimers(),
		run:     run,
		pending: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Request marks the buffer for a re-scan. If a scan is already pending the
// call is a no-op. When the timer fires the pending flag is cleared before
// the scan runs, so a change arriving mid-scan schedules a fresh follow-up.
func (d *Debouncer) Request(id string) {
	d.mu.Lock()
	delay := d.delay
	if delay <= 0 {
		d.mu.Unlock()
		d.run(id)
		return
	}
	if d.pending[id] {
		d.mu.Unlock()
		return
	}
	d.pending[id] = true
	d.mu.Unlock()

	d.timers.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.pending, id)
		d.mu.Unlock()
		d.run(id)
	})
}

// Pending reports whether a scan is currently pending for the buffer.
func (d *Debouncer) Pending(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending[id]
}

// Forget drops the pending flag for a closed buffer. Any timer already
// scheduled still fires; its scan simply re-runs against current state.
func (d *Debouncer) Forget(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, id)
}

// SetDelay updates the debounce window for subsequent requests.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// Delay returns the current debounce window.
func (d *Debouncer) Delay() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.delay
}
