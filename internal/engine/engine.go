// Package engine coordinates the scanning pipeline: it owns the pattern
// registry, per-buffer scan state, the debounced re-scan scheduler, and the
// overlay reconciler, and exposes the operator-facing operations.
package engine

import (
	"errors"
	"sync"

	"github.com/dshills/glyphstorm/internal/config"
	"github.com/dshills/glyphstorm/internal/event"
	"github.com/dshills/glyphstorm/internal/host"
	"github.com/dshills/glyphstorm/internal/logging"
	"github.com/dshills/glyphstorm/internal/overlay"
	"github.com/dshills/glyphstorm/internal/pattern"
	"github.com/dshills/glyphstorm/internal/scan"
	"github.com/dshills/glyphstorm/internal/schedule"
	"github.com/dshills/glyphstorm/internal/unidata"
)

// Errors returned by the engine.
var (
	// ErrNoClassificationData is returned at initialization when the data
	// source is missing or empty. The engine refuses to run rather than
	// silently report "no issues found".
	ErrNoClassificationData = errors.New("engine: classification data source is missing or empty")
)

// Summary aggregates a buffer's findings by kind.
type Summary struct {
	Invisible int
	Ambiguous int
}

// Total returns the total number of findings.
func (s Summary) Total() int {
	return s.Invisible + s.Ambiguous
}

// bufferState is the engine's per-buffer bookkeeping: the most recent scan
// results, ready for collection without recomputation.
type bufferState struct {
	matches []scan.Match
	diags   []overlay.Diagnostic
	summary Summary
}

// Engine drives scanning for a single host.
type Engine struct {
	mu   sync.RWMutex
	host host.Host
	cfg  config.Config
	data *unidata.Set
	reg  *pattern.Registry

	rec *overlay.Reconciler
	deb *schedule.Debouncer
	log *logging.Logger

	buffers     map[string]*bufferState
	enabled     bool
	virtualText bool

	subs []event.Subscription
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithNamespace overrides the display namespace.
func WithNamespace(ns string) Option {
	return func(e *Engine) {
		e.rec = overlay.NewReconciler(e.host, ns)
	}
}

// timersOption carries a timer service into the debouncer.
type timersOption struct {
	ts schedule.TimerService
}

// WithTimers substitutes the scheduler's timer service, typically with a
// fake in tests.
func WithTimers(ts schedule.TimerService) Option {
	return func(e *Engine) {
		e.deb = schedule.NewDebouncer(e.cfg.Debounce(), e.scanBuffer, schedule.WithTimers(ts))
	}
}

// New creates an engine over a host. The classification data must be
// non-empty; a missing source is fatal here so auto-enable can never run a
// non-functional engine.
func New(h host.Host, cfg config.Config, data *unidata.Set, opts ...Option) (*Engine, error) {
	if data == nil || data.Len() == 0 {
		return nil, ErrNoClassificationData
	}

	e := &Engine{
		host:        h,
		cfg:         cfg,
		data:        data,
		buffers:     make(map[string]*bufferState),
		enabled:     cfg.AutoEnable,
		virtualText: cfg.VirtualText,
		log:         logging.New(logging.Config{Level: logging.ParseLevel(cfg.LogLevel)}),
	}
	e.rec = overlay.NewReconciler(h, overlay.Namespace)
	e.deb = schedule.NewDebouncer(cfg.Debounce(), e.scanBuffer)
	e.reg = e.buildRegistry(cfg)

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// buildRegistry compiles a fresh registry from the data set and the
// config's enabled kinds. The old registry stays live until the new one is
// swapped in.
func (e *Engine) buildRegistry(cfg config.Config) *pattern.Registry {
	return pattern.Build(e.data.Records(), pattern.Options{
		Ambiguous:      cfg.HighlightAmbiguous,
		Invisible:      cfg.HighlightInvisible,
		AmbiguousStyle: cfg.AmbiguousStyle,
		InvisibleStyle: cfg.InvisibleStyle,
	})
}

// Enabled reports whether scanning is enabled.
func (e *Engine) Enabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.enabled
}

// Enable rebuilds the registry from the current configuration, turns
// scanning on, and immediately scans the given buffer.
func (e *Engine) Enable(bufferID string) error {
	e.mu.Lock()
	e.reg = e.buildRegistry(e.cfg)
	e.enabled = true
	e.mu.Unlock()

	return e.Scan(bufferID)
}

// Disable turns scanning off and synchronously clears the buffer's marks
// and diagnostics. The registry is left intact for a later Enable. A
// pending debounced scan may still fire; it is harmless, since the next
// scan reapplies current results.
func (e *Engine) Disable(bufferID string) error {
	e.mu.Lock()
	e.enabled = false
	delete(e.buffers, bufferID)
	e.mu.Unlock()

	e.deb.Forget(bufferID)
	return e.rec.Clear(bufferID)
}

// Toggle flips whether a classification kind is enabled, rebuilds the
// registry, and then either rescans the buffer or clears it if nothing is
// left enabled.
func (e *Engine) Toggle(kind unidata.Kind, bufferID string) error {
	e.mu.Lock()
	switch kind {
	case unidata.KindAmbiguous:
		e.cfg.HighlightAmbiguous = !e.cfg.HighlightAmbiguous
	case unidata.KindInvisible:
		e.cfg.HighlightInvisible = !e.cfg.HighlightInvisible
	}
	e.reg = e.buildRegistry(e.cfg)
	empty := e.reg.Empty()
	if empty {
		delete(e.buffers, bufferID)
	}
	e.mu.Unlock()

	if empty {
		return e.rec.Clear(bufferID)
	}
	return e.Scan(bufferID)
}

// ToggleVirtualText flips virtual-text display and reapplies the buffer's
// stored results. No rescan and no registry rebuild happen.
func (e *Engine) ToggleVirtualText(bufferID string) error {
	e.mu.Lock()
	e.virtualText = !e.virtualText
	opts := e.overlayOptions()
	state, ok := e.buffers[bufferID]
	var matches []scan.Match
	if ok {
		matches = state.matches
	}
	e.mu.Unlock()

	if !ok {
		return nil
	}
	_, err := e.rec.Apply(bufferID, matches, opts)
	return err
}

// VirtualText reports whether virtual-text display is enabled.
func (e *Engine) VirtualText() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.virtualText
}

// Request schedules a debounced re-scan of the buffer. Bursts of calls
// within one debounce window coalesce into a single scan.
func (e *Engine) Request(bufferID string) {
	e.deb.Request(bufferID)
}

// Scan runs a scan-and-apply for the buffer immediately.
func (e *Engine) Scan(bufferID string) error {
	e.mu.RLock()
	enabled := e.enabled
	reg := e.reg
	cfg := e.cfg
	opts := e.overlayOptions()
	e.mu.RUnlock()

	if !enabled {
		return nil
	}

	// Both kinds disabled: clear and return without scanning.
	if reg.Empty() {
		e.mu.Lock()
		delete(e.buffers, bufferID)
		e.mu.Unlock()
		return e.rec.Clear(bufferID)
	}

	if ft := e.host.Filetype(bufferID); !cfg.AdmitsFiletype(ft) {
		return nil
	}

	lines, err := e.host.Lines(bufferID)
	if err != nil {
		return err
	}

	matches := scan.New(reg).ScanLines(lines)
	diags, err := e.rec.Apply(bufferID, matches, opts)
	if err != nil {
		return err
	}

	summary := Summary{}
	for _, m := range matches {
		switch m.Kind {
		case unidata.KindInvisible:
			summary.Invisible++
		case unidata.KindAmbiguous:
			summary.Ambiguous++
		}
	}

	e.mu.Lock()
	e.buffers[bufferID] = &bufferState{
		matches: matches,
		diags:   diags,
		summary: summary,
	}
	e.mu.Unlock()

	return nil
}

// Collect returns the buffer's latest diagnostics as a flat, navigable
// list. Results come from the last scan; nothing is recomputed.
func (e *Engine) Collect(bufferID string) []overlay.Diagnostic {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, ok := e.buffers[bufferID]
	if !ok {
		return nil
	}
	return append([]overlay.Diagnostic(nil), state.diags...)
}

// Matches returns the raw matches from the buffer's last scan.
func (e *Engine) Matches(bufferID string) []scan.Match {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, ok := e.buffers[bufferID]
	if !ok {
		return nil
	}
	return append([]scan.Match(nil), state.matches...)
}

// SummaryFor returns the buffer's finding counts from the last scan.
func (e *Engine) SummaryFor(bufferID string) (Summary, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, ok := e.buffers[bufferID]
	if !ok {
		return Summary{}, false
	}
	return state.summary, true
}

// Forget drops all per-buffer state, typically on buffer close.
func (e *Engine) Forget(bufferID string) {
	e.mu.Lock()
	delete(e.buffers, bufferID)
	e.mu.Unlock()
	e.deb.Forget(bufferID)
}

// Reconfigure swaps in a new configuration, rebuilds the registry, and
// updates the debounce window. Open buffers are rescanned on their next
// request; callers wanting an immediate refresh call Scan.
func (e *Engine) Reconfigure(cfg config.Config) {
	e.mu.Lock()
	e.cfg = cfg
	e.virtualText = cfg.VirtualText
	e.reg = e.buildRegistry(cfg)
	e.mu.Unlock()

	e.deb.SetDelay(cfg.Debounce())
	e.log.SetLevel(logging.ParseLevel(cfg.LogLevel))
}

// Config returns the engine's current configuration snapshot.
func (e *Engine) Config() config.Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// overlayOptions builds display options from current state. Callers must
// hold at least a read lock.
func (e *Engine) overlayOptions() overlay.Options {
	return overlay.Options{
		VirtualText:       e.virtualText,
		VirtualTextPrefix: e.cfg.VirtualTextPrefix,
	}
}

// scanBuffer is the debouncer callback. Scan errors are logged, not
// propagated; there is no caller on the timer path.
func (e *Engine) scanBuffer(bufferID string) {
	if err := e.Scan(bufferID); err != nil {
		e.log.Error("scan failed: %v", err)
	}
}
