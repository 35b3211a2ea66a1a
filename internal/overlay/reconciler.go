package overlay

import (
	"fmt"

	"github.com/dshills/glyphstorm/internal/scan"
)

// Options controls optional parts of a display update.
type Options struct {
	// VirtualText enables end-of-match virtual annotations.
	VirtualText bool

	// VirtualTextPrefix is prepended to each virtual annotation.
	VirtualTextPrefix string
}

// Reconciler applies scan results to a Display. Every update fully clears
// the previous marks and diagnostics before applying new ones, so a
// shrinking match set never leaks stale marks.
type Reconciler struct {
	display   Display
	namespace string
}

// NewReconciler creates a reconciler over the given display. An empty
// namespace falls back to the package default.
func NewReconciler(d Display, namespace string) *Reconciler {
	if namespace == "" {
		namespace = Namespace
	}
	return &Reconciler{display: d, namespace: namespace}
}

// NamespaceTag returns the namespace this reconciler applies marks under.
func (r *Reconciler) NamespaceTag() string {
	return r.namespace
}

// Apply replaces the buffer's displayed state with the given matches.
// It returns the diagnostics it published, so callers can retain them
// for collection without recomputing.
func (r *Reconciler) Apply(bufferID string, matches []scan.Match, opts Options) ([]Diagnostic, error) {
	if err := r.Clear(bufferID); err != nil {
		return nil, err
	}

	diags := Diagnostics(matches)

	for i, m := range matches {
		if err := r.display.SetHighlight(bufferID, r.namespace, m.Style, m.Line, m.StartByte, m.EndByte); err != nil {
			return nil, fmt.Errorf("overlay: highlight line %d: %w", m.Line, err)
		}
		if opts.VirtualText {
			text := opts.VirtualTextPrefix + diags[i].Message
			if err := r.display.SetVirtualText(bufferID, r.namespace, m.Line, m.EndByte, text, m.Style); err != nil {
				return nil, fmt.Errorf("overlay: virtual text line %d: %w", m.Line, err)
			}
		}
	}

	if err := r.display.SetDiagnostics(bufferID, r.namespace, diags); err != nil {
		return nil, fmt.Errorf("overlay: diagnostics: %w", err)
	}

	return diags, nil
}

// Clear retracts all marks and diagnostics for the buffer under this
// reconciler's namespace.
func (r *Reconciler) Clear(bufferID string) error {
	if err := r.display.ClearMarks(bufferID, r.namespace); err != nil {
		return fmt.Errorf("overlay: clear marks: %w", err)
	}
	if err := r.display.ClearDiagnostics(bufferID, r.namespace); err != nil {
		return fmt.Errorf("overlay: clear diagnostics: %w", err)
	}
	return nil
}
