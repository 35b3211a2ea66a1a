package overlay

// Display is the host-side rendering surface the reconciler drives. The
// engine computes what to render and where; the host renders it.
//
// All positions are 0-based byte offsets with half-open spans. A failure
// from any call indicates a host-side problem; the reconciler surfaces it
// to its caller and never retries.
type Display interface {
	// ClearMarks removes every highlight mark and virtual annotation
	// applied to the buffer under the given namespace.
	ClearMarks(bufferID, namespace string) error

	// SetHighlight applies a style to a byte span on one line.
	SetHighlight(bufferID, namespace, style string, line, startByte, endByte int) error

	// ClearDiagnostics removes every diagnostic entry for the buffer
	// under the given namespace.
	ClearDiagnostics(bufferID, namespace string) error

	// SetDiagnostics publishes the full diagnostic list for the buffer.
	SetDiagnostics(bufferID, namespace string, diags []Diagnostic) error

	// SetVirtualText renders a short annotation after the given byte
	// column on a line.
	SetVirtualText(bufferID, namespace string, line, col int, text, style string) error
}
