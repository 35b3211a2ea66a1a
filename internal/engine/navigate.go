package engine

import "github.com/dshills/glyphstorm/internal/overlay"

// Next returns the first diagnostic after the given position, wrapping to
// the first diagnostic when wrapAround is set and none follow.
func (e *Engine) Next(bufferID string, line, col int, wrapAround bool) *overlay.Diagnostic {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, ok := e.buffers[bufferID]
	if !ok || len(state.diags) == 0 {
		return nil
	}

	for i := range state.diags {
		d := state.diags[i]
		if d.Line > line || (d.Line == line && d.StartByte > col) {
			return &d
		}
	}

	if wrapAround {
		d := state.diags[0]
		return &d
	}
	return nil
}

// Prev returns the last diagnostic before the given position, wrapping to
// the final diagnostic when wrapAround is set and none precede.
func (e *Engine) Prev(bufferID string, line, col int, wrapAround bool) *overlay.Diagnostic {
	e.mu.RLock()
	defer e.mu.RUnlock()

	state, ok := e.buffers[bufferID]
	if !ok || len(state.diags) == 0 {
		return nil
	}

	for i := len(state.diags) - 1; i >= 0; i-- {
		d := state.diags[i]
		if d.Line < line || (d.Line == line && d.StartByte < col) {
			return &d
		}
	}

	if wrapAround {
		d := state.diags[len(state.diags)-1]
		return &d
	}
	return nil
}
