// Package host defines what the engine needs from its surrounding editor
// and provides an in-memory implementation for tests and batch scanning.
package host

import (
	"errors"

	"github.com/dshills/glyphstorm/internal/overlay"
)

// Errors returned by host implementations.
var (
	// ErrUnknownBuffer is returned for operations on a buffer ID the host
	// does not recognize.
	ErrUnknownBuffer = errors.New("host: unknown buffer")
)

// BufferSource supplies buffer content and identity.
type BufferSource interface {
	// Lines returns the buffer's current text, one byte slice per line,
	// without line terminators.
	Lines(bufferID string) ([][]byte, error)

	// Filetype returns the host-assigned filetype for the buffer, or ""
	// if unknown.
	Filetype(bufferID string) string
}

// Host is the full surface the engine consumes: buffer access plus the
// display primitives the reconciler drives.
type Host interface {
	BufferSource
	overlay.Display
}
