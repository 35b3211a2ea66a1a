package host

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/glyphstorm/internal/event"
	"github.com/dshills/glyphstorm/internal/overlay"
)

// Highlight records one applied highlight mark.
type Highlight struct {
	Namespace string
	Style     string
	Line      int
	StartByte int
	EndByte   int
}

// VirtualText records one applied virtual annotation.
type VirtualText struct {
	Namespace string
	Line      int
	Col       int
	Text      string
	Style     string
}

type memBuffer struct {
	id       string
	name     string
	filetype string
	lines    [][]byte
}

// MemoryHost is an in-memory Host. It stores buffers, records every display
// call so callers can inspect the applied state, and publishes buffer
// lifecycle events when a bus is attached.
type MemoryHost struct {
	mu      sync.RWMutex
	bus     *event.Bus
	buffers map[string]*memBuffer

	highlights  map[string][]Highlight
	diagnostics map[string]map[string][]overlay.Diagnostic
	virtual     map[string][]VirtualText
}

// NewMemoryHost creates an empty host. The bus may be nil, in which case no
// events are published.
func NewMemoryHost(bus *event.Bus) *MemoryHost {
	return &MemoryHost{
		bus:         bus,
		buffers:     make(map[string]*memBuffer),
		highlights:  make(map[string][]Highlight),
		diagnostics: make(map[string]map[string][]overlay.Diagnostic),
		virtual:     make(map[string][]VirtualText),
	}
}

// Open creates a buffer and publishes buffer.opened. It returns the new
// buffer's ID.
func (h *MemoryHost) Open(name, filetype string, lines [][]byte) string {
	buf := &memBuffer{
		id:       uuid.NewString(),
		name:     name,
		filetype: filetype,
		lines:    cloneLines(lines),
	}

	h.mu.Lock()
	h.buffers[buf.id] = buf
	h.mu.Unlock()

	h.publish(event.TopicBufferOpened, buf)
	return buf.id
}

// SetLines replaces a buffer's content and publishes buffer.changed.
func (h *MemoryHost) SetLines(bufferID string, lines [][]byte) error {
	h.mu.Lock()
	buf, ok := h.buffers[bufferID]
	if !ok {
		h.mu.Unlock()
		return ErrUnknownBuffer
	}
	buf.lines = cloneLines(lines)
	h.mu.Unlock()

	h.publish(event.TopicBufferChanged, buf)
	return nil
}

// Save publishes buffer.saved for the buffer.
func (h *MemoryHost) Save(bufferID string) error {
	h.mu.RLock()
	buf, ok := h.buffers[bufferID]
	h.mu.RUnlock()
	if !ok {
		return ErrUnknownBuffer
	}

	h.publish(event.TopicBufferSaved, buf)
	return nil
}

// Close removes a buffer and publishes buffer.closed.
func (h *MemoryHost) Close(bufferID string) error {
	h.mu.Lock()
	buf, ok := h.buffers[bufferID]
	if !ok {
		h.mu.Unlock()
		return ErrUnknownBuffer
	}
	delete(h.buffers, bufferID)
	delete(h.highlights, bufferID)
	delete(h.diagnostics, bufferID)
	delete(h.virtual, bufferID)
	h.mu.Unlock()

	h.publish(event.TopicBufferClosed, buf)
	return nil
}

// Name returns the buffer's display name.
func (h *MemoryHost) Name(bufferID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if buf, ok := h.buffers[bufferID]; ok {
		return buf.name
	}
	return ""
}

// Lines implements BufferSource.
func (h *MemoryHost) Lines(bufferID string) ([][]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.buffers[bufferID]
	if !ok {
		return nil, ErrUnknownBuffer
	}
	return cloneLines(buf.lines), nil
}

// Filetype implements BufferSource.
func (h *MemoryHost) Filetype(bufferID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if buf, ok := h.buffers[bufferID]; ok {
		return buf.filetype
	}
	return ""
}

// ClearMarks implements overlay.Display.
func (h *MemoryHost) ClearMarks(bufferID, namespace string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.highlights[bufferID] = filterByNamespace(h.highlights[bufferID], namespace,
		func(hl Highlight) string { return hl.Namespace })
	h.virtual[bufferID] = filterByNamespace(h.virtual[bufferID], namespace,
		func(vt VirtualText) string { return vt.Namespace })
	return nil
}

// SetHighlight implements overlay.Display.
func (h *MemoryHost) SetHighlight(bufferID, namespace, style string, line, startByte, endByte int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.buffers[bufferID]; !ok {
		return ErrUnknownBuffer
	}
	h.highlights[bufferID] = append(h.highlights[bufferID], Highlight{
		Namespace: namespace,
		Style:     style,
		Line:      line,
		StartByte: startByte,
		EndByte:   endByte,
	})
	return nil
}

// ClearDiagnostics implements overlay.Display.
func (h *MemoryHost) ClearDiagnostics(bufferID, namespace string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if byNS, ok := h.diagnostics[bufferID]; ok {
		delete(byNS, namespace)
	}
	return nil
}

// SetDiagnostics implements overlay.Display.
func (h *MemoryHost) SetDiagnostics(bufferID, namespace string, diags []overlay.Diagnostic) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.buffers[bufferID]; !ok {
		return ErrUnknownBuffer
	}
	byNS, ok := h.diagnostics[bufferID]
	if !ok {
		byNS = make(map[string][]overlay.Diagnostic)
		h.diagnostics[bufferID] = byNS
	}
	byNS[namespace] = append([]overlay.Diagnostic(nil), diags...)
	return nil
}

// SetVirtualText implements overlay.Display.
func (h *MemoryHost) SetVirtualText(bufferID, namespace string, line, col int, text, style string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.buffers[bufferID]; !ok {
		return ErrUnknownBuffer
	}
	h.virtual[bufferID] = append(h.virtual[bufferID], VirtualText{
		Namespace: namespace,
		Line:      line,
		Col:       col,
		Text:      text,
		Style:     style,
	})
	return nil
}

// Highlights returns the highlights currently applied to a buffer.
func (h *MemoryHost) Highlights(bufferID string) []Highlight {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Highlight(nil), h.highlights[bufferID]...)
}

// Diagnostics returns the diagnostics applied to a buffer under a
// namespace.
func (h *MemoryHost) Diagnostics(bufferID, namespace string) []overlay.Diagnostic {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if byNS, ok := h.diagnostics[bufferID]; ok {
		return append([]overlay.Diagnostic(nil), byNS[namespace]...)
	}
	return nil
}

// VirtualTexts returns the virtual annotations applied to a buffer.
func (h *MemoryHost) VirtualTexts(bufferID string) []VirtualText {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]VirtualText(nil), h.virtual[bufferID]...)
}

// publish sends a buffer event if a bus is attached.
func (h *MemoryHost) publish(topic event.Topic, buf *memBuffer) {
	if h.bus == nil {
		return
	}
	h.bus.Publish(topic, event.BufferEvent{
		BufferID: buf.id,
		Filetype: buf.filetype,
	}, "host.memory")
}

// filterByNamespace keeps entries whose namespace differs from ns.
func filterByNamespace[T any](entries []T, ns string, namespaceOf func(T) string) []T {
	out := entries[:0]
	for _, e := range entries {
		if namespaceOf(e) != ns {
			out = append(out, e)
		}
	}
	return out
}

// cloneLines deep-copies a line slice so buffers never alias caller memory.
func cloneLines(lines [][]byte) [][]byte {
	out := make([][]byte, len(lines))
	for i, line := range lines {
		out[i] = append([]byte(nil), line...)
	}
	return out
}
