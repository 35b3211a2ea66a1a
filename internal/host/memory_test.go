package host

import (
	"errors"
	"testing"

	"github.com/dshills/glyphstorm/internal/event"
	"github.com/dshills/glyphstorm/internal/overlay"
)

func lines(ss ...string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func TestOpenAndLines(t *testing.T) {
	h := NewMemoryHost(nil)

	src := lines("hello", "world")
	id := h.Open("test.txt", "text", src)
	if id == "" {
		t.Fatal("Open returned empty buffer ID")
	}
	if got := h.Name(id); got != "test.txt" {
		t.Errorf("Name() = %q, want %q", got, "test.txt")
	}
	if got := h.Filetype(id); got != "text" {
		t.Errorf("Filetype() = %q, want %q", got, "text")
	}

	got, err := h.Lines(id)
	if err != nil {
		t.Fatalf("Lines() error = %v", err)
	}
	if len(got) != 2 || string(got[0]) != "hello" || string(got[1]) != "world" {
		t.Errorf("Lines() = %q, want [hello world]", got)
	}

	// Mutating either side must not leak through.
	src[0][0] = 'X'
	got[1][0] = 'Y'
	again, _ := h.Lines(id)
	if string(again[0]) != "hello" || string(again[1]) != "world" {
		t.Errorf("buffer aliased caller memory: %q", again)
	}
}

func TestUnknownBuffer(t *testing.T) {
	h := NewMemoryHost(nil)

	if _, err := h.Lines("nope"); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("Lines(unknown) error = %v, want ErrUnknownBuffer", err)
	}
	if err := h.SetLines("nope", nil); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("SetLines(unknown) error = %v, want ErrUnknownBuffer", err)
	}
	if err := h.Save("nope"); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("Save(unknown) error = %v, want ErrUnknownBuffer", err)
	}
	if err := h.Close("nope"); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("Close(unknown) error = %v, want ErrUnknownBuffer", err)
	}
	if err := h.SetHighlight("nope", "ns", "Style", 0, 0, 1); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("SetHighlight(unknown) error = %v, want ErrUnknownBuffer", err)
	}
}

func TestNamespaceScopedClears(t *testing.T) {
	h := NewMemoryHost(nil)
	id := h.Open("a.txt", "text", lines("abc"))

	if err := h.SetHighlight(id, "glyphstorm", "S1", 0, 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := h.SetHighlight(id, "other", "S2", 0, 1, 2); err != nil {
		t.Fatal(err)
	}
	if err := h.SetVirtualText(id, "glyphstorm", 0, 1, "note", "S1"); err != nil {
		t.Fatal(err)
	}
	if err := h.SetDiagnostics(id, "glyphstorm", []overlay.Diagnostic{{Line: 0, Message: "m"}}); err != nil {
		t.Fatal(err)
	}
	if err := h.SetDiagnostics(id, "other", []overlay.Diagnostic{{Line: 0, Message: "n"}}); err != nil {
		t.Fatal(err)
	}

	if err := h.ClearMarks(id, "glyphstorm"); err != nil {
		t.Fatal(err)
	}
	if err := h.ClearDiagnostics(id, "glyphstorm"); err != nil {
		t.Fatal(err)
	}

	hls := h.Highlights(id)
	if len(hls) != 1 || hls[0].Namespace != "other" {
		t.Errorf("Highlights after clear = %+v, want only namespace other", hls)
	}
	if vts := h.VirtualTexts(id); len(vts) != 0 {
		t.Errorf("VirtualTexts after clear = %+v, want none", vts)
	}
	if ds := h.Diagnostics(id, "glyphstorm"); len(ds) != 0 {
		t.Errorf("Diagnostics(glyphstorm) after clear = %+v, want none", ds)
	}
	if ds := h.Diagnostics(id, "other"); len(ds) != 1 {
		t.Errorf("Diagnostics(other) after clear = %+v, want one", ds)
	}
}

func TestCloseRemovesState(t *testing.T) {
	h := NewMemoryHost(nil)
	id := h.Open("a.txt", "text", lines("abc"))

	if err := h.SetHighlight(id, "ns", "S", 0, 0, 1); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(id); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := h.Lines(id); !errors.Is(err, ErrUnknownBuffer) {
		t.Errorf("Lines after Close error = %v, want ErrUnknownBuffer", err)
	}
	if hls := h.Highlights(id); len(hls) != 0 {
		t.Errorf("Highlights after Close = %+v, want none", hls)
	}
}

func TestLifecycleEvents(t *testing.T) {
	bus := event.NewBus()
	var topics []event.Topic
	var last event.BufferEvent
	if _, err := bus.Subscribe("buffer.**", func(ev event.Event) {
		topics = append(topics, ev.Topic)
		if be, ok := ev.Payload.(event.BufferEvent); ok {
			last = be
		}
	}); err != nil {
		t.Fatal(err)
	}

	h := NewMemoryHost(bus)
	id := h.Open("a.go", "go", lines("abc"))
	if err := h.SetLines(id, lines("abcd")); err != nil {
		t.Fatal(err)
	}
	if err := h.Save(id); err != nil {
		t.Fatal(err)
	}
	if err := h.Close(id); err != nil {
		t.Fatal(err)
	}

	want := []event.Topic{
		event.TopicBufferOpened,
		event.TopicBufferChanged,
		event.TopicBufferSaved,
		event.TopicBufferClosed,
	}
	if len(topics) != len(want) {
		t.Fatalf("published topics = %v, want %v", topics, want)
	}
	for i := range want {
		if topics[i] != want[i] {
			t.Errorf("topic %d = %q, want %q", i, topics[i], want[i])
		}
	}
	if last.BufferID != id {
		t.Errorf("payload BufferID = %q, want %q", last.BufferID, id)
	}
	if last.Filetype != "go" {
		t.Errorf("payload Filetype = %q, want %q", last.Filetype, "go")
	}
}
