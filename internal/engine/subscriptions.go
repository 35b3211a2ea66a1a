package engine

import (
	"github.com/dshills/glyphstorm/internal/config"
	"github.com/dshills/glyphstorm/internal/event"
)

// Attach subscribes the engine to buffer lifecycle and configuration
// topics on the bus. Opened and saved buffers are scanned immediately;
// content changes go through the debounced scheduler; closed buffers have
// their state dropped.
func (e *Engine) Attach(bus *event.Bus) error {
	wiring := []struct {
		topic   event.Topic
		handler event.Handler
	}{
		{event.TopicBufferOpened, e.onBufferOpened},
		{event.TopicBufferChanged, e.onBufferChanged},
		{event.TopicBufferSaved, e.onBufferSaved},
		{event.TopicBufferClosed, e.onBufferClosed},
		{event.TopicConfigChanged, e.onConfigChanged},
	}

	for _, w := range wiring {
		sub, err := bus.Subscribe(w.topic, w.handler)
		if err != nil {
			return err
		}
		e.subs = append(e.subs, sub)
	}
	return nil
}

// Detach removes the engine's subscriptions from the bus.
func (e *Engine) Detach(bus *event.Bus) {
	for _, sub := range e.subs {
		bus.Unsubscribe(sub)
	}
	e.subs = nil
}

func (e *Engine) onBufferOpened(ev event.Event) {
	payload, ok := ev.Payload.(event.BufferEvent)
	if !ok {
		return
	}
	if !e.Enabled() {
		return
	}
	if err := e.Scan(payload.BufferID); err != nil {
		e.log.Error("scan on open failed: %v", err)
	}
}

func (e *Engine) onBufferChanged(ev event.Event) {
	payload, ok := ev.Payload.(event.BufferEvent)
	if !ok {
		return
	}
	e.Request(payload.BufferID)
}

func (e *Engine) onBufferSaved(ev event.Event) {
	payload, ok := ev.Payload.(event.BufferEvent)
	if !ok {
		return
	}
	if !e.Enabled() {
		return
	}
	if err := e.Scan(payload.BufferID); err != nil {
		e.log.Error("scan on save failed: %v", err)
	}
}

func (e *Engine) onBufferClosed(ev event.Event) {
	payload, ok := ev.Payload.(event.BufferEvent)
	if !ok {
		return
	}
	e.Forget(payload.BufferID)
}

func (e *Engine) onConfigChanged(ev event.Event) {
	cfg, ok := ev.Payload.(config.Config)
	if !ok {
		return
	}
	e.Reconfigure(cfg)
}
