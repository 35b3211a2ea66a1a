package event

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for the event bus.
var (
	// ErrInvalidTopic is returned when a topic or pattern is malformed.
	ErrInvalidTopic = errors.New("event: invalid topic")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("event: handler cannot be nil")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown
	// subscription.
	ErrSubscriptionNotFound = errors.New("event: subscription not found")
)

// Metadata carries standard information attached to every event.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the event was published.
	Timestamp time.Time

	// Source names the component that published the event.
	Source string
}

// Event is a published occurrence with an arbitrary payload.
type Event struct {
	Topic    Topic
	Payload  any
	Metadata Metadata
}

// BufferEvent is the payload for buffer lifecycle topics.
type BufferEvent struct {
	// BufferID identifies the buffer.
	BufferID string

	// Filetype is the host-assigned filetype, if known.
	Filetype string
}

// Handler processes a delivered event.
type Handler func(Event)

// Subscription identifies an active subscription.
type Subscription struct {
	id      string
	pattern Topic
}

// ID returns the subscription's unique identifier.
func (s Subscription) ID() string {
	return s.id
}

// Pattern returns the topic pattern the subscription matches.
func (s Subscription) Pattern() Topic {
	return s.pattern
}

type subscriber struct {
	id      string
	pattern Topic
	handler Handler
}

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. The engine relies on this: scanning and overlay
// application stay on the host's single execution context.
type Bus struct {
	mu   sync.RWMutex
	subs []subscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for topics matching the pattern.
func (b *Bus) Subscribe(pattern Topic, h Handler) (Subscription, error) {
	if h == nil {
		return Subscription{}, ErrNilHandler
	}
	if !patternValid(pattern) {
		return Subscription{}, ErrInvalidTopic
	}

	sub := subscriber{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: h,
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	return Subscription{id: sub.id, pattern: pattern}, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers an event to every matching subscriber before returning.
func (b *Bus) Publish(topic Topic, payload any, source string) error {
	if !topic.Valid() {
		return ErrInvalidTopic
	}

	ev := Event{
		Topic:   topic,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}

	b.mu.RLock()
	matched := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if matchTopic(s.pattern, topic) {
			matched = append(matched, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range matched {
		h(ev)
	}
	return nil
}

// patternValid accepts well-formed topics plus the wildcard segments.
func patternValid(pattern Topic) bool {
	if pattern == "" {
		return false
	}
	segs := pattern.Segments()
	for i, seg := range segs {
		if seg == "" {
			return false
		}
		if seg == "**" && i != len(segs)-1 {
			return false
		}
	}
	return true
}
