package event

import (
	"errors"
	"testing"
)

func TestSubscribePublish(t *testing.T) {
	bus := NewBus()

	var got []Event
	if _, err := bus.Subscribe(TopicBufferChanged, func(ev Event) {
		got = append(got, ev)
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	payload := BufferEvent{BufferID: "buf-1", Filetype: "go"}
	if err := bus.Publish(TopicBufferChanged, payload, "test"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := bus.Publish(TopicBufferSaved, payload, "test"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("delivered events = %d, want 1", len(got))
	}
	ev := got[0]
	if ev.Topic != TopicBufferChanged {
		t.Errorf("Topic = %q, want %q", ev.Topic, TopicBufferChanged)
	}
	if be, ok := ev.Payload.(BufferEvent); !ok || be.BufferID != "buf-1" {
		t.Errorf("Payload = %#v, want BufferEvent for buf-1", ev.Payload)
	}
	if ev.Metadata.ID == "" {
		t.Error("Metadata.ID is empty")
	}
	if ev.Metadata.Source != "test" {
		t.Errorf("Metadata.Source = %q, want %q", ev.Metadata.Source, "test")
	}
	if ev.Metadata.Timestamp.IsZero() {
		t.Error("Metadata.Timestamp is zero")
	}
}

func TestSubscribeWildcard(t *testing.T) {
	tests := []struct {
		name    string
		pattern Topic
		topic   Topic
		want    bool
	}{
		{"exact", "buffer.changed", "buffer.changed", true},
		{"exact mismatch", "buffer.changed", "buffer.saved", false},
		{"single star", "buffer.*", "buffer.opened", true},
		{"single star wrong depth", "buffer.*", "buffer.content.changed", false},
		{"trailing double star", "buffer.**", "buffer.content.changed", true},
		{"double star matches sibling depth", "buffer.**", "buffer.saved", true},
		{"double star wrong prefix", "buffer.**", "config.changed", false},
		{"pattern longer than topic", "buffer.changed.extra", "buffer.changed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchTopic(tt.pattern, tt.topic); got != tt.want {
				t.Errorf("matchTopic(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
			}
		})
	}
}

func TestSubscribeErrors(t *testing.T) {
	bus := NewBus()

	if _, err := bus.Subscribe(TopicBufferChanged, nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("Subscribe(nil handler) error = %v, want ErrNilHandler", err)
	}
	if _, err := bus.Subscribe("", func(Event) {}); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe(empty pattern) error = %v, want ErrInvalidTopic", err)
	}
	if _, err := bus.Subscribe("buffer..changed", func(Event) {}); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe(empty segment) error = %v, want ErrInvalidTopic", err)
	}
	if _, err := bus.Subscribe("buffer.**.changed", func(Event) {}); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Subscribe(non-trailing **) error = %v, want ErrInvalidTopic", err)
	}
}

func TestPublishInvalidTopic(t *testing.T) {
	bus := NewBus()

	if err := bus.Publish("", nil, "test"); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish(empty topic) error = %v, want ErrInvalidTopic", err)
	}
	if err := bus.Publish("a..b", nil, "test"); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish(empty segment) error = %v, want ErrInvalidTopic", err)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	sub, err := bus.Subscribe(TopicBufferChanged, func(Event) { calls++ })
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := bus.Unsubscribe(sub); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	if err := bus.Publish(TopicBufferChanged, nil, "test"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("handler called %d times after Unsubscribe, want 0", calls)
	}

	if err := bus.Unsubscribe(sub); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Errorf("second Unsubscribe error = %v, want ErrSubscriptionNotFound", err)
	}
}

func TestDeliveryOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		if _, err := bus.Subscribe("buffer.**", func(Event) { order = append(order, i) }); err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
	}

	if err := bus.Publish(TopicBufferOpened, nil, "test"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	want := []int{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("deliveries = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("delivery %d went to subscriber %d, want %d", i, order[i], want[i])
		}
	}
}

func TestTopicValid(t *testing.T) {
	tests := []struct {
		topic Topic
		want  bool
	}{
		{"buffer.changed", true},
		{"config.changed", true},
		{"single", true},
		{"", false},
		{".leading", false},
		{"trailing.", false},
		{"a..b", false},
	}

	for _, tt := range tests {
		if got := tt.topic.Valid(); got != tt.want {
			t.Errorf("Topic(%q).Valid() = %v, want %v", tt.topic, got, tt.want)
		}
	}
}
