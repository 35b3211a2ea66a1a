// Package event provides a synchronous event bus with hierarchical
// dot-notation topics for buffer lifecycle and configuration changes.
package event

import "strings"

// Topic is a hierarchical event name using dot notation, for example
// "buffer.content.changed". Subscription patterns may use "*" to match
// exactly one segment or a trailing "**" to match the rest.
type Topic string

// Topics published by the engine and its hosts.
const (
	// TopicBufferOpened fires when a buffer becomes available for scanning.
	TopicBufferOpened Topic = "buffer.opened"

	// TopicBufferChanged fires on every relevant content change.
	TopicBufferChanged Topic = "buffer.changed"

	// TopicBufferSaved fires after a buffer is written out.
	TopicBufferSaved Topic = "buffer.saved"

	// TopicBufferClosed fires when a buffer goes away.
	TopicBufferClosed Topic = "buffer.closed"

	// TopicConfigChanged fires when the configuration is reloaded.
	TopicConfigChanged Topic = "config.changed"
)

// Segments splits the topic into its dot-separated parts.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), ".")
}

// Valid reports whether the topic is non-empty with no empty segments.
func (t Topic) Valid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// matchTopic reports whether a concrete topic matches a pattern.
// "*" matches exactly one segment; a trailing "**" matches zero or more.
func matchTopic(pattern, topic Topic) bool {
	ps := pattern.Segments()
	ts := topic.Segments()

	for i, p := range ps {
		if p == "**" {
			return i == len(ps)-1
		}
		if i >= len(ts) {
			return false
		}
		if p != "*" && p != ts[i] {
			return false
		}
	}
	return len(ps) == len(ts)
}
