package events

import "context"

// Publisher defines an interface for components that can publish events to a
// broker topic. Publish reports whether the broker accepted the event; it
// never returns an error, because event delivery is best-effort and must not
// fail the operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) bool
}
