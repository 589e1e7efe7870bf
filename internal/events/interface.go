package events

// Publisher defines the interface for sending change notifications.
// Services depend on this behavior rather than the concrete Bus, which
// keeps them testable with a nil or mock publisher.
type Publisher interface {
	// Publish queues an event for delivery to all matching subscribers
	Publish(event Event) error
}

// Compile-time verification that *Bus implements Publisher
var _ Publisher = (*Bus)(nil)
