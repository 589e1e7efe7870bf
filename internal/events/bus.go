package events

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus is closed")

// subscriber is one registered event consumer. projectID 0 subscribes
// to all projects.
type subscriber struct {
	ch        chan Event
	projectID int
}

// Bus is an in-process broker fanning board change events out to
// subscribers (the WebSocket hub, tests). Delivery is best-effort: a
// subscriber whose buffer is full misses the event rather than blocking
// the publishing request.
type Bus struct {
	mu         sync.RWMutex
	subs       map[*subscriber]struct{}
	sequence   atomic.Int64
	bufferSize int
	closed     bool
}

// NewBus creates a Bus. bufferSize is the per-subscriber queue length.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Bus{
		subs:       make(map[*subscriber]struct{}),
		bufferSize: bufferSize,
	}
}

// Subscribe registers a consumer for events matching projectID
// (0 = all projects). The returned cancel function must be called to
// release the subscription.
func (b *Bus) Subscribe(projectID int) (<-chan Event, func()) {
	sub := &subscriber{
		ch:        make(chan Event, b.bufferSize),
		projectID: projectID,
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[sub]; ok {
			delete(b.subs, sub)
			close(sub.ch)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish stamps the event with a sequence number and timestamp and
// delivers it to every matching subscriber.
func (b *Bus) Publish(event Event) error {
	event.SequenceID = b.sequence.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	for sub := range b.subs {
		if sub.projectID != 0 && sub.projectID != event.ProjectID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			slog.Warn("event subscriber queue full, dropping event",
				"event_type", event.Type,
				"project_id", event.ProjectID,
				"sequence_id", event.SequenceID)
		}
	}
	return nil
}

// Close drops all subscriptions. Publish after Close returns ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.ch)
	}
}
