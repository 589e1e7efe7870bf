package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

const (
	EventBoardChanged   EventType = "board_changed"
	EventColumnsChanged EventType = "columns_changed"
	EventCardMoved      EventType = "card_moved"
)

// Event represents a board change notification
type Event struct {
	Type       EventType `json:"type"`
	ProjectID  int       `json:"projectId"`  // For filtering - which project was modified
	CardID     int       `json:"cardId"`     // Set for card events, 0 otherwise
	Timestamp  time.Time `json:"timestamp"`  // When the event occurred
	SequenceID int64     `json:"sequenceId"` // Monotonically increasing sequence number for ordering
}
