package events

import "log/slog"

// PublishBoardChange publishes a change notification, tolerating a nil
// publisher. Services call this after a successful commit; a delivery
// failure is logged, never propagated, since the write already happened.
func PublishBoardChange(pub Publisher, eventType EventType, projectID, cardID int) {
	if pub == nil {
		return // No live-update wiring (e.g. in tests)
	}

	err := pub.Publish(Event{
		Type:      eventType,
		ProjectID: projectID,
		CardID:    cardID,
	})
	if err != nil {
		slog.Warn("event publish failed",
			"event_type", eventType,
			"project_id", projectID,
			"error", err)
	}
}
