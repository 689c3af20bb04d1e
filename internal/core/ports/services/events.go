package services

// EventTracker records product analytics events.
type EventTracker interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
