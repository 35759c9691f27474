package events

import "time"

const (
	// AI_TOOL_USED is published once a tool run has been recorded.
	EventTypeAiToolUsed = "AI_TOOL_USED"
	// USER_DELETED is published by the account service.
	EventTypeUserDeleted = "USER_DELETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "AI_TOOL_USED").
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// String reads a string field of the payload.
func String(e Event, key string) string {
	v, _ := e.Payload()[key].(string)
	return v
}
