package nats

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gymflow-be/pkg/events"
)

// StreamName is the JetStream stream holding every domain event.
const StreamName = "EVENTS"

const subjectPrefix = "events."

// Subject maps an event type to its NATS subject.
func Subject(eventType string) string {
	return subjectPrefix + eventType
}

// envelope is the wire form of an event.
type envelope struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func encode(event events.Event) ([]byte, error) {
	occurredAt := event.Timestamp()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return json.Marshal(envelope{
		Type:       event.EventType(),
		OccurredAt: occurredAt,
		Data:       event.Payload(),
	})
}

// decode accepts the envelope and, for producers that publish the bare
// payload, falls back to the subject for the type.
func decode(subject string, data []byte) (events.BaseEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return events.BaseEvent{}, fmt.Errorf("failed to decode event on %s: %w", subject, err)
	}
	if env.Type != "" && env.Data != nil {
		if env.OccurredAt.IsZero() {
			env.OccurredAt = time.Now().UTC()
		}
		return events.BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return events.BaseEvent{}, fmt.Errorf("failed to decode event on %s: %w", subject, err)
	}
	return events.BaseEvent{
		Type:       strings.TrimPrefix(subject, subjectPrefix),
		Data:       payload,
		OccurredAt: time.Now().UTC(),
	}, nil
}
