package realtime

import (
	"encoding/json"
	"time"
)

const EventTypeInvalidate = "invalidate"

// Event is the message pushed to subscribers.
// Format: { type, topic, version, timestamp }
type Event struct {
	Type      string    `json:"type"`
	Topic     string    `json:"topic"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func Invalidate(topic string, version int64) Event {
	return Event{
		Type:      EventTypeInvalidate,
		Topic:     topic,
		Version:   version,
		Timestamp: time.Now().UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
