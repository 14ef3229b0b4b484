// Package events defines the payloads sent to itinerary stream clients and
// published to downstream consumers.
package events

import (
	"time"

	"example.com/itinerary/internal/domain"
)

// Type names an event in the client stream.
type Type string

const (
	TypeConnected Type = "connected"
	TypeItem      Type = "item"
	TypeComplete  Type = "complete"
	TypeError     Type = "error"
)

// Event is one frame of an itinerary stream. A stream is exactly one
// connected event, zero or more items, then one complete or error event.
// A fetch failure skips connected and sends only the error.
type Event struct {
	Type    Type                  `json:"type"`
	Message string                `json:"message,omitempty"`
	Data    *domain.ItineraryItem `json:"data,omitempty"`
}

// Terminal reports whether e ends a stream.
func (e Event) Terminal() bool {
	return e.Type == TypeComplete || e.Type == TypeError
}

// Connected opens a stream.
func Connected() Event {
	return Event{Type: TypeConnected, Message: "Stream started"}
}

// Item carries one itinerary record.
func Item(item domain.ItineraryItem) Event {
	return Event{Type: TypeItem, Data: &item}
}

// Complete ends a successful stream.
func Complete() Event {
	return Event{Type: TypeComplete}
}

// Error ends a failed stream.
func Error(message string) Event {
	return Event{Type: TypeError, Message: message}
}

// ItineraryGenerated is published after a stream completes successfully.
type ItineraryGenerated struct {
	EventID     string                 `json:"event_id"`
	StreamID    string                 `json:"stream_id"`
	UserID      string                 `json:"user_id"`
	Items       []domain.ItineraryItem `json:"items"`
	GeneratedAt time.Time              `json:"generated_at"`
}
