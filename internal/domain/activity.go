package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Activity is one user-selected candidate returned by the activities service.
type Activity struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// UnmarshalJSON accepts the id as a JSON string or number. Numeric ids keep
// their literal text.
func (a *Activity) UnmarshalJSON(data []byte) error {
	type plain Activity
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(a)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.ID)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		a.ID = ""
	case raw[0] == '"':
		return json.Unmarshal(raw, &a.ID)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("activity id: %w", err)
		}
		a.ID = n.String()
	}
	return nil
}

// ActivityType classifies an itinerary slot.
type ActivityType string

const (
	ActivityTypeRest       ActivityType = "rest"
	ActivityTypeAdventure  ActivityType = "adventure"
	ActivityTypeAttraction ActivityType = "tourist attraction"
	ActivityTypeCommute    ActivityType = "commute"
)

// Valid reports whether t is one of the four known slot types.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeRest, ActivityTypeAdventure, ActivityTypeAttraction, ActivityTypeCommute:
		return true
	}
	return false
}

// ItineraryItem is a single scheduled slot produced by the model.
type ItineraryItem struct {
	ActivityName string       `json:"activity_name"`
	ActivityType ActivityType `json:"activity_type"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	ActivityID   string       `json:"activity_id"`
}
