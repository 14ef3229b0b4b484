package parser

import (
	"bytes"
	"time"

	"github.com/tidwall/gjson"

	"example.com/itinerary/internal/domain"
)

// Reason explains why a complete line did not produce a record.
type Reason string

const (
	// ReasonNone marks an accepted line.
	ReasonNone Reason = ""
	// ReasonBlank marks an empty or whitespace-only line. Blank lines are never reported.
	ReasonBlank Reason = "blank"
	// ReasonNotObject marks text that is not wrapped in braces, typically prose.
	ReasonNotObject Reason = "not_object"
	// ReasonMalformed marks a braced line that is not a single JSON object.
	ReasonMalformed Reason = "malformed_json"
	// ReasonMissingField marks an object lacking one of the required keys.
	ReasonMissingField Reason = "missing_field"
	// ReasonInvalidField marks an object whose required keys hold unusable values.
	ReasonInvalidField Reason = "invalid_field"
)

// RequiredFields lists the keys every itinerary record must carry.
var RequiredFields = []string{"activity_name", "activity_type", "start_time", "end_time", "activity_id"}

var requiredIndex = func() map[string]int {
	index := make(map[string]int, len(RequiredFields))
	for i, field := range RequiredFields {
		index[field] = i
	}
	return index
}()

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

// Validator turns a single line of model output into an itinerary record.
//
// The zero value checks that the line is one JSON object carrying every
// required key as a string. Strict additionally requires a known activity
// type and ISO-8601 timestamps where the end does not precede the start.
type Validator struct {
	Strict bool
}

// Parse inspects one line. The returned Reason is ReasonNone when the item is usable.
func (v Validator) Parse(line []byte) (domain.ItineraryItem, Reason) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return domain.ItineraryItem{}, ReasonBlank
	}
	if line[0] != '{' || line[len(line)-1] != '}' {
		return domain.ItineraryItem{}, ReasonNotObject
	}
	if !gjson.ValidBytes(line) {
		return domain.ItineraryItem{}, ReasonMalformed
	}

	fields := requiredValues(line)
	for _, field := range fields {
		if !field.Exists() {
			return domain.ItineraryItem{}, ReasonMissingField
		}
		if field.Type != gjson.String {
			return domain.ItineraryItem{}, ReasonInvalidField
		}
	}

	item := domain.ItineraryItem{
		ActivityName: fields[0].Str,
		ActivityType: domain.ActivityType(fields[1].Str),
		StartTime:    fields[2].Str,
		EndTime:      fields[3].Str,
		ActivityID:   fields[4].Str,
	}
	if v.Strict && !strictlyValid(item) {
		return domain.ItineraryItem{}, ReasonInvalidField
	}
	return item, ReasonNone
}

// requiredValues returns the top-level values of RequiredFields in order. A key
// repeated in the object resolves to its last occurrence.
func requiredValues(line []byte) []gjson.Result {
	values := make([]gjson.Result, len(RequiredFields))
	gjson.ParseBytes(line).ForEach(func(key, value gjson.Result) bool {
		if idx, ok := requiredIndex[key.String()]; ok {
			values[idx] = value
		}
		return true
	})
	return values
}

func strictlyValid(item domain.ItineraryItem) bool {
	if !item.ActivityType.Valid() {
		return false
	}
	start, ok := parseTimestamp(item.StartTime)
	if !ok {
		return false
	}
	end, ok := parseTimestamp(item.EndTime)
	if !ok {
		return false
	}
	return !end.Before(start)
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
