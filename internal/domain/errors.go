// Package domain defines the types shared by the itinerary pipeline.
package domain

import "errors"

var (
	// ErrNoActivitiesSelected indicates the user has not picked any activities.
	ErrNoActivitiesSelected = errors.New("no activities selected")
	// ErrUpstreamUnavailable is returned when the activities service cannot be read.
	ErrUpstreamUnavailable = errors.New("activities service unavailable")
	// ErrTokenSource wraps failures raised by the model while streaming.
	ErrTokenSource = errors.New("model stream failed")
)

// ClientMessage maps a pipeline error to the text carried by a terminal error event.
func ClientMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoActivitiesSelected):
		return "No activities selected"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "Internal server error, unable to relay data to LLM"
	default:
		return err.Error()
	}
}
