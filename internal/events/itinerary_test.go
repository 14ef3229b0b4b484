package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/itinerary/internal/domain"
)

func TestEventWireShape(t *testing.T) {
	cases := []struct {
		event Event
		want  string
	}{
		{Connected(), `{"type":"connected","message":"Stream started"}`},
		{Complete(), `{"type":"complete"}`},
		{Error("No activities selected"), `{"type":"error","message":"No activities selected"}`},
		{Item(domain.ItineraryItem{
			ActivityName: "Trek",
			ActivityType: domain.ActivityTypeAdventure,
			StartTime:    "2025-07-15T08:00:00",
			EndTime:      "2025-07-15T10:00:00",
			ActivityID:   "a1",
		}), `{"type":"item","data":{"activity_name":"Trek","activity_type":"adventure","start_time":"2025-07-15T08:00:00","end_time":"2025-07-15T10:00:00","activity_id":"a1"}}`},
	}

	for _, tc := range cases {
		raw, err := json.Marshal(tc.event)
		require.NoError(t, err)
		require.JSONEq(t, tc.want, string(raw))
	}
}

func TestTerminal(t *testing.T) {
	require.True(t, Complete().Terminal())
	require.True(t, Error("x").Terminal())
	require.False(t, Connected().Terminal())
	require.False(t, Item(domain.ItineraryItem{}).Terminal())
}
