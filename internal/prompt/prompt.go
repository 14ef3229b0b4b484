// Package prompt renders selected activities into the model instructions.
package prompt

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"example.com/itinerary/internal/domain"
	"example.com/itinerary/internal/llm"
)

// DefaultStart is the first slot of every itinerary unless configured otherwise.
var DefaultStart = time.Date(2025, time.July, 15, 8, 0, 0, 0, time.UTC)

// Options controls the trip framing given to the model.
type Options struct {
	Destination string
	Start       time.Time
}

const planningGuide = `You are a travel planning assistant. Create an itinerary from a selected list of activities and present each activity as a separate JSON object.

Each activity includes:
- An activity name
- A description (to help you understand the type and nature of the activity)
- Location information (latitude and longitude coordinates)
- An estimated duration in minutes

You should:
- Estimate travel time between activities using the Haversine distance formula
- Decide the optimal sequence of activities based on their descriptions, duration, and location.
- Insert appropriate rest intervals based on the flow of the itinerary (e.g., after physically demanding activities or during long gaps)
- Mark any unused time slots as "rest"
- Keep roughly 4-5 activities per day and move on to the following day, unless you think it's necessary to include more.

Guidelines:
- A day should ideally begin at **8:00 AM** and conclude by **11:59 PM**, but this is flexible depending on the nature of the activities
- For example: trekking may require an early morning start, and club visits may happen late at night
- The output should be a continuous, well-structured itinerary that may span multiple days based on the activities provided or if a single day would overwhelm the traveler

Always ensure the itinerary feels balanced, practical, and enjoyable for the traveler.
`

const lineOutput = `For each activity, output exactly this format:
{"activity_name": "...", "activity_type": "...", "start_time": "...", "end_time": "...", "activity_id": "..."}

Output one activity per line, followed by a newline. Do not wrap the output in code fences.
Activity types must be one of: %s
Times must be in ISO 8601 format: "%s"
For activities of type 'rest' or 'commute' as well as activities not linked to the activity list, set a randomly generated activity id, otherwise use the given activity_id

Start the itinerary at %s, you may span it across several days`

const objectOutput = `Respond with a single JSON object of the form:
{"items": [{"activity_name": "...", "activity_type": "...", "start_time": "...", "end_time": "...", "activity_id": "..."}]}
List the items in chronological order.
Activity types must be one of: %s
Times must be in ISO 8601 format: "%s"
For activities of type 'rest' or 'commute' as well as activities not linked to the activity list, set a randomly generated activity id, otherwise use the given activity_id

Start the itinerary at %s, you may span it across several days`

const systemPrompt = planningGuide + "\n" + lineOutput

const structuredPrompt = planningGuide + "\n" + objectOutput

const isoLayout = "2006-01-02T15:04:05"

var activityTypes = []domain.ActivityType{
	domain.ActivityTypeRest,
	domain.ActivityTypeAdventure,
	domain.ActivityTypeAttraction,
	domain.ActivityTypeCommute,
}

// FormatActivities renders one numbered line per activity in a fixed field order.
func FormatActivities(activities []domain.Activity) string {
	var b strings.Builder
	for i, a := range activities {
		fmt.Fprintf(&b, "%d. %s (%s, duration:%d minutes, latitude:%s, longitude:%s ,activity_id:%s)\n",
			i+1, a.Name, a.Description, a.DurationMin, formatCoord(a.Latitude), formatCoord(a.Longitude), a.ID)
	}
	return b.String()
}

// Compile builds the system and user messages for activities. The model is
// asked for one JSON record per line so records can be parsed while streaming.
func Compile(activities []domain.Activity, opts Options) []llm.Message {
	return render(systemPrompt, activities, opts)
}

// CompileStructured builds messages asking for the whole itinerary as one
// {"items": [...]} JSON object.
func CompileStructured(activities []domain.Activity, opts Options) []llm.Message {
	return render(structuredPrompt, activities, opts)
}

func render(format string, activities []domain.Activity, opts Options) []llm.Message {
	start := opts.Start
	if start.IsZero() {
		start = DefaultStart
	}
	destination := opts.Destination
	if destination == "" {
		destination = "Delhi"
	}

	quoted := lo.Map(activityTypes, func(t domain.ActivityType, _ int) string {
		return strconv.Quote(string(t))
	})
	system := fmt.Sprintf(format,
		strings.Join(quoted, ", "),
		start.Format(isoLayout),
		start.Format("3:04 PM on January 2, 2006"),
	)
	user := fmt.Sprintf("Create an itinerary for these activities in %s:\n%s", destination, FormatActivities(activities))

	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
