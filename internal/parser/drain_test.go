package parser

import (
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"example.com/itinerary/internal/domain"
)

func record(name, typ, start, end, id string) string {
	raw, err := json.Marshal(map[string]string{
		"activity_name": name,
		"activity_type": typ,
		"start_time":    start,
		"end_time":      end,
		"activity_id":   id,
	})
	if err != nil {
		panic(err)
	}
	return string(raw)
}

func item(name, typ, start, end, id string) domain.ItineraryItem {
	return domain.ItineraryItem{
		ActivityName: name,
		ActivityType: domain.ActivityType(typ),
		StartTime:    start,
		EndTime:      end,
		ActivityID:   id,
	}
}

var (
	trekLine = `{"activity_name":"Trek","activity_type":"adventure","start_time":"2025-07-15T08:00:00","end_time":"2025-07-15T10:00:00","activity_id":"a1"}`
	restLine = `{"activity_name":"Rest","activity_type":"rest","start_time":"2025-07-15T10:00:00","end_time":"2025-07-15T10:30:00","activity_id":"r-xyz"}`
	trekItem = item("Trek", "adventure", "2025-07-15T08:00:00", "2025-07-15T10:00:00", "a1")
	restItem = item("Rest", "rest", "2025-07-15T10:00:00", "2025-07-15T10:30:00", "r-xyz")
)

// mixedResponse interleaves prose, one broken line and one incomplete record
// with four valid records.
func mixedResponse() (string, []domain.ItineraryItem) {
	museum := record("Red Fort", "tourist attraction", "2025-07-15T11:00:00", "2025-07-15T13:00:00", "a2")
	cab := record("Cab to Chandni Chowk", "commute", "2025-07-15T13:00:00", "2025-07-15T13:20:00", "c-1")
	lines := []string{
		"Sure! Here is the itinerary:",
		trekLine,
		"",
		`{"activity_name": "Broken", "activity_type": }`,
		restLine,
		`{"activity_name":"NoID","activity_type":"rest","start_time":"2025-07-15T10:30:00","end_time":"2025-07-15T11:00:00"}`,
		"  " + museum + "  ",
		"Enjoy your trip.",
		cab,
	}
	want := []domain.ItineraryItem{
		trekItem,
		restItem,
		item("Red Fort", "tourist attraction", "2025-07-15T11:00:00", "2025-07-15T13:00:00", "a2"),
		item("Cab to Chandni Chowk", "commute", "2025-07-15T13:00:00", "2025-07-15T13:20:00", "c-1"),
	}
	return strings.Join(lines, "\n") + "\n", want
}

func feed(fragments []string, opts ...ConsumerOption) ([]domain.ItineraryItem, string) {
	c := NewConsumer(opts...)
	var out []domain.ItineraryItem
	for _, fragment := range fragments {
		out = append(out, c.Append(fragment)...)
	}
	return out, c.Finish()
}

func chunk(s string, size int) []string {
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	return append(out, s)
}

func randomChunks(s string, rng *rand.Rand) []string {
	var out []string
	for len(s) > 0 {
		n := 1 + rng.Intn(40)
		if n > len(s) {
			n = len(s)
		}
		out = append(out, s[:n])
		s = s[n:]
	}
	return out
}

func TestDrainKeepsIncompleteTail(t *testing.T) {
	records, remainder := Drain(trekLine + "\n" + `{"activity_name":"Re`)
	require.Equal(t, []domain.ItineraryItem{trekItem}, records)
	require.Equal(t, `{"activity_name":"Re`, remainder)
}

func TestDrainDiscardsRejectedLinesBeforeARecord(t *testing.T) {
	records, remainder := Drain("intro\n{bad}\n" + trekLine + "\noutro\npartial")
	require.Equal(t, []domain.ItineraryItem{trekItem}, records)
	require.Equal(t, "outro\npartial", remainder)
}

func TestDrainWithoutRecordsKeepsEverything(t *testing.T) {
	buf := "thinking...\n{\"activity_name\":\"X\"}\n"
	res := Validator{}.Drain([]byte(buf), 0)
	require.Empty(t, res.Records)
	require.Equal(t, 0, res.Consumed)
	require.Equal(t, len(buf), res.Scanned)
	require.Equal(t, []Rejection{
		{Reason: ReasonNotObject, Line: "thinking..."},
		{Reason: ReasonMissingField, Line: `{"activity_name":"X"}`},
	}, res.Rejected)
}

func TestDrainResumeSkipsScannedLines(t *testing.T) {
	buf := []byte("prose\n" + trekLine + "\n")
	res := Validator{}.Drain(buf, len("prose\n"))
	require.Empty(t, res.Rejected)
	require.Equal(t, []domain.ItineraryItem{trekItem}, res.Records)
	require.Equal(t, len(buf), res.Consumed)

	// an out of range resume falls back to a full scan
	res = Validator{}.Drain(buf, len(buf)+10)
	require.Len(t, res.Rejected, 1)
}

func TestConsumerEmitsRecordsInOrder(t *testing.T) {
	response, want := mixedResponse()
	got, tail := feed([]string{response})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, tail)
}

func TestConsumerFragmentGranularityDoesNotChangeOutput(t *testing.T) {
	response, want := mixedResponse()

	splits := map[string][]string{
		"whole":       {response},
		"single byte": chunk(response, 1),
		"seven bytes": chunk(response, 7),
		"lines":       strings.SplitAfter(response, "\n"),
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		splits["random"+string(rune('a'+i))] = randomChunks(response, rng)
	}

	for name, fragments := range splits {
		got, _ := feed(fragments)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s: records mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestConsumerToleratesNoise(t *testing.T) {
	response := strings.Join([]string{
		"Here is the plan for your day.",
		trekLine,
		"Next, take a break:",
		`{"activity_name": "Lunch", "activity_type": "rest",`,
		`{"activity_name":"Lunch","activity_type":"rest","start_time":"2025-07-15T12:00:00","end_time":"2025-07-15T13:00:00"}`,
		restLine,
		"That's all!",
	}, "\n") + "\n"

	var rejected []Rejection
	got, _ := feed(chunk(response, 5), WithRejectHook(func(r Rejection) {
		rejected = append(rejected, r)
	}))

	require.Equal(t, []domain.ItineraryItem{trekItem, restItem}, got)
	reasons := make([]Reason, 0, len(rejected))
	for _, r := range rejected {
		reasons = append(reasons, r.Reason)
	}
	require.Equal(t, []Reason{ReasonNotObject, ReasonNotObject, ReasonNotObject, ReasonMissingField, ReasonNotObject}, reasons)
}

func TestConsumerReportsEachRejectedLineOnce(t *testing.T) {
	var rejected []Rejection
	c := NewConsumer(WithRejectHook(func(r Rejection) {
		rejected = append(rejected, r)
	}))

	require.Empty(t, c.Append("Planning your day\n"))
	require.Empty(t, c.Append(`{"activity_name":`))
	require.Empty(t, c.Append(`"Trek"}`))
	require.Empty(t, c.Append("\n"))
	require.Equal(t, "Planning your day\n{\"activity_name\":\"Trek\"}\n", c.Pending())

	require.Equal(t, []domain.ItineraryItem{trekItem}, c.Append(trekLine+"\n"))
	require.Empty(t, c.Pending())
	require.Len(t, rejected, 2)
}

func TestConsumerDoesNotFlushPartialRecord(t *testing.T) {
	c := NewConsumer()
	require.Empty(t, c.Append(`{"activity_name":"X"`))
	require.Equal(t, `{"activity_name":"X"`, c.Finish())
	require.Empty(t, c.Pending())
}

// A complete record without a trailing newline is still dropped when the
// stream ends. This documents current behaviour rather than desired behaviour.
func TestConsumerDropsUnterminatedFinalRecord(t *testing.T) {
	got, tail := feed([]string{trekLine + "\n", restLine})
	require.Equal(t, []domain.ItineraryItem{trekItem}, got)
	require.Equal(t, restLine, tail)
}

func TestConsumerTwoLineFragments(t *testing.T) {
	got, tail := feed([]string{trekLine + "\n", restLine + "\n"})
	require.Equal(t, []domain.ItineraryItem{trekItem, restItem}, got)
	require.Empty(t, tail)
}

func TestConsumerMultipleRecordsInOneFragment(t *testing.T) {
	c := NewConsumer()
	got := c.Append(trekLine + "\n" + restLine + "\n" + `{"activity_na`)
	require.Equal(t, []domain.ItineraryItem{trekItem, restItem}, got)
	require.Equal(t, `{"activity_na`, c.Pending())
}

func TestConsumerStrictValidator(t *testing.T) {
	reversed := record("Back", "rest", "2025-07-15T11:00:00", "2025-07-15T10:00:00", "r-2")
	got, _ := feed([]string{trekLine + "\n" + reversed + "\n" + restLine + "\n"}, WithValidator(Validator{Strict: true}))
	require.Equal(t, []domain.ItineraryItem{trekItem, restItem}, got)
}
