package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"example.com/itinerary/internal/events"
)

// WriteFrame writes e as a single text/event-stream frame: "data: <json>\n\n".
func WriteFrame(w io.Writer, e events.Event) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	frame := make([]byte, 0, len(raw)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, raw...)
	frame = append(frame, '\n', '\n')
	_, err = w.Write(frame)
	return err
}

// SSEWriter streams events to one client, flushing after every frame.
type SSEWriter struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
}

// NewSSEWriter prepares w for an event stream. The server write deadline is
// lifted for this response because streams outlive ordinary requests.
func NewSSEWriter(w http.ResponseWriter, allowOrigin string) *SSEWriter {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set("Access-Control-Allow-Origin", allowOrigin)
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "*")

	rc := http.NewResponseController(w)
	// Not every ResponseWriter supports deadlines; those have none to lift.
	_ = rc.SetWriteDeadline(time.Time{})
	return &SSEWriter{w: w, rc: rc}
}

// Send writes and flushes one event.
func (s *SSEWriter) Send(e events.Event) error {
	if !s.started {
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}
	if err := WriteFrame(s.w, e); err != nil {
		return err
	}
	if err := s.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
