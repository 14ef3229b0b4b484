// Package parser extracts itinerary records from a model's line-oriented
// output while the output is still arriving.
package parser

import (
	"bytes"

	"example.com/itinerary/internal/domain"
)

// Rejection describes a complete line that was skipped.
type Rejection struct {
	Reason Reason
	Line   string
}

// Result is the outcome of one drain pass over a buffer.
type Result struct {
	// Records holds the accepted items in the order their lines appeared.
	Records []domain.ItineraryItem
	// Rejected holds every non-blank complete line that was skipped in this pass.
	Rejected []Rejection
	// Consumed is the length of the prefix ending after the last accepted line.
	Consumed int
	// Scanned is how many bytes of the remainder are complete lines already
	// inspected. Passing it back as resume avoids inspecting them again.
	Scanned int
}

// Drain scans buf for newline-terminated lines starting at offset resume. The
// trailing segment without a newline is never inspected. Each accepted line
// moves Consumed past itself, discarding any rejected lines before it.
func (v Validator) Drain(buf []byte, resume int) Result {
	if resume < 0 || resume > len(buf) {
		resume = 0
	}

	var res Result
	pos := resume
	for {
		idx := bytes.IndexByte(buf[pos:], '\n')
		if idx < 0 {
			break
		}
		line := buf[pos : pos+idx]
		next := pos + idx + 1

		item, reason := v.Parse(line)
		switch reason {
		case ReasonNone:
			res.Records = append(res.Records, item)
			res.Consumed = next
		case ReasonBlank:
		default:
			res.Rejected = append(res.Rejected, Rejection{Reason: reason, Line: string(bytes.TrimSpace(line))})
		}
		pos = next
	}
	res.Scanned = pos - res.Consumed
	return res
}

// Drain extracts every record from buf with the default validator and returns
// them together with the unconsumed remainder.
func Drain(buf string) ([]domain.ItineraryItem, string) {
	res := Validator{}.Drain([]byte(buf), 0)
	return res.Records, buf[res.Consumed:]
}
