package parser

import "example.com/itinerary/internal/domain"

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithValidator overrides the record validator.
func WithValidator(v Validator) ConsumerOption {
	return func(c *Consumer) {
		c.validator = v
	}
}

// WithRejectHook registers fn to observe skipped lines. Each complete line is
// reported at most once.
func WithRejectHook(fn func(Rejection)) ConsumerOption {
	return func(c *Consumer) {
		c.onReject = fn
	}
}

// Consumer owns the accumulation buffer of one model stream.
type Consumer struct {
	buf       Buffer
	scanned   int
	validator Validator
	onReject  func(Rejection)
}

// NewConsumer constructs a Consumer with an empty buffer.
func NewConsumer(opts ...ConsumerOption) *Consumer {
	c := &Consumer{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Append adds one fragment and returns the records it completed, in order.
func (c *Consumer) Append(fragment string) []domain.ItineraryItem {
	if fragment == "" {
		return nil
	}
	c.buf.Append(fragment)

	res := c.validator.Drain(c.buf.Bytes(), c.scanned)
	if c.onReject != nil {
		for _, rejection := range res.Rejected {
			c.onReject(rejection)
		}
	}
	c.buf.ConsumePrefix(res.Consumed)
	c.scanned = res.Scanned
	return res.Records
}

// Pending returns the content still held in the buffer.
func (c *Consumer) Pending() string {
	return c.buf.String()
}

// Finish ends the stream and returns the unterminated tail that is discarded.
// A last record without a trailing newline is dropped, never parsed.
func (c *Consumer) Finish() string {
	// TODO(product): decide whether a final record missing its newline should be flushed instead of dropped.
	tail := string(c.buf.Bytes()[c.scanned:])
	c.buf.Reset()
	c.scanned = 0
	return tail
}
