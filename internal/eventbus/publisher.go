// Package eventbus publishes finished itineraries to Kafka.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"example.com/itinerary/internal/events"
)

// EventTypeHeader carries the event name on every record.
const EventTypeHeader = "event_type"

const itineraryGenerated = "itinerary.generated"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter returns a synchronous writer for topic. Records are hashed
// by key so one user's itineraries land on the same partition.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
	}
}

// Publisher encodes itinerary events and hands them to a single-topic writer.
type Publisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewPublisher constructs a Publisher over writer, usually from NewKafkaWriter.
func NewPublisher(writer messageWriter) *Publisher {
	return &Publisher{
		writer: writer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Publish writes event keyed by user.
func (p *Publisher) Publish(ctx context.Context, event events.ItineraryGenerated) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.GeneratedAt.IsZero() {
		event.GeneratedAt = p.now()
	}

	encoded, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", itineraryGenerated, err)
	}

	record := kafka.Message{
		Key:   []byte(event.UserID),
		Value: encoded,
		Time:  event.GeneratedAt,
		Headers: []kafka.Header{
			{Key: EventTypeHeader, Value: []byte(itineraryGenerated)},
		},
	}
	if err := p.writer.WriteMessages(ctx, record); err != nil {
		return fmt.Errorf("publish %s: %w", itineraryGenerated, err)
	}
	return nil
}

// Close flushes and releases the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
