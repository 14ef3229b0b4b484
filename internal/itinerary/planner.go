// Package itinerary streams a model-generated itinerary for a user's selected activities.
package itinerary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"example.com/itinerary/internal/domain"
	"example.com/itinerary/internal/events"
	"example.com/itinerary/internal/llm"
	"example.com/itinerary/internal/observability"
	"example.com/itinerary/internal/parser"
	"example.com/itinerary/internal/prompt"
)

// Fetcher loads the activities a user selected.
type Fetcher interface {
	FetchActivities(ctx context.Context, userID string) ([]domain.Activity, error)
}

// Sink receives stream events in order. A Send error means the client is gone.
type Sink interface {
	Send(events.Event) error
}

// Publisher hands a finished itinerary to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event events.ItineraryGenerated) error
}

// Option configures optional behaviour for the Planner.
type Option func(*Planner)

// WithLogger overrides the logger used for stream diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// WithValidator sets the record validator applied to model output.
func WithValidator(v parser.Validator) Option {
	return func(p *Planner) {
		p.validator = v
	}
}

// WithPromptOptions sets the trip framing passed to the model.
func WithPromptOptions(opts prompt.Options) Option {
	return func(p *Planner) {
		p.promptOpts = opts
	}
}

// WithPublisher publishes every completed itinerary.
func WithPublisher(pub Publisher) Option {
	return func(p *Planner) {
		p.publisher = pub
	}
}

// Planner runs one sequential pipeline per request. It holds no per-stream
// state, so a single Planner serves concurrent requests.
type Planner struct {
	fetcher        Fetcher
	source         llm.TokenSource
	promptOpts     prompt.Options
	validator      parser.Validator
	publisher      Publisher
	publishTimeout time.Duration
	logger         *zap.Logger
}

// NewPlanner constructs a Planner.
func NewPlanner(fetcher Fetcher, source llm.TokenSource, opts ...Option) *Planner {
	p := &Planner{
		fetcher:        fetcher,
		source:         source,
		publishTimeout: 5 * time.Second,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Summary describes how a stream ended.
type Summary struct {
	StreamID string
	UserID   string
	Items    int
	Outcome  string
	// Discarded is the unterminated model output dropped at end of stream.
	Discarded string
}

// Stream produces the itinerary for userID into sink. On success the sink
// sees connected, the items, then complete, and the error is nil. A fetch
// failure sends a single error event. A model failure after connected sends
// an error event. When the client goes away no terminal event is sent and the
// cancellation or write error is returned.
func (p *Planner) Stream(ctx context.Context, userID string, sink Sink) (Summary, error) {
	started := time.Now()
	summary := Summary{StreamID: uuid.NewString(), UserID: userID}
	logger := p.logger.With(zap.String("stream_id", summary.StreamID), zap.String("user_id", userID))

	err := p.run(ctx, logger, sink, &summary)

	observability.RecordStream(summary.Outcome, time.Since(started))
	fields := []zap.Field{
		zap.String("outcome", summary.Outcome),
		zap.Int("items", summary.Items),
		zap.Duration("elapsed", time.Since(started)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logger.Info("itinerary stream finished", fields...)
	return summary, err
}

func (p *Planner) run(ctx context.Context, logger *zap.Logger, sink Sink, summary *Summary) error {
	fetchStarted := time.Now()
	activities, err := p.fetcher.FetchActivities(ctx, summary.UserID)
	observability.ObserveUpstreamFetch(time.Since(fetchStarted))
	if err != nil {
		if ctx.Err() != nil {
			summary.Outcome = observability.OutcomeDisconnected
			return ctx.Err()
		}
		summary.Outcome = observability.OutcomeFetchError
		return p.fail(sink, err)
	}
	logger.Debug("activities fetched", zap.Int("count", len(activities)))

	if err := sink.Send(events.Connected()); err != nil {
		summary.Outcome = observability.OutcomeDisconnected
		return err
	}

	stream, err := p.source.Stream(ctx, prompt.Compile(activities, p.promptOpts))
	if err != nil {
		return p.modelFailure(ctx, sink, summary, err)
	}
	defer stream.Close()

	consumer := parser.NewConsumer(
		parser.WithValidator(p.validator),
		parser.WithRejectHook(func(r parser.Rejection) {
			observability.RecordRejection(string(r.Reason))
			if r.Reason == parser.ReasonNotObject {
				logger.Debug("skipping non-record line", zap.String("line", r.Line))
				return
			}
			logger.Warn("skipping invalid record", zap.String("reason", string(r.Reason)), zap.String("line", r.Line))
		}),
	)

	var items []domain.ItineraryItem
	for {
		fragment, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return p.modelFailure(ctx, sink, summary, err)
		}

		for _, item := range consumer.Append(fragment) {
			if err := sink.Send(events.Item(item)); err != nil {
				summary.Outcome = observability.OutcomeDisconnected
				return err
			}
			observability.RecordItem()
			items = append(items, item)
			summary.Items++
		}
	}

	if tail := consumer.Finish(); strings.TrimSpace(tail) != "" {
		summary.Discarded = tail
		observability.RecordDiscardedTail()
		logger.Warn("dropping unterminated model output", zap.String("tail", tail))
	}

	if err := sink.Send(events.Complete()); err != nil {
		summary.Outcome = observability.OutcomeDisconnected
		return err
	}
	summary.Outcome = observability.OutcomeComplete

	p.publish(ctx, logger, summary, items)
	return nil
}

func (p *Planner) modelFailure(ctx context.Context, sink Sink, summary *Summary, err error) error {
	if ctx.Err() != nil {
		summary.Outcome = observability.OutcomeDisconnected
		return ctx.Err()
	}
	summary.Outcome = observability.OutcomeModelError
	return p.fail(sink, fmt.Errorf("%w: %v", domain.ErrTokenSource, err))
}

// fail sends the terminal error event. The pipeline error is returned either way.
func (p *Planner) fail(sink Sink, err error) error {
	_ = sink.Send(events.Error(domain.ClientMessage(err)))
	return err
}

func (p *Planner) publish(ctx context.Context, logger *zap.Logger, summary *Summary, items []domain.ItineraryItem) {
	if p.publisher == nil {
		return
	}
	if items == nil {
		items = []domain.ItineraryItem{}
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.publishTimeout)
	defer cancel()

	event := events.ItineraryGenerated{
		EventID:     uuid.NewString(),
		StreamID:    summary.StreamID,
		UserID:      summary.UserID,
		Items:       items,
		GeneratedAt: time.Now().UTC(),
	}
	if err := p.publisher.Publish(pubCtx, event); err != nil {
		observability.RecordPublishFailure()
		logger.Error("failed to publish itinerary", zap.Error(err))
	}
}
