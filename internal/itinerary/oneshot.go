package itinerary

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"example.com/itinerary/internal/domain"
	"example.com/itinerary/internal/llm"
	"example.com/itinerary/internal/observability"
	"example.com/itinerary/internal/parser"
	"example.com/itinerary/internal/prompt"
)

// ErrMalformedItinerary is returned when a one-shot answer carries no items array.
var ErrMalformedItinerary = errors.New("model returned no itinerary items")

// Itinerary is a complete plan returned in a single response.
type Itinerary struct {
	Items []domain.ItineraryItem `json:"items"`
}

// OneShot asks the model for a whole itinerary in one non-streaming call.
// Items are checked with a strict validator; invalid ones are dropped.
type OneShot struct {
	completer llm.Completer
	opts      llm.CompleteOptions
	validator parser.Validator
	logger    *zap.Logger
}

// NewOneShot constructs a OneShot generator using model and temperature.
func NewOneShot(completer llm.Completer, model string, temperature float64, logger *zap.Logger) *OneShot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OneShot{
		completer: completer,
		opts:      llm.CompleteOptions{Model: model, Temperature: temperature, JSON: true},
		validator: parser.Validator{Strict: true},
		logger:    logger,
	}
}

// Sample plans the fixed demonstration day.
func (o *OneShot) Sample(ctx context.Context) (Itinerary, error) {
	return o.Generate(ctx, prompt.SampleActivities, prompt.SampleOptions)
}

// Generate plans activities in one completion.
func (o *OneShot) Generate(ctx context.Context, activities []domain.Activity, opts prompt.Options) (Itinerary, error) {
	answer, err := o.completer.Complete(ctx, prompt.CompileStructured(activities, opts), o.opts)
	if err != nil {
		return Itinerary{}, fmt.Errorf("%w: %v", domain.ErrTokenSource, err)
	}

	items := gjson.Get(answer, "items")
	if !gjson.Valid(answer) || !items.IsArray() {
		o.logger.Warn("one-shot answer rejected", zap.String("answer", answer))
		return Itinerary{}, ErrMalformedItinerary
	}

	plan := Itinerary{Items: []domain.ItineraryItem{}}
	for _, raw := range items.Array() {
		item, reason := o.validator.Parse([]byte(raw.Raw))
		if reason != parser.ReasonNone {
			observability.RecordRejection(string(reason))
			o.logger.Warn("skipping invalid record", zap.String("reason", string(reason)), zap.String("item", raw.Raw))
			continue
		}
		plan.Items = append(plan.Items, item)
	}
	return plan, nil
}
