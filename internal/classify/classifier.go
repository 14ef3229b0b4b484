// Package classify infers activity categories from a free-text trip description.
package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"example.com/itinerary/internal/llm"
	"example.com/itinerary/internal/observability"
)

// Categories is the closed set a classification may return.
var Categories = []string{
	"Fitness", "Sensory", "Food & Drink", "Art", "History", "Accommodation",
	"Spiritual", "Retail Therapy", "Water Sports", "Local Experience", "Patriotic",
	"Relaxation", "Educational", "Recreational", "Sightseeing", "Food & Culture",
	"Nature", "Adventure", "Wellness", "Cultural", "Leisure", "Heritage",
}

// ErrEmptyDescription is returned for blank input.
var ErrEmptyDescription = errors.New("description is required")

// ErrUnparseable is returned when the model answer is not the expected JSON.
var ErrUnparseable = errors.New("unparseable classification")

// Category is one entry of a classification result.
type Category struct {
	Type string `json:"category_type"`
}

const systemPrompt = `You are a helpful assistant that receives user descriptions about their desired trip experience.
Your task is to analyze these descriptions and infer the types of activity categories the user is most likely interested in.
You are allowed to infer loosely, and try to associate as many categories as you can.
Allowed categories: %s.
Respond with a JSON object of the form {"category_list":[{"category_type":"<category>"}]}.`

// Config tunes the classifier.
type Config struct {
	Model       string
	Temperature float64
	CacheTTL    time.Duration
}

// Classifier maps descriptions to categories, caching answers per description.
type Classifier struct {
	completer llm.Completer
	cfg       Config
	cache     *cache.Cache
	logger    *zap.Logger
	allowed   map[string]struct{}
}

// New constructs a Classifier.
func New(completer llm.Completer, cfg Config, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	return &Classifier{
		completer: completer,
		cfg:       cfg,
		cache:     cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:    logger,
		allowed:   lo.SliceToMap(Categories, func(c string) (string, struct{}) { return c, struct{}{} }),
	}
}

// Classify returns the categories the model associates with description.
func (c *Classifier) Classify(ctx context.Context, description string) ([]Category, error) {
	key := strings.TrimSpace(description)
	if key == "" {
		return nil, ErrEmptyDescription
	}
	if cached, ok := c.cache.Get(key); ok {
		observability.RecordClassifierLookup(true)
		return cached.([]Category), nil
	}
	observability.RecordClassifierLookup(false)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: fmt.Sprintf(systemPrompt, strings.Join(Categories, ", "))},
		{Role: llm.RoleUser, Content: description},
	}
	answer, err := c.completer.Complete(ctx, messages, llm.CompleteOptions{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	categories, err := c.parse(answer)
	if err != nil {
		c.logger.Warn("classification answer rejected", zap.String("answer", answer), zap.Error(err))
		return nil, err
	}
	c.cache.SetDefault(key, categories)
	return categories, nil
}

func (c *Classifier) parse(answer string) ([]Category, error) {
	if !gjson.Valid(answer) {
		return nil, ErrUnparseable
	}
	list := gjson.Get(answer, "category_list")
	if !list.IsArray() {
		return nil, ErrUnparseable
	}
	names := lo.FilterMap(list.Array(), func(item gjson.Result, _ int) (string, bool) {
		name := item.Get("category_type").String()
		_, ok := c.allowed[name]
		return name, ok
	})
	return lo.Map(lo.Uniq(names), func(name string, _ int) Category {
		return Category{Type: name}
	}), nil
}
