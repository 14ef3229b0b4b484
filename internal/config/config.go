// Package config centralises configuration parsing for the itinerary service.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration values for the itinerary service.
type Config struct {
	HTTPAddress     string
	SpringAPIURL    string        // Base URL of the activities service.
	UpstreamTimeout time.Duration // Bound on the activities fetch.

	OpenAIAPIKey   string
	OpenAIBaseURL  string
	LLMModel       string
	LLMTemperature float64
	LLMStreaming   bool
	LLMMaxRetries  int

	ClassifierModel    string
	ClassifierCacheTTL time.Duration

	Destination   string
	ItineraryFrom time.Time // Start of the first activity in generated itineraries.
	StrictRecords bool

	KafkaBrokers   []string
	ItineraryTopic string

	JWTSecret string
	JWTIssuer string

	CORSAllowOrigin string
	LogLevel        string
	LogFormat       string
}

// DefaultItineraryStart is used when ITINERARY_START is unset or unparseable.
var DefaultItineraryStart = time.Date(2025, time.July, 15, 8, 0, 0, 0, time.UTC)

// ErrMissingUpstream is returned by Validate when no activities service is configured.
var ErrMissingUpstream = errors.New("SPRING_API_URL is required")

// Load reads environment variables into Config, applying sensible defaults for local dev.
func Load() Config {
	cfg := Config{
		HTTPAddress:        getEnv("HTTP_ADDRESS", ":8000"),
		SpringAPIURL:       strings.TrimRight(getEnv("SPRING_API_URL", ""), "/"),
		UpstreamTimeout:    getDurationEnv("UPSTREAM_TIMEOUT", 10*time.Second),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
		LLMModel:           getEnv("LLM_MODEL", "gpt-4.1"),
		LLMTemperature:     getFloatEnv("LLM_TEMPERATURE", 0.1),
		LLMStreaming:       getBoolEnv("LLM_STREAMING", true),
		LLMMaxRetries:      getIntEnv("LLM_MAX_RETRIES", 2),
		ClassifierModel:    getEnv("CLASSIFIER_MODEL", "gpt-4.1"),
		ClassifierCacheTTL: getDurationEnv("CLASSIFIER_CACHE_TTL", time.Hour),
		Destination:        getEnv("ITINERARY_DESTINATION", "Delhi"),
		ItineraryFrom:      getTimeEnv("ITINERARY_START", DefaultItineraryStart),
		StrictRecords:      getBoolEnv("STRICT_RECORDS", false),
		ItineraryTopic:     getEnv("ITINERARY_TOPIC", "itinerary_events"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTIssuer:          getEnv("JWT_ISSUER", ""),
		CORSAllowOrigin:    getEnv("CORS_ALLOW_ORIGIN", "*"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}

	cfg.KafkaBrokers = splitAndTrim(getEnv("KAFKA_BROKERS", ""))
	return cfg
}

// Validate reports configuration the service cannot start without.
func (c Config) Validate() error {
	if c.SpringAPIURL == "" {
		return ErrMissingUpstream
	}
	return nil
}

// PublishingEnabled reports whether finished itineraries go to Kafka.
func (c Config) PublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getTimeEnv accepts RFC 3339 or a zone-less "2006-01-02T15:04:05" read as UTC.
func getTimeEnv(key string, fallback time.Time) time.Time {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return fallback
}
