package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"example.com/itinerary/internal/api"
	"example.com/itinerary/internal/auth"
	"example.com/itinerary/internal/classify"
	"example.com/itinerary/internal/config"
	"example.com/itinerary/internal/eventbus"
	"example.com/itinerary/internal/itinerary"
	"example.com/itinerary/internal/llm"
	"example.com/itinerary/internal/observability"
	"example.com/itinerary/internal/parser"
	"example.com/itinerary/internal/prompt"
	httptransport "example.com/itinerary/internal/transport/http"
	"example.com/itinerary/internal/upstream"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides HTTP_ADDRESS)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if serveAddr != "" {
		cfg.HTTPAddress = serveAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model := llm.NewOpenAI(llm.Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIBaseURL,
		Model:       cfg.LLMModel,
		Temperature: cfg.LLMTemperature,
		Streaming:   cfg.LLMStreaming,
		MaxRetries:  cfg.LLMMaxRetries,
	})

	plannerOpts := []itinerary.Option{
		itinerary.WithLogger(logger.Named("planner")),
		itinerary.WithValidator(parser.Validator{Strict: cfg.StrictRecords}),
		itinerary.WithPromptOptions(prompt.Options{Destination: cfg.Destination, Start: cfg.ItineraryFrom}),
	}
	if cfg.PublishingEnabled() {
		publisher := eventbus.NewPublisher(eventbus.NewKafkaWriter(cfg.KafkaBrokers, cfg.ItineraryTopic))
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("closing kafka writer", zap.Error(err))
			}
		}()
		plannerOpts = append(plannerOpts, itinerary.WithPublisher(publisher))
		logger.Info("publishing itineraries", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.ItineraryTopic))
	}
	planner := itinerary.NewPlanner(upstream.NewClient(cfg.SpringAPIURL, cfg.UpstreamTimeout), model, plannerOpts...)

	classifier := classify.New(model, classify.Config{
		Model:       cfg.ClassifierModel,
		Temperature: cfg.LLMTemperature,
		CacheTTL:    cfg.ClassifierCacheTTL,
	}, logger.Named("classify"))

	oneShot := itinerary.NewOneShot(model, cfg.LLMModel, cfg.LLMTemperature, logger.Named("oneshot"))

	mux := http.NewServeMux()
	api.NewHandler(planner, classifier, oneShot, cfg.CORSAllowOrigin, logger.Named("api")).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	handler := authMiddleware.Wrap(httptransport.AccessLog(logger.Named("http"))(httptransport.CORS(cfg.CORSAllowOrigin)(mux)))

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("itinerary-service listening", zap.String("addr", cfg.HTTPAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}
