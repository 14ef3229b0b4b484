// Package api exposes HTTP handlers for the itinerary service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"example.com/itinerary/internal/auth"
	"example.com/itinerary/internal/classify"
	"example.com/itinerary/internal/itinerary"
	httptransport "example.com/itinerary/internal/transport/http"
)

// Streamer produces an itinerary event stream for one user.
type Streamer interface {
	Stream(ctx context.Context, userID string, sink itinerary.Sink) (itinerary.Summary, error)
}

// Classifier maps a trip description to activity categories.
type Classifier interface {
	Classify(ctx context.Context, description string) ([]classify.Category, error)
}

// Sampler plans a fixed demonstration itinerary in one model call.
type Sampler interface {
	Sample(ctx context.Context) (itinerary.Itinerary, error)
}

// Handler coordinates HTTP requests with the planner, classifier and sampler.
type Handler struct {
	planner     Streamer
	classifier  Classifier
	sampler     Sampler
	allowOrigin string
	logger      *zap.Logger
}

// NewHandler builds a Handler. classifier and sampler may be nil, in which
// case their routes are not registered.
func NewHandler(planner Streamer, classifier Classifier, sampler Sampler, allowOrigin string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{planner: planner, classifier: classifier, sampler: sampler, allowOrigin: allowOrigin, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /stream-itinerary-sse/{userId}", h.streamItinerary)
	if h.classifier != nil {
		mux.HandleFunc("POST /get-recommendations", h.recommendations)
	}
	if h.sampler != nil {
		mux.HandleFunc("GET /sample-response", h.sampleResponse)
	}
	mux.HandleFunc("GET /health", health)
	mux.HandleFunc("GET /healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Server healthy")
}

func (h *Handler) streamItinerary(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("userId"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user id")
		return
	}

	fields := []zap.Field{zap.String("user_id", userID)}
	if claims, ok := auth.FromContext(r.Context()); ok {
		fields = append(fields, zap.String("subject", claims.Subject))
	}

	// The response is committed once the first frame is out, so errors are
	// only logged.
	summary, err := h.planner.Stream(r.Context(), userID, httptransport.NewSSEWriter(w, h.allowOrigin))
	fields = append(fields, zap.String("stream_id", summary.StreamID), zap.String("outcome", summary.Outcome))
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	h.logger.Debug("itinerary stream served", fields...)
}

// RecommendationsRequest is the payload for POST /get-recommendations.
type RecommendationsRequest struct {
	Description string `json:"description"`
}

// RecommendationsResponse lists the inferred categories.
type RecommendationsResponse struct {
	CategoryList []classify.Category `json:"category_list"`
}

func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	categories, err := h.classifier.Classify(r.Context(), req.Description)
	if err != nil {
		if errors.Is(err, classify.ErrEmptyDescription) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		h.logger.Error("classification failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, RecommendationsResponse{CategoryList: categories})
}

// SampleResponse wraps a one-shot itinerary.
type SampleResponse struct {
	Itinerary itinerary.Itinerary `json:"itinerary"`
}

func (h *Handler) sampleResponse(w http.ResponseWriter, r *http.Request) {
	plan, err := h.sampler.Sample(r.Context())
	if err != nil {
		h.logger.Error("sample itinerary failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, SampleResponse{Itinerary: plan})
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
