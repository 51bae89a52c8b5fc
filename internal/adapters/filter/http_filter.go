package filter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mikey/smishing-guard/internal/core"
	"go.uber.org/zap"
)

// HTTPFilter exposes the analysis service over an HTTP API mirroring
// the /analyze/text surface of the upstream service
type HTTPFilter struct {
	service         *core.AnalyzerService
	logger          *zap.Logger
	listenAddr      string
	readTimeout     time.Duration
	shutdownTimeout time.Duration
	server          *http.Server
}

// NewHTTPFilter creates a new HTTP filter
func NewHTTPFilter(
	service *core.AnalyzerService,
	logger *zap.Logger,
	listenAddr string,
	readTimeout time.Duration,
	shutdownTimeout time.Duration,
) *HTTPFilter {
	return &HTTPFilter{
		service:         service,
		logger:          logger,
		listenAddr:      listenAddr,
		readTimeout:     readTimeout,
		shutdownTimeout: shutdownTimeout,
	}
}

// analyzeTextRequest is the JSON body of POST /analyze/text
type analyzeTextRequest struct {
	Text      string `json:"text"`
	Sender    string `json:"sender,omitempty"`
	Timestamp string `json:"timestamp,omitempty"` // RFC 3339
}

// ProcessMessage analyzes a message with the underlying service
func (f *HTTPFilter) ProcessMessage(ctx context.Context, msg *core.Message) (*core.AnalysisResult, error) {
	return f.service.AnalyzeText(ctx, msg), nil
}

// Start starts the HTTP server
func (f *HTTPFilter) Start() error {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Get("/", f.handleRoot)
	router.Get("/health", f.handleHealth)
	router.Post("/analyze/text", f.handleAnalyzeText)

	f.server = &http.Server{
		Addr:         f.listenAddr,
		Handler:      router,
		ReadTimeout:  f.readTimeout,
		WriteTimeout: 2 * f.readTimeout,
	}

	f.logger.Info("HTTP filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (f *HTTPFilter) Stop() error {
	if f.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), f.shutdownTimeout)
	defer cancel()
	return f.server.Shutdown(ctx)
}

func (f *HTTPFilter) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "smishing-guard API",
		"status":  "running",
		"endpoints": map[string]string{
			"POST /analyze/text": "analyze a text message",
			"GET /health":        "health check",
		},
	})
}

func (f *HTTPFilter) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (f *HTTPFilter) handleAnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}

	msg := &core.Message{
		Text:   req.Text,
		Sender: req.Sender,
	}
	if req.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "timestamp must be RFC 3339")
			return
		}
		msg.Timestamp = ts
	}

	result := f.service.AnalyzeText(r.Context(), msg)

	f.logger.Info("Analyzed message",
		zap.String("processing_id", result.ProcessingID),
		zap.Int("risk_score", result.RiskScore),
		zap.String("risk_level", result.RiskLevel),
		zap.Bool("is_smishing", result.IsSmishing))

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
