// Package httpapi exposes the bus, badges and popup views over HTTP so a thin
// browser shim can drive the detector.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"FakeNewsDetector/internal/events"
	"FakeNewsDetector/internal/extractor"
	"FakeNewsDetector/internal/infrastructure/badge"
	"FakeNewsDetector/internal/ports"
	"FakeNewsDetector/internal/usecase"
)

const maxDocumentBytes = 5 << 20

// Publisher is the event side of the bus.
type Publisher interface {
	events.Sender
	PublishDocumentReady(ctx context.Context, ev events.DocumentReady)
	PublishSelectionChanged(ctx context.Context, ev events.SelectionChanged)
	PublishTabNavigated(ctx context.Context, ev events.TabNavigated)
}

// Deps wires the handler.
type Deps struct {
	Bus       Publisher
	Presenter *usecase.Presenter
	Badges    *badge.Board
	// Health is optional; without it the classifier route reports 501.
	Health         ports.HealthChecker
	AllowedOrigins []string
	Logger         *slog.Logger
}

type server struct {
	bus       Publisher
	presenter *usecase.Presenter
	badges    *badge.Board
	health    ports.HealthChecker
	logger    *slog.Logger
}

type documentRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

type selectionRequest struct {
	Text string `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler builds the router.
func NewHandler(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &server{
		bus:       deps.Bus,
		presenter: deps.Presenter,
		badges:    deps.Badges,
		health:    deps.Health,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/popup", s.handlePopup)
		r.Get("/classifier/health", s.handleClassifierHealth)
		r.Post("/messages", s.handleMessage)

		r.Route("/tabs/{tabID}", func(r chi.Router) {
			r.Post("/document", s.handleDocument)
			r.Post("/selection", s.handleSelection)
			r.Post("/navigation", s.handleNavigation)
			r.Get("/badge", s.handleBadge)
			r.Post("/analyze", s.handleAnalyze)
		})
	})
	return r
}

func (s *server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleClassifierHealth(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "classifier health check not configured"})
		return
	}
	if err := s.health.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handlePopup(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.presenter.Open(r.Context()))
}

func (s *server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var msg events.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid message body"})
		return
	}
	resp, err := s.bus.Send(r.Context(), msg)
	if errors.Is(err, events.ErrNoHandler) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleDocument(w http.ResponseWriter, r *http.Request) {
	tabID, ok := tabParam(w, r)
	if !ok {
		return
	}
	var req documentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid document body"})
		return
	}
	page, err := extractor.ParseHTML(req.URL, req.HTML)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	s.bus.PublishDocumentReady(r.Context(), events.DocumentReady{TabID: tabID, Page: page})
	writeJSON(w, http.StatusAccepted, s.badges.Get(tabID))
}

func (s *server) handleSelection(w http.ResponseWriter, r *http.Request) {
	tabID, ok := tabParam(w, r)
	if !ok {
		return
	}
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid selection body"})
		return
	}

	s.bus.PublishSelectionChanged(r.Context(), events.SelectionChanged{TabID: tabID, Text: req.Text})
	writeJSON(w, http.StatusAccepted, s.badges.Get(tabID))
}

func (s *server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	tabID, ok := tabParam(w, r)
	if !ok {
		return
	}
	s.bus.PublishTabNavigated(r.Context(), events.TabNavigated{TabID: tabID})
	writeJSON(w, http.StatusOK, s.badges.Get(tabID))
}

func (s *server) handleBadge(w http.ResponseWriter, r *http.Request) {
	tabID, ok := tabParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.badges.Get(tabID))
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	tabID, ok := tabParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.presenter.AnalyzeNow(r.Context(), tabID))
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func tabParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "tabID")
	tabID, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid tab id %q", raw)})
		return 0, false
	}
	return tabID, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
