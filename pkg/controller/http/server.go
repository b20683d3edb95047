package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/healthmon-lab/panacea/pkg/domain/interfaces"
	"github.com/healthmon-lab/panacea/pkg/domain/model"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
	"github.com/healthmon-lab/panacea/pkg/utils/errutil"
	"github.com/healthmon-lab/panacea/pkg/utils/logging"
	"github.com/healthmon-lab/panacea/pkg/utils/safe"
)

// Analyzer is the pipeline surface the HTTP controller depends on
type Analyzer interface {
	Process(ctx context.Context, conv *model.Conversation) (*model.RecommendationResult, error)
}

// Server serves the analyze API over HTTP
type Server struct {
	router   *chi.Mux
	analyzer Analyzer
	index    interfaces.GuidelineIndex
}

// New creates the HTTP server
func New(analyzer Analyzer, idx interfaces.GuidelineIndex) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:   r,
		analyzer: analyzer,
		index:    idx,
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
	})

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":   "ok",
		"passages": s.index.Size(),
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

// analyzeRequest is the POST /api/analyze body
type analyzeRequest struct {
	Conversation model.Conversation `json:"conversation"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if req.Conversation.ID == "" {
		req.Conversation.ID = types.NewConversationID()
	}

	result, err := s.analyzer.Process(ctx, &req.Conversation)
	if err != nil {
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to encode response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, raw)
}

// accessLogger logs one line per request with method, path, status and latency
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logging.From(r.Context()).Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
