package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appanalyses "github.com/bryanwahyu/cv-analyzer/internal/application/analyses"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
	"github.com/bryanwahyu/cv-analyzer/internal/middleware"
)

// maxBodyBytes bounds a request body: the 10MB upload limit plus JSON overhead.
const maxBodyBytes = 12 << 20

// Options carries the optional pieces of the router.
type Options struct {
	AllowedOrigins []string
	Limiter        *middleware.RateLimiter
	Metrics        *middleware.Metrics
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	svc     *appanalyses.Service
	metrics *middleware.Metrics
}

func NewRouter(svc *appanalyses.Service, opts Options) http.Handler {
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	r := &Router{svc: svc, metrics: opts.Metrics}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(opts.Metrics.Middleware)
	if opts.Limiter != nil {
		mux.Use(middleware.RateLimitMiddleware(opts.Limiter, time.Minute, func() { opts.Metrics.RateLimited.Add(1) }))
	}

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/metrics", opts.Metrics.Handler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/rewrite-summary", r.wrap(r.handleRewriteSummary))
		rt.Get("/history", r.wrap(r.handleHistory))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var ve *middleware.ValidationError
		switch {
		case errors.As(err, &ve):
			http.Error(w, ve.Error(), http.StatusBadRequest)
		case errors.Is(err, appanalyses.ErrEmptyText):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, sql.ErrNoRows):
			http.Error(w, "not found", http.StatusNotFound)
		default:
			log.Printf("request failed request_id=%s path=%s err=%v", chimw.GetReqID(req.Context()), req.URL.Path, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

type textRequest struct {
	Text string `json:"text" validate:"required,notblank"`
}

func decodeText(w http.ResponseWriter, req *http.Request) (string, error) {
	var body textRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", middleware.BadRequest("request body too large")
		}
		if errors.Is(err, io.EOF) {
			return "", middleware.BadRequest("text is required")
		}
		return "", middleware.BadRequest("invalid JSON body: %v", err)
	}
	// Postgres TEXT rejects NUL bytes
	body.Text = middleware.SanitizeString(body.Text)
	if err := middleware.ValidateStruct(body); err != nil {
		return "", err
	}
	return body.Text, nil
}

// POST /api/analyze
// Body: {"text": "<cv text>"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	text, err := decodeText(w, req)
	if err != nil {
		return err
	}

	r.metrics.AnalysesTotal.Add(1)
	res, err := r.svc.AnalyzeAndStore(req.Context(), text)
	if err != nil {
		r.metrics.AnalysesFailed.Add(1)
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(res)
}

// POST /api/rewrite-summary
// Body: {"text": "<cv text>"} -> {"rewritten": "<summary>"}
func (r *Router) handleRewriteSummary(w http.ResponseWriter, req *http.Request) error {
	text, err := decodeText(w, req)
	if err != nil {
		return err
	}

	r.metrics.SummaryRewrites.Add(1)
	out, err := r.svc.RewriteSummary(req.Context(), text)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]string{"rewritten": out})
}

// GET /api/history?limit=20
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	limit := 0
	if raw := req.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return middleware.BadRequest("limit must be an integer")
		}
		limit = n
	}

	list, err := r.svc.History(req.Context(), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*analysis.Result{}
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}
