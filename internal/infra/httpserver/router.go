package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/nattawatp/imagelens/internal/application/analysis"
	"github.com/nattawatp/imagelens/internal/domain/analysis"
	"github.com/nattawatp/imagelens/internal/infra/analytics"
	"github.com/nattawatp/imagelens/internal/infra/fetch"
	"github.com/nattawatp/imagelens/internal/middleware"
)

// VisitorSource serves the analytics payload. Always succeeds; mock data
// stands in when analytics is unconfigured or failing.
type VisitorSource interface {
	Count(ctx context.Context) analytics.VisitorCount
}

// Options tune the router.
type Options struct {
	MaxUploadBytes int64
	RateCapacity   int // analysis requests allowed in a burst
	RateRefill     int // tokens per second
}

const defaultMaxUpload = 20 << 20

type Router struct {
	analysisSvc *appanalysis.Service
	visitors    VisitorSource
	fetcher     *fetch.Fetcher
	logger      *zap.Logger
	maxUpload   int64
}

// NewRouter builds the HTTP surface. CORS is open to all origins: the
// service fronts a public browser viewer, and preflight OPTIONS answers
// 200 empty.
func NewRouter(analysisSvc *appanalysis.Service, visitors VisitorSource, fetcher *fetch.Fetcher, logger *zap.Logger, health map[string]middleware.Configurable, opts Options) http.Handler {
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	r := &Router{
		analysisSvc: analysisSvc,
		visitors:    visitors,
		fetcher:     fetcher,
		logger:      logger,
		maxUpload:   maxUpload,
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))
	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", middleware.HealthHandler(health))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		if opts.RateCapacity > 0 {
			rt.Use(middleware.RateLimit(opts.RateCapacity, opts.RateRefill))
		}
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/analyze-url", r.wrap(r.handleAnalyzeURL))
		rt.Get("/analysis", r.wrap(r.handleCurrent))
		rt.Get("/visitor-count", r.wrap(r.handleVisitorCount))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks client-side input problems.
type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		switch {
		case errors.Is(err, analysis.ErrDecode):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, fetch.ErrBlockedURL):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			var badReq badRequestError
			if errors.As(err, &badReq) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			r.logger.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /api/analyze
// multipart/form-data with an "image" part. Replies immediately with the
// first snapshot: heuristic verdict present, remote verification pending,
// done (cached) or skipped.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxUpload)
	if err := req.ParseMultipartForm(r.maxUpload); err != nil {
		return badRequestError{fmt.Errorf("invalid upload: %w", err)}
	}
	file, header, err := req.FormFile("image")
	if err != nil {
		return badRequestError{fmt.Errorf("missing image part: %w", err)}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return badRequestError{fmt.Errorf("reading upload: %w", err)}
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	if err := middleware.ValidateImageMIME(mimeType); err != nil {
		return badRequestError{err}
	}

	return r.analyze(w, req, appanalysis.AnalyzeInput{
		FileName: middleware.SanitizeFileName(header.Filename),
		MIMEType: mimeType,
		Data:     data,
	})
}

// POST /api/analyze-url
// Body: {"url": "https://..."}. Downloads the image then analyzes it.
func (r *Router) handleAnalyzeURL(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestError{fmt.Errorf("invalid request body: %w", err)}
	}
	if body.URL == "" {
		return badRequestError{errors.New("url is required")}
	}

	data, mimeType, err := r.fetcher.Fetch(req.Context(), body.URL)
	if err != nil {
		if errors.Is(err, fetch.ErrBlockedURL) {
			return err
		}
		return badRequestError{err}
	}

	return r.analyze(w, req, appanalysis.AnalyzeInput{
		FileName: middleware.SanitizeFileName(body.URL),
		MIMEType: mimeType,
		Data:     data,
	})
}

func (r *Router) analyze(w http.ResponseWriter, req *http.Request, in appanalysis.AnalyzeInput) error {
	rec, err := r.analysisSvc.Analyze(req.Context(), in)
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rec)
}

// GET /api/analysis
// Current record snapshot; the remote verdict appears here once attached.
func (r *Router) handleCurrent(w http.ResponseWriter, req *http.Request) error {
	rec, ok := r.analysisSvc.Current()
	if !ok {
		http.Error(w, "no analysis yet", http.StatusNotFound)
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rec)
}

// GET /api/visitor-count
// Always 200; mock payload when analytics is unconfigured or failing.
func (r *Router) handleVisitorCount(w http.ResponseWriter, req *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(r.visitors.Count(req.Context()))
}
