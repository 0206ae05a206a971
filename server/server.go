package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/pdfdiff"
	"github.com/tsawler/pdfdiff/changes"
	"github.com/tsawler/pdfdiff/config"
	"github.com/tsawler/pdfdiff/extract"
	"github.com/tsawler/pdfdiff/model"
	"github.com/tsawler/pdfdiff/render"
	"github.com/tsawler/pdfdiff/textdiff"
)

// CompareRequest is the body of POST /compare.
type CompareRequest struct {
	Left        *extract.Document     `json:"left"`
	Right       *extract.Document     `json:"right"`
	Granularity *textdiff.Granularity `json:"granularity,omitempty"`
	Timeout     string                `json:"timeout,omitempty"` // positive Go duration, e.g. "2s"
	Simplify    *bool                 `json:"simplify,omitempty"`
}

// CompareResponse is the JSON reply of POST /compare.
type CompareResponse struct {
	Changes []model.Change  `json:"changes"`
	Summary changes.Summary `json:"summary"`
}

// Server serves comparisons using a base configuration that requests can
// partly override.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	router *chi.Mux
}

// New creates a Server. A nil cfg means config.Default, a nil logger
// slog.Default.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/compare", s.handleCompare)

	s.router = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the configured address until ctx is canceled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Left == nil || req.Right == nil {
		s.writeError(w, http.StatusBadRequest, errors.New("left and right documents are required"))
		return
	}

	cmp := pdfdiff.FromDocuments(req.Left, req.Right).
		WithConfig(*s.cfg).
		Logger(s.logger)
	if req.Granularity != nil {
		cmp = cmp.Granularity(*req.Granularity)
	}
	if req.Timeout != "" {
		d, err := time.ParseDuration(req.Timeout)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid timeout: %w", err))
			return
		}
		if d <= 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("timeout %s must be positive", d))
			return
		}
		if limit := s.cfg.Diff.Timeout; limit > 0 && d > limit {
			d = limit
		}
		cmp = cmp.Timeout(d)
	}
	if req.Simplify != nil {
		cmp = cmp.SimplifyBoxes(*req.Simplify)
	}

	list, err := cmp.Changes(r.Context())
	if err != nil {
		s.logger.Warn("compare failed",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		s.writeError(w, statusFor(err), err)
		return
	}

	if r.URL.Query().Get("format") == "png" {
		s.writePNG(w, r, list)
		return
	}

	s.writeJSON(w, http.StatusOK, CompareResponse{
		Changes: list,
		Summary: changes.Summarize(list),
	})
}

// writePNG renders list with the configured styles. ?width= overrides the
// page width. Pages are drawn blank: file names in a request are never
// handed to pdftoppm.
func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, list []model.Change) {
	opts, err := s.cfg.RenderOptions()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	opts.Logger = s.logger
	if v := r.URL.Query().Get("width"); v != "" {
		width, err := strconv.Atoi(v)
		if err != nil || width <= 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid width %q", v))
			return
		}
		opts.Width = width
	}

	img, err := render.Draw(r.Context(), list, opts)
	if errors.Is(err, render.ErrNoChanges) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		s.logger.Error("writing png", "error", err)
	}
}

// statusFor maps comparison errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, changes.ErrPrecondition), errors.Is(err, textdiff.ErrTokenAlphabet):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// logRequests logs each request once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("writing response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, err error) {
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}
