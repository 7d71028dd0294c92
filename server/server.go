// Package server serves the trade dashboard over HTTP. Every request builds
// its report from the cached snapshot; the snapshot changes only when a
// reload is triggered.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradedash/analytics"
	"github.com/rustyeddy/tradedash/dashboard"
	"github.com/rustyeddy/tradedash/journal"
)

// Reload triggers, used as metric labels.
const (
	TriggerAPI      = "api"
	TriggerSchedule = "schedule"
)

type Server struct {
	cache *journal.Cache
	page  *dashboard.Page
	log   *zap.Logger
	cron  *cron.Cron

	router chi.Router
}

func New(cache *journal.Cache, log *zap.Logger) *Server {
	s := &Server{
		cache: cache,
		page:  dashboard.NewPage(),
		log:   log,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(instrument)

	r.Get("/", s.handleDashboard)
	r.Get("/charts/{name}", s.handleChart)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metricsHandler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Post("/reload", s.handleReload)
	})
	return r
}

// Handler returns the HTTP handler for the dashboard.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ScheduleReload reloads the snapshot on a cron schedule such as
// "@every 5m". Call before Run.
func (s *Server) ScheduleReload(spec string) error {
	if s.cron == nil {
		s.cron = cron.New()
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _ = s.Reload(ctx, TriggerSchedule)
	})
	if err != nil {
		return fmt.Errorf("schedule reload %q: %w", spec, err)
	}
	return nil
}

// Reload replaces the snapshot from the source. A failed reload leaves the
// current snapshot in place.
func (s *Server) Reload(ctx context.Context, trigger string) (*journal.Table, error) {
	start := time.Now()
	t, err := s.cache.Reload(ctx)
	if err != nil {
		ReloadsTotal.WithLabelValues(trigger, "error").Inc()
		s.log.Error("reload failed", zap.String("trigger", trigger), zap.Error(err))
		return nil, err
	}
	ReloadsTotal.WithLabelValues(trigger, "ok").Inc()
	LoadedTrades.Set(float64(t.Len()))
	s.log.Info("snapshot reloaded",
		zap.String("trigger", trigger),
		zap.String("source", t.Source),
		zap.Int("trades", t.Len()),
		zap.Duration("took", time.Since(start)),
	)
	return t, nil
}

// Warm loads the snapshot ahead of the first request.
func (s *Server) Warm(ctx context.Context) error {
	t, err := s.cache.Get(ctx)
	if err != nil {
		return err
	}
	LoadedTrades.Set(float64(t.Len()))
	s.log.Info("snapshot loaded", zap.String("source", t.Source), zap.Int("trades", t.Len()))
	return nil
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if s.cron != nil {
		s.cron.Start()
		defer func() { <-s.cron.Stop().Done() }()
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", zap.String("addr", addr))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.log.Info("shutting down dashboard")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) report(ctx context.Context) (*analytics.Report, error) {
	t, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.Build(t)
}

// failure maps a report error to an HTTP status and a metric label.
func failure(err error) (int, string) {
	var pe *journal.ParseError
	switch {
	case errors.Is(err, journal.ErrEmptyData):
		return http.StatusUnprocessableEntity, "empty"
	case errors.Is(err, journal.ErrSchema):
		return http.StatusUnprocessableEntity, "schema"
	case errors.As(err, &pe):
		return http.StatusUnprocessableEntity, "parse"
	default:
		return http.StatusInternalServerError, "load"
	}
}

func (s *Server) reportOrFail(w http.ResponseWriter, r *http.Request, asJSON bool) *analytics.Report {
	rep, err := s.report(r.Context())
	if err == nil {
		return rep
	}

	status, cause := failure(err)
	ReportFailures.WithLabelValues(cause).Inc()
	s.log.Warn("report halted",
		zap.String("cause", cause),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)

	if asJSON {
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return nil
	}

	var buf bytes.Buffer
	if rerr := s.page.RenderError(&buf, err); rerr != nil {
		http.Error(w, err.Error(), status)
		return nil
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
	return nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rep := s.reportOrFail(w, r, false)
	if rep == nil {
		return
	}

	var buf bytes.Buffer
	if err := s.page.Render(&buf, rep); err != nil {
		s.log.Error("render dashboard", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !dashboard.KnownChart(name) {
		http.NotFound(w, r)
		return
	}

	rep := s.reportOrFail(w, r, false)
	if rep == nil {
		return
	}

	var buf bytes.Buffer
	if err := dashboard.RenderChart(&buf, name, rep); err != nil {
		s.log.Error("render chart", zap.String("chart", name), zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep := s.reportOrFail(w, r, true)
	if rep == nil {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type reloadResponse struct {
	Source   string    `json:"source"`
	Trades   int       `json:"trades"`
	LoadedAt time.Time `json:"loaded_at"`
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	t, err := s.Reload(r.Context(), TriggerAPI)
	if err != nil {
		status, _ := failure(err)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{
		Source:   t.Source,
		Trades:   t.Len(),
		LoadedAt: t.LoadedAt,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"service": "tradedash",
		"source":  fmt.Sprint(s.cache.Source()),
	}
	if t := s.cache.Snapshot(); t != nil {
		resp["trades"] = t.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
