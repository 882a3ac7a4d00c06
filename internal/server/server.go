// Package server exposes the planner services over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexanderramin/midai/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// UserHeader carries the caller identity when the body has no userId.
const UserHeader = "X-User-ID"

// Config for the HTTP API handler.
type Config struct {
	Plans       service.PlanService
	Preps       service.PrepService
	Feedback    service.FeedbackService
	Preferences service.PreferencesService
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	Log     zerolog.Logger
}

type api struct {
	cfg Config
	log zerolog.Logger
}

// New returns the API router.
func New(cfg Config) http.Handler {
	a := &api{cfg: cfg, log: cfg.Log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(a.recoverer)
	r.Use(a.requestLog)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Post("/plan", a.generatePlan)
	r.Get("/plans", a.listPlans)
	r.Get("/plans/{date}", a.getPlan)
	r.Post("/prep", a.generatePrep)
	r.Post("/feedback", a.submitFeedback)
	r.Get("/feedback", a.feedbackHistory)
	r.Get("/preferences", a.getPreferences)
	r.Delete("/preferences", a.resetPreferences)
	return r
}

func (a *api) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		a.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// recoverer turns a handler panic into a 500 JSON response.
func (a *api) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("panic recovered")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Run serves handler on addr until ctx is canceled, then drains in-flight
// requests.
func Run(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
