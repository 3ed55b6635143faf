package diag

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicdesk/clinicdesk/pkg/config"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

// Pinger reports whether the data bridge is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter builds the localhost diagnostics surface: liveness, bridge
// readiness and the prometheus scrape endpoint.
func NewRouter(cfg *config.Config, logg *logger.Logger, bridge Pinger, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx := logg.WithField(req.Context(), "path", req.URL.Path)
		logg.Debug(ctx, "health check")
		writeJSON(w, http.StatusOK, types.SuccessEnvelope{Data: map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		}})
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()
		if err := bridge.Ping(ctx); err != nil {
			logg.Error(ctx, "bridge ping failed", err)
			writeJSON(w, http.StatusServiceUnavailable, types.ErrorEnvelope{Error: types.APIError{
				Code:    "dependency_failure",
				Message: "bridge unreachable",
			}})
			return
		}
		writeJSON(w, http.StatusOK, types.SuccessEnvelope{Data: map[string]string{"status": "ready"}})
	})

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}

// Server runs the diagnostics listener until its context is canceled.
type Server struct {
	addr    string
	handler http.Handler
	logg    *logger.Logger
}

// NewServer builds a diagnostics server bound to the configured address.
func NewServer(cfg *config.Config, logg *logger.Logger, handler http.Handler) *Server {
	return &Server{addr: cfg.Diag.Addr, handler: handler, logg: logg}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logg.Info(s.logg.WithField(ctx, "addr", s.addr), "diagnostics server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
