package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/felixge/fgprof"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	log "github.com/authzed/rpqplan/internal/logging"
)

const metricsShutdownTimeout = 5 * time.Second

// MetricsHandler sets up an HTTP server that handles serving Prometheus
// metrics, pprof endpoints, and the running configuration.
func MetricsHandler(debugMap func() map[string]any) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/cmdline", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "This profile type has been disabled to avoid leaking private command-line arguments")
	})
	mux.Handle("/debug/fgprof", fgprof.Handler())
	mux.HandleFunc("/debug/config", func(w http.ResponseWriter, r *http.Request) {
		if debugMap == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		json, err := json.MarshalIndent(debugMap(), "", "  ")
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		fmt.Fprintf(w, "%s", string(json))
	})

	return mux
}

// serveMetrics serves the handler on addr until the returned function is
// called. An empty addr serves nothing.
func serveMetrics(ctx context.Context, addr string, handler http.Handler) (stop func()) {
	if addr == "" {
		return func() {}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(handler, "metrics"),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Ctx(ctx).Info().Str("addr", addr).Msg("metrics server started listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Ctx(ctx).Error().Err(err).Str("addr", addr).Msg("failed while serving metrics")
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed while shutting down metrics server")
		}
		<-done
	}
}
