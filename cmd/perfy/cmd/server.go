package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/psantana5/perfy/pkg/logging"
	"github.com/psantana5/perfy/pkg/metrics"
)

func newMetricsRouter(exporter *metrics.Exporter) *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", exporter.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet)
	return router
}

// startMetricsServer binds addr synchronously so a bad address fails the
// command, then serves in the background.
func startMetricsServer(addr string, exporter *metrics.Exporter, logger *logging.Logger) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:      newMetricsRouter(exporter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	logger.Info("Metrics server listening", map[string]interface{}{"addr": ln.Addr().String()})
	return srv, nil
}
