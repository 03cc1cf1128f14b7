package ops

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"warden/internal/logging"
	"warden/internal/metrics"
	"warden/internal/store"
)

// Server exposes the operational endpoints: /health and Prometheus
// /metrics. The whitelist itself is never served here.
type Server struct {
	addr    string
	logger  *logging.Logger
	metrics *metrics.Collector
	store   *store.Store
	server  *http.Server
}

// New creates an ops Server listening on addr
func New(addr string, s *store.Store, m *metrics.Collector, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		addr:    addr,
		logger:  logger,
		metrics: m,
		store:   s,
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", srv.healthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", m).Methods(http.MethodGet)

	srv.server = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return srv
}

// Serve runs the listener until ctx is done
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Ops listener starting", logging.String("addr", s.addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("Ops listener shutdown error", logging.Error(err))
		}
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok entries=%d\n", s.store.Count())
}
