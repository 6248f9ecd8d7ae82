// internal/server/server.go

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"

	"verisignal/internal/adapter/storage"
	"verisignal/internal/config"
)

// Server exposes liveness and readiness endpoints for the consumer.
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates the health HTTP server. documents may be nil when
// the document store is disabled.
func NewServer(
	cfg config.ServerConfig,
	db *pgxpool.Pool,
	natsConn *nats.Conn,
	documents *storage.DocumentStore,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	// Routes
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
			checks := map[string]string{}
			ready := true

			if err := db.Ping(r.Context()); err != nil {
				checks["database"] = err.Error()
				ready = false
			}

			if !natsConn.IsConnected() {
				checks["nats"] = "not connected"
				ready = false
			}

			if documents != nil {
				if err := documents.Ping(r.Context()); err != nil {
					checks["documents"] = err.Error()
					ready = false
				}
			}

			w.Header().Set("Content-Type", "application/json")
			if !ready {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]any{"status": "unavailable", "checks": checks})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
		})
	})

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
