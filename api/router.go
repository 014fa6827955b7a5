package api

import (
	"net/http"

	"burrow-server/game"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewAPIRouter builds the /api router with middlewares and routes.
func NewAPIRouter(cfg Config, db *DB, gameServer *game.GameServer) chi.Router {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Levels and metrics
	lh := NewLevelHandler(cfg, db)
	mh := NewMetricsHandler(cfg, gameServer)
	r.Route("/v1", func(sub chi.Router) {
		// Health
		sub.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		sub.Post("/auth/login", LoginHandler(cfg))
		lh.Routes(sub)
		mh.Routes(sub)
	})

	return r
}
