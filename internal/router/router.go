package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/thali-menu/api/internal/config"
	"github.com/thali-menu/api/internal/handler"
	"github.com/thali-menu/api/internal/metrics"
	mw "github.com/thali-menu/api/internal/middleware"
	"github.com/thali-menu/api/internal/service"
	"github.com/thali-menu/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Session routes require a bearer token issued for that session.
func New(cfg *config.Config, sessions *service.SessionService, hub *ws.Hub, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})
	r.Handle("/metrics", m.Handler())

	dishHandler := handler.NewDishHandler(sessions)
	dishHandler.RegisterRoutes(r)

	sessionHandler := handler.NewSessionHandler(sessions)
	r.Post("/sessions", sessionHandler.Open)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/sessions/{sid}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.SessionSecret, w, r)
	})

	// Session-scoped routes
	r.Route("/sessions/{sid}", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.SessionSecret))
		r.Use(mw.RequireSession)
		sessionHandler.RegisterRoutes(r)
	})

	return r
}
