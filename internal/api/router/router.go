package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dfw-design-build/leadintake/internal/contact"
	httpmiddleware "github.com/dfw-design-build/leadintake/internal/http/middleware"
	"github.com/dfw-design-build/leadintake/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ContactHandler     *contact.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.SecurityHeaders)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.ContactHandler != nil {
			api.Post("/contact", cfg.ContactHandler.Submit)
			api.Get("/contact/cities", cfg.ContactHandler.Cities)
		}
	})

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
