package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/energydash/energydash-go/internal/middleware"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Auth    *AuthHandler
	Energy  *EnergyHandler
	Health  *HealthHandler
	Metrics *middleware.Metrics

	Tokens middleware.TokenValidator
	Users  middleware.UserLookup

	CORSOrigins        []string
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

// NewRouter builds the HTTP routes.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cfg.Metrics.Middleware)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse("Not Found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse("Method Not Allowed"))
	})

	r.Get("/", cfg.Health.HandleRoot)
	r.Get("/health", cfg.Health.HandleHealth)
	r.Handle("/metrics", cfg.Metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst))
			r.Post("/register", cfg.Auth.HandleRegister)
			r.Post("/login", cfg.Auth.HandleLogin)
		})

		r.With(middleware.JWTAuth(cfg.Tokens, cfg.Users)).Get("/me", cfg.Auth.HandleMe)
	})

	r.Route("/energy", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.Tokens, cfg.Users))
		r.Get("/trends", cfg.Energy.HandleTrends)
		r.Get("/composition", cfg.Energy.HandleComposition)
		r.Get("/summary", cfg.Energy.HandleSummary)
		r.Get("/composed", cfg.Energy.HandleComposed)
		r.Get("/tracks", cfg.Energy.HandleTracks)
		r.Get("/sources", cfg.Energy.HandleSources)
		r.Get("/types", cfg.Energy.HandleTypes)
	})

	return r
}
