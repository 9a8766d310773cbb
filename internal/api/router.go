package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/aromeroh/usuarios-api/internal/api/handlers"
	"github.com/aromeroh/usuarios-api/internal/auth"
	"github.com/aromeroh/usuarios-api/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(userService services.UserServiceProvider, sessionService services.SessionServiceProvider, statsService services.StatsServiceProvider, corsOrigin string) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, sessionService)
	userHandler := handlers.NewUserHandler(userService)
	statsHandler := handlers.NewStatsHandler(statsService)

	requireAuth := auth.Middleware(sessionService, handlers.RespondUnauthorized)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Public
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Bearer-token protected
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.Logout)
				r.Post("/refresh", authHandler.Refresh)
				r.Get("/check", authHandler.Check)
				r.Get("/me", authHandler.Me)
			})
		})

		// Statistics are public
		r.Route("/estadisticas", func(r chi.Router) {
			r.Get("/", statsHandler.Overview)
			r.Get("/diarias", statsHandler.Daily)
			r.Get("/semanales", statsHandler.Weekly)
			r.Get("/mensuales", statsHandler.Monthly)
		})

		// CRUD is behind bearer-token auth
		r.Route("/usuarios", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", userHandler.List)
			r.Post("/", userHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Put("/", userHandler.Update)
				r.Patch("/", userHandler.Update)
				r.Delete("/", userHandler.Delete)
			})
		})
	})

	return r
}
