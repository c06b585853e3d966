package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/fintrackhq/fintrack/internal/auth"
	"github.com/fintrackhq/fintrack/internal/category"
	"github.com/fintrackhq/fintrack/internal/transaction"
	"github.com/fintrackhq/fintrack/internal/transport/middleware"
	"github.com/fintrackhq/fintrack/internal/transport/swagger"
	"github.com/fintrackhq/fintrack/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, categoryHandler *category.Handler, transactionHandler *transaction.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Public auth routes
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.RefreshToken)

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			// Current user
			pr.Get("/users/me", userHandler.GetCurrentUser)
			pr.Put("/users/profile", userHandler.UpdateProfile)
			pr.Delete("/users/profile", userHandler.DeleteProfile)

			// Category routes
			pr.Route("/categories", func(cr chi.Router) {
				cr.Post("/", categoryHandler.CreateCategory)
				cr.Get("/", categoryHandler.GetCategories)
				cr.Get("/{id}", categoryHandler.GetCategory)
				cr.Put("/{id}", categoryHandler.UpdateCategory)
				cr.Delete("/{id}", categoryHandler.DeleteCategory)
			})

			// Transaction routes
			pr.Route("/transactions", func(tr chi.Router) {
				tr.Post("/", transactionHandler.CreateTransaction)
				tr.Get("/", transactionHandler.GetTransactions)
				tr.Put("/{id}", transactionHandler.UpdateTransaction)
				tr.Delete("/{id}", transactionHandler.DeleteTransaction)
			})

			// Admin-only user management
			pr.Route("/admin/users", func(ar chi.Router) {
				ar.Use(authHandler.RequireAdmin)
				ar.Get("/", userHandler.ListUsers)
				ar.Post("/", userHandler.CreateUser)
				ar.Get("/{id}", userHandler.GetUser)
				ar.Put("/{id}", userHandler.UpdateUser)
				ar.Delete("/{id}", userHandler.DeleteUser)
			})
		})
	})
}
