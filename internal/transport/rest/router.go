package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/worktrack/payroll/internal/auth"
	"github.com/worktrack/payroll/internal/rate"
	"github.com/worktrack/payroll/internal/stats"
	"github.com/worktrack/payroll/internal/timetrack"
	"github.com/worktrack/payroll/internal/transport/middleware"
	"github.com/worktrack/payroll/internal/transport/swagger"
	"github.com/worktrack/payroll/internal/user"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	rateHandler *rate.Handler,
	trackHandler *timetrack.Handler,
	statsHandler *stats.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)
	rbac := auth.NewRoleAuthorization(logger)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})

		// Everything below requires a valid access token. Role gates sit in
		// the route groups and again inside the services, so a misplaced
		// route cannot widen access.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", userHandler.GetCurrentUser)
			pr.Post("/users/me/change-password", userHandler.ChangePassword)

			pr.Group(func(sr chi.Router) {
				sr.Use(rbac.RequireStaff())
				sr.Get("/users", userHandler.ListUsers)
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.RequireAdmin())
				ar.Post("/users", userHandler.CreateUser)
				ar.Put("/users/{id}", userHandler.UpdateUser)
				ar.Delete("/users/{id}", userHandler.DeleteUser)

				ar.Route("/users/{id}/rates", func(rr chi.Router) {
					rr.Get("/", rateHandler.ListRates)
					rr.Post("/", rateHandler.CreateRate)
					rr.Put("/", rateHandler.UpdateRate)
				})
			})

			pr.Route("/time-tracks", func(tr chi.Router) {
				tr.Get("/", trackHandler.ListTracks)
				tr.Post("/", trackHandler.CreateTrack)
				tr.Put("/{id}", trackHandler.UpdateTrack)
				tr.Delete("/{id}", trackHandler.DeleteTrack)

				tr.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAdmin())
					ar.Post("/pay", trackHandler.MarkPaid)
				})
			})

			pr.Get("/statistics", statsHandler.GetStatistics)
			pr.Get("/statistics/monthly", statsHandler.GetMonthlyStatistics)
			pr.Get("/analytics/monthly-earnings", statsHandler.GetMonthlyEarnings)
		})
	})
}
