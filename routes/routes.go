package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/campushq/eventdesk/app"
	"github.com/campushq/eventdesk/rbac"
)

// requestTimeout bounds every request except the event watch stream, which
// stays open until the client disconnects.
const requestTimeout = 60 * time.Second

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	auth := deps.AuthMiddleware

	// Health check endpoints
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	// Account provisioning and password reset mail
	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Use(auth.RequireCapability(rbac.CapManageUsers))
			r.Post("/register-user", deps.UserHandler.HandleRegister)
		})
		// Unauthenticated: used by the login page's "forgot password"
		r.Post("/send-email", deps.UserHandler.HandleSendEmail)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Route("/events", func(r chi.Router) {
			// Long-lived SSE stream, registered outside the request
			// timeout so it is not cut off at the deadline.
			r.Get("/{id}/watch", deps.EventHandler.HandleWatch)

			r.Group(func(r chi.Router) {
				r.Use(chimw.Timeout(requestTimeout))
				r.Get("/", deps.EventHandler.HandleList)
				r.Get("/{id}", deps.EventHandler.HandleGet)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireCapability(rbac.CapCreateEvents))
					r.Post("/", deps.EventHandler.HandleCreate)
				})
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireCapability(rbac.CapEditEvents))
					r.Put("/{id}", deps.EventHandler.HandleUpdate)
					r.Delete("/{id}", deps.EventHandler.HandleDelete)
				})
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireCapability(rbac.CapEndEvents))
					r.Post("/{id}/end", deps.EventHandler.HandleEnd)
				})
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireCapability(rbac.CapMarkAttendance))
					r.Get("/attendance/eligible", deps.EventHandler.HandleEligible)
					r.Post("/{id}/attendance", deps.EventHandler.HandleToggleAttendance)
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))

			r.Get("/nav", deps.UserHandler.HandleNav)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", deps.UserHandler.HandleMe)
			})

			r.Route("/people", func(r chi.Router) {
				r.Use(auth.RequireCapability(rbac.CapManagePeople, rbac.CapMarkAttendance))
				r.Get("/", deps.PersonHandler.HandleList)
				r.Get("/{id}", deps.PersonHandler.HandleGet)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireCapability(rbac.CapManagePeople))
					r.Post("/", deps.PersonHandler.HandleCreate)
					r.Post("/import", deps.PersonHandler.HandleImport)
					r.Put("/{id}", deps.PersonHandler.HandleUpdate)
					r.Delete("/{id}", deps.PersonHandler.HandleDelete)
				})
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Use(auth.RequireCapability(rbac.CapManageFinance))
				r.Get("/", deps.InvoiceHandler.HandleList)
				r.Post("/", deps.InvoiceHandler.HandleCreate)
				r.Get("/{id}", deps.InvoiceHandler.HandleGet)
				r.Put("/{id}", deps.InvoiceHandler.HandleUpdate)
				r.Delete("/{id}", deps.InvoiceHandler.HandleDelete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireCapability(rbac.CapManageFinance, rbac.CapViewReports))
					r.Get("/finance", deps.ReportHandler.HandleFinance)
					r.Get("/{eventId}/csv", deps.ReportHandler.HandleEventCSV)
				})
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireCapability(rbac.CapViewReports))
					r.Get("/{eventId}/attendance", deps.ReportHandler.HandleAttendance)
				})
			})
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
