package handlers

import (
	"net/http"

	"github.com/aawaaz/casedesk/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// Console groups the handlers mounted under /console
type Console struct {
	Health    *HealthHandler
	Sessions  *SessionHandler
	Dashboard *DashboardHandler
	// Active gates every dashboard route
	Active middleware.SessionSource
	// LoginLimit throttles sign-in attempts; nil disables it
	LoginLimit func(http.Handler) http.Handler
}

// Mount registers the console routes on r
func (c Console) Mount(r chi.Router) {
	r.Get("/hi", c.Health.Check)

	r.Route("/console", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders())

		r.Get("/health", c.Health.Ready)

		r.Route("/session", func(r chi.Router) {
			login := http.Handler(http.HandlerFunc(c.Sessions.Login))
			if c.LoginLimit != nil {
				login = c.LoginLimit(login)
			}
			r.Method(http.MethodPost, "/", login)
			r.Get("/", c.Sessions.Current)
			r.Delete("/", c.Sessions.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(c.Active))
			d := c.Dashboard

			r.Get("/dashboard", d.Get)
			r.Post("/dashboard/reload", d.Reload)

			r.Route("/cases", func(r chi.Router) {
				r.Get("/", d.Cases)
				r.Post("/", d.CreateCase)
				r.Delete("/selected", d.CloseCase)
				r.Post("/selected/reports/retry", d.RetryReports)
				r.Post("/{id}/open", d.OpenCase)
				r.Put("/{id}/status", d.UpdateCaseStatus)
				r.Put("/{id}", d.UpdateCase)
				r.Delete("/{id}", d.DeleteCase)
			})

			r.Route("/persons", func(r chi.Router) {
				r.Post("/", d.CreatePerson)
				r.Put("/{id}", d.UpdatePerson)
				r.Delete("/{id}", d.DeletePerson)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Post("/", d.CreateDepartment)
				r.Put("/{id}", d.UpdateDepartment)
				r.Delete("/{id}", d.DeleteDepartment)
			})

			r.Post("/reports", d.SubmitReport)

			r.Post("/feedback/submit", d.SubmitFeedback)
			r.Post("/feedback/{reportId}", d.StageFeedback)

			r.Get("/forms", d.Forms)
			r.Get("/forms/{resource}", d.Form)

			r.Get("/notices", d.Notices)
			r.Delete("/notices", d.DismissNotices)
		})
	})
}
