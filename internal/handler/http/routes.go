package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/login", h.login)
		r.Get("/api/cron/weekly-password", h.cronWeeklyPassword)
		r.Get("/api/version/", h.getServerVersion)
	})

	// routes restricted to authenticated admins
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.adminOnly)
		r.Post("/api/auth/register", h.register)
		r.Get("/api/admin/password", h.passwordAction)
		r.Post("/api/admin/password", h.usePassword)
		r.Put("/api/admin/password", h.regeneratePassword)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
