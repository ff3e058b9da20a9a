package conversation

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers query and conversation routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/query", h.Query)

	r.Route("/conversation", func(r chi.Router) {
		r.Post("/create", h.Create)
		r.Post("/list", h.List)
		r.Post("/message", h.AddMessage)
		r.Post("/details", h.Details)
		r.Post("/delete", h.Delete)
		r.Post("/export", h.Export)
	})
}
