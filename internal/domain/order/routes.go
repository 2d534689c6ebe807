package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns order routes; every endpoint requires authentication
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/downloads/{project_id}", h.Download)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/complete", h.Complete)
	r.Post("/{id}/cancel", h.Cancel)

	return r
}
