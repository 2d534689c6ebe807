package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns project catalog routes. Listing and detail are public;
// mutations require an authenticated seller.
func (h *Handler) Routes(authMiddleware, sellerMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(sellerMiddleware)

		r.Post("/", h.Create)
		r.Post("/{id}/archive", h.InitArchiveUpload)
		r.Post("/{id}/publish", h.Publish)
	})

	return r
}
