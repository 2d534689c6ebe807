package roleupgrade

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the user-facing upgrade-request routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/", h.Submit)
	r.Get("/", h.ListMine)

	return r
}

// AdminRoutes returns the review-queue routes
func (h *Handler) AdminRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(adminMiddleware)

	r.Get("/", h.ListPending)
	r.Post("/{id}/review", h.Review)

	return r
}
