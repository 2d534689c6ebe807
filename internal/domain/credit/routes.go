package credit

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns user-facing credit routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/balance", h.Balance)
	r.Get("/transactions", h.Transactions)

	return r
}

// AdminRoutes returns admin-only config and grant routes
func (h *Handler) AdminRoutes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(adminMiddleware)

	r.Get("/config", h.ListConfigs)
	r.Put("/config/{key}", h.UpdateConfig)
	r.Post("/users/{id}/grant", h.GrantCredits)

	return r
}
