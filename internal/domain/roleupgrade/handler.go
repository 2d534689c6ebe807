package roleupgrade

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/codemart/codemart-api/internal/middleware"
	"github.com/codemart/codemart-api/internal/pkg/response"
	"github.com/codemart/codemart-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Submit handles POST /role-upgrades
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req SubmitRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid JSON body")
			return
		}
		if errs := validator.Validate(&req); errs != nil {
			response.ValidationError(w, errs)
			return
		}
	}

	upgrade, err := h.svc.Submit(r.Context(), userID, req.Motivation)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateRequest):
			response.Conflict(w, "CONFLICT", "You already have a pending upgrade request")
		case errors.Is(err, ErrAlreadySeller):
			response.Conflict(w, "CONFLICT", "You already have seller access")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, upgrade)
}

// ListMine handles GET /role-upgrades
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	requests, err := h.svc.ListMine(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, requests)
}

// ListPending handles GET /admin/role-upgrades
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit, offset := 20, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	requests, err := h.svc.ListPending(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, requests)
}

// Review handles POST /admin/role-upgrades/{id}/review
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	reviewerID := middleware.GetUserID(r.Context())

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	upgrade, err := h.svc.Review(r.Context(), reviewerID, id, req.Approve, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Upgrade request not found")
		case errors.Is(err, ErrAlreadyReviewed):
			response.Conflict(w, "CONFLICT", "Upgrade request already reviewed")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, upgrade)
}
