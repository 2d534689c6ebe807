package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/codemart/codemart-api/internal/domain/credit"
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

// Create handles POST /orders
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	buyerID := middleware.GetUserID(r.Context())

	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	o, err := h.svc.Create(r.Context(), buyerID, projectID, PaymentMethod(req.PaymentMethod))
	if err != nil {
		switch {
		case errors.Is(err, ErrProjectNotPurchasable):
			response.Conflict(w, "CONFLICT", "Project is not available for purchase")
		case errors.Is(err, ErrSelfPurchase):
			response.Conflict(w, "CONFLICT", "You cannot purchase your own project")
		case errors.Is(err, ErrUnsupportedPaymentMethod):
			response.BadRequest(w, "Unsupported payment method")
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Project not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, o)
}

// Complete handles POST /orders/{id}/complete — the settlement endpoint
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	callerID := middleware.GetUserID(r.Context())
	asAdmin := middleware.GetRole(r.Context()) == "admin"

	o, err := h.svc.Complete(r.Context(), callerID, id, asAdmin)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, ErrNotYourOrder):
			response.Forbidden(w, "Not a party to this order")
		case errors.Is(err, ErrOrderNotPending):
			response.Conflict(w, "CONFLICT", "Order already reached a terminal state")
		case errors.Is(err, credit.ErrInsufficientCredits):
			response.Conflict(w, "INSUFFICIENT_CREDITS", "Not enough credits to complete this order")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, o)
}

// Cancel handles POST /orders/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	var req CancelOrderRequest
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

	callerID := middleware.GetUserID(r.Context())
	asAdmin := middleware.GetRole(r.Context()) == "admin"

	if err := h.svc.Cancel(r.Context(), callerID, id, req.Reason, asAdmin); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, ErrNotYourOrder):
			response.Forbidden(w, "Not a party to this order")
		case errors.Is(err, ErrOrderNotPending):
			response.Conflict(w, "CONFLICT", "Order already reached a terminal state")
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// Get handles GET /orders/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	callerID := middleware.GetUserID(r.Context())
	asAdmin := middleware.GetRole(r.Context()) == "admin"

	o, err := h.svc.Get(r.Context(), callerID, id, asAdmin)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, ErrNotYourOrder):
			response.Forbidden(w, "Not a party to this order")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, o)
}

// List handles GET /orders — the caller's purchase history
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	buyerID := middleware.GetUserID(r.Context())

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

	orders, err := h.svc.ListMine(r.Context(), buyerID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, orders)
}

// Download handles GET /orders/downloads/{project_id}. Lives in the order
// domain because entitlement derives from completed orders.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "project_id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	userID := middleware.GetUserID(r.Context())

	url, err := h.svc.Download(r.Context(), userID, projectID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotEntitled):
			response.Forbidden(w, "Purchase this project to download it")
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Project archive not found")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"download_url": url})
}
