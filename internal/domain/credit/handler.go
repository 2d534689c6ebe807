package credit

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

// Handler exposes balance/history endpoints plus the admin config and
// grant surface.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// UpdateConfigRequest is the admin payload for a rule change
type UpdateConfigRequest struct {
	Value int `json:"value" validate:"gte=0"`
}

// GrantCreditsRequest is the admin payload for a manual credit grant
type GrantCreditsRequest struct {
	Amount int    `json:"amount" validate:"required,min=1,max=1000000"`
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

// Balance handles GET /credits/balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"available_credits": balance})
}

// Transactions handles GET /credits/transactions
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	limit, offset := parsePagination(r)
	transactions, err := h.svc.ListTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, transactions)
}

// ListConfigs handles GET /admin/credits/config
func (h *Handler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.svc.ListConfigs(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, configs)
}

// UpdateConfig handles PUT /admin/credits/config/{key}
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := validator.ValidateVar(key, "required,config_key"); err != nil {
		response.BadRequest(w, "Unknown config key")
		return
	}

	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if err := h.svc.SetConfig(r.Context(), key, req.Value); err != nil {
		if errors.Is(err, ErrInvalidConfigValue) {
			response.BadRequest(w, "Config value must be a non-negative integer")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"config_key": key, "config_value": req.Value})
}

// GrantCredits handles POST /admin/users/{id}/credits/grant
func (h *Handler) GrantCredits(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req GrantCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	adminID := middleware.GetUserID(r.Context())

	if err := h.svc.AdminGrant(r.Context(), adminID, userID, req.Amount, req.Reason); err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			response.BadRequest(w, "Invalid credit amount")
			return
		}
		response.InternalError(w)
		return
	}

	balance, err := h.svc.GetBalance(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"available_credits": balance})
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
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
	return limit, offset
}
