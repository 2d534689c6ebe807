package project

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

// Create handles POST /projects
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sellerID := middleware.GetUserID(r.Context())

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.svc.Create(r.Context(), sellerID, req.Title, req.Description, req.Price, req.Dockerized)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			response.Conflict(w, "CONFLICT", "A project with a similar title already exists")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, p)
}

// Get handles GET /projects/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Project not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, p)
}

// List handles GET /projects
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
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

	projects, err := h.svc.ListPublished(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, projects)
}

// InitArchiveUpload handles POST /projects/{id}/archive
func (h *Handler) InitArchiveUpload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	sellerID := middleware.GetUserID(r.Context())

	url, err := h.svc.InitArchiveUpload(r.Context(), sellerID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Project not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "Not the project owner")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{"upload_url": url})
}

// Publish handles POST /projects/{id}/publish
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid project ID")
		return
	}

	sellerID := middleware.GetUserID(r.Context())

	p, err := h.svc.Publish(r.Context(), sellerID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "Project not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "Not the project owner")
		case errors.Is(err, ErrNotDraft):
			response.Conflict(w, "CONFLICT", "Project already left draft status")
		case errors.Is(err, ErrArchiveMissing):
			response.BadRequest(w, "Upload the project archive before publishing")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, p)
}
