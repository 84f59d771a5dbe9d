package api

import (
	"encoding/json"
	"net/http"
	"time"

	"libraryapi/internal/httpx"
	"libraryapi/internal/roster"
)

type MemberHandler struct {
	service *roster.Service
}

func NewMemberHandler(service *roster.Service) *MemberHandler {
	return &MemberHandler{service: service}
}

type createMemberRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
	Address   string `json:"address" validate:"omitempty,max=200"`
}

type updateMemberRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,min=1,max=50"`
	Email     *string `json:"email" validate:"omitempty,email,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	Address   *string `json:"address" validate:"omitempty,max=200"`
	Active    *bool   `json:"active"`
}

// memberDetail decorates a member with the loan-derived fields the
// dashboard consumes.
type memberDetail struct {
	roster.Member
	ActiveLoans     int  `json:"active_loans"`
	HasOverdueLoans bool `json:"has_overdue_loans"`
}

// List handles GET /api/members
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := roster.Query{
		Search:     query.Get("search"),
		ActiveOnly: query.Get("active") == "true",
	}

	members, err := h.service.List(r.Context(), params)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	httpx.JSONSuccess(r, w, members, map[string]interface{}{"count": len(members)})
}

// Get handles GET /api/members/{id}
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	member, err := h.service.Get(ctx, id)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	detail := memberDetail{Member: member}
	if count, err := h.service.CountActiveLoans(ctx, id); err == nil {
		detail.ActiveLoans = count
	}
	if overdue, err := h.service.HasOverdueLoans(ctx, id, time.Now().UTC()); err == nil {
		detail.HasOverdueLoans = overdue
	}

	httpx.JSONSuccess(r, w, detail, nil)
}

// Create handles POST /api/members
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := validateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	member, err := h.service.Create(r.Context(), roster.CreateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	httpx.JSONCreated(r, w, member)
}

// Update handles PUT /api/members/{id}
func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := validateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	member, err := h.service.Update(r.Context(), r.PathValue("id"), roster.UpdateParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Active:    req.Active,
	})
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	httpx.JSONSuccess(r, w, member, nil)
}

// Delete handles DELETE /api/members/{id}
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(r, w, err)
		return
	}
	httpx.JSONNoContent(w)
}
