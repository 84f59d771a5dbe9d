package api

import (
	"encoding/json"
	"net/http"

	"libraryapi/internal/catalog"
	"libraryapi/internal/httpx"
)

type BookHandler struct {
	service *catalog.Service
}

func NewBookHandler(service *catalog.Service) *BookHandler {
	return &BookHandler{service: service}
}

type createBookRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Author          string `json:"author" validate:"required,max=100"`
	ISBN            string `json:"isbn" validate:"omitempty,isbn"`
	Category        string `json:"category" validate:"omitempty,max=50"`
	PublicationYear *int   `json:"publication_year"`
	Description     string `json:"description"`
}

type updateBookRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=200"`
	Author          *string `json:"author" validate:"omitempty,min=1,max=100"`
	ISBN            *string `json:"isbn" validate:"omitempty,isbn"`
	Category        *string `json:"category" validate:"omitempty,max=50"`
	PublicationYear *int    `json:"publication_year"`
	Description     *string `json:"description"`
	Available       *bool   `json:"available"`
}

// List handles GET /api/books
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := catalog.Query{
		Search:        query.Get("search"),
		Category:      query.Get("category"),
		AvailableOnly: query.Get("available") == "true",
	}

	books, err := h.service.List(r.Context(), params)
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	httpx.JSONSuccess(r, w, books, map[string]interface{}{"count": len(books)})
}

// Get handles GET /api/books/{id}
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, book, nil)
}

// Create handles POST /api/books
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := validateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	book, err := h.service.Create(r.Context(), catalog.CreateParams{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Category:        req.Category,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
	})
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	httpx.JSONCreated(r, w, book)
}

// Update handles PUT /api/books/{id}
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", nil)
		return
	}
	if details := validateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	book, err := h.service.Update(r.Context(), r.PathValue("id"), catalog.UpdateParams{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Category:        req.Category,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		Available:       req.Available,
	})
	if err != nil {
		writeDomainError(r, w, err)
		return
	}

	httpx.JSONSuccess(r, w, book, nil)
}

// Delete handles DELETE /api/books/{id}
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(r, w, err)
		return
	}
	httpx.JSONNoContent(w)
}
