package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tallybook/internal/adapter/http/dto"
	"github.com/tallyhq/tallybook/internal/adapter/http/middleware"
	"github.com/tallyhq/tallybook/internal/usecase"
)

// BookHandler handles book, membership, tag, and user endpoints.
type BookHandler struct {
	bookUC *usecase.BookUseCase
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(bookUC *usecase.BookUseCase) *BookHandler {
	return &BookHandler{bookUC: bookUC}
}

// CreateUser handles POST /users.
func (h *BookHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.bookUC.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// GetUser handles GET /users/{id}.
func (h *BookHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.bookUC.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// CreateBook handles POST /books.
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	book, err := h.bookUC.CreateBook(r.Context(), req.Name, actorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BookFromDomain(book))
}

// GetBook handles GET /books/{id}.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.bookUC.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BookFromDomain(book))
}

// AddMember handles POST /books/{id}/members.
func (h *BookHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.bookUC.AddMember(r.Context(), chi.URLParam(r, "id"), req.UserID, actorID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateTag handles POST /books/{id}/tags.
func (h *BookHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tag, err := h.bookUC.CreateTag(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id"), actorID))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TagFromDomain(tag))
}

// ListTags handles GET /books/{id}/tags.
func (h *BookHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	tags, err := h.bookUC.ListTagsByBook(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TagsFromDomain(tags))
}
