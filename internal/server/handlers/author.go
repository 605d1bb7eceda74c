// internal/server/handlers/author.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"creatorpulse/internal/adapter/storage"
	"creatorpulse/internal/domain/author"
)

// AuthorHandler handles author-related HTTP requests
type AuthorHandler struct {
	store author.Store
}

// NewAuthorHandler creates a new author handler
func NewAuthorHandler(store author.Store) *AuthorHandler {
	return &AuthorHandler{
		store: store,
	}
}

type authorRequest struct {
	Name string `json:"name"`
}

// CreateAuthor registers a new author
func (h *AuthorHandler) CreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req authorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Missing author name", nil)
		return
	}

	created, err := h.store.CreateAuthor(r.Context(), req.Name)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create author", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// ListAuthors returns all authors
func (h *AuthorHandler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.store.ListAuthors(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list authors", err)
		return
	}

	respondWithJSON(w, http.StatusOK, authors)
}

// GetAuthor returns one author by ID
func (h *AuthorHandler) GetAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid author ID", err)
		return
	}

	a, err := h.store.GetAuthor(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Author not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get author", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, a)
}

// UpdateAuthor renames an author
func (h *AuthorHandler) UpdateAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid author ID", err)
		return
	}

	var req authorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Missing author name", nil)
		return
	}

	updated, err := h.store.UpdateAuthor(r.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Author not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to update author", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteAuthor removes an author and all collected data of their accounts
func (h *AuthorHandler) DeleteAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid author ID", err)
		return
	}

	if err := h.store.DeleteAuthor(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Author not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete author", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
