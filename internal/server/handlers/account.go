// internal/server/handlers/account.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"creatorpulse/internal/adapter/storage"
	"creatorpulse/internal/domain/author"
)

// AccountHandler handles social-account HTTP requests
type AccountHandler struct {
	store author.Store
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(store author.Store) *AccountHandler {
	return &AccountHandler{
		store: store,
	}
}

type accountRequest struct {
	AuthorID       int64  `json:"author_id"`
	Platform       string `json:"platform"`
	PlatformUserID string `json:"platform_user_id"`
	Username       string `json:"username"`
	ProfileURL     string `json:"profile_url"`
	IsActive       *bool  `json:"is_active"`
}

// CreateAccount registers a social account for an author
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !author.IsValidPlatform(req.Platform) {
		respondWithError(w, http.StatusBadRequest, "Unknown platform", nil)
		return
	}
	if req.PlatformUserID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing platform user ID", nil)
		return
	}

	account := author.SocialAccount{
		AuthorID:       req.AuthorID,
		Platform:       req.Platform,
		PlatformUserID: req.PlatformUserID,
		Username:       req.Username,
		ProfileURL:     req.ProfileURL,
		IsActive:       true,
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	created, err := h.store.CreateAccount(r.Context(), account)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Author not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to create account", err)
		}
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// ListAccounts returns accounts, optionally filtered by platform
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	if platform != "" && !author.IsValidPlatform(platform) {
		respondWithError(w, http.StatusBadRequest, "Unknown platform", nil)
		return
	}

	accounts, err := h.store.ListAccounts(r.Context(), platform)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list accounts", err)
		return
	}

	respondWithJSON(w, http.StatusOK, accounts)
}

// GetAccount returns one account by ID
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid account ID", err)
		return
	}

	account, err := h.store.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Account not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get account", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, account)
}

// UpdateAccount updates an account's mutable fields
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid account ID", err)
		return
	}

	existing, err := h.store.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Account not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get account", err)
		}
		return
	}

	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Username != "" {
		existing.Username = req.Username
	}
	if req.ProfileURL != "" {
		existing.ProfileURL = req.ProfileURL
	}
	if req.PlatformUserID != "" {
		existing.PlatformUserID = req.PlatformUserID
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	updated, err := h.store.UpdateAccount(r.Context(), *existing)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update account", err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteAccount removes an account and all its collected data
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid account ID", err)
		return
	}

	if err := h.store.DeleteAccount(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Account not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete account", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
