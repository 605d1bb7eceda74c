// internal/server/handlers/collect.go

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"creatorpulse/internal/adapter/storage"
	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/service/collector"
)

// CollectHandler triggers collection runs over HTTP
type CollectHandler struct {
	service    *collector.Service
	store      author.Store
	windowDays int
}

// NewCollectHandler creates a new collect handler
func NewCollectHandler(service *collector.Service, store author.Store, windowDays int) *CollectHandler {
	return &CollectHandler{
		service:    service,
		store:      store,
		windowDays: windowDays,
	}
}

// CollectAccount runs a collection for one account. The window defaults to
// the configured trailing days and can be overridden with days=N.
func (h *CollectHandler) CollectAccount(w http.ResponseWriter, r *http.Request) {
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
	if !account.IsActive {
		respondWithError(w, http.StatusConflict, "Account is inactive", nil)
		return
	}

	days := h.windowDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := parseDays(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid days parameter", err)
			return
		}
		days = parsed
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)

	result, err := h.service.Collect(r.Context(), *account, from, to)
	if err != nil {
		if errors.Is(err, collector.ErrUnsupportedPlatform) {
			respondWithError(w, http.StatusBadRequest, "No collector for platform", err)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Collection failed", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func parseDays(v string) (int, error) {
	days, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if days <= 0 || days > 365 {
		return 0, errors.New("days must be between 1 and 365")
	}
	return days, nil
}
