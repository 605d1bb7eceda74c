// internal/server/handlers/analytics.go

package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"creatorpulse/internal/adapter/storage"
	"creatorpulse/internal/domain/author"
	"creatorpulse/internal/domain/metrics"
	"creatorpulse/internal/service/analytics"
)

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	engine        metrics.Engine
	store         author.Store
	defaultPeriod string
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(engine metrics.Engine, store author.Store, defaultPeriod string) *AnalyticsHandler {
	return &AnalyticsHandler{
		engine:        engine,
		store:         store,
		defaultPeriod: defaultPeriod,
	}
}

// GetAccountAnalytics computes one account's metrics for an explicit window,
// with an optional previous window for the comparison block
func (h *AnalyticsHandler) GetAccountAnalytics(w http.ResponseWriter, r *http.Request) {
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

	current, err := parseWindow(r, "current_start", "current_end")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid current window", err)
		return
	}
	if current == nil {
		respondWithError(w, http.StatusBadRequest, "Missing current window", nil)
		return
	}

	previous, err := parseWindow(r, "previous_start", "previous_end")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid previous window", err)
		return
	}

	result, err := h.engine.ComputeAccountAnalytics(r.Context(), *account, *current, previous)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidWindow) {
			respondWithError(w, http.StatusBadRequest, "Invalid analysis window", err)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to compute analytics", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetComparativeAnalytics computes the multi-platform cohort report
func (h *AnalyticsHandler) GetComparativeAnalytics(w http.ResponseWriter, r *http.Request) {
	platformsParam := r.URL.Query().Get("platforms")
	if platformsParam == "" {
		respondWithError(w, http.StatusBadRequest, "Missing platforms parameter", nil)
		return
	}

	var platforms []string
	for _, p := range strings.Split(platformsParam, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !author.IsValidPlatform(p) {
			respondWithError(w, http.StatusBadRequest, "Unknown platform: "+p, nil)
			return
		}
		platforms = append(platforms, p)
	}
	if len(platforms) == 0 {
		respondWithError(w, http.StatusBadRequest, "Missing platforms parameter", nil)
		return
	}

	spec := metrics.PeriodSpec{
		Token: r.URL.Query().Get("period"),
	}
	if spec.Token == "" {
		spec.Token = h.defaultPeriod
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid start_date", err)
			return
		}
		spec.Start = &t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid end_date", err)
			return
		}
		spec.End = &t
	}

	includePrevious := true
	if v := r.URL.Query().Get("include_previous"); v == "false" {
		includePrevious = false
	}

	report, err := h.engine.ComputeComparativeAnalytics(r.Context(), platforms, spec, includePrevious)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidWindow) {
			respondWithError(w, http.StatusBadRequest, "Invalid analysis period", err)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to compute comparative analytics", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// parseWindow reads a start/end query pair. Both absent returns nil; one
// absent is an error.
func parseWindow(r *http.Request, startKey, endKey string) (*metrics.Window, error) {
	startVal := r.URL.Query().Get(startKey)
	endVal := r.URL.Query().Get(endKey)
	if startVal == "" && endVal == "" {
		return nil, nil
	}
	if startVal == "" || endVal == "" {
		return nil, errors.New("both start and end are required")
	}

	start, err := parseTime(startVal)
	if err != nil {
		return nil, err
	}
	end, err := parseTime(endVal)
	if err != nil {
		return nil, err
	}

	return &metrics.Window{Start: start, End: end}, nil
}

// parseTime accepts RFC3339 timestamps or plain dates
func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
