package handlers

import (
	"net/http"

	"github.com/JustoCornelioBello/socialpro/internal/analytics"
	"github.com/JustoCornelioBello/socialpro/internal/logger"
	"github.com/JustoCornelioBello/socialpro/internal/models"
)

type AnalyticsHandler struct {
	analytics *analytics.Logger
}

func NewAnalyticsHandler(a *analytics.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: a}
}

// Record is the fire-and-forget beacon endpoint: the client never waits
// on or learns about storage failures.
func (h *AnalyticsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var ev models.AnalyticsEvent
	if !decodeJSON(w, r, &ev) {
		return
	}
	if err := h.analytics.Record(ev); err != nil {
		logger.Warn.Printf("analytics: %v", err)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AnalyticsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.analytics.Events()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []models.AnalyticsEvent{}
	}
	respondJSON(w, http.StatusOK, events)
}

// Reset discards the whole event log.
func (h *AnalyticsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.analytics.Reset(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
