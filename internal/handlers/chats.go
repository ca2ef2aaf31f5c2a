package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JustoCornelioBello/socialpro/internal/analytics"
	"github.com/JustoCornelioBello/socialpro/internal/chat"
	"github.com/JustoCornelioBello/socialpro/internal/logger"
	"github.com/JustoCornelioBello/socialpro/internal/middleware"
	"github.com/JustoCornelioBello/socialpro/internal/models"
)

type ChatHandler struct {
	chat      *chat.Service
	analytics *analytics.Logger
}

func NewChatHandler(c *chat.Service, a *analytics.Logger) *ChatHandler {
	return &ChatHandler{chat: c, analytics: a}
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.chat.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []models.SessionMeta{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Title string `json:"title"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	session, err := h.chat.Create(middleware.UserHandle(r), in.Title)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": session.ID, "title": session.Title})
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.chat.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.chat.Delete(mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Send posts a user message and returns the assistant's reply. Message
// telemetry is best effort.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message string `json:"message"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	id := mux.Vars(r)["id"]
	h.record(models.AnalyticsEvent{
		Type:      "user_message",
		SessionID: id,
		UserID:    middleware.UserHandle(r),
		Data:      map[string]any{"len": len(in.Message)},
	})

	reply, memory, err := h.chat.Send(id, in.Message)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.record(models.AnalyticsEvent{
		Type:      "assistant_message",
		SessionID: id,
		UserID:    middleware.UserHandle(r),
		Data:      map[string]any{"len": len(reply)},
	})
	respondJSON(w, http.StatusOK, map[string]any{"reply": reply, "memory": memory})
}

func (h *ChatHandler) Memory(w http.ResponseWriter, r *http.Request) {
	memory, err := h.chat.Memory(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, memory)
}

// Export streams the session as a download in the requested format.
func (h *ChatHandler) Export(w http.ResponseWriter, r *http.Request) {
	blob, name, contentType, err := h.chat.Export(mux.Vars(r)["id"], r.URL.Query().Get("fmt"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chat.ErrSessionNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, chat.ErrBadFormat) {
			status = http.StatusBadRequest
		}
		respondError(w, status, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(blob)
}

func (h *ChatHandler) record(ev models.AnalyticsEvent) {
	if err := h.analytics.Record(ev); err != nil {
		logger.Warn.Printf("analytics: %v", err)
	}
}
