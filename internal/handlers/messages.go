package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JustoCornelioBello/socialpro/internal/messages"
)

type MessagesHandler struct {
	messages *messages.Service
}

func NewMessagesHandler(m *messages.Service) *MessagesHandler {
	return &MessagesHandler{messages: m}
}

// List supports ?q= to filter threads by contact name or preview text.
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"items": h.messages.List(r.URL.Query().Get("q")),
	})
}

// Open returns the full thread and clears its unread badge.
func (h *MessagesHandler) Open(w http.ResponseWriter, r *http.Request) {
	t, err := h.messages.Open(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text string `json:"text"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	msg, err := h.messages.Send(mux.Vars(r)["id"], in.Text)
	if err != nil {
		if errors.Is(err, messages.ErrEmptyMessage) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

func (h *MessagesHandler) TogglePin(w http.ResponseWriter, r *http.Request) {
	t, err := h.messages.TogglePin(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *MessagesHandler) SetMuted(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Muted bool `json:"muted"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	t, err := h.messages.SetMuted(mux.Vars(r)["id"], in.Muted)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *MessagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.messages.Delete(mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
