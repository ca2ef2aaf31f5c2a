package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/JustoCornelioBello/socialpro/internal/middleware"
	"github.com/JustoCornelioBello/socialpro/internal/notify"
)

type NotificationsHandler struct {
	notify *notify.Service
}

func NewNotificationsHandler(n *notify.Service) *NotificationsHandler {
	return &NotificationsHandler{notify: n}
}

// List supports ?unread=1 and ?types=like,comment filters.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	f := notify.Filter{
		OnlyUnread: r.URL.Query().Get("unread") == "1",
		ForHandle:  middleware.UserHandle(r),
	}
	if raw := r.URL.Query().Get("types"); raw != "" {
		f.Types = strings.Split(raw, ",")
	}
	items := h.notify.List(f)
	respondJSON(w, http.StatusOK, map[string]any{
		"items":  items,
		"unread": h.notify.UnreadCount(middleware.UserHandle(r)),
	})
}

func (h *NotificationsHandler) SetRead(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Read bool `json:"read"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.notify.SetRead(mux.Vars(r)["id"], in.Read); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notify.MarkAllRead(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *NotificationsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.notify.Remove(mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *NotificationsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.notify.Clear(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// AcceptInvite joins the inviting group and consumes the notification.
func (h *NotificationsHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	group, err := h.notify.AcceptInvite(mux.Vars(r)["id"], middleware.UserHandle(r))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, group)
}
