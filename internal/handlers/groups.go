package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JustoCornelioBello/socialpro/internal/groups"
	"github.com/JustoCornelioBello/socialpro/internal/middleware"
	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/notify"
	"github.com/JustoCornelioBello/socialpro/internal/profile"
)

type GroupHandler struct {
	groups   *groups.Service
	notify   *notify.Service
	profiles *profile.Service
}

func NewGroupHandler(g *groups.Service, n *notify.Service, p *profile.Service) *GroupHandler {
	return &GroupHandler{groups: g, notify: n, profiles: p}
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.groups.List())
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Privacy     string `json:"privacy"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	p := h.profiles.GetOrDefault(middleware.UserHandle(r))
	owner := models.Author{ID: p.Handle, Name: p.Name, Avatar: p.Avatar}
	group, err := h.groups.Create(owner, in.Name, in.Description, in.Privacy)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, group)
}

func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.BySlug(mux.Vars(r)["slug"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Join(mux.Vars(r)["slug"], middleware.UserHandle(r))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, group)
}

func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.Leave(mux.Vars(r)["slug"], middleware.UserHandle(r))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, group)
}

// Invite pushes an invite notification addressed to another handle.
func (h *GroupHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Handle string `json:"handle"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Handle == "" {
		respondError(w, http.StatusBadRequest, "handle is required")
		return
	}
	group, err := h.groups.BySlug(mux.Vars(r)["slug"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	p := h.profiles.GetOrDefault(middleware.UserHandle(r))
	from := models.Author{ID: p.Handle, Name: p.Name, Avatar: p.Avatar}
	n, err := h.notify.Invite(from, group, in.Handle)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, n)
}
