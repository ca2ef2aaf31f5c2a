package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JustoCornelioBello/socialpro/internal/middleware"
	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/profile"
)

type ProfileHandler struct {
	profiles *profile.Service
}

func NewProfileHandler(p *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: p}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.profiles.GetOrDefault(middleware.UserHandle(r)))
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(mux.Vars(r)["handle"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in models.Profile
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Handle = mux.Vars(r)["handle"]
	if err := h.profiles.Save(in); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, in)
}
