package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JustoCornelioBello/socialpro/internal/middleware"
	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/profile"
	"github.com/JustoCornelioBello/socialpro/internal/stories"
)

type StoriesHandler struct {
	stories  *stories.Service
	profiles *profile.Service
}

func NewStoriesHandler(s *stories.Service, p *profile.Service) *StoriesHandler {
	return &StoriesHandler{stories: s, profiles: p}
}

func (h *StoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.stories.List())
}

func (h *StoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in stories.Draft
	if !decodeJSON(w, r, &in) {
		return
	}
	story, err := h.stories.Create(in)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, story)
}

func (h *StoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	story, err := h.stories.ByID(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, story)
}

func (h *StoriesHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in stories.Draft
	if !decodeJSON(w, r, &in) {
		return
	}
	story, err := h.stories.Save(mux.Vars(r)["id"], in)
	if err != nil {
		respondError(w, storyStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, story)
}

func (h *StoriesHandler) Publish(w http.ResponseWriter, r *http.Request) {
	p := h.profiles.GetOrDefault(middleware.UserHandle(r))
	author := models.Author{ID: p.Handle, Name: p.Name, Avatar: p.Avatar}
	story, err := h.stories.Publish(mux.Vars(r)["id"], author)
	if err != nil {
		respondError(w, storyStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, story)
}

func (h *StoriesHandler) Unpublish(w http.ResponseWriter, r *http.Request) {
	story, err := h.stories.Unpublish(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, storyStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, story)
}

// View records a read for the acting user and returns the story.
func (h *StoriesHandler) View(w http.ResponseWriter, r *http.Request) {
	story, err := h.stories.RecordView(mux.Vars(r)["id"], middleware.UserHandle(r))
	if err != nil {
		respondError(w, storyStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, story)
}

func (h *StoriesHandler) RecordShare(w http.ResponseWriter, r *http.Request) {
	story, err := h.stories.RecordShare(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, storyStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, story)
}

func (h *StoriesHandler) History(w http.ResponseWriter, r *http.Request) {
	hist := h.stories.History(middleware.UserHandle(r))
	if hist == nil {
		hist = []models.ReadRecord{}
	}
	respondJSON(w, http.StatusOK, hist)
}

func (h *StoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.stories.Delete(mux.Vars(r)["id"]); err != nil {
		respondError(w, storyStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *StoriesHandler) Trash(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.stories.Trash())
}

func (h *StoriesHandler) Restore(w http.ResponseWriter, r *http.Request) {
	story, err := h.stories.Restore(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, storyStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, story)
}

func (h *StoriesHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	if err := h.stories.EmptyTrash(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Export streams the story as a download in the requested format.
func (h *StoriesHandler) Export(w http.ResponseWriter, r *http.Request) {
	blob, name, contentType, err := h.stories.Export(mux.Vars(r)["id"], r.URL.Query().Get("fmt"))
	if err != nil {
		respondError(w, storyStatus(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(blob)
}

func storyStatus(err error) int {
	switch {
	case errors.Is(err, stories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, stories.ErrBadFormat), errors.Is(err, stories.ErrNoTitle):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
