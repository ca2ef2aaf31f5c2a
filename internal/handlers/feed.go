package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JustoCornelioBello/socialpro/internal/feed"
	"github.com/JustoCornelioBello/socialpro/internal/logger"
	"github.com/JustoCornelioBello/socialpro/internal/middleware"
	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/notify"
	"github.com/JustoCornelioBello/socialpro/internal/profile"
)

type FeedHandler struct {
	feed     *feed.Service
	notify   *notify.Service
	profiles *profile.Service
}

func NewFeedHandler(f *feed.Service, n *notify.Service, p *profile.Service) *FeedHandler {
	return &FeedHandler{feed: f, notify: n, profiles: p}
}

func (h *FeedHandler) author(r *http.Request) models.Author {
	p := h.profiles.GetOrDefault(middleware.UserHandle(r))
	return models.Author{ID: p.Handle, Name: p.Name, Avatar: p.Avatar}
}

// List returns the feed; ?group= narrows to one group, ?saved=1 to saved
// posts.
func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	var posts []models.Post
	if slug := r.URL.Query().Get("group"); slug != "" {
		posts = h.feed.GroupPosts(slug)
	} else {
		posts = h.feed.Posts()
	}
	if r.URL.Query().Get("saved") == "1" {
		kept := posts[:0:0]
		for _, p := range posts {
			if p.Saved {
				kept = append(kept, p)
			}
		}
		posts = kept
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *FeedHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text      string   `json:"text"`
		Images    []string `json:"images"`
		GroupSlug string   `json:"groupSlug"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	post, err := h.feed.CreatePost(h.author(r), in.Text, in.Images, in.GroupSlug)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

// React toggles the viewer's reaction on a post.
func (h *FeedHandler) React(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reaction models.Reaction `json:"reaction"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Reaction != models.ReactionLike && in.Reaction != models.ReactionDislike {
		respondError(w, http.StatusBadRequest, "reaction must be like or dislike")
		return
	}
	post, err := h.feed.TogglePostReaction(mux.Vars(r)["id"], in.Reaction)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if post.Reaction != models.ReactionNone && post.Author.ID != middleware.UserHandle(r) {
		actor := h.author(r)
		if _, err := h.notify.Push(models.Notification{
			Type:  string(post.Reaction),
			Title: "A " + actor.Name + " le gustó tu publicación",
		}); err != nil {
			logger.Warn.Printf("reaction notification: %v", err)
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"likes":        post.Likes,
		"dislikes":     post.Dislikes,
		"userReaction": post.Reaction,
	})
}

func (h *FeedHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Text       string `json:"text"`
		ParentID   string `json:"parentId"`
		ReplyingTo string `json:"replyingTo"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	comment, err := h.feed.AddComment(mux.Vars(r)["id"], h.author(r), in.Text, in.ParentID, in.ReplyingTo)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, feed.ErrPostNotFound) {
			status = http.StatusNotFound
		}
		respondError(w, status, err.Error())
		return
	}
	if _, err := h.notify.Push(models.Notification{
		Type:  models.NotifComment,
		Title: "Nuevo comentario en tu post",
	}); err != nil {
		logger.Warn.Printf("comment notification: %v", err)
	}
	respondJSON(w, http.StatusCreated, comment)
}

// ReactComment toggles the viewer's reaction on one comment.
func (h *FeedHandler) ReactComment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reaction models.Reaction `json:"reaction"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	vars := mux.Vars(r)
	comment, err := h.feed.ToggleCommentReaction(vars["id"], vars["commentID"], in.Reaction)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"likes":        comment.Likes,
		"dislikes":     comment.Dislikes,
		"userReaction": comment.Reaction,
	})
}

func (h *FeedHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.feed.DeleteComment(vars["id"], vars["commentID"]); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *FeedHandler) HideComment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Hidden bool `json:"hidden"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	vars := mux.Vars(r)
	if err := h.feed.SetCommentHidden(vars["id"], vars["commentID"], in.Hidden); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *FeedHandler) Hide(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Hidden bool `json:"hidden"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.feed.SetHidden(mux.Vars(r)["id"], in.Hidden); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *FeedHandler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	saved, err := h.feed.ToggleSaved(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"saved": saved})
}

func (h *FeedHandler) Share(w http.ResponseWriter, r *http.Request) {
	shares, err := h.feed.Share(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"shares": shares})
}

func (h *FeedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.DeletePost(mux.Vars(r)["id"]); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
