// Package feed owns the post collection: creation, reactions, threaded
// comments and the visibility flags that pages toggle. All mutations are
// pure reducers applied under the store's per-key lock.
package feed

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

var (
	ErrPostNotFound    = errors.New("feed: post not found")
	ErrCommentNotFound = errors.New("feed: comment not found")
	ErrEmptyText       = errors.New("feed: empty text")
)

// Service reads and mutates the feed collection.
type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// Posts returns the whole feed, newest first (creation order is preserved
// by always prepending).
func (s *Service) Posts() []models.Post {
	return store.Read(s.store, store.KeyFeedPosts, []models.Post{})
}

// PostByID returns one post.
func (s *Service) PostByID(id string) (models.Post, error) {
	for _, p := range s.Posts() {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Post{}, ErrPostNotFound
}

// GroupPosts returns the posts associated with a group slug.
func (s *Service) GroupPosts(slug string) []models.Post {
	var out []models.Post
	for _, p := range s.Posts() {
		if p.GroupSlug == slug {
			out = append(out, p)
		}
	}
	return out
}

// CreatePost prepends a new post to the feed.
func (s *Service) CreatePost(author models.Author, text string, images []string, groupSlug string) (models.Post, error) {
	if text == "" && len(images) == 0 {
		return models.Post{}, ErrEmptyText
	}
	post := models.Post{
		ID:        "p" + uuid.NewString(),
		Author:    author,
		Text:      text,
		Images:    images,
		GroupSlug: groupSlug,
		CreatedAt: time.Now().UTC(),
	}
	_, err := store.Update(s.store, store.KeyFeedPosts, []models.Post{}, func(posts []models.Post) []models.Post {
		return append([]models.Post{post}, posts...)
	})
	return post, err
}

// TogglePostReaction applies the like/dislike transition to a post and
// returns its updated state.
func (s *Service) TogglePostReaction(postID string, want models.Reaction) (models.Post, error) {
	var out models.Post
	err := s.updatePost(postID, func(p *models.Post) {
		p.Likes, p.Dislikes, p.Reaction = toggleReaction(p.Likes, p.Dislikes, p.Reaction, want)
		out = *p
	})
	return out, err
}

// ToggleCommentReaction applies the like/dislike transition to one comment.
func (s *Service) ToggleCommentReaction(postID, commentID string, want models.Reaction) (models.Comment, error) {
	var out models.Comment
	found := false
	err := s.updatePost(postID, func(p *models.Post) {
		for i := range p.Comments {
			if p.Comments[i].ID == commentID {
				c := &p.Comments[i]
				c.Likes, c.Dislikes, c.Reaction = toggleReaction(c.Likes, c.Dislikes, c.Reaction, want)
				out = *c
				found = true
				return
			}
		}
	})
	if err != nil {
		return models.Comment{}, err
	}
	if !found {
		return models.Comment{}, ErrCommentNotFound
	}
	return out, nil
}

// AddComment appends a comment to a post. A parent id that does not name
// an existing comment on the same post is dropped rather than stored, so
// the parent-pointer graph stays acyclic and fully connected.
func (s *Service) AddComment(postID string, author models.Author, text, parentID, replyingTo string) (models.Comment, error) {
	if text == "" {
		return models.Comment{}, ErrEmptyText
	}
	comment := models.Comment{
		ID:         "c" + uuid.NewString(),
		Author:     author,
		Text:       text,
		ParentID:   parentID,
		ReplyingTo: replyingTo,
		CreatedAt:  time.Now().UTC(),
	}
	err := s.updatePost(postID, func(p *models.Post) {
		if comment.ParentID != "" && !hasComment(p.Comments, comment.ParentID) {
			comment.ParentID = ""
			comment.ReplyingTo = ""
		}
		p.Comments = append(p.Comments, comment)
	})
	return comment, err
}

// DeleteComment removes a comment and every descendant reachable through
// parent pointers.
func (s *Service) DeleteComment(postID, commentID string) error {
	found := false
	err := s.updatePost(postID, func(p *models.Post) {
		if !hasComment(p.Comments, commentID) {
			return
		}
		found = true
		doomed := descendants(p.Comments, commentID)
		doomed[commentID] = true
		kept := p.Comments[:0:0]
		for _, c := range p.Comments {
			if !doomed[c.ID] {
				kept = append(kept, c)
			}
		}
		p.Comments = kept
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrCommentNotFound
	}
	return nil
}

// SetCommentHidden flips the hidden flag on one comment.
func (s *Service) SetCommentHidden(postID, commentID string, hidden bool) error {
	found := false
	err := s.updatePost(postID, func(p *models.Post) {
		for i := range p.Comments {
			if p.Comments[i].ID == commentID {
				p.Comments[i].Hidden = hidden
				found = true
				return
			}
		}
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrCommentNotFound
	}
	return nil
}

// SetHidden flips the hidden flag on a post.
func (s *Service) SetHidden(postID string, hidden bool) error {
	return s.updatePost(postID, func(p *models.Post) { p.Hidden = hidden })
}

// ToggleSaved flips the saved flag and returns the new value.
func (s *Service) ToggleSaved(postID string) (bool, error) {
	var saved bool
	err := s.updatePost(postID, func(p *models.Post) {
		p.Saved = !p.Saved
		saved = p.Saved
	})
	return saved, err
}

// Share bumps the share counter.
func (s *Service) Share(postID string) (int, error) {
	var shares int
	err := s.updatePost(postID, func(p *models.Post) {
		p.Shares++
		shares = p.Shares
	})
	return shares, err
}

// DeletePost removes a post entirely.
func (s *Service) DeletePost(postID string) error {
	found := false
	_, err := store.Update(s.store, store.KeyFeedPosts, []models.Post{}, func(posts []models.Post) []models.Post {
		kept := posts[:0:0]
		for _, p := range posts {
			if p.ID == postID {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		return kept
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrPostNotFound
	}
	return nil
}

func (s *Service) updatePost(postID string, fn func(*models.Post)) error {
	found := false
	_, err := store.Update(s.store, store.KeyFeedPosts, []models.Post{}, func(posts []models.Post) []models.Post {
		for i := range posts {
			if posts[i].ID == postID {
				fn(&posts[i])
				found = true
				break
			}
		}
		return posts
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrPostNotFound
	}
	return nil
}

// toggleReaction is the reaction transition table shared by posts and
// comments. Repeating the current reaction clears it; switching moves one
// count from the old side to the new.
func toggleReaction(likes, dislikes int, cur, want models.Reaction) (int, int, models.Reaction) {
	switch want {
	case models.ReactionLike:
		switch cur {
		case models.ReactionLike:
			return likes - 1, dislikes, models.ReactionNone
		case models.ReactionDislike:
			return likes + 1, dislikes - 1, models.ReactionLike
		default:
			return likes + 1, dislikes, models.ReactionLike
		}
	case models.ReactionDislike:
		switch cur {
		case models.ReactionDislike:
			return likes, dislikes - 1, models.ReactionNone
		case models.ReactionLike:
			return likes - 1, dislikes + 1, models.ReactionDislike
		default:
			return likes, dislikes + 1, models.ReactionDislike
		}
	}
	return likes, dislikes, cur
}

func hasComment(comments []models.Comment, id string) bool {
	for _, c := range comments {
		if c.ID == id {
			return true
		}
	}
	return false
}

// descendants computes the set of comment ids reachable from rootID via
// parent pointers, by repeated scans until no new member is found.
func descendants(comments []models.Comment, rootID string) map[string]bool {
	doomed := map[string]bool{}
	for {
		grew := false
		for _, c := range comments {
			if doomed[c.ID] {
				continue
			}
			if c.ParentID == rootID || doomed[c.ParentID] {
				doomed[c.ID] = true
				grew = true
			}
		}
		if !grew {
			return doomed
		}
	}
}
