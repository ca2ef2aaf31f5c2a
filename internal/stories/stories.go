// Package stories manages long-form entries: drafting, publishing into
// the feed, per-user reading history and a trash with a 30-day retention
// window.
package stories

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JustoCornelioBello/socialpro/internal/feed"
	"github.com/JustoCornelioBello/socialpro/internal/groups"
	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

// TrashRetention is how long a deleted story stays restorable.
const TrashRetention = 30 * 24 * time.Hour

var (
	ErrNotFound = errors.New("stories: story not found")
	ErrNoTitle  = errors.New("stories: story needs a title")
)

// Categories offered by the editor; the first is the default.
var Categories = []string{"General", "Tecnología", "Viajes", "Cocina", "Deporte"}

type Service struct {
	store *store.Store
	feed  *feed.Service
	now   func() time.Time
}

func NewService(s *store.Store, f *feed.Service) *Service {
	return &Service{store: s, feed: f, now: time.Now}
}

// List returns all stories, most recently updated first.
func (s *Service) List() []models.Story {
	return store.Read(s.store, store.KeyStories, []models.Story{})
}

// ByID returns one story.
func (s *Service) ByID(id string) (models.Story, error) {
	for _, st := range s.List() {
		if st.ID == id {
			return st, nil
		}
	}
	return models.Story{}, ErrNotFound
}

// Draft is the caller-editable part of a story.
type Draft struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Body     string `json:"body"`
	Font     string `json:"font"`
	FontSize int    `json:"fontSize"`
	Cover    string `json:"cover"`
}

// Create saves a new unpublished story.
func (s *Service) Create(d Draft) (models.Story, error) {
	if d.Title == "" {
		return models.Story{}, ErrNoTitle
	}
	if d.Category == "" {
		d.Category = Categories[0]
	}
	if d.FontSize == 0 {
		d.FontSize = 16
	}
	now := s.now().UTC()
	story := models.Story{
		ID:        "s" + uuid.NewString(),
		Title:     d.Title,
		Category:  d.Category,
		Body:      d.Body,
		Font:      d.Font,
		FontSize:  d.FontSize,
		Cover:     d.Cover,
		CreatedAt: now,
		UpdatedAt: now,
		Stats:     models.StoryStats{Downloads: map[string]int{}},
	}
	_, err := store.Update(s.store, store.KeyStories, []models.Story{}, func(all []models.Story) []models.Story {
		return append([]models.Story{story}, all...)
	})
	return story, err
}

// Save replaces a story's editable fields.
func (s *Service) Save(id string, d Draft) (models.Story, error) {
	return s.updateStory(id, func(st *models.Story) {
		st.Title = d.Title
		st.Category = d.Category
		st.Body = d.Body
		st.Font = d.Font
		st.FontSize = d.FontSize
		st.Cover = d.Cover
		st.UpdatedAt = s.now().UTC()
	})
}

// Publish marks a story published, gives it a share slug and drops a post
// announcing it into the feed.
func (s *Service) Publish(id string, author models.Author) (models.Story, error) {
	story, err := s.updateStory(id, func(st *models.Story) {
		st.Published = true
		st.ShareSlug = groups.Slugify(st.Title)
		st.UpdatedAt = s.now().UTC()
	})
	if err != nil {
		return models.Story{}, err
	}
	if _, err := s.feed.CreatePost(author, "📖 "+story.Title+" — nueva historia publicada", nil, ""); err != nil {
		return story, err
	}
	return story, nil
}

// Unpublish reverts a story to draft.
func (s *Service) Unpublish(id string) (models.Story, error) {
	return s.updateStory(id, func(st *models.Story) {
		st.Published = false
		st.UpdatedAt = s.now().UTC()
	})
}

// RecordView bumps the view counter and appends to handle's reading
// history.
func (s *Service) RecordView(id, handle string) (models.Story, error) {
	now := s.now().UTC()
	story, err := s.updateStory(id, func(st *models.Story) {
		st.Stats.Views++
		st.Stats.LastReadAt = &now
	})
	if err != nil {
		return models.Story{}, err
	}
	_, err = store.Update(s.store, store.KeyReadingHistory, []models.ReadRecord{}, func(hist []models.ReadRecord) []models.ReadRecord {
		return append(hist, models.ReadRecord{Handle: handle, StoryID: id, ReadAt: now})
	})
	return story, err
}

// RecordShare bumps the share counter.
func (s *Service) RecordShare(id string) (models.Story, error) {
	return s.updateStory(id, func(st *models.Story) { st.Stats.Shares++ })
}

// History returns handle's reading history, most recent last.
func (s *Service) History(handle string) []models.ReadRecord {
	all := store.Read(s.store, store.KeyReadingHistory, []models.ReadRecord{})
	var out []models.ReadRecord
	for _, r := range all {
		if r.Handle == handle {
			out = append(out, r)
		}
	}
	return out
}

// Delete soft-deletes a story into the trash with a deletion stamp.
func (s *Service) Delete(id string) error {
	var removed *models.Story
	_, err := store.Update(s.store, store.KeyStories, []models.Story{}, func(all []models.Story) []models.Story {
		kept := all[:0:0]
		for _, st := range all {
			if st.ID == id {
				st := st
				removed = &st
				continue
			}
			kept = append(kept, st)
		}
		return kept
	})
	if err != nil {
		return err
	}
	if removed == nil {
		return ErrNotFound
	}
	now := s.now().UTC()
	removed.DeletedAt = &now
	_, err = store.Update(s.store, store.KeyStoriesTrash, []models.Story{}, func(trash []models.Story) []models.Story {
		return append([]models.Story{*removed}, trash...)
	})
	return err
}

// Trash lists soft-deleted stories, purging any whose retention window has
// lapsed. The purge runs opportunistically here rather than on a timer.
func (s *Service) Trash() []models.Story {
	now := s.now()
	kept, _ := store.Update(s.store, store.KeyStoriesTrash, []models.Story{}, func(trash []models.Story) []models.Story {
		alive := trash[:0:0]
		for _, st := range trash {
			if st.DeletedAt != nil && now.Sub(*st.DeletedAt) >= TrashRetention {
				continue
			}
			alive = append(alive, st)
		}
		return alive
	})
	return kept
}

// Restore moves a trashed story back into the main list.
func (s *Service) Restore(id string) (models.Story, error) {
	var restored *models.Story
	_, err := store.Update(s.store, store.KeyStoriesTrash, []models.Story{}, func(trash []models.Story) []models.Story {
		kept := trash[:0:0]
		for _, st := range trash {
			if st.ID == id {
				st := st
				st.DeletedAt = nil
				restored = &st
				continue
			}
			kept = append(kept, st)
		}
		return kept
	})
	if err != nil {
		return models.Story{}, err
	}
	if restored == nil {
		return models.Story{}, ErrNotFound
	}
	_, err = store.Update(s.store, store.KeyStories, []models.Story{}, func(all []models.Story) []models.Story {
		return append([]models.Story{*restored}, all...)
	})
	return *restored, err
}

// EmptyTrash discards everything in the trash immediately.
func (s *Service) EmptyTrash() error {
	return store.Write(s.store, store.KeyStoriesTrash, []models.Story{})
}

func (s *Service) updateStory(id string, fn func(*models.Story)) (models.Story, error) {
	var out models.Story
	found := false
	_, err := store.Update(s.store, store.KeyStories, []models.Story{}, func(all []models.Story) []models.Story {
		for i := range all {
			if all[i].ID == id {
				if all[i].Stats.Downloads == nil {
					all[i].Stats.Downloads = map[string]int{}
				}
				fn(&all[i])
				out = all[i]
				found = true
				break
			}
		}
		return all
	})
	if err != nil {
		return models.Story{}, err
	}
	if !found {
		return models.Story{}, ErrNotFound
	}
	return out, nil
}
