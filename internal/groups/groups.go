// Package groups manages user communities and membership.
package groups

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

var (
	ErrNotFound  = errors.New("groups: group not found")
	ErrEmptyName = errors.New("groups: empty name")
)

var slugStrip = regexp.MustCompile(`[^a-z0-9-]`)

// Slugify lowercases a name and reduces it to url-safe characters.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), "-")
	return slugStrip.ReplaceAllString(s, "")
}

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// List returns all groups.
func (s *Service) List() []models.Group {
	return store.Read(s.store, store.KeyGroups, []models.Group{})
}

// BySlug returns a group by its slug.
func (s *Service) BySlug(slug string) (models.Group, error) {
	for _, g := range s.List() {
		if g.Slug == slug {
			return g, nil
		}
	}
	return models.Group{}, ErrNotFound
}

// Create adds a group. The slug derives from the name; on collision a
// base-36 timestamp fragment is appended so two groups with the same name
// get distinct slugs.
func (s *Service) Create(owner models.Author, name, description, privacy string) (models.Group, error) {
	if strings.TrimSpace(name) == "" {
		return models.Group{}, ErrEmptyName
	}
	if privacy != "private" {
		privacy = "public"
	}
	group := models.Group{
		ID:          "g" + uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Privacy:     privacy,
		Owner:       owner,
		Members:     []string{owner.ID},
		CreatedAt:   time.Now().UTC(),
	}
	_, err := store.Update(s.store, store.KeyGroups, []models.Group{}, func(all []models.Group) []models.Group {
		base := Slugify(group.Name)
		slug := base
		for _, g := range all {
			if g.Slug == base {
				slug = base + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
				break
			}
		}
		group.Slug = slug
		return append(all, group)
	})
	return group, err
}

// Join adds userID to the member set. Joining twice is a no-op.
func (s *Service) Join(slug, userID string) (models.Group, error) {
	return s.updateMembers(slug, func(members []string) []string {
		for _, m := range members {
			if m == userID {
				return members
			}
		}
		return append(members, userID)
	})
}

// Leave removes userID from the member set.
func (s *Service) Leave(slug, userID string) (models.Group, error) {
	return s.updateMembers(slug, func(members []string) []string {
		kept := members[:0:0]
		for _, m := range members {
			if m != userID {
				kept = append(kept, m)
			}
		}
		return kept
	})
}

// IsMember reports whether userID belongs to the group.
func (s *Service) IsMember(slug, userID string) bool {
	g, err := s.BySlug(slug)
	if err != nil {
		return false
	}
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

func (s *Service) updateMembers(slug string, fn func([]string) []string) (models.Group, error) {
	var out models.Group
	found := false
	_, err := store.Update(s.store, store.KeyGroups, []models.Group{}, func(all []models.Group) []models.Group {
		for i := range all {
			if all[i].Slug == slug {
				all[i].Members = fn(all[i].Members)
				out = all[i]
				found = true
				break
			}
		}
		return all
	})
	if err != nil {
		return models.Group{}, err
	}
	if !found {
		return models.Group{}, ErrNotFound
	}
	return out, nil
}
