// Package profile stores user profiles keyed by handle.
package profile

import (
	"errors"
	"time"

	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

var ErrNotFound = errors.New("profile: profile not found")

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// All returns every known profile, keyed by handle.
func (s *Service) All() map[string]models.Profile {
	return store.Read(s.store, store.KeyProfiles, map[string]models.Profile{})
}

// Get returns the profile for handle. When the profiles map has no entry
// it falls back through the legacy single-profile keys older versions of
// the app wrote, normalizing whatever it finds there.
func (s *Service) Get(handle string) (models.Profile, error) {
	if p, ok := s.All()[handle]; ok {
		return p, nil
	}
	for _, key := range store.LegacyProfileKeys {
		p := store.Read(s.store, key, models.Profile{})
		if p.Handle == handle || (p.Handle == "" && p.Name != "") {
			p.Handle = handle
			return p, nil
		}
	}
	return models.Profile{}, ErrNotFound
}

// GetOrDefault returns a usable profile even for unknown handles.
func (s *Service) GetOrDefault(handle string) models.Profile {
	if p, err := s.Get(handle); err == nil {
		return p
	}
	return models.Profile{
		Handle:   handle,
		Name:     handle,
		Avatar:   "🙂",
		JoinedAt: time.Now().UTC(),
	}
}

// Save upserts a profile under its handle.
func (s *Service) Save(p models.Profile) error {
	if p.JoinedAt.IsZero() {
		p.JoinedAt = time.Now().UTC()
	}
	_, err := store.Update(s.store, store.KeyProfiles, map[string]models.Profile{}, func(all map[string]models.Profile) map[string]models.Profile {
		all[p.Handle] = p
		return all
	})
	return err
}

// SetAvatarFrame changes only the avatar frame, creating the profile if
// needed (the store sells frames before a profile necessarily exists).
func (s *Service) SetAvatarFrame(handle, frame string) error {
	p := s.GetOrDefault(handle)
	p.AvatarFrame = frame
	return s.Save(p)
}
