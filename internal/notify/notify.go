// Package notify keeps the notification list and handles group invites.
package notify

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/JustoCornelioBello/socialpro/internal/groups"
	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

var (
	ErrNotFound  = errors.New("notify: notification not found")
	ErrNotInvite = errors.New("notify: notification is not an invite")
)

type Service struct {
	store  *store.Store
	groups *groups.Service
}

func NewService(s *store.Store, g *groups.Service) *Service {
	return &Service{store: s, groups: g}
}

// Filter narrows a notification listing.
type Filter struct {
	OnlyUnread bool
	Types      []string
	ForHandle  string
}

// List returns notifications newest first, filtered. Invites targeted at
// another handle never show up.
func (s *Service) List(f Filter) []models.Notification {
	all := store.Read(s.store, store.KeyNotifications, []models.Notification{})
	typeOK := func(t string) bool {
		if len(f.Types) == 0 {
			return true
		}
		for _, want := range f.Types {
			if t == want {
				return true
			}
		}
		return false
	}
	var out []models.Notification
	for _, n := range all {
		if f.OnlyUnread && !n.Unread {
			continue
		}
		if !typeOK(n.Type) {
			continue
		}
		if n.Type == models.NotifInvite && n.TargetHandle != "" && f.ForHandle != "" && n.TargetHandle != f.ForHandle {
			continue
		}
		out = append(out, n)
	}
	return out
}

// UnreadCount counts unread notifications visible to handle.
func (s *Service) UnreadCount(handle string) int {
	count := 0
	for _, n := range s.List(Filter{ForHandle: handle}) {
		if n.Unread {
			count++
		}
	}
	return count
}

// Push prepends a notification, assigning id and timestamp.
func (s *Service) Push(n models.Notification) (models.Notification, error) {
	n.ID = "n" + uuid.NewString()
	n.Unread = true
	n.CreatedAt = time.Now().UTC()
	_, err := store.Update(s.store, store.KeyNotifications, []models.Notification{}, func(all []models.Notification) []models.Notification {
		return append([]models.Notification{n}, all...)
	})
	return n, err
}

// Invite pushes a group invite targeted at one handle.
func (s *Service) Invite(from models.Author, group models.Group, toHandle string) (models.Notification, error) {
	return s.Push(models.Notification{
		Type:         models.NotifInvite,
		Title:        from.Name + " te invitó al grupo " + group.Name,
		TargetHandle: toHandle,
		Invite: &models.InviteDetail{
			GroupSlug: group.Slug,
			GroupName: group.Name,
			From:      from.ID,
		},
	})
}

// SetRead marks one notification read or unread.
func (s *Service) SetRead(id string, read bool) error {
	found := false
	_, err := store.Update(s.store, store.KeyNotifications, []models.Notification{}, func(all []models.Notification) []models.Notification {
		for i := range all {
			if all[i].ID == id {
				all[i].Unread = !read
				found = true
				break
			}
		}
		return all
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flips every notification to read.
func (s *Service) MarkAllRead() error {
	_, err := store.Update(s.store, store.KeyNotifications, []models.Notification{}, func(all []models.Notification) []models.Notification {
		for i := range all {
			all[i].Unread = false
		}
		return all
	})
	return err
}

// Remove deletes one notification.
func (s *Service) Remove(id string) error {
	_, err := store.Update(s.store, store.KeyNotifications, []models.Notification{}, func(all []models.Notification) []models.Notification {
		kept := all[:0:0]
		for _, n := range all {
			if n.ID != id {
				kept = append(kept, n)
			}
		}
		return kept
	})
	return err
}

// Clear deletes every notification.
func (s *Service) Clear() error {
	return store.Write(s.store, store.KeyNotifications, []models.Notification{})
}

// AcceptInvite joins the inviting group as userID and removes the
// notification.
func (s *Service) AcceptInvite(id, userID string) (models.Group, error) {
	var invite *models.InviteDetail
	for _, n := range s.List(Filter{}) {
		if n.ID == id {
			if n.Type != models.NotifInvite || n.Invite == nil {
				return models.Group{}, ErrNotInvite
			}
			invite = n.Invite
			break
		}
	}
	if invite == nil {
		return models.Group{}, ErrNotFound
	}
	g, err := s.groups.Join(invite.GroupSlug, userID)
	if err != nil {
		return models.Group{}, err
	}
	if err := s.Remove(id); err != nil {
		return models.Group{}, err
	}
	return g, nil
}
