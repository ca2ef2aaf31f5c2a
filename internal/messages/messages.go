// Package messages keeps direct-message threads: an inbox strip ordered by
// pinned and unread state plus per-thread history.
package messages

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

var (
	ErrThreadNotFound = errors.New("messages: thread not found")
	ErrEmptyMessage   = errors.New("messages: empty message")
)

type Service struct {
	store *store.Store
	now   func() time.Time
}

func NewService(s *store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// seed is the demo inbox the app ships with, used as the fallback until the
// first write materializes it.
func (s *Service) seed() []models.Thread {
	now := s.now().UTC()
	return []models.Thread{
		{
			ID: "t1", Name: "María Gómez", Initials: "MG", Last: "¿Listo el diseño?",
			Unread: 2, Pinned: true, Online: true, UpdatedAt: now,
			Messages: []models.ThreadMessage{
				{ID: "m1", FromMe: false, Text: "Hola! ¿cómo vas?", SentAt: now.Add(-5 * time.Minute)},
				{ID: "m2", FromMe: true, Text: "Bien! avanzando el layout 💪", SentAt: now.Add(-3 * time.Minute)},
				{ID: "m3", FromMe: false, Text: "¿Listo el diseño?", SentAt: now},
			},
		},
		{
			ID: "t2", Name: "React RD", Initials: "RD", Last: "Nueva meetup este viernes",
			UpdatedAt: now.Add(-2 * time.Hour),
			Messages: []models.ThreadMessage{
				{ID: "m4", FromMe: false, Text: "Nueva meetup este viernes", SentAt: now.Add(-2 * time.Hour)},
			},
		},
		{
			ID: "t3", Name: "Juan Pérez", Initials: "JP", Last: "Te mando el repo",
			Unread: 1, Online: true, UpdatedAt: now.Add(-24 * time.Hour),
			Messages: []models.ThreadMessage{
				{ID: "m5", FromMe: true, Text: "Te mando el repo", SentAt: now.Add(-25 * time.Hour)},
				{ID: "m6", FromMe: false, Text: "Perfecto!", SentAt: now.Add(-24 * time.Hour)},
			},
		},
		{
			ID: "t4", Name: "Diseño UX", Initials: "UX", Last: "Mockups listos",
			UpdatedAt: now.Add(-26 * time.Hour),
			Messages: []models.ThreadMessage{
				{ID: "m7", FromMe: false, Text: "Mockups listos", SentAt: now.Add(-26 * time.Hour)},
			},
		},
	}
}

// List returns thread summaries without history, pinned first, then threads
// with unread messages. query filters on the contact name or the last
// message preview.
func (s *Service) List(query string) []models.Thread {
	all := store.Read(s.store, store.KeyMessageThreads, s.seed())
	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Thread
	for _, t := range all {
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Name), q) &&
			!strings.Contains(strings.ToLower(t.Last), q) {
			continue
		}
		t.Messages = nil
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].Unread > 0 && out[j].Unread == 0
	})
	return out
}

// Open returns one thread with its history and clears its unread badge.
func (s *Service) Open(id string) (models.Thread, error) {
	var opened models.Thread
	found := false
	_, err := store.Update(s.store, store.KeyMessageThreads, s.seed(), func(all []models.Thread) []models.Thread {
		for i := range all {
			if all[i].ID == id {
				all[i].Unread = 0
				opened = all[i]
				found = true
				break
			}
		}
		return all
	})
	if err != nil {
		return models.Thread{}, err
	}
	if !found {
		return models.Thread{}, ErrThreadNotFound
	}
	return opened, nil
}

// Send appends an outgoing message and bumps the thread preview.
func (s *Service) Send(id, text string) (models.ThreadMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ThreadMessage{}, ErrEmptyMessage
	}
	msg := models.ThreadMessage{
		ID:     "m" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10],
		FromMe: true,
		Text:   text,
		SentAt: s.now().UTC(),
	}
	found := false
	_, err := store.Update(s.store, store.KeyMessageThreads, s.seed(), func(all []models.Thread) []models.Thread {
		for i := range all {
			if all[i].ID == id {
				all[i].Messages = append(all[i].Messages, msg)
				all[i].Last = text
				all[i].UpdatedAt = msg.SentAt
				found = true
				break
			}
		}
		return all
	})
	if err != nil {
		return models.ThreadMessage{}, err
	}
	if !found {
		return models.ThreadMessage{}, ErrThreadNotFound
	}
	return msg, nil
}

// TogglePin flips a thread's pinned flag and returns its new state.
func (s *Service) TogglePin(id string) (models.Thread, error) {
	return s.mutate(id, func(t *models.Thread) { t.Pinned = !t.Pinned })
}

// SetMuted sets a thread's muted flag.
func (s *Service) SetMuted(id string, muted bool) (models.Thread, error) {
	return s.mutate(id, func(t *models.Thread) { t.Muted = muted })
}

func (s *Service) mutate(id string, fn func(*models.Thread)) (models.Thread, error) {
	var after models.Thread
	found := false
	_, err := store.Update(s.store, store.KeyMessageThreads, s.seed(), func(all []models.Thread) []models.Thread {
		for i := range all {
			if all[i].ID == id {
				fn(&all[i])
				after = all[i]
				found = true
				break
			}
		}
		return all
	})
	if err != nil {
		return models.Thread{}, err
	}
	if !found {
		return models.Thread{}, ErrThreadNotFound
	}
	after.Messages = nil
	return after, nil
}

// Delete removes a thread and its history.
func (s *Service) Delete(id string) error {
	found := false
	_, err := store.Update(s.store, store.KeyMessageThreads, s.seed(), func(all []models.Thread) []models.Thread {
		kept := all[:0:0]
		for _, t := range all {
			if t.ID == id {
				found = true
				continue
			}
			kept = append(kept, t)
		}
		return kept
	})
	if err != nil {
		return err
	}
	if !found {
		return ErrThreadNotFound
	}
	return nil
}
