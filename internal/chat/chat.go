// Package chat implements the chatbot: sessions with history, a light
// fact memory learned from what the user says, and a rule-based reply
// generator.
package chat

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

const defaultTitle = "Nueva conversación"

var ErrSessionNotFound = errors.New("chat: session not found")

// factPatterns map phrasings to memory keys. First match per key wins.
var factPatterns = []struct {
	re  *regexp.Regexp
	key string
}{
	{regexp.MustCompile(`(?i)\bme llamo ([A-Za-zÁÉÍÓÚÜÑñáéíóúü'\- ]{2,})`), "name"},
	{regexp.MustCompile(`(?i)\bmi nombre es ([A-Za-zÁÉÍÓÚÜÑñáéíóúü'\- ]{2,})`), "name"},
	{regexp.MustCompile(`(?i)\bvivo en ([A-Za-zÁÉÍÓÚÜÑñáéíóúü'\- ,]{2,})`), "location"},
	{regexp.MustCompile(`(?i)\bsoy de ([A-Za-zÁÉÍÓÚÜÑñáéíóúü'\- ,]{2,})`), "location"},
	{regexp.MustCompile(`(?i)\btrabajo en ([A-Za-z0-9ÁÉÍÓÚÜÑñáéíóúü'\- ,]{2,})`), "job"},
	{regexp.MustCompile(`(?i)\bmi color favorito es ([A-Za-zÁÉÍÓÚÜÑñáéíóúü'\- ]{2,})`), "fav_color"},
	{regexp.MustCompile(`(?i)\bme gustan? ([A-Za-z0-9ÁÉÍÓÚÜÑñáéíóúü'\- ,]{2,})`), "likes"},
}

// ExtractFacts pulls simple personal facts out of a message.
func ExtractFacts(text string) map[string]string {
	facts := map[string]string{}
	for _, p := range factPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			if _, seen := facts[p.key]; !seen {
				facts[p.key] = strings.TrimSpace(m[1])
			}
		}
	}
	return facts
}

type Service struct {
	store *store.Store
	now   func() time.Time
}

func NewService(s *store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

func sessionKey(id string) string { return store.KeyChatSessionPrefix + id }
func memoryKey(uid string) string { return store.KeyUserMemoryPrefix + uid }

// Create starts a new session for userID.
func (s *Service) Create(userID, title string) (models.ChatSession, error) {
	if title == "" {
		title = defaultTitle
	}
	now := s.now().UTC()
	session := models.ChatSession{
		ID:        strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		Title:     title,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
		Memory:    map[string]string{},
	}
	return session, store.Write(s.store, sessionKey(session.ID), session)
}

// Get loads one session.
func (s *Service) Get(id string) (models.ChatSession, error) {
	var session models.ChatSession
	if err := store.Decode(s.store, sessionKey(id), &session); err != nil {
		return models.ChatSession{}, ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session.
func (s *Service) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.store.Delete(sessionKey(id))
}

// List returns session metadata sorted by last update, newest first.
func (s *Service) List() ([]models.SessionMeta, error) {
	keys, err := s.store.Keys()
	if err != nil {
		return nil, err
	}
	var out []models.SessionMeta
	for _, k := range keys {
		if !strings.HasPrefix(k, store.KeyChatSessionPrefix) {
			continue
		}
		var session models.ChatSession
		if err := store.Decode(s.store, k, &session); err != nil {
			continue // skip corrupt sessions rather than failing the listing
		}
		title := session.Title
		if title == "" && len(session.Messages) > 0 {
			title = clip(session.Messages[0].Content, 40)
		}
		out = append(out, models.SessionMeta{
			ID:        session.ID,
			Title:     title,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
			Messages:  len(session.Messages),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Send appends the user message, learns facts from it, generates a reply
// and persists the grown session. The whole read-modify-write runs under
// the session key's lock so concurrent sends never drop each other's
// messages. It returns the reply and the session's memory.
func (s *Service) Send(id, text string) (string, map[string]string, error) {
	if _, err := s.Get(id); err != nil {
		return "", nil, err
	}
	facts := ExtractFacts(text)

	var reply string
	updated, err := store.Update(s.store, sessionKey(id), models.ChatSession{}, func(session models.ChatSession) models.ChatSession {
		session.Messages = append(session.Messages, models.Message{Role: models.RoleUser, Content: text, TS: s.now().UTC()})

		if len(facts) > 0 {
			if session.Memory == nil {
				session.Memory = map[string]string{}
			}
			for k, v := range facts {
				session.Memory[k] = v
			}
		}

		reply = generateReply(session, text)
		session.Messages = append(session.Messages, models.Message{Role: models.RoleAssistant, Content: reply, TS: s.now().UTC()})

		if session.Title == defaultTitle && len(session.Messages) > 0 {
			session.Title = clip(session.Messages[0].Content, 40)
		}
		session.UpdatedAt = s.now().UTC()
		return session
	})
	if err != nil {
		return "", nil, err
	}

	if len(facts) > 0 {
		if err := s.mergeUserMemory(updated.UserID, facts); err != nil {
			return "", nil, err
		}
	}
	return reply, updated.Memory, nil
}

// Memory returns a session's learned facts.
func (s *Service) Memory(id string) (map[string]string, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if session.Memory == nil {
		return map[string]string{}, nil
	}
	return session.Memory, nil
}

// UserMemory returns the cross-session memory for a user.
func (s *Service) UserMemory(userID string) map[string]string {
	return store.Read(s.store, memoryKey(userID), map[string]string{})
}

func (s *Service) mergeUserMemory(userID string, facts map[string]string) error {
	_, err := store.Update(s.store, memoryKey(userID), map[string]string{}, func(cur map[string]string) map[string]string {
		for k, v := range facts {
			if v != "" {
				cur[k] = v
			}
		}
		return cur
	})
	return err
}

var (
	reGreeting = regexp.MustCompile(`(?i)\b(hola|buenas|qué tal)\b`)
	reWhoAmI   = regexp.MustCompile(`(?i)\bqu[ié]n eres\b`)
	reIntro    = regexp.MustCompile(`(?i)\bmi nombre es\b|\bme llamo\b`)
	reFarewell = regexp.MustCompile(`(?i)\b(ad[ií]os|gracias)\b`)
)

// generateReply is the offline reply model: a handful of intent rules plus
// an empathetic echo, personalized with remembered facts.
func generateReply(session models.ChatSession, text string) string {
	switch {
	case reGreeting.MatchString(text):
		if name := session.Memory["name"]; name != "" {
			return fmt.Sprintf("¡Hola %s! ¿En qué puedo ayudarte hoy?", name)
		}
		return "¡Hola! ¿En qué puedo ayudarte hoy?"
	case reWhoAmI.MatchString(text):
		return "Soy tu asistente. Puedo ayudarte a escribir, analizar y organizar ideas."
	case reIntro.MatchString(text):
		if n := ExtractFacts(text)["name"]; n != "" {
			return fmt.Sprintf("¡Encantado, %s! Lo recordaré.", n)
		}
		return "¡Encantado! Lo recordaré."
	case reFarewell.MatchString(text):
		return "¡Gracias a ti! Estoy aquí cuando me necesites."
	}
	return fmt.Sprintf("Entiendo. Me dices: “%s”. ¿Podrías contarme un poco más?", clip(text, 220))
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
