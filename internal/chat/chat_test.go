package chat

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	backend, err := store.NewSQLiteBackend(":memory:")
	require.NoError(t, err)
	s := store.New(backend)
	t.Cleanup(func() { s.Close() })
	return NewService(s)
}

func TestExtractFactsKeys(t *testing.T) {
	cases := []struct {
		text string
		key  string
		want string
	}{
		{"me llamo Ana", "name", "Ana"},
		{"mi nombre es Carlos", "name", "Carlos"},
		{"vivo en Madrid", "location", "Madrid"},
		{"soy de Buenos Aires", "location", "Buenos Aires"},
		{"trabajo en la fábrica", "job", "la fábrica"},
		{"mi color favorito es azul", "fav_color", "azul"},
		{"me gusta bailar", "likes", "bailar"},
	}
	for _, tc := range cases {
		facts := ExtractFacts(tc.text)
		assert.Equal(t, tc.want, facts[tc.key], "text %q", tc.text)
	}
}

func TestExtractFactsNoMatch(t *testing.T) {
	assert.Empty(t, ExtractFacts("el clima está agradable hoy"))
}

func TestCreateAndGetSession(t *testing.T) {
	svc := setupTestService(t)

	session, err := svc.Create("justo", "")
	require.NoError(t, err)
	assert.Len(t, session.ID, 12)
	assert.Equal(t, defaultTitle, session.Title)

	got, err := svc.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)

	_, err = svc.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendLearnsFactsAndPersonalizes(t *testing.T) {
	svc := setupTestService(t)
	session, _ := svc.Create("justo", "")

	reply, memory, err := svc.Send(session.ID, "me llamo Ana")
	require.NoError(t, err)
	assert.Contains(t, reply, "Ana")
	assert.Equal(t, "Ana", memory["name"])

	// The learned name personalizes later greetings.
	reply, _, err = svc.Send(session.ID, "hola")
	require.NoError(t, err)
	assert.Contains(t, reply, "Ana")
}

func TestSendMergesUserMemoryAcrossSessions(t *testing.T) {
	svc := setupTestService(t)

	first, _ := svc.Create("justo", "")
	_, _, err := svc.Send(first.ID, "vivo en Madrid")
	require.NoError(t, err)

	second, _ := svc.Create("justo", "")
	_, _, err = svc.Send(second.ID, "mi color favorito es verde")
	require.NoError(t, err)

	mem := svc.UserMemory("justo")
	assert.Equal(t, "Madrid", mem["location"])
	assert.Equal(t, "verde", mem["fav_color"])
}

func TestSendAutoTitlesFromFirstMessage(t *testing.T) {
	svc := setupTestService(t)
	session, _ := svc.Create("justo", "")

	long := strings.Repeat("palabra ", 20)
	_, _, err := svc.Send(session.ID, long)
	require.NoError(t, err)

	got, _ := svc.Get(session.ID)
	assert.NotEqual(t, defaultTitle, got.Title)
	assert.LessOrEqual(t, len([]rune(got.Title)), 40)
}

func TestSendKeepsExplicitTitle(t *testing.T) {
	svc := setupTestService(t)
	session, _ := svc.Create("justo", "Planes de viaje")

	_, _, err := svc.Send(session.ID, "hola")
	require.NoError(t, err)

	got, _ := svc.Get(session.ID)
	assert.Equal(t, "Planes de viaje", got.Title)
}

func TestSendAppendsBothRoles(t *testing.T) {
	svc := setupTestService(t)
	session, _ := svc.Create("justo", "")

	_, _, err := svc.Send(session.ID, "hola")
	require.NoError(t, err)

	got, _ := svc.Get(session.ID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, models.RoleUser, got.Messages[0].Role)
	assert.Equal(t, models.RoleAssistant, got.Messages[1].Role)
}

func TestSendSurvivesConcurrentSenders(t *testing.T) {
	svc := setupTestService(t)
	session, _ := svc.Create("justo", "")

	const senders = 8
	const perSender = 25

	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				_, _, err := svc.Send(session.ID, "hola")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	got, err := svc.Get(session.ID)
	require.NoError(t, err)
	// Every send appends a user message and a reply.
	assert.Len(t, got.Messages, 2*senders*perSender)
}

func TestGenerateReplyRules(t *testing.T) {
	session := models.ChatSession{Memory: map[string]string{}}

	assert.Contains(t, generateReply(session, "¿quién eres?"), "asistente")
	assert.Contains(t, generateReply(session, "adiós"), "Gracias")
	assert.Contains(t, generateReply(session, "cuéntame algo raro"), "cuéntame algo raro")
}

func TestListSortsByLastUpdate(t *testing.T) {
	svc := setupTestService(t)
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return base }
	older, _ := svc.Create("justo", "older")

	svc.now = func() time.Time { return base.Add(time.Hour) }
	newer, _ := svc.Create("justo", "newer")

	metas, err := svc.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, newer.ID, metas[0].ID)
	assert.Equal(t, older.ID, metas[1].ID)
}

func TestDeleteSession(t *testing.T) {
	svc := setupTestService(t)
	session, _ := svc.Create("justo", "")

	require.NoError(t, svc.Delete(session.ID))
	_, err := svc.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	if err := svc.Delete(session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound on double delete, got %v", err)
	}
}
