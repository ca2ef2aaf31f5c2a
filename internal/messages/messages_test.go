package messages

import (
	"errors"
	"testing"

	"github.com/JustoCornelioBello/socialpro/internal/store"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	backend, err := store.NewSQLiteBackend(":memory:")
	if err != nil {
		t.Fatalf("backend open error: %v", err)
	}
	s := store.New(backend)
	t.Cleanup(func() { s.Close() })
	return NewService(s)
}

func TestListSeedsAndOrders(t *testing.T) {
	svc := setupTestService(t)

	threads := svc.List("")
	if len(threads) != 4 {
		t.Fatalf("expected 4 seeded threads, got %d", len(threads))
	}
	if !threads[0].Pinned {
		t.Error("pinned thread should sort first")
	}
	if threads[1].Unread == 0 {
		t.Error("unread thread should sort before read ones")
	}
	for _, th := range threads {
		if th.Messages != nil {
			t.Errorf("listing should not carry history, thread %s has %d messages", th.ID, len(th.Messages))
		}
	}
}

func TestListFiltersByQuery(t *testing.T) {
	svc := setupTestService(t)

	got := svc.List("maría")
	if len(got) != 1 || got[0].Name != "María Gómez" {
		t.Errorf("unexpected name match: %+v", got)
	}

	// The preview text matches too.
	got = svc.List("meetup")
	if len(got) != 1 || got[0].ID != "t2" {
		t.Errorf("unexpected preview match: %+v", got)
	}

	if got := svc.List("zzz"); len(got) != 0 {
		t.Errorf("expected no matches, got %+v", got)
	}
}

func TestOpenClearsUnreadAndReturnsHistory(t *testing.T) {
	svc := setupTestService(t)

	th, err := svc.Open("t1")
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if th.Unread != 0 {
		t.Error("opening a thread should clear its unread badge")
	}
	if len(th.Messages) != 3 {
		t.Errorf("expected 3 seeded messages, got %d", len(th.Messages))
	}

	for _, listed := range svc.List("") {
		if listed.ID == "t1" && listed.Unread != 0 {
			t.Error("cleared badge should persist")
		}
	}
}

func TestSendAppendsAndBumpsPreview(t *testing.T) {
	svc := setupTestService(t)

	msg, err := svc.Send("t3", "  nos vemos mañana  ")
	if err != nil {
		t.Fatalf("send error: %v", err)
	}
	if !msg.FromMe || msg.Text != "nos vemos mañana" {
		t.Errorf("unexpected message: %+v", msg)
	}

	th, _ := svc.Open("t3")
	if th.Last != "nos vemos mañana" {
		t.Errorf("preview should show the new message, got %q", th.Last)
	}
	if got := len(th.Messages); got != 3 {
		t.Errorf("expected 3 messages after send, got %d", got)
	}
}

func TestSendRejectsEmptyAndMissing(t *testing.T) {
	svc := setupTestService(t)

	if _, err := svc.Send("t1", "   "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.Send("missing", "hola"); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("expected ErrThreadNotFound, got %v", err)
	}
}

func TestTogglePinFlips(t *testing.T) {
	svc := setupTestService(t)

	th, err := svc.TogglePin("t2")
	if err != nil {
		t.Fatalf("pin error: %v", err)
	}
	if !th.Pinned {
		t.Error("thread should be pinned")
	}

	th, _ = svc.TogglePin("t2")
	if th.Pinned {
		t.Error("second toggle should unpin")
	}
}

func TestSetMuted(t *testing.T) {
	svc := setupTestService(t)

	th, err := svc.SetMuted("t4", true)
	if err != nil {
		t.Fatalf("mute error: %v", err)
	}
	if !th.Muted {
		t.Error("thread should be muted")
	}
}

func TestDeleteThread(t *testing.T) {
	svc := setupTestService(t)

	if err := svc.Delete("t1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := svc.Open("t1"); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("deleted thread should be gone, got %v", err)
	}
	if err := svc.Delete("t1"); !errors.Is(err, ErrThreadNotFound) {
		t.Errorf("expected ErrThreadNotFound on second delete, got %v", err)
	}
}
