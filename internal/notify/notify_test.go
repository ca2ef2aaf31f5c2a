package notify

import (
	"errors"
	"testing"

	"github.com/JustoCornelioBello/socialpro/internal/groups"
	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

func setupTestService(t *testing.T) (*Service, *groups.Service) {
	t.Helper()
	backend, err := store.NewSQLiteBackend(":memory:")
	if err != nil {
		t.Fatalf("backend open error: %v", err)
	}
	s := store.New(backend)
	t.Cleanup(func() { s.Close() })
	g := groups.NewService(s)
	return NewService(s, g), g
}

func TestPushPrependsUnread(t *testing.T) {
	svc, _ := setupTestService(t)

	svc.Push(models.Notification{Type: models.NotifMention, Title: "older"})
	svc.Push(models.Notification{Type: models.NotifMention, Title: "newer"})

	all := svc.List(Filter{})
	if len(all) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(all))
	}
	if all[0].Title != "newer" {
		t.Error("expected newest first")
	}
	if !all[0].Unread || !all[1].Unread {
		t.Error("pushed notifications must start unread")
	}
}

func TestListFiltersUnreadAndTypes(t *testing.T) {
	svc, _ := setupTestService(t)

	a, _ := svc.Push(models.Notification{Type: models.NotifMention, Title: "sys"})
	svc.Push(models.Notification{Type: models.NotifLike, Title: "like"})
	svc.SetRead(a.ID, true)

	unread := svc.List(Filter{OnlyUnread: true})
	if len(unread) != 1 || unread[0].Title != "like" {
		t.Errorf("unexpected unread listing: %+v", unread)
	}

	byType := svc.List(Filter{Types: []string{models.NotifMention}})
	if len(byType) != 1 || byType[0].Title != "sys" {
		t.Errorf("unexpected type listing: %+v", byType)
	}
}

func TestInviteHiddenFromOtherHandles(t *testing.T) {
	svc, gsvc := setupTestService(t)
	owner := models.Author{ID: "u1", Name: "Justo"}
	g, _ := gsvc.Create(owner, "Gamers", "", "public")

	svc.Invite(owner, g, "maria")

	if got := svc.List(Filter{ForHandle: "carlos"}); len(got) != 0 {
		t.Errorf("invite for maria leaked to carlos: %+v", got)
	}
	if got := svc.List(Filter{ForHandle: "maria"}); len(got) != 1 {
		t.Errorf("maria should see her invite: %+v", got)
	}
}

func TestUnreadCount(t *testing.T) {
	svc, _ := setupTestService(t)

	svc.Push(models.Notification{Type: models.NotifMention, Title: "a"})
	b, _ := svc.Push(models.Notification{Type: models.NotifMention, Title: "b"})
	svc.SetRead(b.ID, true)

	if got := svc.UnreadCount("justo"); got != 1 {
		t.Errorf("expected 1 unread, got %d", got)
	}

	svc.MarkAllRead()
	if got := svc.UnreadCount("justo"); got != 0 {
		t.Errorf("expected 0 unread after mark-all, got %d", got)
	}
}

func TestSetReadUnknownID(t *testing.T) {
	svc, _ := setupTestService(t)

	if err := svc.SetRead("missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAcceptInviteJoinsGroupAndRemovesNotification(t *testing.T) {
	svc, gsvc := setupTestService(t)
	owner := models.Author{ID: "u1", Name: "Justo"}
	g, _ := gsvc.Create(owner, "Gamers", "", "public")

	n, err := svc.Invite(owner, g, "maria")
	if err != nil {
		t.Fatalf("invite error: %v", err)
	}

	joined, err := svc.AcceptInvite(n.ID, "u2")
	if err != nil {
		t.Fatalf("accept error: %v", err)
	}
	if !gsvc.IsMember(joined.Slug, "u2") {
		t.Error("accepting the invite should join the group")
	}
	if got := svc.List(Filter{}); len(got) != 0 {
		t.Errorf("accepted invite should be removed, got %+v", got)
	}
}

func TestAcceptInviteRejectsNonInvite(t *testing.T) {
	svc, _ := setupTestService(t)

	n, _ := svc.Push(models.Notification{Type: models.NotifMention, Title: "sys"})
	if _, err := svc.AcceptInvite(n.ID, "u2"); !errors.Is(err, ErrNotInvite) {
		t.Errorf("expected ErrNotInvite, got %v", err)
	}
	if _, err := svc.AcceptInvite("missing", "u2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
