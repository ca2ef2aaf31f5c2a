package analytics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JustoCornelioBello/socialpro/internal/models"
)

func setupTestLogger(t *testing.T) *Logger {
	t.Helper()
	l, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("logger init error: %v", err)
	}
	return l
}

func TestRecordAndReadBack(t *testing.T) {
	l := setupTestLogger(t)

	if err := l.Record(models.AnalyticsEvent{Type: "chat_message", UserID: "justo"}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if err := l.Record(models.AnalyticsEvent{Type: "page_view", UserID: "justo"}); err != nil {
		t.Fatalf("record error: %v", err)
	}

	events, err := l.Events()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != "chat_message" || events[1].Type != "page_view" {
		t.Errorf("unexpected order: %+v", events)
	}
	if events[0].TS.IsZero() {
		t.Error("recording must stamp unstamped events")
	}
}

func TestRecordKeepsExplicitTimestamp(t *testing.T) {
	l := setupTestLogger(t)
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	if err := l.Record(models.AnalyticsEvent{Type: "x", TS: ts}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	events, _ := l.Events()
	if !events[0].TS.Equal(ts) {
		t.Errorf("explicit timestamp replaced: %v", events[0].TS)
	}
}

func TestEventsSkipsCorruptLines(t *testing.T) {
	l := setupTestLogger(t)

	l.Record(models.AnalyticsEvent{Type: "good"})
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	f.WriteString("{broken json\n")
	f.Close()
	l.Record(models.AnalyticsEvent{Type: "also good"})

	events, err := l.Events()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("corrupt line should be skipped, got %d events", len(events))
	}
}

func TestEventsOnEmptyLog(t *testing.T) {
	l := setupTestLogger(t)

	events, err := l.Events()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestReset(t *testing.T) {
	l := setupTestLogger(t)

	l.Record(models.AnalyticsEvent{Type: "x"})
	if err := l.Reset(); err != nil {
		t.Fatalf("reset error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(l.path), "events.jsonl")); !os.IsNotExist(err) {
		t.Error("log file should be removed")
	}
	// Resetting an already-empty log is fine.
	if err := l.Reset(); err != nil {
		t.Errorf("double reset error: %v", err)
	}
}
