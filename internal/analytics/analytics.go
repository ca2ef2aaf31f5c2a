// Package analytics appends telemetry events to a JSONL file. Recording
// is fire-and-forget: a failed append is logged by the caller at most and
// never fails a request.
package analytics

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/JustoCornelioBello/socialpro/internal/models"
)

type Logger struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewLogger(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Logger{path: filepath.Join(dir, "events.jsonl"), now: time.Now}, nil
}

// Record appends one event, stamping it if unstamped.
func (l *Logger) Record(ev models.AnalyticsEvent) error {
	if ev.TS.IsZero() {
		ev.TS = l.now().UTC()
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}

// Events reads back every recorded event, skipping unparseable lines.
func (l *Logger) Events() ([]models.AnalyticsEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []models.AnalyticsEvent
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var ev models.AnalyticsEvent
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, sc.Err()
}

// Reset discards the event log.
func (l *Logger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
