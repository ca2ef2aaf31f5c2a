package store

import (
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores one file per key under a data directory. Writes go
// through a temp file and a rename so a crash mid-write never leaves a
// half-written value behind.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileBackend{dir: dir}, nil
}

// Keys come from the registry in keys.go and are plain identifiers, but
// guard against separators anyway so a hostile key cannot escape dir.
func (b *FileBackend) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(b.dir, safe+".json")
}

func (b *FileBackend) Get(key string) ([]byte, error) {
	raw, err := os.ReadFile(b.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (b *FileBackend) Put(key string, value []byte) error {
	path := b.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (b *FileBackend) Delete(key string) error {
	err := os.Remove(b.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (b *FileBackend) Keys() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}

func (b *FileBackend) Close() error { return nil }
