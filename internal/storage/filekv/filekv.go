package filekv

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
)

// Storage keeps every key in a single JSON object file, like browser localStorage
// keeps one bucket per origin. Writes go through a temp file + rename.
type Storage struct {
	path string

	mu sync.Mutex
	m  map[string]string
}

// DefaultPath returns $XDG_DATA_HOME/trackbook/storage.json.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "trackbook", "storage.json")
}

func New(path string) (*Storage, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create storage dir")
	}

	s := &Storage{path: path, m: make(map[string]string)}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read storage file")
	}
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.m); err != nil {
		// Битый файл не валит приложение: откладываем его в сторону и начинаем с пустого.
		backup := path + ".corrupt"
		slog.Warn("storage file is not valid JSON, starting empty", "path", path, "backup", backup, "error", err.Error())
		_ = os.Rename(path, backup)
		s.m = make(map[string]string)
	}
	return s, nil
}

func (s *Storage) Path() string { return s.path }

func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(s.m)+1)
	for k, v := range s.m {
		next[k] = v
	}
	next[key] = value

	if err := s.flush(next); err != nil {
		return err
	}
	s.m = next
	return nil
}

func (s *Storage) flush(m map[string]string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal storage")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".storage-*.json")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Wrap(err, "replace storage file")
	}
	return nil
}
