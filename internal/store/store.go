// Package store owns one ordered record collection (newest first) and mirrors it,
// as a whole JSON array, into a storage.KV key after every mutation.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/BearBump/trackbook/internal/models"
	"github.com/BearBump/trackbook/internal/storage"
	"github.com/pkg/errors"
)

type Store[T models.Record] struct {
	kv  storage.KV
	key string

	mu    sync.RWMutex
	items []T
}

func New[T models.Record](kv storage.KV, key string) *Store[T] {
	return &Store[T]{kv: kv, key: key, items: []T{}}
}

func (s *Store[T]) Key() string { return s.key }

// Load replaces the in-memory collection with the persisted one.
// Missing key, read errors and undecodable payloads all degrade to an empty collection.
func (s *Store[T]) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	items := []T{}
	raw, ok, err := s.kv.GetItem(ctx, s.key)
	switch {
	case err != nil:
		slog.Warn("load records: storage read failed, starting empty", "key", s.key, "error", err.Error())
	case !ok || raw == "":
	default:
		var decoded []T
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			slog.Warn("load records: payload is not a valid JSON array, starting empty", "key", s.key, "error", err.Error())
		} else if decoded != nil {
			items = decoded
		}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Add prepends rec. Uniqueness checks are the caller's job.
func (s *Store[T]) Add(ctx context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]T, 0, len(s.items)+1)
	next = append(next, rec)
	next = append(next, s.items...)
	return s.commit(ctx, next)
}

// Remove reports whether a record with id existed. An unknown id is not an error
// and does not touch storage.
func (s *Store[T]) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	next := make([]T, 0, len(s.items)-1)
	next = append(next, s.items[:idx]...)
	next = append(next, s.items[idx+1:]...)
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// Update applies mutate to a copy of the record with id and persists the result.
// mutate must not change the record id.
func (s *Store[T]) Update(ctx context.Context, id string, mutate func(*T)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	next := make([]T, len(s.items))
	copy(next, s.items)
	rec := next[idx]
	mutate(&rec)
	if rec.RecordID() != id {
		return false, errors.New("update must not change record id")
	}
	next[idx] = rec
	if err := s.commit(ctx, next); err != nil {
		return false, err
	}
	return true, nil
}

// All returns a copy of the collection in store order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store[T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx], true
	}
	var zero T
	return zero, false
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) indexOf(id string) int {
	for i, it := range s.items {
		if it.RecordID() == id {
			return i
		}
	}
	return -1
}

// commit persists next and only then makes it current, so a failed write changes nothing.
func (s *Store[T]) commit(ctx context.Context, next []T) error {
	b, err := json.Marshal(next)
	if err != nil {
		return errors.Wrap(err, "marshal records")
	}
	if err := s.kv.SetItem(ctx, s.key, string(b)); err != nil {
		return errors.Wrap(err, "persist records")
	}
	s.items = next
	return nil
}
