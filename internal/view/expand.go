package view

import (
	"sort"
	"strings"
)

// ExpandState: какие карточки раскрыты. Живёт только в UI (cookie, флаг CLI),
// в хранилище не попадает.
type ExpandState struct {
	ids map[string]struct{}
}

func NewExpandState(ids ...string) *ExpandState {
	s := &ExpandState{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// ParseExpandState reads the comma separated form produced by String.
func ParseExpandState(raw string) *ExpandState {
	if raw == "" {
		return NewExpandState()
	}
	return NewExpandState(strings.Split(raw, ",")...)
}

func (s *ExpandState) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *ExpandState) IsExpanded(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Retain drops ids that are no longer present, e.g. after a delete.
func (s *ExpandState) Retain(exists func(id string) bool) {
	for id := range s.ids {
		if !exists(id) {
			delete(s.ids, id)
		}
	}
}

func (s *ExpandState) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *ExpandState) String() string {
	return strings.Join(s.IDs(), ",")
}
