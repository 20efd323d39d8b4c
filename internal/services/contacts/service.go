package contacts

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BearBump/trackbook/internal/broker/messages"
	"github.com/BearBump/trackbook/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	MsgFillAllFields = "Please fill in all fields"
	MsgInvalidPhone  = "Please enter a valid phone number"
	MsgAdded         = "Contact added successfully!"
	MsgDeleted       = "Contact deleted"
	ConfirmDelete    = "Are you sure you want to delete this contact?"

	minPhoneDigits = 10
)

type Store interface {
	Add(ctx context.Context, rec models.Contact) error
	Remove(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, mutate func(*models.Contact)) (bool, error)
	All() []models.Contact
	Find(id string) (models.Contact, bool)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

type Dialer interface {
	Dial(ctx context.Context, digits string) error
}

type ChangePublisher interface {
	RecordChanged(ctx context.Context, kind, action, id string, record any)
}

type Service struct {
	mu sync.Mutex

	store  Store
	events ChangePublisher
	now    func() time.Time
	newID  func() string
}

func New(st Store) *Service {
	return &Service{
		store: st,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

func (s *Service) WithEvents(p ChangePublisher) *Service {
	s.events = p
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Service) List() []models.Contact {
	return s.store.All()
}

func (s *Service) Get(id string) (models.Contact, bool) {
	return s.store.Find(id)
}

// Categories: варианты для фильтра: "all" и затем категории по умолчанию.
func (s *Service) Categories() []string {
	out := make([]string, 0, len(models.ContactCategories)+1)
	out = append(out, models.ContactCategoryAll)
	return append(out, models.ContactCategories...)
}

func (s *Service) SubmitContact(ctx context.Context, in models.ContactCreateInput) (models.Contact, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Contact{}, &models.ValidationError{Field: "name", Message: MsgFillAllFields}
	}
	if len(DigitsOnly(in.Phone)) < minPhoneDigits {
		return models.Contact{}, &models.ValidationError{Field: "phone", Message: MsgInvalidPhone}
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.ContactCategoryOther
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := models.Contact{
		ID:        s.newID(),
		Name:      name,
		Phone:     NormalizePhone(in.Phone),
		Category:  category,
		Notes:     strings.TrimSpace(in.Notes),
		AddedDate: s.now().UTC(),
	}
	if err := s.store.Add(ctx, c); err != nil {
		return models.Contact{}, err
	}
	slog.Info("contact added", "id", c.ID, "category", c.Category)
	s.publish(ctx, messages.ActionAdded, c)
	return c, nil
}

// Search filters by a case-insensitive substring of term in name or phone, and by exact
// category unless category is empty or "all". Store order is kept.
func (s *Service) Search(term, category string) []models.Contact {
	term = strings.ToLower(strings.TrimSpace(term))
	category = strings.TrimSpace(category)
	filterCategory := category != "" && category != models.ContactCategoryAll

	all := s.store.All()
	out := make([]models.Contact, 0, len(all))
	for _, c := range all {
		if term != "" &&
			!strings.Contains(strings.ToLower(c.Name), term) &&
			!strings.Contains(strings.ToLower(c.Phone), term) {
			continue
		}
		if filterCategory && c.Category != category {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Call records the call on the contact and then dials its digits.
// Unknown id is a no-op: called=false, err=nil.
func (s *Service) Call(ctx context.Context, id string, dialer Dialer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	ok, err := s.store.Update(ctx, id, func(c *models.Contact) {
		c.LastContacted = &now
		c.CallCount++
	})
	if err != nil || !ok {
		return false, err
	}
	c, _ := s.store.Find(id)
	slog.Info("contact called", "id", id, "call_count", c.CallCount)
	s.publish(ctx, messages.ActionCalled, c)

	if dialer == nil {
		return true, nil
	}
	if err := dialer.Dial(ctx, DigitsOnly(c.Phone)); err != nil {
		return true, errors.Wrap(err, "dial")
	}
	return true, nil
}

func (s *Service) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.store.Find(id)
	if !ok {
		return false, nil
	}
	if confirm == nil || !confirm.Confirm(ConfirmDelete) {
		return false, nil
	}
	removed, err := s.store.Remove(ctx, id)
	if err != nil || !removed {
		return false, err
	}
	slog.Info("contact deleted", "id", id)
	s.publish(ctx, messages.ActionRemoved, c)
	return true, nil
}

func (s *Service) publish(ctx context.Context, action string, c models.Contact) {
	if s.events == nil {
		return
	}
	s.events.RecordChanged(ctx, models.RecordKindContact, action, c.ID, c)
}
