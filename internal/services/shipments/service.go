package shipments

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BearBump/trackbook/internal/broker/messages"
	"github.com/BearBump/trackbook/internal/integrations/carrier"
	"github.com/BearBump/trackbook/internal/models"
	"github.com/pkg/errors"
)

const (
	MsgFillAllFields = "Please fill in all fields"
	MsgAdded         = "Tracking added successfully!"
	MsgRemoved       = "Tracking removed"
	ConfirmDelete    = "Are you sure you want to stop tracking this shipment?"
)

type Store interface {
	Add(ctx context.Context, rec models.Shipment) error
	Remove(ctx context.Context, id string) (bool, error)
	All() []models.Shipment
	Find(id string) (models.Shipment, bool)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// Confirmer is the platform yes/no prompt.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ChangePublisher interface {
	RecordChanged(ctx context.Context, kind, action, id string, record any)
}

// Service: контроллер списка отправлений. Каждое действие выполняется целиком под mu,
// как обработчик события в однопоточном UI.
type Service struct {
	mu sync.Mutex

	store   Store
	carrier carrier.Client
	events  ChangePublisher

	rl                 RateLimiter
	rateLimitPerMinute int64
	rateLimitWait      time.Duration

	now    func() time.Time
	lastID int64
}

func New(st Store, c carrier.Client) *Service {
	return &Service{
		store:         st,
		carrier:       c,
		rateLimitWait: 500 * time.Millisecond,
		now:           time.Now,
	}
}

func (s *Service) WithEvents(p ChangePublisher) *Service {
	s.events = p
	return s
}

func (s *Service) WithRateLimiter(rl RateLimiter, perMinute int) *Service {
	if rl != nil && perMinute > 0 {
		s.rl = rl
		s.rateLimitPerMinute = int64(perMinute)
	}
	return s
}

func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *Service) List() []models.Shipment {
	return s.store.All()
}

func (s *Service) Get(id string) (models.Shipment, bool) {
	return s.store.Find(id)
}

// SubmitTracking validates the form, asks the carrier source for the initial state
// and prepends the new shipment. Validation and duplicate errors leave the store untouched.
func (s *Service) SubmitTracking(ctx context.Context, in models.ShipmentCreateInput) (models.Shipment, error) {
	trackingNumber := strings.TrimSpace(in.TrackingNumber)
	carrierName := strings.TrimSpace(in.Carrier)
	if trackingNumber == "" {
		return models.Shipment{}, &models.ValidationError{Field: "trackingNumber", Message: MsgFillAllFields}
	}
	if carrierName == "" {
		return models.Shipment{}, &models.ValidationError{Field: "carrier", Message: MsgFillAllFields}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sh := range s.store.All() {
		if sh.TrackingNumber == trackingNumber {
			return models.Shipment{}, &models.DuplicateError{TrackingNumber: trackingNumber}
		}
	}

	s.throttle(ctx, carrierName)

	res, err := s.carrier.GetTracking(ctx, carrierName, trackingNumber)
	if err != nil {
		return models.Shipment{}, errors.Wrap(err, "carrier lookup")
	}

	now := s.now()
	sh := models.Shipment{
		ID:                s.nextID(now),
		TrackingNumber:    trackingNumber,
		Carrier:           carrierName,
		Status:            res.Status,
		AddedDate:         now.UTC(),
		EstimatedDelivery: res.EstimatedDelivery,
		Timeline:          res.Timeline,
	}
	if sh.Status == "" {
		sh.Status = models.ShipmentStatusPending
	}
	if sh.Timeline == nil {
		sh.Timeline = []models.TimelineEvent{}
	}

	if err := s.store.Add(ctx, sh); err != nil {
		return models.Shipment{}, err
	}
	slog.Info("tracking added", "id", sh.ID, "tracking_number", sh.TrackingNumber, "carrier", sh.Carrier, "status", sh.Status)
	s.publish(ctx, messages.ActionAdded, sh)
	return sh, nil
}

// DeleteTracking asks for confirmation and removes the shipment.
// Unknown ids and a declined prompt are no-ops; removed reports whether anything changed.
func (s *Service) DeleteTracking(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.store.Find(id)
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
	slog.Info("tracking removed", "id", id, "tracking_number", sh.TrackingNumber)
	s.publish(ctx, messages.ActionRemoved, sh)
	return true, nil
}

// nextID: время создания в миллисекундах; при коллизии сдвигаемся вперёд.
func (s *Service) nextID(now time.Time) string {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for {
		if _, taken := s.store.Find(strconv.FormatInt(id, 10)); !taken {
			break
		}
		id++
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func (s *Service) throttle(ctx context.Context, carrierName string) {
	if s.rl == nil || s.rateLimitPerMinute <= 0 {
		return
	}
	key := fmt.Sprintf("rl:carrier:%s:%s", carrierName, s.now().UTC().Format("200601021504"))
	allowed, n, err := s.rl.Allow(ctx, key, s.rateLimitPerMinute, 70*time.Second)
	if err != nil {
		slog.Warn("carrier rate limiter unavailable", "carrier", carrierName, "error", err.Error())
		return
	}
	if !allowed {
		// слишком много запросов к перевозчику за минуту: немного разгружаем источник
		slog.Warn("rate limit exceeded", "carrier", carrierName, "count", n)
		time.Sleep(s.rateLimitWait)
	}
}

func (s *Service) publish(ctx context.Context, action string, sh models.Shipment) {
	if s.events == nil {
		return
	}
	s.events.RecordChanged(ctx, models.RecordKindShipment, action, sh.ID, sh)
}
