package fake

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/BearBump/trackbook/internal/integrations/carrier"
	"github.com/BearBump/trackbook/internal/models"
)

type Rand interface {
	Intn(n int) int
}

// Statuses the generator picks from, uniformly.
var Statuses = []string{
	models.ShipmentStatusPending,
	models.ShipmentStatusInTransit,
	models.ShipmentStatusDelivered,
}

var Locations = []string{
	"Memphis, TN",
	"Louisville, KY",
	"Chicago, IL",
	"Los Angeles, CA",
	"New York, NY",
	"Dallas, TX",
	"Atlanta, GA",
	"Seattle, WA",
}

// Client: заглушка "перевозчика": статус, дата доставки и история генерируются случайно.
// Rand и часы инжектируются, чтобы в тестах всё было детерминировано.
type Client struct {
	mu  sync.Mutex
	r   Rand
	now func() time.Time
}

func New() *Client {
	return NewWithRand(rand.New(rand.NewSource(time.Now().UnixNano())), nil)
}

func NewSeeded(seed int64) *Client {
	return NewWithRand(rand.New(rand.NewSource(seed)), nil)
}

func NewWithRand(r Rand, now func() time.Time) *Client {
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Client{r: r, now: now}
}

func (f *Client) GetTracking(ctx context.Context, carrierName, trackingNumber string) (carrier.TrackingResult, error) {
	if err := ctx.Err(); err != nil {
		return carrier.TrackingResult{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	status := Statuses[f.r.Intn(len(Statuses))]
	return carrier.TrackingResult{
		Status:            status,
		EstimatedDelivery: f.estimatedDelivery(),
		Timeline:          f.generateTimeline(status),
	}, nil
}

// GenerateTimeline builds the fixed-at-creation history for status.
func (f *Client) GenerateTimeline(status string) []models.TimelineEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.generateTimeline(status)
}

// EstimatedDelivery is today plus 1..5 days.
func (f *Client) EstimatedDelivery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.estimatedDelivery()
}

func (f *Client) estimatedDelivery() string {
	days := f.r.Intn(5) + 1
	return f.now().AddDate(0, 0, days).Format(carrier.EstimatedDeliveryLayout)
}

func (f *Client) generateTimeline(status string) []models.TimelineEvent {
	n := carrier.TimelineLength(status)
	now := f.now()

	timeline := make([]models.TimelineEvent, 0, n)
	for i := 0; i < n; i++ {
		stage := carrier.Stages[i]
		// чем раньше этап, тем старше отметка: (n-i)*12 часов назад
		at := now.Add(-time.Duration(n-i) * 12 * time.Hour)
		timeline = append(timeline, models.TimelineEvent{
			Status:   stage.Status,
			Location: Locations[f.r.Intn(len(Locations))],
			Date:     at.Format(carrier.EventDateLayout),
			Icon:     stage.Icon,
		})
	}
	return timeline
}
