package httpcarrier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/BearBump/trackbook/internal/integrations/carrier"
	"github.com/BearBump/trackbook/internal/models"
	"github.com/pkg/errors"
)

// Client ходит в HTTP-эмулятор перевозчика (GET /v1/tracking/{carrier}/{number})
// и переводит ответ в формат карточки: статус, дата доставки, история.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	loc     *time.Location
}

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:9000"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
		loc: time.Local,
	}
}

type respEvent struct {
	Status    string    `json:"status"`
	Location  string    `json:"location"`
	EventTime time.Time `json:"event_time"`
}

type respBody struct {
	Carrier           string      `json:"carrier"`
	TrackNumber       string      `json:"track_number"`
	Status            string      `json:"status"`
	EstimatedDelivery *time.Time  `json:"estimated_delivery,omitempty"`
	Events            []respEvent `json:"events"`
}

func (c *Client) GetTracking(ctx context.Context, carrierName, trackingNumber string) (carrier.TrackingResult, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return carrier.TrackingResult{}, errors.Wrap(err, "parse base url")
	}
	u.Path = fmt.Sprintf("/v1/tracking/%s/%s", url.PathEscape(carrierName), url.PathEscape(trackingNumber))
	q := u.Query()
	if c.apiKey != "" {
		q.Set("apiKey", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return carrier.TrackingResult{}, errors.Wrap(err, "new request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return carrier.TrackingResult{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return carrier.TrackingResult{}, fmt.Errorf("carrier emulator rate limit (429)")
	}
	if resp.StatusCode/100 != 2 {
		return carrier.TrackingResult{}, fmt.Errorf("carrier emulator http %d", resp.StatusCode)
	}

	var rb respBody
	if err := json.NewDecoder(resp.Body).Decode(&rb); err != nil {
		return carrier.TrackingResult{}, errors.Wrap(err, "decode")
	}

	events := rb.Events
	sort.SliceStable(events, func(i, j int) bool { return events[i].EventTime.Before(events[j].EventTime) })

	timeline := make([]models.TimelineEvent, 0, len(events))
	for _, e := range events {
		timeline = append(timeline, models.TimelineEvent{
			Status:   e.Status,
			Location: e.Location,
			Date:     e.EventTime.In(c.loc).Format(carrier.EventDateLayout),
			Icon:     carrier.StageIcon(e.Status),
		})
	}

	est := ""
	if rb.EstimatedDelivery != nil {
		est = rb.EstimatedDelivery.In(c.loc).Format(carrier.EstimatedDeliveryLayout)
	}

	return carrier.TrackingResult{
		Status:            NormalizeStatus(rb.Status),
		EstimatedDelivery: est,
		Timeline:          timeline,
	}, nil
}

// NormalizeStatus maps emulator codes (IN_TRANSIT, DELIVERED, ...) onto card statuses.
// Unknown codes become pending.
func NormalizeStatus(raw string) string {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", "-")
	switch s {
	case models.ShipmentStatusInTransit, models.ShipmentStatusDelivered, models.ShipmentStatusException:
		return s
	default:
		return models.ShipmentStatusPending
	}
}
