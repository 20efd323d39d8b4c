package carrier

import (
	"context"

	"github.com/BearBump/trackbook/internal/models"
)

// TrackingResult is everything a shipment gets at creation time. Nothing is re-fetched later.
type TrackingResult struct {
	Status            string
	EstimatedDelivery string
	Timeline          []models.TimelineEvent
}

type Client interface {
	GetTracking(ctx context.Context, carrierName, trackingNumber string) (TrackingResult, error)
}

// Display formats, matching what the browser version stored.
const (
	EstimatedDeliveryLayout = "Mon, Jan 2"
	EventDateLayout         = "Jan 2, 3:04 PM"
)

type Stage struct {
	Status string
	Icon   string
}

// Stages is the canonical pipeline; a timeline is always a prefix of it.
var Stages = []Stage{
	{Status: "Order Placed", Icon: "📝"},
	{Status: "Package Picked Up", Icon: "📦"},
	{Status: "In Transit", Icon: "🚚"},
	{Status: "Out for Delivery", Icon: "🚛"},
	{Status: "Delivered", Icon: "✅"},
}

// StageIcon returns the icon of a canonical stage, or a generic one.
func StageIcon(status string) string {
	for _, s := range Stages {
		if s.Status == status {
			return s.Icon
		}
	}
	return "📍"
}

// TimelineLength: сколько этапов показываем для статуса.
func TimelineLength(status string) int {
	switch status {
	case models.ShipmentStatusInTransit:
		return 3
	case models.ShipmentStatusDelivered:
		return len(Stages)
	default:
		return 2
	}
}
