package view

import "github.com/BearBump/trackbook/internal/models"

type StatusBadge struct {
	Label string
	Icon  string
	Class string
}

var statusBadges = map[string]StatusBadge{
	models.ShipmentStatusPending:   {Label: "Pending", Icon: "⏳", Class: "pending"},
	models.ShipmentStatusInTransit: {Label: "In Transit", Icon: "🚚", Class: "in-transit"},
	models.ShipmentStatusDelivered: {Label: "Delivered", Icon: "✅", Class: "delivered"},
	models.ShipmentStatusException: {Label: "Exception", Icon: "⚠️", Class: "exception"},
}

// Status returns the badge for a status; unknown statuses look like pending.
func Status(status string) StatusBadge {
	if b, ok := statusBadges[status]; ok {
		return b
	}
	return statusBadges[models.ShipmentStatusPending]
}

type ShipmentCard struct {
	ID             string
	TrackingNumber string
	Carrier        string
	Status         StatusBadge
	Delivery       string
	Timeline       []models.TimelineEvent
	Expanded       bool
}

type ShipmentList struct {
	Count int
	Empty bool
	Cards []ShipmentCard
}

func Shipments(list []models.Shipment, expanded *ExpandState) ShipmentList {
	out := ShipmentList{
		Count: len(list),
		Empty: len(list) == 0,
		Cards: make([]ShipmentCard, 0, len(list)),
	}
	for _, sh := range list {
		out.Cards = append(out.Cards, ShipmentCard{
			ID:             sh.ID,
			TrackingNumber: sh.TrackingNumber,
			Carrier:        sh.Carrier,
			Status:         Status(sh.Status),
			Delivery:       deliveryLine(sh),
			Timeline:       sh.Timeline,
			Expanded:       expanded.IsExpanded(sh.ID),
		})
	}
	return out
}

func deliveryLine(sh models.Shipment) string {
	if sh.Status == models.ShipmentStatusDelivered {
		return "Delivered"
	}
	return "Est. " + sh.EstimatedDelivery
}
