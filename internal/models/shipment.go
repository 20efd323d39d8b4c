package models

import "time"

// Статусы отправления. exception генератор не выдаёт, но карточка умеет его показывать.
const (
	ShipmentStatusPending   = "pending"
	ShipmentStatusInTransit = "in-transit"
	ShipmentStatusDelivered = "delivered"
	ShipmentStatusException = "exception"
)

type Shipment struct {
	ID                string          `json:"id"`
	TrackingNumber    string          `json:"trackingNumber"`
	Carrier           string          `json:"carrier"`
	Status            string          `json:"status"`
	AddedDate         time.Time       `json:"addedDate"`
	EstimatedDelivery string          `json:"estimatedDelivery"`
	Timeline          []TimelineEvent `json:"timeline"`
}

func (s Shipment) RecordID() string { return s.ID }

// TimelineEvent is fixed at creation time; Date is a display string and is not re-parsed.
type TimelineEvent struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Icon     string `json:"icon"`
}

type ShipmentCreateInput struct {
	TrackingNumber string
	Carrier        string
}
