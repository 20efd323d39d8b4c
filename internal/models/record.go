package models

// Record is anything a store can hold: Shipment or Contact, never both in one collection.
type Record interface {
	RecordID() string
}

const (
	RecordKindShipment = "shipment"
	RecordKindContact  = "contact"
)
