package messages

import (
	"encoding/json"
	"time"
)

const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
	ActionCalled  = "called"
)

// RecordChanged публикуется после каждой успешной мутации хранилища.
type RecordChanged struct {
	Kind     string    `json:"kind"` // shipment | contact
	Action   string    `json:"action"`
	RecordID string    `json:"record_id"`
	At       time.Time `json:"at"`

	// Record: запись после изменения (для removed: последняя версия перед удалением).
	Record json.RawMessage `json:"record,omitempty"`
}
