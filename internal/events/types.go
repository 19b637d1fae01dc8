package events

import "time"

// Event types published on catalog changes.
const (
	TypeItemCreated = "item.created"
	TypeItemUpdated = "item.updated"
	TypeItemDeleted = "item.deleted"
)

// ItemEvent is the payload sent from API -> SQS -> worker.
type ItemEvent struct {
	Type          string    `json:"type"`
	ItemID        string    `json:"item_id"`
	Name          string    `json:"name,omitempty"`
	Price         float64   `json:"price,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// Known reports whether t is one of the catalog event types.
func Known(t string) bool {
	switch t {
	case TypeItemCreated, TypeItemUpdated, TypeItemDeleted:
		return true
	}
	return false
}
