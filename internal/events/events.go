package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

type EventType string

const (
	ShipmentCreatedEvent  EventType = "shipment.created"
	StatusChangedEvent    EventType = "shipment.status_changed"
	ShipmentCanceledEvent EventType = "shipment.canceled"
	DelayFlaggedEvent     EventType = "shipment.delay_flagged"
)

// ShipmentEvent is published to the broker after a lifecycle change
// has been durably recorded.
type ShipmentEvent struct {
	ID         uuid.UUID     `json:"id"`
	Type       EventType     `json:"type"`
	ShippingID string        `json:"shipping_id"`
	Status     domain.Status `json:"status"`
	OwnerEmail string        `json:"owner_email"`
	DelayFlag  bool          `json:"delay_flag"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewShipmentEvent stamps identity and time on an event envelope.
func NewShipmentEvent(eventType EventType, shipment *domain.Shipment, ownerEmail string) ShipmentEvent {
	return ShipmentEvent{
		ID:         uuid.New(),
		Type:       eventType,
		ShippingID: shipment.ShippingID,
		Status:     shipment.Status,
		OwnerEmail: ownerEmail,
		DelayFlag:  shipment.DelayFlag,
		OccurredAt: time.Now().UTC(),
	}
}
