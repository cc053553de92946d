package service

import (
	"context"
	"time"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
	"github.com/KOTTAGENVH/courier-service-app/internal/events"
)

// ShipmentStore is the persistence collaborator for shipments. The
// mutating calls couple the row update and the notification insert
// into a single transaction.
type ShipmentStore interface {
	Create(ctx context.Context, shipment *domain.Shipment) error
	GetByShippingID(ctx context.Context, shippingID string) (*domain.Shipment, error)
	ListAll(ctx context.Context) ([]domain.Shipment, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Shipment, error)
	ApplyTransition(ctx context.Context, shipmentID uint, from, to domain.Status, at time.Time, note *domain.Notification) (*domain.Shipment, error)
	ForceCancel(ctx context.Context, shipmentID uint, at time.Time, note *domain.Notification) (*domain.Shipment, error)
	SetRequestCancel(ctx context.Context, shipmentID uint, note *domain.Notification) (*domain.Shipment, error)
	SetDelayFlag(ctx context.Context, shipmentID uint, value bool, note *domain.Notification) (*domain.Shipment, error)
}

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

type NotificationStore interface {
	ListAll(ctx context.Context) ([]domain.Notification, error)
	ListUnreadByUser(ctx context.Context, userID uint) ([]domain.Notification, error)
	GetByID(ctx context.Context, id uint) (*domain.Notification, error)
	MarkViewed(ctx context.Context, id uint) (*domain.Notification, error)
}

// EventPublisher fans shipment lifecycle events out to the broker.
// Publishing is best-effort and never fails the request.
type EventPublisher interface {
	PublishShipmentEvent(event events.ShipmentEvent) error
}

// Mailer delivers transactional mail (password reset links, status
// mail sent by the event consumer).
type Mailer interface {
	Send(to, subject, htmlBody string) error
}
