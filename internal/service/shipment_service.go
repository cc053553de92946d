package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
	"github.com/KOTTAGENVH/courier-service-app/internal/events"
)

// createRetries bounds shipping-ID regeneration on a unique-constraint
// collision.
const createRetries = 3

// ShipmentService owns the shipment status state machine, the
// timestamp-stamping policy and the notification side effect. Every
// accepted mutation is durably recorded together with exactly one
// notification; validation happens before any write.
type ShipmentService struct {
	shipments ShipmentStore
	users     UserStore
	publisher EventPublisher
	log       *zap.Logger
}

func NewShipmentService(shipments ShipmentStore, users UserStore, publisher EventPublisher, log *zap.Logger) *ShipmentService {
	return &ShipmentService{
		shipments: shipments,
		users:     users,
		publisher: publisher,
		log:       log,
	}
}

type CreateShipmentInput struct {
	OwnerEmail        string  `json:"userEmail"`
	SenderAddress     string  `json:"senderAddress"`
	ReceiverFirstName string  `json:"receiverFirstName"`
	ReceiverLastName  string  `json:"receiverLastName"`
	ReceiverAddress   string  `json:"receiverAddress"`
	ReceiverTelephone string  `json:"receiverTelephone"`
	Weight            float64 `json:"weight"`
}

func (in CreateShipmentInput) validate() error {
	switch {
	case in.OwnerEmail == "":
		return fmt.Errorf("%w: userEmail is required", domain.ErrValidation)
	case in.SenderAddress == "":
		return fmt.Errorf("%w: senderAddress is required", domain.ErrValidation)
	case in.ReceiverFirstName == "" || in.ReceiverLastName == "":
		return fmt.Errorf("%w: receiver name is required", domain.ErrValidation)
	case in.ReceiverAddress == "":
		return fmt.Errorf("%w: receiverAddress is required", domain.ErrValidation)
	case len(in.ReceiverTelephone) < 10 || len(in.ReceiverTelephone) > 15:
		return fmt.Errorf("%w: receiverTelephone must be 10-15 characters", domain.ErrValidation)
	case in.Weight <= 0:
		return fmt.Errorf("%w: weight must be positive", domain.ErrValidation)
	}
	return nil
}

// Create registers a new PENDING shipment for the caller and records
// the "Shipment Created" notification with it. A caller may not create
// shipments on behalf of another account.
func (s *ShipmentService) Create(ctx context.Context, caller domain.CallerContext, in CreateShipmentInput) (*domain.Shipment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.OwnerEmail != caller.Email {
		return nil, fmt.Errorf("%w: cannot create shipment for another user", domain.ErrForbidden)
	}

	owner, err := s.users.GetByEmail(ctx, in.OwnerEmail)
	if err != nil {
		return nil, err
	}

	var shipment *domain.Shipment
	for attempt := 0; attempt < createRetries; attempt++ {
		shipment = domain.NewShipment(
			owner.ID,
			in.SenderAddress,
			in.ReceiverFirstName,
			in.ReceiverLastName,
			in.ReceiverAddress,
			in.ReceiverTelephone,
			in.Weight,
		)
		shipment.Notifications = []domain.Notification{*domain.NewCreatedNotification(shipment)}

		err = s.shipments.Create(ctx, shipment)
		if err == nil {
			break
		}
		if err != domain.ErrDuplicateShipping {
			return nil, err
		}
		s.log.Warn("shipping id collision, regenerating",
			zap.String("shipping_id", shipment.ShippingID))
	}
	if err != nil {
		return nil, err
	}

	s.publish(events.ShipmentCreatedEvent, shipment, owner.Email)
	return shipment, nil
}

// List returns all shipments for an admin-scoped call, or the caller's
// own shipments otherwise.
func (s *ShipmentService) List(ctx context.Context, caller domain.CallerContext, adminScope bool) ([]domain.Shipment, error) {
	if adminScope {
		if !caller.IsAdmin {
			return nil, fmt.Errorf("%w: only admin has access to all shipments", domain.ErrForbidden)
		}
		return s.shipments.ListAll(ctx)
	}

	user, err := s.users.GetByEmail(ctx, caller.Email)
	if err != nil {
		return nil, err
	}
	return s.shipments.ListByUser(ctx, user.ID)
}

// Get fetches one shipment by shipping ID. On the user scope a
// shipment owned by someone else is indistinguishable from a missing
// one.
func (s *ShipmentService) Get(ctx context.Context, caller domain.CallerContext, shippingID string, adminScope bool) (*domain.Shipment, error) {
	if adminScope && !caller.IsAdmin {
		return nil, fmt.Errorf("%w: only admin has access to any shipment", domain.ErrForbidden)
	}

	shipment, err := s.shipments.GetByShippingID(ctx, shippingID)
	if err != nil {
		return nil, err
	}

	if !adminScope {
		user, err := s.users.GetByEmail(ctx, caller.Email)
		if err != nil {
			return nil, err
		}
		if !shipment.Owned(user.ID) {
			return nil, domain.ErrNotFound
		}
	}
	return shipment, nil
}

// Transition drives the shipment along one edge of the transition
// table. Only the admin may call it. The conditional update in the
// store guarantees at most one winning transition per logical change.
func (s *ShipmentService) Transition(ctx context.Context, caller domain.CallerContext, shippingID, rawStatus string) (*domain.Shipment, error) {
	if !caller.IsAdmin {
		return nil, fmt.Errorf("%w: only admin may update shipment status", domain.ErrForbidden)
	}

	target, err := domain.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	shipment, err := s.shipments.GetByShippingID(ctx, shippingID)
	if err != nil {
		return nil, err
	}

	if shipment.Status == target {
		return nil, fmt.Errorf("%w: shipment is already %s", domain.ErrSameStatus, target)
	}
	if !shipment.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: cannot change status from %s to %s",
			domain.ErrIllegalTransition, shipment.Status, target)
	}

	updated, err := s.shipments.ApplyTransition(
		ctx,
		shipment.ID,
		shipment.Status,
		target,
		time.Now().UTC(),
		domain.NewStatusNotification(shipment, target),
	)
	if err != nil {
		return nil, err
	}

	s.publish(events.StatusChangedEvent, updated, ownerEmail(shipment))
	return updated, nil
}

// Cancel is the user-facing cancellation. A PENDING shipment cancels
// immediately; an in-flight one only gets the requestCancel flag. The
// caller must own the shipment.
func (s *ShipmentService) Cancel(ctx context.Context, caller domain.CallerContext, shippingID string) (*domain.Shipment, error) {
	user, err := s.users.GetByEmail(ctx, caller.Email)
	if err != nil {
		return nil, err
	}

	shipment, err := s.shipments.GetByShippingID(ctx, shippingID)
	if err != nil {
		return nil, err
	}
	if !shipment.Owned(user.ID) {
		return nil, domain.ErrNotFound
	}

	if shipment.Status == domain.StatusPending {
		updated, err := s.shipments.ApplyTransition(
			ctx,
			shipment.ID,
			domain.StatusPending,
			domain.StatusCanceled,
			time.Now().UTC(),
			domain.NewCanceledNotification(shipment),
		)
		if err != nil {
			return nil, err
		}
		s.publish(events.ShipmentCanceledEvent, updated, user.Email)
		return updated, nil
	}

	if shipment.Status.Terminal() {
		return nil, fmt.Errorf("%w: shipment is already %s", domain.ErrIllegalTransition, shipment.Status)
	}

	updated, err := s.shipments.SetRequestCancel(ctx, shipment.ID, domain.NewCancelRequestNotification(shipment))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ForceCancel is the admin escape hatch: CANCELED is set regardless of
// the current status, bypassing the transition table.
func (s *ShipmentService) ForceCancel(ctx context.Context, caller domain.CallerContext, shippingID string) (*domain.Shipment, error) {
	if !caller.IsAdmin {
		return nil, fmt.Errorf("%w: only admin may force-cancel a shipment", domain.ErrForbidden)
	}

	shipment, err := s.shipments.GetByShippingID(ctx, shippingID)
	if err != nil {
		return nil, err
	}

	updated, err := s.shipments.ForceCancel(ctx, shipment.ID, time.Now().UTC(), domain.NewAdminCanceledNotification(shipment))
	if err != nil {
		return nil, err
	}

	s.publish(events.ShipmentCanceledEvent, updated, ownerEmail(shipment))
	return updated, nil
}

// ToggleDelay flips the delay flag on a shipment the caller owns. No
// status or timestamp changes.
func (s *ShipmentService) ToggleDelay(ctx context.Context, caller domain.CallerContext, shippingID string) (*domain.Shipment, error) {
	user, err := s.users.GetByEmail(ctx, caller.Email)
	if err != nil {
		return nil, err
	}

	shipment, err := s.shipments.GetByShippingID(ctx, shippingID)
	if err != nil {
		return nil, err
	}
	if !shipment.Owned(user.ID) {
		return nil, domain.ErrNotFound
	}

	newValue := !shipment.DelayFlag
	updated, err := s.shipments.SetDelayFlag(ctx, shipment.ID, newValue, domain.NewDelayNotification(shipment, newValue))
	if err != nil {
		return nil, err
	}

	s.publish(events.DelayFlaggedEvent, updated, user.Email)
	return updated, nil
}

func (s *ShipmentService) publish(eventType events.EventType, shipment *domain.Shipment, owner string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishShipmentEvent(events.NewShipmentEvent(eventType, shipment, owner)); err != nil {
		s.log.Warn("shipment event publish failed",
			zap.String("shipping_id", shipment.ShippingID),
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}

func ownerEmail(shipment *domain.Shipment) string {
	if shipment.User != nil {
		return shipment.User.Email
	}
	return ""
}
