package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

type ShipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

// Create inserts the shipment together with any notifications already
// attached to it, in one transaction. A shipping-ID collision is
// reported as domain.ErrDuplicateShipping so the caller can retry with
// a fresh ID.
func (r *ShipmentRepository) Create(ctx context.Context, shipment *domain.Shipment) error {
	err := r.db.WithContext(ctx).Create(shipment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateShipping
	}
	return err
}

func (r *ShipmentRepository) GetByShippingID(ctx context.Context, shippingID string) (*domain.Shipment, error) {
	var shipment domain.Shipment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Notifications").
		Where("shipping_id = ?", shippingID).
		First(&shipment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

func (r *ShipmentRepository) ListAll(ctx context.Context) ([]domain.Shipment, error) {
	var shipments []domain.Shipment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Notifications").
		Order("placed_date DESC").
		Find(&shipments).Error
	return shipments, err
}

func (r *ShipmentRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Shipment, error) {
	var shipments []domain.Shipment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Notifications").
		Where("user_id = ?", userID).
		Order("placed_date DESC").
		Find(&shipments).Error
	return shipments, err
}

// ApplyTransition performs the conditional status update and the
// notification insert as one transaction. The update only matches when
// the row still holds the previously read status; zero rows affected
// means a concurrent transition won.
func (r *ShipmentRepository) ApplyTransition(ctx context.Context, shipmentID uint, from, to domain.Status, at time.Time, note *domain.Notification) (*domain.Shipment, error) {
	var updated domain.Shipment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": to}
		if col := to.StampColumn(); col != "" {
			updates[col] = at
		}

		res := tx.Model(&domain.Shipment{}).
			Where("id = ? AND status = ?", shipmentID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrTransitionConflict
		}

		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return tx.First(&updated, shipmentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ForceCancel is the admin escape hatch: it cancels regardless of the
// current status. The canceled date is only stamped if not already set.
func (r *ShipmentRepository) ForceCancel(ctx context.Context, shipmentID uint, at time.Time, note *domain.Notification) (*domain.Shipment, error) {
	var updated domain.Shipment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Shipment{}).
			Where("id = ?", shipmentID).
			Updates(map[string]interface{}{
				"status":        domain.StatusCanceled,
				"canceled_date": gorm.Expr("COALESCE(canceled_date, ?)", at),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return tx.First(&updated, shipmentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetRequestCancel marks a cancellation request without touching the
// status, emitting the notification in the same transaction.
func (r *ShipmentRepository) SetRequestCancel(ctx context.Context, shipmentID uint, note *domain.Notification) (*domain.Shipment, error) {
	var updated domain.Shipment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Shipment{}).
			Where("id = ?", shipmentID).
			Update("request_cancel", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return tx.First(&updated, shipmentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetDelayFlag flips the delay flag from its previously read value.
// The conditional guard keeps two concurrent toggles from collapsing
// into a no-op pair.
func (r *ShipmentRepository) SetDelayFlag(ctx context.Context, shipmentID uint, value bool, note *domain.Notification) (*domain.Shipment, error) {
	var updated domain.Shipment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Shipment{}).
			Where("id = ? AND delay_flag = ?", shipmentID, !value).
			Update("delay_flag", value)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrTransitionConflict
		}

		if err := tx.Create(note).Error; err != nil {
			return err
		}
		return tx.First(&updated, shipmentID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
