package domain

import (
	"fmt"
	"time"
)

// Notification is an inbox entry tied to a user and a shipment. It is
// immutable except for the Viewed flag, which flips to true exactly
// once.
type Notification struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Date        time.Time `gorm:"not null;autoCreateTime" json:"date"`
	Viewed      bool      `gorm:"not null;default:false" json:"viewed"`

	UserID     uint      `gorm:"not null;index" json:"-"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ShipmentID uint      `gorm:"not null;index" json:"-"`
	Shipment   *Shipment `gorm:"foreignKey:ShipmentID" json:"shipment,omitempty"`
}

// Fixed notification templates, one per lifecycle event.

func NewCreatedNotification(s *Shipment) *Notification {
	return &Notification{
		Title:       "Shipment Created",
		Description: fmt.Sprintf("Shipment #%s has been created.", s.ShippingID),
		UserID:      s.UserID,
		ShipmentID:  s.ID,
	}
}

func NewStatusNotification(s *Shipment, target Status) *Notification {
	return &Notification{
		Title:       "Status Updated",
		Description: fmt.Sprintf("Shipment #%s status changed to %s.", s.ShippingID, target),
		UserID:      s.UserID,
		ShipmentID:  s.ID,
	}
}

func NewCanceledNotification(s *Shipment) *Notification {
	return &Notification{
		Title:       "Shipment Cancelled",
		Description: fmt.Sprintf("You have cancelled shipment #%s.", s.ShippingID),
		UserID:      s.UserID,
		ShipmentID:  s.ID,
	}
}

func NewCancelRequestNotification(s *Shipment) *Notification {
	return &Notification{
		Title:       "Cancel Request Submitted",
		Description: fmt.Sprintf("You have requested cancellation for shipment #%s.", s.ShippingID),
		UserID:      s.UserID,
		ShipmentID:  s.ID,
	}
}

func NewDelayNotification(s *Shipment, delayed bool) *Notification {
	return &Notification{
		Title:       "Delay Flagged",
		Description: fmt.Sprintf("Shipment #%s delay flag set to %t.", s.ShippingID, delayed),
		UserID:      s.UserID,
		ShipmentID:  s.ID,
	}
}

func NewAdminCanceledNotification(s *Shipment) *Notification {
	return &Notification{
		Title:       "Shipment Cancelled by Admin",
		Description: fmt.Sprintf("Admin cancelled shipment #%s.", s.ShippingID),
		UserID:      s.UserID,
		ShipmentID:  s.ID,
	}
}
