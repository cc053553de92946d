package domain

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Shipment is the central entity. It is addressed externally by its
// generated ShippingID; the numeric ID stays internal.
type Shipment struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ShippingID string `gorm:"size:32;not null;uniqueIndex" json:"shippingId"`

	SenderAddress     string  `gorm:"not null" json:"senderAddress"`
	ReceiverFirstName string  `gorm:"size:100;not null" json:"receiverFirstName"`
	ReceiverLastName  string  `gorm:"size:100;not null" json:"receiverLastName"`
	ReceiverAddress   string  `gorm:"not null" json:"receiverAddress"`
	ReceiverTelephone string  `gorm:"size:15;not null" json:"receiverTelephone"`
	Weight            float64 `gorm:"not null" json:"weight"`

	Status        Status `gorm:"size:32;not null;default:PENDING" json:"status"`
	RequestCancel bool   `gorm:"not null;default:false" json:"requestCancel"`
	DelayFlag     bool   `gorm:"not null;default:false" json:"delayFlag"`

	PlacedDate    time.Time  `gorm:"not null" json:"placedDate"`
	CollectedDate *time.Time `json:"collectedDate"`
	ShippedDate   *time.Time `json:"shippedDate"`
	CompletedDate *time.Time `json:"completedDate"`
	CanceledDate  *time.Time `json:"canceledDate"`

	UserID        uint           `gorm:"not null;index" json:"-"`
	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Notifications []Notification `gorm:"foreignKey:ShipmentID" json:"notifications,omitempty"`
}

// NewShipment builds a PENDING shipment for the owner with a freshly
// generated shipping ID and the placed timestamp set to now.
func NewShipment(ownerID uint, senderAddress, firstName, lastName, receiverAddress, telephone string, weight float64) *Shipment {
	return &Shipment{
		ShippingID:        NewShippingID(),
		SenderAddress:     senderAddress,
		ReceiverFirstName: firstName,
		ReceiverLastName:  lastName,
		ReceiverAddress:   receiverAddress,
		ReceiverTelephone: telephone,
		Weight:            weight,
		Status:            StatusPending,
		PlacedDate:        time.Now().UTC(),
		UserID:            ownerID,
	}
}

// Owned reports whether the shipment belongs to the given user.
func (s *Shipment) Owned(userID uint) bool {
	return s.UserID == userID
}

const shippingIDChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewShippingID generates a human-readable shipping ID: four random
// alphanumeric characters plus a base-36 millisecond timestamp. The
// repository enforces uniqueness; creation retries on collision.
func NewShippingID() string {
	prefix := make([]byte, 4)
	for i := range prefix {
		prefix[i] = shippingIDChars[rand.Intn(len(shippingIDChars))]
	}
	suffix := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return string(prefix) + "-" + suffix
}
