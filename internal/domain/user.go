package domain

import "time"

// User is an account holder. The administrator is not stored
// specially; one configured email is treated as the sole admin.
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string    `gorm:"size:100;not null" json:"firstName"`
	LastName     string    `gorm:"size:100;not null" json:"lastName"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Address      string    `json:"address"`
	Telephone    string    `gorm:"size:15" json:"telephone"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
}
