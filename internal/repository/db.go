package repository

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

// Open connects to postgres. TranslateError lets repositories detect
// unique-constraint violations as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)

	return db, nil
}

// AutoMigrate creates or updates the schema for all entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Shipment{}, &domain.Notification{})
}
