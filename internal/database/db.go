package database

import (
	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM and migrates
// the submission and contact collections.
func NewConnection(dsn string) (*gorm.DB, error) {
	// TranslateError so a duplicate reference surfaces as
	// gorm.ErrDuplicatedKey instead of a raw pq error.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.Submission{},
		&model.Coupon{},
		&model.ContactMessage{},
		&model.AuditLog{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
