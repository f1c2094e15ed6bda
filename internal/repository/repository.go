// Package repository is the relational store adapter, backed by gorm on
// PostgreSQL or SQLite.
package repository

import (
	"campuscollab/internal/store"

	"gorm.io/gorm"
)

// Store bundles the per-entity repositories into a store.Store.
type Store struct {
	*UserRepository
	*SkillRepository
	*BookingRepository
	*ReviewRepository
	*NotificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		UserRepository:         NewUserRepository(db),
		SkillRepository:        NewSkillRepository(db),
		BookingRepository:      NewBookingRepository(db),
		ReviewRepository:       NewReviewRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// AutoMigrate creates or updates every table the store uses.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel{},
		&favoriteModel{},
		&skillModel{},
		&bookingModel{},
		&reviewModel{},
		&notificationModel{},
	)
}

var _ store.Store = (*Store)(nil)
