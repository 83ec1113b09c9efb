package admin

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

// UserRepository manages the users rows backing admin logins. The row is
// optional: an allow-listed email without a row authenticates by allow-list
// alone.
type UserRepository interface {
	// FindByEmail returns (nil, nil) when no row exists for the email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// RecordLogin upserts the users row for the email and stamps LastLogin.
	RecordLogin(ctx context.Context, email string) error
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", email).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to look up admin user", err)
	}

	return &user, nil
}

func (r *gormUserRepository) RecordLogin(ctx context.Context, email string) error {
	now := time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := models.User{Username: email}

		if err := tx.Where("LOWER(username) = ?", email).FirstOrCreate(&user).Error; err != nil {
			return apperrors.NewDatabaseError("failed to upsert admin user", err)
		}

		if err := tx.Model(&user).Update("last_login", now).Error; err != nil {
			return apperrors.NewDatabaseError("failed to stamp admin login", err)
		}

		return nil
	})
}
