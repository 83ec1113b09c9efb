package waitlist

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

type WaitlistRepository interface {
	// CreateSignup inserts a new signup. The unique index on email is the
	// single source of truth for deduplication; a constraint violation comes
	// back as an EMAIL_EXISTS error.
	CreateSignup(ctx context.Context, signup *models.WaitlistSignup) (*models.WaitlistSignup, error)
	// FindByEmail does a case-insensitive lookup by email.
	FindByEmail(ctx context.Context, email string) (*models.WaitlistSignup, error)
	// FindByToken returns the signup whose verification token matches and
	// whose expiry is still in the future.
	FindByToken(ctx context.Context, token string) (*models.WaitlistSignup, error)
	// VerifyEmail consumes a verification token: status becomes verified,
	// email_verified flips true and the token pair is cleared, all in one
	// transaction. Unknown or expired tokens fail with INVALID_TOKEN.
	VerifyEmail(ctx context.Context, token string) (*models.WaitlistSignup, error)
	// UpdateSignup applies a partial update and returns the fresh record.
	UpdateSignup(ctx context.Context, id uint, updates map[string]interface{}) (*models.WaitlistSignup, error)
	// BulkUpdate applies the same update to every id, all-or-nothing: if any
	// id has no row the whole batch rolls back with WAITLIST_NOT_FOUND.
	BulkUpdate(ctx context.Context, ids []uint, updates map[string]interface{}) error
	// ListSignups returns signups newest-first, optionally filtered by status.
	ListSignups(ctx context.Context, status string) ([]*models.WaitlistSignup, error)
	// Stats computes the aggregate counters for the admin dashboard.
	Stats(ctx context.Context) (*WaitlistStats, error)
	// ExportAll returns every row, oldest-first, for CSV serialization.
	ExportAll(ctx context.Context) ([]*models.WaitlistSignup, error)
}

// WaitlistStats mirrors the admin dashboard counters.
type WaitlistStats struct {
	TotalSignups  int64
	TodaySignups  int64
	WeeklyGrowth  int
	VerifiedCount int64
	PendingCount  int64
	InvitedCount  int64
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) CreateSignup(ctx context.Context, signup *models.WaitlistSignup) (*models.WaitlistSignup, error) {
	if err := wr.db.WithContext(ctx).Create(signup).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewEmailExistsError("email address is already registered in the waitlist", err)
		}
		return nil, apperrors.NewDatabaseError("unable to create waitlist signup", err)
	}

	return signup, nil
}

func (wr *waitlistRepository) FindByEmail(ctx context.Context, email string) (*models.WaitlistSignup, error) {
	var signup models.WaitlistSignup

	err := wr.db.WithContext(ctx).
		Where("LOWER(email) = ?", NormalizeEmail(email)).
		First(&signup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewWaitlistNotFoundError("waitlist signup not found", err)
		}
		return nil, apperrors.NewDatabaseError("failed to fetch waitlist signup", err)
	}

	return &signup, nil
}

func (wr *waitlistRepository) FindByToken(ctx context.Context, token string) (*models.WaitlistSignup, error) {
	var signup models.WaitlistSignup

	err := wr.db.WithContext(ctx).
		Where("verification_token = ? AND verification_expiry > ?", token, time.Now()).
		First(&signup).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewInvalidTokenError("invalid or expired verification token", err)
		}
		return nil, apperrors.NewDatabaseError("failed to fetch waitlist signup by token", err)
	}

	return &signup, nil
}

func (wr *waitlistRepository) VerifyEmail(ctx context.Context, token string) (*models.WaitlistSignup, error) {
	var verified *models.WaitlistSignup

	err := wr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var signup models.WaitlistSignup
		if err := tx.Where("verification_token = ? AND verification_expiry > ?", token, time.Now()).
			First(&signup).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewInvalidTokenError("invalid or expired verification token", err)
			}
			return apperrors.NewDatabaseError("failed to fetch waitlist signup by token", err)
		}

		updates := map[string]interface{}{
			"status":              models.StatusVerified,
			"email_verified":      true,
			"verification_token":  nil,
			"verification_expiry": nil,
		}
		if err := tx.Model(&signup).Updates(updates).Error; err != nil {
			return apperrors.NewDatabaseError("unable to mark signup as verified", err)
		}

		signup.Status = models.StatusVerified
		signup.EmailVerified = true
		signup.VerificationToken = nil
		signup.VerificationExpiry = nil
		verified = &signup
		return nil
	})

	if err != nil {
		return nil, err
	}
	return verified, nil
}

func (wr *waitlistRepository) UpdateSignup(ctx context.Context, id uint, updates map[string]interface{}) (*models.WaitlistSignup, error) {
	if len(updates) == 0 {
		return nil, apperrors.NewInvalidRequestError("no fields to update", nil)
	}

	result := wr.db.WithContext(ctx).
		Model(&models.WaitlistSignup{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return nil, apperrors.NewDatabaseError("unable to update waitlist signup", result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, apperrors.NewWaitlistNotFoundError("waitlist signup not found", nil)
	}

	var signup models.WaitlistSignup
	if err := wr.db.WithContext(ctx).First(&signup, id).Error; err != nil {
		return nil, apperrors.NewDatabaseError("failed to reload waitlist signup", err)
	}

	return &signup, nil
}

func (wr *waitlistRepository) BulkUpdate(ctx context.Context, ids []uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return apperrors.NewInvalidRequestError("no fields to update", nil)
	}

	return wr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.WaitlistSignup{}).
			Where("id IN ?", ids).
			Count(&existing).Error; err != nil {
			return apperrors.NewDatabaseError("failed to verify bulk update targets", err)
		}

		if existing != int64(len(ids)) {
			return apperrors.NewWaitlistNotFoundError("one or more waitlist signups do not exist", nil)
		}

		if err := tx.Model(&models.WaitlistSignup{}).
			Where("id IN ?", ids).
			Updates(updates).Error; err != nil {
			return apperrors.NewDatabaseError("unable to bulk update waitlist signups", err)
		}

		return nil
	})
}

func (wr *waitlistRepository) ListSignups(ctx context.Context, status string) ([]*models.WaitlistSignup, error) {
	query := wr.db.WithContext(ctx).Order("timestamp DESC")

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var signups []*models.WaitlistSignup
	if err := query.Find(&signups).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch waitlist signups", err)
	}

	return signups, nil
}

func (wr *waitlistRepository) Stats(ctx context.Context) (*WaitlistStats, error) {
	db := wr.db.WithContext(ctx).Model(&models.WaitlistSignup{})

	stats := &WaitlistStats{}

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalSignups).Error; err != nil {
		return nil, apperrors.NewDatabaseError("failed to count signups", err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := today.AddDate(0, 0, -7)
	twoWeeksAgo := today.AddDate(0, 0, -14)

	if err := db.Session(&gorm.Session{}).
		Where("timestamp >= ?", today).
		Count(&stats.TodaySignups).Error; err != nil {
		return nil, apperrors.NewDatabaseError("failed to count today's signups", err)
	}

	var thisWeek, sinceTwoWeeks int64
	if err := db.Session(&gorm.Session{}).
		Where("timestamp >= ?", weekAgo).
		Count(&thisWeek).Error; err != nil {
		return nil, apperrors.NewDatabaseError("failed to count this week's signups", err)
	}
	if err := db.Session(&gorm.Session{}).
		Where("timestamp >= ?", twoWeeksAgo).
		Count(&sinceTwoWeeks).Error; err != nil {
		return nil, apperrors.NewDatabaseError("failed to count prior week's signups", err)
	}

	stats.WeeklyGrowth = weeklyGrowth(thisWeek, sinceTwoWeeks-thisWeek)

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := db.Session(&gorm.Session{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, apperrors.NewDatabaseError("failed to count signups by status", err)
	}

	for _, c := range counts {
		switch c.Status {
		case models.StatusVerified:
			stats.VerifiedCount = c.Count
		case models.StatusPending:
			stats.PendingCount = c.Count
		case models.StatusInvited:
			stats.InvitedCount = c.Count
		}
	}

	return stats, nil
}

// weeklyGrowth is the percent change between the most recent 7-day window
// and the one before it. An empty prior window reads as 100% growth when
// anything signed up this week, 0% otherwise.
func weeklyGrowth(thisWeek, lastWeek int64) int {
	if lastWeek > 0 {
		return int(math.Round(float64(thisWeek-lastWeek) / float64(lastWeek) * 100))
	}
	if thisWeek > 0 {
		return 100
	}
	return 0
}

func (wr *waitlistRepository) ExportAll(ctx context.Context) ([]*models.WaitlistSignup, error) {
	var signups []*models.WaitlistSignup

	if err := wr.db.WithContext(ctx).Order("id ASC").Find(&signups).Error; err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch signups for export", err)
	}

	return signups, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
