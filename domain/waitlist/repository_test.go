package waitlist

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) (WaitlistRepository, *gorm.DB) {
	t.Helper()

	// Same gate as the integration suites: the SQLite driver needs cgo.
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping repository tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.WaitlistSignup{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewWaitlistRepository(db), db
}

func TestWaitlistRepository_FindByEmail(t *testing.T) {
	repo, db := newTestRepository(t)

	require.NoError(t, db.Create(&models.WaitlistSignup{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Status:   models.StatusPending,
	}).Error)

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		signup, err := repo.FindByEmail(context.Background(), "JANE@Example.com")

		assert.NoError(t, err)
		assert.Equal(t, "jane@example.com", signup.Email)
	})

	t.Run("unknown email surfaces as WAITLIST_NOT_FOUND", func(t *testing.T) {
		signup, err := repo.FindByEmail(context.Background(), "nobody@example.com")

		assert.Error(t, err)
		assert.Nil(t, signup)
		assert.Equal(t, apperrors.ErrorTypeWaitlistNotFound, apperrors.GetErrorType(err))
	})
}

func TestWaitlistRepository_FindByToken(t *testing.T) {
	repo, db := newTestRepository(t)

	liveToken := strings.Repeat("ab", 32)
	liveExpiry := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&models.WaitlistSignup{
		FullName:           "Live User",
		Email:              "live@example.com",
		Status:             models.StatusPending,
		VerificationToken:  &liveToken,
		VerificationExpiry: &liveExpiry,
	}).Error)

	staleToken := strings.Repeat("cd", 32)
	staleExpiry := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.WaitlistSignup{
		FullName:           "Stale User",
		Email:              "stale@example.com",
		Status:             models.StatusPending,
		VerificationToken:  &staleToken,
		VerificationExpiry: &staleExpiry,
	}).Error)

	t.Run("unexpired token resolves to its signup", func(t *testing.T) {
		signup, err := repo.FindByToken(context.Background(), liveToken)

		assert.NoError(t, err)
		assert.Equal(t, "live@example.com", signup.Email)
	})

	t.Run("expired token surfaces as INVALID_TOKEN", func(t *testing.T) {
		signup, err := repo.FindByToken(context.Background(), staleToken)

		assert.Error(t, err)
		assert.Nil(t, signup)
		assert.Equal(t, apperrors.ErrorTypeInvalidToken, apperrors.GetErrorType(err))
	})

	t.Run("unknown token surfaces as INVALID_TOKEN", func(t *testing.T) {
		signup, err := repo.FindByToken(context.Background(), strings.Repeat("ef", 32))

		assert.Error(t, err)
		assert.Nil(t, signup)
		assert.Equal(t, apperrors.ErrorTypeInvalidToken, apperrors.GetErrorType(err))
	})
}
