package waitlist

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestWaitlistService_CreateSignup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, nil)

	t.Run("successful signup normalizes and sanitizes input", func(t *testing.T) {
		req := &CreateSignupRequest{
			FullName:       "  Jane <b>Doe</b>  ",
			Email:          "JANE@Example.com",
			ReferralSource: "twitter",
			Interests:      []string{" ai ", "<script>", ""},
		}

		var captured *models.WaitlistSignup

		mockRepo.EXPECT().
			CreateSignup(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, signup *models.WaitlistSignup) (*models.WaitlistSignup, error) {
				captured = signup
				signup.ID = 1
				signup.Timestamp = time.Now()
				return signup, nil
			})

		result, err := service.CreateSignup(context.Background(), req, "203.0.113.7", "curl/8.0")

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, "jane@example.com", result.Email)
		assert.Equal(t, "Jane bDoe/b", result.FullName)
		assert.Equal(t, models.StatusPending, result.Status)

		assert.Equal(t, "203.0.113.7", captured.IPAddress)
		assert.Equal(t, "curl/8.0", captured.UserAgent)
		assert.Equal(t, []string{"ai", "script"}, []string(captured.Interests))
		assert.False(t, captured.EmailVerified)
	})

	t.Run("signup gets a 64 character hex token expiring in 24h", func(t *testing.T) {
		req := &CreateSignupRequest{FullName: "Jane Doe", Email: "jane2@example.com"}

		var captured *models.WaitlistSignup

		mockRepo.EXPECT().
			CreateSignup(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, signup *models.WaitlistSignup) (*models.WaitlistSignup, error) {
				captured = signup
				return signup, nil
			})

		_, err := service.CreateSignup(context.Background(), req, "", "")

		assert.NoError(t, err)
		assert.NotNil(t, captured.VerificationToken)
		assert.Len(t, *captured.VerificationToken, 64)

		assert.NotNil(t, captured.VerificationExpiry)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), *captured.VerificationExpiry, time.Minute)
	})

	t.Run("names below the minimum after sanitization are rejected", func(t *testing.T) {
		for _, name := range []string{" A ", "<a>", "< >"} {
			req := &CreateSignupRequest{FullName: name, Email: "short@example.com"}

			result, err := service.CreateSignup(context.Background(), req, "", "")

			assert.Error(t, err, "name %q should be rejected", name)
			assert.Nil(t, result)
			assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
		}
	})

	t.Run("names above the maximum after sanitization are rejected", func(t *testing.T) {
		req := &CreateSignupRequest{FullName: strings.Repeat("a", 101), Email: "long@example.com"}

		result, err := service.CreateSignup(context.Background(), req, "", "")

		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("duplicate email surfaces as EMAIL_EXISTS", func(t *testing.T) {
		req := &CreateSignupRequest{FullName: "Jane Doe", Email: "jane@example.com"}

		mockRepo.EXPECT().
			CreateSignup(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewEmailExistsError("email already registered", nil))

		result, err := service.CreateSignup(context.Background(), req, "", "")

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeEmailExists, apperrors.GetErrorType(err))
		assert.Equal(t, 409, apperrors.HTTPStatusCode(err))
	})

	t.Run("nil request", func(t *testing.T) {
		result, err := service.CreateSignup(context.Background(), nil, "", "")

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestWaitlistService_VerifyEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, nil)

	t.Run("valid token returns the verified signup", func(t *testing.T) {
		mockRepo.EXPECT().
			VerifyEmail(gomock.Any(), "abc123").
			Return(&models.WaitlistSignup{
				ID:            7,
				Email:         "jane@example.com",
				Status:        models.StatusVerified,
				EmailVerified: true,
			}, nil)

		result, err := service.VerifyEmail(context.Background(), &VerifyEmailRequest{Token: " abc123 "})

		assert.NoError(t, err)
		assert.Equal(t, models.StatusVerified, result.Status)
		assert.True(t, result.EmailVerified)
	})

	t.Run("expired or unknown token surfaces as INVALID_TOKEN", func(t *testing.T) {
		mockRepo.EXPECT().
			VerifyEmail(gomock.Any(), "stale").
			Return(nil, apperrors.NewInvalidTokenError("invalid or expired verification token", nil))

		result, err := service.VerifyEmail(context.Background(), &VerifyEmailRequest{Token: "stale"})

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeInvalidToken, apperrors.GetErrorType(err))
		assert.Equal(t, 400, apperrors.HTTPStatusCode(err))
	})

	t.Run("blank token is rejected without a repository call", func(t *testing.T) {
		result, err := service.VerifyEmail(context.Background(), &VerifyEmailRequest{Token: "   "})

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeInvalidToken, apperrors.GetErrorType(err))
	})
}

func TestWaitlistService_ListSignups(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, nil)

	t.Run("returns signups together with stats", func(t *testing.T) {
		mockRepo.EXPECT().
			ListSignups(gomock.Any(), "pending").
			Return([]*models.WaitlistSignup{
				{ID: 2, Email: "b@example.com", Status: models.StatusPending},
				{ID: 1, Email: "a@example.com", Status: models.StatusPending},
			}, nil)

		mockRepo.EXPECT().
			Stats(gomock.Any()).
			Return(&WaitlistStats{TotalSignups: 2, PendingCount: 2}, nil)

		result, err := service.ListSignups(context.Background(), "Pending")

		assert.NoError(t, err)
		assert.Len(t, result.Signups, 2)
		assert.Equal(t, int64(2), result.Stats.TotalSignups)
		assert.Equal(t, int64(2), result.Stats.PendingCount)
	})

	t.Run("invalid status filter is rejected", func(t *testing.T) {
		result, err := service.ListSignups(context.Background(), "archived")

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
	})
}

func TestWaitlistService_UpdateSignup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, nil)

	t.Run("invited status stamps invited_at", func(t *testing.T) {
		status := models.StatusInvited

		mockRepo.EXPECT().
			UpdateSignup(gomock.Any(), uint(3), gomock.Any()).
			DoAndReturn(func(_ context.Context, id uint, updates map[string]interface{}) (*models.WaitlistSignup, error) {
				assert.Equal(t, models.StatusInvited, updates["status"])
				assert.Contains(t, updates, "invited_at")
				return &models.WaitlistSignup{ID: id, Status: models.StatusInvited}, nil
			})

		result, err := service.UpdateSignup(context.Background(), 3, &UpdateSignupRequest{Status: &status})

		assert.NoError(t, err)
		assert.Equal(t, models.StatusInvited, result.Status)
	})

	t.Run("missing signup surfaces as WAITLIST_NOT_FOUND", func(t *testing.T) {
		priority := 5

		mockRepo.EXPECT().
			UpdateSignup(gomock.Any(), uint(99), gomock.Any()).
			Return(nil, apperrors.NewWaitlistNotFoundError("waitlist signup not found", nil))

		result, err := service.UpdateSignup(context.Background(), 99, &UpdateSignupRequest{Priority: &priority})

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeWaitlistNotFound, apperrors.GetErrorType(err))
		assert.Equal(t, 404, apperrors.HTTPStatusCode(err))
	})

	t.Run("priority outside 0..10 is rejected", func(t *testing.T) {
		priority := 11

		result, err := service.UpdateSignup(context.Background(), 3, &UpdateSignupRequest{Priority: &priority})

		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("empty update is rejected", func(t *testing.T) {
		result, err := service.UpdateSignup(context.Background(), 3, &UpdateSignupRequest{})

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestWaitlistService_BulkUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, nil)

	t.Run("deduplicates IDs before updating", func(t *testing.T) {
		status := models.StatusDeclined

		mockRepo.EXPECT().
			BulkUpdate(gomock.Any(), []uint{1, 2}, gomock.Any()).
			Return(nil)

		count, err := service.BulkUpdate(context.Background(), &BulkUpdateRequest{
			SignupIDs: []uint{1, 2, 1},
			Updates:   UpdateSignupRequest{Status: &status},
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("any missing ID fails the whole batch", func(t *testing.T) {
		status := models.StatusInvited

		mockRepo.EXPECT().
			BulkUpdate(gomock.Any(), []uint{1, 999}, gomock.Any()).
			Return(apperrors.NewWaitlistNotFoundError("one or more signups not found", nil))

		count, err := service.BulkUpdate(context.Background(), &BulkUpdateRequest{
			SignupIDs: []uint{1, 999},
			Updates:   UpdateSignupRequest{Status: &status},
		})

		assert.Error(t, err)
		assert.Zero(t, count)
		assert.Equal(t, apperrors.ErrorTypeWaitlistNotFound, apperrors.GetErrorType(err))
	})

	t.Run("empty ID list is rejected", func(t *testing.T) {
		count, err := service.BulkUpdate(context.Background(), &BulkUpdateRequest{})

		assert.Error(t, err)
		assert.Zero(t, count)
	})
}

func TestWaitlistService_WriteCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, nil)

	t.Run("writes header and one row per signup", func(t *testing.T) {
		referral := "newsletter"

		mockRepo.EXPECT().
			ExportAll(gomock.Any()).
			Return([]*models.WaitlistSignup{
				{
					ID:             1,
					FullName:       "Jane Doe",
					Email:          "jane@example.com",
					Status:         models.StatusVerified,
					EmailVerified:  true,
					Priority:       3,
					ReferralSource: &referral,
					Interests:      []string{"ai", "devtools"},
				},
			}, nil)

		var buf bytes.Buffer
		err := service.WriteCSV(context.Background(), &buf)

		assert.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 2)
		assert.Equal(t, "ID,Full Name,Email,Status,Verified,Priority,Signup Date,Referral Source,Interests,Notes", lines[0])
		assert.Contains(t, lines[1], "jane@example.com")
		assert.Contains(t, lines[1], "Yes")
		assert.Contains(t, lines[1], "ai; devtools")
	})

	t.Run("repository failure is propagated", func(t *testing.T) {
		mockRepo.EXPECT().
			ExportAll(gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("database error", nil))

		var buf bytes.Buffer
		err := service.WriteCSV(context.Background(), &buf)

		assert.Error(t, err)
		assert.Zero(t, buf.Len())
	})
}

func TestWeeklyGrowth(t *testing.T) {
	t.Run("doubling week over week is 100 percent", func(t *testing.T) {
		assert.Equal(t, 100, weeklyGrowth(10, 5))
	})

	t.Run("first signups with an empty prior week report 100", func(t *testing.T) {
		assert.Equal(t, 100, weeklyGrowth(5, 0))
	})

	t.Run("two empty weeks report zero", func(t *testing.T) {
		assert.Equal(t, 0, weeklyGrowth(0, 0))
	})

	t.Run("shrinking week goes negative", func(t *testing.T) {
		assert.Equal(t, -50, weeklyGrowth(5, 10))
	})

	t.Run("fractional growth rounds to nearest", func(t *testing.T) {
		assert.Equal(t, 33, weeklyGrowth(4, 3))
	})
}
