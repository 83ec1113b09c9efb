package waitlist

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/circuitbreaker"
	"github.com/akeren/waitlist-api/pkg/constants"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
)

const (
	// verificationTokenBytes yields a 64-character hex token.
	verificationTokenBytes = 32
	verificationTokenTTL   = 24 * time.Hour

	statsCacheKey = "waitlist:stats"
	statsCacheTTL = time.Minute
)

// Cache is the subset of the application cache the waitlist service needs.
// A nil cache means stats are computed on every request.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type WaitlistService interface {
	// CreateSignup validates, normalizes and persists a new signup, stamping
	// the caller's address and user agent for audit.
	CreateSignup(ctx context.Context, req *CreateSignupRequest, ipAddress, userAgent string) (*PublicSignupResponse, error)

	// VerifyEmail consumes a verification token and returns the updated signup.
	VerifyEmail(ctx context.Context, req *VerifyEmailRequest) (*SignupResponse, error)

	// ListSignups returns signups (optionally filtered by status) together
	// with the dashboard stats.
	ListSignups(ctx context.Context, status string) (*ListSignupsResponse, error)

	// UpdateSignup applies a partial status/priority/notes update.
	UpdateSignup(ctx context.Context, id uint, req *UpdateSignupRequest) (*SignupResponse, error)

	// BulkUpdate applies the same update to every listed signup, atomically.
	BulkUpdate(ctx context.Context, req *BulkUpdateRequest) (int, error)

	// Stats returns the dashboard counters, served from cache when possible.
	Stats(ctx context.Context) (*StatsResponse, error)

	// WriteCSV streams every signup as CSV to w.
	WriteCSV(ctx context.Context, w io.Writer) error
}

type waitlistService struct {
	logger       *log.Logger
	repository   WaitlistRepository
	cache        Cache
	cacheBreaker circuitbreaker.CircuitBreaker
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, cache Cache) WaitlistService {
	return &waitlistService{
		logger:       logger,
		repository:   repository,
		cache:        cache,
		cacheBreaker: circuitbreaker.NewCircuitBreaker(nil),
	}
}

func (s *waitlistService) CreateSignup(ctx context.Context, req *CreateSignupRequest, ipAddress, userAgent string) (*PublicSignupResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("CreateSignup received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	// Length bounds hold for what actually persists, so they are re-checked
	// after stripping: " A " and "<a>" both pass the binding tag but collapse
	// below the minimum once sanitized.
	fullName := sanitizeText(req.FullName)
	if n := utf8.RuneCountInString(fullName); n < 2 || n > 100 {
		logger.Error("CreateSignup received invalid full name after sanitization", "length", n)
		return nil, apperrors.NewInvalidRequestError("full name must be between 2 and 100 characters", nil)
	}

	token, err := generateVerificationToken()
	if err != nil {
		logger.Error("Failed to generate verification token", "error", err)
		return nil, apperrors.NewInternalServerError("unable to generate verification token", err)
	}
	expiry := time.Now().Add(verificationTokenTTL)

	signup := &models.WaitlistSignup{
		FullName:           fullName,
		Email:              NormalizeEmail(req.Email),
		Status:             models.StatusPending,
		EmailVerified:      false,
		VerificationToken:  &token,
		VerificationExpiry: &expiry,
		IPAddress:          ipAddress,
		UserAgent:          userAgent,
	}

	if src := sanitizeText(req.ReferralSource); src != "" {
		signup.ReferralSource = &src
	}
	for _, interest := range req.Interests {
		if cleaned := sanitizeText(interest); cleaned != "" {
			signup.Interests = append(signup.Interests, cleaned)
		}
	}

	created, err := s.repository.CreateSignup(ctx, signup)
	if err != nil {
		logger.Error("Failed to create waitlist signup", "email", signup.Email, "error", err)
		return nil, err
	}

	logger.Info("Waitlist signup created", "id", created.ID, "email", created.Email)

	response := ToPublicSignupResponse(created)
	return &response, nil
}

func (s *waitlistService) VerifyEmail(ctx context.Context, req *VerifyEmailRequest) (*SignupResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil || strings.TrimSpace(req.Token) == "" {
		logger.Error("VerifyEmail received empty token")
		return nil, apperrors.NewInvalidTokenError("verification token is required", nil)
	}

	signup, err := s.repository.VerifyEmail(ctx, strings.TrimSpace(req.Token))
	if err != nil {
		logger.Error("Failed to verify email", "error", err)
		return nil, err
	}

	logger.Info("Email verified", "id", signup.ID, "email", signup.Email)

	response := ToSignupResponse(signup)
	return &response, nil
}

func (s *waitlistService) ListSignups(ctx context.Context, status string) (*ListSignupsResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !models.IsValidSignupStatus(status) {
		logger.Error("ListSignups received invalid status filter", "status", status)
		return nil, apperrors.NewInvalidRequestError("invalid status filter", nil)
	}

	signups, err := s.repository.ListSignups(ctx, status)
	if err != nil {
		logger.Error("Failed to list waitlist signups", "error", err)
		return nil, err
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]SignupResponse, 0, len(signups))
	for _, signup := range signups {
		responses = append(responses, ToSignupResponse(signup))
	}

	return &ListSignupsResponse{Signups: responses, Stats: *stats}, nil
}

func (s *waitlistService) UpdateSignup(ctx context.Context, id uint, req *UpdateSignupRequest) (*SignupResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if id == 0 {
		logger.Error("UpdateSignup received invalid ID")
		return nil, apperrors.NewInvalidRequestError("invalid signup ID", nil)
	}

	updates, err := buildSignupUpdates(req)
	if err != nil {
		logger.Error("UpdateSignup received invalid update", "id", id, "error", err)
		return nil, err
	}

	updated, err := s.repository.UpdateSignup(ctx, id, updates)
	if err != nil {
		logger.Error("Failed to update waitlist signup", "id", id, "error", err)
		return nil, err
	}

	response := ToSignupResponse(updated)
	return &response, nil
}

func (s *waitlistService) BulkUpdate(ctx context.Context, req *BulkUpdateRequest) (int, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil || len(req.SignupIDs) == 0 {
		logger.Error("BulkUpdate received empty request")
		return 0, apperrors.NewInvalidRequestError("signup_ids cannot be empty", nil)
	}

	updates, err := buildSignupUpdates(&req.Updates)
	if err != nil {
		logger.Error("BulkUpdate received invalid update", "error", err)
		return 0, err
	}

	ids := dedupeIDs(req.SignupIDs)

	if err := s.repository.BulkUpdate(ctx, ids, updates); err != nil {
		logger.Error("Failed to bulk update signups", "ids", ids, "error", err)
		return 0, err
	}

	logger.Info("Bulk update applied", "count", len(ids))
	return len(ids), nil
}

func (s *waitlistService) Stats(ctx context.Context) (*StatsResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if cached := s.statsFromCache(ctx); cached != nil {
		return cached, nil
	}

	stats, err := s.repository.Stats(ctx)
	if err != nil {
		logger.Error("Failed to compute waitlist stats", "error", err)
		return nil, err
	}

	response := &StatsResponse{
		TotalSignups:  stats.TotalSignups,
		TodaySignups:  stats.TodaySignups,
		WeeklyGrowth:  stats.WeeklyGrowth,
		VerifiedCount: stats.VerifiedCount,
		PendingCount:  stats.PendingCount,
		InvitedCount:  stats.InvitedCount,
	}

	s.statsToCache(ctx, response)
	return response, nil
}

// statsFromCache returns nil on any miss, cache outage or decode problem.
// The circuit breaker keeps a down Redis from adding latency to every
// dashboard load.
func (s *waitlistService) statsFromCache(ctx context.Context) *StatsResponse {
	if s.cache == nil {
		return nil
	}

	var raw string
	err := s.cacheBreaker.Call(func() error {
		var getErr error
		raw, getErr = s.cache.Get(ctx, statsCacheKey)
		return getErr
	})
	if err != nil || raw == "" {
		return nil
	}

	var stats StatsResponse
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *waitlistService) statsToCache(ctx context.Context, stats *StatsResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}

	_ = s.cacheBreaker.Call(func() error {
		return s.cache.Set(ctx, statsCacheKey, string(payload), statsCacheTTL)
	})
}

// csvHeader is part of the export contract consumed by the admin dashboard.
var csvHeader = []string{"ID", "Full Name", "Email", "Status", "Verified", "Priority", "Signup Date", "Referral Source", "Interests", "Notes"}

func (s *waitlistService) WriteCSV(ctx context.Context, w io.Writer) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	signups, err := s.repository.ExportAll(ctx)
	if err != nil {
		logger.Error("Failed to export signups", "error", err)
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return apperrors.NewInternalServerError("unable to write CSV header", err)
	}

	for _, signup := range signups {
		verified := "No"
		if signup.EmailVerified {
			verified = "Yes"
		}

		referral := ""
		if signup.ReferralSource != nil {
			referral = *signup.ReferralSource
		}

		record := []string{
			strconv.FormatUint(uint64(signup.ID), 10),
			signup.FullName,
			signup.Email,
			signup.Status,
			verified,
			strconv.Itoa(signup.Priority),
			signup.Timestamp.Format(constants.RFC3339DateTimeFormat),
			referral,
			strings.Join(signup.Interests, "; "),
			signup.Notes,
		}
		if err := writer.Write(record); err != nil {
			return apperrors.NewInternalServerError("unable to write CSV row", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewInternalServerError("unable to flush CSV output", err)
	}

	logger.Info("Waitlist export written", "rows", len(signups))
	return nil
}

// buildSignupUpdates converts the partial request into a column map. Status
// transitions to invited/declined stamp their timestamp columns.
func buildSignupUpdates(req *UpdateSignupRequest) (map[string]interface{}, error) {
	if req == nil {
		return nil, apperrors.NewInvalidRequestError("updates cannot be nil", nil)
	}

	updates := make(map[string]interface{})

	if req.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		if !models.IsValidSignupStatus(status) {
			return nil, apperrors.NewInvalidRequestError("invalid status value", nil)
		}
		updates["status"] = status

		now := time.Now()
		switch status {
		case models.StatusInvited:
			updates["invited_at"] = now
		case models.StatusDeclined:
			updates["declined_at"] = now
		}
	}

	if req.Priority != nil {
		if *req.Priority < 0 || *req.Priority > 10 {
			return nil, apperrors.NewInvalidRequestError("priority must be between 0 and 10", nil)
		}
		updates["priority"] = *req.Priority
	}

	if req.Notes != nil {
		updates["notes"] = sanitizeText(*req.Notes)
	}

	if len(updates) == 0 {
		return nil, apperrors.NewInvalidRequestError("at least one field must be provided for update", nil)
	}

	return updates, nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func generateVerificationToken() (string, error) {
	buf := make([]byte, verificationTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
