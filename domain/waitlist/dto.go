package waitlist

import (
	"strings"

	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/constants"
)

type CreateSignupRequest struct {
	FullName       string   `json:"full_name" binding:"required,min=2,max=100"`
	Email          string   `json:"email" binding:"required,email,max=255"`
	ReferralSource string   `json:"referral_source" binding:"omitempty,max=255"`
	Interests      []string `json:"interests" binding:"omitempty,max=20,dive,max=100"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type UpdateSignupRequest struct {
	Status   *string `json:"status" binding:"omitempty,oneof=pending verified invited declined"`
	Priority *int    `json:"priority" binding:"omitempty,gte=0,lte=10"`
	Notes    *string `json:"notes" binding:"omitempty,max=2000"`
}

type BulkUpdateRequest struct {
	SignupIDs []uint              `json:"signup_ids" binding:"required,min=1,dive,gt=0"`
	Updates   UpdateSignupRequest `json:"updates" binding:"required"`
}

// PublicSignupResponse is what the landing page gets back after joining.
// Audit fields and admin metadata stay server-side.
type PublicSignupResponse struct {
	ID        uint   `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
}

// SignupResponse is the admin view of a signup. Verification token and
// expiry are deliberately absent: they never leave the server.
type SignupResponse struct {
	ID             uint     `json:"id"`
	FullName       string   `json:"full_name"`
	Email          string   `json:"email"`
	Timestamp      string   `json:"timestamp"`
	Status         string   `json:"status"`
	EmailVerified  bool     `json:"email_verified"`
	ReferralSource string   `json:"referral_source,omitempty"`
	Interests      []string `json:"interests,omitempty"`
	IPAddress      string   `json:"ip_address,omitempty"`
	UserAgent      string   `json:"user_agent,omitempty"`
	Notes          string   `json:"notes,omitempty"`
	Priority       int      `json:"priority"`
	InvitedAt      string   `json:"invited_at,omitempty"`
	DeclinedAt     string   `json:"declined_at,omitempty"`
}

type StatsResponse struct {
	TotalSignups  int64 `json:"total_signups"`
	TodaySignups  int64 `json:"today_signups"`
	WeeklyGrowth  int   `json:"weekly_growth"`
	VerifiedCount int64 `json:"verified_count"`
	PendingCount  int64 `json:"pending_count"`
	InvitedCount  int64 `json:"invited_count"`
}

type ListSignupsResponse struct {
	Signups []SignupResponse `json:"signups"`
	Stats   StatsResponse    `json:"stats"`
}

// ========================================
// Mappers
// ========================================

func ToPublicSignupResponse(signup *models.WaitlistSignup) PublicSignupResponse {
	if signup == nil {
		return PublicSignupResponse{}
	}
	return PublicSignupResponse{
		ID:        signup.ID,
		FullName:  signup.FullName,
		Email:     signup.Email,
		Timestamp: signup.Timestamp.Format(constants.RFC3339DateTimeFormat),
		Status:    signup.Status,
	}
}

func ToSignupResponse(signup *models.WaitlistSignup) SignupResponse {
	if signup == nil {
		return SignupResponse{}
	}

	resp := SignupResponse{
		ID:            signup.ID,
		FullName:      signup.FullName,
		Email:         signup.Email,
		Timestamp:     signup.Timestamp.Format(constants.RFC3339DateTimeFormat),
		Status:        signup.Status,
		EmailVerified: signup.EmailVerified,
		Interests:     signup.Interests,
		IPAddress:     signup.IPAddress,
		UserAgent:     signup.UserAgent,
		Notes:         signup.Notes,
		Priority:      signup.Priority,
	}

	if signup.ReferralSource != nil {
		resp.ReferralSource = *signup.ReferralSource
	}
	if signup.InvitedAt != nil {
		resp.InvitedAt = signup.InvitedAt.Format(constants.RFC3339DateTimeFormat)
	}
	if signup.DeclinedAt != nil {
		resp.DeclinedAt = signup.DeclinedAt.Format(constants.RFC3339DateTimeFormat)
	}

	return resp
}

// sanitizeText trims whitespace and strips angle brackets so free-text
// fields cannot smuggle markup into the admin dashboard.
func sanitizeText(s string) string {
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	return strings.TrimSpace(s)
}

// NormalizeEmail is the canonical email form used for deduplication.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
