package models

import (
	"time"

	"gorm.io/datatypes"
)

// Waitlist signup statuses.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusInvited  = "invited"
	StatusDeclined = "declined"
)

// SignupStatuses lists every valid status value, for filter validation.
var SignupStatuses = []string{StatusPending, StatusVerified, StatusInvited, StatusDeclined}

// WaitlistSignup is one row per unique email address. The unique index on
// email is what turns a concurrent double-signup into a conflict instead of
// a duplicate row.
type WaitlistSignup struct {
	ID                 uint                        `gorm:"primaryKey"`
	FullName           string                      `gorm:"not null"`
	Email              string                      `gorm:"not null;unique;index"`
	Timestamp          time.Time                   `gorm:"not null;autoCreateTime;index"`
	Status             string                      `gorm:"not null;default:pending;index"`
	EmailVerified      bool                        `gorm:"not null;default:false"`
	VerificationToken  *string                     `gorm:"index"`
	VerificationExpiry *time.Time
	ReferralSource     *string
	Interests          datatypes.JSONSlice[string]
	IPAddress          string `gorm:"type:varchar(45)"` // IPv6 fits in 45 chars
	UserAgent          string
	Notes              string
	Priority           int `gorm:"not null;default:0"`
	InvitedAt          *time.Time
	DeclinedAt         *time.Time
}

func IsValidSignupStatus(status string) bool {
	for _, s := range SignupStatuses {
		if s == status {
			return true
		}
	}
	return false
}
