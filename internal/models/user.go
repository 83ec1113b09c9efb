package models

import "time"

// User is the authentication scaffold behind the admin dashboard. The
// waitlist flow itself never touches this table; admin logins upsert a row
// and stamp LastLogin.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"not null;unique"`
	Password  string    `gorm:"not null"` // bcrypt hash, never the clear text
	CreatedAt time.Time `gorm:"not null"`
	LastLogin *time.Time
	IsActive  bool `gorm:"not null;default:true"`
}
