package admin

import "time"

type AuthRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
	// Password is only checked when a users row exists for the email.
	Password string `json:"password" binding:"omitempty,max=128"`
}

type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
}

type AuthResponse struct {
	Authenticated bool      `json:"authenticated"`
	Token         string    `json:"token"`
	Email         string    `json:"email"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// VerifyResponse carries the authenticated principal under "user", which is
// the shape the admin dashboard consumes.
type VerifyResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"user"`
}
