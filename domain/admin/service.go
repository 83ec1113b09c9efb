package admin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"strings"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	JWTSecretEnvKey = "JWT_SECRET"

	tokenTTL    = 24 * time.Hour
	tokenIssuer = "waitlist-api"
)

type adminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AdminService interface {
	// Authenticate checks the email against the allow-list (and the stored
	// password hash when a users row exists) and issues a signed token.
	Authenticate(ctx context.Context, req *AuthRequest) (*AuthResponse, error)

	// VerifyToken validates a previously issued token and re-checks the
	// allow-list, so revoking an email invalidates its outstanding tokens.
	VerifyToken(ctx context.Context, token string) (*VerifyResponse, error)
}

type adminService struct {
	logger     *log.Logger
	repository UserRepository
	allowList  AllowList
	secret     []byte
}

func NewAdminService(logger *log.Logger, repository UserRepository, allowList AllowList, secret []byte) AdminService {
	return &adminService{
		logger:     logger,
		repository: repository,
		allowList:  allowList,
		secret:     secret,
	}
}

// SecretFromEnv resolves the token signing secret from JWT_SECRET. When the
// variable is unset a random secret is generated, which keeps development
// working but invalidates all tokens on restart.
func SecretFromEnv(logger *log.Logger) []byte {
	if secret := os.Getenv(JWTSecretEnvKey); secret != "" {
		return []byte(secret)
	}

	logger.Warn("JWT_SECRET is not set; generating an ephemeral signing secret")

	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// nothing sensible can run in that state.
		panic("admin: unable to generate signing secret: " + err.Error())
	}

	return []byte(hex.EncodeToString(buf))
}

func (s *adminService) Authenticate(ctx context.Context, req *AuthRequest) (*AuthResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Authenticate received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !s.allowList.IsAllowed(email) {
		logger.Warn("Admin access denied for email outside the allow-list", "email", email)
		return nil, apperrors.NewUnauthorizedError("access denied: email is not authorized for the admin dashboard", nil)
	}

	user, err := s.repository.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Failed to load admin user", "email", email, "error", err)
		return nil, err
	}

	if user != nil && user.Password != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			logger.Warn("Admin password mismatch", "email", email)
			return nil, apperrors.NewUnauthorizedError("access denied: invalid credentials", nil)
		}
	}

	expiresAt := time.Now().Add(tokenTTL)

	claims := &adminClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
	if err != nil {
		logger.Error("Failed to sign admin token", "error", err)
		return nil, apperrors.NewInternalServerError("unable to issue admin token", err)
	}

	if err := s.repository.RecordLogin(ctx, email); err != nil {
		// Login stamping is best effort; the token is already issued.
		logger.Error("Failed to record admin login", "email", email, "error", err)
	}

	logger.Info("Admin authenticated", "email", email)

	return &AuthResponse{
		Authenticated: true,
		Token:         token,
		Email:         email,
		ExpiresAt:     expiresAt,
	}, nil
}

func (s *adminService) VerifyToken(ctx context.Context, token string) (*VerifyResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	claims := &adminClaims{}

	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil || !parsed.Valid {
		logger.Warn("Admin token rejected", "error", err)
		return nil, apperrors.NewUnauthorizedError("invalid or expired token", err)
	}

	if !s.allowList.IsAllowed(claims.Email) {
		logger.Warn("Admin token carries an email no longer on the allow-list", "email", claims.Email)
		return nil, apperrors.NewUnauthorizedError("access denied: email is not authorized for the admin dashboard", nil)
	}

	return &VerifyResponse{
		Authenticated: true,
		Email:         claims.Email,
	}, nil
}
