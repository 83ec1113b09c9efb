package admin

import (
	"os"
	"strings"
	"sync"
)

const AllowedEmailsEnvKey = "ADMIN_ALLOWED_EMAILS"

// AllowList answers whether an email may access the admin dashboard.
type AllowList interface {
	IsAllowed(email string) bool
	Emails() []string
}

// EnvAllowList reads the allowed admin emails from ADMIN_ALLOWED_EMAILS
// (comma separated). Matching is case-insensitive. Reload re-reads the
// environment so the list can be rotated without a restart.
type EnvAllowList struct {
	mu     sync.RWMutex
	emails map[string]struct{}
}

func NewEnvAllowList() *EnvAllowList {
	list := &EnvAllowList{}
	list.Reload()
	return list
}

func (l *EnvAllowList) Reload() {
	emails := make(map[string]struct{})

	for _, raw := range strings.Split(os.Getenv(AllowedEmailsEnvKey), ",") {
		email := strings.ToLower(strings.TrimSpace(raw))
		if email == "" {
			continue
		}
		emails[email] = struct{}{}
	}

	l.mu.Lock()
	l.emails = emails
	l.mu.Unlock()
}

func (l *EnvAllowList) IsAllowed(email string) bool {
	normalized := strings.ToLower(strings.TrimSpace(email))

	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.emails[normalized]
	return ok
}

func (l *EnvAllowList) Emails() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	emails := make([]string, 0, len(l.emails))
	for email := range l.emails {
		emails = append(emails, email)
	}
	return emails
}

// StaticAllowList is a fixed list, used by tests and one-off tooling.
type StaticAllowList []string

func (l StaticAllowList) IsAllowed(email string) bool {
	normalized := strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range l {
		if strings.ToLower(strings.TrimSpace(allowed)) == normalized {
			return true
		}
	}
	return false
}

func (l StaticAllowList) Emails() []string {
	return append([]string(nil), l...)
}
