package session

import (
	"crypto/subtle"
	"time"
)

// Reserved CSRF token placeholder values. A token equal to one of these is
// an unissued or in-transit placeholder and must never be treated as a
// valid match, even when byte-equal to a stored value.
const (
	CSRFPlaceholderUnknown = "unknown"
	CSRFPlaceholderPending = "pending"
)

// User represents an authenticated caller resolved from a session token.
// The pipeline only ever holds a transient, request-scoped reference; the
// session store collaborator owns the data.
type User struct {
	ID             string
	Email          string
	CSRFToken      string
	Roles          []string
	EmailValidated bool
	ExpiresAt      time.Time
}

// Expired checks the session token expiry against the given instant.
func (u *User) Expired(now time.Time) bool {
	return !u.ExpiresAt.IsZero() && !now.Before(u.ExpiresAt)
}

// HasRole checks role membership.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}

	return false
}

// CSRFTokenMatch reports whether a supplied CSRF token matches the stored
// one. Placeholder values never match, whatever the stored value is.
func CSRFTokenMatch(stored, supplied string) bool {
	// Reject empty and reserved placeholder values first
	if supplied == "" ||
		supplied == CSRFPlaceholderUnknown ||
		supplied == CSRFPlaceholderPending {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
