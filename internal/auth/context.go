package auth

import (
	"time"

	"github.com/spec-kit/order-service/internal/domain"
)

// SecurityContext is the per-request record of the authenticated caller.
// It is built once by the authentication middleware, treated as immutable,
// and discarded when the request completes. Never shared across requests.
type SecurityContext struct {
	Subject   string
	Roles     []domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasAnyRole reports whether the context holds at least one of the given roles.
func (sc *SecurityContext) HasAnyRole(required ...domain.Role) bool {
	for _, want := range required {
		for _, have := range sc.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Fresh reports whether the token backing this context is still within its
// validity window at the given instant.
func (sc *SecurityContext) Fresh(now time.Time) bool {
	return now.Before(sc.ExpiresAt)
}

// Identity returns the subject and roles as a domain identity.
func (sc *SecurityContext) Identity() domain.Identity {
	return domain.Identity{SubjectID: sc.Subject, Roles: sc.Roles}
}
