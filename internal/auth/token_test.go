package auth_test

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
)

const testSecret = "test-secret"

func signClaims(t *testing.T, secret string, claims *auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestIssueValidateRoundtrip(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)
	identity := domain.Identity{
		SubjectID: "john",
		Roles:     []domain.Role{domain.RoleUser, domain.RoleAdmin},
	}

	token, expiresAt, err := tm.Issue(identity)
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	sc, err := tm.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "john", sc.Subject)
	require.Equal(t, identity.Roles, sc.Roles)
	require.True(t, sc.ExpiresAt.After(sc.IssuedAt))
	require.True(t, sc.Fresh(time.Now()))
}

func TestValidateExpired(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)

	expired := signClaims(t, testSecret, &auth.Claims{
		Roles: []string{"USER"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "john",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := tm.Validate(expired)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestValidateExpiredWinsOverBadSignature(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)

	// signed with the wrong secret AND stale: expiry must be reported
	expired := signClaims(t, "other-secret", &auth.Claims{
		Roles: []string{"USER"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "john",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := tm.Validate(expired)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestValidateBadSignature(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)

	tampered := signClaims(t, "other-secret", &auth.Claims{
		Roles: []string{"ADMIN"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "john",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := tm.Validate(tampered)
	require.ErrorIs(t, err, auth.ErrBadSignature)
}

func TestValidateMalformed(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "wrong segment count", token: "a.b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Validate(tt.token)
			require.ErrorIs(t, err, auth.ErrMalformedToken)
		})
	}
}

func TestValidateMissingSubject(t *testing.T) {
	tm := auth.NewTokenManager(testSecret, 60)

	noSubject := signClaims(t, testSecret, &auth.Claims{
		Roles: []string{"USER"},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := tm.Validate(noSubject)
	require.ErrorIs(t, err, auth.ErrMalformedToken)
}

func TestSecurityContextRoles(t *testing.T) {
	sc := &auth.SecurityContext{
		Subject: "john",
		Roles:   []domain.Role{domain.RoleUser},
	}

	require.True(t, sc.HasAnyRole(domain.RoleUser))
	require.True(t, sc.HasAnyRole(domain.RoleAdmin, domain.RoleUser))
	require.False(t, sc.HasAnyRole(domain.RoleAdmin))
	require.False(t, sc.HasAnyRole())
}
