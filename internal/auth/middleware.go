package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/order-service/pkg/util"
)

const securityContextKey = "security_context"

// Middleware is the authentication gate for protected routes. It turns a
// bearer credential into a request-scoped SecurityContext, or rejects the
// request before the target handler runs. Public routes are simply not
// registered behind it.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs the gate.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorizedCode(apperrors.CodeMissingCredential, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorizedCode(apperrors.CodeMissingCredential, "invalid authorization header")
	}

	sc, err := m.tokens.Validate(parts[1])
	if err != nil {
		return apperrors.NewUnauthorizedCode(validationCode(err), err.Error())
	}

	c.Locals(securityContextKey, sc)
	return c.Next()
}

func validationCode(err error) string {
	switch err {
	case ErrTokenExpired:
		return apperrors.CodeTokenExpired
	case ErrBadSignature:
		return apperrors.CodeBadSignature
	default:
		return apperrors.CodeMalformedToken
	}
}

// ContextFromRequest retrieves the security context installed by Handle.
func ContextFromRequest(c *fiber.Ctx) (*SecurityContext, bool) {
	val := c.Locals(securityContextKey)
	if val == nil {
		return nil, false
	}
	sc, ok := val.(*SecurityContext)
	return sc, ok
}
