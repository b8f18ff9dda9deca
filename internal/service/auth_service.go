package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users       repository.UserRepository
	tokens      *auth.TokenManager
	passwords   *auth.PasswordVerifier
	dispatcher  events.Dispatcher
	adminEmails map[string]struct{}
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher) *AuthService {
	adminEmails := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		adminEmails[strings.ToLower(email)] = struct{}{}
	}
	return &AuthService{
		users:       users,
		tokens:      auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		passwords:   auth.NewPasswordVerifier(cfg.BcryptCost),
		dispatcher:  dispatcher,
		adminEmails: adminEmails,
	}
}

// Register creates a new account and issues its first token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Roles:        s.rolesFor(email),
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokens.Issue(domain.Identity{SubjectID: user.ID, Roles: user.Roles})
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.dispatcher.Publish(ctx, events.NewEvent(events.EventUserCreated, user.ID, events.UserCreatedPayload{
		UserID: user.ID,
		Email:  user.Email,
	}))
	return user, token, exp, nil
}

// Login authenticates an account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account suspended")
	}
	if !s.passwords.Verify(password, user.PasswordHash) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokens.Issue(domain.Identity{SubjectID: user.ID, Roles: user.Roles})
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout is a server-side no-op for stateless tokens; it only announces the
// logout so handlers can react.
func (s *AuthService) Logout(ctx context.Context, subjectID string) {
	s.dispatcher.Publish(ctx, events.NewEvent(events.EventUserLoggedOut, subjectID, events.UserLoggedOutPayload{
		UserID: subjectID,
	}))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) rolesFor(email string) []domain.Role {
	roles := []domain.Role{domain.RoleUser}
	if _, ok := s.adminEmails[strings.ToLower(email)]; ok {
		roles = append(roles, domain.RoleAdmin)
	}
	return roles
}
