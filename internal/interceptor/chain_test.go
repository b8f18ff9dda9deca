package interceptor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/interceptor"
	"github.com/spec-kit/order-service/internal/observability"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

func freshContext(roles ...domain.Role) *auth.SecurityContext {
	return &auth.SecurityContext{
		Subject:   "john",
		Roles:     roles,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func staleContext(roles ...domain.Role) *auth.SecurityContext {
	return &auth.SecurityContext{
		Subject:   "john",
		Roles:     roles,
		IssuedAt:  time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code)
}

func TestRequireRoles(t *testing.T) {
	op := func(ctx context.Context) (any, error) { return "ok", nil }

	t.Run("missing role is forbidden", func(t *testing.T) {
		guarded := interceptor.Chain(op, interceptor.RequireRoles(freshContext(domain.RoleUser), domain.RoleAdmin))
		_, err := guarded(context.Background())
		requireCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("matching role proceeds", func(t *testing.T) {
		guarded := interceptor.Chain(op, interceptor.RequireRoles(freshContext(domain.RoleUser), domain.RoleUser, domain.RoleAdmin))
		result, err := guarded(context.Background())
		require.NoError(t, err)
		require.Equal(t, "ok", result)
	})

	t.Run("nil context is forbidden", func(t *testing.T) {
		guarded := interceptor.Chain(op, interceptor.RequireRoles(nil, domain.RoleUser))
		_, err := guarded(context.Background())
		requireCode(t, err, apperrors.CodeForbidden)
	})
}

func TestFreshness(t *testing.T) {
	invoked := false
	op := func(ctx context.Context) (any, error) {
		invoked = true
		return "ok", nil
	}

	t.Run("stale context rejected before execution", func(t *testing.T) {
		invoked = false
		guarded := interceptor.Chain(op, interceptor.Freshness(staleContext(domain.RoleUser)))
		_, err := guarded(context.Background())
		requireCode(t, err, apperrors.CodeTokenExpired)
		require.False(t, invoked)
	})

	t.Run("fresh context proceeds", func(t *testing.T) {
		invoked = false
		guarded := interceptor.Chain(op, interceptor.Freshness(freshContext(domain.RoleUser)))
		_, err := guarded(context.Background())
		require.NoError(t, err)
		require.True(t, invoked)
	})
}

func TestTimerIsTransparent(t *testing.T) {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	t.Run("result unchanged", func(t *testing.T) {
		op := func(ctx context.Context) (any, error) { return 42, nil }
		timed := interceptor.Chain(op, interceptor.Timer(logger, metrics, "test.op"))
		result, err := timed(context.Background())
		require.NoError(t, err)
		require.Equal(t, 42, result)
	})

	t.Run("failure unchanged", func(t *testing.T) {
		wantErr := errors.New("boom")
		op := func(ctx context.Context) (any, error) { return nil, wantErr }
		timed := interceptor.Chain(op, interceptor.Timer(logger, metrics, "test.op"))
		_, err := timed(context.Background())
		require.ErrorIs(t, err, wantErr)
	})

	require.Equal(t, int64(2), metrics.OperationCount("test.op"))
}

func TestFaultCapture(t *testing.T) {
	logger := zap.NewNop()

	t.Run("panic becomes operation failed", func(t *testing.T) {
		op := func(ctx context.Context) (any, error) { panic("kaboom") }
		wrapped := interceptor.Chain(op, interceptor.FaultCapture(logger, "test.op"))
		_, err := wrapped(context.Background())
		requireCode(t, err, apperrors.CodeOperationFailed)
	})

	t.Run("unexpected error normalized without leaking detail", func(t *testing.T) {
		op := func(ctx context.Context) (any, error) { return nil, errors.New("connection refused to 10.0.0.3") }
		wrapped := interceptor.Chain(op, interceptor.FaultCapture(logger, "test.op"))
		_, err := wrapped(context.Background())
		requireCode(t, err, apperrors.CodeOperationFailed)

		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		require.Equal(t, "operation failed", domainErr.Message)
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		wantErr := apperrors.NewForbidden("insufficient role")
		op := func(ctx context.Context) (any, error) { return nil, wantErr }
		wrapped := interceptor.Chain(op, interceptor.FaultCapture(logger, "test.op"))
		_, err := wrapped(context.Background())
		require.Equal(t, wantErr, err)
	})
}

func TestRegistryChainOrder(t *testing.T) {
	registry := interceptor.NewRegistry(zap.NewNop(), observability.NewMetrics())
	registry.Register(interceptor.Descriptor{
		Name:           "orders.test",
		RequiredRoles:  []domain.Role{domain.RoleAdmin},
		CheckFreshness: true,
		Timed:          true,
		CaptureFaults:  true,
	})

	t.Run("authorization rejects before freshness", func(t *testing.T) {
		// stale AND missing the role: authorization sits outside freshness
		_, err := registry.Execute(context.Background(), "orders.test", staleContext(domain.RoleUser), func(ctx context.Context) (any, error) {
			t.Fatal("operation must not run")
			return nil, nil
		})
		requireCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("freshness rejects before the operation", func(t *testing.T) {
		invoked := false
		_, err := registry.Execute(context.Background(), "orders.test", staleContext(domain.RoleAdmin), func(ctx context.Context) (any, error) {
			invoked = true
			return nil, nil
		})
		requireCode(t, err, apperrors.CodeTokenExpired)
		require.False(t, invoked)
	})

	t.Run("authorized fresh caller reaches the operation", func(t *testing.T) {
		result, err := registry.Execute(context.Background(), "orders.test", freshContext(domain.RoleAdmin), func(ctx context.Context) (any, error) {
			return "done", nil
		})
		require.NoError(t, err)
		require.Equal(t, "done", result)
	})

	t.Run("guard failures are not rewrapped by fault capture", func(t *testing.T) {
		_, err := registry.Execute(context.Background(), "orders.test", freshContext(domain.RoleUser), func(ctx context.Context) (any, error) {
			return nil, nil
		})
		requireCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("panic inside the operation is captured", func(t *testing.T) {
		_, err := registry.Execute(context.Background(), "orders.test", freshContext(domain.RoleAdmin), func(ctx context.Context) (any, error) {
			panic("kaboom")
		})
		requireCode(t, err, apperrors.CodeOperationFailed)
	})

	t.Run("unknown operation fails", func(t *testing.T) {
		_, err := registry.Execute(context.Background(), "orders.unknown", freshContext(domain.RoleAdmin), func(ctx context.Context) (any, error) {
			return nil, nil
		})
		requireCode(t, err, apperrors.CodeInternalError)
	})
}
