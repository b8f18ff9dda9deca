package interceptor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/observability"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// Operation is a protected unit of work wrapped by the chain.
type Operation func(ctx context.Context) (any, error)

// Middleware decorates an operation with one cross-cutting behavior. New
// concerns are added as further links without touching existing ones.
type Middleware func(next Operation) Operation

// Chain composes links around op. The first link is outermost.
func Chain(op Operation, links ...Middleware) Operation {
	for i := len(links) - 1; i >= 0; i-- {
		op = links[i](op)
	}
	return op
}

// RequireRoles rejects execution with Forbidden when the caller holds none
// of the required roles. Side-effect free on the happy path.
func RequireRoles(sc *auth.SecurityContext, required ...domain.Role) Middleware {
	return func(next Operation) Operation {
		return func(ctx context.Context) (any, error) {
			if sc == nil || !sc.HasAnyRole(required...) {
				return nil, apperrors.NewForbidden("insufficient role")
			}
			return next(ctx)
		}
	}
}

// Freshness re-checks token expiry immediately before execution. Contexts can
// be held across slow calls, so the gate's earlier check is not enough.
func Freshness(sc *auth.SecurityContext) Middleware {
	return func(next Operation) Operation {
		return func(ctx context.Context) (any, error) {
			if sc == nil || !sc.Fresh(time.Now()) {
				return nil, apperrors.NewUnauthorizedCode(apperrors.CodeTokenExpired, "token expired")
			}
			return next(ctx)
		}
	}
}

// Timer measures wall-clock duration of the wrapped operation and emits a
// structured log entry. Never alters the operation's result or failure.
func Timer(logger *zap.Logger, metrics *observability.Metrics, name string) Middleware {
	return func(next Operation) Operation {
		return func(ctx context.Context) (any, error) {
			start := time.Now()
			result, err := next(ctx)
			elapsed := time.Since(start)

			metrics.RecordOperation(name, elapsed, err != nil)
			fields := []zap.Field{
				zap.String("operation", name),
				zap.Duration("duration", elapsed),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			logger.Info("operation executed", fields...)
			return result, err
		}
	}
}

// FaultCapture converts panics and unexpected errors from downstream links
// into a normalized OperationFailed, logged with operation context. Domain
// errors are already client-safe and pass through untouched.
func FaultCapture(logger *zap.Logger, name string) Middleware {
	return func(next Operation) Operation {
		return func(ctx context.Context) (result any, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("operation panicked",
						zap.String("operation", name),
						zap.Any("panic", r))
					result = nil
					err = apperrors.NewOperationFailed(name, nil)
				}
			}()

			result, err = next(ctx)
			if err != nil {
				var domainErr *apperrors.DomainError
				if errors.As(err, &domainErr) {
					return result, err
				}
				logger.Error("operation faulted",
					zap.String("operation", name),
					zap.Error(err))
				return nil, apperrors.NewOperationFailed(name, err)
			}
			return result, nil
		}
	}
}
