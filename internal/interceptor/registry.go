package interceptor

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/observability"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// Descriptor is static metadata for a protected operation: which roles may
// run it and which chain links apply. Resolved at call time, never mutated.
type Descriptor struct {
	Name           string
	RequiredRoles  []domain.Role
	CheckFreshness bool
	Timed          bool
	CaptureFaults  bool
}

// Registry maps operation names to descriptors. Populated once during
// wiring and read-only afterwards, so it is safe to share across requests.
type Registry struct {
	logger      *zap.Logger
	metrics     *observability.Metrics
	descriptors map[string]Descriptor
}

// NewRegistry builds an empty registry.
func NewRegistry(logger *zap.Logger, metrics *observability.Metrics) *Registry {
	return &Registry{
		logger:      logger,
		metrics:     metrics,
		descriptors: make(map[string]Descriptor),
	}
}

// Register adds a descriptor. Call only during process initialization.
func (r *Registry) Register(d Descriptor) {
	r.descriptors[d.Name] = d
}

// Execute runs op under the chain configured for the named operation.
// Link order is fixed: FaultCapture, Timer, RequireRoles, Freshness, op.
// Faults anywhere downstream must be caught, timing covers the guarded
// execution, and authorization rejects before any business side effect.
func (r *Registry) Execute(ctx context.Context, name string, sc *auth.SecurityContext, op Operation) (any, error) {
	d, ok := r.descriptors[name]
	if !ok {
		return nil, apperrors.NewInternalError(nil)
	}

	links := make([]Middleware, 0, 4)
	if d.CaptureFaults {
		links = append(links, FaultCapture(r.logger, d.Name))
	}
	if d.Timed {
		links = append(links, Timer(r.logger, r.metrics, d.Name))
	}
	if len(d.RequiredRoles) > 0 {
		links = append(links, RequireRoles(sc, d.RequiredRoles...))
	}
	if d.CheckFreshness {
		links = append(links, Freshness(sc))
	}

	return Chain(op, links...)(ctx)
}
