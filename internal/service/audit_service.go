package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/events"
)

// AuditService records every published event. It subscribes to the
// supertype marker rather than individual event types.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to all events. Call once during startup.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAny, a.handleAny)
}

func (a *AuditService) handleAny(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Time("event_ts", event.Timestamp),
	}
	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if payload, ok := event.Payload.(events.OrderPayload); ok {
		fields = append(fields, zap.Int64("order_id", payload.Order.ID))
	}
	a.logger.Info("audit", fields...)
	return nil
}
