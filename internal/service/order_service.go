package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// OrderService coordinates order workflows and announces state changes.
type OrderService struct {
	orders     repository.OrderRepository
	dispatcher events.Dispatcher
}

// OrderInput describes the inbound order payload.
type OrderInput struct {
	ID          int64
	ProductName string
	Quantity    int
	Price       float64
}

// NewOrderService constructs the service.
func NewOrderService(orders repository.OrderRepository, dispatcher events.Dispatcher) *OrderService {
	return &OrderService{orders: orders, dispatcher: dispatcher}
}

// Create persists a new order and publishes OrderCreated.
func (s *OrderService) Create(ctx context.Context, actor string, input OrderInput) (*domain.Order, error) {
	order, err := orderFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, order); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewConflict("order already exists", map[string]any{"id": order.ID})
		}
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.NewEvent(events.EventOrderCreated, actor, events.OrderPayload{Order: *order}))
	return order, nil
}

// Update overwrites an existing order and publishes OrderUpdated.
// Field copying is shared with Create; the two flows have no semantic
// difference in what they accept.
func (s *OrderService) Update(ctx context.Context, actor string, input OrderInput) (*domain.Order, error) {
	order, err := orderFromInput(input)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", map[string]any{"id": order.ID})
		}
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.NewEvent(events.EventOrderUpdated, actor, events.OrderPayload{Order: *order}))
	return order, nil
}

// Get fetches an order by id.
func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("order", map[string]any{"id": id})
		}
		return nil, err
	}
	return order, nil
}

func orderFromInput(input OrderInput) (*domain.Order, error) {
	if input.ID <= 0 {
		return nil, apperrors.NewValidationError("order id must be positive", nil)
	}
	if input.ProductName == "" {
		return nil, apperrors.NewValidationError("product name required", nil)
	}
	if input.Quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", nil)
	}
	return &domain.Order{
		ID:          input.ID,
		ProductName: input.ProductName,
		Quantity:    input.Quantity,
		Price:       input.Price,
	}, nil
}
