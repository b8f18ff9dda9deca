package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/order-service/internal/api/dto"
	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/interceptor"
	"github.com/spec-kit/order-service/internal/service"
)

// Operation names resolved against the interceptor registry.
const (
	OpOrderCreate = "orders.create"
	OpOrderUpdate = "orders.update"
	OpOrderGet    = "orders.get"
)

// OrdersHandler exposes order endpoints. Every operation runs under the
// interceptor chain configured for its descriptor.
type OrdersHandler struct {
	orders *service.OrderService
	chain  *interceptor.Registry
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orderService *service.OrderService, chain *interceptor.Registry) *OrdersHandler {
	return &OrdersHandler{orders: orderService, chain: chain}
}

// Create handles POST /api/orders/create.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	sc, req, err := h.parseOrderRequest(c)
	if err != nil {
		return err
	}

	result, err := h.chain.Execute(c.UserContext(), OpOrderCreate, sc, func(ctx context.Context) (any, error) {
		return h.orders.Create(ctx, sc.Subject, orderInput(req))
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewOrderResponse("Success", result.(*domain.Order)))
}

// Update handles POST /api/orders/update.
func (h *OrdersHandler) Update(c *fiber.Ctx) error {
	sc, req, err := h.parseOrderRequest(c)
	if err != nil {
		return err
	}

	result, err := h.chain.Execute(c.UserContext(), OpOrderUpdate, sc, func(ctx context.Context) (any, error) {
		return h.orders.Update(ctx, sc.Subject, orderInput(req))
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.NewOrderResponse("Success", result.(*domain.Order)))
}

// Get handles GET /api/orders/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	sc, ok := auth.ContextFromRequest(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid order id")
	}

	result, err := h.chain.Execute(c.UserContext(), OpOrderGet, sc, func(ctx context.Context) (any, error) {
		return h.orders.Get(ctx, id)
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.NewOrderResponse("Success", result.(*domain.Order)))
}

func (h *OrdersHandler) parseOrderRequest(c *fiber.Ctx) (*auth.SecurityContext, dto.OrderRequest, error) {
	sc, ok := auth.ContextFromRequest(c)
	if !ok {
		return nil, dto.OrderRequest{}, fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, dto.OrderRequest{}, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return sc, req, nil
}

func orderInput(req dto.OrderRequest) service.OrderInput {
	return service.OrderInput{
		ID:          req.ID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Price:       req.Price,
	}
}
