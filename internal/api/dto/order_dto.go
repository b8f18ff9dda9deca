package dto

import (
	"time"

	"github.com/spec-kit/order-service/internal/domain"
)

// OrderRequest payload for create and update.
type OrderRequest struct {
	ID          int64   `json:"id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// OrderResponse is the serialized order snapshot.
type OrderResponse struct {
	ID          int64     `json:"id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ApiResponse is the generic response envelope.
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewOrderResponse maps a domain order into the response envelope.
func NewOrderResponse(message string, order *domain.Order) ApiResponse {
	return ApiResponse{
		Success: true,
		Message: message,
		Data: OrderResponse{
			ID:          order.ID,
			ProductName: order.ProductName,
			Quantity:    order.Quantity,
			Price:       order.Price,
			CreatedAt:   order.CreatedAt,
			UpdatedAt:   order.UpdatedAt,
		},
	}
}
