package domain

import "time"

// Order is the domain model for customer orders. IDs are assigned by the
// caller, not generated server-side.
type Order struct {
	ID          int64
	ProductName string
	Quantity    int
	Price       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
