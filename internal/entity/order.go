package entity

import "errors"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Money is an amount in minor units (cents).
type Money struct {
	Cents    int64
	Currency string
}

type Order struct {
	ID     string
	UserID string
	Status OrderStatus
	Total  Money
}

// OrderItem captures the price at purchase time. Historical orders must not
// change when catalog prices change later.
type OrderItem struct {
	OrderID  string
	CourseID string
	Price    Money
	Quantity int
}

func (o *Order) Validate() error {
	if o.Total.Cents < 0 || o.Total.Currency == "" {
		return ErrInvalidAmount
	}
	return nil
}
