package orders

import (
	"time"

	"github.com/Lee-Rose/python-final-diplom/pkg/enums"
	"github.com/google/uuid"
)

// PlaceLine is one requested order line.
type PlaceLine struct {
	ProductInfoID uuid.UUID `json:"product_info_id"`
	Quantity      int       `json:"quantity"`
}

// OrderItemView is one committed line priced as captured at placement.
type OrderItemView struct {
	ProductInfoID uuid.UUID `json:"product_info_id"`
	Name          string    `json:"name"`
	Shop          string    `json:"shop"`
	Price         string    `json:"price"`
	Quantity      int       `json:"quantity"`
	TotalPrice    string    `json:"total_price"`
}

// OrderDetail is the full order representation returned to its owner.
type OrderDetail struct {
	ID            uuid.UUID         `json:"id"`
	Number        int64             `json:"number"`
	Status        enums.OrderStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	DeliveredAt   *time.Time        `json:"delivered_at,omitempty"`
	Items         []OrderItemView   `json:"items"`
	TotalQuantity int               `json:"total_quantity"`
	TotalPrice    string            `json:"total_price"`
}

// OrderSummary is the list row for a user's orders.
type OrderSummary struct {
	ID            uuid.UUID         `json:"id"`
	Number        int64             `json:"number"`
	Status        enums.OrderStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	DeliveredAt   *time.Time        `json:"delivered_at,omitempty"`
	TotalQuantity int               `json:"total_quantity"`
	TotalPrice    string            `json:"total_price"`
}
