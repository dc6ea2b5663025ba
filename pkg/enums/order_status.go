package enums

// OrderStatus tracks the delivery lifecycle of an order.
type OrderStatus string

const (
	OrderStatusNotDelivered OrderStatus = "not_delivered"
	OrderStatusDelivered    OrderStatus = "delivered"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNotDelivered, OrderStatusDelivered:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}
