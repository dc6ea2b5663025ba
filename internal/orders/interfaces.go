package orders

import (
	"context"
	"time"

	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	NextOrderNumber(ctx context.Context, userID uuid.UUID) (int64, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	FindOffer(ctx context.Context, productInfoID uuid.UUID) (*models.ProductInfo, error)
	MarkDelivered(ctx context.Context, orderID uuid.UUID, deliveredAt time.Time) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order placement and the delivery transition.
type Service interface {
	Place(ctx context.Context, userID uuid.UUID, lines []PlaceLine) (*OrderDetail, error)
	MarkDelivered(ctx context.Context, orderID uuid.UUID) error
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetail, error)
	List(ctx context.Context, userID uuid.UUID) ([]OrderSummary, error)
}
