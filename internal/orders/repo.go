package orders

import (
	"context"
	"time"

	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	"github.com/Lee-Rose/python-final-diplom/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// NextOrderNumber returns the next per-user sequential number. The read is
// not locked; a concurrent placement can insert the same number first, in
// which case CreateOrder fails on the (user_id, number) unique index and the
// caller retries with a fresh read.
func (r *repository) NextOrderNumber(ctx context.Context, userID uuid.UUID) (int64, error) {
	var current int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(number), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *repository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.ProductInfo").
		Preload("Items.ProductInfo.Product").
		Preload("Items.ProductInfo.Shop").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("number DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) FindOffer(ctx context.Context, productInfoID uuid.UUID) (*models.ProductInfo, error) {
	var offer models.ProductInfo
	err := r.db.WithContext(ctx).
		Where("id = ?", productInfoID).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// MarkDelivered flips the status guarded by the current state; the returned
// row count is zero when the order was already delivered.
func (r *repository) MarkDelivered(ctx context.Context, orderID uuid.UUID, deliveredAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusNotDelivered).
		Updates(map[string]any{
			"status":       enums.OrderStatusDelivered,
			"delivered_at": deliveredAt,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
