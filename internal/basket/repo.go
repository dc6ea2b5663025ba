package basket

import (
	"context"

	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a basket repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindBasketByUser(ctx context.Context, userID uuid.UUID) (*models.Basket, error) {
	var basket models.Basket
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&basket).Error
	if err != nil {
		return nil, err
	}
	return &basket, nil
}

func (r *repository) CreateBasket(ctx context.Context, basket *models.Basket) error {
	return r.db.WithContext(ctx).Create(basket).Error
}

// UpsertItem inserts the line or, when the (basket, product_info) pair
// already exists, replaces its quantity.
func (r *repository) UpsertItem(ctx context.Context, item *models.BasketItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "basket_id"},
				{Name: "product_info_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, basketID, productInfoID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("basket_id = ? AND product_info_id = ?", basketID, productInfoID).
		Delete(&models.BasketItem{}).Error
}

func (r *repository) ListItems(ctx context.Context, basketID uuid.UUID) ([]models.BasketItem, error) {
	var items []models.BasketItem
	err := r.db.WithContext(ctx).
		Preload("ProductInfo").
		Preload("ProductInfo.Product").
		Preload("ProductInfo.Shop").
		Where("basket_id = ?", basketID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
