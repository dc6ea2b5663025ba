package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BasketItem is one basket line referencing a shop's offer. No price is
// stored here: totals are always computed from the current offer price.
type BasketItem struct {
	ID            uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	BasketID      uuid.UUID    `gorm:"column:basket_id;type:uuid;not null;uniqueIndex:ux_basket_items_basket_product_info"`
	ProductInfoID uuid.UUID    `gorm:"column:product_info_id;type:uuid;not null;uniqueIndex:ux_basket_items_basket_product_info"`
	ShopID        uuid.UUID    `gorm:"column:shop_id;type:uuid;not null"`
	Quantity      int          `gorm:"column:quantity;not null"`
	ProductInfo   *ProductInfo `gorm:"foreignKey:ProductInfoID"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *BasketItem) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
