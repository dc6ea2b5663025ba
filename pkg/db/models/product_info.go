package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInfo is one shop's offer of one product. It is the sole source of
// truth for price and stock. ExternalID is the shop-local catalog number, so a
// shop can never list the same external entry twice; the (shop, product) pair
// is unique as well, so a product never appears twice in one shop's listings.
type ProductInfo struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ExternalID int64           `gorm:"column:external_id;not null;uniqueIndex:ux_product_infos_shop_external"`
	ShopID     uuid.UUID       `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:ux_product_infos_shop_external;uniqueIndex:ux_product_infos_shop_product"`
	ProductID  uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_product_infos_shop_product"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity   int             `gorm:"column:quantity;not null"`
	Product    *Product        `gorm:"foreignKey:ProductID"`
	Shop       *Shop           `gorm:"foreignKey:ShopID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the historical plural used by the schema.
func (ProductInfo) TableName() string {
	return "product_infos"
}

func (p *ProductInfo) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
