package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the shop-agnostic catalog entry. Per-shop price and stock live
// on ProductInfo; PriceRRC is the advisory recommended retail price.
type Product struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name       string             `gorm:"column:name;not null"`
	Model      string             `gorm:"column:model;not null;default:''"`
	PriceRRC   decimal.Decimal    `gorm:"column:price_rrc;type:numeric(10,2);not null"`
	Categories []Category         `gorm:"many2many:product_categories"`
	Offers     []ProductInfo      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Parameters []ProductParameter `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
