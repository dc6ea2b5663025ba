package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Basket is the single in-progress basket of one user, created lazily on
// first use. The unique index on user_id is what keeps concurrent first
// accesses from producing two baskets.
type Basket struct {
	ID        uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID    `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items     []BasketItem `gorm:"foreignKey:BasketID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Basket) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
