package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Lee-Rose/python-final-diplom/pkg/enums"
)

// Order is an immutable point-in-time commitment. Once created it is never
// touched by later basket or offer changes; delivery is a one-way transition.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Number      int64             `gorm:"column:number;not null"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'not_delivered'"`
	DeliveredAt *time.Time        `gorm:"column:delivered_at"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
