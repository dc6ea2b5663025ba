package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductParameter holds the value of one parameter for one product; a
// product has at most one value per parameter kind.
type ProductParameter struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProductID   uuid.UUID  `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_product_parameters_product_parameter"`
	ParameterID uuid.UUID  `gorm:"column:parameter_id;type:uuid;not null;uniqueIndex:ux_product_parameters_product_parameter"`
	Value       string     `gorm:"column:value;not null"`
	Parameter   *Parameter `gorm:"foreignKey:ParameterID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *ProductParameter) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
