package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shop represents one store whose offers are ingested from a URL or file.
type Shop struct {
	ID         uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Name       string        `gorm:"column:name;not null;uniqueIndex"`
	URL        *string       `gorm:"column:url"`
	Filename   *string       `gorm:"column:filename"`
	Categories []Category    `gorm:"many2many:shop_categories"`
	Offers     []ProductInfo `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Shop) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
