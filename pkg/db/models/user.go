package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Lee-Rose/python-final-diplom/pkg/enums"
)

// User is the owner row baskets and orders hang off. Account management
// (passwords, registration) lives with the identity provider, not here.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email     string         `gorm:"column:email;not null;uniqueIndex"`
	FirstName string         `gorm:"column:first_name;not null;default:''"`
	LastName  string         `gorm:"column:last_name;not null;default:''"`
	Company   string         `gorm:"column:company;not null;default:''"`
	Position  string         `gorm:"column:position;not null;default:''"`
	Type      enums.UserType `gorm:"column:type;not null;default:'buyer'"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
