package users

import (
	"context"
	"fmt"

	"github.com/Lee-Rose/python-final-diplom/pkg/db"
	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence for the owner rows baskets and orders
// reference. Account management itself lives with the identity provider.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a users repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Checker answers whether a token's subject may act on the API.
type Checker interface {
	IsActive(ctx context.Context, id uuid.UUID) (bool, error)
}

type checker struct {
	repo Repository
}

// NewChecker builds an activity checker over the users repository.
func NewChecker(repo Repository) (Checker, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &checker{repo: repo}, nil
}

func (c *checker) IsActive(ctx context.Context, id uuid.UUID) (bool, error) {
	user, err := c.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding user")
	}
	return user.IsActive, nil
}
