package basket

import (
	"context"

	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for baskets and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBasketByUser(ctx context.Context, userID uuid.UUID) (*models.Basket, error)
	CreateBasket(ctx context.Context, basket *models.Basket) error
	UpsertItem(ctx context.Context, item *models.BasketItem) error
	DeleteItem(ctx context.Context, basketID, productInfoID uuid.UUID) error
	ListItems(ctx context.Context, basketID uuid.UUID) ([]models.BasketItem, error)
}

// OfferLoader resolves offers owned by the catalog.
type OfferLoader interface {
	FindOfferByID(ctx context.Context, id uuid.UUID) (*models.ProductInfo, error)
}

// Service exposes the per-user basket operations.
type Service interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Basket, error)
	AddItem(ctx context.Context, userID, productInfoID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, productInfoID uuid.UUID) error
	View(ctx context.Context, userID uuid.UUID) (*BasketView, error)
}
