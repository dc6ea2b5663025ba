package catalog

import (
	"context"

	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	"github.com/Lee-Rose/python-final-diplom/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindShopByName(ctx context.Context, name string) (*models.Shop, error)
	CreateShop(ctx context.Context, shop *models.Shop) error
	SaveShop(ctx context.Context, shop *models.Shop) error

	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	AttachCategoryToShop(ctx context.Context, category *models.Category, shopID uuid.UUID) error
	AttachCategoryToProduct(ctx context.Context, category *models.Category, productID uuid.UUID) error

	CreateProduct(ctx context.Context, product *models.Product) error
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter, params pagination.Params) ([]models.Product, error)

	FindOfferByID(ctx context.Context, id uuid.UUID) (*models.ProductInfo, error)
	FindOfferByShopExternal(ctx context.Context, shopID uuid.UUID, externalID int64) (*models.ProductInfo, error)
	FindOfferByShopProduct(ctx context.Context, shopID, productID uuid.UUID) (*models.ProductInfo, error)
	CreateOffer(ctx context.Context, offer *models.ProductInfo) error
	UpdateOfferTerms(ctx context.Context, offerID uuid.UUID, price decimal.Decimal, quantity int) error
	OffersByProduct(ctx context.Context, productID uuid.UUID) ([]Offer, error)

	FindParameterByName(ctx context.Context, name string) (*models.Parameter, error)
	CreateParameter(ctx context.Context, parameter *models.Parameter) error
	FindProductParameter(ctx context.Context, productID, parameterID uuid.UUID) (*models.ProductParameter, error)
	CreateProductParameter(ctx context.Context, link *models.ProductParameter) error
	UpdateProductParameterValue(ctx context.Context, linkID uuid.UUID, value string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Mutator is the write surface of the catalog. Inside Batch every call runs
// on the same transaction.
type Mutator interface {
	UpsertShop(ctx context.Context, input UpsertShopInput) (*models.Shop, error)
	UpsertCategory(ctx context.Context, input UpsertCategoryInput) (*models.Category, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpsertOffer(ctx context.Context, input UpsertOfferInput) (*models.ProductInfo, error)
	OfferByExternal(ctx context.Context, shopID uuid.UUID, externalID int64) (*models.ProductInfo, error)
	SetParameterValue(ctx context.Context, productID uuid.UUID, name, value string) error
}

// Service exposes catalog reads, single mutations and atomic batches.
type Service interface {
	Mutator
	ListProducts(ctx context.Context, filter ProductFilter, params pagination.Params) (*ProductList, error)
	OffersFor(ctx context.Context, productID uuid.UUID) ([]Offer, error)
	CheapestOffer(ctx context.Context, productID uuid.UUID) (*Offer, error)
	Batch(ctx context.Context, fn func(m Mutator) error) error
}
