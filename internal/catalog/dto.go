package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpsertShopInput carries the fields accepted when registering a shop. URL
// and Filename are mutually exclusive feed sources.
type UpsertShopInput struct {
	Name     string
	URL      *string
	Filename *string
}

// UpsertCategoryInput upserts a category by name and optionally links it to
// a shop.
type UpsertCategoryInput struct {
	Name   string
	ShopID *uuid.UUID
}

// CreateProductInput carries the fields for a new catalog product.
type CreateProductInput struct {
	Name       string
	Model      string
	PriceRRC   decimal.Decimal
	CategoryID []uuid.UUID
}

// UpsertOfferInput carries one shop's listing of a product.
type UpsertOfferInput struct {
	ShopID     uuid.UUID
	ProductID  uuid.UUID
	ExternalID int64
	Price      decimal.Decimal
	Quantity   int
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Category string
}

// ProductSummary is one row of the paginated product listing. Money is
// rendered as a 2dp string.
type ProductSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Model      string    `json:"model,omitempty"`
	PriceRRC   string    `json:"price_rrc"`
	Categories []string  `json:"categories"`
}

// ProductList wraps the paginated products plus the next page cursor.
type ProductList struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// Offer is one shop's current listing of a product, joined with the shop
// name for presentation and tie-breaking.
type Offer struct {
	ProductInfoID uuid.UUID       `json:"product_info_id"`
	ShopID        uuid.UUID       `json:"shop_id"`
	ShopName      string          `json:"shop"`
	Price         decimal.Decimal `json:"-"`
	Quantity      int             `json:"quantity"`
}
