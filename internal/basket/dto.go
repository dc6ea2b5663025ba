package basket

import "github.com/google/uuid"

// ItemView is one basket line priced at view time. Money is rendered as a
// 2dp string.
type ItemView struct {
	ProductInfoID uuid.UUID `json:"product_info_id"`
	Name          string    `json:"name"`
	Shop          string    `json:"shop"`
	Price         string    `json:"price"`
	Quantity      int       `json:"quantity"`
	TotalPrice    string    `json:"total_price"`
}

// BasketView is the snapshot returned to clients. Totals are computed from
// current offer prices, never stored.
type BasketView struct {
	Items         []ItemView `json:"items"`
	TotalQuantity int        `json:"total_quantity"`
	TotalPrice    string     `json:"total_price"`
}
