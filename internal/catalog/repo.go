package catalog

import (
	"context"

	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	"github.com/Lee-Rose/python-final-diplom/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindShopByName(ctx context.Context, name string) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *repository) CreateShop(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

func (r *repository) SaveShop(ctx context.Context, shop *models.Shop) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shop.ID).
		Updates(map[string]any{
			"url":      shop.URL,
			"filename": shop.Filename,
		}).Error
}

func (r *repository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) CreateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) AttachCategoryToShop(ctx context.Context, category *models.Category, shopID uuid.UUID) error {
	shop := models.Shop{ID: shopID}
	return r.db.WithContext(ctx).Model(&shop).Association("Categories").Append(category)
}

func (r *repository) AttachCategoryToProduct(ctx context.Context, category *models.Category, productID uuid.UUID) error {
	product := models.Product{ID: productID}
	return r.db.WithContext(ctx).Model(&product).Association("Categories").Append(category)
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListProducts(ctx context.Context, filter ProductFilter, params pagination.Params) ([]models.Product, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Categories")

	if filter.Category != "" {
		q = q.Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Joins("JOIN categories c ON c.id = pc.category_id").
			Where("c.name = ?", filter.Category)
	}

	if cursor != nil {
		q = q.Where(
			"products.created_at > ? OR (products.created_at = ? AND products.id > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var products []models.Product
	err = q.Order("products.created_at ASC, products.id ASC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindOfferByID(ctx context.Context, id uuid.UUID) (*models.ProductInfo, error) {
	var offer models.ProductInfo
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Shop").
		Where("id = ?", id).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) FindOfferByShopExternal(ctx context.Context, shopID uuid.UUID, externalID int64) (*models.ProductInfo, error) {
	var offer models.ProductInfo
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND external_id = ?", shopID, externalID).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) FindOfferByShopProduct(ctx context.Context, shopID, productID uuid.UUID) (*models.ProductInfo, error) {
	var offer models.ProductInfo
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND product_id = ?", shopID, productID).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *repository) CreateOffer(ctx context.Context, offer *models.ProductInfo) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *repository) UpdateOfferTerms(ctx context.Context, offerID uuid.UUID, price decimal.Decimal, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductInfo{}).
		Where("id = ?", offerID).
		Updates(map[string]any{
			"price":    price,
			"quantity": quantity,
		}).Error
}

type offerRow struct {
	ProductInfoID uuid.UUID
	ShopID        uuid.UUID
	ShopName      string
	Price         decimal.Decimal
	Quantity      int
}

func (r *repository) OffersByProduct(ctx context.Context, productID uuid.UUID) ([]Offer, error) {
	var rows []offerRow
	err := r.db.WithContext(ctx).
		Table("product_infos").
		Select("product_infos.id AS product_info_id, product_infos.shop_id AS shop_id, shops.name AS shop_name, product_infos.price AS price, product_infos.quantity AS quantity").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("product_infos.product_id = ?", productID).
		Order("product_infos.price ASC, shops.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	offers := make([]Offer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, Offer{
			ProductInfoID: row.ProductInfoID,
			ShopID:        row.ShopID,
			ShopName:      row.ShopName,
			Price:         row.Price,
			Quantity:      row.Quantity,
		})
	}
	return offers, nil
}

func (r *repository) FindParameterByName(ctx context.Context, name string) (*models.Parameter, error) {
	var parameter models.Parameter
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&parameter).Error
	if err != nil {
		return nil, err
	}
	return &parameter, nil
}

func (r *repository) CreateParameter(ctx context.Context, parameter *models.Parameter) error {
	return r.db.WithContext(ctx).Create(parameter).Error
}

func (r *repository) FindProductParameter(ctx context.Context, productID, parameterID uuid.UUID) (*models.ProductParameter, error) {
	var link models.ProductParameter
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND parameter_id = ?", productID, parameterID).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *repository) CreateProductParameter(ctx context.Context, link *models.ProductParameter) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *repository) UpdateProductParameterValue(ctx context.Context, linkID uuid.UUID, value string) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductParameter{}).
		Where("id = ?", linkID).
		Update("value", value).Error
}
