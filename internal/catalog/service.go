package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lee-Rose/python-final-diplom/pkg/db"
	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/Lee-Rose/python-final-diplom/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type service struct {
	mutator
	tx txRunner
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		mutator: mutator{repo: repo},
		tx:      tx,
	}, nil
}

// Batch runs every mutation issued through m on a single transaction. A
// returned error rolls back all of them.
func (s *service) Batch(ctx context.Context, fn func(m Mutator) error) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(&mutator{repo: s.repo.WithTx(tx)})
	})
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter, params pagination.Params) (*ProductList, error) {
	products, err := s.repo.ListProducts(ctx, filter, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(products) > limit {
		products = products[:limit]
		last := products[len(products)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	summaries := make([]ProductSummary, 0, len(products))
	for _, product := range products {
		categories := make([]string, 0, len(product.Categories))
		for _, category := range product.Categories {
			categories = append(categories, category.Name)
		}
		summaries = append(summaries, ProductSummary{
			ID:         product.ID,
			Name:       product.Name,
			Model:      product.Model,
			PriceRRC:   product.PriceRRC.StringFixed(2),
			Categories: categories,
		})
	}

	return &ProductList{Products: summaries, NextCursor: nextCursor}, nil
}

type mutator struct {
	repo Repository
}

func (m *mutator) UpsertShop(ctx context.Context, input UpsertShopInput) (*models.Shop, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	if input.URL != nil && input.Filename != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop url and filename are mutually exclusive")
	}

	shop, err := m.repo.FindShopByName(ctx, name)
	switch {
	case err == nil:
		applyShopSource(shop, input)
		if err := m.repo.SaveShop(ctx, shop); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating shop")
		}
		return shop, nil
	case db.IsNotFound(err):
		shop = &models.Shop{Name: name}
		applyShopSource(shop, input)
		if createErr := m.repo.CreateShop(ctx, shop); createErr != nil {
			if db.IsUniqueViolation(createErr, "") {
				// lost the race, the row exists now
				existing, findErr := m.repo.FindShopByName(ctx, name)
				if findErr != nil {
					return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "re-reading shop")
				}
				applyShopSource(existing, input)
				if saveErr := m.repo.SaveShop(ctx, existing); saveErr != nil {
					return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, saveErr, "updating shop")
				}
				return existing, nil
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating shop")
		}
		return shop, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding shop")
	}
}

func applyShopSource(shop *models.Shop, input UpsertShopInput) {
	if input.URL != nil {
		shop.URL = input.URL
		shop.Filename = nil
	}
	if input.Filename != nil {
		shop.Filename = input.Filename
		shop.URL = nil
	}
}

func (m *mutator) UpsertCategory(ctx context.Context, input UpsertCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category, err := m.repo.FindCategoryByName(ctx, name)
	if db.IsNotFound(err) {
		category = &models.Category{Name: name}
		if createErr := m.repo.CreateCategory(ctx, category); createErr != nil {
			if !db.IsUniqueViolation(createErr, "") {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating category")
			}
			category, err = m.repo.FindCategoryByName(ctx, name)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-reading category")
			}
		}
	} else if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding category")
	}

	if input.ShopID != nil {
		if err := m.repo.AttachCategoryToShop(ctx, category, *input.ShopID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking category to shop")
		}
	}
	return category, nil
}

func (m *mutator) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !input.PriceRRC.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recommended retail price must be positive")
	}

	product := &models.Product{
		Name:     name,
		Model:    strings.TrimSpace(input.Model),
		PriceRRC: input.PriceRRC,
	}
	if err := m.repo.CreateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}

	for _, categoryID := range input.CategoryID {
		category := &models.Category{ID: categoryID}
		if err := m.repo.AttachCategoryToProduct(ctx, category, product.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking product category")
		}
	}
	return product, nil
}

func (m *mutator) UpsertOffer(ctx context.Context, input UpsertOfferInput) (*models.ProductInfo, error) {
	if !input.Price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer price must be positive")
	}
	if input.ExternalID < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "external id must not be negative")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "offer quantity must not be negative")
	}

	if _, err := m.repo.FindProductByID(ctx, input.ProductID); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding product")
	}

	existing, err := m.repo.FindOfferByShopExternal(ctx, input.ShopID, input.ExternalID)
	switch {
	case err == nil:
		if existing.ProductID != input.ProductID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "external id already maps to another product for this shop")
		}
		if err := m.repo.UpdateOfferTerms(ctx, existing.ID, input.Price, input.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating offer")
		}
		existing.Price = input.Price
		existing.Quantity = input.Quantity
		return existing, nil
	case db.IsNotFound(err):
		// one listing per product per shop, whatever the external id
		if _, lookupErr := m.repo.FindOfferByShopProduct(ctx, input.ShopID, input.ProductID); lookupErr == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "shop already lists this product under another external id")
		} else if !db.IsNotFound(lookupErr) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, lookupErr, "finding shop listing")
		}

		offer := &models.ProductInfo{
			ShopID:     input.ShopID,
			ProductID:  input.ProductID,
			ExternalID: input.ExternalID,
			Price:      input.Price,
			Quantity:   input.Quantity,
		}
		if createErr := m.repo.CreateOffer(ctx, offer); createErr != nil {
			if db.IsUniqueViolation(createErr, "") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "offer already exists for this shop and external id")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating offer")
		}
		return offer, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding offer")
	}
}

// OfferByExternal resolves a shop's existing listing by its shop-local
// number. A missing listing is not an error; callers get nil.
func (m *mutator) OfferByExternal(ctx context.Context, shopID uuid.UUID, externalID int64) (*models.ProductInfo, error) {
	offer, err := m.repo.FindOfferByShopExternal(ctx, shopID, externalID)
	switch {
	case err == nil:
		return offer, nil
	case db.IsNotFound(err):
		return nil, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding offer")
	}
}

func (m *mutator) SetParameterValue(ctx context.Context, productID uuid.UUID, name, value string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "parameter name is required")
	}

	parameter, err := m.repo.FindParameterByName(ctx, name)
	if db.IsNotFound(err) {
		parameter = &models.Parameter{Name: name}
		if createErr := m.repo.CreateParameter(ctx, parameter); createErr != nil {
			if !db.IsUniqueViolation(createErr, "") {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating parameter")
			}
			parameter, err = m.repo.FindParameterByName(ctx, name)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-reading parameter")
			}
		}
	} else if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding parameter")
	}

	link, err := m.repo.FindProductParameter(ctx, productID, parameter.ID)
	switch {
	case err == nil:
		if link.Value == value {
			return nil
		}
		if err := m.repo.UpdateProductParameterValue(ctx, link.ID, value); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating parameter value")
		}
		return nil
	case db.IsNotFound(err):
		link = &models.ProductParameter{
			ProductID:   productID,
			ParameterID: parameter.ID,
			Value:       value,
		}
		if createErr := m.repo.CreateProductParameter(ctx, link); createErr != nil {
			if !db.IsUniqueViolation(createErr, "") {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating parameter value")
			}
			existing, findErr := m.repo.FindProductParameter(ctx, productID, parameter.ID)
			if findErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "re-reading parameter value")
			}
			return m.repo.UpdateProductParameterValue(ctx, existing.ID, value)
		}
		return nil
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding parameter value")
	}
}
