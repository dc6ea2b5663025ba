package basket

import (
	"context"
	"fmt"

	"github.com/Lee-Rose/python-final-diplom/pkg/db"
	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type service struct {
	repo   Repository
	offers OfferLoader
}

// NewService builds a basket service with the required dependencies.
func NewService(repo Repository, offers OfferLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("basket repository required")
	}
	if offers == nil {
		return nil, fmt.Errorf("offer loader required")
	}
	return &service{repo: repo, offers: offers}, nil
}

// GetOrCreate returns the user's basket, creating it on first use. A
// concurrent create loses on the user_id unique index and re-reads.
func (s *service) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Basket, error) {
	basket, err := s.repo.FindBasketByUser(ctx, userID)
	if err == nil {
		return basket, nil
	}
	if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding basket")
	}

	basket = &models.Basket{UserID: userID}
	if createErr := s.repo.CreateBasket(ctx, basket); createErr != nil {
		if db.IsUniqueViolation(createErr, "") {
			existing, findErr := s.repo.FindBasketByUser(ctx, userID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "re-reading basket")
			}
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating basket")
	}
	return basket, nil
}

func (s *service) AddItem(ctx context.Context, userID, productInfoID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	offer, err := s.offers.FindOfferByID(ctx, productInfoID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding offer")
	}

	basket, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	item := &models.BasketItem{
		BasketID:      basket.ID,
		ProductInfoID: offer.ID,
		ShopID:        offer.ShopID,
		Quantity:      quantity,
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "writing basket line")
	}
	return nil
}

// RemoveItem drops the line. A line that was never there is not an error.
func (s *service) RemoveItem(ctx context.Context, userID, productInfoID uuid.UUID) error {
	basket, err := s.repo.FindBasketByUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding basket")
	}
	if err := s.repo.DeleteItem(ctx, basket.ID, productInfoID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing basket line")
	}
	return nil
}

// View prices every line from the current offer rows, so shop price updates
// are reflected immediately.
func (s *service) View(ctx context.Context, userID uuid.UUID) (*BasketView, error) {
	view := &BasketView{
		Items:      []ItemView{},
		TotalPrice: decimal.Zero.StringFixed(2),
	}

	basket, err := s.repo.FindBasketByUser(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return view, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding basket")
	}

	items, err := s.repo.ListItems(ctx, basket.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing basket lines")
	}

	total := decimal.Zero
	for _, item := range items {
		// the FK cascade should make this impossible; a line without its
		// offer row means the view would silently understate the basket
		if item.ProductInfo == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "basket line has no offer row")
		}
		lineTotal := item.ProductInfo.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		line := ItemView{
			ProductInfoID: item.ProductInfoID,
			Price:         item.ProductInfo.Price.StringFixed(2),
			Quantity:      item.Quantity,
			TotalPrice:    lineTotal.StringFixed(2),
		}
		if item.ProductInfo.Product != nil {
			line.Name = item.ProductInfo.Product.Name
		}
		if item.ProductInfo.Shop != nil {
			line.Shop = item.ProductInfo.Shop.Name
		}
		view.Items = append(view.Items, line)
		view.TotalQuantity += item.Quantity
		total = total.Add(lineTotal)
	}
	view.TotalPrice = total.StringFixed(2)
	return view, nil
}
