package catalog

import (
	"context"

	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/google/uuid"
)

// OffersFor returns every shop's current listing of the product, cheapest
// first with shop name breaking price ties. An unknown or unlisted product
// yields an empty slice.
func (s *service) OffersFor(ctx context.Context, productID uuid.UUID) ([]Offer, error) {
	offers, err := s.repo.OffersByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing offers")
	}
	return offers, nil
}

// CheapestOffer returns the best-priced offer or nil when no shop lists the
// product.
func (s *service) CheapestOffer(ctx context.Context, productID uuid.UUID) (*Offer, error) {
	offers, err := s.OffersFor(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, nil
	}
	best := offers[0]
	return &best, nil
}
