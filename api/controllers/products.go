package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Lee-Rose/python-final-diplom/api/responses"
	"github.com/Lee-Rose/python-final-diplom/api/validators"
	"github.com/Lee-Rose/python-final-diplom/internal/catalog"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/Lee-Rose/python-final-diplom/pkg/logger"
	"github.com/Lee-Rose/python-final-diplom/pkg/pagination"
)

// ProductList serves the paginated catalog, optionally narrowed to one
// category by name.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := catalog.ProductFilter{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		list, err := svc.ListProducts(r.Context(), filter, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type offerPayload struct {
	ProductInfoID uuid.UUID `json:"product_info_id"`
	ShopID        uuid.UUID `json:"shop_id"`
	Shop          string    `json:"shop"`
	Price         string    `json:"price"`
	Quantity      int       `json:"quantity"`
}

// ProductOffers lists every shop's current offer for one product, cheapest
// first.
func ProductOffers(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := parsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offers, err := svc.OffersFor(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payload := make([]offerPayload, 0, len(offers))
		for _, offer := range offers {
			payload = append(payload, offerPayload{
				ProductInfoID: offer.ProductInfoID,
				ShopID:        offer.ShopID,
				Shop:          offer.ShopName,
				Price:         offer.Price.StringFixed(2),
				Quantity:      offer.Quantity,
			})
		}
		responses.WriteSuccess(w, map[string]any{"offers": payload})
	}
}

func parsePathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
