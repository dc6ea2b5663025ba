package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Lee-Rose/python-final-diplom/api/responses"
	"github.com/Lee-Rose/python-final-diplom/api/validators"
	"github.com/Lee-Rose/python-final-diplom/internal/orders"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/Lee-Rose/python-final-diplom/pkg/logger"
)

type placeOrderLine struct {
	ProductInfoID uuid.UUID `json:"product_info_id" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
}

type placeOrderRequest struct {
	Items []placeOrderLine `json:"items" validate:"required,min=1,dive"`
}

// OrderPlace commits the requested lines as a new order at today's offer
// prices.
func OrderPlace(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req placeOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]orders.PlaceLine, 0, len(req.Items))
		for _, item := range req.Items {
			lines = append(lines, orders.PlaceLine{
				ProductInfoID: item.ProductInfoID,
				Quantity:      item.Quantity,
			})
		}

		detail, err := svc.Place(r.Context(), userID, lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// OrderList returns the caller's orders, newest number first.
func OrderList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summaries, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"orders": summaries})
	}
}

// OrderDetail returns one of the caller's orders with its captured prices.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// OrderMarkDelivered performs the one-way delivery transition.
func OrderMarkDelivered(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, orderID.String())
		}

		// ownership first, so foreign orders read as not found
		if _, err := svc.Get(ctx, userID, orderID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.MarkDelivered(ctx, orderID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		detail, err := svc.Get(ctx, userID, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}
