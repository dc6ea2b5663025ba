package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Lee-Rose/python-final-diplom/pkg/db"
	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/Lee-Rose/python-final-diplom/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type service struct {
	repo    Repository
	tx      txRunner
	domain  *metrics.DomainMetrics
	nowFunc func() time.Time
}

// NewService builds an order service with the required dependencies.
// Metrics may be nil.
func NewService(repo Repository, tx txRunner, domain *metrics.DomainMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		domain:  domain,
		nowFunc: time.Now,
	}, nil
}

// placeAttempts bounds how often a placement recomputes its order number
// after losing a race on the (user_id, number) unique index.
const placeAttempts = 3

// errNumberTaken marks a placement transaction that lost the number race and
// should run again from a fresh MAX(number) read.
var errNumberTaken = errors.New("order number already taken")

// Place validates the requested lines, captures each offer's current price
// and commits the order atomically with a fresh sequential number. Two
// placements racing on the same user collide on the (user_id, number) unique
// index; the loser restarts its transaction with a recomputed number.
func (s *service) Place(ctx context.Context, userID uuid.UUID, lines []PlaceLine) (*OrderDetail, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one line")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be at least 1")
		}
		if _, dup := seen[line.ProductInfoID]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "duplicate offer across order lines")
		}
		seen[line.ProductInfoID] = struct{}{}
	}

	var orderID uuid.UUID
	var err error
	for attempt := 0; attempt < placeAttempts; attempt++ {
		orderID, err = s.placeOnce(ctx, userID, lines)
		if err == nil || !errors.Is(err, errNumberTaken) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, errNumberTaken) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "allocating order number")
		}
		return nil, err
	}

	s.domain.IncOrderPlaced()
	return s.Get(ctx, userID, orderID)
}

func (s *service) placeOnce(ctx context.Context, userID uuid.UUID, lines []PlaceLine) (uuid.UUID, error) {
	var orderID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			offer, err := repo.FindOffer(ctx, line.ProductInfoID)
			if err != nil {
				if db.IsNotFound(err) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding offer")
			}
			items = append(items, models.OrderItem{
				ProductInfoID: offer.ID,
				Quantity:      line.Quantity,
				Price:         offer.Price,
			})
		}

		number, err := repo.NextOrderNumber(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocating order number")
		}

		order := &models.Order{UserID: userID, Number: number}
		if err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return errNumberTaken
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "duplicate offer across order lines")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order lines")
		}
		orderID = order.ID
		return nil
	})
	return orderID, err
}

// MarkDelivered transitions not_delivered to delivered exactly once.
func (s *service) MarkDelivered(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding order")
	}

	affected, err := s.repo.MarkDelivered(ctx, order.ID, s.nowFunc().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking order delivered")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already delivered")
	}

	s.domain.IncOrderDelivered()
	return nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetail, error) {
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	detail := &OrderDetail{
		ID:          order.ID,
		Number:      order.Number,
		Status:      order.Status,
		CreatedAt:   order.CreatedAt,
		DeliveredAt: order.DeliveredAt,
		Items:       make([]OrderItemView, 0, len(order.Items)),
	}

	total := decimal.Zero
	for _, item := range order.Items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view := OrderItemView{
			ProductInfoID: item.ProductInfoID,
			Price:         item.Price.StringFixed(2),
			Quantity:      item.Quantity,
			TotalPrice:    lineTotal.StringFixed(2),
		}
		if item.ProductInfo != nil {
			if item.ProductInfo.Product != nil {
				view.Name = item.ProductInfo.Product.Name
			}
			if item.ProductInfo.Shop != nil {
				view.Shop = item.ProductInfo.Shop.Name
			}
		}
		detail.Items = append(detail.Items, view)
		detail.TotalQuantity += item.Quantity
		total = total.Add(lineTotal)
	}
	detail.TotalPrice = total.StringFixed(2)
	return detail, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]OrderSummary, error) {
	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		total := decimal.Zero
		quantity := 0
		for _, item := range order.Items {
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			quantity += item.Quantity
		}
		summaries = append(summaries, OrderSummary{
			ID:            order.ID,
			Number:        order.Number,
			Status:        order.Status,
			CreatedAt:     order.CreatedAt,
			DeliveredAt:   order.DeliveredAt,
			TotalQuantity: quantity,
			TotalPrice:    total.StringFixed(2),
		})
	}
	return summaries, nil
}
