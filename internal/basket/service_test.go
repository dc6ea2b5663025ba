package basket

import (
	"context"
	"errors"
	"testing"

	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubBasketRepo struct {
	baskets map[uuid.UUID]*models.Basket
	items   map[uuid.UUID]map[uuid.UUID]*models.BasketItem

	createErrOnce error
	findMissOnce  bool
}

func newStubBasketRepo() *stubBasketRepo {
	return &stubBasketRepo{
		baskets: make(map[uuid.UUID]*models.Basket),
		items:   make(map[uuid.UUID]map[uuid.UUID]*models.BasketItem),
	}
}

func (s *stubBasketRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubBasketRepo) FindBasketByUser(ctx context.Context, userID uuid.UUID) (*models.Basket, error) {
	if s.findMissOnce {
		s.findMissOnce = false
		return nil, gorm.ErrRecordNotFound
	}
	if basket, ok := s.baskets[userID]; ok {
		return basket, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBasketRepo) CreateBasket(ctx context.Context, basket *models.Basket) error {
	if s.createErrOnce != nil {
		err := s.createErrOnce
		s.createErrOnce = nil
		return err
	}
	if _, exists := s.baskets[basket.UserID]; exists {
		return errors.New("UNIQUE constraint failed: baskets.user_id")
	}
	if basket.ID == uuid.Nil {
		basket.ID = uuid.New()
	}
	s.baskets[basket.UserID] = basket
	return nil
}

func (s *stubBasketRepo) UpsertItem(ctx context.Context, item *models.BasketItem) error {
	lines, ok := s.items[item.BasketID]
	if !ok {
		lines = make(map[uuid.UUID]*models.BasketItem)
		s.items[item.BasketID] = lines
	}
	if existing, ok := lines[item.ProductInfoID]; ok {
		existing.Quantity = item.Quantity
		return nil
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	lines[item.ProductInfoID] = item
	return nil
}

func (s *stubBasketRepo) DeleteItem(ctx context.Context, basketID, productInfoID uuid.UUID) error {
	if lines, ok := s.items[basketID]; ok {
		delete(lines, productInfoID)
	}
	return nil
}

func (s *stubBasketRepo) ListItems(ctx context.Context, basketID uuid.UUID) ([]models.BasketItem, error) {
	lines := s.items[basketID]
	out := make([]models.BasketItem, 0, len(lines))
	for _, line := range lines {
		out = append(out, *line)
	}
	return out, nil
}

type stubOfferLoader struct {
	offers map[uuid.UUID]*models.ProductInfo
}

func (s *stubOfferLoader) FindOfferByID(ctx context.Context, id uuid.UUID) (*models.ProductInfo, error) {
	if offer, ok := s.offers[id]; ok {
		return offer, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func makeOffer(shopName, productName, price string) *models.ProductInfo {
	return &models.ProductInfo{
		ID:       uuid.New(),
		ShopID:   uuid.New(),
		Price:    decimal.RequireFromString(price),
		Quantity: 10,
		Product:  &models.Product{ID: uuid.New(), Name: productName},
		Shop:     &models.Shop{Name: shopName},
	}
}

func newTestService(t *testing.T, repo Repository, offers OfferLoader) Service {
	t.Helper()
	svc, err := NewService(repo, offers)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestViewEmptyBasket(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubBasketRepo(), &stubOfferLoader{})

	view, err := svc.View(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(view.Items))
	}
	if view.TotalQuantity != 0 {
		t.Fatalf("expected zero quantity, got %d", view.TotalQuantity)
	}
	if view.TotalPrice != "0.00" {
		t.Fatalf("expected total 0.00, got %q", view.TotalPrice)
	}
}

func TestAddItemSingleLineTotal(t *testing.T) {
	t.Parallel()

	repo := newStubBasketRepo()
	offer := makeOffer("svyaznoy", "iPhone XS", "1300.00")
	svc := newTestService(t, repo, &stubOfferLoader{offers: map[uuid.UUID]*models.ProductInfo{offer.ID: offer}})
	ctx := context.Background()
	userID := uuid.New()

	if err := svc.AddItem(ctx, userID, offer.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.items[repo.baskets[userID].ID][offer.ID].ProductInfo = offer

	view, err := svc.View(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(view.Items))
	}
	if view.Items[0].Name != "iPhone XS" || view.Items[0].Shop != "svyaznoy" {
		t.Fatalf("line not joined with product and shop: %+v", view.Items[0])
	}
	if view.Items[0].TotalPrice != "1300.00" || view.TotalPrice != "1300.00" {
		t.Fatalf("expected 1300.00 totals, got line=%q basket=%q", view.Items[0].TotalPrice, view.TotalPrice)
	}
}

func TestViewSumsAcrossShops(t *testing.T) {
	t.Parallel()

	repo := newStubBasketRepo()
	cheap := makeOffer("beta", "iPhone XS", "200.00")
	pricey := makeOffer("alpha", "iPhone XS", "300.00")
	svc := newTestService(t, repo, &stubOfferLoader{offers: map[uuid.UUID]*models.ProductInfo{
		cheap.ID:  cheap,
		pricey.ID: pricey,
	}})
	ctx := context.Background()
	userID := uuid.New()

	if err := svc.AddItem(ctx, userID, cheap.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddItem(ctx, userID, pricey.ID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.items[repo.baskets[userID].ID][cheap.ID].ProductInfo = cheap
	repo.items[repo.baskets[userID].ID][pricey.ID].ProductInfo = pricey

	view, err := svc.View(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 2 {
		t.Fatalf("expected two lines, got %d", len(view.Items))
	}
	if view.TotalQuantity != 3 {
		t.Fatalf("expected quantity 3, got %d", view.TotalQuantity)
	}
	if view.TotalPrice != "800.00" {
		t.Fatalf("expected total 800.00, got %q", view.TotalPrice)
	}
}

func TestViewPricesReadLive(t *testing.T) {
	t.Parallel()

	repo := newStubBasketRepo()
	offer := makeOffer("svyaznoy", "iPhone XS", "1300.00")
	svc := newTestService(t, repo, &stubOfferLoader{offers: map[uuid.UUID]*models.ProductInfo{offer.ID: offer}})
	ctx := context.Background()
	userID := uuid.New()

	if err := svc.AddItem(ctx, userID, offer.ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ListItems returns the line joined with the live offer row; a price
	// update must show up in the very next view.
	basket := repo.baskets[userID]
	repo.items[basket.ID][offer.ID].ProductInfo = offer
	offer.Price = decimal.RequireFromString("1250.00")

	view, err := svc.View(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TotalPrice != "1250.00" {
		t.Fatalf("expected live price 1250.00, got %q", view.TotalPrice)
	}
}

func TestViewFailsOnDetachedLine(t *testing.T) {
	t.Parallel()

	repo := newStubBasketRepo()
	svc := newTestService(t, repo, &stubOfferLoader{})
	userID := uuid.New()

	// a line whose offer row did not load must not shrink the totals
	basket := &models.Basket{ID: uuid.New(), UserID: userID}
	repo.baskets[userID] = basket
	repo.items[basket.ID] = map[uuid.UUID]*models.BasketItem{
		uuid.New(): {ID: uuid.New(), BasketID: basket.ID, ProductInfoID: uuid.New(), Quantity: 2},
	}

	_, err := svc.View(context.Background(), userID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error for a line without its offer row, got %v", err)
	}
}

func TestAddItemReplacesQuantity(t *testing.T) {
	t.Parallel()

	repo := newStubBasketRepo()
	offer := makeOffer("svyaznoy", "iPhone XS", "100.00")
	svc := newTestService(t, repo, &stubOfferLoader{offers: map[uuid.UUID]*models.ProductInfo{offer.ID: offer}})
	ctx := context.Background()
	userID := uuid.New()

	if err := svc.AddItem(ctx, userID, offer.ID, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddItem(ctx, userID, offer.ID, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.items[repo.baskets[userID].ID][offer.ID].ProductInfo = offer

	view, err := svc.View(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("re-adding the same offer must not duplicate the line, got %d lines", len(view.Items))
	}
	if view.TotalQuantity != 5 {
		t.Fatalf("expected replaced quantity 5, got %d", view.TotalQuantity)
	}
}

func TestAddItemValidation(t *testing.T) {
	t.Parallel()

	offer := makeOffer("svyaznoy", "iPhone XS", "100.00")
	svc := newTestService(t, newStubBasketRepo(), &stubOfferLoader{offers: map[uuid.UUID]*models.ProductInfo{offer.ID: offer}})
	ctx := context.Background()

	err := svc.AddItem(ctx, uuid.New(), offer.ID, 0)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for qty 0, got %v", err)
	}

	err = svc.AddItem(ctx, uuid.New(), uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for vanished offer, got %v", err)
	}
}

func TestRemoveItemAbsentLineIsNoop(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubBasketRepo(), &stubOfferLoader{})

	if err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}

func TestGetOrCreateRecoversFromUniqueRace(t *testing.T) {
	t.Parallel()

	repo := newStubBasketRepo()
	svc := newTestService(t, repo, &stubOfferLoader{})
	ctx := context.Background()
	userID := uuid.New()

	winner := &models.Basket{ID: uuid.New(), UserID: userID}
	repo.baskets[userID] = winner
	repo.findMissOnce = true
	repo.createErrOnce = errors.New("UNIQUE constraint failed: baskets.user_id")

	basket, err := svc.GetOrCreate(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if basket.ID != winner.ID {
		t.Fatal("expected the concurrently created basket to be returned")
	}
}
