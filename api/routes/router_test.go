package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Lee-Rose/python-final-diplom/internal/basket"
	"github.com/Lee-Rose/python-final-diplom/internal/catalog"
	"github.com/Lee-Rose/python-final-diplom/internal/orders"
	pkgAuth "github.com/Lee-Rose/python-final-diplom/pkg/auth"
	"github.com/Lee-Rose/python-final-diplom/pkg/config"
	"github.com/Lee-Rose/python-final-diplom/pkg/db/models"
	"github.com/Lee-Rose/python-final-diplom/pkg/enums"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/Lee-Rose/python-final-diplom/pkg/logger"
	"github.com/Lee-Rose/python-final-diplom/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct {
	list   *catalog.ProductList
	offers []catalog.Offer
}

func (s *stubCatalogService) UpsertShop(context.Context, catalog.UpsertShopInput) (*models.Shop, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubCatalogService) UpsertCategory(context.Context, catalog.UpsertCategoryInput) (*models.Category, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubCatalogService) CreateProduct(context.Context, catalog.CreateProductInput) (*models.Product, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubCatalogService) UpsertOffer(context.Context, catalog.UpsertOfferInput) (*models.ProductInfo, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubCatalogService) OfferByExternal(context.Context, uuid.UUID, int64) (*models.ProductInfo, error) {
	return nil, nil
}

func (s *stubCatalogService) SetParameterValue(context.Context, uuid.UUID, string, string) error {
	return fmt.Errorf("not implemented")
}

func (s *stubCatalogService) ListProducts(context.Context, catalog.ProductFilter, pagination.Params) (*catalog.ProductList, error) {
	return s.list, nil
}

func (s *stubCatalogService) OffersFor(context.Context, uuid.UUID) ([]catalog.Offer, error) {
	return s.offers, nil
}

func (s *stubCatalogService) CheapestOffer(context.Context, uuid.UUID) (*catalog.Offer, error) {
	if len(s.offers) == 0 {
		return nil, nil
	}
	return &s.offers[0], nil
}

func (s *stubCatalogService) Batch(ctx context.Context, fn func(m catalog.Mutator) error) error {
	return fn(s)
}

type stubBasketService struct {
	view *basket.BasketView
}

func (s *stubBasketService) GetOrCreate(context.Context, uuid.UUID) (*models.Basket, error) {
	return &models.Basket{}, nil
}

func (s *stubBasketService) AddItem(context.Context, uuid.UUID, uuid.UUID, int) error {
	return nil
}

func (s *stubBasketService) RemoveItem(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (s *stubBasketService) View(context.Context, uuid.UUID) (*basket.BasketView, error) {
	return s.view, nil
}

type stubOrdersService struct {
	detail    *orders.OrderDetail
	deliver   error
	placeErr  error
	placeHits int
}

func (s *stubOrdersService) Place(_ context.Context, _ uuid.UUID, lines []orders.PlaceLine) (*orders.OrderDetail, error) {
	s.placeHits++
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	return s.detail, nil
}

func (s *stubOrdersService) MarkDelivered(context.Context, uuid.UUID) error {
	return s.deliver
}

func (s *stubOrdersService) Get(context.Context, uuid.UUID, uuid.UUID) (*orders.OrderDetail, error) {
	if s.detail == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.detail, nil
}

func (s *stubOrdersService) List(context.Context, uuid.UUID) ([]orders.OrderSummary, error) {
	return []orders.OrderSummary{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "retail", ExpirationMinutes: 60},
	}
}

func testRouter(t *testing.T, deps Deps) http.Handler {
	t.Helper()
	if deps.Config == nil {
		deps.Config = testConfig()
	}
	if deps.Logger == nil {
		deps.Logger = logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	}
	return NewRouter(deps)
}

func bearerFor(t *testing.T, cfg *config.Config, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Type:   enums.UserTypeBuyer,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter(t, Deps{DBPinger: stubPinger{}})

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestProductsAreWorldReadable(t *testing.T) {
	cat := &stubCatalogService{list: &catalog.ProductList{Products: []catalog.ProductSummary{{
		ID:       uuid.New(),
		Name:     "iPhone XS",
		PriceRRC: "1400.00",
	}}}}
	router := testRouter(t, Deps{Catalog: cat})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"price_rrc":"1400.00"`) {
		t.Fatalf("expected product payload, got %s", resp.Body.String())
	}
}

func TestProductOffersRendersPrices(t *testing.T) {
	cat := &stubCatalogService{offers: []catalog.Offer{{
		ProductInfoID: uuid.New(),
		ShopID:        uuid.New(),
		ShopName:      "svyaznoy",
		Price:         decimal.RequireFromString("1300.00"),
		Quantity:      14,
	}}}
	router := testRouter(t, Deps{Catalog: cat})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString()+"/offers", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, `"price":"1300.00"`) || !strings.Contains(body, `"shop":"svyaznoy"`) {
		t.Fatalf("unexpected offers payload %s", body)
	}
}

func TestBasketRequiresAuth(t *testing.T) {
	router := testRouter(t, Deps{Basket: &stubBasketService{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/basket", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestBasketFetchWithToken(t *testing.T) {
	cfg := testConfig()
	basketSvc := &stubBasketService{view: &basket.BasketView{
		Items:      []basket.ItemView{},
		TotalPrice: "0.00",
	}}
	router := testRouter(t, Deps{Config: cfg, Basket: basketSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/basket", nil)
	req.Header.Set("Authorization", bearerFor(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"total_price":"0.00"`) {
		t.Fatalf("unexpected basket payload %s", resp.Body.String())
	}
}

func TestOrderPlacement(t *testing.T) {
	cfg := testConfig()
	ordersSvc := &stubOrdersService{detail: &orders.OrderDetail{
		ID:         uuid.New(),
		Number:     1,
		Status:     enums.OrderStatusNotDelivered,
		Items:      []orders.OrderItemView{},
		TotalPrice: "1300.00",
	}}
	router := testRouter(t, Deps{Config: cfg, Orders: ordersSvc})

	payload := fmt.Sprintf(`{"items":[{"product_info_id":%q,"quantity":1}]}`, uuid.NewString())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(payload))
	req.Header.Set("Authorization", bearerFor(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if ordersSvc.placeHits != 1 {
		t.Fatalf("expected one placement, got %d", ordersSvc.placeHits)
	}

	var body struct {
		Data orders.OrderDetail `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.TotalPrice != "1300.00" {
		t.Fatalf("unexpected total %s", body.Data.TotalPrice)
	}
}

func TestOrderPlacementRejectsEmptyItems(t *testing.T) {
	cfg := testConfig()
	ordersSvc := &stubOrdersService{}
	router := testRouter(t, Deps{Config: cfg, Orders: ordersSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"items":[]}`))
	req.Header.Set("Authorization", bearerFor(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if ordersSvc.placeHits != 0 {
		t.Fatalf("service should not be called for invalid body")
	}
}

func TestOrderDeliveredConflictMapsTo422(t *testing.T) {
	cfg := testConfig()
	ordersSvc := &stubOrdersService{
		detail: &orders.OrderDetail{ID: uuid.New(), Number: 1, Status: enums.OrderStatusDelivered},
		deliver: pkgerrors.New(pkgerrors.CodeStateConflict, "order is already delivered"),
	}
	router := testRouter(t, Deps{Config: cfg, Orders: ordersSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+uuid.NewString()+"/delivered", nil)
	req.Header.Set("Authorization", bearerFor(t, cfg, uuid.New()))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMetricsEndpointAbsentWithoutRegistry(t *testing.T) {
	router := testRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
