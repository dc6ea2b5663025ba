package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/Lee-Rose/python-final-diplom/internal/catalog"
	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/Lee-Rose/python-final-diplom/pkg/logger"
	"github.com/Lee-Rose/python-final-diplom/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source records where a feed came from. Exactly one field is set; it
// becomes the shop's stored feed source.
type Source struct {
	URL      *string
	Filename *string
}

// Report summarizes one applied feed.
type Report struct {
	Shop       string `json:"shop"`
	Categories int    `json:"categories"`
	Products   int    `json:"products"`
	Offers     int    `json:"offers"`
	Parameters int    `json:"parameters"`
}

// Service loads supplier price lists and applies them to the catalog.
type Service interface {
	ApplyFile(ctx context.Context, path string) (*Report, error)
	ApplyURL(ctx context.Context, rawURL string) (*Report, error)
	Apply(ctx context.Context, feed *Feed, source Source) (*Report, error)
}

type service struct {
	catalog  catalog.Service
	client   *http.Client
	maxBytes int64
	domain   *metrics.DomainMetrics
	logg     *logger.Logger
}

// NewService builds an ingest service. Metrics may be nil; maxFeedMB caps
// how much of a fetched feed is read.
func NewService(cat catalog.Service, client *http.Client, maxFeedMB int, domain *metrics.DomainMetrics, logg *logger.Logger) (Service, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if client == nil {
		client = http.DefaultClient
	}
	if maxFeedMB <= 0 {
		maxFeedMB = 16
	}
	return &service{
		catalog:  cat,
		client:   client,
		maxBytes: int64(maxFeedMB) << 20,
		domain:   domain,
		logg:     logg,
	}, nil
}

// ApplyFile reads a price list from disk and applies it. The file's base
// name is stored as the shop's feed source.
func (s *service) ApplyFile(ctx context.Context, path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading feed file")
	}
	feed, err := ParseFeed(data)
	if err != nil {
		return nil, err
	}
	filename := filepath.Base(path)
	return s.Apply(ctx, feed, Source{Filename: &filename})
}

// ApplyURL fetches a price list over HTTP and applies it. The URL is stored
// as the shop's feed source.
func (s *service) ApplyURL(ctx context.Context, rawURL string) (*Report, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feed url must be http or https")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "building feed request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching feed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("feed fetch returned status %d", resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading feed body")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "feed exceeds the size limit")
	}

	feed, err := ParseFeed(data)
	if err != nil {
		return nil, err
	}
	return s.Apply(ctx, feed, Source{URL: &rawURL})
}

// Apply writes a validated feed through the catalog in one transaction.
// Offers already known by their shop-local id keep their product; everything
// else is created fresh.
func (s *service) Apply(ctx context.Context, feed *Feed, source Source) (*Report, error) {
	report := &Report{Shop: feed.Shop}

	err := s.catalog.Batch(ctx, func(m catalog.Mutator) error {
		shop, err := m.UpsertShop(ctx, catalog.UpsertShopInput{
			Name:     feed.Shop,
			URL:      source.URL,
			Filename: source.Filename,
		})
		if err != nil {
			return err
		}

		categoryByExternal := make(map[int64]uuid.UUID, len(feed.Categories))
		for _, entry := range feed.Categories {
			category, err := m.UpsertCategory(ctx, catalog.UpsertCategoryInput{
				Name:   entry.Name,
				ShopID: &shop.ID,
			})
			if err != nil {
				return err
			}
			categoryByExternal[entry.ID] = category.ID
			report.Categories++
		}

		for _, good := range feed.Goods {
			// validated by ParseFeed
			price := decimal.RequireFromString(good.Price)
			priceRRC := decimal.RequireFromString(good.PriceRRC)

			var productID uuid.UUID
			existing, err := m.OfferByExternal(ctx, shop.ID, good.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				productID = existing.ProductID
			} else {
				product, err := m.CreateProduct(ctx, catalog.CreateProductInput{
					Name:       good.Name,
					Model:      good.Model,
					PriceRRC:   priceRRC,
					CategoryID: []uuid.UUID{categoryByExternal[good.Category]},
				})
				if err != nil {
					return err
				}
				productID = product.ID
				report.Products++
			}

			if _, err := m.UpsertOffer(ctx, catalog.UpsertOfferInput{
				ShopID:     shop.ID,
				ProductID:  productID,
				ExternalID: good.ID,
				Price:      price,
				Quantity:   good.Quantity,
			}); err != nil {
				return err
			}
			report.Offers++

			names := make([]string, 0, len(good.Parameters))
			for name := range good.Parameters {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if err := m.SetParameterValue(ctx, productID, name, good.Parameters[name]); err != nil {
					return err
				}
				report.Parameters++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.domain.IncFeedApplied(feed.Shop)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"shop":     report.Shop,
		"offers":   report.Offers,
		"products": report.Products,
	})
	s.logg.Info(ctx, "catalog feed applied")
	return report, nil
}
