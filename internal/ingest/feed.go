package ingest

import (
	"fmt"

	pkgerrors "github.com/Lee-Rose/python-final-diplom/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Feed is one supplier price list. Prices arrive as scalars and are kept as
// strings until validation parses them into decimals, so "1100.10" survives
// the trip without float rounding.
type Feed struct {
	Shop       string         `yaml:"shop"`
	Categories []FeedCategory `yaml:"categories"`
	Goods      []FeedGood     `yaml:"goods"`
}

// FeedCategory is a shop-local category entry; ID is the shop's own number.
type FeedCategory struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// FeedGood is one offered product with its per-shop terms.
type FeedGood struct {
	ID         int64             `yaml:"id"`
	Category   int64             `yaml:"category"`
	Model      string            `yaml:"model"`
	Name       string            `yaml:"name"`
	Price      string            `yaml:"price"`
	PriceRRC   string            `yaml:"price_rrc"`
	Quantity   int               `yaml:"quantity"`
	Parameters map[string]string `yaml:"parameters"`
}

// ParseFeed decodes and validates a YAML price list. Validation problems are
// accumulated so a supplier sees every broken line at once, not just the
// first.
func ParseFeed(data []byte) (*Feed, error) {
	var feed Feed
	if err := yaml.Unmarshal(data, &feed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decoding feed")
	}
	if err := feed.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validating feed")
	}
	return &feed, nil
}

// Validate checks the feed's internal consistency.
func (f *Feed) Validate() error {
	var errs error

	if f.Shop == "" {
		errs = multierr.Append(errs, fmt.Errorf("shop name is required"))
	}
	if len(f.Goods) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("feed contains no goods"))
	}

	categories := make(map[int64]struct{}, len(f.Categories))
	for i, category := range f.Categories {
		if category.ID <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("category %d: id must be positive", i))
		}
		if category.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("category %d: name is required", i))
		}
		if _, dup := categories[category.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("category %d: duplicate id %d", i, category.ID))
		}
		categories[category.ID] = struct{}{}
	}

	goods := make(map[int64]struct{}, len(f.Goods))
	for i, good := range f.Goods {
		if good.ID < 0 {
			errs = multierr.Append(errs, fmt.Errorf("good %d: id must not be negative", i))
		}
		if _, dup := goods[good.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("good %d: duplicate id %d", i, good.ID))
		}
		goods[good.ID] = struct{}{}

		if good.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("good %d: name is required", i))
		}
		if _, known := categories[good.Category]; !known {
			errs = multierr.Append(errs, fmt.Errorf("good %d: unknown category %d", i, good.Category))
		}
		if price, err := decimal.NewFromString(good.Price); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("good %d: bad price %q", i, good.Price))
		} else if !price.IsPositive() {
			errs = multierr.Append(errs, fmt.Errorf("good %d: price must be positive", i))
		}
		if rrc, err := decimal.NewFromString(good.PriceRRC); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("good %d: bad price_rrc %q", i, good.PriceRRC))
		} else if !rrc.IsPositive() {
			errs = multierr.Append(errs, fmt.Errorf("good %d: price_rrc must be positive", i))
		}
		if good.Quantity < 0 {
			errs = multierr.Append(errs, fmt.Errorf("good %d: quantity must not be negative", i))
		}
	}

	return errs
}
