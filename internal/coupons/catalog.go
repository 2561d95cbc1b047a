package coupons

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hanagata/storefront/internal/domain"
)

var errEmptyCatalog = errors.New("coupons: catalog has no entries")

// Catalog is the immutable set of known coupons, keyed case-insensitively by
// code. It is built once at startup; the engine never writes to it.
type Catalog struct {
	byCode map[string]domain.Coupon
}

// NewCatalog builds a catalog from entries, validating each one. Duplicate
// codes are an error: a catalog with two rules for one code is ambiguous.
func NewCatalog(entries []domain.Coupon) (Catalog, error) {
	if len(entries) == 0 {
		return Catalog{}, errEmptyCatalog
	}

	byCode := make(map[string]domain.Coupon, len(entries))
	for i, c := range entries {
		code := normalizeCode(c.Code)
		if code == "" {
			return Catalog{}, fmt.Errorf("coupons: entry %d has no code", i)
		}
		if _, exists := byCode[code]; exists {
			return Catalog{}, fmt.Errorf("coupons: duplicate code %q", code)
		}
		if err := validateCoupon(c); err != nil {
			return Catalog{}, fmt.Errorf("coupons: %q: %w", code, err)
		}
		c.Code = code
		byCode[code] = c
	}
	return Catalog{byCode: byCode}, nil
}

// Find looks up code case-insensitively.
func (c Catalog) Find(code string) (domain.Coupon, bool) {
	coupon, ok := c.byCode[normalizeCode(code)]
	return coupon, ok
}

// Len returns the number of catalog entries.
func (c Catalog) Len() int {
	return len(c.byCode)
}

type catalogFile struct {
	Coupons []domain.Coupon `yaml:"coupons"`
}

// LoadCatalog reads a YAML catalog file of the form:
//
//	coupons:
//	  - code: SAVE20
//	    discount_type: percentage
//	    discount_value: 20
//	    min_purchase: 50
//	    expiry_date: 2027-12-31T00:00:00Z
func LoadCatalog(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("coupons: read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Catalog{}, fmt.Errorf("coupons: parse catalog: %w", err)
	}
	return NewCatalog(file.Coupons)
}

// DefaultCatalog returns the built-in coupon set used when no catalog file is
// configured.
func DefaultCatalog() Catalog {
	ten := 10
	catalog, err := NewCatalog([]domain.Coupon{
		{
			Code:          "SAVE20",
			DiscountType:  domain.DiscountPercentage,
			DiscountValue: 20,
			MinPurchase:   50,
			ExpiryDate:    time.Date(2027, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			Code:          "FLAT10",
			DiscountType:  domain.DiscountFixed,
			DiscountValue: 10,
			ExpiryDate:    time.Date(2027, time.December, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			Code:          "WELCOME15",
			DiscountType:  domain.DiscountPercentage,
			DiscountValue: 15,
			MinPurchase:   30,
			ExpiryDate:    time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC),
			UsageLimit:    &ten,
		},
	})
	if err != nil {
		// The built-in entries are validated above; a failure here is a bug.
		panic(err)
	}
	return catalog
}

func validateCoupon(c domain.Coupon) error {
	switch c.DiscountType {
	case domain.DiscountPercentage:
		if c.DiscountValue <= 0 || c.DiscountValue > 100 {
			return fmt.Errorf("percentage value must be in (0, 100], got %v", c.DiscountValue)
		}
	case domain.DiscountFixed:
		if c.DiscountValue <= 0 {
			return fmt.Errorf("fixed value must be positive, got %v", c.DiscountValue)
		}
	default:
		return fmt.Errorf("unknown discount type %q", c.DiscountType)
	}
	if c.MinPurchase < 0 {
		return fmt.Errorf("min purchase must be non-negative, got %v", c.MinPurchase)
	}
	if c.UsageLimit != nil && *c.UsageLimit < 1 {
		return fmt.Errorf("usage limit must be at least 1, got %d", *c.UsageLimit)
	}
	if c.UsedCount < 0 {
		return fmt.Errorf("used count must be non-negative, got %d", c.UsedCount)
	}
	return nil
}
