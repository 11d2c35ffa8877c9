package domain

import (
	"encoding/json"
	"fmt"
)

// IncenseHolderIndex is the aroma product that takes purchasable incense.
const IncenseHolderIndex = 0

// Variant is one purchasable option of a product.
type Variant struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          int64  `json:"price"`
	PriceFormatted string `json:"priceFormatted,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	MediaID        string `json:"mediaId,omitempty"`
}

// Product groups variants under a title and image.
// ID is the cart variant id for single-variant products such as the platform.
type Product struct {
	ID             string    `json:"id,omitempty"`
	Title          string    `json:"title"`
	Price          int64     `json:"price"`
	PriceFormatted string    `json:"priceFormatted,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	Variants       []Variant `json:"variants"`
}

// Variant returns the variant at i, or false when i is out of range.
func (p Product) Variant(i int) (Variant, bool) {
	if i < 0 || i >= len(p.Variants) {
		return Variant{}, false
	}
	return p.Variants[i], true
}

// Catalog is the read-only product data a configurator works against.
type Catalog struct {
	CurrencySymbol  string    `json:"currencySymbol,omitempty"`
	Seating         []Product `json:"seating"`
	Platform        *Product  `json:"platform"`
	Aroma           []Product `json:"aroma"`
	Incense         *Product  `json:"incense"`
	IncludedIncense *Product  `json:"includedIncense,omitempty"`
	Home            []Product `json:"home"`
}

// EmptyCatalog returns a catalog with no products. Every selection against
// it is rejected by bounds checks.
func EmptyCatalog() Catalog {
	return Catalog{
		CurrencySymbol: "$",
		Seating:        []Product{},
		Aroma:          []Product{},
		Home:           []Product{},
	}
}

// ParseCatalog decodes a catalog payload. Missing or malformed data yields
// the empty catalog together with the decode error, so callers can log it
// and keep going.
func ParseCatalog(data []byte) (Catalog, error) {
	if len(data) == 0 {
		return EmptyCatalog(), fmt.Errorf("parsing catalog: empty payload")
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return EmptyCatalog(), fmt.Errorf("parsing catalog: %w", err)
	}

	if c.CurrencySymbol == "" {
		c.CurrencySymbol = "$"
	}
	if c.Seating == nil {
		c.Seating = []Product{}
	}
	if c.Aroma == nil {
		c.Aroma = []Product{}
	}
	if c.Home == nil {
		c.Home = []Product{}
	}
	return c, nil
}

// SeatingProduct returns the seating product at i.
func (c Catalog) SeatingProduct(i int) (Product, bool) { return productAt(c.Seating, i) }

// AromaProduct returns the aroma product at i.
func (c Catalog) AromaProduct(i int) (Product, bool) { return productAt(c.Aroma, i) }

// HomeProduct returns the home product at i.
func (c Catalog) HomeProduct(i int) (Product, bool) { return productAt(c.Home, i) }

// HasPlatform reports whether the platform upgrade is offered.
func (c Catalog) HasPlatform() bool { return c.Platform != nil }

// HasPurchasableIncense reports whether incense can be bought separately.
func (c Catalog) HasPurchasableIncense() bool {
	return c.Incense != nil && len(c.Incense.Variants) > 0
}

// HasIncludedIncense reports whether a free incense is bundled with aromas.
func (c Catalog) HasIncludedIncense() bool { return c.IncludedIncense != nil }

// IncenseVariant returns the purchasable incense variant at i.
func (c Catalog) IncenseVariant(i int) (Variant, bool) {
	if c.Incense == nil {
		return Variant{}, false
	}
	return c.Incense.Variant(i)
}

func productAt(products []Product, i int) (Product, bool) {
	if i < 0 || i >= len(products) {
		return Product{}, false
	}
	return products[i], true
}
