package models

import "time"

// Variant is a purchasable variant of a catalog product
type Variant struct {
	ID      int64  `json:"id" db:"id"`
	Price   int64  `json:"price" db:"price"`
	Option1 string `json:"option1,omitempty" db:"option1"`
	Option2 string `json:"option2,omitempty" db:"option2"`
}

// ProductMeta carries per-product storefront metafields
type ProductMeta struct {
	InfoTooltip string `json:"info_tooltip,omitempty"`
	MinQty      int    `json:"min_qty,omitempty"`
	MaxQty      int    `json:"max_qty,omitempty"`
	DefaultQty  int    `json:"default_qty,omitempty"`
}

// CatalogProduct is a product as supplied by the storefront. Prices are in minor units.
type CatalogProduct struct {
	ID       int64        `json:"id"`
	Title    string       `json:"title"`
	Price    int64        `json:"price"`
	Image    string       `json:"image,omitempty"`
	Body     string       `json:"body,omitempty"`
	Variants []Variant    `json:"variants"`
	Meta     *ProductMeta `json:"meta,omitempty"`
}

// FirstVariant returns the product's first variant, if any
func (p *CatalogProduct) FirstVariant() (Variant, bool) {
	if p == nil || len(p.Variants) == 0 {
		return Variant{}, false
	}
	return p.Variants[0], true
}

// Variant looks up a variant by ID
func (p *CatalogProduct) Variant(id int64) (Variant, bool) {
	if p == nil {
		return Variant{}, false
	}
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Tier keys
const (
	TierClassic   = "classic"
	TierPremium   = "premium"
	TierSignature = "signature"
)

// Tier bundles every base product (one per size and oven type) of one quality grade
type Tier struct {
	Key      string           `json:"key"`
	Title    string           `json:"title"`
	Image    string           `json:"image,omitempty"`
	Price    int64            `json:"price"`
	Products []CatalogProduct `json:"products"`
}

// Category keys, as used in the catalog payload
const (
	CategoryBase         = "base"
	CategoryLiners       = "liners"
	CategoryInsulations  = "insulations"
	CategoryOvenAddons   = "oven_addons"
	CategoryExteriors    = "exteriors"
	CategoryHydro        = "hydro"
	CategoryAir          = "air"
	CategoryFilters      = "filters"
	CategoryLEDs         = "leds"
	CategoryThermometers = "thermometers"
	CategoryStairs       = "stairs"
	CategoryPillows      = "pillows"
	CategoryCovers       = "covers"
	CategoryHeater90     = "heater_90"
)

// Catalog is the read-only product document for one configurator.
// Missing categories decode to empty slices and mean "no options available".
type Catalog struct {
	Base         []Tier            `json:"base"`
	Liners       []CatalogProduct  `json:"liners"`
	Insulations  []CatalogProduct  `json:"insulations"`
	OvenAddons   []CatalogProduct  `json:"oven_addons"`
	Exteriors    []CatalogProduct  `json:"exteriors"`
	Hydro        []CatalogProduct  `json:"hydro"`
	Air          []CatalogProduct  `json:"air"`
	Filters      []CatalogProduct  `json:"filters"`
	LEDs         []CatalogProduct  `json:"leds"`
	Thermometers []CatalogProduct  `json:"thermometers"`
	Stairs       []CatalogProduct  `json:"stairs"`
	Pillows      []CatalogProduct  `json:"pillows"`
	Covers       []CatalogProduct  `json:"covers"`
	Heater90     *CatalogProduct   `json:"heater_90,omitempty"`
	Diagrams     map[string]string `json:"diagrams,omitempty"`
}

// Tier looks up a tier by key
func (c *Catalog) Tier(key string) (*Tier, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Base {
		if c.Base[i].Key == key {
			return &c.Base[i], true
		}
	}
	return nil, false
}

// Products returns the product list of an add-on category
func (c *Catalog) Products(category string) []CatalogProduct {
	if c == nil {
		return nil
	}
	switch category {
	case CategoryLiners:
		return c.Liners
	case CategoryInsulations:
		return c.Insulations
	case CategoryOvenAddons:
		return c.OvenAddons
	case CategoryExteriors:
		return c.Exteriors
	case CategoryHydro:
		return c.Hydro
	case CategoryAir:
		return c.Air
	case CategoryFilters:
		return c.Filters
	case CategoryLEDs:
		return c.LEDs
	case CategoryThermometers:
		return c.Thermometers
	case CategoryStairs:
		return c.Stairs
	case CategoryPillows:
		return c.Pillows
	case CategoryCovers:
		return c.Covers
	case CategoryHeater90:
		if c.Heater90 != nil {
			return []CatalogProduct{*c.Heater90}
		}
	}
	return nil
}

// Product finds a product by ID within a category
func (c *Catalog) Product(category string, id int64) (*CatalogProduct, bool) {
	products := c.Products(category)
	for i := range products {
		if products[i].ID == id {
			return &products[i], true
		}
	}
	return nil, false
}

// First returns the first product of a category (single-product categories like stairs)
func (c *Catalog) First(category string) (*CatalogProduct, bool) {
	products := c.Products(category)
	if len(products) == 0 {
		return nil, false
	}
	return &products[0], true
}

// LineItem is one entry of a cart-add request
type LineItem struct {
	VariantID  int64             `json:"id"`
	Quantity   int               `json:"quantity"`
	Properties map[string]string `json:"properties,omitempty"`
}

// CheckoutRecord is a submitted configuration kept for analysis
type CheckoutRecord struct {
	ID          int64     `db:"id" json:"id"`
	EventID     string    `db:"event_id" json:"event_id"`
	SessionID   string    `db:"session_id" json:"session_id"`
	TierKey     string    `db:"tier_key" json:"tier_key"`
	Size        string    `db:"size" json:"size"`
	OvenType    string    `db:"oven_type" json:"oven_type"`
	TotalAmount int64     `db:"total_amount" json:"total_amount"`
	ItemCount   int       `db:"item_count" json:"item_count"`
	Status      string    `db:"status" json:"status"`
	Reason      string    `db:"reason" json:"reason,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Checkout statuses
const (
	CheckoutStatusSubmitted = "SUBMITTED"
	CheckoutStatusFailed    = "FAILED"
)
