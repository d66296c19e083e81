package configurator

import (
	"configurator-service/internal/models"
)

// Resolution is the base product chosen for a tier, size and oven type
type Resolution struct {
	Product   *models.CatalogProduct `json:"-"`
	ProductID int64                  `json:"product_id"`
	Title     string                 `json:"title"`
	Image     string                 `json:"image,omitempty"`
	OvenType  OvenType               `json:"oven_type"`
	// VariantID is zero when the product has no billable variant
	VariantID int64 `json:"variant_id"`
	Price     int64 `json:"price"`
	// ForcedExternal is set when internal was requested but only an external product exists
	ForcedExternal bool `json:"forced_external"`
}

// ResolveBaseProduct finds the tier product for a size and oven type, falling back
// from internal to external. It reports false when nothing matches.
func ResolveBaseProduct(c Classifier, tier *models.Tier, size Size, wantInternal bool) (Resolution, bool) {
	if tier == nil {
		return Resolution{}, false
	}
	if c == nil {
		c = DefaultClassifier
	}

	product := findProduct(c, tier, size, wantInternal)
	forced := false
	if product == nil && wantInternal {
		product = findProduct(c, tier, size, false)
		forced = product != nil
	}
	if product == nil {
		return Resolution{}, false
	}

	oven := OvenExternal
	if c.IsInternalOven(product.Title) {
		oven = OvenInternal
	}

	res := Resolution{
		Product:        product,
		ProductID:      product.ID,
		Title:          product.Title,
		Image:          product.Image,
		OvenType:       oven,
		Price:          product.Price,
		ForcedExternal: forced,
	}
	if v, ok := product.FirstVariant(); ok {
		res.VariantID = v.ID
		res.Price = v.Price
	}
	return res, true
}

func findProduct(c Classifier, tier *models.Tier, size Size, internal bool) *models.CatalogProduct {
	for i := range tier.Products {
		p := &tier.Products[i]
		s, ok := c.ClassifySize(p.Title)
		if ok && s == size && c.IsInternalOven(p.Title) == internal {
			return p
		}
	}
	return nil
}

// InternalOvenAvailable reports whether any internal-oven product exists for the size
func InternalOvenAvailable(c Classifier, tier *models.Tier, size Size) bool {
	if tier == nil {
		return false
	}
	if c == nil {
		c = DefaultClassifier
	}
	return findProduct(c, tier, size, true) != nil
}

// SizeOption is a size offered by a tier with its lowest product price
type SizeOption struct {
	Size         Size  `json:"size"`
	MinPrice     int64 `json:"min_price"`
	ProductCount int   `json:"product_count"`
}

// AvailableSizes lists the tier's sizes in XL, L, M order
func AvailableSizes(c Classifier, tier *models.Tier) []SizeOption {
	if tier == nil {
		return nil
	}
	if c == nil {
		c = DefaultClassifier
	}

	bySize := make(map[Size]*SizeOption)
	for _, p := range tier.Products {
		s, ok := c.ClassifySize(p.Title)
		if !ok {
			continue
		}
		opt, exists := bySize[s]
		if !exists {
			opt = &SizeOption{Size: s, MinPrice: p.Price}
			bySize[s] = opt
		}
		opt.ProductCount++
		if p.Price < opt.MinPrice {
			opt.MinPrice = p.Price
		}
	}

	options := make([]SizeOption, 0, len(bySize))
	for _, s := range Sizes {
		if opt, ok := bySize[s]; ok {
			options = append(options, *opt)
		}
	}
	return options
}
