package configurator

import (
	"strings"

	"configurator-service/internal/models"
)

// QuoteLine is one priced category in a quote
type QuoteLine struct {
	Category  string `json:"category"`
	Label     string `json:"label"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Amount    int64  `json:"amount"`
}

// Quote is the total price of a selection with its breakdown, in minor units
type Quote struct {
	Total int64       `json:"total"`
	Lines []QuoteLine `json:"lines"`
}

func (q *Quote) add(category, label string, unitPrice int64, qty int) {
	amount := unitPrice * int64(qty)
	q.Lines = append(q.Lines, QuoteLine{
		Category:  category,
		Label:     label,
		UnitPrice: unitPrice,
		Quantity:  qty,
		Amount:    amount,
	})
	q.Total += amount
}

// Oven add-on title keywords
const (
	addonKeywordGlass   = "glass"
	addonKeywordChimney = "chimney"
)

// ComputeTotal prices a selection. Unselected or missing categories contribute nothing.
// Hydro and air nozzle counts are informational and never multiply the price.
func ComputeTotal(catalog *models.Catalog, sel Selection) Quote {
	q := Quote{Lines: []QuoteLine{}}
	o := sel.Options

	if base := sel.Base(); base != nil {
		q.add(models.CategoryBase, base.Title, base.Price, 1)
	}

	addVariantChoice(&q, catalog, models.CategoryLiners, o.Liner)

	if o.Insulation {
		addFirst(&q, catalog, models.CategoryInsulations, 1)
	}
	if o.GlassDoor {
		if addon, ok := FindOvenAddon(catalog, addonKeywordGlass); ok {
			q.add(models.CategoryOvenAddons, addon.Title, addon.Price, 1)
		}
	}
	if o.Chimney {
		if addon, ok := FindOvenAddon(catalog, addonKeywordChimney); ok {
			q.add(models.CategoryOvenAddons, addon.Title, addon.Price, 1)
		}
	}

	addVariantChoice(&q, catalog, models.CategoryExteriors, o.Exterior)
	addSelected(&q, catalog, models.CategoryHydro, o.Hydro.ProductID, 1)
	addSelected(&q, catalog, models.CategoryAir, o.Air.ProductID, 1)

	if o.FilterEnabled {
		addSelected(&q, catalog, models.CategoryFilters, o.Filter, 1)
	}

	addSelected(&q, catalog, models.CategoryLEDs, o.LED.ProductID, atLeast(o.LED.Quantity, 1))
	addSelected(&q, catalog, models.CategoryThermometers, o.Thermometer, 1)

	if o.Stairs {
		addFirst(&q, catalog, models.CategoryStairs, 1)
	}
	if o.Pillows {
		addFirst(&q, catalog, models.CategoryPillows, atLeast(o.PillowQty, defaultPillowMinQty))
	}

	addVariantChoice(&q, catalog, models.CategoryCovers, o.Cover)

	if o.HeaterConnection == Heater90Degree && catalog != nil && catalog.Heater90 != nil {
		q.add(models.CategoryHeater90, catalog.Heater90.Title, catalog.Heater90.Price, 1)
	}

	return q
}

// addVariantChoice prices the chosen variant, or the product when no variant is chosen
func addVariantChoice(q *Quote, catalog *models.Catalog, category string, choice VariantChoice) {
	if choice.ProductID == 0 {
		return
	}
	product, ok := catalog.Product(category, choice.ProductID)
	if !ok {
		return
	}
	price, label := product.Price, product.Title
	if choice.VariantID != 0 {
		if v, ok := product.Variant(choice.VariantID); ok {
			price = v.Price
			if v.Option1 != "" {
				label += " (" + v.Option1 + ")"
			}
		}
	}
	q.add(category, label, price, 1)
}

func addSelected(q *Quote, catalog *models.Catalog, category string, productID int64, qty int) {
	if productID == 0 {
		return
	}
	if product, ok := catalog.Product(category, productID); ok {
		q.add(category, product.Title, product.Price, qty)
	}
}

func addFirst(q *Quote, catalog *models.Catalog, category string, qty int) {
	if product, ok := catalog.First(category); ok {
		q.add(category, product.Title, product.Price, qty)
	}
}

// FindOvenAddon returns the first oven add-on whose title contains keyword
func FindOvenAddon(catalog *models.Catalog, keyword string) (*models.CatalogProduct, bool) {
	if catalog == nil {
		return nil, false
	}
	for i := range catalog.OvenAddons {
		if strings.Contains(strings.ToLower(catalog.OvenAddons[i].Title), keyword) {
			return &catalog.OvenAddons[i], true
		}
	}
	return nil, false
}

func atLeast(v, min int) int {
	if v < min {
		return min
	}
	return v
}
