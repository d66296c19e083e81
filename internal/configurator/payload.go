package configurator

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"configurator-service/internal/models"
)

// MaxSummaryBytes keeps the configuration summary under the cart's line-item property limit
const MaxSummaryBytes = 200

// Line item property keys
const (
	PropConfig          = "_config"
	PropConfiguration   = "Configuration"
	PropNozzles         = "Nozzles"
	PropControlLocation = "Control location"
)

// BuildLineItems maps a complete selection to cart line items.
// It returns a *ValidationError naming the first missing required step.
func BuildLineItems(catalog *models.Catalog, sel Selection) ([]models.LineItem, error) {
	if step, missing := sel.MissingStep(); missing {
		return nil, &ValidationError{Step: step}
	}
	o := sel.Options

	baseProps := map[string]string{
		PropConfig:        "base",
		PropConfiguration: BuildConfigSummary(sel),
	}
	if o.ControlLocation != "" && o.ControlLocation != DefaultControlLocation {
		baseProps[PropControlLocation] = o.ControlLocation
	}

	items := []models.LineItem{
		{VariantID: sel.BaseVariantID(), Quantity: 1, Properties: baseProps},
		configItem(o.Liner.VariantID, 1, "liner"),
	}

	if o.Insulation {
		items = appendFirstVariant(items, firstProduct(catalog, models.CategoryInsulations), 1, "insulation", nil)
	}
	if o.GlassDoor {
		addon, _ := FindOvenAddon(catalog, addonKeywordGlass)
		items = appendFirstVariant(items, addon, 1, "oven-addon", nil)
	}
	if o.Chimney {
		addon, _ := FindOvenAddon(catalog, addonKeywordChimney)
		items = appendFirstVariant(items, addon, 1, "oven-addon", nil)
	}

	items = append(items, configItem(o.Exterior.VariantID, 1, "exterior"))

	if o.Hydro.ProductID != 0 {
		items = appendFirstVariant(items, product(catalog, models.CategoryHydro, o.Hydro.ProductID), 1, "hydro",
			map[string]string{PropNozzles: strconv.Itoa(o.Hydro.Quantity)})
	}
	if o.Air.ProductID != 0 {
		items = appendFirstVariant(items, product(catalog, models.CategoryAir, o.Air.ProductID), 1, "air",
			map[string]string{PropNozzles: strconv.Itoa(o.Air.Quantity)})
	}
	if o.FilterEnabled && o.Filter != 0 {
		items = appendFirstVariant(items, product(catalog, models.CategoryFilters, o.Filter), 1, "filter", nil)
	}
	if o.LED.ProductID != 0 {
		items = appendFirstVariant(items, product(catalog, models.CategoryLEDs, o.LED.ProductID), atLeast(o.LED.Quantity, 1), "led", nil)
	}
	if o.Thermometer != 0 {
		items = appendFirstVariant(items, product(catalog, models.CategoryThermometers, o.Thermometer), 1, "thermometer", nil)
	}
	if o.Stairs {
		items = appendFirstVariant(items, firstProduct(catalog, models.CategoryStairs), 1, "stairs", nil)
	}
	if o.Pillows {
		items = appendFirstVariant(items, firstProduct(catalog, models.CategoryPillows), atLeast(o.PillowQty, defaultPillowMinQty), "pillows", nil)
	}
	if o.Cover.VariantID != 0 {
		items = append(items, configItem(o.Cover.VariantID, 1, "cover"))
	}
	if o.HeaterConnection == Heater90Degree && catalog != nil {
		items = appendFirstVariant(items, catalog.Heater90, 1, "heater-connection", nil)
	}

	return items, nil
}

func configItem(variantID int64, qty int, config string) models.LineItem {
	return models.LineItem{
		VariantID:  variantID,
		Quantity:   qty,
		Properties: map[string]string{PropConfig: config},
	}
}

// appendFirstVariant adds the product's first variant; products without variants are skipped
func appendFirstVariant(items []models.LineItem, p *models.CatalogProduct, qty int, config string, extra map[string]string) []models.LineItem {
	v, ok := p.FirstVariant()
	if !ok {
		return items
	}
	item := configItem(v.ID, qty, config)
	for k, val := range extra {
		item.Properties[k] = val
	}
	return append(items, item)
}

func product(catalog *models.Catalog, category string, id int64) *models.CatalogProduct {
	p, _ := catalog.Product(category, id)
	return p
}

func firstProduct(catalog *models.Catalog, category string) *models.CatalogProduct {
	p, _ := catalog.First(category)
	return p
}

// BuildConfigSummary describes the base configuration in one line, e.g.
// "Nordic Elite Classic | Size: XL | Oven: internal | Heater: 90°". When that exceeds
// MaxSummaryBytes an abbreviated form such as "classic XL int 90°" is used instead.
func BuildConfigSummary(sel Selection) string {
	tier := sel.Tier()
	size, hasSize := sel.Size()

	var parts []string
	if tier != nil {
		parts = append(parts, tier.Title)
	}
	if hasSize {
		parts = append(parts, "Size: "+string(size))
	}
	parts = append(parts, "Oven: "+string(sel.OvenType))
	if sel.Options.HeaterConnection == Heater90Degree {
		parts = append(parts, "Heater: 90°")
	}

	summary := strings.Join(parts, " | ")
	if len(summary) <= MaxSummaryBytes {
		return summary
	}

	var short []string
	if tier != nil {
		short = append(short, tier.Key)
	}
	if hasSize {
		short = append(short, string(size))
	}
	if sel.OvenType == OvenInternal {
		short = append(short, "int")
	} else {
		short = append(short, "ext")
	}
	if sel.Options.HeaterConnection == Heater90Degree {
		short = append(short, "90°")
	}
	return truncateBytes(strings.Join(short, " "), MaxSummaryBytes)
}

// truncateBytes cuts s to at most n bytes without splitting a rune
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
