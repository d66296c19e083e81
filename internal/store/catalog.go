package store

import (
	"context"
	"database/sql"
	"fmt"

	"configurator-service/internal/models"
)

// Catalog tables:
//
//	catalog_tiers    (key, title, image, price, position)
//	catalog_products (id, category, tier_key, title, price, image, body,
//	                  info_tooltip, min_qty, max_qty, default_qty, position)
//	catalog_variants (id, product_id, price, option1, option2, position)
//
// Base products carry category 'base' and a tier_key; add-ons leave tier_key NULL.

type tierRow struct {
	Key   string `db:"key"`
	Title string `db:"title"`
	Image string `db:"image"`
	Price int64  `db:"price"`
}

type productRow struct {
	ID          int64          `db:"id"`
	Category    string         `db:"category"`
	TierKey     sql.NullString `db:"tier_key"`
	Title       string         `db:"title"`
	Price       int64          `db:"price"`
	Image       string         `db:"image"`
	Body        string         `db:"body"`
	InfoTooltip string         `db:"info_tooltip"`
	MinQty      int            `db:"min_qty"`
	MaxQty      int            `db:"max_qty"`
	DefaultQty  int            `db:"default_qty"`
}

type variantRow struct {
	models.Variant
	ProductID int64 `db:"product_id"`
}

// LoadCatalog reads the full catalog document
func (s *Store) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	var tiers []tierRow
	err := s.db.SelectContext(ctx, &tiers,
		"SELECT key, title, image, price FROM catalog_tiers ORDER BY position, key")
	if err != nil {
		return nil, fmt.Errorf("failed to load tiers: %w", err)
	}

	var products []productRow
	err = s.db.SelectContext(ctx, &products, `
		SELECT id, category, tier_key, title, price, image, body,
		       info_tooltip, min_qty, max_qty, default_qty
		FROM catalog_products
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	var variants []variantRow
	err = s.db.SelectContext(ctx, &variants, `
		SELECT id, product_id, price, option1, option2
		FROM catalog_variants
		ORDER BY product_id, position, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}

	return assembleCatalog(tiers, products, variants), nil
}

// assembleCatalog groups rows into the catalog document. Rows keep their query order;
// products in unknown categories or under unknown tiers are dropped.
func assembleCatalog(tiers []tierRow, products []productRow, variants []variantRow) *models.Catalog {
	byProduct := make(map[int64][]models.Variant)
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v.Variant)
	}

	catalog := &models.Catalog{}
	tierIndex := make(map[string]int, len(tiers))
	for _, t := range tiers {
		tierIndex[t.Key] = len(catalog.Base)
		catalog.Base = append(catalog.Base, models.Tier{
			Key:   t.Key,
			Title: t.Title,
			Image: t.Image,
			Price: t.Price,
		})
	}

	for _, row := range products {
		p := models.CatalogProduct{
			ID:       row.ID,
			Title:    row.Title,
			Price:    row.Price,
			Image:    row.Image,
			Body:     row.Body,
			Variants: byProduct[row.ID],
		}
		if row.InfoTooltip != "" || row.MinQty > 0 || row.MaxQty > 0 || row.DefaultQty > 0 {
			p.Meta = &models.ProductMeta{
				InfoTooltip: row.InfoTooltip,
				MinQty:      row.MinQty,
				MaxQty:      row.MaxQty,
				DefaultQty:  row.DefaultQty,
			}
		}

		switch row.Category {
		case models.CategoryBase:
			if i, ok := tierIndex[row.TierKey.String]; ok && row.TierKey.Valid {
				catalog.Base[i].Products = append(catalog.Base[i].Products, p)
			}
		case models.CategoryLiners:
			catalog.Liners = append(catalog.Liners, p)
		case models.CategoryInsulations:
			catalog.Insulations = append(catalog.Insulations, p)
		case models.CategoryOvenAddons:
			catalog.OvenAddons = append(catalog.OvenAddons, p)
		case models.CategoryExteriors:
			catalog.Exteriors = append(catalog.Exteriors, p)
		case models.CategoryHydro:
			catalog.Hydro = append(catalog.Hydro, p)
		case models.CategoryAir:
			catalog.Air = append(catalog.Air, p)
		case models.CategoryFilters:
			catalog.Filters = append(catalog.Filters, p)
		case models.CategoryLEDs:
			catalog.LEDs = append(catalog.LEDs, p)
		case models.CategoryThermometers:
			catalog.Thermometers = append(catalog.Thermometers, p)
		case models.CategoryStairs:
			catalog.Stairs = append(catalog.Stairs, p)
		case models.CategoryPillows:
			catalog.Pillows = append(catalog.Pillows, p)
		case models.CategoryCovers:
			catalog.Covers = append(catalog.Covers, p)
		case models.CategoryHeater90:
			if catalog.Heater90 == nil {
				heater := p
				catalog.Heater90 = &heater
			}
		}
	}

	return catalog
}
