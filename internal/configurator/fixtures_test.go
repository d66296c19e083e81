package configurator

import (
	"configurator-service/internal/models"
)

func testProduct(id int64, title string, price int64, variantIDs ...int64) models.CatalogProduct {
	p := models.CatalogProduct{ID: id, Title: title, Price: price}
	for _, vid := range variantIDs {
		p.Variants = append(p.Variants, models.Variant{ID: vid, Price: price})
	}
	return p
}

func testCatalog() *models.Catalog {
	liner := testProduct(200, "Liner Pearl", 0, 2001)
	liner.Variants = append(liner.Variants, models.Variant{ID: 2002, Price: 34200, Option1: "Custom RAL"})

	exterior := testProduct(300, "Exterior Thermal Wood", 41702, 3001)
	exterior.Variants = append(exterior.Variants, models.Variant{ID: 3002, Price: 45000, Option1: "Oiled"})

	led := testProduct(700, "LED Lamp RGB", 4573, 7001)
	led.Meta = &models.ProductMeta{MinQty: 1, MaxQty: 6, DefaultQty: 1}

	pillow := testProduct(900, "Head Pillow", 6065, 9001)
	pillow.Meta = &models.ProductMeta{MinQty: 2, MaxQty: 8}

	hydro := testProduct(400, "Hydro 1.1kW", 35894, 4001)
	hydro.Meta = &models.ProductMeta{MinQty: 6, MaxQty: 12, DefaultQty: 8}

	heater := testProduct(1100, "Heater 90° connection", 2500, 11001)

	return &models.Catalog{
		Base: []models.Tier{
			{
				Key:   models.TierClassic,
				Title: "Nordic Elite Classic",
				Products: []models.CatalogProduct{
					testProduct(10, "Nordic Elite XL Classic", 500000, 101),
					testProduct(11, "Nordic Elite XL Classic I", 520000, 111),
					testProduct(12, "Nordic Elite M Classic", 300000, 121),
				},
			},
			{
				Key:   models.TierPremium,
				Title: "Nordic Elite Premium",
				Products: []models.CatalogProduct{
					testProduct(20, "Nordic Elite L Premium", 600000, 201),
					testProduct(21, "Nordic Elite L Premium Internal", 640000, 211),
					testProduct(22, "Nordic Elite XL Premium", 700000, 221),
					testProduct(23, "Nordic Elite M Premium", 450000),
				},
			},
		},
		Liners:       []models.CatalogProduct{liner},
		Insulations:  []models.CatalogProduct{testProduct(250, "Hot Tub Insulation", 14132, 2501)},
		OvenAddons:   []models.CatalogProduct{testProduct(260, "Oven Door with Glass", 5840, 2601), testProduct(261, "Chimney with Heat Protection", 8260, 2611)},
		Exteriors:    []models.CatalogProduct{exterior},
		Hydro:        []models.CatalogProduct{hydro},
		Air:          []models.CatalogProduct{testProduct(500, "Air 0.7kW", 25000, 5001)},
		Filters:      []models.CatalogProduct{testProduct(600, "Sand Filter", 39000, 6001)},
		LEDs:         []models.CatalogProduct{led},
		Thermometers: []models.CatalogProduct{testProduct(800, "Digital Thermometer", 3500, 8001)},
		Stairs:       []models.CatalogProduct{testProduct(850, "Stairs", 22000, 8501)},
		Pillows:      []models.CatalogProduct{pillow},
		Covers:       []models.CatalogProduct{testProduct(1000, "Thermal Cover", 31000, 10001)},
		Heater90:     &heater,
	}
}

// readySession returns a classic XL external session with liner and exterior chosen
func readySession() *Session {
	s := NewSession(testCatalog(), nil)
	mustOK(s.SelectTier(models.TierClassic))
	mustOK(s.SelectSize(SizeXL))
	mustOK(s.SelectProduct(models.CategoryLiners, 200))
	mustOK(s.SelectProduct(models.CategoryExteriors, 300))
	return s
}

func mustOK(err error) {
	if err != nil {
		panic(err)
	}
}
