package configurator

import (
	"fmt"

	"configurator-service/internal/models"
)

// Quantity bounds used when a product carries no min/max metafields
const (
	defaultMinQty       = 1
	defaultMaxQty       = 12
	defaultPillowMinQty = 2
	defaultPillowMaxQty = 8
)

// Session is one configurator instance. It is not safe for concurrent use;
// callers serialize commands per session.
type Session struct {
	catalog    *models.Catalog
	classifier Classifier
	sel        Selection
	// unlocked latches once a size has been chosen and is never reset
	unlocked bool
}

// NewSession starts an empty session over a read-only catalog.
// A nil classifier selects the title heuristic.
func NewSession(catalog *models.Catalog, classifier Classifier) *Session {
	if catalog == nil {
		catalog = &models.Catalog{}
	}
	if classifier == nil {
		classifier = DefaultClassifier
	}
	return &Session{
		catalog:    catalog,
		classifier: classifier,
		sel:        NewSelection(),
	}
}

// Catalog returns the session's catalog
func (s *Session) Catalog() *models.Catalog {
	return s.catalog
}

// Selection returns a copy of the current selection
func (s *Session) Selection() Selection {
	return s.sel
}

// Unlocked reports whether the optional steps are reachable
func (s *Session) Unlocked() bool {
	return s.unlocked
}

// Quote prices the current selection
func (s *Session) Quote() Quote {
	return ComputeTotal(s.catalog, s.sel)
}

// LineItems builds the cart payload for the current selection
func (s *Session) LineItems() ([]models.LineItem, error) {
	return BuildLineItems(s.catalog, s.sel)
}

// InternalOvenAvailable reports whether the chosen tier and size offer an internal oven
func (s *Session) InternalOvenAvailable() bool {
	size, ok := s.sel.Size()
	if !ok {
		return false
	}
	return InternalOvenAvailable(s.classifier, s.sel.Tier(), size)
}

// SelectTier chooses a tier and clears the size and base product
func (s *Session) SelectTier(key string) error {
	tier, ok := s.catalog.Tier(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTier, key)
	}
	s.sel.Stage = TierChosen{Tier: tier}
	return nil
}

// SelectSize chooses a size, resolves the base product and unlocks later steps
func (s *Session) SelectSize(size Size) error {
	if _, ok := ParseSize(string(size)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}
	tier := s.sel.Tier()
	if tier == nil {
		return ErrNoTier
	}
	s.sel.Stage = SizeChosen{Tier: tier, Size: size}
	s.resolve()
	s.unlocked = true
	return nil
}

// SetOvenType switches the oven type and re-resolves the base product. Internal ovens
// have no door or chimney, so those add-ons are cleared.
func (s *Session) SetOvenType(oven OvenType) error {
	if _, ok := ParseOvenType(string(oven)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidOvenType, oven)
	}
	if !s.unlocked {
		return ErrStepLocked
	}
	s.sel.OvenType = oven
	if oven == OvenInternal {
		s.sel.Options.GlassDoor = false
		s.sel.Options.Chimney = false
	}
	if _, ok := s.sel.Size(); ok {
		s.resolve()
	}
	return nil
}

// resolve moves a sized selection to Configuring, applying the external fallback
func (s *Session) resolve() {
	tier := s.sel.Tier()
	size, ok := s.sel.Size()
	if tier == nil || !ok {
		return
	}

	res, found := ResolveBaseProduct(s.classifier, tier, size, s.sel.OvenType == OvenInternal)
	if !found {
		s.sel.Stage = Configuring{Tier: tier, Size: size}
		return
	}
	if res.ForcedExternal {
		s.sel.OvenType = OvenExternal
	}
	s.sel.Stage = Configuring{Tier: tier, Size: size, Base: &res}
}

// SelectProduct picks a product in an add-on category
func (s *Session) SelectProduct(category string, productID int64) error {
	if !s.unlocked {
		return ErrStepLocked
	}
	product, ok := s.catalog.Product(category, productID)
	if !ok {
		if !selectable(category) {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
		}
		return fmt.Errorf("%w: %d in %s", ErrUnknownProduct, productID, category)
	}

	firstVariant := int64(0)
	if v, ok := product.FirstVariant(); ok {
		firstVariant = v.ID
	}

	o := &s.sel.Options
	switch category {
	case models.CategoryLiners:
		o.Liner = VariantChoice{ProductID: productID, VariantID: firstVariant}
	case models.CategoryExteriors:
		o.Exterior = VariantChoice{ProductID: productID, VariantID: firstVariant}
	case models.CategoryCovers:
		o.Cover = VariantChoice{ProductID: productID, VariantID: firstVariant}
	case models.CategoryHydro:
		o.Hydro.ProductID = productID
		o.Hydro.Quantity = defaultQuantity(product, o.Hydro.Quantity)
	case models.CategoryAir:
		o.Air.ProductID = productID
		o.Air.Quantity = defaultQuantity(product, o.Air.Quantity)
	case models.CategoryLEDs:
		o.LED.ProductID = productID
		o.LED.Quantity = defaultQuantity(product, o.LED.Quantity)
	case models.CategoryFilters:
		o.Filter = productID
	case models.CategoryThermometers:
		o.Thermometer = productID
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return nil
}

func selectable(category string) bool {
	switch category {
	case models.CategoryLiners, models.CategoryExteriors, models.CategoryCovers,
		models.CategoryHydro, models.CategoryAir, models.CategoryLEDs,
		models.CategoryFilters, models.CategoryThermometers:
		return true
	}
	return false
}

// defaultQuantity resets the count when the product defines a quantity range
func defaultQuantity(p *models.CatalogProduct, current int) int {
	if p.Meta == nil || p.Meta.MaxQty <= 0 {
		return current
	}
	if p.Meta.DefaultQty > 0 {
		return p.Meta.DefaultQty
	}
	if p.Meta.MinQty > 0 {
		return p.Meta.MinQty
	}
	return defaultMinQty
}

// SelectVariant picks a variant of the product already selected in a category
func (s *Session) SelectVariant(category string, variantID int64) error {
	if !s.unlocked {
		return ErrStepLocked
	}

	var choice *VariantChoice
	switch category {
	case models.CategoryLiners:
		choice = &s.sel.Options.Liner
	case models.CategoryExteriors:
		choice = &s.sel.Options.Exterior
	case models.CategoryCovers:
		choice = &s.sel.Options.Cover
	default:
		return fmt.Errorf("%w: %q has no variants to choose", ErrUnknownCategory, category)
	}
	if choice.ProductID == 0 {
		return fmt.Errorf("%w: %s", ErrNoProductSelected, category)
	}

	product, ok := s.catalog.Product(category, choice.ProductID)
	if !ok {
		return fmt.Errorf("%w: %d in %s", ErrUnknownProduct, choice.ProductID, category)
	}
	if _, ok := product.Variant(variantID); !ok {
		return fmt.Errorf("%w: %d of product %d", ErrUnknownVariant, variantID, product.ID)
	}
	choice.VariantID = variantID
	return nil
}

// SetToggle enables or disables a boolean option
func (s *Session) SetToggle(toggle Toggle, enabled bool) error {
	if !s.unlocked {
		return ErrStepLocked
	}

	o := &s.sel.Options
	switch toggle {
	case ToggleInsulation:
		o.Insulation = enabled
	case ToggleGlassDoor:
		o.GlassDoor = enabled
	case ToggleChimney:
		o.Chimney = enabled
	case ToggleFilter:
		o.FilterEnabled = enabled
	case ToggleStairs:
		o.Stairs = enabled
	case TogglePillows:
		o.Pillows = enabled
	default:
		return fmt.Errorf("%w: %q", ErrUnknownToggle, toggle)
	}
	return nil
}

// SetQuantity changes a count, clamped to the product's range. It returns the stored value.
func (s *Session) SetQuantity(category string, qty int) (int, error) {
	if !s.unlocked {
		return 0, ErrStepLocked
	}

	o := &s.sel.Options
	switch category {
	case models.CategoryHydro:
		o.Hydro.Quantity = s.clamp(category, o.Hydro.ProductID, qty, defaultMinQty, defaultMaxQty)
		return o.Hydro.Quantity, nil
	case models.CategoryAir:
		o.Air.Quantity = s.clamp(category, o.Air.ProductID, qty, defaultMinQty, defaultMaxQty)
		return o.Air.Quantity, nil
	case models.CategoryLEDs:
		o.LED.Quantity = s.clamp(category, o.LED.ProductID, qty, defaultMinQty, defaultMaxQty)
		return o.LED.Quantity, nil
	case models.CategoryPillows:
		o.PillowQty = s.clamp(category, 0, qty, defaultPillowMinQty, defaultPillowMaxQty)
		return o.PillowQty, nil
	}
	return 0, fmt.Errorf("%w: %q has no quantity", ErrUnknownCategory, category)
}

// clamp bounds qty by the selected product's metafields, or the category's first product
func (s *Session) clamp(category string, productID int64, qty, min, max int) int {
	product, ok := s.catalog.Product(category, productID)
	if !ok {
		product, ok = s.catalog.First(category)
	}
	if ok && product.Meta != nil {
		if product.Meta.MinQty > 0 {
			min = product.Meta.MinQty
		}
		if product.Meta.MaxQty > 0 {
			max = product.Meta.MaxQty
		}
	}
	if qty < min {
		return min
	}
	if qty > max {
		return max
	}
	return qty
}

// SetHeaterConnection chooses the heater connection angle
func (s *Session) SetHeaterConnection(conn HeaterConnection) error {
	if !s.unlocked {
		return ErrStepLocked
	}
	switch conn {
	case HeaterStraight, Heater90Degree:
		s.sel.Options.HeaterConnection = conn
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidHeaterConnection, conn)
}

// SetControlLocation records where the control panel is to be installed
func (s *Session) SetControlLocation(location string) error {
	if !s.unlocked {
		return ErrStepLocked
	}
	if location == "" {
		location = DefaultControlLocation
	}
	s.sel.Options.ControlLocation = location
	return nil
}
