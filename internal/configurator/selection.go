package configurator

import (
	"configurator-service/internal/models"
)

// StageName identifies a Stage
type StageName string

const (
	StageEmpty       StageName = "empty"
	StageTierChosen  StageName = "tier_chosen"
	StageSizeChosen  StageName = "size_chosen"
	StageConfiguring StageName = "configuring"
)

// Stage is the base-product part of a selection. Only the types in this file implement it,
// so a size can never be held without a tier.
type Stage interface {
	Name() StageName
	stage()
}

// Empty is a fresh session
type Empty struct{}

// TierChosen holds a tier with no size yet
type TierChosen struct {
	Tier *models.Tier
}

// SizeChosen holds tier and size before the base product is resolved
type SizeChosen struct {
	Tier *models.Tier
	Size Size
}

// Configuring holds tier, size and the resolved base product.
// Base is nil when nothing in the tier matches.
type Configuring struct {
	Tier *models.Tier
	Size Size
	Base *Resolution
}

func (Empty) Name() StageName       { return StageEmpty }
func (TierChosen) Name() StageName  { return StageTierChosen }
func (SizeChosen) Name() StageName  { return StageSizeChosen }
func (Configuring) Name() StageName { return StageConfiguring }

func (Empty) stage()       {}
func (TierChosen) stage()  {}
func (SizeChosen) stage()  {}
func (Configuring) stage() {}

// HeaterConnection is the heater pipe connection type
type HeaterConnection string

const (
	HeaterStraight HeaterConnection = "straight"
	Heater90Degree HeaterConnection = "90-degree"
)

// Toggle names a boolean option
type Toggle string

const (
	ToggleInsulation Toggle = "insulation"
	ToggleGlassDoor  Toggle = "glass_door"
	ToggleChimney    Toggle = "chimney"
	ToggleFilter     Toggle = "filter"
	ToggleStairs     Toggle = "stairs"
	TogglePillows    Toggle = "pillows"
)

// DefaultControlLocation is the control installation location unless the customer marks one
const DefaultControlLocation = "default"

// VariantChoice is a product picked together with one of its variants
type VariantChoice struct {
	ProductID int64 `json:"product_id,omitempty"`
	VariantID int64 `json:"variant_id,omitempty"`
}

// QuantityChoice is a product picked together with a count (lamps, nozzles)
type QuantityChoice struct {
	ProductID int64 `json:"product_id,omitempty"`
	Quantity  int   `json:"quantity"`
}

// Options are the optional categories of a selection
type Options struct {
	Liner            VariantChoice    `json:"liner"`
	Insulation       bool             `json:"insulation"`
	GlassDoor        bool             `json:"glass_door"`
	Chimney          bool             `json:"chimney"`
	Exterior         VariantChoice    `json:"exterior"`
	Hydro            QuantityChoice   `json:"hydro"`
	Air              QuantityChoice   `json:"air"`
	FilterEnabled    bool             `json:"filter_enabled"`
	Filter           int64            `json:"filter,omitempty"`
	LED              QuantityChoice   `json:"led"`
	Thermometer      int64            `json:"thermometer,omitempty"`
	Stairs           bool             `json:"stairs"`
	Pillows          bool             `json:"pillows"`
	PillowQty        int              `json:"pillow_qty"`
	Cover            VariantChoice    `json:"cover"`
	ControlLocation  string           `json:"control_location"`
	HeaterConnection HeaterConnection `json:"heater_connection"`
}

// DefaultOptions returns the options of a fresh session
func DefaultOptions() Options {
	return Options{
		Hydro:            QuantityChoice{Quantity: 8},
		Air:              QuantityChoice{Quantity: 12},
		LED:              QuantityChoice{Quantity: 1},
		PillowQty:        2,
		ControlLocation:  DefaultControlLocation,
		HeaterConnection: HeaterStraight,
	}
}

// Selection is a point-in-time copy of every customer choice
type Selection struct {
	Stage    Stage
	OvenType OvenType
	Options  Options
}

// NewSelection returns an empty selection
func NewSelection() Selection {
	return Selection{
		Stage:    Empty{},
		OvenType: OvenExternal,
		Options:  DefaultOptions(),
	}
}

// Tier returns the chosen tier, or nil
func (s Selection) Tier() *models.Tier {
	switch st := s.Stage.(type) {
	case TierChosen:
		return st.Tier
	case SizeChosen:
		return st.Tier
	case Configuring:
		return st.Tier
	}
	return nil
}

// Size returns the chosen size
func (s Selection) Size() (Size, bool) {
	switch st := s.Stage.(type) {
	case SizeChosen:
		return st.Size, true
	case Configuring:
		return st.Size, true
	}
	return "", false
}

// Base returns the resolved base product, or nil
func (s Selection) Base() *Resolution {
	if st, ok := s.Stage.(Configuring); ok {
		return st.Base
	}
	return nil
}

// BaseVariantID returns the billable base variant, zero if unresolved
func (s Selection) BaseVariantID() int64 {
	if base := s.Base(); base != nil {
		return base.VariantID
	}
	return 0
}

// BasePrice returns the base price contribution, zero if unresolved
func (s Selection) BasePrice() int64 {
	if base := s.Base(); base != nil {
		return base.Price
	}
	return 0
}

// MissingStep returns the first required step that is not complete
func (s Selection) MissingStep() (Step, bool) {
	base := s.Base()
	_, hasSize := s.Size()
	switch {
	case s.Tier() == nil || !hasSize || base == nil:
		return StepModelSize, true
	case s.Options.Liner.VariantID == 0:
		return StepLiner, true
	case base.VariantID == 0:
		return StepOven, true
	case s.Options.Exterior.VariantID == 0:
		return StepExterior, true
	}
	return "", false
}

// Ready reports whether the selection can be checked out
func (s Selection) Ready() bool {
	_, missing := s.MissingStep()
	return !missing
}
