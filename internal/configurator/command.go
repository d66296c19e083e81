package configurator

import (
	"fmt"
)

// CommandType names a selection event
type CommandType string

const (
	CmdSelectTier          CommandType = "select_tier"
	CmdSelectSize          CommandType = "select_size"
	CmdSetOvenType         CommandType = "set_oven_type"
	CmdSelectProduct       CommandType = "select_product"
	CmdSelectVariant       CommandType = "select_variant"
	CmdSetToggle           CommandType = "set_option"
	CmdSetQuantity         CommandType = "set_quantity"
	CmdSetHeaterConnection CommandType = "set_heater_connection"
	CmdSetControlLocation  CommandType = "set_control_location"
)

// Command is a discrete selection event issued by a UI
type Command struct {
	Type             CommandType `json:"type" binding:"required"`
	Tier             string      `json:"tier,omitempty"`
	Size             string      `json:"size,omitempty"`
	OvenType         string      `json:"oven_type,omitempty"`
	Category         string      `json:"category,omitempty"`
	ProductID        int64       `json:"product_id,omitempty"`
	VariantID        int64       `json:"variant_id,omitempty"`
	Option           string      `json:"option,omitempty"`
	Enabled          bool        `json:"enabled,omitempty"`
	Quantity         int         `json:"quantity,omitempty"`
	HeaterConnection string      `json:"heater_connection,omitempty"`
	ControlLocation  string      `json:"control_location,omitempty"`
}

// Apply dispatches a command to the session
func (s *Session) Apply(cmd Command) error {
	switch cmd.Type {
	case CmdSelectTier:
		return s.SelectTier(cmd.Tier)
	case CmdSelectSize:
		size, ok := ParseSize(cmd.Size)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidSize, cmd.Size)
		}
		return s.SelectSize(size)
	case CmdSetOvenType:
		oven, ok := ParseOvenType(cmd.OvenType)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidOvenType, cmd.OvenType)
		}
		return s.SetOvenType(oven)
	case CmdSelectProduct:
		return s.SelectProduct(cmd.Category, cmd.ProductID)
	case CmdSelectVariant:
		return s.SelectVariant(cmd.Category, cmd.VariantID)
	case CmdSetToggle:
		return s.SetToggle(Toggle(cmd.Option), cmd.Enabled)
	case CmdSetQuantity:
		_, err := s.SetQuantity(cmd.Category, cmd.Quantity)
		return err
	case CmdSetHeaterConnection:
		return s.SetHeaterConnection(HeaterConnection(cmd.HeaterConnection))
	case CmdSetControlLocation:
		return s.SetControlLocation(cmd.ControlLocation)
	}
	return fmt.Errorf("%w: type %q", ErrInvalidCommand, cmd.Type)
}
