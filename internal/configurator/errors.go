package configurator

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTier             = errors.New("unknown tier")
	ErrNoTier                  = errors.New("no tier selected")
	ErrInvalidSize             = errors.New("invalid size")
	ErrInvalidOvenType         = errors.New("invalid oven type")
	ErrStepLocked              = errors.New("step is locked until a size is chosen")
	ErrUnknownCategory         = errors.New("unknown category")
	ErrUnknownProduct          = errors.New("unknown product")
	ErrUnknownVariant          = errors.New("unknown variant")
	ErrNoProductSelected       = errors.New("no product selected in category")
	ErrUnknownToggle           = errors.New("unknown option")
	ErrInvalidHeaterConnection = errors.New("invalid heater connection")
	ErrInvalidCommand          = errors.New("invalid command")
)

// Step names a required checkout step
type Step string

// Required steps, in the order they are checked
const (
	StepModelSize Step = "model_size"
	StepLiner     Step = "liner"
	StepOven      Step = "oven"
	StepExterior  Step = "exterior"
)

// ValidationError is returned when a checkout is attempted with a required step missing
type ValidationError struct {
	Step Step
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration incomplete: %s not selected", e.Step)
}

// IsCommandError reports whether err was caused by a rejected selection command
func IsCommandError(err error) bool {
	for _, target := range []error{
		ErrUnknownTier, ErrNoTier, ErrInvalidSize, ErrInvalidOvenType, ErrStepLocked,
		ErrUnknownCategory, ErrUnknownProduct, ErrUnknownVariant, ErrNoProductSelected,
		ErrUnknownToggle, ErrInvalidHeaterConnection, ErrInvalidCommand,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
