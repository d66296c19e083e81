package configurator

import (
	"regexp"
	"strings"
)

// Size of a hot tub, derived from the product title
type Size string

// Sizes in display order
const (
	SizeXL Size = "XL"
	SizeL  Size = "L"
	SizeM  Size = "M"
)

// Sizes lists all sizes in display order
var Sizes = []Size{SizeXL, SizeL, SizeM}

// ParseSize validates a size string
func ParseSize(s string) (Size, bool) {
	switch Size(strings.ToUpper(strings.TrimSpace(s))) {
	case SizeXL:
		return SizeXL, true
	case SizeL:
		return SizeL, true
	case SizeM:
		return SizeM, true
	}
	return "", false
}

// OvenType is either external or internal
type OvenType string

const (
	OvenExternal OvenType = "external"
	OvenInternal OvenType = "internal"
)

// ParseOvenType validates an oven type string
func ParseOvenType(s string) (OvenType, bool) {
	switch OvenType(strings.ToLower(strings.TrimSpace(s))) {
	case OvenExternal:
		return OvenExternal, true
	case OvenInternal:
		return OvenInternal, true
	}
	return "", false
}

// Classifier derives size and oven type from a base product title.
// A catalog with structured size/oven fields can supply its own implementation.
type Classifier interface {
	ClassifySize(title string) (Size, bool)
	IsInternalOven(title string) bool
}

var (
	xlPattern       = regexp.MustCompile(`(?i)\bXL\b`)
	mPattern        = regexp.MustCompile(`(?i)\bM\b`)
	lPattern        = regexp.MustCompile(`(?i)\bL\b`)
	internalSuffix  = regexp.MustCompile(`\bI\s*$`)
	internalKeyword = regexp.MustCompile(`(?i)internal|integr`)
)

// TitleClassifier matches sizes and oven types in free-text titles
type TitleClassifier struct{}

// ClassifySize checks XL before M and L since "XL" contains "L"
func (TitleClassifier) ClassifySize(title string) (Size, bool) {
	if xlPattern.MatchString(title) {
		return SizeXL, true
	}
	if mPattern.MatchString(title) {
		return SizeM, true
	}
	if lPattern.MatchString(title) {
		return SizeL, true
	}
	return "", false
}

// IsInternalOven reports a trailing standalone "I" or an internal/integrated keyword
func (TitleClassifier) IsInternalOven(title string) bool {
	title = strings.TrimSpace(title)
	return internalSuffix.MatchString(title) || internalKeyword.MatchString(title)
}

// DefaultClassifier is the title heuristic used when none is injected
var DefaultClassifier Classifier = TitleClassifier{}
