package identity

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Variant selects the fish model drawn for a holder
type Variant int

const (
	VariantClownfish Variant = iota
	VariantBlueTang
	VariantGoldfish

	VariantCount = 3
)

func (v Variant) String() string {
	switch v {
	case VariantClownfish:
		return "clownfish"
	case VariantBlueTang:
		return "blue_tang"
	case VariantGoldfish:
		return "goldfish"
	default:
		return "unknown"
	}
}

// Size multiplier range: SizeBase + [0, SizeRange)
const (
	SizeBase  = 0.85
	SizeRange = 0.9
)

// Appearance is the seed-derived look of a single fish
type Appearance struct {
	Seed    uint32
	Variant Variant
	Hue     float64 // degrees [0, 360)
	Size    float64
}

// Fraction maps seed onto [0, 1]
func Fraction(seed uint32) float64 {
	return float64(seed) / math.MaxUint32
}

// NewAppearance derives a fish's look from seed alone.
// variantCount <= 0 falls back to VariantCount.
func NewAppearance(seed uint32, variantCount int) Appearance {
	if variantCount <= 0 {
		variantCount = VariantCount
	}
	return Appearance{
		Seed:    seed,
		Variant: Variant(seed % uint32(variantCount)),
		Hue:     math.Mod(Fraction(seed)*360, 360),
		Size:    SizeBase + float64(seed%1000)/1000*SizeRange,
	}
}

// Palette returns body, tail and dorsal colours as a harmonious HSL triad around Hue
func (a Appearance) Palette() [3]colorful.Color {
	return [3]colorful.Color{
		colorful.Hsl(a.Hue, 0.65, 0.55),
		colorful.Hsl(math.Mod(a.Hue+50, 360), 0.7, 0.6),
		colorful.Hsl(math.Mod(a.Hue+310, 360), 0.5, 0.5),
	}
}
