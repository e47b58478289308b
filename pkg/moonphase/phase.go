package moonphase

import (
	"math"
)

const (
	// SynodicMonth is the mean time between new moons, in days, as used by
	// the phase orientation rule.
	SynodicMonth = 29.53
	// HalfSynodicMonth separates waxing ages from waning ones.
	HalfSynodicMonth = 14.77

	// skipMargin is how close to new or full a fraction may be before the
	// shadow is left off entirely.
	skipMargin = 0.02
)

// PhaseInput is everything a render needs besides the textures.
type PhaseInput struct {
	// IlluminatedFraction is the lit portion of the disc, 0 to 1. Values
	// outside that range are clamped.
	IlluminatedFraction float64 `json:"illuminated_fraction"`
	// AgeDays is the number of days since the last new moon.
	AgeDays float64 `json:"age_days"`
	// Latitude is the observer latitude in degrees. Only the sign is used.
	Latitude float64 `json:"latitude"`
}

// Orientation says which limb of the disc is lit.
type Orientation struct {
	Waxing   bool
	Southern bool
	RightLit bool
}

// Orient applies the lit-limb rule: waxing moons are lit on the right in the
// northern hemisphere and on the left in the southern one, waning moons the
// other way round. Ages are not wrapped into a single synodic month.
func Orient(ageDays, latitude float64) Orientation {
	o := Orientation{
		Waxing:   ageDays < HalfSynodicMonth,
		Southern: latitude < 0,
	}
	o.RightLit = (o.Waxing && !o.Southern) || (!o.Waxing && o.Southern)
	return o
}

// Orientation is shorthand for Orient(in.AgeDays, in.Latitude).
func (in PhaseInput) Orientation() Orientation {
	return Orient(in.AgeDays, in.Latitude)
}

// clampFraction pins f to [0, 1]. NaN is treated as fully lit.
func clampFraction(f float64) float64 {
	if math.IsNaN(f) {
		return 1
	}
	return math.Max(0, math.Min(1, f))
}

// shadowSkipped reports whether a clamped fraction is close enough to new or
// full that no shadow strip is drawn.
func shadowSkipped(f float64) bool {
	return f <= skipMargin || f >= 1-skipMargin
}

// shadowWidth is the width in pixels of the shadow strip for a canvas of the
// given width.
func shadowWidth(width int, f float64) int {
	return int(math.Round(float64(width) * (1 - f)))
}

// FractionForAge approximates the illuminated fraction for a moon of the given
// age. It is used when an age is simulated (for example by a scrub control)
// rather than read from an ephemeris.
func FractionForAge(ageDays float64) float64 {
	return 0.5 * (1 - math.Cos(ageDays/SynodicMonth*2*math.Pi))
}
