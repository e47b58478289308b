// Package moonphase renders the lit portion of the moon onto a lunar texture.
//
// A render takes a fully illuminated disc texture, the illuminated fraction and
// age reported by an ephemeris, and the observer's latitude. The fraction sets
// the width of the shadow, the age and the hemisphere pick the dark limb. The
// shadow itself is a strip cropped from a pre-rendered shadow disc and laid
// over the dark limb.
//
// Renders never fail loudly. A failed render yields a Result without a Bitmap,
// and the caller draws the placeholder glyph instead (see Placeholder).
package moonphase
