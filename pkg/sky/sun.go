package sky

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Twilight holds the twilight boundaries around one day. Zero times mean the
// sun never crosses that altitude on that day.
type Twilight struct {
	NauticalDawn time.Time `json:"nautical_dawn"`
	CivilDawn    time.Time `json:"civil_dawn"`
	SolarNoon    time.Time `json:"solar_noon"`
	CivilDusk    time.Time `json:"civil_dusk"`
	NauticalDusk time.Time `json:"nautical_dusk"`
}

// GetTwilight computes the twilight boundaries for the calendar day of date in
// the given place.
func GetTwilight(date time.Time, place Place) Twilight {
	loc := place.Loc()
	// Anchor on local noon so the library does not slip onto a neighbouring
	// UTC day.
	y, m, d := date.In(loc).Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, loc)

	times := suncalc.GetTimes(noon, place.Lat, place.Long)
	at := func(name suncalc.DayTimeName) time.Time {
		v := times[name].Value
		if v.IsZero() || v.Year() < 1900 {
			return time.Time{}
		}
		return v.In(loc)
	}
	return Twilight{
		NauticalDawn: at(suncalc.NauticalDawn),
		CivilDawn:    at(suncalc.Dawn),
		SolarNoon:    at(suncalc.SolarNoon),
		CivilDusk:    at(suncalc.Dusk),
		NauticalDusk: at(suncalc.NauticalDusk),
	}
}

// Position is a direction in the sky, in degrees. Azimuth is measured
// clockwise from north.
type Position struct {
	Azimuth  float64 `json:"azimuth"`
	Altitude float64 `json:"altitude"`
}

// SunAt returns the position of the sun at t seen from place.
func SunAt(t time.Time, place Place) Position {
	p := suncalc.GetPosition(t, place.Lat, place.Long)
	return fromSouthAzimuth(p.Azimuth, p.Altitude)
}

// fromSouthAzimuth converts suncalc's radians, azimuth measured from south
// towards west, into compass degrees.
func fromSouthAzimuth(az, alt float64) Position {
	return Position{
		Azimuth:  normalizeDegrees(radToDeg(az) + 180),
		Altitude: radToDeg(alt),
	}
}

// alignTolerance is how far, in degrees, a heading may be off an azimuth and
// still count as pointing at it.
const alignTolerance = 3

// HeadingAligned reports whether a compass heading points within 3 degrees
// of an azimuth, going the short way round the compass.
func HeadingAligned(heading, azimuth float64) bool {
	d := math.Mod(math.Abs(heading-azimuth), 360)
	if d > 180 {
		d = 360 - d
	}
	return d <= alignTolerance
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func normalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
