// Package widget builds the hourly timeline shown by the home-screen widget:
// a countdown to the next civil twilight, coloured by the height of the sun.
package widget

import (
	"time"

	"github.com/spencer-p/moondash/pkg/sky"
	"github.com/spencer-p/moondash/pkg/timetricks"
)

// DefaultEntries is how many hourly entries a timeline holds.
const DefaultEntries = 5

// Band is the colour of a countdown.
type Band string

const (
	Yellow Band = "yellow"
	Orange Band = "orange"
	Pink   Band = "pink"
	Purple Band = "purple"
	Blue   Band = "blue"
	White  Band = "white"
)

// AltitudeBand picks the countdown colour for a sun altitude in degrees.
func AltitudeBand(alt float64) Band {
	switch {
	case alt >= 10:
		return Yellow
	case alt >= 0:
		return Orange
	case alt >= -6:
		return Pink
	case alt >= -12:
		return Purple
	case alt >= -18:
		return Blue
	default:
		return White
	}
}

// Entry is one point on the timeline.
type Entry struct {
	Date        time.Time `json:"date"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	CivilDawn   time.Time `json:"civil_dawn"`
	CivilDusk   time.Time `json:"civil_dusk"`
	SunAltitude float64   `json:"sun_altitude"`
	MoonPhase   string    `json:"moon_phase"`
	MoonAge     float64   `json:"moon_age"`
	MoonFrac    float64   `json:"moon_fraction"`
}

// NewEntry computes the entry for place at t.
func NewEntry(t time.Time, place sky.Place) Entry {
	r := sky.NewReport(t, place)
	return Entry{
		Date:        r.Time,
		Sunrise:     r.Sun.Sunrise,
		Sunset:      r.Sun.Sunset,
		CivilDawn:   r.Sun.CivilDawn,
		CivilDusk:   r.Sun.CivilDusk,
		SunAltitude: r.Sun.Altitude,
		MoonPhase:   r.Moon.Phase,
		MoonAge:     r.Moon.AgeDays,
		MoonFrac:    r.Moon.Fraction,
	}
}

// Timeline returns n entries an hour apart, starting at now.
func Timeline(now time.Time, place sky.Place, n int) []Entry {
	if n <= 0 {
		n = DefaultEntries
	}
	entries := make([]Entry, n)
	for i := range entries {
		entries[i] = NewEntry(now.Add(time.Duration(i)*time.Hour), place)
	}
	return entries
}

// Countdown is the time left until the next civil twilight boundary.
type Countdown struct {
	Remaining time.Duration `json:"remaining"`
	Text      string        `json:"text"`
	Band      Band          `json:"band"`
	Daytime   bool          `json:"daytime"`
}

// Countdown returns the time until civil dusk during the day, or until the
// next civil dawn at night. ok is false when the entry has no civil twilight,
// as in polar summer or winter.
func (e Entry) Countdown() (c Countdown, ok bool) {
	if e.CivilDawn.IsZero() || e.CivilDusk.IsZero() {
		return Countdown{}, false
	}

	now := e.Date
	if !now.Before(e.CivilDawn) && now.Before(e.CivilDusk) {
		c = Countdown{
			Remaining: e.CivilDusk.Sub(now),
			Band:      AltitudeBand(e.SunAltitude),
			Daytime:   true,
		}
	} else {
		dawn := e.CivilDawn
		if !now.Before(e.CivilDawn) {
			dawn = dawn.AddDate(0, 0, 1)
		}
		c = Countdown{
			Remaining: dawn.Sub(now),
			Band:      White,
		}
	}
	c.Text = timetricks.HourMinute(c.Remaining)
	return c, true
}
