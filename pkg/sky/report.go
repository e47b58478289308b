package sky

import (
	"time"
)

const day = 24 * time.Hour

// Sun is the daylight table for one day plus the sun's current position.
type Sun struct {
	Twilight
	Position
	Sunrise     time.Time     `json:"sunrise"`
	Sunset      time.Time     `json:"sunset"`
	DayLength   time.Duration `json:"day_length"`
	NightLength time.Duration `json:"night_length"`
	Aligned     bool          `json:"aligned,omitempty"`
}

// Report is everything the dashboard shows for one place at one instant.
type Report struct {
	Time  time.Time `json:"time"`
	Place Place     `json:"place"`
	Sun   Sun       `json:"sun"`
	Moon  Moon      `json:"moon"`
}

// NewReport computes the report for place at t.
func NewReport(t time.Time, place Place) Report {
	t = t.In(place.Loc())
	sun := Sun{
		Twilight: GetTwilight(t, place),
		Position: SunAt(t, place),
	}

	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, place.Loc())
	if events := GetSunEvents(midnight, day, place); len(events) == 2 {
		sun.Sunrise, sun.Sunset = events[0].Time, events[1].Time
		if sun.Sunset.After(sun.Sunrise) {
			sun.DayLength = sun.Sunset.Sub(sun.Sunrise)
		}
		sun.NightLength = day - sun.DayLength
	}

	return Report{
		Time:  t,
		Place: place,
		Sun:   sun,
		Moon:  MoonAt(t, place),
	}
}

// AlignTo flags the sun and moon the given compass heading points at.
func (r *Report) AlignTo(heading float64) {
	r.Sun.Aligned = HeadingAligned(heading, r.Sun.Azimuth)
	r.Moon.Aligned = HeadingAligned(heading, r.Moon.Azimuth)
}
