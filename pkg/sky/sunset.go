package sky

import (
	"math"
	"time"

	"github.com/spencer-p/moondash/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// maxDaySeek bounds the search for the first sunrise on the start date. Polar
// days and nights never produce one.
const maxDaySeek = 3

// GetSunEvents returns a list of ordered sun events from the starting time to
// the end time in the given place. The first result will always be a sunrise.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	start = start.In(place.Loc())

	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, start)

	// The sunrise package is loose about which day Around lands on.
	for i := 0; i < maxDaySeek && !timetricks.SameDay(start, s.Sunrise().In(place.Loc())); i++ {
		s.AddDays(1)
	}

	// Get sunrises and sunsets for the given number of days.
	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, numDays*2)
	for i := 0; i < numDays*2; i += 2 {
		ret[i] = SunEvent{s.Sunrise().In(place.Loc()), Sunrise}
		ret[i+1] = SunEvent{s.Sunset().In(place.Loc()), Sunset}
		s.AddDays(1)
	}
	return ret
}
