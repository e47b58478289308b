package sky

import (
	"sort"
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/spencer-p/moondash/pkg/moonphase"
)

// SynodicMonth is the mean length of a lunation in days.
const SynodicMonth = 29.530588853

// Moon is the state of the moon at one instant, seen from one place.
type Moon struct {
	Position
	Fraction float64 `json:"illuminated_fraction"`
	AgeDays  float64 `json:"age_days"`
	Waxing   bool    `json:"waxing"`
	Phase    string  `json:"phase"`
	// Rise and Set are nil when the moon does not cross the horizon that day.
	Rise       *time.Time `json:"rise,omitempty"`
	Set        *time.Time `json:"set,omitempty"`
	AlwaysUp   bool       `json:"always_up,omitempty"`
	AlwaysDown bool       `json:"always_down,omitempty"`
	NextNew    time.Time  `json:"next_new_moon"`
	NextFull   time.Time  `json:"next_full_moon"`
	Aligned    bool       `json:"aligned,omitempty"`
}

// MoonAt returns the moon at t seen from place.
func MoonAt(t time.Time, place Place) Moon {
	loc := place.Loc()
	t = t.In(loc)

	ill := suncalc.GetMoonIllumination(t)
	pos := suncalc.GetMoonPosition(t, place.Lat, place.Long)

	m := Moon{
		Position: fromSouthAzimuth(pos.Azimuth, pos.Altitude),
		Fraction: ill.Fraction,
		AgeDays:  ill.Phase * SynodicMonth,
	}
	// Same split the renderer uses to pick the lit side.
	m.Waxing = m.AgeDays < moonphase.HalfSynodicMonth
	m.Phase = PhaseName(m.Fraction, m.Waxing)
	m.NextNew = t.Add(days((1 - ill.Phase) * SynodicMonth))
	untilFull := 0.5 - ill.Phase
	if untilFull <= 0 {
		untilFull += 1
	}
	m.NextFull = t.Add(days(untilFull * SynodicMonth))

	y, mo, d := t.Date()
	times := suncalc.GetMoonTimes(time.Date(y, mo, d, 0, 0, 0, 0, loc), place.Lat, place.Long, false)
	m.AlwaysUp, m.AlwaysDown = times.AlwaysUp, times.AlwaysDown
	if !times.Rise.IsZero() {
		rise := times.Rise.In(loc)
		m.Rise = &rise
	}
	if !times.Set.IsZero() {
		set := times.Set.In(loc)
		m.Set = &set
	}
	return m
}

// PhaseName names one of the eight conventional phases.
func PhaseName(fraction float64, waxing bool) string {
	switch {
	case fraction < 0.01:
		return "New Moon"
	case fraction > 0.99:
		return "Full Moon"
	case fraction >= 0.49 && fraction <= 0.51:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case fraction < 0.5:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default:
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}

func days(d float64) time.Duration {
	return time.Duration(d * float64(24*time.Hour))
}

// MoonEvent is a moonrise or moonset.
type MoonEvent struct {
	Time time.Time
	Rise bool
}

func (e MoonEvent) String() string {
	if e.Rise {
		return e.Time.Format(time.RFC822) + " Moonrise"
	}
	return e.Time.Format(time.RFC822) + " Moonset"
}

// MoonEvents is a time series of MoonEvent.
type MoonEvents []MoonEvent

// GetMoonEvents returns the moonrises and moonsets between start and
// start+duration in time order.
func GetMoonEvents(start time.Time, duration time.Duration, place Place) MoonEvents {
	loc := place.Loc()
	start = start.In(loc)
	end := start.Add(duration)

	var ret MoonEvents
	y, m, d := start.Date()
	for day := time.Date(y, m, d, 0, 0, 0, 0, loc); day.Before(end); day = day.AddDate(0, 0, 1) {
		times := suncalc.GetMoonTimes(day, place.Lat, place.Long, false)
		if !times.Rise.IsZero() {
			ret = append(ret, MoonEvent{Time: times.Rise.In(loc), Rise: true})
		}
		if !times.Set.IsZero() {
			ret = append(ret, MoonEvent{Time: times.Set.In(loc), Rise: false})
		}
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i].Time.Before(ret[j].Time) })
	trimmed := ret[:0]
	for _, e := range ret {
		if e.Time.Before(start) || !e.Time.Before(end) {
			continue
		}
		trimmed = append(trimmed, e)
	}
	return trimmed
}
