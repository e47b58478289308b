// Package viewing finds the times the moon is above the horizon while the sky
// is dark.
package viewing

import (
	"fmt"
	"time"

	"github.com/spencer-p/moondash/pkg/sky"
)

const (
	minWindow        = 30 * time.Minute
	minFraction      = 0.05
	defaultWindowLen = 7 * 24 * time.Hour
)

// Conditions is the set of data we can look for viewing windows in.
type Conditions struct {
	Start, End time.Time
	SunEvents  sky.SunEvents
	MoonEvents sky.MoonEvents
	// Illumination reports the lit fraction of the moon at a time.
	Illumination func(time.Time) float64
}

// ForPlace gathers the conditions at place from start for duration.
func ForPlace(start time.Time, duration time.Duration, place sky.Place) Conditions {
	if duration <= 0 {
		duration = defaultWindowLen
	}
	return Conditions{
		Start:      start,
		End:        start.Add(duration),
		SunEvents:  sky.GetSunEvents(start, duration, place),
		MoonEvents: sky.GetMoonEvents(start, duration, place),
		Illumination: func(t time.Time) float64 {
			return sky.MoonAt(t, place).Fraction
		},
	}
}

type interval struct {
	start, end time.Time
}

// Windows analyzes a set of Conditions to find good times to watch the moon:
// the moon is up, the sun is down, and there is enough of the moon lit to
// be worth a look.
func Windows(c Conditions) []Window {
	result := []Window{}
	for _, dark := range darkness(c) {
		for _, up := range moonUp(c) {
			start, end := later(dark.start, up.start), earlier(dark.end, up.end)
			if end.Sub(start) < minWindow {
				continue
			}
			frac := 1.0
			if c.Illumination != nil {
				frac = c.Illumination(start.Add(end.Sub(start) / 2))
			}
			if frac < minFraction {
				continue
			}
			result = append(result, Window{
				Time:     start,
				Duration: end.Sub(start),
				Fraction: frac,
				Reasons: []string{
					"the moon is up",
					"the sun is down",
					fmt.Sprintf("the moon is %.0f%% lit", frac*100),
				},
			})
		}
	}
	return result
}

// darkness returns the nights between each sunset and the following sunrise,
// plus the leading night before the first sunrise.
func darkness(c Conditions) []interval {
	var out []interval
	events := c.SunEvents
	if len(events) > 0 && events[0].Event == sky.Sunrise && c.Start.Before(events[0].Time) {
		out = append(out, interval{c.Start, events[0].Time})
	}
	for i, e := range events {
		if e.Event != sky.Sunset {
			continue
		}
		end := c.End
		if i+1 < len(events) {
			end = events[i+1].Time
		}
		out = append(out, interval{e.Time, end})
	}
	return clip(out, c.Start, c.End)
}

// moonUp turns rise and set events into the intervals the moon is above the
// horizon. If the first event is a set, the moon was up from the start.
func moonUp(c Conditions) []interval {
	var out []interval
	var rise *time.Time
	for i := range c.MoonEvents {
		e := c.MoonEvents[i]
		switch {
		case e.Rise:
			if rise == nil {
				rise = &e.Time
			}
		case rise != nil:
			out = append(out, interval{*rise, e.Time})
			rise = nil
		case len(out) == 0:
			out = append(out, interval{c.Start, e.Time})
		}
	}
	if rise != nil {
		out = append(out, interval{*rise, c.End})
	}
	return clip(out, c.Start, c.End)
}

func clip(in []interval, start, end time.Time) []interval {
	out := in[:0]
	for _, iv := range in {
		iv.start, iv.end = later(iv.start, start), earlier(iv.end, end)
		if iv.end.After(iv.start) {
			out = append(out, iv)
		}
	}
	return out
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
