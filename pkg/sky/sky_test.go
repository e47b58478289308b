package sky

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spencer-p/moondash/pkg/moonphase"
)

func within(t *testing.T, what string, got, want time.Time, tolerance time.Duration) {
	t.Helper()
	if d := got.Sub(want); d < -tolerance || d > tolerance {
		t.Errorf("%s: got %s, wanted %s within %s", what, got, want, tolerance)
	}
}

func TestGetSunEvents(t *testing.T) {
	loc := SantaCruz.Loc()
	start := time.Date(2020, time.October, 25, 0, 0, 0, 0, loc)
	events := GetSunEvents(start, 5*24*time.Hour, SantaCruz)

	if len(events) != 10 {
		t.Fatalf("got %d events, wanted 10", len(events))
	}
	for i, e := range events {
		if want := i%2 == 0; bool(e.Event) != want {
			t.Errorf("event %d is %s", i, e.Event)
		}
	}
	within(t, "sunrise", events[0].Time, time.Date(2020, time.October, 25, 7, 26, 0, 0, loc), 5*time.Minute)
	within(t, "sunset", events[1].Time, time.Date(2020, time.October, 25, 18, 19, 0, 0, loc), 5*time.Minute)
}

func TestGetTwilight(t *testing.T) {
	loc := SantaCruz.Loc()
	date := time.Date(2020, time.October, 25, 15, 0, 0, 0, loc)
	tw := GetTwilight(date, SantaCruz)
	sunrise := time.Date(2020, time.October, 25, 7, 26, 0, 0, loc)

	order := []time.Time{tw.NauticalDawn, tw.CivilDawn, sunrise, tw.SolarNoon, tw.CivilDusk, tw.NauticalDusk}
	for i := 1; i < len(order); i++ {
		if !order[i].After(order[i-1]) {
			t.Errorf("twilight out of order at %d: %v", i, order)
		}
	}
	within(t, "civil dawn", tw.CivilDawn, sunrise.Add(-26*time.Minute), 10*time.Minute)
	if tw.SolarNoon.Location() != loc {
		t.Errorf("solar noon in %s, wanted %s", tw.SolarNoon.Location(), loc)
	}
}

func TestSunAtNoon(t *testing.T) {
	tw := GetTwilight(time.Date(2020, time.October, 25, 12, 0, 0, 0, SantaCruz.Loc()), SantaCruz)
	pos := SunAt(tw.SolarNoon, SantaCruz)
	if math.Abs(pos.Azimuth-180) > 2 {
		t.Errorf("noon azimuth %f, wanted due south", pos.Azimuth)
	}
	// 90 - latitude - 12 degrees of southern declination in late October.
	if math.Abs(pos.Altitude-41) > 2 {
		t.Errorf("noon altitude %f, wanted about 41", pos.Altitude)
	}
}

func TestMoonAtFullMoon(t *testing.T) {
	full := time.Date(2024, time.April, 23, 23, 49, 0, 0, time.UTC)
	m := MoonAt(full, SantaCruz)

	if m.Fraction < 0.99 {
		t.Errorf("fraction %f at full moon", m.Fraction)
	}
	if m.Phase != "Full Moon" {
		t.Errorf("got phase %q", m.Phase)
	}
	if math.Abs(m.AgeDays-SynodicMonth/2) > 0.75 {
		t.Errorf("age %f at full moon", m.AgeDays)
	}
	within(t, "next new moon", m.NextNew, time.Date(2024, time.May, 8, 3, 22, 0, 0, time.UTC), 36*time.Hour)
	if !m.NextFull.After(full) {
		t.Errorf("next full moon %s is not after %s", m.NextFull, full)
	}
}

func TestMoonWaxingMatchesRenderer(t *testing.T) {
	start := time.Date(2024, time.April, 9, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 30*24; h += 3 {
		at := start.Add(time.Duration(h) * time.Hour)
		m := MoonAt(at, SantaCruz)
		if want := moonphase.Orient(m.AgeDays, SantaCruz.Lat).Waxing; m.Waxing != want {
			t.Errorf("%s: age %f: got waxing %v, renderer says %v", at, m.AgeDays, m.Waxing, want)
		}
	}
}

func TestPhaseName(t *testing.T) {
	table := []struct {
		fraction float64
		waxing   bool
		want     string
	}{
		{0.001, true, "New Moon"},
		{0.2, true, "Waxing Crescent"},
		{0.5, true, "First Quarter"},
		{0.7, true, "Waxing Gibbous"},
		{0.995, false, "Full Moon"},
		{0.7, false, "Waning Gibbous"},
		{0.5, false, "Last Quarter"},
		{0.2, false, "Waning Crescent"},
	}
	for _, tc := range table {
		if got := PhaseName(tc.fraction, tc.waxing); got != tc.want {
			t.Errorf("PhaseName(%v, %v): got %q, wanted %q", tc.fraction, tc.waxing, got, tc.want)
		}
	}
}

func TestHeadingAligned(t *testing.T) {
	table := []struct {
		heading, azimuth float64
		want             bool
	}{
		{10, 12, true},
		{12, 10, true},
		{10, 13, true},
		{10, 14, false},
		{359, 1, true},
		{1, 359, true},
		{90, 270, false},
	}
	for _, tc := range table {
		if got := HeadingAligned(tc.heading, tc.azimuth); got != tc.want {
			t.Errorf("HeadingAligned(%v, %v): got %v", tc.heading, tc.azimuth, got)
		}
	}
}

func TestNewReport(t *testing.T) {
	at := time.Date(2025, time.July, 28, 21, 30, 0, 0, FlintHill.Loc())
	r := NewReport(at, FlintHill)

	if !r.Sun.Sunrise.Before(r.Sun.Sunset) {
		t.Errorf("sunrise %s is not before sunset %s", r.Sun.Sunrise, r.Sun.Sunset)
	}
	if got := r.Sun.DayLength + r.Sun.NightLength; got != 24*time.Hour {
		t.Errorf("day and night add up to %s", got)
	}
	if r.Sun.Altitude >= 0 {
		t.Errorf("sun altitude %f after sunset", r.Sun.Altitude)
	}

	r.AlignTo(r.Moon.Azimuth + 2)
	if !r.Moon.Aligned {
		t.Errorf("heading 2 degrees off the moon is not aligned")
	}
}

func TestPlaceResolve(t *testing.T) {
	p := Place{Name: "Hobart", Lat: -42.88, Long: 147.33, TimeZone: "Australia/Hobart"}
	if err := p.Resolve(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("Australia/Hobart", p.Loc().String()); diff != "" {
		t.Errorf("wrong zone (-want,+got):\n%s", diff)
	}

	bad := Place{Name: "Nowhere", TimeZone: "Not/AZone"}
	if err := bad.Resolve(); err == nil {
		t.Errorf("resolved a bogus time zone")
	}
}
