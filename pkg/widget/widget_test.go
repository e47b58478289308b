package widget

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spencer-p/moondash/pkg/sky"
)

func TestAltitudeBand(t *testing.T) {
	table := []struct {
		alt  float64
		want Band
	}{
		{45, Yellow},
		{10, Yellow},
		{9.9, Orange},
		{0, Orange},
		{-0.1, Pink},
		{-6, Pink},
		{-6.1, Purple},
		{-12, Purple},
		{-12.1, Blue},
		{-18, Blue},
		{-18.1, White},
		{-60, White},
	}
	for _, tc := range table {
		if got := AltitudeBand(tc.alt); got != tc.want {
			t.Errorf("AltitudeBand(%v): got %s, wanted %s", tc.alt, got, tc.want)
		}
	}
}

func TestCountdown(t *testing.T) {
	loc := sky.FlintHill.Loc()
	dawn := time.Date(2025, time.August, 2, 5, 50, 0, 0, loc)
	dusk := time.Date(2025, time.August, 2, 20, 30, 0, 0, loc)
	entry := func(h, m int, alt float64) Entry {
		return Entry{
			Date:        time.Date(2025, time.August, 2, h, m, 0, 0, loc),
			CivilDawn:   dawn,
			CivilDusk:   dusk,
			SunAltitude: alt,
		}
	}

	table := []struct {
		name string
		in   Entry
		want Countdown
	}{{
		name: "afternoon counts down to dusk",
		in:   entry(14, 0, 50),
		want: Countdown{Remaining: 6*time.Hour + 30*time.Minute, Text: "6h 30m", Band: Yellow, Daytime: true},
	}, {
		name: "civil dawn itself is daytime",
		in:   entry(5, 50, -5),
		want: Countdown{Remaining: 14*time.Hour + 40*time.Minute, Text: "14h 40m", Band: Pink, Daytime: true},
	}, {
		name: "before dawn counts down to dawn",
		in:   entry(3, 20, -20),
		want: Countdown{Remaining: 2*time.Hour + 30*time.Minute, Text: "2h 30m", Band: White},
	}, {
		name: "after dusk counts down to tomorrow's dawn",
		in:   entry(22, 0, -15),
		want: Countdown{Remaining: 7*time.Hour + 50*time.Minute, Text: "7h 50m", Band: White},
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.in.Countdown()
			if !ok {
				t.Fatalf("no countdown")
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("wrong countdown (-want,+got):\n%s", diff)
			}
		})
	}

	if _, ok := (Entry{Date: dawn}).Countdown(); ok {
		t.Errorf("countdown without twilight times")
	}
}

func TestTimeline(t *testing.T) {
	now := time.Date(2025, time.August, 2, 9, 0, 0, 0, sky.FlintHill.Loc())
	entries := Timeline(now, sky.FlintHill, 0)
	if len(entries) != DefaultEntries {
		t.Fatalf("got %d entries, wanted %d", len(entries), DefaultEntries)
	}
	for i, e := range entries {
		if want := now.Add(time.Duration(i) * time.Hour); !e.Date.Equal(want) {
			t.Errorf("entry %d at %s, wanted %s", i, e.Date, want)
		}
		if e.MoonPhase == "" {
			t.Errorf("entry %d has no moon phase", i)
		}
	}
	// Morning sun climbs.
	if entries[4].SunAltitude <= entries[0].SunAltitude {
		t.Errorf("sun altitude fell from %f to %f during the morning", entries[0].SunAltitude, entries[4].SunAltitude)
	}
}

func TestRefresher(t *testing.T) {
	var got []Entry
	r := NewRefresher(sky.FlintHill, 2, func(e []Entry) { got = e })
	r.now = func() time.Time { return time.Date(2025, time.August, 2, 9, 0, 0, 0, time.UTC) }

	entries := r.Entries()
	if len(entries) != 2 || len(got) != 2 {
		t.Fatalf("got %d entries and %d in the callback", len(entries), len(got))
	}

	if err := r.Start("not a cron line"); err == nil {
		t.Errorf("started with a bad schedule")
	}
	if err := r.Start(""); err != nil {
		t.Fatal(err)
	}
	r.Stop()
}
