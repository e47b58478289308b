package viewing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/spencer-p/moondash/pkg/sky"
)

func at(day, hour, min int) time.Time {
	return time.Date(2025, time.August, day, hour, min, 0, 0, time.UTC)
}

func conditions(frac float64, moon ...sky.MoonEvent) Conditions {
	return Conditions{
		Start: at(2, 12, 0),
		End:   at(4, 12, 0),
		SunEvents: sky.SunEvents{
			{Time: at(2, 20, 0), Event: sky.Sunset},
			{Time: at(3, 6, 0), Event: sky.Sunrise},
			{Time: at(3, 20, 0), Event: sky.Sunset},
			{Time: at(4, 6, 0), Event: sky.Sunrise},
		},
		MoonEvents:   moon,
		Illumination: func(time.Time) float64 { return frac },
	}
}

type span struct {
	Start    time.Time
	Duration time.Duration
}

func spans(ws []Window) []span {
	var out []span
	for _, w := range ws {
		out = append(out, span{w.Time, w.Duration})
	}
	return out
}

func TestWindows(t *testing.T) {
	moon := []sky.MoonEvent{
		{Time: at(2, 14, 0), Rise: false},
		{Time: at(2, 22, 0), Rise: true},
		{Time: at(3, 9, 0), Rise: false},
		{Time: at(3, 23, 30), Rise: true},
		{Time: at(4, 10, 0), Rise: false},
	}

	table := []struct {
		name string
		in   Conditions
		want []span
	}{{
		name: "moon up overnight twice",
		in:   conditions(0.6, moon...),
		want: []span{
			{at(2, 22, 0), 8 * time.Hour},
			{at(3, 23, 30), 6*time.Hour + 30*time.Minute},
		},
	}, {
		name: "too dim to bother",
		in:   conditions(0.01, moon...),
		want: nil,
	}, {
		name: "moon sets right after dark",
		in: conditions(0.5,
			sky.MoonEvent{Time: at(2, 9, 0), Rise: true},
			sky.MoonEvent{Time: at(2, 20, 20), Rise: false}),
		want: nil,
	}, {
		name: "moon still up at the end",
		in:   conditions(0.5, sky.MoonEvent{Time: at(4, 3, 0), Rise: true}),
		want: []span{{at(4, 3, 0), 3 * time.Hour}},
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			got := Windows(tc.in)
			if diff := cmp.Diff(tc.want, spans(got)); diff != "" {
				t.Errorf("wrong windows (-want,+got):\n%s", diff)
			}
		})
	}
}

func TestWindowReasons(t *testing.T) {
	got := Windows(conditions(0.734,
		sky.MoonEvent{Time: at(2, 21, 0), Rise: true},
		sky.MoonEvent{Time: at(3, 2, 0), Rise: false}))
	if len(got) != 1 {
		t.Fatalf("got %d windows", len(got))
	}
	want := []string{"the moon is up", "the sun is down", "the moon is 73% lit"}
	if diff := cmp.Diff(want, got[0].Reasons); diff != "" {
		t.Errorf("wrong reasons (-want,+got):\n%s", diff)
	}
}

func TestWindowString(t *testing.T) {
	w := Window{
		Time:     time.Date(1999, time.January, 5, 5, 35, 20, 4, time.Local),
		Duration: 2 * time.Hour,
		Reasons:  []string{"the moon is up", "the sun is down"},
	}
	want := "01/05 at 5:35 AM until 7:35 AM, the moon is up and the sun is down"
	if got := w.String(); got != want {
		t.Errorf("got %q, wanted %q", got, want)
	}
}

func TestWindowJSON(t *testing.T) {
	w := Window{
		Time:    time.Date(1999, time.January, 5, 5, 35, 0, 0, time.UTC),
		Reasons: []string{"the moon is up"},
	}
	blob, err := json.Marshal(&w)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(blob, &got); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if diff := cmp.Diff("01/05 at 5:35 AM", got["pretty_time"]); diff != "" {
		t.Errorf("wrong pretty time (-want,+got):\n%s", diff)
	}
}
