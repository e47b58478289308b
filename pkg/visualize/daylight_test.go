package visualize

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spencer-p/moondash/pkg/sky"
)

func TestDaylightEncode(t *testing.T) {
	loc := time.UTC
	day := func(h, m int) time.Time { return time.Date(2025, time.March, 20, h, m, 0, 0, loc) }
	report := sky.Report{
		Time: day(12, 0),
		Sun: sky.Sun{
			Twilight: sky.Twilight{
				NauticalDawn: day(5, 0),
				CivilDawn:    day(5, 30),
				CivilDusk:    day(18, 30),
				NauticalDusk: day(19, 0),
			},
			Sunrise:   day(6, 0),
			Sunset:    day(18, 0),
			DayLength: 12 * time.Hour,
		},
		Moon: sky.Moon{Fraction: 0.5},
	}

	var b bytes.Buffer
	n, err := NewDaylight(report).Encode(&b)
	if err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if n != b.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, b.Len())
	}

	svg := b.String()
	for _, want := range []string{
		`<rect class="daytime" fill="lightyellow" x="300" y="0" width="600" height="120"/>`,
		`<rect class="civil" fill="#98c1d9" x="275" y="0" width="650" height="120"/>`,
		`<rect class="nautical" fill="#3d5a80" x="250" y="0" width="700" height="120"/>`,
		`x1="600" y1="0" x2="600"`,
		`<text class="moonpct" visibility="hidden">50</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg is missing %s", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("svg is not closed")
	}
}

func TestDaylightPolarNight(t *testing.T) {
	report := sky.Report{Time: time.Date(2025, time.December, 21, 12, 0, 0, 0, time.UTC)}
	var b bytes.Buffer
	if _, err := NewDaylight(report).Encode(&b); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	if strings.Contains(b.String(), `class="daytime"`) {
		t.Errorf("drew daylight with no sunrise")
	}
}
