package visualize

import (
	"fmt"
	"io"
	"time"

	"github.com/spencer-p/moondash/pkg/sky"
	"github.com/spencer-p/moondash/pkg/timetricks"
)

const (
	width  = 1200
	height = 120
)

// Daylight draws a 24 hour strip of one day's light: night, nautical and
// civil twilight, and day, with a marker at the current time.
type Daylight struct {
	date    time.Time
	now     time.Time
	sun     sky.Sun
	moonPct float64
}

func NewDaylight(report sky.Report) *Daylight {
	return &Daylight{
		date:    timetricks.TrimClock(report.Time),
		now:     report.Time,
		sun:     report.Sun,
		moonPct: report.Moon.Fraction * 100,
	}
}

func (img *Daylight) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Night is the backdrop; lighter bands are layered over it.
	io(fmt.Fprintf(w, `<rect class="night" fill="#14213d" x="0" y="0" width="%d" height="%d"/>`, width, height))
	img.band(io, w, "nautical", "#3d5a80", img.sun.NauticalDawn, img.sun.NauticalDusk)
	img.band(io, w, "civil", "#98c1d9", img.sun.CivilDawn, img.sun.CivilDusk)
	if img.sun.DayLength > 0 {
		img.band(io, w, "daytime", "lightyellow", img.sun.Sunrise, img.sun.Sunset)
	}

	// Hour ticks.
	for h := 1; h < 24; h++ {
		x := h * width / 24
		io(fmt.Fprintf(w, `<line class="hour" stroke="gray" stroke-opacity="50%%" x1="%d" y1="%d" x2="%d" y2="%d"/>`,
			x, height-10, x, height))
	}

	if x, ok := img.timeToX(img.now); ok {
		io(fmt.Fprintf(w, `<line class="now" stroke="#e76f51" stroke-width="3" x1="%d" y1="0" x2="%d" y2="%d"/>`,
			x, x, height))
	}

	// Insert data for scripts as hidden text.
	io(fmt.Fprintf(w, `<text class="moonpct" visibility="hidden">%.0f</text>`, img.moonPct))
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d</text>`, img.date.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

// band draws a rect between two times. Missing times, as in polar summer,
// stretch the band to the edge of the day.
func (img *Daylight) band(emit func(int, error), w io.Writer, class, fill string, from, to time.Time) {
	if from.IsZero() && to.IsZero() {
		return
	}
	x1, x2 := 0, width
	if x, ok := img.timeToX(from); ok {
		x1 = x
	}
	if x, ok := img.timeToX(to); ok {
		x2 = x
	}
	if x2 <= x1 {
		return
	}
	emit(fmt.Fprintf(w, `<rect class="%s" fill="%s" x="%d" y="0" width="%d" height="%d"/>`,
		class, fill, x1, x2-x1, height))
}

func (img *Daylight) timeToX(t time.Time) (int, bool) {
	if t.IsZero() {
		return 0, false
	}
	x := int(t.Unix()-img.date.Unix()) * width / (60 * 60 * 24)
	if x < 0 || x > width {
		return 0, false
	}
	return x, true
}
