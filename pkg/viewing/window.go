package viewing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spencer-p/moondash/pkg/timetricks"
)

// Window is a stretch of time when the moon can be watched.
type Window struct {
	Time     time.Time     `json:"time"`
	Duration time.Duration `json:"duration"`
	Fraction float64       `json:"illuminated_fraction"`
	Reasons  []string      `json:"reasons"`

	// PrettyTime is a human-readable version of the time, relative to the
	// current date. Optional.
	PrettyTime string `json:"pretty_time,omitempty"`
}

func (w *Window) String() string {
	return fmt.Sprintf("%s, %s",
		w.prettyTime(),
		strings.Join(w.Reasons, " and "))
}

func (w *Window) prettyTime() string {
	return fmt.Sprintf("%s at %s", timetricks.Day(w.Time), w.TimeRange())
}

// UpdatePrettyTime makes sure that the window's pretty time is set.
func (w *Window) UpdatePrettyTime() {
	if w.PrettyTime == "" {
		w.PrettyTime = w.prettyTime()
	}
}

// TimeRange returns the clock times the window spans, without the date.
func (w *Window) TimeRange() string {
	until := ""
	if w.Duration != 0 {
		until = fmt.Sprintf(" until %s", timetricks.Clock(w.Time.Add(w.Duration)))
	}
	return fmt.Sprintf("%s%s", timetricks.Clock(w.Time), until)
}

func (w *Window) MarshalJSON() ([]byte, error) {
	w.UpdatePrettyTime()
	// The alias drops this method so Marshal does not recurse.
	type window Window
	return json.Marshal((*window)(w))
}
