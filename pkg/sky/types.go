package sky

import (
	"fmt"
	"time"
)

// Place is a lat/long coordinate on the Earth matched with its time zone.
type Place struct {
	Name     string         `json:"name,omitempty" yaml:"name"`
	Lat      float64        `json:"latitude" yaml:"latitude"`
	Long     float64        `json:"longitude" yaml:"longitude"`
	Location *time.Location `json:"-" yaml:"-"`
	TimeZone string         `json:"time_zone,omitempty" yaml:"time_zone"`
}

var (
	SantaCruz = Place{
		Name:     "Santa Cruz",
		Lat:      36.9741,
		Long:     -122.0308,
		Location: locationOrPanic("America/Los_Angeles"),
		TimeZone: "America/Los_Angeles",
	}
	FlintHill = Place{
		Name:     "Flint Hill",
		Lat:      38.8628,
		Long:     -90.8587,
		Location: locationOrPanic("America/Chicago"),
		TimeZone: "America/Chicago",
	}
)

// Loc returns the place's time zone, UTC if it has none.
func (p Place) Loc() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Resolve loads Location from TimeZone when it is not already set.
func (p *Place) Resolve() error {
	if p.Location != nil {
		return nil
	}
	if p.TimeZone == "" {
		p.Location = time.UTC
		return nil
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return fmt.Errorf("place %q: %w", p.Name, err)
	}
	p.Location = loc
	return nil
}

// SunEvents is a time series of SunEvent.
type SunEvents []SunEvent

// SunEvent is a sunrise or sunset event.
type SunEvent struct {
	Time  time.Time
	Event Event
}

func (s *SunEvent) String() string {
	return fmt.Sprintf("%s %s", s.Time.Format(time.RFC822), s.Event)
}

// Event encodes a sunrise or sunset event.
type Event bool

const (
	Sunrise Event = true
	Sunset  Event = false
)

func (e Event) String() string {
	if e == Sunrise {
		return "Sunrise"
	}
	return "Sunset"
}

func locationOrPanic(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
