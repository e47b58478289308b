// Package config reads the server's settings from the environment and its
// named places from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/spencer-p/moondash/pkg/sky"
	"github.com/spencer-p/moondash/pkg/widget"
)

type Config struct {
	Port   string `default:"8080"`
	Prefix string `default:"/"`

	PlaceName     string  `split_words:"true" default:"Santa Cruz"`
	PlaceLat      float64 `split_words:"true" default:"36.9741"`
	PlaceLong     float64 `split_words:"true" default:"-122.0308"`
	PlaceTimeZone string  `split_words:"true" default:"America/Los_Angeles"`
	PlacesFile    string  `split_words:"true"`

	TexturePath string        `split_words:"true"`
	ShadowPath  string        `split_words:"true"`
	TextureSize int           `split_words:"true" default:"256"`
	MaxPixels   int           `split_words:"true" default:"16777216"`
	CacheTTL    time.Duration `split_words:"true" default:"1h"`

	TimelineEntries int    `split_words:"true" default:"5"`
	RefreshSchedule string `split_words:"true" default:"0 * * * *"`

	SessionKey    string `split_words:"true" default:"deadbeef"`
	EncryptionKey string `split_words:"true" default:"deadbeef"`

	// Postgres is optional; preferences then live only in the session cookie.
	PGHost     string `envconfig:"PGHOST"`
	PGPort     string `envconfig:"PGPORT" default:"5432"`
	PGUser     string `envconfig:"PGUSER" default:"postgres"`
	PGPassword string `envconfig:"PGPASSWORD"`
	PGDatabase string `envconfig:"PGDATABASE" default:"moondash"`

	// Places are the named places offered on the config page, the default
	// place first.
	Places []sky.Place `ignored:"true"`
}

// Load processes the environment, reads the places file and validates the
// result.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return c, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := c.load(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) load() error {
	if c.RefreshSchedule == "" {
		c.RefreshSchedule = widget.DefaultSchedule
	}
	c.Places = []sky.Place{c.DefaultPlace()}
	if c.PlacesFile != "" {
		b, err := os.ReadFile(c.PlacesFile)
		if err != nil {
			return fmt.Errorf("failed to read places: %w", err)
		}
		more, err := ParsePlaces(b)
		if err != nil {
			return fmt.Errorf("%s: %w", c.PlacesFile, err)
		}
		c.Places = append(c.Places, more...)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	for i := range c.Places {
		// Validate already loaded every zone once.
		_ = c.Places[i].Resolve()
	}
	return nil
}

// DefaultPlace is the place used for visitors who have not picked one.
func (c Config) DefaultPlace() sky.Place {
	return sky.Place{
		Name:     c.PlaceName,
		Lat:      c.PlaceLat,
		Long:     c.PlaceLong,
		TimeZone: c.PlaceTimeZone,
	}
}

// PostgresDSN returns the connection string for the configured database, or
// "" when there is none.
func (c Config) PostgresDSN() string {
	if c.PGHost == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.PGHost, c.PGUser, c.PGPassword, c.PGDatabase, c.PGPort)
}

// Validate reports every problem with c at once.
func (c Config) Validate() error {
	var errs *multierror.Error
	if c.TextureSize <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("texture size must be positive, got %d", c.TextureSize))
	}
	if c.TextureSize*c.TextureSize > c.MaxPixels {
		errs = multierror.Append(errs, fmt.Errorf("texture size %d exceeds the %d pixel budget", c.TextureSize, c.MaxPixels))
	}
	if c.CacheTTL <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("cache ttl must be positive, got %s", c.CacheTTL))
	}
	if c.TimelineEntries < 0 || c.TimelineEntries > 24 {
		errs = multierror.Append(errs, fmt.Errorf("timeline entries must be in [0, 24], got %d", c.TimelineEntries))
	}
	for _, p := range c.Places {
		if err := ValidatePlace(p); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// ValidatePlace checks coordinates are on the globe and the zone exists.
func ValidatePlace(p sky.Place) error {
	var errs *multierror.Error
	if p.Lat < -90 || p.Lat > 90 {
		errs = multierror.Append(errs, fmt.Errorf("place %q: latitude %v out of range", p.Name, p.Lat))
	}
	if p.Long < -180 || p.Long > 180 {
		errs = multierror.Append(errs, fmt.Errorf("place %q: longitude %v out of range", p.Name, p.Long))
	}
	if err := p.Resolve(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

type placesFile struct {
	Places []sky.Place `yaml:"places"`
}

// ParsePlaces decodes a YAML places file:
//
//	places:
//	  - name: Flint Hill
//	    latitude: 38.8628
//	    longitude: -90.8587
//	    time_zone: America/Chicago
func ParsePlaces(b []byte) ([]sky.Place, error) {
	var f placesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse places: %w", err)
	}
	return f.Places, nil
}
