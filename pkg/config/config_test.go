package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spencer-p/moondash/pkg/sky"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PGHOST", "")
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 256, c.TextureSize)
	assert.Equal(t, time.Hour, c.CacheTTL)
	assert.Equal(t, 5, c.TimelineEntries)
	require.Len(t, c.Places, 1)
	assert.Equal(t, "Santa Cruz", c.Places[0].Name)
	assert.NotNil(t, c.Places[0].Location)
	assert.Empty(t, c.PostgresDSN())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TEXTURE_SIZE", "128")
	t.Setenv("PLACE_LAT", "-33.86")
	t.Setenv("PGHOST", "db")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, 128, c.TextureSize)
	assert.Equal(t, -33.86, c.DefaultPlace().Lat)
	assert.Contains(t, c.PostgresDSN(), "host=db")
	assert.Contains(t, c.PostgresDSN(), "dbname=moondash")
}

func TestPlacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
places:
  - name: Flint Hill
    latitude: 38.8628
    longitude: -90.8587
    time_zone: America/Chicago
  - name: Hobart
    latitude: -42.88
    longitude: 147.32
    time_zone: Australia/Hobart
`), 0o644))
	t.Setenv("PLACES_FILE", path)

	c, err := Load()
	require.NoError(t, err)
	require.Len(t, c.Places, 3)
	assert.Equal(t, "Flint Hill", c.Places[1].Name)
	assert.Equal(t, -42.88, c.Places[2].Lat)
	assert.Equal(t, "Australia/Hobart", c.Places[2].Loc().String())
}

func TestPlacesFileMissing(t *testing.T) {
	t.Setenv("PLACES_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestParsePlacesMalformed(t *testing.T) {
	_, err := ParsePlaces([]byte("places: [name: {"))
	assert.Error(t, err)
}

func TestValidateCollectsEveryError(t *testing.T) {
	c := Config{
		TextureSize: 0,
		MaxPixels:   100,
		CacheTTL:    0,
		Places: []sky.Place{
			{Name: "nowhere", Lat: 91, Long: 181, TimeZone: "Not/AZone"},
		},
	}
	err := c.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 5)
}

func TestValidatePlace(t *testing.T) {
	assert.NoError(t, ValidatePlace(sky.FlintHill))
	assert.Error(t, ValidatePlace(sky.Place{Name: "pole", Lat: -90.5}))
}
