package handlers

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/ansel1/merry"
	"golang.org/x/image/draw"

	"github.com/spencer-p/moondash/pkg/metrics"
	"github.com/spencer-p/moondash/pkg/moonphase"
	"github.com/spencer-p/moondash/pkg/sky"
)

const (
	placeholderHeader = "X-Moon-Placeholder"
	maxImageSize      = 1024
)

// moonQuery is a render request. size 0 keeps the texture's size.
type moonQuery struct {
	in   moonphase.PhaseInput
	size int
}

// key identifies the pixels q produces on r: only the shadow geometry and
// the output size change them.
func (q moonQuery) key(r *moonphase.Renderer) string {
	g := r.Geometry(q.in)
	return fmt.Sprintf("moon/%t/%d/%t/%d", g.Skip, g.ShadowWidth, g.RightLit, q.size)
}

// parseMoonQuery reads age, fraction, lat and size from r. Missing values
// come from the moon over place at now; a missing fraction with a given age
// is derived from the age.
func parseMoonQuery(r *http.Request, place sky.Place, now time.Time) (moonQuery, error) {
	var q moonQuery
	age, hasAge, err := floatParam(r, "age")
	if err != nil {
		return q, err
	}
	fraction, hasFraction, err := floatParam(r, "fraction")
	if err != nil {
		return q, err
	}
	lat, hasLat, err := floatParam(r, "lat")
	if err != nil {
		return q, err
	}
	if hasLat && (lat < -90 || lat > 90) {
		return q, merry.Appendf(errBadParam, "lat=%v is not a latitude", lat)
	}

	if v := r.FormValue("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > maxImageSize {
			return q, merry.Appendf(errBadParam, "size=%q must be in [1, %d]", v, maxImageSize)
		}
		q.size = size
	}

	switch {
	case hasAge && hasFraction:
	case hasAge:
		fraction = moonphase.FractionForAge(age)
	default:
		moon := sky.MoonAt(now, place)
		age = moon.AgeDays
		if !hasFraction {
			fraction = moon.Fraction
		}
	}
	if !hasLat {
		lat = place.Lat
	}
	q.in = moonphase.PhaseInput{
		IlluminatedFraction: fraction,
		AgeDays:             age,
		Latitude:            lat,
	}
	return q, nil
}

func floatParam(r *http.Request, name string) (float64, bool, error) {
	v := r.FormValue(name)
	if v == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, merry.Appendf(errBadParam, "%s=%q is not a number", name, v)
	}
	return f, true, nil
}

func (s *Server) serveMoon(w http.ResponseWriter, r *http.Request) {
	place, _ := s.placeFor(r)
	q, err := parseMoonQuery(r, place, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	img, err := s.moonPNGContext(r.Context(), q)
	switch {
	case err == nil:
		w.Header().Set("Cache-Control", "public, max-age=3600")
	case merry.Is(err, errUnavailable):
		// The failure may be transient; let the next refresh try again.
		w.Header().Set(placeholderHeader, moonphase.PlaceholderGlyph)
		w.Header().Set("Cache-Control", "no-store")
	default:
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}

// errUnavailable accompanies a placeholder image in place of the moon.
var errUnavailable = merry.New("moon image unavailable")

func (s *Server) moonPNG(q moonQuery) ([]byte, error) {
	return s.moonPNGContext(context.Background(), q)
}

// moonPNGContext returns the encoded moon for q, from cache when possible.
// When the render fails it returns the encoded placeholder along with an
// error matching errUnavailable.
func (s *Server) moonPNGContext(ctx context.Context, q moonQuery) ([]byte, error) {
	key := q.key(s.renderer)
	if cached, ok := s.images.Get(key); ok {
		return cached, nil
	}

	start := time.Now()
	res := s.renderer.Render(ctx, q.in)
	metrics.ObserveRender(moonphase.Reason(res.Err), time.Since(start))

	size := q.size
	if size == 0 {
		size = s.renderer.Bounds().Dx()
	}
	if !res.Available() {
		s.log.Info("serving placeholder", "reason", moonphase.Reason(res.Err), "err", res.Err)
		b, err := encodePNG(moonphase.Placeholder(size).Image())
		if err != nil {
			return nil, err
		}
		return b, merry.Append(errUnavailable, moonphase.Reason(res.Err))
	}

	var img image.Image = res.Bitmap.Image()
	if q.size != 0 && img.Bounds().Dx() != q.size {
		img = scale(img, q.size)
	}
	b, err := encodePNG(img)
	if err != nil {
		return nil, err
	}
	s.images.Set(key, b)
	return b, nil
}

// scale resizes img to size pixels wide, keeping its aspect ratio.
func scale(img image.Image, size int) image.Image {
	b := img.Bounds()
	h := int(math.Round(float64(size) * float64(b.Dy()) / float64(b.Dx())))
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return nil, merry.Append(err, "failed to encode png")
	}
	return b.Bytes(), nil
}
