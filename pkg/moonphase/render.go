package moonphase

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/ansel1/merry"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// DefaultMaxPixels caps the canvas a Renderer will allocate.
const DefaultMaxPixels = 4096 * 4096

// Logger receives render diagnostics. *structlog.Logger satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(interface{}, ...interface{}) {}

// Option configures a Renderer.
type Option func(*Renderer)

// WithShadow sets the shadow material, a disc the shadow strips are cropped
// from. It is scaled to the texture size if needed. Without it a generated
// disc (see DefaultShadow) is used.
func WithShadow(img image.Image) Option {
	return func(r *Renderer) {
		r.shadow = img
	}
}

// WithLogger sets the diagnostic sink. A nil logger discards diagnostics.
func WithLogger(l Logger) Option {
	return func(r *Renderer) {
		if l == nil {
			l = nopLogger{}
		}
		r.log = l
	}
}

// WithMaxPixels sets the largest canvas, in pixels, a render may allocate.
func WithMaxPixels(n int) Option {
	return func(r *Renderer) {
		r.maxPixels = n
	}
}

// Renderer draws moon phases over one lit texture. The texture and shadow
// material are only ever read, so a Renderer may be used from any number of
// goroutines at once.
type Renderer struct {
	lit       image.Image
	shadow    image.Image
	log       Logger
	maxPixels int

	// material is the shadow disc scaled to the texture size, built on first
	// use and read-only afterwards.
	materialOnce sync.Once
	material     image.Image
}

// NewRenderer returns a Renderer for the lit texture.
func NewRenderer(lit image.Image, opts ...Option) *Renderer {
	r := &Renderer{
		lit:       lit,
		log:       nopLogger{},
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render is a one-off render without a long lived Renderer.
func Render(lit image.Image, in PhaseInput, opts ...Option) Result {
	return NewRenderer(lit, opts...).Render(context.Background(), in)
}

// Bounds returns the size of every bitmap this Renderer produces.
func (r *Renderer) Bounds() image.Rectangle {
	if r.lit == nil {
		return image.Rectangle{}
	}
	b := r.lit.Bounds()
	return image.Rect(0, 0, b.Dx(), b.Dy())
}

// Render composites the phase described by in. It never panics; failures are
// reported in Result.Err and leave Result.Bitmap nil. ctx is checked once,
// just before the shadow is composited.
func (r *Renderer) Render(ctx context.Context, in PhaseInput) (res Result) {
	res.Input = in
	defer func() {
		if p := recover(); p != nil {
			res.Bitmap = nil
			res.Err = merry.Appendf(ErrSurfaceAllocation, "%v", p)
		}
		if res.Err != nil {
			r.log.Debug("moon render unavailable", "reason", Reason(res.Err), "err", res.Err)
		}
	}()
	res.Bitmap, res.Err = r.render(ctx, in)
	return res
}

func (r *Renderer) render(ctx context.Context, in PhaseInput) (*Bitmap, error) {
	if r.lit == nil {
		return nil, merry.Append(ErrInvalidInput, "no texture")
	}
	lb := r.lit.Bounds()
	w, h := lb.Dx(), lb.Dy()
	if w <= 0 || h <= 0 {
		return nil, merry.Appendf(ErrInvalidInput, "texture is %dx%d", w, h)
	}

	canvas, err := r.allocate(w, h)
	if err != nil {
		return nil, err
	}
	draw.Draw(canvas, canvas.Rect, r.lit, lb.Min, draw.Src)

	g := geometry(w, in)
	r.log.Debug("moon render",
		"size", fmt.Sprintf("%dx%d", w, h),
		"fraction", fmt.Sprintf("%.4f", clampFraction(in.IlluminatedFraction)),
		"age", fmt.Sprintf("%.2f", in.AgeDays),
		"latitude", in.Latitude,
		"right_lit", g.RightLit,
		"shadow_width", g.ShadowWidth)

	if g.Skip {
		r.log.Debug("phase is near new or full; skipping shadow")
		return bitmapFrom(canvas)
	}

	if err := ctx.Err(); err != nil {
		return nil, merry.Append(ErrCanceled, err.Error())
	}
	material := r.shadowMaterial(w, h)
	if material == nil {
		return nil, merry.Append(ErrSurfaceAllocation, "no shadow material")
	}
	overlay(canvas, material, g.ShadowWidth, g.RightLit)
	return bitmapFrom(canvas)
}

// Geometry is everything about an input that decides the rendered pixels.
// Inputs with equal Geometry render identical bitmaps on the same Renderer.
type Geometry struct {
	Skip        bool
	ShadowWidth int
	RightLit    bool
}

// Geometry returns the shadow geometry in would be rendered with.
func (r *Renderer) Geometry(in PhaseInput) Geometry {
	return geometry(r.Bounds().Dx(), in)
}

func geometry(w int, in PhaseInput) Geometry {
	f := clampFraction(in.IlluminatedFraction)
	sw := shadowWidth(w, f)
	if shadowSkipped(f) || sw <= 0 {
		return Geometry{Skip: true}
	}
	return Geometry{ShadowWidth: sw, RightLit: in.Orientation().RightLit}
}

// allocate makes the offscreen canvas for one render.
func (r *Renderer) allocate(w, h int) (*image.RGBA, error) {
	if r.maxPixels > 0 && (w > r.maxPixels/h || w*h > r.maxPixels) {
		return nil, merry.Appendf(ErrSurfaceAllocation, "%dx%d exceeds %d pixels", w, h, r.maxPixels)
	}
	return image.NewRGBA(image.Rect(0, 0, w, h)), nil
}

func (r *Renderer) shadowMaterial(w, h int) image.Image {
	r.materialOnce.Do(func() {
		src := r.shadow
		if src == nil {
			r.material = DefaultShadow(w, h)
			return
		}
		if sb := src.Bounds(); sb.Dx() == w && sb.Dy() == h {
			r.material = src
			return
		}
		scaled := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(scaled, scaled.Rect, src, src.Bounds(), draw.Src, nil)
		r.material = scaled
	})
	return r.material
}

// overlay lays a strip sw pixels wide, cropped from the left edge of the
// material, over the dark limb of canvas. The material must be the same size
// as the canvas. The cut side of the strip always ends up on the terminator.
// The strip's own limb arc is on its left, so it is mirrored only when it
// covers the right edge.
func overlay(canvas *image.RGBA, material image.Image, sw int, rightLit bool) {
	w, h := canvas.Rect.Dx(), canvas.Rect.Dy()
	mb := material.Bounds()
	strip := image.Rect(mb.Min.X, mb.Min.Y, mb.Min.X+sw, mb.Min.Y+h)

	if rightLit {
		// Dark limb on the left, where the strip's own limb already is.
		draw.Draw(canvas, image.Rect(0, 0, sw, h), material, strip.Min, draw.Over)
		return
	}

	// Dark limb on the right: mirror the strip about the vertical axis so the
	// material's left limb lands on the canvas's right edge.
	mirror := f64.Aff3{
		-1, 0, float64(w + mb.Min.X),
		0, 1, float64(-mb.Min.Y),
	}
	draw.NearestNeighbor.Transform(canvas, mirror, material, strip, draw.Over, nil)
}
