package moonphase

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// shadowAlpha keeps a trace of the texture visible through the shadow, the
// way earthshine does.
const shadowAlpha = 0.92

// LoadTexture decodes a PNG or WebP texture from disk.
func LoadTexture(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("texture %q (%s) is empty", path, format)
	}
	return img, nil
}

// DefaultTexture draws a plain lunar disc with a few darker maria, for when no
// texture asset is configured.
func DefaultTexture(size int) image.Image {
	dc := gg.NewContext(size, size)
	defer dc.Close()

	s := float64(size)
	dc.SetRGBA(0.86, 0.85, 0.80, 1)
	dc.DrawCircle(s/2, s/2, s/2)
	dc.Fill()

	maria := []struct{ x, y, r float64 }{
		{0.38, 0.30, 0.11},
		{0.58, 0.36, 0.08},
		{0.30, 0.55, 0.09},
		{0.55, 0.62, 0.13},
		{0.70, 0.48, 0.05},
	}
	dc.SetRGBA(0.62, 0.61, 0.58, 1)
	for _, m := range maria {
		dc.DrawCircle(m.x*s, m.y*s, m.r*s)
		dc.Fill()
	}
	return dc.Image()
}

// DefaultShadow draws a mostly opaque black disc filling a w x h canvas.
func DefaultShadow(w, h int) image.Image {
	dc := gg.NewContext(w, h)
	defer dc.Close()

	dc.SetRGBA(0, 0, 0, shadowAlpha)
	dc.DrawEllipse(float64(w)/2, float64(h)/2, float64(w)/2, float64(h)/2)
	dc.Fill()
	return dc.Image()
}

// Placeholder draws the generic moon glyph shown when a render is
// unavailable: a pale disc with a dark crescent bite.
func Placeholder(size int) *Bitmap {
	if size <= 0 {
		size = 1
	}
	dc := gg.NewContext(size, size)
	defer dc.Close()

	s := float64(size)
	dc.SetRGBA(0.75, 0.75, 0.78, 1)
	dc.DrawCircle(s/2, s/2, s/2)
	dc.Fill()
	dc.SetRGBA(0.25, 0.25, 0.30, 1)
	dc.DrawCircle(s*0.62, s/2, s*0.36)
	dc.Fill()

	b, err := bitmapFrom(toRGBA(dc.Image()))
	if err != nil {
		return &Bitmap{Width: size, Height: size, Stride: 4 * size, Pix: make([]uint8, 4*size*size)}
	}
	return b
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}
