package moonphase

import (
	"image"

	"github.com/ansel1/merry"
)

// PlaceholderGlyph identifies the generic icon shown in place of a moon that
// could not be rendered.
const PlaceholderGlyph = "moon.circle.fill"

// Bitmap is a premultiplied RGBA pixel buffer, 4 bytes per pixel, rows Stride
// bytes apart.
type Bitmap struct {
	Width, Height int
	Stride        int
	Pix           []uint8
}

// Image wraps the buffer as an image.RGBA without copying.
func (b *Bitmap) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Stride,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// bitmapFrom copies the pixels of img into a new Bitmap.
func bitmapFrom(img *image.RGBA) (*Bitmap, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= 0 || h <= 0 || img.Stride < 4*w || len(img.Pix) < img.Stride*(h-1)+4*w {
		return nil, merry.Appendf(ErrExtraction, "canvas %dx%d with stride %d holds %d bytes",
			w, h, img.Stride, len(img.Pix))
	}
	b := &Bitmap{
		Width:  w,
		Height: h,
		Stride: 4 * w,
		Pix:    make([]uint8, 4*w*h),
	}
	for y := 0; y < h; y++ {
		src := img.Pix[img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y):]
		copy(b.Pix[y*b.Stride:(y+1)*b.Stride], src[:4*w])
	}
	return b, nil
}

// Result is the outcome of a render. Exactly one of Bitmap and Err is set.
type Result struct {
	Input  PhaseInput
	Bitmap *Bitmap
	Err    error
}

// Available reports whether the render produced a bitmap.
func (r Result) Available() bool {
	return r.Bitmap != nil && r.Err == nil
}

// Glyph returns PlaceholderGlyph for unavailable results and "" otherwise.
func (r Result) Glyph() string {
	if r.Available() {
		return ""
	}
	return PlaceholderGlyph
}
