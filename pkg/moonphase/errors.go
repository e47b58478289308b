package moonphase

import (
	"github.com/ansel1/merry"
)

// Failure kinds carried in Result.Err. Test with merry.Is.
var (
	ErrInvalidInput      = merry.New("moonphase: invalid input")
	ErrSurfaceAllocation = merry.New("moonphase: cannot allocate drawing surface")
	ErrExtraction        = merry.New("moonphase: cannot extract bitmap")
	ErrCanceled          = merry.New("moonphase: render canceled")
)

// Reason names the failure kind of err for logs and metrics.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case merry.Is(err, ErrInvalidInput):
		return "invalid_input"
	case merry.Is(err, ErrSurfaceAllocation):
		return "surface_allocation"
	case merry.Is(err, ErrExtraction):
		return "extraction"
	case merry.Is(err, ErrCanceled):
		return "canceled"
	default:
		return "unknown"
	}
}
