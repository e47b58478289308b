// Command phases renders moon phase frames to PNG files.
//
// By default it renders one frame per day of a lunation. With -scrub it reads
// ages, one per line, from stdin as if they came from a slider and renders
// only the last one that is pending when the renderer frees up.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/powerman/structlog"

	"github.com/spencer-p/moondash/pkg/moonphase"
	"github.com/spencer-p/moondash/pkg/sky"
)

var log = structlog.New()

var (
	outDir  = flag.String("out", ".", "directory to write frames to")
	size    = flag.Int("size", 256, "frame size when no texture is given")
	lat     = flag.Float64("lat", sky.SantaCruz.Lat, "observer latitude")
	texture = flag.String("texture", "", "lit moon texture, PNG or WebP")
	shadow  = flag.String("shadow", "", "shadow material, PNG or WebP")
	step    = flag.Float64("step", 1, "days between frames")
	scrub   = flag.Bool("scrub", false, "read ages from stdin and render the latest")
	verbose = flag.Bool("v", false, "log render diagnostics")
)

func main() {
	flag.Parse()
	if *verbose {
		structlog.DefaultLogger.SetLogLevel(structlog.DBG)
		log = structlog.New()
	}

	r, err := renderer()
	if err != nil {
		log.Fatal(err)
	}

	if *scrub {
		log.ErrIfFail(func() error { return scrubStdin(r) })
		return
	}

	for age := 0.0; age < moonphase.SynodicMonth; age += *step {
		in := moonphase.PhaseInput{
			IlluminatedFraction: moonphase.FractionForAge(age),
			AgeDays:             age,
			Latitude:            *lat,
		}
		name := fmt.Sprintf("phase-%05.2f.png", age)
		res := r.Render(context.Background(), in)
		if err := write(name, res); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%5.2f %.3f %-16s %s\n", age, in.IlluminatedFraction,
			sky.PhaseName(in.IlluminatedFraction, age < moonphase.HalfSynodicMonth), name)
	}
}

func renderer() (*moonphase.Renderer, error) {
	opts := []moonphase.Option{moonphase.WithLogger(log)}
	if *shadow != "" {
		img, err := moonphase.LoadTexture(*shadow)
		if err != nil {
			return nil, err
		}
		opts = append(opts, moonphase.WithShadow(img))
	}
	if *texture == "" {
		return moonphase.NewRenderer(moonphase.DefaultTexture(*size), opts...), nil
	}
	lit, err := moonphase.LoadTexture(*texture)
	if err != nil {
		return nil, err
	}
	return moonphase.NewRenderer(lit, opts...), nil
}

func scrubStdin(r *moonphase.Renderer) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := moonphase.NewScrubber(r)
	go s.Run(ctx)

	submitted := 0
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		age, err := strconv.ParseFloat(line, 64)
		if err != nil {
			log.PrintErr("skipping bad age", "line", line)
			continue
		}
		s.Submit(moonphase.PhaseInput{
			IlluminatedFraction: moonphase.FractionForAge(age),
			AgeDays:             age,
			Latitude:            *lat,
		})
		submitted++
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if submitted == 0 {
		return fmt.Errorf("no ages on stdin")
	}

	res, err := s.Wait(ctx)
	if err != nil {
		return err
	}
	log.Info("scrubbed", "submitted", submitted, "age", res.Input.AgeDays)
	return write("scrub.png", res)
}

// write saves the frame, or the placeholder glyph when it is unavailable.
func write(name string, res moonphase.Result) error {
	bm := res.Bitmap
	if !res.Available() {
		log.PrintErr("render unavailable", "file", name, "reason", moonphase.Reason(res.Err))
		bm = moonphase.Placeholder(*size)
	}
	f, err := os.Create(filepath.Join(*outDir, name))
	if err != nil {
		return err
	}
	if err := png.Encode(f, bm.Image()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return f.Close()
}
