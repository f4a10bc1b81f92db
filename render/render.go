// Package render draws a 2-D FITS image as a figure: a grayscale raster in a
// frame with pixel ticks, a vertical color bar and a title, cropped tight to
// what was drawn. All settings travel in Options; the package keeps no
// global state.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/noamichael/fitsview/fits"
)

const (
	DefaultDPI = 300
	MaxDPI     = 2400

	figureWidthInches  = 6.4
	figureHeightInches = 4.8
	padInches          = 0.1
)

var ErrNotImage2D = errors.New("render: image is not 2-D")

// Origin places row 0 of the data array.
type Origin int

const (
	OriginLower Origin = iota
	OriginUpper
)

func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lower":
		return OriginLower, nil
	case "upper":
		return OriginUpper, nil
	default:
		return OriginLower, fmt.Errorf("render: unknown origin %q (want lower or upper)", s)
	}
}

func (o Origin) String() string {
	if o == OriginUpper {
		return "upper"
	}
	return "lower"
}

type Options struct {
	DPI    int
	Title  string
	Origin Origin

	// Debayer demosaics the raster using BayerPattern. It is ignored when
	// BayerPattern is empty.
	Debayer      bool
	BayerPattern string
}

// Normalize returns the smallest and largest finite values. ok is false when
// there is none.
func Normalize(values []float64) (vmin, vmax float64, ok bool) {
	vmin, vmax = math.Inf(1), math.Inf(-1)

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < vmin {
			vmin = v
		}
		if v > vmax {
			vmax = v
		}
		ok = true
	}

	if !ok {
		return 0, 0, false
	}
	return vmin, vmax, true
}

// level maps v linearly from [vmin, vmax] onto [0, 1].
func level(v, vmin, vmax float64) float64 {
	if vmax <= vmin {
		return 0
	}
	l := (v - vmin) / (vmax - vmin)
	if math.IsInf(vmax-vmin, 1) {
		// Range wider than MaxFloat64; halve both sides of the ratio.
		l = (v/2 - vmin/2) / (vmax/2 - vmin/2)
	}
	if math.IsNaN(l) {
		return 0
	}
	return math.Max(0, math.Min(1, l))
}

// Render composes the figure for a 2-D image.
func Render(img *fits.Image, opts Options) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no data", ErrNotImage2D)
	}
	if img.Dims() != 2 {
		return nil, fmt.Errorf("%w: shape %s", ErrNotImage2D, img.ShapeString())
	}
	if opts.DPI <= 0 || opts.DPI > MaxDPI {
		return nil, fmt.Errorf("render: DPI %d out of range (1..%d)", opts.DPI, MaxDPI)
	}

	vmin, vmax, ok := Normalize(img.Values)
	if !ok {
		vmin, vmax = 0, 1
	}

	raster, err := rasterize(img, vmin, vmax, opts)
	if err != nil {
		return nil, err
	}

	l := newLayout(opts.DPI, img.Width(), img.Height(), vmin, vmax, opts)

	canvas := image.NewRGBA(image.Rectangle{Max: l.size})
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)

	xdraw.NearestNeighbor.Scale(canvas, l.panel, raster, raster.Bounds(), xdraw.Src, nil)
	drawColorbar(canvas, l.colorbar, l.cbLo, l.cbHi, vmin, vmax)

	for _, r := range l.lines {
		xdraw.Draw(canvas, r, image.Black, image.Point{}, xdraw.Src)
	}
	for _, lb := range l.labels {
		drawText(canvas, lb.text, lb.at, lb.scale)
	}

	return canvas, nil
}

// rasterize returns the image at native resolution in display order.
func rasterize(img *fits.Image, vmin, vmax float64, opts Options) (*image.RGBA, error) {
	height, width := img.Height(), img.Width()
	raster := image.NewRGBA(image.Rect(0, 0, width, height))

	displayRow := func(y int) int {
		if opts.Origin == OriginUpper {
			return y
		}
		return height - 1 - y
	}

	if opts.Debayer && opts.BayerPattern != "" {
		pattern, err := parseBayer(opts.BayerPattern)
		if err != nil {
			return nil, err
		}

		plane := make([]float64, len(img.Values))
		for i, v := range img.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				plane[i] = math.NaN()
				continue
			}
			plane[i] = level(v, vmin, vmax) * 255
		}

		rgb := debayer(pattern, plane, height, width)
		for y := 0; y < height; y++ {
			row := displayRow(y)
			for x := 0; x < width; x++ {
				raster.SetRGBA(x, y, rgbPixel(rgb[row*width+x]))
			}
		}
		return raster, nil
	}

	for y := 0; y < height; y++ {
		row := displayRow(y)
		for x := 0; x < width; x++ {
			v := img.At(row, x)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				raster.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
				continue
			}
			g := uint8(math.Round(level(v, vmin, vmax) * 255))
			raster.SetRGBA(x, y, color.RGBA{R: g, G: g, B: g, A: 255})
		}
	}

	return raster, nil
}

func rgbPixel(rgb [3]float64) color.RGBA {
	var c [3]uint8
	for i, v := range rgb {
		if math.IsNaN(v) {
			return color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		c[i] = uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}
}

// drawColorbar fills r with the gray ramp for display values lo (bottom) to
// hi (top).
func drawColorbar(dst *image.RGBA, r image.Rectangle, lo, hi, vmin, vmax float64) {
	h := r.Dy()
	for y := 0; y < h; y++ {
		frac := 1 - (float64(y)+0.5)/float64(h)
		g := uint8(math.Round(level(lo+frac*(hi-lo), vmin, vmax) * 255))
		row := image.Rect(r.Min.X, r.Min.Y+y, r.Max.X, r.Min.Y+y+1)
		xdraw.Draw(dst, row, image.NewUniform(color.RGBA{R: g, G: g, B: g, A: 255}), image.Point{}, xdraw.Src)
	}
}

// SavePNG writes img to path, replacing any existing file.
func SavePNG(path string, img image.Image) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close png: %w", cerr)
		}
	}()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	return nil
}
