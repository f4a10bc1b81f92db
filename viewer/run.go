package viewer

import (
	"fmt"
	"strings"

	"github.com/noamichael/fitsview/render"
)

type Outcome int

const (
	Rendered Outcome = iota
	NoData
	Unsupported
)

func (o Outcome) String() string {
	switch o {
	case Rendered:
		return "rendered"
	case NoData:
		return "no-data"
	case Unsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

type Result struct {
	Outcome Outcome
	Output  string // PNG path, set when Outcome is Rendered
	Shape   []int
}

// OutputPath replaces the first ".fits" in path with ".png". The
// replacement is not anchored to the extension: "a.fits.fits" becomes
// "a.png.fits".
func OutputPath(path string) string {
	return strings.Replace(path, ".fits", ".png", 1)
}

// Run prints the summary of the file at path and, when the primary unit
// holds a 2-D array, renders it to OutputPath(path). The file is closed on
// every return.
func (v *Viewer) Run(path string) (res Result, err error) {
	c, err := v.open(path)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := v.printSummary(c); err != nil {
		return Result{}, err
	}

	primary := c.Primary()

	img, err := primary.Image()
	if err != nil {
		return Result{}, fmt.Errorf("read primary data of %s: %w", path, err)
	}

	if img == nil {
		fmt.Fprintln(v.out, NoDataMessage)
		return Result{Outcome: NoData}, nil
	}

	if img.Dims() != 2 {
		fmt.Fprintf(v.out, "unsupported image dimensions: %s\n", img.ShapeString())
		return Result{Outcome: Unsupported, Shape: img.Shape}, nil
	}

	output := OutputPath(path)
	if output == path {
		return Result{}, fmt.Errorf("%w: %s", ErrOutputIsInput, path)
	}

	opts := render.Options{
		DPI:    v.cfg.DPI,
		Title:  path,
		Origin: v.cfg.Origin,
	}
	if v.cfg.Debayer {
		opts.Debayer = true
		opts.BayerPattern = primary.BayerPattern()
		if opts.BayerPattern == "" {
			v.logger.Warn().Str("path", path).Msg("debayer requested but BAYERPAT is missing, rendering grayscale")
		}
	}

	fig, err := render.Render(img, opts)
	if err != nil {
		return Result{}, fmt.Errorf("render %s: %w", path, err)
	}

	if err := render.SavePNG(output, fig); err != nil {
		return Result{}, fmt.Errorf("save %s: %w", output, err)
	}

	v.logger.Info().
		Str("output", output).
		Ints("shape", img.Shape).
		Int("dpi", opts.DPI).
		Msg("rendered primary image")

	return Result{Outcome: Rendered, Output: output, Shape: img.Shape}, nil
}

// Inspect prints the summary of the file at path without reading any data.
func (v *Viewer) Inspect(path string) (err error) {
	c, err := v.open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return v.printSummary(c)
}

func (v *Viewer) printSummary(c Container) error {
	summary := c.Summary()

	switch v.cfg.SummaryFormat {
	case SummaryYAML:
		out, err := summary.YAML()
		if err != nil {
			return err
		}
		if _, err := v.out.Write(out); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	default:
		if _, err := fmt.Fprint(v.out, summary.String()); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if v.cfg.ShowHeaders {
		if _, err := fmt.Fprint(v.out, c.Primary().HeadersString()); err != nil {
			return fmt.Errorf("write headers: %w", err)
		}
	}

	v.logger.Debug().Str("file", summary.Filename).Int("units", len(summary.Units)).Msg("summarized")

	return nil
}
