// Package viewer inspects a FITS file and renders its primary image.
package viewer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noamichael/fitsview/fits"
	"github.com/noamichael/fitsview/render"
)

const NoDataMessage = "no image data"

var ErrOutputIsInput = errors.New("viewer: output path equals input path")

// Unit is the part of a header data unit the viewer reads.
type Unit interface {
	Image() (*fits.Image, error)
	HeadersString() string
	BayerPattern() string
}

// Container is an open FITS file.
type Container interface {
	Summary() fits.Summary
	Primary() Unit
	Close() error
}

type Opener func(path string) (Container, error)

type fitsContainer struct {
	*fits.File
}

func (c fitsContainer) Primary() Unit {
	return c.File.Primary()
}

// OpenFITS opens path with the fits package.
func OpenFITS(path string) (Container, error) {
	f, err := fits.Open(path)
	if err != nil {
		return nil, err
	}
	return fitsContainer{f}, nil
}

type SummaryFormat string

const (
	SummaryText SummaryFormat = "text"
	SummaryYAML SummaryFormat = "yaml"
)

func ParseSummaryFormat(s string) (SummaryFormat, error) {
	switch SummaryFormat(strings.ToLower(s)) {
	case "", SummaryText:
		return SummaryText, nil
	case SummaryYAML:
		return SummaryYAML, nil
	default:
		return "", fmt.Errorf("viewer: unknown summary format %q (want text or yaml)", s)
	}
}

type Config struct {
	DPI           int
	Origin        render.Origin
	Debayer       bool
	ShowHeaders   bool
	SummaryFormat SummaryFormat
}

func DefaultConfig() Config {
	return Config{
		DPI:           render.DefaultDPI,
		Origin:        render.OriginLower,
		SummaryFormat: SummaryText,
	}
}

type Viewer struct {
	cfg    Config
	open   Opener
	out    io.Writer
	logger zerolog.Logger
}

type Option func(*Viewer)

func WithOpener(open Opener) Option {
	return func(v *Viewer) {
		v.open = open
	}
}

// WithOutput sets where the summary and messages are printed.
func WithOutput(w io.Writer) Option {
	return func(v *Viewer) {
		v.out = w
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(v *Viewer) {
		v.logger = logger
	}
}

func New(cfg Config, opts ...Option) *Viewer {
	v := &Viewer{
		cfg:    cfg,
		open:   OpenFITS,
		out:    os.Stdout,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}
