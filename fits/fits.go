package fits

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"
)

// The following reader is based on the FITS standard
// version 4.0

// FITS 4.0, 3.1: Each FITS structure shall consist of an integral number of
// FITS blocks, which are each 2880 bytes (23040 bits) in length.
const BlockSize = 2880

var (
	ErrNoSuchHDU         = errors.New("fits: no such header data unit")
	ErrUnsupportedBitpix = errors.New("fits: unsupported BITPIX")
	ErrNotImage          = errors.New("fits: header data unit is not an image")
)

type Header struct {
	Keyword string
	Value   string
	Comment string
}

type HeaderDataUnit struct {
	Headers map[string]*Header
	Index   int
	keys    []string
	hdu     fitsio.HDU
}

type File struct {
	HeaderDataUnits []*HeaderDataUnit
	filename        string
	fileSize        int64
	fs              *os.File
	fits            *fitsio.File
	closed          bool
}

// Open reads every header data unit of filename. The returned File keeps the
// OS handle open until Close is called.
func Open(filename string) (*File, error) {
	fs, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	info, err := fs.Stat()
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("stat %s: %w", filename, err)
	}

	f, err := fitsio.Open(fs)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	file := &File{
		HeaderDataUnits: make([]*HeaderDataUnit, 0, len(f.HDUs())),
		filename:        filename,
		fileSize:        info.Size(),
		fs:              fs,
		fits:            f,
	}

	for i, hdu := range f.HDUs() {
		file.HeaderDataUnits = append(file.HeaderDataUnits, newHeaderDataUnit(i, hdu))
	}

	if len(file.HeaderDataUnits) == 0 {
		file.Close()
		return nil, fmt.Errorf("parse %s: %w", filename, ErrNoSuchHDU)
	}

	return file, nil
}

// Close releases the parsed units and the OS handle. Calling it more than
// once is a no-op.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	return errors.Join(f.fits.Close(), f.fs.Close())
}

func (f *File) Filename() string {
	return f.filename
}

func (f *File) Size() int64 {
	return f.fileSize
}

// Blocks is the number of 2880-byte blocks in the file, counting a
// trailing partial block.
func (f *File) Blocks() int64 {
	return (f.fileSize + BlockSize - 1) / BlockSize
}

// Primary returns the first header data unit.
func (f *File) Primary() *HeaderDataUnit {
	return f.HeaderDataUnits[0]
}

func newHeaderDataUnit(index int, hdu fitsio.HDU) *HeaderDataUnit {
	hdr := hdu.Header()
	keys := hdr.Keys()

	headerDataUnit := &HeaderDataUnit{
		Headers: make(map[string]*Header, len(keys)),
		Index:   index,
		keys:    keys,
		hdu:     hdu,
	}

	for _, key := range keys {
		card := hdr.Get(key)
		if card == nil {
			continue
		}
		headerDataUnit.Headers[key] = &Header{
			Keyword: key,
			Value:   formatValue(card.Value),
			Comment: strings.TrimSpace(card.Comment),
		}
	}

	return headerDataUnit
}

func formatValue(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case bool:
		if v {
			return "T"
		}
		return "F"
	default:
		return fmt.Sprint(v)
	}
}

// Axes returns the axis lengths in FITS order, NAXIS1 first.
func (hdu *HeaderDataUnit) Axes() []int {
	return hdu.hdu.Header().Axes()
}

func (hdu *HeaderDataUnit) Bitpix() int {
	return hdu.hdu.Header().Bitpix()
}

// Cards is the number of keyword records in the header.
func (hdu *HeaderDataUnit) Cards() int {
	return len(hdu.keys)
}

func (hdu *HeaderDataUnit) Name() string {
	if h, ok := hdu.Headers["EXTNAME"]; ok && h.Value != "" {
		return h.Value
	}
	if hdu.Index == 0 {
		return "PRIMARY"
	}
	return ""
}

func (hdu *HeaderDataUnit) Version() int {
	if v, err := hdu.HeaderInt("EXTVER"); err == nil {
		return v
	}
	return 1
}

// Kind names the unit the way astronomers usually see it listed.
func (hdu *HeaderDataUnit) Kind() string {
	if hdu.Index == 0 {
		return "PrimaryHDU"
	}

	switch hdu.hdu.Header().Type() {
	case fitsio.IMAGE_HDU:
		return "ImageHDU"
	case fitsio.ASCII_TBL:
		return "TableHDU"
	case fitsio.BINARY_TBL:
		return "BinTableHDU"
	default:
		return "UnknownHDU"
	}
}

// NaxisHeader returns NAXIS for index 0 and NAXISn otherwise.
func (hdu *HeaderDataUnit) NaxisHeader(index int) (int, error) {
	axes := hdu.Axes()

	if index == 0 {
		return len(axes), nil
	}

	if index < 0 || index > len(axes) {
		return 0, fmt.Errorf("could not find NAXIS%d", index)
	}

	return axes[index-1], nil
}

func (hdu *HeaderDataUnit) HeaderInt(name string) (int, error) {
	header, hasHeader := hdu.Headers[name]

	if !hasHeader {
		return 0, errors.New("could not find " + name)
	}

	headerValue, err := strconv.Atoi(header.Value)

	if err != nil {
		return 0, fmt.Errorf("could not parse %s header: %w", name, err)
	}

	return headerValue, nil
}

func (hdu *HeaderDataUnit) HeaderFloat(name string) (float64, error) {
	header, hasHeader := hdu.Headers[name]

	if !hasHeader {
		return 0, errors.New("could not find " + name)
	}

	headerValue, err := strconv.ParseFloat(header.Value, 64)

	if err != nil {
		return 0, fmt.Errorf("could not parse %s header: %w", name, err)
	}

	return headerValue, nil
}

// BayerPattern returns the BAYERPAT card without quotes, or "" when the
// unit carries no colour filter array.
func (hdu *HeaderDataUnit) BayerPattern() string {
	h, ok := hdu.Headers["BAYERPAT"]
	if !ok {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(h.Value, "'", "")))
}

// HeadersString lists the header cards in file order, one per line.
func (hdu *HeaderDataUnit) HeadersString() string {
	var sb strings.Builder

	for _, key := range hdu.keys {
		header, ok := hdu.Headers[key]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%-8s= %s", header.Keyword, header.Value)
		if header.Comment != "" {
			fmt.Fprintf(&sb, " / %s", header.Comment)
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
