package fits

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"
)

// Image is a decoded data array. Shape lists the axes slowest first, so a
// NAXIS1=400, NAXIS2=200 image has Shape [200 400] and Values in row-major
// order. BZERO and BSCALE are already applied.
type Image struct {
	Shape  []int
	Bitpix int
	Values []float64
}

func (img *Image) Dims() int {
	return len(img.Shape)
}

func (img *Image) Height() int {
	return img.Shape[0]
}

func (img *Image) Width() int {
	return img.Shape[1]
}

// At returns the physical value at row, col of a 2-D image.
func (img *Image) At(row, col int) float64 {
	return img.Values[row*img.Shape[1]+col]
}

// ShapeString formats the shape as a tuple: (5,) or (3, 4, 5).
func (img *Image) ShapeString() string {
	parts := make([]string, len(img.Shape))
	for i, n := range img.Shape {
		parts[i] = strconv.Itoa(n)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Image reads the unit's data array. It returns nil and no error when the
// unit has no data.
//
// FITS 4.0, 3.3.2: The primary data array, if present, shall consist of a
// single data array with from 1 to 999 dimensions (as specified by the
// NAXIS keyword).
func (hdu *HeaderDataUnit) Image() (*Image, error) {
	axes, size, err := hdu.dataAxes()
	if err != nil {
		return nil, err
	}

	if size == 0 {
		return nil, nil
	}

	img, ok := hdu.hdu.(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("%w: HDU %d is a %s", ErrNotImage, hdu.Index, hdu.Kind())
	}

	bitpix := hdu.Bitpix()
	bzero, err := hdu.HeaderFloat("BZERO")
	if err != nil {
		bzero = 0
	}
	bscale, err := hdu.HeaderFloat("BSCALE")
	if err != nil || bscale == 0 {
		bscale = 1
	}

	values, err := readValues(img, bitpix, size)
	if err != nil {
		return nil, fmt.Errorf("read HDU %d: %w", hdu.Index, err)
	}

	// FITS 4.0, 4.4.2.5: physical_value = BZERO + BSCALE * array_value
	if bzero != 0 || bscale != 1 {
		for i, v := range values {
			values[i] = bzero + bscale*v
		}
	}

	shape := make([]int, len(axes))
	for i, n := range axes {
		shape[len(axes)-1-i] = n
	}

	return &Image{
		Shape:  shape,
		Bitpix: bitpix,
		Values: values,
	}, nil
}

// dataAxes reads NAXIS and NAXIS1..NAXISn and returns the axes in FITS order
// with their product. A size of 0 means the unit has no data.
func (hdu *HeaderDataUnit) dataAxes() ([]int, int, error) {
	naxis, err := hdu.NaxisHeader(0)
	if err != nil {
		return nil, 0, err
	}
	if naxis == 0 {
		return nil, 0, nil
	}

	axes := make([]int, naxis)
	size := 1
	for i := 1; i <= naxis; i++ {
		n, err := hdu.NaxisHeader(i)
		if err != nil {
			return nil, 0, err
		}
		axes[i-1] = n
		size *= n
	}

	return axes, size, nil
}

// HasData reports whether the unit carries a non-empty data array.
func (hdu *HeaderDataUnit) HasData() bool {
	_, size, err := hdu.dataAxes()
	return err == nil && size > 0
}

// Format is the element type of the unit's data array, or "" when there is
// no data. The standard BZERO offsets are reported as the signed or unsigned
// counterpart of the stored type.
//
// FITS 4.0, 5.2.5: unsigned integers are stored with BZERO = 2^(BITPIX-1)
// and BSCALE = 1; signed bytes with BZERO = -128.
func (hdu *HeaderDataUnit) Format() string {
	if !hdu.HasData() {
		return ""
	}

	bitpix := hdu.Bitpix()
	bzero, err := hdu.HeaderFloat("BZERO")
	if err != nil {
		return FormatName(bitpix)
	}
	if bscale, err := hdu.HeaderFloat("BSCALE"); err == nil && bscale != 1 {
		return FormatName(bitpix)
	}

	switch {
	case bitpix == 8 && bzero == -128:
		return "int8"
	case bitpix == 16 && bzero == 1<<15:
		return "uint16"
	case bitpix == 32 && bzero == 1<<31:
		return "uint32"
	case bitpix == 64 && bzero == 1<<63:
		return "uint64"
	}

	return FormatName(bitpix)
}

// FormatName is the array element type for a BITPIX value.
func FormatName(bitpix int) string {
	switch bitpix {
	case 8:
		return "uint8"
	case 16:
		return "int16"
	case 32:
		return "int32"
	case 64:
		return "int64"
	case -32:
		return "float32"
	case -64:
		return "float64"
	default:
		return ""
	}
}

func readValues(img fitsio.Image, bitpix, size int) ([]float64, error) {
	switch bitpix {
	case 8:
		return readAs[uint8](img, size)
	case 16:
		return readAs[int16](img, size)
	case 32:
		return readAs[int32](img, size)
	case 64:
		return readAs[int64](img, size)
	case -32:
		return readAs[float32](img, size)
	case -64:
		return readAs[float64](img, size)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitpix, bitpix)
	}
}

type pixel interface {
	uint8 | int16 | int32 | int64 | float32 | float64
}

func readAs[T pixel](img fitsio.Image, size int) ([]float64, error) {
	raw := make([]T, size)
	if err := img.Read(&raw); err != nil {
		return nil, err
	}

	values := make([]float64, size)
	for i, p := range raw {
		values[i] = float64(p)
	}

	return values, nil
}
