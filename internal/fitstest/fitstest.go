// Package fitstest writes small FITS files for tests.
package fitstest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	blockSize  = 2880
	recordSize = 80
)

// Card is an extra header record. Value is written verbatim, so strings
// must carry their own quotes.
type Card struct {
	Key   string
	Value string
}

// HDU describes one header data unit. The first HDU passed to Encode is the
// primary unit; the rest are written as IMAGE extensions.
type HDU struct {
	Bitpix int
	Axes   []int // FITS order, NAXIS1 first
	Data   []float64
	Cards  []Card
}

// Image2D is a primary HDU holding a height x width image whose pixel at
// (row, col) is row*width + col.
func Image2D(bitpix, height, width int) HDU {
	data := make([]float64, height*width)
	for i := range data {
		data[i] = float64(i)
	}
	return HDU{Bitpix: bitpix, Axes: []int{width, height}, Data: data}
}

// Encode returns the bytes of a FITS file holding hdus.
func Encode(hdus ...HDU) ([]byte, error) {
	var buf bytes.Buffer

	for i, hdu := range hdus {
		if err := writeHeader(&buf, i, hdu, len(hdus) > 1); err != nil {
			return nil, err
		}
		if err := writeData(&buf, hdu); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// Write encodes hdus into dir/name and returns the path.
func Write(t testing.TB, dir, name string, hdus ...HDU) string {
	t.Helper()

	raw, err := Encode(hdus...)
	if err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}

	return path
}

func writeHeader(buf *bytes.Buffer, index int, hdu HDU, extend bool) error {
	var records []string

	if index == 0 {
		records = append(records, record("SIMPLE", "T"))
	} else {
		records = append(records, record("XTENSION", "'IMAGE   '"))
	}

	records = append(records,
		record("BITPIX", fmt.Sprint(hdu.Bitpix)),
		record("NAXIS", fmt.Sprint(len(hdu.Axes))),
	)
	for i, n := range hdu.Axes {
		records = append(records, record(fmt.Sprintf("NAXIS%d", i+1), fmt.Sprint(n)))
	}

	if index == 0 {
		if extend {
			records = append(records, record("EXTEND", "T"))
		}
	} else {
		records = append(records, record("PCOUNT", "0"), record("GCOUNT", "1"))
	}

	for _, c := range hdu.Cards {
		records = append(records, record(c.Key, c.Value))
	}
	records = append(records, fmt.Sprintf("%-80s", "END"))

	for _, r := range records {
		if len(r) != recordSize {
			return fmt.Errorf("header record %q is %d bytes", strings.TrimSpace(r), len(r))
		}
		buf.WriteString(r)
	}
	pad(buf, ' ')

	return nil
}

// record formats a fixed-format keyword record. Non-string values are
// right justified to column 30.
func record(key, value string) string {
	if strings.HasPrefix(value, "'") {
		return fmt.Sprintf("%-8s= %-70s", key, value)
	}
	return fmt.Sprintf("%-8s= %20s%50s", key, value, "")
}

func writeData(buf *bytes.Buffer, hdu HDU) error {
	if len(hdu.Axes) == 0 {
		return nil
	}

	size := 1
	for _, n := range hdu.Axes {
		size *= n
	}
	if size == 0 {
		return nil
	}
	if len(hdu.Data) != size {
		return fmt.Errorf("data has %d values, axes %v need %d", len(hdu.Data), hdu.Axes, size)
	}

	for _, v := range hdu.Data {
		var err error
		switch hdu.Bitpix {
		case 8:
			err = buf.WriteByte(uint8(v))
		case 16:
			err = binary.Write(buf, binary.BigEndian, int16(v))
		case 32:
			err = binary.Write(buf, binary.BigEndian, int32(v))
		case 64:
			err = binary.Write(buf, binary.BigEndian, int64(v))
		case -32:
			err = binary.Write(buf, binary.BigEndian, math.Float32bits(float32(v)))
		case -64:
			err = binary.Write(buf, binary.BigEndian, math.Float64bits(v))
		default:
			err = fmt.Errorf("unsupported BITPIX %d", hdu.Bitpix)
		}
		if err != nil {
			return err
		}
	}
	pad(buf, 0)

	return nil
}

func pad(buf *bytes.Buffer, fill byte) {
	for buf.Len()%blockSize != 0 {
		buf.WriteByte(fill)
	}
}
