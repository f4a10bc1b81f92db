package fits

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noamichael/fitsview/internal/fitstest"
)

func openFixture(t *testing.T, hdus ...fitstest.HDU) *File {
	t.Helper()

	path := fitstest.Write(t, t.TempDir(), "fixture.fits", hdus...)
	f, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	return f
}

func TestOpen_Image2D(t *testing.T) {
	f := openFixture(t, fitstest.Image2D(16, 3, 4))

	require.Len(t, f.HeaderDataUnits, 1)
	primary := f.Primary()

	assert.Equal(t, []int{4, 3}, primary.Axes())
	assert.Equal(t, 16, primary.Bitpix())
	assert.Equal(t, "PRIMARY", primary.Name())
	assert.Equal(t, "PrimaryHDU", primary.Kind())

	naxis, err := primary.NaxisHeader(0)
	require.NoError(t, err)
	assert.Equal(t, 2, naxis)

	width, err := primary.NaxisHeader(1)
	require.NoError(t, err)
	assert.Equal(t, 4, width)

	_, err = primary.NaxisHeader(3)
	assert.Error(t, err)

	img, err := primary.Image()
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, []int{3, 4}, img.Shape)
	assert.Equal(t, 2, img.Dims())
	assert.Equal(t, 3, img.Height())
	assert.Equal(t, 4, img.Width())
	assert.Equal(t, 6.0, img.At(1, 2))
	assert.Equal(t, 11.0, img.At(2, 3))
}

func TestImage_AllBitpix(t *testing.T) {
	for _, bitpix := range []int{8, 16, 32, 64, -32, -64} {
		t.Run(FormatName(bitpix), func(t *testing.T) {
			f := openFixture(t, fitstest.Image2D(bitpix, 2, 5))

			img, err := f.Primary().Image()
			require.NoError(t, err)
			require.NotNil(t, img)

			assert.Equal(t, bitpix, img.Bitpix)
			assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, img.Values)
		})
	}
}

func TestImage_AppliesScaling(t *testing.T) {
	hdu := fitstest.HDU{
		Bitpix: 16,
		Axes:   []int{3},
		Data:   []float64{-2, 0, 5},
		Cards: []fitstest.Card{
			{Key: "BZERO", Value: "100"},
			{Key: "BSCALE", Value: "2"},
		},
	}
	f := openFixture(t, hdu)

	img, err := f.Primary().Image()
	require.NoError(t, err)

	assert.Equal(t, []float64{96, 100, 110}, img.Values)
}

func TestImage_NoData(t *testing.T) {
	f := openFixture(t, fitstest.HDU{Bitpix: 8})

	img, err := f.Primary().Image()
	assert.NoError(t, err)
	assert.Nil(t, img)
}

func TestImage_ShapeString(t *testing.T) {
	tests := []struct {
		name string
		axes []int
		want string
	}{
		{name: "1-D", axes: []int{5}, want: "(5,)"},
		{name: "2-D", axes: []int{4, 3}, want: "(3, 4)"},
		{name: "3-D", axes: []int{4, 3, 2}, want: "(2, 3, 4)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := 1
			for _, n := range tt.axes {
				size *= n
			}
			f := openFixture(t, fitstest.HDU{Bitpix: 8, Axes: tt.axes, Data: make([]float64, size)})

			img, err := f.Primary().Image()
			require.NoError(t, err)
			require.NotNil(t, img)

			assert.Equal(t, tt.want, img.ShapeString())
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.fits"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOpen_NotFITS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.fits")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("not a fits file ", 6)), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestClose_Idempotent(t *testing.T) {
	path := fitstest.Write(t, t.TempDir(), "a.fits", fitstest.Image2D(8, 2, 2))

	f, err := Open(path)
	require.NoError(t, err)

	assert.NoError(t, f.Close())
	assert.NoError(t, f.Close())
}

func TestHeaders(t *testing.T) {
	hdu := fitstest.Image2D(8, 2, 2)
	hdu.Cards = []fitstest.Card{
		{Key: "BAYERPAT", Value: "'RGGB'"},
		{Key: "EXPTIME", Value: "30.5"},
		{Key: "GAIN", Value: "120"},
	}
	primary := openFixture(t, hdu).Primary()

	assert.Equal(t, "RGGB", primary.BayerPattern())

	gain, err := primary.HeaderInt("GAIN")
	require.NoError(t, err)
	assert.Equal(t, 120, gain)

	exptime, err := primary.HeaderFloat("EXPTIME")
	require.NoError(t, err)
	assert.InDelta(t, 30.5, exptime, 1e-9)

	_, err = primary.HeaderInt("MISSING")
	assert.Error(t, err)

	_, err = primary.HeaderInt("BAYERPAT")
	assert.Error(t, err)

	dump := primary.HeadersString()
	assert.Contains(t, dump, "BAYERPAT= RGGB")
	assert.Contains(t, dump, "GAIN    = 120")
}

func TestBayerPattern_Absent(t *testing.T) {
	primary := openFixture(t, fitstest.Image2D(8, 2, 2)).Primary()

	assert.Equal(t, "", primary.BayerPattern())
}
