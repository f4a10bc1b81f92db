package fits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/noamichael/fitsview/internal/fitstest"
)

func multiExtensionFixture(t *testing.T) *File {
	t.Helper()

	science := fitstest.HDU{
		Bitpix: -32,
		Axes:   []int{3, 2},
		Data:   []float64{1, 2, 3, 4, 5, 6},
		Cards:  []fitstest.Card{{Key: "EXTNAME", Value: "'SCI'"}},
	}

	return openFixture(t, fitstest.HDU{Bitpix: 8}, science)
}

func TestSummary_Rows(t *testing.T) {
	f := multiExtensionFixture(t)

	summary := f.Summary()

	assert.Equal(t, f.Filename(), summary.Filename)
	assert.Equal(t, int64(3*2880), summary.Size)
	assert.Equal(t, int64(3), summary.Blocks)
	require.Len(t, summary.Units, 2)

	primary := summary.Units[0]
	assert.Equal(t, 0, primary.Index)
	assert.Equal(t, "PRIMARY", primary.Name)
	assert.Equal(t, "PrimaryHDU", primary.Kind)
	assert.Empty(t, primary.Dimensions)
	assert.Empty(t, primary.Format)

	science := summary.Units[1]
	assert.Equal(t, 1, science.Index)
	assert.Equal(t, "SCI", science.Name)
	assert.Equal(t, 1, science.Version)
	assert.Equal(t, "ImageHDU", science.Kind)
	assert.Equal(t, []int{3, 2}, science.Dimensions)
	assert.Equal(t, "float32", science.Format)
	assert.Positive(t, science.Cards)
}

func TestSummary_String(t *testing.T) {
	out := multiExtensionFixture(t).Summary().String()

	assert.Contains(t, out, "Filename: ")
	assert.Contains(t, out, "No.    Name")
	assert.Contains(t, out, "PRIMARY")
	assert.Contains(t, out, "ImageHDU")
	assert.Contains(t, out, "(3, 2)")
}

func TestSummary_YAML(t *testing.T) {
	f := multiExtensionFixture(t)

	out, err := f.Summary().YAML()
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, f.Filename(), decoded.Filename)
	require.Len(t, decoded.Units, 2)
	assert.Equal(t, "SCI", decoded.Units[1].Name)
	assert.Equal(t, []int{3, 2}, decoded.Units[1].Dimensions)
	assert.Contains(t, string(out), "name: SCI")
}

func TestSummary_UnsignedFormat(t *testing.T) {
	hdu := fitstest.HDU{
		Bitpix: 16,
		Axes:   []int{2},
		Data:   []float64{-32768, 32767},
		Cards:  []fitstest.Card{{Key: "BZERO", Value: "32768"}},
	}
	f := openFixture(t, hdu)

	summary := f.Summary()
	require.Len(t, summary.Units, 1)
	assert.Equal(t, "uint16", summary.Units[0].Format)

	img, err := f.Primary().Image()
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 65535}, img.Values)
}

func TestHeaderDataUnit_Format(t *testing.T) {
	tests := []struct {
		name string
		hdu  fitstest.HDU
		want string
	}{
		{name: "no data", hdu: fitstest.HDU{Bitpix: 16}, want: ""},
		{name: "plain int16", hdu: fitstest.Image2D(16, 2, 2), want: "int16"},
		{name: "float32", hdu: fitstest.Image2D(-32, 2, 2), want: "float32"},
		{
			name: "signed bytes",
			hdu: fitstest.HDU{
				Bitpix: 8, Axes: []int{2}, Data: []float64{0, 255},
				Cards: []fitstest.Card{{Key: "BZERO", Value: "-128"}},
			},
			want: "int8",
		},
		{
			name: "uint32",
			hdu: fitstest.HDU{
				Bitpix: 32, Axes: []int{1}, Data: []float64{0},
				Cards: []fitstest.Card{{Key: "BZERO", Value: "2147483648"}},
			},
			want: "uint32",
		},
		{
			name: "scaled int16 stays int16",
			hdu: fitstest.HDU{
				Bitpix: 16, Axes: []int{1}, Data: []float64{0},
				Cards: []fitstest.Card{{Key: "BZERO", Value: "32768"}, {Key: "BSCALE", Value: "2"}},
			},
			want: "int16",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := openFixture(t, tt.hdu).Primary()

			assert.Equal(t, tt.want, primary.Format())
			assert.Equal(t, tt.want != "", primary.HasData())
		})
	}
}

func TestFormatName(t *testing.T) {
	assert.Equal(t, "uint8", FormatName(8))
	assert.Equal(t, "float64", FormatName(-64))
	assert.Equal(t, "", FormatName(12))
}
