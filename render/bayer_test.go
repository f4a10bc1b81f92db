package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBayer(t *testing.T) {
	for _, p := range []string{"RGGB", "bggr", " GRBG ", "GBRG"} {
		_, err := parseBayer(p)
		assert.NoError(t, err, p)
	}

	for _, p := range []string{"", "RGB", "RRGB", "RGGBX", "CYGM"} {
		_, err := parseBayer(p)
		assert.True(t, errors.Is(err, ErrBayerPattern), p)
	}
}

func TestDebayer_GreenPixels(t *testing.T) {
	// RGGB, 3x3: the centre is blue, its edge neighbours green, its
	// corners red.
	pattern, err := parseBayer("RGGB")
	require.NoError(t, err)

	plane := []float64{
		10, 100, 30,
		100, 50, 100,
		70, 100, 90,
	}

	rgb := debayer(pattern, plane, 3, 3)

	centre := rgb[4]
	assert.InDelta(t, 50, centre[0], 1e-9) // (10+30+70+90)/4
	assert.InDelta(t, 100, centre[1], 1e-9)
	assert.InDelta(t, 50, centre[2], 1e-9)

	// top edge green on a red row: red from left and right, blue from below
	top := rgb[1]
	assert.InDelta(t, 20, top[0], 1e-9)
	assert.InDelta(t, 100, top[1], 1e-9)
	assert.InDelta(t, 50, top[2], 1e-9)
}
