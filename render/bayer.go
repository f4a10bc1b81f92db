package render

import (
	"errors"
	"fmt"
	"strings"
)

var ErrBayerPattern = errors.New("render: unsupported Bayer pattern")

// bayer is a 2x2 colour filter array, read row by row: "RGGB" puts red at
// even rows and even columns.
type bayer [4]byte

func parseBayer(pattern string) (bayer, error) {
	var b bayer

	pattern = strings.ToUpper(strings.TrimSpace(pattern))
	if len(pattern) != 4 {
		return b, fmt.Errorf("%w: %q", ErrBayerPattern, pattern)
	}
	if strings.Count(pattern, "R") != 1 || strings.Count(pattern, "G") != 2 || strings.Count(pattern, "B") != 1 {
		return b, fmt.Errorf("%w: %q", ErrBayerPattern, pattern)
	}

	copy(b[:], pattern)
	return b, nil
}

func (b bayer) at(row, col int) byte {
	return b[(row%2)*2+col%2]
}

func channelIndex(c byte) int {
	switch c {
	case 'R':
		return 0
	case 'G':
		return 1
	default:
		return 2
	}
}

// debayer demosaics a height x width plane of scaled sensor values with
// bilinear interpolation. Each missing channel is the average of the
// neighbours in the surrounding 3x3 window that carry that channel; on a
// 2x2 pattern that is the four edge or four corner neighbours, fewer at the
// borders. Values are in data order, row 0 first.
func debayer(pattern bayer, plane []float64, height, width int) [][3]float64 {
	out := make([][3]float64, len(plane))

	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			var sum [3]float64
			var count [3]int

			for dy := -1; dy <= 1; dy++ {
				y := row + dy
				if y < 0 || y >= height {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					x := col + dx
					if x < 0 || x >= width {
						continue
					}
					c := channelIndex(pattern.at(y, x))
					sum[c] += plane[y*width+x]
					count[c]++
				}
			}

			own := channelIndex(pattern.at(row, col))
			var rgb [3]float64
			for c := 0; c < 3; c++ {
				switch {
				case c == own:
					rgb[c] = plane[row*width+col]
				case count[c] > 0:
					rgb[c] = sum[c] / float64(count[c])
				}
			}
			out[row*width+col] = rgb
		}
	}

	return out
}
