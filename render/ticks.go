package render

import (
	"math"
	"strconv"
)

// NiceTicks returns at most n tick values between lo and hi, spaced by
// 1, 2 or 5 times a power of ten.
func NiceTicks(lo, hi float64, n int) []float64 {
	if !(hi > lo) || n < 2 || math.IsInf(hi-lo, 0) {
		return []float64{lo}
	}

	step := tickStep(lo, hi, n)
	start := math.Ceil(lo/step) * step
	eps := step * 1e-9

	var ticks []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > hi+eps {
			break
		}
		// snap to the step grid; also turns -0 into 0
		v = math.Round(v/step)*step + 0
		ticks = append(ticks, v)
	}

	return ticks
}

func tickStep(lo, hi float64, n int) float64 {
	span := niceNum(hi-lo, false)
	return niceNum(span/float64(n-1), true)
}

func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)

	var nf float64
	if round {
		switch {
		case f < 1.5:
			nf = 1
		case f < 3:
			nf = 2
		case f < 7:
			nf = 5
		default:
			nf = 10
		}
	} else {
		switch {
		case f <= 1:
			nf = 1
		case f <= 2:
			nf = 2
		case f <= 5:
			nf = 5
		default:
			nf = 10
		}
	}

	return nf * math.Pow(10, exp)
}

// formatTick prints v with just enough decimals for the tick spacing.
func formatTick(v, step float64) string {
	if math.Abs(v) >= 1e6 || (v != 0 && math.Abs(v) < 1e-4) {
		return strconv.FormatFloat(v, 'g', 4, 64)
	}

	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
	}

	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if s == "-0" {
		return "0"
	}
	return s
}
