package render

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const maxTicks = 6

type label struct {
	text  string
	at    image.Point // top left
	scale int
}

func (lb label) bounds() image.Rectangle {
	w, h := textSize(lb.text, lb.scale)
	return image.Rect(lb.at.X, lb.at.Y, lb.at.X+w, lb.at.Y+h)
}

// layout holds pixel positions for every element of the figure. It is
// built around a panel at the origin, then shifted so the union of all
// elements plus padding starts at (0, 0).
type layout struct {
	size     image.Point
	panel    image.Rectangle
	colorbar image.Rectangle
	lines    []image.Rectangle
	labels   []label

	cbLo, cbHi float64
}

func newLayout(dpi, width, height int, vmin, vmax float64, opts Options) *layout {
	d := float64(dpi)
	pt := d / 72

	lineW := max(1, int(math.Round(0.8*pt)))
	tickLen := int(math.Round(3.5 * pt))
	tickPad := int(math.Round(3.5 * pt))
	titlePad := int(math.Round(6 * pt))
	tickScale := textScale(10, pt)
	titleScale := textScale(12, pt)

	// room for the image inside the default axes box, less the color bar
	boxW := 0.775 * figureWidthInches * d * 0.8
	boxH := 0.77 * figureHeightInches * d
	sc := math.Min(boxW/float64(width), boxH/float64(height))
	panelW := max(1, int(math.Round(float64(width)*sc)))
	panelH := max(1, int(math.Round(float64(height)*sc)))

	l := &layout{panel: image.Rect(0, 0, panelW, panelH)}
	p := l.panel

	cbGap := int(math.Round(0.05 * 0.775 * figureWidthInches * d))
	cbW := max(1, int(math.Round(float64(panelH)/20)))
	l.colorbar = image.Rect(p.Max.X+lineW+cbGap, p.Min.Y, p.Max.X+lineW+cbGap+cbW, p.Max.Y)

	l.lines = append(l.lines, frame(p, lineW)...)
	l.lines = append(l.lines, frame(l.colorbar, lineW)...)

	sx := float64(panelW) / float64(width)
	xs := NiceTicks(0, float64(width-1), maxTicks)
	xStep := tickSpacing(xs)
	for _, t := range xs {
		x := p.Min.X + int(math.Round((t+0.5)*sx))
		l.lines = append(l.lines, image.Rect(x-lineW/2, p.Max.Y+lineW, x-lineW/2+lineW, p.Max.Y+lineW+tickLen))
		text := formatTick(t, xStep)
		tw, _ := textSize(text, tickScale)
		l.labels = append(l.labels, label{
			text:  text,
			at:    image.Pt(x-tw/2, p.Max.Y+lineW+tickLen+tickPad),
			scale: tickScale,
		})
	}

	sy := float64(panelH) / float64(height)
	ys := NiceTicks(0, float64(height-1), maxTicks)
	yStep := tickSpacing(ys)
	for _, t := range ys {
		offset := int(math.Round((t + 0.5) * sy))
		y := p.Max.Y - offset
		if opts.Origin == OriginUpper {
			y = p.Min.Y + offset
		}
		l.lines = append(l.lines, image.Rect(p.Min.X-lineW-tickLen, y-lineW/2, p.Min.X-lineW, y-lineW/2+lineW))
		text := formatTick(t, yStep)
		tw, th := textSize(text, tickScale)
		l.labels = append(l.labels, label{
			text:  text,
			at:    image.Pt(p.Min.X-lineW-tickLen-tickPad-tw, y-th/2),
			scale: tickScale,
		})
	}

	l.cbLo, l.cbHi = vmin, vmax
	if l.cbHi <= l.cbLo {
		spread := math.Abs(l.cbLo) * 0.1
		if spread == 0 {
			spread = 0.1
		}
		l.cbLo, l.cbHi = l.cbLo-spread, l.cbHi+spread
	}

	cb := l.colorbar
	cs := NiceTicks(l.cbLo, l.cbHi, maxTicks)
	cStep := tickSpacing(cs)
	for _, t := range cs {
		y := cb.Max.Y - int(math.Round((t-l.cbLo)/(l.cbHi-l.cbLo)*float64(cb.Dy())))
		l.lines = append(l.lines, image.Rect(cb.Max.X+lineW, y-lineW/2, cb.Max.X+lineW+tickLen, y-lineW/2+lineW))
		text := formatTick(t, cStep)
		_, th := textSize(text, tickScale)
		l.labels = append(l.labels, label{
			text:  text,
			at:    image.Pt(cb.Max.X+lineW+tickLen+tickPad, y-th/2),
			scale: tickScale,
		})
	}

	if opts.Title != "" {
		tw, th := textSize(opts.Title, titleScale)
		l.labels = append(l.labels, label{
			text:  opts.Title,
			at:    image.Pt(p.Min.X+panelW/2-tw/2, p.Min.Y-lineW-titlePad-th),
			scale: titleScale,
		})
	}

	l.crop(int(math.Round(padInches * d)))

	return l
}

// crop shifts every element so the drawn content sits pad pixels from each
// edge and sizes the canvas to match.
func (l *layout) crop(pad int) {
	bbox := l.panel.Union(l.colorbar)
	for _, r := range l.lines {
		bbox = bbox.Union(r)
	}
	for _, lb := range l.labels {
		bbox = bbox.Union(lb.bounds())
	}

	shift := image.Pt(pad, pad).Sub(bbox.Min)

	l.panel = l.panel.Add(shift)
	l.colorbar = l.colorbar.Add(shift)
	for i := range l.lines {
		l.lines[i] = l.lines[i].Add(shift)
	}
	for i := range l.labels {
		l.labels[i].at = l.labels[i].at.Add(shift)
	}

	l.size = bbox.Size().Add(image.Pt(2*pad, 2*pad))
}

// frame returns the four bars of a border of width w around r.
func frame(r image.Rectangle, w int) []image.Rectangle {
	return []image.Rectangle{
		image.Rect(r.Min.X-w, r.Min.Y-w, r.Max.X+w, r.Min.Y),
		image.Rect(r.Min.X-w, r.Max.Y, r.Max.X+w, r.Max.Y+w),
		image.Rect(r.Min.X-w, r.Min.Y, r.Min.X, r.Max.Y),
		image.Rect(r.Max.X, r.Min.Y, r.Max.X+w, r.Max.Y),
	}
}

func tickSpacing(ticks []float64) float64 {
	if len(ticks) < 2 {
		return 1
	}
	return ticks[1] - ticks[0]
}

// textScale is the integer zoom of the 13 pixel bitmap face that comes
// closest to a font of size points.
func textScale(size, pt float64) int {
	return max(1, int(math.Round(size*pt/13)))
}

func textSize(s string, scale int) (int, int) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	h := face.Metrics().Height.Ceil()
	return w * scale, h * scale
}

func drawText(dst *image.RGBA, s string, at image.Point, scale int) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	h := face.Metrics().Height.Ceil()
	if w == 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  glyphs,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	r := image.Rect(at.X, at.Y, at.X+w*scale, at.Y+h*scale)
	xdraw.NearestNeighbor.Scale(dst, r, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}
