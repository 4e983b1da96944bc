package render

import (
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type markerShape int

const (
	shapeRight markerShape = iota
	shapeUp
)

// marker is a filled triangle at a data coordinate.
type marker struct {
	X, Y  float64
	Color drawing.Color
	Shape markerShape
}

const markerSize = 5

// dataToCanvas maps a data point in [0,maxX]x[0,maxY] onto the plotting box.
func dataToCanvas(cb chart.Box, x, y, maxX, maxY float64) (int, int) {
	px := cb.Left + int(x/maxX*float64(cb.Width()))
	py := cb.Bottom - int(y/maxY*float64(cb.Height()))
	return px, py
}

// markers draws triangles for features that never die.
func markers(ms []marker, maxX, maxY float64) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, _ chart.Style) {
		for _, m := range ms {
			x, y := dataToCanvas(cb, m.X, m.Y, maxX, maxY)
			r.SetFillColor(m.Color)
			r.SetStrokeColor(m.Color)
			r.SetStrokeWidth(1)
			switch m.Shape {
			case shapeRight:
				r.MoveTo(x-markerSize, y-markerSize)
				r.LineTo(x+markerSize, y)
				r.LineTo(x-markerSize, y+markerSize)
			default:
				r.MoveTo(x-markerSize, y+markerSize)
				r.LineTo(x, y-markerSize)
				r.LineTo(x+markerSize, y+markerSize)
			}
			r.Close()
			r.FillStroke()
		}
		r.ResetStyle()
	}
}

type corner int

const (
	cornerLowerLeft corner = iota
	cornerLowerRight
)

type legendEntry struct {
	Label string
	Color drawing.Color
	Dot   bool
}

// legend draws a boxed key anchored at a lower corner of the plotting area.
func legend(entries []legendEntry, at corner) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		if len(entries) == 0 {
			return
		}
		const (
			pad      = 6
			swatch   = 16
			gap      = 5
			fontSize = 8.0
		)
		r.SetFont(defaults.GetFont())
		r.SetFontSize(fontSize)
		r.SetFontColor(chart.ColorBlack)

		textW, lineH := 0, 0
		for _, e := range entries {
			tb := r.MeasureText(e.Label)
			if tb.Width() > textW {
				textW = tb.Width()
			}
			if tb.Height() > lineH {
				lineH = tb.Height()
			}
		}
		lineH += gap
		boxW := pad*2 + swatch + gap + textW
		boxH := pad*2 + lineH*len(entries) - gap

		left := cb.Left + pad
		if at == cornerLowerRight {
			left = cb.Right - pad - boxW
		}
		bottom := cb.Bottom - pad
		top := bottom - boxH

		r.SetFillColor(drawing.Color{R: 255, G: 255, B: 255, A: 220})
		r.SetStrokeColor(chart.ColorAlternateGray)
		r.SetStrokeWidth(1)
		r.MoveTo(left, top)
		r.LineTo(left+boxW, top)
		r.LineTo(left+boxW, bottom)
		r.LineTo(left, bottom)
		r.Close()
		r.FillStroke()

		for i, e := range entries {
			baseline := top + pad + lineH*i + lineH - gap
			mid := baseline - (lineH-gap)/2
			sx := left + pad
			if e.Dot {
				r.SetFillColor(e.Color)
				r.SetStrokeColor(e.Color)
				r.Circle(3, sx+swatch/2, mid)
				r.FillStroke()
			} else {
				r.SetStrokeColor(e.Color)
				r.SetStrokeWidth(2)
				r.MoveTo(sx, mid)
				r.LineTo(sx+swatch, mid)
				r.Stroke()
			}
			r.SetFontColor(chart.ColorBlack)
			r.Text(e.Label, sx+swatch+gap, baseline)
		}
		r.ResetStyle()
	}
}
