package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/PersistencePlot/src/options"
)

// chartColor converts a colour-map colour to a go-chart colour with the given opacity.
func chartColor(c colorful.Color, alpha float64) drawing.Color {
	r, g, b := c.Clamped().RGB255()
	return drawing.Color{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))}
}

// pointStyle returns a style that renders points only (no connecting line).
func pointStyle(col drawing.Color, radius float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    radius,
		DotColor:    col,
	}
}

// pointsToPixels converts a matplotlib-style width in points to pixels.
func pointsToPixels(pt, dpi float64) float64 { return pt * dpi / 72 }

func chartTicks(maxVal float64, bins int) []chart.Tick {
	ts := axisTicks(maxVal, bins)
	ticks := make([]chart.Tick, len(ts.Values))
	for i, v := range ts.Values {
		ticks[i] = chart.Tick{Value: v, Label: ts.Label(v)}
	}
	return ticks
}

func baseChart(title string, maxVal float64, w, h int, dpi float64, xBins, yBins int) chart.Chart {
	return chart.Chart{
		Title:      title,
		Width:      w,
		Height:     h,
		DPI:        dpi,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal},
			Ticks: chartTicks(maxVal, xBins),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal},
			Ticks: chartTicks(maxVal, yBins),
		},
	}
}

// barcodeChart builds one segment series per interval, bottom to top.
func barcodeChart(in Input, cfg options.Config, w, h, xBins, yBins int) chart.Chart {
	ds := in.Dataset
	ch := baseChart(barcodeTitle(cfg), ds.MaxVal, w, h, cfg.DPI, xBins, yBins)
	step := barcodeStep(in)
	width := pointsToPixels(cfg.LineWidth, cfg.DPI)

	var (
		entries []legendEntry
		arrows  []marker
	)
	for i, r := range in.Records {
		height := float64(i+1) * step
		end := barEnd(r, ds.MaxVal)
		col := chartColor(cfg.Colormap(ds.Fraction(r.Dim)), 1)
		ch.Series = append(ch.Series, chart.ContinuousSeries{
			Style:   chart.Style{StrokeColor: col, StrokeWidth: width},
			XValues: []float64{r.Birth, end},
			YValues: []float64{height, height},
		})
		if i == 0 || r.Dim != in.Records[i-1].Dim {
			entries = append(entries, legendEntry{Label: featureLabel(r.Dim), Color: col})
		}
		if r.Infinite() {
			arrows = append(arrows, marker{X: end, Y: height, Color: col, Shape: shapeRight})
		}
	}
	ch.Elements = []chart.Renderable{
		markers(arrows, ds.MaxVal, ds.MaxVal),
		legend(entries, cornerLowerLeft),
	}
	return ch
}

// diagramChart scatters (birth, death) per dimension with infinite features on the top edge.
func diagramChart(in Input, cfg options.Config, w, h, xBins, yBins int) chart.Chart {
	ds := in.Dataset
	ch := baseChart(diagramTitle(cfg), ds.MaxVal, w, h, cfg.DPI, xBins, yBins)
	radius := pointsToPixels(3, cfg.DPI)

	var (
		entries []legendEntry
		tops    []marker
	)
	for dim := 0; dim <= ds.MaxDim; dim++ {
		b := ds.Bucket(dim)
		if len(b.Finite) == 0 && len(b.Infinite) == 0 {
			continue
		}
		col := chartColor(cfg.Colormap(ds.Fraction(dim)), cfg.Alpha)
		if len(b.Finite) > 0 {
			xs := make([]float64, len(b.Finite))
			ys := make([]float64, len(b.Finite))
			for i, p := range b.Finite {
				xs[i], ys[i] = p.Birth, p.Death
			}
			if len(xs) == 1 {
				// go-chart wants two values; a repeated point draws the same dot
				xs, ys = append(xs, xs[0]), append(ys, ys[0])
			}
			ch.Series = append(ch.Series, chart.ContinuousSeries{Style: pointStyle(col, radius), XValues: xs, YValues: ys})
		}
		for _, x := range b.Infinite {
			tops = append(tops, marker{X: x, Y: ds.MaxVal, Color: col, Shape: shapeUp})
		}
		entries = append(entries, legendEntry{Label: featureLabel(dim), Color: col, Dot: true})
	}
	ch.Series = append(ch.Series, chart.ContinuousSeries{
		Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1},
		XValues: []float64{0, ds.MaxVal},
		YValues: []float64{0, ds.MaxVal},
	})
	ch.Elements = []chart.Renderable{
		markers(tops, ds.MaxVal, ds.MaxVal),
		legend(entries, cornerLowerRight),
	}
	return ch
}

func buildChart(k chartKind, in Input, cfg options.Config, w, h, xBins, yBins int) chart.Chart {
	if k == barcodeKind {
		return barcodeChart(in, cfg, w, h, xBins, yBins)
	}
	return diagramChart(in, cfg, w, h, xBins, yBins)
}

// renderGoChartImage renders the charts of fp and places them side by side.
func renderGoChartImage(in Input, cfg options.Config, fp figurePlan) (image.Image, error) {
	w, h := figurePixels(cfg.FigSize, cfg.DPI)
	panelW := w / len(fp.charts)
	panels := make([]image.Image, 0, len(fp.charts))
	for _, k := range fp.charts {
		ch := buildChart(k, in, cfg, panelW, h, fp.xBins, fp.yBins)
		var buf bytes.Buffer
		if err := ch.Render(chart.PNG, &buf); err != nil {
			return nil, fmt.Errorf("%s chart: %w", strings.TrimPrefix(k.suffix(), "."), err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return nil, fmt.Errorf("%s chart decode: %w", strings.TrimPrefix(k.suffix(), "."), err)
		}
		panels = append(panels, img)
	}
	if len(panels) == 1 {
		return panels[0], nil
	}
	return sideBySide(panels), nil
}

func renderGoChartPNG(in Input, cfg options.Config, fp figurePlan) ([]byte, error) {
	img, err := renderGoChartImage(in, cfg, fp)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// sideBySide joins panels left to right on a white background.
func sideBySide(panels []image.Image) *image.RGBA {
	width, height := 0, 0
	for _, p := range panels {
		b := p.Bounds()
		width += b.Dx()
		if b.Dy() > height {
			height = b.Dy()
		}
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	x := 0
	for _, p := range panels {
		b := p.Bounds()
		draw.Draw(out, image.Rect(x, 0, x+b.Dx(), b.Dy()), p, b.Min, draw.Over)
		x += b.Dx()
	}
	return out
}

const (
	captionMargin = 6
	captionPad    = 4
	ellipsis      = "..."
)

// fitCaption shortens text, ending it with "...", until it measures at most maxW pixels.
func fitCaption(face font.Face, text string, maxW int) string {
	if font.MeasureString(face, text).Ceil() <= maxW {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		s := string(runes[:n]) + ellipsis
		if font.MeasureString(face, s).Ceil() <= maxW {
			return s
		}
	}
	return ""
}

// drawCaption stamps text on a translucent strip at the bottom-left, cut to fit the image width.
func drawCaption(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	face := basicfont.Face7x13
	text = fitCaption(face, strings.TrimSpace(text), b.Dx()-2*(captionMargin+captionPad))
	if text == "" {
		return img
	}
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	x, y := b.Min.X+captionMargin+captionPad, b.Max.Y-captionMargin
	tw := font.MeasureString(face, text).Ceil()
	strip := image.Rect(x-captionPad, y-face.Metrics().Ascent.Ceil()-captionPad, x+tw+captionPad, y+captionPad/2)
	draw.Draw(rgba, strip, image.NewUniform(color.RGBA{A: 170}), image.Point{}, draw.Over)

	dr := &font.Drawer{Dst: rgba, Src: image.White, Face: face, Dot: fixed.P(x, y)}
	dr.DrawString(text)
	return rgba
}
