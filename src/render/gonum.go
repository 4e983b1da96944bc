package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/iafilius/PersistencePlot/src/options"
)

// rightTriangleGlyph is a filled triangle pointing along +x.
type rightTriangleGlyph struct{}

func (rightTriangleGlyph) DrawGlyph(c *vgdraw.Canvas, sty vgdraw.GlyphStyle, pt vg.Point) {
	c.SetColor(sty.Color)
	r := sty.Radius
	var p vg.Path
	p.Move(vg.Point{X: pt.X - r, Y: pt.Y + r})
	p.Line(vg.Point{X: pt.X + r, Y: pt.Y})
	p.Line(vg.Point{X: pt.X - r, Y: pt.Y - r})
	p.Close()
	c.Fill(p)
}

func plotColor(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))}
}

func constantTicks(maxVal float64, bins int) plot.Ticker {
	ts := axisTicks(maxVal, bins)
	ticks := make([]plot.Tick, len(ts.Values))
	for i, v := range ts.Values {
		ticks[i] = plot.Tick{Value: v, Label: ts.Label(v)}
	}
	return plot.ConstantTicks(ticks)
}

// frame fixes both axes to [0,maxVal]; call it after every Add.
func frame(p *plot.Plot, maxVal float64, xBins, yBins int) {
	p.X.Min, p.X.Max = 0, maxVal
	p.Y.Min, p.Y.Max = 0, maxVal
	p.X.Tick.Marker = constantTicks(maxVal, xBins)
	p.Y.Tick.Marker = constantTicks(maxVal, yBins)
}

func gonumBarcode(in Input, cfg options.Config, xBins, yBins int) (*plot.Plot, error) {
	ds := in.Dataset
	p := plot.New()
	p.Title.Text = barcodeTitle(cfg)
	p.Legend.Top = false
	p.Legend.Left = true

	step := barcodeStep(in)
	var arrows []plotter.XY
	var arrowColors []color.Color
	for i, r := range in.Records {
		height := float64(i+1) * step
		end := barEnd(r, ds.MaxVal)
		col := plotColor(cfg.Colormap(ds.Fraction(r.Dim)), 1)
		l, err := plotter.NewLine(plotter.XYs{{X: r.Birth, Y: height}, {X: end, Y: height}})
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		l.LineStyle.Color = col
		l.LineStyle.Width = vg.Points(cfg.LineWidth)
		p.Add(l)
		if i == 0 || r.Dim != in.Records[i-1].Dim {
			p.Legend.Add(featureLabel(r.Dim), l)
		}
		if r.Infinite() {
			arrows = append(arrows, plotter.XY{X: end, Y: height})
			arrowColors = append(arrowColors, col)
		}
	}
	if len(arrows) > 0 {
		s, err := plotter.NewScatter(plotter.XYs(arrows))
		if err != nil {
			return nil, fmt.Errorf("infinite markers: %w", err)
		}
		s.GlyphStyle = vgdraw.GlyphStyle{Radius: vg.Points(3), Shape: rightTriangleGlyph{}}
		s.GlyphStyleFunc = func(i int) vgdraw.GlyphStyle {
			return vgdraw.GlyphStyle{Color: arrowColors[i], Radius: vg.Points(3), Shape: rightTriangleGlyph{}}
		}
		p.Add(s)
	}
	frame(p, ds.MaxVal, xBins, yBins)
	return p, nil
}

func gonumDiagram(in Input, cfg options.Config, xBins, yBins int) (*plot.Plot, error) {
	ds := in.Dataset
	p := plot.New()
	p.Title.Text = diagramTitle(cfg)
	p.Legend.Top = false
	p.Legend.Left = false

	for dim := 0; dim <= ds.MaxDim; dim++ {
		b := ds.Bucket(dim)
		if len(b.Finite) == 0 && len(b.Infinite) == 0 {
			continue
		}
		col := plotColor(cfg.Colormap(ds.Fraction(dim)), cfg.Alpha)
		var thumb plot.Thumbnailer
		if len(b.Finite) > 0 {
			pts := make(plotter.XYs, len(b.Finite))
			for i, pr := range b.Finite {
				pts[i] = plotter.XY{X: pr.Birth, Y: pr.Death}
			}
			s, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, fmt.Errorf("dimension %d: %w", dim, err)
			}
			s.GlyphStyle = vgdraw.GlyphStyle{Color: col, Radius: vg.Points(3), Shape: vgdraw.CircleGlyph{}}
			p.Add(s)
			thumb = s
		}
		if len(b.Infinite) > 0 {
			pts := make(plotter.XYs, len(b.Infinite))
			for i, x := range b.Infinite {
				pts[i] = plotter.XY{X: x, Y: ds.MaxVal}
			}
			s, err := plotter.NewScatter(pts)
			if err != nil {
				return nil, fmt.Errorf("dimension %d infinite: %w", dim, err)
			}
			s.GlyphStyle = vgdraw.GlyphStyle{Color: col, Radius: vg.Points(3.5), Shape: vgdraw.TriangleGlyph{}}
			p.Add(s)
			if thumb == nil {
				thumb = s
			}
		}
		p.Legend.Add(featureLabel(dim), thumb)
	}

	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: ds.MaxVal, Y: ds.MaxVal}})
	if err != nil {
		return nil, fmt.Errorf("diagonal: %w", err)
	}
	diag.LineStyle.Color = color.RGBA{B: 255, A: 255}
	diag.LineStyle.Width = vg.Points(1)
	p.Add(diag)
	frame(p, ds.MaxVal, xBins, yBins)
	return p, nil
}

func gonumChart(k chartKind, in Input, cfg options.Config, xBins, yBins int) (*plot.Plot, error) {
	if k == barcodeKind {
		return gonumBarcode(in, cfg, xBins, yBins)
	}
	return gonumDiagram(in, cfg, xBins, yBins)
}

// newCanvas returns a canvas for format; raster formats honour the configured DPI.
func newCanvas(w, h vg.Length, format string, dpi float64) (vg.CanvasWriterTo, error) {
	raster := func() *vgimg.Canvas {
		return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(int(math.Round(dpi))))
	}
	switch format {
	case "png":
		return vgimg.PngCanvas{Canvas: raster()}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: raster()}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: raster()}, nil
	}
	return vgdraw.NewFormattedCanvas(w, h, format)
}

// renderGonum draws the charts of fp onto one canvas, tiled left to right.
func renderGonum(in Input, cfg options.Config, fp figurePlan) ([]byte, error) {
	plots := make([]*plot.Plot, 0, len(fp.charts))
	for _, k := range fp.charts {
		p, err := gonumChart(k, in, cfg, fp.xBins, fp.yBins)
		if err != nil {
			return nil, err
		}
		plots = append(plots, p)
	}

	w := vg.Length(cfg.FigSize[0]) * vg.Inch
	h := vg.Length(cfg.FigSize[1]) * vg.Inch
	c, err := newCanvas(w, h, cfg.Format, cfg.DPI)
	if err != nil {
		return nil, err
	}
	dc := vgdraw.New(c)
	if len(plots) == 1 {
		plots[0].Draw(dc)
	} else {
		tiles := vgdraw.Tiles{Rows: 1, Cols: len(plots), PadX: vg.Millimeter * 4}
		canvases := plot.Align([][]*plot.Plot{plots}, tiles, dc)
		for i, p := range plots {
			p.Draw(canvases[0][i])
		}
	}

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%s encode: %w", cfg.Format, err)
	}
	return buf.Bytes(), nil
}
