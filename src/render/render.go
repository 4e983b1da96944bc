// Package render draws barcodes and persistence diagrams.
//
// PNG output and the preview images go through go-chart; vector and other
// raster formats (eps, pdf, svg, jpg, tiff) go through gonum/plot. Both
// backends draw the same two charts from the same inputs:
//
//   - Barcode: one horizontal bar per interval, stacked bottom to top in
//     collection order, infinite bars clipped at MaxVal with a ">" marker.
//   - Diagram: one point per finite interval at (birth, death), infinite
//     features as "^" markers on the top edge, and the y = x diagonal.
package render

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/iafilius/PersistencePlot/src/diagram"
	"github.com/iafilius/PersistencePlot/src/intervals"
	"github.com/iafilius/PersistencePlot/src/logging"
	"github.com/iafilius/PersistencePlot/src/options"
)

var ErrBackendFormat = errors.New("backend cannot write format")

// Selection chooses which charts to draw.
type Selection int

const (
	Both Selection = iota
	BarcodeOnly
	DiagramOnly
)

// ParseSelection maps the CLI values b, d and bd.
func ParseSelection(s string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bd", "db", "":
		return Both, nil
	case "b":
		return BarcodeOnly, nil
	case "d":
		return DiagramOnly, nil
	}
	return 0, fmt.Errorf("unknown plot selection %q (want b, d or bd)", s)
}

type chartKind int

const (
	barcodeKind chartKind = iota
	diagramKind
)

func (k chartKind) suffix() string {
	if k == barcodeKind {
		return ".barcode"
	}
	return ".diagram"
}

// figurePlan is one output figure: one chart, or both side by side.
type figurePlan struct {
	suffix string
	charts []chartKind
	xBins  int
	yBins  int
}

func plan(cfg options.Config, sel Selection) []figurePlan {
	var kinds []chartKind
	switch sel {
	case BarcodeOnly:
		kinds = []chartKind{barcodeKind}
	case DiagramOnly:
		kinds = []chartKind{diagramKind}
	default:
		kinds = []chartKind{barcodeKind, diagramKind}
	}
	if cfg.Dual && len(kinds) == 2 {
		xb, yb := tickBins(true)
		return []figurePlan{{suffix: "", charts: kinds, xBins: xb, yBins: yb}}
	}
	xb, yb := tickBins(false)
	out := make([]figurePlan, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, figurePlan{suffix: k.suffix(), charts: []chartKind{k}, xBins: xb, yBins: yb})
	}
	return out
}

// Input is the data every chart reads.
type Input struct {
	Records intervals.Collection
	Dataset diagram.Dataset
}

// NewInput groups records into a dataset.
func NewInput(c intervals.Collection) (Input, error) {
	ds, err := diagram.Group(c)
	if err != nil {
		return Input{}, err
	}
	return Input{Records: c, Dataset: ds}, nil
}

// Figure is one encoded output image.
type Figure struct {
	Suffix string // "", ".barcode" or ".diagram"
	Format string
	Data   []byte
}

// Path is base + suffix + "." + format.
func (f Figure) Path(base string) string {
	return base + f.Suffix + "." + f.Format
}

func backendFor(cfg options.Config) (options.Backend, error) {
	switch cfg.Backend {
	case options.BackendGoChart:
		if cfg.Format != "png" {
			return "", fmt.Errorf("%w: gochart writes png only, not %s", ErrBackendFormat, cfg.Format)
		}
		return options.BackendGoChart, nil
	case options.BackendGonum:
		return options.BackendGonum, nil
	}
	if cfg.Format == "png" {
		return options.BackendGoChart, nil
	}
	return options.BackendGonum, nil
}

// Render draws the selected charts in cfg.Format.
func Render(in Input, cfg options.Config, sel Selection) ([]Figure, error) {
	defer logging.TimeTrack(time.Now(), "render")
	backend, err := backendFor(cfg)
	if err != nil {
		return nil, err
	}
	var figs []Figure
	for _, fp := range plan(cfg, sel) {
		var data []byte
		switch backend {
		case options.BackendGoChart:
			data, err = renderGoChartPNG(in, cfg, fp)
		default:
			data, err = renderGonum(in, cfg, fp)
		}
		if err != nil {
			return nil, fmt.Errorf("render%s: %w", fp.suffix, err)
		}
		figs = append(figs, Figure{Suffix: fp.suffix, Format: cfg.Format, Data: data})
	}
	logging.Debugf("rendered %d figure(s) with %s backend", len(figs), backend)
	return figs, nil
}

// Save writes each figure next to base and returns the written paths.
func Save(figs []Figure, base string) ([]string, error) {
	paths := make([]string, 0, len(figs))
	for _, f := range figs {
		p := f.Path(base)
		if err := os.WriteFile(p, f.Data, 0o644); err != nil {
			return paths, err
		}
		logging.Infof("wrote %s", p)
		paths = append(paths, p)
	}
	return paths, nil
}

// PreviewImage is a rendered figure ready for display.
type PreviewImage struct {
	Name  string
	Image image.Image
}

// Preview renders the figures to images for on-screen display, regardless of
// cfg.Format. A non-empty caption is stamped at the bottom-left.
func Preview(in Input, cfg options.Config, sel Selection, caption string) ([]PreviewImage, error) {
	var out []PreviewImage
	for _, fp := range plan(cfg, sel) {
		img, err := renderGoChartImage(in, cfg, fp)
		if err != nil {
			return nil, fmt.Errorf("preview%s: %w", fp.suffix, err)
		}
		out = append(out, PreviewImage{Name: previewName(fp), Image: drawCaption(img, caption)})
	}
	return out, nil
}

func previewName(fp figurePlan) string {
	if len(fp.charts) == 2 {
		return "Barcode & Diagram"
	}
	if fp.charts[0] == barcodeKind {
		return "Barcode"
	}
	return "Persistence Diagram"
}

func barcodeTitle(cfg options.Config) string { return "Barcode" + cfg.TitleSuffix() }

func diagramTitle(cfg options.Config) string { return "Persistence Diagram" + cfg.TitleSuffix() }

func featureLabel(dim int) string { return fmt.Sprintf("%dD features", dim) }

// barcodeStep is the vertical spacing between bars.
func barcodeStep(in Input) float64 {
	return in.Dataset.MaxVal / float64(len(in.Records)+1)
}

// barEnd clips infinite deaths to the axis bound.
func barEnd(r intervals.Record, maxVal float64) float64 {
	if r.Infinite() {
		return maxVal
	}
	return r.Death
}
