package render

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/iafilius/PersistencePlot/src/intervals"
	"github.com/iafilius/PersistencePlot/src/options"
)

const sample = `0 0 1.5
0 0 inf
1 0.5 1
1 0.25 2
2 1 inf
`

func sampleInput(t *testing.T) Input {
	t.Helper()
	c, err := intervals.Parse(strings.NewReader(sample), intervals.SimpleFormat)
	require.NoError(t, err)
	in, err := NewInput(c)
	require.NoError(t, err)
	return in
}

func config(t *testing.T, raw ...string) options.Config {
	t.Helper()
	cfg, err := options.Resolve(raw)
	require.NoError(t, err)
	return cfg
}

func TestParseSelection(t *testing.T) {
	for in, want := range map[string]Selection{"b": BarcodeOnly, "d": DiagramOnly, "bd": Both, "DB": Both} {
		got, err := ParseSelection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSelection("x")
	assert.Error(t, err)
}

func TestPlan(t *testing.T) {
	dual := config(t)
	fps := plan(dual, Both)
	require.Len(t, fps, 1)
	assert.Equal(t, "", fps[0].suffix)
	assert.Equal(t, []chartKind{barcodeKind, diagramKind}, fps[0].charts)
	assert.Equal(t, dualXBins, fps[0].xBins)

	split := config(t, "dual=no")
	fps = plan(split, Both)
	require.Len(t, fps, 2)
	assert.Equal(t, ".barcode", fps[0].suffix)
	assert.Equal(t, ".diagram", fps[1].suffix)
	assert.Equal(t, singleXBins, fps[1].xBins)

	fps = plan(dual, DiagramOnly)
	require.Len(t, fps, 1)
	assert.Equal(t, ".diagram", fps[0].suffix)
}

func TestBackendFor(t *testing.T) {
	b, err := backendFor(config(t, "format=png"))
	require.NoError(t, err)
	assert.Equal(t, options.BackendGoChart, b)

	b, err = backendFor(config(t))
	require.NoError(t, err)
	assert.Equal(t, options.BackendGonum, b)

	b, err = backendFor(config(t, "format=png", "backend=gonum"))
	require.NoError(t, err)
	assert.Equal(t, options.BackendGonum, b)

	_, err = backendFor(config(t, "format=svg", "backend=gochart"))
	assert.ErrorIs(t, err, ErrBackendFormat)
}

func TestAxisTicksRespectBinLimit(t *testing.T) {
	for _, bins := range []int{dualXBins, dualYBins} {
		for i := 1; i < 2000; i++ {
			maxVal := float64(i) * 0.0137
			ts := axisTicks(maxVal, bins)
			require.GreaterOrEqual(t, len(ts.Values), 2, "maxVal=%v bins=%d", maxVal, bins)
			require.LessOrEqual(t, len(ts.Values)-1, bins, "maxVal=%v bins=%d ticks=%v", maxVal, bins, ts.Values)
			require.Equal(t, 0.0, ts.Values[0])
			require.LessOrEqual(t, ts.Values[len(ts.Values)-1], maxVal*(1+1e-9))
		}
	}
}

func TestAxisTicksPickSmallestStep(t *testing.T) {
	ts := axisTicks(0.1781, 6)
	assert.InDelta(t, 0.05, ts.Step, 1e-12)
	assert.Len(t, ts.Values, 4)

	ts = axisTicks(2.2, 6)
	assert.InDelta(t, 0.5, ts.Step, 1e-12)
	assert.Len(t, ts.Values, 5)

	ts = axisTicks(1, 4)
	assert.InDelta(t, 0.25, ts.Step, 1e-12)
	assert.Len(t, ts.Values, 5)

	assert.Equal(t, []float64{0}, axisTicks(0, 6).Values)
	assert.Equal(t, []float64{0}, axisTicks(math.Inf(1), 6).Values)
}

func TestTickLabels(t *testing.T) {
	ts := axisTicks(0.1, 4)
	assert.InDelta(t, 0.025, ts.Step, 1e-12)
	assert.Equal(t, "0", ts.Label(0))
	assert.Equal(t, "0.025", ts.Label(0.025))
	assert.Equal(t, "0.100", ts.Label(0.1))

	ts = axisTicks(110, 6)
	assert.InDelta(t, 20, ts.Step, 1e-12)
	assert.Equal(t, "100", ts.Label(100))

	ts = axisTicks(2.2, 6)
	assert.Equal(t, "1.5", ts.Label(1.5))
}

func TestBarEndAndStep(t *testing.T) {
	in := sampleInput(t)
	assert.InDelta(t, in.Dataset.MaxVal/6, barcodeStep(in), 1e-12)
	assert.Equal(t, 2.0, barEnd(intervals.Record{Death: 2}, 5))
	assert.Equal(t, 5.0, barEnd(intervals.Record{Death: math.Inf(1)}, 5))
}

func TestRenderDualPNG(t *testing.T) {
	in := sampleInput(t)
	figs, err := Render(in, config(t, "format=png"), Both)
	require.NoError(t, err)
	require.Len(t, figs, 1)
	assert.Equal(t, "out.png", figs[0].Path("out"))

	img, err := png.Decode(bytes.NewReader(figs[0].Data))
	require.NoError(t, err)
	assert.Equal(t, 500, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
}

func TestRenderSplitPNG(t *testing.T) {
	in := sampleInput(t)
	figs, err := Render(in, config(t, "format=png", "dual=false", "figsize=(4, 3)"), Both)
	require.NoError(t, err)
	require.Len(t, figs, 2)
	assert.Equal(t, "out.barcode.png", figs[0].Path("out"))
	assert.Equal(t, "out.diagram.png", figs[1].Path("out"))
	for _, f := range figs {
		img, err := png.Decode(bytes.NewReader(f.Data))
		require.NoError(t, err)
		assert.Equal(t, 400, img.Bounds().Dx())
		assert.Equal(t, 300, img.Bounds().Dy())
	}
}

func TestRenderVectorFormats(t *testing.T) {
	in := sampleInput(t)
	cases := map[string]string{"eps": "%!PS", "svg": "<svg", "pdf": "%PDF"}
	for format, magic := range cases {
		figs, err := Render(in, config(t, "format="+format), Both)
		require.NoError(t, err, format)
		require.Len(t, figs, 1, format)
		assert.True(t, bytes.Contains(figs[0].Data, []byte(magic)), "%s output lacks %q", format, magic)
	}
}

func TestRenderGonumRaster(t *testing.T) {
	in := sampleInput(t)
	figs, err := Render(in, config(t, "format=png", "backend=gonum", "dpi=72"), BarcodeOnly)
	require.NoError(t, err)
	require.Len(t, figs, 1)
	assert.Equal(t, ".barcode", figs[0].Suffix)
	img, err := png.Decode(bytes.NewReader(figs[0].Data))
	require.NoError(t, err)
	assert.Equal(t, 360, img.Bounds().Dx())
}

func TestRenderSingleDimension(t *testing.T) {
	c := intervals.Collection{{Dim: 0, Birth: 0, Death: 1}, {Dim: 0, Birth: 0, Death: math.Inf(1)}}
	in, err := NewInput(c)
	require.NoError(t, err)
	for _, format := range []string{"png", "svg"} {
		_, err := Render(in, config(t, "format="+format, "title=one"), Both)
		require.NoError(t, err, format)
	}
}

func TestSave(t *testing.T) {
	base := filepath.Join(t.TempDir(), "iris")
	figs := []Figure{
		{Suffix: ".barcode", Format: "png", Data: []byte("a")},
		{Suffix: ".diagram", Format: "png", Data: []byte("b")},
	}
	paths, err := Save(figs, base)
	require.NoError(t, err)
	assert.Equal(t, []string{base + ".barcode.png", base + ".diagram.png"}, paths)
	b, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, "b", string(b))

	_, err = Save(figs, filepath.Join(t.TempDir(), "missing", "iris"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPreview(t *testing.T) {
	in := sampleInput(t)
	imgs, err := Preview(in, config(t, "dual=no"), Both, "sample.txt")
	require.NoError(t, err)
	require.Len(t, imgs, 2)
	assert.Equal(t, "Barcode", imgs[0].Name)
	assert.Equal(t, "Persistence Diagram", imgs[1].Name)

	imgs, err = Preview(in, config(t), Both, "")
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	assert.Equal(t, "Barcode & Diagram", imgs[0].Name)
}

func TestDrawCaption(t *testing.T) {
	in := sampleInput(t)
	img, err := renderGoChartImage(in, config(t), plan(config(t), DiagramOnly)[0])
	require.NoError(t, err)
	assert.Same(t, img, drawCaption(img, "  "))

	out := drawCaption(img, "caption")
	assert.Equal(t, img.Bounds(), out.Bounds())
	b := out.Bounds()
	r, g, bl, _ := out.At(b.Min.X+captionMargin+1, b.Max.Y-captionMargin-1).RGBA()
	assert.Less(t, r+g+bl, uint32(3*0xffff), "caption background darkens the corner")
}

func TestFitCaption(t *testing.T) {
	face := basicfont.Face7x13
	assert.Equal(t, "short.txt", fitCaption(face, "short.txt", 200))

	long := strings.Repeat("persistence_", 10) + "intervals.txt"
	got := fitCaption(face, long, 100)
	assert.True(t, strings.HasSuffix(got, "..."), got)
	assert.LessOrEqual(t, font.MeasureString(face, got).Ceil(), 100)
	assert.True(t, strings.HasPrefix(long, strings.TrimSuffix(got, "...")))

	assert.Equal(t, "", fitCaption(face, long, 5))
}

func TestDrawCaptionStaysInsideNarrowImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 40))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	out := drawCaption(img, strings.Repeat("wide caption ", 8))

	right := out.Bounds().Max.X - captionMargin/2
	r, g, bl, _ := out.At(right, out.Bounds().Max.Y-captionMargin-2).RGBA()
	assert.Equal(t, uint32(3*0xffff), r+g+bl, "strip ends before the right edge")
	r, g, bl, _ = out.At(captionMargin+1, out.Bounds().Max.Y-captionMargin-1).RGBA()
	assert.Less(t, r+g+bl, uint32(3*0xffff))
}
