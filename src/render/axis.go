package render

import (
	"math"
	"strconv"
)

// Tick bin counts per axis: the two-panel figure gets fewer x ticks because each panel is half as wide.
const (
	dualXBins   = 4
	dualYBins   = 6
	singleXBins = 6
	singleYBins = 6
)

func tickBins(dual bool) (int, int) {
	if dual {
		return dualXBins, dualYBins
	}
	return singleXBins, singleYBins
}

// figurePixels converts a figure size in inches to pixels, clamped to a readable minimum.
func figurePixels(size [2]float64, dpi float64) (int, int) {
	w := int(math.Round(size[0] * dpi))
	h := int(math.Round(size[1] * dpi))
	if w < 200 {
		w = 200
	}
	if h < 200 {
		h = 200
	}
	return w, h
}

// stepMantissas are the allowed leading factors of a tick step.
var stepMantissas = []float64{1, 2, 2.5, 5, 10}

// tickSet is a run of evenly spaced ticks from 0.
type tickSet struct {
	Values   []float64
	Step     float64
	decimals int
}

// Label formats v with just enough decimals to tell neighbouring ticks apart.
func (ts tickSet) Label(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', ts.decimals, 64)
}

// axisTicks picks the smallest 1/2/2.5/5/10 step that splits [0,maxVal]
// into at most bins intervals. Every tick lies inside the axis.
func axisTicks(maxVal float64, bins int) tickSet {
	if bins < 1 || !(maxVal > 0) || math.IsInf(maxVal, 0) {
		return tickSet{Values: []float64{0}}
	}
	mag := math.Pow(10, math.Floor(math.Log10(maxVal/float64(bins))))
	step, mantissa := 10*mag, 10.0
	for _, m := range stepMantissas {
		if math.Floor(maxVal/(m*mag)+1e-9) <= float64(bins) {
			step, mantissa = m*mag, m
			break
		}
	}
	n := int(math.Floor(maxVal/step + 1e-9))
	ts := tickSet{Step: step, decimals: stepDecimals(step, mantissa)}
	for i := 0; i <= n; i++ {
		v := float64(i) * step
		if v > maxVal {
			break
		}
		ts.Values = append(ts.Values, v)
	}
	return ts
}

func stepDecimals(step, mantissa float64) int {
	d := -int(math.Floor(math.Log10(step) + 1e-9))
	if mantissa == 2.5 {
		d++
	}
	if d < 0 {
		return 0
	}
	return d
}
