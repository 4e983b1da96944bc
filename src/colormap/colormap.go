// Package colormap is the registry of named colour ramps used to colour
// features by dimension. Every map takes a fraction in [0,1].
package colormap

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

// Func maps a fraction to a colour. Inputs outside [0,1] are clamped.
type Func func(t float64) colorful.Color

var ErrUnknown = errors.New("unknown colour map")

type constructor func() (Func, error)

var registry = map[string]constructor{
	"rainbow": static(rainbow),
	"jet":     static(jet),
	"hsv":     static(func(t float64) colorful.Color { return colorful.Hsv(360*t, 1, 1) }),
	"gray":    static(func(t float64) colorful.Color { return colorful.Color{R: t, G: t, B: t} }),
	// anchors sampled from the matplotlib perceptual maps
	"viridis": gradient("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"),
	"plasma":  gradient("#0d0887", "#7e03a8", "#cc4778", "#f89540", "#f0f921"),
	"magma":   gradient("#000004", "#3b0f70", "#8c2981", "#de4968", "#fe9f6d", "#fcfdbf"),

	"coolwarm":           fromColorMap(func() palette.ColorMap { return moreland.SmoothBlueRed() }),
	"purple_orange":      fromColorMap(func() palette.ColorMap { return moreland.SmoothPurpleOrange() }),
	"green_purple":       fromColorMap(func() palette.ColorMap { return moreland.SmoothGreenPurple() }),
	"blue_tan":           fromColorMap(func() palette.ColorMap { return moreland.SmoothBlueTan() }),
	"green_red":          fromColorMap(func() palette.ColorMap { return moreland.SmoothGreenRed() }),
	"blackbody":          fromColorMap(moreland.BlackBody),
	"extended_blackbody": fromColorMap(moreland.ExtendedBlackBody),
	"kindlmann":          fromColorMap(moreland.Kindlmann),
	"extended_kindlmann": fromColorMap(moreland.ExtendedKindlmann),
}

// brewerRamps are ColorBrewer schemes that ship a 9-class palette.
var brewerRamps = []string{
	"Blues", "Greens", "Greys", "Oranges", "Purples", "Reds",
	"YlGnBu", "YlOrRd", "Spectral", "RdYlBu", "RdBu", "PuOr",
}

func init() {
	for _, name := range brewerRamps {
		registry[name] = fromBrewer(name)
	}
}

// Lookup returns the colour map registered under name (case sensitive).
func Lookup(name string) (Func, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	f, err := ctor()
	if err != nil {
		return nil, fmt.Errorf("colour map %q: %w", name, err)
	}
	return f, nil
}

// Names lists the registered maps in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

func static(f Func) constructor {
	return func() (Func, error) {
		return func(t float64) colorful.Color { return f(clamp01(t)).Clamped() }, nil
	}
}

// rainbow follows matplotlib's "rainbow": r=|2t-0.5|, g=sin(pi t), b=cos(pi t/2).
func rainbow(t float64) colorful.Color {
	return colorful.Color{
		R: math.Abs(2*t - 0.5),
		G: math.Sin(math.Pi * t),
		B: math.Cos(math.Pi * t / 2),
	}
}

func jet(t float64) colorful.Color {
	return colorful.Color{
		R: clamp01(1.5 - math.Abs(4*t-3)),
		G: clamp01(1.5 - math.Abs(4*t-2)),
		B: clamp01(1.5 - math.Abs(4*t-1)),
	}
}

func gradient(hexes ...string) constructor {
	return func() (Func, error) {
		stops := make([]colorful.Color, len(hexes))
		for i, h := range hexes {
			c, err := colorful.Hex(h)
			if err != nil {
				return nil, err
			}
			stops[i] = c
		}
		return blend(stops), nil
	}
}

// blend interpolates evenly spaced stops in Lab space.
func blend(stops []colorful.Color) Func {
	return func(t float64) colorful.Color {
		t = clamp01(t)
		if len(stops) == 1 {
			return stops[0]
		}
		pos := t * float64(len(stops)-1)
		i := int(math.Floor(pos))
		if i >= len(stops)-1 {
			return stops[len(stops)-1]
		}
		return stops[i].BlendLab(stops[i+1], pos-float64(i)).Clamped()
	}
}

func toColorful(c color.Color) colorful.Color {
	cc, _ := colorful.MakeColor(c)
	return cc
}

func fromColorMap(mk func() palette.ColorMap) constructor {
	return func() (Func, error) {
		cm := mk()
		cm.SetMax(1)
		cm.SetMin(0)
		if d, ok := cm.(palette.DivergingColorMap); ok {
			d.SetConvergePoint(0.5)
		}
		return func(t float64) colorful.Color {
			c, err := cm.At(clamp01(t))
			if err != nil {
				// At only fails outside [Min,Max], which clamping rules out.
				return colorful.Color{}
			}
			return toColorful(c)
		}, nil
	}
}

func fromBrewer(name string) constructor {
	return func() (Func, error) {
		p, err := brewer.GetPalette(brewer.TypeAny, name, 9)
		if err != nil {
			return nil, err
		}
		cols := p.Colors()
		stops := make([]colorful.Color, len(cols))
		for i, c := range cols {
			stops[i] = toColorful(c)
		}
		return blend(stops), nil
	}
}
