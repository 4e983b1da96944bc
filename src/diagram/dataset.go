// Package diagram splits a sorted interval collection into per-dimension
// buckets and computes the shared plotting bounds.
package diagram

import (
	"errors"
	"math"
	"sort"

	"github.com/iafilius/PersistencePlot/src/intervals"
)

// Margin scales the largest coordinate to leave room around the data.
const Margin = 1.1

var ErrEmpty = errors.New("no intervals to plot")

// Pair is a finite (birth, death) point.
type Pair struct {
	Birth float64
	Death float64
}

// Bucket holds the features of one dimension.
type Bucket struct {
	Finite   []Pair
	Infinite []float64 // births of features that never die
}

// Dataset is the per-dimension view of a collection.
type Dataset struct {
	Buckets map[int]Bucket
	MaxVal  float64 // axis bound for both barcode and diagram
	MaxDim  int
}

// Group scans c once and seals a bucket each time the dimension increases.
// c must be sorted (intervals.Collection.Sort); unsorted input yields split
// buckets for the same dimension, the last one winning.
func Group(c intervals.Collection) (Dataset, error) {
	if len(c) == 0 {
		return Dataset{}, ErrEmpty
	}
	ds := Dataset{Buckets: make(map[int]Bucket)}
	var (
		finite   []Pair
		infinite []float64
		maxVal   float64
	)
	for i, r := range c {
		if r.Infinite() {
			infinite = append(infinite, r.Birth)
			maxVal = math.Max(maxVal, r.Birth)
		} else {
			finite = append(finite, Pair{Birth: r.Birth, Death: r.Death})
			maxVal = math.Max(maxVal, math.Max(r.Birth, r.Death))
		}
		if i == len(c)-1 || c[i+1].Dim > r.Dim {
			ds.Buckets[r.Dim] = Bucket{Finite: finite, Infinite: infinite}
			finite, infinite = nil, nil
		}
	}
	if maxVal > 0 {
		ds.MaxVal = maxVal * Margin
	} else {
		ds.MaxVal = 1
	}
	ds.MaxDim = c[len(c)-1].Dim
	return ds, nil
}

// Bucket returns the bucket for dim, empty when the dimension has no features.
func (ds Dataset) Bucket(dim int) Bucket { return ds.Buckets[dim] }

// Dims lists the dimensions that have features, ascending.
func (ds Dataset) Dims() []int {
	out := make([]int, 0, len(ds.Buckets))
	for d := range ds.Buckets {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// Fraction positions dim on the colour ramp: dim/MaxDim, or 0 for a single dimension.
func (ds Dataset) Fraction(dim int) float64 {
	if ds.MaxDim <= 0 {
		return 0
	}
	return float64(dim) / float64(ds.MaxDim)
}

// Count is the number of finite and infinite features in one dimension.
type Count struct {
	Dim      int
	Finite   int
	Infinite int
}

// Counts returns per-dimension feature counts in dimension order.
func (ds Dataset) Counts() []Count {
	dims := ds.Dims()
	out := make([]Count, 0, len(dims))
	for _, d := range dims {
		b := ds.Buckets[d]
		out = append(out, Count{Dim: d, Finite: len(b.Finite), Infinite: len(b.Infinite)})
	}
	return out
}
