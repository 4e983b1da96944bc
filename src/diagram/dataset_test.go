package diagram

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafilius/PersistencePlot/src/intervals"
)

func TestGroupScenario(t *testing.T) {
	c, err := intervals.Parse(strings.NewReader("0 1.0 2.0\n0 3.0 3.0\n1 0.5 inf\n"), intervals.SimpleFormat)
	require.NoError(t, err)
	ds, err := Group(c)
	require.NoError(t, err)

	require.Len(t, ds.Buckets, 2)
	assert.Equal(t, []Pair{{Birth: 1, Death: 2}}, ds.Bucket(0).Finite)
	assert.Empty(t, ds.Bucket(0).Infinite)
	assert.Empty(t, ds.Bucket(1).Finite)
	assert.Equal(t, []float64{0.5}, ds.Bucket(1).Infinite)
	assert.Equal(t, 1, ds.MaxDim)
	assert.InDelta(t, 2.2, ds.MaxVal, 1e-12)
}

func TestGroupSingleDimensionKeepsOrder(t *testing.T) {
	c := intervals.Collection{
		{Dim: 3, Birth: 0.4, Death: 0.6},
		{Dim: 3, Birth: 0.1, Death: 0.9},
		{Dim: 3, Birth: 0.1, Death: 0.2},
	}
	c.Sort()
	ds, err := Group(c)
	require.NoError(t, err)
	require.Equal(t, []int{3}, ds.Dims())
	assert.Equal(t, []Pair{{0.1, 0.9}, {0.1, 0.2}, {0.4, 0.6}}, ds.Bucket(3).Finite)
	assert.Empty(t, ds.Bucket(3).Infinite)
	assert.Empty(t, ds.Bucket(0).Finite)
	assert.Equal(t, 3, ds.MaxDim)
}

func TestGroupMaxValCoversInfiniteBirths(t *testing.T) {
	c := intervals.Collection{
		{Dim: 0, Birth: 0, Death: 1},
		{Dim: 1, Birth: 4, Death: math.Inf(1)},
	}
	ds, err := Group(c)
	require.NoError(t, err)
	assert.InDelta(t, 4.4, ds.MaxVal, 1e-12)
	for _, d := range ds.Dims() {
		b := ds.Bucket(d)
		for _, p := range b.Finite {
			assert.GreaterOrEqual(t, ds.MaxVal, Margin*p.Death)
			assert.GreaterOrEqual(t, ds.MaxVal, Margin*p.Birth)
		}
		for _, x := range b.Infinite {
			assert.GreaterOrEqual(t, ds.MaxVal, Margin*x)
		}
	}
}

func TestGroupAllZeroStillPositive(t *testing.T) {
	ds, err := Group(intervals.Collection{{Dim: 0, Birth: 0, Death: math.Inf(1)}})
	require.NoError(t, err)
	assert.Greater(t, ds.MaxVal, 0.0)
	assert.Equal(t, 0.0, ds.Fraction(0))
}

func TestGroupEmpty(t *testing.T) {
	_, err := Group(nil)
	require.ErrorIs(t, err, ErrEmpty)
}

func TestFractionAndCounts(t *testing.T) {
	c := intervals.Collection{
		{Dim: 0, Birth: 0, Death: 1},
		{Dim: 0, Birth: 0, Death: math.Inf(1)},
		{Dim: 2, Birth: 0.5, Death: 0.7},
	}
	ds, err := Group(c)
	require.NoError(t, err)
	assert.Equal(t, 0.5, ds.Fraction(1))
	assert.Equal(t, 1.0, ds.Fraction(2))
	assert.Equal(t, []Count{{Dim: 0, Finite: 1, Infinite: 1}, {Dim: 2, Finite: 1}}, ds.Counts())
}
