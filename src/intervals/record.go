// Package intervals reads persistence interval files into sorted record
// collections.
//
// Two input formats are supported: the simple format (one "dim birth death"
// triple per line) and the tool-export format written by javaplex
// ("Dimension: k" headers followed by "[birth, death)" pairs).
package intervals

import (
	"math"
	"sort"
)

// Record is one persistence interval. Death is +Inf for features that never die.
type Record struct {
	Dim   int
	Birth float64
	Death float64
}

// Infinite reports whether the feature is unbounded.
func (r Record) Infinite() bool { return math.IsInf(r.Death, 1) }

// Collection is an ordered list of records.
type Collection []Record

func less(a, b Record) bool {
	if a.Dim != b.Dim {
		return a.Dim < b.Dim
	}
	if a.Birth != b.Birth {
		return a.Birth < b.Birth
	}
	// birth-death ascending puts longer (and infinite) bars first
	return a.Birth-a.Death < b.Birth-b.Death
}

// Sort orders the collection by (dimension, birth, birth-death) ascending.
func (c Collection) Sort() {
	sort.SliceStable(c, func(i, j int) bool { return less(c[i], c[j]) })
}

// IsSorted reports whether the collection is in Sort order.
func (c Collection) IsSorted() bool {
	return sort.SliceIsSorted(c, func(i, j int) bool { return less(c[i], c[j]) })
}

// Dims returns the distinct dimensions present, ascending. The collection must be sorted.
func (c Collection) Dims() []int {
	var out []int
	for i, r := range c {
		if i == 0 || r.Dim != c[i-1].Dim {
			out = append(out, r.Dim)
		}
	}
	return out
}
