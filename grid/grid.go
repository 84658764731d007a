package grid

import (
	"fmt"
	"math"
)

// Candidates returns the feature-subset sizes tried for a dataset with the given
// number of attributes: 1, 3, floor(log2(n)+1) and round(sqrt(n)).
// Coinciding values are kept, so the result always has 4 columns.
// Panics if attributes < 1.
func Candidates(attributes int) []int {
	if attributes < 1 {
		panic("grid: attribute count must be positive")
	}
	var n = float64(attributes)
	return []int{
		1,
		3,
		int(math.Floor(math.Log2(n) + 1)),
		int(math.Round(math.Sqrt(n))),
	}
}

// Grid is the parameter grid of one dataset
type Grid struct {
	TreeCounts    []int `json:"tree_counts"`
	FeatureCounts []int `json:"feature_counts"`
}

// New builds the grid for a dataset with the given attribute count
func New(treeCounts []int, attributes int) Grid {
	return Grid{
		TreeCounts:    append([]int(nil), treeCounts...),
		FeatureCounts: Candidates(attributes),
	}
}

// Point is one (treeCount, featureCount) combination together with its
// coordinates in the result matrices.
type Point struct {
	Row, Col int
	Trees    int
	Features int
}

// ID is the per-run identifier, also the rank file's base name.
// Duplicate feature columns share an ID.
func (p Point) ID() string {
	return fmt.Sprintf("rank_%d_%d", p.Trees, p.Features)
}

// Rows is the number of tree counts
func (g Grid) Rows() int {
	return len(g.TreeCounts)
}

// Cols is the number of feature candidates
func (g Grid) Cols() int {
	return len(g.FeatureCounts)
}

// Len is the number of grid points
func (g Grid) Len() int {
	return g.Rows() * g.Cols()
}

// At maps a flat index in [0, Len()) to its point, row-major:
// tree counts outer, feature candidates inner.
func (g Grid) At(i int) Point {
	var row, col = i / g.Cols(), i % g.Cols()
	return Point{
		Row:      row,
		Col:      col,
		Trees:    g.TreeCounts[row],
		Features: g.FeatureCounts[col],
	}
}

// Points lists all grid points in sweep order
func (g Grid) Points() []Point {
	var out = make([]Point, 0, g.Len())
	for i := 0; i < g.Len(); i++ {
		out = append(out, g.At(i))
	}
	return out
}
