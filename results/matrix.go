package results

import (
	"fmt"
	"sync"

	"github.com/neurlang/rfsweep/grid"
	"github.com/neurlang/rfsweep/parse"
)

// Matrix is a table of formatted cells, rows are tree counts and columns are
// feature candidates.
type Matrix [][]string

// Table is the result of a completed sweep of one dataset
type Table struct {
	Grid     grid.Grid
	Accuracy Matrix
	Elapsed  Matrix
	// Stats keeps the parsed numbers behind each cell, same indexing
	Stats [][]parse.Summary
}

// Aggregator gathers the runs of one dataset. Add may be called concurrently
// and in any order; rows come out ordered by grid coordinates.
type Aggregator struct {
	grid  grid.Grid
	style Style

	mut   sync.Mutex
	done  []bool
	stats []parse.Summary
	ranks []parse.FeatureRank
}

// NewAggregator prepares an empty aggregator for g
func NewAggregator(g grid.Grid, style Style) *Aggregator {
	return &Aggregator{
		grid:  g,
		style: style,
		done:  make([]bool, g.Len()),
		stats: make([]parse.Summary, g.Len()),
		ranks: make([]parse.FeatureRank, g.Len()),
	}
}

// Add records both runs of point p. Adding the same point twice is an error.
func (a *Aggregator) Add(p grid.Point, rank parse.FeatureRank, s parse.Summary) error {
	if p.Row < 0 || p.Row >= a.grid.Rows() || p.Col < 0 || p.Col >= a.grid.Cols() {
		return fmt.Errorf("point %+v outside %dx%d grid", p, a.grid.Rows(), a.grid.Cols())
	}
	var i = p.Row*a.grid.Cols() + p.Col
	a.mut.Lock()
	defer a.mut.Unlock()
	if a.done[i] {
		return fmt.Errorf("point %+v added twice", p)
	}
	a.done[i] = true
	a.stats[i] = s
	a.ranks[i] = rank
	return nil
}

// RankEntry is a completed ranking with its grid point
type RankEntry struct {
	Point grid.Point
	Rank  parse.FeatureRank
}

// Ranks lists the completed rankings in sweep order
func (a *Aggregator) Ranks() (out []RankEntry) {
	a.mut.Lock()
	defer a.mut.Unlock()
	for i, ok := range a.done {
		if ok {
			out = append(out, RankEntry{Point: a.grid.At(i), Rank: a.ranks[i]})
		}
	}
	return
}

// Table builds both matrices. Only a complete sweep has a table, a row is
// never emitted partially.
func (a *Aggregator) Table() (*Table, error) {
	a.mut.Lock()
	defer a.mut.Unlock()

	var t = &Table{Grid: a.grid}
	for r := 0; r < a.grid.Rows(); r++ {
		var accRow = make([]string, 0, a.grid.Cols())
		var elRow = make([]string, 0, a.grid.Cols())
		var statRow = make([]parse.Summary, 0, a.grid.Cols())
		for c := 0; c < a.grid.Cols(); c++ {
			var i = r*a.grid.Cols() + c
			if !a.done[i] {
				return nil, fmt.Errorf("grid point %+v missing", a.grid.At(i))
			}
			accRow = append(accRow, a.style.Format(a.stats[i].Accuracy))
			elRow = append(elRow, a.style.Format(a.stats[i].Elapsed))
			statRow = append(statRow, a.stats[i])
		}
		t.Accuracy = append(t.Accuracy, accRow)
		t.Elapsed = append(t.Elapsed, elRow)
		t.Stats = append(t.Stats, statRow)
	}
	return t, nil
}
