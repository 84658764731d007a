package persist

import (
	"fmt"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/neurlang/rfsweep/results"
)

const PlotFile = "accuracy.png"

// WritePlot renders mean accuracy as grouped bars: one group per feature
// candidate, one bar per tree count, with error bars for the deviation.
func (w *Writer) WritePlot(dataset string, t *results.Table) error {
	p := plot.New()
	p.Title.Text = dataset
	p.X.Label.Text = "features per split"
	p.Y.Label.Text = "accuracy (%)"
	p.Y.Min = 0
	p.Y.Max = 100

	const barWidth = 12
	var rows = t.Grid.Rows()
	for r := 0; r < rows; r++ {
		var values = make(plotter.Values, t.Grid.Cols())
		for c := range values {
			values[c] = t.Stats[r][c].Accuracy.Mean
		}
		bars, err := plotter.NewBarChart(values, vg.Points(barWidth))
		if err != nil {
			return fmt.Errorf("plot %s: %w", dataset, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(r)
		bars.Offset = vg.Points(barWidth * (float64(r) - float64(rows-1)/2))
		p.Add(bars)
		p.Legend.Add(strconv.Itoa(t.Grid.TreeCounts[r])+" trees", bars)
	}
	p.Legend.Top = true

	var names = make([]string, t.Grid.Cols())
	for c, f := range t.Grid.FeatureCounts {
		names[c] = strconv.Itoa(f)
	}
	p.NominalX(names...)

	return p.Save(6*vg.Inch, 4*vg.Inch, filepath.Join(w.Dir(dataset), PlotFile))
}

