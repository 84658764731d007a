package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/klauspost/cpuid/v2"

	"github.com/neurlang/rfsweep/config"
	"github.com/neurlang/rfsweep/datasets"
	"github.com/neurlang/rfsweep/grid"
	"github.com/neurlang/rfsweep/parallel"
	"github.com/neurlang/rfsweep/parse"
	"github.com/neurlang/rfsweep/persist"
	"github.com/neurlang/rfsweep/results"
	"github.com/neurlang/rfsweep/tool"
)

// Runner invokes the tool in its two modes. *tool.Invoker is the real one.
type Runner interface {
	RunRanking(ctx context.Context, dataset string, trees, features int) (string, error)
	RunCrossValidated(ctx context.Context, dataset string, trees, features int) (string, error)
}

// Driver runs a configured sweep
type Driver struct {
	Config config.Config
	Runner Runner
	Writer *persist.Writer
	Logger *log.Logger
}

// New wires a driver running the configured tool and writing below the
// configured output directory. A nil logger discards log output.
func New(c config.Config, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Driver{
		Config: c,
		Runner: c.Invoker(),
		Writer: &persist.Writer{Root: c.OutputDir},
		Logger: logger,
	}
}

// Report is the outcome of one dataset
type Report struct {
	Dataset datasets.Descriptor
	Dir     string
	Table   *results.Table // nil unless the sweep completed
	Ranks   int            // rank files written
	Err     error
	Took    time.Duration
}

// Run sweeps every configured dataset. A failing dataset does not stop the
// others; the returned error joins all dataset failures.
func (d *Driver) Run(ctx context.Context) ([]Report, error) {
	var list = d.Config.Datasets
	var reports = make([]Report, len(list))
	parallel.ForEach(len(list), d.Config.DatasetPoolSize(), func(i int) {
		reports[i] = d.RunDataset(ctx, list[i])
	})

	var errs []error
	for _, r := range reports {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Dataset.Name, r.Err))
		}
	}
	return reports, errors.Join(errs...)
}

// RunDataset sweeps the grid of one dataset and persists what it produced
func (d *Driver) RunDataset(ctx context.Context, ds datasets.Descriptor) (rep Report) {
	var start = time.Now()
	rep.Dataset = ds
	defer func() { rep.Took = time.Since(start) }()

	g := grid.New(d.Config.TreeCounts, ds.Attributes)
	dir, err := d.Writer.Prepare(ds.Name)
	if err != nil {
		rep.Err = err
		return
	}
	rep.Dir = dir
	d.Logger.Printf("[%s] sweeping %d tree counts x features %v", ds.Name, g.Rows(), g.FeatureCounts)

	agg := results.NewAggregator(g, d.Config.CellStyle)
	rep.Err = parallel.ForEachErr(ctx, g.Len(), d.Config.PoolSize(), func(ctx context.Context, i int) error {
		return d.runPoint(ctx, ds.Name, g.At(i), agg)
	})

	// rankings of completed points are kept even when the sweep failed,
	// written in sweep order so a duplicated column ends with its last run
	for _, e := range agg.Ranks() {
		if err := d.Writer.WriteRank(ds.Name, e.Point, e.Rank); err != nil {
			rep.Err = errors.Join(rep.Err, err)
			break
		}
		rep.Ranks++
	}

	if rep.Err == nil {
		rep.Err = d.persistTable(ds.Name, agg, &rep)
	}

	if err := d.Writer.WriteManifest(d.manifest(ds, g, start, rep.Err)); err != nil {
		rep.Err = errors.Join(rep.Err, err)
	}

	if rep.Err != nil {
		d.Logger.Printf("[%s] FAILED: %v", ds.Name, rep.Err)
	} else {
		d.Logger.Printf("[%s] done in %v", ds.Name, time.Since(start).Round(time.Millisecond))
	}
	return
}

func (d *Driver) persistTable(dataset string, agg *results.Aggregator, rep *Report) error {
	t, err := agg.Table()
	if err != nil {
		return err
	}
	if err := d.Writer.WriteTable(dataset, t); err != nil {
		return err
	}
	if d.Config.Plot {
		if err := d.Writer.WritePlot(dataset, t); err != nil {
			return err
		}
	}
	rep.Table = t
	return nil
}

// runPoint runs ranking and cross validation of one grid point side by side
func (d *Driver) runPoint(ctx context.Context, dataset string, p grid.Point, agg *results.Aggregator) error {
	var (
		rank    parse.FeatureRank
		summary parse.Summary
	)
	err := parallel.ForEachErr(ctx, 2, 2, func(ctx context.Context, mode int) error {
		if mode == 0 {
			out, err := d.Runner.RunRanking(ctx, dataset, p.Trees, p.Features)
			if err != nil {
				return err
			}
			rank, err = parse.Ranking(out)
			return err
		}
		out, err := d.Runner.RunCrossValidated(ctx, dataset, p.Trees, p.Features)
		if err != nil {
			return err
		}
		summary, err = parse.CrossValidation(out)
		return err
	})
	if err != nil {
		return fmt.Errorf("trees=%d features=%d: %w", p.Trees, p.Features, err)
	}
	d.Logger.Printf("[%s] trees=%d features=%d accuracy %s elapsed %s", dataset, p.Trees, p.Features,
		results.Plain.Format(summary.Accuracy), results.Plain.Format(summary.Elapsed))
	return agg.Add(p, rank, summary)
}

func (d *Driver) manifest(ds datasets.Descriptor, g grid.Grid, start time.Time, err error) *persist.Manifest {
	m := &persist.Manifest{
		Dataset:    ds.Name,
		Attributes: ds.Attributes,
		Grid:       g,
		CPU:        cpuid.CPU.BrandName,
		Cores:      cpuid.CPU.PhysicalCores,
		Workers:    d.Config.PoolSize(),
		Started:    start,
		Finished:   time.Now(),
		Status:     "ok",
	}
	if inv, ok := d.Runner.(*tool.Invoker); ok && g.Len() > 0 {
		p := g.At(0)
		m.Ranking = inv.RankingArgs(ds.Name, p.Trees, p.Features)
		m.CrossVal = inv.CrossValidatedArgs(ds.Name, p.Trees, p.Features)
	}
	if err != nil {
		m.Status = "failed"
		m.Error = err.Error()
	}
	return m
}
