package sweep

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/neurlang/rfsweep/config"
	"github.com/neurlang/rfsweep/datasets"
	"github.com/neurlang/rfsweep/parse"
	"github.com/neurlang/rfsweep/persist"
	"github.com/neurlang/rfsweep/results"
	"github.com/neurlang/rfsweep/tool"
)

type call struct {
	cv       bool
	dataset  string
	trees    int
	features int
}

// fakeRunner answers like the forest tool would, deterministically per grid point
type fakeRunner struct {
	mut    sync.Mutex
	calls  []call
	ranks  map[call]int
	fail   func(c call) error
	jitter bool
}

func (f *fakeRunner) record(c call) (int, error) {
	f.mut.Lock()
	f.calls = append(f.calls, c)
	if f.ranks == nil {
		f.ranks = make(map[call]int)
	}
	f.ranks[c]++
	n := f.ranks[c]
	f.mut.Unlock()
	if f.jitter {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
	}
	if f.fail != nil {
		return n, f.fail(c)
	}
	return n, nil
}

func (f *fakeRunner) RunRanking(ctx context.Context, dataset string, trees, features int) (string, error) {
	n, err := f.record(call{false, dataset, trees, features})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Feature ranking:\nrun_%d: %d\nother_feature: %d\n", n, trees, features), nil
}

func (f *fakeRunner) RunCrossValidated(ctx context.Context, dataset string, trees, features int) (string, error) {
	if _, err := f.record(call{true, dataset, trees, features}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Fold 1: whatever\nAccuracy: %d.5+-1.25%%\nElapsed: 0.%d+-0.01s\n", trees/10+features, features), nil
}

func (f *fakeRunner) count() int {
	f.mut.Lock()
	defer f.mut.Unlock()
	return len(f.calls)
}

func testConfig(t *testing.T, ds ...datasets.Descriptor) config.Config {
	c := config.Default()
	c.OutputDir = t.TempDir()
	c.Datasets = ds
	c.Workers = 1
	return c
}

func testDriver(c config.Config, r Runner) *Driver {
	d := New(c, nil)
	d.Runner = r
	return d
}

func TestRunDataset(t *testing.T) {
	c := testConfig(t, datasets.Descriptor{Name: "iris", Attributes: 4})
	r := &fakeRunner{}
	reports, err := testDriver(c, r).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	rep := reports[0]
	if rep.Table == nil {
		t.Fatal("no table")
	}
	if r.count() != 16 {
		t.Errorf("%d invocations, want 16", r.count())
	}

	acc, err := persist.ReadMatrix(filepath.Join(rep.Dir, persist.AccuracyFile))
	if err != nil {
		t.Fatal(err)
	}
	want := results.Matrix{
		{"6.50 ± 1.25", "8.50 ± 1.25", "8.50 ± 1.25", "7.50 ± 1.25"},
		{"11.50 ± 1.25", "13.50 ± 1.25", "13.50 ± 1.25", "12.50 ± 1.25"},
	}
	if !reflect.DeepEqual(acc, want) {
		t.Errorf("accuracy.csv = %v, want %v", acc, want)
	}
	el, err := persist.ReadMatrix(filepath.Join(rep.Dir, persist.ElapsedFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(el) != 2 || len(el[0]) != 4 || el[1][3] != "0.20 ± 0.01" {
		t.Errorf("elapsed.csv = %v", el)
	}

	// features 1,3,3,2: the duplicated column shares one file per tree count
	for _, name := range []string{"rank_50_1", "rank_50_3", "rank_50_2", "rank_100_1", "rank_100_3", "rank_100_2"} {
		if _, err := os.Stat(filepath.Join(rep.Dir, name+persist.RankExt)); err != nil {
			t.Error(err)
		}
	}
	if rep.Ranks != 8 {
		t.Errorf("%d rank writes, want 8", rep.Ranks)
	}
	data, _ := os.ReadFile(filepath.Join(rep.Dir, "rank_50_3.tex"))
	if !strings.Contains(string(data), `\item run\_2: 50`) {
		t.Errorf("duplicate column should keep the later run, got %q", data)
	}

	m, err := New(c, nil).Writer.ReadManifest("iris")
	if err != nil {
		t.Fatal(err)
	}
	if m.Status != "ok" || m.Grid.Cols() != 4 {
		t.Errorf("manifest %+v", m)
	}
}

func TestRunIdempotentDirectories(t *testing.T) {
	c := testConfig(t, datasets.Descriptor{Name: "lenses", Attributes: 4})
	for i := 0; i < 2; i++ {
		if _, err := testDriver(c, &fakeRunner{}).Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestRunToolFailureAbortsDataset(t *testing.T) {
	c := testConfig(t,
		datasets.Descriptor{Name: "iris", Attributes: 4},
		datasets.Descriptor{Name: "zoo", Attributes: 17},
	)
	c.DatasetWorkers = 2
	r := &fakeRunner{fail: func(c call) error {
		if c.dataset == "iris" && c.cv && c.trees == 100 && c.features == 3 {
			return &tool.ToolError{Args: []string{"train_and_test"}, ExitCode: 1}
		}
		return nil
	}}
	reports, err := testDriver(c, r).Run(context.Background())
	var terr *tool.ToolError
	if !errors.As(err, &terr) || terr.ExitCode != 1 {
		t.Fatalf("expected ToolError, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "iris: trees=100 features=3") {
		t.Errorf("error text %q", err.Error())
	}

	iris, zoo := reports[0], reports[1]
	if iris.Err == nil || iris.Table != nil {
		t.Errorf("iris should have failed: %+v", iris)
	}
	for _, name := range []string{persist.AccuracyFile, persist.ElapsedFile} {
		if _, err := os.Stat(filepath.Join(iris.Dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s written for a failed sweep", name)
		}
	}
	m, err := New(c, nil).Writer.ReadManifest("iris")
	if err != nil || m.Status != "failed" || m.Error == "" {
		t.Errorf("failed manifest %+v, %v", m, err)
	}

	// the other dataset is unaffected
	if zoo.Err != nil || zoo.Table == nil {
		t.Errorf("zoo should succeed: %v", zoo.Err)
	}

	// sequential pool: the two points after the failure never ran
	var irisCalls int
	r.mut.Lock()
	for _, c := range r.calls {
		if c.dataset == "iris" {
			irisCalls++
		}
	}
	r.mut.Unlock()
	if irisCalls != 12 {
		t.Errorf("%d iris invocations, want 12", irisCalls)
	}
}

type badOutput struct{ fakeRunner }

func (b *badOutput) RunCrossValidated(ctx context.Context, dataset string, trees, features int) (string, error) {
	return "Accuracy: 90+-1%\nElapsed: 1+-0\n", nil
}

func TestRunParseErrorAbortsDataset(t *testing.T) {
	c := testConfig(t, datasets.Descriptor{Name: "iris", Attributes: 4})
	_, err := testDriver(c, &badOutput{}).Run(context.Background())
	var perr *parse.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(c.OutputDir, "iris", persist.AccuracyFile)); !os.IsNotExist(err) {
		t.Error("accuracy.csv written after a parse error")
	}
}

func TestRunConcurrentDeterministic(t *testing.T) {
	ds := []datasets.Descriptor{{Name: "splice", Attributes: 60}, {Name: "crx", Attributes: 15}}

	seq := testConfig(t, ds...)
	seqReports, err := testDriver(seq, &fakeRunner{}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	par := testConfig(t, ds...)
	par.TreeCounts = []int{50, 100}
	par.Workers = 8
	par.DatasetWorkers = 2
	parReports, err := testDriver(par, &fakeRunner{jitter: true}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for i := range seqReports {
		if !reflect.DeepEqual(seqReports[i].Table.Accuracy, parReports[i].Table.Accuracy) ||
			!reflect.DeepEqual(seqReports[i].Table.Elapsed, parReports[i].Table.Elapsed) {
			t.Errorf("%s: concurrent tables differ", ds[i].Name)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	c := testConfig(t, datasets.Descriptor{Name: "iris", Attributes: 4})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeRunner{}
	_, err := testDriver(c, r).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v", err)
	}
	if r.count() != 0 {
		t.Errorf("%d invocations after cancel", r.count())
	}
}

func TestRunPlot(t *testing.T) {
	c := testConfig(t, datasets.Descriptor{Name: "zoo", Attributes: 17})
	c.Plot = true
	c.CellStyle = results.LaTeX
	reports, err := testDriver(c, &fakeRunner{}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(reports[0].Dir, persist.PlotFile)); err != nil {
		t.Error(err)
	}
	if cell := reports[0].Table.Accuracy[0][0]; !strings.Contains(cell, `$ \pm $`) {
		t.Errorf("latex style not applied: %q", cell)
	}
}

// TestRunWithTool goes through the real invoker against a shell script
func TestRunWithTool(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	script := filepath.Join(t.TempDir(), "train_and_test")
	body := `#!/bin/sh
case "$*" in
*--cv*) printf 'Fold 1: accuracy = 90%%\nAccuracy: 92.5+-1.2%%\nElapsed: 3.1+-0.05s\n' ;;
*) printf 'Feature importance:\npetal_width: 0.6\npetal_length: 0.3\n' ;;
esac
`
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}
	c := testConfig(t, datasets.Descriptor{Name: "iris", Attributes: 4})
	c.Tool = script
	c.Timeout = 10 * time.Second
	drv := New(c, nil)
	reports, err := drv.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := reports[0].Table.Accuracy[1][3]; got != "92.50 ± 1.20" {
		t.Errorf("cell %q", got)
	}
	m, err := drv.Writer.ReadManifest("iris")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.CrossVal) == 0 || m.CrossVal[len(m.CrossVal)-1] != "iris" {
		t.Errorf("manifest args %v", m.CrossVal)
	}
}
