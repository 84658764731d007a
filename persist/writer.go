package persist

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neurlang/rfsweep/grid"
	"github.com/neurlang/rfsweep/parse"
	"github.com/neurlang/rfsweep/results"
)

const (
	RankExt      = ".tex"
	AccuracyFile = "accuracy.csv"
	ElapsedFile  = "elapsed.csv"
)

// Writer lays out output files below Root
type Writer struct {
	Root string
}

// Dir is the output directory of a dataset
func (w *Writer) Dir(dataset string) string {
	return filepath.Join(w.Root, dataset)
}

// Prepare creates the dataset directory with its parents. An existing
// directory is fine.
func (w *Writer) Prepare(dataset string) (string, error) {
	dir := w.Dir(dataset)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// RankPath is where the ranking of grid point p is stored
func (w *Writer) RankPath(dataset string, p grid.Point) string {
	return filepath.Join(w.Dir(dataset), p.ID()+RankExt)
}

// WriteRank stores a ranking as a LaTeX enumerate fragment
func (w *Writer) WriteRank(dataset string, p grid.Point, rank parse.FeatureRank) error {
	return writeFile(w.RankPath(dataset, p), func(f *os.File) error {
		_, err := f.WriteString(rank.Markup())
		return err
	})
}

// WriteTable stores the accuracy and elapsed matrices as two CSV files
func (w *Writer) WriteTable(dataset string, t *results.Table) error {
	if err := WriteMatrix(filepath.Join(w.Dir(dataset), AccuracyFile), t.Accuracy); err != nil {
		return err
	}
	return WriteMatrix(filepath.Join(w.Dir(dataset), ElapsedFile), t.Elapsed)
}

// WriteMatrix writes one row per line, CRLF terminated, quoting only when needed.
// The file appears complete or not at all.
func WriteMatrix(path string, m results.Matrix) error {
	return writeFile(path, func(f *os.File) error {
		cw := csv.NewWriter(f)
		cw.UseCRLF = true
		if err := cw.WriteAll(m); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return nil
	})
}

// ReadMatrix loads a matrix written by WriteMatrix
func ReadMatrix(path string) (results.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return results.Matrix(rows), nil
}

// writeFile fills a temporary file in the target directory and renames it over path
func writeFile(path string, fill func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
