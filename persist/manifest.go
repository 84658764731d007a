package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/neurlang/rfsweep/grid"
)

const ManifestFile = "manifest.json"

// Manifest records how a dataset's results were produced
type Manifest struct {
	Dataset    string    `json:"dataset"`
	Attributes int       `json:"attributes"`
	Grid       grid.Grid `json:"grid"`
	Ranking    []string  `json:"ranking_args"` // first grid point, as an example
	CrossVal   []string  `json:"cv_args"`
	CPU        string    `json:"cpu"`
	Cores      int       `json:"cores"`
	Workers    int       `json:"workers"`
	Started    time.Time `json:"started"`
	Finished   time.Time `json:"finished"`
	Status     string    `json:"status"` // "ok" or "failed"
	Error      string    `json:"error,omitempty"`
}

// WriteManifest stores m as indented JSON
func (w *Writer) WriteManifest(m *Manifest) error {
	return writeFile(filepath.Join(w.Dir(m.Dataset), ManifestFile), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	})
}

// ReadManifest loads a manifest written by WriteManifest
func (w *Writer) ReadManifest(dataset string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(w.Dir(dataset), ManifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
