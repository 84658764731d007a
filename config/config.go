// Package config holds the sweep configuration and loads it from file and environment
package config

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/klauspost/cpuid/v2"

	"github.com/neurlang/rfsweep/datasets"
	"github.com/neurlang/rfsweep/results"
	"github.com/neurlang/rfsweep/tool"
)

type Config struct {
	Tool      string `mapstructure:"tool"`       // path of the random forest binary
	WorkDir   string `mapstructure:"workdir"`    // tool working directory, it finds its data relative to it
	OutputDir string `mapstructure:"output_dir"` // experiment results root

	MinSplit int    `mapstructure:"min_split"` // minimum instances to split a node (-N)
	Folds    int    `mapstructure:"folds"`     // cross validation folds (--cv)
	Metric   string `mapstructure:"metric"`    // optional split metric: gini, entropy or error

	TreeCounts []int                 `mapstructure:"tree_counts"`
	Datasets   []datasets.Descriptor `mapstructure:"datasets"`

	Workers        int           `mapstructure:"workers"`         // grid points run at once per dataset, 0 = physical cores
	DatasetWorkers int           `mapstructure:"dataset_workers"` // datasets swept at once
	Timeout        time.Duration `mapstructure:"timeout"`         // per tool invocation, 0 = wait forever

	CellStyle results.Style `mapstructure:"cell_style"` // plain or latex
	Plot      bool          `mapstructure:"plot"`       // render accuracy.png per dataset

	LogFile string `mapstructure:"log_file"` // append log here in addition to stderr
}

// DefaultTreeCounts are the forest sizes swept for every dataset
var DefaultTreeCounts = []int{50, 100}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Tool:           "./build/train_and_test",
		OutputDir:      "experiment_results",
		MinSplit:       10,
		Folds:          5,
		TreeCounts:     append([]int(nil), DefaultTreeCounts...),
		Datasets:       append([]datasets.Descriptor(nil), datasets.Default...),
		DatasetWorkers: 1,
		CellStyle:      results.Plain,
	}
}

// Validate reports the first problem found
func (c *Config) Validate() error {
	if c.Tool == "" {
		return errors.New("tool path is empty")
	}
	if c.OutputDir == "" {
		return errors.New("output directory is empty")
	}
	if c.MinSplit < 1 {
		return fmt.Errorf("min_split %d must be positive", c.MinSplit)
	}
	if c.Folds < 2 {
		return fmt.Errorf("folds %d must be at least 2", c.Folds)
	}
	if !tool.ValidMetric(c.Metric) {
		return fmt.Errorf("unknown metric %q", c.Metric)
	}
	if len(c.TreeCounts) == 0 {
		return errors.New("no tree counts")
	}
	for _, n := range c.TreeCounts {
		if n < 1 {
			return fmt.Errorf("tree count %d must be positive", n)
		}
	}
	if c.Workers < 0 || c.DatasetWorkers < 0 {
		return errors.New("worker counts must not be negative")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if !c.CellStyle.Valid() {
		return fmt.Errorf("unknown cell style %q", c.CellStyle)
	}
	return datasets.ValidateAll(c.Datasets)
}

// PoolSize is the number of grid points run concurrently per dataset
func (c *Config) PoolSize() int {
	if c.Workers > 0 {
		return c.Workers
	}
	if cpuid.CPU.PhysicalCores > 0 {
		return cpuid.CPU.PhysicalCores
	}
	return runtime.NumCPU()
}

// DatasetPoolSize is the number of datasets swept concurrently
func (c *Config) DatasetPoolSize() int {
	if c.DatasetWorkers > 0 {
		return c.DatasetWorkers
	}
	return 1
}

// Invoker builds the tool invoker described by c
func (c *Config) Invoker() *tool.Invoker {
	return &tool.Invoker{
		Path:     c.Tool,
		Dir:      c.WorkDir,
		MinSplit: c.MinSplit,
		Folds:    c.Folds,
		Metric:   c.Metric,
		Timeout:  c.Timeout,
	}
}
