package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/neurlang/rfsweep/config"
	"github.com/neurlang/rfsweep/datasets"
	"github.com/neurlang/rfsweep/results"
	"github.com/neurlang/rfsweep/sweep"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

var runFlags struct {
	config         string
	output         string
	tool           string
	workdir        string
	workers        int
	datasetWorkers int
	timeout        time.Duration
	plot           bool
	latex          bool
	datasets       []string
	logFile        string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the sweep over all configured datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, closer, err := cfg.Logger()
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reports, err := sweep.New(cfg, logger).Run(ctx)
		printSummary(reports)
		return err
	},
}

// loadConfig reads the config file and lets explicitly set flags override it
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(runFlags.config)
	if err != nil {
		return cfg, err
	}
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.OutputDir = runFlags.output
	}
	if f.Changed("tool") {
		cfg.Tool = runFlags.tool
	}
	if f.Changed("workdir") {
		cfg.WorkDir = runFlags.workdir
	}
	if f.Changed("workers") {
		cfg.Workers = runFlags.workers
	}
	if f.Changed("dataset-workers") {
		cfg.DatasetWorkers = runFlags.datasetWorkers
	}
	if f.Changed("timeout") {
		cfg.Timeout = runFlags.timeout
	}
	if f.Changed("plot") {
		cfg.Plot = runFlags.plot
	}
	if f.Changed("latex") && runFlags.latex {
		cfg.CellStyle = results.LaTeX
	}
	if f.Changed("log") {
		cfg.LogFile = runFlags.logFile
	}
	if cfg.Datasets, err = datasets.Select(cfg.Datasets, runFlags.datasets); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func printSummary(reports []sweep.Report) {
	for _, r := range reports {
		switch {
		case r.Err != nil:
			fmt.Printf("%-24s %s  %v\n", r.Dataset.Name, red.Sprint("FAILED"), r.Err)
		case r.Table != nil:
			fmt.Printf("%-24s %s  %dx%d grid, %d rankings, %v -> %s\n", r.Dataset.Name, green.Sprint("ok"),
				r.Table.Grid.Rows(), r.Table.Grid.Cols(), r.Ranks, r.Took.Round(time.Millisecond), cyan.Sprint(r.Dir))
		default:
			fmt.Printf("%-24s %s\n", r.Dataset.Name, yellow.Sprint("skipped"))
		}
	}
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.config, "config", "c", "", "config file (yaml, toml or json)")
	f.StringVarP(&runFlags.output, "output", "o", "", "experiment results directory")
	f.StringVar(&runFlags.tool, "tool", "", "random forest binary")
	f.StringVar(&runFlags.workdir, "workdir", "", "working directory of the binary")
	f.IntVarP(&runFlags.workers, "workers", "j", 0, "grid points run at once per dataset (0: physical cores)")
	f.IntVar(&runFlags.datasetWorkers, "dataset-workers", 1, "datasets swept at once")
	f.DurationVar(&runFlags.timeout, "timeout", 0, "per invocation timeout (0: none)")
	f.BoolVar(&runFlags.plot, "plot", false, "render accuracy.png per dataset")
	f.BoolVar(&runFlags.latex, "latex", false, "write cells as 'mean $ \\pm $ std'")
	f.StringSliceVarP(&runFlags.datasets, "dataset", "d", nil, "only sweep these datasets")
	f.StringVar(&runFlags.logFile, "log", "", "also append the log to this file")
	rootCmd.AddCommand(runCmd)
}
