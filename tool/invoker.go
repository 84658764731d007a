package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Metric flags understood by the tool
var metrics = map[string]string{
	"gini":    "--gini",
	"entropy": "--entropy",
	"error":   "--error",
}

// ValidMetric reports whether m is empty or a split metric the tool knows
func ValidMetric(m string) bool {
	_, ok := metrics[m]
	return m == "" || ok
}

// Invoker runs the tool synchronously, one process per call.
type Invoker struct {
	Path     string        // tool executable
	Dir      string        // working directory, empty means the current one
	MinSplit int           // -N value
	Folds    int           // --cv value in cross validation mode
	Metric   string        // optional split metric, see ValidMetric
	Timeout  time.Duration // per process, 0 disables
}

// RankingArgs builds: tool -M<trees> -F<features> -N<minsplit> [metric] dataset
func (inv *Invoker) RankingArgs(dataset string, trees, features int) []string {
	var args = inv.common(trees, features)
	return inv.finish(args, dataset)
}

// CrossValidatedArgs builds: tool -M<trees> -F<features> -N<minsplit> --cv <folds> [metric] dataset
func (inv *Invoker) CrossValidatedArgs(dataset string, trees, features int) []string {
	var args = inv.common(trees, features)
	args = append(args, "--cv", strconv.Itoa(inv.Folds))
	return inv.finish(args, dataset)
}

func (inv *Invoker) common(trees, features int) []string {
	return []string{
		inv.Path,
		"-M" + strconv.Itoa(trees),
		"-F" + strconv.Itoa(features),
		"-N" + strconv.Itoa(inv.MinSplit),
	}
}

func (inv *Invoker) finish(args []string, dataset string) []string {
	if flag := metrics[inv.Metric]; flag != "" {
		args = append(args, flag)
	}
	return append(args, dataset)
}

// RunRanking runs the tool without cross validation, in which mode it prints
// the feature importance ranking.
func (inv *Invoker) RunRanking(ctx context.Context, dataset string, trees, features int) (string, error) {
	return inv.run(ctx, inv.RankingArgs(dataset, trees, features))
}

// RunCrossValidated runs the tool in k-fold cross validation mode
func (inv *Invoker) RunCrossValidated(ctx context.Context, dataset string, trees, features int) (string, error) {
	return inv.run(ctx, inv.CrossValidatedArgs(dataset, trees, features))
}

func (inv *Invoker) run(ctx context.Context, args []string) (string, error) {
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		terr := &ToolError{
			Args:     args,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			terr.Err = ctxErr
			terr.Timeout = errors.Is(ctxErr, context.DeadlineExceeded)
			return "", terr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			terr.ExitCode = exitErr.ExitCode()
		}
		return "", terr
	}

	out, err := decodeASCII(stdout.Bytes())
	if err != nil {
		return "", &ToolError{Args: args, Err: err}
	}
	return out, nil
}

// decodeASCII rejects any byte with the high bit set
func decodeASCII(b []byte) (string, error) {
	for i, c := range b {
		if c >= 0x80 {
			return "", fmt.Errorf("byte 0x%02x at offset %d: %w", c, i, ErrNotASCII)
		}
	}
	return string(b), nil
}
