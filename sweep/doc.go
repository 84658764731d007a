// Package sweep drives the experiment: for every dataset it runs the tool over
// the whole parameter grid, aggregates the parsed results and persists them.
//
// Grid points of a dataset run in a bounded pool; the first failure cancels the
// rest of that dataset only. Result tables are ordered by grid coordinates
// whatever the completion order, and are written only for a complete sweep.
package sweep
