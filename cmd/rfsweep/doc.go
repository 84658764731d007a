// Package main provides rfsweep, which sweeps random forest hyperparameters over
// a list of datasets by running the external train_and_test binary, and writes
// accuracy and elapsed time tables plus feature rankings per dataset.
package main
