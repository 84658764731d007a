// Package tool runs the external random forest binary in its two modes,
// feature ranking and cross validation, and returns its decoded standard output.
package tool
