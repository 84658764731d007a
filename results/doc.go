// Package results collects the parsed runs of one dataset into accuracy and
// elapsed time matrices indexed by grid coordinates.
package results
