// Package persist writes sweep results under <root>/<dataset>/:
// rank_<trees>_<features>.tex fragments, accuracy.csv, elapsed.csv,
// manifest.json and optionally accuracy.png.
package persist
