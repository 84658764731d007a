// Package parse decodes the console output of the random forest tool.
//
// The output format is a narrow text contract. Line counts, prefixes and
// suffixes are checked exactly:
//
// Ranking mode prints a header line, one line per ranked feature (most
// important first) and a final newline. Ranking drops the header and the empty
// string after the final newline and keeps the rest verbatim.
//
// Cross validation mode ends with
//
//	Accuracy: <mean>+-<std>%
//	Elapsed: <mean>+-<std>s
//
// followed by a final newline. CrossValidation reads exactly these two lines.
package parse
