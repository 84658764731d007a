package parse

import (
	"strconv"
	"strings"
)

const (
	accuracyPrefix = "Accuracy: "
	accuracySuffix = "%"
	elapsedPrefix  = "Elapsed: "
	elapsedSuffix  = "s"
	separator      = "+-"
)

// Stat is a mean with its standard deviation
type Stat struct {
	Mean   float64 `json:"mean"`
	Stddev float64 `json:"stddev"`
}

// Summary is what one cross validated run reports
type Summary struct {
	Accuracy Stat `json:"accuracy"` // percent
	Elapsed  Stat `json:"elapsed"`  // CPU seconds of training
}

// CrossValidation decodes cross validation mode output. Of the last three
// newline separated fields the final one must be empty (output ends with a
// newline); the other two are the accuracy and the elapsed line, in this order.
func CrossValidation(out string) (Summary, error) {
	var s Summary
	var lines = strings.Split(out, "\n")
	if len(lines) < 3 {
		return s, &ParseError{Mode: "cv", Reason: "fewer than 3 trailing lines"}
	}
	var tail = lines[len(lines)-3:]
	if tail[2] != "" {
		return s, &ParseError{Mode: "cv", Line: tail[2], Reason: "missing final newline"}
	}
	var err error
	if s.Accuracy, err = record(tail[0], accuracyPrefix, accuracySuffix); err != nil {
		return s, err
	}
	if s.Elapsed, err = record(tail[1], elapsedPrefix, elapsedSuffix); err != nil {
		return s, err
	}
	return s, nil
}

// record parses "<prefix><mean>+-<std><suffix>"
func record(line, prefix, suffix string) (st Stat, err error) {
	if len(line) < len(prefix)+len(suffix) ||
		!strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, suffix) {
		return st, &ParseError{Mode: "cv", Line: line, Reason: "expected " + prefix + "<mean>" + separator + "<std>" + suffix}
	}
	var body = line[len(prefix) : len(line)-len(suffix)]
	var parts = strings.Split(body, separator)
	if len(parts) != 2 {
		return st, &ParseError{Mode: "cv", Line: line, Reason: "expected exactly one " + separator}
	}
	if st.Mean, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return st, &ParseError{Mode: "cv", Line: line, Reason: "bad mean"}
	}
	if st.Stddev, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return st, &ParseError{Mode: "cv", Line: line, Reason: "bad standard deviation"}
	}
	return st, nil
}
