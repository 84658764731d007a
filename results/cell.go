package results

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neurlang/rfsweep/parse"
)

// Style selects how a mean and standard deviation are joined in a table cell
type Style string

const (
	Plain Style = "plain" // "92.50 ± 1.20"
	LaTeX Style = "latex" // "92.50 $ \pm $ 1.20"
)

var separators = map[Style]string{
	Plain: " ± ",
	LaTeX: ` $ \pm $ `,
}

// Valid reports whether s is a known style
func (s Style) Valid() bool {
	_, ok := separators[s]
	return ok
}

// Format renders a statistic with two decimals
func (s Style) Format(st parse.Stat) string {
	sep, ok := separators[s]
	if !ok {
		sep = separators[Plain]
	}
	return strconv.FormatFloat(st.Mean, 'f', 2, 64) + sep + strconv.FormatFloat(st.Stddev, 'f', 2, 64)
}

// ParseCell reads back a cell written in any style
func ParseCell(cell string) (st parse.Stat, err error) {
	for _, sep := range []string{separators[LaTeX], separators[Plain]} {
		mean, std, found := strings.Cut(cell, sep)
		if !found {
			continue
		}
		if st.Mean, err = strconv.ParseFloat(mean, 64); err != nil {
			return st, fmt.Errorf("cell %q: %w", cell, err)
		}
		if st.Stddev, err = strconv.ParseFloat(std, 64); err != nil {
			return st, fmt.Errorf("cell %q: %w", cell, err)
		}
		return st, nil
	}
	return st, fmt.Errorf("cell %q: no ± separator", cell)
}
