package parse

import "strings"

// MinRankLines is the fewest ranking lines accepted
const MinRankLines = 2

// FeatureRank is the feature importance ranking of one run, most important first
type FeatureRank []string

// Ranking decodes ranking mode output. Postcondition: len(result) >= MinRankLines.
func Ranking(out string) (FeatureRank, error) {
	var lines = strings.Split(out, "\n")
	if last := lines[len(lines)-1]; last != "" {
		return nil, &ParseError{Mode: "ranking", Line: last, Reason: "missing final newline"}
	}
	if len(lines) < 2+MinRankLines {
		return nil, &ParseError{Mode: "ranking", Reason: "fewer than 2 ranking lines"}
	}
	return FeatureRank(lines[1 : len(lines)-1]), nil
}

// Markup renders the ranking as a LaTeX enumerate environment, one \item per
// line, with underscores escaped.
func (r FeatureRank) Markup() string {
	var b strings.Builder
	b.WriteString("\\begin{enumerate}\n")
	for i, line := range r {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("\\item ")
		b.WriteString(line)
	}
	b.WriteString("\n\\end{enumerate}")
	return strings.ReplaceAll(b.String(), "_", "\\_")
}
