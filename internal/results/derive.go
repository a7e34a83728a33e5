package results

import (
	"cmp"
	"slices"
	"strconv"
)

// FormatPercentage renders x as a percentage with two decimals: 0.5 -> "50.00%".
func FormatPercentage(x float64) string {
	return strconv.FormatFloat(x*100, 'f', 2, 64) + "%"
}

// FormatBleuDisplay renders a [0,1] BLEU score on the conventional 0-100
// scale: 0.231 -> "23.10 (approx.)".
func FormatBleuDisplay(x float64) string {
	return strconv.FormatFloat(x*100, 'f', 2, 64) + " (approx.)"
}

// BestModel returns the name with the highest score. Ties go to the name that
// comes first in the mapping. An empty mapping yields "".
func BestModel(scores Scores) string {
	if len(scores) == 0 {
		return ""
	}
	ranked := slices.Clone(scores)
	slices.SortStableFunc(ranked, func(a, b Score) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return ranked[0].Name
}
