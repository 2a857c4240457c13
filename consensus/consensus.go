// Package consensus turns a sequence of cast card values into the statistics
// shown after a reveal. Everything here is pure: no state, no clock, no I/O.
package consensus

import (
	"strconv"

	"github.com/samber/lo"
)

// Average returns the arithmetic mean of the numeric votes in the sequence.
// Non-numeric cards ("?", "coffee") are skipped. An empty numeric subset
// yields 0, not an error; callers that need to tell "no votes" apart from
// "average of zero" must check the vote count themselves.
func Average(votes []string) float64 {
	numeric := lo.FilterMap(votes, func(v string, _ int) (float64, bool) {
		n, err := strconv.ParseFloat(v, 64)
		return n, err == nil
	})
	if len(numeric) == 0 {
		return 0
	}
	return lo.Sum(numeric) / float64(len(numeric))
}

// Agreement measures consensus as a percentage over all votes, numeric or
// not: (1 - (distinct-1)/max(total-1, 1)) * 100. A single vote or an
// all-identical sequence scores 100; an all-distinct sequence approaches 0 as
// the sample grows. Empty input scores 0.
func Agreement(votes []string) float64 {
	total := len(votes)
	if total == 0 {
		return 0
	}
	distinct := len(lo.Uniq(votes))
	return (1 - float64(distinct-1)/float64(max(total-1, 1))) * 100
}

// Distribution counts how often each card value was cast.
func Distribution(votes []string) map[string]int {
	return lo.CountValues(votes)
}
