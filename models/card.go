package models

import (
	"strconv"

	"github.com/samber/lo"
)

// Special cards that never contribute to the numeric average.
const (
	CardUnknown = "?"
	CardCoffee  = "coffee"
)

// Deck is the permitted card vocabulary for a vote.
var Deck = []string{"0", "1", "2", "3", "5", "8", "13", "21", "34", "55", "89", CardUnknown, CardCoffee}

func ValidCard(value string) bool {
	return lo.Contains(Deck, value)
}

// NumericCard parses a card into its numeric value. The second return is
// false for special cards like "?" and "coffee".
func NumericCard(value string) (float64, bool) {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
