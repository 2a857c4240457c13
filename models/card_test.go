package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidCard(t *testing.T) {
	req := require.New(t)

	for _, v := range Deck {
		req.True(ValidCard(v), v)
	}
	req.False(ValidCard("4"))
	req.False(ValidCard(""))
	req.False(ValidCard("coffee "))
}

func TestNumericCard(t *testing.T) {
	req := require.New(t)

	n, ok := NumericCard("13")
	req.True(ok)
	req.Equal(13.0, n)

	_, ok = NumericCard(CardUnknown)
	req.False(ok)
	_, ok = NumericCard(CardCoffee)
	req.False(ok)
}
