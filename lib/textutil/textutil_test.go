package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMoneyAmount(t *testing.T) {
	accepted := []string{
		"$12.34",
		"-$0.50",
		"$-2.50",
		"$0.00",
		"$1234567.89",
	}
	for _, s := range accepted {
		require.True(t, IsMoneyAmount(s), "expected %q to be accepted", s)
	}

	rejected := []string{
		"",
		"12.34",
		"$12.3",
		"$12.345",
		"$12",
		"$ 12.34",
		"$12.34 ",
		"USD 12.34",
		"$abc.de",
		"$12,34",
	}
	for _, s := range rejected {
		require.False(t, IsMoneyAmount(s), "expected %q to be rejected", s)
	}
}

func TestNormalizeSpace(t *testing.T) {
	require.Equal(t, "January 5, 2017", NormalizeSpace("\n\tJanuary  5,   2017 "))
	require.Equal(t, "Your credit", NormalizeSpace("Your\ncredit"))
	require.Equal(t, "", NormalizeSpace(" \t\n"))
}
