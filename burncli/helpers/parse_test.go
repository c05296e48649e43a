package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "Tokenk...Q5DA", ShortAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"))
	assert.Equal(t, "short", ShortAddress("short"))
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), amount)

	for _, bad := range []string{"", "  ", "-1", "1.5", "abc", "18446744073709551616"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatTokenAmount(t *testing.T) {
	tests := []struct {
		amount   uint64
		decimals uint8
		want     string
	}{
		{0, 6, "0"},
		{1_500_000, 6, "1.5"},
		{123, 0, "123"},
		{1, 9, "0.000000001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTokenAmount(tt.amount, tt.decimals))
	}
}

func TestFormatLamports(t *testing.T) {
	assert.Equal(t, "0.002039280", FormatLamports(2_039_280))
	assert.Equal(t, "1.000000000", FormatLamports(1_000_000_000))
}
