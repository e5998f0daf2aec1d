package chain

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		expected string
		wantErr  bool
	}{
		{name: "whole ether", amount: "1", decimals: 18, expected: "1000000000000000000"},
		{name: "fractional ether", amount: "0.01", decimals: 18, expected: "10000000000000000"},
		{name: "full precision wei", amount: "0.000000000000000001", decimals: 18, expected: "1"},
		{name: "usdc cents", amount: "12.34", decimals: 6, expected: "12340000"},
		{name: "leading dot", amount: ".5", decimals: 6, expected: "500000"},
		{name: "zero", amount: "0", decimals: 18, expected: "0"},
		{name: "negative", amount: "-2.5", decimals: 6, expected: "-2500000"},
		{name: "surrounding whitespace", amount: " 1.5 ", decimals: 6, expected: "1500000"},
		{name: "too many decimals", amount: "0.0000001", decimals: 6, wantErr: true},
		{name: "empty", amount: "", decimals: 18, wantErr: true},
		{name: "not a number", amount: "ten", decimals: 18, wantErr: true},
		{name: "two dots", amount: "1.2.3", decimals: 18, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUnits(tt.amount, tt.decimals)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		expected string
	}{
		{name: "one ether", amount: "1000000000000000000", decimals: 18, expected: "1.0"},
		{name: "one wei", amount: "1", decimals: 18, expected: "0.000000000000000001"},
		{name: "trailing zeros trimmed", amount: "1500000", decimals: 6, expected: "1.5"},
		{name: "zero keeps a fraction digit", amount: "0", decimals: 6, expected: "0.0"},
		{name: "sub-unit", amount: "340000", decimals: 6, expected: "0.34"},
		{name: "negative", amount: "-2500000", decimals: 6, expected: "-2.5"},
		{name: "zero decimals", amount: "42", decimals: 0, expected: "42.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := new(big.Int).SetString(tt.amount, 10)
			require.True(t, ok)
			assert.Equal(t, tt.expected, FormatUnits(amount, tt.decimals))
		})
	}
}

func TestFormatUnitsNil(t *testing.T) {
	assert.Equal(t, "0.0", FormatUnits(nil, 18))
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, amount := range []string{"1.0", "0.25", "1234.567891", "0.000001"} {
		parsed, err := ParseUnits(amount, TokenDecimals)
		require.NoError(t, err)
		assert.Equal(t, amount, FormatUnits(parsed, TokenDecimals))
	}
}
