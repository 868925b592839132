package orderbook

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ParseUnits converts a human-readable amount ("0.1") into atomic units
// for a token with the given decimals. Fractional dust beyond the token's
// precision is truncated.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return d.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}

// FormatUnits converts an atomic-unit amount ("100000000000000000") into
// a human-readable decimal string for a token with the given decimals.
func FormatUnits(raw string, decimals int) (string, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", fmt.Errorf("invalid atomic amount %q: %w", raw, err)
	}
	return d.Shift(-int32(decimals)).String(), nil
}
