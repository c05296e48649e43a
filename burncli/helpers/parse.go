package helpers

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ShortAddress keeps the first 6 and last 4 characters of a base58 address.
func ShortAddress(address string) string {
	if len(address) > 10 {
		return address[:6] + "..." + address[len(address)-4:]
	}
	return address
}

// ParseAmount parses a smallest-unit token amount as returned by the RPC.
func ParseAmount(str string) (uint64, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, fmt.Errorf("empty amount")
	}
	amount, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric amount %q: %w", str, err)
	}
	return amount, nil
}

// FormatTokenAmount renders a raw amount with the mint's decimals, without
// trailing zeros, the same way the RPC fills uiAmountString.
func FormatTokenAmount(amount uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)).String()
}

// FormatLamports renders lamports as SOL with nine decimals.
func FormatLamports(lamports uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -9).StringFixed(9)
}
