package core

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	EVMTokenDecimals    int32 = 18
	CosmosTokenDecimals int32 = 6
	CosmosTokenDenom          = "uusd"
)

// DecimalsFor returns the token decimals used on a chain family.
func DecimalsFor(family ChainFamily) int32 {
	if family == FamilyEVM {
		return EVMTokenDecimals
	}
	return CosmosTokenDecimals
}

// ToAtomicUnits scales a human decimal string to the token's smallest unit.
// Digits beyond the token precision are truncated, never rounded up.
func ToAtomicUnits(amount string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, NewError(ErrValidation, "amount must be a valid number")
	}
	if d.IsNegative() {
		return nil, NewError(ErrValidation, "amount must not be negative")
	}
	return d.Shift(decimals).Truncate(0).BigInt(), nil
}

// FromAtomicUnits renders an atomic amount in human units without trailing zeros.
func FromAtomicUnits(atomic *big.Int, decimals int32) string {
	if atomic == nil {
		return "0"
	}
	return decimal.NewFromBigInt(atomic, -decimals).String()
}

// FormatAmount renders an atomic amount truncated to the given number of
// fractional digits, padded with zeros.
func FormatAmount(atomic *big.Int, decimals int32, places int32) string {
	if atomic == nil {
		atomic = new(big.Int)
	}
	return decimal.NewFromBigInt(atomic, -decimals).Truncate(places).StringFixed(places)
}
