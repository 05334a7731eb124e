package core

import (
	"github.com/shopspring/decimal"
)

const FeeDenom = "uluna"

// Gas limits for the cosmos contract. The chain offers no reliable
// simulation, so each operation gets a fixed ceiling.
const (
	GasLimitBase     uint64 = 200_000
	GasLimitDeposit  uint64 = 250_000
	GasLimitWithdraw uint64 = 200_000
	GasLimitOwner    uint64 = 150_000
)

// GasPrice is the price per gas unit in uluna.
var GasPrice = decimal.RequireFromString("28.325")

// GasLimitFor returns the gas ceiling for an intent kind.
func GasLimitFor(kind IntentKind) uint64 {
	switch kind {
	case IntentDeposit:
		return GasLimitDeposit
	case IntentWithdraw:
		return GasLimitWithdraw
	case IntentSetWithdrawalDestination, IntentOwnerWithdraw:
		return GasLimitOwner
	}
	return GasLimitBase
}

// FeeFor computes ceil(gasLimit * GasPrice) in uluna.
func FeeFor(kind IntentKind) Fee {
	limit := GasLimitFor(kind)
	amount := decimal.NewFromInt(int64(limit)).Mul(GasPrice).Ceil()
	return Fee{
		Amount:   []Coin{{Denom: FeeDenom, Amount: amount.String()}},
		GasLimit: limit,
	}
}
