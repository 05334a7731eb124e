package ports

//go:generate mockgen -source=chain.go -destination=mocks/chain_mock.go -package=mocks

import (
	"context"
	"math/big"

	"github.com/layer-3/walletbridge/core"
)

// ChainReader is the read-only contract surface of a chain family.
type ChainReader interface {
	UserDeposit(ctx context.Context, user string) (*big.Int, error)
	TotalDeposits(ctx context.Context) (*big.Int, error)
	UserCount(ctx context.Context) (uint64, error)
	Owner(ctx context.Context) (string, error)
	WithdrawalInfo(ctx context.Context) (core.WithdrawalConfig, error)
	Balance(ctx context.Context, address string) (*big.Int, error)
}

// TxBuilder turns an intent into signable transactions.
type TxBuilder interface {
	Plan(ctx context.Context, intent core.TransactionIntent, sender string) (core.Plan, error)
}

// TxWatcher looks up a broadcast transaction. found is false while the
// transaction is not yet included.
type TxWatcher interface {
	Receipt(ctx context.Context, hash string) (receipt core.Receipt, found bool, err error)
}

// Chain bundles the adapters of one chain family.
type Chain interface {
	ChainReader
	TxBuilder
	TxWatcher
}
