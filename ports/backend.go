package ports

//go:generate mockgen -source=backend.go -destination=mocks/backend_mock.go -package=mocks

import (
	"context"
	"encoding/json"

	"github.com/layer-3/walletbridge/core"
)

// Backend is one wallet integration behind a uniform capability surface.
type Backend interface {
	ID() core.BackendID
	Family() core.ChainFamily
	Kind() core.BackendKind

	// Available reports whether Connect can be attempted at all.
	Available(ctx context.Context) bool
	Connect(ctx context.Context) (string, error)
	Disconnect(ctx context.Context) error
	// Restore silently brings back a persisted session. It returns
	// core.ErrSessionNotFound when there is nothing usable.
	Restore(ctx context.Context) (string, error)

	IsConnected() bool
	Address() string

	SignAndBroadcast(ctx context.Context, msgs []core.Message, memo string, fee *core.Fee) (string, error)

	SetListener(l SessionListener)
}

// SessionListener receives wallet-initiated session changes.
type SessionListener interface {
	SessionTerminated(id core.BackendID)
	AccountsChanged(id core.BackendID, address string)
}

// Provider is an injected wallet provider speaking the request/response
// pattern of EIP-1193.
type Provider interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// PairingPresenter shows a pairing URI to the user, as a QR code or deep link.
type PairingPresenter interface {
	ShowPairing(ctx context.Context, pairing core.Pairing) error
	ClosePairing(id core.BackendID)
}
