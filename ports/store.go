package ports

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

import (
	"context"

	"github.com/layer-3/walletbridge/core"
)

// SessionStore persists one connection session per storage key. Each
// backend owns its own key, so writes never contend.
type SessionStore interface {
	Save(ctx context.Context, key string, session core.ConnectionSession) error
	Load(ctx context.Context, key string) (core.ConnectionSession, error)
	Delete(ctx context.Context, key string) error
}
