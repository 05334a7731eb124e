package ports

//go:generate mockgen -source=tokenizer.go -destination=mocks/tokenizer_mock.go -package=mocks

import (
	"time"

	"github.com/layer-3/walletbridge/core"
)

// Tokenizer converts between active sessions and connection tokens
type Tokenizer interface {
	SessionToToken(session core.ActiveSession, expiresAt time.Time) (string, error)
	TokenToSession(token string) (core.ActiveSession, error)
}
