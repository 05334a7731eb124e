package core

import (
	"fmt"
	"strings"
	"time"
)

// ChainFamily groups backends that share an account model.
type ChainFamily string

const (
	FamilyEVM    ChainFamily = "evm"
	FamilyCosmos ChainFamily = "cosmos"
)

// ParseFamily validates a family name.
func ParseFamily(s string) (ChainFamily, error) {
	switch f := ChainFamily(strings.ToLower(s)); f {
	case FamilyEVM, FamilyCosmos:
		return f, nil
	}
	return "", fmt.Errorf("unknown chain family %q: %w", s, ErrValidation)
}

// BackendID identifies one wallet integration.
type BackendID string

const (
	BackendMetaMask      BackendID = "metamask"
	BackendWalletConnect BackendID = "walletconnect"
	BackendStation       BackendID = "station"
	BackendTerraStation  BackendID = "terrastation"
	BackendLuncDash      BackendID = "luncdash"
)

// BackendKind is the connection mechanism behind a backend.
type BackendKind string

const (
	KindExtension     BackendKind = "extension"
	KindWalletConnect BackendKind = "walletconnect"
)

// ConnectionSession is what a backend persists between runs.
type ConnectionSession struct {
	BackendID  BackendID   `json:"backend_id"`
	Family     ChainFamily `json:"family"`
	Address    string      `json:"address"`
	RawSession string      `json:"raw_session,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Valid reports whether the session still carries a usable address.
func (s ConnectionSession) Valid() bool {
	return strings.TrimSpace(s.Address) != ""
}

// ActiveSession is the manager's view of the connected backend of a family.
type ActiveSession struct {
	ID          string      `json:"id"`
	BackendID   BackendID   `json:"backend"`
	Family      ChainFamily `json:"family"`
	Address     string      `json:"address"`
	ConnectedAt time.Time   `json:"connected_at"`
}

// SessionEventType enumerates session lifecycle notifications.
type SessionEventType string

const (
	SessionConnected       SessionEventType = "connected"
	SessionRestored        SessionEventType = "restored"
	SessionDisconnected    SessionEventType = "disconnected"
	SessionTerminated      SessionEventType = "terminated"
	SessionAccountsChanged SessionEventType = "accounts_changed"
)

// SessionEvent is published on every change of the active session.
type SessionEvent struct {
	Type      SessionEventType `json:"type"`
	SessionID string           `json:"session_id"`
	BackendID BackendID        `json:"backend"`
	Family    ChainFamily      `json:"family"`
	Address   string           `json:"address"`
	At        time.Time        `json:"at"`
}

// AccountFromCAIP10 returns the address part of a namespace:chainId:address
// identifier. Plain addresses are returned unchanged.
func AccountFromCAIP10(account string) string {
	parts := strings.Split(account, ":")
	if len(parts) == 3 {
		return parts[2]
	}
	return account
}
