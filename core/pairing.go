package core

import "time"

// Pairing is a pending WalletConnect session request awaiting approval.
type Pairing struct {
	BackendID BackendID `json:"backend"`
	URI       string    `json:"uri"`
	DeepLink  string    `json:"deep_link,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
