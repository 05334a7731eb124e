package core

import (
	"time"
)

// WithdrawalConfig is the owner-configured timelock as read from the contract.
type WithdrawalConfig struct {
	Destination     string `json:"destination,omitempty"`
	UnlockTimestamp int64  `json:"unlock_timestamp"`
	IsConfigured    bool   `json:"is_configured"`
}

// Unlocked reports whether the owner withdrawal is permitted at now.
func (w WithdrawalConfig) Unlocked(now time.Time) bool {
	return now.Unix() >= w.UnlockTimestamp
}

// Depositor is one entry of the contract's user list.
type Depositor struct {
	Address string `json:"address"`
	Deposit string `json:"deposit"`
}

// Stats is the read model of one chain family.
type Stats struct {
	Family        ChainFamily      `json:"family"`
	TotalDeposits string           `json:"total_deposits"`
	UserCount     uint64           `json:"user_count"`
	Owner         string           `json:"owner,omitempty"`
	Withdrawal    WithdrawalConfig `json:"withdrawal"`
	Address       string           `json:"address,omitempty"`
	UserDeposit   string           `json:"user_deposit"`
	Balance       string           `json:"balance"`
	IsOwner       bool             `json:"is_owner"`
	Countdown     Countdown        `json:"countdown"`
	RefreshedAt   time.Time        `json:"refreshed_at"`
}
