package core

import (
	"fmt"
	"time"
)

// TxState is a step of the submission state machine.
type TxState string

const (
	TxBuilt        TxState = "built"
	TxSigning      TxState = "signing"
	TxBroadcasting TxState = "broadcasting"
	TxPending      TxState = "pending"
	TxConfirmed    TxState = "confirmed"
	TxFailed       TxState = "failed"
	TxRejected     TxState = "rejected"
)

// TxStatus is the externally visible projection of TxState.
type TxStatus string

const (
	StatusPending   TxStatus = "pending"
	StatusConfirmed TxStatus = "confirmed"
	StatusFailed    TxStatus = "failed"
)

var txTransitions = map[TxState][]TxState{
	TxBuilt:        {TxSigning},
	TxSigning:      {TxBroadcasting, TxRejected, TxFailed},
	TxBroadcasting: {TxPending, TxFailed},
	TxPending:      {TxConfirmed, TxFailed},
}

// Terminal reports whether no further transition is allowed.
func (s TxState) Terminal() bool {
	return s == TxConfirmed || s == TxFailed || s == TxRejected
}

// SubmittedTransaction tracks one signed transaction from build to settlement.
type SubmittedTransaction struct {
	Hash      string      `json:"hash,omitempty"`
	Family    ChainFamily `json:"family"`
	Kind      IntentKind  `json:"kind"`
	Step      string      `json:"step"`
	State     TxState     `json:"state"`
	Reason    string      `json:"reason,omitempty"`
	Log       string      `json:"log,omitempty"`
	Height    int64       `json:"height,omitempty"`
	GasUsed   uint64      `json:"gas_used,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewSubmittedTransaction starts tracking a built transaction.
func NewSubmittedTransaction(family ChainFamily, kind IntentKind, step string, now time.Time) *SubmittedTransaction {
	return &SubmittedTransaction{
		Family:    family,
		Kind:      kind,
		Step:      step,
		State:     TxBuilt,
		UpdatedAt: now,
	}
}

// Transition moves the transaction to the next state.
func (t *SubmittedTransaction) Transition(to TxState, now time.Time) error {
	if t.State.Terminal() {
		return fmt.Errorf("transaction already %s", t.State)
	}
	for _, allowed := range txTransitions[t.State] {
		if allowed == to {
			t.State = to
			t.UpdatedAt = now
			return nil
		}
	}
	return fmt.Errorf("invalid transition %s -> %s", t.State, to)
}

// Status projects the state onto pending, confirmed or failed.
func (t *SubmittedTransaction) Status() TxStatus {
	switch t.State {
	case TxConfirmed:
		return StatusConfirmed
	case TxFailed, TxRejected:
		return StatusFailed
	}
	return StatusPending
}

// Receipt is the chain's verdict on an included transaction.
type Receipt struct {
	Hash    string
	Code    uint32
	Log     string
	Height  int64
	GasUsed uint64
}

// Succeeded reports a zero result code.
func (r Receipt) Succeeded() bool {
	return r.Code == 0
}

// FailureLog returns the chain log or a generic message carrying the code.
func (r Receipt) FailureLog() string {
	if r.Log != "" {
		return r.Log
	}
	return fmt.Sprintf("Transaction failed with code %d", r.Code)
}
