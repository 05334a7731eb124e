package core

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Message is a chain-specific operation ready for signing.
type Message interface {
	Family() ChainFamily
}

// Coin is an amount of a native denomination in atomic units.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// Fee is the fee attached to a cosmos transaction.
type Fee struct {
	Amount   []Coin `json:"amount"`
	GasLimit uint64 `json:"gas"`
}

// MarshalJSON renders gas as a string, as amino JSON expects.
func (f Fee) MarshalJSON() ([]byte, error) {
	amount := f.Amount
	if amount == nil {
		amount = []Coin{}
	}
	return json.Marshal(struct {
		Amount []Coin `json:"amount"`
		Gas    string `json:"gas"`
	}{amount, new(big.Int).SetUint64(f.GasLimit).String()})
}

// EVMCall is a contract call on the EVM chain.
type EVMCall struct {
	From  string
	To    string
	Data  []byte
	Value *big.Int
	Gas   uint64
}

func (EVMCall) Family() ChainFamily { return FamilyEVM }

// TxObject renders the call as an eth_sendTransaction parameter.
func (c EVMCall) TxObject() map[string]string {
	obj := map[string]string{
		"from": c.From,
		"to":   c.To,
		"data": hexutil.Encode(c.Data),
	}
	if c.Value != nil && c.Value.Sign() > 0 {
		obj["value"] = hexutil.EncodeBig(c.Value)
	}
	if c.Gas > 0 {
		obj["gas"] = hexutil.EncodeUint64(c.Gas)
	}
	return obj
}

// ExecuteContract is a CosmWasm execute message.
type ExecuteContract struct {
	Sender   string
	Contract string
	Msg      json.RawMessage
	Funds    []Coin
}

func (ExecuteContract) Family() ChainFamily { return FamilyCosmos }

// AminoJSON renders the message in the legacy amino JSON form wallets sign.
func (m ExecuteContract) AminoJSON() map[string]any {
	funds := m.Funds
	if funds == nil {
		funds = []Coin{}
	}
	return map[string]any{
		"type": "wasm/MsgExecuteContract",
		"value": map[string]any{
			"sender":      m.Sender,
			"contract":    m.Contract,
			"execute_msg": m.Msg,
			"coins":       funds,
		},
	}
}

// Step is one transaction of a plan.
type Step struct {
	Label    string
	Messages []Message
	Fee      *Fee
}

// Plan is the ordered list of transactions needed to fulfil an intent.
// Each step must confirm before the next starts.
type Plan struct {
	Kind  IntentKind
	Steps []Step
}
