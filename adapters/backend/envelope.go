package backend

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/layer-3/walletbridge/core"
)

var (
	cosmosHash = regexp.MustCompile(`^[0-9A-Fa-f]{64}$`)
	evmHash    = regexp.MustCompile(`^0x[0-9A-Fa-f]{64}$`)
)

// SignRequest is what an envelope strategy encodes into request params.
type SignRequest struct {
	Msgs []any
	Memo string
	Fee  *core.Fee
}

// Strategy is one way of wrapping a signing request for a wallet.
type Strategy struct {
	Name   string
	Method string
	Params func(req SignRequest) any
}

// CosmosStrategies lists the envelope shapes mobile Terra wallets have been
// seen to accept, in the order they are tried.
func CosmosStrategies() []Strategy {
	return []Strategy{
		{
			Name:   "tx-and-fee",
			Method: "post",
			Params: func(r SignRequest) any {
				return []any{map[string]any{"msgs": r.Msgs, "memo": r.Memo}, r.Fee}
			},
		},
		{
			Name:   "tx-with-fee",
			Method: "post",
			Params: func(r SignRequest) any {
				return []any{map[string]any{"msgs": r.Msgs, "memo": r.Memo, "fee": r.Fee}}
			},
		},
		{
			Name:   "positional",
			Method: "post",
			Params: func(r SignRequest) any {
				return []any{r.Msgs, r.Fee, r.Memo}
			},
		},
	}
}

// EVMStrategies sends each call as a plain eth_sendTransaction.
func EVMStrategies() []Strategy {
	return []Strategy{
		{
			Name:   "eth_sendTransaction",
			Method: "eth_sendTransaction",
			Params: func(r SignRequest) any { return r.Msgs },
		},
	}
}

// extractHash finds a transaction hash in a wallet response. Wallets answer
// with a bare string, {txhash}, {txHash}, {transactionHash} or one of those
// nested under "result".
func extractHash(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, isHash(s)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	for _, k := range []string{"txhash", "txHash", "transactionHash", "hash"} {
		if v, ok := obj[k]; ok {
			if h, ok := extractHash(v); ok {
				return h, true
			}
		}
	}
	if nested, ok := obj["result"]; ok {
		return extractHash(nested)
	}
	return "", false
}

func isHash(s string) bool {
	return cosmosHash.MatchString(s) || evmHash.MatchString(s)
}

// aminoMsgs converts cosmos messages for the wallet.
func aminoMsgs(msgs []core.Message) ([]any, error) {
	out := make([]any, 0, len(msgs))
	for _, m := range msgs {
		exec, ok := m.(core.ExecuteContract)
		if !ok {
			return nil, fmt.Errorf("unsupported %s message on cosmos backend", m.Family())
		}
		out = append(out, exec.AminoJSON())
	}
	return out, nil
}

func evmCall(m core.Message, from string) (core.EVMCall, error) {
	call, ok := m.(core.EVMCall)
	if !ok {
		return core.EVMCall{}, fmt.Errorf("unsupported %s message on evm backend", m.Family())
	}
	if call.From == "" {
		call.From = from
	}
	if !strings.EqualFold(call.From, from) {
		return core.EVMCall{}, fmt.Errorf("message sender %s differs from connected account", call.From)
	}
	return call, nil
}
