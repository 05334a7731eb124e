package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// RPCProvider reaches an injected wallet through its local JSON-RPC
// endpoint. Wallet errors keep their EIP-1193 codes via rpc.Error.
type RPCProvider struct {
	client *rpc.Client
}

// DialProvider connects to a provider endpoint (http, ws or ipc).
func DialProvider(ctx context.Context, endpoint string) (*RPCProvider, error) {
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("dial wallet provider: %w", err)
	}
	return &RPCProvider{client: client}, nil
}

func (p *RPCProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	var result json.RawMessage
	if err := p.client.CallContext(ctx, &result, method, params...); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *RPCProvider) Close() {
	p.client.Close()
}
