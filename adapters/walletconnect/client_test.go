package walletconnect

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(bridge string) *Client {
	return NewClient(Config{
		Bridge:     bridge,
		ClientMeta: PeerMeta{Name: "walletbridge", URL: "https://example.org"},
		Dial:       NewSocketDialer(zerolog.Nop()),
	}, zerolog.Nop())
}

func TestClient_PairRequestAndRemoteDisconnect(t *testing.T) {
	ctx := testContext(t)
	bridge := newRelay(t)
	client := newTestClient(bridge)
	defer client.Close()

	uri, err := client.CreateSession(ctx)
	require.NoError(t, err)

	parsed, err := ParseURI(uri.String())
	require.NoError(t, err)
	assert.Equal(t, uri, parsed)

	wallet := newTestWallet(t, ctx, parsed)
	wallet.answerSessionRequest(ctx, true, []string{"terra1wallet"})

	session, err := client.WaitForApproval(ctx)
	require.NoError(t, err)
	assert.True(t, session.Connected)
	assert.Equal(t, []string{"terra1wallet"}, session.Accounts)
	assert.Equal(t, 56, session.ChainID)
	assert.True(t, client.Connected())

	go func() {
		req := wallet.next(ctx)
		if req.Method != "post" {
			return
		}
		result, _ := json.Marshal(map[string]string{"txhash": "ABCDEF"})
		wallet.send(rpcMessage{ID: req.ID, JSONRPC: "2.0", Result: result})
	}()

	res, err := client.Request(ctx, "post", []any{map[string]any{"memo": "hi"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"txhash":"ABCDEF"}`, string(res))

	wallet.send(rpcRequest{ID: payloadID(), JSONRPC: "2.0", Method: methodSessionUpdate, Params: []sessionParams{{Approved: false}}})

	select {
	case ev := <-client.Events():
		assert.Equal(t, EventDisconnect, ev.Type)
	case <-ctx.Done():
		t.Fatal("disconnect event not received")
	}
	assert.False(t, client.Connected())
}

func TestClient_WalletErrorIsReturned(t *testing.T) {
	ctx := testContext(t)
	client := newTestClient(newRelay(t))
	defer client.Close()

	uri, err := client.CreateSession(ctx)
	require.NoError(t, err)
	wallet := newTestWallet(t, ctx, uri)
	wallet.answerSessionRequest(ctx, true, []string{"terra1wallet"})
	_, err = client.WaitForApproval(ctx)
	require.NoError(t, err)

	go func() {
		req := wallet.next(ctx)
		wallet.send(rpcMessage{ID: req.ID, JSONRPC: "2.0", Error: &RPCError{Code: 1, Message: "User rejected the request"}})
	}()

	_, err = client.Request(ctx, "post", []any{})
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, "User rejected the request", rpcErr.Message)
}

func TestClient_SessionRejected(t *testing.T) {
	ctx := testContext(t)
	client := newTestClient(newRelay(t))
	defer client.Close()

	uri, err := client.CreateSession(ctx)
	require.NoError(t, err)
	wallet := newTestWallet(t, ctx, uri)
	wallet.answerSessionRequest(ctx, false, nil)

	_, err = client.WaitForApproval(ctx)
	assert.ErrorIs(t, err, ErrSessionRejected)
	assert.False(t, client.Connected())
}

func TestClient_ApprovalTimeout(t *testing.T) {
	client := newTestClient(newRelay(t))
	defer client.Close()

	_, err := client.CreateSession(testContext(t))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = client.WaitForApproval(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_KillSessionNotifiesWallet(t *testing.T) {
	ctx := testContext(t)
	client := newTestClient(newRelay(t))

	uri, err := client.CreateSession(ctx)
	require.NoError(t, err)
	wallet := newTestWallet(t, ctx, uri)
	wallet.answerSessionRequest(ctx, true, []string{"0xabc"})
	session, err := client.WaitForApproval(ctx)
	require.NoError(t, err)

	require.NoError(t, client.KillSession(ctx))
	assert.False(t, client.Connected())

	update := wallet.next(ctx)
	assert.Equal(t, methodSessionUpdate, update.Method)
	var params []sessionParams
	require.NoError(t, json.Unmarshal(update.Params, &params))
	assert.False(t, params[0].Approved)

	// the persisted form can be restored into a fresh client
	restored := newTestClient(session.Bridge)
	defer restored.Close()
	require.NoError(t, restored.Restore(ctx, session))
	assert.True(t, restored.Connected())
}

func TestClient_RequestWithoutSession(t *testing.T) {
	client := newTestClient("https://bridge.invalid")
	_, err := client.Request(context.Background(), "post", nil)
	assert.ErrorIs(t, err, ErrNotConnected)
}
