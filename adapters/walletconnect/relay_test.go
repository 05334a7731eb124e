package walletconnect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// relay is a minimal in-process bridge: it forwards pub frames to topic
// subscribers and queues them until a subscriber shows up.
type relay struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	subs     map[string][]*relayConn
	queued   map[string][]SocketMessage
}

type relayConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (rc *relayConn) send(msg SocketMessage) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.conn.WriteJSON(msg)
}

func newRelay(t *testing.T) string {
	t.Helper()
	r := &relay{
		subs:   make(map[string][]*relayConn),
		queued: make(map[string][]SocketMessage),
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func (r *relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	rc := &relayConn{conn: conn}
	defer conn.Close()

	for {
		var msg SocketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "sub":
			r.mu.Lock()
			r.subs[msg.Topic] = append(r.subs[msg.Topic], rc)
			queued := r.queued[msg.Topic]
			delete(r.queued, msg.Topic)
			r.mu.Unlock()
			for _, q := range queued {
				rc.send(q)
			}
		case "pub":
			r.mu.Lock()
			subs := append([]*relayConn(nil), r.subs[msg.Topic]...)
			if len(subs) == 0 {
				r.queued[msg.Topic] = append(r.queued[msg.Topic], msg)
			}
			r.mu.Unlock()
			for _, s := range subs {
				s.send(msg)
			}
		}
	}
}

// testWallet plays the mobile wallet side of a session.
type testWallet struct {
	t        *testing.T
	tr       Transport
	key      []byte
	peerID   string
	clientID string
}

func newTestWallet(t *testing.T, ctx context.Context, uri URI) *testWallet {
	t.Helper()
	tr, err := DialSocket(ctx, uri.Bridge, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { tr.Close() })

	w := &testWallet{t: t, tr: tr, key: uri.Key, peerID: uuid.NewString()}
	require.NoError(t, tr.Subscribe(uri.Topic))
	require.NoError(t, tr.Subscribe(w.peerID))
	return w
}

func (w *testWallet) next(ctx context.Context) rpcMessage {
	w.t.Helper()
	select {
	case msg := <-w.tr.Incoming():
		var sealed EncryptedPayload
		require.NoError(w.t, json.Unmarshal([]byte(msg.Payload), &sealed))
		plain, err := Decrypt(sealed, w.key)
		require.NoError(w.t, err)
		var rpc rpcMessage
		require.NoError(w.t, json.Unmarshal(plain, &rpc))
		return rpc
	case <-ctx.Done():
		w.t.Fatal("wallet timed out waiting for a message")
		return rpcMessage{}
	}
}

func (w *testWallet) send(v any) {
	w.t.Helper()
	plain, err := json.Marshal(v)
	require.NoError(w.t, err)
	sealed, err := Encrypt(plain, w.key)
	require.NoError(w.t, err)
	payload, err := json.Marshal(sealed)
	require.NoError(w.t, err)
	require.NoError(w.t, w.tr.Publish(w.clientID, string(payload), true))
}

// answerSessionRequest reads the session request and approves or rejects it.
func (w *testWallet) answerSessionRequest(ctx context.Context, approve bool, accounts []string) {
	w.t.Helper()
	req := w.next(ctx)
	require.Equal(w.t, methodSessionRequest, req.Method)

	var params []sessionRequestParams
	require.NoError(w.t, json.Unmarshal(req.Params, &params))
	require.Len(w.t, params, 1)
	w.clientID = params[0].PeerID

	if !approve {
		w.send(rpcMessage{ID: req.ID, JSONRPC: "2.0", Error: &RPCError{Message: "Session Rejected"}})
		return
	}

	chainID := 56
	result, err := json.Marshal(sessionParams{Approved: true, ChainID: &chainID, Accounts: accounts, PeerID: w.peerID})
	require.NoError(w.t, err)
	w.send(rpcMessage{ID: req.ID, JSONRPC: "2.0", Result: result})
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
