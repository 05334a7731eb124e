package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/layer-3/walletbridge/adapters/store"
	"github.com/layer-3/walletbridge/adapters/walletconnect"
	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
	"github.com/layer-3/walletbridge/ports/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testHash = "A1B2C3D4E5F60718293A4B5C6D7E8F90A1B2C3D4E5F60718293A4B5C6D7E8F90"

func newLuncDash(conn Connector, s ports.SessionStore, p ports.PairingPresenter) *WalletConnect {
	return NewWalletConnect(WalletConnectConfig{
		ID:         core.BackendLuncDash,
		Family:     core.FamilyCosmos,
		StorageKey: "luncdash.wcSession",
		DeepLink:   LuncDashDeepLink,
	}, conn, s, p, zerolog.Nop())
}

func depositMsg() []core.Message {
	return []core.Message{core.ExecuteContract{
		Sender:   "terra1wallet",
		Contract: "terra1contract",
		Msg:      json.RawMessage(`{"deposit":{}}`),
		Funds:    []core.Coin{{Denom: "uusd", Amount: "1000000"}},
	}}
}

func connected(t *testing.T, conn *fakeConnector) (*WalletConnect, ports.SessionStore) {
	t.Helper()
	s := store.NewMemoryStore()
	b := newLuncDash(conn, s, nil)
	_, err := b.Connect(context.Background())
	require.NoError(t, err)
	return b, s
}

func TestWalletConnect_Connect(t *testing.T) {
	ctx := context.Background()
	conn := newFakeConnector("cosmos:columbus-5:terra1wallet")
	s := store.NewMemoryStore()
	presenter := &fakePresenter{}
	b := newLuncDash(conn, s, presenter)

	address, err := b.Connect(ctx)
	require.NoError(t, err)
	assert.Equal(t, "terra1wallet", address)
	assert.True(t, b.IsConnected())

	saved, err := s.Load(ctx, "luncdash.wcSession")
	require.NoError(t, err)
	assert.Equal(t, "terra1wallet", saved.Address)
	assert.Contains(t, saved.RawSession, `"peerId":"peer"`)

	require.Len(t, presenter.shown, 1)
	assert.Contains(t, presenter.shown[0].DeepLink, "luncdash://wallet_connect?payload%3D")
	assert.Equal(t, []core.BackendID{core.BackendLuncDash}, presenter.closed)
}

func TestWalletConnect_ConnectTimeoutClearsState(t *testing.T) {
	ctx := context.Background()
	conn := newFakeConnector()
	conn.approve = func(ctx context.Context) (walletconnect.Session, error) {
		<-ctx.Done()
		return walletconnect.Session{}, ctx.Err()
	}
	s := store.NewMemoryStore()
	b := NewWalletConnect(WalletConnectConfig{
		ID:             core.BackendTerraStation,
		Family:         core.FamilyCosmos,
		ConnectTimeout: 50 * time.Millisecond,
	}, conn, s, nil, zerolog.Nop())

	_, err := b.Connect(ctx)
	assert.ErrorIs(t, err, core.ErrConnectionTimeout)
	assert.False(t, b.IsConnected())
	assert.Equal(t, 1, conn.closed)

	_, err = s.Load(ctx, "terrastation.wcSession")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestWalletConnect_ConnectCancelledLocally(t *testing.T) {
	conn := newFakeConnector()
	conn.approve = func(ctx context.Context) (walletconnect.Session, error) {
		<-ctx.Done()
		return walletconnect.Session{}, ctx.Err()
	}
	b := newLuncDash(conn, store.NewMemoryStore(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := b.Connect(ctx)
	assert.ErrorIs(t, err, core.ErrConnectionRejected)
	assert.False(t, b.IsConnected())
}

func TestWalletConnect_ConnectRejectedInWallet(t *testing.T) {
	conn := newFakeConnector()
	conn.approve = func(context.Context) (walletconnect.Session, error) {
		return walletconnect.Session{}, walletconnect.ErrSessionRejected
	}
	b := newLuncDash(conn, store.NewMemoryStore(), nil)

	_, err := b.Connect(context.Background())
	assert.ErrorIs(t, err, core.ErrConnectionRejected)
	assert.Equal(t, "info", core.Notice(err))
}

func TestWalletConnect_SignStopsOnRejection(t *testing.T) {
	conn := newFakeConnector("terra1wallet")
	b, _ := connected(t, conn)
	conn.responses = []fakeResponse{
		{err: &walletconnect.RPCError{Message: "User rejected the request"}},
		{result: `{"txhash":"` + testHash + `"}`},
	}

	fee := core.FeeFor(core.IntentDeposit)
	_, err := b.SignAndBroadcast(context.Background(), depositMsg(), "", &fee)
	assert.ErrorIs(t, err, core.ErrTransactionRejected)
	assert.Equal(t, 1, b.Attempts())
	assert.Len(t, conn.recorded(), 1)
}

func TestWalletConnect_SignFallsBackThroughShapes(t *testing.T) {
	conn := newFakeConnector("terra1wallet")
	b, _ := connected(t, conn)
	conn.responses = []fakeResponse{
		{err: &walletconnect.RPCError{Message: "invalid params"}},
		{result: `{"success":true}`},
		{result: `{"result":{"txHash":"` + testHash + `"}}`},
	}

	fee := core.FeeFor(core.IntentDeposit)
	hash, err := b.SignAndBroadcast(context.Background(), depositMsg(), "memo", &fee)
	require.NoError(t, err)
	assert.Equal(t, testHash, hash)
	assert.Equal(t, 3, b.Attempts())

	reqs := conn.recorded()
	require.Len(t, reqs, 3)
	for _, r := range reqs {
		assert.Equal(t, "post", r.Method)
	}

	var first []json.RawMessage
	require.NoError(t, json.Unmarshal(reqs[0].Params, &first))
	require.Len(t, first, 2)
	assert.Contains(t, string(first[0]), `"memo":"memo"`)
	assert.Contains(t, string(first[1]), `"gas":"250000"`)

	var second []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(reqs[1].Params, &second))
	require.Len(t, second, 1)
	assert.Contains(t, second[0], "fee")

	var third []json.RawMessage
	require.NoError(t, json.Unmarshal(reqs[2].Params, &third))
	require.Len(t, third, 3)
	assert.Contains(t, string(third[0]), "wasm/MsgExecuteContract")
}

func TestWalletConnect_SignFormatUnsupported(t *testing.T) {
	conn := newFakeConnector("terra1wallet")
	b, _ := connected(t, conn)
	conn.responses = []fakeResponse{
		{err: errors.New("bad envelope")},
		{err: errors.New("bad envelope")},
		{err: errors.New("bad envelope")},
	}

	_, err := b.SignAndBroadcast(context.Background(), depositMsg(), "", nil)
	assert.ErrorIs(t, err, core.ErrTransactionFormatUnsupported)
	assert.Equal(t, 3, b.Attempts())
}

func TestWalletConnect_SignRequiresSession(t *testing.T) {
	b := newLuncDash(newFakeConnector(), store.NewMemoryStore(), nil)
	_, err := b.SignAndBroadcast(context.Background(), depositMsg(), "", nil)
	assert.ErrorIs(t, err, core.ErrNotConnected)
}

func TestWalletConnect_EVMSendsTransactionObject(t *testing.T) {
	conn := newFakeConnector("eip155:56:0x00000000000000000000000000000000000000aa")
	b := NewWalletConnect(WalletConnectConfig{ID: core.BackendWalletConnect, Family: core.FamilyEVM},
		conn, store.NewMemoryStore(), nil, zerolog.Nop())
	addr, err := b.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000aa", addr)

	evmHash := "0x" + "ab" + testHash[2:]
	conn.responses = []fakeResponse{{result: `"` + evmHash + `"`}}

	hash, err := b.SignAndBroadcast(context.Background(), []core.Message{core.EVMCall{
		To:   "0x00000000000000000000000000000000000000bb",
		Data: []byte{0xde, 0xad},
		Gas:  21000,
	}}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, evmHash, hash)

	reqs := conn.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "eth_sendTransaction", reqs[0].Method)
	assert.JSONEq(t, `[{"from":"0x00000000000000000000000000000000000000aa","to":"0x00000000000000000000000000000000000000bb","data":"0xdead","gas":"0x5208"}]`, string(reqs[0].Params))
}

func TestWalletConnect_RemoteDisconnect(t *testing.T) {
	conn := newFakeConnector("terra1wallet")
	b, s := connected(t, conn)
	listener := newFakeListener()
	b.SetListener(listener)

	conn.events <- walletconnect.Event{Type: walletconnect.EventDisconnect}

	select {
	case id := <-listener.terminated:
		assert.Equal(t, core.BackendLuncDash, id)
	case <-time.After(2 * time.Second):
		t.Fatal("termination not reported")
	}
	assert.False(t, b.IsConnected())
	_, err := s.Load(context.Background(), "luncdash.wcSession")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestWalletConnect_AccountsChanged(t *testing.T) {
	conn := newFakeConnector("terra1wallet")
	b, _ := connected(t, conn)
	listener := newFakeListener()
	b.SetListener(listener)

	conn.events <- walletconnect.Event{Type: walletconnect.EventSessionUpdate, Accounts: []string{"terra1other"}}

	select {
	case addr := <-listener.changed:
		assert.Equal(t, "terra1other", addr)
	case <-time.After(2 * time.Second):
		t.Fatal("account change not reported")
	}
	assert.Equal(t, "terra1other", b.Address())
}

func TestWalletConnect_DisconnectAlwaysClears(t *testing.T) {
	conn := newFakeConnector("terra1wallet")
	b, s := connected(t, conn)

	require.NoError(t, b.Disconnect(context.Background()))
	assert.False(t, b.IsConnected())
	assert.Equal(t, 1, conn.killed)
	_, err := s.Load(context.Background(), "luncdash.wcSession")
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
}

func TestWalletConnect_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		s := store.NewMemoryStore()
		raw, _ := json.Marshal(walletconnect.Session{Connected: true, Accounts: []string{"terra1wallet"}, PeerID: "p"})
		require.NoError(t, s.Save(ctx, "luncdash.wcSession", core.ConnectionSession{Address: "terra1wallet", RawSession: string(raw)}))

		conn := newFakeConnector()
		b := newLuncDash(conn, s, nil)
		addr, err := b.Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, "terra1wallet", addr)
		require.NotNil(t, conn.restored)
		assert.Equal(t, "p", conn.restored.PeerID)
	})

	t.Run("corrupt", func(t *testing.T) {
		s := store.NewMemoryStore()
		require.NoError(t, s.Save(ctx, "luncdash.wcSession", core.ConnectionSession{Address: "terra1wallet", RawSession: "{"}))

		b := newLuncDash(newFakeConnector(), s, nil)
		_, err := b.Restore(ctx)
		assert.ErrorIs(t, err, core.ErrSessionNotFound)
		assert.False(t, b.IsConnected())

		_, err = s.Load(ctx, "luncdash.wcSession")
		assert.ErrorIs(t, err, core.ErrSessionNotFound)
	})

	t.Run("empty", func(t *testing.T) {
		b := newLuncDash(newFakeConnector(), store.NewMemoryStore(), nil)
		_, err := b.Restore(ctx)
		assert.ErrorIs(t, err, core.ErrSessionNotFound)
	})
}

func TestWalletConnect_ConnectToleratesStoreAndPresenterFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockSessionStore(ctrl)
	p := mocks.NewMockPairingPresenter(ctrl)

	s.EXPECT().Delete(gomock.Any(), "luncdash.wcSession").Return(core.ErrStoreOperationFailed)
	p.EXPECT().ShowPairing(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, pairing core.Pairing) error {
		assert.Equal(t, core.BackendLuncDash, pairing.BackendID)
		assert.True(t, strings.HasPrefix(pairing.URI, "wc:topic@1?"))
		return errors.New("no display attached")
	})
	p.EXPECT().ClosePairing(core.BackendLuncDash)
	s.EXPECT().Save(gomock.Any(), "luncdash.wcSession", gomock.Any()).Return(core.ErrStoreOperationFailed)

	b := newLuncDash(newFakeConnector("terra1wallet"), s, p)
	address, err := b.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "terra1wallet", address)
	assert.True(t, b.IsConnected())
}

func TestWalletConnect_RestoreKeepsSessionOnStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := mocks.NewMockSessionStore(ctrl)
	s.EXPECT().Load(gomock.Any(), "luncdash.wcSession").Return(core.ConnectionSession{}, core.ErrStoreOperationFailed)

	b := newLuncDash(newFakeConnector("terra1wallet"), s, nil)
	_, err := b.Restore(context.Background())
	assert.ErrorIs(t, err, core.ErrStoreOperationFailed)
	assert.NotErrorIs(t, err, core.ErrSessionNotFound)
}

func TestWalletConnect_SignInterruptedLocallyIsNotRejection(t *testing.T) {
	conn := newFakeConnector("terra1wallet")
	b, _ := connected(t, conn)
	conn.responses = []fakeResponse{
		{err: fmt.Errorf("await response: %w", context.Canceled)},
		{result: `{"txhash":"` + testHash + `"}`},
	}

	fee := core.FeeFor(core.IntentDeposit)
	_, err := b.SignAndBroadcast(context.Background(), depositMsg(), "", &fee)
	assert.ErrorIs(t, err, core.ErrTransactionError)
	assert.False(t, core.IsUserRejection(err))
	assert.Equal(t, "error", core.Notice(err))
	assert.Equal(t, 1, b.Attempts())
}
