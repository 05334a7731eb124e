package http

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/layer-3/walletbridge/adapters/presenter"
	"github.com/layer-3/walletbridge/adapters/tokenizer"
	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
	"github.com/layer-3/walletbridge/ports/mocks"
	"github.com/layer-3/walletbridge/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const evmAddr = "0x1111111111111111111111111111111111111111"

type fakeConns struct {
	backends    map[core.BackendID]ports.Backend
	active      map[core.ChainFamily]core.ActiveSession
	activateErr error
	nextID      string
	cancelled   bool
}

func (f *fakeConns) Active(family core.ChainFamily) (core.ActiveSession, bool) {
	s, ok := f.active[family]
	return s, ok
}

func (f *fakeConns) Backend(id core.BackendID) (ports.Backend, bool) {
	b, ok := f.backends[id]
	return b, ok
}

func (f *fakeConns) Backends(_ context.Context, family core.ChainFamily) []service.BackendInfo {
	var out []service.BackendInfo
	for id, b := range f.backends {
		if b.Family() == family {
			out = append(out, service.BackendInfo{ID: id, Family: family, Kind: b.Kind()})
		}
	}
	return out
}

func (f *fakeConns) Activate(_ context.Context, id core.BackendID) (core.ActiveSession, error) {
	if f.activateErr != nil {
		return core.ActiveSession{}, f.activateErr
	}
	b := f.backends[id]
	s := core.ActiveSession{ID: f.nextID, BackendID: id, Family: b.Family(), Address: evmAddr, ConnectedAt: time.Now()}
	f.active[b.Family()] = s
	return s, nil
}

func (f *fakeConns) CancelActivation(core.ChainFamily) bool {
	f.cancelled = true
	return true
}

func (f *fakeConns) Deactivate(_ context.Context, family core.ChainFamily) error {
	delete(f.active, family)
	return nil
}

type fakeSubmitter struct {
	intent  core.TransactionIntent
	address string
	sub     *service.Submission
	err     error
}

func (f *fakeSubmitter) Submit(_ context.Context, intent core.TransactionIntent, address string) (*service.Submission, error) {
	f.intent, f.address = intent, address
	return f.sub, f.err
}

type fakeDashboard struct {
	stats      core.Stats
	depositors []core.Depositor
	limit      uint32
}

func (f *fakeDashboard) Snapshot() core.Stats { return f.stats }

func (f *fakeDashboard) Depositors(_ context.Context, _ string, limit uint32) ([]core.Depositor, string, error) {
	f.limit = limit
	return f.depositors, "", nil
}

type fakePairings map[core.BackendID]presenter.Presented

func (f fakePairings) Current(id core.BackendID) (presenter.Presented, bool) {
	p, ok := f[id]
	return p, ok
}

type fixture struct {
	router    *gin.Engine
	conns     *fakeConns
	submitter *fakeSubmitter
	dashboard *fakeDashboard
	pairings  fakePairings
}

func backendMock(ctrl *gomock.Controller, family core.ChainFamily, kind core.BackendKind) *mocks.MockBackend {
	b := mocks.NewMockBackend(ctrl)
	b.EXPECT().Family().Return(family).AnyTimes()
	b.EXPECT().Kind().Return(kind).AnyTimes()
	return b
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	f := &fixture{
		conns: &fakeConns{
			backends: map[core.BackendID]ports.Backend{
				core.BackendMetaMask:      backendMock(ctrl, core.FamilyEVM, core.KindExtension),
				core.BackendWalletConnect: backendMock(ctrl, core.FamilyEVM, core.KindWalletConnect),
				core.BackendStation:       backendMock(ctrl, core.FamilyCosmos, core.KindExtension),
			},
			active: make(map[core.ChainFamily]core.ActiveSession),
			nextID: "session-1",
		},
		submitter: &fakeSubmitter{},
		dashboard: &fakeDashboard{},
		pairings:  fakePairings{},
	}
	f.router = SetupRouter(Deps{
		Connections: f.conns,
		Submitters:  map[core.ChainFamily]Submitter{core.FamilyEVM: f.submitter},
		Dashboards:  map[core.ChainFamily]Dashboard{core.FamilyEVM: f.dashboard},
		Pairings:    f.pairings,
		Tokenizer:   tokenizer.NewJWTTokenizer(key),
	}, zerolog.Nop())
	return f
}

func (f *fixture) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) connect(t *testing.T) ConnectResponse {
	t.Helper()
	w := f.do(http.MethodPost, "/wallets/evm/connect", ConnectRequest{Backend: core.BackendMetaMask}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp ConnectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidFamily(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/wallets/solana", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", decodeError(t, w).Notice)
}

func TestWallets(t *testing.T) {
	f := newFixture(t)
	f.connect(t)

	w := f.do(http.MethodGet, "/wallets/evm", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp WalletsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Backends, 2)
	require.NotNil(t, resp.Active)
	assert.Equal(t, core.BackendMetaMask, resp.Active.BackendID)
}

func TestConnect(t *testing.T) {
	t.Run("issues a token bound to the session", func(t *testing.T) {
		f := newFixture(t)
		resp := f.connect(t)
		assert.Equal(t, evmAddr, resp.Address)
		assert.Equal(t, "session-1", resp.SessionID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("unknown backend", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodPost, "/wallets/evm/connect", ConnectRequest{Backend: "ledger"}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("backend of another family", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodPost, "/wallets/evm/connect", ConnectRequest{Backend: core.BackendStation}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing backend", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodPost, "/wallets/evm/connect", gin.H{}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejection is an info notice", func(t *testing.T) {
		f := newFixture(t)
		f.conns.activateErr = core.NewError(core.ErrConnectionRejected, "user rejected the request")
		w := f.do(http.MethodPost, "/wallets/evm/connect", ConnectRequest{Backend: core.BackendMetaMask}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "info", resp.Notice)
		assert.True(t, resp.Retryable)
		assert.Equal(t, core.ErrConnectionRejected.Error(), resp.Kind)
	})

	t.Run("activation in progress", func(t *testing.T) {
		f := newFixture(t)
		f.conns.activateErr = core.ErrActivationInProgress
		w := f.do(http.MethodPost, "/wallets/evm/connect", ConnectRequest{Backend: core.BackendMetaMask}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCancelConnectAndDisconnect(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodDelete, "/wallets/evm/connect", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.conns.cancelled)

	f.connect(t)
	w = f.do(http.MethodPost, "/wallets/evm/disconnect", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	_, ok := f.conns.Active(core.FamilyEVM)
	assert.False(t, ok)
}

func TestPairing(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/wallets/evm/pairing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	f.pairings[core.BackendWalletConnect] = presenter.Presented{
		Pairing: core.Pairing{BackendID: core.BackendWalletConnect, URI: "wc:abc@1?bridge=x&key=y"},
		QRCode:  "iVBOR",
	}
	w = f.do(http.MethodGet, "/wallets/evm/pairing", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wc:abc@1")
	assert.Contains(t, w.Body.String(), "qr_png_base64")
}

func TestSubmitTx(t *testing.T) {
	t.Run("requires a bearer token", func(t *testing.T) {
		f := newFixture(t)
		f.connect(t)
		w := f.do(http.MethodPost, "/tx/evm", TxRequest{Kind: core.IntentDeposit, Amount: "1"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = f.do(http.MethodPost, "/tx/evm", TxRequest{Kind: core.IntentDeposit, Amount: "1"}, "garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a token of a replaced session", func(t *testing.T) {
		f := newFixture(t)
		token := f.connect(t).Token
		f.conns.nextID = "session-2"
		f.connect(t)

		w := f.do(http.MethodPost, "/tx/evm", TxRequest{Kind: core.IntentDeposit, Amount: "1"}, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("submits with the session address", func(t *testing.T) {
		f := newFixture(t)
		token := f.connect(t).Token
		f.submitter.sub = &service.Submission{
			Family: core.FamilyEVM,
			Kind:   core.IntentSetWithdrawalDestination,
			Transactions: []*core.SubmittedTransaction{
				{Hash: "0xabc", State: core.TxConfirmed},
			},
		}

		w := f.do(http.MethodPost, "/tx/evm", TxRequest{
			Kind:            core.IntentSetWithdrawalDestination,
			Destination:     evmAddr,
			UnlockTimestamp: 1900000000,
		}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, evmAddr, f.submitter.address)
		require.NotNil(t, f.submitter.intent.Params)
		assert.EqualValues(t, 1900000000, f.submitter.intent.Params.UnlockTimestamp)
		assert.Contains(t, w.Body.String(), "0xabc")
	})

	t.Run("chain failure carries the log and transactions", func(t *testing.T) {
		f := newFixture(t)
		token := f.connect(t).Token
		f.submitter.sub = &service.Submission{
			Family:       core.FamilyEVM,
			Kind:         core.IntentWithdraw,
			Transactions: []*core.SubmittedTransaction{{Hash: "0xdef", State: core.TxFailed}},
		}
		f.submitter.err = &core.Error{Kind: core.ErrTransactionFailed, Log: "execution reverted"}

		w := f.do(http.MethodPost, "/tx/evm", TxRequest{Kind: core.IntentWithdraw, Amount: "5"}, token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp struct {
			Transactions []core.SubmittedTransaction `json:"transactions"`
			Error        ErrorResponse               `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "execution reverted", resp.Error.Log)
		assert.False(t, resp.Error.Retryable)
		require.Len(t, resp.Transactions, 1)
		assert.Equal(t, "0xdef", resp.Transactions[0].Hash)
	})

	t.Run("validation error before any transaction", func(t *testing.T) {
		f := newFixture(t)
		token := f.connect(t).Token
		f.submitter.err = core.NewError(core.ErrValidation, "amount must be positive")

		w := f.do(http.MethodPost, "/tx/evm", TxRequest{Kind: core.IntentDeposit, Amount: "0"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.dashboard.stats = core.Stats{Family: core.FamilyEVM, TotalDeposits: "1500", UserCount: 12}

	w := f.do(http.MethodGet, "/stats/evm", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats core.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, "1500", stats.TotalDeposits)

	w = f.do(http.MethodGet, "/stats/cosmos", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDepositors(t *testing.T) {
	f := newFixture(t)
	f.dashboard.depositors = []core.Depositor{{Address: evmAddr, Deposit: "1"}}

	w := f.do(http.MethodGet, "/stats/evm/depositors", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, defaultDepositorPage, f.dashboard.limit)

	w = f.do(http.MethodGet, "/stats/evm/depositors?limit=1000", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, maxDepositorPage, f.dashboard.limit)

	w = f.do(http.MethodGet, "/stats/evm/depositors?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	tcs := []struct {
		err    error
		status int
	}{
		{core.NewError(core.ErrValidation, "x"), http.StatusBadRequest},
		{core.NewError(core.ErrConnectionUnavailable, "x"), http.StatusConflict},
		{core.NewError(core.ErrTransactionRejected, "x"), http.StatusConflict},
		{core.NewError(core.ErrTransactionFormatUnsupported, "x"), http.StatusUnprocessableEntity},
		{core.NewError(core.ErrConnectionTimeout, "x"), http.StatusGatewayTimeout},
		{core.NewError(core.ErrTransactionError, "x"), http.StatusGatewayTimeout},
		{core.WrapError(core.ErrNetwork, "x", errors.New("dial tcp")), http.StatusBadGateway},
		{core.ErrUnknownBackend, http.StatusNotFound},
		{core.ErrInvalidToken, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tcs {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.status, statusFor(tc.err))
		})
	}
}
