package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/layer-3/walletbridge/adapters/walletconnect"
	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
	"github.com/rs/zerolog"
)

// DefaultConnectTimeout bounds how long a pairing waits for approval.
const DefaultConnectTimeout = 120 * time.Second

var errConnectTimeout = errors.New("no approval before the pairing deadline")

// Connector is the dapp side of a bridge session.
type Connector interface {
	CreateSession(ctx context.Context) (walletconnect.URI, error)
	WaitForApproval(ctx context.Context) (walletconnect.Session, error)
	Restore(ctx context.Context, s walletconnect.Session) error
	Request(ctx context.Context, method string, params any) (json.RawMessage, error)
	KillSession(ctx context.Context) error
	Close() error
	Session() walletconnect.Session
	Events() <-chan walletconnect.Event
}

// WalletConnectConfig binds a backend to one bridge and wallet app.
type WalletConnectConfig struct {
	ID             core.BackendID
	Family         core.ChainFamily
	StorageKey     string
	DeepLink       DeepLinkFunc
	Strategies     []Strategy
	ConnectTimeout time.Duration
}

// WalletConnect is a backend reached through a WalletConnect bridge.
type WalletConnect struct {
	state
	cfg       WalletConnectConfig
	conn      Connector
	store     ports.SessionStore
	presenter ports.PairingPresenter
	log       zerolog.Logger

	signMu   sync.Mutex
	attempts int

	watchMu sync.Mutex
	stop    chan struct{}
}

// NewWalletConnect creates a bridge backend. presenter may be nil.
func NewWalletConnect(cfg WalletConnectConfig, conn Connector, store ports.SessionStore, presenter ports.PairingPresenter, log zerolog.Logger) *WalletConnect {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.DeepLink == nil {
		cfg.DeepLink = RawDeepLink
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = string(cfg.ID) + ".wcSession"
	}
	if len(cfg.Strategies) == 0 {
		if cfg.Family == core.FamilyEVM {
			cfg.Strategies = EVMStrategies()
		} else {
			cfg.Strategies = CosmosStrategies()
		}
	}
	return &WalletConnect{
		cfg:       cfg,
		conn:      conn,
		store:     store,
		presenter: presenter,
		log:       log.With().Str("backend", string(cfg.ID)).Logger(),
	}
}

func (w *WalletConnect) ID() core.BackendID       { return w.cfg.ID }
func (w *WalletConnect) Family() core.ChainFamily { return w.cfg.Family }
func (w *WalletConnect) Kind() core.BackendKind   { return core.KindWalletConnect }

// Available is always true; the bridge is only contacted on Connect.
func (w *WalletConnect) Available(context.Context) bool { return true }

// Attempts returns how many envelope shapes the last signing call tried.
func (w *WalletConnect) Attempts() int {
	w.signMu.Lock()
	defer w.signMu.Unlock()
	return w.attempts
}

func (w *WalletConnect) Connect(ctx context.Context) (string, error) {
	w.stopWatching()
	w.setAddress("")
	w.store.Delete(ctx, w.cfg.StorageKey)

	pairCtx, cancel := context.WithTimeoutCause(ctx, w.cfg.ConnectTimeout, errConnectTimeout)
	defer cancel()

	uri, err := w.conn.CreateSession(pairCtx)
	if err != nil {
		w.cleanup(ctx)
		return "", w.connectFailure(ctx, pairCtx, err)
	}

	if w.presenter != nil {
		pairing := core.Pairing{
			BackendID: w.cfg.ID,
			URI:       uri.String(),
			DeepLink:  w.cfg.DeepLink(uri.String()),
			ExpiresAt: time.Now().Add(w.cfg.ConnectTimeout),
		}
		if err := w.presenter.ShowPairing(ctx, pairing); err != nil {
			w.log.Warn().Err(err).Msg("failed to present pairing")
		}
		defer w.presenter.ClosePairing(w.cfg.ID)
	}

	session, err := w.conn.WaitForApproval(pairCtx)
	if err != nil {
		w.cleanup(ctx)
		return "", w.connectFailure(ctx, pairCtx, err)
	}

	address := ""
	if len(session.Accounts) > 0 {
		address = core.AccountFromCAIP10(session.Accounts[0])
	}
	if address == "" {
		w.cleanup(ctx)
		return "", core.NewError(core.ErrConnectionRejected, "wallet approved without an account")
	}

	w.setAddress(address)
	w.persist(ctx, session, address)
	w.startWatching()
	w.log.Info().Str("address", address).Msg("walletconnect session approved")
	return address, nil
}

func (w *WalletConnect) connectFailure(parent, pairCtx context.Context, err error) error {
	switch {
	case errors.Is(context.Cause(pairCtx), errConnectTimeout):
		return core.WrapError(core.ErrConnectionTimeout, "Connection timeout", err)
	case parent.Err() != nil:
		return core.WrapError(core.ErrConnectionRejected, "Connection cancelled by user", err)
	case errors.Is(err, walletconnect.ErrSessionRejected):
		return core.WrapError(core.ErrConnectionRejected, "Connection rejected in wallet", err)
	case isNetwork(err):
		return core.WrapError(core.ErrNetwork, "bridge unreachable", err)
	}
	return classifyConnectError(err)
}

// cleanup drops every trace of a partial or dead session.
func (w *WalletConnect) cleanup(ctx context.Context) {
	w.stopWatching()
	w.setAddress("")
	w.conn.Close()
	if err := w.store.Delete(context.WithoutCancel(ctx), w.cfg.StorageKey); err != nil {
		w.log.Warn().Err(err).Msg("failed to clear session")
	}
}

func (w *WalletConnect) persist(ctx context.Context, session walletconnect.Session, address string) {
	raw, err := json.Marshal(session)
	if err != nil {
		w.log.Warn().Err(err).Msg("failed to encode session")
		return
	}
	saved := core.ConnectionSession{
		BackendID:  w.cfg.ID,
		Family:     w.cfg.Family,
		Address:    address,
		RawSession: string(raw),
		CreatedAt:  time.Now().UTC(),
	}
	if err := w.store.Save(ctx, w.cfg.StorageKey, saved); err != nil {
		w.log.Warn().Err(err).Msg("failed to persist session")
	}
}

func (w *WalletConnect) Restore(ctx context.Context) (string, error) {
	saved, err := w.store.Load(ctx, w.cfg.StorageKey)
	if err != nil {
		if errors.Is(err, core.ErrSessionCorrupt) {
			w.store.Delete(ctx, w.cfg.StorageKey)
			return "", fmt.Errorf("discarding corrupt cached session: %w", core.ErrSessionNotFound)
		}
		return "", err
	}

	var session walletconnect.Session
	if err := json.Unmarshal([]byte(saved.RawSession), &session); err != nil || !saved.Valid() ||
		!session.Connected || len(session.Accounts) == 0 {
		w.store.Delete(ctx, w.cfg.StorageKey)
		return "", fmt.Errorf("discarding unusable cached session: %w", core.ErrSessionNotFound)
	}

	if err := w.conn.Restore(ctx, session); err != nil {
		if errors.Is(err, walletconnect.ErrNotConnected) {
			w.store.Delete(ctx, w.cfg.StorageKey)
			return "", fmt.Errorf("discarding stale session: %w", core.ErrSessionNotFound)
		}
		return "", fmt.Errorf("reconnect bridge: %w", err)
	}

	address := core.AccountFromCAIP10(session.Accounts[0])
	w.setAddress(address)
	w.startWatching()
	return address, nil
}

// Disconnect notifies the wallet best-effort and always clears local state.
func (w *WalletConnect) Disconnect(ctx context.Context) error {
	w.stopWatching()
	w.setAddress("")

	if err := w.conn.KillSession(ctx); err != nil {
		w.log.Warn().Err(err).Msg("failed to notify wallet of disconnect")
	}
	if err := w.store.Delete(ctx, w.cfg.StorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (w *WalletConnect) SignAndBroadcast(ctx context.Context, msgs []core.Message, memo string, fee *core.Fee) (string, error) {
	w.signMu.Lock()
	defer w.signMu.Unlock()
	w.attempts = 0

	from := w.Address()
	if from == "" {
		return "", notConnected(w.cfg.ID)
	}
	if len(msgs) == 0 {
		return "", core.NewError(core.ErrTransactionError, "no messages to sign")
	}

	if w.cfg.Family == core.FamilyEVM {
		var hash string
		for _, m := range msgs {
			call, err := evmCall(m, from)
			if err != nil {
				return "", core.WrapError(core.ErrTransactionError, "invalid message", err)
			}
			hash, err = w.tryStrategies(ctx, SignRequest{Msgs: []any{call.TxObject()}})
			if err != nil {
				return "", err
			}
		}
		return hash, nil
	}

	amino, err := aminoMsgs(msgs)
	if err != nil {
		return "", core.WrapError(core.ErrTransactionError, "invalid message", err)
	}
	return w.tryStrategies(ctx, SignRequest{Msgs: amino, Memo: memo, Fee: fee})
}

// tryStrategies sends the request in each envelope shape until one yields a
// hash. A rejection or a dead bridge ends the sequence at once.
func (w *WalletConnect) tryStrategies(ctx context.Context, req SignRequest) (string, error) {
	var lastErr error
	for _, s := range w.cfg.Strategies {
		w.attempts++
		raw, err := w.conn.Request(ctx, s.Method, s.Params(req))
		if err != nil {
			if isRejection(err) || isNetwork(err) || errors.Is(err, walletconnect.ErrNotConnected) || core.IsContextError(err) {
				return "", classifySignError(err)
			}
			w.log.Debug().Err(err).Str("strategy", s.Name).Msg("envelope not accepted")
			lastErr = err
			continue
		}
		if hash, ok := extractHash(raw); ok {
			w.log.Info().Str("strategy", s.Name).Str("hash", hash).Msg("transaction broadcast")
			return hash, nil
		}
		w.log.Debug().Str("strategy", s.Name).RawJSON("response", raw).Msg("no hash in response")
		lastErr = fmt.Errorf("no transaction hash in %s response", s.Name)
	}
	return "", core.WrapError(core.ErrTransactionFormatUnsupported,
		"Wallet did not accept any transaction format, try a different wallet", lastErr)
}

func (w *WalletConnect) startWatching() {
	w.watchMu.Lock()
	defer w.watchMu.Unlock()
	if w.stop != nil {
		return
	}
	w.stop = make(chan struct{})
	go w.watch(w.stop)
}

func (w *WalletConnect) stopWatching() {
	w.watchMu.Lock()
	defer w.watchMu.Unlock()
	if w.stop != nil {
		close(w.stop)
		w.stop = nil
	}
}

func (w *WalletConnect) watch(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case ev := <-w.conn.Events():
			w.handleEvent(ev)
		}
	}
}

func (w *WalletConnect) handleEvent(ev walletconnect.Event) {
	switch ev.Type {
	case walletconnect.EventDisconnect:
		w.log.Info().Msg("wallet ended the session")
		w.cleanup(context.Background())
		if l := w.currentListener(); l != nil {
			l.SessionTerminated(w.cfg.ID)
		}
	case walletconnect.EventSessionUpdate:
		if len(ev.Accounts) == 0 {
			return
		}
		address := core.AccountFromCAIP10(ev.Accounts[0])
		if previous := w.setAddress(address); previous == address {
			w.log.Debug().Int("chain_id", ev.ChainID).Msg("session updated")
			return
		}
		w.persist(context.Background(), w.conn.Session(), address)
		if l := w.currentListener(); l != nil {
			l.AccountsChanged(w.cfg.ID, address)
		}
	}
}

var _ ports.Backend = (*WalletConnect)(nil)
