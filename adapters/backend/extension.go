package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
	"github.com/rs/zerolog"
)

// MethodSet names the provider methods an extension answers to.
type MethodSet struct {
	Ping            string
	RequestAccounts string
	Accounts        string
	Send            string
}

var (
	EVMMethods = MethodSet{
		Ping:            "eth_chainId",
		RequestAccounts: "eth_requestAccounts",
		Accounts:        "eth_accounts",
		Send:            "eth_sendTransaction",
	}
	StationMethods = MethodSet{
		Ping:            "info",
		RequestAccounts: "connect",
		Accounts:        "getAccounts",
		Send:            "post",
	}
)

// NativeCurrency is part of the add-network request.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// EVMNetwork is the network an EVM extension must be switched to.
type EVMNetwork struct {
	ChainID        uint64
	ChainName      string
	NativeCurrency NativeCurrency
	RPCURLs        []string
	ExplorerURLs   []string
}

func (n EVMNetwork) hexID() string { return hexutil.EncodeUint64(n.ChainID) }

// ExtensionConfig configures an injected-provider backend.
type ExtensionConfig struct {
	ID      core.BackendID
	Family  core.ChainFamily
	Methods MethodSet
	// Network is required for the EVM family only.
	Network *EVMNetwork
}

// Extension is a backend over an injected wallet provider.
type Extension struct {
	state
	cfg      ExtensionConfig
	provider ports.Provider
	store    ports.SessionStore
	log      zerolog.Logger
	signMu   sync.Mutex
}

// NewExtension creates an extension backend. provider may be nil when no
// extension is installed; Connect then fails with ConnectionUnavailable.
func NewExtension(cfg ExtensionConfig, provider ports.Provider, store ports.SessionStore, log zerolog.Logger) *Extension {
	return &Extension{
		cfg:      cfg,
		provider: provider,
		store:    store,
		log:      log.With().Str("backend", string(cfg.ID)).Logger(),
	}
}

func (e *Extension) ID() core.BackendID       { return e.cfg.ID }
func (e *Extension) Family() core.ChainFamily { return e.cfg.Family }
func (e *Extension) Kind() core.BackendKind   { return core.KindExtension }

func (e *Extension) storageKey() string { return string(e.cfg.ID) }

// Available pings the provider.
func (e *Extension) Available(ctx context.Context) bool {
	if e.provider == nil {
		return false
	}
	_, err := e.provider.Request(ctx, e.cfg.Methods.Ping)
	return err == nil || !isNetwork(err)
}

func (e *Extension) Connect(ctx context.Context) (string, error) {
	if e.provider == nil {
		return "", core.NewError(core.ErrConnectionUnavailable, "wallet extension not installed")
	}

	raw, err := e.provider.Request(ctx, e.cfg.Methods.RequestAccounts)
	if err != nil {
		if isNetwork(err) {
			return "", core.WrapError(core.ErrConnectionUnavailable, "wallet extension not reachable", err)
		}
		return "", classifyConnectError(err)
	}
	address := firstAccount(raw)
	if address == "" {
		return "", core.NewError(core.ErrConnectionRejected, "no accounts returned by wallet")
	}

	if e.cfg.Family == core.FamilyEVM && e.cfg.Network != nil {
		if err := e.ensureNetwork(ctx); err != nil {
			return "", err
		}
	}

	e.setAddress(address)
	e.persist(ctx, address)
	e.log.Info().Str("address", address).Msg("extension connected")
	return address, nil
}

// ensureNetwork switches the wallet to the configured chain, adding it first
// when the wallet does not know it.
func (e *Extension) ensureNetwork(ctx context.Context) error {
	net := e.cfg.Network

	raw, err := e.provider.Request(ctx, "eth_chainId")
	if err == nil {
		var current string
		if json.Unmarshal(raw, &current) == nil {
			if id, err := hexutil.DecodeUint64(current); err == nil && id == net.ChainID {
				return nil
			}
		}
	}

	_, err = e.provider.Request(ctx, "wallet_switchEthereumChain", map[string]string{"chainId": net.hexID()})
	if err == nil {
		return nil
	}
	if code, ok := errorCode(err); !ok || code != codeUnrecognizedChain {
		return classifyConnectError(fmt.Errorf("switch to chain %d: %w", net.ChainID, err))
	}

	e.log.Info().Uint64("chain_id", net.ChainID).Msg("network unknown to wallet, adding it")
	_, err = e.provider.Request(ctx, "wallet_addEthereumChain", map[string]any{
		"chainId":           net.hexID(),
		"chainName":         net.ChainName,
		"nativeCurrency":    net.NativeCurrency,
		"rpcUrls":           net.RPCURLs,
		"blockExplorerUrls": net.ExplorerURLs,
	})
	if err != nil {
		return classifyConnectError(fmt.Errorf("add chain %d: %w", net.ChainID, err))
	}
	return nil
}

func (e *Extension) persist(ctx context.Context, address string) {
	session := core.ConnectionSession{
		BackendID: e.cfg.ID,
		Family:    e.cfg.Family,
		Address:   address,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.Save(ctx, e.storageKey(), session); err != nil {
		e.log.Warn().Err(err).Msg("failed to persist session")
	}
}

// Restore succeeds only when a session was persisted and the extension still
// exposes an account without prompting.
func (e *Extension) Restore(ctx context.Context) (string, error) {
	saved, err := e.store.Load(ctx, e.storageKey())
	if err != nil {
		if errors.Is(err, core.ErrSessionCorrupt) {
			e.store.Delete(ctx, e.storageKey())
			return "", fmt.Errorf("discarding corrupt cached session: %w", core.ErrSessionNotFound)
		}
		return "", err
	}
	if !saved.Valid() || e.provider == nil {
		e.store.Delete(ctx, e.storageKey())
		return "", core.ErrSessionNotFound
	}

	raw, err := e.provider.Request(ctx, e.cfg.Methods.Accounts)
	if err != nil {
		return "", fmt.Errorf("query accounts: %w", err)
	}
	address := firstAccount(raw)
	if address == "" {
		e.store.Delete(ctx, e.storageKey())
		return "", core.ErrSessionNotFound
	}

	e.setAddress(address)
	if !strings.EqualFold(address, saved.Address) {
		e.persist(ctx, address)
	}
	return address, nil
}

// Disconnect forgets the session locally; extensions keep no remote session.
func (e *Extension) Disconnect(ctx context.Context) error {
	e.setAddress("")
	if err := e.store.Delete(ctx, e.storageKey()); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (e *Extension) SignAndBroadcast(ctx context.Context, msgs []core.Message, memo string, fee *core.Fee) (string, error) {
	e.signMu.Lock()
	defer e.signMu.Unlock()

	from := e.Address()
	if from == "" {
		return "", notConnected(e.cfg.ID)
	}
	if len(msgs) == 0 {
		return "", core.NewError(core.ErrTransactionError, "no messages to sign")
	}

	if e.cfg.Family == core.FamilyEVM {
		var hash string
		for _, m := range msgs {
			call, err := evmCall(m, from)
			if err != nil {
				return "", core.WrapError(core.ErrTransactionError, "invalid message", err)
			}
			raw, err := e.provider.Request(ctx, e.cfg.Methods.Send, call.TxObject())
			if err != nil {
				return "", classifySignError(err)
			}
			h, ok := extractHash(raw)
			if !ok {
				return "", core.NewError(core.ErrTransactionError, "wallet returned no transaction hash")
			}
			hash = h
		}
		return hash, nil
	}

	amino, err := aminoMsgs(msgs)
	if err != nil {
		return "", core.WrapError(core.ErrTransactionError, "invalid message", err)
	}
	raw, err := e.provider.Request(ctx, e.cfg.Methods.Send, map[string]any{"msgs": amino, "memo": memo, "fee": fee})
	if err != nil {
		return "", classifySignError(err)
	}
	hash, ok := extractHash(raw)
	if !ok {
		return "", core.NewError(core.ErrTransactionError, "wallet returned no transaction hash")
	}
	return hash, nil
}

// firstAccount accepts ["addr"], {"address": "addr"} or [{"address": "addr"}].
func firstAccount(raw json.RawMessage) string {
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		if len(list) > 0 {
			return core.AccountFromCAIP10(list[0])
		}
		return ""
	}
	var one struct {
		Address string `json:"address"`
	}
	if json.Unmarshal(raw, &one) == nil && one.Address != "" {
		return one.Address
	}
	var objs []struct {
		Address string `json:"address"`
	}
	if json.Unmarshal(raw, &objs) == nil && len(objs) > 0 {
		return objs[0].Address
	}
	return ""
}

var _ ports.Backend = (*Extension)(nil)
