package walletbridge

import (
	"context"
	"net/http"

	"github.com/layer-3/walletbridge/adapters/backend"
	"github.com/layer-3/walletbridge/adapters/chain/cosmos"
	"github.com/layer-3/walletbridge/adapters/chain/evm"
	"github.com/layer-3/walletbridge/adapters/walletconnect"
	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
)

// family groups the chain adapter of one chain family with its wallets.
type family struct {
	family   core.ChainFamily
	chain    ports.Chain
	backends []ports.Backend
}

func (a *App) newFamilies(ctx context.Context) ([]family, error) {
	var families []family
	if a.cfg.EVM.Enabled() {
		f, err := a.newEVMFamily(ctx)
		if err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	if a.cfg.Cosmos.Enabled() {
		families = append(families, a.newCosmosFamily(ctx))
	}
	return families, nil
}

func (a *App) newEVMFamily(ctx context.Context) (family, error) {
	cfg := a.cfg.EVM
	chain, err := evm.Dial(ctx, cfg.RPC, evm.Config{Contract: cfg.Contract, Token: cfg.Token}, a.log)
	if err != nil {
		return family{}, err
	}

	network := &backend.EVMNetwork{
		ChainID:        cfg.ChainID,
		ChainName:      "Binance Smart Chain",
		NativeCurrency: backend.NativeCurrency{Name: "BNB", Symbol: "BNB", Decimals: 18},
		RPCURLs:        []string{cfg.RPC},
		ExplorerURLs:   []string{cfg.Explorer},
	}
	metamask := backend.NewExtension(backend.ExtensionConfig{
		ID:      core.BackendMetaMask,
		Family:  core.FamilyEVM,
		Methods: backend.EVMMethods,
		Network: network,
	}, a.dialProvider(ctx, core.BackendMetaMask, cfg.Provider), a.Store, a.log)

	wc := a.newWalletConnect(core.BackendWalletConnect, core.FamilyEVM, cfg.Bridge, int(cfg.ChainID), backend.RawDeepLink)

	return family{
		family:   core.FamilyEVM,
		chain:    chain,
		backends: []ports.Backend{metamask, wc},
	}, nil
}

func (a *App) newCosmosFamily(ctx context.Context) family {
	cfg := a.cfg.Cosmos
	chain := cosmos.NewClient(cosmos.Config{
		LCD:      cfg.LCD,
		Contract: cfg.Contract,
		ChainID:  cfg.ChainID,
		Timeout:  cfg.Timeout,
	}, &http.Client{Timeout: cfg.Timeout}, a.log)

	station := backend.NewExtension(backend.ExtensionConfig{
		ID:      core.BackendStation,
		Family:  core.FamilyCosmos,
		Methods: backend.StationMethods,
	}, a.dialProvider(ctx, core.BackendStation, cfg.Provider), a.Store, a.log)

	return family{
		family: core.FamilyCosmos,
		chain:  chain,
		backends: []ports.Backend{
			station,
			a.newWalletConnect(core.BackendTerraStation, core.FamilyCosmos, cfg.Bridges.TerraStation, 0, backend.TerraStationDeepLink),
			a.newWalletConnect(core.BackendLuncDash, core.FamilyCosmos, cfg.Bridges.LuncDash, 0, backend.LuncDashDeepLink),
		},
	}
}

// dialProvider connects to a wallet's local provider endpoint. An empty or
// unreachable endpoint leaves the extension unavailable.
func (a *App) dialProvider(ctx context.Context, id core.BackendID, endpoint string) ports.Provider {
	if endpoint == "" {
		return nil
	}
	provider, err := backend.DialProvider(ctx, endpoint)
	if err != nil {
		a.log.Warn().Err(err).Str("backend", string(id)).Msg("wallet provider unreachable")
		return nil
	}
	a.closers = append(a.closers, func() error {
		provider.Close()
		return nil
	})
	return provider
}

func (a *App) newWalletConnect(id core.BackendID, f core.ChainFamily, bridge string, chainID int, link backend.DeepLinkFunc) *backend.WalletConnect {
	meta := a.cfg.WalletConnect
	client := walletconnect.NewClient(walletconnect.Config{
		Bridge: bridge,
		ClientMeta: walletconnect.PeerMeta{
			Name:        meta.Name,
			Description: meta.Description,
			URL:         meta.URL,
			Icons:       meta.Icons,
		},
		ChainID: chainID,
		Dial:    walletconnect.NewSocketDialer(a.log),
	}, a.log)
	a.closers = append(a.closers, client.Close)

	return backend.NewWalletConnect(backend.WalletConnectConfig{
		ID:             id,
		Family:         f,
		DeepLink:       link,
		ConnectTimeout: meta.ConnectTimeout,
	}, client, a.Store, a.Pairings, a.log)
}
