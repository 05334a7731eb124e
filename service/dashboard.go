package service

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
)

const DefaultRefreshInterval = 10 * time.Second

// ActiveSessions resolves the active session of a family.
type ActiveSessions interface {
	Active(family core.ChainFamily) (core.ActiveSession, bool)
}

// DepositorLister pages through the contract's depositors. Only some chain
// readers support it.
type DepositorLister interface {
	Depositors(ctx context.Context, startAfter string, limit uint32) ([]core.Depositor, string, error)
}

// DashboardConfig tunes the refresh loop and countdown.
type DashboardConfig struct {
	RefreshInterval time.Duration
	LaunchWindow    time.Duration
}

// Dashboard is the periodically refreshed read model of one chain family.
// Every read degrades to a zero value on failure, except the withdrawal
// config, which keeps its last good value.
type Dashboard struct {
	family   core.ChainFamily
	reader   ports.ChainReader
	sessions ActiveSessions
	cfg      DashboardConfig
	decimals int32
	now      func() time.Time
	log      zerolog.Logger

	mu    sync.RWMutex
	stats core.Stats
	// withdrawalFresh is set when the last refresh read the withdrawal
	// config successfully.
	withdrawalFresh bool
}

func NewDashboard(family core.ChainFamily, reader ports.ChainReader, sessions ActiveSessions, cfg DashboardConfig, log zerolog.Logger) *Dashboard {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.LaunchWindow <= 0 {
		cfg.LaunchWindow = core.LaunchWindow
	}
	return &Dashboard{
		family:   family,
		reader:   reader,
		sessions: sessions,
		cfg:      cfg,
		decimals: core.DecimalsFor(family),
		now:      time.Now,
		log:      log.With().Str("component", "dashboard").Str("family", string(family)).Logger(),
		stats:    emptyStats(family),
	}
}

func emptyStats(family core.ChainFamily) core.Stats {
	return core.Stats{
		Family:        family,
		TotalDeposits: "0",
		UserDeposit:   "0",
		Balance:       "0",
		Countdown:     core.Countdown{Phase: core.PhasePreregistration},
	}
}

// Refresh reads everything anew and replaces the snapshot.
func (d *Dashboard) Refresh(ctx context.Context) core.Stats {
	stats := emptyStats(d.family)

	if total, err := d.reader.TotalDeposits(ctx); d.ok(err, "total deposits") {
		stats.TotalDeposits = core.FromAtomicUnits(total, d.decimals)
	}
	if count, err := d.reader.UserCount(ctx); d.ok(err, "user count") {
		stats.UserCount = count
	}
	if owner, err := d.reader.Owner(ctx); d.ok(err, "owner") {
		stats.Owner = owner
	}
	info, err := d.reader.WithdrawalInfo(ctx)
	withdrawalFresh := d.ok(err, "withdrawal info")
	if withdrawalFresh {
		stats.Withdrawal = info
	} else {
		d.mu.RLock()
		stats.Withdrawal = d.stats.Withdrawal
		d.mu.RUnlock()
	}

	if session, ok := d.sessions.Active(d.family); ok {
		stats.Address = session.Address
		if deposit, err := d.reader.UserDeposit(ctx, session.Address); d.ok(err, "user deposit") {
			stats.UserDeposit = core.FromAtomicUnits(deposit, d.decimals)
		}
		if balance, err := d.reader.Balance(ctx, session.Address); d.ok(err, "balance") {
			stats.Balance = core.FromAtomicUnits(balance, d.decimals)
		}
		stats.IsOwner = stats.Owner != "" && strings.EqualFold(stats.Owner, session.Address)
	}

	now := d.now()
	stats.RefreshedAt = now
	stats.Countdown = core.DeriveCountdown(now, stats.Withdrawal, d.cfg.LaunchWindow)

	d.mu.Lock()
	d.stats = stats
	d.withdrawalFresh = withdrawalFresh
	d.mu.Unlock()
	return stats
}

func (d *Dashboard) ok(err error, what string) bool {
	if err != nil {
		d.log.Warn().Err(err).Str("read", what).Msg("read failed, using default")
		return false
	}
	return true
}

// Run refreshes immediately and then on every interval until ctx ends.
func (d *Dashboard) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.RefreshInterval)
	defer ticker.Stop()

	d.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Refresh(ctx)
		}
	}
}

// Snapshot returns the last stats with the countdown derived at the current
// time.
func (d *Dashboard) Snapshot() core.Stats {
	d.mu.RLock()
	stats := d.stats
	d.mu.RUnlock()
	stats.Countdown = core.DeriveCountdown(d.now(), stats.Withdrawal, d.cfg.LaunchWindow)
	return stats
}

// WithdrawalConfig returns the cached config. It reads the chain instead
// when no refresh has happened yet or the last withdrawal read failed.
func (d *Dashboard) WithdrawalConfig(ctx context.Context) (core.WithdrawalConfig, error) {
	d.mu.RLock()
	cfg, fresh := d.stats.Withdrawal, d.withdrawalFresh
	d.mu.RUnlock()
	if fresh {
		return cfg, nil
	}
	return d.reader.WithdrawalInfo(ctx)
}

// Depositors lists depositors when the chain reader supports it.
func (d *Dashboard) Depositors(ctx context.Context, startAfter string, limit uint32) ([]core.Depositor, string, error) {
	lister, ok := d.reader.(DepositorLister)
	if !ok {
		return nil, "", core.NewError(core.ErrValidation, "depositor listing is not supported on "+string(d.family))
	}
	users, next, err := lister.Depositors(ctx, startAfter, limit)
	if err != nil {
		return nil, "", err
	}
	for i := range users {
		if v, ok := new(big.Int).SetString(users[i].Deposit, 10); ok {
			users[i].Deposit = core.FromAtomicUnits(v, d.decimals)
		}
	}
	return users, next, nil
}
