package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
)

// BackendInfo describes a registered backend for listings.
type BackendInfo struct {
	ID        core.BackendID   `json:"id"`
	Family    core.ChainFamily `json:"family"`
	Kind      core.BackendKind `json:"kind"`
	Available bool             `json:"available"`
	Active    bool             `json:"active"`
}

type activeEntry struct {
	session core.ActiveSession
	backend ports.Backend
}

// ConnectionManager owns the active backend of each chain family. It is the
// only component that changes which backend is active.
type ConnectionManager struct {
	mu       sync.Mutex
	backends []ports.Backend
	byID     map[core.BackendID]ports.Backend
	active   map[core.ChainFamily]*activeEntry
	inflight map[core.ChainFamily]context.CancelFunc

	events ports.EventPublisher
	now    func() time.Time
	log    zerolog.Logger
}

var _ ports.SessionListener = (*ConnectionManager)(nil)

// NewConnectionManager creates a manager with no backends registered.
func NewConnectionManager(events ports.EventPublisher, log zerolog.Logger) *ConnectionManager {
	return &ConnectionManager{
		byID:     make(map[core.BackendID]ports.Backend),
		active:   make(map[core.ChainFamily]*activeEntry),
		inflight: make(map[core.ChainFamily]context.CancelFunc),
		events:   events,
		now:      time.Now,
		log:      log.With().Str("component", "connection-manager").Logger(),
	}
}

// Register adds a backend. Registration order is the restore priority within
// a connection kind.
func (m *ConnectionManager) Register(b ports.Backend) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[b.ID()]; ok {
		return fmt.Errorf("backend %s already registered", b.ID())
	}
	m.byID[b.ID()] = b
	m.backends = append(m.backends, b)
	b.SetListener(m)
	return nil
}

// Backend returns a registered backend by id.
func (m *ConnectionManager) Backend(id core.BackendID) (ports.Backend, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	return b, ok
}

// Backends lists the backends of a family with their availability.
func (m *ConnectionManager) Backends(ctx context.Context, family core.ChainFamily) []BackendInfo {
	m.mu.Lock()
	list := make([]ports.Backend, 0, len(m.backends))
	for _, b := range m.backends {
		if b.Family() == family {
			list = append(list, b)
		}
	}
	var activeID core.BackendID
	if e := m.active[family]; e != nil {
		activeID = e.session.BackendID
	}
	m.mu.Unlock()

	infos := make([]BackendInfo, 0, len(list))
	for _, b := range list {
		infos = append(infos, BackendInfo{
			ID:        b.ID(),
			Family:    b.Family(),
			Kind:      b.Kind(),
			Available: b.Available(ctx),
			Active:    b.ID() == activeID,
		})
	}
	return infos
}

// Activate makes the backend the only active one of its family. Any other
// active backend of that family is disconnected first. A concurrent
// activation in the same family fails with core.ErrActivationInProgress.
func (m *ConnectionManager) Activate(ctx context.Context, id core.BackendID) (core.ActiveSession, error) {
	m.mu.Lock()
	b, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return core.ActiveSession{}, fmt.Errorf("%w: %s", core.ErrUnknownBackend, id)
	}
	family := b.Family()
	if _, busy := m.inflight[family]; busy {
		m.mu.Unlock()
		return core.ActiveSession{}, core.ErrActivationInProgress
	}
	connectCtx, cancel := context.WithCancel(ctx)
	m.inflight[family] = cancel
	prev := m.active[family]
	delete(m.active, family)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.inflight, family)
		m.mu.Unlock()
		cancel()
	}()

	if prev != nil {
		if err := prev.backend.Disconnect(ctx); err != nil {
			m.log.Warn().Err(err).Str("backend", string(prev.session.BackendID)).Msg("failed to disconnect previous backend")
		}
		m.publish(ctx, core.SessionDisconnected, prev.session)
	}

	address, err := b.Connect(connectCtx)
	if err != nil {
		m.log.Info().Err(err).Str("backend", string(id)).Msg("activation failed")
		return core.ActiveSession{}, err
	}

	session := m.setActive(b, address)
	m.log.Info().Str("backend", string(id)).Str("address", address).Msg("backend activated")
	m.publish(ctx, core.SessionConnected, session)
	return session, nil
}

// CancelActivation aborts an in-flight Activate of the family. The aborted
// call returns a connection rejection.
func (m *ConnectionManager) CancelActivation(family core.ChainFamily) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	cancel, ok := m.inflight[family]
	if ok {
		cancel()
	}
	return ok
}

// Deactivate disconnects the active backend of the family, if any.
func (m *ConnectionManager) Deactivate(ctx context.Context, family core.ChainFamily) error {
	m.mu.Lock()
	entry := m.active[family]
	delete(m.active, family)
	m.mu.Unlock()

	if entry == nil {
		return nil
	}
	err := entry.backend.Disconnect(ctx)
	m.publish(ctx, core.SessionDisconnected, entry.session)
	if err != nil {
		return fmt.Errorf("disconnect %s: %w", entry.session.BackendID, err)
	}
	return nil
}

// Active returns the active session of the family.
func (m *ConnectionManager) Active(family core.ChainFamily) (core.ActiveSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.active[family]; e != nil {
		return e.session, true
	}
	return core.ActiveSession{}, false
}

// ActiveBackend returns the active backend of the family and its session.
func (m *ConnectionManager) ActiveBackend(family core.ChainFamily) (ports.Backend, core.ActiveSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e := m.active[family]; e != nil {
		return e.backend, e.session, true
	}
	return nil, core.ActiveSession{}, false
}

// Restore silently brings back persisted sessions. Extension backends are
// tried before WalletConnect ones and the first success per family wins.
// Failures are logged and never returned.
func (m *ConnectionManager) Restore(ctx context.Context) {
	m.mu.Lock()
	ordered := make([]ports.Backend, 0, len(m.backends))
	for _, kind := range []core.BackendKind{core.KindExtension, core.KindWalletConnect} {
		for _, b := range m.backends {
			if b.Kind() == kind {
				ordered = append(ordered, b)
			}
		}
	}
	m.mu.Unlock()

	for _, b := range ordered {
		if ctx.Err() != nil {
			return
		}
		m.restore(ctx, b)
	}
}

// restore holds the family's activation slot while the backend restores, so
// a concurrent Activate cannot leave two connected backends in one family.
func (m *ConnectionManager) restore(ctx context.Context, b ports.Backend) {
	family := b.Family()
	m.mu.Lock()
	_, busy := m.inflight[family]
	_, taken := m.active[family]
	if busy || taken {
		m.mu.Unlock()
		return
	}
	restoreCtx, cancel := context.WithCancel(ctx)
	m.inflight[family] = cancel
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.inflight, family)
		m.mu.Unlock()
		cancel()
	}()

	logger := m.log.With().Str("backend", string(b.ID())).Logger()
	address, err := b.Restore(restoreCtx)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			logger.Debug().Msg("no session to restore")
		} else {
			logger.Warn().Err(err).Msg("session restore failed")
		}
		return
	}

	session := m.setActive(b, address)
	logger.Info().Str("address", address).Msg("session restored")
	m.publish(ctx, core.SessionRestored, session)
}

// SessionTerminated clears the active slot when the wallet ended the session.
func (m *ConnectionManager) SessionTerminated(id core.BackendID) {
	m.mu.Lock()
	var ended *activeEntry
	for family, e := range m.active {
		if e.session.BackendID == id {
			ended = e
			delete(m.active, family)
			break
		}
	}
	m.mu.Unlock()

	if ended == nil {
		return
	}
	m.log.Info().Str("backend", string(id)).Msg("session terminated by wallet")
	m.publish(context.Background(), core.SessionTerminated, ended.session)
}

// AccountsChanged follows the wallet's account switch. An empty address ends
// the session.
func (m *ConnectionManager) AccountsChanged(id core.BackendID, address string) {
	if address == "" {
		m.SessionTerminated(id)
		return
	}

	m.mu.Lock()
	var updated *core.ActiveSession
	for _, e := range m.active {
		if e.session.BackendID == id && e.session.Address != address {
			e.session.Address = address
			s := e.session
			updated = &s
			break
		}
	}
	m.mu.Unlock()

	if updated != nil {
		m.publish(context.Background(), core.SessionAccountsChanged, *updated)
	}
}

func (m *ConnectionManager) setActive(b ports.Backend, address string) core.ActiveSession {
	session := core.ActiveSession{
		ID:          uuid.NewString(),
		BackendID:   b.ID(),
		Family:      b.Family(),
		Address:     address,
		ConnectedAt: m.now(),
	}
	m.mu.Lock()
	m.active[session.Family] = &activeEntry{session: session, backend: b}
	m.mu.Unlock()
	return session
}

func (m *ConnectionManager) publish(ctx context.Context, typ core.SessionEventType, s core.ActiveSession) {
	if m.events == nil {
		return
	}
	event := core.SessionEvent{
		Type:      typ,
		SessionID: s.ID,
		BackendID: s.BackendID,
		Family:    s.Family,
		Address:   s.Address,
		At:        m.now(),
	}
	if err := m.events.PublishSessionEvent(ctx, event); err != nil {
		m.log.Warn().Err(err).Str("type", string(typ)).Msg("failed to publish session event")
	}
}
