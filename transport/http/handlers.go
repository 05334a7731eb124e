package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/walletbridge/adapters/presenter"
	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
	"github.com/layer-3/walletbridge/service"
)

const (
	DefaultTokenTTL = 24 * time.Hour

	defaultDepositorPage = 30
	maxDepositorPage     = 100
)

// ActiveSessions resolves the active session of a family.
type ActiveSessions interface {
	Active(family core.ChainFamily) (core.ActiveSession, bool)
}

// Connections is the connection manager surface used by the API.
type Connections interface {
	ActiveSessions
	Backend(id core.BackendID) (ports.Backend, bool)
	Backends(ctx context.Context, family core.ChainFamily) []service.BackendInfo
	Activate(ctx context.Context, id core.BackendID) (core.ActiveSession, error)
	CancelActivation(family core.ChainFamily) bool
	Deactivate(ctx context.Context, family core.ChainFamily) error
}

type Submitter interface {
	Submit(ctx context.Context, intent core.TransactionIntent, activeAddress string) (*service.Submission, error)
}

type Dashboard interface {
	Snapshot() core.Stats
	Depositors(ctx context.Context, startAfter string, limit uint32) ([]core.Depositor, string, error)
}

type Pairings interface {
	Current(id core.BackendID) (presenter.Presented, bool)
}

// Deps are the components served by the API. Families missing from
// Submitters or Dashboards answer 404 on the matching routes.
type Deps struct {
	Connections Connections
	Submitters  map[core.ChainFamily]Submitter
	Dashboards  map[core.ChainFamily]Dashboard
	Pairings    Pairings
	Tokenizer   ports.Tokenizer
	TokenTTL    time.Duration
}

// Handlers contains the HTTP handlers of the wallet API.
type Handlers struct {
	deps Deps
	now  func() time.Time
}

func NewHandlers(deps Deps) *Handlers {
	if deps.TokenTTL <= 0 {
		deps.TokenTTL = DefaultTokenTTL
	}
	return &Handlers{deps: deps, now: time.Now}
}

// Health answers liveness probes.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// WalletsResponse lists the backends of a family and its active session.
type WalletsResponse struct {
	Family   core.ChainFamily      `json:"family"`
	Active   *core.ActiveSession   `json:"active,omitempty"`
	Backends []service.BackendInfo `json:"backends"`
}

// Wallets lists the backends of a family.
func (h *Handlers) Wallets(c *gin.Context) {
	family := familyOf(c)
	resp := WalletsResponse{
		Family:   family,
		Backends: h.deps.Connections.Backends(c.Request.Context(), family),
	}
	if session, ok := h.deps.Connections.Active(family); ok {
		resp.Active = &session
	}
	c.JSON(http.StatusOK, resp)
}

// ConnectRequest selects the backend to activate.
type ConnectRequest struct {
	Backend core.BackendID `json:"backend" binding:"required"`
}

// ConnectResponse carries the connection token for transaction routes.
type ConnectResponse struct {
	Address   string         `json:"address"`
	Backend   core.BackendID `json:"backend"`
	SessionID string         `json:"session_id"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// Connect activates a backend. For WalletConnect backends the request
// blocks until the wallet approves or the pairing deadline passes.
func (h *Handlers) Connect(c *gin.Context) {
	family := familyOf(c)

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, core.WrapError(core.ErrValidation, "invalid request", err))
		return
	}

	b, ok := h.deps.Connections.Backend(req.Backend)
	if !ok {
		abortWithError(c, core.ErrUnknownBackend)
		return
	}
	if b.Family() != family {
		abortWithError(c, core.NewError(core.ErrValidation, string(req.Backend)+" is not a "+string(family)+" wallet"))
		return
	}

	session, err := h.deps.Connections.Activate(c.Request.Context(), req.Backend)
	if err != nil {
		abortWithError(c, err)
		return
	}

	expiresAt := h.now().Add(h.deps.TokenTTL)
	token, err := h.deps.Tokenizer.SessionToToken(session, expiresAt)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to issue connection token", Notice: "error"})
		return
	}

	c.JSON(http.StatusOK, ConnectResponse{
		Address:   session.Address,
		Backend:   session.BackendID,
		SessionID: session.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// CancelConnect aborts an in-flight activation of the family.
func (h *Handlers) CancelConnect(c *gin.Context) {
	cancelled := h.deps.Connections.CancelActivation(familyOf(c))
	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}

// Pairing returns the pairing awaiting approval in the family.
func (h *Handlers) Pairing(c *gin.Context) {
	family := familyOf(c)
	if h.deps.Pairings != nil {
		for _, b := range h.deps.Connections.Backends(c.Request.Context(), family) {
			if b.Kind != core.KindWalletConnect {
				continue
			}
			if p, ok := h.deps.Pairings.Current(b.ID); ok {
				c.JSON(http.StatusOK, p)
				return
			}
		}
	}
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "no pairing in progress", Notice: "info"})
}

// Disconnect deactivates the active backend of the family.
func (h *Handlers) Disconnect(c *gin.Context) {
	if err := h.deps.Connections.Deactivate(c.Request.Context(), familyOf(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "disconnected"})
}

// TxRequest is a transaction intent in wire form.
type TxRequest struct {
	Kind            core.IntentKind `json:"kind" binding:"required"`
	Amount          string          `json:"amount"`
	Destination     string          `json:"destination"`
	UnlockTimestamp int64           `json:"unlock_timestamp"`
}

func (r TxRequest) intent() core.TransactionIntent {
	intent := core.TransactionIntent{Kind: r.Kind, Amount: r.Amount}
	if r.Kind == core.IntentSetWithdrawalDestination {
		intent.Params = &core.DestinationParams{
			Destination:     r.Destination,
			UnlockTimestamp: r.UnlockTimestamp,
		}
	}
	return intent
}

// TxResponse reports a submission. On failure Error is set and the
// transactions reached so far are included.
type TxResponse struct {
	*service.Submission
	Error *ErrorResponse `json:"error,omitempty"`
}

// SubmitTx runs a transaction intent through the active backend.
func (h *Handlers) SubmitTx(c *gin.Context) {
	family := familyOf(c)
	submitter, ok := h.deps.Submitters[family]
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: string(family) + " is not enabled", Notice: "error"})
		return
	}

	var req TxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, core.WrapError(core.ErrValidation, "invalid request", err))
		return
	}

	session := c.MustGet(ctxSession).(core.ActiveSession)
	sub, err := submitter.Submit(c.Request.Context(), req.intent(), session.Address)
	if err != nil {
		if sub == nil {
			abortWithError(c, err)
			return
		}
		resp := errorResponse(err)
		c.AbortWithStatusJSON(statusFor(err), TxResponse{Submission: sub, Error: &resp})
		return
	}
	c.JSON(http.StatusOK, TxResponse{Submission: sub})
}

// Stats returns the dashboard snapshot of the family.
func (h *Handlers) Stats(c *gin.Context) {
	dashboard, ok := h.dashboard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dashboard.Snapshot())
}

// Depositors pages through the contract's depositors.
func (h *Handlers) Depositors(c *gin.Context) {
	dashboard, ok := h.dashboard(c)
	if !ok {
		return
	}

	limit := uint64(defaultDepositorPage)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 {
			abortWithError(c, core.NewError(core.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = min(n, maxDepositorPage)
	}

	users, next, err := dashboard.Depositors(c.Request.Context(), c.Query("start_after"), uint32(limit))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "next": next})
}

func (h *Handlers) dashboard(c *gin.Context) (Dashboard, bool) {
	family := familyOf(c)
	d, ok := h.deps.Dashboards[family]
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: string(family) + " is not enabled", Notice: "error"})
	}
	return d, ok
}
