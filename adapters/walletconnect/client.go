package walletconnect

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrSessionRejected = errors.New("session rejected by wallet")
	ErrNotConnected    = errors.New("walletconnect session not connected")
	ErrNoPendingPair   = errors.New("no pairing in progress")
)

const (
	methodSessionRequest = "wc_sessionRequest"
	methodSessionUpdate  = "wc_sessionUpdate"
)

// PeerMeta describes one side of the session to the other.
type PeerMeta struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Icons       []string `json:"icons"`
}

// Session is the persistable state of a connection.
type Session struct {
	Connected      bool      `json:"connected"`
	Accounts       []string  `json:"accounts"`
	ChainID        int       `json:"chainId"`
	Bridge         string    `json:"bridge"`
	Key            string    `json:"key"`
	ClientID       string    `json:"clientId"`
	ClientMeta     PeerMeta  `json:"clientMeta"`
	PeerID         string    `json:"peerId"`
	PeerMeta       *PeerMeta `json:"peerMeta,omitempty"`
	HandshakeID    int64     `json:"handshakeId"`
	HandshakeTopic string    `json:"handshakeTopic"`
}

// RPCError is a JSON-RPC error returned by the wallet.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
	}
	return e.Message
}

// ErrorCode exposes the JSON-RPC code.
func (e *RPCError) ErrorCode() int { return e.Code }

type rpcRequest struct {
	ID      int64  `json:"id"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcMessage struct {
	ID      int64           `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type sessionRequestParams struct {
	PeerID   string   `json:"peerId"`
	PeerMeta PeerMeta `json:"peerMeta"`
	ChainID  *int     `json:"chainId"`
}

type sessionParams struct {
	Approved  bool      `json:"approved"`
	ChainID   *int      `json:"chainId"`
	NetworkID *int      `json:"networkId"`
	Accounts  []string  `json:"accounts"`
	PeerID    string    `json:"peerId,omitempty"`
	PeerMeta  *PeerMeta `json:"peerMeta,omitempty"`
}

// EventType classifies wallet-initiated notifications.
type EventType string

const (
	EventSessionUpdate EventType = "session_update"
	EventDisconnect    EventType = "disconnect"
)

// Event is a wallet-initiated change of the session.
type Event struct {
	Type     EventType
	Accounts []string
	ChainID  int
}

// Config binds a client to one bridge.
type Config struct {
	Bridge     string
	ClientMeta PeerMeta
	ChainID    int
	Dial       Dialer
}

// Client is the dapp side of a version 1 session.
type Client struct {
	cfg Config
	log zerolog.Logger

	mu        sync.Mutex
	session   Session
	key       []byte
	transport Transport
	pending   map[int64]chan rpcMessage
	events    chan Event
}

// NewClient creates an idle client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		cfg:     cfg,
		log:     log.With().Str("bridge", cfg.Bridge).Logger(),
		pending: make(map[int64]chan rpcMessage),
		events:  make(chan Event, 16),
	}
}

// Events delivers session updates and remote disconnects.
func (c *Client) Events() <-chan Event { return c.events }

// Session returns a copy of the current session state.
func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	s.Accounts = append([]string(nil), c.session.Accounts...)
	return s
}

// Connected reports whether an approved session exists.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Connected && len(c.session.Accounts) > 0
}

// CreateSession opens the bridge connection and publishes a session request
// on a fresh handshake topic. The returned URI is what the wallet scans.
func (c *Client) CreateSession(ctx context.Context) (URI, error) {
	key, err := NewKey()
	if err != nil {
		return URI{}, err
	}

	t, err := c.cfg.Dial(ctx, c.cfg.Bridge)
	if err != nil {
		return URI{}, err
	}

	clientID := uuid.NewString()
	if err := t.Subscribe(clientID); err != nil {
		t.Close()
		return URI{}, fmt.Errorf("subscribe: %w", err)
	}

	var chainID *int
	if c.cfg.ChainID != 0 {
		id := c.cfg.ChainID
		chainID = &id
	}

	req := rpcRequest{
		ID:      payloadID(),
		JSONRPC: "2.0",
		Method:  methodSessionRequest,
		Params:  []sessionRequestParams{{PeerID: clientID, PeerMeta: c.cfg.ClientMeta, ChainID: chainID}},
	}

	c.mu.Lock()
	c.closeTransportLocked()
	c.transport = t
	c.key = key
	c.session = Session{
		Bridge:         c.cfg.Bridge,
		Key:            hex.EncodeToString(key),
		ClientID:       clientID,
		ClientMeta:     c.cfg.ClientMeta,
		HandshakeID:    req.ID,
		HandshakeTopic: uuid.NewString(),
	}
	c.pending[req.ID] = make(chan rpcMessage, 1)
	topic := c.session.HandshakeTopic
	c.mu.Unlock()

	go c.run(t)

	if err := c.publish(t, topic, req, true); err != nil {
		c.Close()
		return URI{}, err
	}

	return URI{Topic: topic, Bridge: c.cfg.Bridge, Key: key}, nil
}

// WaitForApproval blocks until the wallet answers the session request.
func (c *Client) WaitForApproval(ctx context.Context) (Session, error) {
	c.mu.Lock()
	ch, ok := c.pending[c.session.HandshakeID]
	t := c.transport
	c.mu.Unlock()
	if !ok || t == nil {
		return Session{}, ErrNoPendingPair
	}

	var resp rpcMessage
	select {
	case <-ctx.Done():
		return Session{}, ctx.Err()
	case <-t.Done():
		return Session{}, ErrTransportClosed
	case resp = <-ch:
	}

	if resp.Error != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrSessionRejected, resp.Error)
	}

	var params sessionParams
	if err := json.Unmarshal(resp.Result, &params); err != nil {
		return Session{}, fmt.Errorf("decode session approval: %w", err)
	}
	if !params.Approved {
		return Session{}, ErrSessionRejected
	}

	c.mu.Lock()
	delete(c.pending, resp.ID)
	c.session.Connected = true
	c.session.Accounts = params.Accounts
	c.session.PeerID = params.PeerID
	c.session.PeerMeta = params.PeerMeta
	if params.ChainID != nil {
		c.session.ChainID = *params.ChainID
	}
	c.mu.Unlock()

	return c.Session(), nil
}

// Restore reconnects a persisted session to its bridge.
func (c *Client) Restore(ctx context.Context, s Session) error {
	if !s.Connected || len(s.Accounts) == 0 || s.PeerID == "" {
		return ErrNotConnected
	}
	key, err := hex.DecodeString(s.Key)
	if err != nil || len(key) != keySize {
		return fmt.Errorf("invalid session key")
	}

	t, err := c.cfg.Dial(ctx, s.Bridge)
	if err != nil {
		return err
	}
	if err := t.Subscribe(s.ClientID); err != nil {
		t.Close()
		return fmt.Errorf("subscribe: %w", err)
	}

	c.mu.Lock()
	c.closeTransportLocked()
	c.transport = t
	c.key = key
	c.session = s
	c.mu.Unlock()

	go c.run(t)
	return nil
}

// Request sends a custom JSON-RPC request to the wallet and waits for its
// answer. Wallet errors are returned as *RPCError.
func (c *Client) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	c.mu.Lock()
	if !c.session.Connected || c.transport == nil {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	req := rpcRequest{ID: payloadID(), JSONRPC: "2.0", Method: method, Params: params}
	ch := make(chan rpcMessage, 1)
	c.pending[req.ID] = ch
	t := c.transport
	peer := c.session.PeerID
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
	}()

	if err := c.publish(t, peer, req, false); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.Done():
		return nil, ErrTransportClosed
	case resp := <-ch:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	}
}

// KillSession tells the wallet the session is over, then closes locally.
// The local side is always cleared, even when the notification fails.
func (c *Client) KillSession(ctx context.Context) error {
	c.mu.Lock()
	t := c.transport
	peer := c.session.PeerID
	connected := c.session.Connected
	c.mu.Unlock()

	var err error
	if connected && t != nil && peer != "" {
		req := rpcRequest{
			ID:      payloadID(),
			JSONRPC: "2.0",
			Method:  methodSessionUpdate,
			Params:  []sessionParams{{Approved: false}},
		}
		err = c.publish(t, peer, req, true)
	}

	c.Close()
	return err
}

// Close drops the bridge connection and forgets the session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeTransportLocked()
	c.session = Session{}
	c.key = nil
	c.pending = make(map[int64]chan rpcMessage)
	return nil
}

func (c *Client) closeTransportLocked() {
	if c.transport != nil {
		c.transport.Close()
		c.transport = nil
	}
}

func (c *Client) publish(t Transport, topic string, req rpcRequest, silent bool) error {
	plain, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	c.mu.Lock()
	key := c.key
	c.mu.Unlock()

	sealed, err := Encrypt(plain, key)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(sealed)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return t.Publish(topic, string(payload), silent)
}

func (c *Client) run(t Transport) {
	for {
		select {
		case <-t.Done():
			return
		case msg := <-t.Incoming():
			c.handle(msg)
		}
	}
}

func (c *Client) handle(msg SocketMessage) {
	c.mu.Lock()
	key := c.key
	clientID := c.session.ClientID
	c.mu.Unlock()

	if msg.Topic != clientID || key == nil {
		return
	}

	var sealed EncryptedPayload
	if err := json.Unmarshal([]byte(msg.Payload), &sealed); err != nil {
		c.log.Debug().Err(err).Msg("ignoring undecodable payload")
		return
	}
	plain, err := Decrypt(sealed, key)
	if err != nil {
		c.log.Warn().Err(err).Msg("ignoring payload that failed decryption")
		return
	}

	var rpc rpcMessage
	if err := json.Unmarshal(plain, &rpc); err != nil {
		c.log.Debug().Err(err).Msg("ignoring malformed json-rpc message")
		return
	}

	if rpc.Method != "" {
		c.handleRequest(rpc)
		return
	}

	c.mu.Lock()
	ch, ok := c.pending[rpc.ID]
	if ok && rpc.ID != c.session.HandshakeID {
		delete(c.pending, rpc.ID)
	}
	c.mu.Unlock()

	if !ok {
		c.log.Debug().Int64("id", rpc.ID).Msg("response without pending request")
		return
	}
	select {
	case ch <- rpc:
	default:
	}
}

func (c *Client) handleRequest(rpc rpcMessage) {
	if rpc.Method != methodSessionUpdate {
		c.log.Debug().Str("method", rpc.Method).Msg("ignoring wallet request")
		return
	}

	var params []sessionParams
	if err := json.Unmarshal(rpc.Params, &params); err != nil || len(params) == 0 {
		c.log.Warn().Msg("malformed session update")
		return
	}
	update := params[0]

	if !update.Approved {
		c.Close()
		c.emit(Event{Type: EventDisconnect})
		return
	}

	c.mu.Lock()
	if update.Accounts != nil {
		c.session.Accounts = update.Accounts
	}
	if update.ChainID != nil {
		c.session.ChainID = *update.ChainID
	}
	ev := Event{Type: EventSessionUpdate, Accounts: append([]string(nil), c.session.Accounts...), ChainID: c.session.ChainID}
	c.mu.Unlock()

	c.emit(ev)
}

func (c *Client) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.log.Warn().Str("type", string(ev.Type)).Msg("dropping session event, listener too slow")
	}
}

func payloadID() int64 {
	return time.Now().UnixMilli()*1000 + rand.Int64N(1000)
}
