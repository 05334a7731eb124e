package backend

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/layer-3/walletbridge/adapters/walletconnect"
	"github.com/layer-3/walletbridge/core"
)

type recordedRequest struct {
	Method string
	Params json.RawMessage
}

type fakeResponse struct {
	result string
	err    error
}

type fakeConnector struct {
	mu        sync.Mutex
	approve   func(ctx context.Context) (walletconnect.Session, error)
	responses []fakeResponse
	requests  []recordedRequest
	restored  *walletconnect.Session
	killed    int
	closed    int
	events    chan walletconnect.Event
	session   walletconnect.Session
}

func newFakeConnector(accounts ...string) *fakeConnector {
	return &fakeConnector{
		events: make(chan walletconnect.Event, 4),
		approve: func(context.Context) (walletconnect.Session, error) {
			return walletconnect.Session{Connected: true, Accounts: accounts, PeerID: "peer", Key: "00"}, nil
		},
	}
}

func (f *fakeConnector) CreateSession(ctx context.Context) (walletconnect.URI, error) {
	return walletconnect.URI{Topic: "topic", Bridge: "https://bridge.example", Key: make([]byte, 32)}, nil
}

func (f *fakeConnector) WaitForApproval(ctx context.Context) (walletconnect.Session, error) {
	s, err := f.approve(ctx)
	if err == nil {
		f.mu.Lock()
		f.session = s
		f.mu.Unlock()
	}
	return s, err
}

func (f *fakeConnector) Restore(ctx context.Context, s walletconnect.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored = &s
	f.session = s
	return nil
}

func (f *fakeConnector) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	raw, _ := json.Marshal(params)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{Method: method, Params: raw})
	if len(f.responses) == 0 {
		return nil, &walletconnect.RPCError{Message: "no scripted response"}
	}
	r := f.responses[0]
	f.responses = f.responses[1:]
	if r.err != nil {
		return nil, r.err
	}
	return json.RawMessage(r.result), nil
}

func (f *fakeConnector) KillSession(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.killed++
	return nil
}

func (f *fakeConnector) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeConnector) Session() walletconnect.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

func (f *fakeConnector) Events() <-chan walletconnect.Event { return f.events }

func (f *fakeConnector) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

type fakePresenter struct {
	mu      sync.Mutex
	shown  []core.Pairing
	closed  []core.BackendID
}

func (p *fakePresenter) ShowPairing(ctx context.Context, pairing core.Pairing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, pairing)
	return nil
}

func (p *fakePresenter) ClosePairing(id core.BackendID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = append(p.closed, id)
}

type fakeListener struct {
	terminated chan core.BackendID
	changed    chan string
}

func newFakeListener() *fakeListener {
	return &fakeListener{terminated: make(chan core.BackendID, 1), changed: make(chan string, 1)}
}

func (l *fakeListener) SessionTerminated(id core.BackendID) { l.terminated <- id }

func (l *fakeListener) AccountsChanged(id core.BackendID, address string) { l.changed <- address }

type codeError struct {
	code int
	msg  string
}

func (e codeError) Error() string  { return e.msg }
func (e codeError) ErrorCode() int { return e.code }

type providerCall struct {
	Method string
	Params []any
}

type fakeProvider struct {
	mu       sync.Mutex
	handlers map[string]func(params []any) (string, error)
	calls    []providerCall
}

func (p *fakeProvider) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, providerCall{Method: method, Params: params})
	h, ok := p.handlers[method]
	if !ok {
		return nil, codeError{code: -32601, msg: "method not found"}
	}
	res, err := h(params)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(res), nil
}

func (p *fakeProvider) methods() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, c := range p.calls {
		out = append(out, c.Method)
	}
	return out
}
