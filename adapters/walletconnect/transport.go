package walletconnect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendQueueSize  = 64
	incomingBuffer = 64
)

var ErrTransportClosed = errors.New("bridge connection closed")

// SocketMessage is the bridge framing around every payload.
type SocketMessage struct {
	Topic   string `json:"topic"`
	Type    string `json:"type"`
	Payload string `json:"payload"`
	Silent  bool   `json:"silent"`
}

// Transport relays messages through a bridge server by topic.
type Transport interface {
	Subscribe(topic string) error
	Publish(topic, payload string, silent bool) error
	Incoming() <-chan SocketMessage
	Done() <-chan struct{}
	Close() error
}

// Dialer opens a transport to a bridge.
type Dialer func(ctx context.Context, bridge string) (Transport, error)

// SocketTransport is a Transport over a gorilla websocket connection.
type SocketTransport struct {
	conn     *websocket.Conn
	send     chan []byte
	incoming chan SocketMessage
	closing  chan struct{}
	done     chan struct{}
	once     sync.Once
	log      zerolog.Logger
}

// NewSocketDialer returns a Dialer backed by gorilla/websocket.
func NewSocketDialer(log zerolog.Logger) Dialer {
	return func(ctx context.Context, bridge string) (Transport, error) {
		return DialSocket(ctx, bridge, log)
	}
}

// DialSocket connects to the bridge and starts the read and write pumps.
func DialSocket(ctx context.Context, bridge string, log zerolog.Logger) (*SocketTransport, error) {
	endpoint, err := socketURL(bridge)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge %s: %w", bridge, err)
	}

	t := &SocketTransport{
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
		incoming: make(chan SocketMessage, incomingBuffer),
		closing:  make(chan struct{}),
		done:     make(chan struct{}),
		log:      log.With().Str("bridge", bridge).Logger(),
	}
	go t.writePump()
	go t.readPump()
	return t, nil
}

func (t *SocketTransport) Subscribe(topic string) error {
	return t.write(SocketMessage{Topic: topic, Type: "sub", Silent: true})
}

func (t *SocketTransport) Publish(topic, payload string, silent bool) error {
	return t.write(SocketMessage{Topic: topic, Type: "pub", Payload: payload, Silent: silent})
}

func (t *SocketTransport) Incoming() <-chan SocketMessage { return t.incoming }

func (t *SocketTransport) Done() <-chan struct{} { return t.done }

// Close flushes queued frames and closes the connection. Done is closed
// once the socket is gone.
func (t *SocketTransport) Close() error {
	t.once.Do(func() { close(t.closing) })
	return nil
}

func (t *SocketTransport) write(msg SocketMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode socket message: %w", err)
	}
	select {
	case <-t.closing:
		return ErrTransportClosed
	case <-t.done:
		return ErrTransportClosed
	case t.send <- data:
		return nil
	}
}

func (t *SocketTransport) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		t.conn.Close()
		close(t.done)
	}()

	for {
		select {
		case <-t.closing:
			t.drain()
			t.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case data := <-t.send:
			t.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				t.log.Warn().Err(err).Msg("bridge write failed")
				t.Close()
				return
			}
		case <-ticker.C:
			t.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := t.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				t.Close()
				return
			}
		}
	}
}

func (t *SocketTransport) drain() {
	for {
		select {
		case data := <-t.send:
			t.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (t *SocketTransport) readPump() {
	defer t.Close()

	t.conn.SetReadDeadline(time.Now().Add(pongWait))
	t.conn.SetPongHandler(func(string) error {
		t.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.log.Warn().Err(err).Msg("bridge connection lost")
			}
			return
		}
		t.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg SocketMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.log.Debug().Err(err).Msg("ignoring malformed bridge frame")
			continue
		}
		if msg.Type != "pub" {
			continue
		}

		t.write(SocketMessage{Topic: msg.Topic, Type: "ack", Silent: true})

		select {
		case t.incoming <- msg:
		case <-t.closing:
			return
		}
	}
}
