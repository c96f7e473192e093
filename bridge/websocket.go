package bridge

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
)

// SocketSettings tunes the websocket transport used when the client runs
// outside the host frame, for example against a local development host.
type SocketSettings struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	ReadTimeout      time.Duration
	PingInterval     time.Duration
	SendBuffer       int
	ReceiveBuffer    int
	Header           http.Header
}

// DefaultSocketSettings returns the settings used when none are provided.
func DefaultSocketSettings() *SocketSettings {
	return &SocketSettings{
		HandshakeTimeout: 2 * time.Second,
		WriteTimeout:     5 * time.Second,
		ReadTimeout:      15 * time.Second,
		PingInterval:     5 * time.Second,
		SendBuffer:       DefaultReceiveBuffer,
		ReceiveBuffer:    DefaultReceiveBuffer,
	}
}

// SocketTransport reaches the host frame over a websocket. Messages are
// exchanged as text frames carrying the JSON envelope.
type SocketTransport struct {
	conn     *websocket.Conn
	ctx      context.Context
	cancel   context.CancelFunc
	settings *SocketSettings

	send chan []byte
	recv chan []byte

	wg sync.WaitGroup
}

var _ Transport = (*SocketTransport)(nil)

// NewSocketTransport dials the host frame at url and starts the read and
// write pumps. Settings may be nil for defaults.
func NewSocketTransport(ctx context.Context, url string, settings *SocketSettings) (*SocketTransport, error) {
	if settings == nil {
		settings = DefaultSocketSettings()
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: settings.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, url, settings.Header)
	if err != nil {
		return nil, fmt.Errorf("dial host frame: %w", err)
	}

	cancelCtx, cancel := context.WithCancel(ctx)
	t := &SocketTransport{
		conn:     conn,
		ctx:      cancelCtx,
		cancel:   cancel,
		settings: settings,
		send:     make(chan []byte, settings.SendBuffer),
		recv:     make(chan []byte, settings.ReceiveBuffer),
	}

	t.wg.Add(2)
	go t.writePump()
	go t.readPump()

	return t, nil
}

// Send queues one encoded message for delivery to the host.
func (t *SocketTransport) Send(payload []byte) error {
	// Checked separately: with the pumps gone the queue never drains, so
	// the combined select could still pick the buffered send.
	select {
	case <-t.ctx.Done():
		return ErrTransportClosed
	default:
	}

	select {
	case t.send <- payload:
		return nil
	case <-t.ctx.Done():
		return ErrTransportClosed
	}
}

// Receive returns the channel of inbound payloads from the host.
func (t *SocketTransport) Receive() <-chan []byte {
	return t.recv
}

// Close tears the websocket down, stops both pumps, and closes the
// Receive channel.
func (t *SocketTransport) Close() error {
	t.cancel()
	t.conn.Close()
	t.wg.Wait()
	return nil
}

func (t *SocketTransport) writePump() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.settings.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			deadline := time.Now().Add(t.settings.WriteTimeout)
			t.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				deadline,
			)
			return
		case payload := <-t.send:
			t.conn.SetWriteDeadline(time.Now().Add(t.settings.WriteTimeout))
			if err := t.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				glog.Infof("[bridge] host frame write error: %v", err)
				t.cancel()
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(t.settings.WriteTimeout)
			if err := t.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				glog.Infof("[bridge] host frame ping error: %v", err)
				t.cancel()
				return
			}
		}
	}
}

func (t *SocketTransport) readPump() {
	defer func() {
		t.cancel()
		t.conn.Close()
		close(t.recv)
		t.wg.Done()
	}()

	t.conn.SetReadDeadline(time.Now().Add(t.settings.ReadTimeout))
	t.conn.SetPongHandler(func(string) error {
		return t.conn.SetReadDeadline(time.Now().Add(t.settings.ReadTimeout))
	})

	for {
		messageType, payload, err := t.conn.ReadMessage()
		if err != nil {
			if t.ctx.Err() == nil {
				glog.Infof("[bridge] host frame read error: %v", err)
			}
			return
		}
		t.conn.SetReadDeadline(time.Now().Add(t.settings.ReadTimeout))

		switch messageType {
		case websocket.TextMessage, websocket.BinaryMessage:
			if len(payload) == 0 {
				continue
			}
			select {
			case t.recv <- payload:
			case <-t.ctx.Done():
				return
			}
		}
	}
}
