package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{}

// newEchoServer starts a websocket server that echoes every frame back.
func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			messageType, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(messageType, payload); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestSocketTransportRoundTrip(t *testing.T) {
	server := newEchoServer(t)

	transport, err := NewSocketTransport(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer transport.Close()

	if err := transport.Send([]byte(`{"event":"Ready"}`)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case payload := <-transport.Receive():
		if string(payload) != `{"event":"Ready"}` {
			t.Fatalf("unexpected payload: %s", payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no echo before the deadline")
	}
}

func TestSocketTransportClose(t *testing.T) {
	server := newEchoServer(t)

	transport, err := NewSocketTransport(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	if err := transport.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, ok := <-transport.Receive(); ok {
		t.Fatal("expected Receive channel to be closed")
	}
	if err := transport.Send([]byte("late")); err == nil {
		t.Fatal("expected an error sending on a closed transport")
	}
}

func TestSocketTransportDialFailure(t *testing.T) {
	settings := DefaultSocketSettings()
	settings.HandshakeTimeout = 250 * time.Millisecond

	if _, err := NewSocketTransport(context.Background(), "ws://127.0.0.1:1/frame", settings); err == nil {
		t.Fatal("expected dial to fail")
	}
}

func TestSocketTransportServerGone(t *testing.T) {
	server := newEchoServer(t)

	transport, err := NewSocketTransport(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer transport.Close()

	server.CloseClientConnections()

	select {
	case _, ok := <-transport.Receive():
		if ok {
			t.Fatal("expected closure, got a payload")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Receive channel not closed after losing the server")
	}
}

func TestSocketTransportWithBridge(t *testing.T) {
	// Full stack: bridge over a websocket to a frame that acknowledges
	// SetValue pushes.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
			reply := `{"event":"DidChangeVcc","data":{"verified":true}}`
			if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	transport, err := NewSocketTransport(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	b, err := New(Config{Transport: transport})
	if err != nil {
		t.Fatalf("unable to create bridge: %v", err)
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reply, err := b.SendAndAwait(ctx, Message{Event: "SetValue"}, "DidChangeVcc")
	if err != nil {
		t.Fatalf("SendAndAwait failed: %v", err)
	}
	if reply["verified"] != true {
		t.Fatalf("unexpected reply payload: %v", reply)
	}
}
