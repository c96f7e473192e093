package bridge

import (
	"errors"
	"sync"

	"github.com/golang/glog"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

// Default waPC routing for clients embedded in the host frame.
const (
	// DefaultNamespace is the host capability namespace used when no
	// namespace is configured.
	DefaultNamespace = "koji"

	// DefaultReceiveBuffer is the inbound queue size used when none is
	// configured.
	DefaultReceiveBuffer = 16

	frameCapability = "frame"
	emitFunction    = "emit"

	// receiveFunction is the guest function the host invokes to deliver
	// frame events to an embedded client.
	receiveFunction = "frame_receive"
)

// ErrTransportClosed is returned when using a transport after Close.
var ErrTransportClosed = errors.New("transport is closed")

// Transport moves encoded messages between the client and its host frame.
// Implementations must close the Receive channel when the transport shuts
// down, whether by Close or by losing the host.
type Transport interface {
	// Send delivers one encoded message to the host.
	Send(payload []byte) error

	// Receive returns the channel of inbound payloads from the host.
	Receive() <-chan []byte

	// Close releases the transport and closes the Receive channel.
	Close() error
}

// HostCall is the function signature used to invoke host capabilities.
type HostCall func(string, string, string, []byte) ([]byte, error)

// RegisterFunc registers a guest function the host can invoke.
type RegisterFunc func(name string, fn func([]byte) ([]byte, error))

// GuestConfig represents the configuration for creating a GuestTransport.
type GuestConfig struct {
	// Namespace controls the host namespace messages are emitted under.
	// If empty, DefaultNamespace is used.
	Namespace string

	// Buffer is the inbound queue size. If zero or negative,
	// DefaultReceiveBuffer is used.
	Buffer int

	// HostCall is an optional host call override. Used primarily for
	// testing. If nil, the default host call is used.
	HostCall HostCall

	// Register is an optional registration override for the inbound
	// delivery function. Used primarily for testing.
	Register RegisterFunc
}

// GuestTransport reaches the host frame through the waPC guest interface
// when the client runs embedded inside the frame. The waPC function
// registry is process global, so create at most one guest transport per
// process.
type GuestTransport struct {
	namespace string
	hostCall  HostCall

	mu     sync.Mutex
	recv   chan []byte
	closed bool
}

var _ Transport = (*GuestTransport)(nil)

// NewGuestTransport creates a transport over the waPC guest interface
// based on the provided GuestConfig.
func NewGuestTransport(config GuestConfig) *GuestTransport {
	// Create transport configuration with defaults
	namespace := config.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	register := config.Register
	if register == nil {
		register = func(name string, fn func([]byte) ([]byte, error)) {
			wapc.RegisterFunction(name, fn)
		}
	}

	buffer := config.Buffer
	if buffer <= 0 {
		buffer = DefaultReceiveBuffer
	}

	t := &GuestTransport{
		namespace: namespace,
		hostCall:  hostCall,
		recv:      make(chan []byte, buffer),
	}

	register(receiveFunction, t.receive)

	return t
}

// Send emits one encoded message to the host frame.
func (t *GuestTransport) Send(payload []byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrTransportClosed
	}

	_, err := t.hostCall(t.namespace, frameCapability, emitFunction, payload)
	return err
}

// Receive returns the channel of inbound payloads from the host.
func (t *GuestTransport) Receive() <-chan []byte {
	return t.recv
}

// Close shuts the transport down. The waPC registration itself cannot be
// removed, so late host deliveries are rejected instead.
func (t *GuestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.closed = true
		close(t.recv)
	}
	return nil
}

// receive is invoked by the host to deliver one frame event.
func (t *GuestTransport) receive(payload []byte) ([]byte, error) {
	// The host may reuse the payload buffer after the call returns.
	buf := make([]byte, len(payload))
	copy(buf, payload)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrTransportClosed
	}

	select {
	case t.recv <- buf:
	default:
		glog.Warningf("[bridge] inbound queue full, dropping frame event")
	}

	return nil, nil
}
