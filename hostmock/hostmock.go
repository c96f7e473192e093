package hostmock

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ruskid/koji-core/bridge"
)

var (
	// ErrUnexpectedEvent is returned when Strict is set and an outbound
	// event has no Script entry.
	ErrUnexpectedEvent = errors.New("unexpected event")

	// ErrMalformedMessage is returned when an outbound payload is not a
	// valid message envelope.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")

	// ErrFrameClosed is returned when sending through a closed frame.
	ErrFrameClosed = errors.New("frame is closed")
)

// Responder produces the host's scripted reply for one outbound message.
// Returning nil sends no reply.
type Responder func(msg bridge.Message) *bridge.Message

// Config represents the configuration for creating a Frame instance.
type Config struct {
	// Script maps outbound event names to scripted host replies.
	Script map[string]Responder

	// Validator validates every outbound message before it is scripted.
	Validator func(msg bridge.Message) error

	// Strict rejects outbound events that have no Script entry.
	Strict bool

	// Error is the error to return if the frame is configured to fail.
	Error error

	// Fail indicates whether Send should return an error.
	Fail bool

	// Buffer is the inbound queue size. If zero or negative, 16 is used.
	Buffer int
}

// Frame simulates the parent frame on the host side of a bridge transport
// with validation and configurable responses. It records what the client
// sends and emits scripted or manual replies.
type Frame struct {
	script    map[string]Responder
	validator func(msg bridge.Message) error
	strict    bool
	fail      bool
	failErr   error

	mu     sync.Mutex
	sent   []bridge.Message
	recv   chan []byte
	closed bool
}

var _ bridge.Transport = (*Frame)(nil)

// New creates a new instance of the Frame based on the provided Config.
func New(config Config) (*Frame, error) {
	buffer := config.Buffer
	if buffer <= 0 {
		buffer = 16
	}

	return &Frame{
		script:    config.Script,
		validator: config.Validator,
		strict:    config.Strict,
		fail:      config.Fail,
		failErr:   config.Error,
		recv:      make(chan []byte, buffer),
	}, nil
}

// Send receives one encoded message from the client, validating it and
// triggering any scripted reply.
func (f *Frame) Send(payload []byte) error {
	// Return user-defined error if Fail is set
	if f.fail && f.failErr != nil {
		return f.failErr
	}

	// Return default error if Fail is set but no custom error is provided
	if f.fail {
		return ErrOperationFailed
	}

	var msg bridge.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return errors.Join(ErrMalformedMessage, err)
	}

	// Validate message using user-defined validator, if provided
	if f.validator != nil {
		if err := f.validator(msg); err != nil {
			return err
		}
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFrameClosed
	}
	f.sent = append(f.sent, msg)
	responder := f.script[msg.Event]
	f.mu.Unlock()

	if responder == nil {
		if f.strict {
			return fmt.Errorf("%w: %s", ErrUnexpectedEvent, msg.Event)
		}
		return nil
	}

	// Emit user-defined reply if the responder produced one
	if reply := responder(msg); reply != nil {
		return f.Emit(*reply)
	}

	return nil
}

// Receive returns the channel of host-initiated payloads.
func (f *Frame) Receive() <-chan []byte {
	return f.recv
}

// Close shuts the frame down and closes the Receive channel.
func (f *Frame) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.recv)
	}
	return nil
}

// Emit delivers a host-initiated message to the client, as the parent
// frame would when pushing an unsolicited event.
func (f *Frame) Emit(msg bridge.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	f.EmitRaw(payload)
	return nil
}

// EmitRaw delivers raw bytes to the client without encoding, useful for
// malformed-payload cases. It blocks while the inbound queue is full and
// drops the payload if the frame is closed.
func (f *Frame) EmitRaw(payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.recv <- payload
}

// Sent returns a copy of the messages the client has sent so far.
func (f *Frame) Sent() []bridge.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sent)
}

// LastSent returns the most recent message the client sent, if any.
func (f *Frame) LastSent() (bridge.Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return bridge.Message{}, false
	}
	return f.sent[len(f.sent)-1], true
}
