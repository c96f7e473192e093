package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/golang/glog"
	"github.com/oklog/ulid/v2"

	koji "github.com/ruskid/koji-core"
)

var (
	// ErrEventEmpty is returned when a message carries no event name.
	ErrEventEmpty = errors.New("event name cannot be empty")

	// ErrReplyEventEmpty is returned when awaiting a reply without a name.
	ErrReplyEventEmpty = errors.New("reply event name cannot be empty")

	// ErrClosed is returned for operations on a closed bridge.
	ErrClosed = errors.New("bridge is closed")

	// ErrMarshalMessage is returned when an outbound message cannot be
	// encoded.
	ErrMarshalMessage = errors.New("failed to marshal message")
)

// HandlerFunc receives inbound host messages for a subscription.
type HandlerFunc func(msg Message)

// Config represents the configuration for creating a Bridge instance.
type Config struct {
	// Transport carries encoded messages to and from the host frame. If
	// nil, a guest transport with default waPC wiring is used.
	Transport Transport
}

// Bridge exchanges messages with the host frame. It correlates
// asynchronous host replies to requests by event name and fans other
// inbound events out to subscribers.
type Bridge struct {
	transport Transport

	mu       sync.Mutex
	pending  map[string][]chan map[string]any
	handlers map[string][]subscription
	nextSub  uint64

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

type subscription struct {
	id uint64
	fn HandlerFunc
}

// New creates a Bridge based on the provided Config and starts its receive
// loop.
func New(config Config) (*Bridge, error) {
	transport := config.Transport
	if transport == nil {
		transport = NewGuestTransport(GuestConfig{})
	}

	b := &Bridge{
		transport: transport,
		pending:   make(map[string][]chan map[string]any),
		handlers:  make(map[string][]subscription),
		done:      make(chan struct{}),
	}

	go b.run()

	return b, nil
}

// Send encodes msg and delivers it to the host frame without waiting for a
// reply. Messages without an ID are stamped with a fresh ULID first.
func (b *Bridge) Send(msg Message) error {
	if msg.Event == "" {
		return ErrEventEmpty
	}

	select {
	case <-b.done:
		return ErrClosed
	default:
	}

	if msg.ID == "" {
		msg.ID = ulid.Make().String()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Join(ErrMarshalMessage, err)
	}

	glog.V(2).Infof("[bridge] -> %s id=%s", msg.Event, msg.ID)
	if err := b.transport.Send(payload); err != nil {
		return errors.Join(koji.ErrHostCall, err)
	}

	return nil
}

// SendAndAwait delivers msg and blocks until a host message named
// replyEvent arrives, the context ends, or the bridge closes. With a
// background context the wait has no deadline. The reply listener is
// registered before the send, so a host that answers immediately cannot
// race past it.
func (b *Bridge) SendAndAwait(ctx context.Context, msg Message, replyEvent string) (map[string]any, error) {
	if replyEvent == "" {
		return nil, ErrReplyEventEmpty
	}

	reply := make(chan map[string]any, 1)
	if err := b.addPending(replyEvent, reply); err != nil {
		return nil, err
	}

	if err := b.Send(msg); err != nil {
		b.removePending(replyEvent, reply)
		return nil, err
	}

	select {
	case data := <-reply:
		return data, nil
	case <-ctx.Done():
		b.removePending(replyEvent, reply)
		return nil, fmt.Errorf("awaiting %s: %w", replyEvent, ctx.Err())
	case <-b.done:
		return nil, ErrClosed
	}
}

// On registers fn for every inbound host message named event and returns a
// function that removes the subscription. Handlers run on the bridge's
// receive goroutine and must not block.
func (b *Bridge) On(event string, fn HandlerFunc) func() {
	b.mu.Lock()
	b.nextSub++
	id := b.nextSub
	b.handlers[event] = append(b.handlers[event], subscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[event]
		for i, sub := range subs {
			if sub.id == id {
				b.handlers[event] = slices.Delete(subs, i, i+1)
				if len(b.handlers[event]) == 0 {
					delete(b.handlers, event)
				}
				return
			}
		}
	}
}

// Close shuts the transport down, waits for the receive loop to drain, and
// releases every waiter with ErrClosed.
func (b *Bridge) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.transport.Close()
	})
	<-b.done
	return b.closeErr
}

// run decodes inbound payloads and dispatches them until the transport's
// receive channel closes.
func (b *Bridge) run() {
	for payload := range b.transport.Receive() {
		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			glog.Warningf("[bridge] dropping malformed frame event: %v", err)
			continue
		}
		if msg.Event == "" {
			glog.Warningf("[bridge] dropping frame event without a name")
			continue
		}

		glog.V(2).Infof("[bridge] <- %s id=%s", msg.Event, msg.ID)
		b.dispatch(msg)
	}

	close(b.done)
}

// dispatch resolves the oldest waiter registered for the event, if any,
// and then invokes subscribed handlers. One inbound message resolves at
// most one waiter.
func (b *Bridge) dispatch(msg Message) {
	b.mu.Lock()
	var waiter chan map[string]any
	if queue := b.pending[msg.Event]; len(queue) > 0 {
		waiter = queue[0]
		if len(queue) == 1 {
			delete(b.pending, msg.Event)
		} else {
			b.pending[msg.Event] = queue[1:]
		}
	}
	subs := slices.Clone(b.handlers[msg.Event])
	b.mu.Unlock()

	if waiter != nil {
		waiter <- msg.Data
	}
	for _, sub := range subs {
		sub.fn(msg)
	}
}

func (b *Bridge) addPending(event string, ch chan map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		return ErrClosed
	default:
	}

	b.pending[event] = append(b.pending[event], ch)
	return nil
}

func (b *Bridge) removePending(event string, ch chan map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	queue := b.pending[event]
	for i, waiter := range queue {
		if waiter == ch {
			queue = slices.Delete(queue, i, i+1)
			if len(queue) == 0 {
				delete(b.pending, event)
			} else {
				b.pending[event] = queue
			}
			return
		}
	}
}
