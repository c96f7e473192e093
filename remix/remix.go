package remix

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"

	koji "github.com/ruskid/koji-core"
	"github.com/ruskid/koji-core/bridge"
)

var (
	// ErrBridgeNil is returned when no bridge is provided.
	ErrBridgeNil = errors.New("bridge cannot be nil")

	// ErrDefaultsNil is returned when Init is called without default values.
	ErrDefaultsNil = errors.New("default values cannot be nil")

	// ErrAlreadyInitialized is returned when Init is called more than once.
	ErrAlreadyInitialized = errors.New("store is already initialized")

	// ErrNotReady is returned by gated operations before the host has
	// signaled readiness.
	ErrNotReady = errors.New("host has not signaled readiness")

	// ErrValueNotFound is returned by Decode when nothing exists at the
	// requested path.
	ErrValueNotFound = errors.New("no value at path")

	// ErrDecode is returned when a value cannot be decoded into the
	// caller's type.
	ErrDecode = errors.New("failed to decode value")
)

// Config represents the configuration for creating a Remix instance.
type Config struct {
	// Bridge carries messages to and from the host frame. Required.
	Bridge *bridge.Bridge

	// Overrides is the customization tree the hosting environment supplies
	// at startup, normally koji.Environment.RemixOverrides(). May be nil.
	Overrides ValueTree
}

// Remix owns the customization value tree for a hosted application
// instance and keeps the host frame synchronized with local edits.
type Remix struct {
	bridge    *bridge.Bridge
	overrides ValueTree

	mu          sync.RWMutex
	tree        ValueTree
	initialized bool

	ready     chan struct{}
	readyOnce sync.Once

	unsubscribe func()
}

// New creates a Remix store based on the provided Config and starts
// listening for the host's readiness signal.
func New(config Config) (*Remix, error) {
	if config.Bridge == nil {
		return nil, errors.Join(koji.ErrConfiguration, ErrBridgeNil)
	}

	r := &Remix{
		bridge:    config.Bridge,
		overrides: cloneTree(config.Overrides),
		ready:     make(chan struct{}),
	}

	// The subscription stays registered for the life of the store; the
	// latch makes the signal one-shot no matter how often the host repeats
	// it.
	r.unsubscribe = r.bridge.On(EventIsRemixing, func(bridge.Message) {
		r.readyOnce.Do(func() { close(r.ready) })
	})

	return r, nil
}

// Init seeds the store by merging the startup overrides over defaults,
// then announces readiness to the host. The announcement is one-way:
// a failed send is logged and the local initialization stands.
func (r *Remix) Init(defaults ValueTree) error {
	if defaults == nil {
		return errors.Join(koji.ErrConfiguration, ErrDefaultsNil)
	}

	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return errors.Join(koji.ErrState, ErrAlreadyInitialized)
	}
	r.tree = Merge(defaults, r.overrides)
	r.initialized = true
	r.mu.Unlock()

	if err := r.bridge.Send(bridge.Message{Event: EventReady}); err != nil {
		glog.Warningf("[remix] ready announcement failed: %v", err)
	}

	return nil
}

// Get returns the value at path, or the entire tree when no path is given.
// Absent paths return nil. Returned values must be treated as read-only.
func (r *Remix) Get(path ...string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(path) == 0 {
		return r.tree
	}

	value, ok := lookup(r.tree, path)
	if !ok {
		return nil
	}
	return value
}

// GetOr returns the value at path, or fallback when any path segment is
// absent.
func (r *Remix) GetOr(fallback any, path ...string) any {
	r.mu.RLock()
	value, ok := lookup(r.tree, path)
	r.mu.RUnlock()

	if !ok {
		return fallback
	}
	return value
}

// Decode projects the value at path onto out, which must be a pointer.
// Callers use it to read customization data into their own struct types.
func (r *Remix) Decode(out any, path ...string) error {
	r.mu.RLock()
	value, ok := lookup(r.tree, path)
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %v", ErrValueNotFound, path)
	}

	if err := mapstructure.Decode(value, out); err != nil {
		return errors.Join(ErrDecode, err)
	}
	return nil
}

// Set deep-merges partial into the tree and pushes the full merged tree to
// the host, reporting whether the host acknowledged the change. Writes are
// rejected until the host signals readiness: earlier changes would never
// be registered host-side.
func (r *Remix) Set(ctx context.Context, partial ValueTree) (bool, error) {
	if !r.IsReady() {
		return false, errors.Join(koji.ErrState, ErrNotReady)
	}

	r.mu.Lock()
	r.tree = Merge(r.tree, partial)
	snapshot := r.tree
	r.mu.Unlock()

	return r.push(ctx, snapshot)
}

// Overwrite replaces the entire tree and pushes it to the host. Unlike Set
// it carries no readiness precondition, mirroring the platform's documented
// behavior for wholesale replacement.
func (r *Remix) Overwrite(ctx context.Context, tree ValueTree) (bool, error) {
	r.mu.Lock()
	r.tree = cloneTree(tree)
	snapshot := r.tree
	r.mu.Unlock()

	return r.push(ctx, snapshot)
}

// Finish asks the host to advance the session from editing to preview.
func (r *Remix) Finish() error {
	if !r.IsReady() {
		return errors.Join(koji.ErrState, ErrNotReady)
	}
	return r.bridge.Send(bridge.Message{Event: EventFinish})
}

// Cancel abandons the customization session. It has no readiness
// precondition.
func (r *Remix) Cancel() error {
	return r.bridge.Send(bridge.Message{Event: EventCancel})
}

// EncryptValue relays plaintext to the host for encryption and returns the
// host's sealed representation. No cryptography happens client-side.
func (r *Remix) EncryptValue(ctx context.Context, plaintext string) (string, error) {
	reply, err := r.bridge.SendAndAwait(ctx, bridge.Message{
		Event: EventEncryptValue,
		Data:  map[string]any{"plaintextValue": plaintext},
	}, EventValueEncrypted)
	if err != nil {
		return "", err
	}
	return stringField(reply, "encryptedValue")
}

// DecryptValue relays a sealed value to the host for decryption.
func (r *Remix) DecryptValue(ctx context.Context, encrypted string) (string, error) {
	reply, err := r.bridge.SendAndAwait(ctx, bridge.Message{
		Event: EventDecryptValue,
		Data:  map[string]any{"encryptedValue": encrypted},
	}, EventValueDecrypted)
	if err != nil {
		return "", err
	}
	return stringField(reply, "decryptedValue")
}

// IsReady reports whether the host has signaled readiness.
func (r *Remix) IsReady() bool {
	select {
	case <-r.ready:
		return true
	default:
		return false
	}
}

// Ready returns a channel that is closed once the host signals readiness.
func (r *Remix) Ready() <-chan struct{} {
	return r.ready
}

// Close releases the store's bridge subscription. The bridge itself is the
// owner's to close.
func (r *Remix) Close() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

func stringField(data map[string]any, key string) (string, error) {
	value, ok := data[key].(string)
	if !ok {
		return "", errors.Join(koji.ErrHostResponseInvalid, fmt.Errorf("reply is missing %s", key))
	}
	return value, nil
}
