package keystore

import (
	"context"
	"errors"
	"net/http"

	koji "github.com/ruskid/koji-core"
	"github.com/ruskid/koji-core/platform"
)

// REST paths of the keystore endpoints.
const (
	pathResolve   = "/v1/keystore/get"
	pathSignedURL = "/v1/cdn/signedUrl"
)

var (
	// ErrInvalidKeyPath indicates an empty key path.
	ErrInvalidKeyPath = errors.New("key path is invalid")

	// ErrInvalidResource indicates an empty resource reference.
	ErrInvalidResource = errors.New("resource is invalid")
)

// Client defines the keystore capability interface.
type Client interface {
	// Resolve exchanges a key path stored in the project's configuration
	// for the secret value it references.
	Resolve(ctx context.Context, keyPath string) (string, error)

	// GenerateSignedURL exchanges a protected resource reference for a
	// short-lived public URL. An expiry of zero leaves the lifetime to the
	// platform default.
	GenerateSignedURL(ctx context.Context, resource string, expirySeconds int) (string, error)
}

// Config controls how a Client instance reaches the platform keystore.
type Config struct {
	// SDKConfig provides the project identity and API endpoint used for
	// keystore requests.
	SDKConfig koji.RuntimeConfig

	// HTTPClient overrides the HTTP client used for keystore requests.
	HTTPClient *http.Client
}

// Keystore is the keystore capability client implementation.
type Keystore struct {
	runtime koji.RuntimeConfig
	client  *http.Client
}

// Ensure Keystore satisfies the Client interface at compile time.
var _ Client = (*Keystore)(nil)

// New creates a keystore client with endpoint defaults and optional HTTP
// client override.
func New(config Config) (*Keystore, error) {
	runtime := config.SDKConfig
	if runtime.ProjectID == "" {
		return nil, errors.Join(koji.ErrConfiguration, koji.ErrProjectIDEmpty)
	}
	if runtime.ProjectToken == "" {
		return nil, errors.Join(koji.ErrConfiguration, koji.ErrProjectTokenEmpty)
	}
	if runtime.APIEndpoint == "" {
		runtime.APIEndpoint = koji.DefaultAPIEndpoint
	}

	client := config.HTTPClient
	if client == nil {
		client = platform.DefaultClient()
	}

	return &Keystore{runtime: runtime, client: client}, nil
}

type resolveRequest struct {
	// Scope is the project the key path belongs to.
	Scope string `json:"scope"`

	// Token is the key path being exchanged.
	Token string `json:"token"`
}

type resolveReply struct {
	DecryptedValue string `json:"decryptedValue"`
}

type signedURLRequest struct {
	Resource string `json:"resource"`

	// ExpirySeconds bounds the lifetime of the signed URL. Zero is left
	// off the wire and the platform default applies.
	ExpirySeconds int `json:"expirySeconds,omitempty"`
}

type signedURLReply struct {
	URL string `json:"url"`
}

// Resolve exchanges a key path for the secret value it references.
func (k *Keystore) Resolve(ctx context.Context, keyPath string) (string, error) {
	if keyPath == "" {
		return "", ErrInvalidKeyPath
	}

	reply, err := platform.Post[resolveReply](ctx, k.client, k.runtime, pathResolve, resolveRequest{
		Scope: k.runtime.ProjectID,
		Token: keyPath,
	})
	if err != nil {
		return "", err
	}
	return reply.DecryptedValue, nil
}

// GenerateSignedURL exchanges a protected resource reference for a
// short-lived public URL. An expiry of zero leaves the lifetime to the
// platform default.
func (k *Keystore) GenerateSignedURL(ctx context.Context, resource string, expirySeconds int) (string, error) {
	if resource == "" {
		return "", ErrInvalidResource
	}

	reply, err := platform.Post[signedURLReply](ctx, k.client, k.runtime, pathSignedURL, signedURLRequest{
		Resource:      resource,
		ExpirySeconds: expirySeconds,
	})
	if err != nil {
		return "", err
	}
	return reply.URL, nil
}
