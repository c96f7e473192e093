package koji

import (
	"errors"
	"fmt"
)

// DefaultAPIEndpoint is used when no explicit REST endpoint is provided.
const DefaultAPIEndpoint = "https://rest.api.gokoji.com"

var (
	// ErrProjectIDEmpty is returned when no project identifier is provided.
	ErrProjectIDEmpty = fmt.Errorf("project id cannot be empty")

	// ErrProjectTokenEmpty is returned by backend clients when no project
	// token is provided.
	ErrProjectTokenEmpty = fmt.Errorf("project token cannot be empty")
)

// Config provides configuration options for SDK initialization.
type Config struct {
	// ProjectID identifies the hosted project instance this client acts for.
	ProjectID string

	// ProjectToken authenticates backend requests made on behalf of the
	// project. Frontend-only clients may leave it empty.
	ProjectToken string

	// APIEndpoint controls the platform REST base URL used by backend
	// capability clients. If empty, DefaultAPIEndpoint is used.
	APIEndpoint string
}

// RuntimeConfig carries configuration that is used during creation of SDK components.
type RuntimeConfig struct {
	// ProjectID identifies the hosted project instance.
	ProjectID string

	// ProjectToken authenticates backend requests for the project.
	ProjectToken string

	// APIEndpoint is the platform REST base URL used by backend clients.
	APIEndpoint string
}

// SDK represents the initialized client runtime for a project instance.
type SDK struct {
	// runtime holds the current runtime configuration snapshot.
	runtime RuntimeConfig
}

// New validates the provided configuration and initializes the SDK.
func New(config Config) (*SDK, error) {
	// Validate ProjectID is not empty
	if config.ProjectID == "" {
		return nil, errors.Join(ErrConfiguration, ErrProjectIDEmpty)
	}

	// Create runtime configuration with defaults
	cfg := RuntimeConfig{
		ProjectID:    config.ProjectID,
		ProjectToken: config.ProjectToken,
		APIEndpoint:  DefaultAPIEndpoint,
	}

	// Override defaults with provided configuration
	if config.APIEndpoint != "" {
		cfg.APIEndpoint = config.APIEndpoint
	}

	return &SDK{runtime: cfg}, nil
}

// Config returns the current runtime configuration snapshot.
func (s *SDK) Config() RuntimeConfig { return s.runtime }
