package koji

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Environment holds the per-instance configuration the platform injects
// through environment variables.
type Environment struct {
	// ProjectID identifies the hosted project instance.
	ProjectID string `env:"KOJI_PROJECT_ID"`

	// ProjectToken authenticates backend requests for the project.
	ProjectToken string `env:"KOJI_PROJECT_TOKEN"`

	// APIEndpoint is the platform REST base URL.
	APIEndpoint string `env:"KOJI_API_ENDPOINT" envDefault:"https://rest.api.gokoji.com"`

	// FrameURL is the websocket URL of the host frame for out-of-frame
	// runs. Empty means the client is embedded and talks to the frame
	// through the guest transport.
	FrameURL string `env:"KOJI_FRAME_URL"`

	// Overrides is the raw JSON override payload supplied by the hosting
	// environment, of the form {"overrides":{"remixData":{...}}}.
	Overrides string `env:"KOJI_OVERRIDES"`
}

// LoadEnvironment reads the platform configuration from environment variables.
func LoadEnvironment() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return Environment{}, fmt.Errorf("parse environment: %w", err)
	}
	return e, nil
}

// Config converts the environment into an SDK Config.
func (e Environment) Config() Config {
	return Config{
		ProjectID:    e.ProjectID,
		ProjectToken: e.ProjectToken,
		APIEndpoint:  e.APIEndpoint,
	}
}

// overridePayload mirrors the envelope the hosting environment wraps
// customization overrides in.
type overridePayload struct {
	Overrides struct {
		RemixData map[string]any `json:"remixData"`
	} `json:"overrides"`
}

// RemixOverrides extracts the customization override tree from the raw
// override payload. It returns nil when the environment supplies none.
func (e Environment) RemixOverrides() (map[string]any, error) {
	if e.Overrides == "" {
		return nil, nil
	}

	var payload overridePayload
	if err := json.Unmarshal([]byte(e.Overrides), &payload); err != nil {
		return nil, errors.Join(ErrConfiguration, fmt.Errorf("decode override payload: %w", err))
	}

	return payload.Overrides.RemixData, nil
}
