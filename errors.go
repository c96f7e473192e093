package koji

import "errors"

var (
	// ErrConfiguration indicates required configuration or init data is
	// missing or invalid.
	ErrConfiguration = errors.New("configuration is missing or invalid")

	// ErrState means an operation was invoked in the wrong lifecycle phase.
	ErrState = errors.New("operation not valid in current state")

	// ErrHostCall indicates that a host invocation failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the host returned an invalid or unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the host completed the call but reported a failure status.
	ErrHostError = errors.New("host returned an error status")
)
