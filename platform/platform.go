package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang/glog"

	koji "github.com/ruskid/koji-core"
)

// Request headers carrying the project identity on every backend call.
const (
	HeaderProjectID    = "X-Koji-Project-Id"
	HeaderProjectToken = "X-Koji-Project-Token"
)

// DefaultClient returns the hardened HTTP client backend wrappers use when
// none is provided.
func DefaultClient() *http.Client {
	dialer := &net.Dialer{
		Timeout: 5 * time.Second,
	}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// Post sends args as JSON to path under the project's API endpoint and
// decodes the JSON response body into R. The project identity rides in
// request headers. Transport failures match koji.ErrHostCall, non-2xx
// statuses match koji.ErrHostError, and undecodable bodies match
// koji.ErrHostResponseInvalid.
func Post[R any](ctx context.Context, client *http.Client, runtime koji.RuntimeConfig, path string, args any) (R, error) {
	var result R

	body, err := json.Marshal(args)
	if err != nil {
		return result, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimSuffix(runtime.APIEndpoint, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return result, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderProjectID, runtime.ProjectID)
	req.Header.Set(HeaderProjectToken, runtime.ProjectToken)

	glog.V(2).Infof("[platform] POST %s", url)

	resp, err := client.Do(req)
	if err != nil {
		return result, errors.Join(koji.ErrHostCall, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, errors.Join(koji.ErrHostResponseInvalid, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return result, errors.Join(
			koji.ErrHostError,
			fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, excerpt(raw)),
		)
	}

	if len(raw) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return result, errors.Join(koji.ErrHostResponseInvalid, err)
	}

	return result, nil
}

// excerpt bounds error bodies so platform failures stay loggable.
func excerpt(raw []byte) string {
	const limit = 512
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
