package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OK reports whether the service says its model is loaded.
func (h *HealthStatus) OK() bool {
	return h != nil && strings.EqualFold(strings.TrimSpace(h.Status), "ok")
}

// Health probes the service once, without retries. A cold service may take
// longer than BaseTimeout to answer; ctx bounds the wait.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(c.healthURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{Err: err}
	}

	if !resp.IsSuccess() {
		return nil, newServerError(resp.StatusCode(), resp.Body())
	}
	var status HealthStatus
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	logf("", "health %s: %s", status.Status, status.Message)
	return &status, nil
}

// HealthURL is the URL probed by Health.
func (c *Client) HealthURL() string { return c.healthURL }
