package client

import (
	"net/http"
	"strings"
)

// DefaultUserAgent is sent when Options.UserAgent is empty.
const DefaultUserAgent = "infraclassify"

// agentTransport stamps every request with the client's User-Agent.
type agentTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *agentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)
	return t.base.RoundTrip(req)
}

// NewHTTPClient creates the *http.Client used for inference calls.
// It has no Timeout: attempt deadlines are enforced by Classify.
func NewHTTPClient(userAgent string) *http.Client {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &http.Client{Transport: &agentTransport{base: http.DefaultTransport, agent: userAgent}}
}
