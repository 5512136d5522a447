// Package client submits images to the infrastructure inference service.
//
// A cold service can take minutes to answer its first request, so Classify
// runs a bounded number of attempts. Each attempt races the upload against a
// timer whose budget shrinks as retries are consumed:
//
//	attempt 1: BaseTimeout * (MaxRetries+1)
//	attempt 2: BaseTimeout * MaxRetries
//	...
//	last:      BaseTimeout
//
// Only timeouts are retried. HTTP errors, transport errors and malformed
// bodies end the call on the attempt that produced them.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/resty.v1"

	"github.com/idlab-discover/InfraClassify-cli/internal/imagefile"
	"github.com/idlab-discover/InfraClassify-cli/internal/notify"
)

const (
	DefaultBaseTimeout = 60 * time.Second
	DefaultMaxRetries  = 2
	DefaultBackoff     = 2 * time.Second

	// FormField is the multipart field the service reads the image from.
	FormField = "file"
)

// Options configures a Client.
type Options struct {
	// Endpoint is the service base URL (https://host) or the full predict
	// URL (https://host/predict).
	Endpoint    string
	BaseTimeout time.Duration
	MaxRetries  int
	Backoff     time.Duration

	// Notifier receives the retry warnings. Optional.
	Notifier notify.Notifier

	// HTTPClient is optional; it must not carry a Timeout, attempts are
	// bounded by the client's own timer.
	HTTPClient *http.Client
	UserAgent  string
}

// DefaultOptions returns the protocol defaults for endpoint.
func DefaultOptions(endpoint string) Options {
	return Options{
		Endpoint:    endpoint,
		BaseTimeout: DefaultBaseTimeout,
		MaxRetries:  DefaultMaxRetries,
		Backoff:     DefaultBackoff,
	}
}

// Client issues classification requests. It does not guard against
// concurrent Classify calls; the upload machine allows only one at a time.
type Client struct {
	opts       Options
	predictURL string
	healthURL  string
	rest       *resty.Client
	notifier   notify.Notifier

	// after is the timer used for attempt deadlines and backoff.
	after func(time.Duration) <-chan time.Time
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	predictURL, healthURL, err := resolveEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	if opts.BaseTimeout <= 0 {
		opts.BaseTimeout = DefaultBaseTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = NewHTTPClient(opts.UserAgent)
	}

	n := opts.Notifier
	if n == nil {
		n = notify.NotifierFunc(func(string, notify.Severity) {})
	}

	return &Client{
		opts:       opts,
		predictURL: predictURL,
		healthURL:  healthURL,
		rest:       resty.NewWithClient(hc),
		notifier:   n,
		after:      time.After,
	}, nil
}

// Options returns the effective options.
func (c *Client) Options() Options { return c.opts }

// PredictURL is the URL images are posted to.
func (c *Client) PredictURL() string { return c.predictURL }

// AttemptTimeout is the budget of an attempt that has remainingRetries
// retries left after it.
func AttemptTimeout(base time.Duration, remainingRetries int) time.Duration {
	if remainingRetries < 0 {
		remainingRetries = 0
	}
	return base * time.Duration(remainingRetries+1)
}

type requestIDKey struct{}

// WithRequestID attaches the id used to correlate log lines of one call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// errAttemptTimedOut marks an attempt whose timer won the race.
var errAttemptTimedOut = errors.New("attempt timed out")

// Classify submits file and returns the parsed result. See the package
// documentation for the retry protocol.
func (c *Client) Classify(ctx context.Context, file *imagefile.CandidateFile) (*Result, error) {
	if file == nil {
		return nil, errors.New("classify: no file")
	}
	id := requestID(ctx)
	maxRetries := c.opts.MaxRetries
	total := maxRetries + 1

	logf(id, "submitting %s (%d bytes, %s) to %s", file.Name, file.Size, file.MediaType, c.predictURL)

	for attempt := 0; attempt <= maxRetries; attempt++ {
		remaining := maxRetries - attempt
		timeout := AttemptTimeout(c.opts.BaseTimeout, remaining)
		logger.Debugf(id, "attempt %d/%d timeout=%s", attempt+1, total, timeout)

		start := time.Now()
		res, err := c.attempt(ctx, file, timeout)
		if err == nil {
			logf(id, "attempt %d/%d succeeded in %s", attempt+1, total, time.Since(start).Round(time.Millisecond))
			return res, nil
		}
		if !errors.Is(err, errAttemptTimedOut) {
			logf(id, "attempt %d/%d failed: %v", attempt+1, total, err)
			return nil, err
		}

		logf(id, "attempt %d/%d timed out after %s", attempt+1, total, timeout)
		if remaining == 0 {
			return nil, ErrTimeout
		}

		c.notifier.Notify(
			fmt.Sprintf("Server is waking up, retrying (attempt %d of %d)...", attempt+2, total),
			notify.Warning,
		)
		select {
		case <-c.after(c.opts.Backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	// unreachable: the loop returns on its last iteration
	return nil, ErrTimeout
}

type attemptOutcome struct {
	res *Result
	err error
}

// attempt races one upload against a timer. The losing upload is cancelled
// and drained before returning, so attempts never overlap.
func (c *Client) attempt(ctx context.Context, file *imagefile.CandidateFile, timeout time.Duration) (*Result, error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan attemptOutcome, 1)
	go func() {
		res, err := c.submit(attemptCtx, file)
		done <- attemptOutcome{res: res, err: err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-c.after(timeout):
		cancel()
		<-done
		return nil, errAttemptTimedOut
	case <-ctx.Done():
		cancel()
		<-done
		return nil, ctx.Err()
	}
}

func (c *Client) submit(ctx context.Context, file *imagefile.CandidateFile) (*Result, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetFileReader(FormField, file.Name, bytes.NewReader(file.Data)).
		Post(c.predictURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &NetworkError{Err: err}
	}
	if !resp.IsSuccess() {
		return nil, newServerError(resp.StatusCode(), resp.Body())
	}
	return DecodeResult(resp.Body())
}

// resolveEndpoint derives the predict and health URLs from the configured
// endpoint. A bare host posts to /predict; an endpoint with a path is used
// as is and the health probe lives next to it.
func resolveEndpoint(endpoint string) (predict, health string, err error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", "", errors.New("client: endpoint is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", "", fmt.Errorf("client: parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", fmt.Errorf("client: endpoint %q must be an http or https URL", endpoint)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("client: endpoint %q has no host", endpoint)
	}

	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		p = "/predict"
	}

	pu := *u
	pu.Path = p
	hu := *u
	hu.Path = path.Join(path.Dir(p), "health")
	hu.RawQuery = ""
	return pu.String(), hu.String(), nil
}
