// Package infraclassify is the library entry point for classifying an
// image without the terminal front end.
package infraclassify

import (
	"context"
	"time"

	"github.com/idlab-discover/InfraClassify-cli/internal/client"
	"github.com/idlab-discover/InfraClassify-cli/internal/imagefile"
	"github.com/idlab-discover/InfraClassify-cli/internal/notify"
	"github.com/idlab-discover/InfraClassify-cli/internal/render"
	"github.com/idlab-discover/InfraClassify-cli/internal/validator"
)

// Result is the rendered classification.
type Result = render.DisplayModel

// ValidationError reports why an image was refused before upload.
type ValidationError = validator.ValidationError

// ServerError is a non-2xx answer from the service.
type ServerError = client.ServerError

var (
	// ErrTimeout is returned when every attempt timed out.
	ErrTimeout = client.ErrTimeout
	// ErrMalformedResponse is returned when the service answered 2xx with an unusable body.
	ErrMalformedResponse = client.ErrMalformedResponse
)

// MaxFileSize is the largest accepted image in bytes.
const MaxFileSize = validator.MaxFileSize

// Options configures a classification call. Endpoint is required; a zero
// BaseTimeout falls back to the client default.
type Options struct {
	Endpoint    string
	BaseTimeout time.Duration
	MaxRetries  int
	Backoff     time.Duration

	// OnNotice receives retry warnings ("info", "warning" or "error").
	OnNotice func(message, severity string)
}

// DefaultOptions returns the protocol defaults for endpoint.
func DefaultOptions(endpoint string) Options {
	o := client.DefaultOptions(endpoint)
	return Options{Endpoint: o.Endpoint, BaseTimeout: o.BaseTimeout, MaxRetries: o.MaxRetries, Backoff: o.Backoff}
}

// ClassifyFile reads, validates and classifies the image at path.
func ClassifyFile(ctx context.Context, path string, opts Options) (*Result, error) {
	file, err := imagefile.Load(path)
	if err != nil {
		return nil, err
	}
	return classify(ctx, file, opts)
}

// Classify validates and classifies an in-memory image. The media type is
// derived from name.
func Classify(ctx context.Context, name string, data []byte, opts Options) (*Result, error) {
	file := &imagefile.CandidateFile{
		Name:      name,
		MediaType: imagefile.MediaTypeFor(name),
		Size:      int64(len(data)),
		Data:      data,
	}
	return classify(ctx, file, opts)
}

func classify(ctx context.Context, file *imagefile.CandidateFile, opts Options) (*Result, error) {
	if err := validator.Validate(file).Err(); err != nil {
		return nil, err
	}

	var n notify.Notifier
	if opts.OnNotice != nil {
		n = notify.NotifierFunc(func(msg string, sev notify.Severity) { opts.OnNotice(msg, string(sev)) })
	}
	c, err := client.New(client.Options{
		Endpoint:    opts.Endpoint,
		BaseTimeout: opts.BaseTimeout,
		MaxRetries:  opts.MaxRetries,
		Backoff:     opts.Backoff,
		Notifier:    n,
	})
	if err != nil {
		return nil, err
	}

	res, err := c.Classify(ctx, file)
	if err != nil {
		return nil, err
	}
	dm := render.Render(res)
	return &dm, nil
}

// UserMessage turns an error from this package into text for end users.
func UserMessage(err error) string {
	if ve, ok := validator.AsValidation(err); ok {
		return ve.Message()
	}
	return client.UserMessage(err)
}
