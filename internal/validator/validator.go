// Package validator decides whether a candidate image may be submitted.
package validator

import (
	"github.com/idlab-discover/InfraClassify-cli/internal/imagefile"
)

// MaxFileSize is the largest accepted upload, 5 MiB.
const MaxFileSize int64 = 5 * 1024 * 1024

// AllowedMediaTypes are the declared types the service accepts.
var AllowedMediaTypes = []string{"image/jpeg", "image/png", "image/webp"}

// Reason explains a rejection.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnreadable
	ReasonTooLarge
	ReasonUnsupportedType
)

func (r Reason) String() string {
	switch r {
	case ReasonUnreadable:
		return "Unreadable"
	case ReasonTooLarge:
		return "TooLarge"
	case ReasonUnsupportedType:
		return "UnsupportedType"
	default:
		return "None"
	}
}

// Outcome is Accepted, or Rejected with a Reason.
type Outcome struct {
	Accepted bool
	Reason   Reason
}

// Accepted is the outcome of a valid file.
func Accepted() Outcome { return Outcome{Accepted: true} }

// Rejected is the outcome of an invalid file.
func Rejected(r Reason) Outcome { return Outcome{Reason: r} }

// Err returns nil for an accepted file and a *ValidationError otherwise.
func (o Outcome) Err() error {
	if o.Accepted {
		return nil
	}
	return &ValidationError{Reason: o.Reason}
}

// Validate applies the acceptance rules in order; the first failure wins:
// the file must be present, at most MaxFileSize bytes, and of an allowed
// declared media type.
func Validate(file *imagefile.CandidateFile) Outcome {
	if file == nil {
		return Rejected(ReasonUnreadable)
	}
	if file.Size > MaxFileSize {
		return Rejected(ReasonTooLarge)
	}
	if !allowedType(file.MediaType) {
		return Rejected(ReasonUnsupportedType)
	}
	return Accepted()
}

func allowedType(mediaType string) bool {
	for _, t := range AllowedMediaTypes {
		if t == mediaType {
			return true
		}
	}
	return false
}
