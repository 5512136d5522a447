package validator

import "errors"

// ValidationError reports why a file was rejected. It is handled where the
// file is chosen and never fails a classification.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return "file rejected: " + e.Reason.String()
}

// Message is the text shown to the user.
func (e *ValidationError) Message() string {
	switch e.Reason {
	case ReasonTooLarge:
		return "File is too large. Maximum size is 5MB."
	case ReasonUnsupportedType:
		return "Unsupported file type. Please choose a JPEG, PNG or WebP image."
	default:
		return "Could not read the selected file."
	}
}

// AsValidation returns the *ValidationError in err's chain, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
