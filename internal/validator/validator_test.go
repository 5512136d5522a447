package validator

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/idlab-discover/InfraClassify-cli/internal/imagefile"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

func file(size int64, mediaType string) *imagefile.CandidateFile {
	return &imagefile.CandidateFile{Name: "x", Size: size, MediaType: mediaType}
}

func TestValidate_NilFileIsUnreadable(t *testing.T) {
	o := Validate(nil)
	if o.Accepted || o.Reason != ReasonUnreadable {
		t.Fatalf("Validate(nil) = %+v, want Rejected(Unreadable)", o)
	}
}

func TestValidate_TooLargeRegardlessOfType(t *testing.T) {
	for _, mt := range []string{"image/png", "image/jpeg", "image/webp", "image/gif", "text/plain", ""} {
		for _, size := range []int64{MaxFileSize + 1, 10 * MaxFileSize} {
			o := Validate(file(size, mt))
			if o.Accepted || o.Reason != ReasonTooLarge {
				t.Fatalf("Validate(%d, %q) = %+v, want Rejected(TooLarge)", size, mt, o)
			}
		}
	}
}

func TestValidate_UnsupportedTypeRegardlessOfSize(t *testing.T) {
	for _, mt := range []string{"image/gif", "image/bmp", "application/pdf", "application/octet-stream", "IMAGE/PNG", ""} {
		for _, size := range []int64{0, 1, 1024, MaxFileSize} {
			o := Validate(file(size, mt))
			if o.Accepted || o.Reason != ReasonUnsupportedType {
				t.Fatalf("Validate(%d, %q) = %+v, want Rejected(UnsupportedType)", size, mt, o)
			}
		}
	}
}

func TestValidate_BoundaryIsAccepted(t *testing.T) {
	o := Validate(file(5_242_880, "image/png"))
	if !o.Accepted {
		t.Fatalf("5 MiB png rejected: %+v", o)
	}
	if o.Err() != nil {
		t.Fatalf("accepted outcome must not carry an error")
	}
}

func TestValidate_AllowedTypes(t *testing.T) {
	for _, mt := range AllowedMediaTypes {
		if o := Validate(file(2_000_000, mt)); !o.Accepted {
			t.Fatalf("%s rejected: %+v", mt, o)
		}
	}
}

func TestOutcome_ErrAndMessages(t *testing.T) {
	tests := []struct {
		reason Reason
		want   string
	}{
		{ReasonTooLarge, "Maximum size is 5MB"},
		{ReasonUnsupportedType, "JPEG, PNG or WebP"},
		{ReasonUnreadable, "Could not read"},
	}
	for _, tt := range tests {
		err := fmt.Errorf("select: %w", Rejected(tt.reason).Err())
		ve, ok := AsValidation(err)
		if !ok {
			t.Fatalf("%s: expected a ValidationError in %v", tt.reason, err)
		}
		if ve.Reason != tt.reason {
			t.Fatalf("reason = %s, want %s", ve.Reason, tt.reason)
		}
		if !strings.Contains(ve.Message(), tt.want) {
			t.Fatalf("%s message = %q", tt.reason, ve.Message())
		}
	}
	if _, ok := AsValidation(errors.New("plain")); ok {
		t.Fatalf("plain error must not be a ValidationError")
	}
}

func TestLogOutcome(t *testing.T) {
	ui.Init(true)
	var buf bytes.Buffer
	SetLogger(&buf)
	defer SetLogger(nil)

	LogOutcome(&imagefile.CandidateFile{Name: "a.gif", MediaType: "image/gif", Size: 2048}, Rejected(ReasonUnsupportedType))
	out := buf.String()
	if !strings.Contains(out, "file=a.gif") || !strings.Contains(out, "rejected: UnsupportedType") || !strings.Contains(out, "image/gif, 2.0 kB") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestFormatSummary(t *testing.T) {
	if got := FormatSummary(nil); got != "no file" {
		t.Fatalf("FormatSummary(nil) = %q", got)
	}
	if got := FormatSummary(file(2_000_000, "image/jpeg")); got != "image/jpeg, 2.0 MB" {
		t.Fatalf("FormatSummary = %q", got)
	}
}
