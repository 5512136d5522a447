package validator

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/idlab-discover/InfraClassify-cli/internal/imagefile"
)

// LogOutcome writes the decision for file to the configured logger writer.
// If no logger writer is configured, it produces no output.
func LogOutcome(file *imagefile.CandidateFile, o Outcome) {
	if !logger.Enabled() {
		return
	}
	name := ""
	if file != nil {
		name = file.Name
	}
	if o.Accepted {
		logf(name, "accepted (%s)", FormatSummary(file))
		return
	}
	logf(name, "rejected: %s (%s)", o.Reason, FormatSummary(file))
}

// FormatSummary describes a file in one line, e.g. "image/png, 1.2 MB".
func FormatSummary(file *imagefile.CandidateFile) string {
	if file == nil {
		return "no file"
	}
	return fmt.Sprintf("%s, %s", file.MediaType, humanize.Bytes(uint64(max(file.Size, 0))))
}
