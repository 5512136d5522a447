package tui

import (
	"io"

	"github.com/idlab-discover/InfraClassify-cli/internal/logging"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "TUI:", PrefixColor: ui.FgCyan, SubjectKey: "path"}

// SetLogger sets an optional destination for front end logs. The program
// owns the terminal, so this should be a file or nil.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(subject string, format string, args ...any) {
	logger.Logf(subject, format, args...)
}
