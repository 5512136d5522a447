package notify

import (
	"io"

	"github.com/idlab-discover/InfraClassify-cli/internal/logging"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Notify:", PrefixColor: ui.FgYellow, SubjectKey: "severity"}

// SetLogger sets an optional destination for notification logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(severity string, format string, args ...any) {
	logger.Logf(severity, format, args...)
}
