package upload

import (
	"io"

	"github.com/idlab-discover/InfraClassify-cli/internal/logging"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Upload:", PrefixColor: ui.FgGreen}

// SetLogger sets an optional destination for state transition logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(subject string, format string, args ...any) {
	logger.Logf(subject, format, args...)
}
