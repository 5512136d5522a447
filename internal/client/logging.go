package client

import (
	"io"

	"github.com/idlab-discover/InfraClassify-cli/internal/logging"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Client:", PrefixColor: ui.FgMagenta}

// SetLogger sets an optional destination for client logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

// SetDebug enables per-attempt logging.
func SetDebug(v bool) { logger.SetDebug(v) }

func logf(requestID string, format string, args ...any) {
	logger.Logf(requestID, format, args...)
}
