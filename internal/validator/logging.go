package validator

import (
	"io"

	"github.com/idlab-discover/InfraClassify-cli/internal/logging"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

var logger = &logging.Logger{PrefixText: "Validate:", PrefixColor: ui.FgCyan, SubjectKey: "file"}

// SetLogger sets an optional destination for validator logs.
func SetLogger(w io.Writer) { logger.SetWriter(w) }

func logf(file string, format string, args ...any) {
	logger.Logf(file, format, args...)
}
