package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/fang"

	"github.com/idlab-discover/InfraClassify-cli/internal/apperr"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

// ErrorHandler prints command errors for fang. User and initialization
// errors are a single status line; a cancelled prompt prints nothing.
// Everything else goes through fang's default handler.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	switch {
	case errors.Is(err, apperr.ErrCancelled):
		return
	case apperr.IsUser(err), apperr.IsInitialization(err):
		fmt.Fprintln(w, ui.FormatStatus("error", err.Error()))
	default:
		fang.DefaultErrorHandler(w, styles, err)
	}
}
