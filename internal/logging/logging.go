package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

// Logger is a tiny opt-in logger used across internal packages.
// When Writer is nil, logging is disabled.
//
// The output format is:
//
//	<ColoredPrefix> <SubjectKey>=<subject> <formattedMessage>\n
//
// where <subject> is trimmed and defaults to "(none)".
type Logger struct {
	Writer io.Writer

	PrefixText  string
	PrefixColor string

	// SubjectKey names the subject field. Defaults to "req".
	SubjectKey string

	// Debug enables Debugf output.
	Debug bool
}

func (l *Logger) SetWriter(w io.Writer) { l.Writer = w }

func (l *Logger) SetDebug(v bool) { l.Debug = v }

func (l *Logger) Enabled() bool { return l != nil && l.Writer != nil }

func (l *Logger) Logf(subject string, format string, args ...any) {
	if l == nil || l.Writer == nil {
		return
	}
	prefix := l.PrefixText
	if prefix == "" {
		prefix = "Log:"
	}
	if l.PrefixColor != "" {
		prefix = ui.Color(prefix, l.PrefixColor)
	}
	msg := fmt.Sprintf(format, args...)

	key := l.SubjectKey
	if key == "" {
		key = "req"
	}
	s := strings.TrimSpace(subject)
	if s == "" {
		s = "(none)"
	}
	fmt.Fprintf(l.Writer, "%s %s=%s %s\n", prefix, key, s, msg)
}

// Debugf writes only when Debug is set.
func (l *Logger) Debugf(subject string, format string, args ...any) {
	if l == nil || !l.Debug {
		return
	}
	l.Logf(subject, format, args...)
}
