package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/idlab-discover/InfraClassify-cli/internal/apperr"
	"github.com/idlab-discover/InfraClassify-cli/internal/client"
	"github.com/idlab-discover/InfraClassify-cli/internal/notify"
	"github.com/idlab-discover/InfraClassify-cli/internal/tui"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
	"github.com/idlab-discover/InfraClassify-cli/internal/upload"
	"github.com/idlab-discover/InfraClassify-cli/internal/validator"
)

// settings is the effective configuration after flags, env and config file.
type settings struct {
	Endpoint       string
	BaseTimeout    time.Duration
	MaxRetries     int
	Backoff        time.Duration
	NotifyDuration time.Duration
	LogLevel       string
	LogFile        string
}

func loadSettings() (settings, error) {
	s := settings{
		Endpoint:       strings.TrimSpace(viper.GetString("endpoint.url")),
		BaseTimeout:    viper.GetDuration("endpoint.base-timeout"),
		MaxRetries:     viper.GetInt("endpoint.max-retries"),
		Backoff:        viper.GetDuration("endpoint.backoff"),
		NotifyDuration: viper.GetDuration("notify.duration"),
		LogLevel:       strings.ToLower(strings.TrimSpace(viper.GetString("log-level"))),
		LogFile:        strings.TrimSpace(viper.GetString("log-file")),
	}
	if s.LogLevel == "" {
		s.LogLevel = "standard"
	}
	switch s.LogLevel {
	case "quiet", "standard", "debug":
		// ok
	default:
		return s, apperr.Userf("invalid --log-level %q (expected quiet|standard|debug)", s.LogLevel)
	}
	if s.Endpoint == "" {
		return s, apperr.User("no endpoint configured: set --endpoint or endpoint.url")
	}
	if s.MaxRetries < 0 {
		return s, apperr.Userf("invalid endpoint.max-retries %d (must be >= 0)", s.MaxRetries)
	}
	return s, nil
}

func (s settings) quiet() bool { return s.LogLevel == "quiet" }

func (s settings) newClient(n notify.Notifier) (*client.Client, error) {
	c, err := client.New(client.Options{
		Endpoint:    s.Endpoint,
		BaseTimeout: s.BaseTimeout,
		MaxRetries:  s.MaxRetries,
		Backoff:     s.Backoff,
		Notifier:    n,
		UserAgent:   client.DefaultUserAgent + "/" + version,
	})
	if err != nil {
		return nil, apperr.User(err.Error())
	}
	return c, nil
}

// setupLogging wires the package loggers. Debug logs go to the log file or,
// unless the terminal is owned by the interactive program, to stderr. A
// log file also receives standard-level logs.
func (s settings) setupLogging(interactive bool) (closeFn func(), err error) {
	closeFn = func() {}

	var w io.Writer
	switch {
	case s.quiet():
	case s.LogFile != "":
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closeFn, fmt.Errorf("open log file: %w", err)
		}
		ui.Init(true)
		w = f
		closeFn = func() {
			setLoggers(nil, false)
			_ = f.Close()
		}
	case s.LogLevel == "debug" && !interactive:
		w = os.Stderr
	}

	setLoggers(w, s.LogLevel == "debug")
	return closeFn, nil
}

func setLoggers(w io.Writer, debug bool) {
	client.SetLogger(w)
	client.SetDebug(debug)
	notify.SetLogger(w)
	validator.SetLogger(w)
	upload.SetLogger(w)
	tui.SetLogger(w)
}
