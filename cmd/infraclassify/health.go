package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/InfraClassify-cli/internal/client"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

var healthTimeout time.Duration

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the classification service is up and its model is loaded",
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	closeLogs, err := s.setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLogs()

	c, err := s.newClient(nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := viper.GetDuration("health.timeout")
	if timeout <= 0 {
		timeout = s.BaseTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var spinner *ui.SimpleSpinner
	if !s.quiet() {
		spinner = ui.NewSimpleSpinner(cmd.ErrOrStderr(), "Checking "+ui.Secondary.Render(c.HealthURL()))
		spinner.Start()
	}
	status, err := c.Health(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		err = client.ErrTimeout
	}
	if err == nil && !status.OK() {
		err = fmt.Errorf("service reported status %q: %s", status.Status, status.Message)
	}
	if spinner != nil {
		if err != nil {
			spinner.Stop(false, client.UserMessage(err))
		} else {
			spinner.Stop(true, "Service is healthy")
		}
	}
	if err != nil {
		return err
	}

	if !s.quiet() && status.Message != "" {
		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatKeyValue("Message", status.Message))
	}
	return nil
}

func init() {
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 0, "Give up after this long (default endpoint.base-timeout)")
	viper.BindPFlag("health.timeout", healthCmd.Flags().Lookup("timeout"))
}
