package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/InfraClassify-cli/internal/notify"
	"github.com/idlab-discover/InfraClassify-cli/internal/tui"
)

var tuiFile string

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Select, preview and classify images interactively",
	Long:  "Start the interactive classifier. Pick an image, review it, classify it and remove it to start over. Logs go to --log-file only, the terminal belongs to the program.",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	closeLogs, err := s.setupLogging(true)
	if err != nil {
		return err
	}
	defer closeLogs()

	notes := notify.NewService(notify.WithDuration(s.NotifyDuration))
	c, err := s.newClient(notes)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return tui.Run(ctx, tui.Config{
		Client:      c,
		InitialPath: viper.GetString("tui.file"),
		Notes:       notes,
	})
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiFile, "file", "f", "", "Image to preselect")
	viper.BindPFlag("tui.file", tuiCmd.Flags().Lookup("file"))
}
