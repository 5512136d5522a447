package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/InfraClassify-cli/internal/client"
	"github.com/idlab-discover/InfraClassify-cli/internal/notify"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
)

// DefaultEndpoint is the local development server.
const DefaultEndpoint = "http://localhost:5000/predict"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "infraclassify",
	Short: "Classify infrastructure photos as good or bad quality",
	Long:  longDescription,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
	},

	// When invoked without a subcommand, show help (with banner) instead of
	// printing a plain usage output.
	RunE: func(cmd *cobra.Command, args []string) error {
		initUIAndBanner(cmd)
		return cmd.Help()
	},
}

var (
	cfgFile  string
	version  string
	endpoint string
	logLevel string
	logFile  string
)

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// GetRootCmd returns the root command for use with fang
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.infraclassify.yaml or ./config/defaults.yaml)")
	pf.StringVar(&endpoint, "endpoint", "", "Classification endpoint URL (base URL or full /predict URL)")
	pf.StringVar(&logLevel, "log-level", "", "Log level: quiet|standard|debug")
	pf.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	viper.BindPFlag("endpoint.url", pf.Lookup("endpoint"))
	viper.BindPFlag("log-level", pf.Lookup("log-level"))
	viper.BindPFlag("log-file", pf.Lookup("log-file"))

	viper.SetDefault("endpoint.url", DefaultEndpoint)
	viper.SetDefault("endpoint.base-timeout", client.DefaultBaseTimeout)
	viper.SetDefault("endpoint.max-retries", client.DefaultMaxRetries)
	viper.SetDefault("endpoint.backoff", client.DefaultBackoff)
	viper.SetDefault("notify.duration", notify.DefaultDuration)
	viper.SetDefault("log-level", "standard")

	// Ensure `--help` (and help subcommands) show the banner consistently.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
		defaultHelp(cmd, args)
	})

	rootCmd.AddCommand(tuiCmd, classifyCmd, healthCmd)
}

func initConfig() {
	// Environment variables apply with or without a config file, e.g.
	// endpoint.base-timeout -> INFRACLASSIFY_ENDPOINT_BASE_TIMEOUT.
	viper.SetEnvPrefix("INFRACLASSIFY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		cobra.CheckErr(viper.ReadInConfig())
		printConfigUsed()
		return
	}

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	viper.AddConfigPath("./config")

	// Try .infraclassify first
	viper.SetConfigName(".infraclassify")
	err = viper.ReadInConfig()

	// If not found, try defaults.yaml
	notFound := &viper.ConfigFileNotFoundError{}
	if err != nil && errors.As(err, notFound) {
		viper.SetConfigName("defaults")
		err = viper.ReadInConfig()
	}

	switch {
	case err != nil && !errors.As(err, notFound):
		cobra.CheckErr(err)
	case err != nil:
		// The config file is optional
	default:
		printConfigUsed()
	}
}

func printConfigUsed() {
	configMsg := ui.Dim.Render("Using config file: ") + ui.Secondary.Render(viper.ConfigFileUsed())
	fmt.Fprintln(os.Stderr, configMsg)
}

const longDescription = "Classify photos of infrastructure as good or bad quality using a remote inference service. Validates the image locally, submits it with retries while the server wakes up, and shows the verdict with per-class probabilities."

func initUIAndBanner(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	cmd.Root().Long = ui.RenderGradientBanner(ui.BannerASCII) + "\n" + longDescription
}
