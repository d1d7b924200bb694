package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tessro/tunewave/internal/client"
	"github.com/tessro/tunewave/internal/config"
	twerrors "github.com/tessro/tunewave/internal/errors"
)

var (
	cfgFile   string
	jsonOut   bool
	verbose   bool
	serverURL string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tunewave",
	Short: "Play YouTube audio through mpv from the command line",
	Long: `tunewave runs a small HTTP service that searches YouTube, keeps a playlist
and drives a headless mpv renderer. The other commands talk to that service.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.tunewaverc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "tunewave service URL (default: http://127.0.0.1:5000)")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return twerrors.WithSuggestion(
			fmt.Errorf("%w: %v", twerrors.ErrInvalidConfig, err),
			"Check the TOML syntax, or run 'tunewave config init' to start fresh",
		)
	}

	if serverURL != "" {
		cfg.Client.Server = serverURL
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", twerrors.ErrInvalidConfig, err)
	}

	return nil
}

// newClient returns a service client for the configured server.
func newClient() *client.Client {
	c := client.New(cfg.Client.Server, cfg.Client.RequestTimeout())
	c.SetSearchTimeout(cfg.Client.SearchRequestTimeout())
	if Verbose() {
		c.SetVerbose(true, func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})
	}
	return c
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, twerrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
