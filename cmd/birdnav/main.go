// Command birdnav drives the Birdhouse navigation controller from a terminal
// and serves a site directory for local development.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse"
)

var (
	configPath string
	logLevel   string
	role       string
)

var rootCmd = &cobra.Command{
	Use:           "birdnav",
	Short:         "Navigate and serve Birdhouse pages",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&role, "role", "", "role of the signed-in user (none, player, staff)")

	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config and applies command-line overrides.
func loadConfig() (birdhouse.Config, error) {
	cfg, err := birdhouse.LoadConfig(configPath)
	if err != nil {
		return birdhouse.Config{}, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if role != "" {
		cfg.Role = role
	}
	if err := cfg.Validate(); err != nil {
		return birdhouse.Config{}, err
	}

	birdhouse.Init(cfg.Options())
	return cfg, nil
}

func main() {
	defer birdhouse.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "birdnav:", err)
		birdhouse.Close()
		os.Exit(1)
	}
}
