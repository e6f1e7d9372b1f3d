// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/hrmsuite/hrms/internal/config"
	"github.com/hrmsuite/hrms/internal/logger"
)

var (
	configPath string // directory holding main.toml
	devMode    bool

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "hrms",
		Short: "HRMS is the API server of the human resources management system",
		Long: `HRMS serves the human resources JSON API: staff records, documents
and the role based access control that guards them.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Directory containing main.toml")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Enable dev mode")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if devMode {
		cfg.DevMode = true
	}

	return logger.Init(cfg.Log)
}
