package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hrmsuite/hrms/internal/config"
)

var dumpJSON bool

func init() { //nolint: gochecknoinits
	configCmd.Flags().BoolVar(&dumpJSON, "json", false, "Print JSON instead of TOML")

	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Print the effective configuration with secrets masked",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		masked := cfg.Masked()

		dump := config.DumpConfig
		if dumpJSON {
			dump = config.DumpConfigJSON
		}

		out, err := dump(&masked)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), out)

		return err
	},
}
