package app

import (
	"github.com/spf13/cobra"

	"github.com/hrmsuite/hrms/internal/daemon"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Migrate the database and seed permissions, system roles and the bootstrap admin",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := daemon.Prepare(cmd.Context(), &cfg)

		return err
	},
}
