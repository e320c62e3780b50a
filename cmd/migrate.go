package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-live/internal/config"
	"github.com/Taichi-iskw/yt-live/internal/repository/common"
)

// migrateCmd applies the database migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Create or upgrade the profile, subscription and live cache tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if err := common.RunMigrations(cfg.DatabaseURL); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Database is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
