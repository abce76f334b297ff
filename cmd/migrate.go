package cmd

import (
	"github.com/brightfold/landing-api/internal/app"
	"github.com/brightfold/landing-api/internal/config"
	"github.com/spf13/cobra"
)

// migrateCmd applies the database schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, errLoad := config.Load(configPath)
		if errLoad != nil {
			return errLoad
		}
		return app.Migrate(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
