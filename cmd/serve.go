package cmd

import (
	"github.com/brightfold/landing-api/internal/app"
	"github.com/brightfold/landing-api/internal/config"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the landing API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, errLoad := config.Load(configPath)
		if errLoad != nil {
			return errLoad
		}
		return app.RunServer(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
