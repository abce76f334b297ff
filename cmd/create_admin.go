package cmd

import (
	"fmt"

	"github.com/brightfold/landing-api/internal/app"
	"github.com/brightfold/landing-api/internal/config"
	"github.com/spf13/cobra"
)

var (
	createAdminUsername string
	createAdminPassword string
)

// createAdminCmd bootstraps an admin account from the command line. The
// HTTP creation endpoint requires an authenticated session, so the first
// account has to come from here.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, errLoad := config.Load(configPath)
		if errLoad != nil {
			return errLoad
		}
		if errCreate := app.CreateAdmin(cmd.Context(), cfg, createAdminUsername, createAdminPassword); errCreate != nil {
			return errCreate
		}
		fmt.Printf("admin %q created\n", createAdminUsername)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)
	createAdminCmd.Flags().StringVarP(&createAdminUsername, "username", "u", "", "admin username")
	createAdminCmd.Flags().StringVarP(&createAdminPassword, "password", "p", "", "admin password")
	_ = createAdminCmd.MarkFlagRequired("username")
	_ = createAdminCmd.MarkFlagRequired("password")
}
