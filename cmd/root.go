package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd is the base command for the landing-api binary.
var rootCmd = &cobra.Command{
	Use:   "landing-api",
	Short: "Landing page content backend",
	Long:  "HTTP backend serving public landing-page content and a session-authenticated admin dashboard.",
}

// Execute runs the CLI with a signal-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the config file")
}
