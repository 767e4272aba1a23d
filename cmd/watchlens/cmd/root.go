package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/watchlens/scraper/config"
)

// Version is reported by the health endpoint and --version
var Version = "1.0.0"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:     "watchlens",
	Short:   "watchlens collects watch auction lots and values them against the market.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
