package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rickylandino/val-builder-api/config"
	"github.com/rickylandino/val-builder-api/internal/app"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "valbuilder",
	Short: "VAL builder API",
	Long: `Serves the valuation document API and renders VAL documents to PDF.

Run without a subcommand to start the HTTP service.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file read before the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, renderCmd, seedMappingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// newApp loads configuration and starts every enabled dependency.
func newApp(ctx context.Context, warmBrowser bool) (*app.App, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := a.Start(ctx, warmBrowser); err != nil {
		_ = a.Stop(context.Background())
		return nil, err
	}
	return a, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = a.Stop(context.Background()) }()

	return a.Serve(ctx)
}
