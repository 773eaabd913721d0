package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rickylandino/val-builder-api/config"
	"github.com/rickylandino/val-builder-api/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signalContext(cmd)
		defer cancel()

		cfg, err := config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		a, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = a.Stop(ctx) }()

		return a.Migrate(ctx)
	},
}
