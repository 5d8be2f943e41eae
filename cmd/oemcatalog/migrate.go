package main

import (
	"context"

	"github.com/smallbiznis/oemcatalog/internal/clock"
	"github.com/smallbiznis/oemcatalog/internal/migration"
	"github.com/smallbiznis/oemcatalog/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		var conn *gorm.DB
		return runOnce(cmd.Context(), fx.Options(infrastructure(), fx.Populate(&conn)), func(context.Context) error {
			return migration.Run(conn)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply migrations and load reference data",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			conn *gorm.DB
			clk  clock.Clock
			log  *zap.Logger
		)
		return runOnce(cmd.Context(), fx.Options(infrastructure(), fx.Populate(&conn, &clk, &log)), func(ctx context.Context) error {
			if err := migration.Run(conn); err != nil {
				return err
			}
			return seed.Run(ctx, conn, clk, log)
		})
	},
}
