package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-catalog/catalog/migrations"
	"github.com/Astemirdum/library-catalog/pkg/postgres"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version]",
		Short:     "Apply or inspect the catalog schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) > 0 {
				command = args[0]
			}
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			pool, err := postgres.Connect(cmd.Context(), cfg.Database.DSN(), cfg.Database.MaxConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			log.Info("running migrations", zap.String("command", command))
			return postgres.Migrate(pool, migrations.MigrationFiles, command)
		},
	}
}
