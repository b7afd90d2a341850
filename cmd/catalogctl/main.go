package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-catalog/catalog/config"
	"github.com/Astemirdum/library-catalog/pkg/logger"
)

func main() {
	_ = godotenv.Load() //nolint:errcheck

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Operator tooling for the library catalog",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newOverdueCmd())
	return root
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.NewLogger(cfg.Log, "catalogctl"), nil
}
