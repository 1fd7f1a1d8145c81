package main

import (
	"fmt"

	"github.com/jhoicas/stockledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stockledger/pkg/config"
	"github.com/jhoicas/stockledger/pkg/logger"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down|status|version|redo|reset]",
		Short: "Aplica las migraciones embebidas sobre PostgreSQL",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name})

			command := "up"
			var rest []string
			if len(args) > 0 {
				command, rest = args[0], args[1:]
			}

			pool, err := postgres.NewPool(cmd.Context(), cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool, log.Component("migrate"), command, rest...); err != nil {
				return err
			}
			log.Info().Str("command", command).Msg("migraciones aplicadas")
			return nil
		},
	}
}
