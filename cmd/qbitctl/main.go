package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qbit-backend/internal/common/config"
	"qbit-backend/internal/common/database"
	"qbit-backend/internal/common/logger"
	"qbit-backend/internal/store"
)

var (
	configFlag string
	rootCmd    = &cobra.Command{
		Use:           "qbitctl",
		Short:         "Admin tasks for the qbit backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Config file (defaults to configs/config.yaml lookup)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create any missing tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			pg, err := openPostgres(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pg.Close()

			if err := store.Migrate(cmd.Context(), pg.DB); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "schema up to date")
			return nil
		},
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFlag != "" {
		return config.LoadFromFile(configFlag)
	}
	return config.Load()
}

func openPostgres(ctx context.Context, cfg *config.Config) (*database.PostgresClient, error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, fmt.Errorf("postgres unreachable: %w", err)
	}
	return pg, nil
}

func cliLogger(cfg *config.Config) logger.Logger {
	return logger.NewStructured(cfg.Logging.Level, "console", "stderr")
}
