package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"verbena/examples/shop/gen"
	"verbena/internal/api"
	"verbena/internal/cli"
	"verbena/internal/config"
	"verbena/internal/pg"
	"verbena/internal/runtime"
)

func main() {
	os.Exit(cli.Run(newCmd(), os.Args[1:], os.Stdout, os.Stderr))
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server [flags]",
		Short: "Serve the generated shop pages from Postgres",
		Args:  cobra.NoArgs,
	}
	flags := config.Bind(cmd, "port", "db", "auto-migrate", "log-level", "stmt-cache-size")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := flags.Resolve()
		if err != nil {
			return err
		}
		if err := cli.SetLogLevel(cfg.LogLevel); err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	}
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	if cfg.DBURL == "" {
		return errors.New("database URL is required (--db or VERBENA_DB_URL)")
	}

	// 1. База
	db, err := pg.Open(ctx, cfg.DBURL)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. Схема: только добавление таблиц и колонок
	if cfg.AutoMigrate {
		if _, err := pg.Migrate(ctx, db, gen.Tables); err != nil {
			return err
		}
	}
	logger.Info("tables:", len(gen.Tables), "pages:", len(gen.Pages))

	// 3. Кеш подготовленных запросов общий на все запросы
	sqlDB, err := runtime.NewSQLDB(db, cfg.StmtCacheSize)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	site := api.NewSite(gen.Tables, gen.Pages, gen.Dispatch, func(ctx context.Context) runtime.DB {
		return sqlDB.WithContext(ctx)
	})

	// 4. HTTP
	logger.Info("starting verbena server on :" + cfg.Port)
	return api.RunServer(ctx, ":"+cfg.Port, site)
}
