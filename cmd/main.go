package main

import (
	"os"
	"os/signal"
	"syscall"

	"catalog_service/config"
	"catalog_service/internal/app"
	"catalog_service/pkg/db"
	"catalog_service/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const envFileFlag = "env-file"

func main() {
	cliApp := &cli.App{
		Name:  "catalog_service",
		Usage: "product catalog with inventory-consistent purchases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    envFileFlag,
				Value:   ".env",
				Usage:   "optional dotenv file loaded before the environment",
				EnvVars: []string{"ENV_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP and gRPC servers",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply database migrations and exit",
				Action: migrateDB,
			},
		},
		Action: serve,
	}

	if err := cliApp.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("catalog_service failed")
	}
}

func load(c *cli.Context) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(c.String(envFileFlag))
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.LogLevel), nil
}

func serve(c *cli.Context) error {
	cfg, log, err := load(c)
	if err != nil {
		return err
	}
	log.Info("Starting Catalog Service...")

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.StoreDriver == config.DriverPostgres {
		if err := db.Migrate(cfg.DatabaseURL, log); err != nil {
			return err
		}
	}

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		return err
	}
	log.Info("Catalog Service shut down gracefully.")
	return nil
}

func migrateDB(c *cli.Context) error {
	cfg, log, err := load(c)
	if err != nil {
		return err
	}
	if cfg.StoreDriver != config.DriverPostgres {
		log.Infof("STORE_DRIVER=%s has no schema, nothing to migrate", cfg.StoreDriver)
		return nil
	}
	return db.Migrate(cfg.DatabaseURL, log)
}
