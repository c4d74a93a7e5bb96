package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/clipdeck/internal/adapters/repo/dynamo"
	"github.com/clipdeck/internal/adapters/repo/sqldb"
	"github.com/clipdeck/internal/app"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	root := &cli.Command{
		Name:  "clipdeck",
		Usage: "Short-form video sharing API",
		Commands: []*cli.Command{
			serveCommand(logger),
			migrateCommand(logger),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func serveCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := app.LoadConfig(cmd.String("config"))
			if err != nil {
				return err
			}

			a, err := app.Wire(ctx, cfg, logger, nil)
			if err != nil {
				return fmt.Errorf("wiring application: %w", err)
			}

			server := &http.Server{
				Addr:    cfg.Server.Addr,
				Handler: a.Handler,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting",
					"addr", cfg.Server.Addr,
					"repo", cfg.Repo.Backend,
					"media", cfg.Media.Backend,
					"gate", cfg.Gate.Enabled)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logger.Info("shutting down", "signal", sig)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		},
	}
}

// migrateCommand prepares the configured repo backend out of band. serve also
// applies the SQL schema at boot, so this mostly matters for dynamo tables
// and CI pipelines that migrate before deploying.
func migrateCommand(logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Prepare the configured repo backend",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := app.LoadConfig(cmd.String("config"))
			if err != nil {
				return err
			}

			switch cfg.Repo.Backend {
			case "sql":
				db, dialect, err := sqldb.Open(cfg.Repo.DatabaseDriver, cfg.Repo.DatabaseDSN)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer db.Close()
				if err := sqldb.Migrate(ctx, db, dialect); err != nil {
					return fmt.Errorf("applying schema: %w", err)
				}
				logger.Info("schema applied", "driver", cfg.Repo.DatabaseDriver)
			case "dynamo":
				client, err := dynamo.NewClient(ctx, cfg.Media.AWSRegion, cfg.Repo.DynamoEndpoint)
				if err != nil {
					return fmt.Errorf("connecting to dynamo: %w", err)
				}
				store := dynamo.NewStore(client, cfg.Repo.DynamoTable)
				if err := store.EnsureTable(ctx); err != nil {
					return fmt.Errorf("ensuring table: %w", err)
				}
				logger.Info("table ready", "table", cfg.Repo.DynamoTable)
			default:
				logger.Info("nothing to migrate", "backend", cfg.Repo.Backend)
			}
			return nil
		},
	}
}
