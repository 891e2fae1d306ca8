package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"task-board/internal/api"
	"task-board/internal/board"
	"task-board/internal/config"
	"task-board/internal/logging"
	"task-board/internal/repository"
	"task-board/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board document over HTTP",
	Long: `Serve GET/POST /api/data backed by the configured document store.
Deadline reminders run in-process when reminder_interval is positive.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	storeSvc := service.NewStoreService(store, log)
	srv := api.NewServer(storeSvc, log, cfg.BindAddress)

	b := board.New(board.NewLocal(storeSvc), log)
	stopReminders, err := startReminders(ctx, cfg, b, log)
	if err != nil {
		return err
	}
	defer stopReminders()

	log.Info("task board started", zap.String("driver", store.Name()), zap.String("addr", cfg.BindAddress))
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

// openStore builds the configured document backend. The returned func
// releases it.
func openStore(cfg config.Config, log *zap.Logger) (repository.DocumentStore, func(), error) {
	switch cfg.DataDriver {
	case config.DriverSQLite:
		db, err := repository.NewDB(cfg.DatabaseURL, log)
		if err != nil {
			return nil, nil, fmt.Errorf("db: %w", err)
		}
		closeFn := func() {}
		if sqlDB, err := db.DB(); err == nil {
			closeFn = func() { _ = sqlDB.Close() }
		}
		return repository.NewSQLiteStore(db), closeFn, nil
	default:
		return repository.NewFileStore(cfg.DataPath), func() {}, nil
	}
}
