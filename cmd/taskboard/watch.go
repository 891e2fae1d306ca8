package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"task-board/internal/board"
	"task-board/internal/client"
	"task-board/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Send reminders for a remote board",
	Long: `Poll the board at server_url and send deadline reminders and the daily
report, to Telegram when telegram_token is set and to the log otherwise.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := board.New(client.New(cfg.ServerURL, cfg.RequestTimeout), log)
	stopReminders, err := startReminders(ctx, cfg, b, log)
	if err != nil {
		return err
	}
	defer stopReminders()

	log.Info("watching board", zap.String("server", cfg.ServerURL))
	<-ctx.Done()
	log.Info("shutdown complete")
	return nil
}
