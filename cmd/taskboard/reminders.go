package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"task-board/internal/board"
	"task-board/internal/bot"
	"task-board/internal/config"
	"task-board/internal/service"
)

// startReminders schedules the reminder scan and the daily report for b.
// The returned func stops everything it started.
func startReminders(ctx context.Context, cfg config.Config, b *board.Board, log *zap.Logger) (func(), error) {
	if cfg.ReminderInterval <= 0 && cfg.DigestTime == "" {
		log.Info("reminders disabled")
		return func() {}, nil
	}

	var notifier board.Notifier = bot.NewLogNotifier(log)
	var telegram *bot.Bot
	if cfg.TelegramEnabled() {
		tg, err := bot.New(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			return nil, fmt.Errorf("bot: %w", err)
		}
		notifier, telegram = tg, tg
	}

	reminders := service.NewReminderService(time.Local)
	watcher := board.NewWatcher(b, reminders, notifier, log)

	scheduler := service.NewSchedulerService(time.Local, log)
	if cfg.ReminderInterval > 0 {
		if _, err := scheduler.ScheduleInterval("reminder scan", cfg.ReminderInterval, watcher.Scan); err != nil {
			return nil, fmt.Errorf("schedule reminders: %w", err)
		}
	}
	if cfg.DigestTime != "" {
		if _, err := scheduler.ScheduleDaily("daily report", cfg.DigestTime, watcher.Digest); err != nil {
			return nil, fmt.Errorf("schedule report: %w", err)
		}
	}
	scheduler.Start()

	stopBot := func() {}
	if telegram != nil {
		telegram.SetReport(func(ctx context.Context) (string, error) {
			if err := b.Refresh(ctx); err != nil {
				return "", err
			}
			return reminders.Digest(b.Events(), b.UserByID, time.Now()), nil
		})
		stopBot = runInBackground(ctx, telegram.Start, log)
	}

	log.Info("reminders scheduled",
		zap.Duration("interval", cfg.ReminderInterval),
		zap.String("digest_time", cfg.DigestTime),
		zap.Bool("telegram", telegram != nil),
	)
	return func() {
		scheduler.Stop()
		stopBot()
	}, nil
}

// runInBackground runs fn on its own cancellable context. The returned
// func cancels it and waits for fn to return.
func runInBackground(ctx context.Context, fn func(context.Context) error, log *zap.Logger) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("bot stopped", zap.Error(err))
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
