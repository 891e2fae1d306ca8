package board

import (
	"context"
	"time"

	"go.uber.org/zap"

	"task-board/internal/service"
)

// Notifier delivers reminder notifications and daily digests.
type Notifier interface {
	Notify(ctx context.Context, notes []service.Notification) error
	SendDigest(ctx context.Context, text string) error
}

// Watcher refreshes a board and turns its events into notifications. It
// never writes.
type Watcher struct {
	board     *Board
	reminders *service.ReminderService
	notifier  Notifier
	now       func() time.Time
	log       *zap.Logger
}

func NewWatcher(b *Board, reminders *service.ReminderService, notifier Notifier, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		board:     b,
		reminders: reminders,
		notifier:  notifier,
		now:       time.Now,
		log:       log.Named("watcher"),
	}
}

// Scan reloads the board and sends upcoming and overdue notifications.
func (w *Watcher) Scan(ctx context.Context) error {
	if err := w.board.Refresh(ctx); err != nil {
		return err
	}
	notes := w.reminders.Scan(w.board.Events(), w.board.UserByID, w.now())
	if len(notes) == 0 {
		return nil
	}
	w.log.Debug("reminders due", zap.Int("count", len(notes)))
	return w.notifier.Notify(ctx, notes)
}

// Digest reloads the board and sends the daily summary.
func (w *Watcher) Digest(ctx context.Context) error {
	if err := w.board.Refresh(ctx); err != nil {
		return err
	}
	return w.notifier.SendDigest(ctx, w.reminders.Digest(w.board.Events(), w.board.UserByID, w.now()))
}
