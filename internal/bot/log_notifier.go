package bot

import (
	"context"

	"go.uber.org/zap"

	"task-board/internal/service"
)

// LogNotifier writes reminders to the log when no chat is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log.Named("reminders")}
}

func (n *LogNotifier) Notify(_ context.Context, notes []service.Notification) error {
	for _, note := range notes {
		n.log.Info("event reminder",
			zap.String("kind", string(note.Kind)),
			zap.String("event_id", note.EventID),
			zap.String("title", note.Title),
			zap.String("assignee", note.Assignee),
			zap.Time("due", note.Due),
			zap.Int("minutes_left", note.MinutesLeft),
		)
	}
	return nil
}

func (n *LogNotifier) SendDigest(_ context.Context, text string) error {
	n.log.Info("daily report", zap.String("text", text))
	return nil
}
