// Package bot delivers board reminders and daily reports to Telegram.
package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"task-board/internal/service"
)

// maxMessageLen is Telegram's limit for one text message.
const maxMessageLen = 4096

const helpText = "📋 <b>Task board</b>\n" +
	"I post deadline reminders and a daily report for the board.\n\n" +
	"/report - open events right now\n" +
	"/help - this message\n\n" +
	"This chat id: <code>%d</code>"

// Sender is the part of tgbotapi.BotAPI the bot needs to post messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ReportFunc builds the current report on demand.
type ReportFunc func(ctx context.Context) (string, error)

// Bot posts to one chat and answers a couple of commands.
type Bot struct {
	api    *tgbotapi.BotAPI
	sender Sender
	chatID int64
	report ReportFunc
	log    *zap.Logger
}

func New(token string, chatID int64, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	b := NewWithSender(api, chatID, log)
	b.api = api
	b.log.Info("bot authorized", zap.String("account", api.Self.UserName))
	return b, nil
}

// NewWithSender builds a bot that only sends, without polling for updates.
func NewWithSender(sender Sender, chatID int64, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{sender: sender, chatID: chatID, log: log.Named("bot")}
}

// SetReport wires the /report command.
func (b *Bot) SetReport(fn ReportFunc) {
	b.report = fn
}

// Notify posts the notifications to the configured chat, packed into as few
// messages as the length limit allows.
func (b *Bot) Notify(ctx context.Context, notes []service.Notification) error {
	if len(notes) == 0 {
		return nil
	}
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		parts = append(parts, n.Message())
	}
	for _, text := range pack(parts, "\n\n", maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.sendText(b.chatID, text); err != nil {
			return fmt.Errorf("send reminders: %w", err)
		}
	}
	b.log.Debug("reminders sent", zap.Int("count", len(notes)))
	return nil
}

// SendDigest posts the daily report. Long reports are split between
// events, never inside one.
func (b *Bot) SendDigest(ctx context.Context, text string) error {
	for _, chunk := range pack(digestBlocks(text), "\n", maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.sendText(b.chatID, chunk); err != nil {
			return fmt.Errorf("send digest: %w", err)
		}
	}
	return nil
}

// Start polls updates until ctx is cancelled. It needs a bot built by New.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("bot has no api connection")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			b.log.Warn("handle message", zap.Error(err))
		}
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Chat == nil || !msg.IsCommand() {
		return nil
	}
	switch msg.Command() {
	case "start", "help":
		return b.sendText(msg.Chat.ID, fmt.Sprintf(helpText, msg.Chat.ID))
	case "report":
		if msg.Chat.ID != b.chatID {
			return b.sendText(msg.Chat.ID, "Reports are only posted to the board chat.")
		}
		if b.report == nil {
			return b.sendText(msg.Chat.ID, "Reports are not available.")
		}
		text, err := b.report(ctx)
		if err != nil {
			b.log.Warn("build report", zap.Error(err))
			return b.sendText(msg.Chat.ID, "Could not load the board, try again later.")
		}
		return b.SendDigest(ctx, text)
	default:
		return nil
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.sender.Send(msg)
	return err
}

// digestBlocks splits a report into blocks that must stay together: one
// per event with its indented detail lines. Blank lines stick to the block
// above them.
func digestBlocks(text string) []string {
	var blocks []string
	for _, line := range strings.Split(text, "\n") {
		if len(blocks) > 0 && (line == "" || strings.HasPrefix(line, " ")) {
			blocks[len(blocks)-1] += "\n" + line
			continue
		}
		blocks = append(blocks, line)
	}
	return blocks
}

// pack joins parts with sep into messages no longer than limit runes. A
// part longer than limit is split at line breaks, or failing that outside
// HTML tags and entities.
func pack(parts []string, sep string, limit int) []string {
	var out []string
	var cur strings.Builder
	curLen := 0
	sepLen := utf8.RuneCountInString(sep)
	flush := func() {
		if curLen > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		n := utf8.RuneCountInString(part)
		if curLen > 0 && curLen+sepLen+n > limit {
			flush()
		}
		if n > limit {
			runes := []rune(part)
			for len(runes) > limit {
				cut := safeCut(runes, limit)
				if head := strings.TrimRight(string(runes[:cut]), "\n"); head != "" {
					out = append(out, head)
				}
				runes = runes[cut:]
			}
			part, n = string(runes), len(runes)
		}
		if curLen > 0 {
			cur.WriteString(sep)
			curLen += sepLen
		}
		cur.WriteString(part)
		curLen += n
	}
	flush()
	return out
}

// safeCut picks where to split runes so that the head has at most limit
// runes and does not end inside a tag or an entity.
func safeCut(runes []rune, limit int) int {
	for i := limit; i > limit/2; i-- {
		if runes[i-1] == '\n' {
			return i
		}
	}
	cut := limit
	for i := limit - 1; i >= 0; i-- {
		switch runes[i] {
		case '>', ';':
			return cut
		case '<', '&':
			if i > 0 {
				return i
			}
			return cut
		}
	}
	return cut
}
