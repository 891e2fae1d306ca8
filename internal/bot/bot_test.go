package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"task-board/internal/model"
	"task-board/internal/service"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func command(chatID int64, text string) *tgbotapi.Message {
	name, _, _ := strings.Cut(text, " ")
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func notes() []service.Notification {
	return []service.Notification{
		{Kind: service.NotificationUpcoming, Title: "Pay invoice", Assignee: "Finance Li", MinutesLeft: 5},
		{Kind: service.NotificationOverdue, Title: "Call <client>", Assignee: service.UnknownUser},
	}
}

func TestNotifyPacksMessages(t *testing.T) {
	sender := &fakeSender{}
	b := NewWithSender(sender, 100, nil)

	require.NoError(t, b.Notify(context.Background(), notes()))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, int64(100), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Pay invoice")
	assert.Contains(t, msg.Text, "Call &lt;client&gt;")

	require.NoError(t, b.Notify(context.Background(), nil))
	assert.Len(t, sender.sent, 1)
}

func TestNotifySendError(t *testing.T) {
	b := NewWithSender(&fakeSender{err: errors.New("forbidden")}, 1, nil)
	assert.Error(t, b.Notify(context.Background(), notes()))
	assert.Error(t, b.SendDigest(context.Background(), "report"))
}

func TestNotifyCancelled(t *testing.T) {
	sender := &fakeSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewWithSender(sender, 1, nil).Notify(ctx, notes()), context.Canceled)
	assert.Empty(t, sender.sent)
}

func TestCommands(t *testing.T) {
	sender := &fakeSender{}
	b := NewWithSender(sender, 7, nil)
	ctx := context.Background()

	require.NoError(t, b.handleMessage(ctx, command(55, "/start")))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Text, "<code>55</code>")

	require.NoError(t, b.handleMessage(ctx, command(55, "/report")))
	assert.Contains(t, sender.sent[1].Text, "only posted to the board chat")

	require.NoError(t, b.handleMessage(ctx, command(7, "/report")))
	assert.Contains(t, sender.sent[2].Text, "not available")

	b.SetReport(func(context.Context) (string, error) { return "📋 <b>Daily report</b>", nil })
	require.NoError(t, b.handleMessage(ctx, command(7, "/report")))
	assert.Equal(t, "📋 <b>Daily report</b>", sender.sent[3].Text)

	b.SetReport(func(context.Context) (string, error) { return "", errors.New("offline") })
	require.NoError(t, b.handleMessage(ctx, command(7, "/report")))
	assert.Contains(t, sender.sent[4].Text, "try again later")

	require.NoError(t, b.handleMessage(ctx, &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 7}}))
	require.NoError(t, b.handleMessage(ctx, command(7, "/unknown")))
	assert.Len(t, sender.sent, 5)
}

func TestStartWithoutAPI(t *testing.T) {
	assert.Error(t, NewWithSender(&fakeSender{}, 1, nil).Start(context.Background()))
}

func TestPack(t *testing.T) {
	assert.Nil(t, pack(nil, "\n\n", 10))
	assert.Equal(t, []string{"aaa\n\nbbb"}, pack([]string{"aaa", "bbb"}, "\n\n", 8))
	assert.Equal(t, []string{"aaa", "bbbb"}, pack([]string{"aaa", "", "bbbb"}, "\n\n", 8))
	assert.Equal(t, []string{"aaa\nbbbb"}, pack([]string{"aaa", "bbbb"}, "\n", 8))
	assert.Equal(t, []string{"abcd", "ef", "xy"}, pack([]string{"abcdef", "xy"}, "\n\n", 4))
	assert.Equal(t, []string{"ёёё"}, pack([]string{"ёёё"}, "\n", 3), "limit counts runes")
}

func TestPackOversizedPart(t *testing.T) {
	assert.Equal(t, []string{"line one", "line two"}, pack([]string{"line one\nline two"}, "\n", 12))
	assert.Equal(t, []string{"ab", "&amp;", "cd"}, pack([]string{"ab&amp;cd"}, "\n", 5))
	assert.Equal(t, []string{"ab", "<i>x", "y"}, pack([]string{"ab<i>xy"}, "\n", 4))
}

func TestDigestBlocks(t *testing.T) {
	text := "📋 <b>Daily report</b>\n🗓 01.06.2025\n\n🔥 <b>Open events</b>\n" +
		"⚠️ A <i>(Li)</i>\n   ⏰ due 2025-05-20 10:00 · <b>overdue</b>\n   📝 call\n" +
		"🟢 B <i>(Zhao)</i>"
	blocks := digestBlocks(text)
	assert.Equal(t, []string{
		"📋 <b>Daily report</b>",
		"🗓 01.06.2025\n",
		"🔥 <b>Open events</b>",
		"⚠️ A <i>(Li)</i>\n   ⏰ due 2025-05-20 10:00 · <b>overdue</b>\n   📝 call",
		"🟢 B <i>(Zhao)</i>",
	}, blocks)
	assert.Equal(t, text, strings.Join(blocks, "\n"))
}

func TestSendDigestLong(t *testing.T) {
	users := map[string]model.User{"u1": {ID: "u1", Name: "Finance Li"}}
	lookup := func(id string) (model.User, bool) {
		u, ok := users[id]
		return u, ok
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reminders := service.NewReminderService(time.UTC)

	for pad := 0; pad < 40; pad++ {
		events := make([]model.Event, 0, 120)
		for i := 0; i < 120; i++ {
			events = append(events, model.Event{
				ID:             fmt.Sprintf("e%d", i),
				Title:          fmt.Sprintf("Invoice %03d %s", i, strings.Repeat("x", pad)),
				Description:    "check & confirm",
				Deadline:       "2025-05-20",
				Time:           "10:00",
				Status:         model.StatusPending,
				AssignedUserID: "u1",
			})
		}
		digest := reminders.Digest(events, lookup, now)

		sender := &fakeSender{}
		require.NoError(t, NewWithSender(sender, 9, nil).SendDigest(context.Background(), digest))
		require.Greater(t, len(sender.sent), 1, "pad %d", pad)

		texts := make([]string, 0, len(sender.sent))
		for i, msg := range sender.sent {
			assert.LessOrEqual(t, utf8.RuneCountInString(msg.Text), maxMessageLen, "pad %d chunk %d", pad, i)
			assert.Equal(t, strings.Count(msg.Text, "<b>"), strings.Count(msg.Text, "</b>"), "pad %d chunk %d", pad, i)
			assert.Equal(t, strings.Count(msg.Text, "<i>"), strings.Count(msg.Text, "</i>"), "pad %d chunk %d", pad, i)
			texts = append(texts, msg.Text)
		}
		assert.Equal(t, digest, strings.Join(texts, "\n"), "pad %d", pad)
	}
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Notify(context.Background(), []service.Notification{
		{Kind: service.NotificationOverdue, EventID: "e1", Title: "Ship", Due: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)},
	}))
	require.NoError(t, n.SendDigest(context.Background(), "report"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "event reminder", entries[0].Message)
	assert.Equal(t, "overdue", entries[0].ContextMap()["kind"])
	assert.Equal(t, "daily report", entries[1].Message)
}
