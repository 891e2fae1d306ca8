package service

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
	"time"

	"task-board/internal/model"
)

// UnknownUser labels assignees whose account no longer exists.
const UnknownUser = "unknown user"

// NotificationKind distinguishes the two reminder categories.
type NotificationKind string

const (
	NotificationUpcoming NotificationKind = "upcoming"
	NotificationOverdue  NotificationKind = "overdue"
)

// Notification is one reminder raised by a scan.
type Notification struct {
	Kind        NotificationKind
	EventID     string
	Title       string
	Assignee    string
	Due         time.Time
	MinutesLeft int
}

// Message renders the notification as Telegram-compatible HTML.
func (n Notification) Message() string {
	title := html.EscapeString(strings.TrimSpace(n.Title))
	assignee := html.EscapeString(n.Assignee)
	if n.Kind == NotificationOverdue {
		return fmt.Sprintf("⚠️ <b>Event overdue</b>\n%s · assigned to %s", title, assignee)
	}
	return fmt.Sprintf("⏳ <b>Event reminder</b>\n%s · assigned to %s, %d min until deadline", title, assignee, n.MinutesLeft)
}

// UserLookup resolves a user id against the current user list.
type UserLookup func(id string) (model.User, bool)

// ReminderService turns the event list into deadline notifications and
// daily summaries. It never modifies events.
type ReminderService struct {
	loc     *time.Location
	metrics *Metrics
}

func NewReminderService(loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{loc: loc, metrics: NewMetrics()}
}

// Scan returns the notifications due at now. Events with reminders
// disabled, completed events and events without a parsable deadline are
// skipped.
func (s *ReminderService) Scan(events []model.Event, lookup UserLookup, now time.Time) []Notification {
	var out []Notification
	for _, event := range events {
		if !event.ReminderEnabled || event.Status == model.StatusCompleted {
			continue
		}
		due, err := event.Due(s.loc)
		if err != nil {
			continue
		}

		diff := due.Sub(now)
		minutes := int(math.Floor(diff.Minutes()))
		n := Notification{
			EventID:     event.ID,
			Title:       event.Title,
			Assignee:    assigneeName(lookup, event.AssignedUserID),
			Due:         due,
			MinutesLeft: minutes,
		}
		switch {
		case minutes >= 0 && minutes <= event.ReminderInterval:
			n.Kind = NotificationUpcoming
		case diff < 0:
			n.Kind = NotificationOverdue
		default:
			continue
		}
		s.metrics.RemindersTotal.WithLabelValues(string(n.Kind)).Inc()
		out = append(out, n)
	}
	return out
}

type digestItem struct {
	event  model.Event
	due    time.Time
	hasDue bool
}

// Digest builds the daily summary of open events, soonest deadline first.
func (s *ReminderService) Digest(events []model.Event, lookup UserLookup, now time.Time) string {
	var open []digestItem
	for _, event := range events {
		if event.Status == model.StatusCompleted {
			continue
		}
		item := digestItem{event: event}
		if due, err := event.Due(s.loc); err == nil {
			item.due, item.hasDue = due, true
		}
		open = append(open, item)
	}

	sort.SliceStable(open, func(i, j int) bool {
		switch {
		case !open[i].hasDue && !open[j].hasDue:
			return open[i].event.CreatedAt.After(open[j].event.CreatedAt)
		case !open[i].hasDue:
			return false
		case !open[j].hasDue:
			return true
		default:
			return open[i].due.Before(open[j].due)
		}
	})

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily report</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s\n\n", now.In(s.loc).Format("02.01.2006")))

	builder.WriteString("🔥 <b>Open events</b>\n")
	if len(open) == 0 {
		builder.WriteString("· no open events\n")
	} else {
		for _, item := range open {
			builder.WriteString(formatDigestItem(item, lookup, now))
		}
	}

	return strings.TrimSpace(builder.String())
}

func formatDigestItem(item digestItem, lookup UserLookup, now time.Time) string {
	var sb strings.Builder

	icon := "🟢"
	if item.hasDue {
		switch {
		case now.After(item.due):
			icon = "⚠️"
		case item.due.Sub(now) <= 48*time.Hour:
			icon = "⏳"
		}
	}

	title := html.EscapeString(strings.TrimSpace(item.event.Title))
	sb.WriteString(fmt.Sprintf("%s %s <i>(%s)</i>", icon, title, html.EscapeString(assigneeName(lookup, item.event.AssignedUserID))))
	if item.event.Status == model.StatusInProgress {
		sb.WriteString(" · in progress")
	}

	if item.hasDue {
		stamp := item.due.Format(model.DeadlineLayout + " " + model.TimeLayout)
		if now.After(item.due) {
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s · <b>overdue</b>", stamp))
		} else {
			daysLeft := int(item.due.Sub(now).Hours()/24) + 1
			sb.WriteString(fmt.Sprintf("\n   ⏰ due %s · about %d d left", stamp, daysLeft))
		}
	}

	if item.event.Description != "" {
		sb.WriteString(fmt.Sprintf("\n   📝 %s", html.EscapeString(strings.TrimSpace(item.event.Description))))
	}

	sb.WriteByte('\n')
	return sb.String()
}

func assigneeName(lookup UserLookup, id string) string {
	if lookup == nil {
		return UnknownUser
	}
	if user, ok := lookup(id); ok {
		return user.Name
	}
	return UnknownUser
}
