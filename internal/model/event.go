package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Status is the progress state of an event.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

const (
	DeadlineLayout = "2006-01-02"
	TimeLayout     = "15:04"
)

// Event is a single task on the board.
type Event struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"createdAt"`
	Deadline         string    `json:"deadline"`
	Time             string    `json:"time"`
	Status           Status    `json:"status"`
	AssignedUserID   string    `json:"assignedUserId"`
	ReminderEnabled  bool      `json:"reminderEnabled"`
	ReminderInterval int       `json:"reminderInterval"`
	// Comments is carried through verbatim. The top-level comments
	// collection is authoritative.
	Comments json.RawMessage `json:"comments,omitempty"`

	Extra Extra `json:"-"`
}

var eventFields = declaredFields(reflect.TypeOf(Event{}))

func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	bs, err := json.Marshal(plain(e))
	if err != nil {
		return nil, err
	}
	return appendExtra(bs, e.Extra)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := undeclared(data, eventFields)
	if err != nil {
		return err
	}
	*e = Event(p)
	e.Extra = extra
	return nil
}

// Due combines Deadline and Time into an instant in loc.
func (e Event) Due(loc *time.Location) (time.Time, error) {
	due, err := time.ParseInLocation(DeadlineLayout+" "+TimeLayout, e.Deadline+" "+e.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse due of event %s: %w", e.ID, err)
	}
	return due, nil
}

// EventInput represents data required to create an event.
type EventInput struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Deadline         string `json:"deadline"`
	Time             string `json:"time"`
	Status           Status `json:"status"`
	AssignedUserID   string `json:"assignedUserId"`
	ReminderEnabled  bool   `json:"reminderEnabled"`
	ReminderInterval int    `json:"reminderInterval"`
}
