package model

import "encoding/json"

// Document is the whole persisted state of the board.
type Document struct {
	Events   []Event   `json:"events"`
	Users    []User    `json:"users"`
	Comments []Comment `json:"comments"`
}

// EmptyDocument returns a document whose collections encode as empty arrays.
func EmptyDocument() Document {
	return Document{
		Events:   []Event{},
		Users:    []User{},
		Comments: []Comment{},
	}
}

// Normalize replaces missing collections with empty ones.
func (d *Document) Normalize() {
	if d.Events == nil {
		d.Events = []Event{}
	}
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Comments == nil {
		d.Comments = []Comment{}
	}
}

// Clone returns a copy whose collections do not share backing arrays with d.
func (d Document) Clone() Document {
	out := Document{
		Events:   append([]Event(nil), d.Events...),
		Users:    append([]User(nil), d.Users...),
		Comments: append([]Comment(nil), d.Comments...),
	}
	out.Normalize()
	return out
}

// Action names a mutation accepted by the store.
type Action string

const (
	ActionAddEvent    Action = "ADD_EVENT"
	ActionUpdateEvent Action = "UPDATE_EVENT"
	ActionDeleteEvent Action = "DELETE_EVENT"
	ActionAddComment  Action = "ADD_COMMENT"
	ActionAddUser     Action = "ADD_USER"
	ActionUpdateUser  Action = "UPDATE_USER"
	ActionDeleteUser  Action = "DELETE_USER"
)

// Request is the body of a dispatch call.
type Request struct {
	Action  Action          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// IDPayload addresses a single record.
type IDPayload struct {
	ID string `json:"id"`
}

// UpdatePayload carries a shallow-merge update. Only keys present in
// Updates are applied.
type UpdatePayload struct {
	ID      string                     `json:"id"`
	Updates map[string]json.RawMessage `json:"updates"`
}
