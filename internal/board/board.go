// Package board keeps an in-memory copy of the board document together with
// the signed-in session. Every mutation is a round trip to a Backend whose
// response replaces the affected collections wholesale.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"task-board/internal/model"
	"task-board/internal/service"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrDeleteSelf = errors.New("cannot delete the signed-in user")
)

// Updates is a shallow-merge update keyed by JSON field name.
type Updates map[string]any

type updateRequest struct {
	ID      string  `json:"id"`
	Updates Updates `json:"updates"`
}

type Board struct {
	backend Backend
	log     *zap.Logger

	mu            sync.RWMutex
	events        []model.Event
	users         []model.User
	comments      []model.Comment
	currentUser   *model.User
	authenticated bool
	loading       bool
}

func New(backend Backend, log *zap.Logger) *Board {
	if log == nil {
		log = zap.NewNop()
	}
	return &Board{
		backend:  backend,
		log:      log.Named("board"),
		events:   []model.Event{},
		users:    []model.User{},
		comments: []model.Comment{},
	}
}

func (b *Board) Events() []model.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]model.Event(nil), b.events...)
}

func (b *Board) Users() []model.User {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]model.User(nil), b.users...)
}

func (b *Board) Comments() []model.Comment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]model.Comment(nil), b.comments...)
}

// CurrentUser returns the signed-in user, if any.
func (b *Board) CurrentUser() (model.User, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.currentUser == nil {
		return model.User{}, false
	}
	return *b.currentUser, true
}

func (b *Board) IsAuthenticated() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.authenticated
}

// Loading is true only while Load is fetching the document.
func (b *Board) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// Load fetches the whole document and replaces all three collections. A
// failure is logged and leaves the collections as they were.
func (b *Board) Load(ctx context.Context) {
	b.mu.Lock()
	b.loading = true
	b.mu.Unlock()

	if err := b.Refresh(ctx); err != nil {
		b.log.Warn("load document", zap.Error(err))
	}

	b.mu.Lock()
	b.loading = false
	b.mu.Unlock()
}

// Refresh is Load without the loading flag, returning the failure instead
// of logging it.
func (b *Board) Refresh(ctx context.Context) error {
	doc, err := b.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("fetch document: %w", err)
	}
	doc.Normalize()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = doc.Events
	b.users = doc.Users
	b.comments = doc.Comments
	return nil
}

// Login looks the user up by email or name in the cached users. It never
// contacts the backend.
func (b *Board) Login(identifier, password string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		u := b.users[i]
		if (u.Email == identifier || u.Name == identifier) && u.Password == password {
			b.currentUser = &u
			b.authenticated = true
			return true
		}
	}
	return false
}

func (b *Board) Logout() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.currentUser = nil
	b.authenticated = false
}

// UserByID looks a user up in the cache.
func (b *Board) UserByID(id string) (model.User, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, u := range b.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

// UserName resolves id to a display name.
func (b *Board) UserName(id string) string {
	if u, ok := b.UserByID(id); ok {
		return u.Name
	}
	return service.UnknownUser
}

// EventComments returns the comments of one event in creation order.
func (b *Board) EventComments(eventID string) []model.Comment {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []model.Comment
	for _, c := range b.comments {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out
}

func (b *Board) dispatch(ctx context.Context, action model.Action, payload any) (model.Document, error) {
	doc, err := b.backend.Dispatch(ctx, action, payload)
	if err != nil {
		return model.Document{}, err
	}
	doc.Normalize()
	return doc, nil
}
