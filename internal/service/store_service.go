package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"task-board/internal/model"
	"task-board/internal/repository"
)

// SeedUsers are written to a fresh document: one admin and three regular
// accounts.
var SeedUsers = []model.UserInput{
	{Name: "Manager Wang", Email: "manager@example.com", Password: "123456", Role: model.RoleAdmin},
	{Name: "Sales Zhang", Email: "sales@example.com", Password: "123456", Role: model.RoleUser},
	{Name: "Finance Li", Email: "finance@example.com", Password: "123456", Role: model.RoleUser},
	{Name: "Service Zhao", Email: "service@example.com", Password: "123456", Role: model.RoleUser},
}

// StoreService owns the board document and applies named mutations to it.
// Each dispatch reads the whole document, mutates it and writes it back.
// Dispatches are serialized within the process.
type StoreService struct {
	store   repository.DocumentStore
	log     *zap.Logger
	metrics *Metrics
	now     func() time.Time
	newID   func() string

	mu sync.Mutex
}

// StoreOption customizes a StoreService.
type StoreOption func(*StoreService)

// WithClock overrides the time source used for createdAt stamps.
func WithClock(now func() time.Time) StoreOption {
	return func(s *StoreService) { s.now = now }
}

// WithIDGenerator overrides how record ids are generated.
func WithIDGenerator(newID func() string) StoreOption {
	return func(s *StoreService) { s.newID = newID }
}

func NewStoreService(store repository.DocumentStore, log *zap.Logger, opts ...StoreOption) *StoreService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &StoreService{
		store:   store,
		log:     log.Named("store"),
		metrics: NewMetrics(),
		now:     time.Now,
		newID:   newID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newID returns a time-ordered UUID.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Driver names the backing document store.
func (s *StoreService) Driver() string {
	return s.store.Name()
}

// Load returns the current document, seeding it when nothing is stored yet.
// A document that cannot be read is served as an empty one.
func (s *StoreService) Load(ctx context.Context) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.Document{}, ctxErr
		}
		s.metrics.ReadFailuresTotal.Inc()
		s.log.Warn("read document, serving empty", zap.String("driver", s.store.Name()), zap.Error(err))
		return model.EmptyDocument(), nil
	}
	return doc, nil
}

// Dispatch applies one action to the stored document, persists the result
// and returns the full document.
func (s *StoreService) Dispatch(ctx context.Context, action model.Action, payload json.RawMessage) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	label := actionLabel(action)
	doc, err := s.read(ctx)
	if err != nil {
		s.metrics.DispatchTotal.WithLabelValues(label, "error").Inc()
		return model.Document{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	next, err := s.apply(doc.Clone(), action, payload)
	if err != nil {
		result := "error"
		if IsRejection(err) {
			result = "rejected"
		}
		s.metrics.DispatchTotal.WithLabelValues(label, result).Inc()
		s.log.Info("dispatch rejected", zap.String("action", string(action)), zap.Error(err))
		return model.Document{}, err
	}

	s.write(ctx, next)
	s.metrics.DispatchTotal.WithLabelValues(label, "ok").Inc()
	s.log.Debug("dispatched", zap.String("action", string(action)))
	return next, nil
}

// read returns the stored document, creating the seeded one on first use.
func (s *StoreService) read(ctx context.Context) (model.Document, error) {
	doc, err := s.store.Read(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		doc = s.seed()
		s.write(ctx, doc)
		s.log.Info("seeded document", zap.String("driver", s.store.Name()), zap.Int("users", len(doc.Users)))
		return doc, nil
	}
	return doc, err
}

// write persists doc. Failures are logged and dropped.
func (s *StoreService) write(ctx context.Context, doc model.Document) {
	if err := s.store.Write(ctx, doc); err != nil {
		s.metrics.WriteFailuresTotal.Inc()
		s.log.Error("write document", zap.String("driver", s.store.Name()), zap.Error(err))
	}
}

func (s *StoreService) seed() model.Document {
	doc := model.EmptyDocument()
	for _, in := range SeedUsers {
		doc.Users = append(doc.Users, s.newUser(in))
	}
	return doc
}

func (s *StoreService) apply(doc model.Document, action model.Action, payload json.RawMessage) (model.Document, error) {
	switch action {
	case model.ActionAddEvent:
		return s.addEvent(doc, payload)
	case model.ActionUpdateEvent:
		return s.updateEvent(doc, payload)
	case model.ActionDeleteEvent:
		return s.deleteEvent(doc, payload)
	case model.ActionAddComment:
		return s.addComment(doc, payload)
	case model.ActionAddUser:
		return s.addUser(doc, payload)
	case model.ActionUpdateUser:
		return s.updateUser(doc, payload)
	case model.ActionDeleteUser:
		return s.deleteUser(doc, payload)
	default:
		return doc, ErrInvalidAction
	}
}

func (s *StoreService) addEvent(doc model.Document, payload json.RawMessage) (model.Document, error) {
	var in model.EventInput
	if err := decode(payload, &in); err != nil {
		return doc, err
	}
	if in.Status == "" {
		in.Status = model.StatusPending
	}
	if !in.Status.Valid() {
		return doc, fmt.Errorf("%w: %q", ErrInvalidStatus, in.Status)
	}

	doc.Events = append(doc.Events, model.Event{
		ID:               s.newID(),
		Title:            in.Title,
		Description:      in.Description,
		CreatedAt:        s.now(),
		Deadline:         in.Deadline,
		Time:             in.Time,
		Status:           in.Status,
		AssignedUserID:   in.AssignedUserID,
		ReminderEnabled:  in.ReminderEnabled,
		ReminderInterval: in.ReminderInterval,
		Comments:         json.RawMessage(`[]`),
	})
	return doc, nil
}

func (s *StoreService) updateEvent(doc model.Document, payload json.RawMessage) (model.Document, error) {
	var in model.UpdatePayload
	if err := decode(payload, &in); err != nil {
		return doc, err
	}
	for i, event := range doc.Events {
		if event.ID != in.ID {
			continue
		}
		merged, err := shallowMerge(event, in.Updates)
		if err != nil {
			return doc, err
		}
		if _, ok := in.Updates["status"]; ok && !merged.Status.Valid() {
			return doc, fmt.Errorf("%w: %q", ErrInvalidStatus, merged.Status)
		}
		doc.Events[i] = merged
	}
	return doc, nil
}

func (s *StoreService) deleteEvent(doc model.Document, payload json.RawMessage) (model.Document, error) {
	var in model.IDPayload
	if err := decode(payload, &in); err != nil {
		return doc, err
	}
	events := doc.Events[:0]
	for _, event := range doc.Events {
		if event.ID != in.ID {
			events = append(events, event)
		}
	}
	comments := doc.Comments[:0]
	for _, comment := range doc.Comments {
		if comment.EventID != in.ID {
			comments = append(comments, comment)
		}
	}
	doc.Events = events
	doc.Comments = comments
	return doc, nil
}

func (s *StoreService) addComment(doc model.Document, payload json.RawMessage) (model.Document, error) {
	var in model.CommentInput
	if err := decode(payload, &in); err != nil {
		return doc, err
	}
	doc.Comments = append(doc.Comments, model.Comment{
		ID:        s.newID(),
		EventID:   in.EventID,
		UserID:    in.UserID,
		Content:   in.Content,
		CreatedAt: s.now(),
	})
	return doc, nil
}

func (s *StoreService) addUser(doc model.Document, payload json.RawMessage) (model.Document, error) {
	var in model.UserInput
	if err := decode(payload, &in); err != nil {
		return doc, err
	}
	for _, user := range doc.Users {
		if user.Email == in.Email {
			return doc, ErrUserExists
		}
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if !in.Role.Valid() {
		return doc, fmt.Errorf("%w: unknown role %q", ErrInvalidPayload, in.Role)
	}
	doc.Users = append(doc.Users, s.newUser(in))
	return doc, nil
}

func (s *StoreService) updateUser(doc model.Document, payload json.RawMessage) (model.Document, error) {
	var in model.UpdatePayload
	if err := decode(payload, &in); err != nil {
		return doc, err
	}
	if raw, ok := in.Updates["email"]; ok {
		var email string
		if err := json.Unmarshal(raw, &email); err != nil {
			return doc, fmt.Errorf("%w: email: %v", ErrInvalidPayload, err)
		}
		if email != "" {
			for _, user := range doc.Users {
				if user.Email == email && user.ID != in.ID {
					return doc, ErrEmailExists
				}
			}
		}
	}
	for i, user := range doc.Users {
		if user.ID != in.ID {
			continue
		}
		merged, err := shallowMerge(user, in.Updates)
		if err != nil {
			return doc, err
		}
		if _, ok := in.Updates["role"]; ok && !merged.Role.Valid() {
			return doc, fmt.Errorf("%w: unknown role %q", ErrInvalidPayload, merged.Role)
		}
		doc.Users[i] = merged
	}
	return doc, nil
}

func (s *StoreService) deleteUser(doc model.Document, payload json.RawMessage) (model.Document, error) {
	var in model.IDPayload
	if err := decode(payload, &in); err != nil {
		return doc, err
	}
	users := doc.Users[:0]
	for _, user := range doc.Users {
		if user.ID != in.ID {
			users = append(users, user)
		}
	}
	doc.Users = users
	return doc, nil
}

func (s *StoreService) newUser(in model.UserInput) model.User {
	return model.User{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  in.Password,
		Role:      in.Role,
		CreatedAt: s.now(),
	}
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return fmt.Errorf("%w: missing payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// actionLabel bounds the metric label set to known actions.
func actionLabel(action model.Action) string {
	switch action {
	case model.ActionAddEvent, model.ActionUpdateEvent, model.ActionDeleteEvent,
		model.ActionAddComment, model.ActionAddUser, model.ActionUpdateUser, model.ActionDeleteUser:
		return string(action)
	}
	return "invalid"
}
