package board

import (
	"context"
	"fmt"
	"strings"

	"task-board/internal/model"
)

func (b *Board) AddEvent(ctx context.Context, in model.EventInput) error {
	if err := validateEvent(in); err != nil {
		return err
	}
	doc, err := b.dispatch(ctx, model.ActionAddEvent, in)
	if err != nil {
		return fmt.Errorf("add event: %w", err)
	}
	b.setEvents(doc)
	return nil
}

func (b *Board) UpdateEvent(ctx context.Context, id string, updates Updates) error {
	if err := validateEventUpdates(updates); err != nil {
		return err
	}
	doc, err := b.dispatch(ctx, model.ActionUpdateEvent, updateRequest{ID: id, Updates: updates})
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	b.setEvents(doc)
	return nil
}

// UpdateEventStatus is UpdateEvent restricted to the status field.
func (b *Board) UpdateEventStatus(ctx context.Context, id string, status model.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return b.UpdateEvent(ctx, id, Updates{"status": status})
}

// DeleteEvent removes an event and, on the backend, its comments.
func (b *Board) DeleteEvent(ctx context.Context, id string) error {
	doc, err := b.dispatch(ctx, model.ActionDeleteEvent, model.IDPayload{ID: id})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	b.mu.Lock()
	b.events = doc.Events
	b.comments = doc.Comments
	b.mu.Unlock()
	return nil
}

// AddComment posts content as the signed-in user. Without a signed-in user
// it does nothing.
func (b *Board) AddComment(ctx context.Context, eventID, content string) error {
	user, ok := b.CurrentUser()
	if !ok {
		return nil
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	doc, err := b.dispatch(ctx, model.ActionAddComment, model.CommentInput{
		EventID: eventID,
		Content: content,
		UserID:  user.ID,
	})
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	b.mu.Lock()
	b.comments = doc.Comments
	b.mu.Unlock()
	return nil
}

func (b *Board) setEvents(doc model.Document) {
	b.mu.Lock()
	b.events = doc.Events
	b.mu.Unlock()
}
