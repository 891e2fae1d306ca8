package board

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"task-board/internal/model"
)

// Register creates a regular account. The new user is not signed in.
func (b *Board) Register(ctx context.Context, in model.UserInput) error {
	in.Role = model.RoleUser
	if err := validateRegistration(in); err != nil {
		return err
	}
	if err := b.addUser(ctx, in); err != nil {
		b.log.Warn("register", zap.String("email", in.Email), zap.Error(err))
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

func (b *Board) AddUser(ctx context.Context, in model.UserInput) error {
	if err := validateUser(in); err != nil {
		return err
	}
	if err := b.addUser(ctx, in); err != nil {
		b.log.Warn("add user", zap.String("email", in.Email), zap.Error(err))
		return fmt.Errorf("add user: %w", err)
	}
	return nil
}

func (b *Board) addUser(ctx context.Context, in model.UserInput) error {
	doc, err := b.dispatch(ctx, model.ActionAddUser, in)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.users = doc.Users
	b.mu.Unlock()
	return nil
}

// UpdateUser applies updates to a user. When the user is the signed-in
// one, the session picks up the new record.
func (b *Board) UpdateUser(ctx context.Context, id string, updates Updates) error {
	if err := validateUserUpdates(updates); err != nil {
		return err
	}
	doc, err := b.dispatch(ctx, model.ActionUpdateUser, updateRequest{ID: id, Updates: updates})
	if err != nil {
		b.log.Warn("update user", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("update user: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.users = doc.Users
	if b.currentUser != nil && b.currentUser.ID == id {
		for i := range doc.Users {
			if doc.Users[i].ID == id {
				u := doc.Users[i]
				b.currentUser = &u
				break
			}
		}
	}
	return nil
}

// DeleteUser removes a user. Events and comments referencing them are kept.
func (b *Board) DeleteUser(ctx context.Context, id string) error {
	if u, ok := b.CurrentUser(); ok && u.ID == id {
		return ErrDeleteSelf
	}
	doc, err := b.dispatch(ctx, model.ActionDeleteUser, model.IDPayload{ID: id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	b.mu.Lock()
	b.users = doc.Users
	b.mu.Unlock()
	return nil
}
